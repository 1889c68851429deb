package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
	"github.com/Tonxzz/Main-Screener/internal/universe"
	"github.com/Tonxzz/Main-Screener/pkg/config"
)

func TestUniverseFlagsResolve(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "tickers.txt")
	require.NoError(t, os.WriteFile(file, []byte("tlkm\n# comment\nasii, bbca\n"), 0o644))

	lq45, err := universe.Resolve("LQ45")
	require.NoError(t, err)

	tests := []struct {
		name  string
		flags universeFlags
		cfg   config.ScreenerConfig
		want  []string
	}{
		{
			name:  "tickers win over everything",
			flags: universeFlags{tickers: []string{"bbri", "BBRI.JK"}, file: file, categories: []string{"LQ45"}},
			want:  []string{"BBRI.JK"},
		},
		{
			name:  "file",
			flags: universeFlags{file: file, categories: []string{"LQ45"}},
			want:  []string{"ASII.JK", "BBCA.JK", "TLKM.JK"},
		},
		{
			name:  "category",
			flags: universeFlags{categories: []string{"LQ45"}},
			want:  lq45,
		},
		{
			name: "configured list",
			cfg:  config.ScreenerConfig{Universe: []string{"goto"}, UniverseFile: file},
			want: []string{"GOTO.JK"},
		},
		{
			name: "configured file",
			cfg:  config.ScreenerConfig{UniverseFile: file},
			want: []string{"ASII.JK", "BBCA.JK", "TLKM.JK"},
		},
		{
			name: "expanded by default",
			want: universe.ExpandedUniverse(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.flags.resolve(&config.Config{Screener: tt.cfg})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUniverseFlagsUnknownCategory(t *testing.T) {
	_, err := universeFlags{categories: []string{"NOPE"}}.resolve(&config.Config{})
	assert.ErrorIs(t, err, universe.ErrUnknownCategory)
}

func TestFormatCountsSorted(t *testing.T) {
	got := formatCounts(map[string]int{"WAIT": 3, "AVOID": 1, "READY": 2})
	assert.Equal(t, "AVOID=1 READY=2 WAIT=3", got)
}

func TestRenderRows(t *testing.T) {
	rows := []contracts.ScreenerResult{
		{
			Ticker: "BBCA.JK", Score: 87.5, Decision: "READY", Rank: 1,
			ReasonCodes: []string{"TREND_OK", "VOL_SPIKE"},
			Metrics:     []contracts.Metric{{Name: "OBV_Signal", Text: "Bullish"}},
		},
		{Ticker: "TLKM.JK", Score: 61.25, Decision: "WAIT", Rank: 2},
	}

	tests := []struct {
		name   string
		tiered bool
		want   []string
		absent []string
	}{
		{
			name:   "tiered",
			tiered: true,
			want:   []string{"BBCA.JK", "TLKM.JK", "87.50", "61.25", "READY", "WAIT", "Bullish", "TREND_OK,VOL_SPIKE"},
		},
		{
			name:   "untiered drops the decision column",
			tiered: false,
			want:   []string{"BBCA.JK", "87.50", "Bullish"},
			absent: []string{"READY", "WAIT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			table := &contracts.ResultTable{Tiered: tt.tiered, Columns: []string{"OBV_Signal"}, Results: rows}
			renderRows(&buf, table, rows)

			out := buf.String()
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			for _, a := range tt.absent {
				assert.NotContains(t, out, a)
			}
			assert.Less(t, strings.Index(out, "BBCA.JK"), strings.Index(out, "TLKM.JK"))
		})
	}
}

func TestParseDay(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)

	zero, err := parseDay("", loc)
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	day, err := parseDay("2025-03-14", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, loc), day)

	_, err = parseDay("14/03/2025", loc)
	assert.Error(t, err)
}
