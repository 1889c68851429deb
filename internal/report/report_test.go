package report

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
	"github.com/Tonxzz/Main-Screener/internal/strategy"
	"github.com/Tonxzz/Main-Screener/pkg/logger"
)

var generated = time.Date(2025, 3, 14, 9, 5, 0, 0, time.UTC)

func swingTable() *contracts.ResultTable {
	return &contracts.ResultTable{
		Strategy:    strategy.KeySwing,
		GeneratedAt: generated,
		Tiered:      true,
		Columns:     []string{"Close", "VWMA_Dist_%", "TrendOK"},
		Results: []contracts.ScreenerResult{
			{
				Ticker: "BBCA.JK", Score: 100, Decision: "READY", Tier: contracts.TierReady,
				ReasonCodes: []string{"VWMA+", "VOL+"}, Rank: 1, RankReady: 1,
				Metrics: []contracts.Metric{
					{Name: "Close", Value: 9875},
					{Name: "VWMA_Dist_%", Value: 1.234},
					{Name: "TrendOK", Text: "True"},
				},
			},
			{
				Ticker: "GOTO.JK", Score: 0, Decision: "AVOID_LOWPRICE", Tier: contracts.TierAvoid,
				ReasonCodes: []string{"LOWPRICE"}, Rank: 2,
				Metrics: []contracts.Metric{
					{Name: "Close", Value: 60},
					{Name: "VWMA_Dist_%", Value: math.NaN()},
				},
			},
		},
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name        string
		timestamped bool
		want        string
	}{
		{"daily", false, "idx_swing_daily_20250314.csv"},
		{"intraday", true, "idx_swing_daily_20250314_0905.csv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FileName("idx_swing_daily", generated, tt.timestamped))
		})
	}
}

func TestHeader(t *testing.T) {
	assert.Equal(t,
		[]string{"Rank", "Ticker", "Close", "VWMA_Dist_%", "TrendOK", "Score", "Decision", "Reasons", "Rank_READY"},
		Header(swingTable()))

	untiered := &contracts.ResultTable{Columns: []string{"Close"}}
	assert.Equal(t, []string{"Rank", "Ticker", "Close", "Score", "Reasons"}, Header(untiered))

	untiered.Results = []contracts.ScreenerResult{{Ticker: "X", Decision: "WATCH"}}
	assert.Contains(t, Header(untiered), "Decision")
}

func TestRecords(t *testing.T) {
	rows := Records(swingTable(), "|")
	require.Len(t, rows, 2)

	assert.Equal(t, []string{"1", "BBCA.JK", "9875.00", "1.23", "True", "100", "READY", "VWMA+|VOL+", "1"}, rows[0])
	// NaN and absent metrics print empty
	assert.Equal(t, []string{"2", "GOTO.JK", "60.00", "", "", "0", "AVOID_LOWPRICE", "LOWPRICE", ""}, rows[1])
}

func TestExportAndReadLatest(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, logger.NewNop()).WithLocation(time.UTC)

	older := swingTable()
	older.GeneratedAt = generated.AddDate(0, 0, -1)
	older.Results = older.Results[:1]
	_, err := w.Export(older, strategy.Output{FilePrefix: "idx_swing_daily", ReasonSep: "|"})
	require.NoError(t, err)

	path, err := w.Export(swingTable(), strategy.Output{FilePrefix: "idx_swing_daily", ReasonSep: "|"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "idx_swing_daily_20250314.csv"), path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "temp files are cleaned up")

	table, err := ReadLatest(dir, "idx_swing_daily", "Ticker", "Decision", "Rank_READY")
	require.NoError(t, err)
	assert.Equal(t, path, table.Path)
	assert.Equal(t, []string{"BBCA.JK", "GOTO.JK"}, table.Column("Ticker"))
	assert.Equal(t, "VWMA+|VOL+", table.Rows[0]["Reasons"])
}

func TestExportEmptyTable(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, logger.NewNop()).WithLocation(time.UTC)

	table := &contracts.ResultTable{GeneratedAt: generated, Columns: []string{"Close"}}
	_, err := w.Export(table, strategy.Output{FilePrefix: "bsjp_results", ReasonSep: ", "})
	require.NoError(t, err)

	loaded, err := ReadLatest(dir, "bsjp_results", "Ticker")
	require.NoError(t, err)
	assert.Empty(t, loaded.Rows)
}

func TestReadLatestErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadLatest(dir, "ultimate_results")
	assert.ErrorIs(t, err, ErrNoReport)

	w := NewWriter(dir, logger.NewNop()).WithLocation(time.UTC)
	_, err = w.Export(swingTable(), strategy.Output{FilePrefix: "idx_swing_daily", ReasonSep: "|"})
	require.NoError(t, err)

	_, err = ReadLatest(dir, "idx_swing_daily", "Ticker", "RS_Rating")
	assert.ErrorIs(t, err, ErrMissingColumns)
}
