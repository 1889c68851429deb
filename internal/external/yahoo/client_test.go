package yahoo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
	"github.com/Tonxzz/Main-Screener/pkg/config"
	"github.com/Tonxzz/Main-Screener/pkg/httputil"
	"github.com/Tonxzz/Main-Screener/pkg/logger"
)

const dailyChart = `{
  "chart": {
    "result": [{
      "meta": {"symbol": "BBCA.JK", "exchangeTimezoneName": "Asia/Jakarta"},
      "timestamp": [1735779600, 1735866000, 1736125200],
      "indicators": {"quote": [{
        "open":   [9700, null, 9800],
        "high":   [9800, 9850, 9900],
        "low":    [9650, 9700, 9750],
        "close":  [9750, 9800, 9875],
        "volume": [12000000, 9000000, null]
      }]}
    }],
    "error": null
  }
}`

func newTestClient(baseURL string) *Client {
	cfg := &config.Config{Env: "development"}
	log := logger.NewNop()
	return NewClient(httputil.New(cfg, log).DisableRetry(), log, baseURL)
}

func TestParseChartDropsNullRows(t *testing.T) {
	series, err := parseChart("BBCA.JK", contracts.Interval1d, []byte(dailyChart))
	require.NoError(t, err)

	require.Equal(t, 2, series.Len())
	assert.Equal(t, []float64{9750, 9875}, series.Closes())
	assert.Equal(t, []float64{12000000, 0}, series.Volumes())

	first := series.Bars[0]
	assert.Equal(t, 0, first.Date.Hour())
	assert.Equal(t, "Asia/Jakarta", first.Date.Location().String())
}

// Jan 6 08:00 WIB daily row followed by a 10:30 WIB live quote
const liveSessionChart = `{
  "chart": {
    "result": [{
      "meta": {"symbol": "BBCA.JK", "exchangeTimezoneName": "Asia/Jakarta"},
      "timestamp": [1735779600, 1736125200, 1736134200],
      "indicators": {"quote": [{
        "open":   [9700, 9800, 9810],
        "high":   [9800, 9900, 9950],
        "low":    [9650, 9750, 9700],
        "close":  [9750, 9875, 9925],
        "volume": [12000000, 5000000, 8000000]
      }]}
    }],
    "error": null
  }
}`

func TestParseChartMergesLiveDailyBar(t *testing.T) {
	series, err := parseChart("BBCA.JK", contracts.Interval1d, []byte(liveSessionChart))
	require.NoError(t, err)
	require.Equal(t, 2, series.Len())

	last := series.Bars[1]
	assert.Equal(t, 6, last.Date.Day())
	assert.Equal(t, 0, last.Date.Hour())
	assert.Equal(t, 9800.0, last.Open)
	assert.Equal(t, 9950.0, last.High)
	assert.Equal(t, 9700.0, last.Low)
	assert.Equal(t, 9925.0, last.Close)
	assert.Equal(t, 8000000.0, last.Volume)
	assert.Equal(t, 9750.0, series.Bars[0].Close)

	intraday, err := parseChart("BBCA.JK", contracts.Interval1m, []byte(liveSessionChart))
	require.NoError(t, err)
	assert.Equal(t, 3, intraday.Len())
}

func TestParseChartErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		noData bool
	}{
		{"api error", `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`, true},
		{"empty result", `{"chart":{"result":[],"error":null}}`, true},
		{"all rows null", `{"chart":{"result":[{"timestamp":[1],"indicators":{"quote":[{"open":[null],"high":[null],"low":[null],"close":[null],"volume":[null]}]}}]}}`, true},
		{"malformed json", `{"chart":`, false},
		{"duplicate timestamps", `{"chart":{"result":[{"timestamp":[1735779600,1735779600,1735866000],"indicators":{"quote":[{"open":[1,1,1],"high":[1,1,1],"low":[1,1,1],"close":[1,1,1],"volume":[1,1,1]}]}}]}}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseChart("XXXX.JK", contracts.Interval1d, []byte(tt.body))
			require.Error(t, err)
			assert.Equal(t, tt.noData, errors.Is(err, ErrNoData))
		})
	}
}

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/BBCA.JK", r.URL.Path)
		assert.Equal(t, "6mo", r.URL.Query().Get("range"))
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		w.Write([]byte(dailyChart))
	}))
	defer server.Close()

	series, err := newTestClient(server.URL).Fetch(context.Background(), "BBCA.JK", contracts.Period6M, contracts.Interval1d)
	require.NoError(t, err)
	assert.Equal(t, "BBCA.JK", series.Ticker)
	assert.Equal(t, contracts.Interval1d, series.Interval)
	assert.Equal(t, 2, series.Len())
}

func TestFetchNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Fetch(context.Background(), "GONE.JK", contracts.Period1M, contracts.Interval1d)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestFetchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Fetch(context.Background(), "BBRI.JK", contracts.Period1M, contracts.Interval1d)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoData))
}
