package yahoo

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
	_ "time/tzdata"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
)

// chartResponse is the column-oriented layout of /v8/finance/chart
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Meta struct {
		Symbol               string `json:"symbol"`
		ExchangeTimezoneName string `json:"exchangeTimezoneName"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []quote `json:"quote"`
	} `json:"indicators"`
}

// quote columns; nulls mark bars without trades
type quote struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*float64 `json:"volume"`
}

// parseChart flattens the quote columns into one bar per timestamp.
// Rows with a null price are dropped; a null volume counts as zero.
func parseChart(ticker string, interval contracts.Interval, body []byte) (contracts.PriceSeries, error) {
	var resp chartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return contracts.PriceSeries{}, fmt.Errorf("decode chart %s: %w", ticker, err)
	}

	if resp.Chart.Error != nil {
		return contracts.PriceSeries{}, fmt.Errorf("%w: %s: %s", ErrNoData, ticker, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Indicators.Quote) == 0 {
		return contracts.PriceSeries{}, fmt.Errorf("%w: %s", ErrNoData, ticker)
	}

	result := resp.Chart.Result[0]
	q := result.Indicators.Quote[0]
	loc := location(result.Meta.ExchangeTimezoneName)

	bars := make([]contracts.PriceBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		open, okO := at(q.Open, i)
		high, okH := at(q.High, i)
		low, okL := at(q.Low, i)
		closePrice, okC := at(q.Close, i)
		if !okO || !okH || !okL || !okC {
			continue
		}
		volume, _ := at(q.Volume, i)

		date := time.Unix(ts, 0).In(loc)
		if interval == contracts.Interval1d {
			date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
		}

		bars = append(bars, contracts.PriceBar{
			Date:   date,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: volume,
		})
	}

	if len(bars) == 0 {
		return contracts.PriceSeries{}, fmt.Errorf("%w: %s", ErrNoData, ticker)
	}
	if interval == contracts.Interval1d {
		bars = mergeLiveBar(bars)
	}

	series := contracts.PriceSeries{Ticker: ticker, Interval: interval, Bars: bars}
	if err := series.Validate(); err != nil {
		return contracts.PriceSeries{}, err
	}
	return series, nil
}

// mergeLiveBar folds the live quote Yahoo appends during an open session
// into the daily bar of the same date. The later row is the fresher
// cumulative snapshot.
func mergeLiveBar(bars []contracts.PriceBar) []contracts.PriceBar {
	n := len(bars)
	if n < 2 || !bars[n-1].Date.Equal(bars[n-2].Date) {
		return bars
	}

	prev, live := bars[n-2], bars[n-1]
	merged := contracts.PriceBar{
		Date:   prev.Date,
		Open:   prev.Open,
		High:   math.Max(prev.High, live.High),
		Low:    math.Min(prev.Low, live.Low),
		Close:  live.Close,
		Volume: math.Max(prev.Volume, live.Volume),
	}
	out := bars[:n-1]
	out[n-2] = merged
	return out
}

func at(col []*float64, i int) (float64, bool) {
	if i >= len(col) || col[i] == nil {
		return 0, false
	}
	return *col[i], true
}

// location resolves the exchange timezone, falling back to Jakarta
func location(name string) *time.Location {
	if name == "" {
		name = "Asia/Jakarta"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
