package contracts

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidSeries is returned when bars are not strictly ordered by date
var ErrInvalidSeries = errors.New("invalid price series")

// PriceBar is one OHLCV bar
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries is the ordered bar history of one ticker
// ⭐ SSOT: every provider hands bars to the engine in this shape
type PriceSeries struct {
	Ticker   string     `json:"ticker"`
	Interval Interval   `json:"interval"`
	Bars     []PriceBar `json:"bars"`
}

// Len returns the number of bars
func (s PriceSeries) Len() int {
	return len(s.Bars)
}

// Empty reports whether the series has no bars
func (s PriceSeries) Empty() bool {
	return len(s.Bars) == 0
}

// Last returns the most recent bar; ok is false on an empty series
func (s PriceSeries) Last() (PriceBar, bool) {
	if len(s.Bars) == 0 {
		return PriceBar{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}

// At returns the bar at i, counting from the end when i is negative
func (s PriceSeries) At(i int) (PriceBar, bool) {
	if i < 0 {
		i += len(s.Bars)
	}
	if i < 0 || i >= len(s.Bars) {
		return PriceBar{}, false
	}
	return s.Bars[i], true
}

// Head returns a view of the first n bars
func (s PriceSeries) Head(n int) PriceSeries {
	if n > len(s.Bars) {
		n = len(s.Bars)
	}
	if n < 0 {
		n = 0
	}
	return PriceSeries{Ticker: s.Ticker, Interval: s.Interval, Bars: s.Bars[:n]}
}

// Opens returns the open column
func (s PriceSeries) Opens() []float64 {
	return s.column(func(b PriceBar) float64 { return b.Open })
}

// Highs returns the high column
func (s PriceSeries) Highs() []float64 {
	return s.column(func(b PriceBar) float64 { return b.High })
}

// Lows returns the low column
func (s PriceSeries) Lows() []float64 {
	return s.column(func(b PriceBar) float64 { return b.Low })
}

// Closes returns the close column
func (s PriceSeries) Closes() []float64 {
	return s.column(func(b PriceBar) float64 { return b.Close })
}

// Volumes returns the volume column
func (s PriceSeries) Volumes() []float64 {
	return s.column(func(b PriceBar) float64 { return b.Volume })
}

func (s PriceSeries) column(pick func(PriceBar) float64) []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = pick(b)
	}
	return out
}

// Validate checks that dates are strictly increasing
func (s PriceSeries) Validate() error {
	for i := 1; i < len(s.Bars); i++ {
		if !s.Bars[i].Date.After(s.Bars[i-1].Date) {
			return fmt.Errorf("%w: %s bar %d at %s is not after %s", ErrInvalidSeries,
				s.Ticker, i, s.Bars[i].Date.Format(time.RFC3339), s.Bars[i-1].Date.Format(time.RFC3339))
		}
	}
	return nil
}

// Period is a lookback window understood by the provider
type Period string

const (
	Period1D Period = "1d"
	Period5D Period = "5d"
	Period1M Period = "1mo"
	Period3M Period = "3mo"
	Period6M Period = "6mo"
	Period1Y Period = "1y"
	Period2Y Period = "2y"
)

// Interval is the bar granularity
type Interval string

const (
	Interval1m Interval = "1m"
	Interval1d Interval = "1d"
)

// SeriesProvider fetches OHLCV history for a ticker
type SeriesProvider interface {
	Fetch(ctx context.Context, ticker string, period Period, interval Interval) (PriceSeries, error)
}

// IndicatorSnapshot maps indicator name to its latest value; NaN is undefined
type IndicatorSnapshot map[string]float64

// Get returns the value for name, NaN when absent
func (s IndicatorSnapshot) Get(name string) float64 {
	v, ok := s[name]
	if !ok {
		return math.NaN()
	}
	return v
}
