package strategy

import (
	"math"
	"time"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
)

var day0 = time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

func seriesOf(ticker string, bars []contracts.PriceBar) contracts.PriceSeries {
	return contracts.PriceSeries{Ticker: ticker, Interval: contracts.Interval1d, Bars: bars}
}

func flatDaily(n int, close, volume float64) []contracts.PriceBar {
	bars := make([]contracts.PriceBar, n)
	for i := range bars {
		bars[i] = contracts.PriceBar{
			Date:   day0.AddDate(0, 0, i),
			Open:   close,
			High:   close + 1,
			Low:    close - 1,
			Close:  close,
			Volume: volume,
		}
	}
	return bars
}

// healthyDaily is a liquid, gently rising series with green candles
func healthyDaily(n int) []contracts.PriceBar {
	bars := make([]contracts.PriceBar, n)
	for i := range bars {
		c := 1000*(1+0.004*float64(i)) + 15*math.Sin(float64(i)/2)
		open := c * 0.99
		bars[i] = contracts.PriceBar{
			Date:   day0.AddDate(0, 0, i),
			Open:   open,
			High:   c * 1.005,
			Low:    open * 0.995,
			Close:  c,
			Volume: 2e7 + 1e6*float64(i%5),
		}
	}
	bars[n-1].Volume = 6e7
	return bars
}

// minuteBars ramps from open to open+rise over n one-minute bars
func minuteBars(n int, open, rise, volume float64) []contracts.PriceBar {
	start := day0.Add(2 * time.Hour)
	bars := make([]contracts.PriceBar, n)
	prev := open
	for i := range bars {
		c := open + rise*float64(i+1)/float64(n)
		bars[i] = contracts.PriceBar{
			Date:   start.Add(time.Duration(i) * time.Minute),
			Open:   prev,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: volume,
		}
		prev = c
	}
	return bars
}

func metricNames(r *contracts.ScreenerResult) []string {
	names := make([]string, len(r.Metrics))
	for i, m := range r.Metrics {
		names[i] = m.Name
	}
	return names
}
