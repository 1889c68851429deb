package screener

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
	"github.com/Tonxzz/Main-Screener/internal/strategy"
	"github.com/Tonxzz/Main-Screener/internal/strategyconfig"
	"github.com/Tonxzz/Main-Screener/pkg/logger"
)

var day0 = time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

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

// risingDaily is a liquid uptrend with green candles
func risingDaily(n int, slope float64) []contracts.PriceBar {
	bars := make([]contracts.PriceBar, n)
	for i := range bars {
		c := 1000*(1+slope*float64(i)) + 15*math.Sin(float64(i)/2)
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

// fakeProvider serves fixed daily bars; unknown tickers fail
type fakeProvider struct {
	mu     sync.Mutex
	series map[string][]contracts.PriceBar
	block  map[string]bool // wait for cancellation
	calls  int
}

func (p *fakeProvider) Fetch(ctx context.Context, ticker string, period contracts.Period, interval contracts.Interval) (contracts.PriceSeries, error) {
	p.mu.Lock()
	p.calls++
	bars, ok := p.series[ticker]
	blocked := p.block[ticker]
	p.mu.Unlock()

	if blocked {
		<-ctx.Done()
		return contracts.PriceSeries{}, ctx.Err()
	}
	if !ok || interval != contracts.Interval1d {
		return contracts.PriceSeries{}, fmt.Errorf("no data for %s %s", ticker, interval)
	}
	return contracts.PriceSeries{Ticker: ticker, Interval: interval, Bars: bars}, nil
}

type fixedRegime contracts.MarketRegime

func (r fixedRegime) Current(ctx context.Context) contracts.MarketRegime {
	return contracts.MarketRegime(r)
}

type countingRecorder struct {
	mu         sync.Mutex
	outcomes   map[string]int
	rejections map[string]int
	fetches    int
	scans      int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{outcomes: map[string]int{}, rejections: map[string]int{}}
}

func (r *countingRecorder) RecordEvaluation(strategy, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes[outcome]++
}

func (r *countingRecorder) RecordRejection(strategy, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejections[reason]++
}

func (r *countingRecorder) ObserveFetch(interval string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetches++
}

func (r *countingRecorder) ObserveScan(strategy string, d time.Duration, byTier map[string]int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scans++
}

func newTestOrchestrator(p contracts.SeriesProvider, workers int) *Orchestrator {
	registry := strategy.NewRegistry(strategyconfig.Default())
	return NewOrchestrator(registry, p, fixedRegime{Label: contracts.RegimeBull},
		Config{Workers: workers, FetchTimeout: time.Second}, logger.NewNop())
}

func tickersOf(results []contracts.ScreenerResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Ticker
	}
	return out
}
