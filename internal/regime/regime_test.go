package regime

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
	"github.com/Tonxzz/Main-Screener/pkg/logger"
	"github.com/Tonxzz/Main-Screener/pkg/redis"
)

var day0 = time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

// benchmark holds the index flat at base and puts last on the final bar
func benchmark(n int, base, last float64) contracts.PriceSeries {
	bars := make([]contracts.PriceBar, n)
	for i := range bars {
		c := base
		if i == n-1 {
			c = last
		}
		bars[i] = contracts.PriceBar{Date: day0.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 1}
	}
	return contracts.PriceSeries{Ticker: BenchmarkSymbol, Bars: bars}
}

// closeAtRatio solves c = ratio * EMA200 when the prior history is flat at base
func closeAtRatio(base, ratio float64) float64 {
	alpha := 2.0 / 201.0
	return ratio * base * (1 - alpha) / (1 - ratio*alpha)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
		want  contracts.RegimeLabel
	}{
		{"ten percent above", 1.10, contracts.RegimeBull},
		{"two percent above", 1.02, contracts.RegimeBullWeak},
		{"two percent below", 0.98, contracts.RegimeBearWeak},
		{"ten percent below", 0.90, contracts.RegimeBear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Classify(benchmark(250, 7000, closeAtRatio(7000, tt.ratio)), day0)
			assert.Equal(t, tt.want, r.Label)
			assert.InDelta(t, (tt.ratio-1)*100, r.DistancePct, 0.01)
		})
	}
}

func TestClassifyInsufficientHistory(t *testing.T) {
	r := Classify(benchmark(199, 7000, 7700), day0)
	assert.Equal(t, contracts.RegimeUnknown, r.Label)
	assert.False(t, r.IsKnown())
}

func TestAdjust(t *testing.T) {
	tests := []struct {
		label contracts.RegimeLabel
		want  float64
	}{
		{contracts.RegimeBull, 11},
		{contracts.RegimeBullWeak, 10.5},
		{contracts.RegimeBearWeak, 9.5},
		{contracts.RegimeBear, 8.5},
		{contracts.RegimeUnknown, 10},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Adjust(10, contracts.MarketRegime{Label: tt.label}), 1e-9, string(tt.label))
	}
}

type fakeProvider struct {
	calls  atomic.Int32
	series contracts.PriceSeries
	err    error
}

func (p *fakeProvider) Fetch(ctx context.Context, ticker string, period contracts.Period, interval contracts.Interval) (contracts.PriceSeries, error) {
	p.calls.Add(1)
	if p.err != nil {
		return contracts.PriceSeries{}, p.err
	}
	return p.series, nil
}

func newTestService(p contracts.SeriesProvider, clock *time.Time) *Service {
	cache := redis.NewCache(redis.Disabled(), "test")
	svc := NewService(p, cache, time.Hour, logger.NewNop())
	svc.now = func() time.Time { return *clock }
	return svc
}

func TestServiceCachesWithinTTL(t *testing.T) {
	clock := day0
	p := &fakeProvider{series: benchmark(250, 7000, closeAtRatio(7000, 1.10))}
	svc := newTestService(p, &clock)

	_, ok := svc.Peek()
	assert.False(t, ok)

	first := svc.Current(context.Background())
	assert.Equal(t, contracts.RegimeBull, first.Label)

	clock = clock.Add(30 * time.Minute)
	assert.Equal(t, first, svc.Current(context.Background()))
	assert.Equal(t, int32(1), p.calls.Load())

	clock = clock.Add(time.Hour)
	svc.Current(context.Background())
	assert.Equal(t, int32(2), p.calls.Load())
}

func TestServiceFetchFailureIsUnknown(t *testing.T) {
	clock := day0
	p := &fakeProvider{err: errors.New("connection reset")}
	svc := newTestService(p, &clock)

	r := svc.Current(context.Background())
	assert.Equal(t, contracts.RegimeUnknown, r.Label)

	// failures are retried sooner than the regular TTL
	clock = clock.Add(failureTTL + time.Second)
	p.err = nil
	p.series = benchmark(250, 7000, closeAtRatio(7000, 0.90))
	assert.Equal(t, contracts.RegimeBear, svc.Current(context.Background()).Label)
}

func TestServiceRefreshReplacesSnapshot(t *testing.T) {
	clock := day0
	p := &fakeProvider{series: benchmark(250, 7000, closeAtRatio(7000, 1.10))}
	svc := newTestService(p, &clock)

	require.Equal(t, contracts.RegimeBull, svc.Current(context.Background()).Label)

	p.series = benchmark(250, 7000, closeAtRatio(7000, 0.98))
	assert.Equal(t, contracts.RegimeBearWeak, svc.Refresh(context.Background()).Label)

	cached, ok := svc.Peek()
	require.True(t, ok)
	assert.Equal(t, contracts.RegimeBearWeak, cached.Label)
}

func TestServiceConcurrentReaders(t *testing.T) {
	clock := day0
	p := &fakeProvider{series: benchmark(250, 7000, closeAtRatio(7000, 1.02))}
	svc := newTestService(p, &clock)

	var wg sync.WaitGroup
	labels := make([]contracts.RegimeLabel, 16)
	for i := range labels {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			labels[i] = svc.Current(context.Background()).Label
		}(i)
	}
	wg.Wait()

	for _, l := range labels {
		assert.Equal(t, contracts.RegimeBullWeak, l)
	}
	assert.GreaterOrEqual(t, p.calls.Load(), int32(1))
}
