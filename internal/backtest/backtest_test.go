package backtest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
	"github.com/Tonxzz/Main-Screener/internal/strategy"
	"github.com/Tonxzz/Main-Screener/pkg/logger"
)

var day0 = time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

func linear(ticker string, n int, first, step float64) contracts.PriceSeries {
	bars := make([]contracts.PriceBar, n)
	for i := range bars {
		c := first + step*float64(i)
		bars[i] = contracts.PriceBar{Date: day0.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 1e6}
	}
	return contracts.PriceSeries{Ticker: ticker, Interval: contracts.Interval1d, Bars: bars}
}

// scripted marks fixed tickers READY with fixed scores and records the
// last bar it was shown
type scripted struct {
	strategy.Strategy
	ready map[string]float64
	seen  []time.Time
}

func (s *scripted) ID() string   { return "scripted" }
func (s *scripted) Tiered() bool { return true }
func (s *scripted) Requirements() strategy.Requirements {
	return strategy.Requirements{DailyPeriod: contracts.Period1Y, MinBars: 3}
}

func (s *scripted) Evaluate(in strategy.Input) contracts.Outcome {
	last, _ := in.Daily.Last()
	s.seen = append(s.seen, last.Date)

	score, ok := s.ready[in.Ticker]
	if !ok {
		return contracts.Emit(contracts.ScreenerResult{Ticker: in.Ticker, Tier: contracts.TierWait, Decision: "WAIT"})
	}
	return contracts.Emit(contracts.ScreenerResult{Ticker: in.Ticker, Tier: contracts.TierReady, Decision: "READY", Score: score})
}

func histories() map[string]contracts.PriceSeries {
	return map[string]contracts.PriceSeries{
		"UP.JK":   linear("UP.JK", 20, 100, 1),
		"DOWN.JK": linear("DOWN.JK", 20, 100, -2),
		"FLAT.JK": linear("FLAT.JK", 20, 100, 0),
	}
}

func TestRunTopPick(t *testing.T) {
	strat := &scripted{ready: map[string]float64{"UP.JK": 2, "DOWN.JK": 1}}
	cfg := Config{TopN: 1, HoldDays: 5, CostBps: 0, VaRLevel: 0.95}

	result, err := NewEngine(strat, cfg, logger.NewNop()).Run(context.Background(), histories())
	require.NoError(t, err)

	assert.Equal(t, 4, result.SignalDays)
	assert.Equal(t, 3, result.Tickers)
	require.Len(t, result.Trades, 3, "the last signal day has no exit bar")

	first := result.Trades[0]
	assert.Equal(t, "UP.JK", first.Ticker)
	assert.Equal(t, day0.AddDate(0, 0, 2), first.EntryDate)
	assert.Equal(t, day0.AddDate(0, 0, 7), first.ExitDate)
	assert.InDelta(t, 5.0/102, first.NetReturn, 1e-12)

	assert.Equal(t, 1.0, result.WinRate)
	assert.InDelta(t, 15.0/102, result.TotalReturn, 1e-9)
	assert.Zero(t, result.MaxDrawdown)
	assert.Len(t, result.EquityCurve, 4)
	assert.Zero(t, result.TailRisk.VaR)
}

func TestRunWithCostsAndLosers(t *testing.T) {
	strat := &scripted{ready: map[string]float64{"UP.JK": 2, "DOWN.JK": 1}}
	cfg := Config{TopN: 2, HoldDays: 5, CostBps: 30, VaRLevel: 0.95}

	result, err := NewEngine(strat, cfg, logger.NewNop()).Run(context.Background(), histories())
	require.NoError(t, err)

	require.Len(t, result.Trades, 6)
	assert.InDelta(t, 0.5, result.WinRate, 1e-12)
	assert.InDelta(t, -0.0382722078, result.MeanReturn, 1e-9)
	assert.InDelta(t, -0.1105393488, result.TotalReturn, 1e-9)
	assert.InDelta(t, 0.1105393488, result.MaxDrawdown, 1e-9)
	assert.Greater(t, result.TailRisk.VaR, 0.1)
}

func TestRunNeverLooksAhead(t *testing.T) {
	strat := &scripted{ready: map[string]float64{"UP.JK": 1}}

	_, err := NewEngine(strat, Config{TopN: 1, HoldDays: 5}, logger.NewNop()).Run(context.Background(), histories())
	require.NoError(t, err)

	signalDays := map[time.Time]bool{}
	for _, d := range []int{2, 7, 12, 17} {
		signalDays[day0.AddDate(0, 0, d)] = true
	}
	require.Len(t, strat.seen, 12)
	for _, last := range strat.seen {
		assert.True(t, signalDays[last], "evaluated with bars up to %s", last)
	}
}

func TestRunSkipsNonReady(t *testing.T) {
	strat := &scripted{}

	result, err := NewEngine(strat, Config{TopN: 3, HoldDays: 2, Step: 1}, logger.NewNop()).Run(context.Background(), histories())
	require.NoError(t, err)

	assert.Equal(t, 18, result.SignalDays)
	assert.Empty(t, result.Trades)
	assert.Zero(t, result.TotalReturn)
	assert.Zero(t, result.WinRate)
}

func TestRunValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"no picks", Config{TopN: 0, HoldDays: 5}},
		{"no hold", Config{TopN: 5, HoldDays: 0}},
		{"negative cost", Config{TopN: 5, HoldDays: 5, CostBps: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine(&scripted{}, tt.cfg, logger.NewNop()).Run(context.Background(), histories())
			assert.Error(t, err)
		})
	}
}

func TestRunEmptyAndCancelled(t *testing.T) {
	engine := NewEngine(&scripted{}, DefaultConfig(), logger.NewNop())

	result, err := engine.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, result.SignalDays)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = engine.Run(ctx, histories())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimulatorWeighting(t *testing.T) {
	sim := NewSimulator(0, 0.5)
	entry := contracts.PriceBar{Date: day0, Close: 100}
	exit := contracts.PriceBar{Date: day0.AddDate(0, 0, 5), Close: 110}

	sim.Close(day0, []Trade{sim.Open("A.JK", entry, exit)})
	sim.Close(day0.AddDate(0, 0, 1), nil)

	stats := sim.Stats()
	assert.Equal(t, 1, stats.Trades)
	assert.InDelta(t, 0.05, stats.TotalReturn, 1e-12)
	assert.Len(t, sim.Curve(), 2)
	assert.Zero(t, sim.Curve()[1].Return)
}

type mapProvider map[string]contracts.PriceSeries

func (m mapProvider) Fetch(ctx context.Context, ticker string, period contracts.Period, interval contracts.Interval) (contracts.PriceSeries, error) {
	s, ok := m[ticker]
	if !ok {
		return contracts.PriceSeries{}, errors.New("not found")
	}
	return s, nil
}

func TestLoadSkipsFailures(t *testing.T) {
	provider := mapProvider(histories())

	got, err := Load(context.Background(), provider, []string{"UP.JK", "GONE.JK", "FLAT.JK"}, contracts.Period1Y, 2, logger.NewNop())
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Contains(t, got, "UP.JK")
	assert.NotContains(t, got, "GONE.JK")
}

func TestRunSignalWindow(t *testing.T) {
	strat := &scripted{ready: map[string]float64{"UP.JK": 1}}
	cfg := Config{TopN: 1, HoldDays: 2, From: day0.AddDate(0, 0, 10), To: day0.AddDate(0, 0, 14)}

	result, err := NewEngine(strat, cfg, logger.NewNop()).Run(context.Background(), histories())
	require.NoError(t, err)

	// signal days 10, 12 and 14
	assert.Equal(t, 3, result.SignalDays)
	require.Len(t, result.Trades, 3)
	assert.Equal(t, day0.AddDate(0, 0, 10), result.Trades[0].EntryDate)
}
