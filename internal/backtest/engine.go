// Package backtest replays a strategy over frozen daily histories.
package backtest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
	"github.com/Tonxzz/Main-Screener/internal/regime"
	"github.com/Tonxzz/Main-Screener/internal/risk"
	"github.com/Tonxzz/Main-Screener/internal/screener"
	"github.com/Tonxzz/Main-Screener/internal/strategy"
	"github.com/Tonxzz/Main-Screener/pkg/logger"
)

// Config holds walk-forward configuration
type Config struct {
	TopN     int     // picks per signal day
	HoldDays int     // bars held after entry
	Step     int     // days between signal days; defaults to HoldDays
	CostBps  float64 // round-trip cost in basis points
	VaRLevel float64 // confidence for trade tail risk

	// Optional signal window; earlier bars still feed indicators
	From time.Time
	To   time.Time
}

// DefaultConfig returns the validator defaults
func DefaultConfig() Config {
	return Config{TopN: 5, HoldDays: 5, Step: 5, CostBps: 30, VaRLevel: 0.95}
}

func (c Config) validate() error {
	if c.TopN <= 0 {
		return fmt.Errorf("top_n must be positive, got %d", c.TopN)
	}
	if c.HoldDays <= 0 {
		return fmt.Errorf("hold_days must be positive, got %d", c.HoldDays)
	}
	if c.CostBps < 0 {
		return fmt.Errorf("cost_bps must not be negative, got %.2f", c.CostBps)
	}
	return nil
}

// Result holds backtest results
type Result struct {
	Strategy    string
	Config      Config
	StartDate   time.Time
	EndDate     time.Time
	SignalDays  int
	Tickers     int
	Trades      []Trade
	WinRate     float64
	MeanReturn  float64 // net, per trade
	TotalReturn float64 // compounded over the equity curve
	MaxDrawdown float64
	TailRisk    risk.TailRisk
	EquityCurve []EquityPoint
}

// Engine runs walk-forward simulations
// ⭐ SSOT: strategy validation over history runs here
type Engine struct {
	strategy  strategy.Strategy
	overlay   risk.Overlay
	benchmark *contracts.PriceSeries
	cfg       Config
	logger    *logger.Logger
}

// NewEngine creates a new backtest engine
func NewEngine(strat strategy.Strategy, cfg Config, log *logger.Logger) *Engine {
	if cfg.Step <= 0 {
		cfg.Step = cfg.HoldDays
	}
	return &Engine{
		strategy: strat,
		overlay:  risk.NewOverlay(),
		cfg:      cfg,
		logger:   log.Module("backtest"),
	}
}

// WithBenchmark enables a per-day regime and relative strength
func (e *Engine) WithBenchmark(series contracts.PriceSeries) *Engine {
	e.benchmark = &series
	return e
}

// WithRisk sets the overlay handed to the strategy
func (e *Engine) WithRisk(overlay risk.Overlay) *Engine {
	e.overlay = overlay
	return e
}

// Run replays the strategy. On every signal day each ticker sees only the
// bars up to that day; picks enter at that close and exit HoldDays bars
// later. Picks without enough future bars are not traded.
func (e *Engine) Run(ctx context.Context, histories map[string]contracts.PriceSeries) (*Result, error) {
	if err := e.cfg.validate(); err != nil {
		return nil, err
	}

	tickers := make([]string, 0, len(histories))
	for t := range histories {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	dates := tradingDates(histories)
	result := &Result{
		Strategy: e.strategy.ID(),
		Config:   e.cfg,
		Tickers:  len(tickers),
	}
	if len(dates) == 0 {
		return result, nil
	}
	result.StartDate, result.EndDate = dates[0], dates[len(dates)-1]

	e.logger.WithFields(map[string]interface{}{
		"strategy":  e.strategy.ID(),
		"tickers":   len(tickers),
		"days":      len(dates),
		"top_n":     e.cfg.TopN,
		"hold_days": e.cfg.HoldDays,
	}).Info("Starting backtest")

	sim := NewSimulator(e.cfg.CostBps, float64(e.cfg.Step)/float64(e.cfg.HoldDays))

	start := max(e.strategy.Requirements().MinBars-1, 0)
	if !e.cfg.From.IsZero() {
		start = max(start, sort.Search(len(dates), func(i int) bool { return !dates[i].Before(e.cfg.From) }))
	}
	for d := start; d < len(dates); d += e.cfg.Step {
		if !e.cfg.To.IsZero() && dates[d].After(e.cfg.To) {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		day := dates[d]
		picks := e.pick(day, tickers, histories)
		result.SignalDays++

		var cohort []Trade
		for _, p := range picks {
			series := histories[p.Ticker]
			i := barIndex(series, day)
			if i+e.cfg.HoldDays >= series.Len() {
				continue
			}
			entry, exit := series.Bars[i], series.Bars[i+e.cfg.HoldDays]
			cohort = append(cohort, sim.Open(p.Ticker, entry, exit))
		}
		sim.Close(day, cohort)
	}

	stats := sim.Stats()
	result.Trades = sim.Trades()
	result.EquityCurve = sim.Curve()
	result.WinRate = stats.WinRate
	result.MeanReturn = stats.MeanReturn
	result.TotalReturn = stats.TotalReturn
	result.MaxDrawdown = stats.MaxDrawdown
	result.TailRisk = risk.HistoricalVaR(netReturns(result.Trades), e.cfg.VaRLevel)

	e.logger.WithFields(map[string]interface{}{
		"signal_days":  result.SignalDays,
		"trades":       len(result.Trades),
		"win_rate":     fmt.Sprintf("%.2f%%", result.WinRate*100),
		"total_return": fmt.Sprintf("%.2f%%", result.TotalReturn*100),
		"max_drawdown": fmt.Sprintf("%.2f%%", result.MaxDrawdown*100),
	}).Info("Backtest completed")

	return result, nil
}

// pick evaluates every ticker that traded on day and returns the top picks
func (e *Engine) pick(day time.Time, tickers []string, histories map[string]contracts.PriceSeries) []contracts.ScreenerResult {
	in := strategy.Input{Risk: e.overlay, Regime: contracts.UnknownRegime(day)}
	if e.benchmark != nil {
		if i := barIndex(*e.benchmark, day); i >= 0 {
			bench := e.benchmark.Head(i + 1)
			in.Benchmark = &bench
			in.Regime = regime.Classify(bench, day)
		}
	}

	var candidates []contracts.ScreenerResult
	for _, ticker := range tickers {
		series := histories[ticker]
		i := barIndex(series, day)
		if i < 0 || !series.Bars[i].Date.Equal(day) {
			continue
		}

		in.Ticker = ticker
		in.Daily = series.Head(i + 1)
		out := e.strategy.Evaluate(in)
		if !out.Emitted() {
			continue
		}
		if e.strategy.Tiered() && out.Result.Tier != contracts.TierReady {
			continue
		}
		candidates = append(candidates, *out.Result)
	}

	ranked := screener.Rank(candidates, e.strategy.Tiered())
	if len(ranked) > e.cfg.TopN {
		ranked = ranked[:e.cfg.TopN]
	}
	return ranked
}

// tradingDates is the sorted union of bar dates
func tradingDates(histories map[string]contracts.PriceSeries) []time.Time {
	seen := make(map[int64]time.Time)
	for _, s := range histories {
		for _, b := range s.Bars {
			seen[b.Date.Unix()] = b.Date
		}
	}
	dates := make([]time.Time, 0, len(seen))
	for _, d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// barIndex is the index of the last bar on or before day, or -1
func barIndex(s contracts.PriceSeries, day time.Time) int {
	return sort.Search(len(s.Bars), func(i int) bool { return s.Bars[i].Date.After(day) }) - 1
}

func netReturns(trades []Trade) []float64 {
	out := make([]float64, len(trades))
	for i, t := range trades {
		out[i] = t.NetReturn
	}
	return out
}
