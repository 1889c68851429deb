// Package screener runs one strategy over a ticker universe with a bounded
// worker pool and turns the outcomes into a ranked result table.
package screener

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
	"github.com/Tonxzz/Main-Screener/internal/regime"
	"github.com/Tonxzz/Main-Screener/internal/risk"
	"github.com/Tonxzz/Main-Screener/internal/s0_data/quality"
	"github.com/Tonxzz/Main-Screener/internal/strategy"
	"github.com/Tonxzz/Main-Screener/pkg/logger"
)

// Default pool settings
const (
	DefaultWorkers      = 10
	DefaultFetchTimeout = 20 * time.Second
)

// Config holds orchestrator settings
type Config struct {
	Workers      int
	FetchTimeout time.Duration
}

// RegimeSource resolves the market regime once per scan
type RegimeSource interface {
	Current(ctx context.Context) contracts.MarketRegime
}

// Recorder receives scan metrics
type Recorder interface {
	RecordEvaluation(strategy, outcome string)
	RecordRejection(strategy, reason string)
	ObserveFetch(interval string, d time.Duration)
	ObserveScan(strategy string, d time.Duration, byTier map[string]int)
}

// Orchestrator fans a scan out over a worker pool
// ⭐ SSOT: per-ticker evaluation is scheduled only here
type Orchestrator struct {
	registry *strategy.Registry
	provider contracts.SeriesProvider
	regime   RegimeSource
	overlay  risk.Overlay
	gate     *quality.QualityGate
	recorder Recorder
	sink     ProgressSink
	cfg      Config
	hash     string
	logger   *logger.Logger
	now      func() time.Time
}

// NewOrchestrator creates an orchestrator. A nil regime source scans
// under the UNKNOWN regime.
func NewOrchestrator(registry *strategy.Registry, provider contracts.SeriesProvider, regimeSrc RegimeSource, cfg Config, log *logger.Logger) *Orchestrator {
	if cfg.Workers < 1 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	return &Orchestrator{
		registry: registry,
		provider: provider,
		regime:   regimeSrc,
		overlay:  risk.NewOverlay(),
		gate:     quality.NewQualityGate(quality.DefaultConfig()),
		cfg:      cfg,
		logger:   log.Module("screener"),
		now:      time.Now,
	}
}

// WithRisk replaces the ATR overlay
func (o *Orchestrator) WithRisk(overlay risk.Overlay) *Orchestrator {
	o.overlay = overlay
	return o
}

// WithRecorder attaches a metrics recorder
func (o *Orchestrator) WithRecorder(r Recorder) *Orchestrator {
	o.recorder = r
	return o
}

// WithProgress attaches a progress sink
func (o *Orchestrator) WithProgress(sink ProgressSink) *Orchestrator {
	o.sink = sink
	return o
}

// WithConfigHash stamps tables with the threshold set that produced them
func (o *Orchestrator) WithConfigHash(hash string) *Orchestrator {
	o.hash = hash
	return o
}

// Registry returns the strategy registry
func (o *Orchestrator) Registry() *strategy.Registry {
	return o.registry
}

type indexedOutcome struct {
	index   int
	outcome contracts.Outcome
}

// shared is resolved once and handed to every evaluation by value
type shared struct {
	regime    contracts.MarketRegime
	benchmark *contracts.PriceSeries
}

// Run evaluates every ticker with the strategy behind key.
// Cancelling ctx stops dispatch; the table then holds what finished and
// is marked Partial. Only an unknown key is an error.
func (o *Orchestrator) Run(ctx context.Context, key string, tickers []string) (*contracts.ResultTable, error) {
	strat, err := o.registry.Get(key)
	if err != nil {
		return nil, err
	}

	started := o.now()
	table := &contracts.ResultTable{
		Strategy:    key,
		RunID:       uuid.NewString(),
		GeneratedAt: started,
		Tiered:      strat.Tiered(),
		Columns:     strat.Columns(),
		ConfigHash:  o.hash,
		Results:     []contracts.ScreenerResult{},
	}

	log := o.logger.WithFields(map[string]interface{}{
		"strategy": key,
		"run_id":   table.RunID,
	})

	if len(tickers) == 0 {
		table.Regime = contracts.UnknownRegime(started)
		table.Summary = Summarize(nil)
		table.Quality = o.gate.Check(table.Summary)
		log.Info("Empty universe, nothing to scan")
		return table, nil
	}

	sh := o.prefetch(ctx, strat.Requirements())
	table.Regime = sh.regime

	log.WithFields(map[string]interface{}{
		"tickers": len(tickers),
		"workers": o.cfg.Workers,
		"regime":  sh.regime.Label,
	}).Info("Scan started")

	outcomes, done := o.fanOut(ctx, strat, tickers, sh, table.RunID)

	var evaluated []contracts.Outcome
	results := make([]contracts.ScreenerResult, 0, len(tickers))
	for _, out := range outcomes {
		if out == nil {
			continue
		}
		evaluated = append(evaluated, *out)
		if out.Emitted() {
			results = append(results, *out.Result)
		}
	}

	table.Results = Rank(results, strat.Tiered())
	table.Summary = Summarize(evaluated)
	table.Quality = o.gate.Check(table.Summary)
	table.Partial = done < len(tickers) || ctx.Err() != nil

	elapsed := o.now().Sub(started)
	if o.recorder != nil {
		o.recorder.ObserveScan(key, elapsed, table.Summary.ByTier)
	}
	o.publish(Event{RunID: table.RunID, Strategy: key, Done: done, Total: len(tickers), Emitted: len(results), Finished: true})

	entry := log.WithFields(map[string]interface{}{
		"evaluated": table.Summary.Evaluated,
		"emitted":   table.Summary.Emitted,
		"rejected":  table.Summary.Rejected,
		"partial":   table.Partial,
		"quality":   table.Quality.Score,
		"duration":  elapsed.String(),
	})
	if !table.Quality.Passed {
		entry.WithField("warnings", table.Quality.Warnings).Warn("Scan completed with poor data coverage")
	} else {
		entry.Info("Scan completed")
	}

	return table, nil
}

// prefetch resolves the regime and, when needed, the benchmark series in
// parallel. Both fail soft.
func (o *Orchestrator) prefetch(ctx context.Context, req strategy.Requirements) shared {
	var sh shared
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if o.regime == nil {
			sh.regime = contracts.UnknownRegime(o.now())
			return nil
		}
		sh.regime = o.regime.Current(gctx)
		return nil
	})

	if req.BenchmarkPeriod != "" {
		g.Go(func() error {
			series, err := o.fetch(gctx, regime.BenchmarkSymbol, req.BenchmarkPeriod, contracts.Interval1d)
			if err != nil {
				o.logger.WithError(err).Warn("Benchmark fetch failed, relative strength will be neutral")
				return nil
			}
			sh.benchmark = &series
			return nil
		})
	}

	_ = g.Wait()
	return sh
}

// fanOut runs the worker pool and returns outcomes by ticker index
// (nil where a ticker was never started) and the finished count
func (o *Orchestrator) fanOut(ctx context.Context, strat strategy.Strategy, tickers []string, sh shared, runID string) ([]*contracts.Outcome, int) {
	workers := min(o.cfg.Workers, len(tickers))
	jobs := make(chan int)
	results := make(chan indexedOutcome, len(tickers))

	go func() {
		defer close(jobs)
		for i := range tickers {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	for w := 0; w < workers; w++ {
		go func() {
			for i := range jobs {
				results <- indexedOutcome{index: i, outcome: o.evaluate(ctx, strat, tickers[i], sh)}
			}
		}()
	}

	outcomes := make([]*contracts.Outcome, len(tickers))
	done, emitted := 0, 0
	store := func(r indexedOutcome) {
		oc := r.outcome
		outcomes[r.index] = &oc
		done++
		if oc.Emitted() {
			emitted++
		}
	}

	for done < len(tickers) {
		select {
		case r := <-results:
			store(r)
			o.publish(Event{RunID: runID, Strategy: strat.ID(), Ticker: tickers[r.index], Done: done, Total: len(tickers), Emitted: emitted})
		case <-ctx.Done():
			// keep what already finished, then stop waiting
			for {
				select {
				case r := <-results:
					store(r)
					continue
				default:
				}
				return outcomes, done
			}
		}
	}
	return outcomes, done
}

// evaluate fetches and scores one ticker. It never panics and never
// returns an error: every failure becomes a rejection.
func (o *Orchestrator) evaluate(ctx context.Context, strat strategy.Strategy, ticker string, sh shared) (out contracts.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.WithFields(map[string]interface{}{
				"ticker": ticker,
				"panic":  fmt.Sprint(r),
				"stack":  string(debug.Stack()),
			}).Error("Evaluation panicked")
			out = contracts.Reject(ticker, contracts.RejectNoSignal, "evaluation panic: %v", r)
		}
		o.record(strat.ID(), out)
	}()

	select {
	case <-ctx.Done():
		return contracts.Reject(ticker, contracts.RejectCancelled, "%v", ctx.Err())
	default:
	}

	req := strat.Requirements()
	in := strategy.Input{
		Ticker:    ticker,
		Benchmark: sh.benchmark,
		Regime:    sh.regime,
		Risk:      o.overlay,
	}

	daily, err := o.fetch(ctx, ticker, req.DailyPeriod, contracts.Interval1d)
	if err != nil {
		return o.fetchRejection(ctx, ticker, "daily", err)
	}
	in.Daily = daily

	if req.Intraday != strategy.IntradayNone {
		intraday, err := o.fetch(ctx, ticker, contracts.Period1D, contracts.Interval1m)
		switch {
		case err == nil:
			in.Intraday = &intraday
		case req.Intraday == strategy.IntradayRequired:
			return o.fetchRejection(ctx, ticker, "intraday", err)
		default:
			o.logger.WithError(err).WithField("ticker", ticker).Debug("Intraday unavailable, using last daily bar")
		}
	}

	return strat.Evaluate(in)
}

func (o *Orchestrator) fetch(ctx context.Context, ticker string, period contracts.Period, interval contracts.Interval) (contracts.PriceSeries, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, o.cfg.FetchTimeout)
	defer cancel()

	start := o.now()
	series, err := o.provider.Fetch(fetchCtx, ticker, period, interval)
	if o.recorder != nil {
		o.recorder.ObserveFetch(string(interval), o.now().Sub(start))
	}
	return series, err
}

func (o *Orchestrator) fetchRejection(ctx context.Context, ticker, what string, err error) contracts.Outcome {
	if ctx.Err() != nil {
		return contracts.Reject(ticker, contracts.RejectCancelled, "%s fetch: %v", what, ctx.Err())
	}
	o.logger.WithError(err).WithField("ticker", ticker).Debug("Fetch failed")
	return contracts.Reject(ticker, contracts.RejectFetchFailed, "%s fetch: %v", what, err)
}

func (o *Orchestrator) record(key string, out contracts.Outcome) {
	if o.recorder == nil {
		return
	}
	if out.Emitted() {
		o.recorder.RecordEvaluation(key, "emitted")
		return
	}
	o.recorder.RecordEvaluation(key, "rejected")
	if out.Rejection != nil {
		o.recorder.RecordRejection(key, string(out.Rejection.Reason))
	}
}

func (o *Orchestrator) publish(e Event) {
	if o.sink != nil {
		o.sink.Publish(e)
	}
}
