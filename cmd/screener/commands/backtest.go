package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tonxzz/Main-Screener/internal/backtest"
	"github.com/Tonxzz/Main-Screener/internal/contracts"
	"github.com/Tonxzz/Main-Screener/internal/regime"
	"github.com/Tonxzz/Main-Screener/internal/risk"
)

// backtestCmd replays a strategy over history
var backtestCmd = &cobra.Command{
	Use:   "backtest <strategy>",
	Short: "Walk-forward validation of a daily strategy",
	Long: `Replays a strategy over frozen daily histories. On each signal day the
strategy sees only bars up to that day; the top picks enter at that close
and exit --hold bars later, net of a round-trip cost.

Defaults come from the strategy config "backtest" section; flags override.
Intraday strategies see no 1m bars here and score on daily data only.

Flags:
  --period   history to load (1y, 2y)
  --hold     bars held after entry
  --top      picks per signal day
  --step     days between signal days (default: --hold)
  --cost     round-trip cost in basis points
  --from/--to  signal window (YYYY-MM-DD)

Example:
  go run ./cmd/screener backtest idx_swing --category LQ45
  go run ./cmd/screener backtest ultimate --hold 10 --top 3 --from 2025-01-01`,
	Args: cobra.ExactArgs(1),
	RunE: runBacktest,
}

var (
	bt universeFlags

	btPeriod string
	btHold   int
	btTop    int
	btStep   int
	btCost   float64
	btFrom   string
	btTo     string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringSliceVarP(&bt.categories, "category", "c", nil, "universe categories")
	backtestCmd.Flags().StringSliceVarP(&bt.tickers, "tickers", "t", nil, "explicit tickers")
	backtestCmd.Flags().StringVarP(&bt.file, "file", "f", "", "ticker file")
	backtestCmd.Flags().StringVar(&btPeriod, "period", string(contracts.Period2Y), "history to load")
	backtestCmd.Flags().IntVar(&btHold, "hold", 0, "bars held after entry")
	backtestCmd.Flags().IntVar(&btTop, "top", 0, "picks per signal day")
	backtestCmd.Flags().IntVar(&btStep, "step", 0, "days between signal days")
	backtestCmd.Flags().Float64Var(&btCost, "cost", -1, "round-trip cost in basis points")
	backtestCmd.Flags().StringVar(&btFrom, "from", "", "first signal day (YYYY-MM-DD)")
	backtestCmd.Flags().StringVar(&btTo, "to", "", "last signal day (YYYY-MM-DD)")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	strat, err := a.registry.Get(args[0])
	if err != nil {
		return err
	}

	cfg, err := backtestConfig(a)
	if err != nil {
		return err
	}

	tickers, err := bt.resolve(a.cfg)
	if err != nil {
		return fmt.Errorf("resolve universe: %w", err)
	}

	period := contracts.Period(btPeriod)
	PrintHeader("Backtest "+strat.ID(),
		fmt.Sprintf("Tickers   : %d (%s history)", len(tickers), period),
		fmt.Sprintf("Hold/Top  : %d bars / %d picks, step %d", cfg.HoldDays, cfg.TopN, cfg.Step),
		fmt.Sprintf("Cost      : %.1f bps round trip", cfg.CostBps),
	)

	start := time.Now()
	histories, err := backtest.Load(ctx, a.provider, tickers, period, a.cfg.Screener.Workers, a.log)
	if err != nil {
		return fmt.Errorf("load histories: %w", err)
	}
	fmt.Printf("[backtest] %d/%d histories loaded in %.1fs\n", len(histories), len(tickers), time.Since(start).Seconds())

	engine := backtest.NewEngine(strat, cfg, a.log).
		WithRisk(risk.Overlay{Multiplier: a.strategy.Risk.ATRMultiplier})
	if bench, err := a.provider.Fetch(ctx, regime.BenchmarkSymbol, period, contracts.Interval1d); err == nil {
		engine.WithBenchmark(bench)
	} else {
		a.log.WithError(err).Warn("Benchmark unavailable, backtest runs without regime")
	}

	result, err := engine.Run(ctx, histories)
	if err != nil {
		return err
	}
	printBacktest(result)
	return nil
}

// backtestConfig layers flags over the strategy config section
func backtestConfig(a *app) (backtest.Config, error) {
	cfg := backtest.DefaultConfig()
	section := a.strategy.Backtest
	cfg.HoldDays, cfg.TopN, cfg.CostBps = section.HoldDays, section.TopN, float64(section.CostBps)

	if btHold > 0 {
		cfg.HoldDays = btHold
	}
	if btTop > 0 {
		cfg.TopN = btTop
	}
	if btCost >= 0 {
		cfg.CostBps = btCost
	}
	cfg.Step = btStep
	if cfg.Step <= 0 {
		cfg.Step = cfg.HoldDays
	}

	from, to := section.StartDate, section.EndDate
	if btFrom != "" {
		from = btFrom
	}
	if btTo != "" {
		to = btTo
	}
	var err error
	if cfg.From, err = parseDay(from, a.location()); err != nil {
		return cfg, fmt.Errorf("invalid --from: %w", err)
	}
	if cfg.To, err = parseDay(to, a.location()); err != nil {
		return cfg, fmt.Errorf("invalid --to: %w", err)
	}
	return cfg, nil
}

func parseDay(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(time.DateOnly, s, loc)
}

func printBacktest(r *backtest.Result) {
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  %s  %s ~ %s\n", r.Strategy, r.StartDate.Format(time.DateOnly), r.EndDate.Format(time.DateOnly))
	PrintSeparator()
	fmt.Printf("  Signal days : %d over %d tickers\n", r.SignalDays, r.Tickers)
	fmt.Printf("  Trades      : %d\n", len(r.Trades))
	fmt.Printf("  Win rate    : %.1f%%\n", r.WinRate*100)
	fmt.Printf("  Mean return : %+.2f%%\n", r.MeanReturn*100)
	fmt.Printf("  Total return: %+.2f%%\n", r.TotalReturn*100)
	fmt.Printf("  Max drawdown: %.2f%%\n", r.MaxDrawdown*100)
	if len(r.Trades) > 0 {
		fmt.Printf("  VaR/CVaR %.0f%%: %.2f%% / %.2f%%\n", r.TailRisk.Confidence*100, r.TailRisk.VaR*100, r.TailRisk.CVaR*100)
	}
	PrintDoubleSeparator()
	if len(r.Trades) == 0 {
		PrintWarning("No trades: the strategy produced no picks with enough future bars")
	}
}
