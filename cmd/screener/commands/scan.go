package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tonxzz/Main-Screener/internal/screener"
)

// scanCmd runs one or more strategies over a universe
var scanCmd = &cobra.Command{
	Use:   "scan [strategy...]",
	Short: "Run strategies over a ticker universe",
	Long: `Runs the named strategies (or every strategy with --all) and writes
one CSV per strategy into the output directory.

Universe selection, first match wins:
  --tickers     explicit symbols (".JK" is appended when missing)
  --file        one symbol per line
  --category    named categories (LQ45, IDX80, MSCI_BIG_CAP, ...)
  SCREENER_UNIVERSE / SCREENER_UNIVERSE_FILE
  the expanded universe

Ctrl+C stops dispatch; finished tickers are still ranked and written.

Example:
  go run ./cmd/screener scan idx_swing --category LQ45
  go run ./cmd/screener scan bsjp vwap_pro --tickers BBCA,BBRI,TLKM
  go run ./cmd/screener scan --all --top 20`,
	RunE: runScan,
}

var (
	scan universeFlags

	scanAll      bool
	scanTop      int
	scanTimeout  time.Duration
	scanNoExport bool
)

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringSliceVarP(&scan.categories, "category", "c", nil, "universe categories")
	scanCmd.Flags().StringSliceVarP(&scan.tickers, "tickers", "t", nil, "explicit tickers")
	scanCmd.Flags().StringVarP(&scan.file, "file", "f", "", "ticker file")
	scanCmd.Flags().BoolVar(&scanAll, "all", false, "run every registered strategy")
	scanCmd.Flags().IntVar(&scanTop, "top", 15, "rows to print per strategy (0 = all)")
	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", 0, "overall deadline (0 = none)")
	scanCmd.Flags().BoolVar(&scanNoExport, "no-export", false, "skip CSV output")
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if scanTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, scanTimeout)
		defer cancel()
	}

	a, err := newApp(ctx, appOptions{export: !scanNoExport, store: true})
	if err != nil {
		return err
	}
	defer a.Close()

	keys := args
	if scanAll {
		keys = a.registry.Keys()
	}
	if len(keys) == 0 {
		return fmt.Errorf("name at least one strategy or pass --all (see: screener strategies)")
	}
	for _, k := range keys {
		if _, err := a.registry.Get(k); err != nil {
			return err
		}
	}

	tickers, err := scan.resolve(a.cfg)
	if err != nil {
		return fmt.Errorf("resolve universe: %w", err)
	}

	PrintHeader("Scan",
		fmt.Sprintf("Strategies: %v", keys),
		fmt.Sprintf("Tickers   : %d", len(tickers)),
		fmt.Sprintf("Workers   : %d", a.cfg.Screener.Workers),
	)

	a.orch.WithProgress(progressPrinter(len(tickers)))

	for _, key := range keys {
		if ctx.Err() != nil {
			PrintWarning("Scan interrupted, remaining strategies skipped")
			break
		}

		start := time.Now()
		table, err := a.service.Scan(ctx, key, tickers)
		if err != nil {
			return fmt.Errorf("scan %s: %w", key, err)
		}

		PrintTable(table, scanTop)
		PrintSuccess(fmt.Sprintf("%s completed in %.2fs", key, time.Since(start).Seconds()))
	}
	return nil
}

// progressPrinter reports every tenth of the universe
func progressPrinter(total int) screener.ProgressFunc {
	step := max(total/10, 1)
	return func(e screener.Event) {
		if e.Finished || (e.Done%step != 0 && e.Done != e.Total) {
			return
		}
		fmt.Printf("[%s] %d/%d evaluated, %d emitted\n", e.Strategy, e.Done, e.Total, e.Emitted)
	}
}
