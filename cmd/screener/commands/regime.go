package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
)

// regimeCmd shows the market regime
var regimeCmd = &cobra.Command{
	Use:   "regime",
	Short: "Show the current market regime",
	Long: `Classifies the composite index against its 200-day EMA.

The result is cached (Redis when enabled) for REGIME_TTL; --refresh forces
a new fetch.

Example:
  go run ./cmd/screener regime
  go run ./cmd/screener regime --refresh`,
	RunE: runRegime,
}

var regimeRefresh bool

func init() {
	rootCmd.AddCommand(regimeCmd)
	regimeCmd.Flags().BoolVar(&regimeRefresh, "refresh", false, "ignore the cached regime")
}

func runRegime(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	a, err := newApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	var r contracts.MarketRegime
	if regimeRefresh {
		r = a.regime.Refresh(ctx)
	} else {
		r = a.regime.Current(ctx)
	}

	PrintHeader("Market regime")
	PrintRegime(r)
	fmt.Printf("  EMA200    : %.2f\n", r.BenchmarkEMA200)
	fmt.Printf("  Computed  : %s\n", r.ComputedAt.Format(time.DateTime))
	PrintDoubleSeparator()
	return nil
}
