package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	strategyConfigPath string
	verbose            bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "screener",
	Short: "Multi-strategy IDX equity screener",
	Long: `Multi-strategy screener for Indonesia Stock Exchange equities.

Strategies run over a ticker universe, pull daily and intraday bars from
Yahoo Finance, and write ranked result tables as CSV.

Usage:
  go run ./cmd/screener [command]

Examples:
  go run ./cmd/screener strategies
  go run ./cmd/screener scan idx_swing --category LQ45
  go run ./cmd/screener regime
  go run ./cmd/screener api`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and runs it
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&strategyConfigPath, "strategy-config", "", "strategy threshold YAML (default: built-in thresholds)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
