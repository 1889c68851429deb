package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/Tonxzz/Main-Screener/internal/api/handlers"
	"github.com/Tonxzz/Main-Screener/internal/strategy"
	"github.com/Tonxzz/Main-Screener/internal/strategyconfig"
)

// strategiesCmd lists the registered strategies
var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List registered strategies",
	Long: `Lists every registered strategy with its output columns and CSV prefix.

Example:
  go run ./cmd/screener strategies
  go run ./cmd/screener strategies --strategy-config thresholds.yaml`,
	RunE: runStrategies,
}

func init() {
	rootCmd.AddCommand(strategiesCmd)
}

func runStrategies(cmd *cobra.Command, args []string) error {
	cfg, err := strategyconfig.LoadOrDefault(strategyConfigPath)
	if err != nil {
		return fmt.Errorf("load strategy config: %w", err)
	}
	hash, err := strategyconfig.Hash(cfg)
	if err != nil {
		return err
	}

	PrintHeader("Registered strategies", "Config hash: "+hash)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Key", "Name", "Tiered", "Intraday", "Prefix", "Columns")
	for _, info := range handlers.Describe(strategy.NewRegistry(cfg)) {
		_ = table.Append(info.Key, info.Name, info.Tiered, info.Intraday, info.FilePrefix, strings.Join(info.Columns, ","))
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("render strategies: %w", err)
	}

	for _, warn := range strategyconfig.Warn(cfg) {
		PrintWarning(fmt.Sprintf("%s: %s", warn.Code, warn.Message))
	}
	return nil
}
