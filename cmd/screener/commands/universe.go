package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tonxzz/Main-Screener/internal/universe"
	"github.com/Tonxzz/Main-Screener/pkg/config"
	"github.com/Tonxzz/Main-Screener/pkg/httputil"
	"github.com/Tonxzz/Main-Screener/pkg/logger"
)

// universeCmd groups universe helpers
var universeCmd = &cobra.Command{
	Use:   "universe",
	Short: "Inspect and refresh ticker universes",
	Long: `Lists the built-in index categories or scrapes constituents from a
published HTML table into a ticker file usable with "scan --file".

Example:
  go run ./cmd/screener universe list
  go run ./cmd/screener universe list LQ45
  go run ./cmd/screener universe scrape https://example.com/lq45 --out lq45.txt`,
}

var (
	universeListCmd = &cobra.Command{
		Use:   "list [category...]",
		Short: "List categories or their tickers",
		RunE:  runUniverseList,
	}

	universeScrapeCmd = &cobra.Command{
		Use:   "scrape <url>",
		Short: "Scrape constituents from an HTML table",
		Args:  cobra.ExactArgs(1),
		RunE:  runUniverseScrape,
	}

	universeOut string
)

func init() {
	rootCmd.AddCommand(universeCmd)
	universeCmd.AddCommand(universeListCmd, universeScrapeCmd)

	universeScrapeCmd.Flags().StringVarP(&universeOut, "out", "o", "", "write tickers to this file (default: stdout)")
}

func runUniverseList(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		PrintHeader("Universe categories")
		for _, c := range universe.Categories() {
			tickers, err := universe.Tickers(c)
			if err != nil {
				return err
			}
			fmt.Printf("  %-16s %4d tickers\n", c, len(tickers))
		}
		fmt.Printf("  %-16s %4d tickers\n", universe.Expanded, len(universe.ExpandedUniverse()))
		PrintDoubleSeparator()
		return nil
	}

	tickers, err := universe.Resolve(args...)
	if err != nil {
		return err
	}
	PrintHeader(strings.Join(args, " + "), fmt.Sprintf("%d tickers", len(tickers)))
	for i := 0; i < len(tickers); i += 8 {
		fmt.Printf("  %s\n", strings.Join(tickers[i:min(i+8, len(tickers))], " "))
	}
	PrintDoubleSeparator()
	return nil
}

func runUniverseScrape(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	scraper := universe.NewScraper(httputil.New(cfg, log), log)
	tickers, err := scraper.Scrape(ctx, args[0])
	if err != nil {
		return fmt.Errorf("scrape: %w", err)
	}

	body := strings.Join(tickers, "\n") + "\n"
	if universeOut == "" {
		fmt.Print(body)
		return nil
	}
	if err := os.WriteFile(universeOut, []byte(body), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", universeOut, err)
	}
	PrintSuccess(fmt.Sprintf("%d tickers written to %s", len(tickers), universeOut))
	return nil
}
