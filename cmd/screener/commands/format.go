package commands

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// ═══════════════════════════════════════════════════════════

// PrintHeader prints a command title block
func PrintHeader(title string, lines ...string) {
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  %s\n", title)
	if len(lines) > 0 {
		PrintSeparator()
		for _, l := range lines {
			fmt.Printf("  %s\n", l)
		}
	}
	PrintSeparator()
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator() {
	fmt.Println("═══════════════════════════════════════════════════════════")
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Println()
	fmt.Printf("⚠️  %s\n", message)
	fmt.Println()
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("✅ %s\n", message)
}

// PrintRegime prints one regime line
func PrintRegime(r contracts.MarketRegime) {
	if r.Label == contracts.RegimeUnknown {
		fmt.Printf("  Regime    : %s\n", r.Label)
		return
	}
	fmt.Printf("  Regime    : %s (close %.2f, %+.2f%% from EMA200)\n", r.Label, r.BenchmarkClose, r.DistancePct)
}

// PrintTable prints the top rows of a result table followed by its summary
func PrintTable(table *contracts.ResultTable, top int) {
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  %s  (run %s)\n", table.Strategy, table.RunID)
	PrintSeparator()
	PrintRegime(table.Regime)
	fmt.Printf("  Generated : %s\n", table.GeneratedAt.Format(time.DateTime))
	if table.Partial {
		fmt.Println("  Partial   : yes (scan cancelled)")
	}
	PrintSeparator()

	rows := table.Results
	if top > 0 && len(rows) > top {
		rows = rows[:top]
	}

	renderRows(os.Stdout, table, rows)

	if len(rows) == 0 {
		fmt.Println("  (no results)")
	} else if len(rows) < len(table.Results) {
		fmt.Printf("  ... %d more\n", len(table.Results)-len(rows))
	}

	PrintSummary(table.Summary, table.Quality)
}

// renderRows writes rows as a grid under the table's column layout
func renderRows(out io.Writer, table *contracts.ResultTable, rows []contracts.ScreenerResult) {
	header := []any{"#", "Ticker", "Score"}
	if table.Tiered {
		header = append(header, "Decision")
	}
	for _, col := range table.Columns {
		header = append(header, col)
	}
	header = append(header, "Reasons")

	grid := tablewriter.NewWriter(out)
	grid.Header(header...)
	for _, r := range rows {
		cells := []any{r.Rank, r.Ticker, fmt.Sprintf("%.2f", r.Score)}
		if table.Tiered {
			cells = append(cells, r.Decision)
		}
		for _, col := range table.Columns {
			cells = append(cells, metricCell(r.Metrics, col))
		}
		cells = append(cells, r.Reasons(","))
		_ = grid.Append(cells...)
	}
	_ = grid.Render()
}

// PrintSummary prints counts and data quality
func PrintSummary(s contracts.Summary, q contracts.DataQuality) {
	PrintSeparator()
	fmt.Printf("  Evaluated : %d   Emitted: %d   Rejected: %d\n", s.Evaluated, s.Emitted, s.Rejected)
	if len(s.ByTier) > 0 {
		fmt.Printf("  Tiers     : %s\n", formatCounts(s.ByTier))
	}
	if len(s.ByReject) > 0 {
		fmt.Printf("  Rejected  : %s\n", formatCounts(s.ByReject))
	}
	fmt.Printf("  Quality   : %.2f (fetch %.0f%%, history %.0f%%)\n", q.Score, q.FetchCoverage*100, q.HistoryCoverage*100)
	for _, w := range q.Warnings {
		fmt.Printf("  ⚠️  %s\n", w)
	}
	PrintDoubleSeparator()
}

func metricCell(ms []contracts.Metric, name string) string {
	for _, m := range ms {
		if m.Name == name {
			return m.Format()
		}
	}
	return ""
}

func formatCounts(m map[string]int) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
	}
	return strings.Join(parts, " ")
}
