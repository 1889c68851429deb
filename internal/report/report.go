// Package report writes result tables as CSV files and reads them back.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
	"github.com/Tonxzz/Main-Screener/internal/strategy"
	"github.com/Tonxzz/Main-Screener/pkg/logger"
)

// Fixed columns around the strategy metrics
const (
	ColRank      = "Rank"
	ColTicker    = "Ticker"
	ColScore     = "Score"
	ColDecision  = "Decision"
	ColReasons   = "Reasons"
	ColRankReady = "Rank_READY"
)

var (
	// ErrNoReport is returned when no file matches a prefix
	ErrNoReport = errors.New("no report found")
	// ErrMissingColumns is returned when a file lacks required columns
	ErrMissingColumns = errors.New("report is missing required columns")
)

// Writer exports tables into one directory
type Writer struct {
	dir      string
	location *time.Location
	logger   *logger.Logger
}

// NewWriter creates a writer rooted at dir. File names use exchange time.
func NewWriter(dir string, log *logger.Logger) *Writer {
	loc, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		loc = time.UTC
	}
	return &Writer{dir: dir, location: loc, logger: log.Module("report")}
}

// WithLocation overrides the time zone used in file names
func (w *Writer) WithLocation(loc *time.Location) *Writer {
	w.location = loc
	return w
}

// Export writes table to <dir>/<prefix>_<stamp>.csv and returns the path.
// The file is written under a temporary name and renamed into place.
func (w *Writer) Export(table *contracts.ResultTable, out strategy.Output) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(w.dir, FileName(out.FilePrefix, table.GeneratedAt.In(w.location), out.Timestamped))

	tmp, err := os.CreateTemp(w.dir, ".tmp-"+out.FilePrefix+"-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	cw := csv.NewWriter(tmp)
	if err := cw.Write(Header(table)); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(Records(table, out.ReasonSep)); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write rows: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("rename report: %w", err)
	}

	w.logger.WithFields(map[string]interface{}{
		"strategy": table.Strategy,
		"rows":     len(table.Results),
		"path":     path,
	}).Debug("Report written")

	return path, nil
}

// FileName builds <prefix>_<YYYYMMDD>.csv, or _<YYYYMMDD_HHMM> when timestamped
func FileName(prefix string, at time.Time, timestamped bool) string {
	layout := "20060102"
	if timestamped {
		layout = "20060102_1504"
	}
	return prefix + "_" + at.Format(layout) + ".csv"
}

// hasDecision reports whether the Decision column is printed
func hasDecision(table *contracts.ResultTable) bool {
	if table.Tiered {
		return true
	}
	for _, r := range table.Results {
		if r.Decision != "" {
			return true
		}
	}
	return false
}

// Header returns the column row for table
func Header(table *contracts.ResultTable) []string {
	header := make([]string, 0, len(table.Columns)+6)
	header = append(header, ColRank, ColTicker)
	header = append(header, table.Columns...)
	header = append(header, ColScore)
	if hasDecision(table) {
		header = append(header, ColDecision)
	}
	header = append(header, ColReasons)
	if table.Tiered {
		header = append(header, ColRankReady)
	}
	return header
}

// Records renders one row per result in rank order. Metrics missing from
// a result print as empty cells.
func Records(table *contracts.ResultTable, reasonSep string) [][]string {
	decision := hasDecision(table)
	rows := make([][]string, 0, len(table.Results))

	for _, r := range table.Results {
		row := make([]string, 0, len(table.Columns)+6)
		row = append(row, strconv.Itoa(r.Rank), r.Ticker)
		for _, col := range table.Columns {
			m, ok := r.Metric(col)
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, m.Format())
		}
		row = append(row, strconv.FormatFloat(r.Score, 'f', -1, 64))
		if decision {
			row = append(row, r.Decision)
		}
		row = append(row, r.Reasons(reasonSep))
		if table.Tiered {
			ready := ""
			if r.RankReady > 0 {
				ready = strconv.Itoa(r.RankReady)
			}
			row = append(row, ready)
		}
		rows = append(rows, row)
	}
	return rows
}

// Table is a report file loaded back from disk
type Table struct {
	Path   string
	Header []string
	Rows   []map[string]string
}

// Column returns the values of one column in file order
func (t *Table) Column(name string) []string {
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[name]
	}
	return out
}

// ReadLatest loads the newest <prefix>_*.csv in dir and checks that every
// required column is present
func ReadLatest(dir, prefix string, required ...string) (*Table, error) {
	matches, err := filepath.Glob(filepath.Join(dir, prefix+"_*.csv"))
	if err != nil {
		return nil, fmt.Errorf("glob reports: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s in %s", ErrNoReport, prefix, dir)
	}

	// date stamps sort lexically
	sort.Strings(matches)
	return readFile(matches[len(matches)-1], required)
}

func readFile(path string, required []string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrMissingColumns, path)
	}

	header := records[0]
	present := make(map[string]bool, len(header))
	for _, col := range header {
		present[col] = true
	}
	var missing []string
	for _, col := range required {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s lacks %v", ErrMissingColumns, path, missing)
	}

	table := &Table{Path: path, Header: header, Rows: make([]map[string]string, 0, len(records)-1)}
	for _, rec := range records[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
