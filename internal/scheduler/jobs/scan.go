package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
	"github.com/Tonxzz/Main-Screener/pkg/logger"
)

// Scanner runs one strategy over a universe
type Scanner interface {
	Scan(ctx context.Context, key string, tickers []string) (*contracts.ResultTable, error)
}

// UniverseFunc resolves the tickers at run time
type UniverseFunc func() ([]string, error)

// ScanJob runs a fixed list of strategies over the universe
// ⭐ SSOT: scheduled scans go through this job
type ScanJob struct {
	name     string
	spec     string
	keys     []string
	scanner  Scanner
	universe UniverseFunc
	logger   *logger.Logger
}

// NewScanJob creates a scan job
func NewScanJob(name, spec string, keys []string, scanner Scanner, universe UniverseFunc, log *logger.Logger) *ScanJob {
	return &ScanJob{
		name:     name,
		spec:     spec,
		keys:     keys,
		scanner:  scanner,
		universe: universe,
		logger:   log.Module("scan_job"),
	}
}

func (j *ScanJob) Name() string     { return j.name }
func (j *ScanJob) Schedule() string { return j.spec }

// Run scans every key in order. A failing key does not stop the rest;
// the failures are joined into the returned error.
func (j *ScanJob) Run(ctx context.Context) error {
	tickers, err := j.universe()
	if err != nil {
		return fmt.Errorf("resolve universe: %w", err)
	}

	var errs []error
	for _, key := range j.keys {
		if err := ctx.Err(); err != nil {
			return err
		}

		table, err := j.scanner.Scan(ctx, key, tickers)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			continue
		}

		j.logger.WithFields(map[string]interface{}{
			"job":      j.name,
			"strategy": key,
			"emitted":  table.Summary.Emitted,
			"ready":    len(table.Ready()),
			"partial":  table.Partial,
		}).Info("Scheduled scan finished")
	}

	return errors.Join(errs...)
}
