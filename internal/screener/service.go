package screener

import (
	"context"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
	"github.com/Tonxzz/Main-Screener/internal/strategy"
	"github.com/Tonxzz/Main-Screener/pkg/logger"
)

// Exporter writes a finished table somewhere outside the process
type Exporter interface {
	Export(table *contracts.ResultTable, out strategy.Output) (string, error)
}

// Store persists finished tables
type Store interface {
	SaveRun(ctx context.Context, table *contracts.ResultTable) error
}

// Service runs a scan and hands the table to the configured outputs.
// Output failures are logged; the table is still returned.
type Service struct {
	orch     *Orchestrator
	exporter Exporter
	store    Store
	logger   *logger.Logger
}

// NewService creates a scan service. exporter and store may be nil.
func NewService(orch *Orchestrator, exporter Exporter, store Store, log *logger.Logger) *Service {
	return &Service{
		orch:     orch,
		exporter: exporter,
		store:    store,
		logger:   log.Module("scan_service"),
	}
}

// Orchestrator returns the underlying orchestrator
func (s *Service) Orchestrator() *Orchestrator {
	return s.orch
}

// Scan runs key over tickers and publishes the result
func (s *Service) Scan(ctx context.Context, key string, tickers []string) (*contracts.ResultTable, error) {
	table, err := s.orch.Run(ctx, key, tickers)
	if err != nil {
		return nil, err
	}

	strat, err := s.orch.Registry().Get(key)
	if err != nil {
		return nil, err
	}

	if s.exporter != nil {
		path, err := s.exporter.Export(table, strat.Output())
		if err != nil {
			s.logger.WithError(err).WithField("strategy", key).Error("Export failed")
		} else {
			s.logger.WithFields(map[string]interface{}{
				"strategy": key,
				"path":     path,
			}).Info("Results exported")
		}
	}

	if s.store != nil {
		// a cancelled scan still gets stored
		if err := s.store.SaveRun(context.WithoutCancel(ctx), table); err != nil {
			s.logger.WithError(err).WithField("strategy", key).Error("Saving scan run failed")
		}
	}

	return table, nil
}
