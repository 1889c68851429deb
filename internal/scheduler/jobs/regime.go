package jobs

import (
	"context"
	"errors"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
	"github.com/Tonxzz/Main-Screener/pkg/logger"
)

// ErrRegimeUnknown makes the scheduler retry a failed refresh
var ErrRegimeUnknown = errors.New("regime refresh returned UNKNOWN")

// Refresher recomputes the market regime
type Refresher interface {
	Refresh(ctx context.Context) contracts.MarketRegime
}

// RegimeJob refreshes the regime before the session opens
type RegimeJob struct {
	spec      string
	refresher Refresher
	logger    *logger.Logger
}

// NewRegimeJob creates a regime refresh job
func NewRegimeJob(spec string, refresher Refresher, log *logger.Logger) *RegimeJob {
	return &RegimeJob{spec: spec, refresher: refresher, logger: log.Module("regime_job")}
}

func (j *RegimeJob) Name() string     { return "regime_refresh" }
func (j *RegimeJob) Schedule() string { return j.spec }

// Run forces a refresh
func (j *RegimeJob) Run(ctx context.Context) error {
	r := j.refresher.Refresh(ctx)
	if !r.IsKnown() {
		return ErrRegimeUnknown
	}

	j.logger.WithFields(map[string]interface{}{
		"regime":       r.Label,
		"distance_pct": r.DistancePct,
	}).Info("Regime refreshed")
	return nil
}
