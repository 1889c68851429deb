package quality

import (
	"math"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
)

// Warning codes attached to a failing gate
const (
	WarnLowFetchCoverage   = "LOW_FETCH_COVERAGE"
	WarnLowHistoryCoverage = "LOW_HISTORY_COVERAGE"
)

// Config holds quality gate thresholds
type Config struct {
	MinFetchCoverage   float64 `yaml:"min_fetch_coverage"`   // 0.90
	MinHistoryCoverage float64 `yaml:"min_history_coverage"` // 0.80
}

// DefaultConfig returns the production thresholds
func DefaultConfig() Config {
	return Config{
		MinFetchCoverage:   0.90,
		MinHistoryCoverage: 0.80,
	}
}

// QualityGate grades the data behind a finished scan
type QualityGate struct {
	config Config
}

// NewQualityGate creates a new QualityGate instance
func NewQualityGate(config Config) *QualityGate {
	return &QualityGate{config: config}
}

// Check grades a run summary.
// ⭐ SSOT: data quality of a scan is judged here
//
// Fetch coverage is the share of tickers whose data arrived; history
// coverage is the share of those with enough bars to evaluate.
func (g *QualityGate) Check(summary contracts.Summary) contracts.DataQuality {
	q := contracts.DataQuality{FetchCoverage: 1, HistoryCoverage: 1}

	if summary.Evaluated > 0 {
		failed := summary.ByReject[string(contracts.RejectFetchFailed)]
		fetched := summary.Evaluated - failed
		q.FetchCoverage = float64(fetched) / float64(summary.Evaluated)

		if fetched > 0 {
			short := summary.ByReject[string(contracts.RejectInsufficientHistory)]
			q.HistoryCoverage = float64(fetched-short) / float64(fetched)
		} else {
			q.HistoryCoverage = 0
		}
	}

	q.Score = g.calculateScore(q)

	if q.FetchCoverage < g.config.MinFetchCoverage {
		q.Warnings = append(q.Warnings, WarnLowFetchCoverage)
	}
	if q.HistoryCoverage < g.config.MinHistoryCoverage {
		q.Warnings = append(q.Warnings, WarnLowHistoryCoverage)
	}
	q.Passed = len(q.Warnings) == 0

	return q
}

// calculateScore weights fetch coverage over history coverage
func (g *QualityGate) calculateScore(q contracts.DataQuality) float64 {
	score := 0.6*q.FetchCoverage + 0.4*q.HistoryCoverage
	return math.Round(score*10000) / 10000
}
