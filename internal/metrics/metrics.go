package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder collects screener metrics on its own registry, so tests and
// several recorders in one process never collide on global registration
// ⭐ SSOT: every metric name is declared here
type Recorder struct {
	registry *prometheus.Registry

	evaluations  *prometheus.CounterVec
	rejections   *prometheus.CounterVec
	fetchLatency *prometheus.HistogramVec
	scanDuration *prometheus.HistogramVec
	scanResults  *prometheus.GaugeVec
	cacheLookups *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
}

// New creates a recorder with process and Go runtime collectors attached
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,
		evaluations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "screener_evaluations_total",
				Help: "Tickers evaluated, by strategy and outcome",
			},
			[]string{"strategy", "outcome"},
		),
		rejections: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "screener_rejections_total",
				Help: "Rejected tickers, by strategy and reason",
			},
			[]string{"strategy", "reason"},
		),
		fetchLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "screener_fetch_duration_seconds",
				Help:    "Price series fetch latency",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
			},
			[]string{"interval"},
		),
		scanDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "screener_scan_duration_seconds",
				Help:    "Wall time of a full strategy scan",
				Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
			},
			[]string{"strategy"},
		),
		scanResults: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "screener_last_scan_results",
				Help: "Rows emitted by the last scan, by strategy and tier",
			},
			[]string{"strategy", "tier"},
		),
		cacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "screener_series_cache_lookups_total",
				Help: "Series cache lookups, by result",
			},
			[]string{"result"},
		),
		httpRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "screener_http_requests_total",
				Help: "API requests, by route, method and status",
			},
			[]string{"route", "method", "status"},
		),
	}
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus text format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// RecordEvaluation counts one ticker outcome ("emitted" or "rejected")
func (r *Recorder) RecordEvaluation(strategy, outcome string) {
	r.evaluations.WithLabelValues(strategy, outcome).Inc()
}

// RecordRejection counts one rejection reason
func (r *Recorder) RecordRejection(strategy, reason string) {
	r.rejections.WithLabelValues(strategy, reason).Inc()
}

// ObserveFetch records a fetch latency
func (r *Recorder) ObserveFetch(interval string, d time.Duration) {
	r.fetchLatency.WithLabelValues(interval).Observe(d.Seconds())
}

// ObserveScan records a scan duration and its tier counts
func (r *Recorder) ObserveScan(strategy string, d time.Duration, byTier map[string]int) {
	r.scanDuration.WithLabelValues(strategy).Observe(d.Seconds())
	for tier, n := range byTier {
		r.scanResults.WithLabelValues(strategy, tier).Set(float64(n))
	}
}

// RecordCacheLookup counts a series cache hit or miss
func (r *Recorder) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(result).Inc()
}

// RecordHTTPRequest counts an API request
func (r *Recorder) RecordHTTPRequest(route, method, status string) {
	r.httpRequests.WithLabelValues(route, method, status).Inc()
}
