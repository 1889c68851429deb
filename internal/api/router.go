package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/Tonxzz/Main-Screener/internal/api/handlers"
	"github.com/Tonxzz/Main-Screener/pkg/database"
	"github.com/Tonxzz/Main-Screener/pkg/logger"
)

const healthTimeout = 3 * time.Second

// HealthChecker reports the state of the result store
type HealthChecker interface {
	HealthCheck(ctx context.Context) database.HealthStatus
}

// RequestRecorder counts served requests
type RequestRecorder interface {
	RecordHTTPRequest(route, method, status string)
}

// Routes bundles the handlers mounted by NewRouter. Nil members are
// left unmounted.
type Routes struct {
	Scans      *handlers.ScanHandler
	Strategies *handlers.StrategyHandler
	Regime     *handlers.RegimeHandler
	Progress   http.Handler
	Metrics    http.Handler
	Recorder   RequestRecorder
	Database   HealthChecker
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: every route is registered here
func NewRouter(routes Routes, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", healthCheckHandler(routes.Database)).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	if routes.Strategies != nil {
		api.HandleFunc("/strategies", routes.Strategies.List).Methods(http.MethodGet)
	}
	if routes.Scans != nil {
		api.HandleFunc("/scans", routes.Scans.Create).Methods(http.MethodPost)
		api.HandleFunc("/scans/{strategy}/latest", routes.Scans.Latest).Methods(http.MethodGet)
	}
	if routes.Regime != nil {
		api.HandleFunc("/regime", routes.Regime.Get).Methods(http.MethodGet)
	}

	if routes.Metrics != nil {
		r.Handle("/metrics", routes.Metrics).Methods(http.MethodGet)
	}
	if routes.Progress != nil {
		r.Handle("/ws/progress", routes.Progress).Methods(http.MethodGet)
	}

	r.Use(loggingMiddleware(log, routes.Recorder))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status. With a database the
// pool is pinged and an unhealthy store answers 503.
func healthCheckHandler(db HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]interface{}{
			"status":  "ok",
			"service": "main-screener",
		}
		code := http.StatusOK

		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
			defer cancel()

			status := db.HealthCheck(ctx)
			body["database"] = status
			if !status.Healthy {
				body["status"] = "degraded"
				code = http.StatusServiceUnavailable
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(body)
	}
}

// statusWriter captures the response code. Hijack is passed through for
// websocket upgrades.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	w.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

// loggingMiddleware logs HTTP requests and counts them per route template
func loggingMiddleware(log *logger.Logger, recorder RequestRecorder) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			route := r.URL.Path
			if cur := mux.CurrentRoute(r); cur != nil {
				if tpl, err := cur.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			if recorder != nil {
				recorder.RecordHTTPRequest(route, r.Method, strconv.Itoa(sw.status))
			}

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"route":    route,
				"status":   sw.status,
				"duration": time.Since(start).String(),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
