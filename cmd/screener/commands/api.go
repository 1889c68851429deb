package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tonxzz/Main-Screener/internal/api"
	"github.com/Tonxzz/Main-Screener/internal/api/handlers"
	"github.com/Tonxzz/Main-Screener/internal/api/stream"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the HTTP API",
	Long: `Starts the REST API, the progress websocket and, when SCHEDULE_ENABLED
is set, the scheduled jobs in the same process.

Endpoints:
  GET  /health                       - Health check
  GET  /api/strategies               - Registered strategies
  POST /api/scans                    - Run a scan (sync or async)
  GET  /api/scans/{strategy}/latest  - Latest table of a strategy
  GET  /api/regime                   - Market regime (?refresh=true)
  GET  /metrics                      - Prometheus metrics
  GET  /ws/progress                  - Scan progress stream

Example:
  go run ./cmd/screener api
  go run ./cmd/screener api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort       string
	apiNoSchedule bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "listen port (default: PORT)")
	apiCmd.Flags().BoolVar(&apiNoSchedule, "no-schedule", false, "do not start scheduled jobs")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, appOptions{export: true, store: true})
	if err != nil {
		return err
	}
	defer a.Close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	hub := stream.NewHub(a.log)
	a.orch.WithProgress(hub)

	var store handlers.RunStore
	if a.repo != nil {
		store = a.repo
	}

	routes := api.Routes{
		Scans:      handlers.NewScanHandler(ctx, a.service, a.registry, store, a.log),
		Strategies: handlers.NewStrategyHandler(a.registry),
		Regime:     handlers.NewRegimeHandler(a.regime),
		Progress:   hub,
	}
	if a.db != nil {
		routes.Database = a.db
	}
	if a.cfg.MetricsEnabled {
		routes.Metrics = a.metrics.Handler()
		routes.Recorder = a.metrics
	}

	server := api.New(a.cfg, a.log, api.NewRouter(routes, a.log)).WithBaseContext(ctx)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			errCh <- err
		}
	}()

	if a.cfg.Schedule.Enabled && !apiNoSchedule {
		sched, err := newScheduler(a)
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
		a.log.WithField("jobs", sched.JobNames()).Info("Scheduler started")
	}

	a.log.WithFields(map[string]interface{}{
		"port": a.cfg.Port,
		"env":  a.cfg.Env,
	}).Info("API server started")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	a.log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.log.Info("Server stopped")
	return nil
}
