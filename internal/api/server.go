package api

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net"
	"net/http"
	"time"

	"github.com/Tonxzz/Main-Screener/pkg/config"
	"github.com/Tonxzz/Main-Screener/pkg/logger"
)

// Server represents the HTTP API server
type Server struct {
	httpServer *http.Server
	logger     *logger.Logger
	env        string
}

// New creates a new API server. WriteTimeout is left open so synchronous
// scans and progress streams are not cut off.
func New(cfg *config.Config, log *logger.Logger, router http.Handler) *Server {
	log = log.Module("api")
	zlog := log.Zerolog()

	return &Server{
		httpServer: &http.Server{
			Addr:              net.JoinHostPort("", cfg.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			IdleTimeout:       60 * time.Second,
			ErrorLog:          stdlog.New(&zlog, "", 0),
		},
		logger: log,
		env:    cfg.Env,
	}
}

// WithBaseContext derives every request context from ctx, so cancelling
// it aborts in-flight synchronous scans
func (s *Server) WithBaseContext(ctx context.Context) *Server {
	s.httpServer.BaseContext = func(net.Listener) context.Context { return ctx }
	return s
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start serves until Shutdown
func (s *Server) Start() error {
	s.logger.WithFields(map[string]interface{}{
		"addr": s.httpServer.Addr,
		"env":  s.env,
	}).Info("Starting API server")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown waits for open requests up to ctx's deadline
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
