package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
	"github.com/Tonxzz/Main-Screener/internal/s0_data"
	"github.com/Tonxzz/Main-Screener/internal/strategy"
	"github.com/Tonxzz/Main-Screener/internal/universe"
	"github.com/Tonxzz/Main-Screener/pkg/logger"
)

// Scanner runs one strategy over a universe
type Scanner interface {
	Scan(ctx context.Context, key string, tickers []string) (*contracts.ResultTable, error)
}

// RunStore loads persisted runs
type RunStore interface {
	LatestRun(ctx context.Context, strategy string) (*contracts.ResultTable, error)
}

// ScanRequest is the body of POST /api/scans
type ScanRequest struct {
	Strategy   string   `json:"strategy" validate:"required"`
	Categories []string `json:"categories" default:"[\"LQ45\"]" validate:"dive,required"`
	Tickers    []string `json:"tickers" validate:"max=1000,dive,required"`
	Async      bool     `json:"async"`
	TimeoutSec int      `json:"timeout_sec" default:"300" validate:"gte=1,lte=3600"`
}

// ScanAccepted is returned for async scans
type ScanAccepted struct {
	Status   string `json:"status"`
	Strategy string `json:"strategy"`
	Tickers  int    `json:"tickers"`
}

// ScanHandler starts scans and serves their latest tables
// ⭐ SSOT: HTTP-triggered scans enter here
type ScanHandler struct {
	scanner  Scanner
	registry *strategy.Registry
	store    RunStore
	validate *validator.Validate
	baseCtx  context.Context
	logger   *logger.Logger

	mu     sync.RWMutex
	latest map[string]*contracts.ResultTable
}

// NewScanHandler creates a scan handler. Async scans run under ctx;
// store may be nil.
func NewScanHandler(ctx context.Context, scanner Scanner, registry *strategy.Registry, store RunStore, log *logger.Logger) *ScanHandler {
	return &ScanHandler{
		scanner:  scanner,
		registry: registry,
		store:    store,
		validate: validator.New(),
		baseCtx:  ctx,
		logger:   log.Module("scan_handler"),
		latest:   make(map[string]*contracts.ResultTable),
	}
}

// Create runs a scan
// POST /api/scans
func (h *ScanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := defaults.Set(&req); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to apply defaults")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.registry.Get(req.Strategy); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	tickers, err := resolveTickers(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	timeout := time.Duration(req.TimeoutSec) * time.Second

	if req.Async {
		go func() {
			ctx, cancel := context.WithTimeout(h.baseCtx, timeout)
			defer cancel()
			if _, err := h.run(ctx, req.Strategy, tickers); err != nil {
				h.logger.WithError(err).WithField("strategy", req.Strategy).Error("Async scan failed")
			}
		}()
		respondJSON(w, http.StatusAccepted, ScanAccepted{Status: "accepted", Strategy: req.Strategy, Tickers: len(tickers)})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	table, err := h.run(ctx, req.Strategy, tickers)
	if err != nil {
		h.logger.WithError(err).WithField("strategy", req.Strategy).Error("Scan failed")
		respondError(w, http.StatusInternalServerError, "Scan failed")
		return
	}
	respondJSON(w, http.StatusOK, table)
}

func (h *ScanHandler) run(ctx context.Context, key string, tickers []string) (*contracts.ResultTable, error) {
	table, err := h.scanner.Scan(ctx, key, tickers)
	if err != nil {
		return nil, err
	}
	h.mu.Lock()
	h.latest[key] = table
	h.mu.Unlock()
	return table, nil
}

// Latest returns the newest table of a strategy, from the store when
// configured and from memory otherwise
// GET /api/scans/{strategy}/latest
func (h *ScanHandler) Latest(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["strategy"]
	if _, err := h.registry.Get(key); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	if h.store != nil {
		table, err := h.store.LatestRun(r.Context(), key)
		switch {
		case err == nil:
			respondJSON(w, http.StatusOK, table)
			return
		case !errors.Is(err, s0_data.ErrNotFound):
			h.logger.WithError(err).WithField("strategy", key).Warn("Loading latest run failed, using memory")
		}
	}

	h.mu.RLock()
	table, ok := h.latest[key]
	h.mu.RUnlock()
	if !ok {
		respondError(w, http.StatusNotFound, "No scan has run for "+key)
		return
	}
	respondJSON(w, http.StatusOK, table)
}

// resolveTickers prefers explicit tickers over categories
func resolveTickers(req ScanRequest) ([]string, error) {
	if len(req.Tickers) > 0 {
		return universe.Dedupe(req.Tickers), nil
	}
	return universe.Resolve(req.Categories...)
}
