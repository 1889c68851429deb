package handlers

import (
	"context"
	"net/http"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
)

// RegimeSource serves the cached regime and forces refreshes
type RegimeSource interface {
	Current(ctx context.Context) contracts.MarketRegime
	Refresh(ctx context.Context) contracts.MarketRegime
	Peek() (contracts.MarketRegime, bool)
}

// RegimeHandler exposes the market regime
type RegimeHandler struct {
	source RegimeSource
}

// NewRegimeHandler creates a regime handler
func NewRegimeHandler(source RegimeSource) *RegimeHandler {
	return &RegimeHandler{source: source}
}

// Get returns the current regime; ?refresh=true bypasses the cache and
// ?cached=true answers from the cache only, 404 when nothing is cached
// GET /api/regime
func (h *RegimeHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var regime contracts.MarketRegime
	switch {
	case q.Get("refresh") == "true":
		regime = h.source.Refresh(r.Context())
	case q.Get("cached") == "true":
		cached, ok := h.source.Peek()
		if !ok {
			respondError(w, http.StatusNotFound, "regime not computed yet")
			return
		}
		regime = cached
	default:
		regime = h.source.Current(r.Context())
	}
	respondJSON(w, http.StatusOK, regime)
}
