package handlers

import (
	"net/http"

	"github.com/Tonxzz/Main-Screener/internal/strategy"
)

// StrategyInfo describes one registered strategy
type StrategyInfo struct {
	Key        string   `json:"key"`
	Name       string   `json:"name"`
	Tiered     bool     `json:"tiered"`
	Columns    []string `json:"columns"`
	FilePrefix string   `json:"file_prefix"`
	Intraday   bool     `json:"intraday"`
}

// StrategyHandler lists the registry
type StrategyHandler struct {
	registry *strategy.Registry
}

// NewStrategyHandler creates a strategy handler
func NewStrategyHandler(registry *strategy.Registry) *StrategyHandler {
	return &StrategyHandler{registry: registry}
}

// List returns every strategy in key order
// GET /api/strategies
func (h *StrategyHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, Describe(h.registry))
}

// Describe flattens the registry for display
func Describe(registry *strategy.Registry) []StrategyInfo {
	all := registry.All()
	out := make([]StrategyInfo, 0, len(all))
	for _, s := range all {
		out = append(out, StrategyInfo{
			Key:        s.ID(),
			Name:       s.Name(),
			Tiered:     s.Tiered(),
			Columns:    s.Columns(),
			FilePrefix: s.Output().FilePrefix,
			Intraday:   s.Requirements().Intraday != strategy.IntradayNone,
		})
	}
	return out
}
