package contracts

import "time"

// RegimeLabel is the coarse market trend classification
type RegimeLabel string

const (
	RegimeBull     RegimeLabel = "BULL"
	RegimeBullWeak RegimeLabel = "BULL_WEAK"
	RegimeBearWeak RegimeLabel = "BEAR_WEAK"
	RegimeBear     RegimeLabel = "BEAR"
	RegimeUnknown  RegimeLabel = "UNKNOWN"
)

// MarketRegime is a benchmark snapshot versus its EMA200.
// Values are immutable; a refresh replaces the whole struct.
type MarketRegime struct {
	Label           RegimeLabel `json:"label"`
	BenchmarkClose  float64     `json:"benchmark_close"`
	BenchmarkEMA200 float64     `json:"benchmark_ema200"`
	DistancePct     float64     `json:"distance_pct"`
	ComputedAt      time.Time   `json:"computed_at"`
}

// UnknownRegime is the fail-soft value used when the benchmark is unavailable
func UnknownRegime(at time.Time) MarketRegime {
	return MarketRegime{Label: RegimeUnknown, ComputedAt: at}
}

// IsKnown reports whether the regime was derived from benchmark data
func (r MarketRegime) IsKnown() bool {
	return r.Label != "" && r.Label != RegimeUnknown
}

// RiskLevels are ATR-based stop and target prices
type RiskLevels struct {
	ATR         float64 `json:"atr"`
	StopLoss    float64 `json:"stop_loss"`
	Target      float64 `json:"target"`
	StopLossPct float64 `json:"stop_loss_pct"`
	TargetPct   float64 `json:"target_pct"`
	RiskReward  string  `json:"risk_reward"`
}

// Valid reports whether the levels were actually computed
func (r RiskLevels) Valid() bool {
	return r.ATR > 0 && r.RiskReward != "N/A"
}
