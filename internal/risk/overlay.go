package risk

import (
	"math"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
	"github.com/Tonxzz/Main-Screener/internal/indicator"
)

// =============================================================================
// ATR Risk Overlay - advisory stop/target levels
// =============================================================================

const (
	// DefaultMultiplier is the ATR distance to the stop
	DefaultMultiplier = 2.0

	// ATRWindow is the true range averaging window
	ATRWindow = 14

	// rewardFactor fixes the reward at twice the risk (1:2)
	rewardFactor = 2.0
)

// Overlay computes volatility stops for a daily series.
// ⭐ SSOT: never blocks a strategy result; failures yield zeroed levels
type Overlay struct {
	Multiplier float64
}

// NewOverlay returns an overlay with the default multiplier
func NewOverlay() Overlay {
	return Overlay{Multiplier: DefaultMultiplier}
}

// Neutral is the zeroed result used whenever levels cannot be computed
func Neutral() contracts.RiskLevels {
	return contracts.RiskLevels{RiskReward: "N/A"}
}

// Compute derives stop and target from ATR14 and the last close
func (o Overlay) Compute(series contracts.PriceSeries) contracts.RiskLevels {
	if series.Len() < ATRWindow {
		return Neutral()
	}

	last, _ := series.Last()
	return o.Levels(last.Close, indicator.Last(indicator.ATR(series.Bars, ATRWindow)))
}

// Levels derives stop and target around an explicit price
func (o Overlay) Levels(price, atr float64) contracts.RiskLevels {
	m := o.Multiplier
	if m <= 0 {
		m = DefaultMultiplier
	}
	if price <= 0 || !indicator.IsDefined(price) || !indicator.IsDefined(atr) || atr < 0 {
		return Neutral()
	}

	stop := price - atr*m
	target := price + atr*m*rewardFactor

	return contracts.RiskLevels{
		ATR:         round(atr, 2),
		StopLoss:    math.Round(stop),
		Target:      math.Round(target),
		StopLossPct: round((stop-price)/price*100, 2),
		TargetPct:   round((target-price)/price*100, 2),
		RiskReward:  "1:2",
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
