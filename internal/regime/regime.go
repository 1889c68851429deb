// Package regime classifies the market trend from the benchmark index and
// keeps the result in an explicit TTL cache shared by every scan.
package regime

import (
	"math"
	"time"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
	"github.com/Tonxzz/Main-Screener/internal/indicator"
)

const (
	// BenchmarkSymbol is the Jakarta composite index
	BenchmarkSymbol = "^JKSE"

	// MinBars is the history needed for a meaningful EMA200
	MinBars = 200

	emaSpan  = 200
	bullBand = 1.05
	bearBand = 0.95
)

// Classify compares the last benchmark close with its EMA200.
// Short or empty series classify as UNKNOWN.
func Classify(series contracts.PriceSeries, at time.Time) contracts.MarketRegime {
	if series.Len() < MinBars {
		return contracts.UnknownRegime(at)
	}

	closes := series.Closes()
	ema := indicator.Last(indicator.EMA(closes, emaSpan))
	current := indicator.Last(closes)
	if !indicator.IsDefined(ema) || ema <= 0 {
		return contracts.UnknownRegime(at)
	}

	var label contracts.RegimeLabel
	switch {
	case current > ema*bullBand:
		label = contracts.RegimeBull
	case current > ema:
		label = contracts.RegimeBullWeak
	case current >= ema*bearBand:
		label = contracts.RegimeBearWeak
	default:
		label = contracts.RegimeBear
	}

	return contracts.MarketRegime{
		Label:           label,
		BenchmarkClose:  round2(current),
		BenchmarkEMA200: round2(ema),
		DistancePct:     round2((current - ema) / ema * 100),
		ComputedAt:      at,
	}
}

// Multiplier is the score weight applied under a regime
func Multiplier(label contracts.RegimeLabel) float64 {
	switch label {
	case contracts.RegimeBull:
		return 1.10
	case contracts.RegimeBullWeak:
		return 1.05
	case contracts.RegimeBearWeak:
		return 0.95
	case contracts.RegimeBear:
		return 0.85
	default:
		return 1.0
	}
}

// Adjust weights a strategy score by the market regime
func Adjust(score float64, r contracts.MarketRegime) float64 {
	return score * Multiplier(r.Label)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
