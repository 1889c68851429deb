package risk

import (
	"math"
	"sort"
)

// =============================================================================
// Return statistics for validator trades
// =============================================================================

// TailRisk is the historical VaR/CVaR of a return sample.
// Losses are reported as positive fractions (0.05 = 5% loss).
type TailRisk struct {
	Confidence float64 `json:"confidence"`
	VaR        float64 `json:"var"`
	CVaR       float64 `json:"cvar"`
}

// HistoricalVaR reads VaR at the (1-confidence) quantile of returns and
// CVaR as the mean of the tail up to and including it
func HistoricalVaR(returns []float64, confidence float64) TailRisk {
	out := TailRisk{Confidence: confidence}
	if len(returns) == 0 {
		return out
	}

	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)

	idx := int(math.Floor((1-confidence)*float64(len(sorted)) + 1e-9))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}

	out.VaR = lossOf(sorted[idx])
	out.CVaR = lossOf(Mean(sorted[:idx+1]))
	return out
}

func lossOf(r float64) float64 {
	if r < 0 {
		return -r
	}
	return 0
}

// Mean is the arithmetic mean; 0 for an empty sample
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev is the sample standard deviation; 0 below two values
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	var sumSq float64
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}

// MaxDrawdown is the largest peak-to-trough fall of an equity curve,
// as a positive fraction of the peak
func MaxDrawdown(equity []float64) float64 {
	if len(equity) == 0 {
		return 0
	}

	worst := 0.0
	peak := equity[0]
	for _, v := range equity {
		if v > peak {
			peak = v
		}
		if peak <= 0 {
			continue
		}
		if dd := (peak - v) / peak; dd > worst {
			worst = dd
		}
	}
	return worst
}
