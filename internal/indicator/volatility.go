package indicator

import (
	"math"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
)

// TrueRange is max(high-low, |high-prevClose|, |low-prevClose|);
// the first bar has no previous close and uses high-low
func TrueRange(bars []contracts.PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		tr := b.High - b.Low
		if i > 0 {
			prev := bars[i-1].Close
			tr = math.Max(tr, math.Max(math.Abs(b.High-prev), math.Abs(b.Low-prev)))
		}
		out[i] = tr
	}
	return out
}

// ATR is the rolling mean of the true range
func ATR(bars []contracts.PriceBar, window int) []float64 {
	return SMA(TrueRange(bars), window)
}

// ADR is the rolling mean of the daily range as a percent of close
func ADR(bars []contracts.PriceBar, window int) []float64 {
	rangePct := make([]float64, len(bars))
	for i, b := range bars {
		if b.Close == 0 {
			rangePct[i] = NaN
			continue
		}
		rangePct[i] = (b.High - b.Low) / b.Close * 100
	}
	return SMA(rangePct, window)
}
