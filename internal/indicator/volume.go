package indicator

import "github.com/Tonxzz/Main-Screener/internal/contracts"

// VWMA is the rolling volume-weighted mean of close.
// NaN while the rolling volume is zero.
func VWMA(closes, volumes []float64, window int) []float64 {
	n := min(len(closes), len(volumes))
	pv := make([]float64, n)
	for i := 0; i < n; i++ {
		pv[i] = closes[i] * volumes[i]
	}

	pvSum := RollingSum(pv, window)
	volSum := RollingSum(volumes[:n], window)

	out := undefined(n)
	for i := 0; i < n; i++ {
		if IsDefined(volSum[i]) && volSum[i] != 0 {
			out[i] = pvSum[i] / volSum[i]
		}
	}
	return out
}

// CMF is Chaikin money flow. Zero-range bars use Epsilon as the
// multiplier denominator instead of being skipped.
func CMF(bars []contracts.PriceBar, window int) []float64 {
	mfv := make([]float64, len(bars))
	volumes := make([]float64, len(bars))
	for i, b := range bars {
		denom := b.High - b.Low
		if denom == 0 {
			denom = Epsilon
		}
		multiplier := ((b.Close - b.Low) - (b.High - b.Close)) / denom
		mfv[i] = multiplier * b.Volume
		volumes[i] = b.Volume
	}

	mfvSum := RollingSum(mfv, window)
	volSum := RollingSum(volumes, window)

	out := undefined(len(bars))
	for i := range bars {
		if IsDefined(volSum[i]) && volSum[i] != 0 {
			out[i] = mfvSum[i] / volSum[i]
		}
	}
	return out
}

// OBV is on-balance volume starting at zero
func OBV(bars []contracts.PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i := 1; i < len(bars); i++ {
		switch {
		case bars[i].Close > bars[i-1].Close:
			out[i] = out[i-1] + bars[i].Volume
		case bars[i].Close < bars[i-1].Close:
			out[i] = out[i-1] - bars[i].Volume
		default:
			out[i] = out[i-1]
		}
	}
	return out
}

// RelativeVolume divides each volume by its rolling mean.
// NaN where the mean is zero; callers decide the neutral value.
func RelativeVolume(volumes []float64, window int) []float64 {
	mean := SMA(volumes, window)
	out := undefined(len(volumes))
	for i, v := range volumes {
		if IsDefined(mean[i]) && mean[i] != 0 {
			out[i] = v / mean[i]
		}
	}
	return out
}

// VWAP is the session volume-weighted average of typical price.
// Falls back to the last close when the session traded no volume.
func VWAP(bars []contracts.PriceBar) float64 {
	if len(bars) == 0 {
		return NaN
	}

	var pv, vol float64
	for _, b := range bars {
		tp := (b.High + b.Low + b.Close) / 3
		pv += tp * b.Volume
		vol += b.Volume
	}
	if vol == 0 {
		return bars[len(bars)-1].Close
	}
	return pv / vol
}
