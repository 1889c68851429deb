// Package indicator holds the pure technical indicator functions shared by
// every strategy. Series functions return a slice of the input length with
// NaN marking values that are undefined (window not yet filled, zero
// denominators). Nothing here keeps state.
package indicator

import "math"

// Epsilon floors denominators that may legitimately be zero
const Epsilon = 0.0001

// NaN is the undefined value
var NaN = math.NaN()

// IsDefined reports whether v is a finite number
func IsDefined(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Last returns the final element, or NaN for an empty slice
func Last(xs []float64) float64 {
	if len(xs) == 0 {
		return NaN
	}
	return xs[len(xs)-1]
}

// At returns xs[i] counting from the end when i is negative; NaN when out of range
func At(xs []float64, i int) float64 {
	if i < 0 {
		i += len(xs)
	}
	if i < 0 || i >= len(xs) {
		return NaN
	}
	return xs[i]
}

// Or returns v when defined, otherwise fallback
func Or(v, fallback float64) float64 {
	if IsDefined(v) {
		return v
	}
	return fallback
}

// undefined returns a slice of n NaNs
func undefined(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = NaN
	}
	return out
}

// EMA is the recursive exponential average seeded with the first value,
// alpha = 2/(span+1)
func EMA(xs []float64, span int) []float64 {
	out := undefined(len(xs))
	if len(xs) == 0 || span <= 0 {
		return out
	}

	alpha := 2.0 / (float64(span) + 1.0)
	ema := NaN
	for i, x := range xs {
		switch {
		case math.IsNaN(x):
			// carry the last value forward
		case math.IsNaN(ema):
			ema = x
		default:
			ema = alpha*x + (1-alpha)*ema
		}
		out[i] = ema
	}
	return out
}

// RollingSum sums each full window; a NaN inside the window yields NaN
func RollingSum(xs []float64, window int) []float64 {
	out := undefined(len(xs))
	if window <= 0 {
		return out
	}

	for i := window - 1; i < len(xs); i++ {
		var sum float64
		for j := i - window + 1; j <= i; j++ {
			sum += xs[j]
		}
		out[i] = sum
	}
	return out
}

// SMA is the simple rolling mean
func SMA(xs []float64, window int) []float64 {
	out := RollingSum(xs, window)
	for i := range out {
		out[i] /= float64(window)
	}
	return out
}

// Mean averages the defined values of xs; NaN when none are defined
func Mean(xs []float64) float64 {
	var (
		sum float64
		n   int
	)
	for _, x := range xs {
		if IsDefined(x) {
			sum += x
			n++
		}
	}
	if n == 0 {
		return NaN
	}
	return sum / float64(n)
}

// PctChange is (to-from)/from*100; NaN when from is zero
func PctChange(from, to float64) float64 {
	if from == 0 || !IsDefined(from) || !IsDefined(to) {
		return NaN
	}
	return (to - from) / from * 100
}

// Return is the percentage change over the last lookback bars,
// comparing xs[-1] with xs[-lookback]
func Return(xs []float64, lookback int) float64 {
	if lookback <= 0 || len(xs) < lookback {
		return NaN
	}
	return PctChange(At(xs, -lookback), Last(xs))
}

// Clamp bounds v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
