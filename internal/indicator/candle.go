package indicator

import (
	"math"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
)

// Geometry describes where a bar closed inside its range
type Geometry struct {
	Range         float64
	CloseLocation float64 // 0 = closed at the low, 1 = at the high
	BodyRatio     float64
	WickRatio     float64
}

// Candle measures one bar. A zero range is floored with Epsilon, so a
// doji with open=high=low=close gives CloseLocation 0, BodyRatio 0 and
// WickRatio 1.
func Candle(bar contracts.PriceBar) Geometry {
	rng := bar.High - bar.Low
	if rng <= 0 {
		rng = Epsilon
	}

	body := Clamp(math.Abs(bar.Close-bar.Open)/rng, 0, 1)
	return Geometry{
		Range:         bar.High - bar.Low,
		CloseLocation: Clamp((bar.Close-bar.Low)/rng, 0, 1),
		BodyRatio:     body,
		WickRatio:     1 - body,
	}
}

// Wicks returns the upper and lower shadow as fractions of the range.
// Both are zero for a zero-range bar.
func Wicks(bar contracts.PriceBar) (upper, lower float64) {
	rng := bar.High - bar.Low
	if rng <= 0 {
		return 0, 0
	}
	top := math.Max(bar.Open, bar.Close)
	bottom := math.Min(bar.Open, bar.Close)
	return (bar.High - top) / rng, (bottom - bar.Low) / rng
}
