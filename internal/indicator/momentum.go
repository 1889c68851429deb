package indicator

import "github.com/Tonxzz/Main-Screener/internal/contracts"

// RSI is the rolling-mean relative strength index. The average loss is
// floored with Epsilon so a series without losses reads ~100, never NaN.
func RSI(closes []float64, window int) []float64 {
	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains[i] = delta
		} else if delta < 0 {
			losses[i] = -delta
		}
	}

	avgGain := SMA(gains, window)
	avgLoss := SMA(losses, window)

	out := undefined(len(closes))
	for i := range closes {
		if !IsDefined(avgGain[i]) || !IsDefined(avgLoss[i]) {
			continue
		}
		rs := avgGain[i] / (avgLoss[i] + Epsilon)
		out[i] = Clamp(100-100/(1+rs), 0, 100)
	}
	return out
}

// TypicalPrice is (high+low+close)/3 per bar
func TypicalPrice(bars []contracts.PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = (b.High + b.Low + b.Close) / 3
	}
	return out
}

// MFI is the money flow index over typical price
func MFI(bars []contracts.PriceBar, window int) []float64 {
	tp := TypicalPrice(bars)
	positive := make([]float64, len(bars))
	negative := make([]float64, len(bars))
	for i := 1; i < len(bars); i++ {
		flow := tp[i] * bars[i].Volume
		switch {
		case tp[i] > tp[i-1]:
			positive[i] = flow
		case tp[i] < tp[i-1]:
			negative[i] = flow
		}
	}

	posSum := RollingSum(positive, window)
	negSum := RollingSum(negative, window)

	out := undefined(len(bars))
	for i := range bars {
		if !IsDefined(posSum[i]) || !IsDefined(negSum[i]) {
			continue
		}
		out[i] = Clamp(100-100/(1+posSum[i]/(negSum[i]+Epsilon)), 0, 100)
	}
	return out
}
