package indicator

import "github.com/Tonxzz/Main-Screener/internal/contracts"

// Snapshot keys
const (
	KeyClose          = "Close"
	KeyVolume         = "Volume"
	KeyEMA20          = "EMA20"
	KeyEMA50          = "EMA50"
	KeyVWMA20         = "VWMA20"
	KeyRSI14          = "RSI14"
	KeyCMF20          = "CMF20"
	KeyMFI14          = "MFI14"
	KeyOBV            = "OBV"
	KeyATR14          = "ATR14"
	KeyCloseLocation  = "CloseLocation"
	KeyBodyRatio      = "BodyRatio"
	KeyWickRatio      = "WickRatio"
	KeyRelativeVolume = "RelativeVolume"
	KeyAvgValue20D    = "AvgValue20D"
	KeyADR20          = "ADR20"
	KeyVWAP           = "VWAP"
)

// Latest computes the standard daily indicator set for the last bar.
// Every call recomputes from the full series.
func Latest(series contracts.PriceSeries) contracts.IndicatorSnapshot {
	snap := contracts.IndicatorSnapshot{}
	last, ok := series.Last()
	if !ok {
		return snap
	}

	bars := series.Bars
	closes := series.Closes()
	volumes := series.Volumes()

	values := make([]float64, len(bars))
	for i, b := range bars {
		values[i] = b.Close * b.Volume
	}

	geo := Candle(last)

	snap[KeyClose] = last.Close
	snap[KeyVolume] = last.Volume
	snap[KeyEMA20] = Last(EMA(closes, 20))
	snap[KeyEMA50] = Last(EMA(closes, 50))
	snap[KeyVWMA20] = Last(VWMA(closes, volumes, 20))
	snap[KeyRSI14] = Last(RSI(closes, 14))
	snap[KeyCMF20] = Last(CMF(bars, 20))
	snap[KeyMFI14] = Last(MFI(bars, 14))
	snap[KeyOBV] = Last(OBV(bars))
	snap[KeyATR14] = Last(ATR(bars, 14))
	snap[KeyCloseLocation] = geo.CloseLocation
	snap[KeyBodyRatio] = geo.BodyRatio
	snap[KeyWickRatio] = geo.WickRatio
	snap[KeyRelativeVolume] = Last(RelativeVolume(volumes, 20))
	snap[KeyAvgValue20D] = Last(SMA(values, 20))
	snap[KeyADR20] = Last(ADR(bars, 20))
	snap[KeyVWAP] = VWAP(bars)
	return snap
}
