package indicator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
)

func makeBars(closes, volumes []float64) []contracts.PriceBar {
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]contracts.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = contracts.PriceBar{
			Date:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: volumes[i],
		}
	}
	return bars
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestEMASeedsWithFirstValue(t *testing.T) {
	got := EMA([]float64{10, 20, 20}, 3)
	require.Len(t, got, 3)
	assert.InDelta(t, 10, got[0], 1e-9)
	assert.InDelta(t, 15, got[1], 1e-9)
	assert.InDelta(t, 17.5, got[2], 1e-9)
}

func TestSMAUndefinedUntilWindowFilled(t *testing.T) {
	got := SMA([]float64{1, 2, 3, 4}, 3)
	assert.True(t, math.IsNaN(got[0]))
	assert.True(t, math.IsNaN(got[1]))
	assert.InDelta(t, 2, got[2], 1e-9)
	assert.InDelta(t, 3, got[3], 1e-9)

	short := SMA([]float64{1, 2}, 5)
	for _, v := range short {
		assert.True(t, math.IsNaN(v))
	}
}

func TestRSIBounded(t *testing.T) {
	rising := make([]float64, 40)
	falling := make([]float64, 40)
	wave := make([]float64, 200)
	for i := range rising {
		rising[i] = 100 + float64(i)
		falling[i] = 200 - float64(i)
	}
	for i := range wave {
		wave[i] = 1000 + 50*math.Sin(float64(i)/3) + float64(i%7)
	}

	tests := []struct {
		name   string
		closes []float64
	}{
		{"rising without losses", rising},
		{"falling", falling},
		{"flat", repeat(500, 30)},
		{"wave", wave},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i, v := range RSI(tt.closes, 14) {
				if i < 13 {
					continue
				}
				require.True(t, IsDefined(v), "index %d", i)
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 100.0)
			}
		})
	}

	assert.Greater(t, Last(RSI(rising, 14)), 99.0)
	assert.Less(t, Last(RSI(falling, 14)), 1.0)
}

func TestRSIShortSeriesIsUndefined(t *testing.T) {
	got := RSI([]float64{1, 2, 3}, 14)
	assert.True(t, math.IsNaN(Last(got)))
}

func TestCandleZeroRange(t *testing.T) {
	bar := contracts.PriceBar{Open: 100, High: 100, Low: 100, Close: 100, Volume: 10}
	geo := Candle(bar)

	assert.True(t, IsDefined(geo.CloseLocation))
	assert.True(t, IsDefined(geo.BodyRatio))
	assert.True(t, IsDefined(geo.WickRatio))
	assert.GreaterOrEqual(t, geo.CloseLocation, 0.0)
	assert.LessOrEqual(t, geo.CloseLocation, 1.0)
	assert.Zero(t, geo.BodyRatio)
	assert.Equal(t, 1.0, geo.WickRatio)
}

func TestCandleGeometry(t *testing.T) {
	geo := Candle(contracts.PriceBar{Open: 102, High: 110, Low: 100, Close: 108})
	assert.InDelta(t, 0.8, geo.CloseLocation, 1e-9)
	assert.InDelta(t, 0.6, geo.BodyRatio, 1e-9)
	assert.InDelta(t, 0.4, geo.WickRatio, 1e-9)

	upper, lower := Wicks(contracts.PriceBar{Open: 102, High: 110, Low: 100, Close: 108})
	assert.InDelta(t, 0.2, upper, 1e-9)
	assert.InDelta(t, 0.2, lower, 1e-9)

	upper, lower = Wicks(contracts.PriceBar{Open: 5, High: 5, Low: 5, Close: 5})
	assert.Zero(t, upper)
	assert.Zero(t, lower)
}

func TestVWMAZeroVolumeIsUndefined(t *testing.T) {
	closes := []float64{10, 11, 12, 13}
	got := VWMA(closes, []float64{0, 0, 0, 0}, 2)
	for _, v := range got {
		assert.True(t, math.IsNaN(v))
	}

	got = VWMA(closes, []float64{1, 1, 3, 1}, 2)
	assert.InDelta(t, 11.75, got[2], 1e-9)
}

func TestOBV(t *testing.T) {
	bars := makeBars([]float64{10, 11, 11, 9}, []float64{100, 200, 300, 400})
	assert.Equal(t, []float64{0, 200, 200, -200}, OBV(bars))
}

func TestATRConstantRange(t *testing.T) {
	bars := makeBars(repeat(50, 20), repeat(1000, 20))
	atr := ATR(bars, 14)
	assert.True(t, math.IsNaN(atr[12]))
	assert.InDelta(t, 2, Last(atr), 1e-9)
}

func TestCMFZeroRangeBarIsCounted(t *testing.T) {
	bars := []contracts.PriceBar{
		{Open: 10, High: 12, Low: 10, Close: 12, Volume: 100},
		{Open: 11, High: 11, Low: 11, Close: 11, Volume: 100},
	}
	got := CMF(bars, 2)
	require.True(t, IsDefined(got[1]))
	assert.InDelta(t, 0.5, got[1], 1e-9)

	zeroVol := []contracts.PriceBar{{High: 2, Low: 1, Close: 2}, {High: 2, Low: 1, Close: 2}}
	assert.True(t, math.IsNaN(Last(CMF(zeroVol, 2))))
}

func TestMFIBounded(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	got := MFI(makeBars(closes, repeat(1000, 60)), 14)
	v := Last(got)
	require.True(t, IsDefined(v))
	assert.Greater(t, v, 99.0)
	assert.LessOrEqual(t, v, 100.0)
}

func TestRelativeVolume(t *testing.T) {
	got := RelativeVolume([]float64{0, 0, 0}, 3)
	assert.True(t, math.IsNaN(Last(got)))

	got = RelativeVolume([]float64{100, 100, 400}, 3)
	assert.InDelta(t, 2, Last(got), 1e-9)
}

func TestVWAP(t *testing.T) {
	bars := []contracts.PriceBar{
		{High: 12, Low: 9, Close: 9, Volume: 100},
		{High: 15, Low: 12, Close: 12, Volume: 300},
	}
	assert.InDelta(t, 12.25, VWAP(bars), 1e-9)

	zero := []contracts.PriceBar{{High: 12, Low: 9, Close: 11}}
	assert.Equal(t, 11.0, VWAP(zero))
	assert.True(t, math.IsNaN(VWAP(nil)))
}

func TestReturn(t *testing.T) {
	closes := []float64{100, 101, 102, 110}
	assert.InDelta(t, 10, Return(closes, 4), 1e-9)
	assert.True(t, math.IsNaN(Return(closes, 5)))
	assert.True(t, math.IsNaN(PctChange(0, 5)))
}

func TestLatestSnapshot(t *testing.T) {
	closes := make([]float64, 80)
	for i := range closes {
		closes[i] = 1000 + float64(i)*5
	}
	series := contracts.PriceSeries{Ticker: "TEST.JK", Bars: makeBars(closes, repeat(1e6, 80))}

	snap := Latest(series)
	assert.Equal(t, 1395.0, snap.Get(KeyClose))
	assert.InDelta(t, 1.0, snap.Get(KeyRelativeVolume), 1e-9)
	assert.Greater(t, snap.Get(KeyEMA20), snap.Get(KeyEMA50))
	assert.InDelta(t, 6.0, snap.Get(KeyATR14), 1e-9)
	assert.InDelta(t, VWAP(series.Bars), snap.Get(KeyVWAP), 1e-9)
	assert.False(t, math.IsNaN(snap.Get(KeyVWAP)))
	assert.True(t, math.IsNaN(snap.Get("missing")))

	assert.Empty(t, Latest(contracts.PriceSeries{}))
}
