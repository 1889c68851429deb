package strategy

import (
	"math"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
	"github.com/Tonxzz/Main-Screener/internal/indicator"
	"github.com/Tonxzz/Main-Screener/internal/regime"
	"github.com/Tonxzz/Main-Screener/internal/strategyconfig"
)

// OBV divergence signals
const (
	OBVBullish      = "BULLISH"
	OBVAccumulation = "ACCUMULATION"
	OBVNeutral      = "NEUTRAL"
)

// SmartMoney hunts accumulation through money flow and OBV.
// Untiered: ranked by score only.
type SmartMoney struct {
	cfg strategyconfig.SmartMoney
}

// NewSmartMoney creates the strategy
func NewSmartMoney(cfg strategyconfig.SmartMoney) *SmartMoney {
	return &SmartMoney{cfg: cfg}
}

func (s *SmartMoney) ID() string   { return KeySmartMoney }
func (s *SmartMoney) Name() string { return "Smart Money Hunter" }
func (s *SmartMoney) Tiered() bool { return false }

func (s *SmartMoney) Requirements() Requirements {
	return Requirements{
		DailyPeriod: contracts.Period6M,
		MinBars:     s.cfg.MinBars,
		Intraday:    IntradayOptional,
	}
}

func (s *SmartMoney) Columns() []string {
	return []string{"Close", "Validation_Score", "CMF", "MFI", "OBV_Signal", "StopLoss", "Target", "Regime_Score"}
}

func (s *SmartMoney) Output() Output {
	return Output{FilePrefix: "smart_money_enhanced", ReasonSep: ", "}
}

func (s *SmartMoney) Evaluate(in Input) contracts.Outcome {
	c := s.cfg
	if out, short := tooShort(in, c.MinBars); short {
		return out
	}

	price := today(in).Price
	if price < c.MinPrice {
		return contracts.Reject(in.Ticker, contracts.RejectLowPrice, "price %.0f < %.0f", price, c.MinPrice)
	}

	bars := in.Daily.Bars
	volumes := in.Daily.Volumes()
	cmf := indicator.Last(indicator.CMF(bars, 20))
	mfi := indicator.Last(indicator.MFI(bars, 14))
	obv := indicator.OBV(bars)
	levels := in.Risk.Compute(in.Daily)

	signal := Divergence(in.Daily.Closes(), obv, c.DivergenceBars, c.FlatPriceSlope, c.OBVRisingSlope)
	obvUp := indicator.At(obv, -1) > indicator.At(obv, -5)

	avgVol := indicator.Last(indicator.SMA(volumes, 20))
	volSpike := avgVol > 0 && indicator.Last(volumes) > avgVol*c.VolumeSpikeFactor

	score := 0
	var reasons []string

	switch {
	case cmf > c.CMFStrong:
		score += 3
		reasons = append(reasons, "StrongAccum")
	case cmf > c.CMFAccum:
		score += 2
		reasons = append(reasons, "Accum")
	case cmf > 0:
		score++
		reasons = append(reasons, "MoneyIn")
	}

	switch {
	case mfi > c.MFIStrong:
		score += 2
		reasons = append(reasons, "MFI_Strong")
	case mfi > c.MFIPositive:
		score++
		reasons = append(reasons, "MFI+")
	}

	switch {
	case signal == OBVBullish:
		score += 3
		reasons = append(reasons, "OBV_Divergence")
	case signal == OBVAccumulation:
		score += 2
		reasons = append(reasons, "OBV_Accum")
	case obvUp:
		score++
		reasons = append(reasons, "OBV+")
	}

	if volSpike {
		score += 2
		reasons = append(reasons, "VolSpike")
	}

	if score < 1 {
		return contracts.Reject(in.Ticker, contracts.RejectNoSignal, "score %d", score)
	}

	return contracts.Emit(contracts.ScreenerResult{
		Ticker:      in.Ticker,
		Score:       float64(score),
		Tier:        contracts.TierNone,
		ReasonCodes: orBaseline(reasons),
		Risk:        &levels,
		Metrics: []contracts.Metric{
			metric("Close", price, 2),
			metric("Validation_Score", float64(score)*c.ValidationFactor, 0),
			metric("CMF", cmf, 3),
			metric("MFI", mfi, 1),
			textMetric("OBV_Signal", signal),
			metric("StopLoss", levels.StopLoss, 0),
			metric("Target", levels.Target, 0),
			metric("Regime_Score", regime.Adjust(float64(score), in.Regime), 2),
		},
	})
}

// Divergence compares the price and OBV slopes over the last bars:
// flat or falling price with rising OBV is BULLISH, both rising is
// ACCUMULATION
func Divergence(closes, obv []float64, bars int, flatPrice, risingOBV float64) string {
	if len(closes) < bars || len(obv) < bars {
		return OBVNeutral
	}

	base := indicator.At(closes, -bars)
	if base == 0 {
		return OBVNeutral
	}
	priceSlope := (indicator.Last(closes) - base) / base

	obvBase := indicator.At(obv, -bars)
	denom := math.Abs(obvBase + 1)
	if denom == 0 {
		denom = indicator.Epsilon
	}
	obvSlope := (indicator.Last(obv) - obvBase) / denom

	switch {
	case priceSlope < flatPrice && obvSlope > risingOBV:
		return OBVBullish
	case priceSlope > 0 && obvSlope > 0:
		return OBVAccumulation
	default:
		return OBVNeutral
	}
}
