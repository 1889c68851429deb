package strategy

import (
	"math"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
	"github.com/Tonxzz/Main-Screener/internal/indicator"
	"github.com/Tonxzz/Main-Screener/internal/strategyconfig"
)

// VWAPPro is the VWMA power swing: stricter close location for READY and
// a continuous 0-100 score
type VWAPPro struct {
	cfg strategyconfig.VWAPPro
}

// NewVWAPPro creates the strategy
func NewVWAPPro(cfg strategyconfig.VWAPPro) *VWAPPro {
	return &VWAPPro{cfg: cfg}
}

func (s *VWAPPro) ID() string   { return KeyVWAPPro }
func (s *VWAPPro) Name() string { return "VWAP Power Swing" }
func (s *VWAPPro) Tiered() bool { return true }

func (s *VWAPPro) Requirements() Requirements {
	return Requirements{DailyPeriod: contracts.Period6M, MinBars: s.cfg.MinBars}
}

func (s *VWAPPro) Columns() []string {
	return []string{"Close", "VWMA20", "VWMA_Dist_%", "Rel_Vol", "AvgValue20D_B", "ADR20_%",
		"CloseLocation", "BodyRatio", "TrendOK"}
}

func (s *VWAPPro) Output() Output {
	return Output{FilePrefix: "idx_vwap_daily", ReasonSep: "|"}
}

func (s *VWAPPro) Evaluate(in Input) contracts.Outcome {
	if out, short := tooShort(in, s.cfg.MinBars); short {
		return out
	}

	row := newVWMARow(in.Daily)
	decision, tier, reasons, scored := s.decide(row)

	score := 0
	if scored {
		score = s.score(row)
	}

	return contracts.Emit(contracts.ScreenerResult{
		Ticker:      in.Ticker,
		Score:       float64(score),
		Decision:    decision,
		Tier:        tier,
		ReasonCodes: reasons,
		Metrics: []contracts.Metric{
			metric("Close", row.Close, 2),
			metric("VWMA20", row.VWMA, 0),
			metric("VWMA_Dist_%", row.DistPct, 2),
			metric("Rel_Vol", row.RelVol, 2),
			metric("AvgValue20D_B", row.AvgValue/1e9, 2),
			metric("ADR20_%", row.ADR, 2),
			metric("CloseLocation", row.CloseLoc, 2),
			metric("BodyRatio", row.Body, 2),
			textMetric("TrendOK", boolText(row.TrendOK)),
		},
	})
}

// decide classifies a row; scored is false for rows that short-circuit
func (s *VWAPPro) decide(r vwmaRow) (decision string, tier contracts.Tier, reasons []string, scored bool) {
	c := s.cfg

	switch {
	case !indicator.IsDefined(r.VWMA) || !indicator.IsDefined(r.RelVol):
		return "AVOID", contracts.TierAvoid, []string{"NoData"}, false
	case r.Close < c.MinPrice:
		return "AVOID", contracts.TierAvoid, []string{"LowPrice"}, false
	case !(r.AvgValue >= c.MinAvgValue):
		return "WAIT", contracts.TierWait, []string{"LowLiq"}, false
	case r.DistPct > c.MaxVWMADistPct:
		return "WAIT", contracts.TierWait, []string{"WAIT_OVEREXT"}, false
	}

	if r.CloseLoc < c.WeakCloseLoc {
		reasons = append(reasons, "WAIT_WEAK_CLOSE")
	}
	if r.Wick > c.TrapWickRatio && r.RelVol > c.TrapRelVol {
		return "AVOID", contracts.TierAvoid, []string{"AVOID_TRAP"}, false
	}

	ready := r.Close > r.VWMA &&
		r.RelVol >= c.RelVol &&
		r.CloseLoc >= c.ReadyCloseLoc &&
		r.Body >= c.ReadyBodyRatio &&
		r.DistPct <= c.MaxVWMADistPct

	decision, tier = "WAIT", contracts.TierWait
	switch {
	case ready && r.TrendOK:
		decision, tier = "READY", contracts.TierReady
		reasons = append(reasons, "OK")
	case ready:
		reasons = append(reasons, "WAIT_TREND")
	default:
		if r.Close <= r.VWMA {
			reasons = append(reasons, "WAIT_BELOW_VWMA")
		}
		if r.RelVol < c.RelVol {
			reasons = append(reasons, "WAIT_LOW_RVOL")
		}
	}

	if len(reasons) == 0 {
		reasons = []string{"WAIT"}
	}
	return decision, tier, reasons, true
}

// score blends damped volume, candle quality, trend and VWMA position
func (s *VWAPPro) score(r vwmaRow) int {
	v := 30 * math.Tanh(math.Max(r.RelVol-1, 0))
	v += 25*r.CloseLoc + 15*math.Min(1, r.Body)
	if r.TrendOK {
		v += 15
	}
	if r.Close > r.VWMA {
		v += 15
	}
	return int(indicator.Clamp(v, 0, 100))
}
