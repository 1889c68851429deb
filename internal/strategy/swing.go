package strategy

import (
	"math"
	"strings"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
	"github.com/Tonxzz/Main-Screener/internal/indicator"
	"github.com/Tonxzz/Main-Screener/internal/strategyconfig"
)

// vwmaRow is the latest-bar view shared by the VWMA swing strategies
type vwmaRow struct {
	Close    float64
	VWMA     float64
	DistPct  float64
	RelVol   float64
	AvgValue float64
	ADR      float64
	CloseLoc float64
	Body     float64
	Wick     float64
	EMA20    float64
	EMA50    float64
	TrendOK  bool
}

func newVWMARow(series contracts.PriceSeries) vwmaRow {
	snap := indicator.Latest(series)
	r := vwmaRow{
		Close:    snap.Get(indicator.KeyClose),
		VWMA:     snap.Get(indicator.KeyVWMA20),
		RelVol:   snap.Get(indicator.KeyRelativeVolume),
		AvgValue: snap.Get(indicator.KeyAvgValue20D),
		ADR:      snap.Get(indicator.KeyADR20),
		CloseLoc: snap.Get(indicator.KeyCloseLocation),
		Body:     snap.Get(indicator.KeyBodyRatio),
		Wick:     snap.Get(indicator.KeyWickRatio),
		EMA20:    snap.Get(indicator.KeyEMA20),
		EMA50:    snap.Get(indicator.KeyEMA50),
	}
	r.DistPct = math.NaN()
	if indicator.IsDefined(r.VWMA) && r.VWMA != 0 {
		r.DistPct = (r.Close - r.VWMA) / r.VWMA * 100
	}
	r.TrendOK = r.Close > r.EMA20 && r.EMA20 > r.EMA50
	return r
}

// Swing is the three-tier VWMA continuation state machine.
// AVOID checks short-circuit; READY needs every entry condition.
type Swing struct {
	cfg strategyconfig.Swing
}

// NewSwing creates the strategy
func NewSwing(cfg strategyconfig.Swing) *Swing {
	return &Swing{cfg: cfg}
}

func (s *Swing) ID() string   { return KeySwing }
func (s *Swing) Name() string { return "Swing Continuation" }
func (s *Swing) Tiered() bool { return true }

func (s *Swing) Requirements() Requirements {
	return Requirements{DailyPeriod: contracts.Period6M, MinBars: s.cfg.MinBars}
}

func (s *Swing) Columns() []string {
	return []string{"Close", "VWMA20", "VWMA_Dist_%", "Rel_Vol", "AvgValue20D_B", "ADR20_%",
		"CloseLocation", "BodyRatio", "WickRatio", "EMA20", "EMA50", "TrendOK"}
}

func (s *Swing) Output() Output {
	return Output{FilePrefix: "idx_swing_daily", ReasonSep: "|"}
}

func (s *Swing) Evaluate(in Input) contracts.Outcome {
	if out, short := tooShort(in, s.cfg.MinBars); short {
		return out
	}

	row := newVWMARow(in.Daily)
	decision, tier, score, reasons := s.decide(row)

	return contracts.Emit(contracts.ScreenerResult{
		Ticker:      in.Ticker,
		Score:       float64(score),
		Decision:    decision,
		Tier:        tier,
		ReasonCodes: reasons,
		Metrics: []contracts.Metric{
			metric("Close", row.Close, 2),
			metric("VWMA20", row.VWMA, 2),
			metric("VWMA_Dist_%", row.DistPct, 2),
			metric("Rel_Vol", row.RelVol, 2),
			metric("AvgValue20D_B", row.AvgValue/1e9, 2),
			metric("ADR20_%", row.ADR, 2),
			metric("CloseLocation", row.CloseLoc, 3),
			metric("BodyRatio", row.Body, 3),
			metric("WickRatio", row.Wick, 3),
			metric("EMA20", row.EMA20, 2),
			metric("EMA50", row.EMA50, 2),
			textMetric("TrendOK", boolText(row.TrendOK)),
		},
	})
}

// decide classifies a row. Missing indicators fail every threshold.
func (s *Swing) decide(r vwmaRow) (string, contracts.Tier, int, []string) {
	c := s.cfg

	switch {
	case !indicator.IsDefined(r.Close) || !indicator.IsDefined(r.VWMA):
		return "AVOID_NODATA", contracts.TierAvoid, 0, []string{"NODATA"}
	case r.Close < c.MinPrice:
		return "AVOID_LOWPRICE", contracts.TierAvoid, 0, []string{"LOWPRICE"}
	case !(r.AvgValue >= c.MinAvgValue):
		return "AVOID_LIQUIDITY", contracts.TierAvoid, 0, []string{"LOWLIQ"}
	case r.Wick > c.TrapWickRatio && r.Body < c.TrapBodyRatio:
		return "AVOID_TRAP", contracts.TierAvoid, 0, []string{"TRAP"}
	}

	aboveVWMA := r.Close > r.VWMA
	volOK := r.RelVol >= c.ReadyRelVol
	clocOK := r.CloseLoc >= c.ReadyCloseLoc
	bodyOK := r.Body >= c.ReadyBodyRatio
	distOK := r.DistPct <= c.MaxVWMADistPct

	score := 0
	var reasons []string
	award := func(ok bool, pts int, code string) {
		if ok {
			score += pts
			reasons = append(reasons, code)
		}
	}
	award(aboveVWMA, c.Points.AboveVWMA, "VWMA+")
	award(volOK, c.Points.RelVol, "VOL+")
	award(clocOK, c.Points.CloseLoc, "CLOC+")
	award(bodyOK, c.Points.BodyRatio, "BODY+")
	award(math.Abs(r.DistPct) <= c.TightDistPct, c.Points.Tight, "TIGHT+")
	award(r.TrendOK, c.Points.Trend, "TREND+")

	if len(reasons) == 0 {
		reasons = []string{"NONE"}
	}

	if aboveVWMA && volOK && clocOK && bodyOK && distOK && r.TrendOK {
		return "READY", contracts.TierReady, score, reasons
	}

	var missing []string
	if !aboveVWMA {
		missing = append(missing, "VWMA")
	}
	if !r.TrendOK {
		missing = append(missing, "TREND")
	}
	if !volOK {
		missing = append(missing, "VOL")
	}
	if !clocOK {
		missing = append(missing, "CLOC")
	}
	if !bodyOK {
		missing = append(missing, "BODY")
	}
	if !distOK {
		missing = append(missing, "DIST")
	}

	decision := "WAIT"
	if len(missing) > 0 {
		decision = "WAIT_" + strings.Join(missing, "+")
	}
	return decision, contracts.TierWait, score, reasons
}
