package strategy

import (
	"github.com/Tonxzz/Main-Screener/internal/contracts"
	"github.com/Tonxzz/Main-Screener/internal/indicator"
	"github.com/Tonxzz/Main-Screener/internal/strategyconfig"
)

// BSJP ("beli sore jual pagi") looks for late-session strength worth
// holding overnight. Untiered: ranked by score only.
type BSJP struct {
	cfg strategyconfig.BSJP
}

// NewBSJP creates the strategy
func NewBSJP(cfg strategyconfig.BSJP) *BSJP {
	return &BSJP{cfg: cfg}
}

func (s *BSJP) ID() string   { return KeyBSJP }
func (s *BSJP) Name() string { return "BSJP Volatility Expansion" }
func (s *BSJP) Tiered() bool { return false }

func (s *BSJP) Requirements() Requirements {
	return Requirements{
		DailyPeriod: contracts.Period3M,
		MinBars:     s.cfg.MinBars,
		Intraday:    IntradayOptional,
	}
}

func (s *BSJP) Columns() []string {
	return []string{"Close", "Change%", "Volume_B", "Rel_Vol", "Wick_Ratio"}
}

func (s *BSJP) Output() Output {
	return Output{FilePrefix: "bsjp_results", ReasonSep: ", "}
}

func (s *BSJP) Evaluate(in Input) contracts.Outcome {
	c := s.cfg
	if out, short := tooShort(in, c.MinBars); short {
		return out
	}

	day := today(in)
	if day.Price < c.MinPrice {
		return contracts.Reject(in.Ticker, contracts.RejectLowPrice, "price %.0f < %.0f", day.Price, c.MinPrice)
	}

	value := day.Price * day.Volume
	if value < c.MinValue {
		return contracts.Reject(in.Ticker, contracts.RejectLowLiquidity, "value %.0f < %.0f", value, c.MinValue)
	}

	prevClose := in.Daily.Bars[in.Daily.Len()-2].Close
	change := indicator.Or(indicator.PctChange(prevClose, day.Price), 0)

	relVol := 0.0
	if avg := indicator.Last(indicator.SMA(in.Daily.Volumes(), c.VolumeWindow)); avg > 0 {
		relVol = day.Volume / avg
	}

	upper, lower := indicator.Wicks(contracts.PriceBar{
		Open:  day.Open,
		High:  day.High,
		Low:   day.Low,
		Close: day.Price,
	})

	closes := in.Daily.Closes()
	emaFast := indicator.Last(indicator.EMA(closes, c.EMAFast))
	emaSlow := indicator.Last(indicator.EMA(closes, c.EMASlow))
	trend := day.Price > emaFast && emaFast > emaSlow

	score := 0
	var reasons []string

	if trend {
		score += 2
		reasons = append(reasons, "EMA_Flow")
	}

	switch {
	case relVol > c.RelVolStrong:
		score += 2
		reasons = append(reasons, "VolUp")
	case relVol > c.RelVolUp:
		score++
	}

	switch {
	case change > c.ChangeStrongPct:
		score += 2
		reasons = append(reasons, "Green")
	case change > 0:
		score++
	}

	if upper < c.UpperWickMax {
		score++
		reasons = append(reasons, "StrongClose")
	}

	if lower > c.HammerLowerWick && change > 0 {
		score += 2
		reasons = append(reasons, "Hammer")
	}

	if score < 1 {
		return contracts.Reject(in.Ticker, contracts.RejectNoSignal, "score %d", score)
	}

	return contracts.Emit(contracts.ScreenerResult{
		Ticker:      in.Ticker,
		Score:       float64(score),
		Tier:        contracts.TierNone,
		ReasonCodes: orBaseline(reasons),
		Metrics: []contracts.Metric{
			metric("Close", day.Price, 2),
			metric("Change%", change, 2),
			metric("Volume_B", value/1e9, 2),
			metric("Rel_Vol", relVol, 2),
			metric("Wick_Ratio", upper, 2),
		},
	})
}
