package strategy

import (
	"github.com/Tonxzz/Main-Screener/internal/contracts"
	"github.com/Tonxzz/Main-Screener/internal/indicator"
	"github.com/Tonxzz/Main-Screener/internal/strategyconfig"
)

// IntradayMomentum scores the opening session: gap, projected volume,
// VWAP position and move since the open
type IntradayMomentum struct {
	cfg strategyconfig.IntradayMomentum
}

// NewIntradayMomentum creates the strategy
func NewIntradayMomentum(cfg strategyconfig.IntradayMomentum) *IntradayMomentum {
	return &IntradayMomentum{cfg: cfg}
}

func (s *IntradayMomentum) ID() string   { return KeyIntradayMomentum }
func (s *IntradayMomentum) Name() string { return "Intraday Momentum" }
func (s *IntradayMomentum) Tiered() bool { return true }

func (s *IntradayMomentum) Requirements() Requirements {
	return Requirements{
		DailyPeriod: contracts.Period1M,
		MinBars:     s.cfg.MinDailyBars,
		Intraday:    IntradayRequired,
	}
}

func (s *IntradayMomentum) Columns() []string {
	return []string{"Close", "Change%", "Gap%", "RVOL", "VWAP_Dist%", "RSI"}
}

func (s *IntradayMomentum) Output() Output {
	return Output{FilePrefix: "intraday_momentum", ReasonSep: ", ", Timestamped: true}
}

func (s *IntradayMomentum) Evaluate(in Input) contracts.Outcome {
	c := s.cfg

	if in.Intraday == nil || in.Intraday.Len() < c.MinIntradayBars {
		n := 0
		if in.Intraday != nil {
			n = in.Intraday.Len()
		}
		return contracts.Reject(in.Ticker, contracts.RejectInsufficientHistory,
			"intraday bars %d < %d", n, c.MinIntradayBars)
	}
	if out, short := tooShort(in, c.MinDailyBars); short {
		return out
	}

	bars := in.Intraday.Bars
	price := bars[len(bars)-1].Close
	if price < c.MinPrice {
		return contracts.Reject(in.Ticker, contracts.RejectLowPrice, "price %.0f < %.0f", price, c.MinPrice)
	}

	prevClose := in.Daily.Bars[in.Daily.Len()-2].Close
	open := bars[0].Open
	gap := indicator.PctChange(prevClose, open)
	if !indicator.IsDefined(gap) {
		return contracts.Reject(in.Ticker, contracts.RejectNoSignal, "undefined gap (prev close %.2f)", prevClose)
	}
	if gap < c.MaxGapDownPct {
		return contracts.Reject(in.Ticker, contracts.RejectGapDown, "gap %.2f%% < %.2f%%", gap, c.MaxGapDownPct)
	}

	change := indicator.Or(indicator.PctChange(open, price), 0)
	rvol := s.projectedRVOL(in)

	vwap := indicator.VWAP(bars)
	vwapDist := 0.0
	if vwap > 0 {
		vwapDist = (price - vwap) / vwap * 100
	}

	rsi := indicator.Last(indicator.RSI(in.Daily.Closes(), 14))
	overbought := rsi > c.RSIOverbought

	score := 0
	var reasons []string

	switch {
	case gap > c.GapUpPct:
		score += 2
		reasons = append(reasons, "GapUp")
	case gap > 0:
		score++
		reasons = append(reasons, "Flat")
	}

	switch {
	case rvol > c.RVOLSpike:
		score += 3
		reasons = append(reasons, "VolSpike")
	case rvol > c.RVOLUp:
		score += 2
		reasons = append(reasons, "VolUp")
	case rvol > c.RVOLBase:
		score++
	}

	if price > vwap {
		score += 2
		reasons = append(reasons, "AboveVWAP")
	}

	switch {
	case change > c.MomentumPct:
		score += 2
		reasons = append(reasons, "Momo+")
	case change > 0:
		score++
	}

	if overbought {
		score -= 2
		reasons = append(reasons, "OVERBOUGHT")
	}

	if score < 1 {
		return contracts.Reject(in.Ticker, contracts.RejectNoSignal, "score %d", score)
	}

	decision, tier := "WAIT", contracts.TierWait
	switch {
	case score >= c.ReadyScore:
		decision, tier = "READY", contracts.TierReady
	case score >= c.WatchScore:
		decision = "WATCH"
	}

	return contracts.Emit(contracts.ScreenerResult{
		Ticker:      in.Ticker,
		Score:       float64(score),
		Decision:    decision,
		Tier:        tier,
		ReasonCodes: orBaseline(reasons),
		Metrics: []contracts.Metric{
			metric("Close", price, 2),
			metric("Change%", change, 2),
			metric("Gap%", gap, 2),
			metric("RVOL", rvol, 2),
			metric("VWAP_Dist%", vwapDist, 2),
			metric("RSI", indicator.Or(rsi, 50), 1),
		},
	})
}

// projectedRVOL extrapolates the session volume to a full day and divides
// by the mean daily volume of the prior sessions
func (s *IntradayMomentum) projectedRVOL(in Input) float64 {
	var sessionVol float64
	for _, b := range in.Intraday.Bars {
		sessionVol += b.Volume
	}
	projected := sessionVol / float64(in.Intraday.Len()) * float64(s.cfg.SessionMinutes)

	volumes := in.Daily.Volumes()
	avg := indicator.Last(indicator.SMA(volumes[:len(volumes)-1], s.cfg.VolumeWindow))
	if indicator.IsDefined(avg) && avg != 0 {
		return projected / avg
	}

	if mean := indicator.Mean(volumes); mean > 0 {
		return projected / mean
	}
	return 1.0
}
