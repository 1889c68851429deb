package strategy

import (
	"github.com/Tonxzz/Main-Screener/internal/contracts"
	"github.com/Tonxzz/Main-Screener/internal/indicator"
	"github.com/Tonxzz/Main-Screener/internal/regime"
	"github.com/Tonxzz/Main-Screener/internal/strategyconfig"
)

// RSNeutral is reported when relative strength cannot be computed
const RSNeutral = 50

// Ultimate blends trend, money flow, momentum and relative strength
// against the benchmark. Untiered: ranked by score only.
type Ultimate struct {
	cfg strategyconfig.Ultimate
}

// NewUltimate creates the strategy
func NewUltimate(cfg strategyconfig.Ultimate) *Ultimate {
	return &Ultimate{cfg: cfg}
}

func (s *Ultimate) ID() string   { return KeyUltimate }
func (s *Ultimate) Name() string { return "Ultimate Hybrid" }
func (s *Ultimate) Tiered() bool { return false }

func (s *Ultimate) Requirements() Requirements {
	return Requirements{
		DailyPeriod:     contracts.Period6M,
		MinBars:         s.cfg.MinBars,
		Intraday:        IntradayOptional,
		BenchmarkPeriod: contracts.Period6M,
	}
}

func (s *Ultimate) Columns() []string {
	return []string{"Close", "Validation", "RS_Rating", "Rel_Vol", "CMF", "RSI", "StopLoss", "Target", "RR", "Regime_Score"}
}

func (s *Ultimate) Output() Output {
	return Output{FilePrefix: "ultimate_results", ReasonSep: ", "}
}

func (s *Ultimate) Evaluate(in Input) contracts.Outcome {
	c := s.cfg
	if out, short := tooShort(in, c.MinBars); short {
		return out
	}

	day := today(in)
	if day.Price < c.MinPrice {
		return contracts.Reject(in.Ticker, contracts.RejectLowPrice, "price %.0f < %.0f", day.Price, c.MinPrice)
	}
	if value := day.Price * day.Volume; value < c.MinValue {
		return contracts.Reject(in.Ticker, contracts.RejectLowLiquidity, "value %.0f < %.0f", value, c.MinValue)
	}

	bars := in.Daily.Bars
	closes := in.Daily.Closes()
	emaFast := indicator.Last(indicator.EMA(closes, c.EMAFast))
	emaSlow := indicator.Last(indicator.EMA(closes, c.EMASlow))
	rsi := indicator.Last(indicator.RSI(closes, 14))
	cmf := indicator.Last(indicator.CMF(bars, 20))
	levels := in.Risk.Compute(in.Daily)

	relVol := 0.0
	if avg := indicator.Last(indicator.SMA(in.Daily.Volumes(), 20)); avg > 0 {
		relVol = day.Volume / avg
	}

	trendOK := day.Price > emaFast && emaFast > emaSlow
	moneyIn := cmf > c.CMFMoneyIn
	rs := RSRating(closes, in.Benchmark, c.RSLookback)

	score := 0
	var reasons []string

	switch {
	case trendOK:
		score += 3
		reasons = append(reasons, "Uptrend")
	case day.Price > emaSlow:
		score++
		reasons = append(reasons, "AboveEMA50")
	}
	if moneyIn {
		score += 2
		reasons = append(reasons, "MoneyIn")
	}
	if rsi > c.RSIBullish {
		score++
		reasons = append(reasons, "RSI+")
	}
	if relVol > c.RelVolSpike {
		score += 2
		reasons = append(reasons, "VolSpike")
	}
	switch {
	case float64(rs) > c.RSOutperform:
		score += 2
		reasons = append(reasons, "Outperform")
	case float64(rs) > c.RSPositive:
		score++
		reasons = append(reasons, "RS+")
	}
	if rsi > c.RSIOverbought {
		score--
		reasons = append(reasons, "Overbought")
	}

	if score < 1 {
		return contracts.Reject(in.Ticker, contracts.RejectNoSignal, "score %d", score)
	}

	validation := score * 10
	if trendOK && moneyIn {
		validation += 20
	}
	if float64(rs) > c.RSOutperform {
		validation += 15
	}
	validation = min(validation, 100)

	return contracts.Emit(contracts.ScreenerResult{
		Ticker:      in.Ticker,
		Score:       float64(score),
		Tier:        contracts.TierNone,
		ReasonCodes: orBaseline(reasons),
		Risk:        &levels,
		Metrics: []contracts.Metric{
			metric("Close", day.Price, 2),
			metric("Validation", float64(validation), 0),
			metric("RS_Rating", float64(rs), 0),
			metric("Rel_Vol", relVol, 2),
			metric("CMF", cmf, 3),
			metric("RSI", rsi, 1),
			metric("StopLoss", levels.StopLoss, 0),
			metric("Target", levels.Target, 0),
			textMetric("RR", levels.RiskReward),
			metric("Regime_Score", regime.Adjust(float64(score), in.Regime), 2),
		},
	})
}

// RSRating compares the lookback-bar return of closes with the
// benchmark's: ratio x 100 clamped to [0, 200]. A flat benchmark gives 100
// for a rising ticker and 50 otherwise; missing data gives RSNeutral.
func RSRating(closes []float64, benchmark *contracts.PriceSeries, lookback int) int {
	if benchmark == nil || benchmark.Len() < lookback || len(closes) < lookback {
		return RSNeutral
	}

	stock := indicator.Return(closes, lookback)
	bench := indicator.Return(benchmark.Closes(), lookback)
	if !indicator.IsDefined(stock) || !indicator.IsDefined(bench) {
		return RSNeutral
	}

	if bench == 0 {
		if stock > 0 {
			return 100
		}
		return 50
	}
	return int(indicator.Clamp(stock/bench*100, 0, 200))
}
