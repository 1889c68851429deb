package strategy

import (
	"math"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
	"github.com/Tonxzz/Main-Screener/internal/indicator"
)

// session is the price action used as "today"
type session struct {
	Open, High, Low, Price, Volume float64
	Live                           bool // taken from intraday bars
}

// today prefers the live 1m session and falls back to the last daily bar
func today(in Input) session {
	if in.Intraday != nil && !in.Intraday.Empty() {
		bars := in.Intraday.Bars
		s := session{
			Open:  bars[0].Open,
			High:  bars[0].High,
			Low:   bars[0].Low,
			Price: bars[len(bars)-1].Close,
			Live:  true,
		}
		for _, b := range bars {
			s.High = math.Max(s.High, b.High)
			s.Low = math.Min(s.Low, b.Low)
			s.Volume += b.Volume
		}
		return s
	}

	last, _ := in.Daily.Last()
	return session{Open: last.Open, High: last.High, Low: last.Low, Price: last.Close, Volume: last.Volume}
}

func tooShort(in Input, need int) (contracts.Outcome, bool) {
	if in.Daily.Len() < need {
		return contracts.Reject(in.Ticker, contracts.RejectInsufficientHistory,
			"daily bars %d < %d", in.Daily.Len(), need), true
	}
	return contracts.Outcome{}, false
}

func metric(name string, v float64, places int) contracts.Metric {
	return contracts.Metric{Name: name, Value: round(v, places)}
}

func textMetric(name, text string) contracts.Metric {
	return contracts.Metric{Name: name, Text: text}
}

func round(v float64, places int) float64 {
	if !indicator.IsDefined(v) {
		return v
	}
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func orBaseline(reasons []string) []string {
	if len(reasons) == 0 {
		return []string{"Baseline"}
	}
	return reasons
}

func boolText(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
