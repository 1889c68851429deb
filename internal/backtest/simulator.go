package backtest

import (
	"time"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
	"github.com/Tonxzz/Main-Screener/internal/risk"
)

// Trade is one closed position
type Trade struct {
	Ticker      string
	EntryDate   time.Time
	ExitDate    time.Time
	EntryPrice  float64
	ExitPrice   float64
	GrossReturn float64
	NetReturn   float64
}

// EquityPoint represents a point in the equity curve
type EquityPoint struct {
	Date   time.Time
	Equity float64
	Return float64 // cohort return applied at this point
}

// Stats holds simulation statistics
type Stats struct {
	Trades      int
	Winners     int
	WinRate     float64
	MeanReturn  float64
	TotalReturn float64
	MaxDrawdown float64
}

// Simulator books trades and compounds cohort returns into an equity
// curve. A cohort is the set of picks of one signal day, equally weighted.
type Simulator struct {
	cost   float64 // round trip, as a fraction
	weight float64 // share of capital committed per cohort

	equity float64
	trades []Trade
	curve  []EquityPoint
}

// NewSimulator creates a simulator starting from equity 1.0
func NewSimulator(costBps, weight float64) *Simulator {
	if weight <= 0 || weight > 1 {
		weight = 1
	}
	return &Simulator{cost: costBps / 10000, weight: weight, equity: 1}
}

// Open prices a trade from its entry and exit bars
func (s *Simulator) Open(ticker string, entry, exit contracts.PriceBar) Trade {
	t := Trade{
		Ticker:     ticker,
		EntryDate:  entry.Date,
		ExitDate:   exit.Date,
		EntryPrice: entry.Close,
		ExitPrice:  exit.Close,
	}
	if entry.Close > 0 {
		t.GrossReturn = exit.Close/entry.Close - 1
	}
	t.NetReturn = t.GrossReturn - s.cost
	return t
}

// Close books a cohort. Empty cohorts leave equity unchanged.
func (s *Simulator) Close(day time.Time, cohort []Trade) {
	s.trades = append(s.trades, cohort...)

	ret := 0.0
	if len(cohort) > 0 {
		ret = risk.Mean(netReturns(cohort)) * s.weight
	}
	s.equity *= 1 + ret
	s.curve = append(s.curve, EquityPoint{Date: day, Equity: s.equity, Return: ret})
}

// Trades returns the booked trades in entry order
func (s *Simulator) Trades() []Trade {
	return s.trades
}

// Curve returns the equity curve
func (s *Simulator) Curve() []EquityPoint {
	return s.curve
}

// Stats summarises the booked trades and curve
func (s *Simulator) Stats() Stats {
	st := Stats{Trades: len(s.trades), TotalReturn: s.equity - 1}

	returns := netReturns(s.trades)
	for _, r := range returns {
		if r > 0 {
			st.Winners++
		}
	}
	if st.Trades > 0 {
		st.WinRate = float64(st.Winners) / float64(st.Trades)
		st.MeanReturn = risk.Mean(returns)
	}

	equity := make([]float64, 0, len(s.curve)+1)
	equity = append(equity, 1)
	for _, p := range s.curve {
		equity = append(equity, p.Equity)
	}
	st.MaxDrawdown = risk.MaxDrawdown(equity)
	return st
}
