package contracts

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// Tier is the ranking priority of a decision (lower sorts first)
type Tier int

const (
	TierReady Tier = iota
	TierWait
	TierAvoid
	TierNone // untiered strategies
)

// String returns the tier name used in summaries
func (t Tier) String() string {
	switch t {
	case TierReady:
		return "READY"
	case TierWait:
		return "WAIT"
	case TierAvoid:
		return "AVOID"
	default:
		return "NONE"
	}
}

// ParseTier is the inverse of String; unknown names map to TierNone
func ParseTier(s string) Tier {
	switch s {
	case "READY":
		return TierReady
	case "WAIT":
		return TierWait
	case "AVOID":
		return TierAvoid
	default:
		return TierNone
	}
}

// Priority returns the sort key; untiered results all share one bucket
func (t Tier) Priority() int {
	if t == TierNone {
		return 0
	}
	return int(t)
}

// Metric is one strategy-declared output column
type Metric struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Text  string  `json:"text,omitempty"` // non-numeric columns (e.g. OBV_Signal)
}

// Format renders the metric the way the CSV report prints it
func (m Metric) Format() string {
	if m.Text != "" {
		return m.Text
	}
	if math.IsNaN(m.Value) || math.IsInf(m.Value, 0) {
		return ""
	}
	return fmt.Sprintf("%.2f", m.Value)
}

// metricJSON mirrors Metric with an undefined value encoded as null
type metricJSON struct {
	Name  string   `json:"name"`
	Value *float64 `json:"value"`
	Text  string   `json:"text,omitempty"`
}

// MarshalJSON writes NaN and Inf values as null
func (m Metric) MarshalJSON() ([]byte, error) {
	out := metricJSON{Name: m.Name, Text: m.Text}
	if !math.IsNaN(m.Value) && !math.IsInf(m.Value, 0) {
		v := m.Value
		out.Value = &v
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a null value back as NaN
func (m *Metric) UnmarshalJSON(data []byte) error {
	var in metricJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	m.Name, m.Text, m.Value = in.Name, in.Text, math.NaN()
	if in.Value != nil {
		m.Value = *in.Value
	}
	return nil
}

// ScreenerResult is one emitted row of a strategy run
type ScreenerResult struct {
	Ticker      string      `json:"ticker"`
	Score       float64     `json:"score"`
	Decision    string      `json:"decision,omitempty"`
	Tier        Tier        `json:"tier"`
	ReasonCodes []string    `json:"reason_codes"`
	Metrics     []Metric    `json:"metrics"`
	Risk        *RiskLevels `json:"risk,omitempty"`
	Rank        int         `json:"rank"`
	RankReady   int         `json:"rank_ready,omitempty"`
}

// Metric looks up a metric by column name
func (r ScreenerResult) Metric(name string) (Metric, bool) {
	for _, m := range r.Metrics {
		if m.Name == name {
			return m, true
		}
	}
	return Metric{}, false
}

// Reasons joins the reason codes with sep
func (r ScreenerResult) Reasons(sep string) string {
	return strings.Join(r.ReasonCodes, sep)
}

// RejectReason classifies why a ticker produced no result
type RejectReason string

const (
	RejectInsufficientHistory RejectReason = "INSUFFICIENT_HISTORY"
	RejectLowPrice            RejectReason = "LOW_PRICE"
	RejectLowLiquidity        RejectReason = "LOW_LIQUIDITY"
	RejectGapDown             RejectReason = "GAP_DOWN"
	RejectFetchFailed         RejectReason = "FETCH_FAILED"
	RejectNoSignal            RejectReason = "NO_SIGNAL"
	RejectCancelled           RejectReason = "CANCELLED"
)

// Rejection is the typed "no result" outcome
type Rejection struct {
	Ticker string       `json:"ticker"`
	Reason RejectReason `json:"reason"`
	Detail string       `json:"detail,omitempty"`
}

// Outcome holds exactly one of Result or Rejection
type Outcome struct {
	Result    *ScreenerResult
	Rejection *Rejection
}

// Emit wraps a result
func Emit(r ScreenerResult) Outcome {
	return Outcome{Result: &r}
}

// Reject builds a rejection outcome
func Reject(ticker string, reason RejectReason, format string, args ...interface{}) Outcome {
	return Outcome{Rejection: &Rejection{
		Ticker: ticker,
		Reason: reason,
		Detail: fmt.Sprintf(format, args...),
	}}
}

// Emitted reports whether the outcome carries a result
func (o Outcome) Emitted() bool {
	return o.Result != nil
}

// Summary counts a finished run
type Summary struct {
	Evaluated int            `json:"evaluated"`
	Emitted   int            `json:"emitted"`
	Rejected  int            `json:"rejected"`
	ByTier    map[string]int `json:"by_tier"`
	ByReject  map[string]int `json:"by_reject"`
}

// DataQuality grades how much of the universe produced usable data
type DataQuality struct {
	FetchCoverage   float64  `json:"fetch_coverage"`
	HistoryCoverage float64  `json:"history_coverage"`
	Score           float64  `json:"score"`
	Passed          bool     `json:"passed"`
	Warnings        []string `json:"warnings,omitempty"`
}

// ResultTable is the ranked output of one strategy run
type ResultTable struct {
	Strategy    string           `json:"strategy"`
	RunID       string           `json:"run_id"`
	GeneratedAt time.Time        `json:"generated_at"`
	Regime      MarketRegime     `json:"regime"`
	Tiered      bool             `json:"tiered"`
	Columns     []string         `json:"columns"`
	Results     []ScreenerResult `json:"results"`
	Summary     Summary          `json:"summary"`
	Quality     DataQuality      `json:"quality"`
	ConfigHash  string           `json:"config_hash,omitempty"`
	Partial     bool             `json:"partial"`
}

// Ready returns the READY subset in rank order
func (t ResultTable) Ready() []ScreenerResult {
	var out []ScreenerResult
	for _, r := range t.Results {
		if r.Tier == TierReady {
			out = append(out, r)
		}
	}
	return out
}
