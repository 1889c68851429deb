package s0_data

import (
	"math"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
)

// storedMetric is the JSON form of a metric. JSON has no NaN, so undefined
// values travel as null.
type storedMetric struct {
	Name  string   `json:"name"`
	Value *float64 `json:"value"`
	Text  string   `json:"text,omitempty"`
}

func storedMetrics(ms []contracts.Metric) []storedMetric {
	out := make([]storedMetric, len(ms))
	for i, m := range ms {
		out[i] = storedMetric{Name: m.Name, Text: m.Text}
		if !math.IsNaN(m.Value) && !math.IsInf(m.Value, 0) {
			v := m.Value
			out[i].Value = &v
		}
	}
	return out
}

func loadMetrics(stored []storedMetric) []contracts.Metric {
	out := make([]contracts.Metric, len(stored))
	for i, s := range stored {
		out[i] = contracts.Metric{Name: s.Name, Value: math.NaN(), Text: s.Text}
		if s.Value != nil {
			out[i].Value = *s.Value
		}
	}
	return out
}
