package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
)

func TestQualityGate_Check(t *testing.T) {
	gate := NewQualityGate(DefaultConfig())

	tests := []struct {
		name         string
		summary      contracts.Summary
		wantFetch    float64
		wantHistory  float64
		wantScore    float64
		wantPassed   bool
		wantWarnings []string
	}{
		{
			name:        "empty universe",
			summary:     contracts.Summary{},
			wantFetch:   1,
			wantHistory: 1,
			wantScore:   1,
			wantPassed:  true,
		},
		{
			name: "healthy run",
			summary: contracts.Summary{Evaluated: 100, ByReject: map[string]int{
				"FETCH_FAILED":         5,
				"INSUFFICIENT_HISTORY": 19,
				"LOW_PRICE":            30,
			}},
			wantFetch:   0.95,
			wantHistory: 0.8,
			wantScore:   0.89,
			wantPassed:  true,
		},
		{
			name: "provider outage",
			summary: contracts.Summary{Evaluated: 40, ByReject: map[string]int{
				"FETCH_FAILED": 40,
			}},
			wantFetch:    0,
			wantHistory:  0,
			wantScore:    0,
			wantWarnings: []string{WarnLowFetchCoverage, WarnLowHistoryCoverage},
		},
		{
			name: "young listings",
			summary: contracts.Summary{Evaluated: 10, ByReject: map[string]int{
				"INSUFFICIENT_HISTORY": 5,
			}},
			wantFetch:    1,
			wantHistory:  0.5,
			wantScore:    0.8,
			wantWarnings: []string{WarnLowHistoryCoverage},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := gate.Check(tt.summary)
			assert.InDelta(t, tt.wantFetch, q.FetchCoverage, 1e-9)
			assert.InDelta(t, tt.wantHistory, q.HistoryCoverage, 1e-9)
			assert.InDelta(t, tt.wantScore, q.Score, 1e-9)
			assert.Equal(t, tt.wantPassed, q.Passed)
			assert.Equal(t, tt.wantWarnings, q.Warnings)
		})
	}
}
