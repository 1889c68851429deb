package contracts

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierPriority(t *testing.T) {
	assert.Less(t, TierReady.Priority(), TierWait.Priority())
	assert.Less(t, TierWait.Priority(), TierAvoid.Priority())
	assert.Equal(t, 0, TierNone.Priority())

	assert.Equal(t, "READY", TierReady.String())
	assert.Equal(t, "NONE", TierNone.String())

	for _, tier := range []Tier{TierReady, TierWait, TierAvoid, TierNone} {
		assert.Equal(t, tier, ParseTier(tier.String()))
	}
}

func TestMetricFormat(t *testing.T) {
	tests := []struct {
		metric Metric
		want   string
	}{
		{Metric{Name: "Close", Value: 1234.5}, "1234.50"},
		{Metric{Name: "RSI", Value: math.NaN()}, ""},
		{Metric{Name: "RR", Text: "1:2"}, "1:2"},
		{Metric{Name: "CMF", Value: -0.0512}, "-0.05"},
	}
	for _, tt := range tests {
		t.Run(tt.metric.Name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.metric.Format())
		})
	}
}

func TestOutcome(t *testing.T) {
	out := Emit(ScreenerResult{Ticker: "BBRI.JK", ReasonCodes: []string{"VWMA+", "VOL+"}})
	require.True(t, out.Emitted())
	assert.Nil(t, out.Rejection)
	assert.Equal(t, "VWMA+|VOL+", out.Result.Reasons("|"))

	rej := Reject("GOTO.JK", RejectLowPrice, "price %.0f < %.0f", 48.0, 50.0)
	require.False(t, rej.Emitted())
	assert.Equal(t, RejectLowPrice, rej.Rejection.Reason)
	assert.Equal(t, "price 48 < 50", rej.Rejection.Detail)
}

func TestResultTableReady(t *testing.T) {
	table := ResultTable{Results: []ScreenerResult{
		{Ticker: "A", Tier: TierReady},
		{Ticker: "B", Tier: TierWait},
		{Ticker: "C", Tier: TierReady},
	}}

	ready := table.Ready()
	require.Len(t, ready, 2)
	assert.Equal(t, "A", ready[0].Ticker)
	assert.Equal(t, "C", ready[1].Ticker)
}

func TestMarketRegime(t *testing.T) {
	at := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	unknown := UnknownRegime(at)
	assert.False(t, unknown.IsKnown())
	assert.Equal(t, at, unknown.ComputedAt)

	assert.True(t, MarketRegime{Label: RegimeBearWeak}.IsKnown())
}

func TestMetricJSONUndefinedIsNull(t *testing.T) {
	data, err := json.Marshal([]Metric{
		{Name: "VWMA_Dist_%", Value: math.NaN()},
		{Name: "Close", Value: 9875},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"VWMA_Dist_%","value":null},{"name":"Close","value":9875}]`, string(data))

	var back []Metric
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, math.IsNaN(back[0].Value))
	assert.Equal(t, 9875.0, back[1].Value)
}
