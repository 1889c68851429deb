package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
	"github.com/Tonxzz/Main-Screener/internal/strategyconfig"
)

func TestDivergence(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		obv    []float64
		want   string
	}{
		{"flat price, rising obv", ramp(10, 100, 100), ramp(10, 1000, 2000), OBVBullish},
		{"falling price, rising obv", ramp(10, 100, 95), ramp(10, 1000, 2000), OBVBullish},
		{"both rising", ramp(10, 100, 110), ramp(10, 1000, 1500), OBVAccumulation},
		{"obv barely rising", ramp(10, 100, 100), ramp(10, 1000, 1010), OBVNeutral},
		{"both falling", ramp(10, 100, 90), ramp(10, 1000, 500), OBVNeutral},
		{"too few bars", ramp(5, 100, 100), ramp(5, 1000, 2000), OBVNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Divergence(tt.closes, tt.obv, 10, 0.02, 0.05))
		})
	}
}

func TestSmartMoneyEmitsOBVSignal(t *testing.T) {
	s := NewSmartMoney(strategyconfig.Default().SmartMoney)

	out := s.Evaluate(Input{Ticker: "ANTM.JK", Daily: seriesOf("ANTM.JK", healthyDaily(130))})
	require.True(t, out.Emitted(), "rejection: %+v", out.Rejection)

	signal, ok := out.Result.Metric("OBV_Signal")
	require.True(t, ok)
	assert.Contains(t, []string{OBVBullish, OBVAccumulation, OBVNeutral}, signal.Text)

	validation, _ := out.Result.Metric("Validation_Score")
	assert.Equal(t, out.Result.Score*15, validation.Value)
	assert.Contains(t, out.Result.ReasonCodes, "VolSpike")
}

func TestSmartMoneyRejections(t *testing.T) {
	s := NewSmartMoney(strategyconfig.Default().SmartMoney)

	penny := s.Evaluate(Input{Ticker: "BUMI.JK", Daily: seriesOf("BUMI.JK", flatDaily(40, 30, 1e9))})
	require.False(t, penny.Emitted())
	assert.Equal(t, contracts.RejectLowPrice, penny.Rejection.Reason)

	short := s.Evaluate(Input{Ticker: "NEW.JK", Daily: seriesOf("NEW.JK", flatDaily(10, 1000, 1e6))})
	require.False(t, short.Emitted())
	assert.Equal(t, contracts.RejectInsufficientHistory, short.Rejection.Reason)
}
