package battery

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCharge(t *testing.T) {
	tests := []struct {
		name      string
		current   int
		currentOK bool
		total     int
		totalOK   bool
		state     ChargeState
		fraction  float64
		ratio     float64
	}{
		{"half", 50, true, 100, true, ChargeKnown, 0.5, 0.5},
		{"empty", 0, true, 100, true, ChargeKnown, 0, 0},
		{"above maximum is clamped", 5200, true, 5000, true, ChargeKnown, 1, 1.04},
		{"zero maximum", 50, true, 0, true, ChargeUnknown, 0, 0},
		{"negative current", -5, true, 100, true, ChargeUnknown, 0, -0.05},
		{"current missing", 0, false, 100, true, ChargeUnavailable, 0, 0.01},
		{"both missing", 0, false, 0, false, ChargeUnavailable, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCharge(tt.current, tt.currentOK, tt.total, tt.totalOK)
			assert.Equal(t, tt.state, c.State)
			assert.InDelta(t, tt.fraction, c.Fraction, 1e-9)
			assert.InDelta(t, tt.ratio, c.Ratio, 1e-9)
			assert.False(t, math.IsNaN(c.Ratio) || math.IsInf(c.Ratio, 0))
		})
	}
}

func TestPredict(t *testing.T) {
	p := Predict(TimeRemainingUnlimited)
	assert.Equal(t, PredictionUnlimited, p.Kind)
	assert.Equal(t, "Plugged", p.Description)
	assert.Nil(t, p.Minutes)
	assert.Equal(t, "Plugged", p.String())

	p = Predict(TimeRemainingUnknown)
	assert.Equal(t, PredictionUnknown, p.Kind)
	assert.Equal(t, "Recently unplugged", p.Description)
	assert.Nil(t, p.Minutes)

	p = Predict(-30 * time.Second)
	assert.Equal(t, PredictionUnknown, p.Kind)

	p = Predict(600 * time.Second)
	assert.Equal(t, PredictionRemaining, p.Kind)
	assert.Equal(t, "Time remaining:", p.Description)
	require.NotNil(t, p.Minutes)
	assert.Equal(t, 10, *p.Minutes)

	p = Predict(89 * time.Second)
	require.NotNil(t, p.Minutes)
	assert.Equal(t, 1, *p.Minutes)

	p = Predict(0)
	require.NotNil(t, p.Minutes)
	assert.Equal(t, 0, *p.Minutes)
	assert.Equal(t, "Time remaining: 0 Hrs 00 Mins", p.String())
}
