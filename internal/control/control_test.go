package control

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatio_DeadZoneIsUnity(t *testing.T) {
	for _, consume := range []float64{0, 1, -1, 15, -15, 15.999, -15.999} {
		assert.InDelta(t, 1.0, Ratio(consume), 0, "consume %v", consume)
	}
}

func TestRatio_Values(t *testing.T) {
	tests := []struct {
		consume float64
		want    float64
	}{
		{16, math.Pow(10, 16.0/10000)},
		{-16, math.Pow(10, -16.0/10000)},
		{5000, math.Sqrt(10)},
		{-5000, 1 / math.Sqrt(10)},
		{10000, MaxRatio},
		{-10000, MinRatio},
		{1e9, MaxRatio},
		{-1e9, MinRatio},
		{math.Inf(1), MaxRatio},
		{math.Inf(-1), MinRatio},
		{math.NaN(), 1},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, Ratio(tt.consume), 1e-12, "consume %v", tt.consume)
	}
}

func TestRatio_AlwaysBounded(t *testing.T) {
	for consume := -50000.0; consume <= 50000; consume += 7.3 {
		r := Ratio(consume)
		require.GreaterOrEqual(t, r, MinRatio)
		require.LessOrEqual(t, r, MaxRatio)
	}
}

func TestRatio_MonotonicOutsideDeadZone(t *testing.T) {
	prev := Ratio(DeadZone)
	for consume := DeadZone + 1; consume <= Scale; consume++ {
		r := Ratio(consume)
		require.Greater(t, r, prev, "consume %v", consume)
		prev = r
	}
}

func TestTargetIndex(t *testing.T) {
	tests := []struct {
		name     string
		position float64
		depth    float64
		want     int
	}{
		{"zero depth", 0.73, 0, 500},
		{"bottom", 0, 4096, 500},
		{"top", 1, 4096, 4596},
		{"middle rounds", 0.5, 3, 502},
		{"position above range", 2, 100, 600},
		{"position below range", -1, 100, 500},
		{"nan position", math.NaN(), 100, 500},
		{"negative depth", 1, -100, 500},
		{"nan depth", 1, math.NaN(), 500},
		{"infinite depth", 1, math.Inf(1), 500 + maxDepth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TargetIndex(500, tt.position, tt.depth))
		})
	}
}

func TestController(t *testing.T) {
	c := NewController(500)
	assert.InDelta(t, 1.0, c.LastRatio(), 0)
	assert.Equal(t, 500, c.LastTarget())

	// History far too short: produce more output per input.
	assert.Equal(t, 500, c.Target(0, 0))
	r := c.Ratio(0)
	assert.InDelta(t, math.Pow(10, 0.05), r, 1e-12)

	// History too long: consume faster.
	r = c.Ratio(2000)
	assert.Less(t, r, 1.0)
	assert.InDelta(t, r, c.LastRatio(), 0)

	// On target.
	assert.Equal(t, 1000, c.Target(0.5, 1000))
	assert.InDelta(t, 1.0, c.Ratio(1000), 0)
	assert.Equal(t, 500, c.BaseOffset())

	c.Reset()
	assert.InDelta(t, 1.0, c.LastRatio(), 0)
	assert.Equal(t, 500, c.LastTarget())
}
