package analysis

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noise(n int) []float64 {
	r := rand.New(rand.NewPCG(1, 2))
	x := make([]float64, n)
	for i := range x {
		x[i] = r.Float64()*2 - 1
	}
	return x
}

func TestEstimateDelay(t *testing.T) {
	ref := noise(2000)

	for _, lag := range []int{0, 1, 37, 502, 1500} {
		sig := make([]float64, lag+len(ref))
		copy(sig[lag:], ref)

		got, err := EstimateDelay(ref, sig, -1)
		require.NoError(t, err)
		assert.Equal(t, lag, got, "lag %d", lag)
	}
}

func TestEstimateDelay_RespectsMaxLag(t *testing.T) {
	ref := noise(1000)
	sig := make([]float64, 1600)
	copy(sig[600:], ref)

	got, err := EstimateDelay(ref, sig, 100)
	require.NoError(t, err)
	assert.LessOrEqual(t, got, 100)
}

func TestEstimateDelay_Empty(t *testing.T) {
	_, err := EstimateDelay(nil, []float64{1}, 10)
	require.ErrorIs(t, err, ErrEmpty)
}

func TestCrossCorrelate_MatchesDirect(t *testing.T) {
	ref := noise(50)
	sig := noise(80)

	got := CrossCorrelate(ref, sig)
	require.Len(t, got, len(sig))

	for l := range sig {
		want := 0.0
		for n := range ref {
			if n+l < len(sig) {
				want += ref[n] * sig[n+l]
			}
		}
		assert.InDelta(t, want, got[l], 1e-9, "lag %d", l)
	}
}

func TestSimilarity(t *testing.T) {
	a := noise(500)
	b := make([]float64, len(a))
	for i, v := range a {
		b[i] = 3*v + 1
	}

	r, err := Similarity(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, r, 1e-12)

	_, err = Similarity(a, b[:10])
	require.ErrorIs(t, err, ErrLengthMismatch)

	_, err = Similarity(nil, nil)
	require.ErrorIs(t, err, ErrEmpty)
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{1, -3, 2})

	assert.Equal(t, 3, s.Samples)
	assert.InDelta(t, 0.0, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(7), s.StdDev, 1e-12)
	assert.InDelta(t, -3.0, s.Min, 0)
	assert.InDelta(t, 2.0, s.Max, 0)
	assert.InDelta(t, math.Sqrt(14.0/3), s.RMS, 1e-12)
	assert.InDelta(t, 3.0, s.Peak, 0)
	assert.Equal(t, 1, s.PeakIndex)
	assert.Contains(t, s.String(), "n=3")
}

func TestSummarize_Degenerate(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))

	s := Summarize([]float64{0.5})
	assert.InDelta(t, 0.0, s.StdDev, 0)
	assert.InDelta(t, 0.5, s.Peak, 0)
}
