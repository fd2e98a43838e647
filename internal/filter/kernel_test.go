package filter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-wobble/internal/testutil"
)

const (
	testZeroCrossings = 8
	testOversample    = 16
	testAttenuation   = 80.0

	// 512 points over the prototype's Nyquist put input-rate frequency
	// k/64 at index k when Oversample is 16.
	testResponsePoints = 512
	passbandEdgeIndex  = 12 // 0.1875 of the input rate
	stopbandStartIndex = 48 // 0.75 of the input rate

	passbandRippleDB = 0.01
	stopbandCeilDB   = -70.0
)

func testParams() KernelParams {
	return KernelParams{
		ZeroCrossings: testZeroCrossings,
		Oversample:    testOversample,
		Attenuation:   testAttenuation,
	}
}

func TestKernelParams_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*KernelParams)
	}{
		{"zero crossings too small", func(p *KernelParams) { p.ZeroCrossings = 0 }},
		{"zero crossings too large", func(p *KernelParams) { p.ZeroCrossings = maxZeroCrossings + 1 }},
		{"oversample too small", func(p *KernelParams) { p.Oversample = 0 }},
		{"oversample too large", func(p *KernelParams) { p.Oversample = maxOversample + 1 }},
		{"zero attenuation", func(p *KernelParams) { p.Attenuation = 0 }},
		{"NaN attenuation", func(p *KernelParams) { p.Attenuation = math.NaN() }},
		{"infinite attenuation", func(p *KernelParams) { p.Attenuation = math.Inf(1) }},
	}

	valid := testParams()
	require.NoError(t, valid.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testParams()
			tt.modify(&p)
			assert.ErrorIs(t, p.Validate(), ErrInvalidParams)
		})
	}
}

func TestDesignKernel_Shape(t *testing.T) {
	table, err := DesignKernel(testParams())
	require.NoError(t, err)
	require.Len(t, table, testZeroCrossings*testOversample+1)

	testutil.AssertNoNaNOrInf(t, table)
	assert.InDelta(t, 1.0, table[0], testutil.DefaultTolerance, "centre tap")

	// Zero at every whole sample except the centre.
	for k := 1; k <= testZeroCrossings; k++ {
		assert.InDelta(t, 0.0, table[k*testOversample], testutil.DefaultTolerance, "u=%d", k)
	}

	// The main lobe falls off monotonically.
	for i := 1; i <= testOversample; i++ {
		assert.Less(t, table[i], table[i-1], "main lobe at i=%d", i)
	}
}

func TestDesignKernel_InvalidParams(t *testing.T) {
	p := testParams()
	p.Oversample = 0

	table, err := DesignKernel(p)
	require.ErrorIs(t, err, ErrInvalidParams)
	assert.Nil(t, table)
}

func TestPrototype_SymmetricUnityGain(t *testing.T) {
	table, err := DesignKernel(testParams())
	require.NoError(t, err)

	coeffs := Prototype(table)
	require.Len(t, coeffs, 2*len(table)-1)

	sum := 0.0
	for i, v := range coeffs {
		assert.InDelta(t, v, coeffs[len(coeffs)-1-i], testutil.DefaultTolerance, "tap %d", i)
		sum += v
	}
	assert.InDelta(t, 1.0, sum, testutil.SignalTolerance)

	assert.Empty(t, Prototype(nil))
}

func TestPrototype_FrequencyResponse(t *testing.T) {
	table, err := DesignKernel(testParams())
	require.NoError(t, err)

	resp := ComputeFrequencyResponse(Prototype(table), testResponsePoints)
	require.Len(t, resp.Magnitude, testResponsePoints)
	testutil.AssertInRange(t, resp.Magnitude[0], 1-testutil.SignalTolerance, 1+testutil.SignalTolerance, "DC gain")

	for k := 0; k <= passbandEdgeIndex; k++ {
		assert.InDelta(t, 0.0, MagnitudeDB(resp.Magnitude[k]), passbandRippleDB,
			"passband at %.4f", resp.Frequencies[k])
	}

	for k := stopbandStartIndex; k < testResponsePoints; k++ {
		assert.Less(t, MagnitudeDB(resp.Magnitude[k]), stopbandCeilDB,
			"stopband at %.4f", resp.Frequencies[k])
	}
}

func TestComputeFrequencyResponse_Impulse(t *testing.T) {
	resp := ComputeFrequencyResponse([]float64{1}, 0)

	require.Len(t, resp.Frequencies, defaultResponsePoints)
	testutil.AssertAllNear(t, resp.Magnitude, 1, testutil.DefaultTolerance)
	testutil.AssertAllNear(t, resp.Phase, 0, testutil.DefaultTolerance)
	assert.InDelta(t, 0.0, resp.Frequencies[0], testutil.DefaultTolerance)
	assert.Less(t, resp.Frequencies[defaultResponsePoints-1], 0.5)
}

func TestMagnitudeDB(t *testing.T) {
	assert.InDelta(t, 0.0, MagnitudeDB(1), testutil.DefaultTolerance)
	assert.InDelta(t, -20.0, MagnitudeDB(0.1), testutil.DefaultTolerance)
	assert.InDelta(t, -200.0, MagnitudeDB(0), testutil.DefaultTolerance, "floored")
}
