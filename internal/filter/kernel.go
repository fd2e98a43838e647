// Package filter designs the Kaiser-windowed sinc kernel used for
// band-limited interpolation and measures its frequency response.
package filter

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/simd/f64"

	"github.com/tphakala/go-wobble/internal/mathutil"
)

// ErrInvalidParams indicates invalid kernel design parameters.
var ErrInvalidParams = errors.New("invalid kernel parameters")

// KernelParams holds parameters for kernel design.
type KernelParams struct {
	// ZeroCrossings is the kernel half-width in input samples.
	ZeroCrossings int

	// Oversample is the number of table entries per input sample.
	Oversample int

	// Attenuation is the desired stopband attenuation in dB.
	Attenuation float64
}

// Validate checks if kernel parameters are valid.
func (kp *KernelParams) Validate() error {
	if kp.ZeroCrossings < minZeroCrossings || kp.ZeroCrossings > maxZeroCrossings {
		return fmt.Errorf("%w: zero crossings %d (must be %d-%d)",
			ErrInvalidParams, kp.ZeroCrossings, minZeroCrossings, maxZeroCrossings)
	}

	if kp.Oversample < minOversample || kp.Oversample > maxOversample {
		return fmt.Errorf("%w: oversample %d (must be %d-%d)",
			ErrInvalidParams, kp.Oversample, minOversample, maxOversample)
	}

	if !(kp.Attenuation > 0) || math.IsInf(kp.Attenuation, 0) {
		return fmt.Errorf("%w: attenuation %f dB (must be positive)", ErrInvalidParams, kp.Attenuation)
	}

	return nil
}

// DesignKernel tabulates one half of a Kaiser-windowed sinc:
//
//	table[i] = sinc(u) · kaiser(u / ZeroCrossings),  u = i / Oversample
//
// for u in [0, ZeroCrossings]. The kernel is symmetric, so the half table
// is all an interpolator needs. table[0] is 1 and the kernel is zero at
// every other integer u, which makes interpolation at whole-sample phases
// exact.
func DesignKernel(params KernelParams) ([]float64, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	beta := mathutil.KaiserBeta(params.Attenuation)
	zc := float64(params.ZeroCrossings)
	over := float64(params.Oversample)

	table := make([]float64, params.ZeroCrossings*params.Oversample+1)
	for i := range table {
		u := float64(i) / over
		table[i] = mathutil.Sinc(u) * mathutil.Kaiser(u/zc, beta)
	}

	return table, nil
}

// Prototype mirrors a half table into the full symmetric impulse response
// and normalizes it to unity gain at DC. The result is the lowpass FIR the
// table samples, running at Oversample times the input rate.
func Prototype(table []float64) []float64 {
	if len(table) == 0 {
		return []float64{}
	}

	n := len(table) - 1
	coeffs := make([]float64, 2*n+1)
	for i, v := range table {
		coeffs[n+i] = v
		coeffs[n-i] = v
	}

	// Uses SIMD-accelerated sum and scale operations
	if sum := f64.Sum(coeffs); math.Abs(sum) > minMagnitude {
		f64.Scale(coeffs, coeffs, 1/sum)
	}

	return coeffs
}

// Response holds the frequency response of a filter.
type Response struct {
	// Frequencies at which response was calculated (normalized, 0 to 0.5)
	Frequencies []float64

	// Magnitude response at each frequency (linear scale)
	Magnitude []float64

	// Phase response at each frequency (radians)
	Phase []float64
}

// ComputeFrequencyResponse evaluates the DTFT of a FIR filter at numPoints
// frequencies from 0 up to, but excluding, Nyquist. A non-positive
// numPoints means 512.
func ComputeFrequencyResponse(coeffs []float64, numPoints int) Response {
	if numPoints <= 0 {
		numPoints = defaultResponsePoints
	}

	response := Response{
		Frequencies: make([]float64, numPoints),
		Magnitude:   make([]float64, numPoints),
		Phase:       make([]float64, numPoints),
	}

	for k := range numPoints {
		freq := float64(k) / (nyquistDivisor * float64(numPoints))
		response.Frequencies[k] = freq

		// H(e^jω) = Σ h[n]·e^(-jωn)
		var realPart, imagPart float64
		omega := 2 * math.Pi * freq

		for n, h := range coeffs {
			angle := omega * float64(n)
			realPart += h * math.Cos(angle)
			imagPart -= h * math.Sin(angle)
		}

		response.Magnitude[k] = math.Hypot(realPart, imagPart)
		response.Phase[k] = math.Atan2(imagPart, realPart)
	}

	return response
}

// MagnitudeDB converts linear magnitude to decibels.
func MagnitudeDB(magnitude float64) float64 {
	if magnitude < minMagnitude {
		magnitude = minMagnitude
	}
	return dbMultiplier * math.Log10(magnitude)
}
