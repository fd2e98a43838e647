// Package analysis measures rendered wobble output: how far a signal lags
// its source and what the sample statistics look like. It backs the demo
// report of the command-line tools and the end-to-end tests.
package analysis

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/tphakala/simd/c128"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/tphakala/go-wobble/internal/simdops"
)

var (
	// ErrEmpty indicates an empty input signal.
	ErrEmpty = errors.New("analysis: empty signal")

	// ErrLengthMismatch indicates two signals of different length where equal
	// lengths are required.
	ErrLengthMismatch = errors.New("analysis: length mismatch")
)

// EstimateDelay returns the lag in [0, maxLag] at which sig best matches
// ref, using FFT cross-correlation. A negative maxLag searches every lag
// that fits in sig.
func EstimateDelay(ref, sig []float64, maxLag int) (int, error) {
	if len(ref) == 0 || len(sig) == 0 {
		return 0, ErrEmpty
	}
	if maxLag < 0 || maxLag >= len(sig) {
		maxLag = len(sig) - 1
	}

	corr := CrossCorrelate(ref, sig)
	return floats.MaxIdx(corr[:maxLag+1]), nil
}

// CrossCorrelate returns c[l] = Σ ref[n]·sig[n+l] for l in [0, len(sig)).
func CrossCorrelate(ref, sig []float64) []float64 {
	fftSize := minFFTSize
	for fftSize < len(ref)+len(sig) {
		fftSize *= 2
	}

	fft := fourier.NewFFT(fftSize)

	padded := make([]float64, fftSize)
	copy(padded, ref)
	refFFT := fft.Coefficients(nil, padded)
	for i, v := range refFFT {
		refFFT[i] = cmplx.Conj(v)
	}

	clear(padded)
	copy(padded, sig)
	sigFFT := fft.Coefficients(nil, padded)

	product := make([]complex128, len(sigFFT))
	c128.Mul(product, refFFT, sigFFT)

	// gonum's inverse transform is unnormalized.
	corr := fft.Sequence(nil, product)
	ops := simdops.Float64Ops()
	ops.Scale(corr, corr, 1/float64(fftSize))

	return corr[:len(sig)]
}

// Similarity returns the Pearson correlation of a and b.
func Similarity(a, b []float64) (float64, error) {
	if len(a) == 0 {
		return 0, ErrEmpty
	}
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d samples", ErrLengthMismatch, len(a), len(b))
	}

	return stat.Correlation(a, b, nil), nil
}

// Summary holds sample statistics of one signal.
type Summary struct {
	Samples   int
	Mean      float64
	StdDev    float64
	Min       float64
	Max       float64
	RMS       float64
	Peak      float64 // Largest magnitude
	PeakIndex int
}

// Summarize computes the statistics of x. An empty x yields a zero Summary.
func Summarize(x []float64) Summary {
	if len(x) == 0 {
		return Summary{}
	}

	mean, std := stat.MeanStdDev(x, nil)
	if len(x) == 1 {
		std = 0
	}

	lo, hi := floats.Min(x), floats.Max(x)
	peakIndex := floats.MaxIdx(x)
	if -lo > hi {
		peakIndex = floats.MinIdx(x)
	}

	return Summary{
		Samples:   len(x),
		Mean:      mean,
		StdDev:    std,
		Min:       lo,
		Max:       hi,
		RMS:       math.Sqrt(simdops.SumSquares(x) / float64(len(x))),
		Peak:      math.Abs(x[peakIndex]),
		PeakIndex: peakIndex,
	}
}

// String formats the summary on one line.
func (s Summary) String() string {
	return fmt.Sprintf("n=%d mean=%.4f std=%.4f min=%.4f max=%.4f rms=%.4f peak=%.4f@%d",
		s.Samples, s.Mean, s.StdDev, s.Min, s.Max, s.RMS, s.Peak, s.PeakIndex)
}
