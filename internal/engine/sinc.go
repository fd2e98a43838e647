package engine

import (
	"fmt"
	"math"

	"github.com/tphakala/go-wobble/internal/filter"
	"github.com/tphakala/go-wobble/internal/simdops"
)

// SincConverter interpolates with a Kaiser-windowed sinc kernel.
//
// The kernel is tabulated once at construction. When the ratio drops below
// 1 the kernel is stretched by 1/ratio so its cutoff tracks the output
// Nyquist frequency. The tap window is sized for the smallest ratio, and
// the interpolation point sits a fixed halfWidth samples behind the newest
// input, so latency does not change with the ratio.
type SincConverter struct {
	lifecycle
	bounds ratioBounds

	zeroCrossings int
	oversample    float64
	table         []float64 // kernel(u) at u = i/oversample, u in [0, zeroCrossings]

	halfWidth int       // taps on each side of the interpolation point at MinRatio
	width     int       // 2*halfWidth + 1 samples held
	window    []float64 // mirrored storage, len 2*width
	pos       int       // next write index, also the oldest sample
	coeffs    []float64 // scratch for the current output's taps

	phase float64
	ops   *simdops.Ops[float64]
}

// NewSincConverter builds a sinc converter. Options must already carry defaults.
func NewSincConverter(opts Options) (*SincConverter, error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	table, err := filter.DesignKernel(filter.KernelParams{
		ZeroCrossings: opts.ZeroCrossings,
		Oversample:    opts.Oversample,
		Attenuation:   opts.Attenuation,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	halfWidth := int(math.Ceil(float64(opts.ZeroCrossings) / math.Min(1, opts.MinRatio)))
	width := 2*halfWidth + 1

	return &SincConverter{
		bounds:        ratioBounds{min: opts.MinRatio, max: opts.MaxRatio},
		zeroCrossings: opts.ZeroCrossings,
		oversample:    float64(opts.Oversample),
		table:         table,
		halfWidth:     halfWidth,
		width:         width,
		window:        make([]float64, width*sincMirrorFactor),
		coeffs:        make([]float64, 2*halfWidth),
		phase:         initialPhase,
		ops:           simdops.Float64Ops(),
	}, nil
}

// Process resamples in into out through the windowed-sinc kernel.
func (s *SincConverter) Process(in, out []float64, ratio float64) (used, generated int) {
	if s.closed {
		return 0, 0
	}

	step := s.bounds.step(ratio)
	scale := math.Min(1, 1/step)
	taps := min(s.halfWidth, int(math.Ceil(float64(s.zeroCrossings)/scale)))

	for generated < len(out) {
		for s.phase >= phaseWrap {
			if used == len(in) {
				return used, generated
			}
			s.push(in[used])
			used++
			s.phase -= phaseWrap
		}

		out[generated] = s.interpolate(s.phase, scale, taps)
		generated++
		s.phase += step
	}

	return used, generated
}

func (s *SincConverter) push(sample float64) {
	s.window[s.pos] = sample
	s.window[s.pos+s.width] = sample
	s.pos++
	if s.pos == s.width {
		s.pos = 0
	}
}

// interpolate evaluates the output at phase past the centre sample using
// taps samples on each side.
func (s *SincConverter) interpolate(phase, scale float64, taps int) float64 {
	// Oldest sample first; the centre is halfWidth behind the newest.
	win := s.window[s.pos : s.pos+s.width]
	center := s.halfWidth
	start := center - taps + 1
	n := 2 * taps

	coeffs := s.coeffs[:n]
	for j := range coeffs {
		k := float64(j - taps + 1)
		coeffs[j] = s.kernel(math.Abs((k-phase)*scale)) * scale
	}

	return s.ops.DotProductUnsafe(win[start:start+n], coeffs)
}

// kernel looks up the tabulated kernel with linear interpolation between entries.
func (s *SincConverter) kernel(u float64) float64 {
	if u >= float64(s.zeroCrossings) {
		return 0
	}

	pos := u * s.oversample
	i := int(pos)
	if i >= len(s.table)-1 {
		return 0
	}
	frac := pos - float64(i)
	return s.table[i] + frac*(s.table[i+1]-s.table[i])
}

// Reset clears internal state.
func (s *SincConverter) Reset() {
	clear(s.window)
	s.pos = 0
	s.phase = initialPhase
}

// Latency returns the converter latency in samples.
func (s *SincConverter) Latency() int {
	return s.halfWidth
}

// Name returns "sinc".
func (s *SincConverter) Name() string {
	return KindSinc.String()
}

// MemoryUsage returns approximate memory usage in bytes.
func (s *SincConverter) MemoryUsage() int64 {
	return int64(len(s.table)+len(s.window)+len(s.coeffs)) * bytesPerFloat64
}

// Ensure implementations satisfy the interface
var (
	_ Converter = (*CubicConverter)(nil)
	_ Converter = (*LinearConverter)(nil)
	_ Converter = (*SincConverter)(nil)
)
