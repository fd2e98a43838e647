// Package engine implements the streaming, variable-ratio sample-rate
// converters that the wobble driver reads its history through.
//
// A Converter is a stateful capability: it is acquired once, fed short
// windows of input with a ratio that may change on every call, and
// released exactly once with Close. Ratios follow the libsamplerate
// convention (output rate / input rate): above 1 more samples come out
// than go in.
package engine

import (
	"errors"
	"fmt"
	"math"
)

// Common errors returned by the engine package.
var (
	// ErrUnknownKind indicates an unsupported converter kind.
	ErrUnknownKind = errors.New("unknown converter kind")

	// ErrInvalidOptions indicates invalid converter options.
	ErrInvalidOptions = errors.New("invalid converter options")

	// ErrClosed is returned by Close when the converter was already released.
	ErrClosed = errors.New("converter already closed")
)

// Converter is a streaming sample-rate converter with a per-call ratio.
type Converter interface {
	// Process reads from in and writes to out at the given ratio. It returns
	// the number of input samples consumed and output samples produced.
	// Input that is not yet needed is left unconsumed. A closed converter
	// consumes and produces nothing.
	Process(in, out []float64, ratio float64) (used, generated int)

	// Latency returns the converter's group delay in input samples.
	Latency() int

	// Reset clears all interpolation state.
	Reset()

	// Close releases the converter. It returns ErrClosed on repeat calls.
	Close() error

	// Name identifies the interpolation algorithm.
	Name() string

	// MemoryUsage returns approximate memory usage in bytes.
	MemoryUsage() int64
}

// Kind selects the interpolation algorithm.
type Kind int

const (
	// KindCubic uses 4-point Hermite interpolation.
	KindCubic Kind = iota

	// KindLinear uses 2-point linear interpolation.
	KindLinear

	// KindSinc uses a Kaiser-windowed sinc kernel whose cutoff follows the
	// ratio when downsampling, so the output stays band-limited.
	KindSinc
)

// String returns the algorithm name.
func (k Kind) String() string {
	switch k {
	case KindCubic:
		return "cubic"
	case KindLinear:
		return "linear"
	case KindSinc:
		return "sinc"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Options tunes converter construction. Zero fields take defaults.
type Options struct {
	// MinRatio and MaxRatio bound the ratios Process accepts; others are
	// clamped. The sinc converter sizes its window for MinRatio.
	MinRatio float64
	MaxRatio float64

	// ZeroCrossings is the sinc kernel half-width in input samples at unity ratio.
	ZeroCrossings int

	// Oversample is the number of kernel table entries per input sample.
	Oversample int

	// Attenuation is the Kaiser window stopband attenuation in dB.
	Attenuation float64
}

func (o Options) withDefaults() Options {
	if o.MinRatio == 0 {
		o.MinRatio = DefaultMinRatio
	}
	if o.MaxRatio == 0 {
		o.MaxRatio = DefaultMaxRatio
	}
	if o.ZeroCrossings == 0 {
		o.ZeroCrossings = defaultZeroCrossings
	}
	if o.Oversample == 0 {
		o.Oversample = defaultOversample
	}
	if o.Attenuation == 0 {
		o.Attenuation = defaultAttenuation
	}
	return o
}

// Validate checks that the options are usable.
func (o Options) Validate() error {
	if !(o.MinRatio > 0) || math.IsInf(o.MaxRatio, 0) || !(o.MaxRatio >= o.MinRatio) {
		return fmt.Errorf("%w: ratio bounds must satisfy 0 < min <= max < inf (got %v, %v)",
			ErrInvalidOptions, o.MinRatio, o.MaxRatio)
	}
	if o.ZeroCrossings < 1 || o.ZeroCrossings > maxZeroCrossings {
		return fmt.Errorf("%w: zero crossings must be 1-%d", ErrInvalidOptions, maxZeroCrossings)
	}
	if o.Oversample < 1 || o.Oversample > maxOversample {
		return fmt.Errorf("%w: oversample must be 1-%d", ErrInvalidOptions, maxOversample)
	}
	if !(o.Attenuation > 0) {
		return fmt.Errorf("%w: attenuation must be positive", ErrInvalidOptions)
	}
	return nil
}

// Acquire constructs a converter of the given kind.
func Acquire(kind Kind, opts Options) (Converter, error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	switch kind {
	case KindCubic:
		return NewCubicConverter(opts.MinRatio, opts.MaxRatio), nil
	case KindLinear:
		return NewLinearConverter(opts.MinRatio, opts.MaxRatio), nil
	case KindSinc:
		return NewSincConverter(opts)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownKind, kind)
	}
}

// ratioBounds clamps ratios into [min, max]. Non-finite ratios become 1.
type ratioBounds struct {
	min, max float64
}

func (b ratioBounds) step(ratio float64) float64 {
	if math.IsNaN(ratio) {
		ratio = 1
	}
	ratio = math.Max(b.min, math.Min(b.max, ratio))
	return 1 / ratio
}

// lifecycle tracks the release state shared by every converter.
type lifecycle struct {
	closed bool
}

func (l *lifecycle) Close() error {
	if l.closed {
		return ErrClosed
	}
	l.closed = true
	return nil
}
