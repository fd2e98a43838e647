package wobble

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/tphakala/go-wobble/internal/engine"
	"github.com/tphakala/go-wobble/internal/modulation"
)

// Common errors returned by the wobble engine.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid wobble configuration")

	// ErrConverterUnavailable indicates the sample-rate converter could not
	// be created. It is the only construction error that is not a
	// configuration mistake and is never retried.
	ErrConverterUnavailable = errors.New("sample-rate converter unavailable")

	// ErrClosed indicates the engine was already closed.
	ErrClosed = errors.New("wobble engine closed")
)

// Source yields uniformly distributed values in [0, 1) for the modulation
// noise. *rand.Rand satisfies it.
type Source = modulation.Source

// NewRand returns a deterministic uniform source seeded with seed.
func NewRand(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^pcgStream))
}

// Quality selects the converter used to read the history.
type Quality int

const (
	// QualityQuick uses 4-point cubic Hermite interpolation.
	QualityQuick Quality = iota

	// QualityLinear uses 2-point linear interpolation.
	QualityLinear

	// QualitySinc uses a Kaiser-windowed sinc that band-limits when the
	// ratio drops below one.
	QualitySinc
)

// String returns the CLI name of the quality.
func (q Quality) String() string {
	switch q {
	case QualityQuick:
		return "quick"
	case QualityLinear:
		return "linear"
	case QualitySinc:
		return "sinc"
	default:
		return fmt.Sprintf("Quality(%d)", int(q))
	}
}

// ParseQuality maps a CLI name to a quality. Matching ignores case;
// "cubic" is accepted as an alias for quick.
func ParseQuality(s string) (Quality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "quick", "cubic", "":
		return QualityQuick, nil
	case "linear":
		return QualityLinear, nil
	case "sinc":
		return QualitySinc, nil
	default:
		return 0, fmt.Errorf("%w: unknown quality %q (valid: quick, linear, sinc)", ErrInvalidConfig, s)
	}
}

func (q Quality) kind() engine.Kind {
	switch q {
	case QualityLinear:
		return engine.KindLinear
	case QualitySinc:
		return engine.KindSinc
	default:
		return engine.KindCubic
	}
}

// Config holds engine construction parameters. Zero fields take the
// package defaults.
type Config struct {
	// HistorySize is the history ring capacity in samples.
	HistorySize int

	// QueueSize is the output queue capacity in samples.
	QueueSize int

	// RefillFrames caps how many history samples one refill offers to the
	// converter. Must not exceed HistorySize.
	RefillFrames int

	// BaseOffset is the minimum latency in samples. A negative value means
	// no base offset.
	BaseOffset int

	// MaxDepth bounds the depth parameter in samples.
	MaxDepth float64

	// Quality selects the converter.
	Quality Quality

	// Random supplies the modulation noise. Nil seeds a generator from the
	// clock.
	Random Source

	// ColdStart skips priming the history with BaseOffset samples of
	// silence. The delay then has to grow toward its target from zero,
	// which takes many seconds at the controller's gentle slew.
	ColdStart bool

	// CVUnipolar emits the diagnostic control voltage as 0 V to 10 V
	// instead of -5 V to +5 V.
	CVUnipolar bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		HistorySize:  DefaultHistorySize,
		QueueSize:    DefaultQueueSize,
		RefillFrames: DefaultRefillFrames,
		BaseOffset:   DefaultBaseOffset,
		MaxDepth:     DefaultMaxDepth,
		Quality:      QualityQuick,
	}
}

func (c Config) withDefaults() Config {
	if c.HistorySize == 0 {
		c.HistorySize = DefaultHistorySize
	}

	if c.QueueSize == 0 {
		c.QueueSize = DefaultQueueSize
	}

	if c.RefillFrames == 0 {
		c.RefillFrames = min(DefaultRefillFrames, c.HistorySize)
	}

	switch {
	case c.BaseOffset == 0:
		c.BaseOffset = DefaultBaseOffset
	case c.BaseOffset < 0:
		c.BaseOffset = 0
	}

	if c.MaxDepth == 0 {
		c.MaxDepth = DefaultMaxDepth
	}

	return c
}

// Validate checks if the configuration is valid. Zero fields are checked
// after defaults are applied.
func (c *Config) Validate() error {
	d := c.withDefaults()

	if d.HistorySize < 1 {
		return fmt.Errorf("%w: history size must be positive", ErrInvalidConfig)
	}

	if d.QueueSize < 1 {
		return fmt.Errorf("%w: queue size must be positive", ErrInvalidConfig)
	}

	if d.RefillFrames < 1 || d.RefillFrames > d.HistorySize {
		return fmt.Errorf("%w: refill frames must be in [1, %d]", ErrInvalidConfig, d.HistorySize)
	}

	if !d.ColdStart && d.BaseOffset > d.HistorySize {
		return fmt.Errorf("%w: base offset %d does not fit a history of %d", ErrInvalidConfig, d.BaseOffset, d.HistorySize)
	}

	if math.IsNaN(d.MaxDepth) || math.IsInf(d.MaxDepth, 0) || d.MaxDepth < 0 {
		return fmt.Errorf("%w: max depth must be finite and non-negative", ErrInvalidConfig)
	}

	switch d.Quality {
	case QualityQuick, QualityLinear, QualitySinc:
	default:
		return fmt.Errorf("%w: unknown quality %v", ErrInvalidConfig, d.Quality)
	}

	return nil
}
