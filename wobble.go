package wobble

import (
	"fmt"
	"math"
	"time"

	"github.com/tphakala/go-wobble/internal/buffer"
	"github.com/tphakala/go-wobble/internal/control"
	"github.com/tphakala/go-wobble/internal/engine"
	"github.com/tphakala/go-wobble/internal/modulation"
	"github.com/tphakala/go-wobble/internal/simdops"
)

type acquireFunc func(engine.Kind, engine.Options) (engine.Converter, error)

// Engine is one wobble delay instance. It is not safe for concurrent use.
type Engine struct {
	cfg Config

	history *buffer.History
	queue   *buffer.Queue
	mod     *modulation.Integrator
	ctrl    *control.Controller
	conv    engine.Converter
	cv      func(float64) float64

	// scratch receives converter output before it is queued.
	scratch []float64

	stats  Stats
	closed bool
}

// Stats are engine counters, safe to read between ticks and log off the
// audio thread.
type Stats struct {
	Ticks      uint64  // Samples processed
	Refills    uint64  // Output queue refills
	Dropped    uint64  // Input samples discarded because the history was full
	Starved    uint64  // Ticks that emitted silence because no output was ready
	Target     int     // Last target index in samples
	LastRatio  float64 // Last conversion ratio (output/input)
	Position   float64 // Modulation position in [0, 1]
	HistoryLen int     // History occupancy in samples
	QueueLen   int     // Output queue occupancy in samples
}

// Info describes an engine's configuration.
type Info struct {
	Algorithm    string
	Latency      int
	HistorySize  int
	QueueSize    int
	BaseOffset   int
	MaxDepth     float64
	MemoryUsage  int64
	SIMD         string
	CVRangeVolts [2]float64
}

// New creates an engine. Every buffer is allocated here so that Process
// never allocates.
func New(cfg Config) (*Engine, error) {
	return newEngine(cfg, engine.Acquire)
}

func newEngine(cfg Config, acquire acquireFunc) (e *Engine, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	if cfg.Random == nil {
		cfg.Random = NewRand(uint64(time.Now().UnixNano()))
	}

	conv, err := acquire(cfg.Quality.kind(), engine.Options{
		MinRatio: control.MinRatio,
		MaxRatio: control.MaxRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConverterUnavailable, err)
	}
	defer func() {
		if err != nil {
			_ = conv.Close()
		}
	}()

	history, err := buffer.NewHistory(cfg.HistorySize)
	if err != nil {
		return nil, fmt.Errorf("%w: history: %w", ErrInvalidConfig, err)
	}

	queue, err := buffer.NewQueue(cfg.QueueSize)
	if err != nil {
		return nil, fmt.Errorf("%w: output queue: %w", ErrInvalidConfig, err)
	}

	cv := modulation.CV
	if cfg.CVUnipolar {
		cv = modulation.CVUnipolar
	}

	e = &Engine{
		cfg:     cfg,
		history: history,
		queue:   queue,
		mod:     modulation.New(cfg.Random),
		ctrl:    control.NewController(cfg.BaseOffset),
		conv:    conv,
		cv:      cv,
		scratch: make([]float64, cfg.QueueSize),
	}
	e.prime()

	return e, nil
}

// prime fills the history with BaseOffset samples of silence so the delay
// starts at its minimum latency.
func (e *Engine) prime() {
	e.stats = Stats{LastRatio: 1, Target: e.cfg.BaseOffset}
	if e.cfg.ColdStart {
		return
	}
	e.history.Fill(0, e.cfg.BaseOffset)
	e.stats.HistoryLen = e.history.Len()
}

// Process runs one tick: it appends in to the history, advances the
// modulation, refills the output queue when it is empty and returns the
// next output sample with the modulation control voltage.
//
// Non-finite input is treated as silence. After Close, Process returns
// silence.
func (e *Engine) Process(in float64, p Params) (out, cv float64) {
	if e.closed {
		return 0, 0
	}

	p = p.Sanitized(e.cfg.MaxDepth)

	position := e.mod.Step(modulation.ScaleRate(p.Rate))
	cv = e.cv(position)

	if math.IsNaN(in) || math.IsInf(in, 0) {
		in = 0
	}
	if !e.history.TryPush(in) {
		e.stats.Dropped++
	}

	e.stats.Target = e.ctrl.Target(position, p.Depth)

	if e.queue.Empty() {
		e.refill()
	}

	out, err := e.queue.Pop()
	if err != nil {
		e.stats.Starved++
		out = 0
	}

	e.stats.Ticks++
	e.stats.Position = position

	return out, cv
}

// refill offers up to RefillFrames history samples to the converter and
// queues whatever it produces. The queue is empty on entry.
func (e *Engine) refill() {
	ratio := e.ctrl.Ratio(e.history.Len())
	e.stats.LastRatio = ratio

	window := e.history.Window(min(e.history.Len(), e.cfg.RefillFrames))
	used, generated := e.conv.Process(window, e.scratch, ratio)
	e.history.Advance(used)

	// generated never exceeds len(scratch), which is the queue capacity.
	_ = e.queue.PushBatch(e.scratch[:generated])

	e.stats.Refills++
}

// ProcessBlock runs one tick per input sample with fixed parameters and
// returns the number of samples processed, the shortest of in, out and cv.
// cv may be nil.
func (e *Engine) ProcessBlock(in, out, cv []float64, p Params) int {
	n := min(len(in), len(out))
	if cv != nil {
		n = min(n, len(cv))
	}

	for i := range n {
		o, v := e.Process(in[i], p)
		out[i] = o
		if cv != nil {
			cv[i] = v
		}
	}

	return n
}

// Reset clears the history, queue, modulation and converter state and
// primes the history again. The random source is not reseeded.
func (e *Engine) Reset() {
	if e.closed {
		return
	}

	e.history.Clear()
	e.queue.Clear()
	e.mod.Reset()
	e.ctrl.Reset()
	e.conv.Reset()
	e.prime()
}

// Close releases the converter. It returns ErrClosed on every call after
// the first.
func (e *Engine) Close() error {
	if e.closed {
		return ErrClosed
	}
	e.closed = true

	return e.conv.Close()
}

// Latency returns the minimum delay in samples: the base offset plus the
// converter's own latency.
func (e *Engine) Latency() int {
	return e.cfg.BaseOffset + e.conv.Latency()
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	s := e.stats
	s.HistoryLen = e.history.Len()
	s.QueueLen = e.queue.Len()

	return s
}

// Info returns the engine configuration and memory usage.
func (e *Engine) Info() Info {
	lo, hi := CVMin, CVMax
	if e.cfg.CVUnipolar {
		lo, hi = 0, CVUnipolarMax
	}

	return Info{
		Algorithm:    e.conv.Name(),
		Latency:      e.Latency(),
		HistorySize:  e.history.Capacity(),
		QueueSize:    e.queue.Capacity(),
		BaseOffset:   e.cfg.BaseOffset,
		MaxDepth:     e.cfg.MaxDepth,
		MemoryUsage:  e.MemoryUsage(),
		SIMD:         simdops.Info(),
		CVRangeVolts: [2]float64{lo, hi},
	}
}

// MemoryUsage returns the approximate memory held by the engine in bytes.
func (e *Engine) MemoryUsage() int64 {
	const bytesPerFloat64 = 8

	return e.history.MemoryUsage() +
		e.queue.MemoryUsage() +
		e.conv.MemoryUsage() +
		int64(len(e.scratch))*bytesPerFloat64
}
