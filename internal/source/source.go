// Package source provides mono test signal generators for driving the
// wobble engine from the command-line tools: a sine, a chaotic logistic
// map oscillator and a Hooke's-law spring with jittered stiffness.
//
// All generators return volts in the ±5 V signal convention.
package source

import "math"

// Generator produces one sample per call.
type Generator interface {
	Next() float64
}

// Normal yields standard normal deviates. *rand.Rand satisfies it.
type Normal interface {
	NormFloat64() float64
}

// Fill writes len(dst) samples from g into dst.
func Fill(g Generator, dst []float64) {
	for i := range dst {
		dst[i] = g.Next()
	}
}

// Sine is a fixed-frequency sine oscillator.
type Sine struct {
	step  float64
	phase float64
	amp   float64
}

// NewSine creates a sine at freq Hz with the given peak amplitude in volts.
func NewSine(freq, sampleRate, amplitude float64) *Sine {
	return &Sine{
		step: 2 * math.Pi * freq / sampleRate,
		amp:  amplitude,
	}
}

// Next returns the next sample.
func (s *Sine) Next() float64 {
	v := s.amp * math.Sin(s.phase)
	s.phase += s.step
	if s.phase >= 2*math.Pi {
		s.phase -= 2 * math.Pi
	}
	return v
}

// LogisticMap iterates x ← r·x·(1−x) twice per period of freq and glides
// linearly between successive values. Growth rates above about 3.57 are
// chaotic.
type LogisticMap struct {
	r     float64
	cycle float64 // seconds per map step
	dt    float64 // seconds per sample
	t     float64
	prev  float64
	val   float64
}

// NewLogisticMap creates a logistic map oscillator. growth is clamped to
// [MinGrowth, MaxGrowth].
func NewLogisticMap(freq, sampleRate, growth float64) *LogisticMap {
	return &LogisticMap{
		r:     math.Max(MinGrowth, math.Min(MaxGrowth, growth)),
		cycle: halfCyclesPerHz / freq,
		dt:    1 / sampleRate,
		prev:  logisticSeed,
		val:   logisticSeed,
	}
}

// Next returns the next sample.
func (l *LogisticMap) Next() float64 {
	l.t += l.dt
	if l.t >= l.cycle {
		l.t -= l.cycle
		l.prev = l.val
		l.val = l.r * l.prev * (1 - l.prev)
	}

	frac := l.t / l.cycle
	v := 2*((1-frac)*l.prev+frac*l.val) - 1

	return (v - logisticBias) * voltsPerUnit
}

// Spring is a mass on a Hooke's-law spring between two walls. Its
// stiffness is tuned to freq and jittered by chaos every few samples; a
// wall hit reflects the mass back inside with a small velocity.
type Spring struct {
	k       float64 // per-sample angular frequency at the nominal pitch
	chaos   float64
	normal  Normal
	stiff   float64
	value   float64
	vel     float64
	counter int
}

// NewSpring creates a spring oscillator. chaos is clamped to [0, MaxChaos];
// a nil normal source disables the jitter.
func NewSpring(freq, sampleRate, chaos float64, normal Normal) *Spring {
	return &Spring{
		k:      2 * math.Pi * freq / sampleRate,
		chaos:  math.Max(0, math.Min(MaxChaos, chaos)),
		normal: normal,
		value:  springStart,
	}
}

// Next returns the next sample.
func (s *Spring) Next() float64 {
	if s.counter == 0 {
		s.counter = springUpdateRate
		s.stiff = s.k
		if s.normal != nil {
			s.stiff *= (s.normal.NormFloat64()-chaosCenter)*s.chaos + 1
		}
	}
	s.counter--

	k2 := s.stiff * s.stiff
	s.vel -= k2 * s.value
	s.value += s.vel

	switch {
	case s.value < -springWall:
		s.value = -springRebound
		s.vel = k2
	case s.value > springWall:
		s.value = springRebound
		s.vel = -k2
	}

	return s.value * voltsPerUnit
}
