// Package modulation implements the random-walk integrator that drives the
// wobble delay tap.
//
// The integrator is a damped spring pulled toward the midpoint of [0, 1]
// and kicked by white noise. Position is hard-clipped to [0, 1] while
// velocity is left alone, so the walk keeps its momentum after touching a
// bound.
package modulation

import "math"

// Source yields uniformly distributed values in [0, 1).
// *rand.Rand from math/rand and math/rand/v2 both satisfy it.
type Source interface {
	Float64() float64
}

// Integrator holds the modulation state: a position in [0, 1] and an
// unbounded velocity.
type Integrator struct {
	position float64
	velocity float64
	source   Source
}

// New creates an integrator at position 0 with zero velocity.
// A nil source disables the noise term.
func New(source Source) *Integrator {
	return &Integrator{source: source}
}

// Step advances the walk by one sample. scale is the internal rate factor
// (see ScaleRate). It returns the new position.
func (m *Integrator) Step(scale float64) float64 {
	noise := 0.0
	if m.source != nil {
		noise = m.source.Float64() - noiseCenter
	}

	m.velocity += scale * (restPosition - m.position + noise)
	m.position += m.velocity

	switch {
	case m.position < minPosition:
		m.position = minPosition
	case m.position > maxPosition:
		m.position = maxPosition
	case math.IsNaN(m.position):
		m.position = minPosition
		m.velocity = 0
	}

	return m.position
}

// Position returns the current position in [0, 1].
func (m *Integrator) Position() float64 {
	return m.position
}

// Velocity returns the current velocity.
func (m *Integrator) Velocity() float64 {
	return m.velocity
}

// Reset returns the integrator to position 0 with zero velocity.
func (m *Integrator) Reset() {
	m.position = 0
	m.velocity = 0
}

// ScaleRate maps a rate knob value in [0, 1] to the integrator scale factor.
// Out-of-range values are clamped and NaN maps to 0.
func ScaleRate(rate float64) float64 {
	if !(rate > 0) {
		return 0
	}
	if rate > 1 {
		rate = 1
	}
	return rate * rateScale
}

// CV converts a position to the bipolar control-voltage convention (-5..+5 V).
func CV(position float64) float64 {
	return position*cvSpan - cvOffset
}

// CVUnipolar converts a position to the unipolar convention (0..10 V).
func CVUnipolar(position float64) float64 {
	return position * cvSpan
}
