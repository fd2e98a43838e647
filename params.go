package wobble

import "math"

// Params are the host-facing knobs, read once per tick.
type Params struct {
	// Rate in [0, 1] sets how fast the delay wanders.
	Rate float64

	// Depth in samples sets the span of the delay above the base offset.
	Depth float64

	// Color in [0, 1] is reserved and has no effect.
	Color float64
}

// DefaultParams returns rate 0.1, depth 2048 and color 0.
func DefaultParams() Params {
	return Params{
		Rate:  DefaultRate,
		Depth: DefaultDepth,
		Color: DefaultColor,
	}
}

// Sanitized returns p with every field clamped to its range. NaN fields
// take their default; the default depth is itself capped at maxDepth.
func (p Params) Sanitized(maxDepth float64) Params {
	if math.IsNaN(maxDepth) || maxDepth < 0 {
		maxDepth = 0
	}

	return Params{
		Rate:  sanitize(p.Rate, DefaultRate, 0, maxRate),
		Depth: sanitize(p.Depth, min(DefaultDepth, maxDepth), 0, maxDepth),
		Color: sanitize(p.Color, DefaultColor, 0, maxColor),
	}
}

func sanitize(v, fallback, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return fallback
	}

	return math.Max(lo, math.Min(hi, v))
}
