package engine

// CubicConverter implements cubic (4-point, 3rd order) Hermite interpolation.
// This is the default converter: cheap, smooth, and only two samples of latency.
type CubicConverter struct {
	lifecycle
	bounds  ratioBounds
	phase   float64
	history [cubicInterpolationPoints]float64 // history[0] is newest
}

// NewCubicConverter creates a cubic converter accepting ratios in [minRatio, maxRatio].
func NewCubicConverter(minRatio, maxRatio float64) *CubicConverter {
	return &CubicConverter{
		bounds: ratioBounds{min: minRatio, max: maxRatio},
		phase:  initialPhase,
	}
}

// Process resamples in into out using cubic interpolation.
func (c *CubicConverter) Process(in, out []float64, ratio float64) (used, generated int) {
	if c.closed {
		return 0, 0
	}

	step := c.bounds.step(ratio)
	for generated < len(out) {
		for c.phase >= phaseWrap {
			if used == len(in) {
				return used, generated
			}
			c.history[3] = c.history[2]
			c.history[2] = c.history[1]
			c.history[1] = c.history[0]
			c.history[0] = in[used]
			used++
			c.phase -= phaseWrap
		}

		out[generated] = c.interpolate(c.phase)
		generated++
		c.phase += step
	}

	return used, generated
}

// interpolate performs cubic Hermite interpolation between history[2] and history[1].
// Uses the formula: y = ((a*x + b)*x + c)*x + d
// where x is the fractional position between samples.
func (c *CubicConverter) interpolate(x float64) float64 {
	y0 := c.history[3] // oldest
	y1 := c.history[2]
	y2 := c.history[1]
	y3 := c.history[0] // newest

	coefA := -hermiteCoeff0_5*y0 + hermiteCoeff1_5*y1 - hermiteCoeff1_5*y2 + hermiteCoeff0_5*y3
	coefB := y0 - hermiteCoeff2_5*y1 + 2*y2 - hermiteCoeff0_5*y3
	coefC := -hermiteCoeff0_5*y0 + hermiteCoeff0_5*y2
	coefD := y1

	return ((coefA*x+coefB)*x+coefC)*x + coefD
}

// Reset clears internal state.
func (c *CubicConverter) Reset() {
	c.phase = initialPhase
	c.history = [cubicInterpolationPoints]float64{}
}

// Latency returns the converter latency in samples.
func (c *CubicConverter) Latency() int {
	return cubicLatencySamples
}

// Name returns "cubic".
func (c *CubicConverter) Name() string {
	return KindCubic.String()
}

// MemoryUsage returns approximate memory usage in bytes.
func (c *CubicConverter) MemoryUsage() int64 {
	return cubicMemoryUsage
}

// LinearConverter implements linear (2-point, 1st order) interpolation.
// Even faster than cubic but lower quality.
type LinearConverter struct {
	lifecycle
	bounds ratioBounds
	phase  float64
	prev   float64
	cur    float64
}

// NewLinearConverter creates a linear converter accepting ratios in [minRatio, maxRatio].
func NewLinearConverter(minRatio, maxRatio float64) *LinearConverter {
	return &LinearConverter{
		bounds: ratioBounds{min: minRatio, max: maxRatio},
		phase:  initialPhase,
	}
}

// Process resamples in into out using linear interpolation.
func (l *LinearConverter) Process(in, out []float64, ratio float64) (used, generated int) {
	if l.closed {
		return 0, 0
	}

	step := l.bounds.step(ratio)
	for generated < len(out) {
		for l.phase >= phaseWrap {
			if used == len(in) {
				return used, generated
			}
			l.prev = l.cur
			l.cur = in[used]
			used++
			l.phase -= phaseWrap
		}

		// y = (1-x)*prev + x*current
		out[generated] = (1-l.phase)*l.prev + l.phase*l.cur
		generated++
		l.phase += step
	}

	return used, generated
}

// Reset clears internal state.
func (l *LinearConverter) Reset() {
	l.phase = initialPhase
	l.prev = 0
	l.cur = 0
}

// Latency returns the converter latency in samples.
func (l *LinearConverter) Latency() int {
	return linearLatencySamples
}

// Name returns "linear".
func (l *LinearConverter) Name() string {
	return KindLinear.String()
}

// MemoryUsage returns approximate memory usage in bytes.
func (l *LinearConverter) MemoryUsage() int64 {
	return linearMemoryUsage
}
