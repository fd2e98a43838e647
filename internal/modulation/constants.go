package modulation

const (
	// rateScale converts the [0, 1] rate knob into the per-sample spring
	// constant. The walk is meant to drift over seconds at audio rate.
	rateScale = 1e-8

	// restPosition is where the restoring force pulls the walk.
	restPosition = 0.5

	// noiseCenter recentres the uniform source to [-0.5, 0.5).
	noiseCenter = 0.5

	minPosition = 0.0
	maxPosition = 1.0
)

// Control-voltage conversion.
const (
	cvSpan   = 10.0 // volts across the full position range
	cvOffset = 5.0  // shift for the bipolar convention
)
