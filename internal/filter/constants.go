package filter

// Kernel design limits
const (
	minZeroCrossings = 1
	maxZeroCrossings = 64
	minOversample    = 1
	maxOversample    = 4096
)

// Frequency response constants
const (
	defaultResponsePoints = 512

	// Frequencies run from 0 to Nyquist, i.e. k/(2*numPoints).
	nyquistDivisor = 2.0

	minMagnitude = 1e-10 // Avoid log(0)
	dbMultiplier = 20.0  // 20*log10 for magnitude
)
