package engine

// Ratio limits applied when Options leaves them unset.
// They match the one-decade bound of the wobble ratio controller.
const (
	DefaultMinRatio = 0.1
	DefaultMaxRatio = 10.0
)

// Cubic (Hermite) interpolation constants
const (
	// Cubic interpolation uses 4-point window
	cubicInterpolationPoints = 4

	// Cubic interpolation latency (centered around middle points)
	cubicLatencySamples = 2

	// Hermite interpolation coefficients for smooth C1 continuity
	// Formula: y = ((a*x + b)*x + c)*x + d
	// coefA := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	hermiteCoeff0_5 = 0.5
	hermiteCoeff1_5 = 1.5
	hermiteCoeff2_5 = 2.5

	// Memory usage estimate for cubic converter (bytes)
	cubicMemoryUsage = 64
)

// Linear interpolation constants
const (
	// Linear interpolation latency
	linearLatencySamples = 1

	// Memory usage estimate for linear converter (bytes)
	linearMemoryUsage = 32
)

// Sinc kernel constants
const (
	defaultZeroCrossings = 8
	defaultOversample    = 128
	defaultAttenuation   = 80.0 // dB

	maxZeroCrossings = 64
	maxOversample    = 4096

	// Window storage is mirrored so the tap window never wraps.
	sincMirrorFactor = 2

	bytesPerFloat64 = 8
)

// Phase bookkeeping. A converter starts and resets with a full phase so the
// first output waits for a fresh input sample.
const (
	phaseWrap    = 1.0
	initialPhase = phaseWrap
)
