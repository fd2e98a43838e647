package wobble

// Buffer geometry
const (
	DefaultHistorySize  = 4096 // History ring capacity in samples
	DefaultQueueSize    = 16   // Output queue capacity in samples
	DefaultRefillFrames = 16   // Maximum history samples offered per refill
	DefaultBaseOffset   = 500  // Minimum latency in samples
)

// Modulation depth
const (
	DefaultMaxDepth = 4096.0              // Largest depth in samples
	DefaultDepth    = DefaultMaxDepth / 2 // Depth knob default
	DefaultRate     = 0.1                 // Rate knob default
	DefaultColor    = 0.0                 // Color knob default
	maxColor        = 1.0                 // Color knob upper bound
	maxRate         = 1.0                 // Rate knob upper bound
)

// Diagnostic output
const (
	CVMin         = -5.0 // Bipolar CV lower bound in volts
	CVMax         = 5.0  // Bipolar CV upper bound in volts
	CVUnipolarMax = 10.0 // Unipolar CV upper bound in volts
)

// Random source
const (
	pcgStream = 0x9e3779b97f4a7c15 // Second PCG word derived from the seed
)
