package buffer

const (
	// mirrorFactor is how many copies of each history sample are stored.
	// Two copies make every head-relative read contiguous.
	mirrorFactor = 2

	// bytesPerSample is the size of a float64 sample, for memory estimates.
	bytesPerSample = 8
)
