package analysis

// FFT sizing
const (
	minFFTSize = 64 // Smallest transform used for cross-correlation
)
