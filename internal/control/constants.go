package control

const (
	// DeadZone is the distance, in samples, below which the reader runs at
	// unity ratio.
	DeadZone = 16.0

	// Scale is the distance, in samples, that saturates the ratio at one
	// decade.
	Scale = 10000.0

	// MinRatio and MaxRatio bound every ratio Ratio can return.
	MinRatio = 0.1
	MaxRatio = 10.0

	ratioBase = 10.0

	// maxDepth keeps TargetIndex well inside the int range.
	maxDepth = 1 << 30
)
