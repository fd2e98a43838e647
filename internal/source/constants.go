package source

// Output scaling
const (
	voltsPerUnit = 5.0 // Signal convention: unit amplitude maps to ±5 V
)

// Logistic map
const (
	MinGrowth       = 3.2   // Lowest logistic growth rate
	MaxGrowth       = 3.994 // Highest logistic growth rate
	logisticSeed    = 0.5   // Initial map value
	logisticBias    = 0.2   // DC offset removed before scaling
	halfCyclesPerHz = 0.5   // The map steps twice per period
)

// Spring
const (
	MaxChaos         = 0.4  // Largest stiffness jitter
	springUpdateRate = 4    // Samples between stiffness updates
	springStart      = 1.0  // Initial displacement
	springWall       = 1.0  // Displacement that triggers a bounce
	springRebound    = 0.99 // Displacement after a bounce
	chaosCenter      = 0.45 // Jitter offset subtracted from the normal draw
)
