package main

// Default command-line flag values
const (
	defaultSampleRate = 48000 // Hz
	defaultDuration   = 5.0   // Seconds of demo or playback audio
	defaultSeed       = 1
	defaultSource     = "sine"
)

// Demo signal parameters
const (
	sineFrequency     = 220.0 // Hz
	sineAmplitude     = 5.0   // Volts
	logisticFrequency = 110.0 // Hz
	logisticGrowth    = 3.9   // Chaotic regime
	springFrequency   = 180.0 // Hz
	springChaos       = 0.2
	delaySearchMargin = 1000 // Extra lag searched beyond the deepest delay
)

// Memory conversion
const (
	bytesPerKilobyte = 1024
)
