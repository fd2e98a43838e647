package playback

import "time"

// Stream format
const (
	bytesPerSample     = 4    // float32 little-endian
	channelCount       = 1    // Mono
	defaultReadSamples = 1024 // Initial reader scratch size
)

// Device
const (
	// VoltsToFullScale maps the ±5 V signal convention onto ±1.0.
	VoltsToFullScale = 0.2

	bufferDuration = 50 * time.Millisecond
)
