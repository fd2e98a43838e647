// Package playback streams engine output to the default audio device
// through oto. Builds tagged headless have no audio backend and New
// reports ErrUnavailable.
package playback

import (
	"encoding/binary"
	"errors"
	"io"
	"math"

	"github.com/tphakala/go-wobble/internal/simdops"
)

// ErrUnavailable indicates that no audio backend is compiled in or the
// device could not be opened.
var ErrUnavailable = errors.New("playback: audio output unavailable")

// SampleSource yields the next mono sample in volts. It is called from the
// audio driver's goroutine.
type SampleSource func() float32

// Reader adapts a SampleSource to a float32 little-endian PCM stream.
type Reader struct {
	src  SampleSource
	gain float32
	buf  []float32
	ops  *simdops.Ops[float32]
}

// NewReader returns a reader that scales every sample by gain.
func NewReader(src SampleSource, gain float32) *Reader {
	return &Reader{
		src:  src,
		gain: gain,
		buf:  make([]float32, defaultReadSamples),
		ops:  simdops.Float32Ops(),
	}
}

// Read fills p with whole samples and never returns io.EOF.
func (r *Reader) Read(p []byte) (int, error) {
	n := len(p) / bytesPerSample
	if n == 0 {
		return 0, io.ErrShortBuffer
	}

	if n > len(r.buf) {
		r.buf = make([]float32, n)
	}
	samples := r.buf[:n]

	for i := range samples {
		samples[i] = r.src()
	}
	r.ops.Scale(samples, samples, r.gain)

	for i, s := range samples {
		binary.LittleEndian.PutUint32(p[i*bytesPerSample:], math.Float32bits(s))
	}

	return n * bytesPerSample, nil
}
