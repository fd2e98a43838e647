//go:build headless

package playback

// Player is a stand-in for builds without an audio backend.
type Player struct{}

// New always fails with ErrUnavailable.
func New(sampleRate int, src SampleSource) (*Player, error) {
	return nil, ErrUnavailable
}

// Start does nothing.
func (p *Player) Start() {}

// IsStarted always reports false.
func (p *Player) IsStarted() bool {
	return false
}

// Close does nothing.
func (p *Player) Close() error {
	return nil
}
