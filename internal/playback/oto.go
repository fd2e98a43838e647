//go:build !headless

package playback

import (
	"fmt"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// Player plays a SampleSource on the default output device.
type Player struct {
	ctx     *oto.Context
	player  *oto.Player
	started bool
	mutex   sync.Mutex
}

// New opens the audio device at sampleRate and prepares src for playback.
// Only one Player may exist per process.
func New(sampleRate int, src SampleSource) (*Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channelCount,
		Format:       oto.FormatFloat32LE,
		BufferSize:   bufferDuration,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	<-ready

	return &Player{
		ctx:    ctx,
		player: ctx.NewPlayer(NewReader(src, VoltsToFullScale)),
	}, nil
}

// Start begins playback.
func (p *Player) Start() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if !p.started && p.player != nil {
		p.player.Play()
		p.started = true
	}
}

// IsStarted reports whether playback is running.
func (p *Player) IsStarted() bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.started
}

// Close stops playback and releases the player.
func (p *Player) Close() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.started = false
	if p.player == nil {
		return nil
	}

	err := p.player.Close()
	p.player = nil
	return err
}
