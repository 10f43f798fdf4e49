package ui

import (
	"sync"
	"time"

	"github.com/linuxmatters/jivescope/internal/audio"
)

// Transport is the playback control surface the UI drives. *audio.Player
// satisfies it directly; muted sessions use NewMutedTransport.
type Transport interface {
	audio.PlaybackClock
	Play()
	TogglePause()
	IsPlaying() bool
	SetVolume(v float64)
	Volume() float64
	Finished() bool
}

// mutedTransport paces playback from the wall clock with no audio output
type mutedTransport struct {
	clock  *audio.WallClock
	length time.Duration

	mu     sync.Mutex
	volume float64
}

// NewMutedTransport plays length worth of silence on clock. A zero length
// never finishes.
func NewMutedTransport(clock *audio.WallClock, length time.Duration, volume float64) Transport {
	return &mutedTransport{clock: clock, length: length, volume: volume}
}

func (t *mutedTransport) Position() time.Duration {
	pos := t.clock.Position()
	if t.length > 0 && pos > t.length {
		return t.length
	}
	return pos
}

func (t *mutedTransport) Play()           { t.clock.Play() }
func (t *mutedTransport) IsPlaying() bool { return t.clock.IsPlaying() }

func (t *mutedTransport) TogglePause() {
	if t.clock.IsPlaying() {
		t.clock.Pause()
	} else {
		t.clock.Play()
	}
}

// SetVolume only records the level so the display stays consistent
func (t *mutedTransport) SetVolume(v float64) {
	t.mu.Lock()
	t.volume = max(0, min(1, v))
	t.mu.Unlock()
}

func (t *mutedTransport) Volume() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.volume
}

func (t *mutedTransport) Finished() bool {
	return t.length > 0 && t.clock.Position() >= t.length
}
