package audio

import (
	"sync"
	"time"
)

// ManualClock is a PlaybackClock whose position is set by the caller
type ManualClock struct {
	mu  sync.Mutex
	pos time.Duration
}

// Position returns the last position set
func (c *ManualClock) Position() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pos
}

// Set moves the clock to pos
func (c *ManualClock) Set(pos time.Duration) {
	c.mu.Lock()
	c.pos = pos
	c.mu.Unlock()
}

// Advance moves the clock forward by d
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.pos += d
	c.mu.Unlock()
}

// WallClock measures playback position from the system clock. It starts
// paused and only accumulates time while running.
type WallClock struct {
	mu      sync.Mutex
	now     func() time.Time
	started time.Time
	elapsed time.Duration
	running bool
}

// NewWallClock creates a paused wall clock
func NewWallClock() *WallClock {
	return &WallClock{now: time.Now}
}

// NewWallClockWithSource creates a paused wall clock reading time from now
func NewWallClockWithSource(now func() time.Time) *WallClock {
	return &WallClock{now: now}
}

// Position returns the accumulated running time
func (c *WallClock) Position() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return c.elapsed + c.now().Sub(c.started)
	}
	return c.elapsed
}

// Play starts or resumes the clock
func (c *WallClock) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		c.started = c.now()
		c.running = true
	}
}

// Pause stops the clock, keeping the accumulated time
func (c *WallClock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		c.elapsed += c.now().Sub(c.started)
		c.running = false
	}
}

// IsPlaying reports whether the clock is running
func (c *WallClock) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}
