package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/linuxmatters/jivescope/internal/config"
)

// ErrInvalidConfig is returned when extractor or processor sizes are unusable
var ErrInvalidConfig = config.ErrInvalidConfig

// PlaybackClock reports how much audio has been played so far
type PlaybackClock interface {
	Position() time.Duration
}

// ExtractorStats counts what the extractor has done since construction
type ExtractorStats struct {
	FramesPushed  uint64 // frames decoded into the ring
	FramesSkipped uint64 // frames discarded because the caller fell behind
	Underruns     uint64 // frames the clock asked for that the stream could not supply
	Exhausted     bool   // the stream has run dry
}

// Extractor keeps a ring of the most recently played frames in step with a
// playback clock. It is not safe for concurrent use.
type Extractor struct {
	src        Source
	clock      PlaybackClock
	ring       *RingBuffer
	channels   int
	sampleRate int
	last       time.Duration
	stats      ExtractorStats
}

// NewExtractor creates an extractor reading channels-interleaved samples from
// src at sampleRate, keeping up to capacity frames. The first GetSamples call
// measures elapsed time from a clock position of zero.
func NewExtractor(src Source, clock PlaybackClock, channels, sampleRate, capacity int) (*Extractor, error) {
	if src == nil || clock == nil {
		return nil, fmt.Errorf("%w: source and clock are required", ErrInvalidConfig)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("%w: channels must be positive, got %d", ErrInvalidConfig, channels)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidConfig, sampleRate)
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidConfig, capacity)
	}

	return &Extractor{
		src:        src,
		clock:      clock,
		ring:       NewRingBuffer(capacity),
		channels:   channels,
		sampleRate: sampleRate,
	}, nil
}

// GetSamples advances the stream by however much audio played since the last
// call, then copies the most recent len(out) frames into out, oldest first.
// If fewer frames are available, only out[:n] is written and the rest of out
// is left untouched. Returns n.
func (e *Extractor) GetSamples(out []StereoFrame) int {
	pos := e.clock.Position()
	elapsed := pos - e.last
	if elapsed < 0 {
		elapsed = 0
	}
	e.last = pos

	expected := int(math.Round(elapsed.Seconds() * float64(e.sampleRate)))
	capacity := e.ring.Cap()

	take := expected
	if expected > capacity {
		// Frames older than the ring can hold would be overwritten anyway
		skip := expected - capacity
		skipped := e.src.Skip(skip*e.channels) / e.channels
		e.stats.FramesSkipped += uint64(skipped)
		if skipped < skip {
			e.stats.Underruns += uint64(skip - skipped)
		}
		take = capacity
	}

	got := e.pull(take)
	if got < take {
		e.stats.Underruns += uint64(take - got)
		e.stats.Exhausted = true
	}

	return e.ring.Peek(out)
}

// pull reads up to frames frames from the source into the ring
func (e *Extractor) pull(frames int) int {
	for i := 0; i < frames; i++ {
		f, n := readFrame(e.src, e.channels)
		if n == 0 {
			return i
		}
		e.ring.Push(f)
		e.stats.FramesPushed++

		// A stream ending mid-frame still yields the partial frame
		if n < e.channels {
			return i + 1
		}
	}
	return frames
}

// readFrame consumes one interleaved frame of channels samples from src.
// The first sample is left, the second right; mono frames are duplicated and
// any further channels are dropped. n is the number of samples consumed.
func readFrame(src Source, channels int) (f StereoFrame, n int) {
	left, ok := src.Next()
	if !ok {
		return f, 0
	}
	f.Left, f.Right = left, left

	for n = 1; n < channels; n++ {
		v, ok := src.Next()
		if !ok {
			break
		}
		if n == 1 {
			f.Right = v
		}
	}
	return f, n
}

// Buffered returns the number of frames currently held in the ring
func (e *Extractor) Buffered() int {
	return e.ring.Len()
}

// Capacity returns the ring capacity in frames
func (e *Extractor) Capacity() int {
	return e.ring.Cap()
}

// Stats returns a copy of the extractor counters
func (e *Extractor) Stats() ExtractorStats {
	return e.stats
}
