package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
)

// ErrDeviceUnavailable is returned when the audio output cannot be opened
var ErrDeviceUnavailable = errors.New("audio device unavailable")

// Player plays a decoder through the system audio device and doubles as the
// PlaybackClock for the analysis pipeline. oto allows a single context per
// process, so only one Player may be created.
type Player struct {
	otoCtx   *oto.Context
	player   *oto.Player
	reader   *pcmReader
	rate     int
	frameLen int64 // bytes per output frame

	mu      sync.Mutex
	volume  float64
	lastPos time.Duration
}

// NewPlayer opens the audio device for dec. Playback starts paused.
func NewPlayer(dec AudioDecoder, volume float64) (*Player, error) {
	channels := dec.NumChannels()
	if channels <= 0 || dec.SampleRate() <= 0 {
		return nil, fmt.Errorf("%w: %d channels at %d Hz", ErrInvalidConfig, channels, dec.SampleRate())
	}

	reader := newPCMReader(dec)

	op := &oto.NewContextOptions{
		SampleRate:   dec.SampleRate(),
		ChannelCount: reader.outChannels,
		Format:       oto.FormatSignedInt16LE,
	}

	otoCtx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	<-readyChan

	p := &Player{
		otoCtx:   otoCtx,
		player:   otoCtx.NewPlayer(reader),
		reader:   reader,
		rate:     dec.SampleRate(),
		frameLen: int64(2 * reader.outChannels),
	}
	p.SetVolume(volume)

	return p, nil
}

// Play starts or resumes playback
func (p *Player) Play() {
	p.player.Play()
}

// Pause halts playback, keeping the position
func (p *Player) Pause() {
	p.player.Pause()
}

// TogglePause flips between playing and paused
func (p *Player) TogglePause() {
	if p.player.IsPlaying() {
		p.player.Pause()
	} else {
		p.player.Play()
	}
}

// IsPlaying reports whether audio is currently being played
func (p *Player) IsPlaying() bool {
	return p.player.IsPlaying()
}

// Finished reports whether the whole file has been played out
func (p *Player) Finished() bool {
	return p.reader.done.Load() && p.player.BufferedSize() == 0
}

// SetVolume sets the playback volume, clamped to 0.0-1.0
func (p *Player) SetVolume(v float64) {
	v = max(0, min(1, v))
	p.mu.Lock()
	p.volume = v
	p.mu.Unlock()
	p.player.SetVolume(v)
}

// Volume returns the current playback volume
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// Position returns how much audio has reached the device: the bytes oto has
// pulled minus what it still holds in its buffer. It never goes backwards.
func (p *Player) Position() time.Duration {
	played := p.reader.read.Load() - int64(p.player.BufferedSize())
	frames := max(played/p.frameLen, 0)
	pos := time.Duration(float64(frames) / float64(p.rate) * float64(time.Second))

	p.mu.Lock()
	defer p.mu.Unlock()
	if pos < p.lastPos {
		return p.lastPos
	}
	p.lastPos = pos
	return pos
}

// Err returns the decode error that ended playback early, if any
func (p *Player) Err() error {
	if err, ok := p.reader.err.Load().(error); ok {
		return err
	}
	return nil
}

// Close stops playback and releases the audio device
func (p *Player) Close() error {
	if p.player == nil {
		return nil
	}
	err := p.player.Close()
	p.player = nil
	if p.otoCtx != nil {
		if serr := p.otoCtx.Suspend(); serr != nil && err == nil {
			err = serr
		}
	}
	return err
}

// pcmReader adapts an AudioDecoder to the signed 16-bit little-endian byte
// stream oto pulls from. Files with more than two channels are reduced to
// their first two.
type pcmReader struct {
	src         *SampleStream
	inChannels  int
	outChannels int
	read        atomic.Int64
	done        atomic.Bool
	err         atomic.Value
}

func newPCMReader(dec AudioDecoder) *pcmReader {
	in := dec.NumChannels()
	out := 2
	if in == 1 {
		out = 1
	}
	return &pcmReader{
		src:         NewSampleStream(dec, DefaultChunkSamples),
		inChannels:  in,
		outChannels: out,
	}
}

func (r *pcmReader) Read(buf []byte) (int, error) {
	frameBytes := 2 * r.outChannels
	if len(buf) < frameBytes {
		return 0, nil
	}

	n := 0
	for n+frameBytes <= len(buf) {
		f, got := readFrame(r.src, r.inChannels)
		if got == 0 {
			break
		}
		binary.LittleEndian.PutUint16(buf[n:], uint16(f.Left))
		if r.outChannels == 2 {
			binary.LittleEndian.PutUint16(buf[n+2:], uint16(f.Right))
		}
		n += frameBytes
	}

	r.read.Add(int64(n))
	if n == 0 {
		if err := r.src.Err(); err != nil {
			r.err.Store(err)
		}
		r.done.Store(true)
		return 0, io.EOF
	}
	return n, nil
}
