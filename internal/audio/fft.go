package audio

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	"gonum.org/v1/gonum/dsp/window"
)

// Window function names accepted by NewWindow
const (
	WindowHann           = "hann"
	WindowBlackmanHarris = "blackman-harris"
)

// Warnf reports non-fatal setup problems. It discards messages until the
// caller points it somewhere.
var Warnf = func(format string, args ...any) {}

// Window is an immutable table of per-index scale factors applied to a
// block of samples before transforming it
type Window struct {
	scales []float64
}

// NewHannWindow builds the periodic Hann taper sin²(πi/n)
func NewHannWindow(n int) *Window {
	scales := make([]float64, n)
	for i := range scales {
		s := math.Sin(math.Pi * float64(i) / float64(n))
		scales[i] = s * s
	}
	return &Window{scales: scales}
}

// NewBlackmanHarrisWindow builds a 4-term Blackman-Harris taper
func NewBlackmanHarrisWindow(n int) *Window {
	scales := make([]float64, n)
	for i := range scales {
		scales[i] = 1
	}
	window.BlackmanHarris(scales)
	return &Window{scales: scales}
}

// NewWindow builds the named window function
func NewWindow(name string, n int) (*Window, error) {
	switch strings.ToLower(name) {
	case "", WindowHann:
		return NewHannWindow(n), nil
	case WindowBlackmanHarris:
		return NewBlackmanHarrisWindow(n), nil
	}
	return nil, fmt.Errorf("%w: unknown window function %q", ErrInvalidConfig, name)
}

// Len returns the table length
func (w *Window) Len() int {
	return len(w.scales)
}

// Scale returns the scale factor at index i
func (w *Window) Scale(i int) float64 {
	return w.scales[i]
}

// Apply writes src[i]*scale[i] into dst. Indices past the end of src are zeroed.
func (w *Window) Apply(dst []float64, src []int16) {
	n := min(len(dst), len(w.scales))
	m := min(n, len(src))
	for i := 0; i < m; i++ {
		dst[i] = float64(src[i]) * w.scales[i]
	}
	clear(dst[m:n])
}

// ChannelBuffers holds one analysis window of samples per channel
type ChannelBuffers struct {
	Left  []int16
	Right []int16
}

// ProcessorOutput is one frame's spectrum per channel, lowest frequency first
type ProcessorOutput struct {
	Left  []float64
	Right []float64
}

// Processor turns a window of stereo samples into binned magnitude spectra.
// Scratch memory is reused between calls, so a Processor is not safe for
// concurrent use.
type Processor struct {
	Buffers ChannelBuffers

	window    *Window
	transform Transform
	scratch   []complex128 // 2×windowSize, second half is zero padding
	windowed  []float64
	mags      []float64
	bins      int
	chunkSize int
}

// NewProcessor creates a processor for windowSize samples per channel
// producing bins magnitudes per channel, using a Hann window
func NewProcessor(windowSize, bins int) (*Processor, error) {
	return NewProcessorWithWindow(windowSize, bins, WindowHann)
}

// NewProcessorWithWindow is NewProcessor with a named window function
func NewProcessorWithWindow(windowSize, bins int, windowName string) (*Processor, error) {
	if windowSize <= 0 {
		return nil, fmt.Errorf("%w: window size must be positive, got %d", ErrInvalidConfig, windowSize)
	}
	if bins <= 0 {
		return nil, fmt.Errorf("%w: bin count must be positive, got %d", ErrInvalidConfig, bins)
	}
	if bins > windowSize {
		return nil, fmt.Errorf("%w: %d bins exceeds window size %d", ErrInvalidConfig, bins, windowSize)
	}

	win, err := NewWindow(windowName, windowSize)
	if err != nil {
		return nil, err
	}

	transform, err := NewTransform(2 * windowSize)
	if err != nil {
		return nil, err
	}

	if rem := windowSize % bins; rem != 0 {
		Warnf("window size %d is not a multiple of %d bins; ignoring the top %d magnitudes", windowSize, bins, rem)
	}

	return &Processor{
		Buffers: ChannelBuffers{
			Left:  make([]int16, windowSize),
			Right: make([]int16, windowSize),
		},
		window:    win,
		transform: transform,
		scratch:   make([]complex128, 2*windowSize),
		windowed:  make([]float64, windowSize),
		mags:      make([]float64, windowSize),
		bins:      bins,
		chunkSize: windowSize / bins,
	}, nil
}

// WindowSize returns the number of samples analysed per channel
func (p *Processor) WindowSize() int {
	return len(p.windowed)
}

// Bins returns the number of magnitudes produced per channel
func (p *Processor) Bins() int {
	return p.bins
}

// Load de-interleaves frames into the channel buffers. Frames beyond the
// window are ignored; a short slice leaves the remaining samples untouched.
func (p *Processor) Load(frames []StereoFrame) {
	n := min(len(frames), len(p.Buffers.Left))
	for i := 0; i < n; i++ {
		p.Buffers.Left[i] = frames[i].Left
		p.Buffers.Right[i] = frames[i].Right
	}
}

// ProcessSamples analyses both channel buffers
func (p *Processor) ProcessSamples() ProcessorOutput {
	return ProcessorOutput{
		Left:  p.ProcessChannel(p.Buffers.Left, make([]float64, p.bins)),
		Right: p.ProcessChannel(p.Buffers.Right, make([]float64, p.bins)),
	}
}

// ProcessChannel windows samples, zero-pads to twice the window, transforms,
// and averages the lower-half magnitudes into bins. The result is written to
// dst, which is grown if it is too small, and returned.
func (p *Processor) ProcessChannel(samples []int16, dst []float64) []float64 {
	n := len(p.windowed)

	p.window.Apply(p.windowed, samples)
	for i, v := range p.windowed {
		p.scratch[i] = complex(v, 0)
	}
	clear(p.scratch[n:])

	p.transform.Forward(p.scratch)

	// Real input: the upper half mirrors the lower half
	for i := 0; i < n; i++ {
		p.mags[i] = cmplx.Abs(p.scratch[i])
	}

	if cap(dst) < p.bins {
		dst = make([]float64, p.bins)
	}
	dst = dst[:p.bins]
	for b := range dst {
		start := b * p.chunkSize
		dst[b] = Mean(p.mags[start : start+p.chunkSize])
	}
	return dst
}

// BinFrequency returns the frequency range in Hz covered by an output bin
func (p *Processor) BinFrequency(bin, sampleRate int) (lo, hi float64) {
	// Each FFT index spans sampleRate / (2×windowSize) Hz
	resolution := float64(sampleRate) / float64(len(p.scratch))
	lo = float64(bin*p.chunkSize) * resolution
	hi = float64((bin+1)*p.chunkSize) * resolution
	return lo, hi
}
