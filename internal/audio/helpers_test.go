package audio

import (
	"io"
	"math"
)

// sliceSource is a Source over an in-memory interleaved sample slice
type sliceSource struct {
	data []int16
	pos  int
}

func (s *sliceSource) Next() (int16, bool) {
	if s.pos >= len(s.data) {
		return 0, false
	}
	v := s.data[s.pos]
	s.pos++
	return v, true
}

func (s *sliceSource) Skip(n int) int {
	n = min(n, len(s.data)-s.pos)
	s.pos += n
	return n
}

// memDecoder is an AudioDecoder over an in-memory sample slice that hands
// out at most maxRead samples per call
type memDecoder struct {
	data     []int16
	pos      int
	channels int
	rate     int
	maxRead  int
	failAt   int // return failErr once pos reaches failAt (0 disables)
	failErr  error
	closed   bool
}

func (d *memDecoder) ReadSamples(dst []int16) (int, error) {
	if d.failAt > 0 && d.pos >= d.failAt {
		return 0, d.failErr
	}
	if d.pos >= len(d.data) {
		return 0, io.EOF
	}
	n := len(dst)
	if d.maxRead > 0 {
		n = min(n, d.maxRead)
	}
	if d.failAt > 0 {
		n = min(n, d.failAt-d.pos)
	}
	n = copy(dst[:n], d.data[d.pos:])
	d.pos += n
	return n, nil
}

func (d *memDecoder) SampleRate() int  { return d.rate }
func (d *memDecoder) NumChannels() int { return d.channels }
func (d *memDecoder) NumFrames() int64 { return int64(len(d.data) / d.channels) }
func (d *memDecoder) Close() error {
	d.closed = true
	return nil
}

// ramp returns n samples counting up from start
func ramp(start, n int) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = int16(start + i)
	}
	return out
}

// sine generates n samples of a sine wave completing cycles periods every
// period samples
func sine(n int, cycles float64, period int, amplitude float64) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = int16(amplitude * math.Sin(2*math.Pi*cycles*float64(i)/float64(period)))
	}
	return out
}

// interleave zips two channels into L R L R ...
func interleave(left, right []int16) []int16 {
	out := make([]int16, 0, 2*len(left))
	for i := range left {
		out = append(out, left[i], right[i])
	}
	return out
}

func argmax(xs []float64) int {
	best := 0
	for i, v := range xs {
		if v > xs[best] {
			best = i
		}
	}
	return best
}
