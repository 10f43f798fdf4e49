package audio

import (
	"errors"
	"io"
)

// DefaultChunkSamples is how many raw samples SampleStream decodes at a time
const DefaultChunkSamples = 4096

const maxEmptyReads = 8

// Source is a forward-only supply of raw interleaved samples
type Source interface {
	// Next returns the next raw sample, or false once the supply is exhausted
	Next() (int16, bool)

	// Skip discards up to n raw samples and returns how many were discarded
	Skip(n int) int
}

// SampleStream pulls decoded samples from an AudioDecoder one chunk at a time.
// It never rewinds and only ever holds a single decoded chunk in memory.
type SampleStream struct {
	dec   AudioDecoder
	chunk []int16
	pos   int
	n     int
	done  bool
	err   error
}

// NewSampleStream creates a stream over dec reading chunkSamples at a time
func NewSampleStream(dec AudioDecoder, chunkSamples int) *SampleStream {
	if chunkSamples <= 0 {
		chunkSamples = DefaultChunkSamples
	}
	return &SampleStream{
		dec:   dec,
		chunk: make([]int16, chunkSamples),
	}
}

// Next returns the next raw sample
func (s *SampleStream) Next() (int16, bool) {
	if s.pos >= s.n && !s.fill() {
		return 0, false
	}
	v := s.chunk[s.pos]
	s.pos++
	return v, true
}

// Skip discards up to n raw samples
func (s *SampleStream) Skip(n int) int {
	skipped := 0
	for skipped < n {
		if s.pos >= s.n && !s.fill() {
			break
		}
		step := min(n-skipped, s.n-s.pos)
		s.pos += step
		skipped += step
	}
	return skipped
}

// Err returns the decode error that ended the stream, if any.
// A clean end of file is not an error.
func (s *SampleStream) Err() error {
	return s.err
}

// fill decodes the next chunk. Decode failures end the stream.
func (s *SampleStream) fill() bool {
	if s.done {
		return false
	}

	for empty := 0; empty < maxEmptyReads; empty++ {
		n, err := s.dec.ReadSamples(s.chunk)
		if n > 0 {
			s.n = n
			s.pos = 0
			if err != nil {
				if !errors.Is(err, io.EOF) {
					s.err = err
				}
				s.done = true
			}
			return true
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.err = err
			}
			s.done = true
			s.n, s.pos = 0, 0
			return false
		}
	}

	// A decoder that keeps returning nothing is treated as finished
	s.done = true
	s.n, s.pos = 0, 0
	return false
}
