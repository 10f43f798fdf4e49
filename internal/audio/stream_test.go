package audio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleStream_ReadsAcrossChunks(t *testing.T) {
	data := ramp(0, 25)
	s := NewSampleStream(&memDecoder{data: data, channels: 1, rate: 8000, maxRead: 3}, 4)

	var got []int16
	for {
		v, ok := s.Next()
		if !ok {
			break
		}
		got = append(got, v)
	}

	assert.Equal(t, data, got)
	assert.NoError(t, s.Err())
}

func TestSampleStream_Skip(t *testing.T) {
	s := NewSampleStream(&memDecoder{data: ramp(0, 20), channels: 1, rate: 8000}, 6)

	assert.Equal(t, 9, s.Skip(9))
	v, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, int16(9), v)

	// Skipping past the end reports only what was available
	assert.Equal(t, 10, s.Skip(50))
	_, ok = s.Next()
	assert.False(t, ok)
	assert.Equal(t, 0, s.Skip(5))
}

func TestSampleStream_DecodeErrorEndsStream(t *testing.T) {
	boom := errors.New("corrupt frame")
	dec := &memDecoder{data: ramp(0, 100), channels: 1, rate: 8000, failAt: 10, failErr: boom}
	s := NewSampleStream(dec, 4)

	count := 0
	for {
		if _, ok := s.Next(); !ok {
			break
		}
		count++
	}

	assert.Equal(t, 10, count)
	assert.ErrorIs(t, s.Err(), boom)

	// Further reads stay exhausted rather than retrying the decoder
	_, ok := s.Next()
	assert.False(t, ok)
}

type stallDecoder struct{ memDecoder }

func (d *stallDecoder) ReadSamples([]int16) (int, error) { return 0, nil }

func TestSampleStream_StalledDecoderTerminates(t *testing.T) {
	s := NewSampleStream(&stallDecoder{memDecoder{channels: 1, rate: 8000}}, 4)

	_, ok := s.Next()
	assert.False(t, ok)
	assert.NoError(t, s.Err())
}

func TestSampleStream_DefaultChunk(t *testing.T) {
	s := NewSampleStream(&memDecoder{channels: 1, rate: 8000}, 0)
	assert.Len(t, s.chunk, DefaultChunkSamples)
}
