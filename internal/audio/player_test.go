package audio

import (
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodePCM(b []byte) []int16 {
	out := make([]int16, len(b)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(b[2*i:]))
	}
	return out
}

func TestPCMReader_ChannelLayouts(t *testing.T) {
	testCases := []struct {
		name        string
		channels    int
		data        []int16
		outChannels int
		want        []int16
	}{
		{"mono stays mono", 1, []int16{1, -2, 3}, 1, []int16{1, -2, 3}},
		{"stereo passes through", 2, []int16{1, 2, -3, -4}, 2, []int16{1, 2, -3, -4}},
		{"surround keeps front pair", 3, []int16{1, 2, 9, 4, 5, 9}, 2, []int16{1, 2, 4, 5}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := newPCMReader(&memDecoder{data: tc.data, channels: tc.channels, rate: 8000})
			require.Equal(t, tc.outChannels, r.outChannels)

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tc.want, decodePCM(got))
			assert.Equal(t, int64(len(got)), r.read.Load())
			assert.True(t, r.done.Load())
		})
	}
}

func TestPCMReader_WholeFramesOnly(t *testing.T) {
	r := newPCMReader(&memDecoder{data: ramp(1, 10), channels: 2, rate: 8000})

	// 7 bytes fit one whole stereo frame
	buf := make([]byte, 7)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []int16{1, 2}, decodePCM(buf[:n]))

	// Buffers smaller than a frame read nothing without ending the stream
	n, err = r.Read(make([]byte, 3))
	assert.NoError(t, err)
	assert.Zero(t, n)
	assert.False(t, r.done.Load())
}

func TestPCMReader_RecordsDecodeError(t *testing.T) {
	boom := errors.New("bad frame")
	r := newPCMReader(&memDecoder{data: ramp(1, 100), channels: 1, rate: 8000, failAt: 4, failErr: boom})

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, []int16{1, 2, 3, 4}, decodePCM(got))

	stored, ok := r.err.Load().(error)
	require.True(t, ok)
	assert.ErrorIs(t, stored, boom)
}
