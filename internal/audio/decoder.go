package audio

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned by OpenDecoder for unknown file extensions
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// AudioDecoder defines the interface for all audio format decoders
type AudioDecoder interface {
	// ReadSamples fills dst with interleaved 16-bit samples and returns the
	// number of samples written. Returns io.EOF once the stream is exhausted.
	ReadSamples(dst []int16) (int, error)

	// SampleRate returns the audio sample rate in Hz
	SampleRate() int

	// NumFrames returns the total number of sample-frames in the file
	// Returns 0 if the length is unknown
	NumFrames() int64

	// NumChannels returns the number of interleaved channels
	NumChannels() int

	// Close closes the decoder and releases resources
	Close() error
}

// OpenDecoder opens filename with the decoder matching its extension
func OpenDecoder(filename string) (AudioDecoder, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".wav", ".wave":
		d, err := NewWAVDecoder(filename)
		if err != nil {
			return nil, err
		}
		return d, nil
	case ".mp3":
		d, err := NewMP3Decoder(filename)
		if err != nil {
			return nil, err
		}
		return d, nil
	case ".flac":
		d, err := NewFLACDecoder(filename)
		if err != nil {
			return nil, err
		}
		return d, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// toInt16 rescales a signed PCM sample of the given bit depth to 16 bits
func toInt16(s int, bitDepth int) int16 {
	switch {
	case bitDepth > 16:
		return int16(s >> (bitDepth - 16))
	case bitDepth < 16 && bitDepth > 0:
		return int16(s << (16 - bitDepth))
	}
	return int16(s)
}
