package audio

import (
	"fmt"
	"io"

	"github.com/mewkiz/flac"
)

// FLACDecoder implements AudioDecoder for FLAC files
type FLACDecoder struct {
	stream      *flac.Stream
	sampleRate  int
	numFrames   int64
	numChannels int

	// Interleaved samples of the last parsed FLAC frame not yet handed out
	pending []int16
	pos     int
}

// NewFLACDecoder creates a new FLAC decoder
func NewFLACDecoder(filename string) (*FLACDecoder, error) {
	// Parses the signature and StreamInfo block; Close releases the file
	stream, err := flac.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create FLAC decoder: %w", err)
	}

	if stream.Info.NChannels == 0 {
		stream.Close()
		return nil, fmt.Errorf("invalid FLAC stream: no channels")
	}

	return &FLACDecoder{
		stream:      stream,
		sampleRate:  int(stream.Info.SampleRate),
		numFrames:   int64(stream.Info.NSamples),
		numChannels: int(stream.Info.NChannels),
	}, nil
}

// ReadSamples reads the next block of interleaved samples
func (d *FLACDecoder) ReadSamples(dst []int16) (int, error) {
	written := 0

	for written < len(dst) {
		if d.pos >= len(d.pending) {
			if err := d.parseFrame(); err != nil {
				if err == io.EOF {
					if written == 0 {
						return 0, io.EOF
					}
					return written, nil
				}
				return written, err
			}
		}

		n := copy(dst[written:], d.pending[d.pos:])
		d.pos += n
		written += n
	}

	return written, nil
}

// parseFrame decodes the next FLAC frame into the pending buffer
func (d *FLACDecoder) parseFrame() error {
	frame, err := d.stream.ParseNext()
	if err != nil {
		if err == io.EOF {
			return io.EOF
		}
		return fmt.Errorf("failed to parse FLAC frame: %w", err)
	}

	// FLAC frames contain one subframe per channel
	channels := len(frame.Subframes)
	if channels == 0 {
		d.pending = d.pending[:0]
		d.pos = 0
		return nil
	}
	frameLen := len(frame.Subframes[0].Samples)
	bits := int(frame.BitsPerSample)

	need := frameLen * channels
	if cap(d.pending) < need {
		d.pending = make([]int16, need)
	}
	d.pending = d.pending[:need]

	for ch, sub := range frame.Subframes {
		for i, s := range sub.Samples {
			d.pending[i*channels+ch] = toInt16(int(s), bits)
		}
	}
	d.pos = 0
	return nil
}

// SampleRate returns the sample rate
func (d *FLACDecoder) SampleRate() int {
	return d.sampleRate
}

// NumFrames returns the number of inter-channel samples in the stream
func (d *FLACDecoder) NumFrames() int64 {
	return d.numFrames
}

// NumChannels returns the number of audio channels
func (d *FLACDecoder) NumChannels() int {
	return d.numChannels
}

// Close closes the decoder and releases resources
func (d *FLACDecoder) Close() error {
	if d.stream != nil {
		err := d.stream.Close()
		d.stream = nil
		return err
	}
	return nil
}
