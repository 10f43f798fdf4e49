package audio

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAVDecoder implements AudioDecoder for WAV files
type WAVDecoder struct {
	decoder    *wav.Decoder
	file       *os.File
	intBuf     *audio.IntBuffer
	sampleRate int
	bitDepth   int
	numChans   int
	numFrames  int64
}

// NewWAVDecoder creates a new WAV decoder
func NewWAVDecoder(filename string) (*WAVDecoder, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		f.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", filename)
	}

	// Get format info without reading all samples
	if err := decoder.FwdToPCM(); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to seek to PCM data: %w", err)
	}

	numChans := int(decoder.NumChans)
	bitDepth := int(decoder.BitDepth)
	if numChans <= 0 || bitDepth <= 0 {
		f.Close()
		return nil, fmt.Errorf("invalid WAV format: %d channels, %d bits", numChans, bitDepth)
	}

	// PCMLen is the size of the data chunk in bytes
	bytesPerFrame := int64((bitDepth+7)/8) * int64(numChans)
	numFrames := int64(decoder.PCMLen()) / bytesPerFrame

	return &WAVDecoder{
		decoder: decoder,
		file:    f,
		intBuf: &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: numChans,
				SampleRate:  int(decoder.SampleRate),
			},
			SourceBitDepth: bitDepth,
		},
		sampleRate: int(decoder.SampleRate),
		bitDepth:   bitDepth,
		numChans:   numChans,
		numFrames:  numFrames,
	}, nil
}

// ReadSamples reads the next block of interleaved samples
func (d *WAVDecoder) ReadSamples(dst []int16) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if cap(d.intBuf.Data) < len(dst) {
		d.intBuf.Data = make([]int, len(dst))
	}
	d.intBuf.Data = d.intBuf.Data[:len(dst)]

	n, err := d.decoder.PCMBuffer(d.intBuf)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("failed to read PCM buffer: %w", err)
	}

	if n == 0 {
		return 0, io.EOF
	}

	if d.bitDepth == 8 {
		// 8-bit WAV is unsigned
		for i := 0; i < n; i++ {
			dst[i] = int16((d.intBuf.Data[i] - 128) << 8)
		}
		return n, nil
	}

	for i := 0; i < n; i++ {
		dst[i] = toInt16(d.intBuf.Data[i], d.bitDepth)
	}
	return n, nil
}

// SampleRate returns the sample rate
func (d *WAVDecoder) SampleRate() int {
	return d.sampleRate
}

// NumFrames returns the number of sample-frames in the data chunk
func (d *WAVDecoder) NumFrames() int64 {
	return d.numFrames
}

// NumChannels returns the number of audio channels
func (d *WAVDecoder) NumChannels() int {
	return d.numChans
}

// Close closes the decoder and releases resources
func (d *WAVDecoder) Close() error {
	if d.file != nil {
		err := d.file.Close()
		d.file = nil
		return err
	}
	return nil
}
