package audio

import (
	"fmt"
	"time"
)

// Metadata holds information about an audio file
type Metadata struct {
	SampleRate int
	Channels   int
	NumFrames  int64
	Duration   time.Duration
}

// ProbeMetadata opens filename just long enough to read its stream header
func ProbeMetadata(filename string) (*Metadata, error) {
	dec, err := OpenDecoder(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer dec.Close()

	return metadataFor(dec), nil
}

func metadataFor(dec AudioDecoder) *Metadata {
	m := &Metadata{
		SampleRate: dec.SampleRate(),
		Channels:   dec.NumChannels(),
		NumFrames:  dec.NumFrames(),
	}
	if m.SampleRate > 0 {
		m.Duration = time.Duration(float64(m.NumFrames) / float64(m.SampleRate) * float64(time.Second))
	}
	return m
}
