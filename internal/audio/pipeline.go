package audio

import "github.com/linuxmatters/jivescope/internal/config"

// Pipeline runs one frame of extraction and analysis per call.
// Calls must come from a single goroutine.
type Pipeline struct {
	Extractor *Extractor
	Processor *Processor

	frames []StereoFrame
}

// NewPipeline wires an extractor and processor sized by cfg
func NewPipeline(src Source, clock PlaybackClock, channels, sampleRate int, cfg config.Analysis) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	extractor, err := NewExtractor(src, clock, channels, sampleRate, cfg.WindowSize)
	if err != nil {
		return nil, err
	}

	processor, err := NewProcessorWithWindow(cfg.WindowSize, cfg.Bins, cfg.WindowFunction)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		Extractor: extractor,
		Processor: processor,
		frames:    make([]StereoFrame, cfg.WindowSize),
	}, nil
}

// Frame pulls the samples played since the previous call and returns the
// spectrum of the current window
func (p *Pipeline) Frame() ProcessorOutput {
	p.Extractor.GetSamples(p.frames)
	p.Processor.Load(p.frames)
	return p.Processor.ProcessSamples()
}
