package main

import (
	"fmt"
	"image"
	"time"

	"github.com/linuxmatters/jivescope/internal/audio"
	"github.com/linuxmatters/jivescope/internal/config"
	"github.com/linuxmatters/jivescope/internal/renderer"
	"github.com/linuxmatters/jivescope/internal/ui"
	"golang.org/x/image/font"
)

type snapshotOptions struct {
	Output     string
	At         time.Duration
	Background string // optional PNG
	Font       string // optional TTF, Go Regular otherwise
}

type snapshotResult struct {
	Image   *image.RGBA
	Frames  int  // frames in the analysed window
	Partial bool // the window was not full
}

// renderSnapshot analyses the window ending at opts.At and writes it as a
// PNG. A manual clock jumping from zero to At drives the same pipeline the
// live view uses, so the skip logic discards everything before the window.
func renderSnapshot(input string, rc *config.RuntimeConfig, opts snapshotOptions) (*snapshotResult, error) {
	dec, err := audio.OpenDecoder(input)
	if err != nil {
		return nil, fmt.Errorf("opening audio stream: %w", err)
	}
	defer dec.Close()

	clock := &audio.ManualClock{}
	stream := audio.NewSampleStream(dec, audio.DefaultChunkSamples)
	pipeline, err := audio.NewPipeline(stream, clock, dec.NumChannels(), dec.SampleRate(), rc.Analysis)
	if err != nil {
		return nil, err
	}

	// Position 0 still analyses the opening window
	at := opts.At
	if minAt := windowDuration(rc.Analysis.WindowSize, dec.SampleRate()); at < minAt {
		at = minAt
	}
	clock.Set(at)
	out := pipeline.Frame()
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", input, err)
	}

	var face font.Face
	if rc.Title != "" {
		parsed, err := renderer.LoadFont(opts.Font)
		if err != nil {
			return nil, fmt.Errorf("loading font: %w", err)
		}
		face = renderer.NewTitleFace(parsed, rc.Title)
		defer face.Close()
	}

	frame := renderer.NewFrame(rc, rc.Analysis.Bins, face)
	if opts.Background != "" {
		bg, err := renderer.LoadBackgroundImage(opts.Background)
		if err != nil {
			return nil, fmt.Errorf("loading background: %w", err)
		}
		frame.SetBackground(bg)
	}

	frame.Draw(ui.Levels(nil, out.Left), ui.Levels(nil, out.Right))

	if err := renderer.SavePNG(frame.GetImage(), opts.Output); err != nil {
		return nil, err
	}

	buffered := pipeline.Extractor.Buffered()
	return &snapshotResult{
		Image:   frame.GetImage(),
		Frames:  buffered,
		Partial: buffered < pipeline.Extractor.Capacity(),
	}, nil
}

func windowDuration(frames, sampleRate int) time.Duration {
	return time.Duration(float64(frames) / float64(sampleRate) * float64(time.Second))
}
