package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Analysis settings
const (
	DefaultWindowSize     = 8192 // Frames per analysis window; FFT size is twice this
	DefaultBins           = 100  // Spectrum bins per channel
	DefaultWindowFunction = "hann"
)

// Playback settings
const (
	DefaultFPS    = 120
	DefaultVolume = 0.5
	VolumeStep    = 0.05
)

// Snapshot settings
const (
	Width        = 1280
	Height       = 720
	BarGap       = 2    // Gap between bars in pixels
	CenterGap    = 4    // Gap between left (up) and right (down) bars
	MaxBarHeight = 0.90 // Maximum bar height as fraction of half the image
	TitleSize    = 28.0 // Title font size in points
	TitleMargin  = 24   // Title offset from the top-left corner
)

// Display settings shared by the terminal view and snapshots
const (
	// Bins are scaled by log2(m/√bins)/log2(LogScaleBase)/LogScaleDivisor
	LogScaleBase    = 20.0
	LogScaleDivisor = 5.0

	// Weight given to the previous frame when smoothing bars (0 disables)
	Smoothing = 0.5
)

// Appearance
const (
	// Bar colors (RGB values for visualization bars)
	BarColorR = 164
	BarColorG = 0
	BarColorB = 0

	// Text colors (RGB values for the snapshot title)
	// Brand yellow #F8B31D
	TextColorR = 248
	TextColorG = 179
	TextColorB = 29
)

// ErrInvalidConfig marks a configuration that cannot drive the analysis pipeline
var ErrInvalidConfig = errors.New("invalid analysis configuration")

// Analysis holds the construction-time sizes of the analysis pipeline
type Analysis struct {
	WindowSize     int
	Bins           int
	WindowFunction string
}

// DefaultAnalysis returns the stock analysis settings
func DefaultAnalysis() Analysis {
	return Analysis{
		WindowSize:     DefaultWindowSize,
		Bins:           DefaultBins,
		WindowFunction: DefaultWindowFunction,
	}
}

// Validate rejects sizes the pipeline cannot be built with
func (a Analysis) Validate() error {
	if a.WindowSize <= 0 {
		return fmt.Errorf("%w: window size must be positive, got %d", ErrInvalidConfig, a.WindowSize)
	}
	if a.Bins <= 0 {
		return fmt.Errorf("%w: bin count must be positive, got %d", ErrInvalidConfig, a.Bins)
	}
	if a.Bins > a.WindowSize {
		return fmt.Errorf("%w: %d bins exceeds window size %d", ErrInvalidConfig, a.Bins, a.WindowSize)
	}
	return nil
}

// RuntimeConfig holds user overrides gathered from flags and the config file.
// Nil colour components fall back to the defaults above.
type RuntimeConfig struct {
	Analysis Analysis
	FPS      int
	Volume   float64
	Mute     bool
	Title    string

	BarColorR *uint8
	BarColorG *uint8
	BarColorB *uint8

	TextColorR *uint8
	TextColorG *uint8
	TextColorB *uint8
}

// Validate checks every runtime setting
func (c *RuntimeConfig) Validate() error {
	if err := c.Analysis.Validate(); err != nil {
		return err
	}
	if c.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalidConfig, c.FPS)
	}
	if c.Volume < 0 || c.Volume > 1 {
		return fmt.Errorf("%w: volume must be between 0.0 and 1.0, got %g", ErrInvalidConfig, c.Volume)
	}
	return nil
}

// SetBarColor sets the bar colour from a hex string
func (c *RuntimeConfig) SetBarColor(hex string) error {
	r, g, b, err := ParseHexColor(hex)
	if err != nil {
		return err
	}
	c.BarColorR, c.BarColorG, c.BarColorB = &r, &g, &b
	return nil
}

// SetTextColor sets the title colour from a hex string
func (c *RuntimeConfig) SetTextColor(hex string) error {
	r, g, b, err := ParseHexColor(hex)
	if err != nil {
		return err
	}
	c.TextColorR, c.TextColorG, c.TextColorB = &r, &g, &b
	return nil
}

// GetBarColor returns the bar colour, or the default unless all three
// components are set
func (c *RuntimeConfig) GetBarColor() (r, g, b uint8) {
	if c.BarColorR != nil && c.BarColorG != nil && c.BarColorB != nil {
		return *c.BarColorR, *c.BarColorG, *c.BarColorB
	}
	return BarColorR, BarColorG, BarColorB
}

// GetTextColor returns the title colour, or the default unless all three
// components are set
func (c *RuntimeConfig) GetTextColor() (r, g, b uint8) {
	if c.TextColorR != nil && c.TextColorG != nil && c.TextColorB != nil {
		return *c.TextColorR, *c.TextColorG, *c.TextColorB
	}
	return TextColorR, TextColorG, TextColorB
}

// ParseHexColor parses RRGGBB or #RRGGBB
func ParseHexColor(s string) (r, g, b uint8, err error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid hex colour %q: want 6 hex digits", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}

	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}
