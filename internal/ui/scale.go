package ui

import (
	"math"

	"github.com/linuxmatters/jivescope/internal/config"
)

var logScaleBase = math.Log2(config.LogScaleBase)

// LogLevel maps a bin magnitude to a display level in 0.0-1.0 as
// log2(m/√bins)/log2(LogScaleBase)/LogScaleDivisor. Zero and negative
// magnitudes map to 0.
func LogLevel(m float64, bins int) float64 {
	if m <= 0 || bins <= 0 {
		return 0
	}
	v := math.Log2(m/math.Sqrt(float64(bins))) / logScaleBase / config.LogScaleDivisor
	return max(0, min(1, v))
}

// Levels converts a channel of bin magnitudes to display levels in dst,
// growing it if needed
func Levels(dst, mags []float64) []float64 {
	if cap(dst) < len(mags) {
		dst = make([]float64, len(mags))
	}
	dst = dst[:len(mags)]
	for i, m := range mags {
		dst[i] = LogLevel(m, len(mags))
	}
	return dst
}

// Smoother blends each frame with the one before it so bars fall away
// instead of flickering
type Smoother struct {
	weight float64
	prev   []float64
}

// NewSmoother keeps weight of the previous frame in each output; 0 disables
// smoothing
func NewSmoother(weight float64) *Smoother {
	return &Smoother{weight: max(0, min(1, weight))}
}

// Apply smooths levels in place
func (s *Smoother) Apply(levels []float64) {
	if len(s.prev) != len(levels) {
		s.prev = append(s.prev[:0], levels...)
		return
	}
	for i, v := range levels {
		levels[i] = s.weight*s.prev[i] + (1-s.weight)*v
		s.prev[i] = levels[i]
	}
}
