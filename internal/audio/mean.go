package audio

import "github.com/tphakala/simd/f64"

// Mean returns the arithmetic mean of xs, or 0 for an empty slice
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return f64.Sum(xs) / float64(len(xs))
}
