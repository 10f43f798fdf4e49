package audio

import (
	"fmt"
	"math/bits"

	"github.com/argusdusty/gofft"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Transform is an in-place forward complex FFT of a fixed length
type Transform interface {
	Forward(buf []complex128)
	Len() int
}

// NewTransform returns the fastest available FFT for n points.
// Powers of two use gofft; other sizes fall back to gonum's mixed-radix FFT.
func NewTransform(n int) (Transform, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: FFT size must be positive, got %d", ErrInvalidConfig, n)
	}
	if isPowerOfTwo(n) {
		if err := gofft.Prepare(n); err != nil {
			return nil, fmt.Errorf("failed to prepare FFT of size %d: %w", n, err)
		}
		return &gofftTransform{n: n}, nil
	}
	return &gonumTransform{fft: fourier.NewCmplxFFT(n)}, nil
}

type gofftTransform struct {
	n int
}

func (t *gofftTransform) Forward(buf []complex128) {
	// Length is checked at construction; gofft only fails on bad lengths
	_ = gofft.FFT(buf[:t.n])
}

func (t *gofftTransform) Len() int { return t.n }

type gonumTransform struct {
	fft *fourier.CmplxFFT
}

func (t *gonumTransform) Forward(buf []complex128) {
	n := t.fft.Len()
	t.fft.Coefficients(buf[:n], buf[:n])
}

func (t *gonumTransform) Len() int { return t.fft.Len() }

func isPowerOfTwo(n int) bool {
	return n > 0 && bits.OnesCount(uint(n)) == 1
}
