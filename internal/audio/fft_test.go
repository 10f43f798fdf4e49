package audio

import (
	"fmt"
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/dsp/fourier"
)

// TestHannWindow_Taper verifies the window tapers to silence at the edges and
// peaks in the middle.
func TestHannWindow_Taper(t *testing.T) {
	w := NewHannWindow(8)
	require.Equal(t, 8, w.Len())

	assert.InDelta(t, 0.0, w.Scale(0), 1e-12)
	assert.InDelta(t, 1.0, w.Scale(4), 1e-12, "peak at the midpoint")

	peak := 0
	for i := 1; i < w.Len(); i++ {
		if w.Scale(i) > w.Scale(peak) {
			peak = i
		}
	}
	assert.Equal(t, 4, peak)

	// Symmetric about the midpoint: scale[i] == scale[n-i]
	for i := 1; i < 4; i++ {
		assert.InDelta(t, w.Scale(i), w.Scale(8-i), 1e-12, "index %d", i)
	}

	// Large tables approach zero at both ends
	big := NewHannWindow(1024)
	assert.Less(t, big.Scale(0), 1e-9)
	assert.Less(t, big.Scale(1023), 1e-4)
}

func TestWindow_Apply(t *testing.T) {
	w := NewHannWindow(4)
	dst := []float64{9, 9, 9, 9}

	w.Apply(dst, []int16{100, 100})

	assert.InDelta(t, 0.0, dst[0], 1e-9)
	assert.InDelta(t, 50.0, dst[1], 1e-9) // sin²(π/4) = 0.5
	assert.Equal(t, []float64{0, 0}, dst[2:], "missing samples are zeroed")
}

func TestNewWindow(t *testing.T) {
	for _, name := range []string{"", "hann", "HANN", "blackman-harris"} {
		w, err := NewWindow(name, 64)
		require.NoError(t, err, name)
		assert.Equal(t, 64, w.Len())
	}

	_, err := NewWindow("kaiser", 64)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	// Blackman-Harris also tapers to near zero at the edges
	bh := NewBlackmanHarrisWindow(64)
	assert.Less(t, bh.Scale(0), 1e-3)
	assert.Greater(t, bh.Scale(32), 0.9)
}

// TestProcessor_Silence verifies an all-zero window produces all-zero bins.
func TestProcessor_Silence(t *testing.T) {
	for _, tc := range []struct{ window, bins int }{{1024, 32}, {1024, 1024}, {960, 60}} {
		t.Run(fmt.Sprintf("%dx%d", tc.window, tc.bins), func(t *testing.T) {
			p, err := NewProcessor(tc.window, tc.bins)
			require.NoError(t, err)

			out := p.ProcessSamples()
			require.Len(t, out.Left, tc.bins)
			require.Len(t, out.Right, tc.bins)
			for i := range out.Left {
				assert.InDelta(t, 0.0, out.Left[i], 1e-9)
				assert.InDelta(t, 0.0, out.Right[i], 1e-9)
			}
		})
	}
}

// TestProcessor_BinAlignedSine checks that a sinusoid centred on one output
// bin produces a single dominant peak there.
//
// With a 1024-sample window the transform is 2048 points, so FFT index k is
// k×rate/2048 Hz. 32 bins of 32 indices each put index 16×32+16 = 528 in the
// middle of bin 16.
func TestProcessor_BinAlignedSine(t *testing.T) {
	const (
		window    = 1024
		bins      = 32
		fftIndex  = 16*32 + 16
		amplitude = 10000.0
	)

	p, err := NewProcessor(window, bins)
	require.NoError(t, err)

	samples := sine(window, fftIndex, 2*window, amplitude)
	out := p.ProcessChannel(samples, nil)
	require.Len(t, out, bins)

	peak := argmax(out)
	t.Logf("FFT index %d -> peak bin %d, magnitude %.1f", fftIndex, peak, out[peak])
	assert.Equal(t, 16, peak)

	for i, v := range out {
		if i == peak {
			continue
		}
		assert.Less(t, v, out[peak]*0.01, "bin %d leaks %.3f of the peak", i, v/out[peak])
	}
}

// TestProcessor_ChannelsAreIndependent feeds a tone on the left and silence on
// the right.
func TestProcessor_ChannelsAreIndependent(t *testing.T) {
	p, err := NewProcessor(512, 16)
	require.NoError(t, err)

	copy(p.Buffers.Left, sine(512, 100, 1024, 8000))
	out := p.ProcessSamples()

	assert.Greater(t, out.Left[argmax(out.Left)], 1000.0)
	for _, v := range out.Right {
		assert.InDelta(t, 0.0, v, 1e-9)
	}
}

// TestProcessor_UnevenBins pins the binning policy when the window is not a
// multiple of the bin count: exactly bins values, each the mean of
// window/bins magnitudes, with the highest window%bins magnitudes ignored.
func TestProcessor_UnevenBins(t *testing.T) {
	var warnings []string
	old := Warnf
	Warnf = func(format string, args ...any) { warnings = append(warnings, fmt.Sprintf(format, args...)) }
	defer func() { Warnf = old }()

	p, err := NewProcessor(1000, 7)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	t.Logf("warning: %s", warnings[0])

	out := p.ProcessChannel(sine(1000, 50, 2000, 5000), nil)
	require.Len(t, out, 7)

	chunk := 1000 / 7
	for b := 0; b < 7; b++ {
		want := Mean(p.mags[b*chunk : (b+1)*chunk])
		assert.InDelta(t, want, out[b], 1e-9, "bin %d", b)
	}
}

func TestNewProcessor_RejectsInvalidSizes(t *testing.T) {
	testCases := []struct {
		name         string
		window, bins int
	}{
		{"zero window", 0, 1},
		{"negative window", -1024, 32},
		{"zero bins", 1024, 0},
		{"more bins than samples", 16, 32},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewProcessor(tc.window, tc.bins)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	_, err := NewProcessorWithWindow(64, 8, "triangle")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

// TestTransform_EnginesAgree compares gofft against gonum on the same input.
func TestTransform_EnginesAgree(t *testing.T) {
	const n = 1024

	pow2, err := NewTransform(n)
	require.NoError(t, err)
	require.IsType(t, &gofftTransform{}, pow2)

	reference := &gonumTransform{fft: fourier.NewCmplxFFT(n)}

	a := make([]complex128, n)
	b := make([]complex128, n)
	for i := range a {
		v := complex(math.Sin(float64(i)*0.37)+0.5*math.Cos(float64(i)*1.9), 0)
		a[i], b[i] = v, v
	}

	pow2.Forward(a)
	reference.Forward(b)

	for i := range a {
		assert.InDelta(t, cmplx.Abs(b[i]), cmplx.Abs(a[i]), 1e-6, "index %d", i)
	}
}

func TestNewTransform_PicksEngine(t *testing.T) {
	tr, err := NewTransform(2000)
	require.NoError(t, err)
	assert.IsType(t, &gonumTransform{}, tr)
	assert.Equal(t, 2000, tr.Len())

	tr, err = NewTransform(4096)
	require.NoError(t, err)
	assert.IsType(t, &gofftTransform{}, tr)
	assert.Equal(t, 4096, tr.Len())

	_, err = NewTransform(0)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestProcessor_BinFrequency(t *testing.T) {
	p, err := NewProcessor(1024, 32)
	require.NoError(t, err)

	// 32 FFT indices per bin at 44100/2048 Hz each
	lo, hi := p.BinFrequency(0, 44100)
	assert.InDelta(t, 0.0, lo, 1e-9)
	assert.InDelta(t, 32*44100.0/2048, hi, 1e-9)

	lo, hi = p.BinFrequency(31, 44100)
	assert.InDelta(t, 31*32*44100.0/2048, lo, 1e-9)
	assert.InDelta(t, 44100.0/2, hi, 1e-9, "top bin ends at Nyquist")
}

// TestProcessor_ZeroAllocHotPath ensures the per-frame analysis reuses its
// scratch buffers.
func TestProcessor_ZeroAllocHotPath(t *testing.T) {
	p, err := NewProcessor(1024, 32)
	require.NoError(t, err)

	samples := sine(1024, 40, 2048, 3000)
	dst := make([]float64, 32)

	allocs := testing.AllocsPerRun(50, func() {
		dst = p.ProcessChannel(samples, dst)
	})
	assert.Zero(t, allocs)
}

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 0.0, Mean([]float64{}))
	assert.InDelta(t, 2.5, Mean([]float64{1, 2, 3, 4}), 1e-12)
	assert.InDelta(t, -1.0, Mean([]float64{-1}), 1e-12)
}

func BenchmarkProcessor_8192x100(b *testing.B) {
	p, err := NewProcessor(8192, 100)
	if err != nil {
		b.Fatal(err)
	}
	copy(p.Buffers.Left, sine(8192, 300, 16384, 8000))
	copy(p.Buffers.Right, sine(8192, 900, 16384, 8000))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.ProcessSamples()
	}
}
