package renderer

import (
	"image"

	"github.com/linuxmatters/jivescope/internal/config"
	"golang.org/x/image/font"
)

// Frame renders one snapshot of the spectrum: left channel bars grow upward
// from the centre line and right channel bars grow downward
type Frame struct {
	img      *image.RGBA
	bgImage  *image.RGBA
	fontFace font.Face
	title    string
	textRGB  [3]uint8

	bins     int
	barWidth int
	barGap   int
	startX   int
	centerY  int

	// Pre-computed values
	maxBarHeight  int
	alphaTable    []uint8    // Pre-computed alpha values for gradient
	barColorTable [][3]uint8 // Pre-computed bar colors at different alpha levels
}

// NewFrame creates a renderer for bins bars per channel using the colours in
// rc. fontFace may be nil to skip the title.
func NewFrame(rc *config.RuntimeConfig, bins int, fontFace font.Face) *Frame {
	barWidth, barGap := barLayout(bins)
	totalWidth := bins*barWidth + (bins-1)*barGap
	startX := max(0, (config.Width-totalWidth)/2)
	centerY := config.Height / 2

	// Bars stop short of the edge so the title has room
	maxBarHeight := max(1, int(float64(centerY-config.CenterGap/2)*config.MaxBarHeight))

	// Pre-compute alpha gradient table (0.5 to 1.0 range)
	alphaTable := make([]uint8, maxBarHeight)
	for i := 0; i < maxBarHeight; i++ {
		distanceFromCenter := float64(i) / float64(maxBarHeight)
		alphaFactor := 1.0 - (distanceFromCenter * 0.5)
		alphaTable[i] = uint8(alphaFactor * 255)
	}

	// Pre-compute bar colors at different alpha levels (0-255)
	r, g, b := rc.GetBarColor()
	barColorTable := make([][3]uint8, 256)
	for alpha := 0; alpha < 256; alpha++ {
		factor := float64(alpha) / 255.0
		barColorTable[alpha][0] = uint8(float64(r) * factor)
		barColorTable[alpha][1] = uint8(float64(g) * factor)
		barColorTable[alpha][2] = uint8(float64(b) * factor)
	}

	tr, tg, tb := rc.GetTextColor()

	return &Frame{
		img:           image.NewRGBA(image.Rect(0, 0, config.Width, config.Height)),
		fontFace:      fontFace,
		title:         rc.Title,
		textRGB:       [3]uint8{tr, tg, tb},
		bins:          bins,
		barWidth:      barWidth,
		barGap:        barGap,
		startX:        startX,
		centerY:       centerY,
		maxBarHeight:  maxBarHeight,
		alphaTable:    alphaTable,
		barColorTable: barColorTable,
	}
}

// barLayout fits bins bars across the image, dropping the gap when the bars
// would otherwise be narrower than a pixel
func barLayout(bins int) (width, gap int) {
	if bins <= 0 {
		return 1, 0
	}
	gap = config.BarGap
	width = (config.Width - (bins-1)*gap) / bins
	if width < 1 {
		gap = 0
		width = max(1, config.Width/bins)
	}
	return width, gap
}

// SetBackground draws bars over bg instead of black. bg must be
// config.Width x config.Height; see LoadBackgroundImage.
func (f *Frame) SetBackground(bg *image.RGBA) {
	f.bgImage = bg
}

// Draw renders left and right levels in the range 0.0-1.0. Missing levels
// are drawn as empty bars.
func (f *Frame) Draw(left, right []float64) {
	if f.bgImage != nil {
		copy(f.img.Pix, f.bgImage.Pix)
	} else {
		// Fast clear to black, 8 pixels at a time
		blackPattern := [32]byte{
			0, 0, 0, 255, 0, 0, 0, 255,
			0, 0, 0, 255, 0, 0, 0, 255,
			0, 0, 0, 255, 0, 0, 0, 255,
			0, 0, 0, 255, 0, 0, 0, 255,
		}
		for i := 0; i < len(f.img.Pix); i += 32 {
			copy(f.img.Pix[i:], blackPattern[:])
		}
	}

	pixelPattern := make([]byte, f.barWidth*4)
	for i := 0; i < f.bins; i++ {
		x := f.startX + i*(f.barWidth+f.barGap)
		if x+f.barWidth > config.Width {
			break
		}

		if i < len(left) {
			if h := f.barHeight(left[i]); h > 0 {
				f.renderBar(x, f.centerY-config.CenterGap/2, h, -1, pixelPattern)
			}
		}
		if i < len(right) {
			if h := f.barHeight(right[i]); h > 0 {
				f.renderBar(x, f.centerY+config.CenterGap/2, h, 1, pixelPattern)
			}
		}
	}

	if f.fontFace != nil && f.title != "" {
		DrawTitle(f.img, f.fontFace, f.title, f.textRGB)
	}
}

func (f *Frame) barHeight(level float64) int {
	if level <= 0 {
		return 0
	}
	return min(int(level*float64(f.maxBarHeight)), f.maxBarHeight)
}

// renderBar draws a bar of height pixels starting at base and growing in dir
// (-1 up, +1 down). The fade runs from bright at the centre to dim at the tip.
func (f *Frame) renderBar(x, base, height, dir int, pixelPattern []byte) {
	for d := 0; d < height; d++ {
		// The upward bar occupies base-1 down to base-height
		y := base + d
		if dir < 0 {
			y = base - 1 - d
		}
		if y < 0 || y >= config.Height {
			continue
		}

		alphaIndex := min((d*f.maxBarHeight)/height, f.maxBarHeight-1)
		alpha := f.alphaTable[alphaIndex]

		if f.bgImage != nil {
			f.blendScanline(x, y, alpha)
			continue
		}
		colors := &f.barColorTable[alpha]

		// Fill pixel pattern once for this scanline
		for px := 0; px < f.barWidth; px++ {
			offset := px * 4
			pixelPattern[offset] = colors[0]
			pixelPattern[offset+1] = colors[1]
			pixelPattern[offset+2] = colors[2]
			pixelPattern[offset+3] = 255
		}

		offset := y*f.img.Stride + x*4
		copy(f.img.Pix[offset:offset+f.barWidth*4], pixelPattern)
	}
}

// blendScanline alpha blends one bar-wide scanline over the background
func (f *Frame) blendScanline(x, y int, alpha uint8) {
	full := &f.barColorTable[255]
	alphaF := float64(alpha) / 255.0
	invAlphaF := 1.0 - alphaF

	offset := y*f.img.Stride + x*4
	for px := 0; px < f.barWidth; px++ {
		pixOffset := offset + px*4
		f.img.Pix[pixOffset] = uint8(float64(full[0])*alphaF + float64(f.img.Pix[pixOffset])*invAlphaF)
		f.img.Pix[pixOffset+1] = uint8(float64(full[1])*alphaF + float64(f.img.Pix[pixOffset+1])*invAlphaF)
		f.img.Pix[pixOffset+2] = uint8(float64(full[2])*alphaF + float64(f.img.Pix[pixOffset+2])*invAlphaF)
	}
}

// GetImage returns the current frame image
func (f *Frame) GetImage() *image.RGBA {
	return f.img
}
