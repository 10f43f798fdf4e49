package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/linuxmatters/jivescope/internal/config"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// minTitleSize is the smallest point size tried when fitting a title
const minTitleSize = 10.0

// LoadBackgroundImage loads a PNG and scales it to the snapshot resolution
func LoadBackgroundImage(filename string) (*image.RGBA, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode background %s: %w", filename, err)
	}

	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, config.Width, config.Height))
	if bounds.Dx() == config.Width && bounds.Dy() == config.Height {
		draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
		return dst, nil
	}

	draw.BiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst, nil
}

// LoadFont parses a TrueType font from fontPath, or the bundled Go Regular
// font when fontPath is empty
func LoadFont(fontPath string) (*truetype.Font, error) {
	fontBytes := goregular.TTF
	if fontPath != "" {
		b, err := os.ReadFile(fontPath)
		if err != nil {
			return nil, err
		}
		fontBytes = b
	}

	f, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return f, nil
}

// NewTitleFace returns a face for title at config.TitleSize, shrunk until the
// title fits between the side margins
func NewTitleFace(parsedFont *truetype.Font, title string) font.Face {
	maxWidth := config.Width - 2*config.TitleMargin

	for size := config.TitleSize; size > minTitleSize; size -= 2.0 {
		face := newFace(parsedFont, size)
		if width, _ := measureText(face, title); width <= maxWidth {
			return face
		}
		face.Close()
	}

	return newFace(parsedFont, minTitleSize)
}

func newFace(parsedFont *truetype.Font, size float64) font.Face {
	return truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// measureText returns the width and actual bounds of rendered text.
// bounds.Min.Y is negative for ascent, Max.Y positive for descent.
func measureText(face font.Face, text string) (int, fixed.Rectangle26_6) {
	d := &font.Drawer{Face: face}
	bounds, _ := d.BoundString(text)
	width := (bounds.Max.X - bounds.Min.X).Ceil()
	return width, bounds
}

// DrawTitle draws text in the top left corner, TitleMargin from both edges
func DrawTitle(img *image.RGBA, face font.Face, text string, rgb [3]uint8) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}),
		Face: face,
	}

	_, bounds := measureText(face, text)

	// Baseline sits so the visual top of the glyphs meets the margin
	x := config.TitleMargin
	y := config.TitleMargin - bounds.Min.Y.Floor()

	d.Dot = freetype.Pt(x, y)
	d.DrawString(text)
}

// SavePNG writes img to path
func SavePNG(img image.Image, path string) error {
	outFile, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := png.Encode(outFile, img); err != nil {
		outFile.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return outFile.Close()
}
