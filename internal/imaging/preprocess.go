package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// PreprocessOptions controls how a crop is cleaned up before OCR.
type PreprocessOptions struct {
	// Contrast is passed to bild's adjust.Contrast (-1..1). 0 leaves contrast as is.
	Contrast float64

	// Threshold binarizes the image at this gray level (1-255). 0 disables it.
	Threshold uint8

	// DarkBackground is the CIE L* lightness (0..1) under which a cell is
	// considered dark and gets inverted to dark-on-light.
	DarkBackground float64
}

// DefaultPreprocessOptions returns the settings used for schedule cells.
func DefaultPreprocessOptions() PreprocessOptions {
	return PreprocessOptions{
		Contrast:       0.3,
		Threshold:      0,
		DarkBackground: 0.45,
	}
}

// Preprocess converts a crop to grayscale, inverts dark cells (colored
// headers, highlighted shifts) and boosts contrast.
func Preprocess(img image.Image, opts PreprocessOptions) image.Image {
	var out image.Image = effect.Grayscale(img)

	if BackgroundLightness(img) < opts.DarkBackground {
		out = effect.Invert(out)
	}
	if opts.Contrast != 0 {
		out = adjust.Contrast(out, opts.Contrast)
	}
	if opts.Threshold > 0 {
		out = segment.Threshold(out, opts.Threshold)
	}
	return out
}

// BackgroundLightness returns the mean CIE L* lightness of img in [0, 1].
//
// Large images are sampled on a grid of at most 64x64 points.
func BackgroundLightness(img image.Image) float64 {
	b := img.Bounds()
	if b.Empty() {
		return 1
	}

	stepX := b.Dx()/64 + 1
	stepY := b.Dy()/64 + 1

	var sum float64
	var n int
	for y := b.Min.Y; y < b.Max.Y; y += stepY {
		for x := b.Min.X; x < b.Max.X; x += stepX {
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				// Fully transparent pixel: count it as paper.
				sum++
				n++
				continue
			}
			l, _, _ := c.Lab()
			sum += l
			n++
		}
	}
	if n == 0 {
		return 1
	}
	return clampUnit(sum / float64(n))
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
