package compose

import (
	"image"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"

	"github.com/gogpu/artboard"
)

// applyFilter returns img with f applied. The input is not modified.
// Strength-based effects with an amount below 1 are blended with the
// unfiltered image.
func applyFilter(img *image.RGBA, f artboard.Filter) *image.RGBA {
	if f.IsNone() {
		return img
	}
	switch f.Kind {
	case artboard.FilterGrayscale:
		return mix(img, effect.Grayscale(img), f.Amount)
	case artboard.FilterSepia:
		return mix(img, effect.Sepia(img), f.Amount)
	case artboard.FilterInvert:
		return mix(img, effect.Invert(img), f.Amount)
	case artboard.FilterVintage:
		v := adjust.Contrast(effect.Sepia(img), 0.1)
		v = adjust.Brightness(v, -0.05)
		return mix(img, v, f.Amount)
	case artboard.FilterBrightness:
		return adjust.Brightness(img, f.Amount-1)
	case artboard.FilterContrast:
		return adjust.Contrast(img, f.Amount-1)
	case artboard.FilterSaturate:
		return adjust.Saturation(img, f.Amount-1)
	case artboard.FilterHueRotate:
		return adjust.Hue(img, int(f.Amount))
	case artboard.FilterBlur:
		return blur.Gaussian(img, f.Amount)
	}
	return img
}

// mix blends b over a at opacity t in [0,1].
func mix(a, b *image.RGBA, t float64) *image.RGBA {
	if t >= 1 {
		return b
	}
	if t <= 0 {
		return a
	}
	return blend.Opacity(a, b, t)
}
