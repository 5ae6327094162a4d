package color

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

const suggestStep = 0.01

func toColorful(c Color) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func fromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return Color{R: r, G: g, B: b}
}

// Suggest proposes a replacement for fg which reaches minimum contrast against
// bg while keeping hue and chroma of fg. Lightness is moved away from bg first,
// then towards the opposite end. Returns false when no lightness works.
func Suggest(fg, bg Color, minimum float64) (Color, bool) {
	if ContrastRatio(fg, bg) >= minimum {
		return fg, true
	}

	h, c, l := toColorful(fg).Hcl()

	first, second := suggestStep, -suggestStep
	if Luminance(fg) < Luminance(bg) {
		first, second = second, first
	}

	for _, step := range []float64{first, second} {
		for ll := l + step; ll >= 0 && ll <= 1; ll += step {
			candidate := fromColorful(colorful.Hcl(h, c, ll))
			if ContrastRatio(candidate, bg) >= minimum {
				return candidate, true
			}
		}
	}

	// Chroma can keep extremes out of reach, plain black or white always is
	// the last resort.
	for _, candidate := range []Color{Black, White} {
		if ContrastRatio(candidate, bg) >= minimum {
			return candidate, true
		}
	}
	return fg, false
}
