package color

import (
	"fmt"
	"math"
)

// WCAG 2.x thresholds.
const (
	MinContrastAA      = 4.5
	MinContrastAALarge = 3.0
	MinContrastAAA     = 7.0
)

// linearize converts an sRGB channel to linear light.
func linearize(c uint8) float64 {
	s := float64(c) / 255
	if s <= 0.03928 {
		return s / 12.92
	}
	return math.Pow((s+0.055)/1.055, 2.4)
}

// Luminance returns WCAG relative luminance of c in [0, 1].
func Luminance(c Color) float64 {
	return 0.2126*linearize(c.R) + 0.7152*linearize(c.G) + 0.0722*linearize(c.B)
}

// ContrastRatio returns WCAG contrast ratio between a and b. The result is
// symmetric and lies in [1, 21].
func ContrastRatio(a, b Color) float64 {
	l1, l2 := Luminance(a), Luminance(b)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

// ContrastHex is ContrastRatio for colours given as hex strings.
func ContrastHex(a, b string) (float64, error) {
	ca, err := ParseHex(a)
	if err != nil {
		return 0, err
	}
	cb, err := ParseHex(b)
	if err != nil {
		return 0, err
	}
	return ContrastRatio(ca, cb), nil
}

// Grade is the WCAG conformance level reached by a contrast ratio.
type Grade int

const (
	GradeFail Grade = iota
	GradeAALarge
	GradeAA
	GradeAAA
)

func (g Grade) String() string {
	switch g {
	case GradeAAA:
		return "AAA"
	case GradeAA:
		return "AA"
	case GradeAALarge:
		return "AA Large"
	case GradeFail:
		return "Fail"
	default:
		return fmt.Sprintf("Grade(%d)", int(g))
	}
}

// GradeOf classifies ratio against normal text thresholds.
func GradeOf(ratio float64) Grade {
	switch {
	case ratio >= MinContrastAAA:
		return GradeAAA
	case ratio >= MinContrastAA:
		return GradeAA
	case ratio >= MinContrastAALarge:
		return GradeAALarge
	default:
		return GradeFail
	}
}
