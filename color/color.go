// Package color parses theme colours and evaluates WCAG contrast.
package color

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an 8-bit per channel sRGB colour.
type Color struct {
	R, G, B uint8
}

// Black and White are the extremes of the contrast scale.
var (
	Black = Color{0, 0, 0}
	White = Color{255, 255, 255}
)

// ParseHex converts "#RGB", "#RRGGBB" or the same without leading '#' to a
// Color. Short form is expanded by doubling every digit.
func ParseHex(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return Color{}, fmt.Errorf("unsupported hex color %q: want 3 or 6 digits", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("bad hex color %q: %w", s, err)
	}
	return Color{
		R: uint8(v >> 16 & 0xFF),
		G: uint8(v >> 8 & 0xFF),
		B: uint8(v & 0xFF),
	}, nil
}

// MustParseHex is like ParseHex but panics on malformed input.
func MustParseHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex returns "#RRGGBB" form of the colour.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return c.Hex()
}
