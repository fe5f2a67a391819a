package style

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Black is the default text color.
var Black = RGB(0, 0, 0)

// RGB creates a true color.
func RGB(r, g, b uint8) tcell.Color {
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// Normalize converts palette and named colors to their RGB form so that
// styles compare equal after a serialization round trip.
// ColorDefault is left untouched.
func Normalize(c tcell.Color) tcell.Color {
	if c == tcell.ColorDefault || c.IsRGB() {
		return c
	}
	r, g, b := c.RGB()
	if r < 0 {
		return tcell.ColorDefault
	}
	return tcell.NewRGBColor(r, g, b)
}

// Components returns the 8-bit RGB components of c.
// ColorDefault reports black.
func Components(c tcell.Color) (r, g, b uint8) {
	cr, cg, cb := Normalize(c).RGB()
	if cr < 0 {
		return 0, 0, 0
	}
	return uint8(cr), uint8(cg), uint8(cb)
}

// ParseColor parses a "#rrggbb" hex color.
func ParseColor(s string) (tcell.Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return tcell.ColorDefault, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGB(r, g, b), nil
}

// ColorHex formats c as "#rrggbb".
func ColorHex(c tcell.Color) string {
	r, g, b := Components(c)
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}.Hex()
}
