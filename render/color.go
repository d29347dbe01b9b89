// Package render projects constructed symbols into SVG markup, terminal
// text, and raster images.
package render

import (
	"fmt"
	"image/color"

	"github.com/mazznoer/csscolorparser"
)

// Default module colors.
var (
	Black = color.NRGBA{A: 0xFF}
	White = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// ParseColor parses a CSS color specification: named colors, hex with
// optional alpha, rgb()/rgba(), hsl(), hwb(), and the modern
// space-separated syntax.
func ParseColor(spec string) (color.NRGBA, error) {
	c, err := csscolorparser.Parse(spec)
	if err != nil {
		return color.NRGBA{}, err
	}
	r, g, b, a := c.RGBA255()
	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}

// Hex formats a color as CSS hex notation. Opaque colors keep the familiar
// six digits; translucent ones carry the alpha byte.
func Hex(c color.NRGBA) string {
	if c.A != 0xFF {
		return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
