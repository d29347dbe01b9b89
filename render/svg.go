package render

import (
	"fmt"
	"image/color"
	"strings"

	qrio "github.com/ericlevine/qrio"
)

// SVG renders the symbol as a standalone SVG document with one canvas unit
// per module. The light color paints the whole canvas including the quiet
// zone; dark modules are collected into a single path. Output is
// byte-identical for identical input.
func SVG(sym *qrio.Symbol, margin int, dark, light color.NRGBA) string {
	width := sym.Width()
	side := width + 2*margin

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" standalone="yes"?>`)
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" version="1.1" width="%d" height="%d" viewBox="0 0 %d %d" shape-rendering="crispEdges">`,
		side, side, side, side)
	fmt.Fprintf(&b, `<path fill="%s" d="M0 0h%dv%dH0z"/>`, Hex(light), side, side)

	fmt.Fprintf(&b, `<path fill="%s" d="`, Hex(dark))
	for y := 0; y < width; y++ {
		for x := 0; x < width; x++ {
			if sym.Dark(x, y) {
				fmt.Fprintf(&b, "M%d %dh1v1h-1z", x+margin, y+margin)
			}
		}
	}
	b.WriteString(`"/></svg>`)
	return b.String()
}
