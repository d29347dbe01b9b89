package render

import (
	"strings"

	qrio "github.com/ericlevine/qrio"
)

// Terminal renders the symbol as Unicode half-block glyphs, packing two
// module rows into each text line. Colors are inverted — dark modules become
// spaces — so the symbol scans correctly on the usual light-text-on-dark
// terminal scheme. An odd final module row is padded with a light half.
func Terminal(sym *qrio.Symbol, margin int) string {
	width := sym.Width()
	side := width + 2*margin

	dark := func(x, y int) bool {
		x -= margin
		y -= margin
		if x < 0 || x >= width || y < 0 || y >= width {
			return false
		}
		return sym.Dark(x, y)
	}

	lines := make([]string, 0, (side+1)/2)
	var b strings.Builder
	for y := 0; y < side; y += 2 {
		b.Reset()
		for x := 0; x < side; x++ {
			top := dark(x, y)
			bottom := y+1 < side && dark(x, y+1)
			switch {
			case top && bottom:
				b.WriteRune(' ')
			case top:
				b.WriteRune('▄')
			case bottom:
				b.WriteRune('▀')
			default:
				b.WriteRune('█')
			}
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}
