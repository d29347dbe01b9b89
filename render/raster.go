package render

import (
	"image"
	"image/color"
	"image/draw"

	qrio "github.com/ericlevine/qrio"
)

// Rendering defaults, in modules and pixels per module.
const (
	DefaultMargin = 4
	DefaultScale  = 8
)

// Raster draws the symbol into an NRGBA image at scale pixels per module
// with a quiet zone of margin modules on every side.
func Raster(sym *qrio.Symbol, margin, scale int, dark, light color.NRGBA) *image.NRGBA {
	width := sym.Width()
	side := (width + 2*margin) * scale

	img := image.NewNRGBA(image.Rect(0, 0, side, side))
	draw.Draw(img, img.Bounds(), image.NewUniform(light), image.Point{}, draw.Src)

	darkFill := image.NewUniform(dark)
	for y := 0; y < width; y++ {
		for x := 0; x < width; x++ {
			if !sym.Dark(x, y) {
				continue
			}
			r := image.Rect(
				(x+margin)*scale, (y+margin)*scale,
				(x+margin+1)*scale, (y+margin+1)*scale,
			)
			draw.Draw(img, r, darkFill, image.Point{}, draw.Src)
		}
	}
	return img
}
