package transform

import (
	qrio "github.com/ericlevine/qrio"
	"github.com/ericlevine/qrio/bitutil"
)

// SampleGrid reads a dimension x dimension module grid out of a binary
// image, sampling each module's center through the given transform.
func SampleGrid(image *bitutil.BitMatrix, dimension int, p *Perspective) (*bitutil.BitMatrix, error) {
	if dimension <= 0 {
		return nil, qrio.ErrNotFound
	}
	bits := bitutil.NewBitMatrix(dimension)
	points := make([]float64, 2*dimension)
	for y := 0; y < dimension; y++ {
		rowY := float64(y) + 0.5
		for x := 0; x < len(points); x += 2 {
			points[x] = float64(x/2) + 0.5
			points[x+1] = rowY
		}
		p.Apply(points)
		if err := nudgeIntoBounds(image, points); err != nil {
			return nil, err
		}
		for x := 0; x < len(points); x += 2 {
			ix := int(points[x])
			iy := int(points[x+1])
			if ix < 0 || ix >= image.Width() || iy < 0 || iy >= image.Height() {
				return nil, qrio.ErrNotFound
			}
			if image.Get(ix, iy) {
				bits.Set(x/2, y)
			}
		}
	}
	return bits, nil
}

// nudgeIntoBounds pulls points sitting one pixel outside the image back to
// the border, and fails when any point is further out. Only runs of
// out-of-bounds points at either end of the row are considered.
func nudgeIntoBounds(image *bitutil.BitMatrix, points []float64) error {
	width := image.Width()
	height := image.Height()

	nudge := func(offset int) (bool, error) {
		x := int(points[offset])
		y := int(points[offset+1])
		if x < -1 || x > width || y < -1 || y > height {
			return false, qrio.ErrNotFound
		}
		nudged := false
		switch x {
		case -1:
			points[offset] = 0
			nudged = true
		case width:
			points[offset] = float64(width - 1)
			nudged = true
		}
		switch y {
		case -1:
			points[offset+1] = 0
			nudged = true
		case height:
			points[offset+1] = float64(height - 1)
			nudged = true
		}
		return nudged, nil
	}

	for offset := 0; offset+1 < len(points); offset += 2 {
		nudged, err := nudge(offset)
		if err != nil {
			return err
		}
		if !nudged {
			break
		}
	}
	for offset := len(points) - 2; offset >= 0; offset -= 2 {
		nudged, err := nudge(offset)
		if err != nil {
			return err
		}
		if !nudged {
			break
		}
	}
	return nil
}
