package detector

import (
	"math"

	qrio "github.com/ericlevine/qrio"
	"github.com/ericlevine/qrio/bitutil"
)

// DetectPure extracts the module grid from an image that contains nothing
// but a single axis-aligned symbol with a quiet zone, such as a rendered
// symbol read straight back from a file. It avoids the sampling error of the
// general path by measuring the module size along the diagonal of the
// top-left position pattern.
func DetectPure(image *bitutil.BitMatrix) (*bitutil.BitMatrix, error) {
	topLeft := image.TopLeftOnBit()
	bottomRight := image.BottomRightOnBit()
	if topLeft == nil || bottomRight == nil {
		return nil, qrio.ErrNotFound
	}

	moduleSize, err := pureModuleSize(topLeft, image)
	if err != nil {
		return nil, err
	}

	left, top := topLeft[0], topLeft[1]
	right, bottom := bottomRight[0], bottomRight[1]
	if left >= right || top >= bottom {
		return nil, qrio.ErrNotFound
	}

	if bottom-top != right-left {
		// A quiet zone cropped on the right can make the bounding box
		// non-square. Trust the vertical extent.
		right = left + (bottom - top)
		if right >= image.Width() {
			return nil, qrio.ErrNotFound
		}
	}

	matrixWidth := int(math.Round(float64(right-left+1) / moduleSize))
	matrixHeight := int(math.Round(float64(bottom-top+1) / moduleSize))
	if matrixWidth <= 0 || matrixHeight <= 0 || matrixWidth != matrixHeight {
		return nil, qrio.ErrNotFound
	}

	// Sample at module centers rather than edges.
	nudge := int(moduleSize / 2.0)
	top += nudge
	left += nudge

	overshootRight := left + int(float64(matrixWidth-1)*moduleSize) - right
	if overshootRight > 0 {
		if overshootRight > nudge {
			return nil, qrio.ErrNotFound
		}
		left -= overshootRight
	}
	overshootDown := top + int(float64(matrixHeight-1)*moduleSize) - bottom
	if overshootDown > 0 {
		if overshootDown > nudge {
			return nil, qrio.ErrNotFound
		}
		top -= overshootDown
	}

	bits := bitutil.NewBitMatrix(matrixWidth)
	for y := 0; y < matrixHeight; y++ {
		rowOffset := top + int(float64(y)*moduleSize)
		for x := 0; x < matrixWidth; x++ {
			if image.Get(left+int(float64(x)*moduleSize), rowOffset) {
				bits.Set(x, y)
			}
		}
	}
	return bits, nil
}

// pureModuleSize walks the diagonal from the first black pixel through the
// top-left position pattern. Five color transitions later it has crossed
// seven modules.
func pureModuleSize(topLeft []int, image *bitutil.BitMatrix) (float64, error) {
	width := image.Width()
	height := image.Height()
	x, y := topLeft[0], topLeft[1]
	inBlack := true
	transitions := 0
	for x < width && y < height {
		if inBlack != image.Get(x, y) {
			transitions++
			if transitions == 5 {
				break
			}
			inBlack = !inBlack
		}
		x++
		y++
	}
	if x == width || y == height {
		return 0, qrio.ErrNotFound
	}
	return float64(x-topLeft[0]) / 7.0, nil
}
