package decoder

import "github.com/ericlevine/qrio/bitutil"

// MaskFunc reports whether the module in row i, column j should be
// inverted by a data mask.
type MaskFunc func(i, j int) bool

// Masks holds the 8 data mask patterns, indexed by mask reference.
var Masks = [8]MaskFunc{
	func(i, j int) bool { return (i+j)&0x01 == 0 },
	func(i, j int) bool { return i&0x01 == 0 },
	func(i, j int) bool { return j%3 == 0 },
	func(i, j int) bool { return (i+j)%3 == 0 },
	func(i, j int) bool { return (i/2+j/3)&0x01 == 0 },
	func(i, j int) bool { return (i*j)%6 == 0 },
	func(i, j int) bool { return (i*j)%6 < 3 },
	func(i, j int) bool { return (i+j+(i*j)%3)&0x01 == 0 },
}

// Unmask inverts every module selected by the given mask pattern. Applying
// it twice restores the original matrix.
func Unmask(m *bitutil.BitMatrix, width, maskIndex int) {
	mask := Masks[maskIndex]
	for i := 0; i < width; i++ {
		for j := 0; j < width; j++ {
			if mask(i, j) {
				m.Flip(j, i)
			}
		}
	}
}
