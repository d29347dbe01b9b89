package bitutil

import (
	"math/bits"
	"strings"
)

// BitMatrix is a 2D matrix of bits packed into uint64 words per row. x is
// the column and y the row, with the origin at the top-left.
type BitMatrix struct {
	width   int
	height  int
	rowSize int
	data    []uint64
}

// NewBitMatrix creates a square matrix with the given dimension.
func NewBitMatrix(dimension int) *BitMatrix {
	return NewBitMatrixWithSize(dimension, dimension)
}

// NewBitMatrixWithSize creates a matrix with the given width and height.
func NewBitMatrixWithSize(width, height int) *BitMatrix {
	if width < 1 || height < 1 {
		panic("bitutil: dimensions must be positive")
	}
	rowSize := wordCount(width)
	return &BitMatrix{
		width:   width,
		height:  height,
		rowSize: rowSize,
		data:    make([]uint64, rowSize*height),
	}
}

// Get returns true if the bit at (x, y) is set.
func (bm *BitMatrix) Get(x, y int) bool {
	return bm.data[y*bm.rowSize+x>>6]>>uint(x&0x3F)&1 != 0
}

// Set sets the bit at (x, y).
func (bm *BitMatrix) Set(x, y int) {
	bm.data[y*bm.rowSize+x>>6] |= 1 << uint(x&0x3F)
}

// Unset clears the bit at (x, y).
func (bm *BitMatrix) Unset(x, y int) {
	bm.data[y*bm.rowSize+x>>6] &^= 1 << uint(x&0x3F)
}

// Flip flips the bit at (x, y).
func (bm *BitMatrix) Flip(x, y int) {
	bm.data[y*bm.rowSize+x>>6] ^= 1 << uint(x&0x3F)
}

// SetBool sets or clears the bit at (x, y).
func (bm *BitMatrix) SetBool(x, y int, value bool) {
	if value {
		bm.Set(x, y)
	} else {
		bm.Unset(x, y)
	}
}

// Clear clears all bits.
func (bm *BitMatrix) Clear() {
	for i := range bm.data {
		bm.data[i] = 0
	}
}

// SetRegion sets every bit in the rectangle of the given width and height
// whose top-left corner is (left, top).
func (bm *BitMatrix) SetRegion(left, top, width, height int) {
	if top < 0 || left < 0 {
		panic("bitutil: left and top must be nonnegative")
	}
	if height < 1 || width < 1 {
		panic("bitutil: height and width must be at least 1")
	}
	right := left + width
	bottom := top + height
	if bottom > bm.height || right > bm.width {
		panic("bitutil: region must fit inside the matrix")
	}
	for y := top; y < bottom; y++ {
		offset := y * bm.rowSize
		for x := left; x < right; x++ {
			bm.data[offset+x>>6] |= 1 << uint(x&0x3F)
		}
	}
}

// TopLeftOnBit returns [x, y] of the first set bit scanning rows from the
// top, or nil when no bit is set.
func (bm *BitMatrix) TopLeftOnBit() []int {
	offset := 0
	for offset < len(bm.data) && bm.data[offset] == 0 {
		offset++
	}
	if offset == len(bm.data) {
		return nil
	}
	y := offset / bm.rowSize
	x := (offset%bm.rowSize)<<6 + bits.TrailingZeros64(bm.data[offset])
	return []int{x, y}
}

// BottomRightOnBit returns [x, y] of the last set bit scanning rows from
// the bottom, or nil when no bit is set.
func (bm *BitMatrix) BottomRightOnBit() []int {
	offset := len(bm.data) - 1
	for offset >= 0 && bm.data[offset] == 0 {
		offset--
	}
	if offset < 0 {
		return nil
	}
	y := offset / bm.rowSize
	x := (offset%bm.rowSize)<<6 + 63 - bits.LeadingZeros64(bm.data[offset])
	return []int{x, y}
}

func (bm *BitMatrix) Width() int  { return bm.width }
func (bm *BitMatrix) Height() int { return bm.height }

// Clone returns a deep copy of the matrix.
func (bm *BitMatrix) Clone() *BitMatrix {
	d := make([]uint64, len(bm.data))
	copy(d, bm.data)
	return &BitMatrix{width: bm.width, height: bm.height, rowSize: bm.rowSize, data: d}
}

// Equals reports whether the two matrices have identical dimensions and
// bits.
func (bm *BitMatrix) Equals(other *BitMatrix) bool {
	if bm.width != other.width || bm.height != other.height {
		return false
	}
	for i := range bm.data {
		if bm.data[i] != other.data[i] {
			return false
		}
	}
	return true
}

// String renders the matrix with "X " for set and "  " for unset bits.
func (bm *BitMatrix) String() string {
	var sb strings.Builder
	sb.Grow(bm.height * (2*bm.width + 1))
	for y := 0; y < bm.height; y++ {
		for x := 0; x < bm.width; x++ {
			if bm.Get(x, y) {
				sb.WriteString("X ")
			} else {
				sb.WriteString("  ")
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
