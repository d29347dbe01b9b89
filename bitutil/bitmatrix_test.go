package bitutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitMatrixSetGet(t *testing.T) {
	bm := NewBitMatrix(33)
	assert.Equal(t, 33, bm.Width())
	assert.Equal(t, 33, bm.Height())
	assert.False(t, bm.Get(10, 20))
	bm.Set(10, 20)
	assert.True(t, bm.Get(10, 20))
	bm.Flip(10, 20)
	assert.False(t, bm.Get(10, 20))
	bm.SetBool(32, 32, true)
	assert.True(t, bm.Get(32, 32))
	bm.Unset(32, 32)
	assert.False(t, bm.Get(32, 32))
}

func TestBitMatrixSetRegion(t *testing.T) {
	bm := NewBitMatrix(70)
	bm.SetRegion(10, 20, 30, 15)
	for y := 0; y < 70; y++ {
		for x := 0; x < 70; x++ {
			in := x >= 10 && x < 40 && y >= 20 && y < 35
			assert.Equal(t, in, bm.Get(x, y), "at (%d,%d)", x, y)
		}
	}
}

func TestBitMatrixOnBits(t *testing.T) {
	bm := NewBitMatrix(80)
	assert.Nil(t, bm.TopLeftOnBit())
	assert.Nil(t, bm.BottomRightOnBit())
	bm.Set(12, 5)
	bm.Set(70, 60)
	assert.Equal(t, []int{12, 5}, bm.TopLeftOnBit())
	assert.Equal(t, []int{70, 60}, bm.BottomRightOnBit())
}

func TestBitMatrixCloneEquals(t *testing.T) {
	bm := NewBitMatrixWithSize(3, 2)
	bm.Set(0, 0)
	bm.Set(2, 0)
	bm.Set(1, 1)
	cp := bm.Clone()
	assert.True(t, bm.Equals(cp))
	cp.Flip(0, 0)
	assert.False(t, bm.Equals(cp))
}
