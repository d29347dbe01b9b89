package binarizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qrio "github.com/ericlevine/qrio"
)

// halves builds a width x height luminance image whose left half is dark
// and right half is light.
func halves(width, height int, dark, light byte) qrio.LuminanceSource {
	lum := make([]byte, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := light
			if x < width/2 {
				v = dark
			}
			lum[y*width+x] = v
		}
	}
	return qrio.NewLuminanceSourceFromBytes(lum, width, height)
}

func TestGlobalBlackMatrix(t *testing.T) {
	g := NewGlobal(halves(100, 100, 0x20, 0xE0))
	matrix, err := g.BlackMatrix()
	require.NoError(t, err)

	assert.Equal(t, 100, matrix.Width())
	assert.Equal(t, 100, matrix.Height())
	assert.True(t, matrix.Get(10, 50))
	assert.True(t, matrix.Get(49, 0))
	assert.False(t, matrix.Get(90, 50))
	assert.False(t, matrix.Get(50, 99))
}

func TestGlobalLowContrast(t *testing.T) {
	lum := make([]byte, 100*100)
	for i := range lum {
		lum[i] = 0x80
	}
	g := NewGlobal(qrio.NewLuminanceSourceFromBytes(lum, 100, 100))
	_, err := g.BlackMatrix()
	assert.ErrorIs(t, err, qrio.ErrNotFound)
}

func TestGlobalBlackRow(t *testing.T) {
	width := 100
	lum := make([]byte, width)
	for x := range lum {
		lum[x] = 0xE0
	}
	for x := 40; x <= 60; x++ {
		lum[x] = 0x20
	}
	g := NewGlobal(qrio.NewLuminanceSourceFromBytes(lum, width, 1))

	row, err := g.BlackRow(0, nil)
	require.NoError(t, err)
	assert.True(t, row.Get(50))
	assert.False(t, row.Get(10))
	assert.False(t, row.Get(90))
}

func TestHybridBlackMatrix(t *testing.T) {
	// A 4-pixel checkerboard gives every 8x8 block full dynamic range, so
	// each block thresholds on its own statistics.
	width, height := 96, 96
	lum := make([]byte, width*height)
	darkCell := func(x, y int) bool { return (x/4+y/4)%2 == 0 }
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := byte(0xE0)
			if darkCell(x, y) {
				v = 0x20
			}
			lum[y*width+x] = v
		}
	}

	h := NewHybrid(qrio.NewLuminanceSourceFromBytes(lum, width, height))
	matrix, err := h.BlackMatrix()
	require.NoError(t, err)

	for _, pt := range [][2]int{{2, 2}, {6, 2}, {50, 50}, {93, 90}} {
		x, y := pt[0], pt[1]
		assert.Equal(t, darkCell(x, y), matrix.Get(x, y), "pixel (%d,%d)", x, y)
	}
}

func TestHybridCachesMatrix(t *testing.T) {
	h := NewHybrid(halves(96, 96, 0x20, 0xE0))
	first, err := h.BlackMatrix()
	require.NoError(t, err)
	second, err := h.BlackMatrix()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestHybridSmallImageFallsBack(t *testing.T) {
	// Below the block-statistics minimum the hybrid defers to the global
	// histogram.
	source := halves(30, 30, 0x20, 0xE0)
	h := NewHybrid(source)
	matrix, err := h.BlackMatrix()
	require.NoError(t, err)

	global, err := NewGlobal(source).BlackMatrix()
	require.NoError(t, err)
	assert.True(t, global.Equals(matrix))
}
