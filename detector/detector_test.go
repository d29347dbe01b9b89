package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qrio "github.com/ericlevine/qrio"
	"github.com/ericlevine/qrio/bitutil"
	"github.com/ericlevine/qrio/decoder"
	"github.com/ericlevine/qrio/encoder"
)

// rasterize draws a symbol into a fresh binary image at the given pixel
// scale with a quiet zone of margin modules.
func rasterize(sym *qrio.Symbol, scale, margin int) *bitutil.BitMatrix {
	width := sym.Width()
	image := bitutil.NewBitMatrix((width + 2*margin) * scale)
	blit(image, sym, scale, margin*scale, margin*scale)
	return image
}

func blit(image *bitutil.BitMatrix, sym *qrio.Symbol, scale, offsetX, offsetY int) {
	for y := 0; y < sym.Width(); y++ {
		for x := 0; x < sym.Width(); x++ {
			if sym.Dark(x, y) {
				image.SetRegion(offsetX+x*scale, offsetY+y*scale, scale, scale)
			}
		}
	}
}

func TestDetectAndDecode(t *testing.T) {
	sym, err := encoder.Encode([]byte("HELLO WORLD"), encoder.Options{Level: qrio.M})
	require.NoError(t, err)

	image := rasterize(sym, 4, 4)
	detection, err := New(image).Detect()
	require.NoError(t, err)
	assert.Equal(t, 21, detection.Bits.Width())
	assert.GreaterOrEqual(t, len(detection.Points), 3)

	result, err := decoder.Decode(detection.Bits)
	require.NoError(t, err)
	assert.Equal(t, "HELLO WORLD", result.Text)
}

func TestDetectUsesAlignmentPattern(t *testing.T) {
	sym, err := encoder.Encode([]byte("VERSION TWO SYMBOL"), encoder.Options{
		Level: qrio.M, Version: 2,
	})
	require.NoError(t, err)

	image := rasterize(sym, 4, 4)
	detection, err := New(image).Detect()
	require.NoError(t, err)
	assert.Equal(t, 25, detection.Bits.Width())
	// The fourth point is the alignment pattern.
	assert.Len(t, detection.Points, 4)

	result, err := decoder.Decode(detection.Bits)
	require.NoError(t, err)
	assert.Equal(t, "VERSION TWO SYMBOL", result.Text)
}

func TestDetectLargeScale(t *testing.T) {
	sym, err := encoder.Encode([]byte("scale test"), encoder.Options{Level: qrio.Q})
	require.NoError(t, err)

	image := rasterize(sym, 9, 6)
	detection, err := New(image).Detect()
	require.NoError(t, err)

	result, err := decoder.Decode(detection.Bits)
	require.NoError(t, err)
	assert.Equal(t, "scale test", result.Text)
}

func TestDetectBlankImage(t *testing.T) {
	_, err := New(bitutil.NewBitMatrix(100)).Detect()
	assert.ErrorIs(t, err, qrio.ErrNotFound)
}

func TestDetectMultiTwoSymbols(t *testing.T) {
	first, err := encoder.Encode([]byte("FIRST"), encoder.Options{Level: qrio.M})
	require.NoError(t, err)
	second, err := encoder.Encode([]byte("SECOND"), encoder.Options{Level: qrio.M})
	require.NoError(t, err)

	scale := 4
	span := (first.Width() + 8) * scale
	image := bitutil.NewBitMatrixWithSize(2*span, span)
	blit(image, first, scale, 4*scale, 4*scale)
	blit(image, second, scale, span+4*scale, 4*scale)

	detections, err := DetectMulti(image)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(detections), 2)

	texts := map[string]bool{}
	for _, d := range detections {
		result, err := decoder.Decode(d.Bits)
		if err != nil {
			continue
		}
		texts[result.Text] = true
	}
	assert.True(t, texts["FIRST"], "first symbol not decoded")
	assert.True(t, texts["SECOND"], "second symbol not decoded")
}

func TestDetectMultiBlankImage(t *testing.T) {
	_, err := DetectMulti(bitutil.NewBitMatrix(64))
	assert.ErrorIs(t, err, qrio.ErrNotFound)
}

func TestDetectPure(t *testing.T) {
	sym, err := encoder.Encode([]byte("pure bits"), encoder.Options{Level: qrio.L})
	require.NoError(t, err)

	for _, scale := range []int{1, 3} {
		bits, err := DetectPure(rasterize(sym, scale, 4))
		require.NoError(t, err, "scale %d", scale)
		assert.Equal(t, sym.Width(), bits.Width())

		result, err := decoder.Decode(bits)
		require.NoError(t, err, "scale %d", scale)
		assert.Equal(t, "pure bits", result.Text)
	}
}

func TestDetectPureBlankImage(t *testing.T) {
	_, err := DetectPure(bitutil.NewBitMatrix(32))
	assert.ErrorIs(t, err, qrio.ErrNotFound)
}

func TestSelectBestDropsFinderLookalike(t *testing.T) {
	// Data regions can contain runs that pass the 1:1:3:1:1 check a few
	// times. Such a center must not displace a real corner, which is both
	// confirmed by more scan rows and closer to the group module size.
	topLeft := &FinderPattern{X: 85.5, Y: 85.5, ModuleSize: 9, Count: 8}
	topRight := &FinderPattern{X: 211.5, Y: 85.5, ModuleSize: 9, Count: 8}
	lookalike := &FinderPattern{X: 153, Y: 144, ModuleSize: 7.71, Count: 3}
	bottomLeft := &FinderPattern{X: 85.5, Y: 211.5, ModuleSize: 9, Count: 7}

	best := selectBest([]*FinderPattern{topLeft, topRight, lookalike, bottomLeft})
	require.Len(t, best, 3)
	assert.Contains(t, best, topLeft)
	assert.Contains(t, best, topRight)
	assert.Contains(t, best, bottomLeft)
}

func TestFindAlignmentPattern(t *testing.T) {
	// A 5x5 alignment pattern at four pixels per module, black ring around
	// a white ring around a single black center module at pixel (90, 90).
	image := bitutil.NewBitMatrix(160)
	image.SetRegion(80, 80, 20, 20)
	for y := 84; y < 96; y++ {
		for x := 84; x < 96; x++ {
			image.Unset(x, y)
		}
	}
	image.SetRegion(88, 88, 4, 4)

	ap := New(image).findAlignmentInRegion(4.0, 90, 90, 4.0)
	require.NotNil(t, ap)
	assert.InDelta(t, 90.0, ap.x, 1.0)
	assert.InDelta(t, 90.0, ap.y, 1.0)
}

func TestComputeDimension(t *testing.T) {
	topLeft := &FinderPattern{X: 3.5, Y: 3.5}
	topRight := &FinderPattern{X: 17.5, Y: 3.5}
	bottomLeft := &FinderPattern{X: 3.5, Y: 17.5}

	dimension, err := computeDimension(topLeft, topRight, bottomLeft, 1.0)
	require.NoError(t, err)
	assert.Equal(t, 21, dimension)
}

func TestOrderPatternsOrientation(t *testing.T) {
	topLeft := &FinderPattern{X: 10, Y: 10}
	topRight := &FinderPattern{X: 90, Y: 10}
	bottomLeft := &FinderPattern{X: 10, Y: 90}

	ordered := orderPatterns([]*FinderPattern{topRight, bottomLeft, topLeft})
	assert.Same(t, topLeft, ordered.topLeft)
	assert.Same(t, topRight, ordered.topRight)
	assert.Same(t, bottomLeft, ordered.bottomLeft)
}
