package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qrio "github.com/ericlevine/qrio"
	"github.com/ericlevine/qrio/bitutil"
	"github.com/ericlevine/qrio/encoder"
	"github.com/ericlevine/qrio/render"
)

// upscale draws a symbol matrix into a binary image at the given pixel
// scale with a quiet zone of margin modules.
func upscale(m *bitutil.BitMatrix, scale, margin int) *bitutil.BitMatrix {
	image := bitutil.NewBitMatrix((m.Width() + 2*margin) * scale)
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			if m.Get(x, y) {
				image.SetRegion((x+margin)*scale, (y+margin)*scale, scale, scale)
			}
		}
	}
	return image
}

func TestImageRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		content string
		level   qrio.Level
	}{
		{"numeric", "31415926535897932384", qrio.M},
		{"alphanumeric", "SCAN ME $%*+-./:", qrio.Q},
		{"byte", "https://example.com/?q=Mixed Case", qrio.L},
		{"high correction", "ROBUST", qrio.H},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sym, err := encoder.Encode([]byte(tt.content), encoder.Options{Level: tt.level})
			require.NoError(t, err)

			img := render.Raster(sym, render.DefaultMargin, render.DefaultScale, render.Black, render.White)
			results, err := Image(img)
			require.NoError(t, err)
			require.Len(t, results, 1)

			assert.Equal(t, tt.content, results[0].Text)
			assert.Equal(t, []byte(tt.content), results[0].Payload)
			assert.Equal(t, sym.Version(), results[0].Metadata().Version)
			assert.Equal(t, tt.level, results[0].Metadata().Level)
			assert.Zero(t, results[0].ErrorsCorrected)
		})
	}
}

func TestImageRoundTripKanji(t *testing.T) {
	// Shift JIS for 日本語. The payload must come back byte for byte while
	// the text is its UTF-8 reading.
	payload := []byte{0x93, 0xFA, 0x96, 0x7B, 0x8C, 0xEA}
	require.Equal(t, qrio.Kanji, qrio.SelectMode(payload))
	sym, err := encoder.Encode(payload, encoder.Options{Level: qrio.M})
	require.NoError(t, err)

	img := render.Raster(sym, render.DefaultMargin, render.DefaultScale, render.Black, render.White)
	results, err := Image(img)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, payload, results[0].Payload)
	assert.Equal(t, "日本語", results[0].Text)
}

func TestBinaryTwoSymbols(t *testing.T) {
	first, err := encoder.Encode([]byte("FIRST"), encoder.Options{Level: qrio.M})
	require.NoError(t, err)
	second, err := encoder.Encode([]byte("SECOND"), encoder.Options{Level: qrio.M})
	require.NoError(t, err)

	scale, margin := 4, 4
	span := (first.Width() + 2*margin) * scale
	image := bitutil.NewBitMatrixWithSize(2*span, span)
	for i, sym := range []*qrio.Symbol{first, second} {
		for y := 0; y < sym.Width(); y++ {
			for x := 0; x < sym.Width(); x++ {
				if sym.Dark(x, y) {
					image.SetRegion(i*span+(x+margin)*scale, (y+margin)*scale, scale, scale)
				}
			}
		}
	}

	results, err := Binary(image)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(results), 2)

	texts := map[string]bool{}
	for _, r := range results {
		texts[r.Text] = true
	}
	assert.True(t, texts["FIRST"])
	assert.True(t, texts["SECOND"])
}

func TestBinaryToleratesFlippedModules(t *testing.T) {
	sym, err := encoder.Encode([]byte("DAMAGE"), encoder.Options{Level: qrio.H})
	require.NoError(t, err)

	// Level H corrects up to 8 of the 26 codewords in a version 1 symbol.
	// Flipping five data-area modules damages at most five codewords.
	bits := sym.Bits()
	for i := 0; i < 5; i++ {
		bits.Flip(20-i, 20)
	}

	results, err := Binary(upscale(bits, 4, 4))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "DAMAGE", results[0].Text)
	assert.Positive(t, results[0].ErrorsCorrected)
}

func TestBinaryRejectsExcessDamage(t *testing.T) {
	sym, err := encoder.Encode([]byte("DAMAGE"), encoder.Options{Level: qrio.H})
	require.NoError(t, err)

	// Scrambling most of the data region exceeds any correction capacity.
	bits := sym.Bits()
	for y := 9; y < 21; y++ {
		for x := 9; x < 21; x++ {
			if (x+y)%2 == 0 {
				bits.Flip(x, y)
			}
		}
	}

	results, err := Binary(upscale(bits, 4, 4))
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestBinaryCorrectionBoundary(t *testing.T) {
	// A version 1 level L symbol has a single block with seven correction
	// codewords, repairing at most three. The read-out starts in the
	// bottom-right column pair and climbs four rows per codeword, so each
	// flip below lands in a distinct codeword.
	sym, err := encoder.Encode([]byte("BOUNDARY"), encoder.Options{Level: qrio.L})
	require.NoError(t, err)
	require.Equal(t, 21, sym.Width())

	bits := sym.Bits()
	for _, y := range []int{20, 16, 12} {
		bits.Flip(20, y)
	}
	results, err := Binary(upscale(bits, 4, 4))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "BOUNDARY", results[0].Text)
	assert.Equal(t, 3, results[0].ErrorsCorrected)

	// A fourth damaged codeword exceeds the block's capacity.
	bits.Flip(18, 9)
	results, err = Binary(upscale(bits, 4, 4))
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestBinaryBlankImage(t *testing.T) {
	results, err := Binary(bitutil.NewBitMatrix(128))
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestBinaryPureImage(t *testing.T) {
	sym, err := encoder.Encode([]byte("pure"), encoder.Options{Level: qrio.M})
	require.NoError(t, err)

	// A minimal one-pixel-per-module rendering decodes, through the general
	// detector or the pure-image fallback.
	results, err := Binary(upscale(sym.Bits(), 1, 4))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "pure", results[0].Text)
}
