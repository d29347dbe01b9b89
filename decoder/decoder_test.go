package decoder_test

import (
	"math/bits"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qrio "github.com/ericlevine/qrio"
	"github.com/ericlevine/qrio/decoder"
	"github.com/ericlevine/qrio/encoder"
)

func TestDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		name  string
		data  []byte
		text  string
		level qrio.Level
	}{
		{"numeric", []byte("31415926535897932384"), "31415926535897932384", qrio.M},
		{"alphanumeric", []byte("HELLO WORLD"), "HELLO WORLD", qrio.M},
		{"byte", []byte("https://example.com/?q=hello&lang=en"), "https://example.com/?q=hello&lang=en", qrio.Q},
		// Shift JIS bytes in, the same bytes back out, UTF-8 text.
		{"kanji", []byte{0x93, 0xFA, 0x96, 0x7B, 0x8C, 0xEA}, "日本語", qrio.L},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sym, err := encoder.Encode(c.data, encoder.Options{Level: c.level})
			require.NoError(t, err)

			result, err := decoder.Decode(sym.Bits())
			require.NoError(t, err)
			assert.Equal(t, c.text, result.Text)
			assert.Equal(t, c.data, result.Payload)
			assert.Equal(t, c.level, result.Level)
			assert.Equal(t, sym.Version(), result.Version)
			assert.Equal(t, sym.Mask(), result.Mask)
			assert.Zero(t, result.ErrorsCorrected)
			assert.Equal(t, -1, result.SymbolSequence)
		})
	}
}

func TestDecodeMirrored(t *testing.T) {
	sym, err := encoder.Encode([]byte("MIRROR CHECK"), encoder.Options{Level: qrio.M})
	require.NoError(t, err)

	m := sym.Bits()
	width := m.Width()
	for y := 0; y < width; y++ {
		for x := 0; x < y; x++ {
			if m.Get(x, y) != m.Get(y, x) {
				m.Flip(x, y)
				m.Flip(y, x)
			}
		}
	}

	result, err := decoder.Decode(m)
	require.NoError(t, err)
	assert.Equal(t, "MIRROR CHECK", result.Text)
}

func TestDecodeCorrectsDamage(t *testing.T) {
	sym, err := encoder.Encode([]byte("DAMAGE TOLERANCE"), encoder.Options{Level: qrio.H})
	require.NoError(t, err)

	m := sym.Bits()
	width := m.Width()
	// Clobber a few modules in the data region, away from function patterns.
	for i := 0; i < 4; i++ {
		m.Flip(width-1-i, width-1)
	}

	result, err := decoder.Decode(m)
	require.NoError(t, err)
	assert.Equal(t, "DAMAGE TOLERANCE", result.Text)
	assert.Positive(t, result.ErrorsCorrected)
}

func TestDecodeExcessDamage(t *testing.T) {
	sym, err := encoder.Encode([]byte("TOO MUCH"), encoder.Options{Level: qrio.L})
	require.NoError(t, err)

	m := sym.Bits()
	width := m.Width()
	for y := 9; y < width-8; y++ {
		for x := 9; x < width-1; x += 2 {
			m.Flip(x, y)
		}
	}

	_, err = decoder.Decode(m)
	assert.Error(t, err)
}

func TestDecodeLongPayloadSpansBlocks(t *testing.T) {
	// Long enough that the symbol uses multiple interleaved EC blocks.
	text := strings.Repeat("interleaved block coverage ", 12)
	sym, err := encoder.Encode([]byte(text), encoder.Options{Level: qrio.Q})
	require.NoError(t, err)
	require.Greater(t, sym.Version().Number, 6)

	result, err := decoder.Decode(sym.Bits())
	require.NoError(t, err)
	assert.Equal(t, text, result.Text)
	assert.Equal(t, sym.Version().Number, result.Version.Number)
}

func TestDecodeFormatInfo(t *testing.T) {
	// Raw bits 00000 are level M with mask 0; the masked value is the mask
	// constant itself.
	fi := decoder.DecodeFormatInfo(decoder.FormatInfoMask, decoder.FormatInfoMask)
	require.NotNil(t, fi)
	assert.Equal(t, qrio.M, fi.Level)
	assert.EqualValues(t, 0, fi.Mask)

	// Three flipped bits are recovered from either copy.
	damaged := decoder.FormatInfoMask ^ 0x0029
	fi = decoder.DecodeFormatInfo(damaged, damaged)
	require.NotNil(t, fi)
	assert.Equal(t, qrio.M, fi.Level)
	assert.EqualValues(t, 0, fi.Mask)

	// 0x003C is at least four bits away from every code under either
	// masking, so neither copy can be repaired.
	assert.Nil(t, decoder.DecodeFormatInfo(0x003C, 0x003C))
}

func TestVersionForWidth(t *testing.T) {
	v, err := decoder.VersionForWidth(21)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Number)
	assert.Empty(t, v.AlignmentPatternCenters)

	v, err = decoder.VersionForWidth(177)
	require.NoError(t, err)
	assert.Equal(t, 40, v.Number)

	_, err = decoder.VersionForWidth(20)
	assert.ErrorIs(t, err, qrio.ErrInvalidVersion)
	_, err = decoder.VersionForWidth(181)
	assert.ErrorIs(t, err, qrio.ErrInvalidVersion)
}

func TestDecodeVersionInfo(t *testing.T) {
	for _, number := range []int{7, 23, 40} {
		code := decoder.VersionInfoCode(number)
		v := decoder.DecodeVersionInfo(code)
		require.NotNil(t, v, "version %d", number)
		assert.Equal(t, number, v.Number)

		v = decoder.DecodeVersionInfo(code ^ 0x00015)
		require.NotNil(t, v, "version %d damaged", number)
		assert.Equal(t, number, v.Number)
	}
	assert.Nil(t, decoder.DecodeVersionInfo(0x3FFFF))
}

func TestVersionInfoCodesHaveDistance(t *testing.T) {
	// Three bit errors are correctable only if codes differ in more than
	// six positions.
	for a := 7; a <= 40; a++ {
		for b := a + 1; b <= 40; b++ {
			diff := bits.OnesCount(uint(decoder.VersionInfoCode(a) ^ decoder.VersionInfoCode(b)))
			assert.Greater(t, diff, 6, "versions %d and %d", a, b)
		}
	}
}

func TestDeinterleaveBlocks(t *testing.T) {
	version, err := decoder.VersionForNumber(5)
	require.NoError(t, err)
	ecb := version.ECBlocksFor(qrio.Q)
	total := ecb.TotalDataCodewords() + ecb.TotalECCodewords()

	raw := make([]byte, total)
	for i := range raw {
		raw[i] = byte(i)
	}
	blocks := decoder.DeinterleaveBlocks(raw, version, qrio.Q)
	require.Len(t, blocks, ecb.NumBlocks())

	dataTotal := 0
	for _, b := range blocks {
		dataTotal += b.NumDataCodewords
		assert.Len(t, b.Codewords, b.NumDataCodewords+ecb.ECCodewordsPerBlock)
	}
	assert.Equal(t, ecb.TotalDataCodewords(), dataTotal)

	// Codewords are interleaved round-robin across blocks, so the first
	// data codeword of block i is raw[i].
	for i, b := range blocks {
		assert.Equal(t, byte(i), b.Codewords[0])
	}
}

func TestDataMasks(t *testing.T) {
	cases := []struct {
		mask int
		want func(i, j int) bool
	}{
		{0, func(i, j int) bool { return (i+j)%2 == 0 }},
		{1, func(i, j int) bool { return i%2 == 0 }},
		{2, func(i, j int) bool { return j%3 == 0 }},
		{7, func(i, j int) bool { return ((i+j)%2+i*j%3)%2 == 0 }},
	}
	for _, c := range cases {
		for i := 0; i < 6; i++ {
			for j := 0; j < 6; j++ {
				assert.Equal(t, c.want(i, j), decoder.Masks[c.mask](i, j),
					"mask %d at (%d,%d)", c.mask, i, j)
			}
		}
	}
}
