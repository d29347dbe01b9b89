package qrio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVersionBounds(t *testing.T) {
	for _, n := range []int{1, 7, 40} {
		v, err := NewVersion(n, Normal)
		require.NoError(t, err)
		assert.Equal(t, 4*n+17, v.Width())
	}
	for _, n := range []int{0, 41, -3} {
		_, err := NewVersion(n, Normal)
		assert.ErrorIs(t, err, ErrInvalidVersion)
	}

	for _, n := range []int{1, 4} {
		v, err := NewVersion(n, Micro)
		require.NoError(t, err)
		assert.Equal(t, 2*n+9, v.Width())
	}
	for _, n := range []int{0, 5} {
		_, err := NewVersion(n, Micro)
		assert.ErrorIs(t, err, ErrInvalidVersion)
	}
}

func TestVersionString(t *testing.T) {
	v, _ := NewVersion(7, Normal)
	assert.Equal(t, "7", v.String())
	m, _ := NewVersion(3, Micro)
	assert.Equal(t, "M3", m.String())
	assert.True(t, m.IsMicro())
	assert.False(t, v.IsMicro())
}

func TestVersionSupportsLevel(t *testing.T) {
	normal, _ := NewVersion(12, Normal)
	for _, l := range []Level{L, M, Q, H} {
		assert.True(t, normal.SupportsLevel(l))
	}

	cases := []struct {
		number  int
		allowed []Level
		denied  []Level
	}{
		{1, []Level{L}, []Level{M, Q, H}},
		{2, []Level{L, M}, []Level{Q, H}},
		{3, []Level{L, M}, []Level{Q, H}},
		{4, []Level{L, M, Q}, []Level{H}},
	}
	for _, c := range cases {
		v, err := NewVersion(c.number, Micro)
		require.NoError(t, err)
		for _, l := range c.allowed {
			assert.True(t, v.SupportsLevel(l), "M%d level %s", c.number, l)
		}
		for _, l := range c.denied {
			assert.False(t, v.SupportsLevel(l), "M%d level %s", c.number, l)
		}
	}
}

func TestLevelIndicatorRoundTrip(t *testing.T) {
	for _, l := range []Level{L, M, Q, H} {
		got, err := LevelForIndicatorBits(l.IndicatorBits())
		require.NoError(t, err)
		assert.Equal(t, l, got)
	}
}

func TestParseLevel(t *testing.T) {
	for s, want := range map[string]Level{
		"l": L, "L": L, "m": M, "M": M, "q": Q, "Q": Q, "h": H, "H": H,
	} {
		got, err := ParseLevel(s)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseLevel("x")
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestParseMode(t *testing.T) {
	for s, want := range map[string]Mode{
		"numeric":      Numeric,
		"alphanumeric": Alphanumeric,
		"byte":         Byte,
		"kanji":        Kanji,
	} {
		got, err := ParseMode(s)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseMode("octal")
	assert.ErrorIs(t, err, ErrUnsupportedMode)
}

func TestModeIndicator(t *testing.T) {
	normal, _ := NewVersion(1, Normal)
	for m, want := range map[Mode]int{
		Numeric: 0x01, Alphanumeric: 0x02, Byte: 0x04, Kanji: 0x08,
	} {
		got, err := m.Indicator(normal)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	m2, _ := NewVersion(2, Micro)
	got, err := Alphanumeric.Indicator(m2)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
	_, err = Byte.Indicator(m2)
	assert.ErrorIs(t, err, ErrUnsupportedMode)
}

func TestModeCountBits(t *testing.T) {
	cases := []struct {
		mode    Mode
		version int
		want    int
	}{
		{Numeric, 1, 10},
		{Numeric, 10, 12},
		{Numeric, 27, 14},
		{Alphanumeric, 9, 9},
		{Byte, 9, 8},
		{Byte, 10, 16},
		{Kanji, 40, 12},
	}
	for _, c := range cases {
		v, err := NewVersion(c.version, Normal)
		require.NoError(t, err)
		got, err := c.mode.CountBits(v)
		require.NoError(t, err)
		assert.Equal(t, c.want, got, "%s v%d", c.mode, c.version)
	}

	m4, _ := NewVersion(4, Micro)
	got, err := Byte.CountBits(m4)
	require.NoError(t, err)
	assert.Equal(t, 5, got)
}

func TestModeValidate(t *testing.T) {
	assert.NoError(t, Numeric.Validate([]byte("0123456789")))
	assert.Error(t, Numeric.Validate([]byte("12a")))

	assert.NoError(t, Alphanumeric.Validate([]byte("HELLO WORLD $%*+-./:")))
	assert.Error(t, Alphanumeric.Validate([]byte("hello")))

	assert.NoError(t, Byte.Validate([]byte{0x00, 0xFF, 0x80}))

	// Shift JIS double-byte pairs.
	assert.NoError(t, Kanji.Validate([]byte{0x93, 0xFA, 0x96, 0x7B}))
	assert.Error(t, Kanji.Validate([]byte{0x93}))
	assert.Error(t, Kanji.Validate([]byte{0x20, 0x20}))
}

func TestSelectMode(t *testing.T) {
	assert.Equal(t, Numeric, SelectMode([]byte("31415926")))
	assert.Equal(t, Alphanumeric, SelectMode([]byte("HELLO WORLD")))
	assert.Equal(t, Byte, SelectMode([]byte("Hello, world")))
	assert.Equal(t, Kanji, SelectMode([]byte{0x93, 0xFA, 0x96, 0x7B}))
}

func TestAlphanumericValue(t *testing.T) {
	assert.Equal(t, 0, AlphanumericValue('0'))
	assert.Equal(t, 10, AlphanumericValue('A'))
	assert.Equal(t, 36, AlphanumericValue(' '))
	assert.Equal(t, 44, AlphanumericValue(':'))
	assert.Equal(t, -1, AlphanumericValue('a'))
}
