package qrio

import "fmt"

// Mode is a QR data encoding mode.
type Mode int

const (
	Numeric Mode = iota
	Alphanumeric
	Byte
	Kanji
)

func (m Mode) String() string {
	switch m {
	case Numeric:
		return "numeric"
	case Alphanumeric:
		return "alphanumeric"
	case Byte:
		return "byte"
	case Kanji:
		return "kanji"
	}
	return "?"
}

// ParseMode converts a textual mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "numeric":
		return Numeric, nil
	case "alphanumeric":
		return Alphanumeric, nil
	case "byte":
		return Byte, nil
	case "kanji":
		return Kanji, nil
	}
	return 0, fmt.Errorf("%w: unknown mode %q", ErrUnsupportedMode, s)
}

// Indicator returns the mode indicator value for version. Normal symbols use
// a fixed 4-bit encoding; Micro symbols number the modes sequentially in a
// field whose width depends on the version.
func (m Mode) Indicator(version Version) (int, error) {
	if version.IsMicro() {
		if !m.SupportedBy(version) {
			return 0, fmt.Errorf("%w: %s mode in %s symbol", ErrUnsupportedMode, m, version)
		}
		return int(m), nil
	}
	switch m {
	case Numeric:
		return 0x01, nil
	case Alphanumeric:
		return 0x02, nil
	case Byte:
		return 0x04, nil
	case Kanji:
		return 0x08, nil
	}
	return 0, fmt.Errorf("%w: mode %d", ErrUnsupportedMode, int(m))
}

// SupportedBy reports whether version can carry segments in this mode.
// Micro versions M1 and M2 restrict the usable modes.
func (m Mode) SupportedBy(version Version) bool {
	if !version.IsMicro() {
		return true
	}
	switch version.Number {
	case 1:
		return m == Numeric
	case 2:
		return m == Numeric || m == Alphanumeric
	}
	return true
}

// CountBits returns the width of the character count field for this mode in
// the given version.
func (m Mode) CountBits(version Version) (int, error) {
	if version.IsMicro() {
		if !m.SupportedBy(version) {
			return 0, fmt.Errorf("%w: %s mode in %s symbol", ErrUnsupportedMode, m, version)
		}
		micro := [4][4]int{
			Numeric:      {3, 4, 5, 6},
			Alphanumeric: {0, 3, 4, 5},
			Byte:         {0, 0, 4, 5},
			Kanji:        {0, 0, 3, 4},
		}
		return micro[m][version.Number-1], nil
	}
	var bits [3]int
	switch m {
	case Numeric:
		bits = [3]int{10, 12, 14}
	case Alphanumeric:
		bits = [3]int{9, 11, 13}
	case Byte:
		bits = [3]int{8, 16, 16}
	case Kanji:
		bits = [3]int{8, 10, 12}
	default:
		return 0, fmt.Errorf("%w: mode %d", ErrUnsupportedMode, int(m))
	}
	switch {
	case version.Number <= 9:
		return bits[0], nil
	case version.Number <= 26:
		return bits[1], nil
	default:
		return bits[2], nil
	}
}

// alphanumericTable maps a byte to its value in the 45-character
// alphanumeric set, or -1 when the byte is outside the set.
var alphanumericTable = func() [256]int8 {
	var t [256]int8
	for i := range t {
		t[i] = -1
	}
	for i, c := range []byte("0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:") {
		t[c] = int8(i)
	}
	return t
}()

// AlphanumericValue returns the 0..44 value of c in the alphanumeric
// character set, or -1 if c is not in the set.
func AlphanumericValue(c byte) int {
	return int(alphanumericTable[c])
}

// IsKanjiPair reports whether the two bytes form a Shift JIS double-byte
// character encodable in kanji mode.
func IsKanjiPair(hi, lo byte) bool {
	if lo == 0x7F || lo < 0x40 || lo > 0xFC {
		return false
	}
	return (hi >= 0x81 && hi <= 0x9F) || (hi >= 0xE0 && hi <= 0xEB)
}

// Validate reports whether every byte of data is representable in this mode.
// Kanji mode validates data as a sequence of Shift JIS double-byte pairs.
func (m Mode) Validate(data []byte) error {
	switch m {
	case Numeric:
		for i, c := range data {
			if c < '0' || c > '9' {
				return &InvalidCharacterError{Mode: m, Pos: i, Byte: c}
			}
		}
	case Alphanumeric:
		for i, c := range data {
			if alphanumericTable[c] < 0 {
				return &InvalidCharacterError{Mode: m, Pos: i, Byte: c}
			}
		}
	case Byte:
	case Kanji:
		if len(data)%2 != 0 {
			return &InvalidCharacterError{Mode: m, Pos: len(data) - 1, Byte: data[len(data)-1]}
		}
		for i := 0; i < len(data); i += 2 {
			if !IsKanjiPair(data[i], data[i+1]) {
				return &InvalidCharacterError{Mode: m, Pos: i, Byte: data[i]}
			}
		}
	default:
		return fmt.Errorf("%w: mode %d", ErrUnsupportedMode, int(m))
	}
	return nil
}

// SelectMode picks the densest single mode capable of representing data.
func SelectMode(data []byte) Mode {
	for _, m := range []Mode{Numeric, Alphanumeric, Kanji} {
		if m.Validate(data) == nil {
			return m
		}
	}
	return Byte
}
