package qrio

import "fmt"

// Level is a QR error correction level, ordered by increasing redundancy.
type Level int

const (
	L Level = iota // recovers ~7% of codewords
	M              // recovers ~15% of codewords
	Q              // recovers ~25% of codewords
	H              // recovers ~30% of codewords
)

func (l Level) String() string {
	switch l {
	case L:
		return "L"
	case M:
		return "M"
	case Q:
		return "Q"
	case H:
		return "H"
	}
	return "?"
}

// IndicatorBits returns the 2-bit format information encoding of the level.
func (l Level) IndicatorBits() int {
	switch l {
	case L:
		return 0x01
	case M:
		return 0x00
	case Q:
		return 0x03
	case H:
		return 0x02
	}
	return 0
}

// LevelForIndicatorBits returns the Level for a 2-bit format information
// value. The encoding order is {M, L, H, Q}.
func LevelForIndicatorBits(bits int) (Level, error) {
	switch bits {
	case 0:
		return M, nil
	case 1:
		return L, nil
	case 2:
		return H, nil
	case 3:
		return Q, nil
	}
	return 0, fmt.Errorf("%w: level bits %#x", ErrFormatInfo, bits)
}

// ParseLevel converts a textual level name ("l", "M", ...) to a Level.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "l", "L":
		return L, nil
	case "m", "M":
		return M, nil
	case "q", "Q":
		return Q, nil
	case "h", "H":
		return H, nil
	}
	return 0, fmt.Errorf("%w: unknown level %q", ErrInvalidLevel, s)
}
