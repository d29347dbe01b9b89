package qrio

import "fmt"

// Variant distinguishes the two QR symbologies.
type Variant int

const (
	// Normal is the full-size QR code symbology, versions 1-40.
	Normal Variant = iota
	// Micro is the Micro QR code symbology, versions M1-M4.
	Micro
)

func (v Variant) String() string {
	if v == Micro {
		return "micro"
	}
	return "normal"
}

// Version identifies a symbol version within its variant. The zero value is
// not a valid version; construct via NewVersion.
type Version struct {
	Variant Variant
	Number  int
}

// NewVersion validates the version number against the variant's range.
// Out-of-range values are an error, never clamped.
func NewVersion(number int, variant Variant) (Version, error) {
	switch variant {
	case Normal:
		if number < 1 || number > 40 {
			return Version{}, fmt.Errorf("%w: %d (normal versions are 1-40)", ErrInvalidVersion, number)
		}
	case Micro:
		if number < 1 || number > 4 {
			return Version{}, fmt.Errorf("%w: %d (micro versions are 1-4)", ErrInvalidVersion, number)
		}
	default:
		return Version{}, fmt.Errorf("%w: unknown variant", ErrInvalidVersion)
	}
	return Version{Variant: variant, Number: number}, nil
}

// Width returns the symbol's side length in modules.
func (v Version) Width() int {
	if v.Variant == Micro {
		return 2*v.Number + 9
	}
	return 4*v.Number + 17
}

func (v Version) String() string {
	if v.Variant == Micro {
		return fmt.Sprintf("M%d", v.Number)
	}
	return fmt.Sprintf("%d", v.Number)
}

// IsMicro reports whether the version belongs to the Micro variant.
func (v Version) IsMicro() bool { return v.Variant == Micro }

// SupportsLevel reports whether the error correction level is available at
// this version. Every level is available for Normal symbols; Micro symbols
// restrict the choice (M1: L only, M2/M3: L and M, M4: L, M and Q).
func (v Version) SupportsLevel(level Level) bool {
	if v.Variant == Normal {
		return true
	}
	switch v.Number {
	case 1:
		return level == L
	case 2, 3:
		return level == L || level == M
	case 4:
		return level != H
	}
	return false
}

// ModeIndicatorWidth returns the width in bits of the mode indicator for
// this version: always 4 for Normal, version-1 for Micro (M1 has none).
func (v Version) ModeIndicatorWidth() int {
	if v.Variant == Micro {
		return v.Number - 1
	}
	return 4
}

// TerminatorWidth returns the maximum width in bits of the terminator
// pattern for this version.
func (v Version) TerminatorWidth() int {
	if v.Variant == Micro {
		return 2*v.Number + 1
	}
	return 4
}
