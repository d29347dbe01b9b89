package qrio

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidVersion is returned when a symbol version is outside the
	// valid range for its variant (1-40 for Normal, 1-4 for Micro).
	ErrInvalidVersion = errors.New("qrio: invalid symbol version")

	// ErrDataTooLong is returned when the payload plus headers exceeds the
	// data capacity of the selected version and error correction level.
	ErrDataTooLong = errors.New("qrio: data too long")

	// ErrInvalidCharacter is returned when input bytes are not legal for the
	// requested encoding mode.
	ErrInvalidCharacter = errors.New("qrio: invalid character for mode")

	// ErrUnsupportedMode is returned when a mode cannot be used with the
	// selected symbol version (e.g. Byte mode in a Micro M1 symbol).
	ErrUnsupportedMode = errors.New("qrio: mode not supported by symbol version")

	// ErrInvalidLevel is returned when an error correction level is not
	// valid for the selected symbol version (e.g. H in any Micro symbol).
	ErrInvalidLevel = errors.New("qrio: error correction level not supported by symbol version")

	// ErrInvalidMask is returned when a pinned data mask pattern is outside
	// the symbology's mask set (0-7 for Normal; 1, 4, 6 or 7 for Micro).
	ErrInvalidMask = errors.New("qrio: invalid mask pattern")

	// ErrConstruction indicates an internal invariant violation during
	// matrix construction. Unreachable with validated inputs.
	ErrConstruction = errors.New("qrio: symbol construction failed")

	// ErrNotFound is returned when no QR symbol can be located in an image.
	ErrNotFound = errors.New("qrio: no QR symbol found")

	// ErrFormatInfo is returned when a candidate grid's format information
	// fails its own error check.
	ErrFormatInfo = errors.New("qrio: format information check failed")

	// ErrUncorrectable is returned when a grid contains more bit errors
	// than its error correction level can repair.
	ErrUncorrectable = errors.New("qrio: uncorrectable data")
)

// InvalidCharacterError reports the first input byte that is not legal for
// the requested encoding mode.
type InvalidCharacterError struct {
	Mode Mode
	Pos  int
	Byte byte
}

func (e *InvalidCharacterError) Error() string {
	return fmt.Sprintf("qrio: byte %#02x at position %d is not valid in %s mode", e.Byte, e.Pos, e.Mode)
}

// Unwrap makes the error match ErrInvalidCharacter under errors.Is.
func (e *InvalidCharacterError) Unwrap() error { return ErrInvalidCharacter }
