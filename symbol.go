package qrio

import "github.com/ericlevine/qrio/bitutil"

// Symbol is a finished QR symbol: a square module matrix plus the
// construction parameters it was built with.
type Symbol struct {
	matrix  *bitutil.BitMatrix
	version Version
	level   Level
	mask    int
}

// NewSymbol wraps a module matrix. The matrix must already contain function
// patterns, format information and masked data.
func NewSymbol(matrix *bitutil.BitMatrix, version Version, level Level, mask int) *Symbol {
	return &Symbol{matrix: matrix, version: version, level: level, mask: mask}
}

// Width returns the symbol width in modules, excluding any quiet zone.
func (s *Symbol) Width() int {
	return s.matrix.Width()
}

// Dark reports whether the module at (x, y) is dark.
func (s *Symbol) Dark(x, y int) bool {
	return s.matrix.Get(x, y)
}

// Bits returns a copy of the module matrix. Callers may mutate the copy
// freely.
func (s *Symbol) Bits() *bitutil.BitMatrix {
	return s.matrix.Clone()
}

func (s *Symbol) Version() Version { return s.version }
func (s *Symbol) Level() Level     { return s.level }
func (s *Symbol) Mask() int        { return s.mask }

// Metadata describes a decoded symbol without its payload.
type Metadata struct {
	Version Version
	Level   Level
}
