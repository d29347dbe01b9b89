package encoder

import qrio "github.com/ericlevine/qrio"

// microSpec describes the codeword layout of one Micro QR version at one
// error correction level.
type microSpec struct {
	// DataBits is the number of usable data bits, including the final
	// 4-bit half codeword of versions M1 and M3.
	DataBits     int
	ECCodewords  int
	SymbolNumber int
}

// microSpecs is indexed by version number (1-4) and level.
var microSpecs = map[int]map[qrio.Level]microSpec{
	1: {
		qrio.L: {DataBits: 20, ECCodewords: 2, SymbolNumber: 0},
	},
	2: {
		qrio.L: {DataBits: 40, ECCodewords: 5, SymbolNumber: 1},
		qrio.M: {DataBits: 32, ECCodewords: 6, SymbolNumber: 2},
	},
	3: {
		qrio.L: {DataBits: 84, ECCodewords: 6, SymbolNumber: 3},
		qrio.M: {DataBits: 68, ECCodewords: 8, SymbolNumber: 4},
	},
	4: {
		qrio.L: {DataBits: 128, ECCodewords: 8, SymbolNumber: 5},
		qrio.M: {DataBits: 112, ECCodewords: 10, SymbolNumber: 6},
		qrio.Q: {DataBits: 80, ECCodewords: 14, SymbolNumber: 7},
	},
}

// microSpecFor returns the layout for a Micro QR version and level.
func microSpecFor(version qrio.Version, level qrio.Level) (microSpec, error) {
	spec, ok := microSpecs[version.Number][level]
	if !ok {
		return microSpec{}, qrio.ErrInvalidLevel
	}
	return spec, nil
}

// microMasks maps the 2-bit Micro QR mask reference to the regular mask
// pattern it selects.
var microMasks = [4]int{1, 4, 6, 7}

const (
	formatInfoPoly      = 0x537
	formatInfoMask      = 0x5412
	microFormatInfoMask = 0x4445
	versionInfoPoly     = 0x1F25
)

// bchCode computes the BCH remainder bits protecting format and version
// information.
func bchCode(value, poly int) int {
	msb := msbSet(poly)
	value <<= uint(msb - 1)
	for msbSet(value) >= msb {
		value ^= poly << uint(msbSet(value)-msb)
	}
	return value
}

func msbSet(value int) int {
	count := 0
	for value != 0 {
		value >>= 1
		count++
	}
	return count
}
