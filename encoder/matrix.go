package encoder

import (
	qrio "github.com/ericlevine/qrio"
	"github.com/ericlevine/qrio/bitutil"
	"github.com/ericlevine/qrio/decoder"
)

// emptyModule marks a matrix cell not yet claimed by a function pattern.
const emptyModule = 0xFF

// ByteMatrix is a module matrix under construction. Each cell is 0
// (light), 1 (dark) or emptyModule.
type ByteMatrix struct {
	data          [][]byte
	width, height int
}

// NewByteMatrix creates a matrix with every cell empty.
func NewByteMatrix(width, height int) *ByteMatrix {
	data := make([][]byte, height)
	for i := range data {
		data[i] = make([]byte, width)
	}
	bm := &ByteMatrix{data: data, width: width, height: height}
	bm.Reset()
	return bm
}

func (bm *ByteMatrix) Get(x, y int) byte { return bm.data[y][x] }

func (bm *ByteMatrix) Set(x, y int, value byte) { bm.data[y][x] = value }

func (bm *ByteMatrix) SetBool(x, y int, value bool) {
	if value {
		bm.data[y][x] = 1
	} else {
		bm.data[y][x] = 0
	}
}

func (bm *ByteMatrix) Width() int  { return bm.width }
func (bm *ByteMatrix) Height() int { return bm.height }

// Reset marks every cell empty.
func (bm *ByteMatrix) Reset() {
	for y := range bm.data {
		for x := range bm.data[y] {
			bm.data[y][x] = emptyModule
		}
	}
}

// ToBitMatrix converts the finished matrix to bits; empty cells become
// light.
func (bm *ByteMatrix) ToBitMatrix() *bitutil.BitMatrix {
	out := bitutil.NewBitMatrixWithSize(bm.width, bm.height)
	for y := 0; y < bm.height; y++ {
		for x := 0; x < bm.width; x++ {
			if bm.data[y][x] == 1 {
				out.Set(x, y)
			}
		}
	}
	return out
}

var finderPattern = [7][7]byte{
	{1, 1, 1, 1, 1, 1, 1},
	{1, 0, 0, 0, 0, 0, 1},
	{1, 0, 1, 1, 1, 0, 1},
	{1, 0, 1, 1, 1, 0, 1},
	{1, 0, 1, 1, 1, 0, 1},
	{1, 0, 0, 0, 0, 0, 1},
	{1, 1, 1, 1, 1, 1, 1},
}

var alignmentPattern = [5][5]byte{
	{1, 1, 1, 1, 1},
	{1, 0, 0, 0, 1},
	{1, 0, 1, 0, 1},
	{1, 0, 0, 0, 1},
	{1, 1, 1, 1, 1},
}

// buildMatrix places function patterns, format and version information and
// masked data bits for one mask pattern.
func buildMatrix(finalBits *bitutil.BitArray, level qrio.Level, version qrio.Version, mask int, matrix *ByteMatrix) {
	matrix.Reset()
	if version.IsMicro() {
		placeMicroFunctionPatterns(matrix)
		placeMicroFormatInfo(version, level, mask, matrix)
		placeMicroDataBits(finalBits, mask, matrix)
		return
	}
	placeFunctionPatterns(version, matrix)
	placeFormatInfo(level, mask, matrix)
	placeVersionInfo(version, matrix)
	placeDataBits(finalBits, mask, matrix)
}

func placeFunctionPatterns(version qrio.Version, matrix *ByteMatrix) {
	width := matrix.width

	placeFinder(0, 0, matrix)
	placeFinder(width-7, 0, matrix)
	placeFinder(0, width-7, matrix)

	// Separators.
	for i := 0; i < 8; i++ {
		matrix.Set(i, 7, 0)
		matrix.Set(7, i, 0)
		matrix.Set(width-8+i, 7, 0)
		matrix.Set(width-8, i, 0)
		matrix.Set(i, width-8, 0)
		matrix.Set(7, width-8+i, 0)
	}

	if version.Number >= 2 {
		placeAlignmentPatterns(version, matrix)
	}

	// Timing patterns.
	for i := 8; i < width-8; i++ {
		bit := byte((i + 1) % 2)
		if matrix.Get(i, 6) == emptyModule {
			matrix.Set(i, 6, bit)
		}
		if matrix.Get(6, i) == emptyModule {
			matrix.Set(6, i, bit)
		}
	}

	// Dark module beside the bottom-left finder pattern.
	matrix.Set(8, width-8, 1)
}

func placeFinder(xStart, yStart int, matrix *ByteMatrix) {
	for y := 0; y < 7; y++ {
		for x := 0; x < 7; x++ {
			matrix.Set(xStart+x, yStart+y, finderPattern[y][x])
		}
	}
}

func placeAlignmentPatterns(version qrio.Version, matrix *ByteMatrix) {
	info, err := decoder.VersionForNumber(version.Number)
	if err != nil {
		return
	}
	for _, cy := range info.AlignmentPatternCenters {
		for _, cx := range info.AlignmentPatternCenters {
			if matrix.Get(cx, cy) != emptyModule {
				continue
			}
			for y := 0; y < 5; y++ {
				for x := 0; x < 5; x++ {
					matrix.Set(cx-2+x, cy-2+y, alignmentPattern[y][x])
				}
			}
		}
	}
}

// formatInfoCoordinates is the placement of format bits around the
// top-left finder pattern, LSB first.
var formatInfoCoordinates = [15][2]int{
	{8, 0}, {8, 1}, {8, 2}, {8, 3}, {8, 4}, {8, 5}, {8, 7}, {8, 8},
	{7, 8}, {5, 8}, {4, 8}, {3, 8}, {2, 8}, {1, 8}, {0, 8},
}

func placeFormatInfo(level qrio.Level, mask int, matrix *ByteMatrix) {
	raw := level.IndicatorBits()<<3 | mask
	bits := (raw<<10 | bchCode(raw, formatInfoPoly)) ^ formatInfoMask
	width := matrix.width

	for i := 0; i < 15; i++ {
		bit := byte(bits >> uint(i) & 1)
		coord := formatInfoCoordinates[i]
		matrix.Set(coord[0], coord[1], bit)

		// Redundant copy split below the top-right and beside the
		// bottom-left finder pattern.
		if i < 8 {
			matrix.Set(width-1-i, 8, bit)
		} else {
			matrix.Set(8, width-7+(i-8), bit)
		}
	}
}

func placeVersionInfo(version qrio.Version, matrix *ByteMatrix) {
	if version.Number < 7 {
		return
	}
	bits := version.Number<<12 | bchCode(version.Number, versionInfoPoly)
	width := matrix.width

	bitIndex := 0
	for i := 0; i < 6; i++ {
		for j := 0; j < 3; j++ {
			bit := byte(bits >> uint(bitIndex) & 1)
			bitIndex++
			matrix.Set(i, width-11+j, bit)
			matrix.Set(width-11+j, i, bit)
		}
	}
}

func placeDataBits(dataBits *bitutil.BitArray, mask int, matrix *ByteMatrix) {
	width := matrix.width
	bitIndex := 0
	for j := width - 1; j > 0; j -= 2 {
		if j == 6 {
			// Skip the vertical timing column.
			j--
		}
		for count := 0; count < width; count++ {
			upward := ((width-1-j)/2)&1 == 0
			i := count
			if upward {
				i = width - 1 - count
			}
			for col := 0; col < 2; col++ {
				x := j - col
				if matrix.Get(x, i) != emptyModule {
					continue
				}
				var bit bool
				if bitIndex < dataBits.Size() {
					bit = dataBits.Get(bitIndex)
					bitIndex++
				}
				if decoder.Masks[mask](i, x) {
					bit = !bit
				}
				matrix.SetBool(x, i, bit)
			}
		}
	}
}

func placeMicroFunctionPatterns(matrix *ByteMatrix) {
	width := matrix.width

	placeFinder(0, 0, matrix)

	// Separators along row and column 7.
	for i := 0; i < 8; i++ {
		matrix.Set(i, 7, 0)
		matrix.Set(7, i, 0)
	}

	// Timing patterns along the top edge and left edge.
	for i := 8; i < width; i++ {
		bit := byte((i + 1) % 2)
		matrix.Set(i, 0, bit)
		matrix.Set(0, i, bit)
	}
}

func placeMicroFormatInfo(version qrio.Version, level qrio.Level, mask int, matrix *ByteMatrix) {
	spec, err := microSpecFor(version, level)
	if err != nil {
		return
	}
	microMask := 0
	for i, m := range microMasks {
		if m == mask {
			microMask = i
		}
	}
	raw := spec.SymbolNumber<<2 | microMask
	bits := (raw<<10 | bchCode(raw, formatInfoPoly)) ^ microFormatInfoMask

	for i := 0; i < 15; i++ {
		bit := byte(bits >> uint(i) & 1)
		if i < 8 {
			matrix.Set(8, i+1, bit)
		} else {
			matrix.Set(15-i, 8, bit)
		}
	}
}

func placeMicroDataBits(dataBits *bitutil.BitArray, mask int, matrix *ByteMatrix) {
	width := matrix.width
	bitIndex := 0
	for j := width - 1; j > 0; j -= 2 {
		for count := 0; count < width; count++ {
			upward := ((width-1-j)/2)&1 == 0
			i := count
			if upward {
				i = width - 1 - count
			}
			for col := 0; col < 2; col++ {
				x := j - col
				if matrix.Get(x, i) != emptyModule {
					continue
				}
				var bit bool
				if bitIndex < dataBits.Size() {
					bit = dataBits.Get(bitIndex)
					bitIndex++
				}
				if decoder.Masks[mask](i, x) {
					bit = !bit
				}
				matrix.SetBool(x, i, bit)
			}
		}
	}
}
