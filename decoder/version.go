// Package decoder turns a sampled module matrix back into the bytes it
// carries: format and version information, unmasking, codeword extraction,
// block de-interleaving, error correction and bit-stream parsing.
package decoder

import (
	"math/bits"

	qrio "github.com/ericlevine/qrio"
	"github.com/ericlevine/qrio/bitutil"
)

// BlockGroup describes a run of identically-sized error-correction blocks.
type BlockGroup struct {
	Count         int
	DataCodewords int
}

// ECBlocks describes the block structure for one version and level.
type ECBlocks struct {
	ECCodewordsPerBlock int
	Groups              []BlockGroup
}

// NumBlocks returns the total number of blocks.
func (ecb *ECBlocks) NumBlocks() int {
	total := 0
	for _, g := range ecb.Groups {
		total += g.Count
	}
	return total
}

// TotalECCodewords returns the total number of error-correction codewords.
func (ecb *ECBlocks) TotalECCodewords() int {
	return ecb.ECCodewordsPerBlock * ecb.NumBlocks()
}

// TotalDataCodewords returns the total number of data codewords.
func (ecb *ECBlocks) TotalDataCodewords() int {
	total := 0
	for _, g := range ecb.Groups {
		total += g.Count * g.DataCodewords
	}
	return total
}

// VersionInfo holds the table data for one QR version.
type VersionInfo struct {
	Number                  int
	AlignmentPatternCenters []int
	ECBlocksByLevel         [4]ECBlocks // indexed by qrio.Level
	TotalCodewords          int
}

// Width returns the module width for this version.
func (v *VersionInfo) Width() int {
	return 17 + 4*v.Number
}

// ECBlocksFor returns the block structure for the given level.
func (v *VersionInfo) ECBlocksFor(level qrio.Level) *ECBlocks {
	return &v.ECBlocksByLevel[level]
}

// FunctionPattern builds a matrix whose set bits mark modules occupied by
// function patterns and format or version information.
func (v *VersionInfo) FunctionPattern() *bitutil.BitMatrix {
	width := v.Width()
	bm := bitutil.NewBitMatrix(width)

	// Finder patterns with separators and format information.
	bm.SetRegion(0, 0, 9, 9)
	bm.SetRegion(width-8, 0, 8, 9)
	bm.SetRegion(0, width-8, 9, 8)

	// Alignment patterns, skipping the three finder corners.
	n := len(v.AlignmentPatternCenters)
	for x := 0; x < n; x++ {
		cy := v.AlignmentPatternCenters[x] - 2
		for y := 0; y < n; y++ {
			if (x == 0 && (y == 0 || y == n-1)) || (x == n-1 && y == 0) {
				continue
			}
			bm.SetRegion(v.AlignmentPatternCenters[y]-2, cy, 5, 5)
		}
	}

	// Timing patterns.
	bm.SetRegion(6, 9, 1, width-17)
	bm.SetRegion(9, 6, width-17, 1)

	if v.Number > 6 {
		bm.SetRegion(width-11, 0, 3, 6)
		bm.SetRegion(0, width-11, 6, 3)
	}

	return bm
}

// versionInfoCodes holds the BCH-protected version information for versions
// 7 through 40.
var versionInfoCodes = []int{
	0x07C94, 0x085BC, 0x09A99, 0x0A4D3, 0x0BBF6,
	0x0C762, 0x0D847, 0x0E60D, 0x0F928, 0x10B78,
	0x1145D, 0x12A17, 0x13532, 0x149A6, 0x15683,
	0x168C9, 0x177EC, 0x18EC4, 0x191E1, 0x1AFAB,
	0x1B08E, 0x1CC1A, 0x1D33F, 0x1ED75, 0x1F250,
	0x209D5, 0x216F0, 0x228BA, 0x2379F, 0x24B0B,
	0x2542E, 0x26A64, 0x27541, 0x28C69,
}

// VersionInfoCode returns the 18-bit version information value for a
// version number of 7 or higher.
func VersionInfoCode(number int) int {
	return versionInfoCodes[number-7]
}

// VersionForNumber returns the table entry for a version number.
func VersionForNumber(number int) (*VersionInfo, error) {
	if number < 1 || number > 40 {
		return nil, qrio.ErrInvalidVersion
	}
	return &versionTable[number-1], nil
}

// VersionForWidth returns the table entry for a symbol of the given module
// width.
func VersionForWidth(width int) (*VersionInfo, error) {
	if width%4 != 1 {
		return nil, qrio.ErrInvalidVersion
	}
	return VersionForNumber((width - 17) / 4)
}

// DecodeVersionInfo decodes raw version information bits, tolerating up to
// three bit errors. It returns nil when no version is close enough.
func DecodeVersionInfo(versionBits int) *VersionInfo {
	bestDifference := 32
	bestVersion := 0
	for i, target := range versionInfoCodes {
		if target == versionBits {
			return &versionTable[i+6]
		}
		if diff := bits.OnesCount(uint(versionBits ^ target)); diff < bestDifference {
			bestVersion = i + 7
			bestDifference = diff
		}
	}
	if bestDifference <= 3 {
		return &versionTable[bestVersion-1]
	}
	return nil
}

func vi(number int, align []int, l, m, q, h ECBlocks) VersionInfo {
	v := VersionInfo{
		Number:                  number,
		AlignmentPatternCenters: align,
		ECBlocksByLevel:         [4]ECBlocks{l, m, q, h},
	}
	for _, g := range l.Groups {
		v.TotalCodewords += g.Count * (g.DataCodewords + l.ECCodewordsPerBlock)
	}
	return v
}

func eb(ecPerBlock int, groups ...BlockGroup) ECBlocks {
	return ECBlocks{ECCodewordsPerBlock: ecPerBlock, Groups: groups}
}

func g(count, dataCodewords int) BlockGroup {
	return BlockGroup{Count: count, DataCodewords: dataCodewords}
}

var versionTable = [40]VersionInfo{
	vi(1, nil, eb(7, g(1, 19)), eb(10, g(1, 16)), eb(13, g(1, 13)), eb(17, g(1, 9))),
	vi(2, []int{6, 18}, eb(10, g(1, 34)), eb(16, g(1, 28)), eb(22, g(1, 22)), eb(28, g(1, 16))),
	vi(3, []int{6, 22}, eb(15, g(1, 55)), eb(26, g(1, 44)), eb(18, g(2, 17)), eb(22, g(2, 13))),
	vi(4, []int{6, 26}, eb(20, g(1, 80)), eb(18, g(2, 32)), eb(26, g(2, 24)), eb(16, g(4, 9))),
	vi(5, []int{6, 30}, eb(26, g(1, 108)), eb(24, g(2, 43)), eb(18, g(2, 15), g(2, 16)), eb(22, g(2, 11), g(2, 12))),
	vi(6, []int{6, 34}, eb(18, g(2, 68)), eb(16, g(4, 27)), eb(24, g(4, 19)), eb(28, g(4, 15))),
	vi(7, []int{6, 22, 38}, eb(20, g(2, 78)), eb(18, g(4, 31)), eb(18, g(2, 14), g(4, 15)), eb(26, g(4, 13), g(1, 14))),
	vi(8, []int{6, 24, 42}, eb(24, g(2, 97)), eb(22, g(2, 38), g(2, 39)), eb(22, g(4, 18), g(2, 19)), eb(26, g(4, 14), g(2, 15))),
	vi(9, []int{6, 26, 46}, eb(30, g(2, 116)), eb(22, g(3, 36), g(2, 37)), eb(20, g(4, 16), g(4, 17)), eb(24, g(4, 12), g(4, 13))),
	vi(10, []int{6, 28, 50}, eb(18, g(2, 68), g(2, 69)), eb(26, g(4, 43), g(1, 44)), eb(24, g(6, 19), g(2, 20)), eb(28, g(6, 15), g(2, 16))),
	vi(11, []int{6, 30, 54}, eb(20, g(4, 81)), eb(30, g(1, 50), g(4, 51)), eb(28, g(4, 22), g(4, 23)), eb(24, g(3, 12), g(8, 13))),
	vi(12, []int{6, 32, 58}, eb(24, g(2, 92), g(2, 93)), eb(22, g(6, 36), g(2, 37)), eb(26, g(4, 20), g(6, 21)), eb(28, g(7, 14), g(4, 15))),
	vi(13, []int{6, 34, 62}, eb(26, g(4, 107)), eb(22, g(8, 37), g(1, 38)), eb(24, g(8, 20), g(4, 21)), eb(22, g(12, 11), g(4, 12))),
	vi(14, []int{6, 26, 46, 66}, eb(30, g(3, 115), g(1, 116)), eb(24, g(4, 40), g(5, 41)), eb(20, g(11, 16), g(5, 17)), eb(24, g(11, 12), g(5, 13))),
	vi(15, []int{6, 26, 48, 70}, eb(22, g(5, 87), g(1, 88)), eb(24, g(5, 41), g(5, 42)), eb(30, g(5, 24), g(7, 25)), eb(24, g(11, 12), g(7, 13))),
	vi(16, []int{6, 26, 50, 74}, eb(24, g(5, 98), g(1, 99)), eb(28, g(7, 45), g(3, 46)), eb(24, g(15, 19), g(2, 20)), eb(30, g(3, 15), g(13, 16))),
	vi(17, []int{6, 30, 54, 78}, eb(28, g(1, 107), g(5, 108)), eb(28, g(10, 46), g(1, 47)), eb(28, g(1, 22), g(15, 23)), eb(28, g(2, 14), g(17, 15))),
	vi(18, []int{6, 30, 56, 82}, eb(30, g(5, 120), g(1, 121)), eb(26, g(9, 43), g(4, 44)), eb(28, g(17, 22), g(1, 23)), eb(28, g(2, 14), g(19, 15))),
	vi(19, []int{6, 30, 58, 86}, eb(28, g(3, 113), g(4, 114)), eb(26, g(3, 44), g(11, 45)), eb(26, g(17, 21), g(4, 22)), eb(26, g(9, 13), g(16, 14))),
	vi(20, []int{6, 34, 62, 90}, eb(28, g(3, 107), g(5, 108)), eb(26, g(3, 41), g(13, 42)), eb(30, g(15, 24), g(5, 25)), eb(28, g(15, 15), g(10, 16))),
	vi(21, []int{6, 28, 50, 72, 94}, eb(28, g(4, 116), g(4, 117)), eb(26, g(17, 42)), eb(28, g(17, 22), g(6, 23)), eb(30, g(19, 16), g(6, 17))),
	vi(22, []int{6, 26, 50, 74, 98}, eb(28, g(2, 111), g(7, 112)), eb(28, g(17, 46)), eb(30, g(7, 24), g(16, 25)), eb(24, g(34, 13))),
	vi(23, []int{6, 30, 54, 78, 102}, eb(30, g(4, 121), g(5, 122)), eb(28, g(4, 47), g(14, 48)), eb(30, g(11, 24), g(14, 25)), eb(30, g(16, 15), g(14, 16))),
	vi(24, []int{6, 28, 54, 80, 106}, eb(30, g(6, 117), g(4, 118)), eb(28, g(6, 45), g(14, 46)), eb(30, g(11, 24), g(16, 25)), eb(30, g(30, 16), g(2, 17))),
	vi(25, []int{6, 32, 58, 84, 110}, eb(26, g(8, 106), g(4, 107)), eb(28, g(8, 47), g(13, 48)), eb(30, g(7, 24), g(22, 25)), eb(30, g(22, 15), g(13, 16))),
	vi(26, []int{6, 30, 58, 86, 114}, eb(28, g(10, 114), g(2, 115)), eb(28, g(19, 46), g(4, 47)), eb(28, g(28, 22), g(6, 23)), eb(30, g(33, 16), g(4, 17))),
	vi(27, []int{6, 34, 62, 90, 118}, eb(30, g(8, 122), g(4, 123)), eb(28, g(22, 45), g(3, 46)), eb(30, g(8, 23), g(26, 24)), eb(30, g(12, 15), g(28, 16))),
	vi(28, []int{6, 26, 50, 74, 98, 122}, eb(30, g(3, 117), g(10, 118)), eb(28, g(3, 45), g(23, 46)), eb(30, g(4, 24), g(31, 25)), eb(30, g(11, 15), g(31, 16))),
	vi(29, []int{6, 30, 54, 78, 102, 126}, eb(30, g(7, 116), g(7, 117)), eb(28, g(21, 45), g(7, 46)), eb(30, g(1, 23), g(37, 24)), eb(30, g(19, 15), g(26, 16))),
	vi(30, []int{6, 26, 52, 78, 104, 130}, eb(30, g(5, 115), g(10, 116)), eb(28, g(19, 47), g(10, 48)), eb(30, g(15, 24), g(25, 25)), eb(30, g(23, 15), g(25, 16))),
	vi(31, []int{6, 30, 56, 82, 108, 134}, eb(30, g(13, 115), g(3, 116)), eb(28, g(2, 46), g(29, 47)), eb(30, g(42, 24), g(1, 25)), eb(30, g(23, 15), g(28, 16))),
	vi(32, []int{6, 34, 60, 86, 112, 138}, eb(30, g(17, 115)), eb(28, g(10, 46), g(23, 47)), eb(30, g(10, 24), g(35, 25)), eb(30, g(19, 15), g(35, 16))),
	vi(33, []int{6, 30, 58, 86, 114, 142}, eb(30, g(17, 115), g(1, 116)), eb(28, g(14, 46), g(21, 47)), eb(30, g(29, 24), g(19, 25)), eb(30, g(11, 15), g(46, 16))),
	vi(34, []int{6, 34, 62, 90, 118, 146}, eb(30, g(13, 115), g(6, 116)), eb(28, g(14, 46), g(23, 47)), eb(30, g(44, 24), g(7, 25)), eb(30, g(59, 16), g(1, 17))),
	vi(35, []int{6, 30, 54, 78, 102, 126, 150}, eb(30, g(12, 121), g(7, 122)), eb(28, g(12, 47), g(26, 48)), eb(30, g(39, 24), g(14, 25)), eb(30, g(22, 15), g(41, 16))),
	vi(36, []int{6, 24, 50, 76, 102, 128, 154}, eb(30, g(6, 121), g(14, 122)), eb(28, g(6, 47), g(34, 48)), eb(30, g(46, 24), g(10, 25)), eb(30, g(2, 15), g(64, 16))),
	vi(37, []int{6, 28, 54, 80, 106, 132, 158}, eb(30, g(17, 122), g(4, 123)), eb(28, g(29, 46), g(14, 47)), eb(30, g(49, 24), g(10, 25)), eb(30, g(24, 15), g(46, 16))),
	vi(38, []int{6, 32, 58, 84, 110, 136, 162}, eb(30, g(4, 122), g(18, 123)), eb(28, g(13, 46), g(32, 47)), eb(30, g(48, 24), g(14, 25)), eb(30, g(42, 15), g(32, 16))),
	vi(39, []int{6, 26, 54, 82, 110, 138, 166}, eb(30, g(20, 117), g(4, 118)), eb(28, g(40, 47), g(7, 48)), eb(30, g(43, 24), g(22, 25)), eb(30, g(10, 15), g(67, 16))),
	vi(40, []int{6, 30, 58, 86, 114, 142, 170}, eb(30, g(19, 118), g(6, 119)), eb(28, g(18, 47), g(31, 48)), eb(30, g(34, 24), g(34, 25)), eb(30, g(20, 15), g(61, 16))),
}
