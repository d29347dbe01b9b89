package decoder

import (
	qrio "github.com/ericlevine/qrio"
	"github.com/ericlevine/qrio/bitutil"
)

// bitMatrixParser reads format information, version information and raw
// codewords out of a sampled module matrix.
type bitMatrixParser struct {
	matrix     *bitutil.BitMatrix
	version    *VersionInfo
	formatInfo *FormatInfo
	mirrored   bool
}

func newBitMatrixParser(matrix *bitutil.BitMatrix) (*bitMatrixParser, error) {
	width := matrix.Height()
	if width < 21 || width&0x03 != 1 {
		return nil, qrio.ErrFormatInfo
	}
	return &bitMatrixParser{matrix: matrix}, nil
}

// readFormatInfo reads format information from its two redundant
// placements around the finder patterns.
func (p *bitMatrixParser) readFormatInfo() (*FormatInfo, error) {
	if p.formatInfo != nil {
		return p.formatInfo, nil
	}

	// Copy around the top-left finder pattern.
	bits1 := 0
	for i := 0; i < 6; i++ {
		bits1 = p.copyBit(i, 8, bits1)
	}
	bits1 = p.copyBit(7, 8, bits1)
	bits1 = p.copyBit(8, 8, bits1)
	bits1 = p.copyBit(8, 7, bits1)
	for j := 5; j >= 0; j-- {
		bits1 = p.copyBit(8, j, bits1)
	}

	// Copy split between the other two finder patterns.
	width := p.matrix.Height()
	bits2 := 0
	for j := width - 1; j >= width-7; j-- {
		bits2 = p.copyBit(8, j, bits2)
	}
	for i := width - 8; i < width; i++ {
		bits2 = p.copyBit(i, 8, bits2)
	}

	p.formatInfo = DecodeFormatInfo(bits1, bits2)
	if p.formatInfo == nil {
		return nil, qrio.ErrFormatInfo
	}
	return p.formatInfo, nil
}

// readVersion determines the version, using the version information blocks
// for symbols large enough to carry them.
func (p *bitMatrixParser) readVersion() (*VersionInfo, error) {
	if p.version != nil {
		return p.version, nil
	}

	width := p.matrix.Height()
	provisional := (width - 17) / 4
	if provisional <= 6 {
		return VersionForNumber(provisional)
	}

	// Top-right block, 3 wide by 6 tall.
	versionBits := 0
	min := width - 11
	for j := 5; j >= 0; j-- {
		for i := width - 9; i >= min; i-- {
			versionBits = p.copyBit(i, j, versionBits)
		}
	}
	if v := DecodeVersionInfo(versionBits); v != nil && v.Width() == width {
		p.version = v
		return v, nil
	}

	// Bottom-left block, 6 wide by 3 tall.
	versionBits = 0
	for i := 5; i >= 0; i-- {
		for j := width - 9; j >= min; j-- {
			versionBits = p.copyBit(i, j, versionBits)
		}
	}
	if v := DecodeVersionInfo(versionBits); v != nil && v.Width() == width {
		p.version = v
		return v, nil
	}
	return nil, qrio.ErrFormatInfo
}

func (p *bitMatrixParser) copyBit(i, j, versionBits int) int {
	var bit bool
	if p.mirrored {
		bit = p.matrix.Get(j, i)
	} else {
		bit = p.matrix.Get(i, j)
	}
	if bit {
		return versionBits<<1 | 0x1
	}
	return versionBits << 1
}

// readCodewords unmasks the matrix and reads the interleaved codewords in
// the two-column zigzag order.
func (p *bitMatrixParser) readCodewords() ([]byte, error) {
	formatInfo, err := p.readFormatInfo()
	if err != nil {
		return nil, err
	}
	version, err := p.readVersion()
	if err != nil {
		return nil, err
	}

	Unmask(p.matrix, p.matrix.Height(), int(formatInfo.Mask))
	functionPattern := version.FunctionPattern()

	result := make([]byte, version.TotalCodewords)
	resultOffset := 0
	currentByte := 0
	bitsRead := 0
	width := p.matrix.Height()
	readingUp := true

	for j := width - 1; j > 0; j -= 2 {
		if j == 6 {
			// Skip the vertical timing column.
			j--
		}
		for count := 0; count < width; count++ {
			i := count
			if readingUp {
				i = width - 1 - count
			}
			for col := 0; col < 2; col++ {
				if functionPattern.Get(j-col, i) {
					continue
				}
				bitsRead++
				currentByte <<= 1
				if p.matrix.Get(j-col, i) {
					currentByte |= 1
				}
				if bitsRead == 8 {
					result[resultOffset] = byte(currentByte)
					resultOffset++
					bitsRead = 0
					currentByte = 0
				}
			}
		}
		readingUp = !readingUp
	}

	if resultOffset != version.TotalCodewords {
		return nil, qrio.ErrFormatInfo
	}
	return result, nil
}

// remask reapplies the data mask, undoing readCodewords' unmasking.
func (p *bitMatrixParser) remask() {
	if p.formatInfo != nil {
		Unmask(p.matrix, p.matrix.Height(), int(p.formatInfo.Mask))
	}
}

// setMirrored resets cached parses for a mirrored reading attempt.
func (p *bitMatrixParser) setMirrored(mirrored bool) {
	p.version = nil
	p.formatInfo = nil
	p.mirrored = mirrored
}

// mirror transposes the matrix in place.
func (p *bitMatrixParser) mirror() {
	for x := 0; x < p.matrix.Width(); x++ {
		for y := x + 1; y < p.matrix.Height(); y++ {
			if p.matrix.Get(x, y) != p.matrix.Get(y, x) {
				p.matrix.Flip(y, x)
				p.matrix.Flip(x, y)
			}
		}
	}
}
