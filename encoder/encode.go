// Package encoder builds QR and Micro QR symbols from raw content.
package encoder

import (
	"fmt"

	qrio "github.com/ericlevine/qrio"
	"github.com/ericlevine/qrio/bitutil"
	"github.com/ericlevine/qrio/decoder"
	"github.com/ericlevine/qrio/gf256"
)

// Options controls symbol construction. The zero value selects a regular
// symbol at level L with automatic version, mode and mask.
type Options struct {
	Level   qrio.Level
	Variant qrio.Variant

	// Version fixes the symbol version; 0 selects the smallest version
	// that fits. A fixed version is never upgraded: oversized content
	// fails instead.
	Version int

	// Mode fixes the encoding mode; nil selects the densest mode capable
	// of representing the content.
	Mode *qrio.Mode

	// Mask fixes the data mask pattern; nil scores all candidates. Micro
	// symbols only accept patterns 1, 4, 6 and 7.
	Mask *int
}

// Encode builds a symbol carrying data.
func Encode(data []byte, opts Options) (*qrio.Symbol, error) {
	mode := qrio.SelectMode(data)
	if opts.Mode != nil {
		mode = *opts.Mode
		if err := mode.Validate(data); err != nil {
			return nil, err
		}
	}

	dataBits := bitutil.NewBitArray(0)
	if err := appendModeData(data, mode, dataBits); err != nil {
		return nil, err
	}

	version, err := chooseVersion(data, mode, dataBits.Size(), opts)
	if err != nil {
		return nil, err
	}
	if !version.SupportsLevel(opts.Level) {
		return nil, fmt.Errorf("%w: level %s in %s symbol", qrio.ErrInvalidLevel, opts.Level, version)
	}

	bits := bitutil.NewBitArray(0)
	if err := appendHeader(data, mode, version, bits); err != nil {
		return nil, err
	}
	bits.AppendBitArray(dataBits)

	capacity, err := dataBitCapacity(version, opts.Level)
	if err != nil {
		return nil, err
	}
	if err := terminateAndPad(bits, capacity, version.TerminatorWidth()); err != nil {
		return nil, err
	}

	var finalBits *bitutil.BitArray
	if version.IsMicro() {
		finalBits, err = appendMicroECBytes(bits, version, opts.Level)
	} else {
		finalBits, err = interleaveWithECBytes(bits, version, opts.Level)
	}
	if err != nil {
		return nil, err
	}

	matrix := NewByteMatrix(version.Width(), version.Width())
	var mask int
	if opts.Mask != nil {
		mask = *opts.Mask
		if err := validateMask(mask, version); err != nil {
			return nil, err
		}
	} else {
		mask = chooseMask(finalBits, opts.Level, version, matrix)
	}
	buildMatrix(finalBits, opts.Level, version, mask, matrix)

	return qrio.NewSymbol(matrix.ToBitMatrix(), version, opts.Level, mask), nil
}

// chooseVersion returns the requested version, or the smallest one whose
// data capacity fits the header and content bits.
func chooseVersion(data []byte, mode qrio.Mode, dataBitCount int, opts Options) (qrio.Version, error) {
	if opts.Version > 0 {
		version, err := qrio.NewVersion(opts.Version, opts.Variant)
		if err != nil {
			return qrio.Version{}, err
		}
		fits, err := versionFits(data, mode, dataBitCount, version, opts.Level)
		if err != nil {
			return qrio.Version{}, err
		}
		if !fits {
			return qrio.Version{}, fmt.Errorf("%w: content does not fit %s-%s", qrio.ErrDataTooLong, version, opts.Level)
		}
		return version, nil
	}

	max := 40
	if opts.Variant == qrio.Micro {
		max = 4
	}
	for number := 1; number <= max; number++ {
		version, err := qrio.NewVersion(number, opts.Variant)
		if err != nil {
			return qrio.Version{}, err
		}
		if !mode.SupportedBy(version) || !version.SupportsLevel(opts.Level) {
			continue
		}
		fits, err := versionFits(data, mode, dataBitCount, version, opts.Level)
		if err != nil {
			continue
		}
		if fits {
			return version, nil
		}
	}
	return qrio.Version{}, fmt.Errorf("%w: content fits no %s version at level %s", qrio.ErrDataTooLong, opts.Variant, opts.Level)
}

func versionFits(data []byte, mode qrio.Mode, dataBitCount int, version qrio.Version, level qrio.Level) (bool, error) {
	countBits, err := mode.CountBits(version)
	if err != nil {
		return false, err
	}
	if charCount(data, mode) >= 1<<uint(countBits) {
		return false, nil
	}
	capacity, err := dataBitCapacity(version, level)
	if err != nil {
		return false, err
	}
	return version.ModeIndicatorWidth()+countBits+dataBitCount <= capacity, nil
}

// dataBitCapacity returns the number of usable data bits for a version and
// level.
func dataBitCapacity(version qrio.Version, level qrio.Level) (int, error) {
	if version.IsMicro() {
		spec, err := microSpecFor(version, level)
		if err != nil {
			return 0, err
		}
		return spec.DataBits, nil
	}
	info, err := decoder.VersionForNumber(version.Number)
	if err != nil {
		return 0, err
	}
	ecBlocks := info.ECBlocksFor(level)
	return (info.TotalCodewords - ecBlocks.TotalECCodewords()) * 8, nil
}

// interleaveWithECBytes splits the data codewords into blocks, computes
// each block's error correction and interleaves everything into the final
// codeword stream.
func interleaveWithECBytes(bits *bitutil.BitArray, version qrio.Version, level qrio.Level) (*bitutil.BitArray, error) {
	info, err := decoder.VersionForNumber(version.Number)
	if err != nil {
		return nil, err
	}
	ecBlocks := info.ECBlocksFor(level)
	if bits.SizeInBytes() != ecBlocks.TotalDataCodewords() {
		return nil, fmt.Errorf("%w: data codeword count mismatch", qrio.ErrConstruction)
	}

	type blockPair struct {
		data []byte
		ec   []byte
	}
	blocks := make([]blockPair, 0, ecBlocks.NumBlocks())
	maxData := 0
	offset := 0
	for _, group := range ecBlocks.Groups {
		for c := 0; c < group.Count; c++ {
			data := make([]byte, group.DataCodewords)
			bits.ToBytes(8*offset, data, 0, group.DataCodewords)
			offset += group.DataCodewords
			blocks = append(blocks, blockPair{
				data: data,
				ec:   computeECBytes(data, ecBlocks.ECCodewordsPerBlock),
			})
			if group.DataCodewords > maxData {
				maxData = group.DataCodewords
			}
		}
	}

	result := bitutil.NewBitArray(0)
	for i := 0; i < maxData; i++ {
		for _, block := range blocks {
			if i < len(block.data) {
				result.AppendBits(uint32(block.data[i]), 8)
			}
		}
	}
	for i := 0; i < ecBlocks.ECCodewordsPerBlock; i++ {
		for _, block := range blocks {
			result.AppendBits(uint32(block.ec[i]), 8)
		}
	}

	if result.SizeInBytes() != info.TotalCodewords {
		return nil, fmt.Errorf("%w: interleaved stream size mismatch", qrio.ErrConstruction)
	}
	return result, nil
}

// appendMicroECBytes extends the single data block with its error
// correction codewords. Micro symbols are never interleaved.
func appendMicroECBytes(bits *bitutil.BitArray, version qrio.Version, level qrio.Level) (*bitutil.BitArray, error) {
	spec, err := microSpecFor(version, level)
	if err != nil {
		return nil, err
	}
	if bits.Size() != spec.DataBits {
		return nil, fmt.Errorf("%w: data bit count mismatch", qrio.ErrConstruction)
	}

	// The final data codeword of M1 and M3 is 4 bits wide; ToBytes leaves
	// it in the high nibble, which is how error correction treats it.
	numData := (spec.DataBits + 7) / 8
	data := make([]byte, numData)
	bits.ToBytes(0, data, 0, numData)

	result := bits.Clone()
	for _, ec := range computeECBytes(data, spec.ECCodewords) {
		result.AppendBits(uint32(ec), 8)
	}
	return result, nil
}

func computeECBytes(data []byte, ecLen int) []byte {
	ints := make([]int, len(data))
	for i, b := range data {
		ints[i] = int(b)
	}
	ecc := gf256.ComputeECC(ints, ecLen)
	out := make([]byte, ecLen)
	for i, v := range ecc {
		out[i] = byte(v)
	}
	return out
}
