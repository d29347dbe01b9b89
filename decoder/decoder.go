package decoder

import (
	qrio "github.com/ericlevine/qrio"
	"github.com/ericlevine/qrio/bitutil"
	"github.com/ericlevine/qrio/gf256"
)

// Result is the outcome of decoding one symbol.
type Result struct {
	// Payload holds the content bytes as the producer packed them. Kanji
	// and hanzi segments contribute their Shift JIS or GB 2312 bytes.
	Payload []byte

	// Text renders the content as UTF-8.
	Text string

	Version qrio.Version
	Level   qrio.Level
	Mask    int

	// ErrorsCorrected counts the codeword errors repaired across all
	// blocks.
	ErrorsCorrected int

	// SymbolSequence and Parity describe a structured-append sequence, or
	// are -1 when the symbol is standalone.
	SymbolSequence int
	Parity         int
}

// Decode reads a sampled module matrix into its carried content. The
// matrix is tried as-is first and mirrored second.
func Decode(matrix *bitutil.BitMatrix) (*Result, error) {
	parser, err := newBitMatrixParser(matrix)
	if err != nil {
		return nil, err
	}

	result, firstErr := decodeParser(parser)
	if firstErr == nil {
		return result, nil
	}

	// A transposed sampling still has valid finder geometry. Re-read the
	// mirrored matrix before giving up.
	parser.remask()
	parser.setMirrored(true)
	if _, err := parser.readVersion(); err != nil {
		return nil, firstErr
	}
	if _, err := parser.readFormatInfo(); err != nil {
		return nil, firstErr
	}
	parser.mirror()

	result, err = decodeParser(parser)
	if err != nil {
		return nil, firstErr
	}
	return result, nil
}

func decodeParser(parser *bitMatrixParser) (*Result, error) {
	version, err := parser.readVersion()
	if err != nil {
		return nil, err
	}
	formatInfo, err := parser.readFormatInfo()
	if err != nil {
		return nil, err
	}

	codewords, err := parser.readCodewords()
	if err != nil {
		return nil, err
	}

	blocks := DeinterleaveBlocks(codewords, version, formatInfo.Level)

	totalBytes := 0
	for _, block := range blocks {
		totalBytes += block.NumDataCodewords
	}
	data := make([]byte, 0, totalBytes)

	errorsCorrected := 0
	for _, block := range blocks {
		corrected, err := correctBlock(block.Codewords, block.NumDataCodewords)
		if err != nil {
			return nil, err
		}
		errorsCorrected += corrected
		data = append(data, block.Codewords[:block.NumDataCodewords]...)
	}

	payload, text, sequence, parity, err := parseBitStream(data, version)
	if err != nil {
		return nil, err
	}

	symbolVersion, err := qrio.NewVersion(version.Number, qrio.Normal)
	if err != nil {
		return nil, err
	}
	return &Result{
		Payload:         payload,
		Text:            text,
		Version:         symbolVersion,
		Level:           formatInfo.Level,
		Mask:            int(formatInfo.Mask),
		ErrorsCorrected: errorsCorrected,
		SymbolSequence:  sequence,
		Parity:          parity,
	}, nil
}

// correctBlock repairs one block in place and returns the number of
// codeword errors corrected.
func correctBlock(codewords []byte, numDataCodewords int) (int, error) {
	ints := make([]int, len(codewords))
	for i, b := range codewords {
		ints[i] = int(b)
	}
	corrected, err := gf256.Correct(ints, len(codewords)-numDataCodewords)
	if err != nil {
		return 0, qrio.ErrUncorrectable
	}
	for i := 0; i < numDataCodewords; i++ {
		codewords[i] = byte(ints[i])
	}
	return corrected, nil
}
