package decoder

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/simplifiedchinese"

	qrio "github.com/ericlevine/qrio"
	"github.com/ericlevine/qrio/bitutil"
)

const alphanumericChars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"

// Segment mode indicator values, including the control modes that carry no
// character data.
const (
	modeTerminator       = 0x00
	modeNumeric          = 0x01
	modeAlphanumeric     = 0x02
	modeStructuredAppend = 0x03
	modeByte             = 0x04
	modeFNC1First        = 0x05
	modeECI              = 0x07
	modeKanji            = 0x08
	modeFNC1Second       = 0x09
	modeHanzi            = 0x0D
)

const gb2312Subset = 1

func countBitsFor(mode int, version *VersionInfo) int {
	var table [3]int
	switch mode {
	case modeNumeric:
		table = [3]int{10, 12, 14}
	case modeAlphanumeric:
		table = [3]int{9, 11, 13}
	case modeByte:
		table = [3]int{8, 16, 16}
	case modeKanji, modeHanzi:
		table = [3]int{8, 10, 12}
	}
	switch {
	case version.Number <= 9:
		return table[0]
	case version.Number <= 26:
		return table[1]
	default:
		return table[2]
	}
}

// segmentData accumulates decoded segments twice over: payload keeps the
// bytes a producer packed, text renders them as UTF-8. The two differ only
// for kanji and hanzi segments, whose payload stays in the source encoding.
type segmentData struct {
	payload bytes.Buffer
	text    strings.Builder
}

func (sd *segmentData) Write(p []byte) (int, error) {
	sd.payload.Write(p)
	return sd.text.Write(p)
}

func (sd *segmentData) WriteByte(b byte) error {
	sd.payload.WriteByte(b)
	return sd.text.WriteByte(b)
}

// parseBitStream walks the segment stream of de-interleaved, corrected
// data codewords and assembles the carried content.
func parseBitStream(data []byte, version *VersionInfo) (payload []byte, text string, sequence, parity int, err error) {
	bs := bitutil.NewBitSource(data)
	var result segmentData
	sequence = -1
	parity = -1

	for {
		mode := modeTerminator
		if bs.Available() >= 4 {
			modeBits, rerr := bs.ReadBits(4)
			if rerr != nil {
				return nil, "", 0, 0, qrio.ErrFormatInfo
			}
			mode = modeBits
		}
		if mode == modeTerminator {
			break
		}

		switch mode {
		case modeFNC1First, modeFNC1Second:
			// FNC1 markers carry no data of their own.
		case modeStructuredAppend:
			if bs.Available() < 16 {
				return nil, "", 0, 0, qrio.ErrFormatInfo
			}
			sequence, _ = bs.ReadBits(8)
			parity, _ = bs.ReadBits(8)
		case modeECI:
			if _, err := parseECIValue(bs); err != nil {
				return nil, "", 0, 0, err
			}
		case modeNumeric:
			count, rerr := bs.ReadBits(countBitsFor(mode, version))
			if rerr != nil {
				return nil, "", 0, 0, qrio.ErrFormatInfo
			}
			if err := parseNumericSegment(bs, &result, count); err != nil {
				return nil, "", 0, 0, err
			}
		case modeAlphanumeric:
			count, rerr := bs.ReadBits(countBitsFor(mode, version))
			if rerr != nil {
				return nil, "", 0, 0, qrio.ErrFormatInfo
			}
			if err := parseAlphanumericSegment(bs, &result, count); err != nil {
				return nil, "", 0, 0, err
			}
		case modeByte:
			count, rerr := bs.ReadBits(countBitsFor(mode, version))
			if rerr != nil {
				return nil, "", 0, 0, qrio.ErrFormatInfo
			}
			if err := parseByteSegment(bs, &result, count); err != nil {
				return nil, "", 0, 0, err
			}
		case modeKanji:
			count, rerr := bs.ReadBits(countBitsFor(mode, version))
			if rerr != nil {
				return nil, "", 0, 0, qrio.ErrFormatInfo
			}
			if err := parseKanjiSegment(bs, &result, count); err != nil {
				return nil, "", 0, 0, err
			}
		case modeHanzi:
			subset, rerr := bs.ReadBits(4)
			if rerr != nil {
				return nil, "", 0, 0, qrio.ErrFormatInfo
			}
			count, rerr := bs.ReadBits(countBitsFor(mode, version))
			if rerr != nil {
				return nil, "", 0, 0, qrio.ErrFormatInfo
			}
			if subset == gb2312Subset {
				if err := parseHanziSegment(bs, &result, count); err != nil {
					return nil, "", 0, 0, err
				}
			}
		default:
			return nil, "", 0, 0, qrio.ErrFormatInfo
		}
	}

	return result.payload.Bytes(), result.text.String(), sequence, parity, nil
}

func parseNumericSegment(bs *bitutil.BitSource, result *segmentData, count int) error {
	for count >= 3 {
		if bs.Available() < 10 {
			return qrio.ErrFormatInfo
		}
		three, _ := bs.ReadBits(10)
		if three >= 1000 {
			return qrio.ErrFormatInfo
		}
		fmt.Fprintf(result, "%03d", three)
		count -= 3
	}
	if count == 2 {
		if bs.Available() < 7 {
			return qrio.ErrFormatInfo
		}
		two, _ := bs.ReadBits(7)
		if two >= 100 {
			return qrio.ErrFormatInfo
		}
		fmt.Fprintf(result, "%02d", two)
	} else if count == 1 {
		if bs.Available() < 4 {
			return qrio.ErrFormatInfo
		}
		digit, _ := bs.ReadBits(4)
		if digit >= 10 {
			return qrio.ErrFormatInfo
		}
		result.WriteByte('0' + byte(digit))
	}
	return nil
}

func parseAlphanumericSegment(bs *bitutil.BitSource, result *segmentData, count int) error {
	for count > 1 {
		if bs.Available() < 11 {
			return qrio.ErrFormatInfo
		}
		pair, _ := bs.ReadBits(11)
		if pair/45 >= len(alphanumericChars) {
			return qrio.ErrFormatInfo
		}
		result.WriteByte(alphanumericChars[pair/45])
		result.WriteByte(alphanumericChars[pair%45])
		count -= 2
	}
	if count == 1 {
		if bs.Available() < 6 {
			return qrio.ErrFormatInfo
		}
		val, _ := bs.ReadBits(6)
		if val >= len(alphanumericChars) {
			return qrio.ErrFormatInfo
		}
		result.WriteByte(alphanumericChars[val])
	}
	return nil
}

func parseByteSegment(bs *bitutil.BitSource, result *segmentData, count int) error {
	if 8*count > bs.Available() {
		return qrio.ErrFormatInfo
	}
	for i := 0; i < count; i++ {
		val, _ := bs.ReadBits(8)
		result.WriteByte(byte(val))
	}
	return nil
}

func parseKanjiSegment(bs *bitutil.BitSource, result *segmentData, count int) error {
	if 13*count > bs.Available() {
		return qrio.ErrFormatInfo
	}
	buf := make([]byte, 0, 2*count)
	for ; count > 0; count-- {
		packed, _ := bs.ReadBits(13)
		assembled := (packed/0x0C0)<<8 | packed%0x0C0
		if assembled < 0x1F00 {
			assembled += 0x8140
		} else {
			assembled += 0xC140
		}
		buf = append(buf, byte(assembled>>8), byte(assembled))
	}
	return writeDecoded(result, buf, japanese.ShiftJIS.NewDecoder())
}

func parseHanziSegment(bs *bitutil.BitSource, result *segmentData, count int) error {
	if 13*count > bs.Available() {
		return qrio.ErrFormatInfo
	}
	buf := make([]byte, 0, 2*count)
	for ; count > 0; count-- {
		packed, _ := bs.ReadBits(13)
		assembled := (packed/0x060)<<8 | packed%0x060
		if assembled < 0x0A00 {
			assembled += 0xA1A1
		} else {
			assembled += 0xA6A1
		}
		buf = append(buf, byte(assembled>>8), byte(assembled))
	}
	return writeDecoded(result, buf, simplifiedchinese.GB18030.NewDecoder())
}

func writeDecoded(result *segmentData, raw []byte, dec *encoding.Decoder) error {
	decoded, err := dec.Bytes(raw)
	if err != nil {
		return qrio.ErrFormatInfo
	}
	result.payload.Write(raw)
	result.text.Write(decoded)
	return nil
}

// parseECIValue reads a variable-width ECI designator.
func parseECIValue(bs *bitutil.BitSource) (int, error) {
	first, err := bs.ReadBits(8)
	if err != nil {
		return 0, qrio.ErrFormatInfo
	}
	switch {
	case first&0x80 == 0:
		return first & 0x7F, nil
	case first&0xC0 == 0x80:
		second, _ := bs.ReadBits(8)
		return (first&0x3F)<<8 | second, nil
	case first&0xE0 == 0xC0:
		rest, _ := bs.ReadBits(16)
		return (first&0x1F)<<16 | rest, nil
	}
	return 0, qrio.ErrFormatInfo
}
