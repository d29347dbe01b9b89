package encoder

import (
	"fmt"

	qrio "github.com/ericlevine/qrio"
	"github.com/ericlevine/qrio/bitutil"
)

// appendModeData appends the data bits of one segment, without the mode
// indicator or character count.
func appendModeData(data []byte, mode qrio.Mode, bits *bitutil.BitArray) error {
	if err := mode.Validate(data); err != nil {
		return err
	}
	switch mode {
	case qrio.Numeric:
		appendNumericData(data, bits)
	case qrio.Alphanumeric:
		appendAlphanumericData(data, bits)
	case qrio.Byte:
		for _, b := range data {
			bits.AppendBits(uint32(b), 8)
		}
	case qrio.Kanji:
		appendKanjiData(data, bits)
	}
	return nil
}

// appendNumericData packs digits in groups of three into 10, 7 or 4 bits.
func appendNumericData(data []byte, bits *bitutil.BitArray) {
	for i := 0; i < len(data); {
		d1 := int(data[i] - '0')
		switch {
		case i+2 < len(data):
			d2 := int(data[i+1] - '0')
			d3 := int(data[i+2] - '0')
			bits.AppendBits(uint32(d1*100+d2*10+d3), 10)
			i += 3
		case i+1 < len(data):
			d2 := int(data[i+1] - '0')
			bits.AppendBits(uint32(d1*10+d2), 7)
			i += 2
		default:
			bits.AppendBits(uint32(d1), 4)
			i++
		}
	}
}

// appendAlphanumericData packs character pairs into 11 bits and a trailing
// single character into 6.
func appendAlphanumericData(data []byte, bits *bitutil.BitArray) {
	for i := 0; i < len(data); {
		c1 := qrio.AlphanumericValue(data[i])
		if i+1 < len(data) {
			c2 := qrio.AlphanumericValue(data[i+1])
			bits.AppendBits(uint32(c1*45+c2), 11)
			i += 2
		} else {
			bits.AppendBits(uint32(c1), 6)
			i++
		}
	}
}

// appendKanjiData packs Shift JIS double-byte characters into 13 bits each.
func appendKanjiData(data []byte, bits *bitutil.BitArray) {
	for i := 0; i < len(data); i += 2 {
		value := int(data[i])<<8 | int(data[i+1])
		if value < 0xE040 {
			value -= 0x8140
		} else {
			value -= 0xC140
		}
		bits.AppendBits(uint32((value>>8)*0xC0+(value&0xFF)), 13)
	}
}

// charCount returns the value stored in the character count field.
func charCount(data []byte, mode qrio.Mode) int {
	if mode == qrio.Kanji {
		return len(data) / 2
	}
	return len(data)
}

// appendHeader appends the mode indicator and character count for version.
func appendHeader(data []byte, mode qrio.Mode, version qrio.Version, bits *bitutil.BitArray) error {
	indicator, err := mode.Indicator(version)
	if err != nil {
		return err
	}
	bits.AppendBits(uint32(indicator), version.ModeIndicatorWidth())

	countBits, err := mode.CountBits(version)
	if err != nil {
		return err
	}
	count := charCount(data, mode)
	if count >= 1<<uint(countBits) {
		return fmt.Errorf("%w: %d characters exceed the count field", qrio.ErrDataTooLong, count)
	}
	bits.AppendBits(uint32(count), countBits)
	return nil
}

// terminateAndPad fills bits up to capacityBits: the terminator, zero
// padding to a codeword boundary and alternating pad codewords. For
// versions whose final data codeword is 4 bits wide, the trailing half
// codeword is zero filled.
func terminateAndPad(bits *bitutil.BitArray, capacityBits, terminatorWidth int) error {
	if bits.Size() > capacityBits {
		return qrio.ErrDataTooLong
	}

	for i := 0; i < terminatorWidth && bits.Size() < capacityBits; i++ {
		bits.AppendBit(false)
	}

	if rem := bits.Size() & 0x07; rem > 0 {
		for i := rem; i < 8 && bits.Size() < capacityBits; i++ {
			bits.AppendBit(false)
		}
	}

	pad := true
	for bits.Size()+8 <= capacityBits {
		if pad {
			bits.AppendBits(0xEC, 8)
		} else {
			bits.AppendBits(0x11, 8)
		}
		pad = !pad
	}

	for bits.Size() < capacityBits {
		bits.AppendBit(false)
	}
	return nil
}
