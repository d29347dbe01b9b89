package decoder

import (
	"math/bits"

	qrio "github.com/ericlevine/qrio"
)

// FormatInfoMask is XORed onto the 15 format information bits before they
// are placed in the symbol.
const FormatInfoMask = 0x5412

// FormatInfo is a symbol's decoded format information: the error
// correction level and the data mask index.
type FormatInfo struct {
	Level qrio.Level
	Mask  byte
}

// formatInfoCodes maps each masked 15-bit format value to the 5 raw bits
// (level bits followed by mask index) it protects.
var formatInfoCodes = [][2]int{
	{0x5412, 0x00}, {0x5125, 0x01}, {0x5E7C, 0x02}, {0x5B4B, 0x03},
	{0x45F9, 0x04}, {0x40CE, 0x05}, {0x4F97, 0x06}, {0x4AA0, 0x07},
	{0x77C4, 0x08}, {0x72F3, 0x09}, {0x7DAA, 0x0A}, {0x789D, 0x0B},
	{0x662F, 0x0C}, {0x6318, 0x0D}, {0x6C41, 0x0E}, {0x6976, 0x0F},
	{0x1689, 0x10}, {0x13BE, 0x11}, {0x1CE7, 0x12}, {0x19D0, 0x13},
	{0x0762, 0x14}, {0x0255, 0x15}, {0x0D0C, 0x16}, {0x083B, 0x17},
	{0x355F, 0x18}, {0x3068, 0x19}, {0x3F31, 0x1A}, {0x3A06, 0x1B},
	{0x24B4, 0x1C}, {0x2183, 0x1D}, {0x2EDA, 0x1E}, {0x2BED, 0x1F},
}

func newFormatInfo(raw int) *FormatInfo {
	level, _ := qrio.LevelForIndicatorBits((raw >> 3) & 0x03)
	return &FormatInfo{Level: level, Mask: byte(raw & 0x07)}
}

// DecodeFormatInfo decodes the format information from the two masked
// copies read out of a symbol, tolerating up to three bit errors. It
// returns nil when neither copy is close enough to any valid value.
func DecodeFormatInfo(masked1, masked2 int) *FormatInfo {
	if fi := decodeFormatInfo(masked1, masked2); fi != nil {
		return fi
	}
	// Some producers forget the final mask step.
	return decodeFormatInfo(masked1^FormatInfoMask, masked2^FormatInfoMask)
}

func decodeFormatInfo(masked1, masked2 int) *FormatInfo {
	bestDifference := 32
	bestRaw := 0
	for _, entry := range formatInfoCodes {
		target := entry[0]
		if target == masked1 || target == masked2 {
			return newFormatInfo(entry[1])
		}
		if diff := bits.OnesCount(uint(masked1 ^ target)); diff < bestDifference {
			bestRaw = entry[1]
			bestDifference = diff
		}
		if masked1 != masked2 {
			if diff := bits.OnesCount(uint(masked2 ^ target)); diff < bestDifference {
				bestRaw = entry[1]
				bestDifference = diff
			}
		}
	}
	if bestDifference <= 3 {
		return newFormatInfo(bestRaw)
	}
	return nil
}
