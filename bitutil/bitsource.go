package bitutil

import "errors"

// ErrOutOfBits is returned when a read asks for more bits than remain.
var ErrOutOfBits = errors.New("bitutil: not enough bits")

// BitSource reads runs of bits from a byte sequence, most-significant bit
// of each byte first.
type BitSource struct {
	bytes      []byte
	byteOffset int
	bitOffset  int
}

// NewBitSource creates a BitSource over bytes.
func NewBitSource(bytes []byte) *BitSource {
	return &BitSource{bytes: bytes}
}

// BitOffset returns the index of the next bit within the current byte.
func (bs *BitSource) BitOffset() int { return bs.bitOffset }

// ByteOffset returns the index of the next byte to be read.
func (bs *BitSource) ByteOffset() int { return bs.byteOffset }

// Available returns the number of bits that can still be read.
func (bs *BitSource) Available() int {
	return 8*(len(bs.bytes)-bs.byteOffset) - bs.bitOffset
}

// ReadBits reads numBits bits and returns them as the least-significant
// bits of the result. numBits must be between 1 and 32 and no larger than
// Available.
func (bs *BitSource) ReadBits(numBits int) (int, error) {
	if numBits < 1 || numBits > 32 || numBits > bs.Available() {
		return 0, ErrOutOfBits
	}

	result := 0

	// Finish the current byte first.
	if bs.bitOffset > 0 {
		bitsLeft := 8 - bs.bitOffset
		toRead := numBits
		if toRead > bitsLeft {
			toRead = bitsLeft
		}
		unread := bitsLeft - toRead
		mask := (0xFF >> uint(8-toRead)) << uint(unread)
		result = (int(bs.bytes[bs.byteOffset]) & mask) >> uint(unread)
		numBits -= toRead
		bs.bitOffset += toRead
		if bs.bitOffset == 8 {
			bs.bitOffset = 0
			bs.byteOffset++
		}
	}

	for numBits >= 8 {
		result = result<<8 | int(bs.bytes[bs.byteOffset])
		bs.byteOffset++
		numBits -= 8
	}

	if numBits > 0 {
		unread := 8 - numBits
		mask := (0xFF >> uint(unread)) << uint(unread)
		result = result<<uint(numBits) | (int(bs.bytes[bs.byteOffset])&mask)>>uint(unread)
		bs.bitOffset += numBits
	}

	return result, nil
}
