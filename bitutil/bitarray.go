// Package bitutil provides compact bit array and bit matrix types used
// throughout symbol construction and decoding.
package bitutil

import "strings"

// BitArray is a growable array of bits packed into uint64 words.
type BitArray struct {
	words []uint64
	size  int
}

// NewBitArray creates a BitArray holding size zero bits.
func NewBitArray(size int) *BitArray {
	if size <= 0 {
		return &BitArray{}
	}
	return &BitArray{words: make([]uint64, wordCount(size)), size: size}
}

// Size returns the number of bits in the array.
func (ba *BitArray) Size() int { return ba.size }

// SizeInBytes returns the number of bytes needed to hold the bits.
func (ba *BitArray) SizeInBytes() int { return (ba.size + 7) / 8 }

func (ba *BitArray) ensure(newSize int) {
	if newSize > len(ba.words)*64 {
		grown := make([]uint64, wordCount(newSize+newSize/2))
		copy(grown, ba.words)
		ba.words = grown
	}
}

// Get returns true if bit i is set.
func (ba *BitArray) Get(i int) bool {
	return ba.words[i>>6]&(1<<uint(i&0x3F)) != 0
}

// Set sets bit i.
func (ba *BitArray) Set(i int) {
	ba.words[i>>6] |= 1 << uint(i&0x3F)
}

// Flip flips bit i.
func (ba *BitArray) Flip(i int) {
	ba.words[i>>6] ^= 1 << uint(i&0x3F)
}

// Clear clears all bits.
func (ba *BitArray) Clear() {
	for i := range ba.words {
		ba.words[i] = 0
	}
}

// AppendBit appends a single bit.
func (ba *BitArray) AppendBit(bit bool) {
	ba.ensure(ba.size + 1)
	if bit {
		ba.words[ba.size>>6] |= 1 << uint(ba.size&0x3F)
	}
	ba.size++
}

// AppendBits appends the numBits least-significant bits of value, most
// significant first.
func (ba *BitArray) AppendBits(value uint32, numBits int) {
	if numBits < 0 || numBits > 32 {
		panic("bitutil: numBits out of range")
	}
	ba.ensure(ba.size + numBits)
	for i := numBits - 1; i >= 0; i-- {
		if value&(1<<uint(i)) != 0 {
			ba.words[ba.size>>6] |= 1 << uint(ba.size&0x3F)
		}
		ba.size++
	}
}

// AppendBitArray appends every bit of other.
func (ba *BitArray) AppendBitArray(other *BitArray) {
	ba.ensure(ba.size + other.size)
	for i := 0; i < other.size; i++ {
		ba.AppendBit(other.Get(i))
	}
}

// ToBytes packs bits starting at bitOffset into dst, most-significant bit
// of each byte first.
func (ba *BitArray) ToBytes(bitOffset int, dst []byte, offset, numBytes int) {
	for i := 0; i < numBytes; i++ {
		var b byte
		for j := 0; j < 8; j++ {
			if ba.Get(bitOffset) {
				b |= 1 << uint(7-j)
			}
			bitOffset++
		}
		dst[offset+i] = b
	}
}

// Clone returns a copy of the array.
func (ba *BitArray) Clone() *BitArray {
	w := make([]uint64, len(ba.words))
	copy(w, ba.words)
	return &BitArray{words: w, size: ba.size}
}

// String renders the bits as 'X' and '.' in byte groups.
func (ba *BitArray) String() string {
	var sb strings.Builder
	sb.Grow(ba.size + ba.size/8 + 1)
	for i := 0; i < ba.size; i++ {
		if i&0x07 == 0 {
			sb.WriteByte(' ')
		}
		if ba.Get(i) {
			sb.WriteByte('X')
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

func wordCount(size int) int {
	return (size + 63) / 64
}
