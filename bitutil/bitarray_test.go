package bitutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitArraySetGet(t *testing.T) {
	ba := NewBitArray(130)
	assert.Equal(t, 130, ba.Size())
	for _, i := range []int{0, 1, 63, 64, 65, 129} {
		assert.False(t, ba.Get(i))
		ba.Set(i)
		assert.True(t, ba.Get(i))
	}
	ba.Flip(64)
	assert.False(t, ba.Get(64))
}

func TestBitArrayAppendBits(t *testing.T) {
	ba := NewBitArray(0)
	ba.AppendBits(0x5, 3) // 101
	ba.AppendBit(true)
	require.Equal(t, 4, ba.Size())
	assert.True(t, ba.Get(0))
	assert.False(t, ba.Get(1))
	assert.True(t, ba.Get(2))
	assert.True(t, ba.Get(3))

	ba.AppendBits(0xAC, 8)
	out := make([]byte, 1)
	ba.ToBytes(4, out, 0, 1)
	assert.Equal(t, byte(0xAC), out[0])
}

func TestBitSourceReadBits(t *testing.T) {
	bs := NewBitSource([]byte{0b10110100, 0b01101001, 0xFF})

	v, err := bs.ReadBits(3)
	require.NoError(t, err)
	assert.Equal(t, 0b101, v)

	v, err = bs.ReadBits(9)
	require.NoError(t, err)
	assert.Equal(t, 0b101000110, v)

	assert.Equal(t, 12, bs.Available())
	v, err = bs.ReadBits(12)
	require.NoError(t, err)
	assert.Equal(t, 0b100111111111, v)

	_, err = bs.ReadBits(1)
	assert.ErrorIs(t, err, ErrOutOfBits)
}
