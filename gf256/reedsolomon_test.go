package gf256

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldArithmetic(t *testing.T) {
	assert.Equal(t, 1, Exp(0))
	assert.Equal(t, 2, Exp(1))
	assert.Equal(t, 0, Log(1))
	for a := 1; a < 256; a++ {
		assert.Equal(t, 1, Mul(a, Inverse(a)))
		assert.Equal(t, a, Exp(Log(a)))
	}
	assert.Equal(t, 0, Mul(0, 123))
	assert.Equal(t, 0, Mul(123, 0))
}

func TestComputeECCKnownVector(t *testing.T) {
	// Version 1-M codewords for the numeric content "01234567".
	data := []int{16, 32, 12, 86, 97, 128, 236, 17, 236, 17, 236, 17, 236, 17, 236, 17}
	want := []int{165, 36, 212, 193, 237, 54, 199, 135, 44, 85}
	assert.Equal(t, want, ComputeECC(data, 10))
}

func TestCorrectNoErrors(t *testing.T) {
	data := []int{0x41, 0x42, 0x43, 0x44, 0x45}
	received := append(append([]int{}, data...), ComputeECC(data, 8)...)
	n, err := Correct(received, 8)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, data, received[:len(data)])
}

func TestCorrectWithinCapacity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	data := make([]int, 20)
	for i := range data {
		data[i] = rng.Intn(256)
	}
	clean := append(append([]int{}, data...), ComputeECC(data, 12)...)

	received := append([]int{}, clean...)
	for _, pos := range []int{1, 8, 14, 20, 25, 30} {
		received[pos] ^= 0x5A
	}
	n, err := Correct(received, 12)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, clean, received)
}

func TestCorrectBeyondCapacity(t *testing.T) {
	data := make([]int, 20)
	for i := range data {
		data[i] = i * 7 % 256
	}
	received := append(append([]int{}, data...), ComputeECC(data, 12)...)
	for pos := 0; pos < 7; pos++ {
		received[pos*4] ^= 0xA5
	}
	_, err := Correct(received, 12)
	assert.ErrorIs(t, err, ErrCorrection)
}
