// Package gf256 implements arithmetic and Reed-Solomon coding over
// GF(2^8) with the primitive polynomial x^8 + x^4 + x^3 + x^2 + 1.
package gf256

const primitive = 0x11D

var (
	expTable [256]int
	logTable [256]int
)

func init() {
	x := 1
	for i := 0; i < 256; i++ {
		expTable[i] = x
		x <<= 1
		if x >= 256 {
			x ^= primitive
			x &= 255
		}
	}
	for i := 0; i < 255; i++ {
		logTable[expTable[i]] = i
	}
}

// Exp returns 2^a in the field.
func Exp(a int) int { return expTable[a] }

// Log returns the discrete logarithm of a. a must be nonzero.
func Log(a int) int {
	if a == 0 {
		panic("gf256: log(0)")
	}
	return logTable[a]
}

// Inverse returns the multiplicative inverse of a. a must be nonzero.
func Inverse(a int) int {
	if a == 0 {
		panic("gf256: inverse(0)")
	}
	return expTable[255-logTable[a]]
}

// Mul returns the field product of a and b.
func Mul(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return expTable[(logTable[a]+logTable[b])%255]
}
