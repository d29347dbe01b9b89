package gf256

import (
	"errors"
	"sync"
)

// ErrCorrection indicates the received codewords hold more errors than the
// error-correction capacity can repair.
var ErrCorrection = errors.New("gf256: too many errors")

var generators struct {
	sync.Mutex
	byDegree []*Poly
}

// generator returns (x - 2^0)(x - 2^1)...(x - 2^(degree-1)), cached.
func generator(degree int) *Poly {
	generators.Lock()
	defer generators.Unlock()
	if generators.byDegree == nil {
		generators.byDegree = []*Poly{polyOne}
	}
	for d := len(generators.byDegree); d <= degree; d++ {
		last := generators.byDegree[d-1]
		next := last.mul(newPoly([]int{1, Exp(d - 1)}))
		generators.byDegree = append(generators.byDegree, next)
	}
	return generators.byDegree[degree]
}

// ComputeECC returns the ecLen error-correction codewords for data.
func ComputeECC(data []int, ecLen int) []int {
	if ecLen <= 0 {
		panic("gf256: no error correction codewords requested")
	}
	if len(data) == 0 {
		panic("gf256: no data codewords provided")
	}
	info := make([]int, len(data))
	copy(info, data)
	remainder := newPoly(info).mulMonomial(ecLen, 1).mod(generator(ecLen))

	ecc := make([]int, ecLen)
	coefficients := remainder.coefficients
	if remainder.isZero() {
		coefficients = nil
	}
	copy(ecc[ecLen-len(coefficients):], coefficients)
	return ecc
}

// Correct repairs up to ecLen/2 codeword errors in received in place and
// returns the number of errors corrected. received holds data codewords
// followed by ecLen error-correction codewords.
func Correct(received []int, ecLen int) (int, error) {
	poly := newPoly(received)
	syndromes := make([]int, ecLen)
	clean := true
	for i := 0; i < ecLen; i++ {
		eval := poly.evaluateAt(Exp(i))
		syndromes[ecLen-1-i] = eval
		if eval != 0 {
			clean = false
		}
	}
	if clean {
		return 0, nil
	}

	sigma, omega, err := euclidean(monomial(ecLen, 1), newPoly(syndromes), ecLen)
	if err != nil {
		return 0, err
	}
	locations, err := errorLocations(sigma)
	if err != nil {
		return 0, err
	}
	magnitudes := errorMagnitudes(omega, locations)
	for i, loc := range locations {
		position := len(received) - 1 - Log(loc)
		if position < 0 {
			return 0, ErrCorrection
		}
		received[position] ^= magnitudes[i]
	}
	return len(locations), nil
}

// euclidean runs the extended Euclidean algorithm to find the error
// locator and evaluator polynomials.
func euclidean(a, b *Poly, capacity int) (sigma, omega *Poly, err error) {
	if a.degree() < b.degree() {
		a, b = b, a
	}

	rLast, r := a, b
	tLast, t := polyZero, polyOne

	for 2*r.degree() >= capacity {
		rLastLast, tLastLast := rLast, tLast
		rLast, tLast = r, t
		if rLast.isZero() {
			return nil, nil, ErrCorrection
		}
		r = rLastLast
		q := polyZero
		leadInverse := Inverse(rLast.coefficient(rLast.degree()))
		for r.degree() >= rLast.degree() && !r.isZero() {
			degreeDiff := r.degree() - rLast.degree()
			scale := Mul(r.coefficient(r.degree()), leadInverse)
			q = q.add(monomial(degreeDiff, scale))
			r = r.add(rLast.mulMonomial(degreeDiff, scale))
		}
		t = q.mul(tLast).add(tLastLast)
		if r.degree() >= rLast.degree() {
			return nil, nil, ErrCorrection
		}
	}

	sigmaAtZero := t.coefficient(0)
	if sigmaAtZero == 0 {
		return nil, nil, ErrCorrection
	}
	inverse := Inverse(sigmaAtZero)
	return t.mulScalar(inverse), r.mulScalar(inverse), nil
}

// errorLocations finds the roots of the error locator by direct search.
func errorLocations(locator *Poly) ([]int, error) {
	numErrors := locator.degree()
	if numErrors == 1 {
		return []int{locator.coefficient(1)}, nil
	}
	result := make([]int, 0, numErrors)
	for i := 1; i < 256 && len(result) < numErrors; i++ {
		if locator.evaluateAt(i) == 0 {
			result = append(result, Inverse(i))
		}
	}
	if len(result) != numErrors {
		return nil, ErrCorrection
	}
	return result, nil
}

func errorMagnitudes(evaluator *Poly, locations []int) []int {
	result := make([]int, len(locations))
	for i, loc := range locations {
		xiInverse := Inverse(loc)
		denominator := 1
		for j, other := range locations {
			if i != j {
				denominator = Mul(denominator, Mul(other, xiInverse)^1)
			}
		}
		result[i] = Mul(evaluator.evaluateAt(xiInverse), Inverse(denominator))
	}
	return result
}
