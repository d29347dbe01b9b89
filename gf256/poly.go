package gf256

// Poly is a polynomial over the field. Coefficients run from the
// highest-degree term to the lowest. Values are immutable once built.
type Poly struct {
	coefficients []int
}

var (
	polyZero = &Poly{coefficients: []int{0}}
	polyOne  = &Poly{coefficients: []int{1}}
)

// newPoly builds a polynomial, trimming leading zero coefficients.
func newPoly(coefficients []int) *Poly {
	if len(coefficients) == 0 {
		panic("gf256: empty coefficients")
	}
	first := 0
	for first < len(coefficients)-1 && coefficients[first] == 0 {
		first++
	}
	if first > 0 {
		trimmed := make([]int, len(coefficients)-first)
		copy(trimmed, coefficients[first:])
		coefficients = trimmed
	}
	return &Poly{coefficients: coefficients}
}

// monomial returns coefficient * x^degree.
func monomial(degree, coefficient int) *Poly {
	if degree < 0 {
		panic("gf256: negative degree")
	}
	if coefficient == 0 {
		return polyZero
	}
	coefficients := make([]int, degree+1)
	coefficients[0] = coefficient
	return &Poly{coefficients: coefficients}
}

func (p *Poly) degree() int {
	return len(p.coefficients) - 1
}

func (p *Poly) isZero() bool {
	return p.coefficients[0] == 0
}

// coefficient returns the coefficient of x^degree.
func (p *Poly) coefficient(degree int) int {
	return p.coefficients[len(p.coefficients)-1-degree]
}

// evaluateAt evaluates the polynomial at a by Horner's rule.
func (p *Poly) evaluateAt(a int) int {
	if a == 0 {
		return p.coefficient(0)
	}
	if a == 1 {
		result := 0
		for _, c := range p.coefficients {
			result ^= c
		}
		return result
	}
	result := p.coefficients[0]
	for _, c := range p.coefficients[1:] {
		result = Mul(a, result) ^ c
	}
	return result
}

// add returns p + other. Addition and subtraction coincide in GF(2^8).
func (p *Poly) add(other *Poly) *Poly {
	if p.isZero() {
		return other
	}
	if other.isZero() {
		return p
	}
	smaller, larger := p.coefficients, other.coefficients
	if len(smaller) > len(larger) {
		smaller, larger = larger, smaller
	}
	sum := make([]int, len(larger))
	diff := len(larger) - len(smaller)
	copy(sum, larger[:diff])
	for i := diff; i < len(larger); i++ {
		sum[i] = smaller[i-diff] ^ larger[i]
	}
	return newPoly(sum)
}

// mul returns p * other.
func (p *Poly) mul(other *Poly) *Poly {
	if p.isZero() || other.isZero() {
		return polyZero
	}
	product := make([]int, len(p.coefficients)+len(other.coefficients)-1)
	for i, ac := range p.coefficients {
		for j, bc := range other.coefficients {
			product[i+j] ^= Mul(ac, bc)
		}
	}
	return newPoly(product)
}

// mulScalar returns p scaled by a field element.
func (p *Poly) mulScalar(scalar int) *Poly {
	if scalar == 0 {
		return polyZero
	}
	if scalar == 1 {
		return p
	}
	product := make([]int, len(p.coefficients))
	for i, c := range p.coefficients {
		product[i] = Mul(c, scalar)
	}
	return &Poly{coefficients: product}
}

// mulMonomial returns p * coefficient * x^degree.
func (p *Poly) mulMonomial(degree, coefficient int) *Poly {
	if degree < 0 {
		panic("gf256: negative degree")
	}
	if coefficient == 0 {
		return polyZero
	}
	product := make([]int, len(p.coefficients)+degree)
	for i, c := range p.coefficients {
		product[i] = Mul(c, coefficient)
	}
	return newPoly(product)
}

// mod returns the remainder of p divided by divisor.
func (p *Poly) mod(divisor *Poly) *Poly {
	if divisor.isZero() {
		panic("gf256: divide by zero")
	}
	remainder := p
	leadInverse := Inverse(divisor.coefficient(divisor.degree()))
	for remainder.degree() >= divisor.degree() && !remainder.isZero() {
		degreeDiff := remainder.degree() - divisor.degree()
		scale := Mul(remainder.coefficient(remainder.degree()), leadInverse)
		remainder = remainder.add(divisor.mulMonomial(degreeDiff, scale))
	}
	return remainder
}
