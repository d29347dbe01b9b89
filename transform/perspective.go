// Package transform maps between image coordinates and module coordinates
// under perspective distortion.
package transform

// Perspective is a 2D projective transform.
type Perspective struct {
	a11, a12, a13 float64
	a21, a22, a23 float64
	a31, a32, a33 float64
}

// QuadToQuad computes the transform mapping one quadrilateral onto
// another.
func QuadToQuad(
	x0, y0, x1, y1, x2, y2, x3, y3 float64,
	x0p, y0p, x1p, y1p, x2p, y2p, x3p, y3p float64,
) *Perspective {
	qToS := QuadToSquare(x0, y0, x1, y1, x2, y2, x3, y3)
	sToQ := SquareToQuad(x0p, y0p, x1p, y1p, x2p, y2p, x3p, y3p)
	return sToQ.Times(qToS)
}

// Apply transforms interleaved (x, y) pairs in place.
func (p *Perspective) Apply(points []float64) {
	for i := 0; i+1 < len(points); i += 2 {
		x := points[i]
		y := points[i+1]
		denominator := p.a13*x + p.a23*y + p.a33
		points[i] = (p.a11*x + p.a21*y + p.a31) / denominator
		points[i+1] = (p.a12*x + p.a22*y + p.a32) / denominator
	}
}

// SquareToQuad computes the transform from the unit square to a
// quadrilateral.
func SquareToQuad(x0, y0, x1, y1, x2, y2, x3, y3 float64) *Perspective {
	dx3 := x0 - x1 + x2 - x3
	dy3 := y0 - y1 + y2 - y3
	if dx3 == 0 && dy3 == 0 {
		// The quadrilateral is a parallelogram, so the transform is
		// affine.
		return &Perspective{
			a11: x1 - x0, a21: x2 - x1, a31: x0,
			a12: y1 - y0, a22: y2 - y1, a32: y0,
			a33: 1,
		}
	}
	dx1 := x1 - x2
	dx2 := x3 - x2
	dy1 := y1 - y2
	dy2 := y3 - y2
	denominator := dx1*dy2 - dx2*dy1
	a13 := (dx3*dy2 - dx2*dy3) / denominator
	a23 := (dx1*dy3 - dx3*dy1) / denominator
	return &Perspective{
		a11: x1 - x0 + a13*x1, a21: x3 - x0 + a23*x3, a31: x0,
		a12: y1 - y0 + a13*y1, a22: y3 - y0 + a23*y3, a32: y0,
		a13: a13, a23: a23, a33: 1,
	}
}

// QuadToSquare computes the transform from a quadrilateral to the unit
// square.
func QuadToSquare(x0, y0, x1, y1, x2, y2, x3, y3 float64) *Perspective {
	return SquareToQuad(x0, y0, x1, y1, x2, y2, x3, y3).adjoint()
}

// adjoint returns the transpose of the cofactor matrix, which inverts the
// transform up to scale.
func (p *Perspective) adjoint() *Perspective {
	return &Perspective{
		a11: p.a22*p.a33 - p.a23*p.a32,
		a21: p.a23*p.a31 - p.a21*p.a33,
		a31: p.a21*p.a32 - p.a22*p.a31,
		a12: p.a13*p.a32 - p.a12*p.a33,
		a22: p.a11*p.a33 - p.a13*p.a31,
		a32: p.a12*p.a31 - p.a11*p.a32,
		a13: p.a12*p.a23 - p.a13*p.a22,
		a23: p.a13*p.a21 - p.a11*p.a23,
		a33: p.a11*p.a22 - p.a12*p.a21,
	}
}

// Times returns the composition p * other.
func (p *Perspective) Times(other *Perspective) *Perspective {
	return &Perspective{
		a11: p.a11*other.a11 + p.a21*other.a12 + p.a31*other.a13,
		a21: p.a11*other.a21 + p.a21*other.a22 + p.a31*other.a23,
		a31: p.a11*other.a31 + p.a21*other.a32 + p.a31*other.a33,
		a12: p.a12*other.a11 + p.a22*other.a12 + p.a32*other.a13,
		a22: p.a12*other.a21 + p.a22*other.a22 + p.a32*other.a23,
		a32: p.a12*other.a31 + p.a22*other.a32 + p.a32*other.a33,
		a13: p.a13*other.a11 + p.a23*other.a12 + p.a33*other.a13,
		a23: p.a13*other.a21 + p.a23*other.a22 + p.a33*other.a23,
		a33: p.a13*other.a31 + p.a23*other.a32 + p.a33*other.a33,
	}
}
