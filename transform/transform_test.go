package transform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qrio "github.com/ericlevine/qrio"
	"github.com/ericlevine/qrio/bitutil"
)

const delta = 1e-9

func applyOne(p *Perspective, x, y float64) (float64, float64) {
	points := []float64{x, y}
	p.Apply(points)
	return points[0], points[1]
}

func TestSquareToQuadAffine(t *testing.T) {
	// A parallelogram target keeps the transform affine.
	p := SquareToQuad(2, 3, 10, 3, 10, 11, 2, 11)

	cases := []struct{ xIn, yIn, xOut, yOut float64 }{
		{0, 0, 2, 3},
		{1, 0, 10, 3},
		{1, 1, 10, 11},
		{0, 1, 2, 11},
		{0.5, 0.5, 6, 7},
	}
	for _, c := range cases {
		x, y := applyOne(p, c.xIn, c.yIn)
		assert.InDelta(t, c.xOut, x, delta)
		assert.InDelta(t, c.yOut, y, delta)
	}
}

func TestSquareToQuadPerspective(t *testing.T) {
	p := SquareToQuad(0, 0, 4, 0, 3, 2, 1, 2)

	cases := []struct{ xIn, yIn, xOut, yOut float64 }{
		{0, 0, 0, 0},
		{1, 0, 4, 0},
		{1, 1, 3, 2},
		{0, 1, 1, 2},
	}
	for _, c := range cases {
		x, y := applyOne(p, c.xIn, c.yIn)
		assert.InDelta(t, c.xOut, x, delta)
		assert.InDelta(t, c.yOut, y, delta)
	}

	// A projective map moves edge midpoints off their linear positions.
	x, _ := applyOne(p, 0, 0.5)
	assert.Greater(t, math.Abs(x-0.5), 1e-3)
}

func TestQuadToSquareInverts(t *testing.T) {
	forward := SquareToQuad(1, 2, 9, 1, 11, 12, 2, 10)
	back := QuadToSquare(1, 2, 9, 1, 11, 12, 2, 10)

	for _, pt := range [][2]float64{{0.2, 0.3}, {0.8, 0.1}, {0.5, 0.9}} {
		fx, fy := applyOne(forward, pt[0], pt[1])
		x, y := applyOne(back, fx, fy)
		assert.InDelta(t, pt[0], x, delta)
		assert.InDelta(t, pt[1], y, delta)
	}
}

func TestQuadToQuad(t *testing.T) {
	p := QuadToQuad(
		0, 0, 1, 0, 1, 1, 0, 1,
		10, 20, 30, 20, 30, 40, 10, 40,
	)
	x, y := applyOne(p, 0.5, 0.5)
	assert.InDelta(t, 20.0, x, delta)
	assert.InDelta(t, 30.0, y, delta)
}

func TestSampleGrid(t *testing.T) {
	const dimension = 21
	const scale = 3
	const margin = 6

	pattern := bitutil.NewBitMatrix(dimension)
	for y := 0; y < dimension; y++ {
		for x := 0; x < dimension; x++ {
			if (x*31+y*17)%5 == 0 {
				pattern.Set(x, y)
			}
		}
	}

	side := dimension*scale + 2*margin
	image := bitutil.NewBitMatrix(side)
	for y := 0; y < dimension; y++ {
		for x := 0; x < dimension; x++ {
			if pattern.Get(x, y) {
				image.SetRegion(margin+x*scale, margin+y*scale, scale, scale)
			}
		}
	}

	p := QuadToQuad(
		0, 0, dimension, 0, dimension, dimension, 0, dimension,
		margin, margin, margin+dimension*scale, margin,
		margin+dimension*scale, margin+dimension*scale, margin, margin+dimension*scale,
	)
	sampled, err := SampleGrid(image, dimension, p)
	require.NoError(t, err)

	for y := 0; y < dimension; y++ {
		for x := 0; x < dimension; x++ {
			assert.Equal(t, pattern.Get(x, y), sampled.Get(x, y), "module (%d,%d)", x, y)
		}
	}
}

func TestSampleGridOutOfBounds(t *testing.T) {
	image := bitutil.NewBitMatrix(32)
	p := QuadToQuad(
		0, 0, 8, 0, 8, 8, 0, 8,
		-20, -20, 12, -20, 12, 12, -20, 12,
	)
	_, err := SampleGrid(image, 8, p)
	assert.ErrorIs(t, err, qrio.ErrNotFound)
}

func TestSampleGridBadDimension(t *testing.T) {
	image := bitutil.NewBitMatrix(32)
	p := SquareToQuad(0, 0, 1, 0, 1, 1, 0, 1)
	_, err := SampleGrid(image, 0, p)
	assert.ErrorIs(t, err, qrio.ErrNotFound)
}
