// Package binarizer converts greyscale luminance data into 1-bit
// black/white matrices ready for detection.
package binarizer

import (
	qrio "github.com/ericlevine/qrio"
	"github.com/ericlevine/qrio/bitutil"
)

const (
	luminanceBits    = 5
	luminanceShift   = 8 - luminanceBits
	luminanceBuckets = 1 << luminanceBits
)

// Global thresholds the whole image against a single black point estimated
// from a luminance histogram. It is cheap but struggles with uneven
// lighting; prefer Hybrid for camera input.
type Global struct {
	source     qrio.LuminanceSource
	luminances []byte
	buckets    [luminanceBuckets]int
}

// NewGlobal creates a Global binarizer over source.
func NewGlobal(source qrio.LuminanceSource) *Global {
	return &Global{source: source}
}

func (g *Global) LuminanceSource() qrio.LuminanceSource { return g.source }
func (g *Global) Width() int                            { return g.source.Width() }
func (g *Global) Height() int                           { return g.source.Height() }

// BlackRow binarizes a single row against the row's own histogram, with a
// sharpening filter.
func (g *Global) BlackRow(y int, row *bitutil.BitArray) (*bitutil.BitArray, error) {
	width := g.source.Width()
	if row == nil || row.Size() < width {
		row = bitutil.NewBitArray(width)
	} else {
		row.Clear()
	}

	g.resetBuckets(width)
	luminances := g.source.Row(y, g.luminances)
	for x := 0; x < width; x++ {
		g.buckets[luminances[x]>>luminanceShift]++
	}
	blackPoint, err := estimateBlackPoint(g.buckets[:])
	if err != nil {
		return nil, err
	}

	if width < 3 {
		for x := 0; x < width; x++ {
			if int(luminances[x]) < blackPoint {
				row.Set(x)
			}
		}
		return row, nil
	}

	left := int(luminances[0])
	center := int(luminances[1])
	for x := 1; x < width-1; x++ {
		right := int(luminances[x+1])
		if (center*4-left-right)/2 < blackPoint {
			row.Set(x)
		}
		left = center
		center = right
	}
	return row, nil
}

// BlackMatrix binarizes the full image against one black point estimated
// from a few sample rows.
func (g *Global) BlackMatrix() (*bitutil.BitMatrix, error) {
	width := g.source.Width()
	height := g.source.Height()
	matrix := bitutil.NewBitMatrixWithSize(width, height)

	g.resetBuckets(width)
	for y := 1; y < 5; y++ {
		luminances := g.source.Row(height*y/5, g.luminances)
		right := width * 4 / 5
		for x := width / 5; x < right; x++ {
			g.buckets[luminances[x]>>luminanceShift]++
		}
	}
	blackPoint, err := estimateBlackPoint(g.buckets[:])
	if err != nil {
		return nil, err
	}

	luminances := g.source.Matrix()
	for y := 0; y < height; y++ {
		offset := y * width
		for x := 0; x < width; x++ {
			if int(luminances[offset+x]) < blackPoint {
				matrix.Set(x, y)
			}
		}
	}
	return matrix, nil
}

func (g *Global) resetBuckets(luminanceSize int) {
	if len(g.luminances) < luminanceSize {
		g.luminances = make([]byte, luminanceSize)
	}
	g.buckets = [luminanceBuckets]int{}
}

// estimateBlackPoint finds the valley between the two dominant histogram
// peaks. It fails when the histogram has no meaningful contrast.
func estimateBlackPoint(buckets []int) (int, error) {
	maxBucketCount := 0
	firstPeak := 0
	firstPeakSize := 0
	for x, count := range buckets {
		if count > firstPeakSize {
			firstPeak = x
			firstPeakSize = count
		}
		if count > maxBucketCount {
			maxBucketCount = count
		}
	}

	secondPeak := 0
	secondPeakScore := 0
	for x, count := range buckets {
		dist := x - firstPeak
		if score := count * dist * dist; score > secondPeakScore {
			secondPeak = x
			secondPeakScore = score
		}
	}

	if firstPeak > secondPeak {
		firstPeak, secondPeak = secondPeak, firstPeak
	}
	if secondPeak-firstPeak <= len(buckets)/16 {
		return 0, qrio.ErrNotFound
	}

	bestValley := secondPeak - 1
	bestValleyScore := -1
	for x := secondPeak - 1; x > firstPeak; x-- {
		fromFirst := x - firstPeak
		score := fromFirst * fromFirst * (secondPeak - x) * (maxBucketCount - buckets[x])
		if score > bestValleyScore {
			bestValley = x
			bestValleyScore = score
		}
	}

	return bestValley << luminanceShift, nil
}
