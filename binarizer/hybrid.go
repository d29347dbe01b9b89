package binarizer

import (
	qrio "github.com/ericlevine/qrio"
	"github.com/ericlevine/qrio/bitutil"
)

const (
	blockSizePower   = 3
	blockSize        = 1 << blockSizePower
	blockSizeMask    = blockSize - 1
	minimumDimension = blockSize * 5
	minDynamicRange  = 24
)

// Hybrid thresholds each 8x8 block against a black point averaged over its
// neighborhood, which copes with shadows and lighting gradients. Images
// too small for block statistics fall back to the global histogram.
type Hybrid struct {
	Global
	matrix *bitutil.BitMatrix
}

// NewHybrid creates a Hybrid binarizer over source.
func NewHybrid(source qrio.LuminanceSource) *Hybrid {
	return &Hybrid{Global: *NewGlobal(source)}
}

// BlackMatrix returns the binarized matrix, computed once and cached.
func (h *Hybrid) BlackMatrix() (*bitutil.BitMatrix, error) {
	if h.matrix != nil {
		return h.matrix, nil
	}
	source := h.LuminanceSource()
	width := source.Width()
	height := source.Height()

	if width < minimumDimension || height < minimumDimension {
		m, err := h.Global.BlackMatrix()
		if err != nil {
			return nil, err
		}
		h.matrix = m
		return m, nil
	}

	luminances := source.Matrix()
	subWidth := width >> blockSizePower
	if width&blockSizeMask != 0 {
		subWidth++
	}
	subHeight := height >> blockSizePower
	if height&blockSizeMask != 0 {
		subHeight++
	}

	blackPoints := blockBlackPoints(luminances, subWidth, subHeight, width, height)
	matrix := bitutil.NewBitMatrixWithSize(width, height)
	thresholdBlocks(luminances, subWidth, subHeight, width, height, blackPoints, matrix)
	h.matrix = matrix
	return matrix, nil
}

// thresholdBlocks binarizes each block against the 5x5 neighborhood
// average of block black points.
func thresholdBlocks(luminances []byte, subWidth, subHeight, width, height int,
	blackPoints [][]int, matrix *bitutil.BitMatrix) {
	maxYOffset := height - blockSize
	maxXOffset := width - blockSize
	for y := 0; y < subHeight; y++ {
		yoffset := y << blockSizePower
		if yoffset > maxYOffset {
			yoffset = maxYOffset
		}
		top := clampIndex(y, subHeight-3)
		for x := 0; x < subWidth; x++ {
			xoffset := x << blockSizePower
			if xoffset > maxXOffset {
				xoffset = maxXOffset
			}
			left := clampIndex(x, subWidth-3)
			sum := 0
			for z := -2; z <= 2; z++ {
				row := blackPoints[top+z]
				sum += row[left-2] + row[left-1] + row[left] + row[left+1] + row[left+2]
			}
			thresholdBlock(luminances, xoffset, yoffset, sum/25, width, matrix)
		}
	}
}

func clampIndex(value, max int) int {
	if value < 2 {
		return 2
	}
	if value > max {
		return max
	}
	return value
}

func thresholdBlock(luminances []byte, xoffset, yoffset, threshold, stride int, matrix *bitutil.BitMatrix) {
	for y, offset := 0, yoffset*stride+xoffset; y < blockSize; y, offset = y+1, offset+stride {
		for x := 0; x < blockSize; x++ {
			if int(luminances[offset+x]) <= threshold {
				matrix.Set(xoffset+x, yoffset+y)
			}
		}
	}
}

// blockBlackPoints computes a black point per 8x8 block. Low-contrast
// blocks inherit from their neighbors so solid dark regions stay dark.
func blockBlackPoints(luminances []byte, subWidth, subHeight, width, height int) [][]int {
	maxYOffset := height - blockSize
	maxXOffset := width - blockSize
	blackPoints := make([][]int, subHeight)
	for i := range blackPoints {
		blackPoints[i] = make([]int, subWidth)
	}

	for y := 0; y < subHeight; y++ {
		yoffset := y << blockSizePower
		if yoffset > maxYOffset {
			yoffset = maxYOffset
		}
		for x := 0; x < subWidth; x++ {
			xoffset := x << blockSizePower
			if xoffset > maxXOffset {
				xoffset = maxXOffset
			}
			sum := 0
			min := 0xFF
			max := 0
			for yy, offset := 0, yoffset*width+xoffset; yy < blockSize; yy, offset = yy+1, offset+width {
				for xx := 0; xx < blockSize; xx++ {
					pixel := int(luminances[offset+xx])
					sum += pixel
					if pixel < min {
						min = pixel
					}
					if pixel > max {
						max = pixel
					}
				}
				// Once the block has enough contrast, only the sum is
				// needed for the remaining rows.
				if max-min > minDynamicRange {
					for yy, offset = yy+1, offset+width; yy < blockSize; yy, offset = yy+1, offset+width {
						for xx := 0; xx < blockSize; xx++ {
							sum += int(luminances[offset+xx])
						}
					}
				}
			}

			average := sum >> (blockSizePower * 2)
			if max-min <= minDynamicRange {
				average = min / 2
				if y > 0 && x > 0 {
					neighborAverage := (blackPoints[y-1][x] + 2*blackPoints[y][x-1] + blackPoints[y-1][x-1]) / 4
					if min < neighborAverage {
						average = neighborAverage
					}
				}
			}
			blackPoints[y][x] = average
		}
	}
	return blackPoints
}
