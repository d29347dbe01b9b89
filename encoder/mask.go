package encoder

import (
	"fmt"
	"math"

	qrio "github.com/ericlevine/qrio"
	"github.com/ericlevine/qrio/bitutil"
)

// validateMask rejects pinned mask patterns outside the symbology's set.
func validateMask(mask int, version qrio.Version) error {
	if version.IsMicro() {
		for _, m := range microMasks {
			if m == mask {
				return nil
			}
		}
		return fmt.Errorf("%w: pattern %d is not a micro mask", qrio.ErrInvalidMask, mask)
	}
	if mask < 0 || mask > 7 {
		return fmt.Errorf("%w: pattern %d", qrio.ErrInvalidMask, mask)
	}
	return nil
}

// chooseMask builds the matrix under every candidate mask and keeps the
// one with the lowest penalty, preferring the lowest index on ties.
func chooseMask(finalBits *bitutil.BitArray, level qrio.Level, version qrio.Version, matrix *ByteMatrix) int {
	candidates := []int{0, 1, 2, 3, 4, 5, 6, 7}
	if version.IsMicro() {
		candidates = microMasks[:]
	}

	minPenalty := math.MaxInt
	best := candidates[0]
	for _, mask := range candidates {
		buildMatrix(finalBits, level, version, mask, matrix)
		var penalty int
		if version.IsMicro() {
			penalty = microMaskPenalty(matrix)
		} else {
			penalty = maskPenalty(matrix)
		}
		if penalty < minPenalty {
			minPenalty = penalty
			best = mask
		}
	}
	return best
}

func maskPenalty(matrix *ByteMatrix) int {
	return penaltyRuns(matrix) + penaltyBlocks(matrix) + penaltyFinderLike(matrix) + penaltyBalance(matrix)
}

// penaltyRuns scores runs of 5 or more same-colored modules in rows and
// columns.
func penaltyRuns(matrix *ByteMatrix) int {
	return penaltyRunsDirectional(matrix, true) + penaltyRunsDirectional(matrix, false)
}

func penaltyRunsDirectional(matrix *ByteMatrix, horizontal bool) int {
	penalty := 0
	for i := 0; i < matrix.height; i++ {
		runLength := 0
		prev := byte(emptyModule)
		for j := 0; j < matrix.width; j++ {
			var bit byte
			if horizontal {
				bit = matrix.Get(j, i)
			} else {
				bit = matrix.Get(i, j)
			}
			if bit == prev {
				runLength++
				continue
			}
			if runLength >= 5 {
				penalty += 3 + (runLength - 5)
			}
			runLength = 1
			prev = bit
		}
		if runLength >= 5 {
			penalty += 3 + (runLength - 5)
		}
	}
	return penalty
}

// penaltyBlocks scores every 2x2 block of a single color.
func penaltyBlocks(matrix *ByteMatrix) int {
	penalty := 0
	for y := 0; y < matrix.height-1; y++ {
		for x := 0; x < matrix.width-1; x++ {
			v := matrix.Get(x, y)
			if v == matrix.Get(x+1, y) && v == matrix.Get(x, y+1) && v == matrix.Get(x+1, y+1) {
				penalty += 3
			}
		}
	}
	return penalty
}

// penaltyFinderLike scores 1:1:3:1:1 patterns preceded or followed by four
// light modules, which could be mistaken for finder patterns.
func penaltyFinderLike(matrix *ByteMatrix) int {
	penalty := 0
	for y := 0; y < matrix.height; y++ {
		for x := 0; x < matrix.width; x++ {
			if x+6 < matrix.width &&
				matrix.Get(x, y) == 1 && matrix.Get(x+1, y) == 0 &&
				matrix.Get(x+2, y) == 1 && matrix.Get(x+3, y) == 1 &&
				matrix.Get(x+4, y) == 1 && matrix.Get(x+5, y) == 0 &&
				matrix.Get(x+6, y) == 1 {
				after := x+10 < matrix.width &&
					matrix.Get(x+7, y) == 0 && matrix.Get(x+8, y) == 0 &&
					matrix.Get(x+9, y) == 0 && matrix.Get(x+10, y) == 0
				before := x >= 4 &&
					matrix.Get(x-1, y) == 0 && matrix.Get(x-2, y) == 0 &&
					matrix.Get(x-3, y) == 0 && matrix.Get(x-4, y) == 0
				if after || before {
					penalty += 40
				}
			}
			if y+6 < matrix.height &&
				matrix.Get(x, y) == 1 && matrix.Get(x, y+1) == 0 &&
				matrix.Get(x, y+2) == 1 && matrix.Get(x, y+3) == 1 &&
				matrix.Get(x, y+4) == 1 && matrix.Get(x, y+5) == 0 &&
				matrix.Get(x, y+6) == 1 {
				after := y+10 < matrix.height &&
					matrix.Get(x, y+7) == 0 && matrix.Get(x, y+8) == 0 &&
					matrix.Get(x, y+9) == 0 && matrix.Get(x, y+10) == 0
				before := y >= 4 &&
					matrix.Get(x, y-1) == 0 && matrix.Get(x, y-2) == 0 &&
					matrix.Get(x, y-3) == 0 && matrix.Get(x, y-4) == 0
				if after || before {
					penalty += 40
				}
			}
		}
	}
	return penalty
}

// penaltyBalance scores deviation from an even split of dark and light
// modules.
func penaltyBalance(matrix *ByteMatrix) int {
	dark := 0
	total := matrix.height * matrix.width
	for y := 0; y < matrix.height; y++ {
		for x := 0; x < matrix.width; x++ {
			if matrix.Get(x, y) == 1 {
				dark++
			}
		}
	}
	fivePercentSteps := abs(dark*2-total) * 10 / total
	return fivePercentSteps * 10
}

// microMaskPenalty scores a Micro QR matrix by the dark modules along its
// right and bottom edges. More edge darkness reads more reliably, so the
// score is negated to fit the minimizing selection.
func microMaskPenalty(matrix *ByteMatrix) int {
	width := matrix.width
	sum1 := 0
	for y := 1; y < width; y++ {
		if matrix.Get(width-1, y) == 1 {
			sum1++
		}
	}
	sum2 := 0
	for x := 1; x < width; x++ {
		if matrix.Get(x, width-1) == 1 {
			sum2++
		}
	}
	if sum1 <= sum2 {
		return -(sum1*16 + sum2)
	}
	return -(sum2*16 + sum1)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
