package detector

import (
	"math"

	"github.com/ericlevine/qrio/bitutil"
)

// FinderPattern is a candidate position-pattern center in image coordinates.
type FinderPattern struct {
	X, Y       float64
	ModuleSize float64
	Count      int
}

func (fp *FinderPattern) near(moduleSize, x, y float64) bool {
	if math.Abs(x-fp.X) > moduleSize || math.Abs(y-fp.Y) > moduleSize {
		return false
	}
	diff := math.Abs(moduleSize - fp.ModuleSize)
	return diff <= 1.0 || diff <= fp.ModuleSize
}

func (fp *FinderPattern) merge(x, y, moduleSize float64) *FinderPattern {
	n := fp.Count + 1
	return &FinderPattern{
		X:          (float64(fp.Count)*fp.X + x) / float64(n),
		Y:          (float64(fp.Count)*fp.Y + y) / float64(n),
		ModuleSize: (float64(fp.Count)*fp.ModuleSize + moduleSize) / float64(n),
		Count:      n,
	}
}

// patternScanner walks rows of a binary image accumulating position-pattern
// candidates. Candidates seen more than once are merged, raising their Count.
type patternScanner struct {
	image      *bitutil.BitMatrix
	candidates []*FinderPattern
}

// scan examines every rowSkip-th row for runs matching the 1:1:3:1:1
// position-pattern ratio and cross checks each hit vertically.
func (s *patternScanner) scan(rowSkip int) {
	width := s.image.Width()
	height := s.image.Height()

	for y := rowSkip - 1; y < height; y += rowSkip {
		counts := [5]int{}
		state := 0
		for x := 0; x < width; x++ {
			if s.image.Get(x, y) {
				if state&1 == 1 {
					state++
				}
				counts[state]++
			} else if state&1 == 1 {
				counts[state]++
			} else if state == 4 {
				if checkRatio(counts) && s.record(counts, y, x) {
					counts = [5]int{}
					state = 0
					continue
				}
				shiftCounts(&counts)
				state = 3
			} else {
				state++
				counts[state]++
			}
		}
		if state == 4 && checkRatio(counts) {
			s.record(counts, y, width)
		}
	}
}

// checkRatio reports whether the five run lengths approximate the
// black/white/black/white/black 1:1:3:1:1 ratio.
func checkRatio(counts [5]int) bool {
	total := 0
	for _, c := range counts {
		if c == 0 {
			return false
		}
		total += c
	}
	if total < 7 {
		return false
	}
	moduleSize := float64(total) / 7.0
	maxVariance := moduleSize / 2.0
	return math.Abs(moduleSize-float64(counts[0])) < maxVariance &&
		math.Abs(moduleSize-float64(counts[1])) < maxVariance &&
		math.Abs(3*moduleSize-float64(counts[2])) < 3*maxVariance &&
		math.Abs(moduleSize-float64(counts[3])) < maxVariance &&
		math.Abs(moduleSize-float64(counts[4])) < maxVariance
}

// shiftCounts drops the first black/white pair so scanning can resume at the
// second black run of a failed match.
func shiftCounts(counts *[5]int) {
	counts[0] = counts[2]
	counts[1] = counts[3]
	counts[2] = counts[4]
	counts[3] = 1
	counts[4] = 0
}

// record cross checks a horizontal match vertically and either merges it into
// an existing candidate or starts a new one. It returns true when the match
// confirmed a candidate already seen.
func (s *patternScanner) record(counts [5]int, row, col int) bool {
	total := counts[0] + counts[1] + counts[2] + counts[3] + counts[4]
	centerX := float64(col) - float64(counts[4]+counts[3]) - float64(counts[2])/2.0
	centerY := s.crossCheckVertical(row, int(centerX), counts[2], total)
	if math.IsNaN(centerY) {
		return false
	}
	moduleSize := float64(total) / 7.0
	for i, c := range s.candidates {
		if c.near(moduleSize, centerX, centerY) {
			s.candidates[i] = c.merge(centerX, centerY, moduleSize)
			return true
		}
	}
	s.candidates = append(s.candidates, &FinderPattern{
		X: centerX, Y: centerY, ModuleSize: moduleSize, Count: 1,
	})
	return false
}

// crossCheckVertical walks up and down the column through a horizontal match
// and returns the refined center row, or NaN when the column does not show
// the same ratio.
func (s *patternScanner) crossCheckVertical(startRow, centerCol, maxCount, originalTotal int) float64 {
	maxRow := s.image.Height()
	counts := [5]int{}

	y := startRow
	for y >= 0 && s.image.Get(centerCol, y) {
		counts[2]++
		y--
	}
	if y < 0 {
		return math.NaN()
	}
	for y >= 0 && !s.image.Get(centerCol, y) && counts[1] <= maxCount {
		counts[1]++
		y--
	}
	if y < 0 || counts[1] > maxCount {
		return math.NaN()
	}
	for y >= 0 && s.image.Get(centerCol, y) && counts[0] <= maxCount {
		counts[0]++
		y--
	}
	if counts[0] > maxCount {
		return math.NaN()
	}

	y = startRow + 1
	for y < maxRow && s.image.Get(centerCol, y) {
		counts[2]++
		y++
	}
	if y == maxRow {
		return math.NaN()
	}
	for y < maxRow && !s.image.Get(centerCol, y) && counts[3] <= maxCount {
		counts[3]++
		y++
	}
	if y == maxRow || counts[3] > maxCount {
		return math.NaN()
	}
	for y < maxRow && s.image.Get(centerCol, y) && counts[4] <= maxCount {
		counts[4]++
		y++
	}
	if counts[4] > maxCount {
		return math.NaN()
	}

	total := counts[0] + counts[1] + counts[2] + counts[3] + counts[4]
	if 5*abs(total-originalTotal) >= 2*originalTotal {
		return math.NaN()
	}
	if !checkRatio(counts) {
		return math.NaN()
	}
	return float64(y-counts[4]-counts[3]) - float64(counts[2])/2.0
}

// patternTriple holds the three position patterns of one symbol.
type patternTriple struct {
	topLeft, topRight, bottomLeft *FinderPattern
}

// orderPatterns arranges three patterns into top-left, top-right and
// bottom-left corners. The top-left corner is the one opposite the longest
// side; the cross product fixes the remaining two.
func orderPatterns(patterns []*FinderPattern) *patternTriple {
	d01 := patternDistance(patterns[0], patterns[1])
	d12 := patternDistance(patterns[1], patterns[2])
	d02 := patternDistance(patterns[0], patterns[2])

	var a, b, c *FinderPattern
	switch {
	case d12 >= d01 && d12 >= d02:
		a, b, c = patterns[0], patterns[1], patterns[2]
	case d02 >= d01 && d02 >= d12:
		a, b, c = patterns[1], patterns[0], patterns[2]
	default:
		a, b, c = patterns[2], patterns[0], patterns[1]
	}

	// In image coordinates y grows downward, so with b below a and c to the
	// right of a the cross product of a->b and a->c is negative.
	if (b.X-a.X)*(c.Y-a.Y)-(b.Y-a.Y)*(c.X-a.X) > 0 {
		b, c = c, b
	}
	return &patternTriple{topLeft: a, bottomLeft: b, topRight: c}
}

func patternDistance(a, b *FinderPattern) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
