// Package detector locates QR symbols in binarized images.
package detector

import (
	"math"
	"sort"

	qrio "github.com/ericlevine/qrio"
	"github.com/ericlevine/qrio/bitutil"
	"github.com/ericlevine/qrio/decoder"
	"github.com/ericlevine/qrio/transform"
)

// Point is a location in image pixel coordinates.
type Point struct {
	X, Y float64
}

// Detection is one located symbol: its sampled module grid and the image
// points it was anchored on (bottom-left, top-left, top-right and, when
// present, the alignment pattern).
type Detection struct {
	Bits   *bitutil.BitMatrix
	Points []Point
}

// alignmentPattern is a candidate alignment-pattern center.
type alignmentPattern struct {
	x, y float64
}

// Detector locates a single QR symbol in a binary image.
type Detector struct {
	image *bitutil.BitMatrix
}

// New creates a Detector for the given binary image.
func New(image *bitutil.BitMatrix) *Detector {
	return &Detector{image: image}
}

// Detect locates the most prominent QR symbol and samples its module grid.
func (d *Detector) Detect() (*Detection, error) {
	scanner := &patternScanner{image: d.image}
	scanner.scan(rowSkipFor(d.image.Height()))

	best := selectBest(scanner.candidates)
	if best == nil {
		return nil, qrio.ErrNotFound
	}
	return d.process(orderPatterns(best))
}

// rowSkipFor returns the row stride for the initial scan. Scanning every
// third row is enough to hit the three-module center of the smallest
// position pattern at any plausible scale.
func rowSkipFor(height int) int {
	skip := (3 * height) / (4 * 97)
	if skip < 3 {
		skip = 3
	}
	return skip
}

// process turns three ordered position patterns into a sampled grid.
func (d *Detector) process(info *patternTriple) (*Detection, error) {
	topLeft := info.topLeft
	topRight := info.topRight
	bottomLeft := info.bottomLeft

	moduleSize := d.estimateModuleSize(topLeft, topRight, bottomLeft)
	if moduleSize < 1.0 {
		return nil, qrio.ErrNotFound
	}

	dimension, err := computeDimension(topLeft, topRight, bottomLeft, moduleSize)
	if err != nil {
		return nil, err
	}
	version, err := decoder.VersionForWidth(dimension)
	if err != nil {
		return nil, qrio.ErrNotFound
	}

	// Versions with alignment patterns get a fourth anchor near the
	// bottom-right corner, which greatly improves sampling of larger or
	// skewed symbols.
	var alignment *alignmentPattern
	if len(version.AlignmentPatternCenters) > 0 {
		bottomRightX := topRight.X - topLeft.X + bottomLeft.X
		bottomRightY := topRight.Y - topLeft.Y + bottomLeft.Y

		correction := 1.0 - 3.0/float64(dimension-7)
		estX := int(topLeft.X + correction*(bottomRightX-topLeft.X))
		estY := int(topLeft.Y + correction*(bottomRightY-topLeft.Y))

		for allowance := 4.0; allowance <= 16.0; allowance *= 2 {
			alignment = d.findAlignmentInRegion(moduleSize, estX, estY, allowance)
			if alignment != nil {
				break
			}
		}
	}

	xform := buildTransform(topLeft, topRight, bottomLeft, alignment, dimension)
	bits, err := transform.SampleGrid(d.image, dimension, xform)
	if err != nil {
		return nil, err
	}

	points := []Point{
		{bottomLeft.X, bottomLeft.Y},
		{topLeft.X, topLeft.Y},
		{topRight.X, topRight.Y},
	}
	if alignment != nil {
		points = append(points, Point{alignment.x, alignment.y})
	}
	return &Detection{Bits: bits, Points: points}, nil
}

// computeDimension estimates the symbol width in modules from the distances
// between position-pattern centers, snapping to the nearest valid width.
func computeDimension(topLeft, topRight, bottomLeft *FinderPattern, moduleSize float64) (int, error) {
	tltr := patternDistance(topLeft, topRight)
	tlbl := patternDistance(topLeft, bottomLeft)
	dimension := int(math.Round((tltr/moduleSize+tlbl/moduleSize)/2.0)) + 7
	switch dimension % 4 {
	case 0:
		dimension++
	case 2:
		dimension--
	case 3:
		return 0, qrio.ErrNotFound
	}
	return dimension, nil
}

func (d *Detector) estimateModuleSize(topLeft, topRight, bottomLeft *FinderPattern) float64 {
	return (d.moduleSizeOneWay(topLeft, topRight) +
		d.moduleSizeOneWay(topLeft, bottomLeft)) / 2.0
}

// moduleSizeOneWay estimates the module size from the black-white-black run
// crossing the edges of two position patterns, measured in both directions.
func (d *Detector) moduleSizeOneWay(pattern, other *FinderPattern) float64 {
	est1 := d.runLengthBothWays(int(pattern.X), int(pattern.Y), int(other.X), int(other.Y))
	est2 := d.runLengthBothWays(int(other.X), int(other.Y), int(pattern.X), int(pattern.Y))
	if math.IsNaN(est1) {
		return est2 / 7.0
	}
	if math.IsNaN(est2) {
		return est1 / 7.0
	}
	return (est1 + est2) / 14.0
}

// runLengthBothWays measures the black-white-black run through a pattern
// center toward a point and the mirrored run away from it, clipping the
// mirrored endpoint to the image.
func (d *Detector) runLengthBothWays(fromX, fromY, toX, toY int) float64 {
	result := d.runLength(fromX, fromY, toX, toY)

	scale := 1.0
	otherToX := fromX - (toX - fromX)
	if otherToX < 0 {
		scale = float64(fromX) / float64(fromX-otherToX)
		otherToX = 0
	} else if otherToX >= d.image.Width() {
		scale = float64(d.image.Width()-1-fromX) / float64(otherToX-fromX)
		otherToX = d.image.Width() - 1
	}
	otherToY := int(float64(fromY) - float64(toY-fromY)*scale)

	scale = 1.0
	if otherToY < 0 {
		scale = float64(fromY) / float64(fromY-otherToY)
		otherToY = 0
	} else if otherToY >= d.image.Height() {
		scale = float64(d.image.Height()-1-fromY) / float64(otherToY-fromY)
		otherToY = d.image.Height() - 1
	}
	otherToX = int(float64(fromX) + float64(otherToX-fromX)*scale)

	result += d.runLength(fromX, fromY, otherToX, otherToY)
	return result - 1.0
}

// runLength traces a line with Bresenham stepping and returns the distance
// covered by one black run, the following white run and the start of the
// next black run, or NaN when the pattern never completes.
func (d *Detector) runLength(fromX, fromY, toX, toY int) float64 {
	steep := false
	dx := abs(toX - fromX)
	dy := abs(toY - fromY)
	if dy > dx {
		steep = true
		fromX, fromY = fromY, fromX
		toX, toY = toY, toX
		dx, dy = dy, dx
	}

	xstep := 1
	if fromX > toX {
		xstep = -1
	}
	ystep := 1
	if fromY > toY {
		ystep = -1
	}

	// state 0: in first black run, 1: in white run, 2: in second black run
	state := 0
	xLimit := toX + xstep
	e := -dx / 2
	for x, y := fromX, fromY; x != xLimit; x += xstep {
		realX, realY := x, y
		if steep {
			realX, realY = y, x
		}
		if realX < 0 || realX >= d.image.Width() || realY < 0 || realY >= d.image.Height() {
			break
		}

		// The state advances when pixel color no longer matches it.
		if (state == 1) == d.image.Get(realX, realY) {
			if state == 2 {
				return distance(x, y, fromX, fromY)
			}
			state++
		}
		e += dy
		if e > 0 {
			if y == toY {
				break
			}
			y += ystep
			e -= dx
		}
	}
	if state == 2 {
		return distance(toX+xstep, toY, fromX, fromY)
	}
	return math.NaN()
}

func distance(aX, aY, bX, bY int) float64 {
	dx := float64(aX - bX)
	dy := float64(aY - bY)
	return math.Sqrt(dx*dx + dy*dy)
}

// buildTransform maps module-space corner coordinates onto the detected
// image points. Centers sit at half-module offsets, so the top-left position
// pattern center is module (3.5, 3.5).
func buildTransform(topLeft, topRight, bottomLeft *FinderPattern, alignment *alignmentPattern, dimension int) *transform.Perspective {
	dimMinusThree := float64(dimension) - 3.5
	var bottomRightX, bottomRightY, sourceBottomRightX, sourceBottomRightY float64

	if alignment != nil {
		bottomRightX = alignment.x
		bottomRightY = alignment.y
		sourceBottomRightX = dimMinusThree - 3.0
		sourceBottomRightY = sourceBottomRightX
	} else {
		bottomRightX = (topRight.X - topLeft.X) + bottomLeft.X
		bottomRightY = (topRight.Y - topLeft.Y) + bottomLeft.Y
		sourceBottomRightX = dimMinusThree
		sourceBottomRightY = dimMinusThree
	}

	return transform.QuadToQuad(
		3.5, 3.5, dimMinusThree, 3.5, sourceBottomRightX, sourceBottomRightY, 3.5, dimMinusThree,
		topLeft.X, topLeft.Y, topRight.X, topRight.Y, bottomRightX, bottomRightY, bottomLeft.X, bottomLeft.Y,
	)
}

// findAlignmentInRegion searches a square region around the estimated
// alignment position, widening with the allowance factor.
func (d *Detector) findAlignmentInRegion(moduleSize float64, estX, estY int, allowanceFactor float64) *alignmentPattern {
	allowance := int(allowanceFactor * moduleSize)
	left := max(0, estX-allowance)
	top := max(0, estY-allowance)
	right := min(d.image.Width()-1, estX+allowance)
	bottom := min(d.image.Height()-1, estY+allowance)

	width := right - left
	height := bottom - top
	if width < 0 || height < 0 {
		return nil
	}
	return d.findAlignmentPattern(left, top, width, height, moduleSize)
}

// findAlignmentPattern scans rows outward from the middle of the region for
// a 1:1:1 white/black/white run, so the middle count covers the pattern's
// center module, cross checking each hit vertically.
func (d *Detector) findAlignmentPattern(startX, startY, width, height int, moduleSize float64) *alignmentPattern {
	middleY := startY + height/2
	for dy := 0; dy < height; dy++ {
		y := middleY
		if dy%2 == 0 {
			y += (dy + 1) / 2
		} else {
			y -= (dy + 1) / 2
		}
		if y < startY || y >= startY+height {
			continue
		}

		counts := [3]int{}
		state := 0
		for x := startX; x < startX+width; x++ {
			if d.image.Get(x, y) {
				if state == 2 {
					if ap := d.checkAlignment(counts, x, y, moduleSize); ap != nil {
						return ap
					}
					counts[0] = counts[2]
					counts[1] = 1
					counts[2] = 0
					state = 1
					continue
				}
				state = 1
				counts[1]++
				continue
			}
			if state == 1 {
				state = 2
			}
			counts[state]++
		}
		if state == 2 {
			if ap := d.checkAlignment(counts, startX+width, y, moduleSize); ap != nil {
				return ap
			}
		}
	}
	return nil
}

func (d *Detector) checkAlignment(counts [3]int, endX, y int, moduleSize float64) *alignmentPattern {
	maxVariance := moduleSize / 2.0
	for _, c := range counts {
		if math.Abs(float64(c)-moduleSize) >= maxVariance {
			return nil
		}
	}
	centerX := float64(endX) - float64(counts[2]) - float64(counts[1])/2.0
	centerY := d.crossCheckAlignment(int(centerX), y, 2*counts[1], moduleSize)
	if math.IsNaN(centerY) {
		return nil
	}
	return &alignmentPattern{x: centerX, y: centerY}
}

// crossCheckAlignment verifies the 1:1:1 run vertically through a horizontal
// match and returns the refined center row, or NaN.
func (d *Detector) crossCheckAlignment(centerX, startY, maxCount int, moduleSize float64) float64 {
	maxY := d.image.Height()
	counts := [3]int{}

	y := startY
	for y >= 0 && d.image.Get(centerX, y) && counts[1] <= maxCount {
		counts[1]++
		y--
	}
	if y < 0 || counts[1] > maxCount {
		return math.NaN()
	}
	for y >= 0 && !d.image.Get(centerX, y) && counts[0] <= maxCount {
		counts[0]++
		y--
	}
	if counts[0] > maxCount {
		return math.NaN()
	}

	y = startY + 1
	for y < maxY && d.image.Get(centerX, y) && counts[1] <= maxCount {
		counts[1]++
		y++
	}
	if y == maxY || counts[1] > maxCount {
		return math.NaN()
	}
	for y < maxY && !d.image.Get(centerX, y) && counts[2] <= maxCount {
		counts[2]++
		y++
	}
	if counts[2] > maxCount {
		return math.NaN()
	}

	total := counts[0] + counts[1] + counts[2]
	if 5*abs(total-int(moduleSize*3)) >= int(moduleSize*3) {
		return math.NaN()
	}
	return float64(y-counts[2]) - float64(counts[1])/2.0
}

// selectBest picks the three candidates most likely to belong to one symbol.
// Module-size outliers are discarded first, then the remainder is ranked by
// confirmation count with deviation from the average size as the tie breaker.
func selectBest(candidates []*FinderPattern) []*FinderPattern {
	if len(candidates) < 3 {
		return nil
	}
	if len(candidates) == 3 {
		return candidates
	}

	work := make([]*FinderPattern, len(candidates))
	copy(work, candidates)

	total, square := 0.0, 0.0
	for _, c := range work {
		total += c.ModuleSize
		square += c.ModuleSize * c.ModuleSize
	}
	average := total / float64(len(work))
	stdDev := math.Sqrt(square/float64(len(work)) - average*average)

	sort.Slice(work, func(i, j int) bool {
		return math.Abs(work[i].ModuleSize-average) > math.Abs(work[j].ModuleSize-average)
	})
	limit := math.Max(0.2*average, stdDev)
	for len(work) > 3 && math.Abs(work[0].ModuleSize-average) > limit {
		work = work[1:]
	}

	if len(work) > 3 {
		total = 0.0
		for _, c := range work {
			total += c.ModuleSize
		}
		average = total / float64(len(work))
		sort.Slice(work, func(i, j int) bool {
			if work[i].Count != work[j].Count {
				return work[i].Count > work[j].Count
			}
			return math.Abs(work[i].ModuleSize-average) < math.Abs(work[j].ModuleSize-average)
		})
		work = work[:3]
	}
	return work
}
