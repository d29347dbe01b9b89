package detector

import (
	"math"
	"sort"

	qrio "github.com/ericlevine/qrio"
	"github.com/ericlevine/qrio/bitutil"
)

const (
	// Plausible symbol sizes, in modules per edge.
	maxModulesPerEdge = 180.0
	minModulesPerEdge = 9.0

	// Module size spread allowed within one candidate triple.
	moduleSizeCutoff        = 0.5
	moduleSizeCutoffPercent = 0.05
)

// DetectMulti locates every QR symbol in the image. Candidate position
// patterns are grouped into plausible triples; each triple that samples
// successfully yields one Detection.
func DetectMulti(image *bitutil.BitMatrix) ([]*Detection, error) {
	scanner := &patternScanner{image: image}
	scanner.scan(rowSkipFor(image.Height()))

	groups, err := groupPatterns(scanner.candidates)
	if err != nil {
		return nil, err
	}

	det := &Detector{image: image}
	var results []*Detection
	for _, group := range groups {
		result, err := det.process(orderPatterns(group[:]))
		if err == nil {
			results = append(results, result)
		}
	}
	if len(results) == 0 {
		return nil, qrio.ErrNotFound
	}
	return results, nil
}

// groupPatterns combines confirmed candidates into triples that could form a
// symbol: similar module sizes, two roughly equal short sides and a diagonal
// matching their hypotenuse.
func groupPatterns(candidates []*FinderPattern) ([][3]*FinderPattern, error) {
	var confirmed []*FinderPattern
	for _, c := range candidates {
		if c.Count >= 2 {
			confirmed = append(confirmed, c)
		}
	}
	size := len(confirmed)
	if size < 3 {
		return nil, qrio.ErrNotFound
	}
	if size == 3 {
		return [][3]*FinderPattern{{confirmed[0], confirmed[1], confirmed[2]}}, nil
	}

	sort.Slice(confirmed, func(i, j int) bool {
		return confirmed[j].ModuleSize < confirmed[i].ModuleSize
	})

	var results [][3]*FinderPattern
	for i1 := 0; i1 < size-2; i1++ {
		p1 := confirmed[i1]
		for i2 := i1 + 1; i2 < size-1; i2++ {
			p2 := confirmed[i2]
			if !similarModuleSize(p1, p2) {
				break
			}
			for i3 := i2 + 1; i3 < size; i3++ {
				p3 := confirmed[i3]
				if !similarModuleSize(p2, p3) {
					break
				}

				triple := [3]*FinderPattern{p1, p2, p3}
				ordered := orderPatterns(triple[:])

				sideA := patternDistance(ordered.topLeft, ordered.bottomLeft)
				sideB := patternDistance(ordered.topLeft, ordered.topRight)
				diagonal := patternDistance(ordered.topRight, ordered.bottomLeft)

				moduleCount := (sideA + sideB) / (p1.ModuleSize * 2.0)
				if moduleCount > maxModulesPerEdge || moduleCount < minModulesPerEdge {
					continue
				}
				if math.Abs((sideA-sideB)/math.Min(sideA, sideB)) >= 0.1 {
					continue
				}
				hypotenuse := math.Sqrt(sideA*sideA + sideB*sideB)
				if math.Abs((diagonal-hypotenuse)/math.Min(diagonal, hypotenuse)) >= 0.1 {
					continue
				}
				results = append(results, triple)
			}
		}
	}
	if len(results) == 0 {
		return nil, qrio.ErrNotFound
	}
	return results, nil
}

// similarModuleSize reports whether two candidates could belong to the same
// symbol based on their estimated module sizes. The list is sorted by module
// size, so a failure here also rules out everything after it.
func similarModuleSize(a, b *FinderPattern) bool {
	diff := math.Abs(a.ModuleSize - b.ModuleSize)
	return diff <= moduleSizeCutoff ||
		diff/math.Min(a.ModuleSize, b.ModuleSize) < moduleSizeCutoffPercent
}
