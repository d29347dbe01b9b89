// Package scan decodes every QR symbol found in an image. It chains the
// binarizer, detector and decoder into one eager pass: the returned slice
// holds one entry per grid that both detected and decoded cleanly, and is
// empty when the image carries no readable symbol. Errors are reserved for
// unusable inputs, not for images that simply contain nothing.
package scan

import (
	"errors"
	"image"

	qrio "github.com/ericlevine/qrio"
	"github.com/ericlevine/qrio/binarizer"
	"github.com/ericlevine/qrio/bitutil"
	"github.com/ericlevine/qrio/decoder"
	"github.com/ericlevine/qrio/detector"
)

// Result is one decoded symbol together with the image points it was
// detected at. Points is empty for symbols found by the pure-image path.
type Result struct {
	decoder.Result
	Points []detector.Point
}

// Metadata returns the symbol metadata of the decoded grid.
func (r *Result) Metadata() qrio.Metadata {
	return qrio.Metadata{Version: r.Version, Level: r.Level}
}

// Image binarizes img and decodes every symbol in it.
func Image(img image.Image) ([]*Result, error) {
	return Source(qrio.NewImageLuminanceSource(img))
}

// Source binarizes a luminance source and decodes every symbol in it.
func Source(src qrio.LuminanceSource) ([]*Result, error) {
	matrix, err := binarizer.NewHybrid(src).BlackMatrix()
	if err != nil {
		// A histogram too flat to threshold means a blank image, not a
		// failure.
		if errors.Is(err, qrio.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return Binary(matrix)
}

// Binary decodes every symbol in an already-binarized image. Grids that
// detect but fail to decode — unreadable format info, correction capacity
// exceeded — are dropped without affecting the remaining grids. When the
// general detector finds nothing decodable it falls back to pure-image
// extraction, which handles borderless axis-aligned renders the finder
// heuristics reject.
func Binary(matrix *bitutil.BitMatrix) ([]*Result, error) {
	var results []*Result
	if detections, err := detector.DetectMulti(matrix); err == nil {
		for _, d := range detections {
			r, err := decoder.Decode(d.Bits)
			if err != nil {
				continue
			}
			results = append(results, &Result{Result: *r, Points: d.Points})
		}
	}
	if len(results) > 0 {
		return results, nil
	}

	if bits, err := detector.DetectPure(matrix); err == nil {
		if r, err := decoder.Decode(bits); err == nil {
			return []*Result{{Result: *r}}, nil
		}
	}
	return nil, nil
}
