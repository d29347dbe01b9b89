package qrio

import (
	"image"

	"github.com/ericlevine/qrio/bitutil"
)

// LuminanceSource provides access to greyscale luminance values for an image.
type LuminanceSource interface {
	// Row returns a row of luminance data. If row is non-nil and large
	// enough, it should be reused.
	Row(y int, row []byte) []byte

	// Matrix returns the entire luminance matrix in row-major order.
	Matrix() []byte

	Width() int
	Height() int
}

// Binarizer converts luminance data to 1-bit black/white data.
type Binarizer interface {
	// BlackRow returns a row of black/white values.
	BlackRow(y int, row *bitutil.BitArray) (*bitutil.BitArray, error)

	// BlackMatrix returns the 2D matrix of black/white values.
	BlackMatrix() (*bitutil.BitMatrix, error)

	// LuminanceSource returns the underlying LuminanceSource.
	LuminanceSource() LuminanceSource

	Width() int
	Height() int
}

// ImageLuminanceSource is a LuminanceSource backed by a Go image.Image. The
// image is converted to greyscale on construction.
type ImageLuminanceSource struct {
	luminances []byte
	width      int
	height     int
}

// NewImageLuminanceSource creates a LuminanceSource from an image.Image.
// Colors are reduced with the luma formula (306*R + 601*G + 117*B + 0x200)
// >> 10 over 8-bit components; fully-transparent pixels become white.
// Greyscale images are copied without conversion.
func NewImageLuminanceSource(img image.Image) *ImageLuminanceSource {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	if gray, ok := img.(*image.Gray); ok {
		lum := make([]byte, w*h)
		for y := 0; y < h; y++ {
			srcOff := (bounds.Min.Y+y)*gray.Stride + bounds.Min.X
			copy(lum[y*w:(y+1)*w], gray.Pix[srcOff:srcOff+w])
		}
		return &ImageLuminanceSource{luminances: lum, width: w, height: h}
	}

	lum := make([]byte, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			if a == 0 {
				lum[y*w+x] = 0xFF
				continue
			}
			lum[y*w+x] = byte((306*(r>>8) + 601*(g>>8) + 117*(b>>8) + 0x200) >> 10)
		}
	}
	return &ImageLuminanceSource{luminances: lum, width: w, height: h}
}

// NewLuminanceSourceFromBytes wraps raw row-major greyscale data.
func NewLuminanceSourceFromBytes(lum []byte, width, height int) *ImageLuminanceSource {
	return &ImageLuminanceSource{luminances: lum, width: width, height: height}
}

func (s *ImageLuminanceSource) Row(y int, row []byte) []byte {
	if cap(row) < s.width {
		row = make([]byte, s.width)
	}
	row = row[:s.width]
	copy(row, s.luminances[y*s.width:(y+1)*s.width])
	return row
}

func (s *ImageLuminanceSource) Matrix() []byte { return s.luminances }
func (s *ImageLuminanceSource) Width() int     { return s.width }
func (s *ImageLuminanceSource) Height() int    { return s.height }
