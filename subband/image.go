// Package subband implements a single-channel lossy image codec: a one-level
// Haar subband decomposition, uniform scalar quantization, a pluggable
// lossless entropy stage and a self-describing codestream.
package subband

import (
	"fmt"
	"image"
	"math"

	"github.com/cocosip/go-subband-codec/codec"
	"github.com/cocosip/go-subband-codec/subband/wavelet"
)

// MaxSample is the largest representable 8-bit sample value
const MaxSample = 255.0

// Image is a single-channel grid of intensity samples in [0, 255].
type Image = wavelet.Plane

// NewImage allocates a black rows x cols image
func NewImage(rows, cols int) *Image {
	return wavelet.NewPlane(rows, cols)
}

// ImageFromBytes wraps 8-bit row-major samples
func ImageFromBytes(pix []byte, rows, cols int) (*Image, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: image size %dx%d", codec.ErrInvalidParameter, rows, cols)
	}
	if len(pix) != rows*cols {
		return nil, fmt.Errorf("%w: %d samples for %dx%d image", codec.ErrShapeMismatch, len(pix), rows, cols)
	}
	img := NewImage(rows, cols)
	for i, v := range pix {
		img.Data[i] = float64(v)
	}
	return img, nil
}

// ImageFromGray converts a stdlib grayscale image
func ImageFromGray(g *image.Gray) *Image {
	b := g.Bounds()
	img := NewImage(b.Dy(), b.Dx())
	for y := 0; y < b.Dy(); y++ {
		row := img.Row(y)
		for x := 0; x < b.Dx(); x++ {
			row[x] = float64(g.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
		}
	}
	return img
}

// ToBytes rounds and saturates samples to 8 bits
func ToBytes(img *Image) []byte {
	out := make([]byte, len(img.Data))
	for i, v := range img.Data {
		out[i] = saturate(v)
	}
	return out
}

// ToGray converts img to a stdlib grayscale image, rounding and saturating
func ToGray(img *Image) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, img.Cols, img.Rows))
	copy(g.Pix, ToBytes(img))
	return g
}

func saturate(v float64) byte {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= MaxSample:
		return 255
	default:
		return byte(math.Round(v))
	}
}

// validateImage checks shape and the 8-bit sample range
func validateImage(img *Image) error {
	if err := img.Validate(); err != nil {
		return err
	}
	for i, v := range img.Data {
		if math.IsNaN(v) || v < 0 || v > MaxSample {
			return fmt.Errorf("%w: sample %d (row %d) = %v outside [0,255]",
				codec.ErrInvalidParameter, i, i/img.Cols, v)
		}
	}
	return nil
}
