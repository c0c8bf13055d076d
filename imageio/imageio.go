// Package imageio loads and saves grayscale images for the command-line
// tools. Loading resizes to a square working size and converts to 8-bit
// luminance; saving picks the encoder from the file extension.
package imageio

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

// DefaultSize is the square edge length images are resized to on load
const DefaultSize = 500

// ErrUnknownFormat is returned when a file extension has no encoder
var ErrUnknownFormat = errors.New("unknown image format")

// Load decodes the image at path, resizes it to size x size with bilinear
// interpolation and converts it to grayscale. size <= 0 keeps the original
// dimensions.
func Load(path string, size int) (*image.Gray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}

	bounds := image.Rect(0, 0, src.Bounds().Dx(), src.Bounds().Dy())
	if size > 0 {
		bounds = image.Rect(0, 0, size, size)
	}
	return ToGray(src, bounds), nil
}

// ToGray scales src into a grayscale image covering bounds.
func ToGray(src image.Image, bounds image.Rectangle) *image.Gray {
	dst := image.NewGray(bounds)
	if src.Bounds().Size() == bounds.Size() {
		draw.Draw(dst, bounds, src, src.Bounds().Min, draw.Src)
		return dst
	}
	draw.BiLinear.Scale(dst, bounds, src, src.Bounds(), draw.Src, nil)
	return dst
}

// Save encodes img to path using the encoder matching the file extension.
func Save(path string, img image.Image) (err error) {
	encode, err := encoderFor(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close image: %w", cerr)
		}
	}()

	if err := encode(f, img); err != nil {
		return fmt.Errorf("encode image %s: %w", path, err)
	}
	return nil
}

type encodeFunc func(f *os.File, img image.Image) error

func encoderFor(path string) (encodeFunc, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return func(f *os.File, img image.Image) error { return png.Encode(f, img) }, nil
	case ".jpg", ".jpeg":
		return func(f *os.File, img image.Image) error {
			return jpeg.Encode(f, img, &jpeg.Options{Quality: 95})
		}, nil
	case ".gif":
		return func(f *os.File, img image.Image) error { return gif.Encode(f, img, nil) }, nil
	case ".bmp":
		return func(f *os.File, img image.Image) error { return bmp.Encode(f, img) }, nil
	case ".tif", ".tiff":
		return func(f *os.File, img image.Image) error { return tiff.Encode(f, img, nil) }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// LabeledPath inserts "_label" between the base name and the extension of
// path, so "dir/img.png" with label "reconstructed" becomes
// "dir/img_reconstructed.png".
func LabeledPath(path, label string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_" + label + ext
}
