// Package enhance implements stateless pixel-level filters for 8-bit
// grayscale images. None of them interact with the compression core.
package enhance

import (
	"errors"
	"fmt"
	"image"
	"math"
	"math/rand/v2"
)

// ErrKernelSize is returned for even or non-positive blur kernel sizes
var ErrKernelSize = errors.New("kernel size must be a positive odd number")

// Brightness scales every sample by alpha, clamped to [0, 5].
func Brightness(src *image.Gray, alpha float64) *image.Gray {
	return scaleAbs(src, clamp(alpha, 0, 5))
}

// Contrast scales every sample by alpha, clamped to [1, 5].
func Contrast(src *image.Gray, alpha float64) *image.Gray {
	return scaleAbs(src, clamp(alpha, 1, 5))
}

// GaussianNoise adds normally distributed noise N(mean, sigma²) to every
// sample, saturating at the 8-bit range.
func GaussianNoise(src *image.Gray, mean, sigma float64, rng *rand.Rand) *image.Gray {
	return mapPixels(src, func(v float64) float64 {
		return v + mean + sigma*rng.NormFloat64()
	})
}

// SpeckleNoise applies multiplicative noise v*(1+sigma*n), n ~ N(0,1).
func SpeckleNoise(src *image.Gray, sigma float64, rng *rand.Rand) *image.Gray {
	return mapPixels(src, func(v float64) float64 {
		return v * (1 + sigma*rng.NormFloat64())
	})
}

// Blur applies a separable Gaussian blur with a ksize x ksize kernel. Sigma
// is derived from the kernel size as 0.3*((ksize-1)*0.5-1)+0.8.
func Blur(src *image.Gray, ksize int) (*image.Gray, error) {
	if ksize <= 0 || ksize%2 == 0 {
		return nil, fmt.Errorf("%w: %d", ErrKernelSize, ksize)
	}
	kernel := gaussianKernel(ksize)
	return separable(src, kernel), nil
}

var sharpenKernel = [3][3]float64{
	{-1, -1, -1},
	{-1, 9, -1},
	{-1, -1, -1},
}

// Sharpen convolves with a 3x3 high-boost kernel (centre 9, neighbours -1).
func Sharpen(src *image.Gray) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for ky := -1; ky <= 1; ky++ {
				sy := reflect101(y+ky, h)
				for kx := -1; kx <= 1; kx++ {
					sx := reflect101(x+kx, w)
					sum += sharpenKernel[ky+1][kx+1] * float64(src.GrayAt(b.Min.X+sx, b.Min.Y+sy).Y)
				}
			}
			dst.Pix[y*dst.Stride+x] = saturate(sum)
		}
	}
	return dst
}

func gaussianKernel(ksize int) []float64 {
	sigma := 0.3*(float64(ksize-1)*0.5-1) + 0.8
	half := ksize / 2
	kernel := make([]float64, ksize)
	var sum float64
	for i := range kernel {
		d := float64(i - half)
		kernel[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// separable convolves rows then columns with a symmetric 1D kernel
func separable(src *image.Gray, kernel []float64) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	half := len(kernel) / 2

	tmp := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for k, kv := range kernel {
				sx := reflect101(x+k-half, w)
				sum += kv * float64(src.GrayAt(b.Min.X+sx, b.Min.Y+y).Y)
			}
			tmp[y*w+x] = sum
		}
	}

	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for k, kv := range kernel {
				sum += kv * tmp[reflect101(y+k-half, h)*w+x]
			}
			dst.Pix[y*dst.Stride+x] = saturate(sum)
		}
	}
	return dst
}

// reflect101 mirrors i into [0, n) without repeating the edge sample
// (gfedcb|abcdefgh|gfedcba).
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*(n-1) - i
		}
	}
	return i
}

func scaleAbs(src *image.Gray, alpha float64) *image.Gray {
	return mapPixels(src, func(v float64) float64 { return math.Abs(alpha * v) })
}

func mapPixels(src *image.Gray, fn func(float64) float64) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			v := float64(src.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
			dst.Pix[y*dst.Stride+x] = saturate(fn(v))
		}
	}
	return dst
}

func saturate(v float64) uint8 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(math.Round(v))
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
