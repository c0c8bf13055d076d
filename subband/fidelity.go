package subband

import (
	"fmt"
	"math"

	"github.com/cocosip/go-subband-codec/codec"
)

// MSE returns the mean squared error between two same-shaped images
func MSE(original, reconstructed *Image) (float64, error) {
	if original == nil || reconstructed == nil {
		return 0, fmt.Errorf("%w: nil image", codec.ErrShapeMismatch)
	}
	if !original.SameShape(reconstructed) || len(original.Data) != len(reconstructed.Data) {
		return 0, fmt.Errorf("%w: %dx%d vs %dx%d", codec.ErrShapeMismatch,
			original.Rows, original.Cols, reconstructed.Rows, reconstructed.Cols)
	}
	if len(original.Data) == 0 {
		return 0, fmt.Errorf("%w: empty image", codec.ErrShapeMismatch)
	}

	var sum float64
	for i, v := range original.Data {
		d := v - reconstructed.Data[i]
		sum += d * d
	}
	return sum / float64(len(original.Data)), nil
}

// PSNR returns the peak signal-to-noise ratio in dB for 8-bit samples.
// Identical images yield +Inf.
func PSNR(original, reconstructed *Image) (float64, error) {
	mse, err := MSE(original, reconstructed)
	if err != nil {
		return 0, err
	}
	if mse == 0 {
		return math.Inf(1), nil
	}
	return 20 * math.Log10(MaxSample/math.Sqrt(mse)), nil
}
