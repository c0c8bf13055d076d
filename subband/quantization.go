package subband

import (
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/cocosip/go-subband-codec/codec"
	"github.com/cocosip/go-subband-codec/subband/wavelet"
)

// ValidateStep checks that step is a usable quantization step
func ValidateStep(step float64) error {
	if !(step > 0) || math.IsInf(step, 1) {
		return fmt.Errorf("%w: quantization step must be positive and finite, got %v", codec.ErrInvalidParameter, step)
	}
	return nil
}

// Quantize rounds every coefficient to the nearest multiple of step (ties to
// even). The result is a new set; each coefficient moves by at most step/2.
// Subbands are processed concurrently.
func Quantize(set *wavelet.Subbands, step float64) (*wavelet.Subbands, error) {
	if err := ValidateStep(step); err != nil {
		return nil, err
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}

	rows, cols := set.Shape()
	out := wavelet.NewSubbands(rows, cols)
	src, dst := set.Bands(), out.Bands()

	var g errgroup.Group
	for i := range src {
		g.Go(func() error {
			return quantizeBand(src[i].Data, dst[i].Data, step)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// quantizeBand fails when v/step overflows, which only happens for steps
// far below any meaningful sample resolution.
func quantizeBand(src, dst []float64, step float64) error {
	for i, v := range src {
		q := math.RoundToEven(v/step) * step
		if math.IsInf(q, 0) || math.IsNaN(q) {
			return fmt.Errorf("%w: step %v overflows coefficient %v", codec.ErrInvalidParameter, step, v)
		}
		dst[i] = q
	}
	return nil
}

// Dequantize returns the already-quantized set unchanged: scalar quantization
// has no inverse, reconstruction uses the quantized values directly.
func Dequantize(set *wavelet.Subbands) *wavelet.Subbands {
	return set
}

// Alphabet counts the distinct coefficient values across all subbands, the
// symbol alphabet seen by the entropy stage.
func Alphabet(set *wavelet.Subbands) int {
	seen := make(map[uint64]struct{})
	for _, band := range set.Bands() {
		for _, v := range band.Data {
			if v == 0 {
				v = 0 // fold -0 into +0
			}
			seen[math.Float64bits(v)] = struct{}{}
		}
	}
	return len(seen)
}
