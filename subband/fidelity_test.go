package subband

import (
	"errors"
	"math"
	"testing"

	"github.com/cocosip/go-subband-codec/codec"
)

func TestPSNRIdentical(t *testing.T) {
	for _, img := range []*Image{noiseImage(4, 4), constantImage(3, 5, 0), noiseImage(100, 37)} {
		psnr, err := PSNR(img, img.Clone())
		if err != nil {
			t.Fatalf("PSNR failed: %v", err)
		}
		if !math.IsInf(psnr, 1) {
			t.Errorf("PSNR of identical images = %v, want +Inf", psnr)
		}
	}
}

func TestPSNRKnownValue(t *testing.T) {
	a := constantImage(2, 2, 100)
	b := constantImage(2, 2, 100)
	b.Data[0] = 104 // MSE = 16/4 = 4

	mse, err := MSE(a, b)
	if err != nil {
		t.Fatalf("MSE failed: %v", err)
	}
	if mse != 4 {
		t.Errorf("MSE = %v, want 4", mse)
	}

	psnr, _ := PSNR(a, b)
	want := 20 * math.Log10(255/2.0)
	if math.Abs(psnr-want) > 1e-12 {
		t.Errorf("PSNR = %v, want %v", psnr, want)
	}
}

func TestPSNRShapeMismatch(t *testing.T) {
	tests := []struct {
		name string
		a, b *Image
	}{
		{"rows", NewImage(4, 4), NewImage(5, 4)},
		{"transposed", NewImage(2, 8), NewImage(8, 2)},
		{"nil", NewImage(2, 2), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := PSNR(tt.a, tt.b); !errors.Is(err, codec.ErrShapeMismatch) {
				t.Errorf("error = %v, want ErrShapeMismatch", err)
			}
		})
	}
}
