// Package wavelet implements the single-level separable Haar filter bank used
// by the subband codec.
package wavelet

import (
	"fmt"
	"math"

	"github.com/cocosip/go-subband-codec/codec"
)

// Orthonormal Haar analysis/synthesis taps: low = (1, 1)/sqrt2, high = (1, -1)/sqrt2.
const invSqrt2 = 1 / math.Sqrt2

// Analyze1D splits an even-length signal into low-pass and high-pass halves.
// lo and hi must each hold len(src)/2 values.
func Analyze1D(src, lo, hi []float64) {
	for i := range lo {
		x0, x1 := src[2*i], src[2*i+1]
		lo[i] = (x0 + x1) * invSqrt2
		hi[i] = (x0 - x1) * invSqrt2
	}
}

// Synthesize1D is the inverse of Analyze1D: it upsamples lo and hi and sums
// the synthesis filter outputs into dst (len(dst) == 2*len(lo)).
func Synthesize1D(lo, hi, dst []float64) {
	for i := range lo {
		dst[2*i] = (lo[i] + hi[i]) * invSqrt2
		dst[2*i+1] = (lo[i] - hi[i]) * invSqrt2
	}
}

// Forward decomposes img into its four subbands. Rows are filtered first,
// then columns. Odd dimensions are padded by replicating the last row/column.
func Forward(img *Plane) (*Subbands, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}

	src := padEven(img)
	bandRows, bandCols := BandDimensions(img.Rows, img.Cols)

	// Horizontal pass: each row -> low | high along x.
	low := NewPlane(src.Rows, bandCols)
	high := NewPlane(src.Rows, bandCols)
	for r := 0; r < src.Rows; r++ {
		Analyze1D(src.Row(r), low.Row(r), high.Row(r))
	}

	// Vertical pass on both intermediate planes.
	set := NewSubbands(bandRows, bandCols)
	col := make([]float64, src.Rows)
	lo := make([]float64, bandRows)
	hi := make([]float64, bandRows)
	for c := 0; c < bandCols; c++ {
		for r := 0; r < src.Rows; r++ {
			col[r] = low.At(r, c)
		}
		Analyze1D(col, lo, hi)
		for r := 0; r < bandRows; r++ {
			set.A.Set(r, c, lo[r])
			set.H.Set(r, c, hi[r])
		}

		for r := 0; r < src.Rows; r++ {
			col[r] = high.At(r, c)
		}
		Analyze1D(col, lo, hi)
		for r := 0; r < bandRows; r++ {
			set.V.Set(r, c, lo[r])
			set.D.Set(r, c, hi[r])
		}
	}

	return set, nil
}

// Inverse reconstructs a rows x cols plane from set. The subband shape must
// equal BandDimensions(rows, cols).
func Inverse(set *Subbands, rows, cols int) (*Plane, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: target size %dx%d", codec.ErrInvalidParameter, rows, cols)
	}
	bandRows, bandCols := set.Shape()
	if wantRows, wantCols := BandDimensions(rows, cols); wantRows != bandRows || wantCols != bandCols {
		return nil, fmt.Errorf("%w: subbands %dx%d cannot reconstruct %dx%d (need %dx%d)",
			codec.ErrShapeMismatch, bandRows, bandCols, rows, cols, wantRows, wantCols)
	}

	fullRows, fullCols := 2*bandRows, 2*bandCols

	// Vertical synthesis back to the horizontal low/high planes.
	low := NewPlane(fullRows, bandCols)
	high := NewPlane(fullRows, bandCols)
	lo := make([]float64, bandRows)
	hi := make([]float64, bandRows)
	col := make([]float64, fullRows)
	for c := 0; c < bandCols; c++ {
		for r := 0; r < bandRows; r++ {
			lo[r] = set.A.At(r, c)
			hi[r] = set.H.At(r, c)
		}
		Synthesize1D(lo, hi, col)
		for r := 0; r < fullRows; r++ {
			low.Set(r, c, col[r])
		}

		for r := 0; r < bandRows; r++ {
			lo[r] = set.V.At(r, c)
			hi[r] = set.D.At(r, c)
		}
		Synthesize1D(lo, hi, col)
		for r := 0; r < fullRows; r++ {
			high.Set(r, c, col[r])
		}
	}

	out := NewPlane(fullRows, fullCols)
	for r := 0; r < fullRows; r++ {
		Synthesize1D(low.Row(r), high.Row(r), out.Row(r))
	}

	return crop(out, rows, cols), nil
}
