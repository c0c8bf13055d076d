package wavelet

import (
	"fmt"

	"github.com/cocosip/go-subband-codec/codec"
)

// Plane is a single-channel grid of samples stored row-major.
// It carries both images and subband coefficient matrices.
type Plane struct {
	Rows int
	Cols int
	Data []float64
}

// NewPlane allocates a zeroed rows x cols plane
func NewPlane(rows, cols int) *Plane {
	return &Plane{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

// At returns the sample at (row, col)
func (p *Plane) At(row, col int) float64 {
	return p.Data[row*p.Cols+col]
}

// Set stores v at (row, col)
func (p *Plane) Set(row, col int, v float64) {
	p.Data[row*p.Cols+col] = v
}

// Row returns the backing slice of one row
func (p *Plane) Row(row int) []float64 {
	return p.Data[row*p.Cols : (row+1)*p.Cols]
}

// Clone returns a deep copy of p
func (p *Plane) Clone() *Plane {
	c := NewPlane(p.Rows, p.Cols)
	copy(c.Data, p.Data)
	return c
}

// SameShape reports whether p and o have identical dimensions
func (p *Plane) SameShape(o *Plane) bool {
	return p.Rows == o.Rows && p.Cols == o.Cols
}

// Validate checks that the backing slice matches the declared shape
func (p *Plane) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil plane", codec.ErrInvalidParameter)
	}
	if p.Rows <= 0 || p.Cols <= 0 {
		return fmt.Errorf("%w: empty plane %dx%d", codec.ErrInvalidParameter, p.Rows, p.Cols)
	}
	if len(p.Data) != p.Rows*p.Cols {
		return fmt.Errorf("%w: plane %dx%d has %d samples", codec.ErrShapeMismatch, p.Rows, p.Cols, len(p.Data))
	}
	return nil
}

// Subbands holds the four half-resolution matrices of a one-level decomposition.
type Subbands struct {
	A *Plane // approximation (low/low)
	H *Plane // horizontal detail
	V *Plane // vertical detail
	D *Plane // diagonal detail
}

// Bands returns the four subbands in canonical order A, H, V, D
func (s *Subbands) Bands() [4]*Plane {
	return [4]*Plane{s.A, s.H, s.V, s.D}
}

// Shape returns the common subband dimensions
func (s *Subbands) Shape() (rows, cols int) {
	return s.A.Rows, s.A.Cols
}

// Validate checks that all four subbands exist and share one shape
func (s *Subbands) Validate() error {
	if s == nil || s.A == nil || s.H == nil || s.V == nil || s.D == nil {
		return fmt.Errorf("%w: incomplete subband set", codec.ErrShapeMismatch)
	}
	for i, b := range s.Bands() {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("subband %d: %w", i, err)
		}
		if !b.SameShape(s.A) {
			return fmt.Errorf("%w: subband %d is %dx%d, approximation is %dx%d",
				codec.ErrShapeMismatch, i, b.Rows, b.Cols, s.A.Rows, s.A.Cols)
		}
	}
	return nil
}

// Clone returns a deep copy of the set
func (s *Subbands) Clone() *Subbands {
	return &Subbands{A: s.A.Clone(), H: s.H.Clone(), V: s.V.Clone(), D: s.D.Clone()}
}

// NewSubbands allocates four zeroed rows x cols subbands
func NewSubbands(rows, cols int) *Subbands {
	return &Subbands{
		A: NewPlane(rows, cols),
		H: NewPlane(rows, cols),
		V: NewPlane(rows, cols),
		D: NewPlane(rows, cols),
	}
}
