// Package codestream defines the persisted form of an encoded image and
// reads and writes it.
//
// Layout (big-endian):
//
//	offset  size  field
//	0       4     magic "SBND"
//	4       1     version
//	5       1     entropy coder ID
//	6       4     image rows
//	10      4     image cols
//	14      4     subband rows
//	18      4     subband cols
//	22      8     quantization step (IEEE-754)
//	30      4     payload length
//	34      4     CRC-32 (IEEE) of bytes 0..33
//	38      n     payload
//	38+n    4     CRC-32 (IEEE) of the payload
package codestream

import (
	"fmt"
	"math"

	"github.com/cocosip/go-subband-codec/codec"
	"github.com/cocosip/go-subband-codec/subband/wavelet"
)

// Representation is an entropy-coded, quantized subband set together with
// everything needed to reconstruct the image from it.
type Representation struct {
	Rows     int     // original image rows
	Cols     int     // original image columns
	BandRows int     // rows of each subband
	BandCols int     // columns of each subband
	Step     float64 // quantization step used at encode time
	Coder    uint8   // entropy coder ID
	Payload  []byte  // entropy-coded subbands
}

// Validate checks the shape metadata for internal consistency.
func (r *Representation) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil representation", codec.ErrCorruptData)
	}
	if r.Rows <= 0 || r.Cols <= 0 || r.Rows > MaxDimension || r.Cols > MaxDimension {
		return fmt.Errorf("%w: image size %dx%d", codec.ErrCorruptData, r.Rows, r.Cols)
	}
	if wantRows, wantCols := wavelet.BandDimensions(r.Rows, r.Cols); r.BandRows != wantRows || r.BandCols != wantCols {
		return fmt.Errorf("%w: subband size %dx%d does not match image %dx%d",
			codec.ErrCorruptData, r.BandRows, r.BandCols, r.Rows, r.Cols)
	}
	if !(r.Step > 0) || math.IsInf(r.Step, 0) {
		return fmt.Errorf("%w: quantization step %v", codec.ErrCorruptData, r.Step)
	}
	if len(r.Payload) > MaxPayload {
		return fmt.Errorf("%w: payload of %d bytes", codec.ErrCorruptData, len(r.Payload))
	}
	return nil
}
