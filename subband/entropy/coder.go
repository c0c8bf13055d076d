// Package entropy provides the lossless coding stage applied to quantized
// subbands. Coders are interchangeable: every implementation must satisfy
// Decode(Encode(x)) == x exactly.
package entropy

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cocosip/go-subband-codec/codec"
	"github.com/cocosip/go-subband-codec/subband/wavelet"
)

// Coder is the lossless coding stage over a quantized subband set.
type Coder interface {
	// Encode serializes and codes the subbands into a token stream
	Encode(set *wavelet.Subbands) ([]byte, error)

	// Decode reverses Encode for subbands of the given shape
	Decode(data []byte, bandRows, bandCols int) (*wavelet.Subbands, error)

	// ID is the identifier stored in the codestream header
	ID() uint8

	// Name returns a human-readable name
	Name() string
}

// Coder identifiers as persisted in the codestream.
const (
	IDIdentity uint8 = 0
	IDZstd     uint8 = 1
	IDS2       uint8 = 2
)

const sampleSize = 8

// rawSize returns the byte length of the flat representation of four
// bandRows x bandCols subbands.
func rawSize(bandRows, bandCols int) int {
	return 4 * bandRows * bandCols * sampleSize
}

// flatten writes bands A, H, V, D as little-endian float64 values.
func flatten(set *wavelet.Subbands) ([]byte, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}
	rows, cols := set.Shape()
	out := make([]byte, rawSize(rows, cols))
	off := 0
	for _, band := range set.Bands() {
		for _, v := range band.Data {
			binary.LittleEndian.PutUint64(out[off:], math.Float64bits(v))
			off += sampleSize
		}
	}
	return out, nil
}

// unflatten is the inverse of flatten.
func unflatten(data []byte, bandRows, bandCols int) (*wavelet.Subbands, error) {
	if bandRows <= 0 || bandCols <= 0 {
		return nil, fmt.Errorf("%w: subband shape %dx%d", codec.ErrCorruptData, bandRows, bandCols)
	}
	if want := rawSize(bandRows, bandCols); len(data) != want {
		return nil, fmt.Errorf("%w: payload is %d bytes, %dx%d subbands need %d",
			codec.ErrCorruptData, len(data), bandRows, bandCols, want)
	}

	set := wavelet.NewSubbands(bandRows, bandCols)
	off := 0
	for _, band := range set.Bands() {
		for i := range band.Data {
			band.Data[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[off:]))
			off += sampleSize
		}
	}
	return set, nil
}
