package entropy

import (
	"fmt"

	"github.com/klauspost/compress/s2"

	"github.com/cocosip/go-subband-codec/codec"
	"github.com/cocosip/go-subband-codec/subband/wavelet"
)

// S2 codes the flat coefficient layout with the S2 block format, trading
// ratio for speed compared to Zstd.
type S2 struct{}

var _ Coder = S2{}

// Encode flattens and compresses the subbands
func (S2) Encode(set *wavelet.Subbands) ([]byte, error) {
	raw, err := flatten(set)
	if err != nil {
		return nil, err
	}
	return s2.EncodeBetter(nil, raw), nil
}

// Decode decompresses and parses the subbands
func (S2) Decode(data []byte, bandRows, bandCols int) (*wavelet.Subbands, error) {
	n, err := s2.DecodedLen(data)
	if err != nil {
		return nil, fmt.Errorf("%w: s2: %v", codec.ErrCorruptData, err)
	}
	if want := rawSize(bandRows, bandCols); n != want {
		return nil, fmt.Errorf("%w: s2 block decodes to %d bytes, want %d", codec.ErrCorruptData, n, want)
	}
	raw, err := s2.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("%w: s2: %v", codec.ErrCorruptData, err)
	}
	return unflatten(raw, bandRows, bandCols)
}

// ID returns IDS2
func (S2) ID() uint8 { return IDS2 }

// Name returns "s2"
func (S2) Name() string { return "s2" }
