package entropy

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/cocosip/go-subband-codec/codec"
	"github.com/cocosip/go-subband-codec/subband/wavelet"
)

// Zstd codes the flat coefficient layout with Zstandard. Quantized subbands
// have a small alphabet and long zero runs in the detail bands, which the
// entropy stage of zstd exploits.
type Zstd struct {
	Level zstd.EncoderLevel
}

var _ Coder = (*Zstd)(nil)

// NewZstd creates a Zstandard coder at the default level
func NewZstd() *Zstd {
	return &Zstd{Level: zstd.SpeedDefault}
}

// Encode flattens and compresses the subbands
func (z *Zstd) Encode(set *wavelet.Subbands) ([]byte, error) {
	raw, err := flatten(set)
	if err != nil {
		return nil, err
	}

	level := z.Level
	if level == 0 {
		level = zstd.SpeedDefault
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level), zstd.WithEncoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("zstd: create encoder: %w", err)
	}
	defer enc.Close()

	return enc.EncodeAll(raw, make([]byte, 0, len(raw)/4)), nil
}

// minDecoderMemory keeps the decoder limit above zstd's minimum window so
// tiny subband sets still decode.
const minDecoderMemory = 64 << 10

// Decode decompresses and parses the subbands. Output is capped near the size
// the shape implies, so a small frame cannot expand into a large allocation.
func (z *Zstd) Decode(data []byte, bandRows, bandCols int) (*wavelet.Subbands, error) {
	if bandRows <= 0 || bandCols <= 0 {
		return nil, fmt.Errorf("%w: subband shape %dx%d", codec.ErrCorruptData, bandRows, bandCols)
	}
	limit := max(rawSize(bandRows, bandCols), minDecoderMemory)
	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(uint64(limit)))
	if err != nil {
		return nil, fmt.Errorf("zstd: create decoder: %w", err)
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %v", codec.ErrCorruptData, err)
	}
	return unflatten(raw, bandRows, bandCols)
}

// ID returns IDZstd
func (z *Zstd) ID() uint8 { return IDZstd }

// Name returns "zstd"
func (z *Zstd) Name() string { return "zstd" }
