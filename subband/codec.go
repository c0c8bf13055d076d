package subband

import (
	"fmt"

	"github.com/cocosip/go-subband-codec/codec"
	"github.com/cocosip/go-subband-codec/subband/codestream"
)

var _ codec.Codec = (*Codec)(nil)

const (
	// CodecName is the registry name of the subband codec
	CodecName = "subband-haar"

	// CodecUID identifies the codestream format in the codec registry
	CodecUID = "x-subband/" + codestream.Magic
)

// Codec adapts the pipeline to the byte-oriented codec.Codec interface.
type Codec struct {
	defaults *Options
}

// NewCodec creates a codec with the given default options (nil = NewOptions())
func NewCodec(defaults *Options) *Codec {
	if defaults == nil {
		defaults = NewOptions()
	}
	return &Codec{defaults: defaults}
}

func init() {
	codec.Register(NewCodec(nil))
}

// Name returns the codec name
func (c *Codec) Name() string {
	return CodecName
}

// UID returns the codestream format identifier
func (c *Codec) UID() string {
	return CodecUID
}

// Encode compresses 8-bit grayscale pixels into a codestream
func (c *Codec) Encode(params codec.EncodeParams) ([]byte, error) {
	if params.Components != 1 {
		return nil, fmt.Errorf("%w: %d components, only single-channel images are supported",
			codec.ErrUnsupportedFormat, params.Components)
	}
	if params.BitDepth != 8 {
		return nil, fmt.Errorf("%w: bit depth %d, only 8-bit samples are supported",
			codec.ErrUnsupportedFormat, params.BitDepth)
	}

	opts := c.defaults
	if params.Options != nil {
		o, ok := params.Options.(*Options)
		if !ok {
			return nil, fmt.Errorf("%w: options of type %T", codec.ErrInvalidParameter, params.Options)
		}
		opts = o
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	img, err := ImageFromBytes(params.PixelData, params.Height, params.Width)
	if err != nil {
		return nil, err
	}
	p, err := NewPipeline(opts)
	if err != nil {
		return nil, err
	}
	rep, err := p.Compress(img, opts.Step)
	if err != nil {
		return nil, err
	}
	return codestream.Marshal(rep)
}

// Decode decompresses a codestream into 8-bit grayscale pixels
func (c *Codec) Decode(data []byte) (*codec.DecodeResult, error) {
	rep, err := codestream.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	img, err := Decompress(rep)
	if err != nil {
		return nil, err
	}
	return &codec.DecodeResult{
		PixelData:  ToBytes(img),
		Width:      img.Cols,
		Height:     img.Rows,
		Components: 1,
		BitDepth:   8,
	}, nil
}
