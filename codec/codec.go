// Package codec holds what every image codec in this module shares: the Codec
// interface, the error taxonomy and a registry keyed by name and bitstream UID.
package codec

// Codec encodes raw row-major samples into a self-describing bitstream and back
type Codec interface {
	// Encode encodes pixel data
	Encode(params EncodeParams) ([]byte, error)

	// Decode decodes compressed data
	Decode(data []byte) (*DecodeResult, error)

	// UID returns the unique identifier of the bitstream format
	UID() string

	// Name returns a human-readable name
	Name() string
}

// EncodeParams contains parameters for encoding
type EncodeParams struct {
	PixelData  []byte  // Raw pixel data, row-major
	Width      int     // Image width
	Height     int     // Image height
	Components int     // Number of color components (1=grayscale, 3=RGB)
	BitDepth   int     // Bits per sample
	Options    Options // Codec-specific options
}

// Options is an interface for codec-specific encoding options
type Options interface {
	// Validate checks if the options are valid
	Validate() error
}

// DecodeResult contains the result of decoding
type DecodeResult struct {
	PixelData  []byte // Decoded pixel data
	Width      int    // Image width
	Height     int    // Image height
	Components int    // Number of color components
	BitDepth   int    // Bits per sample
}
