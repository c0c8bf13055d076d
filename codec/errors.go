package codec

import "errors"

var (
	// ErrCodecNotFound is returned when a codec or entropy coder is not found in a registry
	ErrCodecNotFound = errors.New("codec not found")

	// ErrInvalidParameter is returned when encoding parameters are invalid
	// (for example a non-positive quantization step)
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrShapeMismatch is returned when two images or subbands that must share
	// dimensions do not
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrPersistence is returned when reading or writing an encoded stream fails at the I/O level
	ErrPersistence = errors.New("persistence error")

	// ErrCorruptData is returned when an encoded stream is structurally invalid
	ErrCorruptData = errors.New("corrupt data")

	// ErrUnsupportedFormat is returned when the format is not supported
	ErrUnsupportedFormat = errors.New("unsupported format")
)
