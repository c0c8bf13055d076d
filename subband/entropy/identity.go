package entropy

import "github.com/cocosip/go-subband-codec/subband/wavelet"

// Identity is the pass-through coder: the token stream is the flat
// coefficient layout with no size reduction.
type Identity struct{}

var _ Coder = Identity{}

// Encode returns the flat coefficient layout
func (Identity) Encode(set *wavelet.Subbands) ([]byte, error) {
	return flatten(set)
}

// Decode parses the flat coefficient layout
func (Identity) Decode(data []byte, bandRows, bandCols int) (*wavelet.Subbands, error) {
	return unflatten(data, bandRows, bandCols)
}

// ID returns IDIdentity
func (Identity) ID() uint8 { return IDIdentity }

// Name returns "identity"
func (Identity) Name() string { return "identity" }
