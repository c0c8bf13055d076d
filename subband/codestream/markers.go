package codestream

// Magic identifies a subband codestream
const Magic = "SBND"

// Version is the layout version written by this package
const Version uint8 = 1

// Limits enforced when parsing, so a corrupt header cannot request huge allocations.
const (
	MaxDimension = 1 << 16
	MaxPayload   = 1 << 30
)

const (
	headerSize = 34 // bytes covered by the header CRC
	crcSize    = 4
)
