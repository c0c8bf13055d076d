package codestream

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"math"

	"github.com/cocosip/go-subband-codec/codec"
)

// Read parses one codestream from r.
func Read(r io.Reader) (*Representation, error) {
	header := make([]byte, headerSize+crcSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, readError("header", err)
	}

	if string(header[0:4]) != Magic {
		return nil, fmt.Errorf("%w: bad magic %q", codec.ErrCorruptData, header[0:4])
	}
	if header[4] != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", codec.ErrCorruptData, header[4])
	}
	if got, want := crc32.ChecksumIEEE(header[:headerSize]), binary.BigEndian.Uint32(header[headerSize:]); got != want {
		return nil, fmt.Errorf("%w: header checksum %08x, want %08x", codec.ErrCorruptData, got, want)
	}

	payloadLen := binary.BigEndian.Uint32(header[30:])
	if payloadLen > MaxPayload {
		return nil, fmt.Errorf("%w: payload length %d", codec.ErrCorruptData, payloadLen)
	}

	rep := &Representation{
		Coder:    header[5],
		Rows:     int(binary.BigEndian.Uint32(header[6:])),
		Cols:     int(binary.BigEndian.Uint32(header[10:])),
		BandRows: int(binary.BigEndian.Uint32(header[14:])),
		BandCols: int(binary.BigEndian.Uint32(header[18:])),
		Step:     math.Float64frombits(binary.BigEndian.Uint64(header[22:])),
	}
	if err := rep.Validate(); err != nil {
		return nil, err
	}

	// Grow with the bytes actually present rather than trusting payloadLen.
	want := int64(payloadLen) + crcSize
	var buf bytes.Buffer
	n, err := buf.ReadFrom(io.LimitReader(r, want))
	if err != nil {
		return nil, readError("payload", err)
	}
	if n < want {
		return nil, readError("payload", io.ErrUnexpectedEOF)
	}
	body := buf.Bytes()
	rep.Payload = body[:payloadLen]
	if got, want := crc32.ChecksumIEEE(rep.Payload), binary.BigEndian.Uint32(body[payloadLen:]); got != want {
		return nil, fmt.Errorf("%w: payload checksum %08x, want %08x", codec.ErrCorruptData, got, want)
	}

	return rep, nil
}

// Unmarshal parses a complete codestream held in memory. Trailing bytes are
// rejected.
func Unmarshal(data []byte) (*Representation, error) {
	r := bytes.NewReader(data)
	rep, err := Read(r)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", codec.ErrCorruptData, r.Len())
	}
	return rep, nil
}

// readError classifies a short read as corrupt data and anything else as an
// I/O failure.
func readError(what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: truncated %s", codec.ErrCorruptData, what)
	}
	return fmt.Errorf("%w: read %s: %v", codec.ErrPersistence, what, err)
}
