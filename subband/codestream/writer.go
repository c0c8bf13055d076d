package codestream

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"math"

	"github.com/cocosip/go-subband-codec/codec"
)

// Marshal encodes rep into its byte layout.
func Marshal(rep *Representation) ([]byte, error) {
	if err := rep.Validate(); err != nil {
		return nil, err
	}

	buf := make([]byte, headerSize+crcSize+len(rep.Payload)+crcSize)
	copy(buf[0:4], Magic)
	buf[4] = Version
	buf[5] = rep.Coder
	binary.BigEndian.PutUint32(buf[6:], uint32(rep.Rows))
	binary.BigEndian.PutUint32(buf[10:], uint32(rep.Cols))
	binary.BigEndian.PutUint32(buf[14:], uint32(rep.BandRows))
	binary.BigEndian.PutUint32(buf[18:], uint32(rep.BandCols))
	binary.BigEndian.PutUint64(buf[22:], math.Float64bits(rep.Step))
	binary.BigEndian.PutUint32(buf[30:], uint32(len(rep.Payload)))
	binary.BigEndian.PutUint32(buf[headerSize:], crc32.ChecksumIEEE(buf[:headerSize]))

	off := headerSize + crcSize
	copy(buf[off:], rep.Payload)
	off += len(rep.Payload)
	binary.BigEndian.PutUint32(buf[off:], crc32.ChecksumIEEE(rep.Payload))

	return buf, nil
}

// Write encodes rep to w.
func Write(w io.Writer, rep *Representation) error {
	data, err := Marshal(rep)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("%w: write codestream: %v", codec.ErrPersistence, err)
	}
	return nil
}
