package pngview

import (
	"encoding/binary"
	"fmt"

	"github.com/svanichkin/pngview/internal/oops"
)

// Metadata describes an image as declared by its header chunk.
type Metadata struct {
	Width             uint32
	Height            uint32
	BitDepth          uint8
	ColorType         ColorType
	CompressionMethod uint8
	FilterMethod      uint8
	InterlaceMethod   uint8
}

func (m Metadata) String() string {
	return fmt.Sprintf("%dx%d, %d-bit %s", m.Width, m.Height, m.BitDepth, m.ColorType)
}

// parseHeader reads the 13-byte header payload and rejects anything outside
// 8-bit, non-interlaced, method-0 images.
func parseHeader(b []byte) (Metadata, error) {
	if len(b) != headerLength {
		return Metadata{}, oops.New(ErrInvalidHeader, "header payload is %d bytes, want %d", len(b), headerLength)
	}
	m := Metadata{
		Width:             binary.BigEndian.Uint32(b[0:4]),
		Height:            binary.BigEndian.Uint32(b[4:8]),
		BitDepth:          b[8],
		ColorType:         ColorType(b[9]),
		CompressionMethod: b[10],
		FilterMethod:      b[11],
		InterlaceMethod:   b[12],
	}

	if m.Width == 0 || m.Height == 0 {
		return m, oops.New(ErrInvalidHeader, "zero dimension %dx%d", m.Width, m.Height)
	}
	if m.Width > 1<<31-1 || m.Height > 1<<31-1 {
		return m, oops.New(ErrInvalidHeader, "dimension %dx%d exceeds 2^31-1", m.Width, m.Height)
	}
	if m.CompressionMethod != 0 {
		return m, unsupported("compression method %d", m.CompressionMethod)
	}
	if m.FilterMethod != 0 {
		return m, unsupported("filter method %d", m.FilterMethod)
	}
	if m.InterlaceMethod != 0 {
		return m, unsupported("interlace method %d", m.InterlaceMethod)
	}
	if m.BitDepth != 8 {
		return m, unsupported("bit depth %d", m.BitDepth)
	}
	return m, nil
}
