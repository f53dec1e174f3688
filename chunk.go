package pngview

import (
	"encoding/binary"
	"hash/crc32"
)

// ChunkType is the 4-byte tag naming a chunk.
type ChunkType [4]byte

var (
	TypeIHDR = ChunkType{'I', 'H', 'D', 'R'}
	TypePLTE = ChunkType{'P', 'L', 'T', 'E'}
	TypeIDAT = ChunkType{'I', 'D', 'A', 'T'}
	TypeIEND = ChunkType{'I', 'E', 'N', 'D'}
)

func (t ChunkType) String() string {
	return string(t[:])
}

// Critical reports whether a decoder must understand the chunk; the
// ancillary bit is bit 5 of the first byte.
func (t ChunkType) Critical() bool {
	return t[0]&0x20 == 0
}

// Chunk is one length-prefixed, checksummed record of a PNG stream.
type Chunk struct {
	Length uint32
	Type   ChunkType
	Data   []byte
	CRC    uint32
}

// ComputeCRC returns the CRC-32 of the type tag followed by the data.
func (c *Chunk) ComputeCRC() uint32 {
	return chunkCRC(c.Type, c.Data)
}

func (c *Chunk) CRCIsValid() bool {
	return c.ComputeCRC() == c.CRC
}

// Size is the number of bytes the chunk occupies in the file.
func (c *Chunk) Size() int {
	return chunkOverhead + len(c.Data)
}

// Bytes frames the chunk as it appears in a PNG file.
func (c *Chunk) Bytes() []byte {
	out := make([]byte, c.Size())
	binary.BigEndian.PutUint32(out[0:4], uint32(len(c.Data)))
	copy(out[4:8], c.Type[:])
	copy(out[8:], c.Data)
	binary.BigEndian.PutUint32(out[8+len(c.Data):], c.CRC)
	return out
}

func chunkCRC(t ChunkType, data []byte) uint32 {
	crc := crc32.NewIEEE()
	crc.Write(t[:])
	crc.Write(data)
	return crc.Sum32()
}
