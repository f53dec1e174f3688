package pngview

import (
	"encoding/binary"

	"github.com/svanichkin/pngview/internal/oops"
)

const pngSignature = "\x89PNG\r\n\x1a\n"

const (
	// length, type and CRC fields around every chunk payload.
	chunkOverhead = 12
	headerLength  = 13

	// Offsets of the header chunk within the file.
	headerLengthOffset = len(pngSignature)
	headerTypeOffset   = headerLengthOffset + 4
	headerDataOffset   = headerTypeOffset + 4
	headerCRCOffset    = headerDataOffset + headerLength
	headerEnd          = headerCRCOffset + 4

	// Signature, header chunk, one empty IDAT and IEND.
	minFileSize = headerEnd + 2*chunkOverhead
)

// chunkReader owns the file bytes and a cursor into them. Chunk payloads it
// returns are subslices of the file and must not be modified.
type chunkReader struct {
	data   []byte
	pos    int
	strict bool
}

// newChunkReader validates the file size, the signature and the framing of
// the header chunk, and positions the cursor just after the header chunk.
func newChunkReader(data []byte, strict bool) (*chunkReader, error) {
	if len(data) < minFileSize {
		return nil, oops.New(ErrInvalidStructure, "file is %d bytes, a PNG needs at least %d", len(data), minFileSize)
	}
	if string(data[:len(pngSignature)]) != pngSignature {
		return nil, oops.New(ErrInvalidSignature, "got % x", data[:len(pngSignature)])
	}

	length := binary.BigEndian.Uint32(data[headerLengthOffset:headerTypeOffset])
	if length != headerLength {
		return nil, oops.New(ErrInvalidHeader, "header chunk length is %d, want %d", length, headerLength)
	}
	var t ChunkType
	copy(t[:], data[headerTypeOffset:headerDataOffset])
	if t != TypeIHDR {
		return nil, oops.New(ErrInvalidHeader, "first chunk is %q, want %q", t, TypeIHDR)
	}

	r := &chunkReader{data: data, pos: headerEnd, strict: strict}
	if hdr := r.headerChunk(); !hdr.CRCIsValid() {
		return nil, oops.New(ErrChecksum, "chunk %s: computed %08x, stored %08x", hdr.Type, hdr.ComputeCRC(), hdr.CRC)
	}
	return r, nil
}

func (r *chunkReader) headerChunk() Chunk {
	return Chunk{
		Length: headerLength,
		Type:   TypeIHDR,
		Data:   r.data[headerDataOffset:headerCRCOffset],
		CRC:    binary.BigEndian.Uint32(r.data[headerCRCOffset:headerEnd]),
	}
}

// headerData is the fixed 13-byte header payload.
func (r *chunkReader) headerData() []byte {
	return r.data[headerDataOffset:headerCRCOffset]
}

func (r *chunkReader) remaining() int {
	return len(r.data) - r.pos
}

// next reads the chunk at the cursor and verifies its checksum.
func (r *chunkReader) next() (Chunk, error) {
	var c Chunk
	if r.remaining() < chunkOverhead {
		return c, oops.New(ErrInvalidStructure, "truncated chunk at offset %d: %d bytes left", r.pos, r.remaining())
	}

	start := r.pos
	c.Length = binary.BigEndian.Uint32(r.data[start : start+4])
	copy(c.Type[:], r.data[start+4:start+8])
	if uint64(c.Length) > uint64(r.remaining()-chunkOverhead) {
		return c, oops.New(ErrInvalidStructure, "chunk %s at offset %d declares %d bytes, only %d left", c.Type, start, c.Length, r.remaining()-chunkOverhead)
	}
	if c.Type == TypePLTE {
		return c, unsupported("palette chunk %s", c.Type)
	}

	dataEnd := start + 8 + int(c.Length)
	c.Data = r.data[start+8 : dataEnd]
	c.CRC = binary.BigEndian.Uint32(r.data[dataEnd : dataEnd+4])
	if !c.CRCIsValid() {
		return c, oops.New(ErrChecksum, "chunk %s at offset %d: computed %08x, stored %08x", c.Type, start, c.ComputeCRC(), c.CRC)
	}

	r.pos = dataEnd + 4
	return c, nil
}

// readChunks consumes the rest of the file. IEND chunks are consumed but not
// returned. Without strict mode the loop simply ends with the buffer.
func (r *chunkReader) readChunks() ([]Chunk, error) {
	var chunks []Chunk
	seenEnd := false
	for r.pos < len(r.data) {
		c, err := r.next()
		if err != nil {
			return nil, err
		}
		if c.Type == TypeIEND {
			seenEnd = true
			if r.strict && r.pos != len(r.data) {
				return nil, oops.New(ErrInvalidStructure, "%d bytes after %s", r.remaining(), TypeIEND)
			}
			continue
		}
		chunks = append(chunks, c)
	}
	if r.strict && !seenEnd {
		return nil, oops.New(ErrInvalidStructure, "missing %s chunk", TypeIEND)
	}
	return chunks, nil
}

// ReadChunks validates data as a PNG stream and returns its chunks in file
// order, header chunk first and IEND omitted.
func ReadChunks(data []byte, opts ...*Options) ([]Chunk, error) {
	o := resolveOptions(opts)
	r, err := newChunkReader(data, o.Strict)
	if err != nil {
		return nil, err
	}
	rest, err := r.readChunks()
	if err != nil {
		return nil, err
	}
	return append([]Chunk{r.headerChunk()}, rest...), nil
}
