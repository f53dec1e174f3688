package pngview

import (
	"bytes"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"
	"github.com/svanichkin/pngview/internal/oops"
)

// joinImageData concatenates the IDAT payloads in file order.
func joinImageData(dst []byte, chunks []Chunk) []byte {
	dst = dst[:0]
	for i := range chunks {
		if chunks[i].Type == TypeIDAT {
			dst = append(dst, chunks[i].Data...)
		}
	}
	return dst
}

var zlibReaderPool sync.Pool

func getZlibReader(r io.Reader) (io.ReadCloser, error) {
	if zr, ok := zlibReaderPool.Get().(io.ReadCloser); ok {
		if err := zr.(zlib.Resetter).Reset(r, nil); err != nil {
			return nil, err
		}
		return zr, nil
	}
	return zlib.NewReader(r)
}

func putZlibReader(zr io.ReadCloser) {
	zlibReaderPool.Put(zr)
}

// maxSurplus bounds how much trailing data is inflated, and thrown away,
// to reach the zlib checksum in lenient mode.
const maxSurplus = 1 << 24

// inflate decompresses the zlib stream into dst. Output shorter than want is
// a structural error; longer output is only rejected when strict.
func inflate(dst, compressed []byte, want int, strict bool) ([]byte, error) {
	zr, err := getZlibReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, oops.New(ErrDecompress, "zlib header: %v", err)
	}
	defer putZlibReader(zr)

	buf := bytes.NewBuffer(dst[:0])
	buf.Grow(want + 1)
	if _, err := buf.ReadFrom(io.LimitReader(zr, int64(want)+1)); err != nil {
		return nil, oops.New(ErrDecompress, "%v", err)
	}

	out := buf.Bytes()
	if len(out) < want {
		return nil, oops.New(ErrInvalidStructure, "not enough pixel data: inflated %d bytes, need %d", len(out), want)
	}
	if len(out) > want {
		if strict {
			return nil, oops.New(ErrInvalidStructure, "too much pixel data")
		}
		if _, err := io.Copy(io.Discard, io.LimitReader(zr, maxSurplus)); err != nil {
			return nil, oops.New(ErrDecompress, "%v", err)
		}
	}
	return out[:want], nil
}
