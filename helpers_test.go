package pngview

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/require"
)

// pngFile assembles PNG files for tests. Chunks are framed with correct
// CRCs unless a test corrupts them afterwards.
type pngFile struct {
	buf bytes.Buffer
}

func newPNG(hdr Metadata) *pngFile {
	p := &pngFile{}
	p.buf.WriteString(pngSignature)
	p.chunk(TypeIHDR, headerBytes(hdr))
	return p
}

func headerBytes(hdr Metadata) []byte {
	b := make([]byte, headerLength)
	binary.BigEndian.PutUint32(b[0:4], hdr.Width)
	binary.BigEndian.PutUint32(b[4:8], hdr.Height)
	b[8] = hdr.BitDepth
	b[9] = byte(hdr.ColorType)
	b[10] = hdr.CompressionMethod
	b[11] = hdr.FilterMethod
	b[12] = hdr.InterlaceMethod
	return b
}

func (p *pngFile) chunk(t ChunkType, data []byte) *pngFile {
	c := Chunk{Length: uint32(len(data)), Type: t, Data: data}
	c.CRC = c.ComputeCRC()
	p.buf.Write(c.Bytes())
	return p
}

func (p *pngFile) idat(data []byte) *pngFile {
	return p.chunk(TypeIDAT, data)
}

func (p *pngFile) end() *pngFile {
	return p.chunk(TypeIEND, nil)
}

func (p *pngFile) raw(b []byte) *pngFile {
	p.buf.Write(b)
	return p
}

func (p *pngFile) bytes() []byte {
	return append([]byte(nil), p.buf.Bytes()...)
}

func compress(t testing.TB, b []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	_, err := zw.Write(b)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func meta8(w, h uint32, ct ColorType) Metadata {
	return Metadata{Width: w, Height: h, BitDepth: 8, ColorType: ct}
}

// encodePNG builds a complete file from raw samples, filtering row y with
// filters[y%len(filters)].
func encodePNG(t testing.TB, hdr Metadata, raw []byte, filters ...byte) []byte {
	t.Helper()
	bpp, err := bytesPerPixel(hdr.ColorType, hdr.BitDepth)
	require.NoError(t, err)
	if len(filters) == 0 {
		filters = []byte{ftNone}
	}
	scan := filterImage(raw, int(hdr.Width), int(hdr.Height), bpp, filters)
	return newPNG(hdr).idat(compress(t, scan)).end().bytes()
}

func filterImage(raw []byte, width, height, bpp int, filters []byte) []byte {
	rowLen := width * bpp
	out := make([]byte, 0, (rowLen+1)*height)
	prev := make([]byte, rowLen)
	for y := 0; y < height; y++ {
		cur := raw[y*rowLen : (y+1)*rowLen]
		ft := filters[y%len(filters)]
		out = append(out, ft)
		out = append(out, filterRow(ft, cur, prev, bpp)...)
		prev = cur
	}
	return out
}

// filterRow is the encoder side of defilterRow.
func filterRow(ft byte, cur, prev []byte, bpp int) []byte {
	out := make([]byte, len(cur))
	for i := range cur {
		var a, b, c byte
		if i >= bpp {
			a = cur[i-bpp]
			c = prev[i-bpp]
		}
		b = prev[i]
		switch ft {
		case ftNone:
			out[i] = cur[i]
		case ftSub:
			out[i] = cur[i] - a
		case ftUp:
			out[i] = cur[i] - b
		case ftAverage:
			out[i] = cur[i] - uint8((int(a)+int(b))/2)
		case ftPaeth:
			out[i] = cur[i] - paeth(a, b, c)
		default:
			out[i] = cur[i]
		}
	}
	return out
}

// pattern fills n bytes with a deterministic, non-trivial sequence.
func pattern(n int, seed int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = uint8((i*17)^(i*31+seed) + seed*7)
	}
	return b
}
