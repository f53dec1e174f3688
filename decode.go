// Package pngview decodes 8-bit, non-interlaced PNG images (grayscale,
// truecolor, and either with alpha) into a flat RGBA pixel buffer.
//
// The pipeline is strictly sequential: validate the signature and header
// chunk, walk the chunk stream verifying every CRC, concatenate the IDAT
// payloads, inflate them, undo the per-row filters and finally expand each
// pixel to RGBA. The first failure aborts the decode; no partial image is
// ever returned.
package pngview

import (
	"errors"
	"io"
	"io/fs"
	"math"
	"os"
	"sync"

	"github.com/svanichkin/pngview/internal/config"
	"github.com/svanichkin/pngview/internal/logging"
	"github.com/svanichkin/pngview/internal/oops"
)

// Options specifies decoding parameters.
type Options struct {
	// Strict rejects a missing IEND chunk, bytes after IEND and surplus
	// inflated pixel data. Without it the chunk stream ends with the buffer.
	Strict bool
	// MaxPixels caps Width*Height. Zero means config.DefaultMaxPixels.
	MaxPixels int
}

func resolveOptions(opts []*Options) Options {
	var o Options
	if len(opts) > 0 && opts[0] != nil {
		o = *opts[0]
	}
	if o.MaxPixels <= 0 {
		o.MaxPixels = config.DefaultMaxPixels
	}
	return o
}

// Decoder decodes PNG files, reusing its scratch buffers between calls.
// A Decoder is not safe for concurrent use.
type Decoder struct {
	Options

	compressed []byte // concatenated IDAT payloads
	inflated   []byte // filtered scanlines
	raw        []byte // reconstructed samples in source layout
}

func NewDecoder(opts ...*Options) *Decoder {
	return &Decoder{Options: resolveOptions(opts)}
}

// reset drops references to the last image while keeping small buffers.
func (d *Decoder) reset() {
	const keep = 1 << 20
	if cap(d.compressed) > keep {
		d.compressed = nil
	}
	if cap(d.inflated) > keep {
		d.inflated = nil
	}
	if cap(d.raw) > keep {
		d.raw = nil
	}
}

// Decode decodes a complete PNG file held in data.
func (d *Decoder) Decode(data []byte) (*DecodedImage, error) {
	r, err := newChunkReader(data, d.Strict)
	if err != nil {
		return nil, err
	}
	meta, bpp, err := d.readHeader(r)
	if err != nil {
		return nil, err
	}

	chunks, err := r.readChunks()
	if err != nil {
		return nil, err
	}
	d.compressed = joinImageData(d.compressed, chunks)

	width, height := int(meta.Width), int(meta.Height)
	rowLen := width * bpp
	d.inflated, err = inflate(d.inflated, d.compressed, (rowLen+1)*height, d.Strict)
	if err != nil {
		return nil, err
	}

	logging.Debug().
		Stringer("image", meta).
		Int("chunks", len(chunks)).
		Int("compressed", len(d.compressed)).
		Int("inflated", len(d.inflated)).
		Msg("decoding png")

	if cap(d.raw) < rowLen*height {
		d.raw = make([]byte, rowLen*height)
	}
	d.raw = d.raw[:rowLen*height]
	if err := unfilter(d.raw, d.inflated, width, height, bpp); err != nil {
		return nil, err
	}

	pix := make([]byte, 4*width*height)
	expandToRGBA(pix, d.raw, meta.ColorType)
	return &DecodedImage{Metadata: meta, Pix: pix, Chunks: len(chunks) + 1}, nil
}

// readHeader extracts and vets the metadata before any chunk past the
// header is touched.
func (d *Decoder) readHeader(r *chunkReader) (Metadata, int, error) {
	meta, err := parseHeader(r.headerData())
	if err != nil {
		return meta, 0, err
	}
	bpp, err := bytesPerPixel(meta.ColorType, meta.BitDepth)
	if err != nil {
		return meta, 0, err
	}

	maxPixels := d.MaxPixels
	if maxPixels <= 0 {
		maxPixels = config.DefaultMaxPixels
	}
	pixels := uint64(meta.Width) * uint64(meta.Height)
	if pixels > uint64(maxPixels) {
		return meta, 0, unsupported("image too large: %dx%d exceeds %d pixels", meta.Width, meta.Height, maxPixels)
	}
	// The inflated stream holds pixels*bpp samples plus a filter byte a row.
	if pixels > uint64(math.MaxInt-int(meta.Height))/5 {
		return meta, 0, unsupported("dimension overflow: %dx%d", meta.Width, meta.Height)
	}
	return meta, bpp, nil
}

// decoderPool is a pool of decoders to reuse scratch buffers.
var decoderPool = sync.Pool{
	New: func() interface{} {
		return NewDecoder()
	},
}

// Decode decodes a complete PNG file held in data. It accepts an optional
// Options struct.
func Decode(data []byte, opts ...*Options) (*DecodedImage, error) {
	d := decoderPool.Get().(*Decoder)
	defer func() {
		d.reset()
		decoderPool.Put(d)
	}()
	d.Options = resolveOptions(opts)

	return d.Decode(data)
}

// DecodeConfig validates the file framing and returns the header metadata
// without decompressing anything.
func DecodeConfig(data []byte) (Metadata, error) {
	r, err := newChunkReader(data, false)
	if err != nil {
		return Metadata{}, err
	}
	var d Decoder
	meta, _, err := d.readHeader(r)
	return meta, err
}

// Interface to check if a reader knows its remaining length.
type readerWithLen interface {
	Len() int
}

// readAllData reads data from r, pre-allocating if the size is known.
func readAllData(r io.Reader) ([]byte, error) {
	if rl, ok := r.(readerWithLen); ok {
		size := rl.Len()
		if size > 0 {
			data := make([]byte, size)
			if _, err := io.ReadFull(r, data); err != nil {
				return nil, err
			}
			return data, nil
		}
	}
	return io.ReadAll(r)
}

// DecodeReader reads r to the end and decodes the result.
func DecodeReader(r io.Reader, opts ...*Options) (*DecodedImage, error) {
	data, err := readAllData(r)
	if err != nil {
		return nil, oops.New(ErrReadFile, "%v", err)
	}
	return Decode(data, opts...)
}

// DecodeFile reads the whole file at path and decodes it. A missing file,
// one that cannot be opened and one that cannot be read fail with
// ErrBadFilePath, ErrOpenFile and ErrReadFile respectively.
func DecodeFile(path string, opts ...*Options) (*DecodedImage, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data, opts...)
}

// ReadFile loads a file wholesale, classifying failures like DecodeFile.
func ReadFile(path string) ([]byte, error) {
	if path == "" {
		return nil, oops.New(ErrBadFilePath, "empty path")
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, oops.New(ErrBadFilePath, "%s", path)
		}
		return nil, oops.New(ErrOpenFile, "%v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, oops.New(ErrOpenFile, "%v", err)
	}
	defer f.Close()

	data, err := readAllData(f)
	if err != nil {
		return nil, oops.New(ErrReadFile, "%s: %v", path, err)
	}
	logging.Debug().Str("path", path).Int("bytes", len(data)).Msg("read file")
	return data, nil
}
