package present

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/svanichkin/pngview"
)

// Raw dump layout: magic(4) + width(uint32) + height(uint32), then the
// zstd-compressed RGBA pixels, 4*width*height bytes once inflated.
const magicRaw = "PXZ1"

var ErrInvalidMagic = errors.New("raw: invalid magic")

// RawExporter writes each image as <Dir>/<name>.pxz.
type RawExporter struct {
	Dir     string
	Written []string
}

func (e *RawExporter) Present(name string, img *pngview.DecodedImage) error {
	path := OutputPath(e.Dir, name, ".pxz")
	err := writeFile(path, func(w io.Writer) error {
		return WriteRaw(w, img.NRGBA())
	})
	if err != nil {
		return err
	}
	e.Written = append(e.Written, path)
	return nil
}

func WriteRaw(w io.Writer, img *image.NRGBA) error {
	var b bytes.Buffer
	if err := writeRawHeader(&b, img.Rect.Dx(), img.Rect.Dy()); err != nil {
		return err
	}

	pix := img.Pix
	if img.Stride != 4*img.Rect.Dx() {
		pix = make([]byte, 0, 4*img.Rect.Dx()*img.Rect.Dy())
		for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
			off := img.PixOffset(img.Rect.Min.X, y)
			pix = append(pix, img.Pix[off:off+4*img.Rect.Dx()]...)
		}
	}
	comp, err := compressZstd(pix)
	if err != nil {
		return fmt.Errorf("zstd encode: %w", err)
	}
	b.Write(comp)

	_, err = w.Write(b.Bytes())
	return err
}

func ReadRaw(r io.Reader) (*image.NRGBA, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	br := bytes.NewReader(data)
	w, h, err := readRawHeader(br)
	if err != nil {
		return nil, err
	}

	pix, err := decompressZstd(data[len(data)-br.Len():])
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	if len(pix) != 4*w*h {
		return nil, fmt.Errorf("raw: %d pixel bytes for %dx%d", len(pix), w, h)
	}
	return &image.NRGBA{Pix: pix, Stride: 4 * w, Rect: image.Rect(0, 0, w, h)}, nil
}

func writeRawHeader(b *bytes.Buffer, w, h int) error {
	if _, err := b.Write([]byte(magicRaw)); err != nil {
		return err
	}
	if err := binary.Write(b, binary.BigEndian, uint32(w)); err != nil {
		return err
	}
	return binary.Write(b, binary.BigEndian, uint32(h))
}

func readRawHeader(r *bytes.Reader) (w, h int, err error) {
	magic := make([]byte, len(magicRaw))
	if _, err = io.ReadFull(r, magic); err != nil {
		return
	}
	if string(magic) != magicRaw {
		return 0, 0, ErrInvalidMagic
	}

	var w32, h32 uint32
	if err = binary.Read(r, binary.BigEndian, &w32); err != nil {
		return
	}
	if err = binary.Read(r, binary.BigEndian, &h32); err != nil {
		return
	}
	if uint64(w32)*uint64(h32) > uint64(1<<31) {
		return 0, 0, fmt.Errorf("raw: dimensions %dx%d too large", w32, h32)
	}
	return int(w32), int(h32), nil
}

// --- ZSTD helpers ---

func mustNewZstdEncoder() *zstd.Encoder {
	enc, err := zstd.NewWriter(
		nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
		zstd.WithLowerEncoderMem(true),
	)
	if err != nil {
		panic(err)
	}
	return enc
}

func mustNewZstdDecoder() *zstd.Decoder {
	dec, err := zstd.NewReader(
		nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(true),
	)
	if err != nil {
		panic(err)
	}
	return dec
}

var zstdEncPool = sync.Pool{
	New: func() any {
		return mustNewZstdEncoder()
	},
}

var zstdDecPool = sync.Pool{
	New: func() any {
		return mustNewZstdDecoder()
	},
}

func compressZstd(data []byte) ([]byte, error) {
	enc := zstdEncPool.Get().(*zstd.Encoder)
	out := enc.EncodeAll(data, nil)
	zstdEncPool.Put(enc)
	return out, nil
}

func decompressZstd(data []byte) ([]byte, error) {
	dec := zstdDecPool.Get().(*zstd.Decoder)
	out, err := dec.DecodeAll(data, nil)
	zstdDecPool.Put(dec)
	return out, err
}
