package present

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/svanichkin/pngview"
	"golang.org/x/image/bmp"
)

func makeDecoded(w, h int) *pngview.DecodedImage {
	img := &pngview.DecodedImage{
		Metadata: pngview.Metadata{Width: uint32(w), Height: uint32(h), BitDepth: 8, ColorType: pngview.ColorRGB},
		Pix:      make([]byte, 4*w*h),
		Chunks:   3,
	}
	for i := 0; i < w*h; i++ {
		img.Pix[4*i+0] = uint8(i * 17)
		img.Pix[4*i+1] = uint8(i * 43)
		img.Pix[4*i+2] = uint8(i * 7)
		img.Pix[4*i+3] = 255
	}
	return img
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Summary{W: &buf}.Present("kitten", makeDecoded(3, 2)))
	assert.Equal(t, "kitten: 3x2, 8-bit truecolor, 3 chunk(s)\n", buf.String())
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "kitten", DisplayName("/tmp/pics/kitten.png"))
	assert.Equal(t, "archive.tar", DisplayName("archive.tar.png"))
	assert.Equal(t, "noext", DisplayName("noext"))
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "kitten.bmp", OutputPath("", "kitten", ".bmp"))
	assert.Equal(t, filepath.Join("out", "kitten.pxz"), OutputPath("out", "kitten", ".pxz"))
}

func TestBMPExporter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	src := makeDecoded(5, 4)
	e := &BMPExporter{Dir: dir, Scale: 1}
	require.NoError(t, e.Present("pic", src))
	require.Equal(t, []string{filepath.Join(dir, "pic.bmp")}, e.Written)

	f, err := os.Open(e.Written[0])
	require.NoError(t, err)
	defer f.Close()
	got, err := bmp.Decode(f)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 5, 4), got.Bounds())

	want := src.NRGBA()
	for y := 0; y < 4; y++ {
		for x := 0; x < 5; x++ {
			assert.Equal(t, color.RGBAModel.Convert(want.At(x, y)), color.RGBAModel.Convert(got.At(x, y)), "(%d,%d)", x, y)
		}
	}
}

func TestBMPExporterScaled(t *testing.T) {
	e := &BMPExporter{Dir: t.TempDir(), Scale: 2}
	require.NoError(t, e.Present("pic", makeDecoded(5, 4)))

	f, err := os.Open(e.Written[0])
	require.NoError(t, err)
	defer f.Close()
	cfg, err := bmp.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Width)
	assert.Equal(t, 8, cfg.Height)
}

func TestScale(t *testing.T) {
	src := makeDecoded(4, 4).NRGBA()
	assert.Same(t, src, Scale(src, 1))
	assert.Same(t, src, Scale(src, 0))
	assert.Equal(t, image.Rect(0, 0, 2, 2), Scale(src, 0.5).Bounds())
	assert.Equal(t, image.Rect(0, 0, 1, 1), Scale(src, 0.01).Bounds())
}

func TestRawRoundTrip(t *testing.T) {
	src := makeDecoded(7, 3)
	e := &RawExporter{Dir: t.TempDir()}
	require.NoError(t, e.Present("dump", src))

	f, err := os.Open(e.Written[0])
	require.NoError(t, err)
	defer f.Close()
	got, err := ReadRaw(f)
	require.NoError(t, err)
	assert.Equal(t, src.NRGBA(), got)
}

func TestRawSubImage(t *testing.T) {
	full := makeDecoded(6, 6).NRGBA()
	sub := full.SubImage(image.Rect(1, 2, 4, 5)).(*image.NRGBA)

	var buf bytes.Buffer
	require.NoError(t, WriteRaw(&buf, sub))
	got, err := ReadRaw(&buf)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 3, 3), got.Bounds())
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			assert.Equal(t, sub.NRGBAAt(x+1, y+2), got.NRGBAAt(x, y))
		}
	}
}

func TestReadRawErrors(t *testing.T) {
	_, err := ReadRaw(bytes.NewReader([]byte("BABE\n")))
	assert.ErrorIs(t, err, ErrInvalidMagic)

	_, err = ReadRaw(bytes.NewReader([]byte("PXZ1\x00")))
	assert.Error(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteRaw(&buf, makeDecoded(2, 2).NRGBA()))
	data := buf.Bytes()
	data[7] = 3 // width 3, pixels still sized for 2
	_, err = ReadRaw(bytes.NewReader(data))
	assert.Error(t, err)
}
