package pngview

import (
	"fmt"
	"image"
)

// DecodedImage is a fully reconstructed image. Pix holds Height rows of
// Width RGBA pixels (straight alpha), 4 bytes per pixel, no padding.
type DecodedImage struct {
	Metadata Metadata
	Pix      []byte
	// Chunks counts the chunks in the file, header included and IEND not.
	Chunks int
}

func (img *DecodedImage) Width() int {
	return int(img.Metadata.Width)
}

func (img *DecodedImage) Height() int {
	return int(img.Metadata.Height)
}

// Stride is the distance in bytes between vertically adjacent pixels.
func (img *DecodedImage) Stride() int {
	return 4 * img.Width()
}

// Channels is the number of samples per pixel in the source file.
func (img *DecodedImage) Channels() int {
	n, _ := channels(img.Metadata.ColorType, img.Metadata.BitDepth)
	return n
}

// NRGBA returns a copy of the pixels as an *image.NRGBA.
func (img *DecodedImage) NRGBA() *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, img.Width(), img.Height()))
	copy(dst.Pix, img.Pix)
	return dst
}

// String describes the decoded image in one line.
func (img *DecodedImage) String() string {
	return fmt.Sprintf("%s, %d channel(s)", img.Metadata, img.Channels())
}
