package pngview

import (
	"fmt"

	"github.com/svanichkin/pngview/internal/oops"
)

// ColorType is the header's color type field.
type ColorType uint8

const (
	ColorGray      ColorType = 0
	ColorRGB       ColorType = 2
	ColorIndexed   ColorType = 3
	ColorGrayAlpha ColorType = 4
	ColorRGBA      ColorType = 6
)

func (ct ColorType) String() string {
	switch ct {
	case ColorGray:
		return "grayscale"
	case ColorRGB:
		return "truecolor"
	case ColorIndexed:
		return "indexed-color"
	case ColorGrayAlpha:
		return "grayscale+alpha"
	case ColorRGBA:
		return "truecolor+alpha"
	}
	return fmt.Sprintf("color type %d", uint8(ct))
}

// channels maps a color type and bit depth to the number of samples per
// pixel.
func channels(ct ColorType, depth uint8) (int, error) {
	var n int
	switch ct {
	case ColorGray:
		switch depth {
		case 1, 2, 4, 8, 16:
			return 1, nil
		}
		return 0, oops.New(ErrInvalidHeader, "bit depth %d is not allowed for %s", depth, ct)
	case ColorIndexed:
		return 0, unsupported("%s images", ct)
	case ColorRGB:
		n = 3
	case ColorGrayAlpha:
		n = 2
	case ColorRGBA:
		n = 4
	default:
		return 0, oops.New(ErrInvalidHeader, "unknown %s", ct)
	}
	if depth != 8 && depth != 16 {
		return 0, oops.New(ErrInvalidHeader, "bit depth %d is not allowed for %s", depth, ct)
	}
	return n, nil
}

// bytesPerPixel is the distance between a sample and the same sample of the
// previous pixel in a scanline. Depths below 8 still step by one byte.
func bytesPerPixel(ct ColorType, depth uint8) (int, error) {
	n, err := channels(ct, depth)
	if err != nil {
		return 0, err
	}
	return max(n*int(depth)/8, 1), nil
}
