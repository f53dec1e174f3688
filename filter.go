package pngview

import (
	"github.com/svanichkin/pngview/internal/oops"
)

// Filter type, the first byte of every scanline.
const (
	ftNone    = 0
	ftSub     = 1
	ftUp      = 2
	ftAverage = 3
	ftPaeth   = 4
	nFilter   = 5
)

// defilterRow reconstructs cur in place. prev is the previous reconstructed
// row (all zero for the first row) and bpp is the source bytes per pixel,
// the distance back to the same sample of the left neighbour.
func defilterRow(ft byte, cur, prev []byte, bpp int) error {
	switch ft {
	case ftNone:
	case ftSub:
		for i := bpp; i < len(cur); i++ {
			cur[i] += cur[i-bpp]
		}
	case ftUp:
		for i, p := range prev {
			cur[i] += p
		}
	case ftAverage:
		// The first pixel has no left neighbour.
		for i := 0; i < bpp && i < len(cur); i++ {
			cur[i] += prev[i] / 2
		}
		for i := bpp; i < len(cur); i++ {
			cur[i] += uint8((int(cur[i-bpp]) + int(prev[i])) / 2)
		}
	case ftPaeth:
		for i := 0; i < bpp && i < len(cur); i++ {
			cur[i] += prev[i]
		}
		for i := bpp; i < len(cur); i++ {
			cur[i] += paeth(cur[i-bpp], prev[i], prev[i-bpp])
		}
	default:
		return oops.New(ErrInvalidFilter, "filter type %d", ft)
	}
	return nil
}

// paeth picks whichever of left (a), above (b) and upper-left (c) is closest
// to a+b-c, preferring a, then b, on ties.
func paeth(a, b, c uint8) uint8 {
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// unfilter reverses the per-row filtering of the inflated stream into dst,
// which receives height rows of width*bpp bytes with the filter bytes
// dropped. Rows are reconstructed top to bottom since each depends on the
// one above.
func unfilter(dst, data []byte, width, height, bpp int) error {
	rowLen := width * bpp
	if len(dst) < rowLen*height {
		return oops.New(ErrInvalidStructure, "destination holds %d bytes, need %d", len(dst), rowLen*height)
	}
	if len(data) < (rowLen+1)*height {
		return oops.New(ErrInvalidStructure, "not enough pixel data: have %d bytes, need %d", len(data), (rowLen+1)*height)
	}

	prev := make([]byte, rowLen)
	for y := 0; y < height; y++ {
		line := data[y*(rowLen+1) : (y+1)*(rowLen+1)]
		cur := dst[y*rowLen : (y+1)*rowLen]
		copy(cur, line[1:])
		if err := defilterRow(line[0], cur, prev, bpp); err != nil {
			return oops.New(err, "row %d", y)
		}
		prev = cur
	}
	return nil
}
