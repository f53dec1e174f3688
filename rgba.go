package pngview

// expandToRGBA rewrites source-layout 8-bit samples into 4-byte RGBA pixels.
// Gray is replicated into R, G and B; missing alpha becomes 0xff.
func expandToRGBA(dst, src []byte, ct ColorType) {
	switch ct {
	case ColorGray:
		for i, j := 0, 0; i < len(src); i, j = i+1, j+4 {
			v := src[i]
			dst[j+0] = v
			dst[j+1] = v
			dst[j+2] = v
			dst[j+3] = 0xff
		}
	case ColorGrayAlpha:
		for i, j := 0, 0; i+1 < len(src); i, j = i+2, j+4 {
			v := src[i]
			dst[j+0] = v
			dst[j+1] = v
			dst[j+2] = v
			dst[j+3] = src[i+1]
		}
	case ColorRGB:
		for i, j := 0, 0; i+2 < len(src); i, j = i+3, j+4 {
			dst[j+0] = src[i+0]
			dst[j+1] = src[i+1]
			dst[j+2] = src[i+2]
			dst[j+3] = 0xff
		}
	case ColorRGBA:
		copy(dst, src)
	}
}
