package present

import (
	"io"

	"github.com/svanichkin/pngview"
	"golang.org/x/image/bmp"
)

// BMPExporter writes each image as <Dir>/<name>.bmp.
type BMPExporter struct {
	Dir   string
	Scale float64

	// Written records the paths produced, in order.
	Written []string
}

func (e *BMPExporter) Present(name string, img *pngview.DecodedImage) error {
	path := OutputPath(e.Dir, name, ".bmp")
	src := Scale(img.NRGBA(), e.Scale)
	err := writeFile(path, func(w io.Writer) error {
		return bmp.Encode(w, src)
	})
	if err != nil {
		return err
	}
	e.Written = append(e.Written, path)
	return nil
}
