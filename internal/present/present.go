// Package present hands decoded images to something a person can look at:
// a one-line summary, a native bitmap file, or a compressed raw pixel dump.
package present

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/svanichkin/pngview"
	"github.com/svanichkin/pngview/internal/logging"
	xdraw "golang.org/x/image/draw"
)

// Presenter receives a decoded image and the name it should be shown under,
// usually the source file's base name.
type Presenter interface {
	Present(name string, img *pngview.DecodedImage) error
}

// Summary prints one line per image: name, header and chunk count.
type Summary struct {
	W io.Writer
}

func (s Summary) Present(name string, img *pngview.DecodedImage) error {
	_, err := fmt.Fprintf(s.W, "%s: %s, %d chunk(s)\n", name, img.Metadata, img.Chunks)
	return err
}

// DisplayName is the base name of path without its extension.
func DisplayName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OutputPath places name+ext in dir, or in the working directory if dir is
// empty.
func OutputPath(dir, name, ext string) string {
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, name+ext)
}

// Scale resizes src by factor with Catmull-Rom resampling. A factor of 1
// returns src unchanged.
func Scale(src *image.NRGBA, factor float64) *image.NRGBA {
	if factor == 1 || factor <= 0 {
		return src
	}
	b := src.Bounds()
	w := max(int(float64(b.Dx())*factor+0.5), 1)
	h := max(int(float64(b.Dy())*factor+0.5), 1)
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// writeFile creates path and streams the encoder's output into it.
func writeFile(path string, encode func(w io.Writer) error) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	if err := encode(out); err != nil {
		return err
	}
	logging.Debug().Str("path", path).Msg("wrote file")
	return nil
}
