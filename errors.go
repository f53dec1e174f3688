package pngview

import (
	"errors"
	"fmt"

	"github.com/svanichkin/pngview/internal/oops"
)

// Error kinds returned by the decoder. Every failure wraps exactly one of
// them, so callers test with errors.Is.
var (
	ErrBadFilePath      = errors.New("png: no such file")
	ErrOpenFile         = errors.New("png: failed to open file")
	ErrReadFile         = errors.New("png: failed to read file")
	ErrInvalidSignature = errors.New("png: invalid signature")
	ErrInvalidStructure = errors.New("png: invalid file structure")
	ErrInvalidHeader    = errors.New("png: invalid header chunk")
	ErrUnsupported      = errors.New("png: unsupported feature")
	ErrChecksum         = errors.New("png: checksum mismatch")
	ErrDecompress       = errors.New("png: failed to decompress image data")
	ErrInvalidFilter    = errors.New("png: invalid scanline filter")
)

var kinds = []error{
	ErrBadFilePath,
	ErrOpenFile,
	ErrReadFile,
	ErrInvalidSignature,
	ErrInvalidStructure,
	ErrInvalidHeader,
	ErrUnsupported,
	ErrChecksum,
	ErrDecompress,
	ErrInvalidFilter,
}

// UnsupportedError reports a well-formed PNG that uses a feature this
// decoder does not implement.
type UnsupportedError struct {
	Reason string
}

func (e UnsupportedError) Error() string {
	return ErrUnsupported.Error() + ": " + e.Reason
}

func (e UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}

// Kind returns the error kind err belongs to, or nil.
func Kind(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

func unsupported(format string, args ...interface{}) error {
	return oops.New(UnsupportedError{Reason: fmt.Sprintf(format, args...)}, "")
}
