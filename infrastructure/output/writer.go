package output

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/seedtabs/qrcoder/domain/label"
)

// DefaultJPEGQuality is used by the unlabeled variant when no quality is configured.
const DefaultJPEGQuality = 90

// Writer saves label images as <dir>/<code>.<ext>
type Writer struct {
	dir         string
	format      label.ImageFormat
	jpegQuality int
}

// NewWriter creates a writer for dir. format selects the extension and encoder.
func NewWriter(dir string, format label.ImageFormat, jpegQuality int) *Writer {
	if jpegQuality <= 0 || jpegQuality > 100 {
		jpegQuality = DefaultJPEGQuality
	}
	return &Writer{
		dir:         dir,
		format:      format,
		jpegQuality: jpegQuality,
	}
}

// Filename is the code in decimal with the format's extension. Downstream
// tooling matches files back to codes by this name.
func Filename(code int, format label.ImageFormat) string {
	return strconv.Itoa(code) + "." + format.Extension()
}

// Path returns where the label for code is written
func (w *Writer) Path(code int) string {
	return filepath.Join(w.dir, Filename(code, w.format))
}

// Write encodes img and saves it, returning the path written.
func (w *Writer) Write(code int, img image.Image) (string, error) {
	path := w.Path(code)
	if err := imaging.Save(img, path, imaging.JPEGQuality(w.jpegQuality)); err != nil {
		return "", fmt.Errorf("%w: %s: %v", label.ErrWriteFailed, path, err)
	}
	return path, nil
}

// Encode writes img to out in the given format.
func Encode(out io.Writer, img image.Image, format label.ImageFormat, jpegQuality int) error {
	f := imaging.PNG
	if format == label.FormatJPEG {
		f = imaging.JPEG
	}
	if jpegQuality <= 0 || jpegQuality > 100 {
		jpegQuality = DefaultJPEGQuality
	}
	return imaging.Encode(out, img, f, imaging.JPEGQuality(jpegQuality))
}

// EncodeBytes is Encode into a fresh buffer.
func EncodeBytes(img image.Image, format label.ImageFormat, jpegQuality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, format, jpegQuality); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
