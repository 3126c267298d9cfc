package label

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/seedtabs/qrcoder/constant"
)

// Sentinel errors returned by the label service and its collaborators
var (
	ErrInvalidPackageType = errors.New(constant.ErrInvalidPackageType)
	ErrInvalidCount       = errors.New(constant.ErrInvalidCount)
	ErrInvalidRange       = errors.New(constant.ErrRangeOverflow)
	ErrCapacityExceeded   = errors.New(constant.ErrCapacityExceeded)
	ErrWriteFailed        = errors.New(constant.ErrWriteFailed)
)

// PackageType tags every payload of a batch
type PackageType string

const (
	PackageSample PackageType = "sample"
	PackageNormal PackageType = "normal"
)

// PackageTypes lists the accepted package types in CLI order.
var PackageTypes = []PackageType{PackageSample, PackageNormal}

// ParsePackageType validates a package type string
func ParsePackageType(s string) (PackageType, error) {
	t := PackageType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPackageType, s)
	}
	return t, nil
}

// Valid reports whether t is a known package type
func (t PackageType) Valid() bool {
	return t == PackageSample || t == PackageNormal
}

func (t PackageType) String() string {
	return string(t)
}

// ImageFormat is the on-disk raster format of a label
type ImageFormat string

const (
	FormatPNG  ImageFormat = "png"
	FormatJPEG ImageFormat = "jpeg"
)

// Extension returns the filename extension, without the dot.
func (f ImageFormat) Extension() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return "png"
}

// ContentType returns the MIME type for f.
func (f ImageFormat) ContentType() string {
	if f == FormatJPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// Variant selects between the labeled lossless pipeline and the
// unlabeled lossy one.
type Variant struct {
	WithLabel bool
	Format    ImageFormat
}

var (
	Labeled   = Variant{WithLabel: true, Format: FormatPNG}
	Unlabeled = Variant{WithLabel: false, Format: FormatJPEG}
)

// Symbol is one encoded QR code together with the geometry it was
// rendered with.
type Symbol struct {
	Image         image.Image
	Version       int
	TargetVersion int
	ModuleSize    int
	Border        int
}

// Overflowed reports whether the encoder had to pick a larger version
// than requested.
func (s *Symbol) Overflowed() bool {
	return s.Version != s.TargetVersion
}

// Width in pixels
func (s *Symbol) Width() int {
	return s.Image.Bounds().Dx()
}

// Height in pixels
func (s *Symbol) Height() int {
	return s.Image.Bounds().Dy()
}

// Margin is the quiet zone width in pixels; labels align to it.
func (s *Symbol) Margin() int {
	return s.Border * s.ModuleSize
}

// Rendered is the in-memory result for one code, before it is persisted
type Rendered struct {
	Code    int
	Type    PackageType
	Payload string
	Symbol  *Symbol
	Image   image.Image
}

// Artifact describes one label written to disk
type Artifact struct {
	RunID      string
	Code       int
	Type       PackageType
	Payload    string
	Path       string
	Width      int
	Height     int
	Version    int
	Overflowed bool
	CreatedAt  time.Time
}

// Request describes one batch
type Request struct {
	Type  PackageType
	Start int
	Count int
}

// Summary reports the outcome of a batch
type Summary struct {
	RunID      string
	Generated  int
	Overflowed int
	Skipped    []int
}

// Encoder turns a payload into a QR symbol
type Encoder interface {
	Encode(payload string) (*Symbol, error)
}

// Composer lays a symbol and its label text out on one canvas
type Composer interface {
	Compose(symbol *Symbol, text string) (image.Image, error)
}

// Writer persists label images under a filename derived from the code
type Writer interface {
	Path(code int) string
	Write(code int, img image.Image) (string, error)
}

// Ledger remembers which codes have been issued across runs
type Ledger interface {
	Record(ctx context.Context, artifact *Artifact) error
	Issued(ctx context.Context, start, count int) ([]int, error)
}
