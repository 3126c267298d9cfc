package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/seedtabs/qrcoder/domain/label"
	"github.com/seedtabs/qrcoder/infrastructure/canvas"
	"github.com/spf13/pflag"
)

// ErrUsage marks invalid command lines
var ErrUsage = errors.New("usage")

// ErrHelp is returned when -h/--help was requested
var ErrHelp = pflag.ErrHelp

// RenderOptions are shared by the batch and serve commands
type RenderOptions struct {
	BaseURL     string
	Unlabeled   bool
	FontPath    string
	FontSize    float64
	BandHeight  int
	JPEGQuality int
	Debug       bool
}

// Variant returns the pipeline variant the options select
func (o RenderOptions) Variant() label.Variant {
	if o.Unlabeled {
		return label.Unlabeled
	}
	return label.Labeled
}

// BatchOptions is the parsed batch command line
type BatchOptions struct {
	RenderOptions
	Type            label.PackageType
	Count           int
	Start           int
	Dir             string
	LedgerPath      string
	AbortOnExceeded bool
}

// ServeOptions is the parsed serve command line
type ServeOptions struct {
	RenderOptions
	Port      int
	CacheSize int
}

func addRenderFlags(fs *pflag.FlagSet, o *RenderOptions, cfg Config) {
	fs.StringVar(&o.BaseURL, "base-url", cfg.BaseURL, "base URL encoded into every qr code (env BASE_URL)")
	fs.BoolVar(&o.Unlabeled, "unlabeled", false, "write bare qr codes as JPEG, without the label band")
	fs.StringVar(&o.FontPath, "font", cfg.FontPath, "TrueType font for the label (default: built-in 7x13 bitmap face)")
	fs.Float64Var(&o.FontSize, "font-size", cfg.FontSize, "label font size in points, TrueType fonts only")
	fs.IntVar(&o.BandHeight, "band-height", canvas.LabelBandHeight, "label band height in pixels, 0 measures the font")
	fs.BoolVar(&o.Debug, "debug", cfg.Debug(), "display debugging messages")
	o.JPEGQuality = cfg.JPEGQuality
}

// ParseBatch parses the batch command line. All four of --type, --count,
// --start and --dir are required.
func ParseBatch(args []string, cfg Config, out io.Writer) (*BatchOptions, error) {
	o := &BatchOptions{}
	var typeFlag string

	fs := pflag.NewFlagSet("qrcoder", pflag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&typeFlag, "type", "", "package type: sample or normal")
	fs.IntVar(&o.Count, "count", 0, "generate this many identifiers")
	fs.IntVar(&o.Start, "start", 0, "start at this id")
	fs.StringVar(&o.Dir, "dir", "", "place images in this directory")
	fs.StringVar(&o.LedgerPath, "ledger", cfg.LedgerPath, "sqlite file recording issued codes (env LEDGER_PATH)")
	fs.BoolVar(&o.AbortOnExceeded, "abort-on-exceeded", false, "stop the batch when a payload fits no qr code version")
	addRenderFlags(fs, &o.RenderOptions, cfg)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, ErrHelp
		}
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if rest := fs.Args(); len(rest) > 0 {
		return nil, fmt.Errorf("%w: unexpected argument: %s", ErrUsage, rest[0])
	}

	var missing []string
	for _, name := range []string{"type", "count", "start", "dir"} {
		if !fs.Changed(name) {
			missing = append(missing, "--"+name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required flags: %s", ErrUsage, strings.Join(missing, ", "))
	}

	pkgType, err := label.ParsePackageType(typeFlag)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	o.Type = pkgType

	if o.Count < 0 {
		return nil, fmt.Errorf("%w: --count must not be negative", ErrUsage)
	}
	if o.Start > math.MaxInt-o.Count {
		return nil, fmt.Errorf("%w: --start %d + --count %d exceeds the largest code", ErrUsage, o.Start, o.Count)
	}
	if o.Dir == "" {
		return nil, fmt.Errorf("%w: --dir must not be empty", ErrUsage)
	}
	if o.BandHeight < 0 {
		return nil, fmt.Errorf("%w: --band-height must not be negative", ErrUsage)
	}

	return o, nil
}

// ParseServe parses the serve command line
func ParseServe(args []string, cfg Config, out io.Writer) (*ServeOptions, error) {
	o := &ServeOptions{}

	fs := pflag.NewFlagSet("qrcoder serve", pflag.ContinueOnError)
	fs.SetOutput(out)
	fs.IntVar(&o.Port, "port", cfg.Port, "listen port (env PORT)")
	fs.IntVar(&o.CacheSize, "cache-size", cfg.CacheSize, "number of rendered labels kept in memory (env CACHE_SIZE)")
	addRenderFlags(fs, &o.RenderOptions, cfg)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, ErrHelp
		}
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if rest := fs.Args(); len(rest) > 0 {
		return nil, fmt.Errorf("%w: unexpected argument: %s", ErrUsage, rest[0])
	}
	if o.Port <= 0 || o.Port > 65535 {
		return nil, fmt.Errorf("%w: --port must be between 1 and 65535", ErrUsage)
	}
	if o.BandHeight < 0 {
		return nil, fmt.Errorf("%w: --band-height must not be negative", ErrUsage)
	}

	return o, nil
}
