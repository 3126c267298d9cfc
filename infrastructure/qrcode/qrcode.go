package qrcode

import (
	"fmt"

	"github.com/seedtabs/qrcoder/domain/label"
	"github.com/skip2/go-qrcode"
)

// Encoding defaults for printed labels
const (
	DefaultVersion    = 3
	DefaultModuleSize = 3
	// QuietZone is the border go-qrcode draws around every symbol, in modules.
	QuietZone = 4
)

// DefaultRecoveryLevel trades redundancy for capacity, matching the
// small fixed version labels are printed at.
var DefaultRecoveryLevel = qrcode.Low

// Generator handles QR code generation at a fixed target version
type Generator struct {
	version    int
	moduleSize int
	level      qrcode.RecoveryLevel
}

// NewGenerator creates a new QR code generator. Zero values fall back to
// the package defaults.
func NewGenerator(version, moduleSize int, level qrcode.RecoveryLevel) *Generator {
	if version <= 0 {
		version = DefaultVersion
	}
	if moduleSize <= 0 {
		moduleSize = DefaultModuleSize
	}
	return &Generator{
		version:    version,
		moduleSize: moduleSize,
		level:      level,
	}
}

// NewDefaultGenerator returns a generator with version 3, level L and
// 3px modules.
func NewDefaultGenerator() *Generator {
	return NewGenerator(DefaultVersion, DefaultModuleSize, DefaultRecoveryLevel)
}

// Encode renders payload at the target version. If it does not fit, the
// smallest larger version is used instead and the returned symbol reports
// the overflow. label.ErrCapacityExceeded is returned when no version fits.
func (g *Generator) Encode(payload string) (*label.Symbol, error) {
	q, err := qrcode.NewWithForcedVersion(payload, g.version, g.level)
	if err != nil {
		// The forced version is the smallest we accept, so best fit can
		// only ever pick a larger one here.
		q, err = qrcode.New(payload, g.level)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", label.ErrCapacityExceeded, err)
		}
	}

	return &label.Symbol{
		// Negative size means pixels per module.
		Image:         q.Image(-g.moduleSize),
		Version:       q.VersionNumber,
		TargetVersion: g.version,
		ModuleSize:    g.moduleSize,
		Border:        QuietZone,
	}, nil
}

// PixelSize returns the rendered side length of a symbol of the given
// version, quiet zone included.
func (g *Generator) PixelSize(version int) int {
	modules := 17 + 4*version
	return (modules + 2*QuietZone) * g.moduleSize
}
