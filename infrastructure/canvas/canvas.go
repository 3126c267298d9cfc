package canvas

import (
	"errors"
	"image"
	"image/color"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/seedtabs/qrcoder/domain/label"
	"github.com/seedtabs/qrcoder/infrastructure/typeface"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// LabelBandHeight is the strip reserved below the symbol for the label,
// in pixels. It is an estimate for the default 7x13 face rather than a
// measurement; a band height of 0 asks the composer to measure the face.
const LabelBandHeight = 14

// Composer draws the code label under a QR symbol. It is safe for
// concurrent use; calls share one face and are serialized around it.
type Composer struct {
	mu         sync.Mutex
	face       font.Face
	bandHeight int
	background color.Color
	ink        color.Color
}

// NewComposer creates a composer. bandHeight <= 0 derives the band from
// the face metrics.
func NewComposer(face font.Face, bandHeight int) *Composer {
	if bandHeight <= 0 {
		bandHeight = typeface.Height(face)
	}
	return &Composer{
		face:       face,
		bandHeight: bandHeight,
		background: color.White,
		ink:        color.Black,
	}
}

// BandHeight returns the label band height in pixels
func (c *Composer) BandHeight() int {
	return c.bandHeight
}

// Compose pastes symbol at the origin of a white canvas one label band
// taller than the symbol and writes text into the band, aligned with the
// symbol's quiet zone.
func (c *Composer) Compose(symbol *label.Symbol, text string) (image.Image, error) {
	if symbol == nil || symbol.Image == nil {
		return nil, errors.New("compose: missing symbol image")
	}

	width, height := symbol.Width(), symbol.Height()
	img := imaging.New(width, height+c.bandHeight, c.background)
	img = imaging.Paste(img, symbol.Image, image.Pt(0, 0))

	// opentype faces reuse glyph buffers between calls.
	c.mu.Lock()
	defer c.mu.Unlock()

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c.ink),
		Face: c.face,
		// Dot is the baseline; the text's top sits on the symbol's bottom edge.
		Dot: fixed.P(symbol.Margin(), height+typeface.Ascent(c.face)),
	}
	d.DrawString(text)

	return img, nil
}
