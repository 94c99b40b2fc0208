package fonts

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/scene2video/internal/scene"
)

// ErrFontNotFound is returned when a family or font file cannot be resolved.
var ErrFontNotFound = errors.New("font not found")

// measureSize is the pixel size text is measured at.
const measureSize = 64.0

// Typeface is a parsed font. Bounds is safe for concurrent use; faces
// returned by Face are not and belong to the caller.
type Typeface struct {
	name string
	font *opentype.Font

	mu      sync.Mutex
	measure font.Face
}

var _ scene.Typeface = (*Typeface)(nil)

// Parse parses TTF/OTF data. An empty name is replaced by the family name
// from the font's name table.
func Parse(name string, data []byte) (*Typeface, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %q: %w", name, err)
	}
	if name == "" {
		name, err = f.Name(nil, sfnt.NameIDFamily)
		if err != nil {
			return nil, fmt.Errorf("font family name: %w", err)
		}
	}
	measure, err := opentype.NewFace(f, &opentype.FaceOptions{Size: measureSize, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return nil, fmt.Errorf("font face %q: %w", name, err)
	}
	return &Typeface{name: name, font: f, measure: measure}, nil
}

func (t *Typeface) Name() string { return t.name }

// Bounds returns the ink bounds of s in em units with y pointing up.
func (t *Typeface) Bounds(s string) scene.Rect {
	t.mu.Lock()
	b, _ := font.BoundString(t.measure, s)
	t.mu.Unlock()

	return scene.Rect{
		Min: scene.Vec{X: fixedToFloat(b.Min.X) / measureSize, Y: -fixedToFloat(b.Max.Y) / measureSize},
		Max: scene.Vec{X: fixedToFloat(b.Max.X) / measureSize, Y: -fixedToFloat(b.Min.Y) / measureSize},
	}
}

// Face returns a new face of the given pixel size.
func (t *Typeface) Face(sizePx float64) (font.Face, error) {
	if sizePx <= 0 || math.IsNaN(sizePx) {
		return nil, fmt.Errorf("font %q: invalid size %.2f", t.name, sizePx)
	}
	return opentype.NewFace(t.font, &opentype.FaceOptions{Size: sizePx, DPI: 72, Hinting: font.HintingNone})
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
