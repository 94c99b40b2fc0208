package scene

import (
	"fmt"
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
)

// Kind identifies the primitive an Object draws.
type Kind string

const (
	KindText      Kind = "text"
	KindTriangle  Kind = "triangle"
	KindLine      Kind = "line"
	KindRectangle Kind = "rectangle"
	KindQRCode    Kind = "qrcode"
)

const (
	DefaultFontSize    = 48.0
	DefaultStrokeWidth = 0.04

	// UnitsPerPoint converts a font size into the em size in scene units.
	UnitsPerPoint = 1.0 / 64.0
)

var (
	White  = mustHex("#FFFFFF")
	Black  = mustHex("#000000")
	Indigo = mustHex("#4B0082")
)

// Typeface measures and rasterizes text for one font.
type Typeface interface {
	Name() string
	// Bounds returns the ink bounds of s in em units, origin at the start of
	// the baseline, y up.
	Bounds(s string) Rect
	Face(sizePx float64) (font.Face, error)
}

// Style holds the paint attributes of an Object.
type Style struct {
	Stroke      colorful.Color
	StrokeWidth float64
	Fill        colorful.Color
	FillOpacity float64
	Opacity     float64
}

// Object is a Visual Object: a shape or text element placed in a Scene.
// Geometry is stored relative to the bounding box centre and scaled on demand.
type Object struct {
	ID    string
	Kind  Kind
	Style Style

	Center Vec
	Scale  float64

	// local geometry, unscaled and centred
	points []Vec
	closed bool

	Text     string
	Typeface Typeface
	FontSize float64
	// ink bounds of the text in em units
	textBounds Rect

	Image  image.Image
	Bitmap [][]bool

	declaredAt int
	declared   bool
}

// Option adjusts an Object at construction time.
type Option func(*Object)

func WithColor(c colorful.Color) Option {
	return func(o *Object) {
		o.Style.Stroke = c
		o.Style.Fill = c
	}
}

func WithFill(c colorful.Color, opacity float64) Option {
	return func(o *Object) {
		o.Style.Fill = c
		o.Style.FillOpacity = opacity
	}
}

func WithFillOpacity(opacity float64) Option {
	return func(o *Object) { o.Style.FillOpacity = opacity }
}

func WithOpacity(opacity float64) Option {
	return func(o *Object) { o.Style.Opacity = opacity }
}

func WithStrokeWidth(w float64) Option {
	return func(o *Object) { o.Style.StrokeWidth = w }
}

func WithFontSize(size float64) Option {
	return func(o *Object) { o.FontSize = size }
}

// WithImage paints img inside a rectangle.
func WithImage(img image.Image) Option {
	return func(o *Object) { o.Image = img }
}

func newObject(id string, kind Kind) *Object {
	return &Object{
		ID:    id,
		Kind:  kind,
		Scale: 1,
		Style: Style{
			Stroke:      White,
			StrokeWidth: DefaultStrokeWidth,
			Fill:        White,
			Opacity:     1,
		},
	}
}

func (o *Object) apply(opts []Option) *Object {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// NewText creates a text object. Text is filled, not stroked.
func NewText(id string, tf Typeface, s string, opts ...Option) *Object {
	o := newObject(id, KindText)
	o.Text = s
	o.Typeface = tf
	o.FontSize = DefaultFontSize
	o.Style.FillOpacity = 1
	o.Style.StrokeWidth = 0
	o.apply(opts)
	if tf != nil {
		o.textBounds = tf.Bounds(s)
	}
	return o
}

// NewTriangle creates an equilateral triangle of circumradius 1 pointing up.
func NewTriangle(id string, opts ...Option) *Object {
	o := newObject(id, KindTriangle)
	var pts []Vec
	for i := 0; i < 3; i++ {
		a := math.Pi/2 + float64(i)*2*math.Pi/3
		pts = append(pts, Vec{math.Cos(a), math.Sin(a)})
	}
	o.setPoints(pts, true)
	return o.apply(opts)
}

// NewLine creates a line between two absolute points.
func NewLine(id string, start, end Vec, opts ...Option) *Object {
	o := newObject(id, KindLine)
	o.setPoints([]Vec{start, end}, false)
	return o.apply(opts)
}

// NewRectangle creates a rectangle centred on the origin.
func NewRectangle(id string, width, height float64, opts ...Option) *Object {
	o := newObject(id, KindRectangle)
	w, h := width/2, height/2
	o.setPoints([]Vec{{-w, h}, {w, h}, {w, -h}, {-w, -h}}, true)
	return o.apply(opts)
}

// NewQRCode creates a square QR code of the given side length encoding content.
func NewQRCode(id, content string, side float64, opts ...Option) (*Object, error) {
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("qrcode %q: %w", id, err)
	}
	q.DisableBorder = true

	o := newObject(id, KindQRCode)
	o.Bitmap = q.Bitmap()
	o.Style.FillOpacity = 1
	s := side / 2
	o.setPoints([]Vec{{-s, s}, {s, s}, {s, -s}, {-s, -s}}, true)
	return o.apply(opts), nil
}

// setPoints stores pts relative to their bounding box centre and moves the
// object there.
func (o *Object) setPoints(pts []Vec, closed bool) {
	b := boundsOf(pts)
	c := b.Center()
	o.points = make([]Vec, len(pts))
	for i, p := range pts {
		o.points[i] = p.Sub(c)
	}
	o.Center = c
	o.closed = closed
}

// Closed reports whether the outline is a closed polygon.
func (o *Object) Closed() bool { return o.closed }

// EmSize is the text em size in scene units, scale included.
func (o *Object) EmSize() float64 {
	return o.FontSize * UnitsPerPoint * o.Scale
}

// TextBounds returns the ink bounds of a text object in em units.
func (o *Object) TextBounds() Rect { return o.textBounds }

// Points returns the outline in absolute scene units.
func (o *Object) Points() []Vec {
	return o.PointsAt(o.Center, o.Scale)
}

// PointsAt returns the outline as if the object were placed at center with
// the given scale.
func (o *Object) PointsAt(center Vec, scale float64) []Vec {
	out := make([]Vec, len(o.points))
	for i, p := range o.points {
		out[i] = center.Add(p.Mul(scale))
	}
	return out
}

// size returns the unscaled width and height.
func (o *Object) size() (float64, float64) {
	if o.Kind == KindText {
		em := o.FontSize * UnitsPerPoint
		return o.textBounds.Width() * em, o.textBounds.Height() * em
	}
	b := boundsOf(o.points)
	return b.Width(), b.Height()
}

// Bounds returns the bounding box in scene units.
func (o *Object) Bounds() Rect {
	w, h := o.size()
	half := Vec{w * o.Scale / 2, h * o.Scale / 2}
	return Rect{Min: o.Center.Sub(half), Max: o.Center.Add(half)}
}

// Shift moves the object by v.
func (o *Object) Shift(v Vec) *Object {
	o.Center = o.Center.Add(v)
	return o
}

// MoveTo places the bounding box centre at p.
func (o *Object) MoveTo(p Vec) *Object {
	o.Center = p
	return o
}

// ScaleBy scales the object about its centre.
func (o *Object) ScaleBy(f float64) *Object {
	o.Scale *= f
	return o
}

// NextTo places the object beside other in direction dir, buff units away.
// The perpendicular axis is centred on other.
func (o *Object) NextTo(other *Object, dir Vec, buff float64) *Object {
	target := other.Bounds().EdgePoint(dir).Add(dir.Mul(buff))
	mine := o.Bounds().EdgePoint(dir.Neg())
	return o.Shift(target.Sub(mine))
}

// ToEdge moves the object along dir until it is buff units from the frame edge.
func (o *Object) ToEdge(dir Vec, buff float64) *Object {
	frame := FrameRect().EdgePoint(dir)
	mine := o.Bounds().EdgePoint(dir)
	var d Vec
	if dir.X != 0 {
		d.X = frame.X - sign(dir.X)*buff - mine.X
	}
	if dir.Y != 0 {
		d.Y = frame.Y - sign(dir.Y)*buff - mine.Y
	}
	return o.Shift(d)
}

// SetOpacity sets both stroke and fill opacity.
func (o *Object) SetOpacity(opacity float64) *Object {
	o.Style.Opacity = opacity
	return o
}

func (o *Object) SetFill(c colorful.Color, opacity float64) *Object {
	o.Style.Fill = c
	o.Style.FillOpacity = opacity
	return o
}

func (o *Object) String() string {
	return fmt.Sprintf("%s(%s)", o.Kind, o.ID)
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseColor parses a #RRGGBB colour.
func ParseColor(s string) (colorful.Color, error) {
	return colorful.Hex(s)
}
