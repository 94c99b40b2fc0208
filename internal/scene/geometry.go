package scene

import "math"

// Frame size in scene units. The origin is the centre of the frame, y points up.
const (
	FrameHeight = 8.0
	FrameWidth  = FrameHeight * 16.0 / 9.0
)

// Spacing defaults used by NextTo and ToEdge.
const (
	DefaultBuff = 0.25
	EdgeBuff    = 0.5
)

// Vec is a point or an offset in scene units.
type Vec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

var (
	Origin = Vec{0, 0}
	Up     = Vec{0, 1}
	Down   = Vec{0, -1}
	Left   = Vec{-1, 0}
	Right  = Vec{1, 0}
)

func V(x, y float64) Vec { return Vec{X: x, Y: y} }

func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }
func (v Vec) Mul(f float64) Vec { return Vec{v.X * f, v.Y * f} }
func (v Vec) Neg() Vec { return Vec{-v.X, -v.Y} }
func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }
func (v Vec) Lerp(o Vec, t float64) Vec { return v.Add(o.Sub(v).Mul(t)) }

// Rect is an axis aligned bounding box in scene units.
type Rect struct {
	Min Vec `yaml:"min"`
	Max Vec `yaml:"max"`
}

func (r Rect) Width() float64 { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

func (r Rect) Center() Vec {
	return Vec{(r.Min.X + r.Max.X) / 2, (r.Min.Y + r.Max.Y) / 2}
}

// EdgePoint returns the point on the box boundary in direction dir, measured
// from the centre. Zero components keep the centre coordinate.
func (r Rect) EdgePoint(dir Vec) Vec {
	c := r.Center()
	return Vec{
		X: c.X + sign(dir.X)*r.Width()/2,
		Y: c.Y + sign(dir.Y)*r.Height()/2,
	}
}

// FrameRect is the visible frame.
func FrameRect() Rect {
	return Rect{
		Min: Vec{-FrameWidth / 2, -FrameHeight / 2},
		Max: Vec{FrameWidth / 2, FrameHeight / 2},
	}
}

// ScreenRectangleWidth is the width of a 16:9 screen rectangle of the given height.
func ScreenRectangleWidth(height float64) float64 {
	return height * 16.0 / 9.0
}

func boundsOf(points []Vec) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	r := Rect{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		r.Min.X = math.Min(r.Min.X, p.X)
		r.Min.Y = math.Min(r.Min.Y, p.Y)
		r.Max.X = math.Max(r.Max.X, p.X)
		r.Max.Y = math.Max(r.Max.Y, p.Y)
	}
	return r
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
