package renderer

import (
	"image"
	"math"

	"github.com/ivlev/scene2video/internal/scene"
)

// Viewport maps scene units onto a pixel frame. The scene frame is fitted
// inside the pixel frame and centred, so non 16:9 outputs letterbox.
type Viewport struct {
	Width, Height int
	// pixels per scene unit
	PPU float64
}

func NewViewport(width, height int) Viewport {
	ppu := math.Min(float64(width)/scene.FrameWidth, float64(height)/scene.FrameHeight)
	return Viewport{Width: width, Height: height, PPU: ppu}
}

// ToPixel converts a scene point to pixel coordinates (y down).
func (v Viewport) ToPixel(p scene.Vec) (float64, float64) {
	return float64(v.Width)/2 + p.X*v.PPU, float64(v.Height)/2 - p.Y*v.PPU
}

// ToScene converts pixel coordinates back to a scene point.
func (v Viewport) ToScene(x, y float64) scene.Vec {
	return scene.Vec{X: (x - float64(v.Width)/2) / v.PPU, Y: (float64(v.Height)/2 - y) / v.PPU}
}

// Length converts a distance in scene units to pixels.
func (v Viewport) Length(units float64) float64 {
	return units * v.PPU
}

// Rect converts a scene rectangle to the enclosing pixel rectangle.
func (v Viewport) Rect(r scene.Rect) image.Rectangle {
	x0, y0 := v.ToPixel(scene.Vec{X: r.Min.X, Y: r.Max.Y})
	x1, y1 := v.ToPixel(scene.Vec{X: r.Max.X, Y: r.Min.Y})
	return image.Rect(int(math.Floor(x0)), int(math.Floor(y0)), int(math.Ceil(x1)), int(math.Ceil(y1)))
}
