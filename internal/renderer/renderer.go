package renderer

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/vector"

	"github.com/ivlev/scene2video/internal/effects"
	"github.com/ivlev/scene2video/internal/scene"
	"github.com/ivlev/scene2video/internal/system"
)

// maxCachedFaces bounds the face cache; fade transforms request a new size
// on every frame.
const maxCachedFaces = 256

type faceKey struct {
	tf      scene.Typeface
	quarter int
}

// Renderer rasterizes evaluated scene states into RGBA frames.
// A Renderer is not safe for concurrent use; create one per worker.
type Renderer struct {
	Viewport   Viewport
	Background colorful.Color

	raster *vector.Rasterizer
	faces  map[faceKey]font.Face
}

func New(width, height int, background colorful.Color) *Renderer {
	return &Renderer{
		Viewport:   NewViewport(width, height),
		Background: background,
		raster:     vector.NewRasterizer(width, height),
		faces:      make(map[faceKey]font.Face),
	}
}

// Bounds is the pixel rectangle of every frame.
func (r *Renderer) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.Viewport.Width, r.Viewport.Height)
}

// RenderFrame draws states back to front onto a pooled frame. Hand the frame
// back with Release once it has been written out.
func (r *Renderer) RenderFrame(states []effects.State) (*image.RGBA, error) {
	dst := system.GetImage(r.Bounds())
	r.clear(dst)
	for _, st := range states {
		if err := r.drawState(dst, st); err != nil {
			return dst, fmt.Errorf("draw %s: %w", st.Object, err)
		}
	}
	return dst, nil
}

// Release returns a frame to the pool.
func (r *Renderer) Release(img *image.RGBA) {
	system.PutImage(img)
}

func (r *Renderer) clear(dst *image.RGBA) {
	cr, cg, cb := r.Background.Clamped().RGB255()
	for i := 0; i < len(dst.Pix); i += 4 {
		dst.Pix[i+0] = cr
		dst.Pix[i+1] = cg
		dst.Pix[i+2] = cb
		dst.Pix[i+3] = 0xff
	}
}

func (r *Renderer) drawState(dst *image.RGBA, st effects.State) error {
	o := st.Object
	alpha := clamp01(st.Alpha * o.Style.Opacity)
	if alpha <= 0 {
		return nil
	}

	switch o.Kind {
	case scene.KindText:
		return r.drawText(dst, st, alpha)
	case scene.KindQRCode:
		r.drawQRCode(dst, st, alpha)
		return nil
	}

	pts := r.toPixels(o.PointsAt(st.Center, st.Scale))
	if o.Closed() {
		fillAlpha := alpha * o.Style.FillOpacity * st.FillAlpha
		if o.Image != nil {
			r.drawImage(dst, st, alpha*st.FillAlpha)
		} else if fillAlpha > 0 {
			r.fillPolygon(dst, pts, rgba(o.Style.Fill, fillAlpha))
		}
	}
	if o.Style.StrokeWidth > 0 && st.Reveal > 0 {
		width := r.Viewport.Length(o.Style.StrokeWidth)
		r.strokePath(dst, pts, o.Closed(), st.Reveal, width, rgba(o.Style.Stroke, alpha))
	}
	return nil
}

func (r *Renderer) toPixels(pts []scene.Vec) [][2]float64 {
	out := make([][2]float64, len(pts))
	for i, p := range pts {
		x, y := r.Viewport.ToPixel(p)
		out[i] = [2]float64{x, y}
	}
	return out
}

// rgba converts a colour and opacity to a non-premultiplied colour.
func rgba(c colorful.Color, alpha float64) color.NRGBA {
	cr, cg, cb := c.Clamped().RGB255()
	return color.NRGBA{R: cr, G: cg, B: cb, A: uint8(math.Round(clamp01(alpha) * 255))}
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
