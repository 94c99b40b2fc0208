package renderer

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/scene2video/internal/effects"
	"github.com/ivlev/scene2video/internal/scene"
)

func (r *Renderer) fillPolygon(dst *image.RGBA, pts [][2]float64, c color.NRGBA) {
	if len(pts) < 3 || c.A == 0 {
		return
	}
	z := r.raster
	z.Reset(r.Viewport.Width, r.Viewport.Height)
	z.MoveTo(float32(pts[0][0]), float32(pts[0][1]))
	for _, p := range pts[1:] {
		z.LineTo(float32(p[0]), float32(p[1]))
	}
	z.ClosePath()
	z.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
}

// strokePath draws the first reveal fraction of the outline, measured along
// its length. Closed outlines get square joins.
func (r *Renderer) strokePath(dst *image.RGBA, pts [][2]float64, closed bool, reveal, width float64, c color.NRGBA) {
	if len(pts) < 2 || c.A == 0 || width <= 0 {
		return
	}
	if closed {
		pts = append(pts, pts[0])
	}

	var total float64
	for i := 1; i < len(pts); i++ {
		total += math.Hypot(pts[i][0]-pts[i-1][0], pts[i][1]-pts[i-1][1])
	}
	remaining := total * clamp01(reveal)

	z := r.raster
	z.Reset(r.Viewport.Width, r.Viewport.Height)
	drawn := false
	for i := 1; i < len(pts) && remaining > 0; i++ {
		ax, ay := pts[i-1][0], pts[i-1][1]
		bx, by := pts[i][0], pts[i][1]
		l := math.Hypot(bx-ax, by-ay)
		if l == 0 {
			continue
		}
		if l > remaining {
			bx = ax + (bx-ax)*remaining/l
			by = ay + (by-ay)*remaining/l
		}
		remaining -= l

		ux, uy := (bx-ax)/l, (by-ay)/l
		if closed {
			ax, ay = ax-ux*width/2, ay-uy*width/2
			bx, by = bx+ux*width/2, by+uy*width/2
		}
		nx, ny := -uy*width/2, ux*width/2
		z.MoveTo(float32(ax+nx), float32(ay+ny))
		z.LineTo(float32(bx+nx), float32(by+ny))
		z.LineTo(float32(bx-nx), float32(by-ny))
		z.LineTo(float32(ax-nx), float32(ay-ny))
		z.ClosePath()
		drawn = true
	}
	if drawn {
		z.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
	}
}

// drawText renders the text ink box at its state position. Reveal clips the
// text from the left.
func (r *Renderer) drawText(dst *image.RGBA, st effects.State, alpha float64) error {
	o := st.Object
	if o.Typeface == nil || st.Reveal <= 0 {
		return nil
	}
	a := alpha * o.Style.FillOpacity * st.FillAlpha
	if a <= 0 {
		return nil
	}

	em := o.FontSize * scene.UnitsPerPoint * st.Scale
	sizePx := r.Viewport.Length(em)
	if sizePx < 1 {
		return nil
	}
	face, err := r.face(o.Typeface, sizePx)
	if err != nil {
		return err
	}

	tb := o.TextBounds()
	w, h := tb.Width()*em, tb.Height()*em
	box := scene.Rect{
		Min: st.Center.Sub(scene.Vec{X: w / 2, Y: h / 2}),
		Max: st.Center.Add(scene.Vec{X: w / 2, Y: h / 2}),
	}
	origin := scene.Vec{X: box.Min.X - tb.Min.X*em, Y: box.Min.Y - tb.Min.Y*em}
	ox, oy := r.Viewport.ToPixel(origin)

	clip := r.Viewport.Rect(box).Inset(-2)
	if st.Reveal < 1 {
		clip.Max.X = clip.Min.X + int(math.Ceil(float64(clip.Dx())*st.Reveal))
	}
	clip = clip.Intersect(dst.Bounds())
	if clip.Empty() {
		return nil
	}

	d := font.Drawer{
		Dst:  dst.SubImage(clip).(*image.RGBA),
		Src:  image.NewUniform(rgba(o.Style.Fill, a)),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(math.Round(ox * 64)), Y: fixed.Int26_6(math.Round(oy * 64))},
	}
	d.DrawString(o.Text)
	return nil
}

func (r *Renderer) face(tf scene.Typeface, sizePx float64) (font.Face, error) {
	key := faceKey{tf: tf, quarter: int(math.Round(sizePx * 4))}
	if f, ok := r.faces[key]; ok {
		return f, nil
	}
	if len(r.faces) >= maxCachedFaces {
		for k, f := range r.faces {
			f.Close()
			delete(r.faces, k)
		}
	}
	f, err := tf.Face(float64(key.quarter) / 4)
	if err != nil {
		return nil, err
	}
	r.faces[key] = f
	return f, nil
}

// drawImage scales the object's image into its bounds.
func (r *Renderer) drawImage(dst *image.RGBA, st effects.State, alpha float64) {
	o := st.Object
	if alpha <= 0 {
		return
	}
	pts := o.PointsAt(st.Center, st.Scale)
	dr := r.Viewport.Rect(boundsOf(pts))
	mask := image.NewUniform(color.Alpha{A: uint8(math.Round(clamp01(alpha) * 255))})
	draw.ApproxBiLinear.Scale(dst, dr, o.Image, o.Image.Bounds(), draw.Over, &draw.Options{SrcMask: mask})
}

// drawQRCode draws dark modules on a light plate. Reveal uncovers modules in
// reading order.
func (r *Renderer) drawQRCode(dst *image.RGBA, st effects.State, alpha float64) {
	o := st.Object
	n := len(o.Bitmap)
	if n == 0 {
		return
	}
	b := boundsOf(o.PointsAt(st.Center, st.Scale))
	cell := b.Width() / float64(n)

	plate := scene.Rect{Min: b.Min.Sub(scene.Vec{X: cell, Y: cell}), Max: b.Max.Add(scene.Vec{X: cell, Y: cell})}
	r.fillPolygon(dst, r.toPixels(rectPoints(plate)), rgba(o.Style.Fill, alpha*st.FillAlpha))

	visible := int(math.Round(st.Reveal * float64(n*n)))
	z := r.raster
	z.Reset(r.Viewport.Width, r.Viewport.Height)
	for i := 0; i < visible; i++ {
		row, col := i/n, i%n
		if col >= len(o.Bitmap[row]) || !o.Bitmap[row][col] {
			continue
		}
		m := scene.Rect{
			Min: scene.Vec{X: b.Min.X + float64(col)*cell, Y: b.Max.Y - float64(row+1)*cell},
			Max: scene.Vec{X: b.Min.X + float64(col+1)*cell, Y: b.Max.Y - float64(row)*cell},
		}
		px := r.toPixels(rectPoints(m))
		z.MoveTo(float32(px[0][0]), float32(px[0][1]))
		for _, p := range px[1:] {
			z.LineTo(float32(p[0]), float32(p[1]))
		}
		z.ClosePath()
	}
	z.Draw(dst, dst.Bounds(), image.NewUniform(rgba(scene.Black, alpha)), image.Point{})
}

func rectPoints(r scene.Rect) []scene.Vec {
	return []scene.Vec{r.Min, {X: r.Max.X, Y: r.Min.Y}, r.Max, {X: r.Min.X, Y: r.Max.Y}}
}

func boundsOf(pts []scene.Vec) scene.Rect {
	if len(pts) == 0 {
		return scene.Rect{}
	}
	b := scene.Rect{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Y = math.Min(b.Min.Y, p.Y)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Y = math.Max(b.Max.Y, p.Y)
	}
	return b
}
