package director

import (
	"fmt"
	"math"

	"github.com/ivlev/scene2video/internal/renderer"
	"github.com/ivlev/scene2video/internal/scene"
)

const CueSheetVersion = "1.0"

// Director превращает таймлайн сцены в cue sheet для заданного размера кадра
// и FPS.
type Director struct {
	ViewportWidth  int
	ViewportHeight int
	FPS            int
}

// NewDirector создает Director для размера кадра и FPS
func NewDirector(viewportWidth, viewportHeight, fps int) *Director {
	if fps <= 0 {
		fps = 30
	}
	return &Director{
		ViewportWidth:  viewportWidth,
		ViewportHeight: viewportHeight,
		FPS:            fps,
	}
}

// GenerateCueSheet перечисляет объекты и анимации сцены sc. Сцена должна
// быть валидной.
func (d *Director) GenerateCueSheet(sc *scene.Scene) (*CueSheet, error) {
	if len(sc.Timeline) == 0 {
		return nil, fmt.Errorf("scene %s has an empty timeline", sc.Name)
	}

	vp := renderer.NewViewport(d.ViewportWidth, d.ViewportHeight)
	sheet := &CueSheet{
		Version:  CueSheetVersion,
		Scene:    sc.Name,
		Duration: sc.Duration(),
		FPS:      d.FPS,
		Frames:   d.frame(sc.Duration()),
	}

	for _, o := range sc.Objects() {
		b := o.Bounds()
		r := vp.Rect(b)
		sheet.Objects = append(sheet.Objects, Object{
			ID:     o.ID,
			Kind:   string(o.Kind),
			Text:   o.Text,
			Bounds: Bounds{MinX: round3(b.Min.X), MinY: round3(b.Min.Y), MaxX: round3(b.Max.X), MaxY: round3(b.Max.Y)},
			Rect:   Rectangle{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()},
		})
	}

	spans := sc.Spans()
	for i, e := range sc.Timeline {
		sheet.Entries = append(sheet.Entries, Entry{
			Index: i,
			Kind:  e.Kind.String(),
			Start: round3(spans[i].Start),
			End:   round3(spans[i].End),
		})
	}
	for _, c := range sc.Schedule() {
		cue := Cue{
			Action:     string(c.Directive.Action),
			Target:     c.Directive.Target.ID,
			Start:      round3(c.Start),
			End:        round3(c.End),
			RunTime:    c.Directive.RunTime,
			LagRatio:   c.Directive.LagRatio,
			StartFrame: d.frame(c.Start),
			EndFrame:   d.frame(c.End),
		}
		if c.Directive.Replacement != nil {
			cue.Replacement = c.Directive.Replacement.ID
		}
		sheet.Entries[c.Entry].Cues = append(sheet.Entries[c.Entry].Cues, cue)
	}
	return sheet, nil
}

// frame - номер ближайшего кадра к моменту t
func (d *Director) frame(t float64) int {
	return int(math.Round(t * float64(d.FPS)))
}

// round3 убирает из YAML шум вида 1.2000000000000002
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
