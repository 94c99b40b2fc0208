package engine

import (
	"fmt"
	"math"

	"github.com/ivlev/scene2video/internal/scene"
)

// Segment - шаг таймлайна, который кодируется в отдельный файл. Границы
// округляются до кадров, чтобы соседние сегменты шли встык без пропусков
// и повторов.
type Segment struct {
	Index int
	Scene *scene.Scene
	// Номер шага таймлайна, -1 для хвоста под аудио
	Entry int
	Label string

	// Время внутри сцены, сек
	Start, End float64
	// Начало сегмента в итоговом видео
	Offset float64

	FirstFrame int
	Frames     int
	// Статичный сегмент показывает один кадр все время
	Static bool
}

// Duration - длительность сегмента, выровненная по кадрам
func (s Segment) Duration(fps int) float64 {
	return float64(s.Frames) / float64(fps)
}

// FrameTime - время кадра i внутри сцены
func (s Segment) FrameTime(i, fps int) float64 {
	if s.Static {
		return s.Start
	}
	return float64(s.FirstFrame+i) / float64(fps)
}

// PlanSegments разбивает сцены на сегменты. После последней сцены добавляется
// tail секунд статичного кадра. Шаги короче половины кадра пропускаются.
func PlanSegments(scenes []*scene.Scene, fps int, tail float64) []Segment {
	var segments []Segment
	var offsetFrames int

	for _, sc := range scenes {
		spans := sc.Spans()
		for i, e := range sc.Timeline {
			first := toFrame(spans[i].Start, fps)
			frames := toFrame(spans[i].End, fps) - first
			if frames <= 0 {
				continue
			}
			segments = append(segments, Segment{
				Index:      len(segments),
				Scene:      sc,
				Entry:      i,
				Label:      entryLabel(e),
				Start:      spans[i].Start,
				End:        spans[i].End,
				Offset:     float64(offsetFrames) / float64(fps),
				FirstFrame: first,
				Frames:     frames,
				Static:     e.Kind == scene.EntryWait,
			})
			offsetFrames += frames
		}
	}

	if tailFrames := toFrame(tail, fps); tailFrames > 0 && len(scenes) > 0 {
		last := scenes[len(scenes)-1]
		end := last.Duration()
		segments = append(segments, Segment{
			Index:      len(segments),
			Scene:      last,
			Entry:      -1,
			Label:      "tail",
			Start:      end,
			End:        end + tail,
			Offset:     float64(offsetFrames) / float64(fps),
			FirstFrame: toFrame(end, fps),
			Frames:     tailFrames,
			Static:     true,
		})
	}
	return segments
}

// TotalFrames - сумма кадров всех сегментов
func TotalFrames(segments []Segment) int {
	var n int
	for _, s := range segments {
		n += s.Frames
	}
	return n
}

func toFrame(t float64, fps int) int {
	return int(math.Round(t * float64(fps)))
}

func entryLabel(e scene.Entry) string {
	if e.Kind == scene.EntryWait {
		return fmt.Sprintf("wait %.1fs", e.Wait)
	}
	label := ""
	for i, d := range e.Directives {
		if i > 0 {
			label += " + "
		}
		label += fmt.Sprintf("%s(%s)", d.Action, d.Target.ID)
	}
	return label
}
