package engine

import (
	"context"
	"errors"
	"fmt"
	"image"

	log "github.com/sirupsen/logrus"

	"github.com/ivlev/scene2video/internal/analyzer"
	"github.com/ivlev/scene2video/internal/effects"
	"github.com/ivlev/scene2video/internal/progress"
	"github.com/ivlev/scene2video/internal/renderer"
)

// ErrLayoutClipped - нарисованное касается края кадра.
var ErrLayoutClipped = errors.New("content clipped by the frame edge")

// Допустимый отступ от края кадра в пикселях
const clipMargin = 2

// LayoutIssue - область, которая выходит к краю кадра после завершения шага
// таймлайна.
type LayoutIssue struct {
	Scene string
	Entry int
	Time  float64
	Rect  image.Rectangle
}

func (i LayoutIssue) String() string {
	return fmt.Sprintf("%s entry %d (t=%.2fs): %v", i.Scene, i.Entry, i.Time, i.Rect)
}

// CheckLayout рисует кадр после каждой группы анимаций и находит области,
// обрезанные краем кадра. Сцены должны быть подготовлены.
func (p *VideoProject) CheckLayout(ctx context.Context) ([]LayoutIssue, error) {
	r := renderer.New(p.Config.Width, p.Config.Height, p.background)
	det, err := analyzer.NewDetector(p.Config.Detector, p.background)
	if err != nil {
		return nil, err
	}

	var issues []LayoutIssue
	for _, sc := range p.Scenes {
		spans := sc.Spans()
		cues := sc.Schedule()
		for i, e := range sc.Timeline {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if len(e.Directives) == 0 {
				continue
			}
			t := spans[i].End
			img, err := r.RenderFrame(effects.EvaluateCues(sc.Objects(), cues, t))
			if err != nil {
				r.Release(img)
				return nil, fmt.Errorf("%s entry %d: %w", sc.Name, i, err)
			}
			blocks, err := det.Detect(img)
			r.Release(img)
			if err != nil {
				return nil, err
			}
			for _, b := range analyzer.ClippedBlocks(blocks, r.Bounds(), clipMargin) {
				issues = append(issues, LayoutIssue{Scene: sc.Name, Entry: i, Time: t, Rect: b.Rect})
			}
		}
	}
	return issues, nil
}

func (p *VideoProject) checkAndReport(ctx context.Context) error {
	fmt.Println("[*] Проверка раскладки кадров...")
	issues, err := p.CheckLayout(ctx)
	if err != nil {
		return fmt.Errorf("проверка раскладки: %w", err)
	}
	for _, is := range issues {
		log.Warnf("[!] Обрезано краем кадра: %s", is)
	}
	p.report(progress.Event{Stage: progress.StageCheck, Total: len(issues),
		Message: fmt.Sprintf("проверка раскладки: %d проблем", len(issues))})
	if len(issues) > 0 {
		return fmt.Errorf("%d regions: %w", len(issues), ErrLayoutClipped)
	}
	fmt.Println("[+] Раскладка в порядке")
	return nil
}
