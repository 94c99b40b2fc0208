package engine

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/scene2video/internal/analyzer"
	"github.com/ivlev/scene2video/internal/config"
	"github.com/ivlev/scene2video/internal/director"
	"github.com/ivlev/scene2video/internal/effects"
	"github.com/ivlev/scene2video/internal/fonts"
	"github.com/ivlev/scene2video/internal/progress"
	"github.com/ivlev/scene2video/internal/renderer"
	"github.com/ivlev/scene2video/internal/scene"
	"github.com/ivlev/scene2video/internal/scenes"
	"github.com/ivlev/scene2video/internal/source"
	"github.com/ivlev/scene2video/internal/system"
	"github.com/ivlev/scene2video/internal/video"
)

// Количество блоков-превью в сцене
const thumbnailCount = 3

type VideoProject struct {
	Config   *config.Config
	Encoder  video.VideoEncoder
	Reporter progress.Reporter

	// Если заданы, рендерятся вместо сборки Config.Scenes
	Scenes []*scene.Scene

	runID      string
	tempDir    string
	background colorful.Color
}

func NewVideoProject(cfg *config.Config, ve video.VideoEncoder, rep progress.Reporter) *VideoProject {
	if rep == nil {
		rep = progress.Multi{}
	}
	return &VideoProject{
		Config:   cfg,
		Encoder:  ve,
		Reporter: rep,
		runID:    uuid.NewString(),
	}
}

// RunID - идентификатор запуска для логов, временных папок и прогресса
func (p *VideoProject) RunID() string { return p.runID }

func (p *VideoProject) report(e progress.Event) {
	if p.Reporter == nil {
		return
	}
	e.RunID = p.runID
	e.Time = time.Now()
	p.Reporter.Report(e)
}

// fail сообщает об ошибке подписчикам прогресса и возвращает ее.
func (p *VideoProject) fail(err error) error {
	p.report(progress.Event{Stage: progress.StageFailed, Message: err.Error()})
	return err
}

func (p *VideoProject) Run(ctx context.Context) error {
	startTime := time.Now()
	if p.runID == "" {
		p.runID = uuid.NewString()
	}

	if err := p.prepare(ctx); err != nil {
		return p.fail(err)
	}

	if p.Config.CueSheet != "" {
		if err := p.writeCueSheets(); err != nil {
			return p.fail(fmt.Errorf("ошибка записи cue sheet: %w", err))
		}
	}

	if p.Config.Check {
		if err := p.checkAndReport(ctx); err != nil {
			return p.fail(err)
		}
	}

	segments := PlanSegments(p.Scenes, p.Config.FPS, p.Config.Tail)
	if len(segments) == 0 {
		return p.fail(fmt.Errorf("сценарий не содержит кадров"))
	}
	totalFrames := TotalFrames(segments)

	names := make([]string, len(p.Scenes))
	for i, sc := range p.Scenes {
		names[i] = sc.Name
	}
	fmt.Println("--- [PROJECT: SCENE ENGINE] ---")
	fmt.Printf("[*] Сцены: %s | Сегментов: %d | Кадров: %d\n", strings.Join(names, ", "), len(segments), totalFrames)
	fmt.Printf("[*] Разрешение: %dx%d @ %d FPS | Длительность: %.2fs\n",
		p.Config.Width, p.Config.Height, p.Config.FPS, float64(totalFrames)/float64(p.Config.FPS))
	fmt.Println("-----------------------------")

	if p.Config.DryRun {
		printPlan(segments, p.Config.FPS)
		return nil
	}

	var err error
	p.tempDir, err = os.MkdirTemp("", "scene2video_"+p.runID[:8]+"_")
	if err != nil {
		return p.fail(err)
	}
	defer os.RemoveAll(p.tempDir)

	renderStart := time.Now()
	results, err := p.renderSegments(ctx, segments)
	if err != nil {
		return p.fail(err)
	}
	renderTime := time.Since(renderStart)

	fmt.Println("[*] Сборка финального видео...")
	p.report(progress.Event{Stage: progress.StageConcat, Done: len(segments), Total: len(segments), Message: "concat"})
	concatStart := time.Now()
	if err := p.Encoder.Concatenate(ctx, results, p.Config.OutputVideo, p.tempDir, *p.Config); err != nil {
		return p.fail(fmt.Errorf("ошибка сборки финального видео: %w", err))
	}
	concatTime := time.Since(concatStart)

	p.report(progress.Event{Stage: progress.StageDone, Done: len(segments), Total: len(segments),
		Message: "видео сохранено: " + p.Config.OutputVideo})

	if p.Config.ShowStats {
		p.writeReport(perfReport{
			Total:    time.Since(startTime),
			Render:   renderTime,
			Concat:   concatTime,
			Frames:   totalFrames,
			Segments: len(segments),
			Scenes:   names,
			Host:     system.CollectHostStats(),
		})
	}
	return nil
}

// prepare собирает сцены, разбирает цвет фона и подгоняет длину под аудио
func (p *VideoProject) prepare(ctx context.Context) error {
	if err := p.Config.Validate(); err != nil {
		return err
	}
	bg, err := scene.ParseColor(p.Config.Background)
	if err != nil {
		return fmt.Errorf("background: %w", err)
	}
	p.background = bg

	p.report(progress.Event{Stage: progress.StagePlan, Message: "построение сцен"})
	if p.Scenes == nil {
		p.Scenes, err = p.buildScenes()
		if err != nil {
			return err
		}
	} else {
		for _, sc := range p.Scenes {
			if err := sc.Validate(); err != nil {
				return fmt.Errorf("validate %s: %w", sc.Name, err)
			}
		}
	}

	if p.Config.AudioSync && p.Config.AudioPath != "" {
		audioDur, err := system.GetAudioDuration(ctx, p.Config.AudioPath)
		if err != nil {
			return fmt.Errorf("не удалось получить длительность аудио: %w", err)
		}
		var total float64
		for _, sc := range p.Scenes {
			total += sc.Duration()
		}
		if audioDur > total {
			p.Config.Tail = audioDur - total
			fmt.Printf("[*] Финальная пауза продлена на %.2fs под аудио\n", p.Config.Tail)
		} else if audioDur < total {
			log.Warnf("[!] Аудио (%.2fs) короче видео (%.2fs) и будет обрезано по аудио", audioDur, total)
		}
	}
	return nil
}

func (p *VideoProject) buildScenes() ([]*scene.Scene, error) {
	env := scenes.Env{
		Fonts:      fonts.NewRegistry(p.Config.FontsDir, p.Config.FontFallback),
		EndCardURL: p.Config.EndCardURL,
	}

	if p.Config.Thumbnails != "" {
		thumbs, err := loadThumbnails(p.Config.Thumbnails, p.Config.ThumbnailDPI)
		if err != nil {
			log.Warnf("[!] Превью не загружены, блоки останутся пустыми: %v", err)
		} else {
			env.Thumbnails = thumbs
		}
	}

	return scenes.Build(env, p.Config.Scenes...)
}

func loadThumbnails(path string, dpi int) ([]image.Image, error) {
	src, err := source.Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	thumbs, err := source.Thumbnails(src, thumbnailCount, dpi)
	if err != nil {
		return nil, err
	}
	for _, i := range blankThumbnails(thumbs) {
		log.Warnf("[!] Превью %d выглядит пустым (нет контрастных областей)", i+1)
	}
	return thumbs, nil
}

// blankThumbnails возвращает номера превью без контрастных областей
// (например, пустой титульный слайд)
func blankThumbnails(thumbs []image.Image) []int {
	det := analyzer.NewContrastDetector()
	var blank []int
	for i, img := range thumbs {
		blocks, err := det.Detect(img)
		if err == nil && len(blocks) == 0 {
			blank = append(blank, i)
		}
	}
	return blank
}

func (p *VideoProject) writeCueSheets() error {
	dir := director.NewDirector(p.Config.Width, p.Config.Height, p.Config.FPS)
	for _, sc := range p.Scenes {
		sheet, err := dir.GenerateCueSheet(sc)
		if err != nil {
			return err
		}
		path := director.GenerateCueSheetPath(p.Config.CueSheet, sc.Name)
		if err := director.WriteCueSheet(sheet, path); err != nil {
			return err
		}
		fmt.Printf("[+++] Cue sheet сохранен: %s\n", path)
		p.report(progress.Event{Stage: progress.StageCueList, Scene: sc.Name, Message: path})
	}
	return nil
}

func (p *VideoProject) renderSegments(ctx context.Context, segments []Segment) ([]string, error) {
	results := make([]string, len(segments))
	schedules := make(map[*scene.Scene][]scene.Cue, len(p.Scenes))
	for _, sc := range p.Scenes {
		schedules[sc] = sc.Schedule()
	}

	frameBytes := uint64(p.Config.Width * p.Config.Height * 4)
	workers := system.SuggestWorkers(p.Config.Workers, frameBytes)
	if workers > len(segments) {
		workers = len(segments)
	}
	log.Debugf("render workers: %d", workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var done atomic.Int32
	for _, seg := range segments {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			segPath := filepath.Join(p.tempDir, fmt.Sprintf("s%03d.mp4", seg.Index))

			params := config.SegmentParams{
				Width:    p.Config.Width,
				Height:   p.Config.Height,
				FPS:      p.Config.FPS,
				Frames:   seg.Frames,
				Duration: seg.Duration(p.Config.FPS),
				Index:    seg.Index,
				Label:    seg.Label,
			}
			if p.Config.Debug {
				params.Filter = renderer.GenerateDebugFilter(seg.Index, seg.Scene.Name+" "+seg.Label, seg.Start)
			}

			frames := newSegmentFrames(renderer.New(p.Config.Width, p.Config.Height, p.background), seg,
				seg.Scene.Objects(), schedules[seg.Scene], p.Config.FPS)
			defer frames.Close()

			if err := p.Encoder.EncodeSegment(gctx, frames, segPath, params, p.Config.VideoEncoder, p.Config.Quality); err != nil {
				return fmt.Errorf("сегмент %d (%s): %w", seg.Index, seg.Label, err)
			}
			results[seg.Index] = segPath

			n := int(done.Add(1))
			p.report(progress.Event{
				Stage: progress.StageRender, Scene: seg.Scene.Name, Segment: seg.Index,
				Label: seg.Label, Done: n, Total: len(segments),
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i, r := range results {
		if r == "" {
			return nil, fmt.Errorf("сегмент %d не был создан. Проверьте логи FFmpeg", i)
		}
	}
	return results, nil
}

// segmentFrames рисует кадры одного сегмента по запросу энкодера
type segmentFrames struct {
	r       *renderer.Renderer
	seg     Segment
	objects []*scene.Object
	cues    []scene.Cue
	fps     int
	still   *image.RGBA
}

func newSegmentFrames(r *renderer.Renderer, seg Segment, objects []*scene.Object, cues []scene.Cue, fps int) *segmentFrames {
	return &segmentFrames{r: r, seg: seg, objects: objects, cues: cues, fps: fps}
}

func (s *segmentFrames) render(t float64) (*image.RGBA, error) {
	img, err := s.r.RenderFrame(effects.EvaluateCues(s.objects, s.cues, t))
	if err != nil {
		s.r.Release(img)
		return nil, err
	}
	return img, nil
}

func (s *segmentFrames) Frame(i int) (*image.RGBA, error) {
	if !s.seg.Static {
		return s.render(s.seg.FrameTime(i, s.fps))
	}
	if s.still == nil {
		img, err := s.render(s.seg.Start)
		if err != nil {
			return nil, err
		}
		s.still = img
	}
	return s.still, nil
}

func (s *segmentFrames) Release(img *image.RGBA) {
	if img != s.still {
		s.r.Release(img)
	}
}

func (s *segmentFrames) Close() {
	if s.still != nil {
		s.r.Release(s.still)
		s.still = nil
	}
}
