package engine

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/scene2video/internal/config"
	"github.com/ivlev/scene2video/internal/progress"
	"github.com/ivlev/scene2video/internal/scene"
	"github.com/ivlev/scene2video/internal/video"
)

type fakeEncoder struct {
	mu       sync.Mutex
	frames   map[int]int
	inked    map[int]bool
	concat   []string
	audio    string
	segments int
}

func newFakeEncoder() *fakeEncoder {
	return &fakeEncoder{frames: make(map[int]int), inked: make(map[int]bool)}
}

func (e *fakeEncoder) EncodeSegment(_ context.Context, frames video.FrameSource, _ string, params config.SegmentParams, _ string, _ int) error {
	var inked bool
	for i := 0; i < params.Frames; i++ {
		img, err := frames.Frame(i)
		if err != nil {
			return err
		}
		if img.Bounds() != image.Rect(0, 0, params.Width, params.Height) {
			frames.Release(img)
			return assert.AnError
		}
		if i == params.Frames-1 {
			inked = hasInk(img)
		}
		frames.Release(img)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.frames[params.Index] = params.Frames
	e.inked[params.Index] = inked
	e.segments++
	return nil
}

func (e *fakeEncoder) Concatenate(_ context.Context, paths []string, _ string, _ string, cfg config.Config) error {
	e.concat = paths
	e.audio = cfg.AudioPath
	return nil
}

func hasInk(img *image.RGBA) bool {
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 32 || img.Pix[i+1] > 32 || img.Pix[i+2] > 32 {
			return true
		}
	}
	return false
}

type eventLog struct {
	mu     sync.Mutex
	stages []progress.Stage
}

func (l *eventLog) Report(e progress.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stages = append(l.stages, e.Stage)
}

func (l *eventLog) Close() error { return nil }

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Width, cfg.Height, cfg.FPS = 128, 72, 10
	cfg.Workers = 2
	cfg.OutputVideo = "out.mp4"
	return cfg
}

func TestRunRendersEverySegment(t *testing.T) {
	enc := newFakeEncoder()
	events := &eventLog{}
	p := NewVideoProject(testConfig(), enc, events)
	p.Scenes = []*scene.Scene{shapesScene()}

	require.NoError(t, p.Run(context.Background()))

	assert.Equal(t, 3, enc.segments)
	assert.Equal(t, map[int]int{0: 10, 1: 5, 2: 10}, enc.frames)
	// the triangle is fully drawn at the end of the first segment
	assert.True(t, enc.inked[0])
	assert.True(t, enc.inked[1])

	require.Len(t, enc.concat, 3)
	for i, want := range []string{"s000.mp4", "s001.mp4", "s002.mp4"} {
		assert.Equal(t, want, filepath.Base(enc.concat[i]))
	}
	assert.Contains(t, events.stages, progress.StageRender)
	assert.Equal(t, progress.StageDone, events.stages[len(events.stages)-1])
}

func TestRunDryRunSkipsEncoding(t *testing.T) {
	enc := newFakeEncoder()
	cfg := testConfig()
	cfg.DryRun = true
	p := NewVideoProject(cfg, enc, nil)
	p.Scenes = []*scene.Scene{shapesScene()}

	require.NoError(t, p.Run(context.Background()))
	assert.Zero(t, enc.segments)
	assert.Nil(t, enc.concat)
}

func TestRunRejectsInvalidScene(t *testing.T) {
	tri := scene.NewTriangle("tri")
	sc := scene.New("broken")
	sc.Play(scene.Create(tri))
	sc.Add(tri)

	p := NewVideoProject(testConfig(), newFakeEncoder(), nil)
	p.Scenes = []*scene.Scene{sc}

	err := p.Run(context.Background())
	assert.ErrorIs(t, err, scene.ErrForwardReference)
}

func TestRunWritesCueSheets(t *testing.T) {
	cfg := testConfig()
	cfg.DryRun = true
	cfg.CueSheet = t.TempDir()
	p := NewVideoProject(cfg, newFakeEncoder(), nil)
	p.Scenes = []*scene.Scene{shapesScene()}

	require.NoError(t, p.Run(context.Background()))

	matches, err := filepath.Glob(filepath.Join(cfg.CueSheet, "cues_shapes_*.yaml"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestCheckLayout(t *testing.T) {
	wide := scene.NewRectangle("wide", 20, 1)
	sc := scene.New("wide").Add(wide)
	sc.Play(scene.Create(wide))

	p := NewVideoProject(testConfig(), newFakeEncoder(), nil)
	p.Scenes = []*scene.Scene{shapesScene(), sc}
	require.NoError(t, p.prepare(context.Background()))

	issues, err := p.CheckLayout(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, issues)
	for _, is := range issues {
		assert.Equal(t, "wide", is.Scene)
	}

	events := &eventLog{}
	p.Reporter = events
	p.Config.Check = true
	err = p.Run(context.Background())
	assert.ErrorIs(t, err, ErrLayoutClipped)
	require.NotEmpty(t, events.stages)
	assert.Equal(t, progress.StageFailed, events.stages[len(events.stages)-1])
}

func TestSnapshot(t *testing.T) {
	p := NewVideoProject(testConfig(), newFakeEncoder(), nil)
	p.Scenes = []*scene.Scene{shapesScene()}

	path := filepath.Join(t.TempDir(), "frames", "snap.png")
	require.NoError(t, p.Snapshot(context.Background(), "", 1.2, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 128, 72), img.Bounds())

	err = p.Snapshot(context.Background(), "missing", 0, path)
	assert.ErrorIs(t, err, ErrNoScene)
}

func TestBlankThumbnails(t *testing.T) {
	blank := image.NewRGBA(image.Rect(0, 0, 200, 120))
	draw.Draw(blank, blank.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	slide := image.NewRGBA(image.Rect(0, 0, 200, 120))
	draw.Draw(slide, slide.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	draw.Draw(slide, image.Rect(70, 40, 130, 80), image.NewUniform(color.White), image.Point{}, draw.Src)

	assert.Equal(t, []int{0}, blankThumbnails([]image.Image{blank, slide}))
}

func TestCheckLayoutUnknownDetector(t *testing.T) {
	cfg := testConfig()
	cfg.Detector = "psychic"
	p := NewVideoProject(cfg, newFakeEncoder(), nil)
	p.Scenes = []*scene.Scene{shapesScene()}
	require.NoError(t, p.prepare(context.Background()))

	_, err := p.CheckLayout(context.Background())
	assert.Error(t, err)
}

func TestRunReportsCueSheetFailure(t *testing.T) {
	// a regular file where the cue sheet directory should be
	blocker := filepath.Join(t.TempDir(), "cues")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	cfg := testConfig()
	cfg.DryRun = true
	cfg.CueSheet = blocker
	events := &eventLog{}
	p := NewVideoProject(cfg, newFakeEncoder(), events)
	p.Scenes = []*scene.Scene{shapesScene()}

	require.Error(t, p.Run(context.Background()))
	require.NotEmpty(t, events.stages)
	assert.Equal(t, progress.StageFailed, events.stages[len(events.stages)-1])
}
