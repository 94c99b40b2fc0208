package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/scene2video/internal/fonts"
	"github.com/ivlev/scene2video/internal/scene"
	"github.com/ivlev/scene2video/internal/scenes"
)

func shapesScene() *scene.Scene {
	tri := scene.NewTriangle("tri")
	box := scene.NewRectangle("box", 2, 1).Shift(scene.Right.Mul(3))
	sc := scene.New("shapes").Add(tri, box)
	sc.Play(scene.Create(tri))
	sc.Wait(0.5)
	sc.Play(scene.FadeIn(box, scene.RunTime(0.5)), scene.FadeOut(tri))
	return sc
}

func TestPlanSegments(t *testing.T) {
	sc := shapesScene()
	segs := PlanSegments([]*scene.Scene{sc}, 10, 0)

	require.Len(t, segs, 3)
	assert.Equal(t, []int{10, 5, 10}, []int{segs[0].Frames, segs[1].Frames, segs[2].Frames})
	assert.Equal(t, []int{0, 10, 15}, []int{segs[0].FirstFrame, segs[1].FirstFrame, segs[2].FirstFrame})
	assert.False(t, segs[0].Static)
	assert.True(t, segs[1].Static)
	assert.Equal(t, "wait 0.5s", segs[1].Label)
	assert.Equal(t, "fade_in(box) + fade_out(tri)", segs[2].Label)
	assert.InDelta(t, 1.5, segs[2].Offset, 1e-9)
	assert.Equal(t, 25, TotalFrames(segs))
}

func TestPlanSegmentsSkipsEmptyEntriesAndAddsTail(t *testing.T) {
	sc := shapesScene()
	sc.Wait(0)
	segs := PlanSegments([]*scene.Scene{sc}, 10, 1.0)

	require.Len(t, segs, 4)
	tail := segs[3]
	assert.Equal(t, -1, tail.Entry)
	assert.True(t, tail.Static)
	assert.Equal(t, 10, tail.Frames)
	assert.InDelta(t, sc.Duration(), tail.Start, 1e-9)
	assert.InDelta(t, sc.Duration(), tail.FrameTime(7, 10), 1e-9)
}

func TestPlanSegmentsMultipleScenes(t *testing.T) {
	a, b := shapesScene(), shapesScene()
	b.Name = "shapes-2"
	segs := PlanSegments([]*scene.Scene{a, b}, 10, 0)

	require.Len(t, segs, 6)
	assert.Equal(t, b, segs[3].Scene)
	// frames restart per scene, offsets do not
	assert.Equal(t, 0, segs[3].FirstFrame)
	assert.InDelta(t, 2.5, segs[3].Offset, 1e-9)
	for i, s := range segs {
		assert.Equal(t, i, s.Index)
	}
}

func TestFrameTime(t *testing.T) {
	s := Segment{Start: 1, FirstFrame: 30, Frames: 30}
	assert.InDelta(t, 1.0, s.FrameTime(0, 30), 1e-9)
	assert.InDelta(t, 1.5, s.FrameTime(15, 30), 1e-9)
	assert.InDelta(t, 1.0, s.Duration(30), 1e-9)
}

func TestHelloTriangleSegments(t *testing.T) {
	env := scenes.Env{Fonts: fonts.NewRegistry(t.TempDir(), true)}
	built, err := scenes.Build(env, "hello-triangle")
	require.NoError(t, err)

	segs := PlanSegments(built, 30, 0)
	require.Len(t, segs, 7)

	var frames []int
	for _, s := range segs {
		frames = append(frames, s.Frames)
	}
	assert.Equal(t, []int{30, 90, 30, 30, 30, 36, 150}, frames)
	assert.Equal(t, 396, TotalFrames(segs))
	assert.True(t, segs[1].Static)
	assert.True(t, segs[6].Static)
}
