package effects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/scene2video/internal/scene"
)

func sampleScene() (*scene.Scene, *scene.Object, *scene.Object) {
	tri := scene.NewTriangle("tri")
	box := scene.NewRectangle("box", 2, 1).Shift(scene.V(2, 0))
	sc := scene.New("sample").Add(tri, box)
	sc.Play(scene.Write(tri))
	sc.Wait(1)
	sc.Play(scene.FadeTransform(tri, box))
	sc.Play(scene.FadeOut(box))
	return sc, tri, box
}

func TestEvaluateWriteIsLinear(t *testing.T) {
	sc, tri, _ := sampleScene()

	states := Evaluate(sc, 0.25)
	require.Len(t, states, 1)
	assert.Same(t, tri, states[0].Object)
	assert.InDelta(t, 0.25, states[0].Reveal, 1e-9)
	assert.InDelta(t, 1, states[0].Alpha, 1e-9)

	states = Evaluate(sc, 0.5)
	assert.InDelta(t, 0.5, states[0].Reveal, 1e-9)
}

func TestEvaluateSettledBetweenEntries(t *testing.T) {
	sc, tri, _ := sampleScene()

	states := Evaluate(sc, 1.5)
	require.Len(t, states, 1)
	assert.Equal(t, State{
		Object:    tri,
		Visible:   true,
		Alpha:     1,
		Reveal:    1,
		FillAlpha: 1,
		Center:    tri.Center,
		Scale:     1,
	}, states[0])
}

func TestEvaluateFadeTransform(t *testing.T) {
	sc, tri, box := sampleScene()

	states := Evaluate(sc, 2.5)
	require.Len(t, states, 2)
	from, to := states[0], states[1]
	assert.Same(t, tri, from.Object)
	assert.Same(t, box, to.Object)

	// in-out cubic is symmetric around the midpoint
	assert.InDelta(t, 0.5, from.Alpha, 1e-9)
	assert.InDelta(t, 0.5, to.Alpha, 1e-9)

	mid := tri.Center.Lerp(box.Center, 0.5)
	assert.InDelta(t, mid.X, from.Center.X, 1e-9)
	assert.InDelta(t, mid.X, to.Center.X, 1e-9)

	ratio := box.Bounds().Height() / tri.Bounds().Height()
	assert.InDelta(t, (1+ratio)/2, from.Scale, 1e-9)
	assert.InDelta(t, (1/ratio+1)/2, to.Scale, 1e-9)

	// the replacement takes over when the transform ends
	states = Evaluate(sc, 3)
	require.Len(t, states, 1)
	assert.Same(t, box, states[0].Object)
	assert.InDelta(t, 1, states[0].Scale, 1e-9)
}

func TestEvaluateFadeOutAndEnd(t *testing.T) {
	sc, _, box := sampleScene()

	states := Evaluate(sc, 3.5)
	require.Len(t, states, 1)
	assert.Same(t, box, states[0].Object)
	assert.InDelta(t, 0.5, states[0].Alpha, 1e-9)

	assert.Empty(t, Evaluate(sc, sc.Duration()))
	assert.Empty(t, Evaluate(sc, sc.Duration()+10))
}

func TestEvaluateBeforeStart(t *testing.T) {
	tri := scene.NewTriangle("tri")
	sc := scene.New("late").Add(tri)
	sc.Wait(1)
	sc.Play(scene.Create(tri))

	assert.Empty(t, Evaluate(sc, 0.5))

	states := Evaluate(sc, 1)
	require.Len(t, states, 1)
	assert.Zero(t, states[0].Reveal)
	assert.Zero(t, states[0].FillAlpha)
}

func TestUncreateMirrorsCreate(t *testing.T) {
	tri := scene.NewTriangle("tri")
	sc := scene.New("mirror").Add(tri)
	sc.Play(scene.Create(tri))
	sc.Play(scene.Uncreate(tri))

	in := Evaluate(sc, 0.3)
	out := Evaluate(sc, 1.7)
	require.Len(t, in, 1)
	require.Len(t, out, 1)
	assert.InDelta(t, in[0].Reveal, out[0].Reveal, 1e-9)
	assert.InDelta(t, in[0].FillAlpha, out[0].FillAlpha, 1e-9)
}

func TestLookup(t *testing.T) {
	_, easing, err := Lookup(scene.ActionWrite)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, easing(0.3), 1e-9)

	_, easing, err = Lookup(scene.ActionFadeIn)
	require.NoError(t, err)
	assert.Less(t, easing(0.3), 0.3)

	_, _, err = Lookup("spin")
	assert.Error(t, err)
}
