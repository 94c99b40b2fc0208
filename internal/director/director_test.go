package director

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/scene2video/internal/scene"
)

func testScene() *scene.Scene {
	tri := scene.NewTriangle("triangle")
	box := scene.NewRectangle("box", 2, 1).Shift(scene.Right.Mul(3))
	sc := scene.New("test").Add(tri, box)
	sc.Play(scene.Create(tri), scene.Create(box, scene.LagRatio(0.5)))
	sc.Wait(1)
	sc.Play(scene.FadeOut(tri, scene.RunTime(2)))
	return sc
}

func TestGenerateCueSheet(t *testing.T) {
	sc := testScene()
	require.NoError(t, sc.Validate())

	sheet, err := NewDirector(1280, 720, 30).GenerateCueSheet(sc)
	require.NoError(t, err)

	assert.Equal(t, CueSheetVersion, sheet.Version)
	assert.Equal(t, "test", sheet.Scene)
	assert.InDelta(t, 4.5, sheet.Duration, 1e-9)
	assert.Equal(t, 135, sheet.Frames)

	require.Len(t, sheet.Objects, 2)
	assert.Equal(t, "triangle", sheet.Objects[0].ID)
	assert.Equal(t, "triangle", sheet.Objects[0].Kind)
	assert.Greater(t, sheet.Objects[1].Rect.W, sheet.Objects[1].Rect.H)
	assert.Greater(t, sheet.Objects[1].Rect.X, 640)

	require.Len(t, sheet.Entries, 3)
	assert.Equal(t, "play", sheet.Entries[0].Kind)
	assert.Equal(t, "wait", sheet.Entries[1].Kind)
	assert.Empty(t, sheet.Entries[1].Cues)

	first := sheet.Entries[0].Cues
	require.Len(t, first, 2)
	assert.Equal(t, "create", first[0].Action)
	assert.Equal(t, 0, first[0].StartFrame)
	assert.InDelta(t, 0.5, first[1].Start, 1e-9)
	assert.Equal(t, 15, first[1].StartFrame)
	assert.Equal(t, 45, first[1].EndFrame)

	last := sheet.Entries[2].Cues
	require.Len(t, last, 1)
	assert.Equal(t, "fade_out", last[0].Action)
	assert.InDelta(t, 2.5, last[0].Start, 1e-9)
	assert.InDelta(t, 4.5, last[0].End, 1e-9)
}

func TestGenerateCueSheetEmpty(t *testing.T) {
	_, err := NewDirector(1280, 720, 30).GenerateCueSheet(scene.New("empty"))
	assert.Error(t, err)
}

func TestCueSheetWriteRead(t *testing.T) {
	sheet, err := NewDirector(640, 360, 24).GenerateCueSheet(testScene())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "cues.yaml")
	require.NoError(t, WriteCueSheet(sheet, path))

	read, err := ReadCueSheet(path)
	require.NoError(t, err)
	assert.Equal(t, sheet, read)
}
