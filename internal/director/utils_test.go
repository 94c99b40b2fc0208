package director

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCueSheetPath(t *testing.T) {
	path := GenerateCueSheetPath("output", "hello-triangle")

	assert.Equal(t, "output", filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "cues_hello-triangle_"), path)
	assert.Equal(t, ".yaml", filepath.Ext(path))
}

func TestFindLatestCueSheet(t *testing.T) {
	dir := t.TempDir()

	files := []string{
		filepath.Join(dir, "cues_a.yaml"),
		filepath.Join(dir, "cues_b.yaml"),
		filepath.Join(dir, "cues_c.yaml"),
	}
	base := time.Now().Add(-time.Hour)
	for i, f := range files {
		require.NoError(t, os.WriteFile(f, []byte("version: \"1.0\"\n"), 0644))
		modTime := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(f, modTime, modTime))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0644))

	latest, err := FindLatestCueSheet(dir)
	require.NoError(t, err)
	assert.Equal(t, files[2], latest)
}

func TestFindLatestCueSheetEmpty(t *testing.T) {
	_, err := FindLatestCueSheet(t.TempDir())
	assert.Error(t, err)

	_, err = FindLatestCueSheet(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
