package fonts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ivlev/scene2video/internal/scene"
)

func writeFont(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, goregular.TTF, 0644))
	return path
}

func TestParseAndBounds(t *testing.T) {
	tf, err := Parse("", goregular.TTF)
	require.NoError(t, err)
	assert.Equal(t, "Go", tf.Name())

	b := tf.Bounds("H")
	assert.Greater(t, b.Width(), 0.0)
	assert.Greater(t, b.Max.Y, 0.5)
	assert.Less(t, b.Max.Y, 0.9)
	assert.InDelta(t, 0, b.Min.Y, 0.05)

	// a descender goes below the baseline
	assert.Less(t, tf.Bounds("g").Min.Y, -0.1)
	assert.Greater(t, tf.Bounds("HH").Width(), b.Width())
}

func TestFace(t *testing.T) {
	tf, err := Parse("go", goregular.TTF)
	require.NoError(t, err)

	face, err := tf.Face(32)
	require.NoError(t, err)
	defer face.Close()
	assert.Positive(t, face.Metrics().Ascent.Ceil())
	assert.LessOrEqual(t, face.Metrics().Ascent.Ceil(), 32)

	_, err = tf.Face(0)
	assert.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse("junk", []byte("not a font"))
	assert.Error(t, err)
}

func TestRegistryUseIsScoped(t *testing.T) {
	dir := t.TempDir()
	writeFont(t, dir, "Chalk Sans.ttf")
	r := NewRegistry(dir, false)

	err := r.Use("Chalk Sans.ttf", func() error {
		tf, err := r.Lookup("Chalk Sans")
		require.NoError(t, err)
		assert.Equal(t, "Go", tf.Name())

		_, err = r.Lookup("go")
		assert.NoError(t, err)
		return nil
	})
	require.NoError(t, err)

	_, err = r.Lookup("Chalk Sans")
	assert.ErrorIs(t, err, ErrFontNotFound)
}

func TestRegistryUseAbsolutePath(t *testing.T) {
	path := writeFont(t, t.TempDir(), "abs.ttf")
	r := NewRegistry("/nonexistent", false)

	called := false
	require.NoError(t, r.Use(path, func() error {
		called = true
		_, err := r.Lookup("abs")
		return err
	}))
	assert.True(t, called)
}

func TestRegistryMissingFile(t *testing.T) {
	strict := NewRegistry(t.TempDir(), false)
	err := strict.Use("missing.ttf", func() error { return nil })
	assert.ErrorIs(t, err, ErrFontNotFound)

	lenient := NewRegistry(t.TempDir(), true)
	called := false
	require.NoError(t, lenient.Use("missing.ttf", func() error {
		called = true
		return nil
	}))
	assert.True(t, called)
}

func TestRegistryFallback(t *testing.T) {
	r := NewRegistry(t.TempDir(), true)
	tf, err := r.Lookup("No Such Family 7f3a")
	require.NoError(t, err)
	assert.Equal(t, FallbackFamily, tf.Name())

	emb, err := r.Embedded()
	require.NoError(t, err)
	assert.Same(t, emb, tf.(*Typeface))

	var _ scene.Typeface = emb
}

func TestRegistryFallbackIsCached(t *testing.T) {
	r := NewRegistry(t.TempDir(), true)
	first, err := r.Lookup("Missing Family 9c1e")
	require.NoError(t, err)

	r.mu.RLock()
	cached, ok := r.system[normalize("Missing Family 9c1e")]
	r.mu.RUnlock()
	require.True(t, ok)
	assert.Same(t, first.(*Typeface), cached)

	second, err := r.Lookup("missing family 9c1e")
	require.NoError(t, err)
	assert.Same(t, first.(*Typeface), second.(*Typeface))
}
