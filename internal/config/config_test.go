package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene2video.yaml")
	yml := `
scenes: [hello-triangle, end-card]
fps: 60
end_card_url: https://example.com/webgl
audio_sync: true
mqtt:
  url: tcp://localhost:1883
  topic: studio/render
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"hello-triangle", "end-card"}, cfg.Scenes)
	assert.Equal(t, 60, cfg.FPS)
	assert.True(t, cfg.AudioSync)
	assert.Equal(t, "https://example.com/webgl", cfg.EndCardURL)
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTT.URL)
	assert.Equal(t, "studio/render", cfg.MQTT.Topic)

	// untouched keys keep their defaults
	assert.Equal(t, 1280, cfg.Width)
	assert.Equal(t, "scene2video", cfg.MQTT.ClientID)
	assert.True(t, cfg.FontFallback)
	require.NoError(t, cfg.Validate())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fps: [not, a, number]"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset string
		w, h   int
	}{
		{"", 640, 360},
		{"16:9", 1280, 720},
		{"9:16", 720, 1280},
		{"4:5", 1080, 1350},
	}
	for _, tt := range tests {
		cfg := Default()
		cfg.Width, cfg.Height = 640, 360
		cfg.Preset = tt.preset
		require.NoError(t, cfg.ApplyPreset(), tt.preset)
		assert.Equal(t, tt.w, cfg.Width, tt.preset)
		assert.Equal(t, tt.h, cfg.Height, tt.preset)
	}

	cfg := Default()
	cfg.Preset = "21:9"
	assert.Error(t, cfg.ApplyPreset())
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Default().Validate())

	cfg := Default()
	cfg.Scenes = nil
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Width = 1281
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Height = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.FPS = 0
	assert.Error(t, cfg.Validate())
}
