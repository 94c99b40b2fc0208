package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Scenes       []string `yaml:"scenes"`
	OutputVideo  string   `yaml:"output"`
	Width        int      `yaml:"width"`
	Height       int      `yaml:"height"`
	FPS          int      `yaml:"fps"`
	Workers      int      `yaml:"workers"`
	Preset       string   `yaml:"preset"`
	Background   string   `yaml:"background"`
	FontsDir     string   `yaml:"fonts_dir"`
	FontFallback bool     `yaml:"font_fallback"`
	Thumbnails   string   `yaml:"thumbnails"`
	ThumbnailDPI int      `yaml:"thumbnail_dpi"`
	EndCardURL   string   `yaml:"end_card_url"`
	AudioPath    string   `yaml:"audio"`
	AudioSync    bool     `yaml:"audio_sync"`
	VideoEncoder string   `yaml:"encoder"` // empty: best available H.264 encoder
	Quality      int      `yaml:"quality"` // 0: encoder default
	CueSheet     string   `yaml:"cue_sheet"`
	DryRun       bool     `yaml:"dry_run"`
	Check        bool     `yaml:"check"`
	Detector     string   `yaml:"detector"` // layout check: "ink" (default) or "contrast"
	Debug        bool     `yaml:"debug"`
	ShowStats    bool     `yaml:"stats"`
	TUI          bool     `yaml:"tui"`
	Verbose      bool     `yaml:"verbose"`
	MQTT         MQTT     `yaml:"mqtt"`

	// Snapshot renders a single frame at SnapshotTime instead of a video.
	SnapshotTime   float64 `yaml:"snapshot_time"`
	SnapshotOutput string  `yaml:"snapshot_output"`

	// Tail extends the final pause of the last scene, in seconds. Set from
	// the audio length when AudioSync is on.
	Tail         float64 `yaml:"-"`
	BuildVersion string  `yaml:"-"`
}

// MQTT configures the optional progress publisher.
type MQTT struct {
	URL      string `yaml:"url"`
	ClientID string `yaml:"client_id"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Topic    string `yaml:"topic"`
}

type SegmentParams struct {
	Width, Height int
	FPS           int
	Frames        int
	Duration      float64
	Index         int
	Label         string
	Filter        string
}

// Default returns the configuration used when neither a file nor flags set
// a value.
func Default() *Config {
	return &Config{
		Scenes:       []string{"hello-triangle"},
		Width:        1280,
		Height:       720,
		FPS:          30,
		Workers:      runtime.NumCPU(),
		Background:   "#000000",
		FontsDir:     "assets/fonts",
		FontFallback: true,
		ThumbnailDPI: 72,
		MQTT: MQTT{
			ClientID: "scene2video",
			Topic:    "scene2video/progress",
		},
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyPreset overrides the frame size with a named aspect preset.
func (c *Config) ApplyPreset() error {
	switch c.Preset {
	case "":
	case "16:9":
		c.Width, c.Height = 1280, 720
	case "9:16":
		c.Width, c.Height = 720, 1280
	case "4:5":
		c.Width, c.Height = 1080, 1350
	default:
		return fmt.Errorf("unknown preset: %s", c.Preset)
	}
	return nil
}

// Validate checks values the pipeline cannot work around.
func (c *Config) Validate() error {
	if len(c.Scenes) == 0 {
		return fmt.Errorf("no scenes selected")
	}
	if c.Width <= 0 || c.Height <= 0 || c.Width%2 != 0 || c.Height%2 != 0 {
		return fmt.Errorf("frame size %dx%d must be positive and even", c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	return nil
}
