package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, 4096.0, cfg.Engine.MaxSpacing)
	assert.Equal(t, time.Duration(0), cfg.Engine.FinalizeDelay)
	assert.Equal(t, 800, cfg.Render.Width)
	assert.Equal(t, 600, cfg.Render.Height)
	assert.True(t, cfg.Render.Labels)
	require.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowframe.yaml")
	content := `
logger:
  level: debug
  format: json
engine:
  max_spacing: 512
  finalize_delay: 20ms
render:
  width: 320
  labels: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Equal(t, 512.0, cfg.Engine.MaxSpacing)
	assert.Equal(t, 20*time.Millisecond, cfg.Engine.FinalizeDelay)
	assert.Equal(t, 320, cfg.Render.Width)
	assert.Equal(t, 600, cfg.Render.Height, "unset keys keep their defaults")
	assert.False(t, cfg.Render.Labels)

	opts := cfg.EngineOptions()
	assert.Equal(t, 512.0, opts.Layout.MaxSpacing)
	assert.Equal(t, 20*time.Millisecond, opts.FinalizeDelay)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("FLOWFRAME_LOGGER_LEVEL", "warn")
	t.Setenv("FLOWFRAME_RENDER_HEIGHT", "240")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logger.Level)
	assert.Equal(t, 240, cfg.Render.Height)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown format", func(c *Config) { c.Logger.Format = "xml" }},
		{"zero spacing", func(c *Config) { c.Engine.MaxSpacing = 0 }},
		{"negative delay", func(c *Config) { c.Engine.FinalizeDelay = -time.Second }},
		{"zero width", func(c *Config) { c.Render.Width = 0 }},
		{"negative height", func(c *Config) { c.Render.Height = -1 }},
		{"zero scale", func(c *Config) { c.Render.Scale = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestRenderOptions(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Render.Width = 320
	cfg.Render.Labels = false
	cfg.Render.FontPath = "/fonts/mono.ttf"

	opts := cfg.RenderOptions()
	assert.Equal(t, 320, opts.Width)
	assert.Equal(t, 600, opts.Height)
	assert.False(t, opts.Labels)
	assert.Equal(t, "/fonts/mono.ttf", opts.FontPath)
	assert.Equal(t, 11.0, opts.FontSize)
}

func TestReadFile_Empty(t *testing.T) {
	v := NewViper()
	require.NoError(t, ReadFile(v, ""))
	require.Error(t, ReadFile(v, filepath.Join(t.TempDir(), "missing.yaml")))
}
