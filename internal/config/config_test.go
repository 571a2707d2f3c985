package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowcanvas/internal/config"
	"flowcanvas/pkg/editor"
	"flowcanvas/pkg/geom"
)

func TestDefaultMatchesEditorDefaults(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 100, cfg.History.MaxSize)
	assert.Equal(t, 50*time.Millisecond, cfg.Viewport.SettleDelay.Duration)
	assert.Equal(t, 16*time.Millisecond, cfg.AutoPan.Interval.Duration)
	assert.Equal(t, editor.DefaultSettings(), cfg.Settings())
}

func TestDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/test-xdg")
	assert.Equal(t, "/tmp/test-xdg/flowcanvas", config.Dir())
	assert.Equal(t, "/tmp/test-xdg/flowcanvas/config.toml", config.Path())

	t.Setenv("XDG_CONFIG_HOME", "")
	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, ".config", "flowcanvas"), config.Dir())
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := config.Default()
	cfg.History.MaxSize = 25
	cfg.Drag.SnapToGrid = true
	cfg.Viewport.SettleDelay.Duration = 200 * time.Millisecond
	require.NoError(t, config.Save(cfg, ""))

	data, err := os.ReadFile(config.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), `settle_delay = "200ms"`)

	loaded, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	s := loaded.Settings()
	assert.Equal(t, 25, s.MaxHistory)
	assert.Equal(t, geom.SnapGrid{Size: 10, Enabled: true}, s.Grid)
}

func TestLoad(t *testing.T) {
	write := func(t *testing.T, body string) string {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		return path
	}

	t.Run("missing file gives defaults", func(t *testing.T) {
		cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
		require.NoError(t, err)
		assert.Equal(t, config.Default(), cfg)
	})

	t.Run("partial file keeps other defaults", func(t *testing.T) {
		cfg, err := config.Load(write(t, "[resize]\nmin_width = 40\n\n[log]\nlevel = \"debug\"\n"))
		require.NoError(t, err)
		assert.Equal(t, geom.Sz(40, 20), cfg.Settings().MinNodeSize)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, 100, cfg.History.MaxSize)
	})

	tests := []struct {
		name string
		body string
	}{
		{"syntax", "[history\n"},
		{"bad duration", "[viewport]\nsettle_delay = \"soon\"\n"},
		{"scale order", "[viewport]\nmin_scale = 2.0\nmax_scale = 1.0\n"},
		{"negative radius", "[connect]\ncapture_radius = -1.0\n"},
		{"log level", "[log]\nlevel = \"loud\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(write(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestSavePath(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, "doc.yaml", cfg.SavePath("doc.yaml"))

	dir := filepath.Join(t.TempDir(), "diagrams")
	cfg.Files.SaveDirectory = dir
	assert.Equal(t, filepath.Join(dir, "doc.yaml"), cfg.SavePath("doc.yaml"))
	assert.DirExists(t, dir)
	assert.Equal(t, "/abs/doc.yaml", cfg.SavePath("/abs/doc.yaml"))
}

func TestEditorOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Connect.CaptureRadius = 5
	e := editor.New(nil, cfg.EditorOptions()...)
	assert.Equal(t, 5.0, e.Settings().CaptureRadius)
}
