// Package config loads the flowcanvas TOML config file and turns it into editor
// settings.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"flowcanvas/internal/logging"
	"flowcanvas/pkg/editor"
	"flowcanvas/pkg/geom"
	"flowcanvas/pkg/viewport"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds flowcanvas configuration.
type Config struct {
	History  HistoryConfig  `toml:"history"`
	Viewport ViewportConfig `toml:"viewport"`
	Drag     DragConfig     `toml:"drag"`
	Resize   ResizeConfig   `toml:"resize"`
	Connect  ConnectConfig  `toml:"connect"`
	AutoPan  AutoPanConfig  `toml:"autopan"`
	Files    FilesConfig    `toml:"files"`
	Log      LogConfig      `toml:"log"`
}

type HistoryConfig struct {
	MaxSize int `toml:"max_size"`
}

// ViewportConfig bounds zoom and controls the fit after mount.
type ViewportConfig struct {
	MinScale    float64  `toml:"min_scale"`
	MaxScale    float64  `toml:"max_scale"`
	SettleDelay Duration `toml:"settle_delay"`
	FitOnMount  bool     `toml:"fit_on_mount"`
	FitPadding  float64  `toml:"fit_padding"`
}

type DragConfig struct {
	Threshold  float64 `toml:"threshold"`
	SnapToGrid bool    `toml:"snap_to_grid"`
	GridSize   float64 `toml:"grid_size"`
}

type ResizeConfig struct {
	MinWidth  float64 `toml:"min_width"`
	MinHeight float64 `toml:"min_height"`
}

type ConnectConfig struct {
	CaptureRadius float64 `toml:"capture_radius"`
}

// AutoPanConfig tunes panning while a drag holds the pointer near an edge.
type AutoPanConfig struct {
	EdgeMargin float64  `toml:"edge_margin"`
	Speed      float64  `toml:"speed"`
	Interval   Duration `toml:"interval"`
}

// FilesConfig controls where documents are saved. An empty directory means the
// working directory.
type FilesConfig struct {
	SaveDirectory string `toml:"save_directory"`
}

type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// Duration is a time.Duration written as a string such as "50ms".
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns the default configuration.
func Default() *Config {
	s := editor.DefaultSettings()
	return &Config{
		History: HistoryConfig{MaxSize: s.MaxHistory},
		Viewport: ViewportConfig{
			MinScale:    s.MinScale,
			MaxScale:    s.MaxScale,
			SettleDelay: Duration{s.SettleDelay},
			FitOnMount:  s.FitOnMount,
			FitPadding:  s.FitPadding,
		},
		Drag:    DragConfig{Threshold: s.DragThreshold, SnapToGrid: s.Grid.Enabled, GridSize: s.Grid.Size},
		Resize:  ResizeConfig{MinWidth: s.MinNodeSize.Width, MinHeight: s.MinNodeSize.Height},
		Connect: ConnectConfig{CaptureRadius: s.CaptureRadius},
		AutoPan: AutoPanConfig{
			EdgeMargin: s.AutoPan.EdgeMargin,
			Speed:      s.AutoPan.Speed,
			Interval:   Duration{s.AutoPan.Interval},
		},
		Log: LogConfig{Level: "info"},
	}
}

// Dir returns the flowcanvas config directory path.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "flowcanvas")
}

// Path is the default config file location.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config at path, or at Path when path is empty. A missing file
// yields the defaults; keys absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path, or to Path when path is empty.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Validate rejects values the editor cannot work with.
func (c *Config) Validate() error {
	switch {
	case c.History.MaxSize < 0:
		return fmt.Errorf("%w: history.max_size must not be negative", ErrInvalid)
	case c.Viewport.MinScale <= 0:
		return fmt.Errorf("%w: viewport.min_scale must be positive", ErrInvalid)
	case c.Viewport.MaxScale < c.Viewport.MinScale:
		return fmt.Errorf("%w: viewport.max_scale below min_scale", ErrInvalid)
	case c.Drag.Threshold < 0 || c.Drag.GridSize < 0:
		return fmt.Errorf("%w: drag values must not be negative", ErrInvalid)
	case c.Resize.MinWidth < 0 || c.Resize.MinHeight < 0:
		return fmt.Errorf("%w: resize minimums must not be negative", ErrInvalid)
	case c.Connect.CaptureRadius < 0:
		return fmt.Errorf("%w: connect.capture_radius must not be negative", ErrInvalid)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Settings converts the config to editor settings.
func (c *Config) Settings() editor.Settings {
	return editor.Settings{
		MaxHistory:    c.History.MaxSize,
		MinScale:      c.Viewport.MinScale,
		MaxScale:      c.Viewport.MaxScale,
		DragThreshold: c.Drag.Threshold,
		Grid:          geom.SnapGrid{Size: c.Drag.GridSize, Enabled: c.Drag.SnapToGrid},
		MinNodeSize:   geom.Sz(c.Resize.MinWidth, c.Resize.MinHeight),
		CaptureRadius: c.Connect.CaptureRadius,
		AutoPan: viewport.AutoPanConfig{
			EdgeMargin: c.AutoPan.EdgeMargin,
			Speed:      c.AutoPan.Speed,
			Interval:   c.AutoPan.Interval.Duration,
		},
		SettleDelay: c.Viewport.SettleDelay.Duration,
		FitOnMount:  c.Viewport.FitOnMount,
		FitPadding:  c.Viewport.FitPadding,
	}
}

// EditorOptions returns the options that apply this config, with a logger at
// the configured level.
func (c *Config) EditorOptions() []editor.Option {
	return []editor.Option{
		editor.WithSettings(c.Settings()),
		editor.WithLogger(c.Logger()),
	}
}

// Logger builds a stderr logger at the configured level.
func (c *Config) Logger() *slog.Logger {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	return logging.New(level)
}

// SavePath resolves filename against the save directory, creating it. A
// leading ~ in the directory is the home directory.
func (c *Config) SavePath(filename string) string {
	dir := c.Files.SaveDirectory
	if dir == "" || filepath.IsAbs(filename) {
		return filename
	}
	if strings.HasPrefix(dir, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
		}
	}
	_ = os.MkdirAll(dir, 0o755)
	return filepath.Join(dir, filename)
}
