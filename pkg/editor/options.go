package editor

import (
	"log/slog"
	"time"

	"flowcanvas/pkg/clipboard"
	"flowcanvas/pkg/geom"
	"flowcanvas/pkg/graph"
	"flowcanvas/pkg/history"
	"flowcanvas/pkg/interaction"
	"flowcanvas/pkg/metrics"
	"flowcanvas/pkg/viewport"
)

// Settings are the tunables an Editor is built with. Defaults match the
// shipped config file.
type Settings struct {
	MaxHistory    int
	MinScale      float64
	MaxScale      float64
	ViewportSize  geom.Size
	DragThreshold float64
	Grid          geom.SnapGrid
	MinNodeSize   geom.Size
	CaptureRadius float64
	AutoPan       viewport.AutoPanConfig
	SettleDelay   time.Duration
	FitOnMount    bool
	FitPadding    float64
}

func DefaultSettings() Settings {
	return Settings{
		MaxHistory:    history.DefaultMaxSize,
		MinScale:      viewport.DefaultMinScale,
		MaxScale:      viewport.DefaultMaxScale,
		DragThreshold: 3,
		Grid:          geom.SnapGrid{Size: 10},
		MinNodeSize:   geom.Sz(20, 20),
		CaptureRadius: 20,
		AutoPan:       viewport.DefaultAutoPanConfig(),
		SettleDelay:   50 * time.Millisecond,
		FitOnMount:    true,
		FitPadding:    20,
	}
}

// Option configures an Editor.
type Option func(*Editor)

// WithSettings replaces all tunables at once.
func WithSettings(s Settings) Option {
	return func(e *Editor) {
		e.settings = s
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		e.logger = logger
	}
}

func WithMetrics(r *metrics.Recorder) Option {
	return func(e *Editor) {
		e.metrics = r
	}
}

// WithScheduler routes the settle and auto-pan timers. Hosts with an event loop
// pass a scheduler that posts callbacks back onto it. Without one the timers
// queue until the host calls RunPending.
func WithScheduler(s viewport.Scheduler) Option {
	return func(e *Editor) {
		e.sched = s
	}
}

// WithClipboard attaches a clipboard so Copy, Cut, Paste and Duplicate do
// something. A nil factory means graph.Box nodes.
func WithClipboard(board clipboard.Board, factory clipboard.Factory) Option {
	return func(e *Editor) {
		e.board = board
		e.factory = factory
	}
}

// WithPortLookup replaces the nearest-port search used while connecting.
func WithPortLookup(fn graph.PortLookup) Option {
	return func(e *Editor) {
		e.lookup = fn
	}
}

// WithReleaseHook decides what happens to a connection dropped away from a port.
func WithReleaseHook(fn interaction.ReleaseHook) Option {
	return func(e *Editor) {
		e.connect.OnRelease = fn
	}
}

// WithIDGenerator replaces the UUID generator for new edges and pasted nodes.
func WithIDGenerator(fn func() string) Option {
	return func(e *Editor) {
		e.newID = fn
	}
}
