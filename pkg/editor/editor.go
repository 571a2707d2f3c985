// Package editor ties the engine together: one host graph, one viewport, one
// selection, the command executor with its history, and the pointer gestures
// that feed it. It is single-threaded; callers serialise every call.
package editor

import (
	"log/slog"

	"github.com/google/uuid"

	"flowcanvas/internal/logging"
	"flowcanvas/pkg/clipboard"
	"flowcanvas/pkg/command"
	"flowcanvas/pkg/geom"
	"flowcanvas/pkg/graph"
	"flowcanvas/pkg/history"
	"flowcanvas/pkg/interaction"
	"flowcanvas/pkg/metrics"
	"flowcanvas/pkg/minimap"
	"flowcanvas/pkg/selection"
	"flowcanvas/pkg/viewport"
)

type Editor struct {
	settings Settings
	logger   *slog.Logger
	metrics  *metrics.Recorder
	sched    viewport.Scheduler
	queue    *viewport.QueueScheduler
	newID    func() string
	board    clipboard.Board
	factory  clipboard.Factory
	lookup   graph.PortLookup

	host    graph.Host
	view    *viewport.Controller
	sel     *selection.State
	exec    *command.Executor
	history *history.Manager
	clip    *clipboard.Service
	settle  *viewport.Settle
	autoPan *viewport.AutoPan

	drag    interaction.Drag
	resize  interaction.Resize
	connect interaction.Connect
	marquee interaction.Marquee

	// dragScreen is the last screen pointer of the drag, re-projected on every
	// auto-pan tick.
	dragScreen  geom.Point
	dragPreview map[string]geom.Point
	settled     bool
}

// New builds an editor over host.
func New(host graph.Host, opts ...Option) *Editor {
	e := &Editor{
		settings: DefaultSettings(),
		newID:    uuid.NewString,
		host:     host,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	if e.sched == nil {
		e.queue = viewport.NewQueueScheduler(nil)
		e.sched = e.queue
	}
	if e.lookup == nil {
		e.lookup = graph.HostPortLookup(host)
	}
	s := e.settings

	e.view = viewport.New(s.ViewportSize, s.MinScale, s.MaxScale)
	e.sel = selection.New()
	e.exec = command.New(host,
		command.WithViewport(e.view),
		command.WithSelection(e.sel),
		command.WithLogger(e.logger),
		command.WithMetrics(e.metrics),
		command.WithMinNodeSize(s.MinNodeSize),
		command.WithIDGenerator(e.newID),
	)
	e.history = history.New(e.exec,
		history.WithMaxSize(s.MaxHistory),
		history.WithLogger(e.logger),
		history.WithMetrics(e.metrics),
	)
	if e.board != nil {
		copts := []clipboard.Option{clipboard.WithIDGenerator(e.newID), clipboard.WithLogger(e.logger)}
		if e.factory != nil {
			copts = append(copts, clipboard.WithFactory(e.factory))
		}
		e.clip = clipboard.New(e.board, host, e.sel, copts...)
	}

	e.drag.Threshold = s.DragThreshold
	e.drag.Grid = s.Grid
	e.resize.MinSize = s.MinNodeSize
	e.resize.Grid = s.Grid
	e.connect.CaptureRadius = s.CaptureRadius
	e.marquee.Sink = e.sel

	e.settle = viewport.NewSettle(e.sched)
	e.autoPan = viewport.NewAutoPan(e.view, e.sched, s.AutoPan, e.drag.Active, e.onAutoPan)
	e.exec.OnDelete(e.forgetDeleted)
	return e
}

func (e *Editor) Host() graph.Host                { return e.host }
func (e *Editor) Viewport() *viewport.Controller { return e.view }
func (e *Editor) Selection() *selection.State    { return e.sel }
func (e *Editor) History() *history.Manager      { return e.history }
func (e *Editor) Settings() Settings             { return e.settings }

// Project maps a screen point to canvas space.
func (e *Editor) Project(screen geom.Point) geom.Point {
	return e.view.Transform().ScreenToCanvas(screen)
}

// Unproject maps a canvas point to screen space.
func (e *Editor) Unproject(canvas geom.Point) geom.Point {
	return e.view.Transform().CanvasToScreen(canvas)
}

// read indexes the host for operations that need one attached.
func (e *Editor) read() (*graph.Index, error) {
	if e.host == nil {
		return nil, command.ErrNoHost
	}
	return graph.Read(e.host), nil
}

// Node returns the host's current state of node id. Without a host nothing is
// found.
func (e *Editor) Node(id string) (graph.NodeRecord, bool) {
	return graph.Read(e.host).Node(id)
}

func (e *Editor) Edge(id string) (graph.EdgeRecord, bool) {
	return graph.Read(e.host).Edge(id)
}

// Execute runs cmd without recording it.
func (e *Editor) Execute(cmd command.Command) command.Result {
	return e.history.Execute(cmd)
}

// Perform runs cmd and records it for undo when it is undoable. The clipboard
// family is routed to the attached clipboard.
func (e *Editor) Perform(cmd command.Command) command.Result {
	switch cmd.(type) {
	case command.Copy:
		return e.Copy()
	case command.Cut:
		return e.Cut()
	case command.Paste:
		return e.Paste(e.Project(e.view.Center()))
	case command.Duplicate:
		return e.Duplicate()
	}
	return e.history.Perform(cmd)
}

// Transaction runs cmds as one undo unit.
func (e *Editor) Transaction(name string, cmds ...command.Command) ([]command.Result, error) {
	return e.history.Transaction(name, cmds...)
}

func (e *Editor) Undo() error   { return e.history.Undo() }
func (e *Editor) Redo() error   { return e.history.Redo() }
func (e *Editor) CanUndo() bool { return e.history.CanUndo() }
func (e *Editor) CanRedo() bool { return e.history.CanRedo() }

// Minimap lays out an overview of every node and the visible rect.
func (e *Editor) Minimap(size geom.Size, padding float64) *minimap.Projector {
	content, _ := graph.Read(e.host).Bounds()
	return minimap.New(content, e.view.VisibleRect(), size, padding)
}

// NavigateMinimap centres the viewport on the canvas point under a minimap click.
func (e *Editor) NavigateMinimap(p *minimap.Projector, mini geom.Point) command.Result {
	return e.Execute(command.PanToCenter{Point: p.NavigateTo(mini)})
}

// forgetDeleted drops gestures that refer to removed nodes.
func (e *Editor) forgetDeleted(nodeIDs, _ []string) {
	gone := make(map[string]bool, len(nodeIDs))
	for _, id := range nodeIDs {
		gone[id] = true
	}
	if st, ok := e.resize.State(); ok && gone[st.NodeID] {
		e.CancelResize()
	}
	if st, ok := e.connect.State(); ok && gone[st.SourceNodeID] {
		e.CancelConnect()
	}
	if st, ok := e.drag.State(); ok {
		for _, id := range st.DraggedNodeIDs {
			if gone[id] {
				e.CancelDrag()
				break
			}
		}
	}
}
