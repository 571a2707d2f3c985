package command

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"flowcanvas/internal/logging"
	"flowcanvas/pkg/geom"
	"flowcanvas/pkg/graph"
	"flowcanvas/pkg/metrics"
	"flowcanvas/pkg/selection"
	"flowcanvas/pkg/viewport"
)

// DefaultMinNodeSize is the resize floor when none is configured.
var DefaultMinNodeSize = geom.Sz(20, 20)

// Executor applies commands. It owns no graph state: nodes and edges live in the
// host and are only changed through Host.ApplyNodeEdits/ApplyEdgeEdits.
type Executor struct {
	host     graph.Host
	view     *viewport.Controller
	sel      *selection.State
	logger   *slog.Logger
	metrics  *metrics.Recorder
	minSize  geom.Size
	newID    func() string
	onDelete []func(nodeIDs, edgeIDs []string)
}

// Option configures an Executor.
type Option func(*Executor)

func WithViewport(v *viewport.Controller) Option {
	return func(e *Executor) {
		e.view = v
	}
}

func WithSelection(s *selection.State) Option {
	return func(e *Executor) {
		e.sel = s
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

func WithMetrics(r *metrics.Recorder) Option {
	return func(e *Executor) {
		e.metrics = r
	}
}

// WithMinNodeSize sets the floor applied to every resize.
func WithMinNodeSize(s geom.Size) Option {
	return func(e *Executor) {
		e.minSize = s
	}
}

// WithIDGenerator replaces the UUID generator used for new edges.
func WithIDGenerator(fn func() string) Option {
	return func(e *Executor) {
		e.newID = fn
	}
}

// New returns an executor over host, which may be nil for a viewport-only
// executor.
func New(host graph.Host, opts ...Option) *Executor {
	e := &Executor{
		host:    host,
		minSize: DefaultMinNodeSize,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	return e
}

func (e *Executor) Host() graph.Host               { return e.host }
func (e *Executor) Viewport() *viewport.Controller { return e.view }
func (e *Executor) Selection() *selection.State    { return e.sel }
func (e *Executor) MinNodeSize() geom.Size         { return e.minSize }

// OnDelete registers fn to run after nodes or edges are removed.
func (e *Executor) OnDelete(fn func(nodeIDs, edgeIDs []string)) {
	e.onDelete = append(e.onDelete, fn)
}

// Execute runs cmd and reports the outcome. It never panics on bad input.
func (e *Executor) Execute(cmd Command) Result {
	if cmd == nil {
		return failed(fmt.Errorf("nil command: %w", ErrInvalidCommand))
	}
	res := e.dispatch(cmd)
	if res.Success && !res.NoOp && res.Replay == nil {
		res.Replay = cmd
	}
	e.metrics.Command(cmd.Name(), res.Outcome())
	if res.Err != nil {
		e.logger.Warn("command failed", "command", cmd.Name(), "error", res.Err)
	} else {
		e.logger.Debug("command executed",
			"command", cmd.Name(),
			"outcome", res.Outcome(),
			"nodes", len(res.AffectedNodeIDs),
			"edges", len(res.AffectedEdgeIDs),
		)
	}
	return res
}

func (e *Executor) dispatch(cmd Command) Result {
	switch c := cmd.(type) {
	case SetTransform:
		return e.viewportChange(func(v *viewport.Controller) { v.SetTransform(c.Transform) })
	case ZoomTo:
		return e.viewportChange(func(v *viewport.Controller) { v.ZoomTo(c.Scale, c.Anchor) })
	case ZoomBy:
		return e.viewportChange(func(v *viewport.Controller) { v.ZoomBy(c.Factor, c.Anchor) })
	case Pan:
		return e.viewportChange(func(v *viewport.Controller) { v.Pan(c.Delta) })
	case PanToCenter:
		return e.viewportChange(func(v *viewport.Controller) { v.PanToCenter(c.Point) })
	case ResetView:
		return e.viewportChange(func(v *viewport.Controller) { v.Reset() })
	case FitView:
		return e.fit(nil, c.Padding)
	case FitNodes:
		if len(c.IDs) == 0 {
			return failed(fmt.Errorf("fit nodes: empty id list: %w", ErrInvalidCommand))
		}
		return e.fit(c.IDs, c.Padding)

	case Select:
		return e.selectIDs(c)
	case SelectAll:
		return e.selectAll()
	case ClearSelection:
		return e.clearSelection()
	case ToggleNodeSelection:
		return e.toggleNode(c.ID)
	case ToggleEdgeSelection:
		return e.toggleEdge(c.ID)

	case MoveNodes:
		return e.moveNodes(c)
	case MoveNodeTo:
		return e.moveNodeTo(c)
	case ResizeNode:
		return e.resize(c)
	case ResizeNodeByScale:
		return e.resizeByScale(c)
	case ResizeNodeToWidth:
		return e.resizeToWidth(c)
	case DeleteNodes:
		if len(c.IDs) == 0 && len(c.edges) == 0 {
			return failed(fmt.Errorf("delete nodes: empty id list: %w", ErrInvalidCommand))
		}
		return e.remove(c.IDs, c.edges)
	case SetNodeParent:
		return e.setParent(c)
	case SetNodeZIndex:
		return e.setZ(map[string]int{c.ID: c.Z}, func(prev map[string]int) Command {
			return SetNodeZIndex{ID: c.ID, Z: prev[c.ID]}
		})
	case SetNodeZIndices:
		return e.setZ(c.Z, func(prev map[string]int) Command { return SetNodeZIndices{Z: prev} })
	case BringToFront:
		return e.restack(c.IDs, true)
	case SendToBack:
		return e.restack(c.IDs, false)
	case InsertNodes:
		return e.insert(c)

	case CreateEdge:
		return e.createEdge(c)
	case DeleteEdges:
		if len(c.IDs) == 0 {
			return failed(fmt.Errorf("delete edges: empty id list: %w", ErrInvalidCommand))
		}
		return e.remove(nil, c.IDs)

	case DeleteSelection:
		return e.deleteSelection()
	case Duplicate, Copy, Cut, Paste:
		return noOp()
	}
	return failed(fmt.Errorf("unknown command %s: %w", cmd.Name(), ErrInvalidCommand))
}

// read returns a fresh index of the host, or ErrNoHost.
func (e *Executor) read() (*graph.Index, error) {
	if e.host == nil {
		return nil, ErrNoHost
	}
	return graph.Read(e.host), nil
}

func (e *Executor) deleted(nodeIDs, edgeIDs []string) {
	if e.sel != nil {
		e.sel.Remove(nodeIDs, edgeIDs)
	}
	for _, fn := range e.onDelete {
		fn(nodeIDs, edgeIDs)
	}
}

func nodeNotFound(op string, ids []string) error {
	return fmt.Errorf("%s %q: %w", op, ids, ErrNodeNotFound)
}

func edgeNotFound(op string, ids []string) error {
	return fmt.Errorf("%s %q: %w", op, ids, ErrEdgeNotFound)
}
