package editor

import (
	"fmt"
	"maps"

	"flowcanvas/pkg/command"
	"flowcanvas/pkg/geom"
	"flowcanvas/pkg/graph"
	"flowcanvas/pkg/interaction"
	"flowcanvas/pkg/metrics"
)

// Gesture kinds reported to metrics.
const (
	GestureDrag    = "drag"
	GestureResize  = "resize"
	GestureConnect = "connect"
	GestureMarquee = "marquee"
)

// All gesture entry points take screen-space pointers and project them through
// the current transform, so a pan between two updates is accounted for.

// BeginDrag starts moving ids, or the selected nodes when ids is empty.
func (e *Editor) BeginDrag(ids []string, screen geom.Point) error {
	if len(ids) == 0 {
		ids = e.sel.NodeIDs()
	}
	idx, err := e.read()
	if err != nil {
		return err
	}
	positions := make(map[string]geom.Point, len(ids))
	for _, id := range ids {
		rec, ok := idx.Node(id)
		if !ok {
			return fmt.Errorf("drag %q: %w", id, command.ErrNodeNotFound)
		}
		positions[id] = rec.Pos
	}
	if err := e.drag.Start(positions, e.Project(screen)); err != nil {
		return err
	}
	e.dragScreen = screen
	e.dragPreview = maps.Clone(positions)
	return nil
}

// UpdateDrag moves the drag pointer and returns the preview positions. Nothing
// is applied to the host until EndDrag.
func (e *Editor) UpdateDrag(screen geom.Point) (map[string]geom.Point, error) {
	pos, err := e.drag.Update(e.Project(screen))
	if err != nil {
		return nil, err
	}
	e.dragScreen = screen
	e.dragPreview = pos
	e.autoPan.Track(screen)
	return pos, nil
}

// onAutoPan re-projects the unchanged screen pointer after the view moved under it.
func (e *Editor) onAutoPan(geom.Point) {
	if !e.drag.Active() {
		return
	}
	if pos, err := e.drag.Update(e.Project(e.dragScreen)); err == nil {
		e.dragPreview = pos
	}
}

// EndDrag commits the drag as one undoable MoveNodes. A drag that never passed
// the threshold is a click and changes nothing.
func (e *Editor) EndDrag() (command.Result, bool) {
	e.autoPan.Stop()
	e.dragPreview = nil
	res, ok := e.drag.End()
	if !ok {
		return command.Result{}, false
	}
	if !res.Moved || res.Delta == (geom.Point{}) {
		e.metrics.Gesture(GestureDrag, metrics.OutcomeCancelled)
		return command.Result{Success: true, NoOp: true}, true
	}
	out := e.history.Perform(command.MoveNodes{IDs: res.NodeIDs, Delta: res.Delta})
	e.gestureOutcome(GestureDrag, out)
	return out, true
}

func (e *Editor) CancelDrag() bool {
	e.autoPan.Stop()
	e.dragPreview = nil
	if !e.drag.Cancel() {
		return false
	}
	e.metrics.Gesture(GestureDrag, metrics.OutcomeCancelled)
	return true
}

// BeginResize starts resizing id with anchor held fixed.
func (e *Editor) BeginResize(id string, anchor geom.Anchor, screen geom.Point) error {
	idx, err := e.read()
	if err != nil {
		return err
	}
	rec, ok := idx.Node(id)
	if !ok {
		return fmt.Errorf("resize %q: %w", id, command.ErrNodeNotFound)
	}
	return e.resize.Start(id, rec.Frame(), anchor, e.Project(screen))
}

// UpdateResize returns the preview frame for the pointer.
func (e *Editor) UpdateResize(screen geom.Point) (geom.Rect, error) {
	return e.resize.Update(e.Project(screen))
}

// EndResize commits the preview size as one undoable ResizeNode.
func (e *Editor) EndResize() (command.Result, bool) {
	res, ok := e.resize.End()
	if !ok {
		return command.Result{}, false
	}
	if !res.Changed {
		e.metrics.Gesture(GestureResize, metrics.OutcomeCancelled)
		return command.Result{Success: true, NoOp: true}, true
	}
	out := e.history.Perform(command.ResizeNode{ID: res.NodeID, Size: res.Size, Anchor: res.Anchor})
	e.gestureOutcome(GestureResize, out)
	return out, true
}

// CancelResize drops the preview; the node was never touched.
func (e *Editor) CancelResize() bool {
	if !e.resize.Cancel() {
		return false
	}
	e.metrics.Gesture(GestureResize, metrics.OutcomeCancelled)
	return true
}

// BeginConnect starts drawing an edge from portID on nodeID.
func (e *Editor) BeginConnect(nodeID, portID string, screen geom.Point) error {
	idx, err := e.read()
	if err != nil {
		return err
	}
	rec, ok := idx.Node(nodeID)
	if !ok {
		return fmt.Errorf("connect from %q: %w", nodeID, command.ErrNodeNotFound)
	}
	port, ok := graph.FindPort(rec, portID)
	if !ok {
		return fmt.Errorf("connect from %s.%s: %w", nodeID, portID, command.ErrInvalidCommand)
	}
	return e.connect.Start(nodeID, port, graph.PortPosition(rec, port), e.Project(screen))
}

// UpdateConnect moves the loose end and refreshes the candidate port.
func (e *Editor) UpdateConnect(screen geom.Point) (interaction.ConnectionState, error) {
	return e.connect.Update(e.Project(screen), e.lookup)
}

// EndConnect resolves the gesture. A created connection is performed as an
// undoable CreateEdge; a previewing one stays in flight.
func (e *Editor) EndConnect() (command.Result, interaction.ConnectOutcome) {
	req, outcome := e.connect.End()
	switch outcome {
	case interaction.ConnectCreated:
		out := e.history.Perform(command.CreateEdge{
			SourceNodeID: req.SourceNodeID,
			SourcePortID: req.SourcePortID,
			TargetNodeID: req.TargetNodeID,
			TargetPortID: req.TargetPortID,
		})
		e.gestureOutcome(GestureConnect, out)
		return out, outcome
	case interaction.ConnectCancelled:
		e.metrics.Gesture(GestureConnect, metrics.OutcomeCancelled)
	}
	return command.Result{}, outcome
}

func (e *Editor) CancelConnect() bool {
	if !e.connect.Cancel() {
		return false
	}
	e.metrics.Gesture(GestureConnect, metrics.OutcomeCancelled)
	return true
}

// BeginMarquee starts a box selection. Additive keeps the current selection.
func (e *Editor) BeginMarquee(screen geom.Point, additive bool) error {
	if e.host == nil {
		return command.ErrNoHost
	}
	return e.marquee.Start(e.Project(screen), additive)
}

func (e *Editor) UpdateMarquee(screen geom.Point) (geom.Rect, error) {
	return e.marquee.Update(e.Project(screen))
}

// EndMarquee selects every node the box touches.
func (e *Editor) EndMarquee() (command.Result, bool) {
	var nodes []graph.Node
	if e.host != nil {
		nodes = e.host.Nodes()
	}
	res, ok := e.marquee.End(nodes)
	if !ok {
		return command.Result{}, false
	}
	out := e.history.Perform(command.Select{NodeIDs: res.NodeIDs, Additive: res.Additive})
	e.gestureOutcome(GestureMarquee, out)
	return out, true
}

func (e *Editor) CancelMarquee() bool {
	if !e.marquee.Cancel() {
		return false
	}
	e.metrics.Gesture(GestureMarquee, metrics.OutcomeCancelled)
	return true
}

// CancelGestures drops every in-flight gesture.
func (e *Editor) CancelGestures() {
	e.CancelDrag()
	e.CancelResize()
	e.CancelConnect()
	e.CancelMarquee()
}

// Busy reports whether any gesture is in flight.
func (e *Editor) Busy() bool {
	return e.drag.Active() || e.resize.Active() || e.connect.Active() || e.marquee.Active()
}

func (e *Editor) gestureOutcome(kind string, res command.Result) {
	if res.Success {
		e.metrics.Gesture(kind, metrics.OutcomeCommitted)
		return
	}
	e.metrics.Gesture(kind, metrics.OutcomeRejected)
}
