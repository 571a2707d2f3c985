// Package interaction holds the gesture state machines: drag, resize, connect and
// marquee. Each owner holds at most one in-flight gesture; starting a second one
// while the first is active is rejected with ErrGestureActive rather than
// overwriting it. Gestures never touch the graph; they produce results that the
// caller turns into commands.
package interaction

import (
	"errors"
	"slices"

	"flowcanvas/pkg/geom"
)

var (
	// ErrGestureActive is returned when a gesture is started while another of the same kind is in flight.
	ErrGestureActive = errors.New("gesture already active")
	// ErrNoGesture is returned when updating a gesture that was never started.
	ErrNoGesture = errors.New("no active gesture")
	// ErrEmptyGesture is returned when a gesture is started with nothing to act on.
	ErrEmptyGesture = errors.New("gesture has no targets")
)

// DragState is the in-flight state of a node drag. All points are in canvas space.
type DragState struct {
	DraggedNodeIDs         []string
	StartPositionByNode    map[string]geom.Point
	GrabOffsetByNode       map[string]geom.Point
	CursorOffsetSinceStart geom.Point
	HasPassedThreshold     bool

	pointerStart geom.Point
}

// DragResult is what a finished drag hands back.
type DragResult struct {
	NodeIDs   []string
	Positions map[string]geom.Point
	// Delta is the aggregate (possibly snapped) offset applied to every node.
	Delta geom.Point
	// Moved is false when the pointer never left the threshold: a click.
	Moved bool
}

// Drag owns at most one node drag.
type Drag struct {
	// Threshold is the distance the pointer must travel before movement counts.
	Threshold float64
	Grid      geom.SnapGrid

	state *DragState
}

// Start begins a drag of the nodes in positions, grabbed with the pointer at
// pointer (canvas space).
func (d *Drag) Start(positions map[string]geom.Point, pointer geom.Point) error {
	if d.state != nil {
		return ErrGestureActive
	}
	if len(positions) == 0 {
		return ErrEmptyGesture
	}
	st := &DragState{
		StartPositionByNode: make(map[string]geom.Point, len(positions)),
		GrabOffsetByNode:    make(map[string]geom.Point, len(positions)),
		pointerStart:        pointer,
	}
	for id, p := range positions {
		st.DraggedNodeIDs = append(st.DraggedNodeIDs, id)
		st.StartPositionByNode[id] = p
		st.GrabOffsetByNode[id] = p.Sub(pointer)
	}
	slices.Sort(st.DraggedNodeIDs)
	d.state = st
	return nil
}

func (d *Drag) Active() bool {
	return d.state != nil
}

// State returns a copy of the in-flight state.
func (d *Drag) State() (DragState, bool) {
	if d.state == nil {
		return DragState{}, false
	}
	return *d.state, true
}

// Update moves the pointer and returns the tentative node positions.
func (d *Drag) Update(pointer geom.Point) (map[string]geom.Point, error) {
	if d.state == nil {
		return nil, ErrNoGesture
	}
	st := d.state
	st.CursorOffsetSinceStart = pointer.Sub(st.pointerStart)
	if !st.HasPassedThreshold && st.CursorOffsetSinceStart.Len() > d.Threshold {
		st.HasPassedThreshold = true
	}
	return d.positions(pointer), nil
}

func (d *Drag) delta() geom.Point {
	st := d.state
	if !st.HasPassedThreshold {
		return geom.Point{}
	}
	return d.Grid.Snap(st.CursorOffsetSinceStart)
}

func (d *Drag) positions(pointer geom.Point) map[string]geom.Point {
	st := d.state
	out := make(map[string]geom.Point, len(st.DraggedNodeIDs))
	for _, id := range st.DraggedNodeIDs {
		switch {
		case !st.HasPassedThreshold:
			out[id] = st.StartPositionByNode[id]
		case d.Grid.Enabled:
			// snap the group offset once so the nodes keep their relative layout
			out[id] = st.StartPositionByNode[id].Add(d.delta())
		default:
			out[id] = pointer.Add(st.GrabOffsetByNode[id])
		}
	}
	return out
}

// End finishes the drag and always clears the state.
func (d *Drag) End() (DragResult, bool) {
	if d.state == nil {
		return DragResult{}, false
	}
	st := d.state
	pointer := st.pointerStart.Add(st.CursorOffsetSinceStart)
	res := DragResult{
		NodeIDs:   st.DraggedNodeIDs,
		Positions: d.positions(pointer),
		Delta:     d.delta(),
		Moved:     st.HasPassedThreshold,
	}
	d.state = nil
	return res, true
}

// Cancel discards the drag and reports whether one was active.
func (d *Drag) Cancel() bool {
	active := d.state != nil
	d.state = nil
	return active
}
