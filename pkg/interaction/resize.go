package interaction

import "flowcanvas/pkg/geom"

// ResizeState is the in-flight state of a node resize, in canvas space.
type ResizeState struct {
	NodeID           string
	OriginalSize     geom.Size
	OriginalPosition geom.Point
	Anchor           geom.Anchor
	StartPointer     geom.Point
	CurrentPointer   geom.Point
}

// ResizeResult is what a finished resize hands back.
type ResizeResult struct {
	NodeID string
	Anchor geom.Anchor
	Size   geom.Size
	Frame  geom.Rect
	// Changed is false when the size ended where it started.
	Changed bool
}

// Resize owns at most one node resize.
type Resize struct {
	MinSize geom.Size
	Grid    geom.SnapGrid

	state *ResizeState
}

// Start begins resizing the node whose current frame is frame, pinned at anchor.
func (r *Resize) Start(nodeID string, frame geom.Rect, anchor geom.Anchor, pointer geom.Point) error {
	if r.state != nil {
		return ErrGestureActive
	}
	r.state = &ResizeState{
		NodeID:           nodeID,
		OriginalSize:     frame.Size,
		OriginalPosition: frame.Origin,
		Anchor:           anchor,
		StartPointer:     pointer,
		CurrentPointer:   pointer,
	}
	return nil
}

func (r *Resize) Active() bool {
	return r.state != nil
}

func (r *Resize) State() (ResizeState, bool) {
	if r.state == nil {
		return ResizeState{}, false
	}
	return *r.state, true
}

// Update moves the pointer and returns the preview frame. Nothing is applied.
func (r *Resize) Update(pointer geom.Point) (geom.Rect, error) {
	if r.state == nil {
		return geom.Rect{}, ErrNoGesture
	}
	r.state.CurrentPointer = pointer
	return r.frame(), nil
}

// Preview returns the frame the node would have if the gesture ended now.
func (r *Resize) Preview() (geom.Rect, bool) {
	if r.state == nil {
		return geom.Rect{}, false
	}
	return r.frame(), true
}

func (r *Resize) size() geom.Size {
	st := r.state
	delta := st.CurrentPointer.Sub(st.StartPointer)
	size := r.Grid.SnapSize(st.OriginalSize.Add(st.Anchor.SignedDelta(delta)))
	// the floor goes last so overshoot can never shrink below it
	return size.Max(r.MinSize)
}

func (r *Resize) frame() geom.Rect {
	st := r.state
	original := geom.Rect{Origin: st.OriginalPosition, Size: st.OriginalSize}
	return st.Anchor.Resize(original, r.size())
}

// End finishes the resize and clears the state.
func (r *Resize) End() (ResizeResult, bool) {
	if r.state == nil {
		return ResizeResult{}, false
	}
	st := r.state
	frame := r.frame()
	res := ResizeResult{
		NodeID:  st.NodeID,
		Anchor:  st.Anchor,
		Size:    frame.Size,
		Frame:   frame,
		Changed: frame.Size != st.OriginalSize,
	}
	r.state = nil
	return res, true
}

// Cancel discards the resize without producing a result.
func (r *Resize) Cancel() bool {
	active := r.state != nil
	r.state = nil
	return active
}
