package interaction

import (
	"flowcanvas/pkg/geom"
	"flowcanvas/pkg/graph"
)

// BoxRectSink receives the marquee rect while a box selection is in flight.
// *selection.State implements it.
type BoxRectSink interface {
	SetBoxRect(r geom.Rect)
	ClearBoxRect()
}

// MarqueeResult is what a finished box selection hands back.
type MarqueeResult struct {
	NodeIDs  []string
	Rect     geom.Rect
	Additive bool
}

type marqueeState struct {
	start    geom.Point
	current  geom.Point
	additive bool
}

// Marquee owns at most one box selection, in canvas space.
type Marquee struct {
	Sink BoxRectSink

	state *marqueeState
}

func (m *Marquee) Start(pointer geom.Point, additive bool) error {
	if m.state != nil {
		return ErrGestureActive
	}
	m.state = &marqueeState{start: pointer, current: pointer, additive: additive}
	m.publish()
	return nil
}

func (m *Marquee) Active() bool {
	return m.state != nil
}

func (m *Marquee) rect() geom.Rect {
	return geom.RectFromPoints(m.state.start, m.state.current)
}

func (m *Marquee) publish() {
	if m.Sink != nil {
		m.Sink.SetBoxRect(m.rect())
	}
}

func (m *Marquee) Update(pointer geom.Point) (geom.Rect, error) {
	if m.state == nil {
		return geom.Rect{}, ErrNoGesture
	}
	m.state.current = pointer
	m.publish()
	return m.rect(), nil
}

// End returns the nodes whose frames intersect the rect and clears the rect.
func (m *Marquee) End(nodes []graph.Node) (MarqueeResult, bool) {
	if m.state == nil {
		return MarqueeResult{}, false
	}
	res := MarqueeResult{Rect: m.rect(), Additive: m.state.additive}
	for _, n := range nodes {
		if graph.Frame(n).Intersects(res.Rect) {
			res.NodeIDs = append(res.NodeIDs, n.ID())
		}
	}
	m.Cancel()
	return res, true
}

func (m *Marquee) Cancel() bool {
	active := m.state != nil
	m.state = nil
	if m.Sink != nil {
		m.Sink.ClearBoxRect()
	}
	return active
}
