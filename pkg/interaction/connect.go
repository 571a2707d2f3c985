package interaction

import (
	"flowcanvas/pkg/geom"
	"flowcanvas/pkg/graph"
)

// ConnectionState is the in-flight state of an edge being drawn from a port.
type ConnectionState struct {
	SourceNodeID         string
	SourcePortID         string
	SourcePosition       geom.Point
	SourcePortSide       graph.Side
	CurrentPointer       geom.Point
	CandidateNodeID      string
	CandidatePortID      string
	IsValidCandidate     bool
	StartedFromInputPort bool
}

// ReleaseAction is what a ReleaseHook wants done with a gesture released without
// a valid candidate.
type ReleaseAction int

const (
	ReleaseCancel ReleaseAction = iota
	ReleaseKeepPreviewing
	ReleaseComplete
)

// ReleaseDecision is returned by a ReleaseHook. Target is used with ReleaseComplete.
type ReleaseDecision struct {
	Action ReleaseAction
	Target graph.PortCandidate
}

// ReleaseHook lets the host decide what happens when a connection is dropped
// away from any compatible port.
type ReleaseHook func(st ConnectionState) ReleaseDecision

// EdgeRequest is a resolved connection, already oriented output to input.
type EdgeRequest struct {
	SourceNodeID string
	SourcePortID string
	TargetNodeID string
	TargetPortID string
}

// ConnectOutcome says how End resolved.
type ConnectOutcome int

const (
	ConnectNone ConnectOutcome = iota
	ConnectCreated
	ConnectCancelled
	ConnectPreviewing
)

// Connect owns at most one connection gesture.
type Connect struct {
	CaptureRadius float64
	OnRelease     ReleaseHook

	state *ConnectionState
}

// Start begins a connection from port on node sourceID located at portPos.
func (c *Connect) Start(sourceID string, port graph.Port, portPos, pointer geom.Point) error {
	if c.state != nil {
		return ErrGestureActive
	}
	c.state = &ConnectionState{
		SourceNodeID:         sourceID,
		SourcePortID:         port.ID,
		SourcePosition:       portPos,
		SourcePortSide:       port.Side,
		CurrentPointer:       pointer,
		StartedFromInputPort: port.Direction == graph.PortInput,
	}
	return nil
}

func (c *Connect) Active() bool {
	return c.state != nil
}

func (c *Connect) State() (ConnectionState, bool) {
	if c.state == nil {
		return ConnectionState{}, false
	}
	return *c.state, true
}

func (c *Connect) startDirection() graph.PortDirection {
	if c.state.StartedFromInputPort {
		return graph.PortInput
	}
	return graph.PortOutput
}

// Update moves the pointer and refreshes the candidate port via lookup.
func (c *Connect) Update(pointer geom.Point, lookup graph.PortLookup) (ConnectionState, error) {
	if c.state == nil {
		return ConnectionState{}, ErrNoGesture
	}
	st := c.state
	st.CurrentPointer = pointer
	st.CandidateNodeID, st.CandidatePortID, st.IsValidCandidate = "", "", false
	if lookup != nil {
		cand, ok := lookup(pointer, graph.PortQuery{
			ExcludeNodeID: st.SourceNodeID,
			Direction:     c.startDirection().Opposite(),
			Radius:        c.CaptureRadius,
		})
		if ok {
			st.CandidateNodeID, st.CandidatePortID, st.IsValidCandidate = cand.NodeID, cand.PortID, true
		}
	}
	return *st, nil
}

func (c *Connect) request(targetNode, targetPort string) EdgeRequest {
	st := c.state
	if st.StartedFromInputPort {
		return EdgeRequest{
			SourceNodeID: targetNode,
			SourcePortID: targetPort,
			TargetNodeID: st.SourceNodeID,
			TargetPortID: st.SourcePortID,
		}
	}
	return EdgeRequest{
		SourceNodeID: st.SourceNodeID,
		SourcePortID: st.SourcePortID,
		TargetNodeID: targetNode,
		TargetPortID: targetPort,
	}
}

// End releases the pointer. With a valid candidate the gesture resolves to an
// edge. Otherwise OnRelease decides; without a hook the gesture is cancelled.
func (c *Connect) End() (EdgeRequest, ConnectOutcome) {
	if c.state == nil {
		return EdgeRequest{}, ConnectNone
	}
	st := c.state
	if st.IsValidCandidate {
		req := c.request(st.CandidateNodeID, st.CandidatePortID)
		c.state = nil
		return req, ConnectCreated
	}

	decision := ReleaseDecision{Action: ReleaseCancel}
	if c.OnRelease != nil {
		decision = c.OnRelease(*st)
	}
	switch decision.Action {
	case ReleaseKeepPreviewing:
		return EdgeRequest{}, ConnectPreviewing
	case ReleaseComplete:
		if decision.Target.NodeID != "" && decision.Target.NodeID != st.SourceNodeID {
			req := c.request(decision.Target.NodeID, decision.Target.PortID)
			c.state = nil
			return req, ConnectCreated
		}
	}
	c.state = nil
	return EdgeRequest{}, ConnectCancelled
}

// Cancel discards the gesture without producing an edge.
func (c *Connect) Cancel() bool {
	active := c.state != nil
	c.state = nil
	return active
}
