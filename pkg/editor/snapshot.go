package editor

import (
	"cmp"
	"slices"

	"flowcanvas/pkg/geom"
	"flowcanvas/pkg/graph"
)

// NodeView is a node as it should be drawn right now, gesture previews included.
type NodeView struct {
	ID       string     `json:"id" yaml:"id"`
	Frame    geom.Rect  `json:"frame" yaml:"frame"`
	Z        int        `json:"z" yaml:"z"`
	ParentID string     `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	Label    string     `json:"label,omitempty" yaml:"label,omitempty"`
	Ports    []PortView `json:"ports,omitempty" yaml:"ports,omitempty"`
	Selected bool       `json:"selected,omitempty" yaml:"selected,omitempty"`
	Preview  bool       `json:"preview,omitempty" yaml:"preview,omitempty"`
}

type PortView struct {
	ID        string              `json:"id" yaml:"id"`
	Direction graph.PortDirection `json:"direction" yaml:"direction"`
	Position  geom.Point          `json:"position" yaml:"position"`
}

// EdgeView is an edge with its endpoints resolved to canvas points.
type EdgeView struct {
	ID         string     `json:"id" yaml:"id"`
	Source     string     `json:"source" yaml:"source"`
	SourcePort string     `json:"source_port" yaml:"source_port"`
	Target     string     `json:"target" yaml:"target"`
	TargetPort string     `json:"target_port" yaml:"target_port"`
	From       geom.Point `json:"from" yaml:"from"`
	To         geom.Point `json:"to" yaml:"to"`
	Selected   bool       `json:"selected,omitempty" yaml:"selected,omitempty"`
}

// ConnectionView is the loose edge of an in-flight connection.
type ConnectionView struct {
	From            geom.Point `json:"from" yaml:"from"`
	To              geom.Point `json:"to" yaml:"to"`
	CandidateNodeID string     `json:"candidate_node_id,omitempty" yaml:"candidate_node_id,omitempty"`
	CandidatePortID string     `json:"candidate_port_id,omitempty" yaml:"candidate_port_id,omitempty"`
	Valid           bool       `json:"valid" yaml:"valid"`
}

// Snapshot is everything a renderer needs for one frame. Nodes are in paint
// order: ascending z, host order among equals.
type Snapshot struct {
	Transform  geom.Transform  `json:"transform" yaml:"transform"`
	Viewport   geom.Size       `json:"viewport" yaml:"viewport"`
	Nodes      []NodeView      `json:"nodes" yaml:"nodes"`
	Edges      []EdgeView      `json:"edges" yaml:"edges"`
	BoxRect    *geom.Rect      `json:"box_rect,omitempty" yaml:"box_rect,omitempty"`
	Connection *ConnectionView `json:"connection,omitempty" yaml:"connection,omitempty"`
	CanUndo    bool            `json:"can_undo" yaml:"can_undo"`
	CanRedo    bool            `json:"can_redo" yaml:"can_redo"`
}

// Snapshot reads the host and overlays the in-flight drag and resize previews.
func (e *Editor) Snapshot() Snapshot {
	idx := graph.Read(e.host)
	s := Snapshot{
		Transform: e.view.Transform(),
		Viewport:  e.view.Size(),
		CanUndo:   e.history.CanUndo(),
		CanRedo:   e.history.CanRedo(),
	}

	resizing, hasResize := e.resize.State()
	resizeFrame, _ := e.resize.Preview()

	placed := make(map[string]graph.NodeRecord, len(idx.Nodes))
	for _, rec := range idx.Nodes {
		v := NodeView{
			ID:       rec.NodeID,
			Frame:    rec.Frame(),
			Z:        rec.Z,
			ParentID: rec.Parent,
			Selected: e.sel.HasNode(rec.NodeID),
		}
		if p, ok := e.dragPreview[rec.NodeID]; ok && e.drag.Active() {
			v.Frame.Origin = p
			v.Preview = true
		}
		if hasResize && resizing.NodeID == rec.NodeID {
			v.Frame = resizeFrame
			v.Preview = true
		}
		if l, ok := rec.Original().(graph.Labeled); ok {
			v.Label = l.GetText()
		}
		rec.Pos, rec.Dim = v.Frame.Origin, v.Frame.Size
		for _, port := range rec.PortList {
			v.Ports = append(v.Ports, PortView{ID: port.ID, Direction: port.Direction, Position: graph.PortPosition(rec, port)})
		}
		placed[rec.NodeID] = rec
		s.Nodes = append(s.Nodes, v)
	}
	slices.SortStableFunc(s.Nodes, func(a, b NodeView) int { return cmp.Compare(a.Z, b.Z) })

	for _, ed := range idx.Edges {
		v := EdgeView{
			ID:         ed.EdgeID,
			Source:     ed.Source,
			SourcePort: ed.SourcePort,
			Target:     ed.Target,
			TargetPort: ed.TargetPort,
			Selected:   e.sel.HasEdge(ed.EdgeID),
		}
		v.From = portPoint(placed, ed.Source, ed.SourcePort)
		v.To = portPoint(placed, ed.Target, ed.TargetPort)
		s.Edges = append(s.Edges, v)
	}

	if r, ok := e.sel.BoxRect(); ok {
		s.BoxRect = &r
	}
	if st, ok := e.connect.State(); ok {
		s.Connection = &ConnectionView{
			From:            st.SourcePosition,
			To:              st.CurrentPointer,
			CandidateNodeID: st.CandidateNodeID,
			CandidatePortID: st.CandidatePortID,
			Valid:           st.IsValidCandidate,
		}
		if st.IsValidCandidate {
			s.Connection.To = portPoint(placed, st.CandidateNodeID, st.CandidatePortID)
		}
	}
	return s
}

// portPoint falls back to the node centre when the port is unknown.
func portPoint(nodes map[string]graph.NodeRecord, nodeID, portID string) geom.Point {
	rec, ok := nodes[nodeID]
	if !ok {
		return geom.Point{}
	}
	if port, ok := graph.FindPort(rec, portID); ok {
		return graph.PortPosition(rec, port)
	}
	return rec.Frame().Center()
}

// NodeAt returns the topmost node under a screen point.
func (e *Editor) NodeAt(screen geom.Point) (NodeView, bool) {
	p := e.Project(screen)
	nodes := e.Snapshot().Nodes
	for i := len(nodes) - 1; i >= 0; i-- {
		if nodes[i].Frame.Contains(p) {
			return nodes[i], true
		}
	}
	return NodeView{}, false
}

// PortAt returns the port within the capture radius of a screen point.
func (e *Editor) PortAt(screen geom.Point) (graph.PortCandidate, bool) {
	p := e.Project(screen)
	best := graph.PortCandidate{}
	found := false
	for _, dir := range []graph.PortDirection{graph.PortOutput, graph.PortInput} {
		c, ok := e.lookup(p, graph.PortQuery{Direction: dir, Radius: e.settings.CaptureRadius})
		if ok && (!found || c.Distance < best.Distance) {
			best, found = c, true
		}
	}
	return best, found
}
