package graph

import (
	"slices"

	"flowcanvas/pkg/geom"
)

// NodeRecord is a value snapshot of a host node. It satisfies Node itself, so
// heterogeneous host nodes can be handled as one type; Value keeps the host's
// original node for hand-back through NodeInsert.
type NodeRecord struct {
	NodeID   string     `json:"id" yaml:"id"`
	Pos      geom.Point `json:"position" yaml:"position"`
	Dim      geom.Size  `json:"size" yaml:"size"`
	Z        int        `json:"z_index" yaml:"z_index"`
	Parent   string     `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	PortList []Port     `json:"ports,omitempty" yaml:"ports,omitempty"`
	Value    Node       `json:"-" yaml:"-"`
}

// RecordNode captures n. Records are passed through unchanged.
func RecordNode(n Node) NodeRecord {
	if r, ok := n.(NodeRecord); ok {
		return r
	}
	return NodeRecord{
		NodeID:   n.ID(),
		Pos:      n.Position(),
		Dim:      n.Size(),
		Z:        n.ZIndex(),
		Parent:   n.ParentID(),
		PortList: slices.Clone(n.Ports()),
		Value:    n,
	}
}

func (r NodeRecord) ID() string           { return r.NodeID }
func (r NodeRecord) Position() geom.Point { return r.Pos }
func (r NodeRecord) Size() geom.Size      { return r.Dim }
func (r NodeRecord) ZIndex() int          { return r.Z }
func (r NodeRecord) ParentID() string     { return r.Parent }
func (r NodeRecord) Ports() []Port        { return r.PortList }

// Frame returns the node's canvas-space rect.
func (r NodeRecord) Frame() geom.Rect {
	return geom.Rect{Origin: r.Pos, Size: r.Dim}
}

// Original returns the host value the record was taken from, or the record
// itself when it was built by hand.
func (r NodeRecord) Original() Node {
	if r.Value != nil {
		return r.Value
	}
	return r
}

// EdgeRecord is a value snapshot of a host edge.
type EdgeRecord struct {
	EdgeID     string `json:"id" yaml:"id"`
	Source     string `json:"source" yaml:"source"`
	SourcePort string `json:"source_port,omitempty" yaml:"source_port,omitempty"`
	Target     string `json:"target" yaml:"target"`
	TargetPort string `json:"target_port,omitempty" yaml:"target_port,omitempty"`
}

func RecordEdge(e Edge) EdgeRecord {
	if r, ok := e.(EdgeRecord); ok {
		return r
	}
	return EdgeRecord{
		EdgeID:     e.ID(),
		Source:     e.SourceNodeID(),
		SourcePort: e.SourcePortID(),
		Target:     e.TargetNodeID(),
		TargetPort: e.TargetPortID(),
	}
}

func (r EdgeRecord) ID() string           { return r.EdgeID }
func (r EdgeRecord) SourceNodeID() string { return r.Source }
func (r EdgeRecord) SourcePortID() string { return r.SourcePort }
func (r EdgeRecord) TargetNodeID() string { return r.Target }
func (r EdgeRecord) TargetPortID() string { return r.TargetPort }

// Touches reports whether the edge starts or ends at nodeID.
func (r EdgeRecord) Touches(nodeID string) bool {
	return r.Source == nodeID || r.Target == nodeID
}

// CreateEdit returns the edit that re-creates this edge with the same id.
func (r EdgeRecord) CreateEdit() EdgeEdit {
	return CreateEdgeEdit(r.EdgeID, r.Source, r.SourcePort, r.Target, r.TargetPort)
}

// Index is a read-only id lookup over one read of a host.
type Index struct {
	Nodes     []NodeRecord
	Edges     []EdgeRecord
	nodesByID map[string]int
	edgesByID map[string]int
}

// Read captures the host's current nodes and edges. A nil host reads as empty.
func Read(h Host) *Index {
	var (
		nodes []Node
		edges []Edge
	)
	if h != nil {
		nodes = h.Nodes()
		edges = h.Edges()
	}
	idx := &Index{
		Nodes:     make([]NodeRecord, 0, len(nodes)),
		Edges:     make([]EdgeRecord, 0, len(edges)),
		nodesByID: make(map[string]int, len(nodes)),
		edgesByID: make(map[string]int, len(edges)),
	}
	for _, n := range nodes {
		idx.nodesByID[n.ID()] = len(idx.Nodes)
		idx.Nodes = append(idx.Nodes, RecordNode(n))
	}
	for _, e := range edges {
		idx.edgesByID[e.ID()] = len(idx.Edges)
		idx.Edges = append(idx.Edges, RecordEdge(e))
	}
	return idx
}

func (idx *Index) Node(id string) (NodeRecord, bool) {
	i, ok := idx.nodesByID[id]
	if !ok {
		return NodeRecord{}, false
	}
	return idx.Nodes[i], true
}

func (idx *Index) Edge(id string) (EdgeRecord, bool) {
	i, ok := idx.edgesByID[id]
	if !ok {
		return EdgeRecord{}, false
	}
	return idx.Edges[i], true
}

// MissingNodes returns the ids not present in the index, in input order.
func (idx *Index) MissingNodes(ids []string) []string {
	var missing []string
	for _, id := range ids {
		if _, ok := idx.nodesByID[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// MissingEdges returns the edge ids not present in the index, in input order.
func (idx *Index) MissingEdges(ids []string) []string {
	var missing []string
	for _, id := range ids {
		if _, ok := idx.edgesByID[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// EdgesTouching returns every edge attached to any of the given nodes.
func (idx *Index) EdgesTouching(nodeIDs []string) []EdgeRecord {
	set := make(map[string]struct{}, len(nodeIDs))
	for _, id := range nodeIDs {
		set[id] = struct{}{}
	}
	var out []EdgeRecord
	for _, e := range idx.Edges {
		_, src := set[e.Source]
		_, dst := set[e.Target]
		if src || dst {
			out = append(out, e)
		}
	}
	return out
}

// Children returns the ids of nodes whose parent is id.
func (idx *Index) Children(id string) []string {
	var out []string
	for _, n := range idx.Nodes {
		if n.Parent == id {
			out = append(out, n.NodeID)
		}
	}
	return out
}

// Bounds returns the union of the frames of the given nodes, or of all nodes when
// ids is empty.
func (idx *Index) Bounds(ids ...string) (geom.Rect, bool) {
	var rects []geom.Rect
	if len(ids) == 0 {
		for _, n := range idx.Nodes {
			rects = append(rects, n.Frame())
		}
	} else {
		for _, id := range ids {
			if n, ok := idx.Node(id); ok {
				rects = append(rects, n.Frame())
			}
		}
	}
	return geom.Bounds(rects)
}
