package graph

import "flowcanvas/pkg/geom"

type NodeEditKind int

const (
	NodeMove NodeEditKind = iota
	NodeResize
	NodeDelete
	NodeSetParent
	NodeSetZIndex
	// NodeInsert hands a node value back to the host: a restored deletion or a paste.
	NodeInsert
)

func (k NodeEditKind) String() string {
	switch k {
	case NodeMove:
		return "move"
	case NodeResize:
		return "resize"
	case NodeDelete:
		return "delete"
	case NodeSetParent:
		return "setParent"
	case NodeSetZIndex:
		return "setZIndex"
	case NodeInsert:
		return "insert"
	}
	return "unknown"
}

// NodeEdit is one change to one node. Only the fields relevant to Kind are set.
type NodeEdit struct {
	Kind     NodeEditKind
	ID       string
	Position geom.Point
	Size     geom.Size
	ParentID string
	ZIndex   int
	// Node carries the host value for NodeInsert.
	Node Node
	// Before names the node an inserted node goes in front of in host order.
	// Empty, or unknown to the host, appends.
	Before string
}

func MoveEdit(id string, p geom.Point) NodeEdit {
	return NodeEdit{Kind: NodeMove, ID: id, Position: p}
}

func ResizeEdit(id string, s geom.Size) NodeEdit {
	return NodeEdit{Kind: NodeResize, ID: id, Size: s}
}

func DeleteNodeEdit(id string) NodeEdit {
	return NodeEdit{Kind: NodeDelete, ID: id}
}

func SetParentEdit(id, parentID string) NodeEdit {
	return NodeEdit{Kind: NodeSetParent, ID: id, ParentID: parentID}
}

func SetZIndexEdit(id string, z int) NodeEdit {
	return NodeEdit{Kind: NodeSetZIndex, ID: id, ZIndex: z}
}

func InsertEdit(n Node) NodeEdit {
	return NodeEdit{Kind: NodeInsert, ID: n.ID(), Node: n}
}

type EdgeEditKind int

const (
	EdgeCreate EdgeEditKind = iota
	EdgeDelete
)

func (k EdgeEditKind) String() string {
	if k == EdgeDelete {
		return "delete"
	}
	return "create"
}

// EdgeEdit creates or deletes one edge.
type EdgeEdit struct {
	Kind         EdgeEditKind
	ID           string
	SourceNodeID string
	SourcePortID string
	TargetNodeID string
	TargetPortID string
	// Before names the edge a created edge goes in front of; empty appends.
	Before string
}

func CreateEdgeEdit(id, source, sourcePort, target, targetPort string) EdgeEdit {
	return EdgeEdit{
		Kind:         EdgeCreate,
		ID:           id,
		SourceNodeID: source,
		SourcePortID: sourcePort,
		TargetNodeID: target,
		TargetPortID: targetPort,
	}
}

func DeleteEdgeEdit(id string) EdgeEdit {
	return EdgeEdit{Kind: EdgeDelete, ID: id}
}
