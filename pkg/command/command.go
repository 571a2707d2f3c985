// Package command defines the closed vocabulary of canvas operations and the
// executor that applies them through the graph boundary, the viewport and the
// selection. Every mutating branch derives its inverse from the state it read
// before writing, so undo restores values rather than re-applying deltas.
package command

import (
	"flowcanvas/pkg/geom"
	"flowcanvas/pkg/graph"
)

// Command is one operation. The set of implementations is closed: only this
// package can add one.
type Command interface {
	Name() string
	command()
}

// Viewport commands. Anchors are screen-space points.

type SetTransform struct {
	Transform geom.Transform `yaml:"transform"`
}

type ZoomTo struct {
	Scale  float64    `yaml:"scale"`
	Anchor geom.Point `yaml:"anchor"`
}

type ZoomBy struct {
	Factor float64    `yaml:"factor"`
	Anchor geom.Point `yaml:"anchor"`
}

type Pan struct {
	Delta geom.Point `yaml:"delta"`
}

// PanToCenter brings a canvas point to the centre of the viewport.
type PanToCenter struct {
	Point geom.Point `yaml:"point"`
}

// FitView fits every node into the viewport.
type FitView struct {
	Padding float64 `yaml:"padding"`
}

type FitNodes struct {
	IDs     []string `yaml:"ids"`
	Padding float64  `yaml:"padding"`
}

type ResetView struct{}

// Selection commands.

type Select struct {
	NodeIDs  []string `yaml:"node_ids"`
	EdgeIDs  []string `yaml:"edge_ids"`
	Additive bool     `yaml:"additive"`
}

type SelectAll struct{}

type ClearSelection struct{}

type ToggleNodeSelection struct {
	ID string `yaml:"id"`
}

type ToggleEdgeSelection struct {
	ID string `yaml:"id"`
}

// Node commands. Points and sizes are canvas-space.

type MoveNodes struct {
	IDs   []string   `yaml:"ids"`
	Delta geom.Point `yaml:"delta"`
	// positions, when set, places each node exactly instead of adding Delta.
	positions map[string]geom.Point
}

type MoveNodeTo struct {
	ID       string     `yaml:"id"`
	Position geom.Point `yaml:"position"`
}

// ResizeNode sets a node's size, keeping Anchor fixed.
type ResizeNode struct {
	ID     string      `yaml:"id"`
	Size   geom.Size   `yaml:"size"`
	Anchor geom.Anchor `yaml:"anchor"`
	// restore is set on inverses: the exact origin to put back, with no floor.
	restore *geom.Point
}

type ResizeNodeByScale struct {
	ID     string      `yaml:"id"`
	Factor float64     `yaml:"factor"`
	Anchor geom.Anchor `yaml:"anchor"`
}

// ResizeNodeToWidth changes only the width.
type ResizeNodeToWidth struct {
	ID     string      `yaml:"id"`
	Width  float64     `yaml:"width"`
	Anchor geom.Anchor `yaml:"anchor"`
}

// DeleteNodes removes nodes together with every edge attached to them.
type DeleteNodes struct {
	IDs []string `yaml:"ids"`
	// edges lists further edges to remove; inverses of inserts use it.
	edges []string
}

// SetNodeParent reparents a node; an empty ParentID detaches it.
type SetNodeParent struct {
	ID       string `yaml:"id"`
	ParentID string `yaml:"parent_id"`
}

type SetNodeZIndex struct {
	ID string `yaml:"id"`
	Z  int    `yaml:"z"`
}

// SetNodeZIndices assigns several z indices at once.
type SetNodeZIndices struct {
	Z map[string]int `yaml:"z"`
}

type BringToFront struct {
	IDs []string `yaml:"ids"`
}

type SendToBack struct {
	IDs []string `yaml:"ids"`
}

// InsertNodes hands nodes (in the host's own type) and edges to the host. It
// undoes DeleteNodes and carries pasted content.
type InsertNodes struct {
	Nodes []graph.Node
	Edges []graph.EdgeRecord
	// nodeOrder and edgeOrder map an id to the one it was in front of before
	// a delete; inverses of deletes use them to restore host order.
	nodeOrder map[string]string
	edgeOrder map[string]string
}

// Edge commands.

// CreateEdge connects two ports. An empty ID is filled with a generated one.
type CreateEdge struct {
	ID           string `yaml:"id"`
	SourceNodeID string `yaml:"source_node_id"`
	SourcePortID string `yaml:"source_port_id"`
	TargetNodeID string `yaml:"target_node_id"`
	TargetPortID string `yaml:"target_port_id"`
}

type DeleteEdges struct {
	IDs []string `yaml:"ids"`
}

// Compound commands. The clipboard family is a no-op here; a clipboard service
// turns it into InsertNodes and DeleteSelection.

type DeleteSelection struct{}

type Duplicate struct{}

type Copy struct{}

type Cut struct{}

type Paste struct{}

func (SetTransform) Name() string        { return "SetTransform" }
func (ZoomTo) Name() string              { return "ZoomTo" }
func (ZoomBy) Name() string              { return "ZoomBy" }
func (Pan) Name() string                 { return "Pan" }
func (PanToCenter) Name() string         { return "PanToCenter" }
func (FitView) Name() string             { return "FitView" }
func (FitNodes) Name() string            { return "FitNodes" }
func (ResetView) Name() string           { return "ResetView" }
func (Select) Name() string              { return "Select" }
func (SelectAll) Name() string           { return "SelectAll" }
func (ClearSelection) Name() string      { return "ClearSelection" }
func (ToggleNodeSelection) Name() string { return "ToggleNodeSelection" }
func (ToggleEdgeSelection) Name() string { return "ToggleEdgeSelection" }
func (MoveNodes) Name() string           { return "MoveNodes" }
func (MoveNodeTo) Name() string          { return "MoveNodeTo" }
func (ResizeNode) Name() string          { return "ResizeNode" }
func (ResizeNodeByScale) Name() string   { return "ResizeNodeByScale" }
func (ResizeNodeToWidth) Name() string   { return "ResizeNodeToWidth" }
func (DeleteNodes) Name() string         { return "DeleteNodes" }
func (SetNodeParent) Name() string       { return "SetNodeParent" }
func (SetNodeZIndex) Name() string       { return "SetNodeZIndex" }
func (SetNodeZIndices) Name() string     { return "SetNodeZIndices" }
func (BringToFront) Name() string        { return "BringToFront" }
func (SendToBack) Name() string          { return "SendToBack" }
func (InsertNodes) Name() string         { return "InsertNodes" }
func (CreateEdge) Name() string          { return "CreateEdge" }
func (DeleteEdges) Name() string         { return "DeleteEdges" }
func (DeleteSelection) Name() string     { return "DeleteSelection" }
func (Duplicate) Name() string           { return "Duplicate" }
func (Copy) Name() string                { return "Copy" }
func (Cut) Name() string                 { return "Cut" }
func (Paste) Name() string               { return "Paste" }

func (SetTransform) command()        {}
func (ZoomTo) command()              {}
func (ZoomBy) command()              {}
func (Pan) command()                 {}
func (PanToCenter) command()         {}
func (FitView) command()             {}
func (FitNodes) command()            {}
func (ResetView) command()           {}
func (Select) command()              {}
func (SelectAll) command()           {}
func (ClearSelection) command()      {}
func (ToggleNodeSelection) command() {}
func (ToggleEdgeSelection) command() {}
func (MoveNodes) command()           {}
func (MoveNodeTo) command()          {}
func (ResizeNode) command()          {}
func (ResizeNodeByScale) command()   {}
func (ResizeNodeToWidth) command()   {}
func (DeleteNodes) command()         {}
func (SetNodeParent) command()       {}
func (SetNodeZIndex) command()       {}
func (SetNodeZIndices) command()     {}
func (BringToFront) command()        {}
func (SendToBack) command()          {}
func (InsertNodes) command()         {}
func (CreateEdge) command()          {}
func (DeleteEdges) command()         {}
func (DeleteSelection) command()     {}
func (Duplicate) command()           {}
func (Copy) command()                {}
func (Cut) command()                 {}
func (Paste) command()               {}

// Undoable reports whether history records cmd. Viewport changes, whole-set
// selection changes and the clipboard family are not recorded.
func Undoable(cmd Command) bool {
	switch cmd.(type) {
	case SetTransform, ZoomTo, ZoomBy, Pan, PanToCenter, FitView, FitNodes, ResetView:
		return false
	case SelectAll, ClearSelection:
		return false
	case Duplicate, Copy, Cut, Paste:
		return false
	case nil:
		return false
	}
	return true
}

// IsViewport reports whether cmd only changes the transform.
func IsViewport(cmd Command) bool {
	switch cmd.(type) {
	case SetTransform, ZoomTo, ZoomBy, Pan, PanToCenter, FitView, FitNodes, ResetView:
		return true
	}
	return false
}
