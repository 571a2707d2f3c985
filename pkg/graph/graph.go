// Package graph is the boundary between the editor engine and the host's diagram.
//
// The engine never owns nodes or edges. It reads them through Host and writes
// back through NodeEdit and EdgeEdit batches, which the host may validate or
// transform freely. Hosts expose their own node and edge types through the small
// Node and Edge capability interfaces.
package graph

import (
	"fmt"

	"flowcanvas/pkg/geom"
)

// Side is the edge of a node frame a port sits on.
type Side int

const (
	SideTop Side = iota
	SideRight
	SideBottom
	SideLeft
)

func (s Side) String() string {
	switch s {
	case SideTop:
		return "top"
	case SideRight:
		return "right"
	case SideBottom:
		return "bottom"
	case SideLeft:
		return "left"
	}
	return fmt.Sprintf("Side(%d)", int(s))
}

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(b []byte) error {
	for _, v := range []Side{SideTop, SideRight, SideBottom, SideLeft} {
		if v.String() == string(b) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("unknown port side %q", b)
}

// PortDirection says whether edges leave (Output) or enter (Input) a port.
type PortDirection int

const (
	PortOutput PortDirection = iota
	PortInput
)

// Opposite returns the direction a compatible peer port must have.
func (d PortDirection) Opposite() PortDirection {
	if d == PortInput {
		return PortOutput
	}
	return PortInput
}

func (d PortDirection) String() string {
	if d == PortInput {
		return "input"
	}
	return "output"
}

func (d PortDirection) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *PortDirection) UnmarshalText(b []byte) error {
	switch string(b) {
	case "input", "in":
		*d = PortInput
	case "output", "out":
		*d = PortOutput
	default:
		return fmt.Errorf("unknown port direction %q", b)
	}
	return nil
}

// Port is a connection point on a node. Offset is relative to the node's top-left corner.
type Port struct {
	ID        string        `json:"id" yaml:"id"`
	Side      Side          `json:"side" yaml:"side"`
	Direction PortDirection `json:"direction" yaml:"direction"`
	Offset    geom.Point    `json:"offset" yaml:"offset"`
}

// Node is the capability a host node type must provide.
type Node interface {
	ID() string
	Position() geom.Point
	Size() geom.Size
	ZIndex() int
	// ParentID is empty for top-level nodes.
	ParentID() string
	Ports() []Port
}

// Edge is the capability a host edge type must provide.
type Edge interface {
	ID() string
	SourceNodeID() string
	SourcePortID() string
	TargetNodeID() string
	TargetPortID() string
}

// Host is the edit-application boundary implemented by the embedding application.
type Host interface {
	Nodes() []Node
	Edges() []Edge
	ApplyNodeEdits(edits []NodeEdit)
	ApplyEdgeEdits(edits []EdgeEdit)
}

// Frame returns the canvas-space rect a node occupies.
func Frame(n Node) geom.Rect {
	return geom.Rect{Origin: n.Position(), Size: n.Size()}
}

// PortPosition returns the canvas-space location of port p on node n.
func PortPosition(n Node, p Port) geom.Point {
	return n.Position().Add(p.Offset)
}

// FindPort looks up a port on n by id.
func FindPort(n Node, portID string) (Port, bool) {
	for _, p := range n.Ports() {
		if p.ID == portID {
			return p, true
		}
	}
	return Port{}, false
}
