package graph

import (
	"slices"
	"strings"

	"flowcanvas/pkg/geom"
)

const (
	minBoxWidth  = 1
	minBoxHeight = 1
)

// Box is the node type of the in-memory Canvas host.
type Box struct {
	BoxID  string
	X      float64
	Y      float64
	Width  float64
	Height float64
	Z      int
	Parent string
	Lines  []string
	// PortList overrides the default left-input/right-output ports when set.
	PortList []Port
}

func (b Box) ID() string           { return b.BoxID }
func (b Box) Position() geom.Point { return geom.Pt(b.X, b.Y) }
func (b Box) Size() geom.Size      { return geom.Sz(b.Width, b.Height) }
func (b Box) ZIndex() int          { return b.Z }
func (b Box) ParentID() string     { return b.Parent }

// Ports returns the box's ports. Without overrides a box has an "in" port centred
// on its left edge and an "out" port centred on its right edge.
func (b Box) Ports() []Port {
	if b.PortList != nil {
		return b.PortList
	}
	return []Port{
		{ID: "in", Side: SideLeft, Direction: PortInput, Offset: geom.Pt(0, b.Height/2)},
		{ID: "out", Side: SideRight, Direction: PortOutput, Offset: geom.Pt(b.Width, b.Height/2)},
	}
}

// Labeled is implemented by nodes that carry a text label.
type Labeled interface {
	GetText() string
}

func (b Box) GetText() string {
	return strings.Join(b.Lines, "\n")
}

func (b *Box) SetText(text string) {
	b.Lines = strings.Split(text, "\n")
}

// Connection is the edge type of the in-memory Canvas host.
type Connection struct {
	ConnID   string
	FromID   string
	FromPort string
	ToID     string
	ToPort   string
}

func (c Connection) ID() string           { return c.ConnID }
func (c Connection) SourceNodeID() string { return c.FromID }
func (c Connection) SourcePortID() string { return c.FromPort }
func (c Connection) TargetNodeID() string { return c.ToID }
func (c Connection) TargetPortID() string { return c.ToPort }

// Canvas is an in-memory Host. Edits that name unknown ids are ignored, and
// deleting a box removes the connections attached to it.
type Canvas struct {
	boxes       []Box
	connections []Connection
}

func NewCanvas() *Canvas {
	return &Canvas{
		boxes:       make([]Box, 0),
		connections: make([]Connection, 0),
	}
}

// AddBox appends a box. An existing box with the same id is replaced.
func (c *Canvas) AddBox(b Box) {
	if i := c.boxIndex(b.BoxID); i >= 0 {
		c.boxes[i] = b
		return
	}
	c.boxes = append(c.boxes, b)
}

// AddConnection appends a connection if both endpoints exist and the id is unused.
func (c *Canvas) AddConnection(conn Connection) bool {
	if !c.connectable(conn) {
		return false
	}
	c.connections = append(c.connections, conn)
	return true
}

func (c *Canvas) connectable(conn Connection) bool {
	return c.connIndex(conn.ConnID) < 0 && c.boxIndex(conn.FromID) >= 0 && c.boxIndex(conn.ToID) >= 0
}

func (c *Canvas) Box(id string) (Box, bool) {
	if i := c.boxIndex(id); i >= 0 {
		return c.boxes[i], true
	}
	return Box{}, false
}

func (c *Canvas) Connection(id string) (Connection, bool) {
	if i := c.connIndex(id); i >= 0 {
		return c.connections[i], true
	}
	return Connection{}, false
}

// Boxes returns a copy of the boxes in insertion order.
func (c *Canvas) Boxes() []Box {
	out := make([]Box, len(c.boxes))
	copy(out, c.boxes)
	return out
}

// Connections returns a copy of the connections in insertion order.
func (c *Canvas) Connections() []Connection {
	out := make([]Connection, len(c.connections))
	copy(out, c.connections)
	return out
}

// SetBoxText replaces a box's label.
func (c *Canvas) SetBoxText(id, text string) {
	if i := c.boxIndex(id); i >= 0 {
		c.boxes[i].SetText(text)
	}
}

// GetBoxAt returns the id of the top-most box containing p, or "".
func (c *Canvas) GetBoxAt(p geom.Point) string {
	found := ""
	bestZ := 0
	for _, b := range c.boxes {
		if !Frame(b).Contains(p) {
			continue
		}
		if found == "" || b.Z >= bestZ {
			found, bestZ = b.BoxID, b.Z
		}
	}
	return found
}

func (c *Canvas) Nodes() []Node {
	out := make([]Node, len(c.boxes))
	for i, b := range c.boxes {
		out[i] = b
	}
	return out
}

func (c *Canvas) Edges() []Edge {
	out := make([]Edge, len(c.connections))
	for i, conn := range c.connections {
		out[i] = conn
	}
	return out
}

func (c *Canvas) ApplyNodeEdits(edits []NodeEdit) {
	for _, e := range edits {
		if e.Kind == NodeInsert {
			c.insert(e.Node, e.Before)
			continue
		}
		i := c.boxIndex(e.ID)
		if i < 0 {
			continue
		}
		box := &c.boxes[i]
		switch e.Kind {
		case NodeMove:
			box.X, box.Y = e.Position.X, e.Position.Y
		case NodeResize:
			box.Width = max(e.Size.Width, minBoxWidth)
			box.Height = max(e.Size.Height, minBoxHeight)
		case NodeSetParent:
			box.Parent = e.ParentID
		case NodeSetZIndex:
			box.Z = e.ZIndex
		case NodeDelete:
			c.deleteBox(i)
		}
	}
}

func (c *Canvas) ApplyEdgeEdits(edits []EdgeEdit) {
	for _, e := range edits {
		switch e.Kind {
		case EdgeCreate:
			conn := Connection{
				ConnID:   e.ID,
				FromID:   e.SourceNodeID,
				FromPort: e.SourcePortID,
				ToID:     e.TargetNodeID,
				ToPort:   e.TargetPortID,
			}
			if !c.connectable(conn) {
				continue
			}
			if j := c.connIndex(e.Before); j >= 0 {
				c.connections = slices.Insert(c.connections, j, conn)
			} else {
				c.connections = append(c.connections, conn)
			}
		case EdgeDelete:
			if i := c.connIndex(e.ID); i >= 0 {
				c.connections = append(c.connections[:i], c.connections[i+1:]...)
			}
		}
	}
}

func (c *Canvas) insert(n Node, before string) {
	if n == nil {
		return
	}
	if r, ok := n.(NodeRecord); ok && r.Value != nil {
		n = r.Value
	}
	box, ok := n.(Box)
	if !ok {
		box = Box{
			BoxID:    n.ID(),
			X:        n.Position().X,
			Y:        n.Position().Y,
			Width:    n.Size().Width,
			Height:   n.Size().Height,
			Z:        n.ZIndex(),
			Parent:   n.ParentID(),
			PortList: n.Ports(),
		}
	}
	if c.boxIndex(box.BoxID) < 0 {
		if j := c.boxIndex(before); j >= 0 {
			c.boxes = slices.Insert(c.boxes, j, box)
			return
		}
	}
	c.AddBox(box)
}

func (c *Canvas) deleteBox(i int) {
	id := c.boxes[i].BoxID
	c.boxes = append(c.boxes[:i], c.boxes[i+1:]...)

	kept := make([]Connection, 0, len(c.connections))
	for _, conn := range c.connections {
		if conn.FromID != id && conn.ToID != id {
			kept = append(kept, conn)
		}
	}
	c.connections = kept
}

func (c *Canvas) boxIndex(id string) int {
	for i := range c.boxes {
		if c.boxes[i].BoxID == id {
			return i
		}
	}
	return -1
}

func (c *Canvas) connIndex(id string) int {
	for i := range c.connections {
		if c.connections[i].ConnID == id {
			return i
		}
	}
	return -1
}
