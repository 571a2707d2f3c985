package command

import (
	"cmp"
	"fmt"
	"maps"
	"math"
	"slices"

	"flowcanvas/pkg/geom"
	"flowcanvas/pkg/graph"
)

// unique drops repeated ids, keeping first occurrences in order.
func unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// readNodes reads the host and checks that every id is present.
func (e *Executor) readNodes(op string, ids []string) (*graph.Index, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%s: empty id list: %w", op, ErrInvalidCommand)
	}
	idx, err := e.read()
	if err != nil {
		return nil, err
	}
	if missing := idx.MissingNodes(ids); len(missing) > 0 {
		return nil, nodeNotFound(op, missing)
	}
	return idx, nil
}

func (e *Executor) moveNodes(c MoveNodes) Result {
	if !finite(c.Delta.X, c.Delta.Y) {
		return failed(fmt.Errorf("move: non-finite delta: %w", ErrInvalidCommand))
	}
	idx, err := e.readNodes("move", c.IDs)
	if err != nil {
		return failed(err)
	}
	if c.positions == nil && c.Delta == (geom.Point{}) {
		return noOp()
	}
	ids := unique(c.IDs)
	before := make(map[string]geom.Point, len(ids))
	edits := make([]graph.NodeEdit, 0, len(ids))
	for _, id := range ids {
		n, _ := idx.Node(id)
		before[id] = n.Pos
		target, ok := c.positions[id]
		if !ok {
			target = n.Pos.Add(c.Delta)
		}
		edits = append(edits, graph.MoveEdit(id, target))
	}
	e.host.ApplyNodeEdits(edits)
	return Result{
		Success:         true,
		AffectedNodeIDs: ids,
		Inverse:         MoveNodes{IDs: ids, Delta: c.Delta.Neg(), positions: before},
	}
}

func (e *Executor) moveNodeTo(c MoveNodeTo) Result {
	if !finite(c.Position.X, c.Position.Y) {
		return failed(fmt.Errorf("move to: non-finite position: %w", ErrInvalidCommand))
	}
	idx, err := e.readNodes("move to", []string{c.ID})
	if err != nil {
		return failed(err)
	}
	n, _ := idx.Node(c.ID)
	if n.Pos == c.Position {
		return noOp()
	}
	e.host.ApplyNodeEdits([]graph.NodeEdit{graph.MoveEdit(c.ID, c.Position)})
	return Result{
		Success:         true,
		AffectedNodeIDs: []string{c.ID},
		Inverse:         MoveNodeTo{ID: c.ID, Position: n.Pos},
	}
}

// resize is the one place a node's frame changes size. The derived resize
// commands build a ResizeNode and come through here.
func (e *Executor) resize(c ResizeNode) Result {
	if !slices.Contains(geom.Anchors, c.Anchor) {
		return failed(fmt.Errorf("resize: unknown anchor %d: %w", c.Anchor, ErrInvalidCommand))
	}
	if !finite(c.Size.Width, c.Size.Height) {
		return failed(fmt.Errorf("resize: non-finite size: %w", ErrInvalidCommand))
	}
	idx, err := e.readNodes("resize", []string{c.ID})
	if err != nil {
		return failed(err)
	}
	n, _ := idx.Node(c.ID)

	size, pos := c.Size, geom.Point{}
	if c.restore != nil {
		pos = *c.restore
	} else {
		size = size.Max(e.minSize)
		pos = c.Anchor.Reposition(n.Pos, n.Dim, size)
	}
	if size == n.Dim && pos == n.Pos {
		return noOp()
	}

	edits := []graph.NodeEdit{graph.ResizeEdit(c.ID, size)}
	if pos != n.Pos {
		edits = append(edits, graph.MoveEdit(c.ID, pos))
	}
	e.host.ApplyNodeEdits(edits)

	origin := n.Pos
	return Result{
		Success:         true,
		AffectedNodeIDs: []string{c.ID},
		Inverse:         ResizeNode{ID: c.ID, Size: n.Dim, Anchor: c.Anchor, restore: &origin},
	}
}

func (e *Executor) resizeByScale(c ResizeNodeByScale) Result {
	if !finite(c.Factor) || c.Factor <= 0 {
		return failed(fmt.Errorf("resize by scale: factor %v: %w", c.Factor, ErrInvalidCommand))
	}
	idx, err := e.readNodes("resize by scale", []string{c.ID})
	if err != nil {
		return failed(err)
	}
	n, _ := idx.Node(c.ID)
	return e.resize(ResizeNode{ID: c.ID, Size: n.Dim.Mul(c.Factor), Anchor: c.Anchor})
}

func (e *Executor) resizeToWidth(c ResizeNodeToWidth) Result {
	if !finite(c.Width) || c.Width <= 0 {
		return failed(fmt.Errorf("resize to width: width %v: %w", c.Width, ErrInvalidCommand))
	}
	idx, err := e.readNodes("resize to width", []string{c.ID})
	if err != nil {
		return failed(err)
	}
	n, _ := idx.Node(c.ID)
	return e.resize(ResizeNode{ID: c.ID, Size: geom.Sz(c.Width, n.Dim.Height), Anchor: c.Anchor})
}

func (e *Executor) setParent(c SetNodeParent) Result {
	idx, err := e.readNodes("set parent", []string{c.ID})
	if err != nil {
		return failed(err)
	}
	n, _ := idx.Node(c.ID)
	if c.ParentID != "" {
		if c.ParentID == c.ID {
			return failed(fmt.Errorf("set parent %q: node cannot parent itself: %w", c.ID, ErrInvalidCommand))
		}
		if _, ok := idx.Node(c.ParentID); !ok {
			return failed(nodeNotFound("set parent", []string{c.ParentID}))
		}
		if isAncestor(idx, c.ID, c.ParentID) {
			return failed(fmt.Errorf("set parent %q under %q: cycle: %w", c.ID, c.ParentID, ErrInvalidCommand))
		}
	}
	if n.Parent == c.ParentID {
		return noOp()
	}
	e.host.ApplyNodeEdits([]graph.NodeEdit{graph.SetParentEdit(c.ID, c.ParentID)})
	return Result{
		Success:         true,
		AffectedNodeIDs: []string{c.ID},
		Inverse:         SetNodeParent{ID: c.ID, ParentID: n.Parent},
	}
}

// isAncestor reports whether id appears on the parent chain above node.
func isAncestor(idx *graph.Index, id, node string) bool {
	seen := map[string]bool{}
	for cur := node; cur != "" && !seen[cur]; {
		if cur == id {
			return true
		}
		seen[cur] = true
		n, ok := idx.Node(cur)
		if !ok {
			return false
		}
		cur = n.Parent
	}
	return false
}

func (e *Executor) setZ(target map[string]int, inverse func(prev map[string]int) Command) Result {
	ids := slices.Sorted(maps.Keys(target))
	idx, err := e.readNodes("set z-index", ids)
	if err != nil {
		return failed(err)
	}
	prev := make(map[string]int, len(ids))
	var edits []graph.NodeEdit
	for _, id := range ids {
		n, _ := idx.Node(id)
		prev[id] = n.Z
		if n.Z != target[id] {
			edits = append(edits, graph.SetZIndexEdit(id, target[id]))
		}
	}
	if len(edits) == 0 {
		return noOp()
	}
	e.host.ApplyNodeEdits(edits)
	return Result{Success: true, AffectedNodeIDs: ids, Inverse: inverse(prev)}
}

// restack moves ids above (front) or below every other node, keeping their
// relative order.
func (e *Executor) restack(ids []string, front bool) Result {
	idx, err := e.readNodes("restack", ids)
	if err != nil {
		return failed(err)
	}
	ids = unique(ids)
	order := make(map[string]int, len(idx.Nodes))
	lo, hi := math.MaxInt, math.MinInt
	for i, n := range idx.Nodes {
		order[n.NodeID] = i
		lo, hi = min(lo, n.Z), max(hi, n.Z)
	}
	slices.SortStableFunc(ids, func(a, b string) int {
		na, _ := idx.Node(a)
		nb, _ := idx.Node(b)
		if c := cmp.Compare(na.Z, nb.Z); c != 0 {
			return c
		}
		return cmp.Compare(order[a], order[b])
	})

	base := hi + 1
	if !front {
		base = lo - len(ids)
	}
	target := make(map[string]int, len(ids))
	for i, id := range ids {
		target[id] = base + i
	}
	return e.setZ(target, func(prev map[string]int) Command { return SetNodeZIndices{Z: prev} })
}
