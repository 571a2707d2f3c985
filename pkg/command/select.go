package command

import (
	"slices"

	"flowcanvas/pkg/graph"
)

// restoreSelection is the inverse shared by every recorded selection change.
func (e *Executor) restoreSelection() Select {
	return Select{NodeIDs: e.sel.NodeIDs(), EdgeIDs: e.sel.EdgeIDs()}
}

func (e *Executor) selectIDs(c Select) Result {
	if e.sel == nil {
		return failed(ErrNoSelection)
	}
	if e.host != nil {
		idx := graph.Read(e.host)
		if missing := idx.MissingNodes(c.NodeIDs); len(missing) > 0 {
			return failed(nodeNotFound("select", missing))
		}
		if missing := idx.MissingEdges(c.EdgeIDs); len(missing) > 0 {
			return failed(edgeNotFound("select", missing))
		}
	}
	inverse := e.restoreSelection()
	e.sel.Select(c.NodeIDs, c.EdgeIDs, c.Additive)
	if slices.Equal(inverse.NodeIDs, e.sel.NodeIDs()) && slices.Equal(inverse.EdgeIDs, e.sel.EdgeIDs()) {
		return noOp()
	}
	return Result{
		Success:         true,
		AffectedNodeIDs: slices.Clone(c.NodeIDs),
		AffectedEdgeIDs: slices.Clone(c.EdgeIDs),
		Inverse:         inverse,
	}
}

func (e *Executor) selectAll() Result {
	if e.sel == nil {
		return failed(ErrNoSelection)
	}
	idx, err := e.read()
	if err != nil {
		return failed(err)
	}
	nodes := make([]string, 0, len(idx.Nodes))
	for _, n := range idx.Nodes {
		nodes = append(nodes, n.NodeID)
	}
	edges := make([]string, 0, len(idx.Edges))
	for _, ed := range idx.Edges {
		edges = append(edges, ed.EdgeID)
	}
	e.sel.Select(nodes, edges, false)
	return Result{Success: true, AffectedNodeIDs: nodes, AffectedEdgeIDs: edges}
}

func (e *Executor) clearSelection() Result {
	if e.sel == nil {
		return failed(ErrNoSelection)
	}
	if e.sel.IsEmpty() {
		return noOp()
	}
	nodes, edges := e.sel.NodeIDs(), e.sel.EdgeIDs()
	e.sel.Clear()
	return Result{Success: true, AffectedNodeIDs: nodes, AffectedEdgeIDs: edges}
}

func (e *Executor) toggleNode(id string) Result {
	if e.sel == nil {
		return failed(ErrNoSelection)
	}
	if e.host != nil {
		if _, ok := graph.Read(e.host).Node(id); !ok {
			return failed(nodeNotFound("toggle", []string{id}))
		}
	}
	inverse := e.restoreSelection()
	e.sel.ToggleNode(id)
	return Result{Success: true, AffectedNodeIDs: []string{id}, Inverse: inverse}
}

func (e *Executor) toggleEdge(id string) Result {
	if e.sel == nil {
		return failed(ErrNoSelection)
	}
	if e.host != nil {
		if _, ok := graph.Read(e.host).Edge(id); !ok {
			return failed(edgeNotFound("toggle", []string{id}))
		}
	}
	inverse := e.restoreSelection()
	e.sel.ToggleEdge(id)
	return Result{Success: true, AffectedEdgeIDs: []string{id}, Inverse: inverse}
}
