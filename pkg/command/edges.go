package command

import (
	"fmt"

	"flowcanvas/pkg/graph"
)

// remove deletes nodes, every edge attached to them and the extra edges named.
// Its inverse re-inserts all of it with the original ids.
func (e *Executor) remove(nodeIDs, edgeIDs []string) Result {
	idx, err := e.read()
	if err != nil {
		return failed(err)
	}
	if missing := idx.MissingNodes(nodeIDs); len(missing) > 0 {
		return failed(nodeNotFound("delete", missing))
	}
	if missing := idx.MissingEdges(edgeIDs); len(missing) > 0 {
		return failed(edgeNotFound("delete", missing))
	}
	nodeIDs = unique(nodeIDs)

	var nodes []graph.Node
	nodeEdits := make([]graph.NodeEdit, 0, len(nodeIDs))
	for _, id := range nodeIDs {
		n, _ := idx.Node(id)
		nodes = append(nodes, n.Original())
		nodeEdits = append(nodeEdits, graph.DeleteNodeEdit(id))
	}

	var edges []graph.EdgeRecord
	seen := map[string]bool{}
	for _, ed := range idx.EdgesTouching(nodeIDs) {
		seen[ed.EdgeID] = true
		edges = append(edges, ed)
	}
	for _, id := range unique(edgeIDs) {
		if seen[id] {
			continue
		}
		ed, _ := idx.Edge(id)
		seen[id] = true
		edges = append(edges, ed)
	}

	removedEdges := make([]string, 0, len(edges))
	edgeEdits := make([]graph.EdgeEdit, 0, len(edges))
	for _, ed := range edges {
		removedEdges = append(removedEdges, ed.EdgeID)
		edgeEdits = append(edgeEdits, graph.DeleteEdgeEdit(ed.EdgeID))
	}

	if len(edgeEdits) > 0 {
		e.host.ApplyEdgeEdits(edgeEdits)
	}
	if len(nodeEdits) > 0 {
		e.host.ApplyNodeEdits(nodeEdits)
	}
	e.deleted(nodeIDs, removedEdges)

	return Result{
		Success:         true,
		AffectedNodeIDs: nodeIDs,
		AffectedEdgeIDs: removedEdges,
		Inverse:         hostOrder(idx, nodes, edges),
	}
}

// hostOrder builds the insert that undoes a delete. Removed nodes and edges are
// listed in host order and each is mapped to the first survivor that followed
// it, so inserting them in that order in front of their survivors rebuilds the
// original sequence.
func hostOrder(idx *graph.Index, nodes []graph.Node, edges []graph.EdgeRecord) InsertNodes {
	nodeByID := make(map[string]graph.Node, len(nodes))
	for _, n := range nodes {
		nodeByID[n.ID()] = n
	}
	nodeIDs := make([]string, len(idx.Nodes))
	for i, rec := range idx.Nodes {
		nodeIDs[i] = rec.NodeID
	}
	edgeByID := make(map[string]graph.EdgeRecord, len(edges))
	for _, ed := range edges {
		edgeByID[ed.EdgeID] = ed
	}
	edgeIDs := make([]string, len(idx.Edges))
	for i, rec := range idx.Edges {
		edgeIDs[i] = rec.EdgeID
	}

	ins := InsertNodes{
		nodeOrder: followers(nodeIDs, func(id string) bool { return nodeByID[id] != nil }),
		edgeOrder: followers(edgeIDs, func(id string) bool { return edgeByID[id].EdgeID != "" }),
	}
	for _, id := range nodeIDs {
		if n, ok := nodeByID[id]; ok {
			ins.Nodes = append(ins.Nodes, n)
		}
	}
	for _, id := range edgeIDs {
		if ed, ok := edgeByID[id]; ok {
			ins.Edges = append(ins.Edges, ed)
		}
	}
	return ins
}

// followers maps every removed id in seq to the next id in seq that stays.
func followers(seq []string, removed func(string) bool) map[string]string {
	out := map[string]string{}
	var pending []string
	for _, id := range seq {
		if removed(id) {
			pending = append(pending, id)
			continue
		}
		for _, p := range pending {
			out[p] = id
		}
		pending = pending[:0]
	}
	return out
}

func (e *Executor) insert(c InsertNodes) Result {
	if len(c.Nodes) == 0 && len(c.Edges) == 0 {
		return failed(fmt.Errorf("insert: nothing to insert: %w", ErrInvalidCommand))
	}
	idx, err := e.read()
	if err != nil {
		return failed(err)
	}

	added := make(map[string]bool, len(c.Nodes))
	nodeIDs := make([]string, 0, len(c.Nodes))
	nodeEdits := make([]graph.NodeEdit, 0, len(c.Nodes))
	for _, n := range c.Nodes {
		if n == nil || n.ID() == "" {
			return failed(fmt.Errorf("insert: node without id: %w", ErrInvalidCommand))
		}
		id := n.ID()
		if _, exists := idx.Node(id); exists || added[id] {
			return failed(fmt.Errorf("insert: node %q already exists: %w", id, ErrInvalidCommand))
		}
		added[id] = true
		nodeIDs = append(nodeIDs, id)
		edit := graph.InsertEdit(n)
		edit.Before = c.nodeOrder[id]
		nodeEdits = append(nodeEdits, edit)
	}

	present := func(id string) bool {
		_, ok := idx.Node(id)
		return ok || added[id]
	}
	edgeIDs := make([]string, 0, len(c.Edges))
	var looseEdges []string
	edgeEdits := make([]graph.EdgeEdit, 0, len(c.Edges))
	seen := map[string]bool{}
	for _, ed := range c.Edges {
		if ed.EdgeID == "" {
			return failed(fmt.Errorf("insert: edge without id: %w", ErrInvalidCommand))
		}
		if _, exists := idx.Edge(ed.EdgeID); exists || seen[ed.EdgeID] {
			return failed(fmt.Errorf("insert: edge %q already exists: %w", ed.EdgeID, ErrInvalidCommand))
		}
		if !present(ed.Source) || !present(ed.Target) {
			return failed(nodeNotFound("insert edge "+ed.EdgeID, []string{ed.Source, ed.Target}))
		}
		seen[ed.EdgeID] = true
		edgeIDs = append(edgeIDs, ed.EdgeID)
		edit := ed.CreateEdit()
		edit.Before = c.edgeOrder[ed.EdgeID]
		edgeEdits = append(edgeEdits, edit)
		if !added[ed.Source] && !added[ed.Target] {
			looseEdges = append(looseEdges, ed.EdgeID)
		}
	}

	if len(nodeEdits) > 0 {
		e.host.ApplyNodeEdits(nodeEdits)
	}
	if len(edgeEdits) > 0 {
		e.host.ApplyEdgeEdits(edgeEdits)
	}

	after := graph.Read(e.host)
	if missingN, missingE := after.MissingNodes(nodeIDs), after.MissingEdges(edgeIDs); len(missingN)+len(missingE) > 0 {
		e.undoPartialInsert(after, nodeIDs, edgeIDs)
		return failed(fmt.Errorf("insert: nodes %q edges %q: %w", missingN, missingE, ErrRejected))
	}

	return Result{
		Success:         true,
		AffectedNodeIDs: nodeIDs,
		AffectedEdgeIDs: edgeIDs,
		Inverse:         DeleteNodes{IDs: nodeIDs, edges: looseEdges},
	}
}

// undoPartialInsert removes whatever part of a rejected insert the host kept.
func (e *Executor) undoPartialInsert(after *graph.Index, nodeIDs, edgeIDs []string) {
	var edgeEdits []graph.EdgeEdit
	for _, id := range edgeIDs {
		if _, ok := after.Edge(id); ok {
			edgeEdits = append(edgeEdits, graph.DeleteEdgeEdit(id))
		}
	}
	var nodeEdits []graph.NodeEdit
	for _, id := range nodeIDs {
		if _, ok := after.Node(id); ok {
			nodeEdits = append(nodeEdits, graph.DeleteNodeEdit(id))
		}
	}
	if len(edgeEdits) > 0 {
		e.host.ApplyEdgeEdits(edgeEdits)
	}
	if len(nodeEdits) > 0 {
		e.host.ApplyNodeEdits(nodeEdits)
	}
}

func (e *Executor) createEdge(c CreateEdge) Result {
	idx, err := e.read()
	if err != nil {
		return failed(err)
	}
	src, ok := idx.Node(c.SourceNodeID)
	if !ok {
		return failed(nodeNotFound("create edge", []string{c.SourceNodeID}))
	}
	dst, ok := idx.Node(c.TargetNodeID)
	if !ok {
		return failed(nodeNotFound("create edge", []string{c.TargetNodeID}))
	}
	if src.NodeID == dst.NodeID {
		return failed(fmt.Errorf("create edge: %q connects to itself: %w", src.NodeID, ErrInvalidCommand))
	}
	if err := checkPort(src, c.SourcePortID); err != nil {
		return failed(err)
	}
	if err := checkPort(dst, c.TargetPortID); err != nil {
		return failed(err)
	}
	if c.ID == "" {
		c.ID = e.newID()
	}
	if _, exists := idx.Edge(c.ID); exists {
		return failed(fmt.Errorf("create edge: %q already exists: %w", c.ID, ErrInvalidCommand))
	}

	e.host.ApplyEdgeEdits([]graph.EdgeEdit{
		graph.CreateEdgeEdit(c.ID, c.SourceNodeID, c.SourcePortID, c.TargetNodeID, c.TargetPortID),
	})
	if _, ok := graph.Read(e.host).Edge(c.ID); !ok {
		return failed(fmt.Errorf("create edge %q: %w", c.ID, ErrRejected))
	}
	return Result{
		Success:         true,
		AffectedNodeIDs: []string{c.SourceNodeID, c.TargetNodeID},
		AffectedEdgeIDs: []string{c.ID},
		Inverse:         DeleteEdges{IDs: []string{c.ID}},
		Replay:          c,
	}
}

// checkPort accepts an empty port id, or one the node declares.
func checkPort(n graph.NodeRecord, portID string) error {
	if portID == "" {
		return nil
	}
	if _, ok := graph.FindPort(n, portID); !ok {
		return fmt.Errorf("node %q has no port %q: %w", n.NodeID, portID, ErrInvalidCommand)
	}
	return nil
}

func (e *Executor) deleteSelection() Result {
	if e.sel == nil {
		return failed(ErrNoSelection)
	}
	idx, err := e.read()
	if err != nil {
		return failed(err)
	}
	var nodes, edges []string
	for _, id := range e.sel.NodeIDs() {
		if _, ok := idx.Node(id); ok {
			nodes = append(nodes, id)
		}
	}
	for _, id := range e.sel.EdgeIDs() {
		if _, ok := idx.Edge(id); ok {
			edges = append(edges, id)
		}
	}
	if len(nodes) == 0 && len(edges) == 0 {
		return noOp()
	}
	return e.remove(nodes, edges)
}
