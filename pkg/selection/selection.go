// Package selection holds the set-valued selection model.
package selection

import (
	"slices"

	"flowcanvas/pkg/geom"
)

// State is the current selection. The zero value is not usable; call New.
type State struct {
	nodes map[string]struct{}
	edges map[string]struct{}
	box   *geom.Rect
}

func New() *State {
	return &State{
		nodes: make(map[string]struct{}),
		edges: make(map[string]struct{}),
	}
}

// Select replaces the selection, or adds to it when additive is set.
func (s *State) Select(nodeIDs, edgeIDs []string, additive bool) {
	if !additive {
		clear(s.nodes)
		clear(s.edges)
	}
	for _, id := range nodeIDs {
		s.nodes[id] = struct{}{}
	}
	for _, id := range edgeIDs {
		s.edges[id] = struct{}{}
	}
}

func (s *State) Clear() {
	clear(s.nodes)
	clear(s.edges)
}

// ToggleNode flips id's membership and reports whether it is now selected.
func (s *State) ToggleNode(id string) bool {
	return toggle(s.nodes, id)
}

// ToggleEdge flips id's membership and reports whether it is now selected.
func (s *State) ToggleEdge(id string) bool {
	return toggle(s.edges, id)
}

func toggle(set map[string]struct{}, id string) bool {
	if _, ok := set[id]; ok {
		delete(set, id)
		return false
	}
	set[id] = struct{}{}
	return true
}

// Remove drops ids from the selection, used when entities are deleted.
func (s *State) Remove(nodeIDs, edgeIDs []string) {
	for _, id := range nodeIDs {
		delete(s.nodes, id)
	}
	for _, id := range edgeIDs {
		delete(s.edges, id)
	}
}

func (s *State) HasNode(id string) bool {
	_, ok := s.nodes[id]
	return ok
}

func (s *State) HasEdge(id string) bool {
	_, ok := s.edges[id]
	return ok
}

func (s *State) IsEmpty() bool {
	return len(s.nodes) == 0 && len(s.edges) == 0
}

// NodeIDs returns the selected node ids, sorted.
func (s *State) NodeIDs() []string {
	return sortedKeys(s.nodes)
}

// EdgeIDs returns the selected edge ids, sorted.
func (s *State) EdgeIDs() []string {
	return sortedKeys(s.edges)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// SetBoxRect records the marquee rect while a box selection is in progress.
func (s *State) SetBoxRect(r geom.Rect) {
	s.box = &r
}

func (s *State) ClearBoxRect() {
	s.box = nil
}

// BoxRect returns the active marquee rect, if any.
func (s *State) BoxRect() (geom.Rect, bool) {
	if s.box == nil {
		return geom.Rect{}, false
	}
	return *s.box, true
}
