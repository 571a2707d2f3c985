package selection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"flowcanvas/pkg/geom"
	"flowcanvas/pkg/selection"
)

func TestState_Select(t *testing.T) {
	s := selection.New()

	s.Select([]string{"b", "a"}, []string{"e1"}, false)
	assert.Equal(t, []string{"a", "b"}, s.NodeIDs())
	assert.Equal(t, []string{"e1"}, s.EdgeIDs())

	s.Select([]string{"c"}, nil, true)
	assert.Equal(t, []string{"a", "b", "c"}, s.NodeIDs())

	s.Select([]string{"z"}, nil, false)
	assert.Equal(t, []string{"z"}, s.NodeIDs())
	assert.Empty(t, s.EdgeIDs())
}

func TestState_Toggle(t *testing.T) {
	s := selection.New()

	assert.True(t, s.ToggleNode("a"))
	assert.True(t, s.HasNode("a"))
	assert.False(t, s.ToggleNode("a"))
	assert.True(t, s.IsEmpty())

	assert.True(t, s.ToggleEdge("e"))
	assert.True(t, s.HasEdge("e"))
}

func TestState_RemoveAndClear(t *testing.T) {
	s := selection.New()
	s.Select([]string{"a", "b"}, []string{"e1", "e2"}, false)

	s.Remove([]string{"a"}, []string{"e2"})
	assert.Equal(t, []string{"b"}, s.NodeIDs())
	assert.Equal(t, []string{"e1"}, s.EdgeIDs())

	s.Clear()
	assert.True(t, s.IsEmpty())
}

func TestState_BoxRect(t *testing.T) {
	s := selection.New()
	_, ok := s.BoxRect()
	assert.False(t, ok)

	s.SetBoxRect(geom.R(1, 2, 3, 4))
	r, ok := s.BoxRect()
	assert.True(t, ok)
	assert.Equal(t, geom.R(1, 2, 3, 4), r)

	s.ClearBoxRect()
	_, ok = s.BoxRect()
	assert.False(t, ok)
}
