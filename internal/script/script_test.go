package script_test

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowcanvas/internal/script"
	"flowcanvas/pkg/command"
	"flowcanvas/pkg/editor"
	"flowcanvas/pkg/geom"
	"flowcanvas/pkg/graph"
	"flowcanvas/pkg/history"
)

func setup(t *testing.T) (*graph.Canvas, *editor.Editor) {
	t.Helper()
	c := graph.NewCanvas()
	c.AddBox(graph.Box{BoxID: "a", X: 100, Y: 100, Width: 120, Height: 80})
	c.AddBox(graph.Box{BoxID: "b", X: 300, Y: 100, Width: 100, Height: 60})
	n := 0
	e := editor.New(c, editor.WithIDGenerator(func() string { n++; return "gen-" + strconv.Itoa(n) }))
	t.Cleanup(e.Close)
	return c, e
}

func parse(t *testing.T, src string) script.Script {
	t.Helper()
	s, err := script.Parse(strings.NewReader(src))
	require.NoError(t, err)
	return s
}

func frame(t *testing.T, c *graph.Canvas, id string) geom.Rect {
	t.Helper()
	b, ok := c.Box(id)
	require.True(t, ok, id)
	return graph.Frame(b)
}

func TestRunCommands(t *testing.T) {
	c, e := setup(t)
	s := parse(t, `
steps:
  - op: move_nodes
    args: {ids: [a], delta: {x: 10, y: -5}}
  - op: resize_node
    args: {id: b, size: {width: 50, height: 30}, anchor: center}
  - op: create_edge
    args: {source_node_id: a, source_port_id: out, target_node_id: b, target_port_id: in}
  - op: select
    args: {node_ids: [a, b]}
  - op: zoom_to
    args: {scale: 2}
`)
	results, err := script.Run(e, s)
	require.NoError(t, err)
	require.Len(t, results, 5)
	for _, r := range results {
		assert.Equal(t, "ok", r.Outcome, r.Op)
	}

	assert.Equal(t, geom.R(110, 95, 120, 80), frame(t, c, "a"))
	assert.Equal(t, geom.R(325, 115, 50, 30), frame(t, c, "b"))
	_, ok := c.Connection("gen-1")
	assert.True(t, ok)
	assert.Equal(t, []string{"gen-1"}, results[2].Edges)
	assert.Equal(t, []string{"a", "b"}, e.Selection().NodeIDs())
	assert.Equal(t, 2.0, e.Viewport().Transform().Scale)
}

func TestTransactionUndoRedo(t *testing.T) {
	c, e := setup(t)
	s := parse(t, `
steps:
  - op: transaction
    name: tidy
    steps:
      - op: move_node_to
        args: {id: a, position: {x: 0, y: 0}}
      - op: resize_node_to_width
        args: {id: a, width: 60}
  - op: undo
  - op: redo
`)
	results, err := script.Run(e, s)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.ElementsMatch(t, []string{"a", "a"}, results[0].Nodes)

	assert.Equal(t, geom.R(0, 0, 60, 80), frame(t, c, "a"))
	name, ok := e.History().UndoName()
	require.True(t, ok)
	assert.Equal(t, "tidy", name)
}

func TestInsertNodes(t *testing.T) {
	c, e := setup(t)
	s := parse(t, `
steps:
  - op: insert_nodes
    args:
      nodes:
        - {id: z, x: 5, y: 6, width: 30, height: 20, label: "new\nbox"}
      edges:
        - {id: ez, source: a, source_port: out, target: z, target_port: in}
  - op: undo
`)
	results, err := script.Run(e, s)
	require.NoError(t, err)
	assert.Equal(t, []string{"z"}, results[0].Nodes)
	_, ok := c.Box("z")
	assert.False(t, ok, "undone")

	require.NoError(t, e.Redo())
	z, ok := c.Box("z")
	require.True(t, ok)
	assert.Equal(t, "new\nbox", z.GetText())
	_, ok = c.Connection("ez")
	assert.True(t, ok)
}

func TestRunStopsAtFailure(t *testing.T) {
	c, e := setup(t)
	s := parse(t, `
steps:
  - op: move_nodes
    args: {ids: [ghost], delta: {x: 1, y: 1}}
  - op: move_nodes
    args: {ids: [a], delta: {x: 1, y: 1}}
`)
	results, err := script.Run(e, s)
	assert.ErrorIs(t, err, script.ErrStepFailed)
	assert.ErrorIs(t, err, command.ErrNodeNotFound)
	require.Len(t, results, 1)
	assert.Equal(t, "failed", results[0].Outcome)
	assert.NotEmpty(t, results[0].ErrorMsg)
	assert.Equal(t, geom.Pt(100, 100), frame(t, c, "a").Origin)

	s.KeepGoing = true
	results, err = script.Run(e, s)
	assert.ErrorIs(t, err, script.ErrStepFailed)
	require.Len(t, results, 2)
	assert.Equal(t, "ok", results[1].Outcome)
	assert.Equal(t, geom.Pt(101, 101), frame(t, c, "a").Origin)
}

func TestUndoWithEmptyHistoryFails(t *testing.T) {
	_, e := setup(t)
	results, err := script.Run(e, parse(t, "steps:\n  - op: undo\n"))
	assert.ErrorIs(t, err, history.ErrNothingToUndo)
	assert.Equal(t, "failed", results[0].Outcome)
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown op", "steps:\n  - op: explode\n"},
		{"unknown op in transaction", "steps:\n  - op: transaction\n    steps:\n      - op: nope\n"},
		{"bad anchor", "steps:\n  - op: resize_node\n    args: {id: a, anchor: sideways}\n"},
		{"bad args type", "steps:\n  - op: move_nodes\n    args: {ids: 3}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, e := setup(t)
			before := c.Boxes()
			results, err := script.Run(e, parse(t, tt.src))
			assert.Error(t, err)
			assert.Nil(t, results)
			assert.Equal(t, before, c.Boxes())
		})
	}
}

func TestLoadAndOps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte("keep_going: true\nsteps:\n  - op: fit_view\n"), 0o644))
	s, err := script.Load(path)
	require.NoError(t, err)
	assert.True(t, s.KeepGoing)
	require.Len(t, s.Steps, 1)

	ops := script.Ops()
	assert.Contains(t, ops, "transaction")
	assert.Contains(t, ops, "resize_node_to_width")
	assert.IsIncreasing(t, ops)
}
