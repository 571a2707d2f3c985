package main

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowcanvas/internal/docfile"
	"flowcanvas/internal/logging"
	"flowcanvas/internal/testutil"
	"flowcanvas/pkg/clipboard"
	"flowcanvas/pkg/editor"
	"flowcanvas/pkg/geom"
	"flowcanvas/pkg/graph"
)

func testModel(t *testing.T, c *graph.Canvas, path string) model {
	t.Helper()
	dir := t.TempDir()
	s := cellSettings(editor.DefaultSettings())
	s.FitOnMount = false
	n := 0
	m := newModel(c, path, func(name string) string { return filepath.Join(dir, name) }, logging.NewNop(),
		editor.WithSettings(s),
		editor.WithScheduler(&testutil.ManualScheduler{}),
		editor.WithClipboard(&clipboard.MemoryBoard{}, clipboard.BoxFactory),
		editor.WithIDGenerator(func() string { n++; return "gen-" + strconv.Itoa(n) }),
	)
	t.Cleanup(m.ed.Close)
	return send(m, tea.WindowSizeMsg{Width: 80, Height: 25})
}

func send(m model, msgs ...tea.Msg) model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}
	return m
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mouse(typ tea.MouseEventType, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Type: typ}
}

func boxFrame(t *testing.T, c *graph.Canvas, id string) geom.Rect {
	t.Helper()
	b, ok := c.Box(id)
	require.True(t, ok, id)
	return graph.Frame(b)
}

func TestModelMountsAtCanvasSize(t *testing.T) {
	m := testModel(t, graph.NewCanvas(), "")
	assert.Equal(t, geom.Sz(80, 24), m.ed.Viewport().Size(), "status line excluded")

	m = send(m, key("M"))
	assert.Equal(t, geom.Sz(80-minimapWidth-2, 24), m.ed.Viewport().Size())
	assert.NotEmpty(t, m.View())
}

func TestModelDragAndUndo(t *testing.T) {
	c := graph.NewCanvas()
	c.AddBox(graph.Box{BoxID: "a", X: 2, Y: 2, Width: 10, Height: 4})
	m := testModel(t, c, "")

	m = send(m,
		mouse(tea.MouseLeft, 5, 3),
		mouse(tea.MouseMotion, 9, 5),
		mouse(tea.MouseRelease, 9, 5),
	)
	assert.Equal(t, geom.R(6, 4, 10, 4), boxFrame(t, c, "a"))
	assert.Equal(t, []string{"a"}, m.ed.Selection().NodeIDs())
	assert.Equal(t, "moved 1", m.status)

	m = send(m, key("u"))
	assert.Equal(t, geom.R(2, 2, 10, 4), boxFrame(t, c, "a"))
	m = send(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Equal(t, geom.R(6, 4, 10, 4), boxFrame(t, c, "a"))
}

func TestModelEscapeCancelsDrag(t *testing.T) {
	c := graph.NewCanvas()
	c.AddBox(graph.Box{BoxID: "a", X: 2, Y: 2, Width: 10, Height: 4})
	m := testModel(t, c, "")

	m = send(m, mouse(tea.MouseLeft, 5, 3), mouse(tea.MouseMotion, 20, 10), tea.KeyMsg{Type: tea.KeyEscape})
	assert.False(t, m.ed.Busy())
	assert.Equal(t, "", m.gesture)
	assert.Equal(t, geom.R(2, 2, 10, 4), boxFrame(t, c, "a"))
}

func TestModelResizeFromCorner(t *testing.T) {
	c := graph.NewCanvas()
	c.AddBox(graph.Box{BoxID: "a", X: 2, Y: 2, Width: 10, Height: 6})
	m := testModel(t, c, "")

	m = send(m,
		mouse(tea.MouseLeft, 11, 7),
		mouse(tea.MouseMotion, 15, 9),
		mouse(tea.MouseRelease, 15, 9),
	)
	assert.Equal(t, geom.R(2, 2, 14, 8), boxFrame(t, c, "a"))
	assert.Equal(t, "resized", m.status)
}

func TestModelConnectPorts(t *testing.T) {
	c := graph.NewCanvas()
	c.AddBox(graph.Box{BoxID: "a", X: 2, Y: 2, Width: 10, Height: 4})
	c.AddBox(graph.Box{BoxID: "b", X: 30, Y: 2, Width: 10, Height: 4})
	m := testModel(t, c, "")

	m = send(m,
		mouse(tea.MouseLeft, 12, 4),
		mouse(tea.MouseMotion, 25, 4),
		mouse(tea.MouseRelease, 30, 4),
	)
	require.Len(t, c.Connections(), 1)
	assert.Equal(t, graph.Connection{ConnID: "gen-1", FromID: "a", FromPort: "out", ToID: "b", ToPort: "in"}, c.Connections()[0])
	assert.Equal(t, "connected", m.status)
}

func TestModelMarqueeSelects(t *testing.T) {
	c := graph.NewCanvas()
	c.AddBox(graph.Box{BoxID: "a", X: 2, Y: 2, Width: 10, Height: 4})
	c.AddBox(graph.Box{BoxID: "b", X: 60, Y: 15, Width: 10, Height: 4})
	m := testModel(t, c, "")

	m = send(m,
		mouse(tea.MouseLeft, 40, 12),
		mouse(tea.MouseMotion, 0, 0),
		mouse(tea.MouseRelease, 0, 0),
	)
	assert.Equal(t, []string{"a"}, m.ed.Selection().NodeIDs())
}

func TestModelNewNodeAndLabel(t *testing.T) {
	c := graph.NewCanvas()
	m := testModel(t, c, "")

	m = send(m, key("n"))
	require.Len(t, c.Boxes(), 1)
	b := c.Boxes()[0]
	assert.Equal(t, geom.R(33, 10.5, 14, 3), graph.Frame(b))
	assert.Equal(t, []string{b.BoxID}, m.ed.Selection().NodeIDs())

	m = send(m, key("e"))
	assert.Equal(t, ModeLabel, m.mode)
	m = send(m,
		tea.KeyMsg{Type: tea.KeyBackspace},
		tea.KeyMsg{Type: tea.KeyBackspace},
		tea.KeyMsg{Type: tea.KeyBackspace},
		key("hi"),
		tea.KeyMsg{Type: tea.KeySpace},
		key("u"),
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	assert.Equal(t, ModeNormal, m.mode)
	b, _ = c.Box(b.BoxID)
	assert.Equal(t, "hi u", b.GetText())
	assert.True(t, m.ed.CanUndo(), "typing u in label mode is text, not undo")
}

func TestModelClipboardKeys(t *testing.T) {
	c := graph.NewCanvas()
	c.AddBox(graph.Box{BoxID: "a", X: 2, Y: 2, Width: 10, Height: 4, Lines: []string{"hi"}})
	m := testModel(t, c, "")

	m = send(m, key("a"), key("c"), key("v"))
	require.Len(t, c.Boxes(), 2)
	assert.Equal(t, "pasted", m.status)
	assert.Equal(t, []string{"gen-1"}, m.ed.Selection().NodeIDs())

	m = send(m, key("d"))
	assert.Len(t, c.Boxes(), 1)
	m = send(m, key("D"))
	assert.Len(t, c.Boxes(), 1, "nothing selected after delete")
}

func TestModelSave(t *testing.T) {
	c := graph.NewCanvas()
	c.AddBox(graph.Box{BoxID: "a", X: 2, Y: 2, Width: 10, Height: 4})

	t.Run("default name", func(t *testing.T) {
		m := testModel(t, c, "")
		m = send(m, key("s"))
		require.NotEmpty(t, m.path)
		assert.Equal(t, "diagram.yaml", filepath.Base(m.path))
		loaded, _, err := docfile.Load(m.path)
		require.NoError(t, err)
		assert.Equal(t, c.Boxes(), loaded.Boxes())
	})

	t.Run("legacy becomes yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "old.flow")
		m := testModel(t, c, path)
		m = send(m, key("s"))
		assert.Equal(t, filepath.Join(filepath.Dir(path), "old.yaml"), m.path)
		_, err := os.Stat(m.path)
		assert.NoError(t, err)
	})
}

func TestModelMinimapClickNavigates(t *testing.T) {
	c := graph.NewCanvas()
	c.AddBox(graph.Box{BoxID: "a", X: 0, Y: 0, Width: 10, Height: 4})
	c.AddBox(graph.Box{BoxID: "b", X: 300, Y: 100, Width: 10, Height: 4})
	m := testModel(t, c, "")
	m = send(m, key("M"))
	before := m.ed.Viewport().Transform()

	w, _ := m.canvasCells()
	m = send(m, mouse(tea.MouseLeft, w+minimapWidth-2, minimapHeight-2))
	assert.NotEqual(t, before, m.ed.Viewport().Transform())
	assert.False(t, m.ed.CanUndo(), "navigation is not recorded")
}

func TestTeaScheduler(t *testing.T) {
	msgs := make(chan tea.Msg, 1)
	s := &teaScheduler{}
	s.bind(func(msg tea.Msg) { msgs <- msg })

	ran := false
	timer := s.AfterFunc(time.Millisecond, func() { ran = true })
	select {
	case msg := <-msgs:
		msg.(timerMsg).t.fire()
	case <-time.After(time.Second):
		t.Fatal("timer message not delivered")
	}
	assert.True(t, ran)
	assert.False(t, timer.Stop(), "already fired")

	stopped := s.AfterFunc(time.Hour, func() { t.Error("stopped timer ran") })
	assert.True(t, stopped.Stop())
	assert.False(t, stopped.Stop())
	stopped.(*teaTimer).fire()
}

func TestCellSettings(t *testing.T) {
	s := cellSettings(editor.DefaultSettings())
	assert.Equal(t, 1.0, s.DragThreshold)
	assert.Equal(t, gripSize, s.CaptureRadius)
	assert.Equal(t, geom.Sz(4, 3), s.MinNodeSize)

	small := editor.DefaultSettings()
	small.DragThreshold = 0.5
	assert.Equal(t, 0.5, cellSettings(small).DragThreshold)
}
