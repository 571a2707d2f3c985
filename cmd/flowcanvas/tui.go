package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"flowcanvas/internal/docfile"
	"flowcanvas/internal/render"
	"flowcanvas/pkg/command"
	"flowcanvas/pkg/editor"
	"flowcanvas/pkg/geom"
	"flowcanvas/pkg/graph"
	"flowcanvas/pkg/interaction"
)

const (
	panStep       = 2
	zoomStep      = 1.25
	minimapWidth  = 24
	minimapHeight = 10
	gripSize      = 1.5
)

var (
	newBoxSize  = geom.Sz(14, 3)
	statusStyle = lipgloss.NewStyle().Reverse(true)
	mapStyle    = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("8"))
)

type Mode int

const (
	ModeNormal Mode = iota
	ModeLabel
)

func (m Mode) String() string {
	if m == ModeLabel {
		return "LABEL"
	}
	return "NORMAL"
}

type model struct {
	ed       *editor.Editor
	canvas   *graph.Canvas
	logger   *slog.Logger
	path     string
	savePath func(string) string

	width   int
	height  int
	mounted bool
	showMap bool
	help    bool
	mode    Mode
	gesture string
	labelID string
	label   string
	status  string
	styles  render.Styles
}

// newModel edits canvas; path is where "s" saves, or empty to ask savePath
// for a default name.
func newModel(canvas *graph.Canvas, path string, savePath func(string) string, logger *slog.Logger, opts ...editor.Option) model {
	opts = append([]editor.Option{editor.WithLogger(logger)}, opts...)
	return model{
		ed:       editor.New(canvas, opts...),
		canvas:   canvas,
		logger:   logger,
		path:     path,
		savePath: savePath,
		styles:   render.DefaultStyles(),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

// canvasCells is the drawing area: the window less the status line and the
// minimap panel when shown.
func (m model) canvasCells() (int, int) {
	w, h := m.width, m.height-1
	if m.showMap {
		w -= minimapWidth + 2
	}
	return max(w, 1), max(h, 1)
}

func (m model) canvasSize() geom.Size {
	w, h := m.canvasCells()
	return geom.Sz(float64(w), float64(h))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.mounted {
			m.ed.Mount(m.canvasSize())
			m.mounted = true
		} else {
			m.ed.SetViewportSize(m.canvasSize())
		}
		return m, nil

	case timerMsg:
		msg.t.fire()
		return m, nil

	case tea.KeyMsg:
		if m.help {
			m.help = false
			return m, nil
		}
		if m.mode == ModeLabel {
			return m.handleLabelKey(msg), nil
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg), nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	center := m.ed.Viewport().Center()
	switch msg.String() {
	case "q", "ctrl+c":
		m.ed.Close()
		return m, tea.Quit
	case "?":
		m.help = true
	case "esc":
		if m.ed.Busy() {
			m.ed.CancelGestures()
			m.gesture = ""
			m.status = "cancelled"
		} else {
			m.report(m.ed.Perform(command.ClearSelection{}), "")
		}

	case "h", "left":
		m.ed.Execute(command.Pan{Delta: geom.Pt(panStep, 0)})
	case "l", "right":
		m.ed.Execute(command.Pan{Delta: geom.Pt(-panStep, 0)})
	case "k", "up":
		m.ed.Execute(command.Pan{Delta: geom.Pt(0, panStep)})
	case "j", "down":
		m.ed.Execute(command.Pan{Delta: geom.Pt(0, -panStep)})
	case "+", "=":
		m.ed.Execute(command.ZoomBy{Factor: zoomStep, Anchor: center})
	case "-":
		m.ed.Execute(command.ZoomBy{Factor: 1 / zoomStep, Anchor: center})
	case "0":
		m.ed.Execute(command.ResetView{})
	case "f":
		m.ed.Execute(command.FitView{Padding: m.ed.Settings().FitPadding})
	case "M":
		m.showMap = !m.showMap
		m.ed.SetViewportSize(m.canvasSize())

	case "n":
		m.insertBox(m.ed.Project(center))
	case "e", "enter":
		m.beginLabel()
	case "a":
		m.report(m.ed.Perform(command.SelectAll{}), "")
	case "d", "delete", "backspace":
		m.report(m.ed.Perform(command.DeleteSelection{}), "deleted")
	case "]":
		m.report(m.ed.Perform(command.BringToFront{IDs: m.ed.Selection().NodeIDs()}), "raised")
	case "[":
		m.report(m.ed.Perform(command.SendToBack{IDs: m.ed.Selection().NodeIDs()}), "lowered")

	case "c":
		m.report(m.ed.Copy(), "copied")
	case "x":
		m.report(m.ed.Cut(), "cut")
	case "v":
		m.report(m.ed.Paste(m.ed.Project(center)), "pasted")
	case "D":
		m.report(m.ed.Duplicate(), "duplicated")

	case "u":
		if name, ok := m.ed.History().UndoName(); ok {
			m.setErr(m.ed.Undo(), "undo "+name)
		}
	case "U", "ctrl+r":
		if name, ok := m.ed.History().RedoName(); ok {
			m.setErr(m.ed.Redo(), "redo "+name)
		}

	case "s", "ctrl+s":
		m.save()
	}
	return m, nil
}

func (m *model) report(res command.Result, done string) {
	switch {
	case res.Err != nil:
		m.status = res.Err.Error()
		m.logger.Debug("command failed", "err", res.Err)
	case res.Success && !res.NoOp && done != "":
		m.status = done
	}
}

func (m *model) setErr(err error, done string) {
	if err != nil {
		m.status = err.Error()
		return
	}
	m.status = done
}

func (m *model) insertBox(at geom.Point) {
	id := uuid.NewString()
	box := graph.Box{
		BoxID:  id,
		X:      at.X - newBoxSize.Width/2,
		Y:      at.Y - newBoxSize.Height/2,
		Width:  newBoxSize.Width,
		Height: newBoxSize.Height,
	}
	box.SetText("box")
	_, err := m.ed.Transaction("new node",
		command.InsertNodes{Nodes: []graph.Node{box}},
		command.Select{NodeIDs: []string{id}},
	)
	m.setErr(err, "added node")
}

// beginLabel edits the label of the single selected node. Label text belongs to
// the host, so the edit is not recorded in history.
func (m *model) beginLabel() {
	ids := m.ed.Selection().NodeIDs()
	if len(ids) != 1 {
		m.status = "select one node to edit its label"
		return
	}
	box, ok := m.canvas.Box(ids[0])
	if !ok {
		return
	}
	m.mode = ModeLabel
	m.labelID = ids[0]
	m.label = box.GetText()
}

func (m model) handleLabelKey(msg tea.KeyMsg) model {
	switch msg.Type {
	case tea.KeyEnter:
		m.canvas.SetBoxText(m.labelID, m.label)
		m.mode = ModeNormal
		m.status = "label set"
	case tea.KeyEscape:
		m.mode = ModeNormal
	case tea.KeyBackspace:
		if r := []rune(m.label); len(r) > 0 {
			m.label = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.label += " "
	case tea.KeyCtrlJ:
		m.label += "\n"
	case tea.KeyRunes:
		m.label += string(msg.Runes)
	}
	return m
}

func (m *model) save() {
	path := m.path
	if path == "" {
		path = m.savePath("diagram.yaml")
	}
	if f, err := docfile.FormatFor(path); err != nil || f == docfile.FormatLegacy {
		path = strings.TrimSuffix(path, filepath.Ext(path)) + ".yaml"
	}
	if err := docfile.Save(path, m.canvas, m.ed.Viewport().Transform()); err != nil {
		m.status = "save failed: " + err.Error()
		m.logger.Error("save failed", "path", path, "err", err)
		return
	}
	m.path = path
	m.status = "saved " + path
	m.logger.Info("saved", "path", path)
}

func (m model) handleMouse(msg tea.MouseMsg) model {
	p := geom.Pt(float64(msg.X), float64(msg.Y))
	w, h := m.canvasCells()

	if m.showMap && m.gesture == "" && msg.X > w && msg.Y <= minimapHeight {
		if msg.Type == tea.MouseLeft {
			mini := geom.Pt(float64(msg.X-w-1), float64(msg.Y-1))
			m.ed.NavigateMinimap(m.ed.Minimap(geom.Sz(minimapWidth, minimapHeight), 1), mini)
		}
		return m
	}

	switch msg.Type {
	case tea.MouseWheelUp:
		m.ed.Execute(command.ZoomBy{Factor: zoomStep, Anchor: p})
	case tea.MouseWheelDown:
		m.ed.Execute(command.ZoomBy{Factor: 1 / zoomStep, Anchor: p})
	case tea.MouseLeft:
		if m.gesture != "" {
			m.move(p)
		} else if msg.Y < h {
			m.press(p, msg.Shift || msg.Ctrl)
		}
	case tea.MouseMotion:
		m.move(p)
	case tea.MouseRelease:
		m.release(p)
	}
	return m
}

// press starts the gesture for whatever is under p: a port connects, a node's
// bottom-right corner resizes, the rest of a node drags, empty space marquees.
func (m *model) press(p geom.Point, additive bool) {
	if cand, ok := m.ed.PortAt(p); ok {
		if err := m.ed.BeginConnect(cand.NodeID, cand.PortID, p); err == nil {
			m.gesture = editor.GestureConnect
			return
		}
	}
	if n, ok := m.ed.NodeAt(p); ok {
		frame := m.ed.Viewport().Transform().CanvasToScreenRect(n.Frame)
		if p.X >= frame.MaxX()-gripSize && p.Y >= frame.MaxY()-gripSize {
			if err := m.ed.BeginResize(n.ID, geom.AnchorTopLeft, p); err == nil {
				m.gesture = editor.GestureResize
			}
			return
		}
		if additive && n.Selected {
			m.report(m.ed.Perform(command.ToggleNodeSelection{ID: n.ID}), "")
			return
		}
		if !n.Selected {
			m.report(m.ed.Perform(command.Select{NodeIDs: []string{n.ID}, Additive: additive}), "")
		}
		if err := m.ed.BeginDrag(nil, p); err == nil {
			m.gesture = editor.GestureDrag
		}
		return
	}
	if err := m.ed.BeginMarquee(p, additive); err == nil {
		m.gesture = editor.GestureMarquee
	}
}

func (m *model) move(p geom.Point) {
	var err error
	switch m.gesture {
	case editor.GestureDrag:
		_, err = m.ed.UpdateDrag(p)
	case editor.GestureResize:
		_, err = m.ed.UpdateResize(p)
	case editor.GestureConnect:
		_, err = m.ed.UpdateConnect(p)
	case editor.GestureMarquee:
		_, err = m.ed.UpdateMarquee(p)
	}
	if err != nil {
		m.logger.Debug("gesture update", "gesture", m.gesture, "err", err)
	}
}

func (m *model) release(p geom.Point) {
	m.move(p)
	switch m.gesture {
	case editor.GestureDrag:
		if res, ok := m.ed.EndDrag(); ok {
			m.report(res, fmt.Sprintf("moved %d", len(res.AffectedNodeIDs)))
		}
	case editor.GestureResize:
		if res, ok := m.ed.EndResize(); ok {
			m.report(res, "resized")
		}
	case editor.GestureConnect:
		res, outcome := m.ed.EndConnect()
		switch outcome {
		case interaction.ConnectCreated:
			m.report(res, "connected")
		case interaction.ConnectCancelled:
			m.status = "connection cancelled"
		case interaction.ConnectPreviewing:
			return
		}
	case editor.GestureMarquee:
		if res, ok := m.ed.EndMarquee(); ok {
			m.report(res, "")
		}
	}
	m.gesture = ""
}

func (m model) View() string {
	if m.help {
		return helpView()
	}
	snap := m.ed.Snapshot()
	w, h := m.canvasCells()
	body := strings.Join(render.Grid(snap, w, h, m.styles), "\n")
	if m.showMap {
		p := m.ed.Minimap(geom.Sz(minimapWidth, minimapHeight), 1)
		panel := mapStyle.Render(strings.Join(render.Minimap(snap, p), "\n"))
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, panel)
	}
	return body + "\n" + m.statusLine(snap)
}

func (m model) statusLine(s editor.Snapshot) string {
	name := m.path
	if name == "" {
		name = "[new]"
	}
	parts := []string{
		m.mode.String(),
		name,
		fmt.Sprintf("%.0f%%", s.Transform.Scale*100),
		fmt.Sprintf("%d nodes", len(s.Nodes)),
		fmt.Sprintf("%d selected", len(m.ed.Selection().NodeIDs())),
	}
	if s.CanUndo {
		parts = append(parts, "u:undo")
	}
	if s.CanRedo {
		parts = append(parts, "U:redo")
	}
	line := strings.Join(parts, " | ")
	if m.mode == ModeLabel {
		line += " | " + strings.ReplaceAll(m.label, "\n", "⏎") + "█"
	} else if m.status != "" {
		line += " | " + m.status
	}
	if len([]rune(line)) > m.width && m.width > 0 {
		line = string([]rune(line)[:m.width])
	}
	return statusStyle.Width(max(m.width, 1)).Render(line)
}

func helpView() string {
	return strings.Join([]string{
		"flowcanvas help",
		"===============",
		"",
		"Mouse:",
		"  drag a node            move it (and the rest of the selection)",
		"  drag a bottom-right    resize the node",
		"  drag from a port       connect to another node's port",
		"  drag empty space       box-select; shift adds to the selection",
		"  wheel                  zoom about the pointer",
		"",
		"Keys:",
		"  h/j/k/l, arrows        pan",
		"  + / -                  zoom",
		"  f / 0                  fit to content / reset view",
		"  M                      toggle the minimap; click it to jump",
		"  n                      new node at the centre",
		"  e, enter               edit the selected node's label (ctrl+j: newline)",
		"  a / esc                select all / clear selection or cancel a gesture",
		"  d, delete              delete the selection",
		"  [ / ]                  send to back / bring to front",
		"  c / x / v / D          copy / cut / paste / duplicate",
		"  u / U, ctrl+r          undo / redo",
		"  s                      save",
		"  q                      quit",
		"",
		"Press any key to close this help.",
	}, "\n")
}
