// Package render draws editor snapshots: as terminal rows for the TUI and text
// export, and as PNG images.
package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"flowcanvas/pkg/editor"
	"flowcanvas/pkg/geom"
)

type mark uint8

const (
	markNone mark = iota
	markSelected
	markPreview
	markMarquee
	markValid
	markInvalid
)

// Styles colours the marked cells of a grid.
type Styles struct {
	Selected lipgloss.Style
	Preview  lipgloss.Style
	Marquee  lipgloss.Style
	Valid    lipgloss.Style
	Invalid  lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		Preview:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Marquee:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Valid:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Invalid:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

func (st Styles) style(m mark) (lipgloss.Style, bool) {
	switch m {
	case markSelected:
		return st.Selected, true
	case markPreview:
		return st.Preview, true
	case markMarquee:
		return st.Marquee, true
	case markValid:
		return st.Valid, true
	case markInvalid:
		return st.Invalid, true
	}
	return lipgloss.Style{}, false
}

// grid is a width x height cell buffer in screen space, one cell per unit.
type grid struct {
	cells [][]rune
	marks [][]mark
}

func newGrid(width, height int) *grid {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	g := &grid{cells: make([][]rune, height), marks: make([][]mark, height)}
	for y := range g.cells {
		g.cells[y] = []rune(strings.Repeat(" ", width))
		g.marks[y] = make([]mark, width)
	}
	return g
}

func (g *grid) set(x, y int, r rune, m mark) {
	if y < 0 || y >= len(g.cells) || x < 0 || x >= len(g.cells[y]) {
		return
	}
	g.cells[y][x] = r
	g.marks[y][x] = m
}

func cell(p geom.Point) (int, int) {
	return int(math.Round(p.X)), int(math.Round(p.Y))
}

// rect draws a border; frame is in screen space.
func (g *grid) rect(frame geom.Rect, corner, horizontal, vertical rune, m mark) (x0, y0, x1, y1 int) {
	x0, y0 = cell(frame.Origin)
	x1, y1 = cell(geom.Pt(frame.MaxX(), frame.MaxY()))
	x1, y1 = max(x1-1, x0), max(y1-1, y0)
	for x := x0; x <= x1; x++ {
		g.set(x, y0, horizontal, m)
		g.set(x, y1, horizontal, m)
	}
	for y := y0; y <= y1; y++ {
		g.set(x0, y, vertical, m)
		g.set(x1, y, vertical, m)
	}
	g.set(x0, y0, corner, m)
	g.set(x1, y0, corner, m)
	g.set(x0, y1, corner, m)
	g.set(x1, y1, corner, m)
	return x0, y0, x1, y1
}

func (g *grid) clear(x0, y0, x1, y1 int) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			g.set(x, y, ' ', markNone)
		}
	}
}

// elbow draws a horizontal run from a then a vertical run into b, ending in an
// arrowhead when arrow is set.
func (g *grid) elbow(a, b geom.Point, line rune, arrow bool, m mark) {
	ax, ay := cell(a)
	bx, by := cell(b)
	h, v := '-', '|'
	if line != 0 {
		h, v = line, line
	}
	step := func(from, to int) int {
		if to < from {
			return -1
		}
		return 1
	}
	for x := ax; x != bx; x += step(ax, bx) {
		g.set(x, ay, h, m)
	}
	for y := ay; y != by; y += step(ay, by) {
		g.set(bx, y, v, m)
	}
	if ax != bx && ay != by && line == 0 {
		g.set(bx, ay, '+', m)
	}
	head := h
	if arrow {
		switch {
		case by > ay:
			head = 'v'
		case by < ay:
			head = '^'
		case bx < ax:
			head = '<'
		default:
			head = '>'
		}
	}
	g.set(bx, by, head, m)
}

func (g *grid) text(x, y int, s string, limit int, m mark) {
	for i, r := range []rune(s) {
		if i >= limit {
			break
		}
		g.set(x+i, y, r, m)
	}
}

func (g *grid) draw(s editor.Snapshot) {
	t := s.Transform
	for _, e := range s.Edges {
		m := markNone
		if e.Selected {
			m = markSelected
		}
		g.elbow(t.CanvasToScreen(e.From), t.CanvasToScreen(e.To), 0, true, m)
	}
	if c := s.Connection; c != nil {
		m := markInvalid
		if c.Valid {
			m = markValid
		}
		g.elbow(t.CanvasToScreen(c.From), t.CanvasToScreen(c.To), '.', true, m)
	}

	for _, n := range s.Nodes {
		m := markNone
		corner, horizontal, vertical := '+', '-', '|'
		switch {
		case n.Preview:
			m = markPreview
		case n.Selected:
			m = markSelected
			corner, horizontal, vertical = '#', '#', '#'
		}
		x0, y0, x1, y1 := g.rect(t.CanvasToScreenRect(n.Frame), corner, horizontal, vertical, m)
		g.clear(x0+1, y0+1, x1-1, y1-1)
		for i, line := range strings.Split(n.Label, "\n") {
			y := y0 + 1 + i
			if y >= y1 {
				break
			}
			g.text(x0+1, y, line, x1-x0-1, m)
		}
		for _, p := range n.Ports {
			x, y := cell(t.CanvasToScreen(p.Position))
			x, y = min(max(x, x0), x1), min(max(y, y0), y1)
			g.set(x, y, 'o', m)
		}
	}

	if s.BoxRect != nil {
		g.rect(t.CanvasToScreenRect(*s.BoxRect), '.', '.', ':', markMarquee)
	}
}

// Lines renders s into width x height rows of plain text.
func Lines(s editor.Snapshot, width, height int) []string {
	g := newGrid(width, height)
	g.draw(s)
	out := make([]string, len(g.cells))
	for y, row := range g.cells {
		out[y] = string(row)
	}
	return out
}

// Grid renders s like Lines, styling selected, previewed and gesture cells.
func Grid(s editor.Snapshot, width, height int, st Styles) []string {
	g := newGrid(width, height)
	g.draw(s)
	out := make([]string, len(g.cells))
	for y, row := range g.cells {
		var b strings.Builder
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && g.marks[y][x] == g.marks[y][start] {
				continue
			}
			run := string(row[start:x])
			if style, ok := st.style(g.marks[y][start]); ok {
				run = style.Render(run)
			}
			b.WriteString(run)
			start = x
		}
		out[y] = b.String()
	}
	return out
}
