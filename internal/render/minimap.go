package render

import (
	"math"

	"flowcanvas/pkg/editor"
	"flowcanvas/pkg/minimap"
)

// Minimap draws the overview laid out by p: nodes as filled blocks, the
// visible rect as a dotted frame on top.
func Minimap(s editor.Snapshot, p *minimap.Projector) []string {
	size := p.Size()
	g := newGrid(int(size.Width), int(size.Height))
	for _, n := range s.Nodes {
		r := p.ProjectRect(n.Frame)
		x0, y0 := int(math.Floor(r.MinX())), int(math.Floor(r.MinY()))
		x1, y1 := max(int(math.Ceil(r.MaxX()))-1, x0), max(int(math.Ceil(r.MaxY()))-1, y0)
		m := markNone
		if n.Selected {
			m = markSelected
		}
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				g.set(x, y, '#', m)
			}
		}
	}
	g.rect(p.ViewportRect(), '.', '.', ':', markMarquee)

	out := make([]string, len(g.cells))
	for y, row := range g.cells {
		out[y] = string(row)
	}
	return out
}
