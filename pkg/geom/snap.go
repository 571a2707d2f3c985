package geom

import "math"

// SnapGrid quantizes canvas points to a square lattice of the given cell size.
type SnapGrid struct {
	Size    float64
	Enabled bool
}

func (g SnapGrid) active() bool {
	return g.Enabled && g.Size > 0
}

// Snap returns p rounded to the nearest lattice point, or p unchanged when the
// grid is disabled.
func (g SnapGrid) Snap(p Point) Point {
	if !g.active() {
		return p
	}
	return Pt(g.snap(p.X), g.snap(p.Y))
}

// SnapSize rounds each dimension to the lattice.
func (g SnapGrid) SnapSize(s Size) Size {
	if !g.active() {
		return s
	}
	return Sz(g.snap(s.Width), g.snap(s.Height))
}

func (g SnapGrid) snap(v float64) float64 {
	return math.Round(v/g.Size) * g.Size
}
