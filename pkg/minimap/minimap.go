// Package minimap maps canvas space onto a small overview and back, for
// click-to-navigate and viewport dragging.
package minimap

import (
	"math"

	"flowcanvas/pkg/geom"
)

// Projector is one layout of the overview. Rebuild it whenever the content or
// the visible rect changes.
type Projector struct {
	world   geom.Rect
	visible geom.Rect
	size    geom.Size
	scale   float64
	offset  geom.Point
}

// New fits the union of content and visible into size, leaving padding on
// every side, with one uniform scale and the result centred. A zero content
// rect means there are no nodes.
func New(content, visible geom.Rect, size geom.Size, padding float64) *Projector {
	world := visible
	if content != (geom.Rect{}) {
		world = world.Union(content)
	}

	avail := geom.Sz(size.Width-2*padding, size.Height-2*padding)
	if avail.IsEmpty() {
		avail = size
	}
	scale := math.Inf(1)
	if world.Size.Width > 0 {
		scale = avail.Width / world.Size.Width
	}
	if world.Size.Height > 0 {
		scale = math.Min(scale, avail.Height/world.Size.Height)
	}
	if math.IsInf(scale, 1) || scale <= 0 {
		scale = 1
	}

	drawn := world.Size.Mul(scale)
	offset := geom.Pt((size.Width-drawn.Width)/2, (size.Height-drawn.Height)/2)
	return &Projector{world: world, visible: visible, size: size, scale: scale, offset: offset}
}

// Scale is minimap units per canvas unit.
func (p *Projector) Scale() float64 { return p.scale }

// World is the canvas-space rect the minimap shows.
func (p *Projector) World() geom.Rect { return p.world }

func (p *Projector) Size() geom.Size { return p.size }

// Project maps a canvas point into minimap space.
func (p *Projector) Project(canvas geom.Point) geom.Point {
	return canvas.Sub(p.world.Origin).Mul(p.scale).Add(p.offset)
}

// Unproject maps a minimap point back to canvas space.
func (p *Projector) Unproject(mini geom.Point) geom.Point {
	return mini.Sub(p.offset).Div(p.scale).Add(p.world.Origin)
}

func (p *Projector) ProjectRect(r geom.Rect) geom.Rect {
	return geom.Rect{Origin: p.Project(r.Origin), Size: r.Size.Mul(p.scale)}
}

// ViewportRect is the visible canvas rect drawn on the minimap.
func (p *Projector) ViewportRect() geom.Rect {
	return p.ProjectRect(p.visible)
}

// NavigateTo returns the canvas point a click at mini should centre on.
func (p *Projector) NavigateTo(mini geom.Point) geom.Point {
	return p.Unproject(mini)
}

// DragViewport returns the transform after the viewport rect has been dragged
// on the minimap from startMini to nowMini, starting at transform start.
func (p *Projector) DragViewport(startMini, nowMini geom.Point, start geom.Transform) geom.Transform {
	canvasDelta := nowMini.Sub(startMini).Div(p.scale)
	return start.PannedBy(canvasDelta.Mul(-start.Scale))
}
