package geom

import "math"

// minPositiveScale keeps clamped scales strictly positive even when a caller
// configures a zero or negative minimum.
const minPositiveScale = 1e-6

// Transform maps canvas space onto screen space: screen = canvas*Scale + Offset.
// It is a value type; every pan or zoom produces a new Transform.
type Transform struct {
	OffsetX float64 `json:"offset_x" yaml:"offset_x"`
	OffsetY float64 `json:"offset_y" yaml:"offset_y"`
	Scale   float64 `json:"scale" yaml:"scale"`
}

// Identity is the transform where screen and canvas coincide.
func Identity() Transform {
	return Transform{Scale: 1}
}

func (t Transform) Offset() Point {
	return Pt(t.OffsetX, t.OffsetY)
}

func (t Transform) withOffset(p Point) Transform {
	t.OffsetX, t.OffsetY = p.X, p.Y
	return t
}

func (t Transform) ScreenToCanvas(p Point) Point {
	return p.Sub(t.Offset()).Div(t.Scale)
}

func (t Transform) CanvasToScreen(p Point) Point {
	return p.Mul(t.Scale).Add(t.Offset())
}

func (t Transform) ScreenToCanvasSize(s Size) Size {
	return Sz(s.Width/t.Scale, s.Height/t.Scale)
}

func (t Transform) CanvasToScreenSize(s Size) Size {
	return s.Mul(t.Scale)
}

func (t Transform) ScreenToCanvasRect(r Rect) Rect {
	return Rect{Origin: t.ScreenToCanvas(r.Origin), Size: t.ScreenToCanvasSize(r.Size)}
}

func (t Transform) CanvasToScreenRect(r Rect) Rect {
	return Rect{Origin: t.CanvasToScreen(r.Origin), Size: t.CanvasToScreenSize(r.Size)}
}

// PannedBy translates the transform by a screen-space delta.
func (t Transform) PannedBy(delta Point) Transform {
	return t.withOffset(t.Offset().Add(delta))
}

// ZoomedBy multiplies the scale by factor, clamped to [minScale, maxScale], keeping
// the canvas point under about (a screen point) fixed on screen.
func (t Transform) ZoomedBy(factor float64, about Point, minScale, maxScale float64) Transform {
	return t.ZoomedTo(t.Scale*factor, about, minScale, maxScale)
}

// ZoomedTo sets the scale to target, clamped to [minScale, maxScale], keeping the
// canvas point under about fixed on screen.
func (t Transform) ZoomedTo(target float64, about Point, minScale, maxScale float64) Transform {
	newScale := ClampScale(target, minScale, maxScale)
	ratio := newScale / t.Scale
	offset := about.Sub(about.Sub(t.Offset()).Mul(ratio))
	return Transform{OffsetX: offset.X, OffsetY: offset.Y, Scale: newScale}
}

// ClampScale bounds s to [minScale, maxScale] and never returns a non-positive scale.
func ClampScale(s, minScale, maxScale float64) float64 {
	if minScale < minPositiveScale {
		minScale = minPositiveScale
	}
	if maxScale < minScale {
		maxScale = minScale
	}
	if math.IsNaN(s) {
		return minScale
	}
	return math.Min(math.Max(s, minScale), maxScale)
}

// ApproxEqual compares offsets and scale within tol.
func (t Transform) ApproxEqual(o Transform, tol float64) bool {
	return math.Abs(t.OffsetX-o.OffsetX) <= tol &&
		math.Abs(t.OffsetY-o.OffsetY) <= tol &&
		math.Abs(t.Scale-o.Scale) <= tol
}
