// Package viewport owns the current screen/canvas transform and the two timed
// behaviours tied to it: the startup settle delay and drag auto-pan.
package viewport

import (
	"math"

	"flowcanvas/pkg/geom"
)

const (
	DefaultMinScale = 0.1
	DefaultMaxScale = 4.0
)

// Controller holds the transform and the viewport's on-screen size.
type Controller struct {
	transform geom.Transform
	size      geom.Size
	minScale  float64
	maxScale  float64
}

// New returns a controller at the identity transform.
func New(size geom.Size, minScale, maxScale float64) *Controller {
	if minScale <= 0 {
		minScale = DefaultMinScale
	}
	if maxScale < minScale {
		maxScale = math.Max(DefaultMaxScale, minScale)
	}
	return &Controller{
		transform: geom.Identity(),
		size:      size,
		minScale:  minScale,
		maxScale:  maxScale,
	}
}

func (c *Controller) Transform() geom.Transform {
	return c.transform
}

// SetTransform replaces the transform, clamping its scale.
func (c *Controller) SetTransform(t geom.Transform) {
	t.Scale = geom.ClampScale(t.Scale, c.minScale, c.maxScale)
	c.transform = t
}

func (c *Controller) Size() geom.Size {
	return c.size
}

func (c *Controller) SetSize(s geom.Size) {
	c.size = s
}

func (c *Controller) ScaleLimits() (minScale, maxScale float64) {
	return c.minScale, c.maxScale
}

// ZoomTo sets an absolute scale about a screen-space anchor.
func (c *Controller) ZoomTo(scale float64, anchor geom.Point) {
	c.transform = c.transform.ZoomedTo(scale, anchor, c.minScale, c.maxScale)
}

// ZoomBy multiplies the scale about a screen-space anchor.
func (c *Controller) ZoomBy(factor float64, anchor geom.Point) {
	c.transform = c.transform.ZoomedBy(factor, anchor, c.minScale, c.maxScale)
}

// Pan translates by a screen-space delta.
func (c *Controller) Pan(delta geom.Point) {
	c.transform = c.transform.PannedBy(delta)
}

// Center returns the screen-space centre of the viewport.
func (c *Controller) Center() geom.Point {
	return geom.Pt(c.size.Width/2, c.size.Height/2)
}

// PanToCenter moves the canvas point p to the centre of the viewport.
func (c *Controller) PanToCenter(p geom.Point) {
	onScreen := c.transform.CanvasToScreen(p)
	c.Pan(c.Center().Sub(onScreen))
}

// Fit scales and centres the canvas rect bounds inside the viewport, leaving
// padding screen units on every side. An empty bounds or viewport is a no-op and
// reports false.
func (c *Controller) Fit(bounds geom.Rect, padding float64) bool {
	if c.size.IsEmpty() || bounds.Size.Width < 0 || bounds.Size.Height < 0 {
		return false
	}
	avail := geom.Sz(c.size.Width-2*padding, c.size.Height-2*padding)
	if avail.IsEmpty() {
		avail = c.size
	}
	scale := c.maxScale
	if bounds.Size.Width > 0 {
		scale = math.Min(scale, avail.Width/bounds.Size.Width)
	}
	if bounds.Size.Height > 0 {
		scale = math.Min(scale, avail.Height/bounds.Size.Height)
	}
	scale = geom.ClampScale(scale, c.minScale, c.maxScale)

	center := bounds.Center().Mul(scale)
	offset := c.Center().Sub(center)
	c.transform = geom.Transform{OffsetX: offset.X, OffsetY: offset.Y, Scale: scale}
	return true
}

// Reset returns to the identity transform.
func (c *Controller) Reset() {
	c.transform = geom.Identity()
}

// VisibleRect is the canvas-space rect currently on screen.
func (c *Controller) VisibleRect() geom.Rect {
	return c.transform.ScreenToCanvasRect(geom.Rect{Size: c.size})
}
