package viewport

import (
	"math"
	"time"

	"flowcanvas/pkg/geom"
)

// AutoPanConfig tunes edge auto-pan. Margin and Speed are in screen units; Speed
// is the pan per tick at the very edge.
type AutoPanConfig struct {
	EdgeMargin float64
	Speed      float64
	Interval   time.Duration
}

func DefaultAutoPanConfig() AutoPanConfig {
	return AutoPanConfig{EdgeMargin: 40, Speed: 15, Interval: 16 * time.Millisecond}
}

// AutoPan pans the viewport at a fixed cadence while a drag holds the pointer
// near a viewport edge. Each tick re-checks isDragging and stops as soon as the
// drag is over, so the timer never outlives its gesture.
type AutoPan struct {
	cfg        AutoPanConfig
	ctrl       *Controller
	sched      Scheduler
	isDragging func() bool
	onTick     func(delta geom.Point)

	pointer geom.Point
	timer   Timer
}

// NewAutoPan wires auto-pan to ctrl. onTick runs after every pan so the drag can
// re-project the unchanged screen pointer into canvas space; it may be nil.
func NewAutoPan(ctrl *Controller, sched Scheduler, cfg AutoPanConfig, isDragging func() bool, onTick func(delta geom.Point)) *AutoPan {
	if sched == nil {
		sched = NewQueueScheduler(nil)
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultAutoPanConfig().Interval
	}
	return &AutoPan{cfg: cfg, ctrl: ctrl, sched: sched, isDragging: isDragging, onTick: onTick}
}

// Velocity returns the per-tick pan for a screen pointer; zero away from the edges.
func (a *AutoPan) Velocity(pointer geom.Point) geom.Point {
	size := a.ctrl.Size()
	return geom.Pt(
		a.axis(pointer.X, size.Width),
		a.axis(pointer.Y, size.Height),
	)
}

func (a *AutoPan) axis(v, extent float64) float64 {
	m := a.cfg.EdgeMargin
	if m <= 0 || extent <= 0 {
		return 0
	}
	switch {
	case v < m:
		return a.cfg.Speed * math.Min((m-v)/m, 1)
	case v > extent-m:
		return -a.cfg.Speed * math.Min((v-(extent-m))/m, 1)
	}
	return 0
}

// Track records the latest screen pointer and starts the cadence when the
// pointer is in an edge band during a drag.
func (a *AutoPan) Track(pointer geom.Point) {
	a.pointer = pointer
	if a.timer != nil || !a.dragging() {
		return
	}
	if a.Velocity(pointer) != (geom.Point{}) {
		a.schedule()
	}
}

func (a *AutoPan) dragging() bool {
	return a.isDragging != nil && a.isDragging()
}

func (a *AutoPan) schedule() {
	a.timer = a.sched.AfterFunc(a.cfg.Interval, a.tick)
}

func (a *AutoPan) tick() {
	a.timer = nil
	if !a.dragging() {
		return
	}
	v := a.Velocity(a.pointer)
	if v == (geom.Point{}) {
		return
	}
	a.ctrl.Pan(v)
	if a.onTick != nil {
		a.onTick(v)
	}
	a.schedule()
}

// Running reports whether a tick is scheduled.
func (a *AutoPan) Running() bool {
	return a.timer != nil
}

// Stop cancels any scheduled tick.
func (a *AutoPan) Stop() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}
