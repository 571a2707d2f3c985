package editor

import (
	"time"

	"flowcanvas/pkg/command"
	"flowcanvas/pkg/geom"
)

// Mount records the on-screen size and arms the settle delay. When it fires
// the view is fitted to the content, if FitOnMount is set.
func (e *Editor) Mount(size geom.Size) {
	e.view.SetSize(size)
	e.settled = false
	e.settle.Schedule(e.settings.SettleDelay, e.settleNow)
	e.logger.Debug("mounted", "width", size.Width, "height", size.Height)
}

func (e *Editor) settleNow() {
	e.settled = true
	if !e.settings.FitOnMount {
		return
	}
	if res := e.Execute(command.FitView{Padding: e.settings.FitPadding}); res.Err != nil {
		e.logger.Warn("fit on mount failed", "error", res.Err)
	}
}

// Settled reports whether the settle delay has elapsed since Mount.
func (e *Editor) Settled() bool {
	return e.settled
}

// SetViewportSize follows a host resize. Before the view has settled the
// delay restarts so the fit uses the final size.
func (e *Editor) SetViewportSize(size geom.Size) {
	e.view.SetSize(size)
	if e.settle.Pending() {
		e.settle.Schedule(e.settings.SettleDelay, e.settleNow)
	}
}

// Close cancels the pending timers and every gesture. The editor stays usable
// for commands.
func (e *Editor) Close() {
	e.settle.Cancel()
	e.autoPan.Stop()
	e.CancelGestures()
}

// RunPending runs the settle and auto-pan callbacks that have come due and
// returns how many ran. Without WithScheduler the editor queues its timers, and
// the host drains them from its own loop; otherwise RunPending does nothing.
func (e *Editor) RunPending() int {
	if e.queue == nil {
		return 0
	}
	return e.queue.RunDue()
}

// NextDeadline reports when RunPending will next have work.
func (e *Editor) NextDeadline() (time.Time, bool) {
	if e.queue == nil {
		return time.Time{}, false
	}
	return e.queue.Next()
}
