package command

import (
	"fmt"

	"flowcanvas/pkg/viewport"
)

// viewportChange applies fn and returns a SetTransform inverse holding the
// transform from before.
func (e *Executor) viewportChange(fn func(*viewport.Controller)) Result {
	if e.view == nil {
		return failed(ErrNoViewport)
	}
	before := e.view.Transform()
	fn(e.view)
	if e.view.Transform() == before {
		return noOp()
	}
	return Result{Success: true, Inverse: SetTransform{Transform: before}}
}

func (e *Executor) fit(ids []string, padding float64) Result {
	if e.view == nil {
		return failed(ErrNoViewport)
	}
	idx, err := e.read()
	if err != nil {
		return failed(err)
	}
	if missing := idx.MissingNodes(ids); len(missing) > 0 {
		return failed(nodeNotFound("fit", missing))
	}
	bounds, ok := idx.Bounds(ids...)
	if !ok {
		return noOp()
	}
	if padding < 0 {
		return failed(fmt.Errorf("fit: negative padding %v: %w", padding, ErrInvalidCommand))
	}
	res := e.viewportChange(func(v *viewport.Controller) { v.Fit(bounds, padding) })
	res.AffectedNodeIDs = ids
	return res
}
