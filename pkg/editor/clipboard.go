package editor

import (
	"flowcanvas/pkg/clipboard"
	"flowcanvas/pkg/command"
	"flowcanvas/pkg/geom"
)

// Copy writes the selected nodes to the clipboard. Without a clipboard it is
// a no-op.
func (e *Editor) Copy() command.Result {
	if e.clip == nil {
		return e.history.Perform(command.Copy{})
	}
	if err := e.clip.Copy(); err != nil {
		return command.Result{Err: err}
	}
	return command.Result{Success: true, NoOp: true, AffectedNodeIDs: e.sel.NodeIDs()}
}

// Cut copies the selection, then deletes it as one undoable step.
func (e *Editor) Cut() command.Result {
	if e.clip == nil {
		return e.history.Perform(command.Cut{})
	}
	cmd, err := e.clip.Cut()
	if err != nil {
		return command.Result{Err: err}
	}
	return e.history.Perform(cmd)
}

// Paste inserts the clipboard content and selects it. Plain text lands at at,
// in canvas space.
func (e *Editor) Paste(at geom.Point) command.Result {
	if e.clip == nil {
		return e.history.Perform(command.Paste{})
	}
	ins, err := e.clip.Paste(at)
	if err != nil {
		return command.Result{Err: err}
	}
	return e.insertAndSelect("paste", ins)
}

// Duplicate copies the selection in place, offset, without touching the clipboard.
func (e *Editor) Duplicate() command.Result {
	if e.clip == nil {
		return e.history.Perform(command.Duplicate{})
	}
	ins, err := e.clip.Duplicate()
	if err != nil {
		return command.Result{Err: err}
	}
	return e.insertAndSelect("duplicate", ins)
}

func (e *Editor) insertAndSelect(name string, ins command.InsertNodes) command.Result {
	results, err := e.history.Transaction(name, ins, command.Select{NodeIDs: clipboard.NodeIDs(ins)})
	if err != nil {
		return command.Result{Err: err}
	}
	return results[0]
}
