package command

import "errors"

var (
	// ErrNodeNotFound is returned when a command names a node the host does not have.
	ErrNodeNotFound = errors.New("node not found")

	// ErrEdgeNotFound is returned when a command names an edge the host does not have.
	ErrEdgeNotFound = errors.New("edge not found")

	// ErrNoHost is returned by graph commands on an executor without a host.
	ErrNoHost = errors.New("no graph host attached")

	ErrNoViewport  = errors.New("no viewport attached")
	ErrNoSelection = errors.New("no selection attached")

	// ErrInvalidCommand covers malformed input: empty id lists, self-parenting,
	// duplicate ids and the like.
	ErrInvalidCommand = errors.New("invalid command")

	// ErrRejected is returned when the host declined an edit on read-back.
	ErrRejected = errors.New("edit rejected by host")
)

// Result reports what a command did. A failed result carries Err and no
// inverse; nothing was changed.
type Result struct {
	Success         bool
	NoOp            bool
	AffectedNodeIDs []string
	AffectedEdgeIDs []string
	// Inverse undoes the command when executed right after it.
	Inverse Command
	// Replay is the command as executed, with generated values filled in.
	// Redo replays it so regenerated ids keep matching the recorded inverse.
	Replay Command
	Err    error
}

func failed(err error) Result {
	return Result{Err: err}
}

func noOp() Result {
	return Result{Success: true, NoOp: true}
}

// Outcome is a short label for logs and metrics.
func (r Result) Outcome() string {
	switch {
	case !r.Success:
		return "failed"
	case r.NoOp:
		return "noop"
	}
	return "ok"
}
