// Package history records executed commands as transactions and replays them
// for undo and redo.
package history

import (
	"time"

	"flowcanvas/pkg/command"
)

// DefaultMaxSize is the undo depth when none is configured.
const DefaultMaxSize = 100

// Transaction is one undo unit. Inverses are stored in the order they must run,
// which is the reverse of Commands.
type Transaction struct {
	Name      string
	Commands  []command.Command
	Inverses  []command.Command
	Timestamp time.Time
}

// Stack holds undo and redo entries. The undo side is capped; the oldest entry
// is dropped when a push would exceed the cap.
type Stack struct {
	max  int
	undo []Transaction
	redo []Transaction
}

func NewStack(maxSize int) *Stack {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Stack{max: maxSize}
}

// Push records a new transaction and clears redo.
func (s *Stack) Push(tx Transaction) {
	s.pushUndo(tx)
	s.redo = nil
}

func (s *Stack) pushUndo(tx Transaction) {
	s.undo = append(s.undo, tx)
	if over := len(s.undo) - s.max; over > 0 {
		clear(s.undo[:over])
		s.undo = s.undo[over:]
	}
}

func (s *Stack) popUndo() (Transaction, bool) {
	return pop(&s.undo)
}

func (s *Stack) popRedo() (Transaction, bool) {
	return pop(&s.redo)
}

func pop(list *[]Transaction) (Transaction, bool) {
	n := len(*list)
	if n == 0 {
		return Transaction{}, false
	}
	tx := (*list)[n-1]
	*list = (*list)[:n-1]
	return tx, true
}

func (s *Stack) MaxSize() int   { return s.max }
func (s *Stack) UndoDepth() int { return len(s.undo) }
func (s *Stack) RedoDepth() int { return len(s.redo) }

// PeekUndo returns the transaction Undo would replay.
func (s *Stack) PeekUndo() (Transaction, bool) {
	if len(s.undo) == 0 {
		return Transaction{}, false
	}
	return s.undo[len(s.undo)-1], true
}

// PeekRedo returns the transaction Redo would replay.
func (s *Stack) PeekRedo() (Transaction, bool) {
	if len(s.redo) == 0 {
		return Transaction{}, false
	}
	return s.redo[len(s.redo)-1], true
}

// Names lists the undo entries, oldest first.
func (s *Stack) Names() []string {
	out := make([]string, len(s.undo))
	for i, tx := range s.undo {
		out[i] = tx.Name
	}
	return out
}

func (s *Stack) Clear() {
	s.undo = nil
	s.redo = nil
}
