package history

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"flowcanvas/internal/logging"
	"flowcanvas/pkg/command"
	"flowcanvas/pkg/metrics"
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")

	// ErrEmptyTransaction is returned for a transaction with no commands.
	ErrEmptyTransaction = errors.New("empty transaction")

	// ErrReplayFailed is returned when a recorded step no longer applies, usually
	// because the host changed the graph outside the executor. Steps of the
	// transaction that had already run are reverted and the transaction is
	// dropped from both stacks.
	ErrReplayFailed = errors.New("history replay failed")
)

// Manager runs commands through an executor and records the undoable ones.
type Manager struct {
	exec    *command.Executor
	stack   *Stack
	logger  *slog.Logger
	metrics *metrics.Recorder
	now     func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithMaxSize caps the undo depth.
func WithMaxSize(n int) Option {
	return func(m *Manager) {
		m.stack = NewStack(n)
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

func WithMetrics(r *metrics.Recorder) Option {
	return func(m *Manager) {
		m.metrics = r
	}
}

// WithClock replaces time.Now for transaction timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func New(exec *command.Executor, opts ...Option) *Manager {
	m := &Manager{
		exec:  exec,
		stack: NewStack(DefaultMaxSize),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = logging.NewNop()
	}
	return m
}

func (m *Manager) Executor() *command.Executor { return m.exec }
func (m *Manager) Stack() *Stack               { return m.stack }

// Execute runs cmd without recording it.
func (m *Manager) Execute(cmd command.Command) command.Result {
	return m.exec.Execute(cmd)
}

// Perform runs cmd and records it when it is undoable and produced an inverse.
func (m *Manager) Perform(cmd command.Command) command.Result {
	res := m.exec.Execute(cmd)
	if recordable(cmd, res) {
		m.push(Transaction{
			Name:      cmd.Name(),
			Commands:  []command.Command{res.Replay},
			Inverses:  []command.Command{res.Inverse},
			Timestamp: m.now(),
		})
	}
	return res
}

func recordable(cmd command.Command, res command.Result) bool {
	return res.Success && !res.NoOp && res.Inverse != nil && command.Undoable(cmd)
}

// Transaction runs cmds in order as one undo unit. If a step fails, the steps
// already applied are reverted, nothing is recorded and the step's error is
// returned.
func (m *Manager) Transaction(name string, cmds ...command.Command) ([]command.Result, error) {
	if len(cmds) == 0 {
		return nil, fmt.Errorf("transaction %q: %w", name, ErrEmptyTransaction)
	}
	results := make([]command.Result, 0, len(cmds))
	var applied []command.Result
	tx := Transaction{Name: name}
	for i, cmd := range cmds {
		res := m.exec.Execute(cmd)
		results = append(results, res)
		if !res.Success {
			m.rollback(applied)
			m.logger.Warn("transaction rolled back", "name", name, "step", i, "error", res.Err)
			return results, fmt.Errorf("transaction %q step %d (%s): %w", name, i, nameOf(cmd), res.Err)
		}
		if res.Inverse != nil && !res.NoOp {
			applied = append(applied, res)
		}
		if recordable(cmd, res) {
			tx.Commands = append(tx.Commands, res.Replay)
			tx.Inverses = append(tx.Inverses, res.Inverse)
		}
	}
	if len(tx.Commands) > 0 {
		slices.Reverse(tx.Inverses)
		tx.Timestamp = m.now()
		m.push(tx)
	}
	return results, nil
}

func nameOf(cmd command.Command) string {
	if cmd == nil {
		return "nil"
	}
	return cmd.Name()
}

func (m *Manager) rollback(applied []command.Result) {
	for i := len(applied) - 1; i >= 0; i-- {
		if res := m.exec.Execute(applied[i].Inverse); !res.Success {
			m.logger.Error("rollback step failed", "command", applied[i].Inverse.Name(), "error", res.Err)
		}
	}
}

func (m *Manager) push(tx Transaction) {
	m.stack.Push(tx)
	m.metrics.HistoryDepth(m.stack.UndoDepth())
	m.logger.Debug("transaction recorded", "name", tx.Name, "steps", len(tx.Commands), "depth", m.stack.UndoDepth())
}

// Undo reverts the most recent transaction by executing its inverses. The
// inverses are not themselves recorded.
func (m *Manager) Undo() error {
	tx, ok := m.stack.popUndo()
	if !ok {
		return ErrNothingToUndo
	}
	_, err := m.replay(tx, tx.Inverses)
	m.metrics.HistoryDepth(m.stack.UndoDepth())
	if err != nil {
		return err
	}
	m.stack.redo = append(m.stack.redo, tx)
	m.metrics.Replay(metrics.DirectionUndo)
	m.logger.Info("undo", "name", tx.Name)
	return nil
}

// Redo re-executes the forward commands of the most recently undone
// transaction and records it again, with inverses taken from this run.
func (m *Manager) Redo() error {
	tx, ok := m.stack.popRedo()
	if !ok {
		return ErrNothingToRedo
	}
	results, err := m.replay(tx, tx.Commands)
	if err != nil {
		return err
	}
	again := Transaction{Name: tx.Name, Timestamp: m.now()}
	for _, res := range results {
		if res.Inverse == nil || res.NoOp {
			continue
		}
		again.Commands = append(again.Commands, res.Replay)
		again.Inverses = append(again.Inverses, res.Inverse)
	}
	if len(again.Commands) > 0 {
		slices.Reverse(again.Inverses)
		m.stack.pushUndo(again)
	}
	m.metrics.HistoryDepth(m.stack.UndoDepth())
	m.metrics.Replay(metrics.DirectionRedo)
	m.logger.Info("redo", "name", tx.Name)
	return nil
}

// replay runs cmds in order. When a step fails, the steps already applied are
// reverted so the graph is left as it was before the replay.
func (m *Manager) replay(tx Transaction, cmds []command.Command) ([]command.Result, error) {
	results := make([]command.Result, 0, len(cmds))
	var applied []command.Result
	for i, cmd := range cmds {
		res := m.exec.Execute(cmd)
		if !res.Success {
			m.rollback(applied)
			m.logger.Error("history replay failed", "name", tx.Name, "step", i, "error", res.Err)
			return results, fmt.Errorf("%s step %d: %w: %w", tx.Name, i, ErrReplayFailed, res.Err)
		}
		results = append(results, res)
		if res.Inverse != nil && !res.NoOp {
			applied = append(applied, res)
		}
	}
	return results, nil
}

func (m *Manager) CanUndo() bool { return m.stack.UndoDepth() > 0 }
func (m *Manager) CanRedo() bool { return m.stack.RedoDepth() > 0 }
func (m *Manager) Depth() int    { return m.stack.UndoDepth() }

// UndoName returns the name of the transaction Undo would revert.
func (m *Manager) UndoName() (string, bool) {
	tx, ok := m.stack.PeekUndo()
	return tx.Name, ok
}

// RedoName returns the name of the transaction Redo would re-apply.
func (m *Manager) RedoName() (string, bool) {
	tx, ok := m.stack.PeekRedo()
	return tx.Name, ok
}

func (m *Manager) Clear() {
	m.stack.Clear()
	m.metrics.HistoryDepth(0)
}
