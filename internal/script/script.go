// Package script runs YAML command scripts against an editor. A script is a
// list of steps; each names an operation and carries its arguments:
//
//	steps:
//	  - op: move_nodes
//	    args: {ids: [a], delta: {x: 10, y: 0}}
//	  - op: transaction
//	    name: tidy
//	    steps:
//	      - op: resize_node
//	        args: {id: a, size: {width: 40, height: 40}, anchor: center}
//	  - op: undo
//
// Every step is decoded before the first one runs, so a typo never leaves a
// half-applied script behind.
package script

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"flowcanvas/pkg/command"
	"flowcanvas/pkg/editor"
	"flowcanvas/pkg/graph"
)

var (
	ErrUnknownOp = errors.New("unknown op")
	// ErrStepFailed wraps the error of the step that stopped a run.
	ErrStepFailed = errors.New("step failed")
)

// Pseudo-ops handled by the runner rather than the command vocabulary.
const (
	OpTransaction = "transaction"
	OpUndo        = "undo"
	OpRedo        = "redo"
)

// Script is a parsed script file.
type Script struct {
	// KeepGoing runs the remaining steps after a failure.
	KeepGoing bool   `yaml:"keep_going"`
	Steps     []Step `yaml:"steps"`
}

type Step struct {
	Op    string    `yaml:"op"`
	Name  string    `yaml:"name,omitempty"`
	Args  yaml.Node `yaml:"args,omitempty"`
	Steps []Step    `yaml:"steps,omitempty"`
}

// StepResult reports one top-level step.
type StepResult struct {
	Index    int      `json:"index" yaml:"index"`
	Op       string   `json:"op" yaml:"op"`
	Outcome  string   `json:"outcome" yaml:"outcome"`
	Nodes    []string `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	Edges    []string `json:"edges,omitempty" yaml:"edges,omitempty"`
	Err      error    `json:"-" yaml:"-"`
	ErrorMsg string   `json:"error,omitempty" yaml:"error,omitempty"`
}

type decoder func(args *yaml.Node) (command.Command, error)

func decodeAs[T command.Command](args *yaml.Node) (command.Command, error) {
	var c T
	if args.Kind != 0 {
		if err := args.Decode(&c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

var ops = map[string]decoder{
	"set_transform":         decodeAs[command.SetTransform],
	"zoom_to":               decodeAs[command.ZoomTo],
	"zoom_by":               decodeAs[command.ZoomBy],
	"pan":                   decodeAs[command.Pan],
	"pan_to_center":         decodeAs[command.PanToCenter],
	"fit_view":              decodeAs[command.FitView],
	"fit_nodes":             decodeAs[command.FitNodes],
	"reset_view":            decodeAs[command.ResetView],
	"select":                decodeAs[command.Select],
	"select_all":            decodeAs[command.SelectAll],
	"clear_selection":       decodeAs[command.ClearSelection],
	"toggle_node_selection": decodeAs[command.ToggleNodeSelection],
	"toggle_edge_selection": decodeAs[command.ToggleEdgeSelection],
	"move_nodes":            decodeAs[command.MoveNodes],
	"move_node_to":          decodeAs[command.MoveNodeTo],
	"resize_node":           decodeAs[command.ResizeNode],
	"resize_node_by_scale":  decodeAs[command.ResizeNodeByScale],
	"resize_node_to_width":  decodeAs[command.ResizeNodeToWidth],
	"delete_nodes":          decodeAs[command.DeleteNodes],
	"set_node_parent":       decodeAs[command.SetNodeParent],
	"set_node_z_index":      decodeAs[command.SetNodeZIndex],
	"set_node_z_indices":    decodeAs[command.SetNodeZIndices],
	"bring_to_front":        decodeAs[command.BringToFront],
	"send_to_back":          decodeAs[command.SendToBack],
	"insert_nodes":          decodeInsert,
	"create_edge":           decodeAs[command.CreateEdge],
	"delete_edges":          decodeAs[command.DeleteEdges],
	"delete_selection":      decodeAs[command.DeleteSelection],
	"duplicate":             decodeAs[command.Duplicate],
	"copy":                  decodeAs[command.Copy],
	"cut":                   decodeAs[command.Cut],
	"paste":                 decodeAs[command.Paste],
}

// Ops lists every op name a script may use, pseudo-ops included.
func Ops() []string {
	out := []string{OpTransaction, OpUndo, OpRedo}
	for name := range ops {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

type insertArgs struct {
	Nodes []struct {
		ID     string  `yaml:"id"`
		X      float64 `yaml:"x"`
		Y      float64 `yaml:"y"`
		Width  float64 `yaml:"width"`
		Height float64 `yaml:"height"`
		Z      int     `yaml:"z"`
		Parent string  `yaml:"parent"`
		Label  string  `yaml:"label"`
	} `yaml:"nodes"`
	Edges []graph.EdgeRecord `yaml:"edges"`
}

func decodeInsert(args *yaml.Node) (command.Command, error) {
	var in insertArgs
	if err := args.Decode(&in); err != nil {
		return nil, err
	}
	var c command.InsertNodes
	for _, n := range in.Nodes {
		b := graph.Box{BoxID: n.ID, X: n.X, Y: n.Y, Width: n.Width, Height: n.Height, Z: n.Z, Parent: n.Parent}
		if n.Label != "" {
			b.SetText(n.Label)
		}
		c.Nodes = append(c.Nodes, b)
	}
	c.Edges = in.Edges
	return c, nil
}

// Parse reads a script.
func Parse(r io.Reader) (Script, error) {
	var s Script
	if err := yaml.NewDecoder(r).Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Script{}, fmt.Errorf("parse script: %w", err)
	}
	return s, nil
}

// Load reads the script at path.
func Load(path string) (Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return Script{}, err
	}
	defer f.Close()
	return Parse(f)
}

// action is a decoded top-level step.
type action struct {
	op   string
	name string
	cmds []command.Command
}

func compile(steps []Step) ([]action, error) {
	out := make([]action, 0, len(steps))
	for i, st := range steps {
		a := action{op: st.Op, name: st.Name}
		switch st.Op {
		case OpUndo, OpRedo:
		case OpTransaction:
			if a.name == "" {
				a.name = fmt.Sprintf("step %d", i)
			}
			for j, sub := range st.Steps {
				cmd, err := decodeStep(sub)
				if err != nil {
					return nil, fmt.Errorf("step %d.%d: %w", i, j, err)
				}
				a.cmds = append(a.cmds, cmd)
			}
		default:
			cmd, err := decodeStep(st)
			if err != nil {
				return nil, fmt.Errorf("step %d: %w", i, err)
			}
			a.cmds = []command.Command{cmd}
		}
		out = append(out, a)
	}
	return out, nil
}

func decodeStep(st Step) (command.Command, error) {
	dec, ok := ops[st.Op]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownOp, st.Op)
	}
	cmd, err := dec(&st.Args)
	if err != nil {
		return nil, fmt.Errorf("%s args: %w", st.Op, err)
	}
	return cmd, nil
}

// Run executes s against ed, recording undoable steps. It stops at the first
// failing step unless KeepGoing is set; the returned error wraps ErrStepFailed.
func Run(ed *editor.Editor, s Script) ([]StepResult, error) {
	actions, err := compile(s.Steps)
	if err != nil {
		return nil, err
	}
	results := make([]StepResult, 0, len(actions))
	var first error
	for i, a := range actions {
		res := run(ed, a)
		res.Index = i
		results = append(results, res)
		if res.Err == nil {
			continue
		}
		if first == nil {
			first = fmt.Errorf("%w: step %d (%s): %w", ErrStepFailed, i, a.op, res.Err)
		}
		if !s.KeepGoing {
			break
		}
	}
	return results, first
}

func run(ed *editor.Editor, a action) StepResult {
	res := StepResult{Op: a.op}
	var err error
	switch a.op {
	case OpUndo:
		err = ed.Undo()
	case OpRedo:
		err = ed.Redo()
	case OpTransaction:
		var rs []command.Result
		rs, err = ed.Transaction(a.name, a.cmds...)
		for _, r := range rs {
			res.Nodes = append(res.Nodes, r.AffectedNodeIDs...)
			res.Edges = append(res.Edges, r.AffectedEdgeIDs...)
		}
	default:
		r := ed.Perform(a.cmds[0])
		res.Nodes, res.Edges = r.AffectedNodeIDs, r.AffectedEdgeIDs
		res.Outcome = r.Outcome()
		err = r.Err
	}
	if err != nil {
		res.Outcome = "failed"
		res.Err = err
		res.ErrorMsg = err.Error()
	} else if res.Outcome == "" {
		res.Outcome = "ok"
	}
	return res
}
