package clipboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"flowcanvas/internal/logging"
	"flowcanvas/pkg/command"
	"flowcanvas/pkg/geom"
	"flowcanvas/pkg/graph"
	"flowcanvas/pkg/selection"
)

var (
	// ErrNothingSelected is returned by Copy, Cut and Duplicate on an empty selection.
	ErrNothingSelected = errors.New("nothing selected")

	ErrEmptyBoard = errors.New("clipboard is empty")

	// ErrNotDiagram is returned when the board holds rich text that cannot be
	// turned into nodes.
	ErrNotDiagram = errors.New("clipboard does not hold diagram content")
)

// formatTag marks payloads written by this package.
const formatTag = "flowcanvas/nodes"

// Factory builds a host node from a pasted record and its label.
type Factory func(rec graph.NodeRecord, label string) graph.Node

// BoxFactory builds graph.Box nodes for the in-memory canvas.
func BoxFactory(rec graph.NodeRecord, label string) graph.Node {
	b := graph.Box{
		BoxID:    rec.NodeID,
		X:        rec.Pos.X,
		Y:        rec.Pos.Y,
		Width:    rec.Dim.Width,
		Height:   rec.Dim.Height,
		Z:        rec.Z,
		Parent:   rec.Parent,
		PortList: rec.PortList,
	}
	if label != "" {
		b.SetText(label)
	}
	return b
}

type entry struct {
	graph.NodeRecord
	Label string `json:"label,omitempty"`
}

type payload struct {
	Format string             `json:"format"`
	Nodes  []entry            `json:"nodes"`
	Edges  []graph.EdgeRecord `json:"edges,omitempty"`
}

// Service turns the current selection into clipboard payloads and payloads
// back into InsertNodes commands.
type Service struct {
	board    Board
	host     graph.Host
	sel      *selection.State
	factory  Factory
	newID    func() string
	offset   geom.Point
	textSize geom.Size
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

func WithFactory(f Factory) Option {
	return func(s *Service) {
		s.factory = f
	}
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		s.newID = fn
	}
}

// WithOffset sets how far pasted and duplicated nodes land from their source.
func WithOffset(p geom.Point) Option {
	return func(s *Service) {
		s.offset = p
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(board Board, host graph.Host, sel *selection.State, opts ...Option) *Service {
	s := &Service{
		board:    board,
		host:     host,
		sel:      sel,
		factory:  BoxFactory,
		newID:    uuid.NewString,
		offset:   geom.Pt(20, 20),
		textSize: geom.Sz(120, 40),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	return s
}

// capture collects the selected nodes and the edges running between them.
func (s *Service) capture() (payload, error) {
	ids := s.sel.NodeIDs()
	if len(ids) == 0 {
		return payload{}, ErrNothingSelected
	}
	idx := graph.Read(s.host)
	in := make(map[string]bool, len(ids))
	p := payload{Format: formatTag}
	for _, id := range ids {
		rec, ok := idx.Node(id)
		if !ok {
			continue
		}
		in[id] = true
		e := entry{NodeRecord: rec}
		if l, ok := rec.Original().(graph.Labeled); ok {
			e.Label = l.GetText()
		}
		p.Nodes = append(p.Nodes, e)
	}
	if len(p.Nodes) == 0 {
		return payload{}, ErrNothingSelected
	}
	for _, ed := range idx.Edges {
		if in[ed.Source] && in[ed.Target] {
			p.Edges = append(p.Edges, ed)
		}
	}
	return p, nil
}

// Copy writes the selection to the board.
func (s *Service) Copy() error {
	p, err := s.capture()
	if err != nil {
		return err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode clipboard: %w", err)
	}
	if err := s.board.WriteAll(string(data)); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	s.logger.Debug("copied", "nodes", len(p.Nodes), "edges", len(p.Edges))
	return nil
}

// Cut copies the selection and returns the command that deletes it.
func (s *Service) Cut() (command.Command, error) {
	if err := s.Copy(); err != nil {
		return nil, err
	}
	return command.DeleteSelection{}, nil
}

// Paste reads the board and returns the insert for its content, with fresh ids.
// Plain text that is not a diagram payload becomes a single labelled node at at.
func (s *Service) Paste(at geom.Point) (command.InsertNodes, error) {
	text, err := s.board.ReadAll()
	if err != nil {
		return command.InsertNodes{}, fmt.Errorf("read clipboard: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return command.InsertNodes{}, ErrEmptyBoard
	}
	var p payload
	if err := json.Unmarshal([]byte(text), &p); err == nil && p.Format == formatTag {
		return s.remap(p), nil
	}
	if isRTF(text) || isHTML(text) {
		return command.InsertNodes{}, ErrNotDiagram
	}
	rec := graph.NodeRecord{NodeID: s.newID(), Pos: at, Dim: s.textSize}
	return command.InsertNodes{Nodes: []graph.Node{s.factory(rec, strings.TrimRight(text, "\n"))}}, nil
}

// Duplicate returns the insert for a copy of the selection without touching
// the board.
func (s *Service) Duplicate() (command.InsertNodes, error) {
	p, err := s.capture()
	if err != nil {
		return command.InsertNodes{}, err
	}
	return s.remap(p), nil
}

func (s *Service) remap(p payload) command.InsertNodes {
	ids := make(map[string]string, len(p.Nodes))
	for _, e := range p.Nodes {
		ids[e.NodeID] = s.newID()
	}
	var out command.InsertNodes
	for _, e := range p.Nodes {
		rec := e.NodeRecord
		rec.Value = nil
		rec.NodeID = ids[e.NodeID]
		rec.Pos = rec.Pos.Add(s.offset)
		rec.Parent = ids[rec.Parent]
		out.Nodes = append(out.Nodes, s.factory(rec, e.Label))
	}
	for _, ed := range p.Edges {
		src, okS := ids[ed.Source]
		dst, okT := ids[ed.Target]
		if !okS || !okT {
			continue
		}
		ed.EdgeID = s.newID()
		ed.Source, ed.Target = src, dst
		out.Edges = append(out.Edges, ed)
	}
	return out
}

// NodeIDs returns the ids an insert will create, in order.
func NodeIDs(c command.InsertNodes) []string {
	out := make([]string, len(c.Nodes))
	for i, n := range c.Nodes {
		out[i] = n.ID()
	}
	return out
}

func isRTF(text string) bool {
	return strings.HasPrefix(text, "{\\rtf") || strings.Contains(text, "\\rtf1")
}

func isHTML(text string) bool {
	t := strings.TrimSpace(text)
	return strings.HasPrefix(t, "<") &&
		(strings.Contains(t, "<html") || strings.Contains(t, "<body") || strings.Contains(t, "<div"))
}
