// Package docfile reads and writes diagram documents: nodes, edges and the
// saved viewport, as YAML or JSON chosen by file extension. Documents from the
// older line-based FLOWCHART format can be read but not written.
package docfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"flowcanvas/pkg/geom"
	"flowcanvas/pkg/graph"
)

var (
	// ErrUnknownFormat is returned for a file extension with no codec.
	ErrUnknownFormat = errors.New("unknown document format")
	// ErrInvalidDocument wraps structural problems: duplicate ids, dangling edges.
	ErrInvalidDocument = errors.New("invalid document")
)

// CurrentVersion is written into every saved document.
const CurrentVersion = 1

type Format int

const (
	FormatYAML Format = iota
	FormatJSON
	FormatLegacy
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatLegacy:
		return "legacy"
	}
	return "yaml"
}

// FormatFor picks the codec from a path's extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".flow", ".sav", ".txt":
		return FormatLegacy, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// Document is the on-disk form of a diagram.
type Document struct {
	Version  int                `json:"version" yaml:"version"`
	Viewport geom.Transform     `json:"viewport" yaml:"viewport"`
	Nodes    []Node             `json:"nodes" yaml:"nodes"`
	Edges    []graph.EdgeRecord `json:"edges,omitempty" yaml:"edges,omitempty"`
}

// Node is one saved box.
type Node struct {
	ID     string       `json:"id" yaml:"id"`
	X      float64      `json:"x" yaml:"x"`
	Y      float64      `json:"y" yaml:"y"`
	Width  float64      `json:"width" yaml:"width"`
	Height float64      `json:"height" yaml:"height"`
	Z      int          `json:"z,omitempty" yaml:"z,omitempty"`
	Parent string       `json:"parent,omitempty" yaml:"parent,omitempty"`
	Label  string       `json:"label,omitempty" yaml:"label,omitempty"`
	Ports  []graph.Port `json:"ports,omitempty" yaml:"ports,omitempty"`
}

// Capture builds a document from any host and the current transform.
func Capture(h graph.Host, t geom.Transform) Document {
	idx := graph.Read(h)
	doc := Document{Version: CurrentVersion, Viewport: t, Edges: idx.Edges}
	for _, rec := range idx.Nodes {
		n := Node{
			ID:     rec.NodeID,
			X:      rec.Pos.X,
			Y:      rec.Pos.Y,
			Width:  rec.Dim.Width,
			Height: rec.Dim.Height,
			Z:      rec.Z,
			Parent: rec.Parent,
		}
		if b, ok := rec.Original().(graph.Box); ok {
			n.Ports = b.PortList
		} else {
			n.Ports = rec.PortList
		}
		if l, ok := rec.Original().(graph.Labeled); ok {
			n.Label = l.GetText()
		}
		doc.Nodes = append(doc.Nodes, n)
	}
	return doc
}

// Canvas builds an in-memory canvas from the document.
func (d Document) Canvas() (*graph.Canvas, error) {
	c := graph.NewCanvas()
	seen := make(map[string]bool, len(d.Nodes))
	for i, n := range d.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("%w: node %d has no id", ErrInvalidDocument, i)
		}
		if seen[n.ID] {
			return nil, fmt.Errorf("%w: duplicate node id %q", ErrInvalidDocument, n.ID)
		}
		seen[n.ID] = true
		b := graph.Box{
			BoxID:    n.ID,
			X:        n.X,
			Y:        n.Y,
			Width:    n.Width,
			Height:   n.Height,
			Z:        n.Z,
			Parent:   n.Parent,
			PortList: n.Ports,
		}
		if n.Label != "" {
			b.SetText(n.Label)
		}
		c.AddBox(b)
	}
	for _, e := range d.Edges {
		ok := c.AddConnection(graph.Connection{
			ConnID:   e.EdgeID,
			FromID:   e.Source,
			FromPort: e.SourcePort,
			ToID:     e.Target,
			ToPort:   e.TargetPort,
		})
		if !ok {
			return nil, fmt.Errorf("%w: edge %q is duplicated or dangling", ErrInvalidDocument, e.EdgeID)
		}
	}
	return c, nil
}

// Transform returns the saved viewport, or identity when none was saved.
func (d Document) Transform() geom.Transform {
	if d.Viewport.Scale <= 0 {
		return geom.Identity()
	}
	return d.Viewport
}

// Decode reads a document in format f.
func Decode(r io.Reader, f Format) (Document, error) {
	var doc Document
	switch f {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return Document{}, fmt.Errorf("decode json: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return Document{}, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatLegacy:
		return decodeLegacy(r)
	default:
		return Document{}, ErrUnknownFormat
	}
	return doc, nil
}

// Encode writes doc in format f. The legacy format is read-only.
func Encode(w io.Writer, f Format, doc Document) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("%w: cannot write %s", ErrUnknownFormat, f)
}

// Load reads the document at path into a canvas and its saved transform.
func Load(path string) (*graph.Canvas, geom.Transform, error) {
	f, err := FormatFor(path)
	if err != nil {
		return nil, geom.Transform{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, geom.Transform{}, err
	}
	doc, err := Decode(bytes.NewReader(data), f)
	if err != nil {
		return nil, geom.Transform{}, fmt.Errorf("load %s: %w", path, err)
	}
	c, err := doc.Canvas()
	if err != nil {
		return nil, geom.Transform{}, fmt.Errorf("load %s: %w", path, err)
	}
	return c, doc.Transform(), nil
}

// Save writes h and t to path. The file is replaced atomically.
func Save(path string, h graph.Host, t geom.Transform) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, f, Capture(h, t)); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
