package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"flowcanvas/internal/docfile"
	"flowcanvas/internal/render"
	"flowcanvas/pkg/editor"
	"flowcanvas/pkg/geom"
)

func inspectCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "inspect <document>",
		Short: "Describe the nodes, edges and saved view of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			canvas, view, err := docfile.Load(args[0])
			if err != nil {
				return err
			}
			snap := snapshot(canvas, view, geom.Size{}, false)
			w := cmd.OutOrStdout()
			switch format {
			case "json":
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			case "yaml":
				enc := yaml.NewEncoder(w)
				defer enc.Close()
				return enc.Encode(snap)
			case "text":
				describe(w, args[0], snap)
				return nil
			}
			return fmt.Errorf("inspect: unknown format %q", format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or yaml")
	return cmd
}

func describe(w io.Writer, name string, s editor.Snapshot) {
	fmt.Fprintf(w, "%s\n", brand.Sprint(name))
	t := s.Transform
	fmt.Fprintf(w, "  view    offset (%g, %g) scale %g\n", t.OffsetX, t.OffsetY, t.Scale)
	if b, ok := render.Bounds(s); ok {
		fmt.Fprintf(w, "  bounds  %s\n", rect(b))
	}

	fmt.Fprintf(w, "\n  %s\n", brand.Sprintf("nodes (%d)", len(s.Nodes)))
	for _, n := range s.Nodes {
		label := strings.ReplaceAll(n.Label, "\n", " / ")
		fmt.Fprintf(w, "    %-14s %s z=%d", n.ID, rect(n.Frame), n.Z)
		if n.ParentID != "" {
			fmt.Fprintf(w, " parent=%s", n.ParentID)
		}
		if label != "" {
			fmt.Fprintf(w, " %s", subtle.Sprintf("%q", label))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\n  %s\n", brand.Sprintf("edges (%d)", len(s.Edges)))
	for _, e := range s.Edges {
		fmt.Fprintf(w, "    %-14s %s.%s -> %s.%s\n", e.ID, e.Source, e.SourcePort, e.Target, e.TargetPort)
	}
}

func rect(r geom.Rect) string {
	return fmt.Sprintf("(%g, %g) %gx%g", r.Origin.X, r.Origin.Y, r.Size.Width, r.Size.Height)
}
