package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"flowcanvas/internal/docfile"
	"flowcanvas/internal/logging"
	"flowcanvas/internal/render"
	"flowcanvas/pkg/command"
	"flowcanvas/pkg/editor"
	"flowcanvas/pkg/geom"
	"flowcanvas/pkg/graph"
)

func exportCmd() *cobra.Command {
	var (
		opts   = render.DefaultImageOptions()
		width  int
		height int
		fit    bool
	)
	cmd := &cobra.Command{
		Use:   "export <document> <output.png|output.txt>",
		Short: "Export a document as a PNG image or a text drawing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			canvas, view, err := docfile.Load(args[0])
			if err != nil {
				return err
			}
			out := args[1]
			switch strings.ToLower(filepath.Ext(out)) {
			case ".png":
				snap := snapshot(canvas, view, geom.Sz(1, 1), false)
				if err := render.PNG(snap, out, opts); err != nil {
					return err
				}
			case ".txt":
				snap := snapshot(canvas, view, geom.Sz(float64(width), float64(height)), fit)
				if err := render.ExportText(out, snap, width, height); err != nil {
					return err
				}
			default:
				return fmt.Errorf("export: unsupported output %q", filepath.Ext(out))
			}
			good.Fprintf(cmd.OutOrStdout(), "exported %s\n", out)
			return nil
		},
	}
	cmd.Flags().Float64Var(&opts.Scale, "scale", opts.Scale, "PNG pixels per canvas unit")
	cmd.Flags().Float64Var(&opts.Padding, "padding", opts.Padding, "PNG margin in canvas units")
	cmd.Flags().Float64Var(&opts.FontSize, "font-size", opts.FontSize, "PNG label font size")
	cmd.Flags().IntVar(&width, "width", 80, "text export columns")
	cmd.Flags().IntVar(&height, "height", 24, "text export rows")
	cmd.Flags().BoolVar(&fit, "fit", false, "fit the text export to the content instead of the saved view")
	return cmd
}

// snapshot renders a throwaway editor over canvas: no selection, no gestures.
func snapshot(canvas *graph.Canvas, view geom.Transform, size geom.Size, fit bool) editor.Snapshot {
	s := cfg.Settings()
	s.ViewportSize = size
	ed := editor.New(canvas, editor.WithSettings(s), editor.WithLogger(logging.NewNop()))
	defer ed.Close()
	if fit {
		ed.Execute(command.FitView{Padding: 1})
	} else {
		ed.Execute(command.SetTransform{Transform: view})
	}
	return ed.Snapshot()
}
