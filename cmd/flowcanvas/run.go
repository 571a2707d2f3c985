package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"flowcanvas/internal/docfile"
	"flowcanvas/internal/script"
	"flowcanvas/pkg/command"
	"flowcanvas/pkg/editor"
)

func runCmd() *cobra.Command {
	var (
		out         string
		write       bool
		metricsAddr string
	)
	cmd := &cobra.Command{
		Use:   "run <document> <script>",
		Short: "Apply a YAML command script to a document",
		Long: "Run decodes every step of the script, then applies them in order through the\n" +
			"editor's history, so undo and redo steps behave as they do interactively.\n\n" +
			"Ops: " + strings.Join(script.Ops(), ", "),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cfg.Logger()
			rec, stop, err := serveMetrics(metricsAddr, logger)
			if err != nil {
				return err
			}
			defer stop()

			canvas, view, err := docfile.Load(args[0])
			if err != nil {
				return err
			}
			s, err := script.Load(args[1])
			if err != nil {
				return err
			}

			ed := editor.New(canvas, append(cfg.EditorOptions(), editor.WithMetrics(rec))...)
			defer ed.Close()
			ed.Execute(command.SetTransform{Transform: view})

			results, runErr := script.Run(ed, s)
			printResults(cmd.OutOrStdout(), results)

			target := out
			if target == "" && write {
				target = args[0]
			}
			if target != "" && (runErr == nil || s.KeepGoing) {
				if err := docfile.Save(target, canvas, ed.Viewport().Transform()); err != nil {
					return err
				}
				subtle.Fprintf(cmd.OutOrStdout(), "saved %s\n", target)
			}
			return runErr
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the result to this document")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to the input document")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	return cmd
}

func printResults(w io.Writer, results []script.StepResult) {
	for _, r := range results {
		status := good
		switch r.Outcome {
		case "noop":
			status = warn
		case "failed":
			status = bad
		}
		fmt.Fprintf(w, "%3d  %-22s %s", r.Index, r.Op, status.Sprintf("%-6s", r.Outcome))
		if len(r.Nodes) > 0 {
			fmt.Fprintf(w, "  nodes=%s", strings.Join(r.Nodes, ","))
		}
		if len(r.Edges) > 0 {
			fmt.Fprintf(w, "  edges=%s", strings.Join(r.Edges, ","))
		}
		if r.ErrorMsg != "" {
			fmt.Fprintf(w, "  %s", subtle.Sprint(r.ErrorMsg))
		}
		fmt.Fprintln(w)
	}
}
