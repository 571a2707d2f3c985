package main

import (
	"errors"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"flowcanvas/internal/docfile"
	"flowcanvas/internal/logging"
	"flowcanvas/pkg/clipboard"
	"flowcanvas/pkg/command"
	"flowcanvas/pkg/editor"
	"flowcanvas/pkg/geom"
	"flowcanvas/pkg/graph"
)

func editCmd() *cobra.Command {
	var (
		logFile     string
		metricsAddr string
	)
	cmd := &cobra.Command{
		Use:   "edit [document]",
		Short: "Edit a document in the terminal",
		Long: "Edit opens the document, or a new one when it does not exist yet, in a\n" +
			"full-screen terminal editor. Press ? inside for the key bindings.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, closeLog, err := fileLogger(logFile)
			if err != nil {
				return err
			}
			defer closeLog()

			rec, stopMetrics, err := serveMetrics(metricsAddr, logger)
			if err != nil {
				return err
			}
			defer stopMetrics()

			var path string
			if len(args) == 1 {
				path = args[0]
				if _, err := os.Stat(path); err != nil {
					path = cfg.SavePath(path)
				}
			}
			canvas, view, saved, err := openDocument(path)
			if err != nil {
				return err
			}

			settings := cellSettings(cfg.Settings())
			if saved {
				settings.FitOnMount = false
			}
			sched := &teaScheduler{}
			m := newModel(canvas, path, cfg.SavePath, logger,
				editor.WithSettings(settings),
				editor.WithScheduler(sched),
				editor.WithMetrics(rec),
				editor.WithClipboard(clipboard.SystemBoard{}, clipboard.BoxFactory),
			)
			if saved {
				m.ed.Execute(command.SetTransform{Transform: view})
			}

			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
			sched.bind(p.Send)
			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", "", "append logs to this file (the screen is owned by the editor)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	return cmd
}

// openDocument loads path. A missing or unnamed document starts empty, and
// saved reports whether the file carried a view to restore.
func openDocument(path string) (canvas *graph.Canvas, view geom.Transform, saved bool, err error) {
	if path == "" {
		return graph.NewCanvas(), geom.Identity(), false, nil
	}
	canvas, view, err = docfile.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return graph.NewCanvas(), geom.Identity(), false, nil
	}
	if err != nil {
		return nil, geom.Transform{}, false, err
	}
	return canvas, view, true, nil
}

func fileLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return logging.NewNop(), func() {}, nil
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return logging.NewWriter(f, level), func() { f.Close() }, nil
}

// cellSettings caps pointer distances for a terminal, where one screen unit is
// a character cell rather than a pixel.
func cellSettings(s editor.Settings) editor.Settings {
	s.DragThreshold = min(s.DragThreshold, 1)
	s.CaptureRadius = min(s.CaptureRadius, gripSize)
	s.MinNodeSize = geom.Sz(min(s.MinNodeSize.Width, 4), min(s.MinNodeSize.Height, 3))
	s.FitPadding = min(s.FitPadding, 2)
	s.AutoPan.EdgeMargin = min(s.AutoPan.EdgeMargin, 2)
	s.AutoPan.Speed = min(s.AutoPan.Speed, 1)
	return s
}
