package main

import (
	"github.com/spf13/cobra"

	"flowcanvas/internal/config"
	"flowcanvas/internal/docfile"
)

func convertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Rewrite a document in the format named by the output extension",
		Long: "Convert reads YAML, JSON or legacy FLOWCHART files and writes YAML or JSON.\n" +
			"Legacy free-text labels and highlights are dropped.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			canvas, view, err := docfile.Load(args[0])
			if err != nil {
				return err
			}
			if err := docfile.Save(args[1], canvas, view); err != nil {
				return err
			}
			good.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[1])
			return nil
		},
	}
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialise the configuration file",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file path",
			Run: func(cmd *cobra.Command, args []string) {
				path := configPath
				if path == "" {
					path = config.Path()
				}
				cmd.Println(path)
			},
		},
		&cobra.Command{
			Use:   "init",
			Short: "Write the current configuration, defaults filled in",
			RunE: func(cmd *cobra.Command, args []string) error {
				path := configPath
				if path == "" {
					path = config.Path()
				}
				if err := config.Save(cfg, path); err != nil {
					return err
				}
				good.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
				return nil
			},
		},
	)
	return cmd
}
