package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"flowcanvas/internal/config"
)

var version = "0.1.0"

var (
	configPath string
	cfg        *config.Config
)

var (
	brand  = color.New(color.FgHiGreen, color.Bold)
	subtle = color.New(color.FgHiBlack)
	good   = color.New(color.FgGreen)
	warn   = color.New(color.FgYellow)
	bad    = color.New(color.FgRed)
)

var rootCmd = &cobra.Command{
	Use:           "flowcanvas",
	Short:         "flowcanvas edits node-and-edge diagrams",
	Long:          brand.Sprint("flowcanvas") + " edits node-and-edge diagrams in the terminal and from scripts.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = c
		return nil
	},
}

func init() {
	rootCmd.SetVersionTemplate("flowcanvas {{ .Version }}\n")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.Path()+")")

	rootCmd.AddCommand(
		editCmd(),
		runCmd(),
		exportCmd(),
		inspectCmd(),
		convertCmd(),
		configCmd(),
		versionCmd(),
	)
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		bad.Fprintf(os.Stderr, "flowcanvas: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of flowcanvas",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "flowcanvas version %s\n", version)
		},
	}
}
