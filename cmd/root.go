package cmd

import (
	"github.com/grovetools/padnav/cli"
	"github.com/grovetools/padnav/pkg/profiling"
	"github.com/grovetools/padnav/version"
	"github.com/spf13/cobra"
)

// NewRootCmd assembles the padnav command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := cli.NewStandardCommand(
		"padnav",
		"Spatial gamepad focus navigation for declarative layouts",
	)
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(NewRunCmd())
	rootCmd.AddCommand(NewResolveCmd())
	rootCmd.AddCommand(NewInspectCmd())
	rootCmd.AddCommand(NewDevicesCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewSchemaCmd())
	rootCmd.AddCommand(NewVersionCmd())

	profiling.New().Attach(rootCmd)
	cli.SetVersionTemplate(rootCmd, version.GetInfo())
	cli.ApplyStyledHelpRecursive(rootCmd)
	return rootCmd
}
