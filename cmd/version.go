package cmd

import (
	"github.com/grovetools/padnav/cli"
	"github.com/spf13/cobra"
)

// NewVersionCmd creates the `version` command.
func NewVersionCmd() *cobra.Command {
	return cli.NewVersionCommand("padnav")
}
