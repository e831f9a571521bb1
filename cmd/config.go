package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/grovetools/padnav/cli"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewConfigCmd creates the `config` command.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Display the effective configuration",
		Long: `Shows the configuration after merging every layer:
1. Global config (~/.config/padnav/padnav.yml)
2. Project config (padnav.yml, searched upward from the current directory)
3. Override files (padnav.override.yml)
Defaults are filled in for anything left unset.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			if !cli.GetOptions(cmd).JSONOutput {
				fmt.Fprint(cmd.OutOrStdout(), string(data))
				return nil
			}
			// Round-trip through a map so JSON keys match the file.
			var raw map[string]interface{}
			if err := yaml.Unmarshal(data, &raw); err != nil {
				return fmt.Errorf("failed to convert config: %w", err)
			}
			out, err := json.MarshalIndent(raw, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	return cmd
}
