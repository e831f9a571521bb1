package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/grovetools/padnav/cli"
	"github.com/grovetools/padnav/logging"
	"github.com/grovetools/padnav/pkg/jsdev"
	"github.com/grovetools/padnav/tui/components/table"
	"github.com/grovetools/padnav/util/pathutil"
	"github.com/spf13/cobra"
)

// NewDevicesCmd creates the `devices` command.
func NewDevicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List joystick devices",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().String("dir", "", "Directory holding js* device nodes (default from config)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.LoadConfig(cmd)
		if err != nil {
			return err
		}
		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			dir = cfg.Devices.JoystickDir
		}
		if dir, err = pathutil.Expand(dir); err != nil {
			return err
		}
		devices, err := jsdev.List(dir)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if cli.GetOptions(cmd).JSONOutput {
			if devices == nil {
				devices = []jsdev.DeviceInfo{}
			}
			data, err := json.MarshalIndent(devices, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal devices: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		pretty := logging.NewPrettyLogger().WithWriter(out)
		if len(devices) == 0 {
			pretty.WarnPretty(fmt.Sprintf("No joysticks in %s", dir))
			return nil
		}
		rows := make([][]string, 0, len(devices))
		for _, d := range devices {
			rows = append(rows, []string{jsdev.DeviceID(d.ID), d.Path, d.Name})
		}
		fmt.Fprintln(out, table.SimpleTable([]string{"DEVICE", "PATH", "NAME"}, rows))
		pretty.Success(fmt.Sprintf("%d joystick(s) found", len(devices)))
		return nil
	}
	return cmd
}
