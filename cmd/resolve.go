package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/grovetools/padnav/cli"
	"github.com/grovetools/padnav/logging"
	"github.com/grovetools/padnav/pkg/registry"
	"github.com/grovetools/padnav/pkg/resolve"
	"github.com/grovetools/padnav/tui/components/table"
	"github.com/spf13/cobra"
)

type resolveCandidate struct {
	Index         int     `json:"index"`
	ID            string  `json:"id"`
	Primary       float64 `json:"primary"`
	Perpendicular float64 `json:"perpendicular"`
	Score         float64 `json:"score"`
}

type resolveStep struct {
	From       string             `json:"from"`
	Direction  string             `json:"direction"`
	Index      int                `json:"index"`
	To         string             `json:"to"`
	Wrapped    bool               `json:"wrapped"`
	Candidates []resolveCandidate `json:"candidates,omitempty"`
}

// NewResolveCmd creates the `resolve` command.
func NewResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [layout]",
		Short: "Resolve directional moves on a layout without a terminal UI",
		Long: `Starts from an element and applies one or more directional moves, printing
where focus lands after each. With --explain every scored candidate is shown.

Examples:
# one move down from the play button
padnav resolve menu.yml --from play --dir down
# a path, with scoring details
padnav resolve menu.yml --from play --dir down,down,right --explain`,
		Args: cobra.MaximumNArgs(1),
	}
	cmd.Flags().String("from", "", "Element ID to start from (default: nothing focused)")
	cmd.Flags().String("dir", "down", "Comma separated directions: up, down, left, right")
	cmd.Flags().Bool("explain", false, "Show scored candidates for each move")
	cmd.Flags().String("scope", "", "Restrict candidates to one group")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		dirFlag, _ := cmd.Flags().GetString("dir")
		explain, _ := cmd.Flags().GetBool("explain")

		dirs, err := parseDirections(dirFlag)
		if err != nil {
			return err
		}
		s, err := openSession(cmd, args, nil)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := focusElement(s.nav, from); err != nil {
			return err
		}

		var steps []resolveStep
		for _, d := range dirs {
			step := resolveStep{From: "-", Direction: d.String(), Index: -1}
			if cur, ok := s.nav.Current(); ok {
				step.From = cur.ID()
			}
			elements := s.nav.Elements()
			res := s.nav.Explain(d)
			if explain {
				step.Candidates = candidates(res, elements)
			}
			if _, ok := s.nav.Move(d); ok {
				cur, _ := s.nav.Current()
				step.Index = res.Index
				step.To = cur.ID()
				step.Wrapped = res.Wrapped
			}
			steps = append(steps, step)
		}

		out := cmd.OutOrStdout()
		if cli.GetOptions(cmd).JSONOutput {
			data, err := json.MarshalIndent(steps, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal result: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		pretty := logging.NewPrettyLogger().WithWriter(out)
		if len(s.nav.Elements()) == 0 {
			pretty.WarnPretty("The layout has no focusable elements")
			return nil
		}
		rows := make([][]string, 0, len(steps))
		for _, st := range steps {
			rows = append(rows, []string{st.From, st.Direction, st.To, strconv.FormatBool(st.Wrapped)})
		}
		fmt.Fprintln(out, table.SimpleTable([]string{"FROM", "DIR", "TO", "WRAPPED"}, rows))

		if explain {
			for _, st := range steps {
				pretty.Blank()
				pretty.Field(st.From+" "+st.Direction, st.To)
				if len(st.Candidates) == 0 {
					pretty.InfoPretty("no candidates in the cone; wrapped or stayed")
					continue
				}
				crow := make([][]string, 0, len(st.Candidates))
				for _, c := range st.Candidates {
					crow = append(crow, []string{
						strconv.Itoa(c.Index), c.ID,
						strconv.FormatFloat(c.Primary, 'f', 1, 64),
						strconv.FormatFloat(c.Perpendicular, 'f', 1, 64),
						strconv.FormatFloat(c.Score, 'f', 2, 64),
					})
				}
				fmt.Fprintln(out, table.SimpleTable([]string{"#", "ID", "PRIMARY", "PERP", "SCORE"}, crow))
			}
		}
		return nil
	}
	return cmd
}

func candidates(res resolve.Resolution, elements []registry.FocusableElement) []resolveCandidate {
	out := make([]resolveCandidate, 0, len(res.Candidates))
	for _, c := range res.Candidates {
		id := ""
		if c.Index >= 0 && c.Index < len(elements) {
			id = elements[c.Index].ID()
		}
		out = append(out, resolveCandidate{
			Index:         c.Index,
			ID:            id,
			Primary:       c.Primary,
			Perpendicular: c.Perpendicular,
			Score:         c.Score,
		})
	}
	return out
}
