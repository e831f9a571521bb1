package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/grovetools/padnav/cli"
	"github.com/grovetools/padnav/pkg/geom"
	"github.com/grovetools/padnav/tui/components/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type inspectElement struct {
	Index   int       `json:"index"`
	ID      string    `json:"id"`
	Role    string    `json:"role"`
	Box     geom.Rect `json:"box"`
	Label   string    `json:"label,omitempty"`
	Href    string    `json:"href,omitempty"`
	InView  bool      `json:"in_view"`
	Focused bool      `json:"focused,omitempty"`
}

type inspectReport struct {
	Title    string           `json:"title,omitempty"`
	Viewport geom.Rect        `json:"viewport"`
	Overlays []string         `json:"open_overlays,omitempty"`
	Elements []inspectElement `json:"elements"`
}

// NewInspectCmd creates the `inspect` command.
func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [layout]",
		Short: "Print the focusable registry built from a layout",
		Long: `Builds the registry the navigator would use and lists it in navigation order.
The viewport defaults to the terminal size when stdout is a terminal and to the
layout's own viewport otherwise.`,
		Args: cobra.MaximumNArgs(1),
	}
	cmd.Flags().Int("width", 0, "Viewport width in layout units")
	cmd.Flags().Int("height", 0, "Viewport height in layout units")
	cmd.Flags().String("scope", "", "Restrict candidates to one group")
	cmd.Flags().String("focus", "", "Element ID to mark as focused")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, args, nil)
		if err != nil {
			return err
		}
		defer s.Close()

		width, _ := cmd.Flags().GetInt("width")
		height, _ := cmd.Flags().GetInt("height")
		if width == 0 && height == 0 && term.IsTerminal(int(os.Stdout.Fd())) {
			if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				width, height = w, h
			}
		}
		if width > 0 && height > 0 {
			s.page.Resize(float64(width), float64(height))
			s.nav.Rebuild()
		}
		focusID, _ := cmd.Flags().GetString("focus")
		if err := focusElement(s.nav, focusID); err != nil {
			return err
		}

		vp := s.page.ViewportRect()
		current := s.nav.CurrentIndex()
		report := inspectReport{
			Title:    s.page.Document().Title,
			Viewport: vp,
			Overlays: s.page.OpenOverlays(),
		}
		for i, el := range s.nav.Elements() {
			report.Elements = append(report.Elements, inspectElement{
				Index:   i,
				ID:      el.ID(),
				Role:    el.Props.Role.String(),
				Box:     el.Box,
				Label:   el.Props.Label,
				Href:    el.Props.Href,
				InView:  vp.Contains(el.Box),
				Focused: i == current,
			})
		}

		out := cmd.OutOrStdout()
		if cli.GetOptions(cmd).JSONOutput {
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal registry: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		status := [][]string{
			{"layout", s.path},
			{"viewport", formatRect(vp)},
			{"focusable", strconv.Itoa(len(report.Elements))},
		}
		if report.Title != "" {
			status = append([][]string{{"title", report.Title}}, status...)
		}
		if len(report.Overlays) > 0 {
			status = append(status, []string{"overlays", strings.Join(report.Overlays, ", ")})
		}
		fmt.Fprintln(out, table.StatusTable(status))

		rows := make([][]string, 0, len(report.Elements))
		for _, el := range report.Elements {
			label := el.Label
			if el.Href != "" {
				label = strings.TrimSpace(label + " " + el.Href)
			}
			inView := ""
			if el.InView {
				inView = "yes"
			}
			rows = append(rows, []string{strconv.Itoa(el.Index), el.ID, el.Role, formatRect(el.Box), inView, label})
		}
		fmt.Fprintln(out, table.SelectableTable([]string{"#", "ID", "ROLE", "BOX", "IN VIEW", "LABEL"}, rows, current))
		return nil
	}
	return cmd
}
