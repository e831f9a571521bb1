// Package table renders themed lipgloss tables for command output.
package table

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/grovetools/padnav/tui/theme"
)

// New creates a bordered table with themed headers.
func New(headers ...string) *ltable.Table {
	t := theme.DefaultTheme
	header := lipgloss.NewStyle().Bold(true).Foreground(t.Colors.Orange).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	return ltable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(t.Colors.Border)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return header
			}
			return cell
		})
}

// SimpleTable renders headers and rows.
func SimpleTable(headers []string, rows [][]string) string {
	return New(headers...).Rows(rows...).String()
}

// StatusTable renders label/value pairs without borders.
func StatusTable(items [][]string) string {
	tbl := ltable.New().
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			return lipgloss.NewStyle().PaddingRight(1)
		})
	for _, item := range items {
		if len(item) >= 2 {
			tbl = tbl.Row(theme.DefaultTheme.Muted.Render(item[0]+":"), item[1])
		}
	}
	return tbl.String()
}

// SelectableTable renders a table with an arrow left of the selected data
// row. A negative index marks nothing.
func SelectableTable(headers []string, rows [][]string, selected int) string {
	lines := strings.Split(SimpleTable(headers, rows), "\n")

	// Top border, then the header and its separator when present.
	first := 1
	if len(headers) > 0 {
		first = 3
	}
	arrow := theme.DefaultTheme.Highlight.Render(theme.IconArrow)
	for i, line := range lines {
		if selected >= 0 && i == first+selected {
			lines[i] = arrow + " " + line
		} else {
			lines[i] = "  " + line
		}
	}
	return strings.Join(lines, "\n")
}
