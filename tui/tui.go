// Package tui holds the terminal front end shared setup.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// InitializeTUI honours CLICOLOR_FORCE=1 and COLORTERM=truecolor by forcing
// a true-color profile, so the pad view keeps its styling when output is
// captured. Call it before starting the program.
func InitializeTUI() {
	if os.Getenv("CLICOLOR_FORCE") == "1" || os.Getenv("COLORTERM") == "truecolor" {
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
}
