package padview

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/padnav/pkg/layout"
	"github.com/grovetools/padnav/pkg/navigator"
)

// Rows used by the header, status bar and help line.
const chromeHeight = 3

// Model is the bubbletea model of the pad view.
type Model struct {
	nav  *navigator.Navigator
	page *layout.Page

	keys  KeyMap
	help  help.Model
	title string

	// frame is the device polling interval; zero disables polling.
	frame time.Duration

	width  int
	height int

	lastEvent  string
	lastAction string
	reloadErr  error
}

// frameMsg drives one navigator frame.
type frameMsg time.Time

// ReloadMsg reports the outcome of a layout file reload.
type ReloadMsg struct{ Err error }

// Init is the first command that will be executed.
func (m *Model) Init() tea.Cmd {
	return m.nextFrame()
}

func (m *Model) nextFrame() tea.Cmd {
	if m.frame <= 0 {
		return nil
	}
	return tea.Tick(m.frame, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}
