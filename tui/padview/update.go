package padview

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/padnav/pkg/geom"
)

// Update handles messages and updates the model accordingly.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.page.Resize(float64(msg.Width), float64(m.canvasHeight()))
		return m, nil

	case frameMsg:
		if events := m.nav.Tick(time.Time(msg)); len(events) > 0 {
			m.lastEvent = events[len(events)-1].String()
		}
		return m, m.nextFrame()

	case ReloadMsg:
		m.reloadErr = msg.Err
		if msg.Err == nil {
			m.lastAction = "layout reloaded"
		}
		return m, nil

	case tea.KeyMsg:
		if m.help.ShowAll {
			m.help.ShowAll = false
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = true

		case key.Matches(msg, m.keys.Up):
			m.move(geom.Up)
		case key.Matches(msg, m.keys.Down):
			m.move(geom.Down)
		case key.Matches(msg, m.keys.Left):
			m.move(geom.Left)
		case key.Matches(msg, m.keys.Right):
			m.move(geom.Right)

		case key.Matches(msg, m.keys.Next):
			m.cycle(1)
		case key.Matches(msg, m.keys.Prev):
			m.cycle(-1)

		case key.Matches(msg, m.keys.Confirm):
			m.lastAction = "activate: " + m.nav.Activate().String()

		case key.Matches(msg, m.keys.Cancel):
			m.lastAction = "cancel: " + m.nav.Cancel().String()

		case key.Matches(msg, m.keys.PageUp):
			m.nav.ScrollBy(-m.page.ViewportRect().Height)
		case key.Matches(msg, m.keys.PageDown):
			m.nav.ScrollBy(m.page.ViewportRect().Height)

		case key.Matches(msg, m.keys.Overlay):
			m.openOverlay()

		case key.Matches(msg, m.keys.Rebuild):
			res := m.nav.Rebuild()
			m.lastAction = fmt.Sprintf("rebuilt: %d elements", res.Size)
		}
	}

	return m, nil
}

func (m *Model) move(dir geom.Direction) {
	index, ok := m.nav.Move(dir)
	if !ok {
		m.lastAction = "nothing to focus"
		return
	}
	m.lastAction = fmt.Sprintf("move %s → %d", dir, index)
}

// openOverlay shows the first overlay of the document that is not open.
func (m *Model) openOverlay() {
	open := map[string]bool{}
	for _, id := range m.page.OpenOverlays() {
		open[id] = true
	}
	for _, o := range m.page.Document().Overlays {
		if open[o.ID] {
			continue
		}
		if err := m.page.OpenOverlay(o.ID); err != nil {
			m.lastAction = err.Error()
			return
		}
		m.lastAction = "opened " + o.ID
		return
	}
	m.lastAction = "no overlay to open"
}

// cycle steps through the registry in document order, like tabbing.
func (m *Model) cycle(step int) {
	n := len(m.nav.Elements())
	if n == 0 {
		return
	}
	index := m.nav.CurrentIndex()
	if index < 0 {
		index = 0
	} else {
		index = ((index+step)%n + n) % n
	}
	m.nav.Focus(index)
	m.lastAction = fmt.Sprintf("focus %d", index)
}

func (m *Model) canvasHeight() int {
	if h := m.height - chromeHeight; h > 1 {
		return h
	}
	return 1
}
