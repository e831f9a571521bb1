package padview

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/padnav/pkg/geom"
	"github.com/grovetools/padnav/pkg/layout"
	"github.com/grovetools/padnav/tui/theme"
)

// View renders the header, the page and the status bar.
func (m *Model) View() string {
	t := theme.DefaultTheme

	header := t.Title.Render(fmt.Sprintf("%s %s", theme.IconGamepad, m.title))
	if loc := m.page.Location(); loc != "/" {
		header += " " + t.Muted.Render(loc)
	}

	vp := m.page.ViewportRect()
	c := newCanvas(int(vp.Width), int(vp.Height))
	drawViews(c, m.page.Views())
	body := c.render(map[paint]lipgloss.Style{
		paintElement:  t.Element,
		paintFocused:  t.FocusedElement,
		paintOverlay:  t.OverlayElement,
		paintDisabled: t.DisabledText,
		paintInert:    t.Muted,
	})

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		body,
		m.statusLine(),
		m.help.View(m.keys),
	)
}

func (m *Model) statusLine() string {
	t := theme.DefaultTheme

	parts := []string{m.nav.State().String()}
	if el, ok := m.nav.Current(); ok {
		parts = append(parts, fmt.Sprintf("%d/%d %s", m.nav.CurrentIndex()+1, len(m.nav.Elements()), el.ID()))
	} else {
		parts = append(parts, fmt.Sprintf("-/%d", len(m.nav.Elements())))
	}

	devices := m.nav.Devices()
	icon := theme.IconKeyboard
	if len(devices) > 0 {
		icon = theme.IconGamepad
	}
	parts = append(parts, fmt.Sprintf("%s %d", icon, len(devices)))

	if m.lastEvent != "" {
		parts = append(parts, m.lastEvent)
	}
	if m.lastAction != "" {
		parts = append(parts, m.lastAction)
	}
	line := t.StatusBar.Render(strings.Join(parts, " │ "))
	if m.reloadErr != nil {
		line += " " + t.Error.Render(fmt.Sprintf("%s %v", theme.IconError, m.reloadErr))
	}
	return line
}

// drawViews paints page elements, then each open overlay on a framed
// backdrop.
func drawViews(c *canvas, views []layout.View) {
	var overlays []string
	byOverlay := map[string][]layout.View{}
	for _, v := range views {
		if v.Overlay == "" {
			drawElement(c, v, paintElement)
			continue
		}
		if _, ok := byOverlay[v.Overlay]; !ok {
			overlays = append(overlays, v.Overlay)
		}
		byOverlay[v.Overlay] = append(byOverlay[v.Overlay], v)
	}

	for _, id := range overlays {
		members := byOverlay[id]
		frame, ok := union(members)
		if !ok {
			continue
		}
		frame = geom.Rect{
			Top:    frame.Top - 1,
			Left:   frame.Left - 2,
			Width:  frame.Width + 4,
			Height: frame.Height + 2,
		}
		c.fill(frame, paintOverlay)
		c.box(frame, "", thinBorder, paintOverlay)
		x0, y0, x1, _ := cellBounds(frame)
		c.text(x0+2, y0, x1-2, " "+id+" ", paintOverlay)
		for _, v := range members {
			drawElement(c, v, paintOverlay)
		}
	}
}

func drawElement(c *canvas, v layout.View, base paint) {
	props := v.Properties()
	if !props.Visible(v.Screen) {
		return
	}
	label := v.Label
	if label == "" {
		label = v.ID
	}
	switch {
	case v.Indicated:
		c.box(v.Screen, label, thickBorder, paintFocused)
	case v.Disabled:
		c.box(v.Screen, label, thinBorder, paintDisabled)
	case !props.Focusable() && base == paintElement:
		c.box(v.Screen, label, thinBorder, paintInert)
	default:
		c.box(v.Screen, label, thinBorder, base)
	}
}

// union returns the bounding rect of the visible views.
func union(views []layout.View) (geom.Rect, bool) {
	var (
		top, left     = math.Inf(1), math.Inf(1)
		bottom, right = math.Inf(-1), math.Inf(-1)
		found         bool
	)
	for _, v := range views {
		if !v.Properties().Visible(v.Screen) {
			continue
		}
		found = true
		top = math.Min(top, v.Screen.Top)
		left = math.Min(left, v.Screen.Left)
		bottom = math.Max(bottom, v.Screen.Bottom())
		right = math.Max(right, v.Screen.Right())
	}
	if !found {
		return geom.Rect{}, false
	}
	return geom.Rect{Top: top, Left: left, Width: right - left, Height: bottom - top}, true
}
