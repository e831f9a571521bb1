// Package padview is an interactive terminal rendering of a layout page
// that can be driven from the keyboard or any connected gamepad.
package padview

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/padnav/errors"
	"github.com/grovetools/padnav/pkg/layout"
	"github.com/grovetools/padnav/pkg/navigator"
)

// Options configures the pad view.
type Options struct {
	Navigator *navigator.Navigator
	Page      *layout.Page
	// FrameInterval is how often the view ticks the navigator. Leave it
	// zero when the navigator runs its own loop.
	FrameInterval time.Duration
	Keys          *KeyMap
}

// New creates a pad view model.
func New(opts Options) *Model {
	keys := DefaultKeyMap
	if opts.Keys != nil {
		keys = *opts.Keys
	}
	title := opts.Page.Document().Title
	if title == "" {
		title = "padnav"
	}
	return &Model{
		nav:   opts.Navigator,
		page:  opts.Page,
		keys:  keys,
		help:  help.New(),
		title: title,
		frame: opts.FrameInterval,
	}
}

// Run shows the pad view until the user quits or ctx is done. Layout
// reloads sent on reloads are reflected in the status bar.
func Run(ctx context.Context, opts Options, reloads <-chan error) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if reloads != nil {
		go func() {
			for {
				select {
				case err, ok := <-reloads:
					if !ok {
						return
					}
					p.Send(ReloadMsg{Err: err})
				case <-ctx.Done():
					return
				}
			}
		}()
	}
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "pad view failed")
	}
	return nil
}
