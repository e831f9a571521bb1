package cmd

import (
	"fmt"
	"strings"

	"github.com/grovetools/padnav/cli"
	"github.com/grovetools/padnav/config"
	"github.com/grovetools/padnav/errors"
	"github.com/grovetools/padnav/pkg/geom"
	"github.com/grovetools/padnav/pkg/layout"
	"github.com/grovetools/padnav/pkg/navigator"
	"github.com/grovetools/padnav/util/pathutil"
	"github.com/spf13/cobra"
)

// session is a page and a keyboard-only navigator over it.
type session struct {
	cfg  *config.Config
	path string
	page *layout.Page
	nav  *navigator.Navigator
	opts navigator.Options
}

func (s *session) Close() {
	if s.nav != nil {
		s.nav.Close()
	}
}

// layoutPath picks the layout argument or the configured default.
func layoutPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return pathutil.Expand(args[0])
	}
	if cfg.Layout != "" {
		return pathutil.Expand(cfg.Layout)
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "no layout file given and none configured (set layout: in padnav.yml)")
}

// openSession loads configuration and the layout. configure runs before
// the navigator is built so callers can add devices and hooks.
func openSession(cmd *cobra.Command, args []string, configure func(*session)) (*session, error) {
	cfg, err := cli.LoadConfig(cmd)
	if err != nil {
		return nil, err
	}
	path, err := layoutPath(args, cfg)
	if err != nil {
		return nil, err
	}
	doc, err := layout.Load(path)
	if err != nil {
		return nil, err
	}
	opts, err := navigator.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	if scope, _ := cmd.Flags().GetString("scope"); scope != "" {
		opts.Scope = scope
	}

	s := &session{cfg: cfg, path: path, page: layout.NewPage(doc), opts: opts}
	s.opts.Source = s.page
	s.opts.Notifier = s.page
	s.opts.Ports = s.page.Ports()
	if configure != nil {
		configure(s)
	}
	s.nav = navigator.New(s.opts)
	return s, nil
}

// parseDirections reads a comma separated list such as "down,down,right".
func parseDirections(s string) ([]geom.Direction, error) {
	var dirs []geom.Direction
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		d, err := geom.ParseDirection(part)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInvalidInput, fmt.Sprintf("invalid direction %q", part))
		}
		dirs = append(dirs, d)
	}
	if len(dirs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no direction given")
	}
	return dirs, nil
}

// focusElement focuses id, or leaves nothing focused when id is empty.
func focusElement(nav *navigator.Navigator, id string) error {
	if id == "" {
		return nil
	}
	if !nav.KeyboardFocus(layout.Ref(id)) {
		return errors.ElementNotFound(id).WithDetail("reason", "not focusable")
	}
	return nil
}

func formatRect(r geom.Rect) string {
	return fmt.Sprintf("%g,%g %gx%g", r.Left, r.Top, r.Width, r.Height)
}
