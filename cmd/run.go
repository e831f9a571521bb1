package cmd

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/grovetools/padnav/cli"
	"github.com/grovetools/padnav/errors"
	"github.com/grovetools/padnav/logging"
	"github.com/grovetools/padnav/pkg/input"
	"github.com/grovetools/padnav/pkg/jsdev"
	"github.com/grovetools/padnav/pkg/layout"
	"github.com/grovetools/padnav/pkg/metrics"
	"github.com/grovetools/padnav/pkg/remote"
	"github.com/grovetools/padnav/tui"
	"github.com/grovetools/padnav/tui/padview"
	"github.com/grovetools/padnav/util/pathutil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// NewRunCmd creates the `run` command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [layout]",
		Short: "Navigate a layout with gamepads and the keyboard",
		Long: `Opens the layout in the pad view. Joysticks under the device directory and
virtual pads connected over WebSocket move focus alongside the keyboard. The
layout file is reloaded when it changes.`,
		Example: `padnav run menu.yml
padnav run --remote :8080 --metrics :9464 menu.yml
padnav run --headless --remote :8080 menu.yml`,
		Args: cobra.MaximumNArgs(1),
	}
	cmd.Flags().Bool("no-joystick", false, "Do not read joystick devices")
	cmd.Flags().String("joystick-dir", "", "Directory holding js* device nodes (default from config)")
	cmd.Flags().String("remote", "", "Listen address for WebSocket virtual pads")
	cmd.Flags().String("metrics", "", "Listen address for Prometheus metrics")
	cmd.Flags().String("scope", "", "Restrict navigation to one group")
	cmd.Flags().Bool("no-watch", false, "Do not reload the layout when the file changes")
	cmd.Flags().Bool("headless", false, "Run without the terminal view and log events instead")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runNavigator(ctx, cmd, args)
	}
	return cmd
}

func runNavigator(ctx context.Context, cmd *cobra.Command, args []string) error {
	logger := cli.GetLogger(cmd)
	flags := cmd.Flags()
	noJoystick, _ := flags.GetBool("no-joystick")
	joystickDir, _ := flags.GetString("joystick-dir")
	remoteAddr, _ := flags.GetString("remote")
	metricsAddr, _ := flags.GetString("metrics")
	noWatch, _ := flags.GetBool("no-watch")
	headless, _ := flags.GetBool("headless")

	var (
		js     *jsdev.Source
		server *remote.Server
		reg    = prometheus.NewRegistry()
	)
	s, err := openSession(cmd, args, func(s *session) {
		cfg := s.cfg
		if joystickDir == "" {
			joystickDir = cfg.Devices.JoystickDir
		}
		if remoteAddr == "" {
			remoteAddr = cfg.Devices.RemoteAddr
		}
		if metricsAddr == "" && cfg.Metrics.Enabled {
			metricsAddr = cfg.Metrics.Addr
		}

		var sources input.MultiSource
		if !noJoystick && cfg.Devices.JoystickEnabled() {
			if dir, err := pathutil.Expand(joystickDir); err == nil {
				joystickDir = dir
			}
			js = jsdev.NewSource(jsdev.Options{Dir: joystickDir, Logger: logging.NewLogger("padnav.jsdev")})
			sources = append(sources, js)
		}
		if remoteAddr != "" {
			server = remote.NewServer(remote.Options{
				OnConnect:    func(id string) { s.nav.DeviceConnected(id) },
				OnDisconnect: func(id string) { s.nav.DeviceDisconnected(id) },
				Logger:       logging.NewLogger("padnav.remote"),
			})
			sources = append(sources, server)
		}
		s.opts.Devices = sources
		if metricsAddr != "" {
			s.opts.Metrics = metrics.New(reg)
		}
		s.opts.OnButton = func(ev input.Event) {
			logger.WithField("event", ev.String()).Debug("Unhandled button")
		}
		if headless {
			s.opts.OnEvent = func(ev input.Event) {
				logger.WithField("event", ev.String()).Info("Input")
			}
		}
	})
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if js != nil {
		g.Go(func() error {
			err := js.Run(gctx)
			if errors.Is(err, errors.ErrCodeDeviceUnavailable) {
				logger.WithError(err).Warn("Joysticks unavailable, continuing without them")
				return nil
			}
			return err
		})
	}

	serveMetricsWithRemote := server != nil && metricsAddr != "" && metricsAddr == remoteAddr
	if server != nil {
		extra := map[string]http.Handler{}
		if serveMetricsWithRemote {
			extra["/metrics"] = metrics.Handler(reg)
		}
		g.Go(func() error { return server.ListenAndServe(gctx, remoteAddr, extra) })
	}
	if metricsAddr != "" && !serveMetricsWithRemote {
		g.Go(func() error {
			logger.WithField("addr", metricsAddr).Info("Serving metrics")
			return metrics.ListenAndServe(gctx, metricsAddr, reg)
		})
	}

	reloads := make(chan error, 1)
	if !noWatch {
		g.Go(func() error {
			// The page notifies the navigator, which rebuilds by itself.
			return layout.Watch(gctx, s.path, s.page, func(err error) {
				if headless {
					return
				}
				select {
				case reloads <- err:
				default:
				}
			})
		})
	}

	if headless {
		g.Go(func() error {
			if !s.nav.Start(gctx) {
				return errors.New(errors.ErrCodeInternal, "navigator already running")
			}
			<-gctx.Done()
			s.nav.Stop()
			return nil
		})
		logger.WithField("layout", s.path).Info("Running headless")
		return ignoreCanceled(gctx, g.Wait())
	}

	// Log lines would tear the alternate screen.
	prev := logging.GetGlobalOutput()
	logging.SetGlobalOutput(io.Discard)
	defer logging.SetGlobalOutput(prev)

	tui.InitializeTUI()
	viewErr := padview.Run(gctx, padview.Options{
		Navigator:     s.nav,
		Page:          s.page,
		FrameInterval: s.opts.FrameInterval,
	}, reloads)
	// Quitting the view ends the servers and watchers too.
	cancel()
	if err := g.Wait(); err != nil && viewErr == nil {
		viewErr = err
	}
	return ignoreCanceled(gctx, viewErr)
}

func ignoreCanceled(ctx context.Context, err error) error {
	if ctx.Err() != nil && (err == nil || err == context.Canceled) {
		return nil
	}
	return err
}
