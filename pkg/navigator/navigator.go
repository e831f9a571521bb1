// Package navigator composes input aggregation, the focusable registry, the
// directional resolver and the focus controller into one engine.
package navigator

import (
	"context"
	"sync"
	"time"

	"github.com/grovetools/padnav/logging"
	"github.com/grovetools/padnav/pkg/focus"
	"github.com/grovetools/padnav/pkg/geom"
	"github.com/grovetools/padnav/pkg/input"
	"github.com/grovetools/padnav/pkg/metrics"
	"github.com/grovetools/padnav/pkg/registry"
	"github.com/grovetools/padnav/pkg/resolve"
	"github.com/sirupsen/logrus"
)

// Options wires a Navigator to its host. Only Source is needed for keyboard
// navigation; everything else is optional.
type Options struct {
	Source   registry.Source
	Scope    string
	Notifier registry.Notifier
	Ports    focus.Ports
	Devices  input.DeviceSource

	Input         input.Config
	Mapping       input.Mapping
	FrameInterval time.Duration
	Weights       resolve.Weights
	Scroll        focus.ScrollOptions
	Watch         registry.WatcherConfig

	Metrics *metrics.Metrics
	// OnButton receives button events the navigator does not consume itself:
	// everything except Confirm and Cancel presses, plus all releases.
	OnButton func(input.Event)
	// OnEvent observes every event after it has been handled.
	// Both hooks run while the navigator is locked and must not call back
	// into it. That includes Stop and Close: OnEvent runs on the input loop
	// goroutine, which Stop waits for.
	OnEvent func(input.Event)

	Logger *logrus.Entry
	Clock  func() time.Time
}

// Navigator is the focus-navigation engine. All methods are safe for
// concurrent use; they are serialized so each one observes and leaves a
// consistent registry and focus index.
type Navigator struct {
	mu sync.Mutex

	reg      *registry.Registry
	agg      *input.Aggregator
	resolver *resolve.Resolver
	ctl      *focus.Controller
	watcher  *registry.Watcher
	loop     *input.Loop

	metrics  *metrics.Metrics
	onButton func(input.Event)
	onEvent  func(input.Event)
	log      *logrus.Entry
	now      func() time.Time
}

// New builds a Navigator and performs the initial registry build.
func New(opts Options) *Navigator {
	if opts.Logger == nil {
		opts.Logger = logging.NewLogger("padnav.navigator")
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Input == (input.Config{}) {
		opts.Input = input.DefaultConfig()
	}
	if opts.Weights == (resolve.Weights{}) {
		opts.Weights = resolve.DefaultWeights()
	}

	reg := registry.New(opts.Source, opts.Scope)
	n := &Navigator{
		reg:      reg,
		agg:      input.NewAggregator(opts.Input, opts.Mapping, opts.Devices),
		resolver: resolve.New(opts.Weights),
		ctl:      focus.New(reg, opts.Ports, focus.Options{Scroll: opts.Scroll, Logger: opts.Logger}),
		metrics:  opts.Metrics,
		onButton: opts.OnButton,
		onEvent:  opts.OnEvent,
		log:      opts.Logger,
		now:      opts.Clock,
	}
	n.loop = input.NewLoop(opts.FrameInterval, func(now time.Time) { n.Tick(now) })

	n.rebuild("initial")
	if opts.Notifier == nil {
		n.log.Debug("no change notifier; registry rebuilds only on request")
	}
	n.watcher = registry.Watch(opts.Notifier, opts.Watch, func(reason string) {
		n.mu.Lock()
		defer n.mu.Unlock()
		n.rebuild(reason)
	})
	return n
}

// Start runs the per-frame input loop until Stop or ctx is done.
func (n *Navigator) Start(ctx context.Context) bool {
	return n.loop.Start(ctx)
}

// Stop halts the input loop.
func (n *Navigator) Stop() {
	n.loop.Stop()
}

// Close stops the loop and the change watcher.
func (n *Navigator) Close() {
	n.loop.Stop()
	n.watcher.Close()
}

// Tick processes one frame of device input and returns the events it
// handled.
func (n *Navigator) Tick(now time.Time) []input.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	events := n.agg.Tick(now)
	for _, ev := range events {
		n.handle(ev)
	}
	return events
}

// DeviceConnected registers a device announced by the host.
func (n *Navigator) DeviceConnected(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ev := range n.agg.Connect(id, n.now()) {
		n.handle(ev)
	}
}

// DeviceDisconnected forgets a device announced as gone by the host.
func (n *Navigator) DeviceDisconnected(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ev := range n.agg.Disconnect(id, n.now()) {
		n.handle(ev)
	}
}

func (n *Navigator) handle(ev input.Event) {
	log := n.log.WithField("event", ev.String())
	switch ev.Kind {
	case input.KindConnect:
		n.metrics.SetDevices(len(n.agg.Devices()))
		if n.ctl.State() == focus.Idle {
			log.Debug("first device connected")
			n.rebuild("connect")
		}
	case input.KindDisconnect:
		n.metrics.SetDevices(len(n.agg.Devices()))
		if !n.agg.Active() {
			log.Debug("last device disconnected")
			n.ctl.Disengage()
		}
	case input.KindDirection:
		n.move(ev.Direction)
	case input.KindScroll:
		n.ctl.ScrollBy(ev.Amount)
	case input.KindButton:
		n.button(ev)
	}
	if n.onEvent != nil {
		n.onEvent(ev)
	}
}

func (n *Navigator) button(ev input.Event) {
	if !ev.Released && !ev.Repeat {
		n.metrics.Button(ev.Button.String())
	}
	switch {
	case ev.Released:
	case ev.Button == input.Confirm:
		if !ev.Repeat {
			n.activate()
		}
		return
	case ev.Button == input.Cancel:
		if !ev.Repeat {
			n.cancel()
		}
		return
	}
	if n.onButton != nil {
		n.onButton(ev)
	}
}

// Move resolves a directional move from the focused element and focuses the
// result. It returns the new index; false means the registry is empty.
func (n *Navigator) Move(dir geom.Direction) (int, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.move(dir)
}

func (n *Navigator) move(dir geom.Direction) (int, bool) {
	// The host may have gained elements without telling us.
	if n.reg.Len() == 0 {
		n.rebuild("empty")
	}
	res := n.resolver.Explain(n.reg.Elements(), n.reg.Current(), dir)
	if !res.Found {
		return -1, false
	}
	n.ctl.SetFocus(res.Index)
	n.metrics.Move(dir.String(), res.Wrapped)
	return res.Index, true
}

// Explain reports how a move in dir would be resolved without moving.
func (n *Navigator) Explain(dir geom.Direction) resolve.Resolution {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.resolver.Explain(n.reg.Elements(), n.reg.Current(), dir)
}

// Activate triggers the focused element. With nothing focused it does
// nothing.
func (n *Navigator) Activate() focus.Action {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.activate()
}

func (n *Navigator) activate() focus.Action {
	action := n.ctl.Activate(n.reg.Current())
	if action != focus.ActionNone {
		n.metrics.Activate(action.String())
	}
	return action
}

// Cancel closes the open overlay or navigates back.
func (n *Navigator) Cancel() focus.CancelOutcome {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.cancel()
}

func (n *Navigator) cancel() focus.CancelOutcome {
	outcome := n.ctl.Cancel()
	n.metrics.Cancel(outcome.String())
	return outcome
}

// ScrollBy scrolls the page.
func (n *Navigator) ScrollBy(amount float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ctl.ScrollBy(amount)
}

// Focus moves focus to index. Invalid indices are ignored.
func (n *Navigator) Focus(index int) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ctl.SetFocus(index)
}

// KeyboardFocus records that the host moved native focus to ref, so
// directional moves continue from there. Elements not in the registry
// trigger one rebuild before giving up.
func (n *Navigator) KeyboardFocus(ref registry.ElementRef) bool {
	if ref == nil {
		return false
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	index := n.reg.IndexOf(ref.ElementID())
	if index < 0 {
		n.rebuild("keyboard")
		index = n.reg.IndexOf(ref.ElementID())
	}
	if index < 0 {
		n.log.WithField("element", ref.ElementID()).Debug("keyboard focus outside registry")
		return false
	}
	return n.ctl.Sync(index)
}

// Rebuild re-queries the host immediately.
func (n *Navigator) Rebuild() registry.RebuildResult {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.rebuild("manual")
}

func (n *Navigator) rebuild(reason string) registry.RebuildResult {
	active := n.agg.Active()
	res := n.reg.Rebuild(active)
	n.ctl.Reconcile(res, active)
	n.metrics.Rebuild(reason, res.Size)
	n.log.WithFields(logrus.Fields{
		"reason":    reason,
		"size":      res.Size,
		"current":   res.Current,
		"preserved": res.Preserved,
	}).Debug("registry rebuilt")
	return res
}

// CurrentIndex returns the focused index, or -1.
func (n *Navigator) CurrentIndex() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.reg.Current()
}

// Current returns the focused element.
func (n *Navigator) Current() (registry.FocusableElement, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.reg.CurrentElement()
}

// Elements returns a copy of the registry.
func (n *Navigator) Elements() []registry.FocusableElement {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.reg.Elements()
}

// State returns Idle or Active.
func (n *Navigator) State() focus.State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ctl.State()
}

// Devices returns the connected device IDs.
func (n *Navigator) Devices() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.agg.Devices()
}
