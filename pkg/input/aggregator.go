package input

import (
	"sort"
	"time"

	"github.com/grovetools/padnav/pkg/geom"
)

// Config holds the timing and threshold parameters of the Aggregator.
type Config struct {
	// Deadzone is the minimum stick deflection treated as intentional.
	Deadzone float64
	// RepeatDelay is how long an input must be held before auto-repeat.
	RepeatDelay time.Duration
	// RepeatRate is the spacing of auto-repeat emissions.
	RepeatRate time.Duration
	// ScrollSpeed scales right-stick deflection into scroll units per frame.
	ScrollSpeed float64
	// EmitRelease enables button-up events.
	EmitRelease bool
}

// DefaultConfig returns the stock timing parameters.
func DefaultConfig() Config {
	return Config{
		Deadzone:    0.4,
		RepeatDelay: 500 * time.Millisecond,
		RepeatRate:  100 * time.Millisecond,
		ScrollSpeed: 20,
	}
}

// Aggregator converts per-frame snapshots into discrete logical events.
// It is not safe for concurrent use; the Navigator serializes calls.
type Aggregator struct {
	cfg     Config
	mapping Mapping
	source  DeviceSource
	devices map[string]*DeviceState
}

// NewAggregator creates an Aggregator polling source. A nil source is
// allowed and makes every Tick a no-op.
func NewAggregator(cfg Config, mapping Mapping, source DeviceSource) *Aggregator {
	if !(cfg.Deadzone > 0) {
		cfg.Deadzone = DefaultConfig().Deadzone
	}
	if mapping.Buttons == nil && mapping.Axes == nil {
		mapping = StandardMapping()
	}
	return &Aggregator{
		cfg:     cfg,
		mapping: mapping,
		source:  source,
		devices: make(map[string]*DeviceState),
	}
}

// Config returns the effective configuration.
func (a *Aggregator) Config() Config { return a.cfg }

// Connect registers a device announced by a connect notification. It
// returns a connect event, or nothing when the device is already known.
func (a *Aggregator) Connect(id string, now time.Time) []Event {
	if id == "" {
		return nil
	}
	if _, ok := a.devices[id]; ok {
		return nil
	}
	a.devices[id] = newDeviceState(id)
	return []Event{{Kind: KindConnect, Device: id, At: now}}
}

// Disconnect forgets a device. Held inputs are dropped without release events.
func (a *Aggregator) Disconnect(id string, now time.Time) []Event {
	if _, ok := a.devices[id]; !ok {
		return nil
	}
	delete(a.devices, id)
	return []Event{{Kind: KindDisconnect, Device: id, At: now}}
}

// Devices returns the known device IDs in sorted order.
func (a *Aggregator) Devices() []string {
	ids := make([]string, 0, len(a.devices))
	for id := range a.devices {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Device returns the state of a known device.
func (a *Aggregator) Device(id string) (*DeviceState, bool) {
	d, ok := a.devices[id]
	return d, ok
}

// Active reports whether any device is connected.
func (a *Aggregator) Active() bool { return len(a.devices) > 0 }

// Tick runs one frame: poll the source, reconcile device lifecycle, and
// return this frame's events. Within a frame the order is: connects, then
// for each device in ID order its buttons, directions and scroll, then
// disconnects.
func (a *Aggregator) Tick(now time.Time) []Event {
	if a.source == nil {
		return nil
	}
	snaps := a.source.Poll()
	if len(snaps) == 0 && len(a.devices) == 0 {
		return nil
	}

	latest := make(map[string]RawSnapshot, len(snaps))
	for _, s := range snaps {
		if s.DeviceID == "" {
			continue
		}
		latest[s.DeviceID] = s
	}
	ids := make([]string, 0, len(latest))
	for id := range latest {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var events []Event
	for _, id := range ids {
		if _, ok := a.devices[id]; !ok {
			a.devices[id] = newDeviceState(id)
			events = append(events, Event{Kind: KindConnect, Device: id, At: now})
		}
	}
	for _, id := range ids {
		dev := a.devices[id]
		dev.observed = true
		events = append(events, a.update(dev, latest[id], now)...)
	}

	// A device that an earlier poll reported but this one does not is gone.
	var gone []string
	for id, dev := range a.devices {
		if _, ok := latest[id]; !ok && dev.observed {
			gone = append(gone, id)
		}
	}
	sort.Strings(gone)
	for _, id := range gone {
		events = append(events, a.Disconnect(id, now)...)
	}
	return events
}

func (a *Aggregator) update(dev *DeviceState, snap RawSnapshot, now time.Time) []Event {
	dev.apply(snap, a.mapping)

	var events []Event
	for b := LogicalButton(0); b < buttonCount; b++ {
		step := dev.buttons[b].Update(dev.Buttons[b], now, a.cfg.RepeatDelay, a.cfg.RepeatRate)
		switch {
		case step.Fire:
			events = append(events, Event{Kind: KindButton, Device: dev.ID, Button: b, Repeat: step.Repeat, At: now})
		case step.Released && a.cfg.EmitRelease:
			events = append(events, Event{Kind: KindButton, Device: dev.ID, Button: b, Released: true, At: now})
		}
	}
	for _, d := range geom.Directions {
		active := dev.directionActive(d, a.cfg.Deadzone)
		step := dev.directions[d].Update(active, now, a.cfg.RepeatDelay, a.cfg.RepeatRate)
		if step.Fire {
			events = append(events, Event{Kind: KindDirection, Device: dev.ID, Direction: d, Repeat: step.Repeat, At: now})
		}
	}
	if ry := dev.Axes[RightY]; ry >= a.cfg.Deadzone || ry <= -a.cfg.Deadzone {
		events = append(events, Event{Kind: KindScroll, Device: dev.ID, Amount: ry * a.cfg.ScrollSpeed, At: now})
	}

	if len(events) > 0 {
		dev.LastEvent = now
	}
	return events
}
