// Package input turns raw per-frame gamepad snapshots into discrete,
// debounced navigation events.
package input

import (
	"fmt"
	"strings"
	"time"

	"github.com/grovetools/padnav/pkg/geom"
)

// LogicalButton is a cross-device button identity. Raw per-gamepad button
// indices are mapped onto these through a Mapping.
type LogicalButton uint8

const (
	Confirm LogicalButton = iota
	Cancel
	Secondary
	Tertiary
	SwitchPrevious
	SwitchNext
	Menu
	View

	buttonCount
)

var buttonNames = [buttonCount]string{
	Confirm:        "confirm",
	Cancel:         "cancel",
	Secondary:      "secondary",
	Tertiary:       "tertiary",
	SwitchPrevious: "switch_previous",
	SwitchNext:     "switch_next",
	Menu:           "menu",
	View:           "view",
}

func (b LogicalButton) String() string {
	if b < buttonCount {
		return buttonNames[b]
	}
	return fmt.Sprintf("button(%d)", uint8(b))
}

// ParseButton resolves a configured button name.
func ParseButton(s string) (LogicalButton, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range buttonNames {
		if n == name {
			return LogicalButton(i), nil
		}
	}
	return 0, fmt.Errorf("unknown button %q", s)
}

// Axis is a logical analog axis.
type Axis uint8

const (
	LeftX Axis = iota
	LeftY
	RightX
	RightY

	axisCount
)

var axisNames = [axisCount]string{
	LeftX:  "left_x",
	LeftY:  "left_y",
	RightX: "right_x",
	RightY: "right_y",
}

func (a Axis) String() string {
	if a < axisCount {
		return axisNames[a]
	}
	return fmt.Sprintf("axis(%d)", uint8(a))
}

// ParseAxis resolves a configured axis name.
func ParseAxis(s string) (Axis, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range axisNames {
		if n == name {
			return Axis(i), nil
		}
	}
	return 0, fmt.Errorf("unknown axis %q", s)
}

// RawSnapshot is one device's state as reported by a DeviceSource for a
// single frame. Buttons hold pressure values (0 released, 1 fully pressed);
// axes hold deflections nominally in [-1,1]. Either slice may be shorter
// than the mapping expects.
type RawSnapshot struct {
	DeviceID string    `json:"id"`
	Buttons  []float64 `json:"buttons"`
	Axes     []float64 `json:"axes"`
}

// DeviceSource is the host's gamepad API equivalent.
type DeviceSource interface {
	Poll() []RawSnapshot
}

// SourceFunc adapts a function to DeviceSource.
type SourceFunc func() []RawSnapshot

// Poll calls f.
func (f SourceFunc) Poll() []RawSnapshot { return f() }

// MultiSource merges several sources into a single poll.
type MultiSource []DeviceSource

// Poll concatenates the snapshots of every non-nil source.
func (m MultiSource) Poll() []RawSnapshot {
	var out []RawSnapshot
	for _, src := range m {
		if src == nil {
			continue
		}
		out = append(out, src.Poll()...)
	}
	return out
}

// EventKind classifies an aggregated event.
type EventKind uint8

const (
	KindConnect EventKind = iota
	KindDisconnect
	KindDirection
	KindButton
	KindScroll
)

func (k EventKind) String() string {
	switch k {
	case KindConnect:
		return "connect"
	case KindDisconnect:
		return "disconnect"
	case KindDirection:
		return "direction"
	case KindButton:
		return "button"
	case KindScroll:
		return "scroll"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Event is a discrete logical input produced by the Aggregator.
type Event struct {
	Kind      EventKind
	Device    string
	Direction geom.Direction
	Button    LogicalButton
	// Repeat is set for auto-repeat emissions of a held input.
	Repeat bool
	// Released marks a button-up event; only emitted when enabled in Config.
	Released bool
	// Amount is the scroll distance for KindScroll events.
	Amount float64
	At     time.Time
}

func (e Event) String() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	switch e.Kind {
	case KindDirection:
		b.WriteString(":" + e.Direction.String())
	case KindButton:
		b.WriteString(":" + e.Button.String())
	case KindScroll:
		fmt.Fprintf(&b, ":%.1f", e.Amount)
	}
	if e.Repeat {
		b.WriteString(" (repeat)")
	}
	if e.Released {
		b.WriteString(" (released)")
	}
	if e.Device != "" {
		b.WriteString(" @" + e.Device)
	}
	return b.String()
}
