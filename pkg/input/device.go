package input

import (
	"math"
	"time"

	"github.com/grovetools/padnav/pkg/geom"
)

// buttonThreshold is the pressure at which an analog button counts as pressed.
const buttonThreshold = 0.5

// DeviceState is the aggregated per-device input state. It is owned and
// mutated by the Aggregator; callers should treat it as read-only.
type DeviceState struct {
	ID        string
	Buttons   map[LogicalButton]bool
	Axes      map[Axis]float64
	LastEvent time.Time

	dpad       [4]bool
	directions [4]Repeater
	buttons    [buttonCount]Repeater
	observed   bool
}

func newDeviceState(id string) *DeviceState {
	return &DeviceState{
		ID:      id,
		Buttons: make(map[LogicalButton]bool, buttonCount),
		Axes:    make(map[Axis]float64, axisCount),
	}
}

// Pressed reports whether a logical button is currently held.
func (s *DeviceState) Pressed(b LogicalButton) bool {
	return s.Buttons[b]
}

// Axis returns the normalized value of a logical axis, 0 when unreported.
func (s *DeviceState) Axis(a Axis) float64 {
	return s.Axes[a]
}

// DirectionHeld reports whether d was active at the last update.
func (s *DeviceState) DirectionHeld(d geom.Direction) bool {
	if int(d) >= len(s.directions) {
		return false
	}
	return s.directions[d].Active()
}

// RepeatArmed reports whether any held direction has a pending repeat.
func (s *DeviceState) RepeatArmed() bool {
	_, ok := s.RepeatDirection()
	return ok
}

// RepeatDirection returns the held direction whose repeat is armed. When
// several are held the first in Up, Down, Left, Right order wins.
func (s *DeviceState) RepeatDirection() (geom.Direction, bool) {
	for _, d := range geom.Directions {
		if s.directions[d].Armed() {
			return d, true
		}
	}
	return 0, false
}

// apply folds a raw snapshot into the state. Short slices leave the
// missing controls released/centred; non-finite values read as zero.
func (s *DeviceState) apply(snap RawSnapshot, m Mapping) {
	for b := range s.Buttons {
		s.Buttons[b] = false
	}
	for a := range s.Axes {
		s.Axes[a] = 0
	}
	s.dpad = [4]bool{}

	for idx, v := range snap.Buttons {
		binding, ok := m.Buttons[idx]
		if !ok {
			continue
		}
		pressed := finite(v) && v >= buttonThreshold
		if !pressed {
			continue
		}
		if binding.DPad {
			s.dpad[binding.Direction] = true
		} else {
			s.Buttons[binding.Button] = true
		}
	}
	for idx, v := range snap.Axes {
		axis, ok := m.Axes[idx]
		if !ok {
			continue
		}
		s.Axes[axis] = clampUnit(v)
	}
}

// directionActive combines the D-pad with left-stick deflection. A
// deflection whose magnitude reaches the deadzone counts as active.
func (s *DeviceState) directionActive(d geom.Direction, deadzone float64) bool {
	if s.dpad[d] {
		return true
	}
	switch d {
	case geom.Up:
		return s.Axes[LeftY] <= -deadzone
	case geom.Down:
		return s.Axes[LeftY] >= deadzone
	case geom.Left:
		return s.Axes[LeftX] <= -deadzone
	default:
		return s.Axes[LeftX] >= deadzone
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clampUnit(v float64) float64 {
	if !finite(v) {
		return 0
	}
	return math.Max(-1, math.Min(1, v))
}
