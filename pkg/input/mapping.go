package input

import (
	"fmt"
	"strings"

	"github.com/grovetools/padnav/pkg/geom"
)

// Binding is the logical control a raw button index drives: either a
// logical button or one of the D-pad directions.
type Binding struct {
	Button    LogicalButton
	DPad      bool
	Direction geom.Direction
}

// ButtonBinding binds a raw index to a logical button.
func ButtonBinding(b LogicalButton) Binding { return Binding{Button: b} }

// DPadBinding binds a raw index to a D-pad direction.
func DPadBinding(d geom.Direction) Binding { return Binding{DPad: true, Direction: d} }

func (b Binding) String() string {
	if b.DPad {
		return "dpad_" + b.Direction.String()
	}
	return b.Button.String()
}

// ParseBinding resolves names such as "confirm" or "dpad_up".
func ParseBinding(s string) (Binding, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if rest, ok := strings.CutPrefix(name, "dpad_"); ok {
		d, err := geom.ParseDirection(rest)
		if err != nil {
			return Binding{}, fmt.Errorf("unknown control %q", s)
		}
		return DPadBinding(d), nil
	}
	btn, err := ParseButton(name)
	if err != nil {
		return Binding{}, fmt.Errorf("unknown control %q", s)
	}
	return ButtonBinding(btn), nil
}

// Mapping translates raw per-device indices into logical controls.
type Mapping struct {
	Buttons map[int]Binding
	Axes    map[int]Axis
}

// StandardMapping returns the W3C "standard" gamepad layout.
func StandardMapping() Mapping {
	return Mapping{
		Buttons: map[int]Binding{
			0:  ButtonBinding(Confirm),
			1:  ButtonBinding(Cancel),
			2:  ButtonBinding(Secondary),
			3:  ButtonBinding(Tertiary),
			4:  ButtonBinding(SwitchPrevious),
			5:  ButtonBinding(SwitchNext),
			8:  ButtonBinding(View),
			9:  ButtonBinding(Menu),
			12: DPadBinding(geom.Up),
			13: DPadBinding(geom.Down),
			14: DPadBinding(geom.Left),
			15: DPadBinding(geom.Right),
		},
		Axes: map[int]Axis{
			0: LeftX,
			1: LeftY,
			2: RightX,
			3: RightY,
		},
	}
}

// WithOverrides returns a copy of m with the named bindings replacing the
// defaults. Keys are raw indices, values are control or axis names.
func (m Mapping) WithOverrides(buttons, axes map[int]string) (Mapping, error) {
	out := Mapping{
		Buttons: make(map[int]Binding, len(m.Buttons)+len(buttons)),
		Axes:    make(map[int]Axis, len(m.Axes)+len(axes)),
	}
	for k, v := range m.Buttons {
		out.Buttons[k] = v
	}
	for k, v := range m.Axes {
		out.Axes[k] = v
	}
	for idx, name := range buttons {
		if idx < 0 {
			return Mapping{}, fmt.Errorf("negative button index %d", idx)
		}
		b, err := ParseBinding(name)
		if err != nil {
			return Mapping{}, err
		}
		out.Buttons[idx] = b
	}
	for idx, name := range axes {
		if idx < 0 {
			return Mapping{}, fmt.Errorf("negative axis index %d", idx)
		}
		a, err := ParseAxis(name)
		if err != nil {
			return Mapping{}, err
		}
		out.Axes[idx] = a
	}
	return out, nil
}
