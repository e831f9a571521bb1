package config

import (
	"fmt"
	"net"
	"strconv"

	"github.com/grovetools/padnav/errors"
	"github.com/grovetools/padnav/pkg/input"
)

// Validate checks values the schema cannot express.
func (c *Config) Validate() error {
	if c.Input.Deadzone < 0 || c.Input.Deadzone >= 1 {
		return errors.New(errors.ErrCodeConfigValidation, "input.deadzone must be in [0, 1)").
			WithDetail("deadzone", c.Input.Deadzone)
	}
	if c.Input.RepeatRateMS < 0 || c.Input.RepeatDelayMS < 0 || c.Input.FrameIntervalMS < 0 {
		return errors.New(errors.ErrCodeConfigValidation, "input timings cannot be negative")
	}
	if c.Registry.MutationDebounceMS < 0 || c.Registry.ResizeDebounceMS < 0 {
		return errors.New(errors.ErrCodeConfigValidation, "registry debounce intervals cannot be negative")
	}

	for key, name := range c.Mapping.Buttons {
		if _, err := parseIndex(key); err != nil {
			return errors.Wrap(err, errors.ErrCodeConfigValidation, "invalid mapping.buttons key").
				WithDetail("key", key)
		}
		if _, err := input.ParseBinding(name); err != nil {
			return errors.Wrap(err, errors.ErrCodeConfigValidation, fmt.Sprintf("invalid mapping for button %s", key)).
				WithDetail("control", name)
		}
	}
	for key, name := range c.Mapping.Axes {
		if _, err := parseIndex(key); err != nil {
			return errors.Wrap(err, errors.ErrCodeConfigValidation, "invalid mapping.axes key").
				WithDetail("key", key)
		}
		if _, err := input.ParseAxis(name); err != nil {
			return errors.Wrap(err, errors.ErrCodeConfigValidation, fmt.Sprintf("invalid mapping for axis %s", key)).
				WithDetail("axis", name)
		}
	}

	if err := validateAddr("devices.remote_addr", c.Devices.RemoteAddr); err != nil {
		return err
	}
	if c.Metrics.Enabled {
		if err := validateAddr("metrics.addr", c.Metrics.Addr); err != nil {
			return err
		}
	}
	return nil
}

// MappingOverrides converts the mapping section into raw-index keyed maps.
func (c *Config) MappingOverrides() (buttons, axes map[int]string, err error) {
	buttons = make(map[int]string, len(c.Mapping.Buttons))
	for key, name := range c.Mapping.Buttons {
		idx, err := parseIndex(key)
		if err != nil {
			return nil, nil, err
		}
		buttons[idx] = name
	}
	axes = make(map[int]string, len(c.Mapping.Axes))
	for key, name := range c.Mapping.Axes {
		idx, err := parseIndex(key)
		if err != nil {
			return nil, nil, err
		}
		axes[idx] = name
	}
	return buttons, axes, nil
}

func parseIndex(key string) (int, error) {
	idx, err := strconv.Atoi(key)
	if err != nil {
		return 0, fmt.Errorf("index %q is not a number", key)
	}
	if idx < 0 {
		return 0, fmt.Errorf("index %d is negative", idx)
	}
	return idx, nil
}

func validateAddr(field, addr string) error {
	if addr == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigValidation, fmt.Sprintf("%s must be host:port", field)).
			WithDetail("addr", addr)
	}
	return nil
}
