package errors

import (
	"fmt"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *NavError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *NavError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// LayoutNotFound creates a layout file not found error
func LayoutNotFound(path string, err error) *NavError {
	return Wrap(err, ErrCodeLayoutNotFound, fmt.Sprintf("layout file not found: %s", path)).
		WithDetail("path", path)
}

// LayoutInvalid creates an invalid layout error
func LayoutInvalid(path, reason string) *NavError {
	e := New(ErrCodeLayoutInvalid, fmt.Sprintf("invalid layout: %s", reason))
	if path != "" {
		e = e.WithDetail("path", path)
	}
	return e
}

// DeviceUnavailable reports that joystick input is not supported here
func DeviceUnavailable(dir string, err error) *NavError {
	return Wrap(err, ErrCodeDeviceUnavailable, fmt.Sprintf("joystick devices unavailable in %s", dir)).
		WithDetail("dir", dir)
}

// DeviceNotFound creates a device not found error
func DeviceNotFound(device string) *NavError {
	return New(ErrCodeDeviceNotFound, fmt.Sprintf("device '%s' not found", device)).
		WithDetail("device", device)
}

// ElementNotFound creates an element not found error
func ElementNotFound(id string) *NavError {
	return New(ErrCodeElementNotFound, fmt.Sprintf("element '%s' not found", id)).
		WithDetail("element", id)
}

// ServerFailed wraps a listener or serve failure
func ServerFailed(addr string, err error) *NavError {
	return Wrap(err, ErrCodeServerFailed, fmt.Sprintf("server on %s failed", addr)).
		WithDetail("addr", addr)
}
