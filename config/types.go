package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Defaults applied by SetDefaults.
const (
	DefaultDeadzone           = 0.4
	DefaultRepeatDelayMS      = 500
	DefaultRepeatRateMS       = 100
	DefaultFrameIntervalMS    = 16
	DefaultScrollSpeed        = 20
	DefaultMutationDebounceMS = 100
	DefaultResizeDebounceMS   = 250
	DefaultAlignmentWeight    = 1.0
	DefaultConeRatio          = 0.5
	DefaultScrollBehavior     = "smooth"
	DefaultScrollBlock        = "center"
	DefaultJoystickDir        = "/dev/input"
	DefaultMetricsAddr        = "127.0.0.1:9464"
)

// InputConfig tunes the input aggregator.
type InputConfig struct {
	Deadzone        float64 `yaml:"deadzone,omitempty" toml:"deadzone,omitempty" jsonschema:"description=Minimum stick deflection treated as intentional,minimum=0,maximum=1"`
	RepeatDelayMS   int     `yaml:"repeat_delay_ms,omitempty" toml:"repeat_delay_ms,omitempty" jsonschema:"description=Hold time before auto-repeat starts (ms),minimum=0"`
	RepeatRateMS    int     `yaml:"repeat_rate_ms,omitempty" toml:"repeat_rate_ms,omitempty" jsonschema:"description=Spacing of auto-repeat events (ms),minimum=0"`
	FrameIntervalMS int     `yaml:"frame_interval_ms,omitempty" toml:"frame_interval_ms,omitempty" jsonschema:"description=Input polling interval (ms),minimum=0"`
	ScrollSpeed     float64 `yaml:"scroll_speed,omitempty" toml:"scroll_speed,omitempty" jsonschema:"description=Scroll units per frame at full right-stick deflection,minimum=0"`
	EmitRelease     bool    `yaml:"emit_release,omitempty" toml:"emit_release,omitempty" jsonschema:"description=Emit button-up events"`
}

// RepeatDelay returns RepeatDelayMS as a duration.
func (c InputConfig) RepeatDelay() time.Duration {
	return time.Duration(c.RepeatDelayMS) * time.Millisecond
}

// RepeatRate returns RepeatRateMS as a duration.
func (c InputConfig) RepeatRate() time.Duration {
	return time.Duration(c.RepeatRateMS) * time.Millisecond
}

// FrameInterval returns FrameIntervalMS as a duration.
func (c InputConfig) FrameInterval() time.Duration {
	return time.Duration(c.FrameIntervalMS) * time.Millisecond
}

// RegistryConfig controls how the focusable registry is built and refreshed.
type RegistryConfig struct {
	Scope              string `yaml:"scope,omitempty" toml:"scope,omitempty" jsonschema:"description=Restrict candidates to one group (empty means the whole page)"`
	MutationDebounceMS int    `yaml:"mutation_debounce_ms,omitempty" toml:"mutation_debounce_ms,omitempty" jsonschema:"description=Quiet period after structural changes before rebuilding (ms),minimum=0"`
	ResizeDebounceMS   int    `yaml:"resize_debounce_ms,omitempty" toml:"resize_debounce_ms,omitempty" jsonschema:"description=Quiet period after viewport resizes before rebuilding (ms),minimum=0"`
}

// ResolverConfig holds the directional scoring weights.
type ResolverConfig struct {
	AlignmentWeight float64 `yaml:"alignment_weight,omitempty" toml:"alignment_weight,omitempty" jsonschema:"description=Penalty factor for perpendicular offset,minimum=0"`
	ConeRatio       float64 `yaml:"cone_ratio,omitempty" toml:"cone_ratio,omitempty" jsonschema:"description=Primary offset must exceed this ratio of the perpendicular offset,minimum=0"`
}

// FocusConfig controls scroll-into-view.
type FocusConfig struct {
	ScrollBehavior string `yaml:"scroll_behavior,omitempty" toml:"scroll_behavior,omitempty" jsonschema:"description=Scroll animation,enum=smooth,enum=auto,enum=instant"`
	ScrollBlock    string `yaml:"scroll_block,omitempty" toml:"scroll_block,omitempty" jsonschema:"description=Vertical alignment of a focused element scrolled into view,enum=start,enum=center,enum=end,enum=nearest"`
}

// MappingConfig overrides the standard gamepad layout. Keys are raw
// indices, values are control names (confirm, dpad_up, left_x...).
type MappingConfig struct {
	Buttons map[string]string `yaml:"buttons,omitempty" toml:"buttons,omitempty" jsonschema:"description=Raw button index to control name"`
	Axes    map[string]string `yaml:"axes,omitempty" toml:"axes,omitempty" jsonschema:"description=Raw axis index to axis name"`
}

// DevicesConfig selects input device sources.
type DevicesConfig struct {
	Joystick    *bool  `yaml:"joystick,omitempty" toml:"joystick,omitempty" jsonschema:"description=Read Linux joystick devices (default: true)"`
	JoystickDir string `yaml:"joystick_dir,omitempty" toml:"joystick_dir,omitempty" jsonschema:"description=Directory holding js* device nodes"`
	RemoteAddr  string `yaml:"remote_addr,omitempty" toml:"remote_addr,omitempty" jsonschema:"description=Listen address for WebSocket virtual pads (empty disables)"`
}

// JoystickEnabled reports whether the joystick source should run.
func (c DevicesConfig) JoystickEnabled() bool {
	return c.Joystick == nil || *c.Joystick
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled,omitempty" toml:"enabled,omitempty" jsonschema:"description=Serve /metrics"`
	Addr    string `yaml:"addr,omitempty" toml:"addr,omitempty" jsonschema:"description=Listen address for /metrics"`
}

// Config is the content of a padnav.yml file.
type Config struct {
	Version  string         `yaml:"version,omitempty" toml:"version,omitempty" jsonschema:"description=Configuration version (e.g. '1.0')"`
	Layout   string         `yaml:"layout,omitempty" toml:"layout,omitempty" jsonschema:"description=Default layout document for run and inspect"`
	Input    InputConfig    `yaml:"input,omitempty" toml:"input,omitempty" jsonschema:"description=Input timing and thresholds"`
	Registry RegistryConfig `yaml:"registry,omitempty" toml:"registry,omitempty" jsonschema:"description=Focusable registry settings"`
	Resolver ResolverConfig `yaml:"resolver,omitempty" toml:"resolver,omitempty" jsonschema:"description=Directional resolver weights"`
	Focus    FocusConfig    `yaml:"focus,omitempty" toml:"focus,omitempty" jsonschema:"description=Focus controller settings"`
	Mapping  MappingConfig  `yaml:"mapping,omitempty" toml:"mapping,omitempty" jsonschema:"description=Gamepad mapping overrides"`
	Devices  DevicesConfig  `yaml:"devices,omitempty" toml:"devices,omitempty" jsonschema:"description=Device sources"`
	Metrics  MetricsConfig  `yaml:"metrics,omitempty" toml:"metrics,omitempty" jsonschema:"description=Prometheus metrics"`

	// Extensions captures all other top-level keys, such as logging.
	Extensions map[string]interface{} `yaml:",inline" toml:"-" jsonschema:"-"`
}

// Default returns a Config with every default applied.
func Default() *Config {
	c := &Config{}
	c.SetDefaults()
	return c
}

// SetDefaults fills unset values.
func (c *Config) SetDefaults() {
	if c.Version == "" {
		c.Version = "1.0"
	}
	if c.Input.Deadzone == 0 {
		c.Input.Deadzone = DefaultDeadzone
	}
	if c.Input.RepeatDelayMS == 0 {
		c.Input.RepeatDelayMS = DefaultRepeatDelayMS
	}
	if c.Input.RepeatRateMS == 0 {
		c.Input.RepeatRateMS = DefaultRepeatRateMS
	}
	if c.Input.FrameIntervalMS == 0 {
		c.Input.FrameIntervalMS = DefaultFrameIntervalMS
	}
	if c.Input.ScrollSpeed == 0 {
		c.Input.ScrollSpeed = DefaultScrollSpeed
	}
	if c.Registry.MutationDebounceMS == 0 {
		c.Registry.MutationDebounceMS = DefaultMutationDebounceMS
	}
	if c.Registry.ResizeDebounceMS == 0 {
		c.Registry.ResizeDebounceMS = DefaultResizeDebounceMS
	}
	if c.Resolver.AlignmentWeight == 0 {
		c.Resolver.AlignmentWeight = DefaultAlignmentWeight
	}
	if c.Resolver.ConeRatio == 0 {
		c.Resolver.ConeRatio = DefaultConeRatio
	}
	if c.Focus.ScrollBehavior == "" {
		c.Focus.ScrollBehavior = DefaultScrollBehavior
	}
	if c.Focus.ScrollBlock == "" {
		c.Focus.ScrollBlock = DefaultScrollBlock
	}
	if c.Devices.JoystickDir == "" {
		c.Devices.JoystickDir = DefaultJoystickDir
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = DefaultMetricsAddr
	}
}

// UnmarshalExtension decodes a free-form top-level section into target,
// which must be a pointer. A missing key leaves target untouched.
//
// Example:
//
//	var logCfg logging.Config
//	err := cfg.UnmarshalExtension("logging", &logCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "yaml",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}
