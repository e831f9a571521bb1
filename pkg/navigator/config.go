package navigator

import (
	"time"

	"github.com/grovetools/padnav/config"
	"github.com/grovetools/padnav/errors"
	"github.com/grovetools/padnav/pkg/focus"
	"github.com/grovetools/padnav/pkg/input"
	"github.com/grovetools/padnav/pkg/registry"
	"github.com/grovetools/padnav/pkg/resolve"
)

// OptionsFromConfig fills the tuning fields of Options from a loaded
// configuration. Host wiring (Source, Ports, Devices and hooks) is left to
// the caller.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	buttons, axes, err := cfg.MappingOverrides()
	if err != nil {
		return Options{}, err
	}
	mapping, err := input.StandardMapping().WithOverrides(buttons, axes)
	if err != nil {
		return Options{}, errors.Wrap(err, errors.ErrCodeConfigValidation, "invalid gamepad mapping")
	}

	return Options{
		Scope: cfg.Registry.Scope,
		Input: input.Config{
			Deadzone:    cfg.Input.Deadzone,
			RepeatDelay: cfg.Input.RepeatDelay(),
			RepeatRate:  cfg.Input.RepeatRate(),
			ScrollSpeed: cfg.Input.ScrollSpeed,
			EmitRelease: cfg.Input.EmitRelease,
		},
		Mapping:       mapping,
		FrameInterval: cfg.Input.FrameInterval(),
		Weights: resolve.Weights{
			AlignmentWeight: cfg.Resolver.AlignmentWeight,
			ConeRatio:       cfg.Resolver.ConeRatio,
		},
		Scroll: focus.ScrollOptions{
			Behavior: cfg.Focus.ScrollBehavior,
			Block:    cfg.Focus.ScrollBlock,
		},
		Watch: registry.WatcherConfig{
			MutationDebounce: time.Duration(cfg.Registry.MutationDebounceMS) * time.Millisecond,
			ResizeDebounce:   time.Duration(cfg.Registry.ResizeDebounceMS) * time.Millisecond,
		},
	}, nil
}
