package navigator

import (
	"testing"
	"time"

	"github.com/grovetools/padnav/config"
	"github.com/grovetools/padnav/errors"
	"github.com/grovetools/padnav/pkg/input"
	"github.com/grovetools/padnav/pkg/resolve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsFromDefaultConfig(t *testing.T) {
	opts, err := OptionsFromConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, input.DefaultConfig(), opts.Input)
	assert.Equal(t, input.DefaultFrameInterval, opts.FrameInterval)
	assert.Equal(t, resolve.DefaultWeights(), opts.Weights)
	assert.Equal(t, "smooth", opts.Scroll.Behavior)
	assert.Equal(t, "center", opts.Scroll.Block)
	assert.Equal(t, 100*time.Millisecond, opts.Watch.MutationDebounce)
	assert.Equal(t, 250*time.Millisecond, opts.Watch.ResizeDebounce)
	assert.Equal(t, input.StandardMapping(), opts.Mapping)
}

func TestOptionsFromConfigOverrides(t *testing.T) {
	cfg, err := config.LoadFromBytes([]byte(`
input:
  deadzone: 0.25
  repeat_delay_ms: 300
  emit_release: true
registry:
  scope: sidebar
resolver:
  cone_ratio: 1
focus:
  scroll_block: nearest
mapping:
  buttons:
    "0": cancel
    "1": confirm
    "16": dpad_up
  axes:
    "4": left_y
`))
	require.NoError(t, err)

	opts, err := OptionsFromConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, 0.25, opts.Input.Deadzone)
	assert.Equal(t, 300*time.Millisecond, opts.Input.RepeatDelay)
	assert.True(t, opts.Input.EmitRelease)
	assert.Equal(t, "sidebar", opts.Scope)
	assert.Equal(t, 1.0, opts.Weights.ConeRatio)
	assert.Equal(t, "nearest", opts.Scroll.Block)

	assert.Equal(t, input.ButtonBinding(input.Cancel), opts.Mapping.Buttons[0])
	assert.Equal(t, input.ButtonBinding(input.Confirm), opts.Mapping.Buttons[1])
	assert.True(t, opts.Mapping.Buttons[16].DPad)
	assert.Equal(t, input.LeftY, opts.Mapping.Axes[4])
	assert.Equal(t, input.LeftX, opts.Mapping.Axes[0], "unmapped indices keep the standard layout")
}

func TestOptionsFromConfigRejectsBadMapping(t *testing.T) {
	cfg := config.Default()
	cfg.Mapping.Buttons = map[string]string{"3": "jump"}

	_, err := OptionsFromConfig(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigValidation))
}
