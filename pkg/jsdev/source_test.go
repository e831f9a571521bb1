package jsdev

import (
	"bytes"
	"context"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/grovetools/padnav/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventWireFormat(t *testing.T) {
	e := Event{Time: 0x01020304, Value: -2, Type: TypeAxis | TypeInit, Number: 3}
	b := e.Encode()
	assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x01, 0xfe, 0xff, 0x82, 0x03}, b)

	got, err := ReadEvent(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, e, got)
	assert.True(t, got.Initial())
	assert.Equal(t, TypeAxis, got.Kind())

	_, err = ReadEvent(bytes.NewReader(b[:5]))
	assert.Error(t, err)
}

func TestNormalized(t *testing.T) {
	tests := []struct {
		name string
		e    Event
		want float64
	}{
		{"button down", Event{Type: TypeButton, Value: 1}, 1},
		{"button up", Event{Type: TypeButton}, 0},
		{"initial button", Event{Type: TypeButton | TypeInit, Value: 1}, 1},
		{"axis max", Event{Type: TypeAxis, Value: math.MaxInt16}, 1},
		{"axis min clamps", Event{Type: TypeAxis, Value: math.MinInt16}, -1},
		{"axis centre", Event{Type: TypeAxis}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.e.Normalized(), 1e-9)
		})
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"js1", "event0", "js0", "mice"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	devices, err := List(dir)
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, "js0", devices[0].ID)
	assert.Equal(t, filepath.Join(dir, "js1"), devices[1].Path)

	_, err = List(filepath.Join(dir, "missing"))
	assert.True(t, errors.Is(err, errors.ErrCodeDeviceUnavailable))
}

func TestProductName(t *testing.T) {
	old := sysClassInput
	defer func() { sysClassInput = old }()
	sysClassInput = t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(sysClassInput, "js0", "device"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sysClassInput, "js0", "device", "name"), []byte("Wireless Controller\n"), 0o644))

	assert.Equal(t, "Wireless Controller", productName("js0"))
	assert.Equal(t, "", productName("js9"))
}

// pipes hands out one pipe per opened node so tests can feed events.
type pipes struct {
	mu      sync.Mutex
	writers map[string]*io.PipeWriter
}

func (p *pipes) open(path string) (io.ReadCloser, error) {
	r, w := io.Pipe()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writers[filepath.Base(path)] = w
	return r, nil
}

func (p *pipes) writer(id string) *io.PipeWriter {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writers[id]
}

func TestSourceFollowsHotplug(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "js0"), nil, 0o644))

	p := &pipes{writers: map[string]*io.PipeWriter{}}
	src := NewSource(Options{Dir: dir, Open: p.open})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- src.Run(ctx) }()

	require.Eventually(t, func() bool { return p.writer("js0") != nil }, time.Second, 5*time.Millisecond)
	w := p.writer("js0")
	for _, e := range []Event{
		{Type: TypeButton | TypeInit, Number: 0},
		{Type: TypeAxis | TypeInit, Number: 1},
		{Type: TypeButton, Number: 13, Value: 1},
		{Type: TypeAxis, Number: 1, Value: math.MaxInt16},
	} {
		_, err := w.Write(e.Encode())
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool {
		snaps := src.Poll()
		return len(snaps) == 1 && len(snaps[0].Buttons) == 14 && len(snaps[0].Axes) == 2 && snaps[0].Axes[1] == 1
	}, time.Second, 5*time.Millisecond)
	snap := src.Poll()[0]
	assert.Equal(t, "js:js0", snap.DeviceID)
	assert.Equal(t, 1.0, snap.Buttons[13])

	// A second controller is plugged in.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "js1"), nil, 0o644))
	require.Eventually(t, func() bool { return len(src.Devices()) == 2 }, 2*time.Second, 5*time.Millisecond)

	// Unplugging ends the read stream.
	w.CloseWithError(io.ErrUnexpectedEOF)
	require.Eventually(t, func() bool { return len(src.Devices()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"js1"}, src.Devices())

	// Removing the node forgets the device too.
	require.NoError(t, os.Remove(filepath.Join(dir, "js1")))
	require.Eventually(t, func() bool { return len(src.Devices()) == 0 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestSourceMissingDir(t *testing.T) {
	src := NewSource(Options{Dir: filepath.Join(t.TempDir(), "nope")})
	err := src.Run(context.Background())
	assert.True(t, errors.Is(err, errors.ErrCodeDeviceUnavailable))
	assert.Empty(t, src.Poll())
}

type countingCloser struct {
	*io.PipeReader
	mu     sync.Mutex
	closes int
}

func (c *countingCloser) Close() error {
	c.mu.Lock()
	c.closes++
	c.mu.Unlock()
	return c.PipeReader.Close()
}

func TestDetachClosesOnce(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	rc := &countingCloser{PipeReader: r}
	src := NewSource(Options{Dir: t.TempDir(), Open: func(string) (io.ReadCloser, error) { return rc, nil }})

	src.attach("js0")
	require.Equal(t, []string{"js0"}, src.Devices())

	src.detach("js0")
	// Wait for the reader to notice the closed handle and exit.
	src.closeAll()

	assert.Empty(t, src.Devices())
	rc.mu.Lock()
	defer rc.mu.Unlock()
	assert.Equal(t, 1, rc.closes)
}
