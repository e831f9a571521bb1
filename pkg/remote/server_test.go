package remote

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/grovetools/padnav/pkg/geom"
	"github.com/grovetools/padnav/pkg/navigator"
	"github.com/grovetools/padnav/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, s)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func dial(t *testing.T, url string) (*websocket.Conn, Welcome) {
	t.Helper()
	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(url, "http"), nil)
	require.NoError(t, err)
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var w Welcome
	require.NoError(t, ws.ReadJSON(&w))
	return ws, w
}

func TestRemotePadLifecycle(t *testing.T) {
	rec := &recorder{}
	s := NewServer(Options{
		OnConnect:    func(id string) { rec.add("connect " + id) },
		OnDisconnect: func(id string) { rec.add("disconnect " + id) },
	})
	srv := httptest.NewServer(s)
	defer srv.Close()

	ws, welcome := dial(t, srv.URL)
	assert.Equal(t, "welcome", welcome.Type)
	assert.True(t, strings.HasPrefix(welcome.Device, "remote:"))
	assert.Equal(t, []string{"connect " + welcome.Device}, rec.list())

	require.NoError(t, ws.WriteJSON(Frame{Buttons: []float64{1}, Axes: []float64{0, 0.8}}))
	require.Eventually(t, func() bool {
		snaps := s.Poll()
		return len(snaps) == 1 && len(snaps[0].Axes) == 2
	}, time.Second, 5*time.Millisecond)
	snap := s.Poll()[0]
	assert.Equal(t, welcome.Device, snap.DeviceID)
	assert.Equal(t, []float64{1}, snap.Buttons)

	require.NoError(t, ws.Close())
	require.Eventually(t, func() bool { return len(s.Devices()) == 0 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"connect " + welcome.Device, "disconnect " + welcome.Device}, rec.list())
}

func TestOversizedFramesAreTruncated(t *testing.T) {
	s := NewServer(Options{})
	srv := httptest.NewServer(s)
	defer srv.Close()

	ws, _ := dial(t, srv.URL)
	defer ws.Close()
	require.NoError(t, ws.WriteJSON(Frame{Buttons: make([]float64, 100), Axes: make([]float64, 40)}))
	require.Eventually(t, func() bool {
		snaps := s.Poll()
		return len(snaps) == 1 && len(snaps[0].Buttons) == maxButtons && len(snaps[0].Axes) == maxAxes
	}, time.Second, 5*time.Millisecond)
}

func TestMalformedFrameDisconnects(t *testing.T) {
	s := NewServer(Options{})
	srv := httptest.NewServer(s)
	defer srv.Close()

	ws, _ := dial(t, srv.URL)
	defer ws.Close()
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte("{not json")))
	require.Eventually(t, func() bool { return len(s.Devices()) == 0 }, time.Second, 5*time.Millisecond)
}

type ref string

func (r ref) ElementID() string { return string(r) }

type column []string

func (c column) QueryFocusableCandidates(string) []registry.ElementRef {
	out := make([]registry.ElementRef, len(c))
	for i, id := range c {
		out[i] = ref(id)
	}
	return out
}

func (c column) Properties(registry.ElementRef) (registry.Properties, bool) {
	return registry.Properties{Role: registry.RoleButton}, true
}

func (c column) BoundingBox(r registry.ElementRef) geom.Rect {
	for i, id := range c {
		if id == r.ElementID() {
			return geom.Rect{Top: float64(i * 40), Width: 30, Height: 20}
		}
	}
	return geom.Rect{}
}

func TestRemotePadDrivesNavigator(t *testing.T) {
	var nav *navigator.Navigator
	s := NewServer(Options{
		OnConnect:    func(id string) { nav.DeviceConnected(id) },
		OnDisconnect: func(id string) { nav.DeviceDisconnected(id) },
	})
	nav = navigator.New(navigator.Options{Source: column{"a", "b", "c"}, Devices: s})
	defer nav.Close()
	srv := httptest.NewServer(s)
	defer srv.Close()

	ws, _ := dial(t, srv.URL)
	defer ws.Close()
	assert.Equal(t, 0, nav.CurrentIndex())

	down := make([]float64, 16)
	down[13] = 1
	require.NoError(t, ws.WriteJSON(Frame{Buttons: down}))
	require.Eventually(t, func() bool {
		snaps := s.Poll()
		return len(snaps) == 1 && len(snaps[0].Buttons) == 16
	}, time.Second, 5*time.Millisecond)

	now := time.Now()
	nav.Tick(now)
	assert.Equal(t, 1, nav.CurrentIndex())
	nav.Tick(now.Add(10 * time.Millisecond))
	assert.Equal(t, 1, nav.CurrentIndex(), "held input does not repeat before the delay")
}
