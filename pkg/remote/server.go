// Package remote accepts virtual gamepads over WebSocket. Each connection
// is one device; clients stream JSON frames with the current button and
// axis values.
package remote

import (
	"context"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/grovetools/padnav/errors"
	"github.com/grovetools/padnav/logging"
	"github.com/grovetools/padnav/pkg/input"
	"github.com/sirupsen/logrus"
)

const (
	// Path is where ListenAndServe mounts the WebSocket endpoint.
	Path = "/pad"

	maxButtons   = 32
	maxAxes      = 16
	maxFrameSize = 4096

	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	writeWait  = 10 * time.Second
)

// Frame is the state a client reports. Values follow the standard gamepad
// layout: buttons in [0, 1], axes in [-1, 1].
type Frame struct {
	Buttons []float64 `json:"buttons"`
	Axes    []float64 `json:"axes"`
}

// Welcome is sent to a client right after the upgrade.
type Welcome struct {
	Type   string `json:"type"`
	Device string `json:"device"`
}

// Options configures a Server.
type Options struct {
	OnConnect    func(device string)
	OnDisconnect func(device string)
	// CheckOrigin defaults to accepting every origin.
	CheckOrigin func(r *http.Request) bool
	Logger      *logrus.Entry
}

type client struct {
	id      string
	conn    *websocket.Conn
	writeMu sync.Mutex
	frame   Frame
}

// Server is an http.Handler and an input.DeviceSource.
type Server struct {
	upgrader     websocket.Upgrader
	onConnect    func(string)
	onDisconnect func(string)
	log          *logrus.Entry

	mu      sync.Mutex
	clients map[string]*client
}

// NewServer creates a Server with no clients.
func NewServer(opts Options) *Server {
	if opts.CheckOrigin == nil {
		opts.CheckOrigin = func(*http.Request) bool { return true }
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewLogger("padnav.remote")
	}
	return &Server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     opts.CheckOrigin,
		},
		onConnect:    opts.OnConnect,
		onDisconnect: opts.OnDisconnect,
		log:          opts.Logger,
		clients:      map[string]*client{},
	}
}

// ServeHTTP upgrades the request and registers a new device.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("Failed to upgrade WebSocket connection")
		return
	}
	c := &client{id: "remote:" + uuid.NewString(), conn: conn}

	s.mu.Lock()
	s.clients[c.id] = c
	s.mu.Unlock()
	s.log.WithFields(logrus.Fields{"device": c.id, "remote_addr": r.RemoteAddr}).Info("Remote pad connected")

	if s.onConnect != nil {
		s.onConnect(c.id)
	}
	if err := c.write(Welcome{Type: "welcome", Device: c.id}); err != nil {
		s.drop(c)
		return
	}

	done := make(chan struct{})
	go c.pingLoop(done)
	go func() {
		defer close(done)
		s.readPump(c)
	}()
}

func (c *client) write(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

func (c *client) pingLoop(done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

func (s *Server) readPump(c *client) {
	defer s.drop(c)

	c.conn.SetReadLimit(maxFrameSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var f Frame
		if err := c.conn.ReadJSON(&f); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.WithError(err).WithField("device", c.id).Debug("remote pad read error")
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		if len(f.Buttons) > maxButtons {
			f.Buttons = f.Buttons[:maxButtons]
		}
		if len(f.Axes) > maxAxes {
			f.Axes = f.Axes[:maxAxes]
		}
		s.mu.Lock()
		c.frame = f
		s.mu.Unlock()
	}
}

func (s *Server) drop(c *client) {
	s.mu.Lock()
	_, ok := s.clients[c.id]
	delete(s.clients, c.id)
	s.mu.Unlock()

	c.writeMu.Lock()
	c.conn.Close()
	c.writeMu.Unlock()

	if !ok {
		return
	}
	s.log.WithField("device", c.id).Info("Remote pad disconnected")
	if s.onDisconnect != nil {
		s.onDisconnect(c.id)
	}
}

// Poll implements input.DeviceSource with the latest frame per client.
func (s *Server) Poll() []input.RawSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]input.RawSnapshot, 0, len(s.clients))
	for _, c := range s.clients {
		out = append(out, input.RawSnapshot{
			DeviceID: c.id,
			Buttons:  append([]float64(nil), c.frame.Buttons...),
			Axes:     append([]float64(nil), c.frame.Axes...),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeviceID < out[j].DeviceID })
	return out
}

// Devices returns the connected device IDs.
func (s *Server) Devices() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.clients))
	for id := range s.clients {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close disconnects every client.
func (s *Server) Close() {
	s.mu.Lock()
	clients := make([]*client, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()
	for _, c := range clients {
		s.drop(c)
	}
}

// ListenAndServe serves the pad endpoint, and any extra handlers, on addr
// until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string, extra map[string]http.Handler) error {
	mux := http.NewServeMux()
	mux.Handle(Path, s)
	for pattern, h := range extra {
		mux.Handle(pattern, h)
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.ServerFailed(addr, err)
	}
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.log.WithField("addr", ln.Addr().String()).Info("Remote pad server listening")

	select {
	case err := <-errCh:
		s.Close()
		if err == http.ErrServerClosed {
			return nil
		}
		return errors.ServerFailed(addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		s.Close()
		if err != nil {
			return errors.ServerFailed(addr, err)
		}
		return nil
	}
}
