package jsdev

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/grovetools/padnav/errors"
	"github.com/grovetools/padnav/logging"
	"github.com/grovetools/padnav/pkg/input"
	"github.com/sirupsen/logrus"
)

// DefaultDir is where the kernel creates joystick nodes.
const DefaultDir = "/dev/input"

// sysClassInput holds per-device metadata such as the product name.
var sysClassInput = "/sys/class/input"

// DeviceInfo describes a joystick node.
type DeviceInfo struct {
	ID   string `json:"id"`
	Path string `json:"path"`
	Name string `json:"name,omitempty"`
}

func isJoystick(name string) bool {
	return strings.HasPrefix(name, "js")
}

// List returns the joystick nodes in dir sorted by ID.
func List(dir string) ([]DeviceInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.DeviceUnavailable(dir, err)
	}
	var out []DeviceInfo
	for _, e := range entries {
		if !isJoystick(e.Name()) {
			continue
		}
		out = append(out, DeviceInfo{ID: e.Name(), Path: filepath.Join(dir, e.Name()), Name: productName(e.Name())})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func productName(id string) string {
	data, err := os.ReadFile(filepath.Join(sysClassInput, id, "device", "name"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Options configures a Source.
type Options struct {
	Dir string
	// Open opens a device node. Defaults to os.Open.
	Open   func(path string) (io.ReadCloser, error)
	Logger *logrus.Entry
}

// pad is the live state of one open device.
type pad struct {
	id      string
	rc      io.ReadCloser
	buttons []float64
	axes    []float64
}

// Source tracks every joystick in a directory, following hotplug, and
// reports their state through Poll.
type Source struct {
	dir  string
	open func(string) (io.ReadCloser, error)
	log  *logrus.Entry

	mu   sync.Mutex
	pads map[string]*pad
	wg   sync.WaitGroup
}

// NewSource creates a Source. Nothing is opened until Run.
func NewSource(opts Options) *Source {
	if opts.Dir == "" {
		opts.Dir = DefaultDir
	}
	if opts.Open == nil {
		opts.Open = func(p string) (io.ReadCloser, error) { return os.Open(p) }
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewLogger("padnav.jsdev")
	}
	return &Source{dir: opts.Dir, open: opts.Open, log: opts.Logger, pads: map[string]*pad{}}
}

// DeviceID is the navigator-facing ID for a joystick node.
func DeviceID(node string) string { return "js:" + node }

// Poll implements input.DeviceSource.
func (s *Source) Poll() []input.RawSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]input.RawSnapshot, 0, len(s.pads))
	for _, p := range s.pads {
		out = append(out, input.RawSnapshot{
			DeviceID: DeviceID(p.id),
			Buttons:  append([]float64(nil), p.buttons...),
			Axes:     append([]float64(nil), p.axes...),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeviceID < out[j].DeviceID })
	return out
}

// Devices returns the open device nodes.
func (s *Source) Devices() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.pads))
	for id := range s.pads {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Run opens the joysticks present in the directory and follows hotplug
// until ctx is done. A missing directory is reported as DEVICE_UNAVAILABLE.
func (s *Source) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create file watcher")
	}
	defer watcher.Close()
	if err := watcher.Add(s.dir); err != nil {
		return errors.DeviceUnavailable(s.dir, err)
	}

	devices, err := List(s.dir)
	if err != nil {
		return err
	}
	for _, d := range devices {
		s.attach(d.ID)
	}
	defer s.closeAll()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(event.Name)
			if !isJoystick(name) {
				continue
			}
			s.log.Debugf("fsnotify event: %s op=%v", event.Name, event.Op)
			switch {
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				s.detach(name)
			case event.Op&(fsnotify.Create|fsnotify.Chmod) != 0:
				// udev may fix permissions after creating the node.
				s.attach(name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.Errorf("Watcher error: %v", err)
		case <-ctx.Done():
			return nil
		}
	}
}

func (s *Source) attach(id string) {
	s.mu.Lock()
	if _, ok := s.pads[id]; ok {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	rc, err := s.open(filepath.Join(s.dir, id))
	if err != nil {
		s.log.WithError(err).WithField("device", id).Debug("cannot open joystick")
		return
	}
	p := &pad{id: id, rc: rc}

	s.mu.Lock()
	if _, ok := s.pads[id]; ok {
		s.mu.Unlock()
		rc.Close()
		return
	}
	s.pads[id] = p
	s.mu.Unlock()
	s.log.WithField("device", id).Info("Joystick connected")

	s.wg.Add(1)
	go s.read(p)
}

func (s *Source) read(p *pad) {
	defer s.wg.Done()
	for {
		e, err := ReadEvent(p.rc)
		if err != nil {
			s.log.WithError(err).WithField("device", p.id).Debug("joystick read ended")
			s.remove(p)
			return
		}
		s.mu.Lock()
		apply(p, e)
		s.mu.Unlock()
	}
}

func apply(p *pad, e Event) {
	n := int(e.Number)
	switch e.Kind() {
	case TypeButton:
		p.buttons = grow(p.buttons, n)
		p.buttons[n] = e.Normalized()
	case TypeAxis:
		p.axes = grow(p.axes, n)
		p.axes[n] = e.Normalized()
	}
}

func grow(s []float64, n int) []float64 {
	for len(s) <= n {
		s = append(s, 0)
	}
	return s
}

// remove forgets p if it is still the registered pad for its ID.
func (s *Source) remove(p *pad) {
	s.mu.Lock()
	cur, ok := s.pads[p.id]
	owned := ok && cur == p
	if owned {
		delete(s.pads, p.id)
	}
	s.mu.Unlock()
	// The reader calls remove again once its read fails; only the first
	// call owns the handle.
	if !owned {
		return
	}
	p.rc.Close()
	s.log.WithField("device", p.id).Info("Joystick disconnected")
}

func (s *Source) detach(id string) {
	s.mu.Lock()
	p, ok := s.pads[id]
	s.mu.Unlock()
	if ok {
		s.remove(p)
	}
}

func (s *Source) closeAll() {
	s.mu.Lock()
	pads := make([]*pad, 0, len(s.pads))
	for _, p := range s.pads {
		pads = append(pads, p)
	}
	s.mu.Unlock()
	for _, p := range pads {
		s.remove(p)
	}
	s.wg.Wait()
}
