package registry

import (
	"sync"
	"time"
)

const (
	DefaultMutationDebounce = 100 * time.Millisecond
	DefaultResizeDebounce   = 250 * time.Millisecond
)

// Rebuild reasons passed to the Watcher callback.
const (
	ReasonMutation = "mutation"
	ReasonResize   = "resize"
)

// Notifier is the host's structural-change and resize notification source.
// Each registration returns a function that removes it.
type Notifier interface {
	OnStructuralChange(fn func()) (unsubscribe func())
	OnViewportResize(fn func()) (unsubscribe func())
}

// Debouncer coalesces bursts of triggers into one trailing call.
type Debouncer struct {
	mu      sync.Mutex
	wait    time.Duration
	fn      func()
	timer   *time.Timer
	gen     uint64
	stopped bool
}

// NewDebouncer returns a debouncer that calls fn once wait has passed
// without a new Trigger.
func NewDebouncer(wait time.Duration, fn func()) *Debouncer {
	return &Debouncer{wait: wait, fn: fn}
}

// Trigger (re)starts the quiet period.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.wait, func() { d.fire(gen) })
}

// fire runs fn unless a later Trigger or Stop superseded this timer.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || gen != d.gen || d.timer == nil {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()
	d.fn()
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Flush runs a pending call immediately. It returns false if none was pending.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if d.timer == nil || d.stopped {
		d.mu.Unlock()
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	d.mu.Unlock()
	d.fn()
	return true
}

// Stop cancels any pending call and ignores later triggers.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// WatcherConfig sets the debounce windows.
type WatcherConfig struct {
	MutationDebounce time.Duration
	ResizeDebounce   time.Duration
}

// Watcher turns host notifications into debounced rebuild requests.
type Watcher struct {
	mutation *Debouncer
	resize   *Debouncer
	unsub    []func()
	once     sync.Once
}

// Watch subscribes to n and calls rebuild with a reason after each
// debounced burst. A nil notifier produces an inert watcher.
func Watch(n Notifier, cfg WatcherConfig, rebuild func(reason string)) *Watcher {
	if cfg.MutationDebounce <= 0 {
		cfg.MutationDebounce = DefaultMutationDebounce
	}
	if cfg.ResizeDebounce <= 0 {
		cfg.ResizeDebounce = DefaultResizeDebounce
	}
	w := &Watcher{
		mutation: NewDebouncer(cfg.MutationDebounce, func() { rebuild(ReasonMutation) }),
		resize:   NewDebouncer(cfg.ResizeDebounce, func() { rebuild(ReasonResize) }),
	}
	if n == nil {
		return w
	}
	if u := n.OnStructuralChange(w.mutation.Trigger); u != nil {
		w.unsub = append(w.unsub, u)
	}
	if u := n.OnViewportResize(w.resize.Trigger); u != nil {
		w.unsub = append(w.unsub, u)
	}
	return w
}

// Flush runs pending rebuilds now.
func (w *Watcher) Flush() {
	w.mutation.Flush()
	w.resize.Flush()
}

// Close unsubscribes and drops pending rebuilds.
func (w *Watcher) Close() {
	w.once.Do(func() {
		for _, u := range w.unsub {
			u()
		}
		w.mutation.Stop()
		w.resize.Stop()
	})
}
