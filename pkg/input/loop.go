package input

import (
	"context"
	"sync"
	"time"
)

// DefaultFrameInterval approximates one rendered frame at 60Hz.
const DefaultFrameInterval = 16 * time.Millisecond

// Loop drives a per-frame callback from a ticker until stopped.
type Loop struct {
	interval time.Duration
	frame    func(now time.Time)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewLoop creates a stopped loop calling frame every interval.
func NewLoop(interval time.Duration, frame func(now time.Time)) *Loop {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &Loop{interval: interval, frame: frame}
}

// Start begins ticking in a new goroutine. It returns false when the loop
// is already running. The loop also ends when ctx is cancelled.
func (l *Loop) Start(ctx context.Context) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		return false
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	l.cancel = cancel
	l.done = done

	go func() {
		defer func() {
			// A cancelled parent ends the run without Stop; forget it
			// unless a newer run has replaced it.
			l.mu.Lock()
			if l.done == done {
				l.cancel, l.done = nil, nil
			}
			l.mu.Unlock()
			cancel()
			close(done)
		}()
		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				l.frame(now)
			}
		}
	}()
	return true
}

// Stop cancels the loop and waits for the current frame to finish. It is
// safe to call on a stopped loop.
func (l *Loop) Stop() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.cancel, l.done = nil, nil
	l.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the loop goroutine is live.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cancel != nil
}
