package input

import "time"

// Repeater tracks press/hold/repeat timing for one boolean input.
//
// The first frame an input is seen active it fires once and arms a repeat
// due after the delay. While held, it fires once per frame whenever the due
// time has been reached and then pushes the due time forward by whole
// rate steps past the current frame, so a stalled frame never produces a
// burst. Releasing disarms it.
type Repeater struct {
	active bool
	armed  bool
	next   time.Time
}

// Step is the outcome of a Repeater update.
type Step struct {
	Fire     bool
	Repeat   bool
	Released bool
}

// Update feeds the input state observed at now.
func (r *Repeater) Update(active bool, now time.Time, delay, rate time.Duration) Step {
	switch {
	case active && !r.active:
		r.active = true
		r.armed = true
		r.next = now.Add(delay)
		return Step{Fire: true}

	case active && r.active:
		if !r.armed || now.Before(r.next) {
			return Step{}
		}
		if rate <= 0 {
			r.armed = false
			return Step{Fire: true, Repeat: true}
		}
		for !r.next.After(now) {
			r.next = r.next.Add(rate)
		}
		return Step{Fire: true, Repeat: true}

	case !active && r.active:
		r.active = false
		r.armed = false
		r.next = time.Time{}
		return Step{Released: true}
	}
	return Step{}
}

// Active reports whether the input was held at the last update.
func (r *Repeater) Active() bool { return r.active }

// Armed reports whether a repeat is pending.
func (r *Repeater) Armed() bool { return r.armed }

// Next returns the due time of the pending repeat.
func (r *Repeater) Next() time.Time { return r.next }

// Reset forgets any held state without emitting a release.
func (r *Repeater) Reset() {
	*r = Repeater{}
}
