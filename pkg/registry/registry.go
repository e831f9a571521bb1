package registry

import (
	"github.com/grovetools/padnav/logging"
	"github.com/sirupsen/logrus"
)

// Registry is the ordered set of navigable elements plus the index of the
// focused one (-1 when nothing is focused). The element slice is only ever
// replaced as a whole.
type Registry struct {
	source   Source
	scope    string
	elements []FocusableElement
	current  int
	log      *logrus.Entry
}

// New creates an empty registry reading from source. A nil source yields a
// registry that always rebuilds empty.
func New(source Source, scope string) *Registry {
	return &Registry{source: source, scope: scope, current: -1, log: logging.NewLogger("padnav.registry")}
}

// RebuildResult summarizes a rebuild.
type RebuildResult struct {
	Size       int
	PreviousID string
	Previous   int
	Current    int
	// Preserved is set when the previously focused element is still present.
	Preserved bool
}

// Rebuild re-queries the source and replaces the element list. If the
// previously focused element still qualifies its new index is kept;
// otherwise the index becomes 0 when a device is active and elements
// exist, and -1 otherwise.
func (r *Registry) Rebuild(deviceActive bool) RebuildResult {
	res := RebuildResult{Previous: r.current}
	if el, ok := r.CurrentElement(); ok {
		res.PreviousID = el.ID()
	}

	next := r.collect()

	current := -1
	if res.PreviousID != "" {
		current = indexOf(next, res.PreviousID)
		res.Preserved = current >= 0
	}
	if current < 0 && deviceActive && len(next) > 0 {
		current = 0
	}

	r.elements = next
	r.current = current
	res.Size = len(next)
	res.Current = current
	return res
}

func (r *Registry) collect() []FocusableElement {
	if r.source == nil {
		return nil
	}
	candidates := r.source.QueryFocusableCandidates(r.scope)
	out := make([]FocusableElement, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	for _, ref := range candidates {
		if ref == nil {
			continue
		}
		id := ref.ElementID()
		if id == "" {
			continue
		}
		if seen[id] {
			r.log.WithField("element", id).Debug("skipping duplicate element ID")
			continue
		}
		props, ok := r.source.Properties(ref)
		if !ok || !props.Focusable() {
			continue
		}
		box := r.source.BoundingBox(ref)
		if !props.Visible(box) {
			continue
		}
		seen[id] = true
		out = append(out, FocusableElement{Ref: ref, Box: box, Props: props})
	}
	return out
}

// Scope returns the query scope passed to the source.
func (r *Registry) Scope() string { return r.scope }

// Len returns the number of elements.
func (r *Registry) Len() int { return len(r.elements) }

// Valid reports whether i addresses an element.
func (r *Registry) Valid(i int) bool { return i >= 0 && i < len(r.elements) }

// At returns the element at i.
func (r *Registry) At(i int) (FocusableElement, bool) {
	if !r.Valid(i) {
		return FocusableElement{}, false
	}
	return r.elements[i], true
}

// Elements returns a copy of the element list.
func (r *Registry) Elements() []FocusableElement {
	out := make([]FocusableElement, len(r.elements))
	copy(out, r.elements)
	return out
}

// Current returns the focused index, or -1.
func (r *Registry) Current() int { return r.current }

// CurrentElement returns the focused element.
func (r *Registry) CurrentElement() (FocusableElement, bool) {
	return r.At(r.current)
}

// SetCurrent moves the index. Only -1 and valid indices are accepted.
func (r *Registry) SetCurrent(i int) bool {
	if i != -1 && !r.Valid(i) {
		return false
	}
	r.current = i
	return true
}

// IndexOf returns the index of the element with the given ID, or -1.
func (r *Registry) IndexOf(id string) int {
	return indexOf(r.elements, id)
}

func indexOf(elements []FocusableElement, id string) int {
	if id == "" {
		return -1
	}
	for i, el := range elements {
		if el.ID() == id {
			return i
		}
	}
	return -1
}
