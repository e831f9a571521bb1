package registry

import (
	"sync"
	"testing"
	"time"

	"github.com/grovetools/padnav/pkg/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ref string

func (r ref) ElementID() string { return string(r) }

type node struct {
	props Properties
	box   geom.Rect
}

// fakeSource is an in-memory element tree.
type fakeSource struct {
	order  []string
	nodes  map[string]node
	scopes []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{nodes: map[string]node{}}
}

func (f *fakeSource) add(id string, props Properties, box geom.Rect) {
	f.order = append(f.order, id)
	f.nodes[id] = node{props: props, box: box}
}

func (f *fakeSource) remove(id string) {
	delete(f.nodes, id)
	for i, o := range f.order {
		if o == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			return
		}
	}
}

func (f *fakeSource) QueryFocusableCandidates(scope string) []ElementRef {
	f.scopes = append(f.scopes, scope)
	out := make([]ElementRef, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, ref(id))
	}
	return out
}

func (f *fakeSource) Properties(r ElementRef) (Properties, bool) {
	n, ok := f.nodes[r.ElementID()]
	return n.props, ok
}

func (f *fakeSource) BoundingBox(r ElementRef) geom.Rect {
	return f.nodes[r.ElementID()].box
}

var box = geom.Rect{Width: 50, Height: 20}

func button() Properties { return Properties{Role: RoleButton} }

func TestSelectionPredicate(t *testing.T) {
	tests := []struct {
		name  string
		props Properties
		want  bool
	}{
		{"link", Properties{Role: RoleLink}, true},
		{"button", Properties{Role: RoleButton}, true},
		{"form control", Properties{Role: RoleFormControl}, true},
		{"plain div", Properties{}, false},
		{"tabindex zero", Properties{HasTabIndex: true}, true},
		{"positive tabindex", Properties{HasTabIndex: true, TabIndex: 3}, true},
		{"negative tabindex", Properties{Role: RoleButton, HasTabIndex: true, TabIndex: -1}, false},
		{"opt-in card", Properties{OptIn: true}, true},
		{"disabled button", Properties{Role: RoleButton, Disabled: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.props.Focusable())
		})
	}
}

func TestVisibilityFilter(t *testing.T) {
	tests := []struct {
		name  string
		props Properties
		box   geom.Rect
		want  bool
	}{
		{"rendered", button(), box, true},
		{"zero width", button(), geom.Rect{Height: 10}, false},
		{"zero height", button(), geom.Rect{Width: 10}, false},
		{"display none", Properties{Role: RoleButton, DisplayNone: true}, box, false},
		{"visibility hidden", Properties{Role: RoleButton, VisibilityHidden: true}, box, false},
		{"transparent", Properties{Role: RoleButton, Transparent: true}, box, false},
		{"no offset parent", Properties{Role: RoleButton, Unrendered: true}, box, false},
		{"detached", Properties{Role: RoleButton, Detached: true}, box, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.props.Visible(tt.box))
		})
	}
}

func TestRebuildKeepsOnlyVisibleFocusables(t *testing.T) {
	src := newFakeSource()
	src.add("a", button(), box)
	src.add("hidden", Properties{Role: RoleButton, DisplayNone: true}, box)
	src.add("div", Properties{}, box)
	src.add("flat", button(), geom.Rect{Width: 10})
	src.add("b", Properties{Role: RoleLink, Href: "/x"}, box.Translate(0, 100))
	src.add("a", button(), box) // duplicate ref

	reg := New(src, "main")
	res := reg.Rebuild(false)

	require.Equal(t, 2, reg.Len())
	assert.Equal(t, 2, res.Size)
	for _, el := range reg.Elements() {
		assert.False(t, el.Box.Empty())
		assert.True(t, el.Props.Visible(el.Box))
	}
	assert.Equal(t, []string{"main"}, src.scopes)
	assert.Equal(t, -1, reg.Current())
}

func TestRebuildPreservesFocus(t *testing.T) {
	src := newFakeSource()
	src.add("a", button(), box)
	src.add("b", button(), box.Translate(0, 50))
	src.add("c", button(), box.Translate(0, 100))

	reg := New(src, "")
	reg.Rebuild(true)
	require.True(t, reg.SetCurrent(2))

	// c moves to index 1 once a disappears.
	src.remove("a")
	res := reg.Rebuild(true)
	assert.True(t, res.Preserved)
	assert.Equal(t, "c", res.PreviousID)
	assert.Equal(t, 2, res.Previous)
	assert.Equal(t, 1, reg.Current())

	// Focused element removed: device active falls back to 0.
	src.remove("c")
	res = reg.Rebuild(true)
	assert.False(t, res.Preserved)
	assert.Equal(t, 0, reg.Current())

	// Without an active device the index resets to -1.
	reg.SetCurrent(0)
	src.remove("b")
	reg.Rebuild(false)
	assert.Equal(t, -1, reg.Current())

	// Nothing left at all.
	src.remove("a")
	reg.Rebuild(true)
	assert.Equal(t, -1, reg.Current())
	assert.Equal(t, 0, reg.Len())
}

func TestIndexGuards(t *testing.T) {
	src := newFakeSource()
	src.add("a", button(), box)
	reg := New(src, "")
	reg.Rebuild(false)

	assert.True(t, reg.SetCurrent(0))
	assert.False(t, reg.SetCurrent(1))
	assert.False(t, reg.SetCurrent(-2))
	assert.Equal(t, 0, reg.Current())
	assert.True(t, reg.SetCurrent(-1))

	_, ok := reg.At(5)
	assert.False(t, ok)
	assert.Equal(t, 0, reg.IndexOf("a"))
	assert.Equal(t, -1, reg.IndexOf("zzz"))
	assert.Equal(t, -1, reg.IndexOf(""))
}

func TestNilSource(t *testing.T) {
	reg := New(nil, "")
	res := reg.Rebuild(true)
	assert.Equal(t, 0, res.Size)
	assert.Equal(t, -1, reg.Current())
}

// fakeNotifier lets tests fire host notifications.
type fakeNotifier struct {
	mu       sync.Mutex
	mutation []func()
	resize   []func()
}

func (n *fakeNotifier) OnStructuralChange(fn func()) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.mutation = append(n.mutation, fn)
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		n.mutation = nil
	}
}

func (n *fakeNotifier) OnViewportResize(fn func()) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resize = append(n.resize, fn)
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		n.resize = nil
	}
}

func (n *fakeNotifier) fire(resize bool) {
	n.mu.Lock()
	fns := n.mutation
	if resize {
		fns = n.resize
	}
	n.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func TestWatcherCoalescesBursts(t *testing.T) {
	n := &fakeNotifier{}
	var mu sync.Mutex
	var reasons []string
	w := Watch(n, WatcherConfig{MutationDebounce: 20 * time.Millisecond, ResizeDebounce: 30 * time.Millisecond}, func(reason string) {
		mu.Lock()
		defer mu.Unlock()
		reasons = append(reasons, reason)
	})
	defer w.Close()

	for i := 0; i < 10; i++ {
		n.fire(false)
	}
	n.fire(true)
	n.fire(true)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(reasons) == 2
	}, time.Second, 5*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	assert.ElementsMatch(t, []string{ReasonMutation, ReasonResize}, reasons)
	mu.Unlock()
}

func TestWatcherCloseDropsPending(t *testing.T) {
	n := &fakeNotifier{}
	calls := 0
	w := Watch(n, WatcherConfig{MutationDebounce: 10 * time.Millisecond}, func(string) { calls++ })

	n.fire(false)
	w.Close()
	w.Close()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 0, calls)
	assert.Nil(t, n.mutation)
}

func TestDebouncerFlush(t *testing.T) {
	calls := 0
	d := NewDebouncer(time.Hour, func() { calls++ })
	assert.False(t, d.Flush())

	d.Trigger()
	d.Trigger()
	assert.True(t, d.Pending())
	assert.True(t, d.Flush())
	assert.Equal(t, 1, calls)
	assert.False(t, d.Pending())

	d.Stop()
	d.Trigger()
	assert.False(t, d.Pending())
}

func TestNilNotifier(t *testing.T) {
	w := Watch(nil, WatcherConfig{}, func(string) { t.Fatal("unexpected rebuild") })
	w.Flush()
	w.Close()
}
