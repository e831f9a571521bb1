package focus

import (
	"errors"
	"testing"

	"github.com/grovetools/padnav/pkg/geom"
	"github.com/grovetools/padnav/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ref string

func (r ref) ElementID() string { return string(r) }

type item struct {
	id    string
	props registry.Properties
	box   geom.Rect
}

// fakeHost implements registry.Source and every focus port, recording calls.
type fakeHost struct {
	items    []item
	viewport geom.Rect

	indicated map[string]bool
	calls     []string

	overlay   string
	history   int
	failFocus bool
	failBack  bool
}

func newFakeHost(items ...item) *fakeHost {
	return &fakeHost{
		items:     items,
		viewport:  geom.Rect{Width: 200, Height: 200},
		indicated: map[string]bool{},
	}
}

func (h *fakeHost) QueryFocusableCandidates(string) []registry.ElementRef {
	out := make([]registry.ElementRef, 0, len(h.items))
	for _, it := range h.items {
		out = append(out, ref(it.id))
	}
	return out
}

func (h *fakeHost) find(id string) (item, bool) {
	for _, it := range h.items {
		if it.id == id {
			return it, true
		}
	}
	return item{}, false
}

func (h *fakeHost) Properties(r registry.ElementRef) (registry.Properties, bool) {
	it, ok := h.find(r.ElementID())
	return it.props, ok
}

func (h *fakeHost) BoundingBox(r registry.ElementRef) geom.Rect {
	it, _ := h.find(r.ElementID())
	return it.box
}

func (h *fakeHost) ApplyIndicator(r registry.ElementRef) { h.indicated[r.ElementID()] = true }
func (h *fakeHost) ClearIndicator(r registry.ElementRef) { delete(h.indicated, r.ElementID()) }

func (h *fakeHost) SimulatePrimaryActivation(r registry.ElementRef) error {
	h.calls = append(h.calls, "click:"+r.ElementID())
	return nil
}

func (h *fakeHost) FocusNatively(r registry.ElementRef) error {
	h.calls = append(h.calls, "focus:"+r.ElementID())
	if h.failFocus {
		return errors.New("not focusable")
	}
	return nil
}

func (h *fakeHost) NavigateTo(url string, newTab bool) error {
	if newTab {
		url += " (new tab)"
	}
	h.calls = append(h.calls, "navigate:"+url)
	return nil
}

func (h *fakeHost) ScrollIntoView(r registry.ElementRef, opts ScrollOptions) error {
	h.calls = append(h.calls, "scroll-into-view:"+r.ElementID()+":"+opts.Block)
	return nil
}

func (h *fakeHost) ScrollBy(amount float64) error {
	h.calls = append(h.calls, "scroll-by")
	return nil
}

func (h *fakeHost) ViewportRect() geom.Rect { return h.viewport }

func (h *fakeHost) FindOpenDismissibleOverlay() (registry.ElementRef, bool) {
	if h.overlay == "" {
		return nil, false
	}
	return ref(h.overlay + "-close"), true
}

func (h *fakeHost) TriggerClose(r registry.ElementRef) error {
	h.calls = append(h.calls, "close:"+r.ElementID())
	h.overlay = ""
	return nil
}

func (h *fakeHost) NavigateBack() (bool, error) {
	if h.failBack {
		return false, errors.New("history unavailable")
	}
	if h.history == 0 {
		return false, nil
	}
	h.history--
	h.calls = append(h.calls, "back")
	return true, nil
}

func (h *fakeHost) ports() Ports {
	return Ports{Visual: h, Activator: h, Scroller: h, Viewport: h, Overlays: h}
}

func btn(id string, top float64) item {
	return item{id: id, props: registry.Properties{Role: registry.RoleButton}, box: geom.Rect{Top: top, Width: 50, Height: 20}}
}

func setup(t *testing.T, items ...item) (*fakeHost, *registry.Registry, *Controller) {
	t.Helper()
	h := newFakeHost(items...)
	reg := registry.New(h, "")
	reg.Rebuild(false)
	return h, reg, New(reg, h.ports(), Options{})
}

func TestSetFocusMovesIndicator(t *testing.T) {
	h, reg, c := setup(t, btn("a", 0), btn("b", 50), btn("c", 100))

	require.True(t, c.SetFocus(0))
	assert.Equal(t, map[string]bool{"a": true}, h.indicated)

	require.True(t, c.SetFocus(2))
	assert.Equal(t, map[string]bool{"c": true}, h.indicated)
	assert.Equal(t, 2, reg.Current())
	assert.Equal(t, []string{"focus:a", "focus:c"}, h.calls, "visible elements are not scrolled")
}

func TestSetFocusScrollsOnlyWhenOutsideViewport(t *testing.T) {
	h, _, c := setup(t, btn("a", 0), btn("below", 500), btn("straddle", 190))

	c.SetFocus(1)
	c.SetFocus(2)
	c.SetFocus(0)
	assert.Equal(t, []string{
		"focus:below", "scroll-into-view:below:center",
		"focus:straddle", "scroll-into-view:straddle:center",
		"focus:a",
	}, h.calls)
}

func TestNativeFocusFailureIsIgnored(t *testing.T) {
	h, reg, c := setup(t, btn("a", 0))
	h.failFocus = true

	assert.True(t, c.SetFocus(0))
	assert.Equal(t, 0, reg.Current())
	assert.True(t, h.indicated["a"])
}

func TestIndexSafety(t *testing.T) {
	h, reg, c := setup(t, btn("a", 0), btn("b", 50))
	c.SetFocus(1)
	h.calls = nil

	for _, i := range []int{-5, -1, 2, 99} {
		assert.False(t, c.SetFocus(i))
		assert.False(t, c.Sync(i))
		assert.Equal(t, ActionNone, c.Activate(i))
	}
	assert.Empty(t, h.calls)
	assert.Equal(t, 1, reg.Current())
	assert.Equal(t, map[string]bool{"b": true}, h.indicated)
}

func TestEmptyRegistryNoVisualChange(t *testing.T) {
	h, _, c := setup(t)
	assert.False(t, c.SetFocus(0))
	assert.False(t, c.Engage())
	assert.Equal(t, Idle, c.State())
	assert.Empty(t, h.indicated)
	assert.Empty(t, h.calls)
}

func TestActivate(t *testing.T) {
	tests := []struct {
		name  string
		props registry.Properties
		want  Action
		call  string
	}{
		{"button clicks", registry.Properties{Role: registry.RoleButton}, ActionClick, "click:x"},
		{"input focuses", registry.Properties{Role: registry.RoleFormControl}, ActionFocus, "focus:x"},
		{"link navigates", registry.Properties{Role: registry.RoleLink, Href: "/docs"}, ActionNavigate, "navigate:/docs"},
		{"link new tab", registry.Properties{Role: registry.RoleLink, Href: "/docs", NewTab: true}, ActionNavigate, "navigate:/docs (new tab)"},
		{"link without href clicks", registry.Properties{Role: registry.RoleLink}, ActionClick, "click:x"},
		{"opt-in card clicks", registry.Properties{OptIn: true}, ActionClick, "click:x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, c := setup(t, item{id: "x", props: tt.props, box: geom.Rect{Width: 10, Height: 10}})
			assert.Equal(t, tt.want, c.Activate(0))
			assert.Equal(t, []string{tt.call}, h.calls)
		})
	}
}

func TestCancel(t *testing.T) {
	h, _, c := setup(t, btn("a", 0))

	assert.Equal(t, CancelNone, c.Cancel(), "nothing to close and no history")

	h.overlay = "modal"
	h.history = 1
	assert.Equal(t, CancelClosedOverlay, c.Cancel())
	assert.Equal(t, CancelNavigatedBack, c.Cancel())
	assert.Equal(t, []string{"close:modal-close", "back"}, h.calls)

	h.failBack = true
	assert.Equal(t, CancelNone, c.Cancel())

	none := New(registry.New(nil, ""), Ports{}, Options{})
	assert.Equal(t, CancelNone, none.Cancel())
}

func TestScrollBy(t *testing.T) {
	h, _, c := setup(t, btn("a", 0))
	c.ScrollBy(0)
	c.ScrollBy(-12)
	assert.Equal(t, []string{"scroll-by"}, h.calls)
}

func TestEngageAndDisengage(t *testing.T) {
	h, reg, c := setup(t, btn("a", 0), btn("b", 50), btn("c", 100))

	require.True(t, c.Engage())
	assert.Equal(t, Active, c.State())
	assert.Equal(t, 0, reg.Current())

	c.SetFocus(2)
	c.Disengage()
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, -1, reg.Current())
	assert.Empty(t, h.indicated)
	_, ok := c.Indicated()
	assert.False(t, ok)

	require.True(t, c.Engage())
	assert.Equal(t, 0, reg.Current())
	assert.Equal(t, map[string]bool{"a": true}, h.indicated)
}

func TestReconcileAfterRebuild(t *testing.T) {
	h, reg, c := setup(t, btn("a", 0), btn("b", 50), btn("c", 100))
	c.Engage()
	c.SetFocus(2)

	// Preserved focus keeps the indicator on the same element.
	h.items = h.items[1:]
	c.Reconcile(reg.Rebuild(true), true)
	assert.Equal(t, 1, reg.Current())
	assert.Equal(t, map[string]bool{"c": true}, h.indicated)

	// Focused element gone: fall back to the first element.
	h.items = h.items[:1]
	c.Reconcile(reg.Rebuild(true), true)
	assert.Equal(t, 0, reg.Current())
	assert.Equal(t, map[string]bool{"b": true}, h.indicated)
	assert.Equal(t, Active, c.State())

	// Nothing left: indicator cleared but still Active.
	h.items = nil
	c.Reconcile(reg.Rebuild(true), true)
	assert.Equal(t, -1, reg.Current())
	assert.Empty(t, h.indicated)
	assert.Equal(t, Active, c.State())
}

func TestReconcileEngagesWhenElementsAppear(t *testing.T) {
	h, reg, c := setup(t)
	assert.False(t, c.Engage())

	h.items = []item{btn("late", 0)}
	c.Reconcile(reg.Rebuild(true), true)
	assert.Equal(t, Active, c.State())
	assert.Equal(t, 0, reg.Current())
	assert.True(t, h.indicated["late"])
}
