package layout

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/grovetools/padnav/errors"
	"github.com/grovetools/padnav/pkg/focus"
	"github.com/grovetools/padnav/pkg/geom"
	"github.com/grovetools/padnav/pkg/registry"
)

// Ref identifies a page element by ID.
type Ref string

// ElementID implements registry.ElementRef.
func (r Ref) ElementID() string { return string(r) }

// Page is a live, mutable rendering of a Document. Boxes and the viewport
// are reported in document coordinates, so scrolling moves the viewport
// rather than invalidating cached element boxes. Overlay elements are fixed
// to the viewport. Page is safe for concurrent use.
type Page struct {
	mu sync.Mutex

	doc      Document
	viewport Size
	scrollY  float64
	// open lists open overlay IDs, topmost last.
	open []string

	indicated string
	focused   string
	location  string
	history   []string
	tabs      []string
	log       []string

	nextSub  int
	mutation map[int]func()
	resize   map[int]func()
}

// NewPage renders doc. Overlays marked open start open in document order.
func NewPage(doc *Document) *Page {
	p := &Page{
		mutation: map[int]func(){},
		resize:   map[int]func(){},
		location: "/",
	}
	p.setDocument(doc)
	p.viewport = doc.Viewport
	return p
}

func (p *Page) setDocument(doc *Document) {
	p.doc = *doc
	p.open = p.open[:0]
	for _, o := range doc.Overlays {
		if o.Open {
			p.open = append(p.open, o.ID)
		}
	}
	p.scrollY = p.clampScroll(p.scrollY)
}

// Reload swaps in a new document and notifies structural-change
// subscribers. Scroll position and history survive; open overlays reset to
// what the new document declares.
func (p *Page) Reload(doc *Document) {
	p.mu.Lock()
	p.setDocument(doc)
	p.mu.Unlock()
	p.notify(false)
}

// Document returns a copy of the current document.
func (p *Page) Document() Document {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc
}

// QueryFocusableCandidates returns the elements of the topmost open overlay,
// trapping focus inside it, or otherwise the page elements whose group
// matches scope. An empty scope matches every group.
func (p *Page) QueryFocusableCandidates(scope string) []registry.ElementRef {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []registry.ElementRef
	if o, ok := p.topOverlay(); ok {
		for _, el := range o.Elements {
			out = append(out, Ref(el.ID))
		}
		return out
	}
	for _, el := range p.doc.Elements {
		if scope == "" || el.Group == scope {
			out = append(out, Ref(el.ID))
		}
	}
	return out
}

// Properties implements registry.Source.
func (p *Page) Properties(ref registry.ElementRef) (registry.Properties, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	el, _, ok := p.lookup(ref.ElementID())
	if !ok {
		return registry.Properties{}, false
	}
	return el.Properties(), true
}

// BoundingBox implements registry.Source.
func (p *Page) BoundingBox(ref registry.ElementRef) geom.Rect {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.boxLocked(ref.ElementID())
}

func (p *Page) boxLocked(id string) geom.Rect {
	el, inOverlay, ok := p.lookup(id)
	if !ok {
		return geom.Rect{}
	}
	if inOverlay {
		return el.Box.Translate(0, p.scrollY)
	}
	return el.Box
}

// ApplyIndicator implements focus.VisualPort.
func (p *Page) ApplyIndicator(ref registry.ElementRef) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.indicated = ref.ElementID()
}

// ClearIndicator implements focus.VisualPort.
func (p *Page) ClearIndicator(ref registry.ElementRef) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.indicated == ref.ElementID() {
		p.indicated = ""
	}
}

// Indicated returns the ID carrying the focus indicator.
func (p *Page) Indicated() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.indicated
}

// FocusNatively implements focus.Activator. Disabled and missing elements
// refuse focus.
func (p *Page) FocusNatively(ref registry.ElementRef) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	el, _, ok := p.lookup(ref.ElementID())
	if !ok {
		return errors.ElementNotFound(ref.ElementID())
	}
	if el.Disabled {
		return fmt.Errorf("element %q is disabled", el.ID)
	}
	p.focused = el.ID
	return nil
}

// Focused returns the ID holding native focus.
func (p *Page) Focused() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.focused
}

// SimulatePrimaryActivation implements focus.Activator. Activating an
// overlay's close control closes it; an element with Opens shows its
// overlay.
func (p *Page) SimulatePrimaryActivation(ref registry.ElementRef) error {
	p.mu.Lock()
	el, _, ok := p.lookup(ref.ElementID())
	if !ok {
		p.mu.Unlock()
		return errors.ElementNotFound(ref.ElementID())
	}
	p.log = append(p.log, "click "+el.ID)
	changed := false
	if o, ok := p.overlayClosedBy(el.ID); ok {
		changed = p.closeLocked(o)
	} else if el.Opens != "" {
		changed = p.openLocked(el.Opens)
	}
	p.mu.Unlock()

	if changed {
		p.notify(false)
	}
	return nil
}

// NavigateTo implements focus.Activator. New tabs are recorded without
// leaving the page.
func (p *Page) NavigateTo(url string, newTab bool) error {
	if url == "" {
		return errors.New(errors.ErrCodeInvalidInput, "empty navigation target")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if newTab {
		p.tabs = append(p.tabs, url)
		p.log = append(p.log, "open tab "+url)
		return nil
	}
	p.history = append(p.history, p.location)
	p.location = url
	p.log = append(p.log, "navigate "+url)
	return nil
}

// NavigateBack implements focus.Overlays.
func (p *Page) NavigateBack() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.history) == 0 {
		return false, nil
	}
	last := len(p.history) - 1
	p.location = p.history[last]
	p.history = p.history[:last]
	p.log = append(p.log, "back "+p.location)
	return true, nil
}

// Location returns the current URL.
func (p *Page) Location() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.location
}

// Tabs returns URLs opened in new tabs.
func (p *Page) Tabs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.tabs...)
}

// Log returns the activation log, oldest first.
func (p *Page) Log() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.log...)
}

// ScrollIntoView implements focus.Activator. Only vertical scrolling is
// modelled; overlay elements never scroll.
func (p *Page) ScrollIntoView(ref registry.ElementRef, opts focus.ScrollOptions) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	el, inOverlay, ok := p.lookup(ref.ElementID())
	if !ok {
		return errors.ElementNotFound(ref.ElementID())
	}
	if inOverlay {
		return nil
	}
	vh := p.viewport.Height
	var target float64
	switch opts.Block {
	case "start":
		target = el.Box.Top
	case "end":
		target = el.Box.Bottom() - vh
	case "nearest":
		switch {
		case el.Box.Top < p.scrollY:
			target = el.Box.Top
		case el.Box.Bottom() > p.scrollY+vh:
			target = el.Box.Bottom() - vh
		default:
			target = p.scrollY
		}
	default:
		target = el.Box.Top + el.Box.Height/2 - vh/2
	}
	p.scrollY = p.clampScroll(target)
	return nil
}

// ScrollBy implements focus.Scroller.
func (p *Page) ScrollBy(amount float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scrollY = p.clampScroll(p.scrollY + amount)
	return nil
}

// ScrollY returns the vertical scroll offset.
func (p *Page) ScrollY() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.scrollY
}

func (p *Page) clampScroll(y float64) float64 {
	limit := p.contentHeight() - p.viewport.Height
	if limit < 0 || math.IsNaN(y) {
		return 0
	}
	return math.Min(math.Max(y, 0), limit)
}

func (p *Page) contentHeight() float64 {
	var h float64
	for _, el := range p.doc.Elements {
		h = math.Max(h, el.Box.Bottom())
	}
	return h
}

// ViewportRect implements focus.Viewport.
func (p *Page) ViewportRect() geom.Rect {
	p.mu.Lock()
	defer p.mu.Unlock()
	return geom.Rect{Top: p.scrollY, Width: p.viewport.Width, Height: p.viewport.Height}
}

// Resize changes the viewport and notifies resize subscribers.
func (p *Page) Resize(width, height float64) {
	p.mu.Lock()
	if p.viewport.Width == width && p.viewport.Height == height {
		p.mu.Unlock()
		return
	}
	p.viewport = Size{Width: width, Height: height}
	p.scrollY = p.clampScroll(p.scrollY)
	p.mu.Unlock()
	p.notify(true)
}

// FindOpenDismissibleOverlay implements focus.Overlays.
func (p *Page) FindOpenDismissibleOverlay() (registry.ElementRef, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	o, ok := p.topOverlay()
	if !ok || o.Close == "" {
		return nil, false
	}
	return Ref(o.Close), true
}

// TriggerClose implements focus.Overlays by activating the close control.
func (p *Page) TriggerClose(ref registry.ElementRef) error {
	return p.SimulatePrimaryActivation(ref)
}

// OpenOverlay shows an overlay on top of any open ones.
func (p *Page) OpenOverlay(id string) error {
	p.mu.Lock()
	if p.overlay(id) == nil {
		p.mu.Unlock()
		return errors.ElementNotFound(id)
	}
	changed := p.openLocked(id)
	p.mu.Unlock()
	if changed {
		p.notify(false)
	}
	return nil
}

// CloseOverlay hides an overlay.
func (p *Page) CloseOverlay(id string) error {
	p.mu.Lock()
	if p.overlay(id) == nil {
		p.mu.Unlock()
		return errors.ElementNotFound(id)
	}
	changed := p.closeLocked(id)
	p.mu.Unlock()
	if changed {
		p.notify(false)
	}
	return nil
}

// OpenOverlays returns open overlay IDs, topmost last.
func (p *Page) OpenOverlays() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.open...)
}

func (p *Page) openLocked(id string) bool {
	for _, o := range p.open {
		if o == id {
			return false
		}
	}
	p.open = append(p.open, id)
	return true
}

func (p *Page) closeLocked(id string) bool {
	for i, o := range p.open {
		if o == id {
			p.open = append(p.open[:i], p.open[i+1:]...)
			return true
		}
	}
	return false
}

func (p *Page) overlay(id string) *Overlay {
	for i := range p.doc.Overlays {
		if p.doc.Overlays[i].ID == id {
			return &p.doc.Overlays[i]
		}
	}
	return nil
}

func (p *Page) topOverlay() (*Overlay, bool) {
	if len(p.open) == 0 {
		return nil, false
	}
	o := p.overlay(p.open[len(p.open)-1])
	return o, o != nil
}

// overlayClosedBy returns the open overlay whose close control is id.
func (p *Page) overlayClosedBy(id string) (string, bool) {
	for i := len(p.open) - 1; i >= 0; i-- {
		if o := p.overlay(p.open[i]); o != nil && o.Close == id {
			return o.ID, true
		}
	}
	return "", false
}

// lookup finds an element. Elements of closed overlays count as detached.
func (p *Page) lookup(id string) (Element, bool, bool) {
	for _, el := range p.doc.Elements {
		if el.ID == id {
			return el, false, true
		}
	}
	for _, oid := range p.open {
		if o := p.overlay(oid); o != nil {
			for _, el := range o.Elements {
				if el.ID == id {
					return el, true, true
				}
			}
		}
	}
	return Element{}, false, false
}

// View is a rendered element for display.
type View struct {
	Element
	// Screen is the viewport-relative box.
	Screen    geom.Rect
	Overlay   string
	Indicated bool
}

// Views returns what is currently drawn: page elements, then open overlays
// bottom to top, each in document order.
func (p *Page) Views() []View {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []View
	for _, el := range p.doc.Elements {
		out = append(out, View{Element: el, Screen: el.Box.Translate(0, -p.scrollY), Indicated: el.ID == p.indicated})
	}
	for _, oid := range p.open {
		o := p.overlay(oid)
		if o == nil {
			continue
		}
		for _, el := range o.Elements {
			out = append(out, View{Element: el, Screen: el.Box, Overlay: oid, Indicated: el.ID == p.indicated})
		}
	}
	return out
}

// OnStructuralChange implements registry.Notifier.
func (p *Page) OnStructuralChange(fn func()) func() {
	return p.subscribe(p.mutation, fn)
}

// OnViewportResize implements registry.Notifier.
func (p *Page) OnViewportResize(fn func()) func() {
	return p.subscribe(p.resize, fn)
}

func (p *Page) subscribe(subs map[int]func(), fn func()) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextSub
	p.nextSub++
	subs[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(subs, id)
	}
}

// notify calls subscribers in registration order without holding the lock.
func (p *Page) notify(resize bool) {
	p.mu.Lock()
	subs := p.mutation
	if resize {
		subs = p.resize
	}
	ids := make([]int, 0, len(subs))
	for id := range subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, subs[id])
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

var (
	_ registry.Source   = (*Page)(nil)
	_ registry.Notifier = (*Page)(nil)
	_ focus.VisualPort  = (*Page)(nil)
	_ focus.Activator   = (*Page)(nil)
	_ focus.Scroller    = (*Page)(nil)
	_ focus.Viewport    = (*Page)(nil)
	_ focus.Overlays    = (*Page)(nil)
)

// Ports returns the page as every focus port.
func (p *Page) Ports() focus.Ports {
	return focus.Ports{Visual: p, Activator: p, Scroller: p, Viewport: p, Overlays: p}
}
