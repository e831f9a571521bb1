// Package focus applies resolved focus to the host and implements
// activation and cancellation.
package focus

import (
	"github.com/grovetools/padnav/logging"
	"github.com/grovetools/padnav/pkg/registry"
	"github.com/sirupsen/logrus"
)

// State is the controller's engagement state.
type State uint8

const (
	// Idle: no device is connected.
	Idle State = iota
	// Active: at least one device is connected.
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "idle"
}

// Action is what Activate did.
type Action uint8

const (
	ActionNone Action = iota
	ActionFocus
	ActionNavigate
	ActionClick
)

func (a Action) String() string {
	switch a {
	case ActionFocus:
		return "focus"
	case ActionNavigate:
		return "navigate"
	case ActionClick:
		return "click"
	default:
		return "none"
	}
}

// CancelOutcome is what Cancel did.
type CancelOutcome uint8

const (
	CancelNone CancelOutcome = iota
	CancelClosedOverlay
	CancelNavigatedBack
)

func (c CancelOutcome) String() string {
	switch c {
	case CancelClosedOverlay:
		return "close_overlay"
	case CancelNavigatedBack:
		return "back"
	default:
		return "none"
	}
}

// Options configures a Controller.
type Options struct {
	Scroll ScrollOptions
	Logger *logrus.Entry
}

// Controller owns the visible focus state for one registry. It is not safe
// for concurrent use; the navigator serializes calls.
type Controller struct {
	reg    *registry.Registry
	ports  Ports
	scroll ScrollOptions
	log    *logrus.Entry

	state State
	// indicated is the element currently wearing the indicator.
	indicated registry.ElementRef
}

// New creates a controller in the Idle state.
func New(reg *registry.Registry, ports Ports, opts Options) *Controller {
	if opts.Scroll.Behavior == "" && opts.Scroll.Block == "" {
		opts.Scroll = DefaultScrollOptions()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewLogger("padnav.focus")
	}
	return &Controller{reg: reg, ports: ports, scroll: opts.Scroll, log: opts.Logger}
}

// State returns the engagement state.
func (c *Controller) State() State { return c.state }

// Indicated returns the element carrying the focus indicator, if any.
func (c *Controller) Indicated() (registry.ElementRef, bool) {
	return c.indicated, c.indicated != nil
}

// SetFocus moves focus to index: the indicator moves, native focus is
// attempted and the element is scrolled into view when it is not fully
// visible. Invalid indices are ignored.
func (c *Controller) SetFocus(index int) bool {
	el, ok := c.reg.At(index)
	if !ok {
		return false
	}
	c.reg.SetCurrent(index)
	c.indicate(el.Ref)

	if a := c.ports.Activator; a != nil {
		if err := a.FocusNatively(el.Ref); err != nil {
			c.log.WithError(err).WithField("element", el.ID()).Debug("native focus rejected")
		}
		if c.needsScroll(el) {
			if err := a.ScrollIntoView(el.Ref, c.scroll); err != nil {
				c.log.WithError(err).WithField("element", el.ID()).Debug("scroll into view failed")
			}
		}
	}
	return true
}

// Sync records that index already holds native focus, moving the indicator
// without touching native focus or scroll position.
func (c *Controller) Sync(index int) bool {
	el, ok := c.reg.At(index)
	if !ok {
		return false
	}
	c.reg.SetCurrent(index)
	c.indicate(el.Ref)
	return true
}

func (c *Controller) needsScroll(el registry.FocusableElement) bool {
	if c.ports.Viewport == nil {
		return false
	}
	vp := c.ports.Viewport.ViewportRect()
	if vp.Empty() {
		return false
	}
	return !vp.Contains(el.Box)
}

func (c *Controller) indicate(ref registry.ElementRef) {
	if c.indicated != nil && c.indicated.ElementID() == ref.ElementID() {
		// Same element, possibly a fresh ref after a rebuild.
		c.indicated = ref
		if c.ports.Visual != nil {
			c.ports.Visual.ApplyIndicator(ref)
		}
		return
	}
	c.clearIndicator()
	if c.ports.Visual != nil {
		c.ports.Visual.ApplyIndicator(ref)
	}
	c.indicated = ref
}

func (c *Controller) clearIndicator() {
	if c.indicated == nil {
		return
	}
	if c.ports.Visual != nil {
		c.ports.Visual.ClearIndicator(c.indicated)
	}
	c.indicated = nil
}

// Activate triggers the element at index: form controls receive native
// focus, links navigate, anything else gets a primary activation.
func (c *Controller) Activate(index int) Action {
	el, ok := c.reg.At(index)
	if !ok {
		return ActionNone
	}
	a := c.ports.Activator
	log := c.log.WithField("element", el.ID())

	switch {
	case el.Props.Role == registry.RoleFormControl:
		if a != nil {
			if err := a.FocusNatively(el.Ref); err != nil {
				log.WithError(err).Debug("native focus rejected")
			}
		}
		return ActionFocus
	case el.Props.Role == registry.RoleLink && el.Props.Href != "":
		if a != nil {
			if err := a.NavigateTo(el.Props.Href, el.Props.NewTab); err != nil {
				log.WithError(err).Debug("navigation failed")
			}
		}
		return ActionNavigate
	default:
		if a != nil {
			if err := a.SimulatePrimaryActivation(el.Ref); err != nil {
				log.WithError(err).Debug("activation failed")
			}
		}
		return ActionClick
	}
}

// Cancel closes the topmost dismissible overlay, or goes back when none is
// open.
func (c *Controller) Cancel() CancelOutcome {
	o := c.ports.Overlays
	if o == nil {
		return CancelNone
	}
	if ref, ok := o.FindOpenDismissibleOverlay(); ok && ref != nil {
		if err := o.TriggerClose(ref); err != nil {
			c.log.WithError(err).WithField("overlay", ref.ElementID()).Debug("overlay close failed")
		}
		return CancelClosedOverlay
	}
	went, err := o.NavigateBack()
	if err != nil {
		c.log.WithError(err).Debug("back navigation failed")
		return CancelNone
	}
	if !went {
		return CancelNone
	}
	return CancelNavigatedBack
}

// ScrollBy scrolls the page. Zero is ignored.
func (c *Controller) ScrollBy(amount float64) {
	if amount == 0 || c.ports.Scroller == nil {
		return
	}
	if err := c.ports.Scroller.ScrollBy(amount); err != nil {
		c.log.WithError(err).Debug("scroll failed")
	}
}

// Engage moves to Active and focuses the current element, or the first one
// when nothing is focused. With an empty registry the controller stays Idle.
func (c *Controller) Engage() bool {
	if c.reg.Len() == 0 {
		return false
	}
	c.state = Active
	index := c.reg.Current()
	if !c.reg.Valid(index) {
		index = 0
	}
	return c.SetFocus(index)
}

// Disengage clears the indicator and focus and returns to Idle.
func (c *Controller) Disengage() {
	c.clearIndicator()
	c.reg.SetCurrent(-1)
	c.state = Idle
}

// Reconcile updates visible state after a registry rebuild. A preserved
// element keeps the indicator; a fallback to the first element is focused;
// losing focus inside Active clears the indicator but stays Active.
func (c *Controller) Reconcile(res registry.RebuildResult, deviceActive bool) {
	if c.state == Idle && deviceActive {
		if res.Size > 0 {
			c.Engage()
		}
		return
	}
	switch {
	case res.Current < 0:
		c.clearIndicator()
	case res.Preserved:
		c.Sync(res.Current)
	default:
		c.SetFocus(res.Current)
	}
}
