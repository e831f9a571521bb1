package focus

import (
	"github.com/grovetools/padnav/pkg/geom"
	"github.com/grovetools/padnav/pkg/registry"
)

// ScrollOptions is passed to Activator.ScrollIntoView.
type ScrollOptions struct {
	// Behavior is "smooth" or "auto".
	Behavior string `json:"behavior"`
	// Block is the vertical alignment: "center", "start", "end" or "nearest".
	Block string `json:"block"`
}

// DefaultScrollOptions centers the element with a smooth scroll.
func DefaultScrollOptions() ScrollOptions {
	return ScrollOptions{Behavior: "smooth", Block: "center"}
}

// VisualPort marks and unmarks the focused element.
type VisualPort interface {
	ApplyIndicator(ref registry.ElementRef)
	ClearIndicator(ref registry.ElementRef)
}

// Activator performs the host side effects of focusing and activating.
type Activator interface {
	SimulatePrimaryActivation(ref registry.ElementRef) error
	FocusNatively(ref registry.ElementRef) error
	NavigateTo(url string, newTab bool) error
	ScrollIntoView(ref registry.ElementRef, opts ScrollOptions) error
}

// Scroller scrolls the page by a signed amount.
type Scroller interface {
	ScrollBy(amount float64) error
}

// Viewport reports the visible area in the same coordinates as element boxes.
type Viewport interface {
	ViewportRect() geom.Rect
}

// Overlays exposes dismissible overlays and history.
type Overlays interface {
	// FindOpenDismissibleOverlay returns the close control of the topmost
	// open overlay.
	FindOpenDismissibleOverlay() (registry.ElementRef, bool)
	TriggerClose(ref registry.ElementRef) error
	// NavigateBack returns false when there is no history to go back to.
	NavigateBack() (bool, error)
}

// Ports bundles the host collaborators. Any of them may be nil.
type Ports struct {
	Visual    VisualPort
	Activator Activator
	Scroller  Scroller
	Viewport  Viewport
	Overlays  Overlays
}
