// Package registry maintains the live, visibility-filtered list of
// navigable elements.
package registry

import (
	"fmt"
	"strings"

	"github.com/grovetools/padnav/pkg/geom"
)

// ElementRef is an opaque reference to a host element. The ID must stay
// stable across rebuilds so focus can follow an element to its new index.
type ElementRef interface {
	ElementID() string
}

// Role is the interactive role an element plays.
type Role uint8

const (
	RoleGeneric Role = iota
	RoleLink
	RoleButton
	RoleFormControl
)

func (r Role) String() string {
	switch r {
	case RoleLink:
		return "link"
	case RoleButton:
		return "button"
	case RoleFormControl:
		return "input"
	default:
		return "generic"
	}
}

// ParseRole resolves a role name. Unknown names map to RoleGeneric.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "link", "a", "anchor":
		return RoleLink
	case "button":
		return RoleButton
	case "input", "textarea", "select", "form", "form_control":
		return RoleFormControl
	default:
		return RoleGeneric
	}
}

// Properties is what the host reports about an element at query time.
// The zero value describes a rendered, attached, non-interactive element.
type Properties struct {
	Role        Role
	TabIndex    int
	HasTabIndex bool
	// OptIn marks elements explicitly registered as navigable, such as
	// clickable cards.
	OptIn    bool
	Disabled bool

	DisplayNone      bool
	VisibilityHidden bool
	// Transparent means the computed opacity is zero.
	Transparent bool
	// Unrendered means the element has no offset parent.
	Unrendered bool
	Detached   bool

	Href   string
	NewTab bool
	Label  string
}

// Focusable reports whether the element matches the selection predicate.
func (p Properties) Focusable() bool {
	if p.HasTabIndex && p.TabIndex < 0 {
		return false
	}
	if p.Disabled {
		return false
	}
	switch p.Role {
	case RoleLink, RoleButton, RoleFormControl:
		return true
	}
	return p.HasTabIndex || p.OptIn
}

// Visible reports whether an element with these properties and box is
// actually rendered on screen.
func (p Properties) Visible(box geom.Rect) bool {
	if box.Empty() {
		return false
	}
	return !p.DisplayNone && !p.VisibilityHidden && !p.Transparent && !p.Unrendered && !p.Detached
}

// FocusableElement is a registry entry: the element and its geometry as
// captured at build time.
type FocusableElement struct {
	Ref   ElementRef
	Box   geom.Rect
	Props Properties
}

// ID returns the element's stable ID.
func (e FocusableElement) ID() string {
	if e.Ref == nil {
		return ""
	}
	return e.Ref.ElementID()
}

func (e FocusableElement) String() string {
	label := e.Props.Label
	if label == "" {
		label = e.ID()
	}
	return fmt.Sprintf("%s %q @(%.0f,%.0f %.0fx%.0f)", e.Props.Role, label, e.Box.Left, e.Box.Top, e.Box.Width, e.Box.Height)
}

// Source is the host's element query capability.
type Source interface {
	// QueryFocusableCandidates returns candidate elements in document order.
	QueryFocusableCandidates(scope string) []ElementRef
	// Properties describes an element; false means it no longer exists.
	Properties(ref ElementRef) (Properties, bool)
	// BoundingBox returns the element's rendered box.
	BoundingBox(ref ElementRef) geom.Rect
}
