// Package layout is a headless page host: a YAML document of boxes and
// overlays that implements every port the navigator consumes.
package layout

import (
	"fmt"
	"os"

	"github.com/grovetools/padnav/errors"
	"github.com/grovetools/padnav/pkg/geom"
	"github.com/grovetools/padnav/pkg/registry"
	"gopkg.in/yaml.v3"
)

// Size is a viewport size in layout units.
type Size struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// Element is one node of the page.
type Element struct {
	ID       string    `yaml:"id" json:"id"`
	Role     string    `yaml:"role,omitempty" json:"role,omitempty"`
	Label    string    `yaml:"label,omitempty" json:"label,omitempty"`
	Group    string    `yaml:"group,omitempty" json:"group,omitempty"`
	Box      geom.Rect `yaml:"box" json:"box"`
	TabIndex *int      `yaml:"tabindex,omitempty" json:"tabindex,omitempty"`
	OptIn    bool      `yaml:"opt_in,omitempty" json:"opt_in,omitempty"`
	Disabled bool      `yaml:"disabled,omitempty" json:"disabled,omitempty"`
	// Hidden is display:none, Invisible is visibility:hidden.
	Hidden    bool     `yaml:"hidden,omitempty" json:"hidden,omitempty"`
	Invisible bool     `yaml:"invisible,omitempty" json:"invisible,omitempty"`
	Opacity   *float64 `yaml:"opacity,omitempty" json:"opacity,omitempty"`
	Detached  bool     `yaml:"detached,omitempty" json:"detached,omitempty"`
	Href      string   `yaml:"href,omitempty" json:"href,omitempty"`
	NewTab    bool     `yaml:"new_tab,omitempty" json:"new_tab,omitempty"`
	// Opens names an overlay shown when the element is activated.
	Opens string `yaml:"opens,omitempty" json:"opens,omitempty"`
}

// Properties converts the element to what the registry evaluates.
func (e Element) Properties() registry.Properties {
	p := registry.Properties{
		Role:             registry.ParseRole(e.Role),
		OptIn:            e.OptIn,
		Disabled:         e.Disabled,
		DisplayNone:      e.Hidden,
		VisibilityHidden: e.Invisible,
		Detached:         e.Detached,
		Href:             e.Href,
		NewTab:           e.NewTab,
		Label:            e.Label,
	}
	if e.TabIndex != nil {
		p.HasTabIndex = true
		p.TabIndex = *e.TabIndex
	}
	if e.Opacity != nil && *e.Opacity <= 0 {
		p.Transparent = true
	}
	return p
}

// Overlay is a dismissible layer such as a modal.
type Overlay struct {
	ID   string `yaml:"id" json:"id"`
	Open bool   `yaml:"open,omitempty" json:"open,omitempty"`
	// Close is the ID of the element that dismisses the overlay.
	Close    string    `yaml:"close" json:"close"`
	Elements []Element `yaml:"elements" json:"elements"`
}

// Document is a parsed layout file.
type Document struct {
	Title    string    `yaml:"title,omitempty" json:"title,omitempty"`
	Viewport Size      `yaml:"viewport" json:"viewport"`
	Elements []Element `yaml:"elements" json:"elements"`
	Overlays []Overlay `yaml:"overlays,omitempty" json:"overlays,omitempty"`
}

// Parse decodes and validates a layout document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeLayoutInvalid, "failed to parse layout")
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load reads and parses a layout file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.LayoutNotFound(path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		if ne, ok := err.(*errors.NavError); ok {
			return nil, ne.WithDetail("path", path)
		}
		return nil, err
	}
	return doc, nil
}

// Validate checks IDs, sizes and overlay references. Unknown roles read
// as generic elements.
func (d *Document) Validate() error {
	if d.Viewport.Width < 0 || d.Viewport.Height < 0 {
		return errors.LayoutInvalid("", "viewport size must not be negative")
	}
	seen := map[string]bool{}
	check := func(where string, els []Element) error {
		for i, el := range els {
			if el.ID == "" {
				return errors.LayoutInvalid("", fmt.Sprintf("%s element %d has no id", where, i))
			}
			if seen[el.ID] {
				return errors.LayoutInvalid("", fmt.Sprintf("duplicate element id %q", el.ID))
			}
			seen[el.ID] = true
			if el.Box.Width < 0 || el.Box.Height < 0 {
				return errors.LayoutInvalid("", fmt.Sprintf("element %q has a negative size", el.ID))
			}
		}
		return nil
	}
	if err := check("page", d.Elements); err != nil {
		return err
	}

	overlays := map[string]bool{}
	for i, o := range d.Overlays {
		if o.ID == "" {
			return errors.LayoutInvalid("", fmt.Sprintf("overlay %d has no id", i))
		}
		if overlays[o.ID] {
			return errors.LayoutInvalid("", fmt.Sprintf("duplicate overlay id %q", o.ID))
		}
		overlays[o.ID] = true
		if err := check("overlay "+o.ID, o.Elements); err != nil {
			return err
		}
		if o.Close != "" && !containsID(o.Elements, o.Close) {
			return errors.LayoutInvalid("", fmt.Sprintf("overlay %q close control %q is not one of its elements", o.ID, o.Close))
		}
	}
	for _, el := range d.allElements() {
		if el.Opens != "" && !overlays[el.Opens] {
			return errors.LayoutInvalid("", fmt.Sprintf("element %q opens unknown overlay %q", el.ID, el.Opens))
		}
	}
	return nil
}

func (d *Document) allElements() []Element {
	out := append([]Element(nil), d.Elements...)
	for _, o := range d.Overlays {
		out = append(out, o.Elements...)
	}
	return out
}

func containsID(els []Element, id string) bool {
	for _, el := range els {
		if el.ID == id {
			return true
		}
	}
	return false
}
