package slidefx

import (
	"fmt"
	"time"
)

// Effect is an immutable, parameterised response to an interaction.
// Duration 0 means the effect stays active until it is completed or cleared.
type Effect struct {
	ID       string         `yaml:"id" json:"id"`
	Type     EffectType     `yaml:"type" json:"type"`
	Duration time.Duration  `yaml:"duration,omitempty" json:"duration,omitempty"`
	Params   map[string]any `yaml:"params,omitempty" json:"params,omitempty"`
}

// FloatParam returns the numeric parameter key, or def if it is missing or not a number.
func (e Effect) FloatParam(key string, def float64) float64 {
	switch v := e.Params[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	}
	return def
}

// StringParam returns the string parameter key, or def if it is missing.
func (e Effect) StringParam(key, def string) string {
	if v, ok := e.Params[key].(string); ok {
		return v
	}
	return def
}

// BoolParam returns the boolean parameter key, or def if it is missing.
func (e Effect) BoolParam(key string, def bool) bool {
	if v, ok := e.Params[key].(bool); ok {
		return v
	}
	return def
}

// ParamTargetSlide is the Params key naming the slide a transition navigates to.
const ParamTargetSlide = "targetSlideId"

// Interaction binds a trigger kind on one Element to an Effect.
type Interaction struct {
	ID      string      `yaml:"id" json:"id"`
	Trigger TriggerKind `yaml:"trigger" json:"trigger"`
	// Delay orders the interaction among its slide's timeline steps.
	Delay  time.Duration `yaml:"delay,omitempty" json:"delay,omitempty"`
	Effect Effect        `yaml:"effect" json:"effect"`
}

// ResponsivePosition holds one fixed rectangle per device class. Absent
// classes are nil and fall back during Resolve.
type ResponsivePosition struct {
	Desktop *Rect `yaml:"desktop,omitempty" json:"desktop,omitempty"`
	Tablet  *Rect `yaml:"tablet,omitempty" json:"tablet,omitempty"`
	Mobile  *Rect `yaml:"mobile,omitempty" json:"mobile,omitempty"`
}

// lookup returns the rectangle stored for class, or nil.
func (p ResponsivePosition) lookup(class DeviceClass) *Rect {
	switch class {
	case DeviceDesktop:
		return p.Desktop
	case DeviceTablet:
		return p.Tablet
	case DeviceMobile:
		return p.Mobile
	}
	return nil
}

// Element is a placeable, interactive unit on a slide.
type Element struct {
	ID           string             `yaml:"id" json:"id"`
	Kind         ElementKind        `yaml:"kind" json:"kind"`
	Position     ResponsivePosition `yaml:"position" json:"position"`
	Hidden       bool               `yaml:"hidden,omitempty" json:"hidden,omitempty"`
	Content      string             `yaml:"content,omitempty" json:"content,omitempty"`
	Interactions []Interaction      `yaml:"interactions,omitempty" json:"interactions,omitempty"`
}

// Visible reports whether the element takes part in rendering and hit testing.
func (e *Element) Visible() bool {
	return !e.Hidden
}

// Triggers returns the set of trigger kinds declared by the element.
func (e *Element) Triggers() TriggerSet {
	var set TriggerSet
	for _, in := range e.Interactions {
		set = set.With(in.Trigger)
	}
	return set
}

// InteractionFor returns the first interaction declared for trigger.
func (e *Element) InteractionFor(trigger TriggerKind) (*Interaction, bool) {
	for i := range e.Interactions {
		if e.Interactions[i].Trigger == trigger {
			return &e.Interactions[i], true
		}
	}
	return nil, false
}

// Interaction returns the interaction with the given id.
func (e *Element) Interaction(id string) (*Interaction, bool) {
	for i := range e.Interactions {
		if e.Interactions[i].ID == id {
			return &e.Interactions[i], true
		}
	}
	return nil, false
}

// Slide is one page of a document. It owns its elements.
type Slide struct {
	ID       string    `yaml:"id" json:"id"`
	Title    string    `yaml:"title,omitempty" json:"title,omitempty"`
	Elements []Element `yaml:"elements,omitempty" json:"elements,omitempty"`
}

// Element returns the element with the given id.
func (s *Slide) Element(id string) (*Element, bool) {
	for i := range s.Elements {
		if s.Elements[i].ID == id {
			return &s.Elements[i], true
		}
	}
	return nil, false
}

// Document is an ordered list of slides sharing one canvas aspect ratio.
type Document struct {
	Title       string  `yaml:"title,omitempty" json:"title,omitempty"`
	AspectRatio string  `yaml:"aspect_ratio,omitempty" json:"aspectRatio,omitempty"`
	Slides      []Slide `yaml:"slides" json:"slides"`
}

// SlideIndex returns the index of the slide with the given id, or -1.
func (d *Document) SlideIndex(id string) int {
	for i := range d.Slides {
		if d.Slides[i].ID == id {
			return i
		}
	}
	return -1
}

// Validate reports structural problems that would make ids ambiguous.
func (d *Document) Validate() error {
	slides := make(map[string]bool, len(d.Slides))
	for i := range d.Slides {
		s := &d.Slides[i]
		if s.ID == "" {
			return fmt.Errorf("slide %d: missing id", i)
		}
		if slides[s.ID] {
			return fmt.Errorf("slide %q: duplicate id", s.ID)
		}
		slides[s.ID] = true
		elements := make(map[string]bool, len(s.Elements))
		for j := range s.Elements {
			e := &s.Elements[j]
			if e.ID == "" {
				return fmt.Errorf("slide %q element %d: missing id", s.ID, j)
			}
			if elements[e.ID] {
				return fmt.Errorf("slide %q element %q: duplicate id", s.ID, e.ID)
			}
			elements[e.ID] = true
		}
	}
	return nil
}
