package slidefx

import (
	"fmt"
	"strings"
)

// Vec2 is a 2D vector used for points, offsets and sizes.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle in canvas pixels. The coordinate system
// has its origin at the top-left, with Y increasing downward.
type Rect struct {
	X      float64 `yaml:"x" json:"x"`
	Y      float64 `yaml:"y" json:"y"`
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Scale returns r with every component multiplied by s.
func (r Rect) Scale(s float64) Rect {
	return Rect{X: r.X * s, Y: r.Y * s, Width: r.Width * s, Height: r.Height * s}
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// DeviceClass selects one of the precomputed rectangles of a ResponsivePosition.
type DeviceClass uint8

const (
	DeviceDesktop DeviceClass = iota // wide layouts, the fallback class
	DeviceTablet                     // medium layouts
	DeviceMobile                     // narrow layouts
)

var deviceClassNames = [...]string{"desktop", "tablet", "mobile"}

func (d DeviceClass) String() string {
	if int(d) < len(deviceClassNames) {
		return deviceClassNames[d]
	}
	return fmt.Sprintf("DeviceClass(%d)", d)
}

// MarshalText implements encoding.TextMarshaler.
func (d DeviceClass) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *DeviceClass) UnmarshalText(b []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(b)))
	for i, name := range deviceClassNames {
		if name == s {
			*d = DeviceClass(i)
			return nil
		}
	}
	return fmt.Errorf("unknown device class %q", s)
}

// TriggerKind identifies the discrete input gesture an Interaction reacts to.
type TriggerKind uint8

const (
	TriggerClick       TriggerKind = iota // single tap or click
	TriggerDoubleClick                    // second tap inside the double-tap window
	TriggerHover                          // pointer enters the element
	TriggerTouchStart                     // pointer goes down on the element
	TriggerTouchEnd                       // pointer is released on the element
	TriggerLongPress                      // pointer held past the long-press delay
)

var triggerNames = [...]string{"click", "double-click", "hover", "touch-start", "touch-end", "long-press"}

func (k TriggerKind) String() string {
	if int(k) < len(triggerNames) {
		return triggerNames[k]
	}
	return fmt.Sprintf("TriggerKind(%d)", k)
}

// ParseTriggerKind maps a trigger name to its TriggerKind. Underscores and
// case are ignored, so "DOUBLE_CLICK" and "double-click" are equivalent.
func ParseTriggerKind(s string) (TriggerKind, bool) {
	s = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	switch s {
	case "dblclick", "doubleclick", "double-tap":
		return TriggerDoubleClick, true
	case "tap":
		return TriggerClick, true
	case "longpress", "long-tap":
		return TriggerLongPress, true
	}
	for i, name := range triggerNames {
		if name == s {
			return TriggerKind(i), true
		}
	}
	return 0, false
}

// MarshalText implements encoding.TextMarshaler.
func (k TriggerKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *TriggerKind) UnmarshalText(b []byte) error {
	v, ok := ParseTriggerKind(string(b))
	if !ok {
		return fmt.Errorf("unknown trigger kind %q", string(b))
	}
	*k = v
	return nil
}

// TriggerSet is a bitmask of declared trigger kinds.
type TriggerSet uint8

// Has reports whether k is in the set.
func (s TriggerSet) Has(k TriggerKind) bool {
	return s&(1<<k) != 0
}

// With returns the set with k added.
func (s TriggerSet) With(k TriggerKind) TriggerSet {
	return s | 1<<k
}

// ElementKind tags what an Element renders as. The engine treats all kinds
// the same; renderers switch on it.
type ElementKind string

const (
	ElementHotspot ElementKind = "hotspot"
	ElementText    ElementKind = "text"
	ElementMedia   ElementKind = "media"
	ElementShape   ElementKind = "shape"
)

// EffectType tags the behaviour of an Effect. Unknown values are carried
// through untouched so newer documents still load.
type EffectType string

const (
	EffectSpotlight  EffectType = "spotlight"
	EffectZoom       EffectType = "zoom"
	EffectPanZoom    EffectType = "pan-zoom"
	EffectShowText   EffectType = "show-text"
	EffectPlayMedia  EffectType = "play-media"
	EffectHighlight  EffectType = "highlight"
	EffectTransition EffectType = "transition"
)

// Known reports whether t is one of the built-in effect types.
func (t EffectType) Known() bool {
	switch t {
	case EffectSpotlight, EffectZoom, EffectPanZoom, EffectShowText,
		EffectPlayMedia, EffectHighlight, EffectTransition:
		return true
	}
	return false
}

// GestureKind identifies a gesture that competes for the input stream.
type GestureKind uint8

const (
	GestureTap  GestureKind = iota // element tap, click, long-press
	GesturePan                     // canvas pan
	GestureZoom                    // canvas pinch or wheel zoom
	GestureDrag                    // element drag in edit mode
)

var gestureNames = [...]string{"tap", "pan", "zoom", "drag"}

func (g GestureKind) String() string {
	if int(g) < len(gestureNames) {
		return gestureNames[g]
	}
	return fmt.Sprintf("GestureKind(%d)", g)
}

// priority orders gestures for preemption: drag > zoom > pan > tap.
func (g GestureKind) priority() int {
	return int(g)
}

// Mode switches the player between viewing effects and authoring.
type Mode uint8

const (
	ModeView Mode = iota // gestures resolve to triggers
	ModeEdit             // gestures select and drag elements
)

// EventType identifies a kind of engine event forwarded to an EventStore.
type EventType uint8

const (
	EventTrigger      EventType = iota // an interaction trigger fired on an element
	EventSelect                        // an element was selected in edit mode
	EventEffectStart                   // an effect became active
	EventEffectEnd                     // an effect left the active set
	EventSlideChange                   // the displayed slide changed
	EventStepChange                    // the timeline step changed
	EventDragStart                     // an element drag began
	EventDrag                          // an element drag moved
	EventDragEnd                       // an element drag ended
)

// Key is a navigation key understood by the Sequencer.
type Key uint8

const (
	KeyNext       Key = iota // arrow right, space, page down
	KeyPrevious              // arrow left, page up
	KeyHome                  // jump to the first step
	KeyEnd                   // jump to the last step
	KeyTogglePlay            // start or pause auto-advance
)
