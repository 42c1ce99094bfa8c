// Package input describes raw pointer input as delivered by a host: mouse,
// touch and pointer events, and the normalisation of their coordinates.
package input

import (
	"strings"
	"time"
)

// Kind is the coarse device family an event belongs to. Move and end events
// only continue an interaction started by an event of the same kind.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindMouse
	KindTouch
	KindPointer
)

// Phase is the lifecycle step a raw event type maps to.
type Phase uint8

const (
	PhaseNone Phase = iota
	PhaseStart
	PhaseMove
	PhaseEnd
)

// Raw event type names understood by the tracker.
const (
	TypeMouseDown     = "mousedown"
	TypeMouseMove     = "mousemove"
	TypeMouseUp       = "mouseup"
	TypeMouseLeave    = "mouseleave"
	TypeTouchStart    = "touchstart"
	TypeTouchMove     = "touchmove"
	TypeTouchEnd      = "touchend"
	TypeTouchCancel   = "touchcancel"
	TypePointerDown   = "pointerdown"
	TypePointerMove   = "pointermove"
	TypePointerUp     = "pointerup"
	TypePointerCancel = "pointercancel"
	TypeClick         = "click"
)

var phases = map[string]Phase{
	TypeMouseDown:     PhaseStart,
	TypeTouchStart:    PhaseStart,
	TypePointerDown:   PhaseStart,
	TypeMouseMove:     PhaseMove,
	TypeTouchMove:     PhaseMove,
	TypePointerMove:   PhaseMove,
	TypeMouseUp:       PhaseEnd,
	TypeMouseLeave:    PhaseEnd,
	TypeTouchEnd:      PhaseEnd,
	TypeTouchCancel:   PhaseEnd,
	TypePointerUp:     PhaseEnd,
	TypePointerCancel: PhaseEnd,
}

// Tag is an opaque reference to the object an interaction started on.
// Synthetic gesture events are delivered back to it.
type Tag interface{}

// Identifier is implemented by tags that have a stable name, used when an
// input stream is recorded.
type Identifier interface {
	TargetID() string
}

// Touch is one contact point of a touch event.
type Touch struct {
	Identifier int64
	PageX      float64
	PageY      float64
}

// Event is a raw input event. Mouse and pointer events carry their
// coordinates directly (HasPoint), touch events through the touch lists.
// Original is set when the event wraps another library's event.
type Event struct {
	Type   string
	Target Tag
	Time   time.Time

	PageX    float64
	PageY    float64
	HasPoint bool

	Touches        []Touch
	ChangedTouches []Touch

	Original *Event

	defaultPrevented   bool
	propagationStopped bool
}

// NewMouseEvent returns a coordinate-bearing event of the given type.
func NewMouseEvent(typ string, target Tag, x, y float64) *Event {
	return &Event{Type: typ, Target: target, PageX: x, PageY: y, HasPoint: true}
}

// NewTouchEvent returns a touch event. Touches holds the active contacts,
// changed the contacts that changed with this event.
func NewTouchEvent(typ string, target Tag, touches, changed []Touch) *Event {
	return &Event{Type: typ, Target: target, Touches: touches, ChangedTouches: changed}
}

// Kind reports the device family of the event.
func (e *Event) Kind() Kind {
	if e == nil {
		return KindUnknown
	}
	return KindOf(e.Type)
}

// Phase reports the lifecycle step of the event.
func (e *Event) Phase() Phase {
	if e == nil {
		return PhaseNone
	}
	return PhaseOf(e.Type)
}

// PreventDefault cancels the host's default action, e.g. scrolling.
// It is forwarded to the wrapped original event.
func (e *Event) PreventDefault() {
	for ev := e; ev != nil; ev = ev.Original {
		ev.defaultPrevented = true
	}
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool {
	return e != nil && e.defaultPrevented
}

// StopPropagation stops the host from delivering the event further.
func (e *Event) StopPropagation() {
	for ev := e; ev != nil; ev = ev.Original {
		ev.propagationStopped = true
	}
}

// PropagationStopped reports whether StopPropagation was called.
func (e *Event) PropagationStopped() bool {
	return e != nil && e.propagationStopped
}

// Synthetic reports false: raw events always come from the platform.
func (e *Event) Synthetic() bool { return false }

// KindOf maps an event type name to its device family.
func KindOf(typ string) Kind {
	switch {
	case strings.HasPrefix(typ, "mouse"):
		return KindMouse
	case strings.HasPrefix(typ, "touch"):
		return KindTouch
	case strings.HasPrefix(typ, "pointer"):
		return KindPointer
	default:
		return KindUnknown
	}
}

// PhaseOf maps an event type name to its lifecycle step.
func PhaseOf(typ string) Phase {
	return phases[typ]
}

func (k Kind) String() string {
	switch k {
	case KindMouse:
		return "mouse"
	case KindTouch:
		return "touch"
	case KindPointer:
		return "pointer"
	default:
		return "unknown"
	}
}

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseMove:
		return "move"
	case PhaseEnd:
		return "end"
	default:
		return "none"
	}
}
