package gesture

import (
	"github.com/bnema/waygesture/internal/input"
	"github.com/bnema/waygesture/internal/pointer"
)

// Names of the events emitted by the built-in handlers.
const (
	EventClick      = "click"
	EventPressDown  = "pressdown"
	EventPressUp    = "pressup"
	EventDragStart  = "dragstart"
	EventDrag       = "drag"
	EventDragEnd    = "dragend"
	EventSwipeLeft  = "swipeleft"
	EventSwipeRight = "swiperight"
)

// Provenance tells where an event originated.
type Provenance uint8

const (
	// ProvenancePlatform marks events delivered by the host.
	ProvenancePlatform Provenance = iota
	// ProvenanceSynthetic marks events built by the Emitter.
	ProvenanceSynthetic
)

func (p Provenance) String() string {
	if p == ProvenanceSynthetic {
		return "synthetic"
	}
	return "platform"
}

// Event is a gesture event envelope.
type Event struct {
	Type       string
	Pointer    *pointer.Pointer
	Detail     map[string]any
	Cancelable bool
	Bubbles    bool
	Provenance Provenance

	// Set on click events only.
	ClientX, ClientY float64
	ScreenX, ScreenY float64

	defaultPrevented   bool
	propagationStopped bool
}

// Synthetic reports whether the event was built by this package.
func (e *Event) Synthetic() bool {
	return e != nil && e.Provenance == ProvenanceSynthetic
}

// Target returns the tag the event is delivered to.
func (e *Event) Target() input.Tag {
	if e == nil || e.Pointer == nil {
		return nil
	}
	return e.Pointer.Target()
}

// PreventDefault is a no-op on non-cancelable events.
func (e *Event) PreventDefault() {
	if e.Cancelable {
		e.defaultPrevented = true
	}
}

func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

func (e *Event) StopPropagation() { e.propagationStopped = true }

func (e *Event) PropagationStopped() bool { return e.propagationStopped }

// EventTarget is implemented by tags that accept gesture events.
type EventTarget interface {
	DispatchEvent(ev *Event)
}

// EventOption customises an emitted event.
type EventOption func(*Event)

// WithDetail sets the detail payload.
func WithDetail(detail map[string]any) EventOption {
	return func(e *Event) {
		if detail != nil {
			e.Detail = detail
		}
	}
}

// WithCancelable sets the cancelable flag.
func WithCancelable(v bool) EventOption {
	return func(e *Event) { e.Cancelable = v }
}

// WithBubbles sets the bubbles flag.
func WithBubbles(v bool) EventOption {
	return func(e *Event) { e.Bubbles = v }
}

// Activation is a click-like event a host is about to act on: either a raw
// platform event or a gesture Event.
type Activation interface {
	Synthetic() bool
	PreventDefault()
	StopPropagation()
}

var (
	_ Activation = (*input.Event)(nil)
	_ Activation = (*Event)(nil)
)

// AllowActivation applies the click policy: only synthetic activations go
// through. Anything else is cancelled and stopped, and false is returned.
func AllowActivation(a Activation) bool {
	if a == nil {
		return false
	}
	if a.Synthetic() {
		return true
	}
	a.PreventDefault()
	a.StopPropagation()
	return false
}
