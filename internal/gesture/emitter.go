package gesture

import (
	"sync"

	"github.com/bnema/waygesture/internal/input"
	"github.com/bnema/waygesture/internal/logger"
	"github.com/bnema/waygesture/internal/pointer"
	"github.com/charmbracelet/log"
)

// Listener observes every event an Emitter delivers.
type Listener func(target input.Tag, ev *Event)

// Emitter builds synthetic events and delivers them to the pointer's
// target, then to every listener in registration order.
type Emitter struct {
	mu        sync.RWMutex
	listeners []Listener
	logger    *log.Logger
}

// NewEmitter creates an emitter. A nil logger selects the package logger.
func NewEmitter(l *log.Logger) *Emitter {
	return &Emitter{logger: logger.Or(l)}
}

// Listen adds a listener.
func (e *Emitter) Listen(l Listener) {
	if l == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, l)
}

// Emit announces a gesture of the given type for p.
func (e *Emitter) Emit(typ string, p *pointer.Pointer, opts ...EventOption) *Event {
	ev := &Event{
		Type:       typ,
		Pointer:    p,
		Detail:     map[string]any{},
		Cancelable: true,
		Bubbles:    true,
		Provenance: ProvenanceSynthetic,
	}
	for _, opt := range opts {
		opt(ev)
	}
	e.Dispatch(ev)
	return ev
}

// Click announces a click at the pointer's current position.
func (e *Emitter) Click(p *pointer.Pointer) *Event {
	return e.Emit(EventClick, p, func(ev *Event) {
		ev.ClientX, ev.ClientY = p.X, p.Y
		ev.ScreenX, ev.ScreenY = p.X, p.Y
	})
}

// Dispatch delivers an already built event.
func (e *Emitter) Dispatch(ev *Event) {
	target := ev.Target()
	if t, ok := target.(EventTarget); ok {
		t.DispatchEvent(ev)
	} else {
		e.logger.Debug("Gesture target does not accept events", "event", ev.Type)
	}

	e.mu.RLock()
	listeners := make([]Listener, len(e.listeners))
	copy(listeners, e.listeners)
	e.mu.RUnlock()

	for _, l := range listeners {
		l(target, ev)
	}
}
