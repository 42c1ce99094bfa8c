package gesture

import (
	"github.com/bnema/waygesture/internal/input"
	"github.com/bnema/waygesture/internal/pointer"
	"github.com/charmbracelet/log"
)

type entry struct {
	name    string
	handler Handler
}

// Dispatcher fans pointer transitions out to resolved handlers. A handler
// that panics is logged and skipped; the others still run.
type Dispatcher struct {
	handlers []entry
	emitter  *Emitter
	logger   *log.Logger
}

// Start resets every handler and then calls its OnStart. A handler whose
// Reset fails does not see the start.
func (d *Dispatcher) Start(ev *input.Event, p *pointer.Pointer) {
	for _, e := range d.handlers {
		h := e.handler
		if d.invoke(e.name, "reset", h.Reset) {
			d.invoke(e.name, "start", func() { h.OnStart(ev, p) })
		}
	}
}

// Move calls OnMove on every handler.
func (d *Dispatcher) Move(ev *input.Event, p *pointer.Pointer) {
	for _, e := range d.handlers {
		h := e.handler
		d.invoke(e.name, "move", func() { h.OnMove(ev, p) })
	}
}

// End calls OnEnd on every handler.
func (d *Dispatcher) End(ev *input.Event, p *pointer.Pointer) {
	for _, e := range d.handlers {
		h := e.handler
		d.invoke(e.name, "end", func() { h.OnEnd(ev, p) })
	}
}

// Handler looks up a resolved handler.
func (d *Dispatcher) Handler(name string) (Handler, bool) {
	for _, e := range d.handlers {
		if e.name == name {
			return e.handler, true
		}
	}
	return nil, false
}

// Names returns the handler names in dispatch order.
func (d *Dispatcher) Names() []string {
	names := make([]string, 0, len(d.handlers))
	for _, e := range d.handlers {
		names = append(names, e.name)
	}
	return names
}

// Emitter returns the emitter the handlers were built with.
func (d *Dispatcher) Emitter() *Emitter {
	return d.emitter
}

func (d *Dispatcher) invoke(name, callback string, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Gesture handler failed", "gesture", name, "callback", callback, "err", r)
			ok = false
		}
	}()
	fn()
	return true
}
