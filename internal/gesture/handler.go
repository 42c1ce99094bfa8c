// Package gesture implements pluggable gesture recognizers on top of the
// pointer lifecycle, and the synthetic events they emit.
//
// Handlers are registered as factories on a Registry. Build resolves every
// factory exactly once into a Dispatcher, which fans the tracker's start,
// move and end transitions out to each handler in registration order.
package gesture

import (
	"github.com/bnema/waygesture/internal/input"
	"github.com/bnema/waygesture/internal/pointer"
	"github.com/charmbracelet/log"
)

// Options holds a handler's tunable numeric parameters.
type Options map[string]float64

// Get returns the named option, or 0 when unset.
func (o Options) Get(name string) float64 {
	return o[name]
}

// Handler is a stateful gesture recognizer. Reset is called before every
// OnStart so a handler never starts with stale state.
type Handler interface {
	Options() Options
	Reset()
	OnStart(ev *input.Event, p *pointer.Pointer)
	OnMove(ev *input.Event, p *pointer.Pointer)
	OnEnd(ev *input.Event, p *pointer.Pointer)
}

// Base provides no-op lifecycle methods. Handlers embed it and override
// what they need.
type Base struct {
	Opts Options
}

func (b *Base) Options() Options {
	if b.Opts == nil {
		b.Opts = Options{}
	}
	return b.Opts
}

func (b *Base) Reset()                                     {}
func (b *Base) OnStart(ev *input.Event, p *pointer.Pointer) {}
func (b *Base) OnMove(ev *input.Event, p *pointer.Pointer)  {}
func (b *Base) OnEnd(ev *input.Event, p *pointer.Pointer)   {}

// Context is what factories receive when a registry is built.
type Context struct {
	Emitter *Emitter
	Logger  *log.Logger
	// Options are per-installation overrides keyed by handler name.
	Options map[string]Options
}

// Factory produces a live handler.
type Factory func(ctx *Context) Handler
