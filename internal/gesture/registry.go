package gesture

import (
	"errors"
	"fmt"

	"github.com/bnema/waygesture/internal/logger"
)

// ErrNilHandler is returned by Build when a factory produces no handler.
var ErrNilHandler = errors.New("factory returned nil handler")

// Registry collects named handler factories. Registration order is kept
// and becomes the dispatch order.
type Registry struct {
	names     []string
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Add registers a factory under name. Adding an existing name replaces its
// factory and keeps its position.
func (r *Registry) Add(name string, f Factory) *Registry {
	if _, exists := r.factories[name]; !exists {
		r.names = append(r.names, name)
	}
	r.factories[name] = f
	return r
}

// Remove drops a registration.
func (r *Registry) Remove(name string) *Registry {
	if _, exists := r.factories[name]; !exists {
		return r
	}
	delete(r.factories, name)
	for i, n := range r.names {
		if n == name {
			r.names = append(r.names[:i], r.names[i+1:]...)
			break
		}
	}
	return r
}

// Names returns the registered names in order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// Build invokes every factory once, in registration order, and returns a
// dispatcher over the resulting handlers. Overrides from ctx.Options are
// merged over each handler's default options.
func (r *Registry) Build(ctx *Context) (*Dispatcher, error) {
	if ctx == nil {
		ctx = &Context{}
	}
	ctx.Logger = logger.Or(ctx.Logger)
	if ctx.Emitter == nil {
		ctx.Emitter = NewEmitter(ctx.Logger)
	}

	d := &Dispatcher{
		emitter: ctx.Emitter,
		logger:  ctx.Logger,
	}
	for _, name := range r.names {
		f := r.factories[name]
		if f == nil {
			return nil, fmt.Errorf("gesture %q: %w", name, ErrNilHandler)
		}
		h := f(ctx)
		if h == nil {
			return nil, fmt.Errorf("gesture %q: %w", name, ErrNilHandler)
		}

		opts := h.Options()
		for key, value := range ctx.Options[name] {
			if _, known := opts[key]; !known {
				ctx.Logger.Warn("Unknown gesture option", "gesture", name, "option", key)
			}
			opts[key] = value
		}

		d.handlers = append(d.handlers, entry{name: name, handler: h})
	}

	ctx.Logger.Debug("Gesture handlers resolved", "handlers", r.names)
	return d, nil
}

// DefaultRegistry registers the built-in click, press, drag and swipe
// handlers, in that order.
func DefaultRegistry() *Registry {
	return NewRegistry().
		Add(NameClick, NewClick).
		Add(NamePress, NewPress).
		Add(NameDrag, NewDrag).
		Add(NameSwipe, NewSwipe)
}
