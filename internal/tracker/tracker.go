// Package tracker follows raw input events and maintains the single active
// pointer: it decides whether an event starts, continues or ends an
// interaction and forwards each transition to a Dispatcher.
package tracker

import (
	"sync"
	"time"

	"github.com/bnema/waygesture/internal/input"
	"github.com/bnema/waygesture/internal/logger"
	"github.com/bnema/waygesture/internal/pointer"
	"github.com/charmbracelet/log"
)

// DefaultDedupWindow absorbs the synthetic mouse sequence some platforms
// send roughly 300-350ms after a touch interaction.
const DefaultDedupWindow = 400 * time.Millisecond

// State of a tracker.
type State uint8

const (
	StateIdle State = iota
	StateActive
)

func (s State) String() string {
	if s == StateActive {
		return "active"
	}
	return "idle"
}

// Dispatcher receives the pointer transitions. Calls are synchronous and
// must not re-enter the tracker.
type Dispatcher interface {
	Start(ev *input.Event, p *pointer.Pointer)
	Move(ev *input.Event, p *pointer.Pointer)
	End(ev *input.Event, p *pointer.Pointer)
}

// Tracker is the pointer state machine. The zero value is not usable; use
// New.
type Tracker struct {
	mu         sync.Mutex
	dispatcher Dispatcher
	now        func() time.Time
	window     time.Duration
	logger     *log.Logger

	current  *pointer.Pointer
	previous *pointer.Pointer
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// WithDedupWindow sets how long after an interaction ends a start of a
// different kind is ignored. Zero disables the window.
func WithDedupWindow(d time.Duration) Option {
	return func(t *Tracker) {
		if d >= 0 {
			t.window = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l
		}
	}
}

// New creates an idle tracker.
func New(d Dispatcher, opts ...Option) *Tracker {
	t := &Tracker{
		dispatcher: d,
		now:        time.Now,
		window:     DefaultDedupWindow,
		logger:     logger.Logger,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Handle routes ev by its type and reports whether it caused a transition.
func (t *Tracker) Handle(ev *input.Event) bool {
	switch ev.Phase() {
	case input.PhaseStart:
		return t.Start(ev)
	case input.PhaseMove:
		return t.Move(ev)
	case input.PhaseEnd:
		return t.End(ev)
	default:
		return false
	}
}

// Start begins an interaction. It is ignored while another is active, for
// events without coordinates or of unknown kind, and inside the de-dup
// window following an interaction of a different kind.
func (t *Tracker) Start(ev *input.Event) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current != nil {
		return false
	}
	kind := ev.Kind()
	if kind == input.KindUnknown {
		t.logger.Debug("Ignoring start of unknown kind", "type", typeOf(ev))
		return false
	}

	now := t.now()
	if t.suppressed(kind, now) {
		t.logger.Debug("Suppressing start inside de-dup window",
			"type", ev.Type, "previous", t.previous.Kind())
		return false
	}

	pt, ok := input.Normalize(ev)
	if !ok {
		t.logger.Debug("Ignoring start without coordinates", "type", ev.Type)
		return false
	}

	t.current = pointer.New(kind, ev.Target, pt, now)
	t.dispatch("start", func() { t.dispatcher.Start(ev, t.current) })
	return true
}

// Move updates the active pointer.
func (t *Tracker) Move(ev *input.Event) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.current.Matches(ev) {
		return false
	}
	pt, ok := input.Normalize(ev)
	if !ok {
		t.logger.Debug("Ignoring move without coordinates", "type", ev.Type)
		return false
	}

	p := t.current
	p.Update(pt, t.now())
	t.dispatch("move", func() { t.dispatcher.Move(ev, p) })
	return true
}

// End finishes the active interaction and keeps it as the previous one.
func (t *Tracker) End(ev *input.Event) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.current.Matches(ev) {
		return false
	}
	pt, ok := input.Normalize(ev)
	if !ok {
		t.logger.Debug("Ignoring end without coordinates", "type", ev.Type)
		return false
	}

	p := t.current
	now := t.now()
	p.Update(pt, now)
	p.End(now)
	t.dispatch("end", func() { t.dispatcher.End(ev, p) })

	t.previous = p
	t.current = nil
	return true
}

// Reset forgets the active and previous pointers without any callback.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = nil
	t.previous = nil
}

// State reports whether an interaction is active.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current != nil {
		return StateActive
	}
	return StateIdle
}

// Current returns a copy of the active pointer, or nil.
func (t *Tracker) Current() *pointer.Pointer {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current.Clone()
}

// Previous returns a copy of the last completed pointer, or nil.
func (t *Tracker) Previous() *pointer.Pointer {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.previous.Clone()
}

func (t *Tracker) suppressed(kind input.Kind, now time.Time) bool {
	prev := t.previous
	if prev == nil || prev.Kind() == kind {
		return false
	}
	return now.Sub(prev.EndTime()) < t.window
}

func (t *Tracker) dispatch(transition string, fn func()) {
	if t.dispatcher == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("Dispatch failed", "transition", transition, "err", r)
		}
	}()
	fn()
}

func typeOf(ev *input.Event) string {
	if ev == nil {
		return ""
	}
	return ev.Type
}
