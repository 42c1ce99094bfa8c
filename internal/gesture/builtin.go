package gesture

import (
	"math"

	"github.com/bnema/waygesture/internal/input"
	"github.com/bnema/waygesture/internal/pointer"
)

// Names of the built-in handlers.
const (
	NameClick = "click"
	NamePress = "press"
	NameDrag  = "drag"
	NameSwipe = "swipe"
)

// Option names of the built-in handlers.
const (
	OptMaxDistance = "max_distance"
	OptMinDistance = "min_distance"
	OptMinVelocity = "min_velocity"
)

// Click emits a click when an interaction ends close to where it started.
type Click struct {
	Base
	emitter *Emitter
}

// NewClick is the Factory of the click handler.
func NewClick(ctx *Context) Handler {
	return &Click{
		Base:    Base{Opts: Options{OptMaxDistance: 6}},
		emitter: ctx.Emitter,
	}
}

func (c *Click) OnEnd(ev *input.Event, p *pointer.Pointer) {
	if p.Distance < c.Opts.Get(OptMaxDistance) {
		c.emitter.Click(p)
	}
}

// Press emits pressdown on every start and pressup on every end.
type Press struct {
	Base
	emitter *Emitter
}

// NewPress is the Factory of the press handler.
func NewPress(ctx *Context) Handler {
	return &Press{emitter: ctx.Emitter}
}

func (h *Press) OnStart(ev *input.Event, p *pointer.Pointer) {
	h.emitter.Emit(EventPressDown, p)
}

func (h *Press) OnEnd(ev *input.Event, p *pointer.Pointer) {
	h.emitter.Emit(EventPressUp, p)
}

// Drag tracks a horizontal drag with its own pointer, anchored where the
// drag threshold was crossed rather than where the interaction started.
type Drag struct {
	Base
	emitter *Emitter
	drag    *pointer.Pointer
}

// NewDrag is the Factory of the drag handler.
func NewDrag(ctx *Context) Handler {
	return &Drag{
		Base:    Base{Opts: Options{OptMinDistance: 6}},
		emitter: ctx.Emitter,
	}
}

func (d *Drag) Reset() {
	d.drag = nil
}

// Dragging reports whether a drag is in progress.
func (d *Drag) Dragging() bool {
	return d.drag != nil
}

func (d *Drag) OnMove(ev *input.Event, p *pointer.Pointer) {
	// Stop the host from scrolling while dragging.
	ev.PreventDefault()

	at := input.Point{X: p.X, Y: p.Y}
	if d.drag == nil {
		if math.Abs(p.DistanceX) > d.Opts.Get(OptMinDistance) {
			d.drag = pointer.New(p.Kind(), p.Target(), at, p.Now())
			d.drag.Update(at, p.Now())
			d.emitter.Emit(EventDragStart, d.drag)
		}
		return
	}
	d.drag.Update(at, p.Now())
	d.emitter.Emit(EventDrag, d.drag)
}

func (d *Drag) OnEnd(ev *input.Event, p *pointer.Pointer) {
	if d.drag == nil {
		return
	}
	drag := d.drag
	d.drag = nil
	drag.Update(input.Point{X: p.X, Y: p.Y}, p.Now())
	drag.End(p.Now())
	d.emitter.Emit(EventDragEnd, drag)
}

// Swipe emits swipeleft or swiperight when an interaction ends fast and
// far enough along the horizontal axis.
type Swipe struct {
	Base
	emitter *Emitter
}

// NewSwipe is the Factory of the swipe handler.
func NewSwipe(ctx *Context) Handler {
	return &Swipe{
		Base: Base{Opts: Options{
			OptMinVelocity: 0.65,
			OptMinDistance: 10,
		}},
		emitter: ctx.Emitter,
	}
}

func (s *Swipe) OnEnd(ev *input.Event, p *pointer.Pointer) {
	if math.Abs(p.VelocityX) <= s.Opts.Get(OptMinVelocity) ||
		math.Abs(p.DistanceX) <= s.Opts.Get(OptMinDistance) {
		return
	}
	typ := EventSwipeRight
	if p.DirectionX == pointer.DirectionLeft {
		typ = EventSwipeLeft
	}
	s.emitter.Emit(typ, p)
}
