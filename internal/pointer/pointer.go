// Package pointer models one continuous input interaction, from press to
// release, and the motion metrics derived from it.
package pointer

import (
	"math"
	"time"

	"github.com/bnema/waygesture/internal/input"
)

// Direction is the sign of a displacement along one axis.
type Direction string

const (
	DirectionNone  Direction = ""
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
)

// Pointer is one active or completed interaction. The start snapshot is
// fixed at creation; the exported fields are recomputed by Update.
//
// Velocities are in pixels per millisecond. A zero (or negative) duration
// yields zero velocities so thresholds never see non-finite values.
type Pointer struct {
	kind      input.Kind
	target    input.Tag
	startX    float64
	startY    float64
	startTime time.Time
	endTime   time.Time

	X, Y float64

	DistanceX float64
	DistanceY float64
	Distance  float64

	DirectionX Direction
	// DirectionY is up for a positive vertical displacement.
	DirectionY Direction

	Duration time.Duration

	VelocityX float64
	VelocityY float64
}

// New starts a pointer at pt.
func New(kind input.Kind, target input.Tag, pt input.Point, now time.Time) *Pointer {
	return &Pointer{
		kind:      kind,
		target:    target,
		startX:    pt.X,
		startY:    pt.Y,
		startTime: now,
		X:         pt.X,
		Y:         pt.Y,
	}
}

func (p *Pointer) Kind() input.Kind     { return p.kind }
func (p *Pointer) Target() input.Tag    { return p.target }
func (p *Pointer) StartX() float64      { return p.startX }
func (p *Pointer) StartY() float64      { return p.startY }
func (p *Pointer) StartTime() time.Time { return p.startTime }

// EndTime is the zero time while the interaction is active.
func (p *Pointer) EndTime() time.Time { return p.endTime }

// Ended reports whether End was called.
func (p *Pointer) Ended() bool { return !p.endTime.IsZero() }

// Now is the time of the last update.
func (p *Pointer) Now() time.Time { return p.startTime.Add(p.Duration) }

// Matches reports whether ev belongs to the same device family.
func (p *Pointer) Matches(ev *input.Event) bool {
	return p != nil && ev != nil && ev.Kind() == p.kind
}

// Update moves the pointer to pt and recomputes every derived metric.
func (p *Pointer) Update(pt input.Point, now time.Time) {
	p.X, p.Y = pt.X, pt.Y

	p.DistanceX = p.X - p.startX
	p.DistanceY = p.Y - p.startY
	p.Distance = math.Hypot(p.DistanceX, p.DistanceY)

	p.DirectionX = direction(p.DistanceX, DirectionRight, DirectionLeft)
	p.DirectionY = direction(p.DistanceY, DirectionUp, DirectionDown)

	p.Duration = now.Sub(p.startTime)
	p.VelocityX = velocity(p.DistanceX, p.Duration)
	p.VelocityY = velocity(p.DistanceY, p.Duration)
}

// End stamps the end time. Later calls are ignored.
func (p *Pointer) End(now time.Time) {
	if p.endTime.IsZero() {
		p.endTime = now
	}
}

// Clone returns an independent copy.
func (p *Pointer) Clone() *Pointer {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func direction(d float64, pos, neg Direction) Direction {
	switch {
	case d > 0:
		return pos
	case d < 0:
		return neg
	default:
		return DirectionNone
	}
}

func velocity(d float64, dur time.Duration) float64 {
	if dur <= 0 {
		return 0
	}
	return d / (float64(dur) / float64(time.Millisecond))
}
