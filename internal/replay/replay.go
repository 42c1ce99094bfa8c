// Package replay feeds recorded input streams through a fresh tracker and
// collects the gestures they produce.
package replay

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/bnema/waygesture/internal/gesture"
	"github.com/bnema/waygesture/internal/input"
	"github.com/bnema/waygesture/internal/logger"
	"github.com/bnema/waygesture/internal/record"
	"github.com/bnema/waygesture/internal/tracker"
	"github.com/charmbracelet/log"
)

// Target stands in for a recorded target and keeps what it receives.
type Target struct {
	Name   string
	Events []*gesture.Event
}

func (t *Target) TargetID() string { return t.Name }

func (t *Target) DispatchEvent(ev *gesture.Event) {
	t.Events = append(t.Events, ev)
}

// Emitted is one gesture event seen during a replay.
type Emitted struct {
	Target string
	Type   string
	X, Y   float64
	// Offset from the first recorded frame.
	At time.Duration
}

// Report summarises a replay.
type Report struct {
	Frames      int
	Transitions int
	Emitted     []Emitted
	Targets     map[string]*Target
}

// Counts returns how many events of each type were emitted.
func (r *Report) Counts() map[string]int {
	counts := make(map[string]int)
	for _, e := range r.Emitted {
		counts[e.Type]++
	}
	return counts
}

// Player replays recordings.
type Player struct {
	Registry    *gesture.Registry
	Options     map[string]gesture.Options
	DedupWindow time.Duration
	Logger      *log.Logger
}

// NewPlayer creates a player using the default gesture registry.
func NewPlayer() *Player {
	return &Player{
		Registry:    gesture.DefaultRegistry(),
		DedupWindow: tracker.DefaultDedupWindow,
	}
}

// Run replays every frame of r. The tracker clock follows the recorded
// timestamps, so thresholds behave as they did live.
func (p *Player) Run(ctx context.Context, r *record.Reader) (*Report, error) {
	l := logger.Or(p.Logger)
	report := &Report{Targets: make(map[string]*Target)}

	var now, first time.Time
	emitter := gesture.NewEmitter(l)
	emitter.Listen(func(_ input.Tag, ev *gesture.Event) {
		name := ""
		if t, ok := ev.Target().(*Target); ok {
			name = t.Name
		}
		x, y := 0.0, 0.0
		if ev.Pointer != nil {
			x, y = ev.Pointer.X, ev.Pointer.Y
		}
		report.Emitted = append(report.Emitted, Emitted{
			Target: name,
			Type:   ev.Type,
			X:      x,
			Y:      y,
			At:     now.Sub(first),
		})
	})

	dispatcher, err := p.Registry.Build(&gesture.Context{
		Emitter: emitter,
		Logger:  l,
		Options: p.Options,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build gesture handlers: %w", err)
	}
	tr := tracker.New(dispatcher,
		tracker.WithClock(func() time.Time { return now }),
		tracker.WithDedupWindow(p.DedupWindow),
		tracker.WithLogger(l))

	for {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		frame, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return report, fmt.Errorf("frame %d: %w", report.Frames+1, err)
		}
		report.Frames++

		if first.IsZero() {
			first = frame.Time
		}
		if !frame.Time.IsZero() {
			now = frame.Time
		}

		if tr.Handle(frame.Event(report.target(frame.Target))) {
			report.Transitions++
		}
	}

	l.Debug("Replay finished", "frames", report.Frames, "gestures", len(report.Emitted))
	return report, nil
}

func (r *Report) target(name string) *Target {
	t, ok := r.Targets[name]
	if !ok {
		t = &Target{Name: name}
		r.Targets[name] = t
	}
	return t
}
