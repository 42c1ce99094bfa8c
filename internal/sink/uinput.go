// Package sink turns recognised gestures into real input on the host.
package sink

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ThomasT75/uinput"
	"github.com/bnema/waygesture/internal/gesture"
	"github.com/bnema/waygesture/internal/input"
	"github.com/bnema/waygesture/internal/logger"
	"github.com/charmbracelet/log"
)

// ErrClosed is returned when operating on a closed sink
var ErrClosed = errors.New("sink is closed")

// Mouse is the part of uinput.Mouse the sink drives.
type Mouse interface {
	Move(x, y int32) error
	LeftPress() error
	LeftRelease() error
	Wheel(horizontal bool, delta int32) error
	Close() error
}

// Uinput replays clicks and swipes through a virtual mouse
type Uinput struct {
	mouse  Mouse
	logger *log.Logger
	mu     sync.Mutex
	closed bool
	// Track current position for relative movements
	currentX float64
	currentY float64
}

// NewUinput creates a virtual mouse device
func NewUinput(name string, l *log.Logger) (*Uinput, error) {
	mouse, err := uinput.CreateMouse("/dev/uinput", []byte(name))
	if err != nil {
		return nil, fmt.Errorf("failed to create virtual mouse: %w", err)
	}
	return NewWithMouse(mouse, l), nil
}

// NewWithMouse wraps an existing mouse.
func NewWithMouse(m Mouse, l *log.Logger) *Uinput {
	return &Uinput{mouse: m, logger: logger.Or(l)}
}

// Listener adapts the sink to gesture.Emitter.Listen. Injection errors
// are logged.
func (u *Uinput) Listener() gesture.Listener {
	return func(_ input.Tag, ev *gesture.Event) {
		if err := u.Handle(ev); err != nil && !errors.Is(err, ErrClosed) {
			u.logger.Warn("Failed to inject gesture", "event", ev.Type, "error", err)
		}
	}
}

// Handle injects ev. Events other than click and swipes are ignored.
func (u *Uinput) Handle(ev *gesture.Event) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.closed {
		return ErrClosed
	}
	if ev == nil || ev.Pointer == nil {
		return nil
	}

	switch ev.Type {
	case gesture.EventClick:
		if err := u.moveTo(ev.ClientX, ev.ClientY); err != nil {
			return err
		}
		if err := u.mouse.LeftPress(); err != nil {
			return err
		}
		return u.mouse.LeftRelease()
	case gesture.EventSwipeLeft:
		return u.mouse.Wheel(true, -1)
	case gesture.EventSwipeRight:
		return u.mouse.Wheel(true, 1)
	default:
		return nil
	}
}

// Position returns the tracked cursor position.
func (u *Uinput) Position() (x, y float64) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.currentX, u.currentY
}

// Close closes the virtual device
func (u *Uinput) Close() error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.closed {
		return nil
	}
	u.closed = true
	if u.mouse != nil {
		return u.mouse.Close()
	}
	return nil
}

func (u *Uinput) moveTo(x, y float64) error {
	// Calculate relative movement
	deltaX := int32(x - u.currentX)
	deltaY := int32(y - u.currentY)

	u.currentX = x
	u.currentY = y

	if deltaX != 0 || deltaY != 0 {
		return u.mouse.Move(deltaX, deltaY)
	}
	return nil
}
