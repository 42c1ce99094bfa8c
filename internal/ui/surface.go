package ui

import (
	"sync"
	"time"

	"github.com/bnema/waygesture/internal/gesture"
)

// Surface is the pad area gestures are dispatched to. It keeps a bounded
// log of what it received.
type Surface struct {
	id      string
	maxLogs int
	now     func() time.Time

	mu         sync.Mutex
	lines      []string
	counts     map[string]int
	clicks     int
	suppressed int
}

// NewSurface creates a surface identified by id.
func NewSurface(id string, maxLogs int) *Surface {
	if maxLogs <= 0 {
		maxLogs = 1000
	}
	return &Surface{
		id:      id,
		maxLogs: maxLogs,
		now:     time.Now,
		counts:  make(map[string]int),
	}
}

func (s *Surface) TargetID() string { return s.id }

// DispatchEvent records a gesture. Clicks pass through the activation
// policy like any other activation.
func (s *Surface) DispatchEvent(ev *gesture.Event) {
	if ev.Type == gesture.EventClick {
		s.Activate(ev)
	}

	x, y := 0.0, 0.0
	if ev.Pointer != nil {
		x, y = ev.Pointer.X, ev.Pointer.Y
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[ev.Type]++
	s.append(FormatGesture(s.now().Format("15:04:05"), ev.Type, x, y))
}

// Activate applies the click policy to an activation aimed at the surface
// and reports whether it was honoured.
func (s *Surface) Activate(a gesture.Activation) bool {
	if gesture.AllowActivation(a) {
		s.mu.Lock()
		s.clicks++
		s.mu.Unlock()
		return true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.suppressed++
	s.append(FormatNotice(s.now().Format("15:04:05"), "platform click suppressed"))
	return false
}

// Note adds a line that is not a gesture.
func (s *Surface) Note(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.append(FormatNotice(s.now().Format("15:04:05"), message))
}

// Lines returns a copy of the log.
func (s *Surface) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := make([]string, len(s.lines))
	copy(lines, s.lines)
	return lines
}

// Count returns how many events of typ were received.
func (s *Surface) Count(typ string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[typ]
}

// Clicks returns honoured and suppressed activation counts.
func (s *Surface) Clicks() (honoured, suppressed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clicks, s.suppressed
}

// Clear empties the log. Counters are kept.
func (s *Surface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
}

func (s *Surface) append(line string) {
	s.lines = append(s.lines, line)

	// Trim old logs if needed
	if len(s.lines) > s.maxLogs {
		s.lines = s.lines[len(s.lines)-s.maxLogs:]
	}
}
