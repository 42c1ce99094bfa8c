package ui

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/bnema/waygesture/internal/gesture"
	"github.com/bnema/waygesture/internal/input"
	"github.com/bnema/waygesture/internal/logger"
	"github.com/bnema/waygesture/internal/record"
	"github.com/bnema/waygesture/internal/tracker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type padRig struct {
	pad    *PadModel
	now    time.Time
	events []*gesture.Event
}

func newPadRig(t *testing.T, opts PadOptions) *padRig {
	t.Helper()
	r := &padRig{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	opts.Logger = logger.Discard()
	opts.Clock = func() time.Time { return r.now }
	opts.Listeners = append(opts.Listeners, func(_ input.Tag, ev *gesture.Event) {
		r.events = append(r.events, ev)
	})
	pad, err := NewPad(opts)
	require.NoError(t, err)
	r.pad = pad
	r.pad.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return r
}

func (r *padRig) at(ms int) *padRig {
	r.now = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(ms) * time.Millisecond)
	return r
}

func (r *padRig) mouse(action tea.MouseAction, button tea.MouseButton, x, y int) {
	r.pad.Update(tea.MouseMsg{X: x, Y: y, Action: action, Button: button})
}

func (r *padRig) key(k string) tea.Cmd {
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+c":
		msg = tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	_, cmd := r.pad.Update(msg)
	return cmd
}

func (r *padRig) types() []string {
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}

func TestPad_ClickFromLeftButton(t *testing.T) {
	r := newPadRig(t, PadOptions{})

	r.at(0).mouse(tea.MouseActionPress, tea.MouseButtonLeft, 10, 5)
	r.at(40).mouse(tea.MouseActionRelease, tea.MouseButtonNone, 10, 5)

	assert.Equal(t, []string{gesture.EventPressDown, gesture.EventClick, gesture.EventPressUp}, r.types())

	click := r.events[1]
	assert.Same(t, r.pad.Surface(), click.Target())
	assert.Equal(t, 80.0, click.ClientX)
	assert.Equal(t, 80.0, click.Pointer.X)
	assert.Equal(t, 80.0, click.Pointer.Y)

	honoured, suppressed := r.pad.Surface().Clicks()
	assert.Equal(t, 1, honoured)
	assert.Equal(t, 0, suppressed)
	assert.Equal(t, tracker.StateIdle, r.pad.Tracker().State())
}

func TestPad_CellSizeScalesCoordinates(t *testing.T) {
	r := newPadRig(t, PadOptions{CellWidth: 10, CellHeight: 20})

	r.at(0).mouse(tea.MouseActionPress, tea.MouseButtonLeft, 3, 2)
	p := r.pad.Tracker().Current()
	require.NotNil(t, p)
	assert.Equal(t, 30.0, p.StartX())
	assert.Equal(t, 40.0, p.StartY())
}

func TestPad_SwipeAcrossCells(t *testing.T) {
	r := newPadRig(t, PadOptions{})

	// 8px cells: 5 cells is 40px in 30ms
	r.at(0).mouse(tea.MouseActionPress, tea.MouseButtonLeft, 20, 5)
	r.at(10).mouse(tea.MouseActionMotion, tea.MouseButtonLeft, 18, 5)
	r.at(30).mouse(tea.MouseActionRelease, tea.MouseButtonLeft, 15, 5)

	assert.Equal(t, []string{
		gesture.EventPressDown,
		gesture.EventDragStart,
		gesture.EventPressUp,
		gesture.EventDragEnd,
		gesture.EventSwipeLeft,
	}, r.types())
	assert.Equal(t, 1, r.pad.Surface().Count(gesture.EventSwipeLeft))
}

func TestPad_IgnoresOtherButtons(t *testing.T) {
	r := newPadRig(t, PadOptions{})

	r.at(0).mouse(tea.MouseActionPress, tea.MouseButtonRight, 1, 1)
	r.at(5).mouse(tea.MouseActionPress, tea.MouseButtonWheelUp, 1, 1)
	r.at(10).mouse(tea.MouseActionRelease, tea.MouseButtonRight, 1, 1)
	r.at(15).mouse(tea.MouseActionMotion, tea.MouseButtonNone, 2, 2)

	assert.Empty(t, r.events)
	assert.Equal(t, tracker.StateIdle, r.pad.Tracker().State())
}

func TestPad_PlatformActivationIsSuppressed(t *testing.T) {
	r := newPadRig(t, PadOptions{})

	assert.Nil(t, r.key("enter"))

	honoured, suppressed := r.pad.Surface().Clicks()
	assert.Equal(t, 0, honoured)
	assert.Equal(t, 1, suppressed)
	assert.Len(t, r.pad.Surface().Lines(), 1)
}

func TestPad_Keys(t *testing.T) {
	t.Run("reset drops the active pointer", func(t *testing.T) {
		r := newPadRig(t, PadOptions{})
		r.at(0).mouse(tea.MouseActionPress, tea.MouseButtonLeft, 1, 1)
		require.Equal(t, tracker.StateActive, r.pad.Tracker().State())

		r.key("r")
		assert.Equal(t, tracker.StateIdle, r.pad.Tracker().State())

		r.at(10).mouse(tea.MouseActionRelease, tea.MouseButtonLeft, 1, 1)
		assert.Equal(t, []string{gesture.EventPressDown}, r.types())
	})

	t.Run("clear empties the log", func(t *testing.T) {
		r := newPadRig(t, PadOptions{})
		r.at(0).mouse(tea.MouseActionPress, tea.MouseButtonLeft, 1, 1)
		r.at(10).mouse(tea.MouseActionRelease, tea.MouseButtonLeft, 1, 1)
		require.NotEmpty(t, r.pad.Surface().Lines())

		r.key("c")
		assert.Empty(t, r.pad.Surface().Lines())
		assert.Equal(t, 1, r.pad.Surface().Count(gesture.EventClick))
	})

	t.Run("q quits", func(t *testing.T) {
		r := newPadRig(t, PadOptions{})
		cmd := r.key("q")
		require.NotNil(t, cmd)
		assert.Equal(t, tea.QuitMsg{}, cmd())
	})

	t.Run("ctrl+c quits", func(t *testing.T) {
		r := newPadRig(t, PadOptions{})
		cmd := r.key("ctrl+c")
		require.NotNil(t, cmd)
		assert.Equal(t, tea.QuitMsg{}, cmd())
	})
}

func TestPad_RecordsRawEvents(t *testing.T) {
	var buf bytes.Buffer
	r := newPadRig(t, PadOptions{Recorder: record.NewWriter(&buf)})

	r.at(0).mouse(tea.MouseActionPress, tea.MouseButtonLeft, 2, 3)
	r.at(20).mouse(tea.MouseActionMotion, tea.MouseButtonLeft, 3, 3)
	r.at(40).mouse(tea.MouseActionRelease, tea.MouseButtonLeft, 3, 3)

	frames, err := record.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, frames, 3)
	assert.Equal(t, input.TypeMouseDown, frames[0].Type)
	assert.Equal(t, "pad", frames[0].Target)
	assert.Equal(t, 16.0, frames[0].PageX)
	assert.Equal(t, 48.0, frames[0].PageY)
	assert.Equal(t, int64(40), frames[2].Time.Sub(frames[0].Time).Milliseconds())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestPad_RecorderFailureKeepsTracking(t *testing.T) {
	r := newPadRig(t, PadOptions{Recorder: record.NewWriter(failingWriter{})})

	r.at(0).mouse(tea.MouseActionPress, tea.MouseButtonLeft, 2, 3)
	r.at(40).mouse(tea.MouseActionRelease, tea.MouseButtonLeft, 2, 3)

	assert.Contains(t, r.types(), gesture.EventClick)
}

func TestPad_HonoursRegistryAndOptions(t *testing.T) {
	reg := gesture.NewRegistry().Add(gesture.NameClick, gesture.NewClick)
	r := newPadRig(t, PadOptions{
		Registry:       reg,
		GestureOptions: map[string]gesture.Options{gesture.NameClick: {gesture.OptMaxDistance: 20}},
	})

	// 2 cells is 16px, inside the raised max distance
	r.at(0).mouse(tea.MouseActionPress, tea.MouseButtonLeft, 0, 0)
	r.at(10).mouse(tea.MouseActionMotion, tea.MouseButtonLeft, 2, 0)
	r.at(20).mouse(tea.MouseActionRelease, tea.MouseButtonLeft, 2, 0)

	assert.Equal(t, []string{gesture.EventClick}, r.types())
	assert.Equal(t, []string{gesture.NameClick}, r.pad.Dispatcher().Names())
}

func TestPad_View(t *testing.T) {
	pad, err := NewPad(PadOptions{Logger: logger.Discard(), Title: "TEST PAD"})
	require.NoError(t, err)
	assert.Contains(t, pad.View(), "Initializing")

	pad.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	view := pad.View()
	assert.Contains(t, view, "TEST PAD")
	assert.Contains(t, view, "tracker idle")
	assert.Contains(t, view, "quit")
}
