package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/bnema/waygesture/internal/config"
	"github.com/bnema/waygesture/internal/gesture"
	"github.com/bnema/waygesture/internal/input"
	"github.com/bnema/waygesture/internal/logger"
	"github.com/bnema/waygesture/internal/record"
	"github.com/bnema/waygesture/internal/tracker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

// PadOptions configures a gesture pad
type PadOptions struct {
	Name           string
	Title          string
	Registry       *gesture.Registry
	GestureOptions map[string]gesture.Options
	DedupWindow    time.Duration
	// Pixels per terminal cell
	CellWidth  float64
	CellHeight float64
	// Every raw event fed to the tracker is written here when set
	Recorder  *record.Writer
	Listeners []gesture.Listener
	Logger    *log.Logger
	Clock     func() time.Time
}

// PadOptionsFromConfig fills pad options from the loaded configuration.
func PadOptionsFromConfig(c *config.Config) PadOptions {
	return PadOptions{
		Name:           "pad",
		Title:          "WAYGESTURE PAD",
		Registry:       c.Registry(),
		GestureOptions: c.GestureOptions(),
		DedupWindow:    c.DedupWindow(),
		CellWidth:      c.Pad.CellWidth,
		CellHeight:     c.Pad.CellHeight,
	}
}

// PadModel is a full-screen bubbletea model turning terminal mouse input
// into raw pointer events for its own tracker
type PadModel struct {
	title      string
	cellWidth  float64
	cellHeight float64
	now        func() time.Time
	logger     *log.Logger

	tracker    *tracker.Tracker
	dispatcher *gesture.Dispatcher
	surface    *Surface
	recorder   *record.Writer

	// UI components
	viewport viewport.Model
	help     help.Model
	keys     keyMap
	ready    bool

	// Window dimensions
	windowWidth  int
	windowHeight int
}

// NewPad builds a pad with a fresh dispatcher and tracker.
func NewPad(opts PadOptions) (*PadModel, error) {
	l := logger.Or(opts.Logger)
	if opts.Name == "" {
		opts.Name = "pad"
	}
	if opts.Title == "" {
		opts.Title = "WAYGESTURE PAD"
	}
	if opts.Registry == nil {
		opts.Registry = gesture.DefaultRegistry()
	}
	if opts.CellWidth <= 0 {
		opts.CellWidth = config.DefaultConfig.Pad.CellWidth
	}
	if opts.CellHeight <= 0 {
		opts.CellHeight = config.DefaultConfig.Pad.CellHeight
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	emitter := gesture.NewEmitter(l)
	for _, listener := range opts.Listeners {
		emitter.Listen(listener)
	}
	dispatcher, err := opts.Registry.Build(&gesture.Context{
		Emitter: emitter,
		Logger:  l,
		Options: opts.GestureOptions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build gesture handlers: %w", err)
	}

	surface := NewSurface(opts.Name, 1000)
	surface.now = opts.Clock

	return &PadModel{
		title:      opts.Title,
		cellWidth:  opts.CellWidth,
		cellHeight: opts.CellHeight,
		now:        opts.Clock,
		logger:     l,
		tracker: tracker.New(dispatcher,
			tracker.WithClock(opts.Clock),
			tracker.WithDedupWindow(opts.DedupWindow),
			tracker.WithLogger(l)),
		dispatcher: dispatcher,
		surface:    surface,
		recorder:   opts.Recorder,
		help:       help.New(),
		keys:       defaultKeyMap(),
	}, nil
}

// Surface returns the pad's gesture target.
func (m *PadModel) Surface() *Surface { return m.surface }

// Tracker returns the pad's tracker.
func (m *PadModel) Tracker() *tracker.Tracker { return m.tracker }

// Dispatcher returns the handlers the pad's tracker feeds.
func (m *PadModel) Dispatcher() *gesture.Dispatcher { return m.dispatcher }

// Init initializes the model
func (m *PadModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *PadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height

		// Reserve space for header (2 lines) and status bar (1 line)
		headerHeight := 2
		footerHeight := 1
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reset):
			m.tracker.Reset()
			m.surface.Note("tracker reset")
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.Clear):
			m.surface.Clear()
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.Activate):
			// A keyboard activation reaches the pad as a platform click.
			m.surface.Activate(&input.Event{Type: input.TypeClick, Target: m.surface, Time: m.now()})
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.Top):
			m.viewport.GotoTop()
			return m, nil
		case key.Matches(msg, m.keys.Bottom):
			m.viewport.GotoBottom()
			return m, nil
		}

	case tea.MouseMsg:
		if ev := m.toEvent(msg); ev != nil {
			m.feed(ev)
			return m, nil
		}
	}

	// Update viewport
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// toEvent maps left-button terminal mouse input to raw mouse events in
// page coordinates. Anything else yields nil.
func (m *PadModel) toEvent(msg tea.MouseMsg) *input.Event {
	var typ string
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		typ = input.TypeMouseDown
	case tea.MouseActionMotion:
		if m.tracker.State() != tracker.StateActive {
			return nil
		}
		typ = input.TypeMouseMove
	case tea.MouseActionRelease:
		// Some terminals do not report which button was released
		if msg.Button != tea.MouseButtonLeft && msg.Button != tea.MouseButtonNone {
			return nil
		}
		typ = input.TypeMouseUp
	default:
		return nil
	}

	ev := input.NewMouseEvent(typ, m.surface,
		float64(msg.X)*m.cellWidth,
		float64(msg.Y)*m.cellHeight)
	ev.Time = m.now()
	return ev
}

func (m *PadModel) feed(ev *input.Event) {
	if m.recorder != nil {
		if err := m.recorder.WriteEvent(ev); err != nil {
			m.logger.Warn("Recording stopped", "error", err)
			m.surface.Note("recording stopped: " + err.Error())
			m.recorder = nil
		}
	}
	if m.tracker.Handle(ev) {
		m.refresh()
	}
}

func (m *PadModel) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderLogs())
	m.viewport.GotoBottom()
}

// View renders the UI
func (m *PadModel) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(StatusBarStyle.Width(m.windowWidth).Render(m.help.View(m.keys)))
	return b.String()
}

func (m *PadModel) renderHeader() string {
	title := HeaderStyle.Width(m.windowWidth).Render(m.title)

	honoured, suppressed := m.surface.Clicks()
	swipes := m.surface.Count(gesture.EventSwipeLeft) + m.surface.Count(gesture.EventSwipeRight)
	drags := m.surface.Count(gesture.EventDragEnd)
	parts := []string{
		"tracker " + m.tracker.State().String(),
		fmt.Sprintf("%d click%s", honoured, pluralize(honoured)),
		fmt.Sprintf("%d suppressed", suppressed),
		fmt.Sprintf("%d swipe%s", swipes, pluralize(swipes)),
		fmt.Sprintf("%d drag%s", drags, pluralize(drags)),
	}
	status := SubtleStyle.Render("  " + strings.Join(parts, " │ "))
	return title + "\n" + status
}

func (m *PadModel) renderLogs() string {
	lines := m.surface.Lines()
	if len(lines) == 0 {
		return SubtleStyle.Italic(true).Render("  Click, drag or swipe with the left mouse button...")
	}
	return strings.Join(lines, "\n")
}
