package replay

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/bnema/waygesture/internal/gesture"
	"github.com/bnema/waygesture/internal/input"
	"github.com/bnema/waygesture/internal/logger"
	"github.com/bnema/waygesture/internal/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.UnixMilli(1700000000000)

type recording struct {
	t   *testing.T
	buf bytes.Buffer
	w   *record.Writer
}

func newRecording(t *testing.T) *recording {
	r := &recording{t: t}
	r.w = record.NewWriter(&r.buf)
	return r
}

func (r *recording) mouse(ms int, typ string, x, y float64) *recording {
	r.t.Helper()
	require.NoError(r.t, r.w.WriteFrame(&record.Frame{
		Type:     typ,
		PageX:    x,
		PageY:    y,
		HasPoint: true,
		Target:   "pad",
		Time:     epoch.Add(time.Duration(ms) * time.Millisecond),
	}))
	return r
}

func (r *recording) touch(ms int, typ string, x, y float64) *recording {
	r.t.Helper()
	touches := []input.Touch{{Identifier: 1, PageX: x, PageY: y}}
	f := &record.Frame{
		Type:           typ,
		ChangedTouches: touches,
		Target:         "list",
		Time:           epoch.Add(time.Duration(ms) * time.Millisecond),
	}
	if typ != input.TypeTouchEnd {
		f.Touches = touches
	}
	require.NoError(r.t, r.w.WriteFrame(f))
	return r
}

func (r *recording) reader() *record.Reader {
	return record.NewReader(bytes.NewReader(r.buf.Bytes()))
}

func types(report *Report) []string {
	out := make([]string, 0, len(report.Emitted))
	for _, e := range report.Emitted {
		out = append(out, e.Type)
	}
	return out
}

func newTestPlayer() *Player {
	p := NewPlayer()
	p.Logger = logger.Discard()
	return p
}

func TestPlayer_Click(t *testing.T) {
	rec := newRecording(t).
		mouse(0, input.TypeMouseDown, 100, 100).
		mouse(50, input.TypeMouseUp, 102, 101)

	report, err := newTestPlayer().Run(context.Background(), rec.reader())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Frames)
	assert.Equal(t, 2, report.Transitions)
	assert.Equal(t, []string{gesture.EventPressDown, gesture.EventClick, gesture.EventPressUp}, types(report))
	assert.Equal(t, 50*time.Millisecond, report.Emitted[1].At)
	assert.Equal(t, "pad", report.Emitted[1].Target)

	require.Contains(t, report.Targets, "pad")
	assert.Len(t, report.Targets["pad"].Events, 3)
}

func TestPlayer_SwipeUsesRecordedTimestamps(t *testing.T) {
	rec := newRecording(t).
		mouse(0, input.TypeMouseDown, 0, 0).
		mouse(10, input.TypeMouseMove, -10, 0).
		mouse(25, input.TypeMouseUp, -20, 0)

	report, err := newTestPlayer().Run(context.Background(), rec.reader())
	require.NoError(t, err)

	assert.Equal(t, []string{
		gesture.EventPressDown,
		gesture.EventDragStart,
		gesture.EventPressUp,
		gesture.EventDragEnd,
		gesture.EventSwipeLeft,
	}, types(report))
	assert.Equal(t, 1, report.Counts()[gesture.EventSwipeLeft])
}

func TestPlayer_SuppressesEmulatedMouse(t *testing.T) {
	rec := newRecording(t).
		touch(0, input.TypeTouchStart, 10, 10).
		touch(40, input.TypeTouchEnd, 10, 10).
		mouse(340, input.TypeMouseDown, 10, 10).
		mouse(345, input.TypeMouseUp, 10, 10)

	report, err := newTestPlayer().Run(context.Background(), rec.reader())
	require.NoError(t, err)

	assert.Equal(t, 4, report.Frames)
	assert.Equal(t, 2, report.Transitions)
	assert.Equal(t, 1, report.Counts()[gesture.EventClick])
	assert.Equal(t, "list", report.Emitted[1].Target)
	require.Contains(t, report.Targets, "pad")
	assert.Empty(t, report.Targets["pad"].Events)
}

func TestPlayer_HonoursOptions(t *testing.T) {
	rec := newRecording(t).
		mouse(0, input.TypeMouseDown, 0, 0).
		mouse(30, input.TypeMouseUp, 9, 0)

	p := newTestPlayer()
	p.Registry = gesture.NewRegistry().Add(gesture.NameClick, gesture.NewClick)
	report, err := p.Run(context.Background(), rec.reader())
	require.NoError(t, err)
	assert.Empty(t, report.Emitted)

	p.Options = map[string]gesture.Options{gesture.NameClick: {gesture.OptMaxDistance: 12}}
	report, err = p.Run(context.Background(), rec.reader())
	require.NoError(t, err)
	assert.Equal(t, []string{gesture.EventClick}, types(report))
}

func TestPlayer_StopsOnCancel(t *testing.T) {
	rec := newRecording(t).mouse(0, input.TypeMouseDown, 0, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := newTestPlayer().Run(ctx, rec.reader())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, report.Frames)
}

func TestPlayer_ReportsTruncatedStream(t *testing.T) {
	rec := newRecording(t).
		mouse(0, input.TypeMouseDown, 0, 0).
		mouse(10, input.TypeMouseUp, 0, 0)
	data := rec.buf.Bytes()[:rec.buf.Len()-3]

	report, err := newTestPlayer().Run(context.Background(), record.NewReader(bytes.NewReader(data)))
	require.Error(t, err)
	assert.Equal(t, 1, report.Frames)
}
