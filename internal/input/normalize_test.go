package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		event  *Event
		want   Point
		wantOK bool
	}{
		{
			name:   "mouse event carries coordinates",
			event:  NewMouseEvent(TypeMouseDown, nil, 12, 34),
			want:   Point{X: 12, Y: 34},
			wantOK: true,
		},
		{
			name: "active touch wins over changed touches",
			event: NewTouchEvent(TypeTouchMove, nil,
				[]Touch{{PageX: 1, PageY: 2}, {PageX: 9, PageY: 9}},
				[]Touch{{PageX: 5, PageY: 6}}),
			want:   Point{X: 1, Y: 2},
			wantOK: true,
		},
		{
			name:   "released touch falls back to changed touches",
			event:  NewTouchEvent(TypeTouchEnd, nil, nil, []Touch{{PageX: 7, PageY: 8}}),
			want:   Point{X: 7, Y: 8},
			wantOK: true,
		},
		{
			name: "wrapped event is unwrapped",
			event: &Event{
				Type:     TypeTouchStart,
				Original: NewTouchEvent(TypeTouchStart, nil, []Touch{{PageX: 3, PageY: 4}}, nil),
			},
			want:   Point{X: 3, Y: 4},
			wantOK: true,
		},
		{
			name:   "touch event without touch lists",
			event:  &Event{Type: TypeTouchEnd},
			wantOK: false,
		},
		{
			name:   "nil event",
			event:  nil,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.event)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKindAndPhase(t *testing.T) {
	tests := []struct {
		typ   string
		kind  Kind
		phase Phase
	}{
		{TypeMouseDown, KindMouse, PhaseStart},
		{TypeMouseLeave, KindMouse, PhaseEnd},
		{TypeTouchMove, KindTouch, PhaseMove},
		{TypeTouchCancel, KindTouch, PhaseEnd},
		{TypePointerDown, KindPointer, PhaseStart},
		{TypePointerCancel, KindPointer, PhaseEnd},
		{TypeClick, KindUnknown, PhaseNone},
		{"keydown", KindUnknown, PhaseNone},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.typ))
			assert.Equal(t, tt.phase, PhaseOf(tt.typ))
		})
	}
}

func TestPreventDefaultReachesOriginal(t *testing.T) {
	orig := NewMouseEvent(TypeMouseMove, nil, 0, 0)
	wrapped := &Event{Type: TypeMouseMove, Original: orig}

	wrapped.PreventDefault()

	assert.True(t, wrapped.DefaultPrevented())
	assert.True(t, orig.DefaultPrevented())
	assert.False(t, orig.PropagationStopped())
}
