package web

import (
	"time"

	"github.com/bnema/waygesture/internal/gesture"
	"github.com/bnema/waygesture/internal/input"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// rawMessage is a browser pointer event as sent by the page script.
type rawMessage struct {
	Type           string         `json:"type"`
	PageX          *float64       `json:"pageX,omitempty"`
	PageY          *float64       `json:"pageY,omitempty"`
	Touches        []touchMessage `json:"touches,omitempty"`
	ChangedTouches []touchMessage `json:"changedTouches,omitempty"`
	Target         string         `json:"target"`
	// Milliseconds since the page loaded, as in Event.timeStamp
	TimeStamp float64 `json:"timeStamp,omitempty"`
}

type touchMessage struct {
	Identifier int64   `json:"identifier"`
	PageX      float64 `json:"pageX"`
	PageY      float64 `json:"pageY"`
}

func (m *rawMessage) event(target input.Tag, at time.Time) *input.Event {
	ev := &input.Event{
		Type:           m.Type,
		Target:         target,
		Time:           at,
		Touches:        touches(m.Touches),
		ChangedTouches: touches(m.ChangedTouches),
	}
	if m.PageX != nil && m.PageY != nil {
		ev.PageX, ev.PageY = *m.PageX, *m.PageY
		ev.HasPoint = true
	}
	return ev
}

func touches(in []touchMessage) []input.Touch {
	if len(in) == 0 {
		return nil
	}
	out := make([]input.Touch, len(in))
	for i, t := range in {
		out[i] = input.Touch{Identifier: t.Identifier, PageX: t.PageX, PageY: t.PageY}
	}
	return out
}

// gestureMessage is sent back for every gesture and for suppressed
// platform clicks.
type gestureMessage struct {
	Type       string          `json:"type"`
	Target     string          `json:"target"`
	Detail     map[string]any  `json:"detail,omitempty"`
	Pointer    *pointerMessage `json:"pointer,omitempty"`
	ClientX    float64         `json:"clientX"`
	ClientY    float64         `json:"clientY"`
	Synthetic  bool            `json:"synthetic"`
	Suppressed bool            `json:"suppressed,omitempty"`
}

type pointerMessage struct {
	Kind       string  `json:"kind"`
	StartX     float64 `json:"startX"`
	StartY     float64 `json:"startY"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	DistanceX  float64 `json:"distanceX"`
	DistanceY  float64 `json:"distanceY"`
	Distance   float64 `json:"distance"`
	DirectionX string  `json:"directionX"`
	DirectionY string  `json:"directionY"`
	Duration   int64   `json:"duration"` // Milliseconds
	VelocityX  float64 `json:"velocityX"`
	VelocityY  float64 `json:"velocityY"`
}

func newGestureMessage(target string, ev *gesture.Event) *gestureMessage {
	msg := &gestureMessage{
		Type:      ev.Type,
		Target:    target,
		Detail:    ev.Detail,
		ClientX:   ev.ClientX,
		ClientY:   ev.ClientY,
		Synthetic: ev.Synthetic(),
	}
	if p := ev.Pointer; p != nil {
		msg.Pointer = &pointerMessage{
			Kind:       p.Kind().String(),
			StartX:     p.StartX(),
			StartY:     p.StartY(),
			X:          p.X,
			Y:          p.Y,
			DistanceX:  p.DistanceX,
			DistanceY:  p.DistanceY,
			Distance:   p.Distance,
			DirectionX: string(p.DirectionX),
			DirectionY: string(p.DirectionY),
			Duration:   p.Duration.Milliseconds(),
			VelocityX:  p.VelocityX,
			VelocityY:  p.VelocityY,
		}
	}
	return msg
}
