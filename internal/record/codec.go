// Package record stores raw input streams as length-prefixed protobuf
// frames so interactions can be replayed through a tracker later.
//
// Wire schema:
//
//	message RawEvent {
//	  string type = 1;
//	  double page_x = 2;
//	  double page_y = 3;
//	  bool has_point = 4;
//	  repeated Touch touches = 5;
//	  repeated Touch changed_touches = 6;
//	  string target = 7;
//	  int64 time_ms = 8;
//	}
//	message Touch {
//	  int64 identifier = 1;
//	  double page_x = 2;
//	  double page_y = 3;
//	}
package record

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/bnema/waygesture/internal/input"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	fieldType           protowire.Number = 1
	fieldPageX          protowire.Number = 2
	fieldPageY          protowire.Number = 3
	fieldHasPoint       protowire.Number = 4
	fieldTouches        protowire.Number = 5
	fieldChangedTouches protowire.Number = 6
	fieldTarget         protowire.Number = 7
	fieldTimeMs         protowire.Number = 8

	touchIdentifier protowire.Number = 1
	touchPageX      protowire.Number = 2
	touchPageY      protowire.Number = 3
)

// ErrMalformed is returned for frames that do not decode.
var ErrMalformed = errors.New("malformed record")

// Frame is one decoded raw event. Target is the recorded target name.
type Frame struct {
	Type           string
	PageX, PageY   float64
	HasPoint       bool
	Touches        []input.Touch
	ChangedTouches []input.Touch
	Target         string
	Time           time.Time
}

// FrameFromEvent captures ev. The target name comes from input.Identifier
// when the tag implements it.
func FrameFromEvent(ev *input.Event, at time.Time) *Frame {
	f := &Frame{
		Type:           ev.Type,
		PageX:          ev.PageX,
		PageY:          ev.PageY,
		HasPoint:       ev.HasPoint,
		Touches:        ev.Touches,
		ChangedTouches: ev.ChangedTouches,
		Target:         targetName(ev.Target),
		Time:           at,
	}
	if !ev.Time.IsZero() {
		f.Time = ev.Time
	}
	return f
}

// Event rebuilds a raw event delivered to target.
func (f *Frame) Event(target input.Tag) *input.Event {
	return &input.Event{
		Type:           f.Type,
		Target:         target,
		Time:           f.Time,
		PageX:          f.PageX,
		PageY:          f.PageY,
		HasPoint:       f.HasPoint,
		Touches:        f.Touches,
		ChangedTouches: f.ChangedTouches,
	}
}

// Marshal encodes the frame body.
func (f *Frame) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldType, protowire.BytesType)
	b = protowire.AppendString(b, f.Type)
	if f.HasPoint {
		b = appendDouble(b, fieldPageX, f.PageX)
		b = appendDouble(b, fieldPageY, f.PageY)
		b = protowire.AppendTag(b, fieldHasPoint, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeBool(true))
	}
	for _, t := range f.Touches {
		b = protowire.AppendTag(b, fieldTouches, protowire.BytesType)
		b = protowire.AppendBytes(b, marshalTouch(t))
	}
	for _, t := range f.ChangedTouches {
		b = protowire.AppendTag(b, fieldChangedTouches, protowire.BytesType)
		b = protowire.AppendBytes(b, marshalTouch(t))
	}
	if f.Target != "" {
		b = protowire.AppendTag(b, fieldTarget, protowire.BytesType)
		b = protowire.AppendString(b, f.Target)
	}
	if !f.Time.IsZero() {
		b = protowire.AppendTag(b, fieldTimeMs, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(f.Time.UnixMilli()))
	}
	return b
}

// Unmarshal decodes a frame body. Unknown fields are skipped.
func Unmarshal(b []byte) (*Frame, error) {
	f := &Frame{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == fieldType && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(b)
			n = m
			f.Type = v
		case num == fieldPageX && typ == protowire.Fixed64Type:
			v, m := protowire.ConsumeFixed64(b)
			n = m
			f.PageX = math.Float64frombits(v)
		case num == fieldPageY && typ == protowire.Fixed64Type:
			v, m := protowire.ConsumeFixed64(b)
			n = m
			f.PageY = math.Float64frombits(v)
		case num == fieldHasPoint && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			n = m
			f.HasPoint = protowire.DecodeBool(v)
		case (num == fieldTouches || num == fieldChangedTouches) && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			n = m
			if m >= 0 {
				t, err := unmarshalTouch(v)
				if err != nil {
					return nil, err
				}
				if num == fieldTouches {
					f.Touches = append(f.Touches, t)
				} else {
					f.ChangedTouches = append(f.ChangedTouches, t)
				}
			}
		case num == fieldTarget && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(b)
			n = m
			f.Target = v
		case num == fieldTimeMs && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			n = m
			f.Time = time.UnixMilli(int64(v))
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: field %d: %v", ErrMalformed, num, protowire.ParseError(n))
		}
		b = b[n:]
	}
	return f, nil
}

func marshalTouch(t input.Touch) []byte {
	var b []byte
	b = protowire.AppendTag(b, touchIdentifier, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(t.Identifier))
	b = appendDouble(b, touchPageX, t.PageX)
	b = appendDouble(b, touchPageY, t.PageY)
	return b
}

func unmarshalTouch(b []byte) (input.Touch, error) {
	var t input.Touch
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return t, fmt.Errorf("%w: touch: %v", ErrMalformed, protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == touchIdentifier && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			n = m
			t.Identifier = int64(v)
		case num == touchPageX && typ == protowire.Fixed64Type:
			v, m := protowire.ConsumeFixed64(b)
			n = m
			t.PageX = math.Float64frombits(v)
		case num == touchPageY && typ == protowire.Fixed64Type:
			v, m := protowire.ConsumeFixed64(b)
			n = m
			t.PageY = math.Float64frombits(v)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return t, fmt.Errorf("%w: touch field %d: %v", ErrMalformed, num, protowire.ParseError(n))
		}
		b = b[n:]
	}
	return t, nil
}

func appendDouble(b []byte, num protowire.Number, v float64) []byte {
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

func targetName(tag input.Tag) string {
	switch t := tag.(type) {
	case nil:
		return ""
	case input.Identifier:
		return t.TargetID()
	case string:
		return t
	default:
		return fmt.Sprintf("%T", tag)
	}
}
