package input

// Point is a position in page coordinates.
type Point struct {
	X, Y float64
}

// Normalize extracts the point of interest of an event. Wrapped events are
// unwrapped first. Touch events report their first active touch, or the
// first changed touch once released. Other events report their own page
// coordinates. ok is false when the event carries no coordinates at all.
func Normalize(ev *Event) (pt Point, ok bool) {
	if ev == nil {
		return Point{}, false
	}
	for ev.Original != nil {
		ev = ev.Original
	}

	switch {
	case len(ev.Touches) > 0:
		t := ev.Touches[0]
		return Point{X: t.PageX, Y: t.PageY}, true
	case len(ev.ChangedTouches) > 0:
		t := ev.ChangedTouches[0]
		return Point{X: t.PageX, Y: t.PageY}, true
	case ev.HasPoint:
		return Point{X: ev.PageX, Y: ev.PageY}, true
	default:
		return Point{}, false
	}
}
