package artboard

import (
	"fmt"
	"log/slog"
)

// Rect is the on-screen bounding box of the rendered canvas, in screen
// pixels.
type Rect struct {
	X, Y, W, H float64
}

// Empty reports whether r cannot be used to convert screen deltas.
func (r Rect) Empty() bool { return !(r.W > 0) || !(r.H > 0) }

// DragState is the state of a DragController.
type DragState uint8

const (
	DragIdle DragState = iota
	DragDragging
)

// String returns the state name.
func (s DragState) String() string {
	switch s {
	case DragIdle:
		return "idle"
	case DragDragging:
		return "dragging"
	default:
		return fmt.Sprintf("DragState(%d)", s)
	}
}

// DragController turns a pointer gesture into position updates for a
// single captured element.
//
// Positions are always computed from the gesture origin, never chained
// from the previous move, so rounding does not accumulate. Intermediate
// moves are not history entries; the caller commits once after End.
//
// The zero value is idle and ready to use.
type DragController struct {
	state  DragState
	target string
	origin Point // pointer at Begin, screen pixels
	start  Point // element position at Begin, percent
	rect   Rect
}

// Begin captures the element with the given id. It returns false and
// stays idle when a gesture is already active, the element does not exist
// or is locked, or rect has no area.
func (d *DragController) Begin(s Scene, id string, pointer Point, rect Rect) bool {
	if d.state != DragIdle {
		return false
	}
	e, ok := s.Element(id)
	if !ok || e.Locked {
		return false
	}
	if rect.Empty() {
		Logger().Debug("drag rejected: canvas not measurable", slog.String("id", id))
		return false
	}
	*d = DragController{
		state:  DragDragging,
		target: id,
		origin: pointer,
		start:  e.Position,
		rect:   rect,
	}
	return true
}

// Position returns the element position for the given pointer location.
// It returns false when idle.
func (d *DragController) Position(pointer Point) (Point, bool) {
	if d.state != DragDragging {
		return Point{}, false
	}
	return Point{
		X: d.start.X + 100*(pointer.X-d.origin.X)/d.rect.W,
		Y: d.start.Y + 100*(pointer.Y-d.origin.Y)/d.rect.H,
	}, true
}

// Move returns s with the captured element moved to follow pointer.
// When idle it returns s unchanged.
func (d *DragController) Move(s Scene, pointer Point) Scene {
	p, ok := d.Position(pointer)
	if !ok {
		return s
	}
	return s.UpdateElement(d.target, MoveTo(p.X, p.Y))
}

// End releases the capture and returns the id of the element that was
// dragged. The caller commits exactly one history entry when ok is true,
// including for a gesture with no net movement.
func (d *DragController) End() (id string, ok bool) {
	if d.state != DragDragging {
		return "", false
	}
	id = d.target
	*d = DragController{}
	return id, true
}

// Cancel releases the capture and returns s with the element restored to
// its starting position. Nothing should be committed.
func (d *DragController) Cancel(s Scene) Scene {
	if d.state != DragDragging {
		return s
	}
	s = s.UpdateElement(d.target, MoveTo(d.start.X, d.start.Y))
	*d = DragController{}
	return s
}

// State returns the controller state.
func (d *DragController) State() DragState { return d.state }

// Active reports whether a gesture is in progress.
func (d *DragController) Active() bool { return d.state == DragDragging }

// Target returns the captured element id, or "" when idle.
func (d *DragController) Target() string { return d.target }
