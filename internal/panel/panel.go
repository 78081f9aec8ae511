// Package panel implements the open/closed state machine of the history
// panel, driven by taps and vertical drags on its handle.
//
// A drag that crosses the threshold toggles the panel immediately, while the
// pointer is still down. The trailing click of that same gesture is then
// swallowed so the panel is not toggled back.
package panel

import "fmt"

// DefaultThreshold is the vertical displacement a drag needs to toggle the panel
const DefaultThreshold = 25.0

// State of the panel
type State int

const (
	Closed State = iota
	Open
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Snapshot is the complete state of the machine
type Snapshot struct {
	State State
	// Tracking is set between pointer-down and pointer-up on the handle
	Tracking    bool
	OriginY     float64
	OriginState State
	// DragOccurred suppresses the trailing tap of a drag released on the handle
	DragOccurred bool
}

// Event is an input to Transition
type Event interface{ isEvent() }

type (
	// PointerDown on the handle at vertical coordinate Y
	PointerDown struct{ Y float64 }
	// PointerMove to vertical coordinate Y
	PointerMove struct{ Y float64 }
	// PointerUp ends the gesture. OnHandle is set when the release lands on
	// the handle, in which case the gesture's trailing tap follows.
	PointerUp struct{ OnHandle bool }
	// HandleTap is a click on the handle
	HandleTap struct{}
	// BackdropTap is a click outside the open panel
	BackdropTap struct{}
	// ItemSelected closes the panel after a history item was chosen
	ItemSelected struct{}
	// CloseRequested comes from an explicit close control
	CloseRequested struct{}
)

func (PointerDown) isEvent()    {}
func (PointerMove) isEvent()    {}
func (PointerUp) isEvent()      {}
func (HandleTap) isEvent()      {}
func (BackdropTap) isEvent()    {}
func (ItemSelected) isEvent()   {}
func (CloseRequested) isEvent() {}

// Transition applies e to s and returns the next snapshot. Coordinates grow
// downward, so opening is a drag toward smaller Y.
func Transition(s Snapshot, e Event, threshold float64) Snapshot {
	switch e := e.(type) {
	case PointerDown:
		s.Tracking = true
		s.OriginY = e.Y
		s.OriginState = s.State
		s.DragOccurred = false

	case PointerMove:
		if !s.Tracking || s.State != s.OriginState {
			return s
		}
		delta := e.Y - s.OriginY
		switch {
		case s.State == Closed && -delta > threshold:
			s.State = Open
			s.DragOccurred = true
		case s.State == Open && delta > threshold:
			s.State = Closed
			s.DragOccurred = true
		}

	case PointerUp:
		s.Tracking = false
		s.OriginY = 0
		if !e.OnHandle {
			s.DragOccurred = false
		}

	case HandleTap:
		if s.DragOccurred {
			s.DragOccurred = false
			return s
		}
		s.State = toggle(s.State)

	case BackdropTap, ItemSelected, CloseRequested:
		s.State = Closed
		s.DragOccurred = false
	}
	return s
}

func toggle(s State) State {
	if s == Open {
		return Closed
	}
	return Open
}
