// Package gesture classifies normalized pointer samples into hover, click
// and drag gestures.
package gesture

import (
	"errors"
	"fmt"
	"time"

	"github.com/Gaurav-Gosain/tuigest/internal/hittest"
	"github.com/Gaurav-Gosain/tuigest/internal/pointer"
)

// Type is the kind of a gesture Event.
type Type uint8

const (
	HoverEnter Type = iota + 1
	HoverMove
	HoverLeave
	ButtonDown
	ButtonUp
	ClickStart
	Click
	LongClick
	DoubleClick
	ClickEnd
	DragStart
	DragMove
	DragEnter
	DragLeave
	DragDrop
	DragEnd
	DragCancel
)

var typeNames = [...]string{
	HoverEnter:  "hoverenter",
	HoverMove:   "hovermove",
	HoverLeave:  "hoverleave",
	ButtonDown:  "buttondown",
	ButtonUp:    "buttonup",
	ClickStart:  "clickstart",
	Click:       "click",
	LongClick:   "longclick",
	DoubleClick: "doubleclick",
	ClickEnd:    "clickend",
	DragStart:   "dragstart",
	DragMove:    "dragmove",
	DragEnter:   "dragenter",
	DragLeave:   "dragleave",
	DragDrop:    "dragdrop",
	DragEnd:     "dragend",
	DragCancel:  "dragcancel",
}

// ErrUnknownType is returned for names and values outside the gesture
// vocabulary.
var ErrUnknownType = errors.New("unknown gesture type")

// Types returns the whole vocabulary in declaration order.
func Types() []Type {
	out := make([]Type, 0, len(typeNames)-1)
	for t := HoverEnter; t <= DragCancel; t++ {
		out = append(out, t)
	}
	return out
}

// Valid reports whether t is part of the vocabulary.
func (t Type) Valid() bool {
	return t >= HoverEnter && t <= DragCancel
}

func (t Type) String() string {
	if t.Valid() {
		return typeNames[t]
	}
	return fmt.Sprintf("gesture.Type(%d)", t)
}

// IsDrag reports whether t belongs to the drag family.
func (t Type) IsDrag() bool {
	return t >= DragStart && t <= DragCancel
}

// ParseType returns the Type named s, e.g. "dragstart".
func ParseType(s string) (Type, error) {
	for t := HoverEnter; t <= DragCancel; t++ {
		if typeNames[t] == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, t)
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(b []byte) error {
	v, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Sample is an immutable snapshot of one raw input occurrence, normalized by
// the button tracker.
type Sample struct {
	Kind      pointer.Kind
	Position  pointer.Point // viewport
	Local     pointer.Point // surface relative
	Buttons   pointer.Buttons
	Modifiers pointer.Modifiers
	PointerID pointer.ID
	Primary   bool
	Time      time.Time

	// Set on samples taken while dragging.
	DropTarget        hittest.Element
	PrevDropTarget    hittest.Element
	DropTargetChanged bool
}

// Event is a classified gesture. Every event is self contained.
type Event struct {
	Type      Type
	PointerID pointer.ID
	Position  pointer.Point
	Local     pointer.Point
	Start     pointer.Point
	// Distance is the path length travelled since Start.
	Distance  float64
	Buttons   pointer.Buttons
	Button    pointer.Buttons // the changed button for buttondown and buttonup
	Modifiers pointer.Modifiers
	Time      time.Time

	// Drag events only. For dragenter and dragleave DropTarget is the
	// element entered or left; for dragmove PrevDropTarget is the target of
	// the previous dragmove.
	DropTarget        hittest.Element
	PrevDropTarget    hittest.Element
	DropTargetChanged bool
}

func (e Event) String() string {
	s := fmt.Sprintf("%s id=%d at=%s", e.Type, e.PointerID, e.Position)
	if e.Button != 0 {
		s += " button=" + e.Button.String()
	}
	if e.Type.IsDrag() {
		s += fmt.Sprintf(" start=%s dist=%.1f target=%s", e.Start, e.Distance, elementName(e.DropTarget))
	}
	return s
}

func elementName(el hittest.Element) string {
	if el == nil {
		return "-"
	}
	return el.ElementID()
}

// ButtonEvent builds a buttondown or buttonup event for one changed bit.
func ButtonEvent(t Type, s Sample, bit pointer.Buttons) Event {
	return Event{
		Type:      t,
		PointerID: s.PointerID,
		Position:  s.Position,
		Local:     s.Local,
		Start:     s.Position,
		Buttons:   s.Buttons,
		Button:    bit,
		Modifiers: s.Modifiers,
		Time:      s.Time,
	}
}
