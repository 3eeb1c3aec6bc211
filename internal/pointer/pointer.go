// Package pointer defines the raw pointer input model consumed by the
// gesture engine: pointer ids, button and modifier bitmasks, positions and
// the raw Event emitted by a host platform.
package pointer

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// ID identifies a pointer (mouse, pen contact or touch) as reported by the
// host platform.
type ID int64

// MouseID is the pointer id used for hosts that only know a single mouse.
const MouseID ID = 1

// Buttons is a bitmask of pressed buttons. Bit positions follow the usual
// platform convention where the primary button is bit 0.
type Buttons uint16

const (
	// ButtonPrimary is usually the left mouse button or a touch contact.
	ButtonPrimary Buttons = 1 << iota
	// ButtonSecondary is usually the right mouse button.
	ButtonSecondary
	// ButtonTertiary is usually the middle mouse button (wheel press).
	ButtonTertiary
	// ButtonBack is the browser "back" button.
	ButtonBack
	// ButtonForward is the browser "forward" button.
	ButtonForward
)

// Diff returns the bits released and pressed when moving from b to next.
func (b Buttons) Diff(next Buttons) (released, pressed Buttons) {
	return b &^ next, next &^ b
}

// Contains reports whether all bits of o are set in b.
func (b Buttons) Contains(o Buttons) bool {
	return b&o == o
}

// Each calls fn for every set bit of b, lowest bit first.
func (b Buttons) Each(fn func(Buttons)) {
	for i := 0; i < 16; i++ {
		bit := Buttons(1) << i
		if b&bit != 0 {
			fn(bit)
		}
	}
}

func (b Buttons) String() string {
	if b == 0 {
		return "none"
	}
	var names []string
	b.Each(func(bit Buttons) {
		switch bit {
		case ButtonPrimary:
			names = append(names, "primary")
		case ButtonSecondary:
			names = append(names, "secondary")
		case ButtonTertiary:
			names = append(names, "tertiary")
		case ButtonBack:
			names = append(names, "back")
		case ButtonForward:
			names = append(names, "forward")
		default:
			names = append(names, fmt.Sprintf("button%d", bitIndex(bit)))
		}
	})
	return strings.Join(names, "+")
}

func bitIndex(b Buttons) int {
	for i := 0; i < 16; i++ {
		if b == 1<<i {
			return i
		}
	}
	return -1
}

// Modifiers is a bitmask of modifier keys held during an event.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModAlt
	ModCtrl
	ModMeta
)

func (m Modifiers) String() string {
	if m == 0 {
		return "none"
	}
	var names []string
	if m&ModShift != 0 {
		names = append(names, "shift")
	}
	if m&ModAlt != 0 {
		names = append(names, "alt")
	}
	if m&ModCtrl != 0 {
		names = append(names, "ctrl")
	}
	if m&ModMeta != 0 {
		names = append(names, "meta")
	}
	return strings.Join(names, "+")
}

// ParseModifiers parses a "+" or "," separated list such as "shift+ctrl".
func ParseModifiers(s string) (Modifiers, error) {
	var m Modifiers
	if s == "" || s == "none" {
		return 0, nil
	}
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '+' || r == ',' }) {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "shift":
			m |= ModShift
		case "alt", "option":
			m |= ModAlt
		case "ctrl", "control":
			m |= ModCtrl
		case "meta", "super", "cmd":
			m |= ModMeta
		default:
			return 0, fmt.Errorf("unknown modifier %q", part)
		}
	}
	return m, nil
}

// Point is a position in viewport or surface coordinates.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

// Rect is an axis aligned rectangle, Min inclusive and Max exclusive.
type Rect struct {
	Min, Max Point
}

// R is shorthand for a rectangle at (x, y) with the given size.
func R(x, y, w, h float64) Rect {
	return Rect{Min: Point{X: x, Y: y}, Max: Point{X: x + w, Y: y + h}}
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// Dx returns the width of r.
func (r Rect) Dx() float64 { return r.Max.X - r.Min.X }

// Dy returns the height of r.
func (r Rect) Dy() float64 { return r.Max.Y - r.Min.Y }

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y
}

// Kind is the type tag of a raw Event.
type Kind uint8

const (
	KindMove Kind = iota
	KindDown
	KindUp
	KindEnter
	KindLeave
	KindOver
	KindOut
	KindCancel
	KindWheel
)

var kindNames = [...]string{
	KindMove:   "move",
	KindDown:   "down",
	KindUp:     "up",
	KindEnter:  "enter",
	KindLeave:  "leave",
	KindOver:   "over",
	KindOut:    "out",
	KindCancel: "cancel",
	KindWheel:  "wheel",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("pointer.Kind(%d)", k)
}

// Event is one raw pointer occurrence as delivered by the host.
type Event struct {
	Kind      Kind
	Position  Point // viewport coordinates
	Buttons   Buttons
	Modifiers Modifiers
	PointerID ID
	Primary   bool
	// Legacy marks a compatibility duplicate that some platforms deliver
	// after the primitive pointer event (e.g. mousedown after pointerdown).
	Legacy bool
	// Synthetic marks events produced by a router rather than the platform.
	Synthetic bool
	Time      time.Time
}

func (e Event) String() string {
	s := fmt.Sprintf("%s id=%d at=%s buttons=%s", e.Kind, e.PointerID, e.Position, e.Buttons)
	if e.Modifiers != 0 {
		s += " mods=" + e.Modifiers.String()
	}
	if !e.Primary {
		s += " secondary"
	}
	if e.Legacy {
		s += " legacy"
	}
	if e.Synthetic {
		s += " synthetic"
	}
	return s
}
