package pointer

import (
	"time"

	uv "github.com/charmbracelet/ultraviolet"
)

// TerminalDecoder converts terminal mouse reports into raw pointer Events.
//
// Terminals report a single button per event and, in X10 encoding, releases
// without the button that was released. The decoder keeps the held button
// mask so every Event carries the full Buttons bitmask. A motion report that
// carries a button the decoder never saw pressed (the press happened before
// mouse tracking was enabled or outside the window) is passed through with
// that button set; the button tracker treats it as a missed press.
type TerminalDecoder struct {
	held Buttons
	// CellSize scales cell coordinates into surface units. Zero means 1.
	CellSize float64
}

// Held returns the buttons the decoder currently believes are pressed.
func (d *TerminalDecoder) Held() Buttons {
	return d.held
}

// Decode converts m into a pointer Event. Wheel reports decode to KindWheel
// and never change the held mask.
func (d *TerminalDecoder) Decode(m uv.MouseEvent, now time.Time) Event {
	mouse := m.Mouse()
	scale := d.CellSize
	if scale == 0 {
		scale = 1
	}
	ev := Event{
		Position:  Point{X: float64(mouse.X) * scale, Y: float64(mouse.Y) * scale},
		Modifiers: modifiersFromKeyMod(mouse.Mod),
		PointerID: MouseID,
		Primary:   true,
		Time:      now,
	}

	bit := buttonFromMouse(mouse.Button)
	switch m.(type) {
	case uv.MouseClickEvent:
		ev.Kind = KindDown
		d.held |= bit
	case uv.MouseReleaseEvent:
		ev.Kind = KindUp
		if bit == 0 {
			// X10 releases don't say which button went up.
			d.held = 0
		} else {
			d.held &^= bit
		}
	case uv.MouseMotionEvent:
		ev.Kind = KindMove
		if bit == 0 {
			d.held = 0
		} else {
			d.held |= bit
		}
	case uv.MouseWheelEvent:
		ev.Kind = KindWheel
	}
	ev.Buttons = d.held
	return ev
}

// Leave returns a KindLeave event for the mouse pointer, used when the
// terminal loses focus.
func (d *TerminalDecoder) Leave(now time.Time) Event {
	d.held = 0
	return Event{Kind: KindLeave, PointerID: MouseID, Primary: true, Time: now}
}

func buttonFromMouse(b uv.MouseButton) Buttons {
	switch b {
	case uv.MouseLeft:
		return ButtonPrimary
	case uv.MouseRight:
		return ButtonSecondary
	case uv.MouseMiddle:
		return ButtonTertiary
	case uv.MouseBackward:
		return ButtonBack
	case uv.MouseForward:
		return ButtonForward
	default:
		return 0
	}
}

func modifiersFromKeyMod(mod uv.KeyMod) Modifiers {
	var m Modifiers
	if mod.Contains(uv.ModShift) {
		m |= ModShift
	}
	if mod.Contains(uv.ModAlt) {
		m |= ModAlt
	}
	if mod.Contains(uv.ModCtrl) {
		m |= ModCtrl
	}
	if mod.Contains(uv.ModMeta) || mod.Contains(uv.ModSuper) {
		m |= ModMeta
	}
	return m
}
