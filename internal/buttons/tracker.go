// Package buttons tracks the pressed buttons and pointer capture of every
// pointer seen by one surface, and turns raw button masks into normalized
// press and release transitions.
package buttons

import (
	"io"
	"sort"

	"charm.land/log/v2"

	"github.com/Gaurav-Gosain/tuigest/internal/pointer"
)

// Capturer acquires and releases exclusive pointer capture on the surface.
// Both calls are best effort; errors are logged and otherwise ignored.
type Capturer interface {
	Capture(id pointer.ID) error
	Release(id pointer.ID) error
}

// NopCapturer is a Capturer for hosts without pointer capture.
type NopCapturer struct{}

func (NopCapturer) Capture(pointer.ID) error { return nil }
func (NopCapturer) Release(pointer.ID) error { return nil }

// Result describes the effect of one raw event on a pointer's buttons.
type Result struct {
	// Released and Pressed hold the bits that need a buttonup or buttondown.
	Released pointer.Buttons
	Pressed  pointer.Buttons
	// Buttons is the effective mask after the event, excluding bits whose
	// press was missed.
	Buttons pointer.Buttons
	// Held is the raw mask reported by the platform.
	Held pointer.Buttons
	// ForceCancel is set when a press was inferred from an event that was
	// not itself a press. Any action in progress must be canceled.
	ForceCancel bool
}

type state struct {
	held     pointer.Buttons
	missed   pointer.Buttons
	allUp    bool
	captured bool
}

func (s *state) buttons() pointer.Buttons {
	return s.held &^ s.missed
}

// Tracker holds per pointer button state for one surface.
type Tracker struct {
	capturer Capturer
	logger   *log.Logger
	pointers map[pointer.ID]*state
}

// New returns a Tracker. A nil capturer disables capture; a nil logger
// discards debug output.
func New(capturer Capturer, logger *log.Logger) *Tracker {
	if capturer == nil {
		capturer = NopCapturer{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Tracker{
		capturer: capturer,
		logger:   logger,
		pointers: make(map[pointer.ID]*state),
	}
}

// Process applies ev to its pointer's state.
func (t *Tracker) Process(ev pointer.Event) Result {
	s := t.pointers[ev.PointerID]
	if s == nil {
		s = &state{allUp: true}
		t.pointers[ev.PointerID] = s
	}

	released, pressed := s.held.Diff(ev.Buttons)
	res := Result{}

	// Releases of bits whose press we never saw stay silent.
	if quiet := released & s.missed; quiet != 0 {
		s.missed &^= quiet
		released &^= quiet
	}

	if pressed != 0 && s.allUp && ev.Kind != pointer.KindDown {
		// The initial press happened somewhere we couldn't see it, most
		// likely outside the surface before capture. Starting a gesture
		// from the middle would be wrong; cancel instead.
		t.logger.Debug("missed initial press", "pointer", ev.PointerID, "buttons", pressed, "kind", ev.Kind)
		s.missed |= pressed
		pressed = 0
		res.ForceCancel = true
	}

	s.held = ev.Buttons
	res.Released = released
	res.Pressed = pressed
	res.Buttons = s.buttons()
	res.Held = s.held

	if pressed != 0 && !s.captured {
		t.capture(ev.PointerID, s)
	}
	s.allUp = s.held == 0
	return res
}

func (t *Tracker) capture(id pointer.ID, s *state) {
	if err := t.capturer.Capture(id); err != nil {
		t.logger.Debug("pointer capture failed", "pointer", id, "err", err)
		return
	}
	s.captured = true
}

func (t *Tracker) release(id pointer.ID, s *state) {
	if !s.captured {
		return
	}
	s.captured = false
	if err := t.capturer.Release(id); err != nil {
		t.logger.Debug("pointer capture release failed", "pointer", id, "err", err)
	}
}

// ReleaseIfIdle releases capture of id once all its buttons are up and
// inUse is false. State for an idle pointer without capture is dropped.
func (t *Tracker) ReleaseIfIdle(id pointer.ID, inUse bool) {
	s := t.pointers[id]
	if s == nil || s.held != 0 || inUse {
		return
	}
	t.release(id, s)
	delete(t.pointers, id)
}

// Forget releases capture and drops all state for id. Used when a pointer
// is canceled or disappears.
func (t *Tracker) Forget(id pointer.ID) {
	if s := t.pointers[id]; s != nil {
		t.release(id, s)
		delete(t.pointers, id)
	}
}

// Reset releases every capture and forgets every pointer.
func (t *Tracker) Reset() {
	for _, id := range t.IDs() {
		t.Forget(id)
	}
}

// Buttons returns the effective buttons of id.
func (t *Tracker) Buttons(id pointer.ID) pointer.Buttons {
	if s := t.pointers[id]; s != nil {
		return s.buttons()
	}
	return 0
}

// Held returns the raw buttons of id, including bits whose press was
// missed.
func (t *Tracker) Held(id pointer.ID) pointer.Buttons {
	if s := t.pointers[id]; s != nil {
		return s.held
	}
	return 0
}

// Captured reports whether the surface holds capture of id.
func (t *Tracker) Captured(id pointer.ID) bool {
	s := t.pointers[id]
	return s != nil && s.captured
}

// IDs returns the tracked pointer ids in ascending order.
func (t *Tracker) IDs() []pointer.ID {
	ids := make([]pointer.ID, 0, len(t.pointers))
	for id := range t.pointers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
