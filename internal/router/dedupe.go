package router

import "github.com/Gaurav-Gosain/tuigest/internal/pointer"

// Deduper drops legacy compatibility duplicates of primitive events.
//
// Some platforms deliver a legacy event (mousedown, mousemove) right after
// its primitive pointer counterpart. A legacy event is suppressed when the
// last event seen for its pointer was the primitive of the same kind; a
// legacy event without a counterpart is handled like a primitive one.
type Deduper struct {
	last map[pointer.ID]pointer.Kind
}

// NewDeduper returns an empty Deduper.
func NewDeduper() *Deduper {
	return &Deduper{last: make(map[pointer.ID]pointer.Kind)}
}

// Suppress reports whether ev duplicates an event already processed.
func (d *Deduper) Suppress(ev pointer.Event) bool {
	if !ev.Legacy {
		d.last[ev.PointerID] = ev.Kind
		return false
	}
	kind, ok := d.last[ev.PointerID]
	delete(d.last, ev.PointerID)
	return ok && kind == ev.Kind
}

// Forget drops the history of id.
func (d *Deduper) Forget(id pointer.ID) {
	delete(d.last, id)
}

// Reset drops all history.
func (d *Deduper) Reset() {
	clear(d.last)
}
