package gesture

import "github.com/Gaurav-Gosain/tuigest/internal/pointer"

// Hover records that s's pointer is over the surface. The first hovering
// pointer opens the bracket with hoverenter; every move sample reports a
// hovermove.
func (c *Classifier) Hover(s Sample) {
	if !c.mayHover(s.PointerID) {
		return
	}
	if _, ok := c.hover[s.PointerID]; !ok {
		c.hover[s.PointerID] = struct{}{}
		if len(c.hover) == 1 {
			c.emit(hoverEvent(HoverEnter, s))
		}
	}
	if s.Kind == pointer.KindMove {
		c.emit(hoverEvent(HoverMove, s))
	}
}

// Unhover records that id left the surface. The last pointer to leave
// closes the bracket with hoverleave.
func (c *Classifier) Unhover(id pointer.ID, s Sample) {
	if _, ok := c.hover[id]; !ok {
		return
	}
	delete(c.hover, id)
	if len(c.hover) == 0 {
		s.PointerID = id
		c.emit(hoverEvent(HoverLeave, s))
	}
}

// Hovering reports whether id is in the hover set.
func (c *Classifier) Hovering(id pointer.ID) bool {
	_, ok := c.hover[id]
	return ok
}

func (c *Classifier) mayHover(id pointer.ID) bool {
	if _, ok := c.resetting[id]; ok {
		return false
	}
	switch c.state.(type) {
	case *dragging:
		return false
	case *clickPending:
		// Moving past the drag distance ends the pending click first, so the
		// owner hovers again from idle.
		return false
	}
	return true
}

// closeHover empties the hover set, emitting hoverleave if it was open.
func (c *Classifier) closeHover(s Sample) {
	if len(c.hover) == 0 {
		return
	}
	clear(c.hover)
	c.emit(hoverEvent(HoverLeave, s))
}

func hoverEvent(t Type, s Sample) Event {
	return Event{
		Type:      t,
		PointerID: s.PointerID,
		Position:  s.Position,
		Local:     s.Local,
		Start:     s.Position,
		Buttons:   s.Buttons,
		Modifiers: s.Modifiers,
		Time:      s.Time,
	}
}
