package gesture

import (
	"time"

	"github.com/Gaurav-Gosain/tuigest/internal/hittest"
	"github.com/Gaurav-Gosain/tuigest/internal/pointer"
	"github.com/Gaurav-Gosain/tuigest/internal/sched"
)

// Config holds the classifier thresholds.
type Config struct {
	// DragStartDistance is the distance from the press position at which a
	// press turns into a drag.
	DragStartDistance float64
	// DoubleClickDelay is how long a click waits for a second press.
	DoubleClickDelay time.Duration
	// LongClickDelay is how long buttons must stay down without dragging
	// for a longclick. Zero disables long clicks.
	LongClickDelay time.Duration
	// DropPollInterval re-evaluates the drop target of a stationary drag.
	// Zero disables polling.
	DropPollInterval time.Duration
}

// DropFinder returns the drop target at a viewport position, or nil.
type DropFinder func(p pointer.Point) hittest.Element

// Phase is the phase of the surface's single pointer action.
type Phase uint8

const (
	Idle Phase = iota
	ButtonsDown
	ClickPending
	Dragging
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case ButtonsDown:
		return "buttons-down"
	case ClickPending:
		return "click-pending"
	case Dragging:
		return "dragging"
	}
	return "unknown"
}

// action is the tagged action state. Each variant owns its timers and
// releases them in stop.
type action interface {
	phase() Phase
	stop()
}

type idle struct{}

func (idle) phase() Phase { return Idle }
func (idle) stop()        {}

// track is the geometry shared by every non-idle variant.
type track struct {
	owner    pointer.ID
	start    Sample
	last     Sample
	distance float64
	pressed  pointer.Buttons // union of every button held during the action
}

func (t *track) advance(s Sample) {
	t.distance += t.last.Position.Dist(s.Position)
	t.last = s
	t.pressed |= s.Buttons
}

func (t *track) moved() float64 {
	return t.last.Position.Dist(t.start.Position)
}

type buttonsDown struct {
	track
	long  bool
	timer sched.Task
}

func (*buttonsDown) phase() Phase { return ButtonsDown }
func (a *buttonsDown) stop()      { cancel(a.timer) }

type clickPending struct {
	track
	timer sched.Task
}

func (*clickPending) phase() Phase { return ClickPending }
func (a *clickPending) stop()      { cancel(a.timer) }

type dragging struct {
	track
	target  hittest.Element
	emitted Sample // sample of the last dragstart or dragmove
	poll    sched.Task
}

func (*dragging) phase() Phase { return Dragging }
func (a *dragging) stop()      { cancel(a.poll) }

func cancel(t sched.Task) {
	if t != nil {
		t.Cancel()
	}
}

// Classifier is the gesture state machine of one surface. It is not safe
// for concurrent use; samples and timers must arrive on the host loop.
type Classifier struct {
	cfg   Config
	clock sched.Scheduler
	find  DropFinder
	emit  func(Event)

	state     action
	hover     map[pointer.ID]struct{}
	resetting map[pointer.ID]struct{}
}

// New returns an idle Classifier. find may be nil when the host has no drop
// targets.
func New(cfg Config, clock sched.Scheduler, find DropFinder, emit func(Event)) *Classifier {
	return &Classifier{
		cfg:       cfg,
		clock:     clock,
		find:      find,
		emit:      emit,
		state:     idle{},
		hover:     make(map[pointer.ID]struct{}),
		resetting: make(map[pointer.ID]struct{}),
	}
}

// transition replaces the action state, stopping the outgoing variant's
// timers. It is the only place the state changes.
func (c *Classifier) transition(next action) {
	c.state.stop()
	c.state = next
}

// Phase returns the current action phase.
func (c *Classifier) Phase() Phase {
	return c.state.phase()
}

// Owner returns the pointer that owns the action in progress.
func (c *Classifier) Owner() (pointer.ID, bool) {
	switch a := c.state.(type) {
	case *buttonsDown:
		return a.owner, true
	case *clickPending:
		return a.owner, true
	case *dragging:
		return a.owner, true
	}
	return 0, false
}

// Uses reports whether the action in progress belongs to id.
func (c *Classifier) Uses(id pointer.ID) bool {
	owner, ok := c.Owner()
	return ok && owner == id
}

// DropTarget returns the current drop target while dragging.
func (c *Classifier) DropTarget() hittest.Element {
	if d, ok := c.state.(*dragging); ok {
		return d.target
	}
	return nil
}

// Press handles a sample that pressed at least one new button.
func (c *Classifier) Press(s Sample) {
	switch a := c.state.(type) {
	case idle:
		c.begin(s)
	case *buttonsDown:
		if s.PointerID == a.owner {
			a.advance(s)
		}
	case *clickPending:
		if s.PointerID == a.owner || s.Buttons == a.pressed {
			a.advance(s)
			c.transition(idle{})
			c.fire(DoubleClick, &a.track, s)
			c.fire(ClickEnd, &a.track, s)
			c.AwaitRelease(s.PointerID)
			return
		}
		// Another pointer with other buttons: the pending click is final.
		c.transition(idle{})
		c.fire(Click, &a.track, a.last.at(s.Time))
		c.fire(ClickEnd, &a.track, a.last.at(s.Time))
		c.begin(s)
	case *dragging:
		if s.PointerID == a.owner {
			c.update(a, s)
		}
	}
}

func (c *Classifier) begin(s Sample) {
	if _, ok := c.resetting[s.PointerID]; ok {
		return
	}
	bd := &buttonsDown{track: track{owner: s.PointerID, start: s, last: s, pressed: s.Buttons}}
	if c.cfg.LongClickDelay > 0 {
		bd.timer = c.clock.AfterFunc(c.cfg.LongClickDelay, func() { c.longClick(bd) })
	}
	c.transition(bd)
	c.fire(ClickStart, &bd.track, s)
}

// Move handles a sample that changed neither pressed nor released buttons.
func (c *Classifier) Move(s Sample) {
	switch a := c.state.(type) {
	case *buttonsDown:
		if s.PointerID != a.owner {
			return
		}
		a.advance(s)
		if a.moved() >= c.cfg.DragStartDistance {
			c.startDrag(a, s)
		}
	case *clickPending:
		if s.PointerID != a.owner {
			return
		}
		a.advance(s)
		if a.moved() >= c.cfg.DragStartDistance {
			// Exploratory movement, not a click continuation.
			c.transition(idle{})
		}
	case *dragging:
		if s.PointerID == a.owner {
			c.update(a, s)
		}
	}
}

// Release handles a sample that released at least one button.
func (c *Classifier) Release(s Sample) {
	switch a := c.state.(type) {
	case *buttonsDown:
		if s.PointerID != a.owner {
			return
		}
		a.advance(s)
		if s.Buttons != 0 {
			return
		}
		if a.long {
			c.transition(idle{})
			c.fire(ClickEnd, &a.track, s)
			return
		}
		cp := &clickPending{track: a.track}
		c.transition(cp)
		cp.timer = c.clock.AfterFunc(c.cfg.DoubleClickDelay, func() { c.clickTimeout(cp) })
	case *dragging:
		if s.PointerID != a.owner {
			return
		}
		if s.Buttons != 0 {
			c.update(a, s)
			return
		}
		c.drop(a, s)
	}
}

func (c *Classifier) longClick(bd *buttonsDown) {
	if c.state != action(bd) {
		return
	}
	bd.timer = nil
	bd.long = true
	c.fire(LongClick, &bd.track, bd.last.at(c.clock.Now()))
}

func (c *Classifier) clickTimeout(cp *clickPending) {
	if c.state != action(cp) {
		return
	}
	cp.timer = nil
	c.transition(idle{})
	s := cp.last.at(c.clock.Now())
	c.fire(Click, &cp.track, s)
	c.fire(ClickEnd, &cp.track, s)
}

func (c *Classifier) startDrag(bd *buttonsDown, s Sample) {
	d := &dragging{track: bd.track}
	c.transition(d)
	c.fire(ClickEnd, &d.track, s)
	c.closeHover(s)

	target := c.dropTarget(s.Position)
	s.DropTarget = target
	s.DropTargetChanged = target != nil
	c.fire(DragStart, &d.track, s)
	d.emitted = s
	if target != nil && c.state == action(d) {
		d.target = target
		c.fire(DragEnter, &d.track, s)
	}
	c.schedulePoll(d)
}

func (c *Classifier) schedulePoll(d *dragging) {
	if c.cfg.DropPollInterval <= 0 || c.state != action(d) {
		return
	}
	d.poll = c.clock.AfterFunc(c.cfg.DropPollInterval, func() {
		if c.state != action(d) {
			return
		}
		d.poll = nil
		c.maybeMove(d, c.retarget(d, d.last.at(c.clock.Now())))
		c.schedulePoll(d)
	})
}

// update applies a drag sample: recompute the drop target, then report a
// dragmove if anything relevant changed.
func (c *Classifier) update(d *dragging, s Sample) {
	d.advance(s)
	c.maybeMove(d, c.retarget(d, s))
}

// retarget recomputes the drop target at s, emitting dragleave for the old
// target and dragenter for the new one when it changed. The returned sample
// carries the drop target fields relative to the last emitted dragmove.
func (c *Classifier) retarget(d *dragging, s Sample) Sample {
	target := c.dropTarget(s.Position)
	s.PrevDropTarget = d.emitted.DropTarget
	s.DropTarget = target
	s.DropTargetChanged = target != s.PrevDropTarget
	if target == d.target {
		return s
	}
	prev := d.target
	d.target = target
	if prev != nil {
		c.fire(DragLeave, &d.track, s.leaving(prev))
	}
	if target != nil {
		c.fire(DragEnter, &d.track, s.targeting(target, prev))
	}
	return s
}

func (c *Classifier) maybeMove(d *dragging, s Sample) {
	if c.state != action(d) {
		return
	}
	e := d.emitted
	if s.Position == e.Position && s.Buttons == e.Buttons && s.Modifiers == e.Modifiers && s.DropTarget == e.DropTarget {
		return
	}
	d.emitted = s
	c.fire(DragMove, &d.track, s)
}

func (c *Classifier) drop(d *dragging, s Sample) {
	d.advance(s)
	s = c.retarget(d, s)
	c.transition(idle{})
	target := d.target
	if target != nil {
		c.fire(DragLeave, &d.track, s.leaving(target))
	}
	s = s.targeting(target, s.PrevDropTarget)
	c.fire(DragDrop, &d.track, s)
	c.fire(DragEnd, &d.track, s)
}

// Cancel abandons the action in progress. A drag emits an optional
// dragleave, then dragcancel and dragend; other phases are dropped silently.
// The owner must release every button before it can start a new action.
func (c *Classifier) Cancel() {
	switch a := c.state.(type) {
	case *buttonsDown:
		c.transition(idle{})
		c.AwaitRelease(a.owner)
	case *clickPending:
		c.transition(idle{})
	case *dragging:
		c.transition(idle{})
		c.AwaitRelease(a.owner)
		s := a.last.at(c.clock.Now())
		if a.target != nil {
			c.fire(DragLeave, &a.track, s.leaving(a.target))
		}
		s = s.targeting(nil, a.target)
		c.fire(DragCancel, &a.track, s)
		c.fire(DragEnd, &a.track, s)
	}
}

// AwaitRelease blocks id from starting actions or hovering until
// ButtonsUp(id) is called.
func (c *Classifier) AwaitRelease(id pointer.ID) {
	c.resetting[id] = struct{}{}
}

// ButtonsUp records that every physical button of id is up.
func (c *Classifier) ButtonsUp(id pointer.ID) {
	delete(c.resetting, id)
}

// Forget drops every trace of id, closing its hover.
func (c *Classifier) Forget(id pointer.ID, s Sample) {
	delete(c.resetting, id)
	c.Unhover(id, s)
}

// Reset cancels the action, closes the hover bracket and clears every
// pending buttons reset.
func (c *Classifier) Reset() {
	c.Cancel()
	c.closeHover(Sample{Time: c.clock.Now()})
	clear(c.resetting)
}

func (c *Classifier) dropTarget(p pointer.Point) hittest.Element {
	if c.find == nil {
		return nil
	}
	return c.find(p)
}

func (c *Classifier) fire(t Type, tr *track, s Sample) {
	c.emit(Event{
		Type:              t,
		PointerID:         tr.owner,
		Position:          s.Position,
		Local:             s.Local,
		Start:             tr.start.Position,
		Distance:          tr.distance,
		Buttons:           s.Buttons,
		Modifiers:         s.Modifiers,
		Time:              s.Time,
		DropTarget:        s.DropTarget,
		PrevDropTarget:    s.PrevDropTarget,
		DropTargetChanged: s.DropTargetChanged,
	})
}

func (s Sample) at(t time.Time) Sample {
	s.Time = t
	return s
}

func (s Sample) targeting(target, prev hittest.Element) Sample {
	s.DropTarget = target
	s.PrevDropTarget = prev
	s.DropTargetChanged = target != prev
	return s
}

// leaving marks s as leaving el.
func (s Sample) leaving(el hittest.Element) Sample {
	s.DropTarget = el
	s.PrevDropTarget = el
	s.DropTargetChanged = true
	return s
}
