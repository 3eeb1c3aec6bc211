// Package dispatch attaches the gesture engine to one surface: it owns the
// button tracker, the gesture classifier and the event router of the
// surface, and delivers gesture events to one registered handler per type.
package dispatch

import (
	"errors"
	"fmt"
	"io"
	"time"

	"charm.land/log/v2"
	"github.com/google/uuid"

	"github.com/Gaurav-Gosain/tuigest/internal/buttons"
	"github.com/Gaurav-Gosain/tuigest/internal/gesture"
	"github.com/Gaurav-Gosain/tuigest/internal/hittest"
	"github.com/Gaurav-Gosain/tuigest/internal/pointer"
	"github.com/Gaurav-Gosain/tuigest/internal/router"
	"github.com/Gaurav-Gosain/tuigest/internal/sched"
)

var (
	// ErrUnknownType is returned when registering a handler for a type
	// outside the gesture vocabulary.
	ErrUnknownType = gesture.ErrUnknownType
	// ErrHandlerExists is returned when a type already has a handler.
	ErrHandlerExists = errors.New("handler already registered")
	// ErrNilHandler is returned when registering a nil handler.
	ErrNilHandler = errors.New("nil handler")
)

// Handler receives gesture events. A returned error is passed to the
// dispatcher's ErrorReporter.
type Handler func(gesture.Event) error

// ErrorReporter receives errors and recovered panics from handlers.
type ErrorReporter func(ev gesture.Event, err error)

// CursorSetter applies a cursor hint to the surface. An empty name restores
// the default cursor.
type CursorSetter interface {
	SetCursor(name string)
}

// Dispatcher is the gesture engine of one surface. All methods must be
// called from the host loop.
type Dispatcher struct {
	id       string
	cfg      Config
	surface  hittest.Element
	provider hittest.Provider
	clock    sched.Scheduler
	logger   *log.Logger
	reporter ErrorReporter
	cursor   CursorSetter
	capturer buttons.Capturer
	sink     router.Sink

	tracker  *buttons.Tracker
	cls      *gesture.Classifier
	router   *router.Router
	dedupe   *router.Deduper
	handlers map[gesture.Type]Handler

	dragCursor     string
	cursorSet      bool
	handling       bool
	queue          []pointer.Event
	cancelDeferred bool
	resetDeferred  bool
}

// New returns a Dispatcher for surface. provider answers hit tests; a
// *hittest.Tester is wrapped to honor the configured opacity threshold.
func New(surface hittest.Element, provider hittest.Provider, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		id:       uuid.NewString(),
		cfg:      DefaultConfig(),
		surface:  surface,
		provider: provider,
		handlers: make(map[gesture.Type]Handler),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.clock == nil {
		d.clock = sched.NewLoop()
	}
	if d.logger == nil {
		d.logger = log.New(io.Discard)
	}
	d.logger = d.logger.With("surface", surface.ElementID(), "dispatcher", d.id[:8])
	d.cfg = d.cfg.withDefaults()
	if err := d.cfg.Validate(); err != nil {
		d.logger.Error("invalid config, using defaults", "err", err)
		d.cfg = DefaultConfig()
	}
	if d.reporter == nil {
		d.reporter = func(ev gesture.Event, err error) {
			d.logger.Error("gesture handler failed", "type", ev.Type, "err", err)
		}
	}
	if t, ok := d.provider.(*hittest.Tester); ok {
		d.provider = hittest.ThresholdProvider{Tester: t, Threshold: d.cfg.OpacityThreshold}
	}
	d.dragCursor = d.cfg.DragCursor

	d.tracker = buttons.New(d.capturer, d.logger)
	d.router = router.New(surface, d.provider, d.sink, d.logger)
	d.dedupe = router.NewDeduper()
	d.cls = gesture.New(d.cfg.gesture(), guarded{d}, d.dropTarget, d.emit)
	return d
}

// ID returns the dispatcher's instance id.
func (d *Dispatcher) ID() string { return d.id }

// Config returns the dispatcher's configuration.
func (d *Dispatcher) Config() Config { return d.cfg }

// Surface returns the element the dispatcher is attached to.
func (d *Dispatcher) Surface() hittest.Element { return d.surface }

// Phase returns the phase of the action in progress.
func (d *Dispatcher) Phase() gesture.Phase { return d.cls.Phase() }

// Forwarding returns the element events of id are forwarded to, or nil.
func (d *Dispatcher) Forwarding(id pointer.ID) hittest.Element { return d.router.Target(id) }

// On registers h as the handler for t.
func (d *Dispatcher) On(t gesture.Type, h Handler) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownType, t)
	}
	if h == nil {
		return fmt.Errorf("%w for %s", ErrNilHandler, t)
	}
	if _, ok := d.handlers[t]; ok {
		return fmt.Errorf("%w: %s", ErrHandlerExists, t)
	}
	d.handlers[t] = h
	return nil
}

// OnName registers h for the gesture type with the given name, such as
// "dragstart".
func (d *Dispatcher) OnName(name string, h Handler) error {
	t, err := gesture.ParseType(name)
	if err != nil {
		return err
	}
	return d.On(t, h)
}

// Off removes the handler for t.
func (d *Dispatcher) Off(t gesture.Type) {
	delete(d.handlers, t)
}

// Handle processes one raw event. It reports whether the surface consumed
// the event; forwarded and dropped events report false.
//
// Events arriving while the dispatcher is already handling one (from a
// handler or a Sink) are queued and processed in order afterwards, except
// synthetic events, which are dropped so a redispatched event never comes
// back to the dispatcher that produced it.
func (d *Dispatcher) Handle(ev pointer.Event) bool {
	if ev.Time.IsZero() {
		ev.Time = d.clock.Now()
	}
	if d.handling {
		if ev.Synthetic {
			d.logger.Debug("dropping re-entrant synthetic event", "event", ev)
			return false
		}
		d.queue = append(d.queue, ev)
		return false
	}
	var consumed bool
	d.run(func() { consumed = d.process(ev) })
	return consumed
}

// CancelDrag cancels the action in progress. Called from a handler it takes
// effect once the current event has been processed.
func (d *Dispatcher) CancelDrag() {
	if d.handling {
		d.cancelDeferred = true
		return
	}
	d.run(d.cls.Cancel)
}

// Reset cancels any action, releases every pointer capture and closes every
// hover and forwarding bracket.
func (d *Dispatcher) Reset() {
	if d.handling {
		d.resetDeferred = true
		return
	}
	d.run(d.reset)
}

// SetDragCursor changes the cursor hint used while dragging. An active drag
// picks it up immediately.
func (d *Dispatcher) SetDragCursor(name string) {
	d.dragCursor = name
	if d.cls.Phase() == gesture.Dragging {
		d.setCursor(name)
	}
}

// run executes fn with the re-entrancy guard held, then applies deferred
// requests and drains queued events.
func (d *Dispatcher) run(fn func()) {
	if d.handling {
		fn()
		return
	}
	d.handling = true
	defer func() { d.handling = false }()

	fn()
	d.settle()
	for len(d.queue) > 0 {
		ev := d.queue[0]
		d.queue = d.queue[1:]
		d.process(ev)
		d.settle()
	}
}

func (d *Dispatcher) settle() {
	for d.cancelDeferred || d.resetDeferred {
		if d.resetDeferred {
			d.resetDeferred = false
			d.cancelDeferred = false
			d.reset()
			continue
		}
		d.cancelDeferred = false
		d.cls.Cancel()
	}
	for _, id := range d.tracker.IDs() {
		d.tracker.ReleaseIfIdle(id, d.cls.Uses(id))
	}
}

func (d *Dispatcher) reset() {
	now := d.clock.Now()
	d.cls.Reset()
	d.tracker.Reset()
	d.router.Reset(pointer.Event{Time: now, Primary: true})
	d.dedupe.Reset()
	d.queue = nil
	d.setCursor("")
}

func (d *Dispatcher) process(ev pointer.Event) bool {
	if d.dedupe.Suppress(ev) {
		d.logger.Debug("dropping legacy duplicate", "event", ev)
		return false
	}
	id := ev.PointerID
	s := d.sample(ev)

	switch ev.Kind {
	case pointer.KindCancel:
		d.cancelPointer(ev, s)
		return true
	case pointer.KindLeave, pointer.KindOut:
		d.cls.Unhover(id, s)
		d.router.Release(ev)
		return true
	}

	// One action per surface: a secondary pointer ends it even when its
	// event is forwarded.
	if owner, active := d.cls.Owner(); active && !ev.Primary {
		d.logger.Debug("secondary pointer during action", "pointer", id, "owner", owner)
		d.cls.Cancel()
	}

	bound := d.cls.Uses(id) || d.tracker.Held(id) != 0
	if !bound && !d.provider.IsOpaqueAt(d.surface, ev.Position) {
		d.cls.Unhover(id, s)
		d.router.Forward(ev)
		return false
	}
	d.router.Release(ev)
	if ev.Kind == pointer.KindWheel {
		return true
	}

	res := d.tracker.Process(ev)
	s.Buttons = res.Buttons

	owner, active := d.cls.Owner()
	switch {
	case res.Pressed != 0 && active && owner != id && d.tracker.Buttons(owner) != 0:
		d.logger.Debug("concurrent press", "pointer", id, "owner", owner)
		d.cls.Cancel()
		d.cls.AwaitRelease(id)
	case res.ForceCancel:
		d.cls.Cancel()
		d.cls.AwaitRelease(id)
	}

	res.Released.Each(func(b pointer.Buttons) {
		d.emit(gesture.ButtonEvent(gesture.ButtonUp, s, b))
	})
	res.Pressed.Each(func(b pointer.Buttons) {
		d.emit(gesture.ButtonEvent(gesture.ButtonDown, s, b))
	})

	if ev.Primary {
		if res.Released != 0 {
			d.cls.Release(s)
		}
		if res.Pressed != 0 {
			d.cls.Press(s)
		}
		if res.Released == 0 && res.Pressed == 0 {
			d.cls.Move(s)
		}
	}
	if res.Held == 0 {
		d.cls.ButtonsUp(id)
	}
	if ev.Primary {
		d.cls.Hover(s)
	}
	return true
}

// cancelPointer handles a pointer that vanished: pending buttons are
// released, any action it owns is canceled and its state is dropped.
func (d *Dispatcher) cancelPointer(ev pointer.Event, s gesture.Sample) {
	id := ev.PointerID
	held := d.tracker.Buttons(id)
	if d.cls.Uses(id) {
		d.cls.Cancel()
	}
	s.Buttons = 0
	held.Each(func(b pointer.Buttons) {
		d.emit(gesture.ButtonEvent(gesture.ButtonUp, s, b))
	})
	d.tracker.Forget(id)
	d.cls.Forget(id, s)
	d.router.Release(ev)
	d.dedupe.Forget(id)
}

func (d *Dispatcher) sample(ev pointer.Event) gesture.Sample {
	return gesture.Sample{
		Kind:      ev.Kind,
		Position:  ev.Position,
		Local:     ev.Position.Sub(d.surface.Bounds().Min),
		Buttons:   ev.Buttons,
		Modifiers: ev.Modifiers,
		PointerID: ev.PointerID,
		Primary:   ev.Primary,
		Time:      ev.Time,
	}
}

func (d *Dispatcher) dropTarget(p pointer.Point) hittest.Element {
	return d.provider.TopmostOpaqueBehind(p, []hittest.Element{d.surface}, d.cfg.DropExcludeClasses, d.cfg.OpacityThreshold)
}

func (d *Dispatcher) emit(ev gesture.Event) {
	switch ev.Type {
	case gesture.DragStart:
		d.setCursor(d.dragCursor)
	case gesture.DragEnd:
		d.setCursor("")
	}
	h, ok := d.handlers[ev.Type]
	if !ok {
		return
	}
	d.call(h, ev)
}

func (d *Dispatcher) call(h Handler, ev gesture.Event) {
	defer func() {
		if r := recover(); r != nil {
			d.reporter(ev, fmt.Errorf("handler panic: %v", r))
		}
	}()
	if err := h(ev); err != nil {
		d.reporter(ev, err)
	}
}

func (d *Dispatcher) setCursor(name string) {
	if d.cursor == nil {
		return
	}
	if name == "" && !d.cursorSet {
		return
	}
	d.cursorSet = name != ""
	d.cursor.SetCursor(name)
}

// guarded runs scheduled tasks under the dispatcher's re-entrancy guard so
// timer driven events follow the same ordering rules as input.
type guarded struct {
	d *Dispatcher
}

func (g guarded) Now() time.Time { return g.d.clock.Now() }

func (g guarded) AfterFunc(dur time.Duration, fn func()) sched.Task {
	return g.d.clock.AfterFunc(dur, func() { g.d.run(fn) })
}
