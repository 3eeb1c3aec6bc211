// Package tuigest turns raw pointer input into hover, click and drag
// gestures for a surface element, and can be embedded in other programs.
//
// A surface is an element of a layered scene. Presses on it are classified
// into click, long click, double click and drag-and-drop; input that lands
// on a see-through part of the surface is forwarded to whatever is behind.
//
// # Basic Usage
//
// Build a scene, create a dispatcher for its surface and subscribe:
//
//	board := &tuigest.Node{ID: "board", Rect: tuigest.R(0, 0, 40, 16), Alpha: 1, Fill: color.White}
//	doc := tuigest.NewScene(board)
//	clock := tuigest.NewManualClock(time.Now())
//	d := tuigest.New(board, tuigest.NewTester(doc), tuigest.WithScheduler(clock))
//	d.On(tuigest.Click, func(ev tuigest.Event) error {
//		fmt.Println("click at", ev.Position)
//		return nil
//	})
//	d.Handle(tuigest.PointerEvent{Kind: tuigest.KindDown, ...})
//	d.Handle(tuigest.PointerEvent{Kind: tuigest.KindUp, ...})
//	clock.Advance(300 * time.Millisecond) // the click fires here
//
// # Timers
//
// Click, long click and drop poll timers run on a Scheduler. A ManualClock
// only moves when advanced, which suits tests, replays and hosts with their
// own frame clock. Without WithScheduler the dispatcher uses a LoopClock,
// whose timers only fire inside a Bubble Tea program.
//
// # Inside Bubble Tea
//
// NewLoopClock returns a scheduler whose timers arrive as FiredMsg
// messages. Pass them to Fire from Update and return Cmd:
//
//	case tuigest.FiredMsg:
//		m.clock.Fire(msg)
//		return m, m.clock.Cmd()
package tuigest

import (
	"time"

	"github.com/Gaurav-Gosain/tuigest/internal/dispatch"
	"github.com/Gaurav-Gosain/tuigest/internal/gesture"
	"github.com/Gaurav-Gosain/tuigest/internal/hittest"
	"github.com/Gaurav-Gosain/tuigest/internal/pointer"
	"github.com/Gaurav-Gosain/tuigest/internal/router"
	"github.com/Gaurav-Gosain/tuigest/internal/sched"
)

// Dispatcher classifies the pointer input of one surface.
type Dispatcher = dispatch.Dispatcher

// Config holds the dispatcher settings.
type Config = dispatch.Config

// Option configures a Dispatcher.
type Option = dispatch.Option

type (
	Handler       = dispatch.Handler
	ErrorReporter = dispatch.ErrorReporter
	CursorSetter  = dispatch.CursorSetter
	Sink          = router.Sink
	SinkFunc      = router.SinkFunc
)

// Gestures.
type (
	Event = gesture.Event
	Type  = gesture.Type
	Phase = gesture.Phase
)

const (
	HoverEnter  = gesture.HoverEnter
	HoverMove   = gesture.HoverMove
	HoverLeave  = gesture.HoverLeave
	ButtonDown  = gesture.ButtonDown
	ButtonUp    = gesture.ButtonUp
	ClickStart  = gesture.ClickStart
	Click       = gesture.Click
	LongClick   = gesture.LongClick
	DoubleClick = gesture.DoubleClick
	ClickEnd    = gesture.ClickEnd
	DragStart   = gesture.DragStart
	DragMove    = gesture.DragMove
	DragEnter   = gesture.DragEnter
	DragLeave   = gesture.DragLeave
	DragDrop    = gesture.DragDrop
	DragEnd     = gesture.DragEnd
	DragCancel  = gesture.DragCancel
)

// Raw pointer input.
type (
	PointerEvent = pointer.Event
	PointerID    = pointer.ID
	Kind         = pointer.Kind
	Buttons      = pointer.Buttons
	Modifiers    = pointer.Modifiers
	Point        = pointer.Point
	Rect         = pointer.Rect
)

const (
	KindMove   = pointer.KindMove
	KindDown   = pointer.KindDown
	KindUp     = pointer.KindUp
	KindLeave  = pointer.KindLeave
	KindCancel = pointer.KindCancel

	ButtonPrimary   = pointer.ButtonPrimary
	ButtonSecondary = pointer.ButtonSecondary
	ButtonTertiary  = pointer.ButtonTertiary

	MouseID = pointer.MouseID
)

// Scenes and hit testing.
type (
	Element  = hittest.Element
	Document = hittest.Document
	Provider = hittest.Provider
	Bitmap   = hittest.Bitmap
	Node     = hittest.Node
	Scene    = hittest.Scene
	Tester   = hittest.Tester
)

// Timers.
type (
	Scheduler   = sched.Scheduler
	ManualClock = sched.Manual
	LoopClock   = sched.Loop
	FiredMsg    = sched.FiredMsg
)

// Dispatcher options.
var (
	WithConfig        = dispatch.WithConfig
	WithLogger        = dispatch.WithLogger
	WithScheduler     = dispatch.WithScheduler
	WithErrorReporter = dispatch.WithErrorReporter
	WithCapturer      = dispatch.WithCapturer
	WithCursorSetter  = dispatch.WithCursorSetter
	WithSink          = dispatch.WithSink
)

// New creates a dispatcher for surface. provider decides which elements are
// opaque under the pointer, usually a Tester over the surface's document.
//
// The default scheduler is a LoopClock and needs a Bubble Tea host; pass
// WithScheduler(NewManualClock(...)) anywhere else.
func New(surface Element, provider Provider, opts ...Option) *Dispatcher {
	return dispatch.New(surface, provider, opts...)
}

// DefaultConfig returns the default dispatcher settings.
func DefaultConfig() Config { return dispatch.DefaultConfig() }

// NewScene returns an in-memory document holding nodes.
func NewScene(nodes ...*Node) *Scene { return hittest.NewScene(nodes...) }

// NewTester returns a hit tester over doc.
func NewTester(doc Document) *Tester { return hittest.NewTester(doc) }

// NewManualClock returns a scheduler that only moves when advanced.
func NewManualClock(start time.Time) *ManualClock { return sched.NewManual(start) }

// NewLoopClock returns a scheduler driven by Bubble Tea messages.
func NewLoopClock() *LoopClock { return sched.NewLoop() }

// Pt returns the point (x, y).
func Pt(x, y float64) Point { return pointer.Pt(x, y) }

// R returns the rectangle at (x, y) with the given size.
func R(x, y, w, h float64) Rect { return pointer.R(x, y, w, h) }

// ParseType returns the gesture type with the given name, e.g. "dragstart".
func ParseType(name string) (Type, error) { return gesture.ParseType(name) }
