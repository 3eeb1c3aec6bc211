// Package app implements the interactive tuigest demo, a Bubble Tea model
// that feeds terminal mouse input through a gesture dispatcher and shows
// what comes out.
package app

import (
	"fmt"
	"io"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/log/v2"

	"github.com/Gaurav-Gosain/tuigest/internal/dispatch"
	"github.com/Gaurav-Gosain/tuigest/internal/gesture"
	"github.com/Gaurav-Gosain/tuigest/internal/hittest"
	"github.com/Gaurav-Gosain/tuigest/internal/pointer"
	"github.com/Gaurav-Gosain/tuigest/internal/router"
	"github.com/Gaurav-Gosain/tuigest/internal/scene"
	"github.com/Gaurav-Gosain/tuigest/internal/sched"
)

// InputHandler is a function type that handles input messages.
// This allows the Update method to delegate to the input package without creating a circular dependency.
type InputHandler func(msg tea.Msg, m *Demo) (tea.Model, tea.Cmd)

var inputHandler InputHandler

// SetInputHandler registers the input handler function.
// This must be called during initialization before the Update loop runs.
func SetInputHandler(handler InputHandler) {
	inputHandler = handler
}

// Options configures a Demo.
type Options struct {
	Config     dispatch.Config
	Logger     *log.Logger
	CellSize   float64
	LogEntries int
}

// Demo is the Bubble Tea model of the interactive demo.
type Demo struct {
	scene   *scene.Scene
	tester  *hittest.Tester
	d       *dispatch.Dispatcher
	loop    *sched.Loop
	decoder pointer.TerminalDecoder
	logger  *log.Logger
	events  *EventLog

	width, height int
	cursor        string
	target        string
	forward       string
	errors        int
}

// New returns a Demo over sc.
func New(sc *scene.Scene, opts Options) *Demo {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	m := &Demo{
		scene:  sc,
		tester: hittest.NewTester(sc.Doc),
		loop:   sched.NewLoop(),
		logger: opts.Logger.WithPrefix("demo"),
		events: NewEventLog(opts.LogEntries),
	}
	m.decoder.CellSize = opts.CellSize
	m.d = dispatch.New(sc.Surface, m.tester,
		dispatch.WithConfig(opts.Config),
		dispatch.WithScheduler(m.loop),
		dispatch.WithLogger(opts.Logger),
		dispatch.WithCursorSetter(m),
		dispatch.WithSink(router.SinkFunc(m.forwarded)),
		dispatch.WithErrorReporter(m.reportError),
	)
	for _, t := range gesture.Types() {
		_ = m.d.On(t, m.gesture)
	}
	return m
}

// Dispatcher returns the demo's dispatcher.
func (m *Demo) Dispatcher() *dispatch.Dispatcher { return m.d }

// Scene returns the scene being shown.
func (m *Demo) Scene() *scene.Scene { return m.scene }

// Events returns the event log.
func (m *Demo) Events() *EventLog { return m.events }

// Cursor returns the current cursor hint, empty for the default cursor.
func (m *Demo) Cursor() string { return m.cursor }

// Decoder returns the terminal mouse decoder.
func (m *Demo) Decoder() *pointer.TerminalDecoder { return &m.decoder }

// Feed hands a raw pointer event to the dispatcher.
func (m *Demo) Feed(ev pointer.Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	m.d.Handle(ev)
}

// Leave tells the dispatcher the mouse left the terminal.
func (m *Demo) Leave() {
	m.Feed(m.decoder.Leave(time.Now()))
}

// CancelDrag cancels the action in progress.
func (m *Demo) CancelDrag() {
	m.d.CancelDrag()
	m.events.Add(Entry{Kind: EntryNote, Text: "cancel requested"})
}

// Reset resets the dispatcher and clears the target markers.
func (m *Demo) Reset() {
	m.d.Reset()
	m.target, m.forward = "", ""
	m.events.Add(Entry{Kind: EntryNote, Text: "reset"})
}

// SetCursor receives the dispatcher's cursor hint.
func (m *Demo) SetCursor(name string) {
	m.cursor = name
}

// Cmd returns the commands for timers scheduled since the last call.
func (m *Demo) Cmd() tea.Cmd {
	return m.loop.Cmd()
}

func (m *Demo) gesture(ev gesture.Event) error {
	switch ev.Type {
	case gesture.DragEnter:
		m.target = name(ev.DropTarget)
	case gesture.DragLeave:
		m.target = ""
	case gesture.DragEnd:
		m.target = ""
	}
	m.events.Add(Entry{Kind: EntryGesture, Type: ev.Type, Time: ev.Time, Text: ev.String()})
	return nil
}

func (m *Demo) forwarded(target hittest.Element, ev pointer.Event) {
	switch ev.Kind {
	case pointer.KindEnter:
		m.forward = name(target)
	case pointer.KindLeave:
		m.forward = ""
	case pointer.KindMove:
		// Moves are too frequent for the log.
		return
	}
	m.events.Add(Entry{Kind: EntryForward, Time: ev.Time, Text: fmt.Sprintf("%s -> %s", ev.Kind, name(target))})
}

func (m *Demo) reportError(ev gesture.Event, err error) {
	m.errors++
	m.logger.Error("gesture handler failed", "type", ev.Type, "err", err)
}

func name(el hittest.Element) string {
	if el == nil {
		return ""
	}
	return el.ElementID()
}

// Init implements tea.Model.
func (m *Demo) Init() tea.Cmd {
	return nil
}

// Update handles all incoming messages. Input goes through the registered
// InputHandler; scheduler ticks fire the dispatcher's timers.
func (m *Demo) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case sched.FiredMsg:
		m.loop.Fire(msg)
		return m, m.loop.Cmd()
	}

	if inputHandler == nil {
		return m, nil
	}
	model, cmd := inputHandler(msg, m)
	return model, tea.Batch(cmd, m.loop.Cmd())
}
