package trace

import (
	"fmt"
	"time"

	"charm.land/log/v2"

	"github.com/Gaurav-Gosain/tuigest/internal/dispatch"
	"github.com/Gaurav-Gosain/tuigest/internal/gesture"
	"github.com/Gaurav-Gosain/tuigest/internal/hittest"
	"github.com/Gaurav-Gosain/tuigest/internal/pointer"
	"github.com/Gaurav-Gosain/tuigest/internal/router"
	"github.com/Gaurav-Gosain/tuigest/internal/scene"
	"github.com/Gaurav-Gosain/tuigest/internal/sched"
)

// Epoch is the replay clock's start time, fixed so replays are reproducible.
var Epoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Record sources.
const (
	SourceGesture = "gesture"
	SourceForward = "forward"
	SourceCursor  = "cursor"
)

// Record is one observable outcome of a replay.
type Record struct {
	Line       int             `json:"line"`
	Elapsed    time.Duration   `json:"elapsed_ns"`
	Source     string          `json:"source"`
	Type       string          `json:"type"`
	Pointer    pointer.ID      `json:"pointer,omitempty"`
	X          float64         `json:"x"`
	Y          float64         `json:"y"`
	Buttons    pointer.Buttons `json:"buttons,omitempty"`
	Button     pointer.Buttons `json:"button,omitempty"`
	Distance   float64         `json:"distance,omitempty"`
	Target     string          `json:"target,omitempty"`
	PrevTarget string          `json:"prev_target,omitempty"`
}

func (r Record) String() string {
	s := fmt.Sprintf("%s %s id=%d at=(%g,%g)", r.Source, r.Type, r.Pointer, r.X, r.Y)
	if r.Target != "" {
		s += " target=" + r.Target
	}
	return s
}

// Player drives a dispatcher from trace commands on a manual clock and
// records everything it emits.
type Player struct {
	d       *dispatch.Dispatcher
	clock   *sched.Manual
	line    int
	records []Record
}

// NewPlayer returns a Player for the surface of sc.
func NewPlayer(sc *scene.Scene, cfg dispatch.Config, logger *log.Logger) *Player {
	p := &Player{clock: sched.NewManual(Epoch)}
	p.d = dispatch.New(sc.Surface, hittest.NewTester(sc.Doc),
		dispatch.WithConfig(cfg),
		dispatch.WithScheduler(p.clock),
		dispatch.WithLogger(logger),
		dispatch.WithCursorSetter(p),
		dispatch.WithSink(router.SinkFunc(p.forwarded)),
	)
	for _, t := range gesture.Types() {
		// On only fails for invalid or duplicate types.
		_ = p.d.On(t, p.gesture)
	}
	return p
}

// Dispatcher returns the dispatcher under replay.
func (p *Player) Dispatcher() *dispatch.Dispatcher {
	return p.d
}

// Execute runs one command.
func (p *Player) Execute(cmd Command) error {
	p.line = cmd.Line
	if ev, ok := cmd.Event(); ok {
		ev.Time = p.clock.Now()
		p.d.Handle(ev)
		return nil
	}
	switch cmd.Type {
	case CommandSleep:
		p.clock.Advance(cmd.Duration)
	case CommandCancelDrag:
		p.d.CancelDrag()
	case CommandReset:
		p.d.Reset()
	default:
		return fmt.Errorf("line %d: %w %s", cmd.Line, ErrUnknownCommand, cmd.Type)
	}
	return nil
}

// Records returns what has been recorded so far.
func (p *Player) Records() []Record {
	return p.records
}

// SetCursor records drag cursor hints.
func (p *Player) SetCursor(name string) {
	typ := name
	if typ == "" {
		typ = "default"
	}
	p.records = append(p.records, Record{Line: p.line, Elapsed: p.elapsed(), Source: SourceCursor, Type: typ})
}

func (p *Player) gesture(ev gesture.Event) error {
	p.records = append(p.records, Record{
		Line:       p.line,
		Elapsed:    ev.Time.Sub(Epoch),
		Source:     SourceGesture,
		Type:       ev.Type.String(),
		Pointer:    ev.PointerID,
		X:          ev.Position.X,
		Y:          ev.Position.Y,
		Buttons:    ev.Buttons,
		Button:     ev.Button,
		Distance:   ev.Distance,
		Target:     name(ev.DropTarget),
		PrevTarget: name(ev.PrevDropTarget),
	})
	return nil
}

func (p *Player) forwarded(target hittest.Element, ev pointer.Event) {
	p.records = append(p.records, Record{
		Line:    p.line,
		Elapsed: p.elapsed(),
		Source:  SourceForward,
		Type:    ev.Kind.String(),
		Pointer: ev.PointerID,
		X:       ev.Position.X,
		Y:       ev.Position.Y,
		Buttons: ev.Buttons,
		Target:  name(target),
	})
}

func (p *Player) elapsed() time.Duration {
	return p.clock.Now().Sub(Epoch)
}

func name(el hittest.Element) string {
	if el == nil {
		return ""
	}
	return el.ElementID()
}

// Replay runs cmds against a fresh dispatcher and returns the records. Timers
// still pending after the last command never fire; end a trace with Sleep to
// flush them.
func Replay(cmds []Command, sc *scene.Scene, cfg dispatch.Config, logger *log.Logger) ([]Record, error) {
	p := NewPlayer(sc, cfg, logger)
	for _, cmd := range cmds {
		if err := p.Execute(cmd); err != nil {
			return p.Records(), err
		}
	}
	return p.Records(), nil
}
