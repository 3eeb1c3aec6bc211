// Package trace parses and replays pointer traces.
//
// A trace is a line oriented script of raw pointer input:
//
//	# press, wait out the double click delay, release
//	Down 1 10 10
//	Sleep 100ms
//	Up 1 10 10
//	Sleep 300ms
//
// Down, Up and Move take a pointer id and a position plus optional
// buttons=N, mods=shift+ctrl, secondary and legacy flags. Without buttons=,
// Down presses the primary button, Up releases everything and Move keeps
// what the pointer already holds. Leave takes an id and a position;
// CancelPointer takes an id. Sleep advances the replay clock. CancelDrag and
// Reset call the matching dispatcher operations.
package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/Gaurav-Gosain/tuigest/internal/pointer"
)

// CommandType is the verb of a trace line.
type CommandType int

const (
	CommandDown CommandType = iota + 1
	CommandUp
	CommandMove
	CommandLeave
	CommandCancelPointer
	CommandSleep
	CommandCancelDrag
	CommandReset
)

var commandNames = map[string]CommandType{
	"Down":          CommandDown,
	"Up":            CommandUp,
	"Move":          CommandMove,
	"Leave":         CommandLeave,
	"CancelPointer": CommandCancelPointer,
	"Sleep":         CommandSleep,
	"CancelDrag":    CommandCancelDrag,
	"Reset":         CommandReset,
}

func (c CommandType) String() string {
	for name, t := range commandNames {
		if t == c {
			return name
		}
	}
	return fmt.Sprintf("CommandType(%d)", int(c))
}

// ErrUnknownCommand is returned for a line whose verb is not recognized.
var ErrUnknownCommand = errors.New("unknown command")

// Command is one parsed trace line.
type Command struct {
	Type      CommandType
	Line      int
	Pointer   pointer.ID
	Position  pointer.Point
	Buttons   pointer.Buttons
	Modifiers pointer.Modifiers
	Secondary bool
	Legacy    bool
	Duration  time.Duration
}

// Event converts a pointer command into the raw event it stands for.
func (c Command) Event() (pointer.Event, bool) {
	var kind pointer.Kind
	switch c.Type {
	case CommandDown:
		kind = pointer.KindDown
	case CommandUp:
		kind = pointer.KindUp
	case CommandMove:
		kind = pointer.KindMove
	case CommandLeave:
		kind = pointer.KindLeave
	case CommandCancelPointer:
		kind = pointer.KindCancel
	default:
		return pointer.Event{}, false
	}
	return pointer.Event{
		Kind:      kind,
		Position:  c.Position,
		Buttons:   c.Buttons,
		Modifiers: c.Modifiers,
		PointerID: c.Pointer,
		Primary:   !c.Secondary,
		Legacy:    c.Legacy,
	}, true
}

// Parse reads a whole trace. Every malformed line is reported, not just the
// first.
func Parse(r io.Reader) ([]Command, error) {
	p := &parser{held: make(map[pointer.ID]pointer.Buttons)}
	var errs *multierror.Error

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = strings.TrimSpace(text[:i])
		}
		if text == "" {
			continue
		}
		cmd, err := p.parseLine(strings.Fields(text))
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		cmd.Line = line
		p.cmds = append(p.cmds, cmd)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return p.cmds, nil
}

type parser struct {
	cmds []Command
	held map[pointer.ID]pointer.Buttons
}

func (p *parser) parseLine(fields []string) (Command, error) {
	t, ok := commandNames[fields[0]]
	if !ok {
		return Command{}, fmt.Errorf("%w %q", ErrUnknownCommand, fields[0])
	}
	cmd := Command{Type: t}
	args := fields[1:]

	switch t {
	case CommandCancelDrag, CommandReset:
		if len(args) != 0 {
			return cmd, fmt.Errorf("%s takes no arguments", t)
		}
		return cmd, nil

	case CommandSleep:
		if len(args) != 1 {
			return cmd, errors.New("Sleep takes one duration")
		}
		d, err := time.ParseDuration(args[0])
		if err != nil {
			return cmd, err
		}
		if d < 0 {
			return cmd, fmt.Errorf("negative sleep %s", d)
		}
		cmd.Duration = d
		return cmd, nil

	case CommandCancelPointer:
		if len(args) != 1 {
			return cmd, errors.New("CancelPointer takes a pointer id")
		}
		id, err := parseID(args[0])
		if err != nil {
			return cmd, err
		}
		cmd.Pointer = id
		delete(p.held, id)
		return cmd, nil
	}

	if len(args) < 3 {
		return cmd, fmt.Errorf("%s takes a pointer id and a position", t)
	}
	id, err := parseID(args[0])
	if err != nil {
		return cmd, err
	}
	x, errX := strconv.ParseFloat(args[1], 64)
	y, errY := strconv.ParseFloat(args[2], 64)
	if errX != nil || errY != nil {
		return cmd, fmt.Errorf("bad position %s %s", args[1], args[2])
	}
	cmd.Pointer = id
	cmd.Position = pointer.Pt(x, y)

	explicit := false
	for _, opt := range args[3:] {
		key, value, _ := strings.Cut(opt, "=")
		switch key {
		case "buttons":
			n, err := strconv.ParseUint(value, 10, 16)
			if err != nil {
				return cmd, fmt.Errorf("bad buttons %q", value)
			}
			cmd.Buttons = pointer.Buttons(n)
			explicit = true
		case "mods":
			m, err := pointer.ParseModifiers(value)
			if err != nil {
				return cmd, err
			}
			cmd.Modifiers = m
		case "secondary":
			cmd.Secondary = true
		case "legacy":
			cmd.Legacy = true
		default:
			return cmd, fmt.Errorf("unknown option %q", opt)
		}
	}

	if t == CommandLeave {
		delete(p.held, id)
		return cmd, nil
	}
	if !explicit {
		switch t {
		case CommandDown:
			cmd.Buttons = p.held[id] | pointer.ButtonPrimary
		case CommandUp:
			cmd.Buttons = 0
		case CommandMove:
			cmd.Buttons = p.held[id]
		}
	}
	p.held[id] = cmd.Buttons
	return cmd, nil
}

func parseID(s string) (pointer.ID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad pointer id %q", s)
	}
	return pointer.ID(n), nil
}
