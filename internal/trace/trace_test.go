package trace

import (
	"bytes"
	"errors"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/Gaurav-Gosain/tuigest/internal/dispatch"
	"github.com/Gaurav-Gosain/tuigest/internal/hittest"
	"github.com/Gaurav-Gosain/tuigest/internal/pointer"
	"github.com/Gaurav-Gosain/tuigest/internal/scene"
)

func parse(t *testing.T, src string) []Command {
	t.Helper()
	cmds, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return cmds
}

func TestParseDefaults(t *testing.T) {
	cmds := parse(t, `
# comment
Down 1 10 10
Down 1 10 10 buttons=3 mods=shift+ctrl # chord
Move 1 12 10
Up 1 12 10 buttons=2
Move 1 14 10
Up 1 14 10
Move 2 0 0 secondary legacy
Sleep 250ms
Leave 2 0 0
CancelPointer 1
CancelDrag
Reset
`)
	wantButtons := []pointer.Buttons{1, 3, 3, 2, 2, 0, 0}
	for i, want := range wantButtons {
		if cmds[i].Buttons != want {
			t.Errorf("command %d (%s line %d) buttons = %d, want %d", i, cmds[i].Type, cmds[i].Line, cmds[i].Buttons, want)
		}
	}
	if cmds[0].Line != 3 {
		t.Errorf("first command line = %d, want 3", cmds[0].Line)
	}
	if cmds[1].Modifiers != pointer.ModShift|pointer.ModCtrl {
		t.Errorf("mods = %s", cmds[1].Modifiers)
	}
	ev, ok := cmds[6].Event()
	if !ok || ev.Primary || !ev.Legacy || ev.PointerID != 2 {
		t.Errorf("secondary legacy event = %+v", ev)
	}
	if cmds[7].Type != CommandSleep || cmds[7].Duration != 250*time.Millisecond {
		t.Errorf("sleep = %+v", cmds[7])
	}
	if _, ok := cmds[7].Event(); ok {
		t.Error("Sleep should not convert to an event")
	}
	if len(cmds) != 12 {
		t.Errorf("parsed %d commands, want 12", len(cmds))
	}
}

func TestParseReportsEveryLine(t *testing.T) {
	_, err := Parse(strings.NewReader(`
Tap 1 2 3
Down x 1 1
Move 1 1
Sleep soon
Up 1 1 1 buttons=lots
Down 1 1 1 mods=hyper
Reset now
`))
	if err == nil {
		t.Fatal("expected errors")
	}
	if !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("error %v does not wrap ErrUnknownCommand", err)
	}
	for line := 2; line <= 8; line++ {
		if want := "line " + string(rune('0'+line)) + ":"; !strings.Contains(err.Error(), want) {
			t.Errorf("error does not report %q: %v", want, err)
		}
	}
}

// testScene is an opaque surface in front of drop targets A (x 30..50) and
// B (x 50..70).
func testScene() *scene.Scene {
	opaque := color.NRGBA{A: 0xff}
	surface := &hittest.Node{ID: "surface", Rect: pointer.R(0, 0, 100, 100), Z: 10, Alpha: 1, Fill: opaque}
	a := &hittest.Node{ID: "A", Rect: pointer.R(30, 0, 20, 20), Z: 1, Alpha: 1, Fill: opaque}
	b := &hittest.Node{ID: "B", Rect: pointer.R(50, 0, 20, 20), Z: 1, Alpha: 1, Fill: opaque}
	return &scene.Scene{Name: "test", Doc: hittest.NewScene(a, b, surface), Surface: surface}
}

func replay(t *testing.T, sc *scene.Scene, src string) []Record {
	t.Helper()
	records, err := Replay(parse(t, src), sc, dispatch.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	return records
}

// only keeps gesture records of the given types.
func only(records []Record, types ...string) []Record {
	var out []Record
	for _, r := range records {
		if r.Source != SourceGesture {
			continue
		}
		for _, typ := range types {
			if r.Type == typ {
				out = append(out, r)
			}
		}
	}
	return out
}

func typesOf(records []Record) string {
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Type
	}
	return strings.Join(names, " ")
}

func TestReplayClick(t *testing.T) {
	records := replay(t, testScene(), `
Down 1 10 10
Up 1 10 10
Sleep 300ms
`)
	got := only(records, "clickstart", "click", "doubleclick", "clickend")
	if typesOf(got) != "clickstart click clickend" {
		t.Fatalf("click records = %q", typesOf(got))
	}
	if got[1].Line != 4 {
		t.Errorf("click fired on line %d, want the Sleep on line 4", got[1].Line)
	}
}

func TestReplayPendingClickNeedsSleep(t *testing.T) {
	records := replay(t, testScene(), "Down 1 10 10\nUp 1 10 10\n")
	if got := only(records, "click"); len(got) != 0 {
		t.Errorf("click fired without a Sleep: %v", got)
	}
}

func TestReplayDrag(t *testing.T) {
	records := replay(t, testScene(), `
Down 1 10 10
Move 1 40 10
Move 1 60 10
Up 1 60 10
`)
	got := only(records, "dragstart", "dragenter", "dragleave", "dragdrop", "dragend")
	if typesOf(got) != "dragstart dragenter dragleave dragenter dragleave dragdrop dragend" {
		t.Fatalf("drag records = %q", typesOf(got))
	}
	targets := []string{got[1].Target, got[2].Target, got[3].Target, got[4].Target, got[5].Target}
	if strings.Join(targets, ",") != "A,A,B,B,B" {
		t.Errorf("targets = %v", targets)
	}

	var cursors []string
	for _, r := range records {
		if r.Source == SourceCursor {
			cursors = append(cursors, r.Type)
		}
	}
	if strings.Join(cursors, ",") != dispatch.DefaultDragCursor+",default" {
		t.Errorf("cursor records = %v", cursors)
	}
}

func TestReplayForwardsThroughWindow(t *testing.T) {
	records := replay(t, scene.Default(), "Move 1 30 12\nMove 1 5 5\n")
	var forwarded []string
	for _, r := range records {
		if r.Source == SourceForward {
			forwarded = append(forwarded, r.Type+":"+r.Target)
		}
	}
	want := "over:shelf enter:shelf move:shelf out:shelf leave:shelf"
	if strings.Join(forwarded, " ") != want {
		t.Errorf("forwarded = %v, want %s", forwarded, want)
	}
	if got := only(records, "hoverenter"); len(got) != 1 || got[0].Line != 2 {
		t.Errorf("hoverenter = %v, want one on line 2", got)
	}
}

func TestWriteJSON(t *testing.T) {
	records := replay(t, testScene(), "Down 1 10 10\nMove 1 40 10\nUp 1 40 10\n")
	var buf bytes.Buffer
	if err := WriteJSON(&buf, records); err != nil {
		t.Fatal(err)
	}
	back, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v\n%s", err, buf.String())
	}
	if len(back) != len(records) || back[len(back)-1] != records[len(records)-1] {
		t.Errorf("round trip mismatch:\n%v\n%v", back, records)
	}
}

func TestWriteTable(t *testing.T) {
	records := replay(t, testScene(), "Down 1 10 10\nMove 1 40 10\nUp 1 40 10\n")
	var buf bytes.Buffer
	if err := WriteTable(&buf, records, false); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"TYPE", "dragdrop", "A"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}
