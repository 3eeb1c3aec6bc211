package pointer

import (
	"testing"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
)

func TestButtonsDiff(t *testing.T) {
	tests := []struct {
		name         string
		from, to     Buttons
		wantReleased Buttons
		wantPressed  Buttons
	}{
		{name: "press primary", from: 0, to: ButtonPrimary, wantPressed: ButtonPrimary},
		{name: "release primary", from: ButtonPrimary, to: 0, wantReleased: ButtonPrimary},
		{name: "swap buttons", from: ButtonPrimary, to: ButtonSecondary, wantReleased: ButtonPrimary, wantPressed: ButtonSecondary},
		{name: "add secondary", from: ButtonPrimary, to: ButtonPrimary | ButtonSecondary, wantPressed: ButtonSecondary},
		{name: "no change", from: ButtonTertiary, to: ButtonTertiary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			released, pressed := tt.from.Diff(tt.to)
			if released != tt.wantReleased || pressed != tt.wantPressed {
				t.Errorf("Diff(%v -> %v) = (%v, %v), want (%v, %v)",
					tt.from, tt.to, released, pressed, tt.wantReleased, tt.wantPressed)
			}
		})
	}
}

func TestParseModifiers(t *testing.T) {
	m, err := ParseModifiers("shift+ctrl")
	if err != nil {
		t.Fatalf("ParseModifiers failed: %v", err)
	}
	if m != ModShift|ModCtrl {
		t.Errorf("got %v, want shift+ctrl", m)
	}
	if _, err := ParseModifiers("hyper"); err == nil {
		t.Error("expected error for unknown modifier")
	}
}

func TestTerminalDecoderTracksHeldButtons(t *testing.T) {
	var d TerminalDecoder
	now := time.Unix(0, 0)

	ev := d.Decode(uv.MouseClickEvent{X: 3, Y: 4, Button: uv.MouseLeft}, now)
	if ev.Kind != KindDown || ev.Buttons != ButtonPrimary {
		t.Fatalf("click decoded as %v", ev)
	}
	if ev.Position != Pt(3, 4) || ev.PointerID != MouseID || !ev.Primary {
		t.Errorf("unexpected click fields: %v", ev)
	}

	ev = d.Decode(uv.MouseClickEvent{X: 3, Y: 4, Button: uv.MouseRight}, now)
	if ev.Buttons != ButtonPrimary|ButtonSecondary {
		t.Errorf("second click buttons = %v", ev.Buttons)
	}

	ev = d.Decode(uv.MouseReleaseEvent{X: 3, Y: 4, Button: uv.MouseRight}, now)
	if ev.Kind != KindUp || ev.Buttons != ButtonPrimary {
		t.Errorf("release decoded as %v", ev)
	}

	// X10 style release without a button clears everything.
	ev = d.Decode(uv.MouseReleaseEvent{X: 3, Y: 4, Button: uv.MouseNone}, now)
	if ev.Buttons != 0 || d.Held() != 0 {
		t.Errorf("x10 release left buttons %v", ev.Buttons)
	}
}

func TestTerminalDecoderMotionWithUnseenButton(t *testing.T) {
	var d TerminalDecoder
	ev := d.Decode(uv.MouseMotionEvent{X: 1, Y: 1, Button: uv.MouseLeft}, time.Time{})
	if ev.Kind != KindMove {
		t.Fatalf("kind = %v, want move", ev.Kind)
	}
	if ev.Buttons != ButtonPrimary {
		t.Errorf("motion should carry the held button, got %v", ev.Buttons)
	}
}

func TestTerminalDecoderModifiers(t *testing.T) {
	var d TerminalDecoder
	ev := d.Decode(uv.MouseClickEvent{Button: uv.MouseLeft, Mod: uv.ModShift | uv.ModCtrl}, time.Time{})
	if ev.Modifiers != ModShift|ModCtrl {
		t.Errorf("modifiers = %v", ev.Modifiers)
	}
}

func TestRectContains(t *testing.T) {
	r := R(0, 0, 10, 5)
	if !r.Contains(Pt(0, 0)) || !r.Contains(Pt(9.5, 4.9)) {
		t.Error("expected points inside")
	}
	if r.Contains(Pt(10, 0)) || r.Contains(Pt(0, 5)) || r.Contains(Pt(-1, 2)) {
		t.Error("expected points outside")
	}
}
