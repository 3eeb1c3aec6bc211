package router

import (
	"fmt"
	"testing"

	"github.com/Gaurav-Gosain/tuigest/internal/hittest"
	"github.com/Gaurav-Gosain/tuigest/internal/pointer"
)

type delivery struct {
	target string
	kind   pointer.Kind
}

func (d delivery) String() string { return fmt.Sprintf("%s:%s", d.kind, d.target) }

type recordingSink struct {
	got []delivery
	ids []pointer.ID
}

func (s *recordingSink) Dispatch(target hittest.Element, ev pointer.Event) {
	s.got = append(s.got, delivery{target: target.ElementID(), kind: ev.Kind})
	s.ids = append(s.ids, ev.PointerID)
	if !ev.Synthetic || ev.Legacy {
		panic("router delivered a non-synthetic event")
	}
}

func setup() (*Router, *recordingSink, *hittest.Node) {
	surface := &hittest.Node{ID: "surface", Rect: pointer.R(0, 0, 50, 50), Z: 2, Alpha: 1}
	a := &hittest.Node{ID: "A", Rect: pointer.R(0, 0, 100, 50), Z: 1, Alpha: 1}
	b := &hittest.Node{ID: "B", Rect: pointer.R(0, 50, 100, 50), Z: 1, Alpha: 1}
	scene := hittest.NewScene(a, b, surface)
	sink := &recordingSink{}
	return New(surface, hittest.NewTester(scene), sink, nil), sink, surface
}

func move(id pointer.ID, x, y float64) pointer.Event {
	return pointer.Event{Kind: pointer.KindMove, PointerID: id, Position: pointer.Pt(x, y), Primary: true}
}

func assertDeliveries(t *testing.T, got []delivery, want ...delivery) {
	t.Helper()
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("deliveries = %v, want %v", got, want)
	}
}

func TestForwardSynthesizesBrackets(t *testing.T) {
	r, sink, _ := setup()

	if got := r.Forward(move(1, 10, 10)); got == nil || got.ElementID() != "A" {
		t.Fatalf("Forward target = %v, want A", got)
	}
	r.Forward(move(1, 20, 10))
	assertDeliveries(t, sink.got,
		delivery{"A", pointer.KindOver}, delivery{"A", pointer.KindEnter},
		delivery{"A", pointer.KindMove}, delivery{"A", pointer.KindMove},
	)

	sink.got = nil
	r.Forward(move(1, 10, 60))
	assertDeliveries(t, sink.got,
		delivery{"A", pointer.KindOut}, delivery{"A", pointer.KindLeave},
		delivery{"B", pointer.KindOver}, delivery{"B", pointer.KindEnter},
		delivery{"B", pointer.KindMove},
	)

	sink.got = nil
	r.Release(move(1, 10, 10))
	assertDeliveries(t, sink.got, delivery{"B", pointer.KindOut}, delivery{"B", pointer.KindLeave})
	if r.Target(1) != nil {
		t.Error("target kept after Release")
	}

	sink.got = nil
	r.Release(move(1, 10, 10))
	if len(sink.got) != 0 {
		t.Errorf("second Release delivered %v", sink.got)
	}
}

func TestForwardPerPointer(t *testing.T) {
	r, sink, _ := setup()
	r.Forward(move(1, 10, 10))
	r.Forward(move(2, 10, 60))
	sink.got = nil

	r.Forward(pointer.Event{Kind: pointer.KindLeave, PointerID: 1, Position: pointer.Pt(10, 10)})
	assertDeliveries(t, sink.got, delivery{"A", pointer.KindOut}, delivery{"A", pointer.KindLeave})
	if r.Target(2) == nil || r.Target(2).ElementID() != "B" {
		t.Errorf("pointer 2 target = %v, want B", r.Target(2))
	}
}

func TestForwardEnterIsCoveredByBracket(t *testing.T) {
	r, sink, _ := setup()
	r.Forward(pointer.Event{Kind: pointer.KindEnter, PointerID: 1, Position: pointer.Pt(10, 10)})
	assertDeliveries(t, sink.got, delivery{"A", pointer.KindOver}, delivery{"A", pointer.KindEnter})
}

func TestForwardNothingBehind(t *testing.T) {
	r, sink, _ := setup()
	if got := r.Forward(move(1, 500, 500)); got != nil {
		t.Errorf("Forward = %v, want nil", got)
	}
	if len(sink.got) != 0 {
		t.Errorf("deliveries = %v", sink.got)
	}
}

func TestReset(t *testing.T) {
	r, sink, _ := setup()
	r.Forward(move(1, 10, 10))
	r.Forward(move(2, 10, 60))
	sink.got = nil
	r.Reset(pointer.Event{})
	if len(sink.got) != 4 {
		t.Errorf("Reset deliveries = %v, want out+leave for both pointers", sink.got)
	}
	if r.Target(1) != nil || r.Target(2) != nil {
		t.Error("targets left after Reset")
	}
}

func TestResetOrdersByPointerID(t *testing.T) {
	for range 20 {
		r, sink, _ := setup()
		for _, id := range []pointer.ID{4, 2, 3, 1} {
			r.Forward(move(id, 10, 10))
		}
		sink.got, sink.ids = nil, nil
		r.Reset(pointer.Event{})

		want := []pointer.ID{1, 1, 2, 2, 3, 3, 4, 4}
		if fmt.Sprint(sink.ids) != fmt.Sprint(want) {
			t.Fatalf("Reset order = %v, want %v", sink.ids, want)
		}
	}
}

func TestDeduper(t *testing.T) {
	down := pointer.Event{Kind: pointer.KindDown, PointerID: 1}
	legacyDown := down
	legacyDown.Legacy = true
	legacyMove := pointer.Event{Kind: pointer.KindMove, PointerID: 1, Legacy: true}

	tests := []struct {
		name   string
		events []pointer.Event
		want   []bool
	}{
		{name: "duplicate dropped", events: []pointer.Event{down, legacyDown}, want: []bool{false, true}},
		{name: "only the first duplicate", events: []pointer.Event{down, legacyDown, legacyDown}, want: []bool{false, true, false}},
		{name: "lone legacy kept", events: []pointer.Event{legacyMove}, want: []bool{false}},
		{name: "kind mismatch kept", events: []pointer.Event{down, legacyMove}, want: []bool{false, false}},
		{name: "other pointer kept", events: []pointer.Event{{Kind: pointer.KindDown, PointerID: 2}, legacyDown}, want: []bool{false, false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDeduper()
			for i, ev := range tt.events {
				if got := d.Suppress(ev); got != tt.want[i] {
					t.Errorf("event %d: Suppress = %v, want %v", i, got, tt.want[i])
				}
			}
		})
	}
}
