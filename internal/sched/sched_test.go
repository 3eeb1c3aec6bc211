package sched

import (
	"testing"
	"time"
)

func TestManualRunsTasksInDeadlineOrder(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	var got []string
	m.AfterFunc(30*time.Millisecond, func() { got = append(got, "c") })
	m.AfterFunc(10*time.Millisecond, func() { got = append(got, "a") })
	m.AfterFunc(10*time.Millisecond, func() { got = append(got, "b") })

	m.Advance(20 * time.Millisecond)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("after 20ms got %v, want [a b]", got)
	}
	m.Advance(20 * time.Millisecond)
	if len(got) != 3 || got[2] != "c" {
		t.Fatalf("after 40ms got %v, want [a b c]", got)
	}
	if m.Pending() != 0 {
		t.Errorf("pending = %d, want 0", m.Pending())
	}
}

func TestManualCancel(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	ran := false
	task := m.AfterFunc(time.Millisecond, func() { ran = true })
	task.Cancel()
	task.Cancel()
	m.Advance(time.Second)
	if ran {
		t.Error("canceled task ran")
	}
}

func TestManualClockDuringTask(t *testing.T) {
	start := time.Unix(100, 0)
	m := NewManual(start)
	var at time.Time
	m.AfterFunc(250*time.Millisecond, func() { at = m.Now() })
	m.Advance(time.Second)
	if want := start.Add(250 * time.Millisecond); !at.Equal(want) {
		t.Errorf("task observed %v, want %v", at, want)
	}
	if want := start.Add(time.Second); !m.Now().Equal(want) {
		t.Errorf("clock = %v, want %v", m.Now(), want)
	}
}

func TestManualRescheduleFromTask(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	count := 0
	var tick func()
	tick = func() {
		count++
		m.AfterFunc(100*time.Millisecond, tick)
	}
	m.AfterFunc(100*time.Millisecond, tick)
	m.Advance(350 * time.Millisecond)
	if count != 3 {
		t.Errorf("periodic task ran %d times, want 3", count)
	}
}

func TestLoopFire(t *testing.T) {
	l := NewLoop()
	ran := 0
	l.AfterFunc(time.Millisecond, func() { ran++ })
	canceled := l.AfterFunc(time.Millisecond, func() { ran += 10 })
	canceled.Cancel()

	if l.Cmd() == nil {
		t.Fatal("expected a pending command")
	}
	if l.Cmd() != nil {
		t.Error("Cmd should drain pending commands")
	}

	if !l.Fire(FiredMsg{ID: 1}) {
		t.Error("first task should fire")
	}
	if l.Fire(FiredMsg{ID: 2}) {
		t.Error("canceled task should not fire")
	}
	if l.Fire(FiredMsg{ID: 1}) {
		t.Error("task should fire only once")
	}
	if ran != 1 {
		t.Errorf("ran = %d, want 1", ran)
	}
}
