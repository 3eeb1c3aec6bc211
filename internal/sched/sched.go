// Package sched provides the cancellable scheduled tasks the gesture engine
// uses for its timers, with a deterministic implementation for tests and
// replays and a Bubble Tea backed implementation for interactive hosts.
//
// Tasks always run on the goroutine that drives the host loop; the engine is
// single threaded and never locks.
package sched

import "time"

// Task is a scheduled callback. Cancel is idempotent and safe to call after
// the task has run.
type Task interface {
	Cancel()
}

// Scheduler schedules callbacks on the host loop and reports the current time.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Task
}

// Manual is a Scheduler driven by an explicit fake clock. Nothing runs until
// Advance is called.
type Manual struct {
	now   time.Time
	seq   uint64
	tasks []*manualTask
}

type manualTask struct {
	at       time.Time
	seq      uint64
	fn       func()
	canceled bool
}

func (t *manualTask) Cancel() {
	t.canceled = true
}

// NewManual returns a Manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	return m.now
}

func (m *Manual) AfterFunc(d time.Duration, fn func()) Task {
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTask{at: m.now.Add(d), seq: m.seq, fn: fn}
	m.tasks = append(m.tasks, t)
	return t
}

// Pending returns the number of tasks that are scheduled and not canceled.
func (m *Manual) Pending() int {
	n := 0
	for _, t := range m.tasks {
		if !t.canceled {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d, running every task that becomes due
// in deadline order. Tasks scheduled by running tasks are honored if they
// fall inside the window.
func (m *Manual) Advance(d time.Duration) {
	end := m.now.Add(d)
	for {
		next := m.nextDue(end)
		if next == nil {
			break
		}
		m.now = next.at
		next.canceled = true
		next.fn()
	}
	m.now = end
	m.compact()
}

func (m *Manual) nextDue(end time.Time) *manualTask {
	var best *manualTask
	for _, t := range m.tasks {
		if t.canceled || t.at.After(end) {
			continue
		}
		if best == nil || t.at.Before(best.at) || (t.at.Equal(best.at) && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (m *Manual) compact() {
	live := m.tasks[:0]
	for _, t := range m.tasks {
		if !t.canceled {
			live = append(live, t)
		}
	}
	m.tasks = live
}
