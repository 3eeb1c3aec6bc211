package sched

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

// FiredMsg is delivered to the Bubble Tea program when a Loop task is due.
// The model must pass it back to Loop.Fire from its Update method.
type FiredMsg struct {
	ID uint64
}

// Loop is a Scheduler for Bubble Tea programs. Each scheduled task becomes a
// tea.Tick command; the resulting FiredMsg runs the task inside Update, so
// tasks share the program goroutine with every other event.
type Loop struct {
	now     func() time.Time
	seq     uint64
	tasks   map[uint64]*loopTask
	pending []tea.Cmd
}

type loopTask struct {
	l  *Loop
	id uint64
	fn func()
}

func (t *loopTask) Cancel() {
	delete(t.l.tasks, t.id)
}

// NewLoop returns an empty Loop using the wall clock.
func NewLoop() *Loop {
	return &Loop{now: time.Now, tasks: make(map[uint64]*loopTask)}
}

func (l *Loop) Now() time.Time {
	return l.now()
}

func (l *Loop) AfterFunc(d time.Duration, fn func()) Task {
	l.seq++
	id := l.seq
	t := &loopTask{l: l, id: id, fn: fn}
	l.tasks[id] = t
	l.pending = append(l.pending, tea.Tick(d, func(time.Time) tea.Msg {
		return FiredMsg{ID: id}
	}))
	return t
}

// Cmd drains the commands for tasks scheduled since the last call. Models
// return it from Update after handing events to the engine.
func (l *Loop) Cmd() tea.Cmd {
	if len(l.pending) == 0 {
		return nil
	}
	cmds := l.pending
	l.pending = nil
	return tea.Batch(cmds...)
}

// Fire runs the task behind msg unless it was canceled. It reports whether a
// task ran.
func (l *Loop) Fire(msg FiredMsg) bool {
	t, ok := l.tasks[msg.ID]
	if !ok {
		return false
	}
	delete(l.tasks, msg.ID)
	t.fn()
	return true
}

// Pending returns the number of live tasks.
func (l *Loop) Pending() int {
	return len(l.tasks)
}
