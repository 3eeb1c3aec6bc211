package app

import (
	"time"

	"github.com/Gaurav-Gosain/tuigest/internal/gesture"
)

// EntryKind tells log entries apart for styling.
type EntryKind int

const (
	EntryGesture EntryKind = iota
	EntryForward
	EntryNote
)

// Entry is one line of the event log.
type Entry struct {
	Kind EntryKind
	Type gesture.Type
	Time time.Time
	Text string
}

// EventLog keeps the most recent entries in a ring buffer.
type EventLog struct {
	entries []Entry
	start   int
	n       int
}

// NewEventLog returns a log holding up to size entries. Non-positive sizes
// default to 200.
func NewEventLog(size int) *EventLog {
	if size <= 0 {
		size = 200
	}
	return &EventLog{entries: make([]Entry, size)}
}

// Add appends e, evicting the oldest entry when full.
func (l *EventLog) Add(e Entry) {
	if l.n < len(l.entries) {
		l.entries[(l.start+l.n)%len(l.entries)] = e
		l.n++
		return
	}
	l.entries[l.start] = e
	l.start = (l.start + 1) % len(l.entries)
}

// Len returns the number of entries held.
func (l *EventLog) Len() int { return l.n }

// Tail returns up to n of the newest entries, oldest first.
func (l *EventLog) Tail(n int) []Entry {
	if n > l.n {
		n = l.n
	}
	if n <= 0 {
		return nil
	}
	out := make([]Entry, n)
	for i := range n {
		out[i] = l.entries[(l.start+l.n-n+i)%len(l.entries)]
	}
	return out
}

// Clear drops every entry.
func (l *EventLog) Clear() {
	l.start, l.n = 0, 0
}
