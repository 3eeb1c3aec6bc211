// Package router forwards pointer events that a surface does not own to the
// element behind it, keeping hover notifications balanced for the elements
// it forwards to.
package router

import (
	"io"
	"sort"

	"charm.land/log/v2"

	"github.com/Gaurav-Gosain/tuigest/internal/hittest"
	"github.com/Gaurav-Gosain/tuigest/internal/pointer"
)

// Sink delivers a redispatched event to an element. Events passed to a Sink
// always have Synthetic set.
type Sink interface {
	Dispatch(target hittest.Element, ev pointer.Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(target hittest.Element, ev pointer.Event)

func (f SinkFunc) Dispatch(target hittest.Element, ev pointer.Event) { f(target, ev) }

// Router forwards events for one surface.
type Router struct {
	surface  hittest.Element
	provider hittest.Provider
	sink     Sink
	logger   *log.Logger
	targets  map[pointer.ID]hittest.Element
}

// New returns a Router for surface. A nil sink drops forwarded events.
func New(surface hittest.Element, provider hittest.Provider, sink Sink, logger *log.Logger) *Router {
	if sink == nil {
		sink = SinkFunc(func(hittest.Element, pointer.Event) {})
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Router{
		surface:  surface,
		provider: provider,
		sink:     sink,
		logger:   logger,
		targets:  make(map[pointer.ID]hittest.Element),
	}
}

// Forward redispatches ev to the element behind the surface at ev's
// position. When that element differs from the previous forwarding target
// of the pointer, out and leave are sent to the old target, then over and
// enter to the new one. It returns the target, or nil when nothing is
// behind.
func (r *Router) Forward(ev pointer.Event) hittest.Element {
	if ev.Kind == pointer.KindLeave || ev.Kind == pointer.KindOut {
		r.Release(ev)
		return nil
	}

	target := r.provider.NextElementBehind(r.surface, ev.Position)
	r.retarget(ev, target)
	if target == nil {
		return nil
	}
	if ev.Kind == pointer.KindEnter || ev.Kind == pointer.KindOver {
		// Covered by the synthesized bracket.
		return target
	}
	r.send(target, ev, ev.Kind)
	return target
}

func (r *Router) retarget(ev pointer.Event, target hittest.Element) {
	prev := r.targets[ev.PointerID]
	if prev == target {
		return
	}
	if prev != nil {
		r.send(prev, ev, pointer.KindOut)
		r.send(prev, ev, pointer.KindLeave)
	}
	if target != nil {
		r.logger.Debug("forwarding", "pointer", ev.PointerID, "target", target.ElementID())
		r.send(target, ev, pointer.KindOver)
		r.send(target, ev, pointer.KindEnter)
		r.targets[ev.PointerID] = target
	} else {
		delete(r.targets, ev.PointerID)
	}
}

// Release closes the forwarding bracket of ev's pointer, if any. Called when
// the pointer comes back to the surface, leaves it or disappears.
func (r *Router) Release(ev pointer.Event) {
	r.retarget(ev, nil)
}

// Target returns the element id is currently forwarded to.
func (r *Router) Target(id pointer.ID) hittest.Element {
	return r.targets[id]
}

// Reset closes every forwarding bracket in ascending pointer id order.
func (r *Router) Reset(ev pointer.Event) {
	ids := make([]pointer.ID, 0, len(r.targets))
	for id := range r.targets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		ev.PointerID = id
		r.Release(ev)
	}
}

func (r *Router) send(target hittest.Element, ev pointer.Event, kind pointer.Kind) {
	ev.Kind = kind
	ev.Synthetic = true
	ev.Legacy = false
	r.sink.Dispatch(target, ev)
}
