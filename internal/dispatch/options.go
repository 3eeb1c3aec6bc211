package dispatch

import (
	"charm.land/log/v2"

	"github.com/Gaurav-Gosain/tuigest/internal/buttons"
	"github.com/Gaurav-Gosain/tuigest/internal/router"
	"github.com/Gaurav-Gosain/tuigest/internal/sched"
)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithConfig replaces the default configuration. Zero DragStartDistance,
// DoubleClickDelay and DragCursor take their defaults; a config that fails
// Validate is logged and the defaults are used instead.
func WithConfig(cfg Config) Option {
	return func(d *Dispatcher) { d.cfg = cfg }
}

// WithLogger sets the parent logger. Debug output traces routing and
// recovery decisions.
func WithLogger(logger *log.Logger) Option {
	return func(d *Dispatcher) { d.logger = logger }
}

// WithScheduler sets the scheduler driving the double click, long click and
// drop poll timers. The default is a sched.Loop.
func WithScheduler(s sched.Scheduler) Option {
	return func(d *Dispatcher) { d.clock = s }
}

// WithErrorReporter sets where handler errors go. The default logs them.
func WithErrorReporter(r ErrorReporter) Option {
	return func(d *Dispatcher) { d.reporter = r }
}

// WithCapturer enables pointer capture.
func WithCapturer(c buttons.Capturer) Option {
	return func(d *Dispatcher) { d.capturer = c }
}

// WithCursorSetter receives the drag cursor hint.
func WithCursorSetter(c CursorSetter) Option {
	return func(d *Dispatcher) { d.cursor = c }
}

// WithSink receives events forwarded to elements behind the surface.
func WithSink(s router.Sink) Option {
	return func(d *Dispatcher) { d.sink = s }
}
