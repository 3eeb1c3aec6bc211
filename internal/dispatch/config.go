package dispatch

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/Gaurav-Gosain/tuigest/internal/gesture"
)

// Default configuration values.
const (
	DefaultOpacityThreshold  = 0.1
	DefaultDragStartDistance = 3
	DefaultDoubleClickDelay  = 250 * time.Millisecond
	DefaultLongClickDelay    = 500 * time.Millisecond
	DefaultDropPollInterval  = 500 * time.Millisecond
	DefaultDragCursor        = "grabbing"
)

// Config is the immutable per dispatcher configuration. It may be shared
// between surfaces.
type Config struct {
	// OpacityThreshold is the composited alpha at which the surface, or a
	// drop target, counts as opaque. Zero treats every element as opaque.
	OpacityThreshold float64
	// DragStartDistance is how far a press must travel to become a drag.
	// Zero uses DefaultDragStartDistance.
	DragStartDistance float64
	// DoubleClickDelay is the longest gap between the release of a click
	// and the second press of a double click. Zero uses
	// DefaultDoubleClickDelay.
	DoubleClickDelay time.Duration
	// LongClickDelay is how long a press must be held for a longclick.
	// Zero disables long clicks.
	LongClickDelay time.Duration
	// DropPollInterval re-evaluates the drop target while the pointer is
	// stationary. Zero disables polling.
	DropPollInterval time.Duration
	// DragCursor is the cursor hint applied while a drag is active. Empty
	// uses DefaultDragCursor.
	DragCursor string
	// DropExcludeClasses names element classes that are never drop targets.
	DropExcludeClasses []string
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		OpacityThreshold:  DefaultOpacityThreshold,
		DragStartDistance: DefaultDragStartDistance,
		DoubleClickDelay:  DefaultDoubleClickDelay,
		LongClickDelay:    DefaultLongClickDelay,
		DropPollInterval:  DefaultDropPollInterval,
		DragCursor:        DefaultDragCursor,
	}
}

// Validate reports every out of range field.
func (c Config) Validate() error {
	var result *multierror.Error
	if c.OpacityThreshold < 0 || c.OpacityThreshold > 1 {
		result = multierror.Append(result, fmt.Errorf("opacity threshold %g is outside [0, 1]", c.OpacityThreshold))
	}
	if c.DragStartDistance < 0 {
		result = multierror.Append(result, fmt.Errorf("drag start distance %g is negative", c.DragStartDistance))
	}
	if c.DoubleClickDelay <= 0 {
		result = multierror.Append(result, fmt.Errorf("double click delay %s must be positive", c.DoubleClickDelay))
	}
	if c.LongClickDelay < 0 {
		result = multierror.Append(result, fmt.Errorf("long click delay %s is negative", c.LongClickDelay))
	}
	if c.DropPollInterval < 0 {
		result = multierror.Append(result, fmt.Errorf("drop poll interval %s is negative", c.DropPollInterval))
	}
	return result.ErrorOrNil()
}

// withDefaults fills the fields whose zero value has no usable meaning.
func (c Config) withDefaults() Config {
	if c.DragStartDistance == 0 {
		c.DragStartDistance = DefaultDragStartDistance
	}
	if c.DoubleClickDelay == 0 {
		c.DoubleClickDelay = DefaultDoubleClickDelay
	}
	if c.DragCursor == "" {
		c.DragCursor = DefaultDragCursor
	}
	return c
}

func (c Config) gesture() gesture.Config {
	return gesture.Config{
		DragStartDistance: c.DragStartDistance,
		DoubleClickDelay:  c.DoubleClickDelay,
		LongClickDelay:    c.LongClickDelay,
		DropPollInterval:  c.DropPollInterval,
	}
}
