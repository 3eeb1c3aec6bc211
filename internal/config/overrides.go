package config

import "time"

// Overrides contains CLI flag values that can override user config.
// Nil pointers and empty strings indicate the flag was not set.
type Overrides struct {
	// LogLevel overrides the logging level
	LogLevel string

	// Debug forces debug logging
	Debug bool

	// Scene overrides the demo scene file
	Scene string

	OpacityThreshold *float64
	DragDistance     *float64
	DoubleClickDelay *time.Duration
	LongClickDelay   *time.Duration
	DropPollInterval *time.Duration

	// DragCursor overrides the drag cursor hint
	DragCursor string
}

// ApplyOverrides applies CLI flag overrides to cfg. Flags take precedence
// over the file.
func ApplyOverrides(overrides Overrides, cfg *UserConfig) {
	if overrides.Debug {
		cfg.Logging.Level = "debug"
	} else if overrides.LogLevel != "" {
		cfg.Logging.Level = overrides.LogLevel
	}

	if overrides.Scene != "" {
		cfg.Demo.Scene = overrides.Scene
	}

	g := &cfg.Gesture
	if overrides.OpacityThreshold != nil {
		v := *overrides.OpacityThreshold
		g.OpacityThreshold = &v
	}
	if overrides.DragDistance != nil {
		v := *overrides.DragDistance
		g.DragDistance = &v
	}
	if overrides.DoubleClickDelay != nil {
		g.DoubleClickDelayMS = int(*overrides.DoubleClickDelay / time.Millisecond)
	}
	if overrides.LongClickDelay != nil {
		v := int(*overrides.LongClickDelay / time.Millisecond)
		g.LongClickDelayMS = &v
	}
	if overrides.DropPollInterval != nil {
		v := int(*overrides.DropPollInterval / time.Millisecond)
		g.DropPollIntervalMS = &v
	}
	if overrides.DragCursor != "" {
		g.DragCursor = overrides.DragCursor
	}
}
