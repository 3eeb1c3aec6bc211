// Package config provides the user configuration file, its defaults, and CLI
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"charm.land/log/v2"
	"github.com/adrg/xdg"
	"github.com/hashicorp/go-multierror"
	"github.com/pelletier/go-toml/v2"

	"github.com/Gaurav-Gosain/tuigest/internal/dispatch"
)

const relPath = "tuigest/config.toml"

// UserConfig represents the user's custom configuration
type UserConfig struct {
	Gesture GestureConfig `toml:"gesture"`
	Logging LoggingConfig `toml:"logging"`
	Demo    DemoConfig    `toml:"demo"`
}

// GestureConfig holds the dispatcher settings. Pointer fields distinguish an
// explicit zero from an unset key.
type GestureConfig struct {
	OpacityThreshold   *float64 `toml:"opacity_threshold"`     // Alpha at which an element counts as opaque, 0 to 1 (default: 0.1)
	DragDistance       *float64 `toml:"drag_distance"`         // Travel that turns a press into a drag, 0 uses the default (default: 3)
	DoubleClickDelayMS int      `toml:"double_click_delay_ms"` // Max gap between the clicks of a double click (default: 250)
	LongClickDelayMS   *int     `toml:"long_click_delay_ms"`   // Hold time for a longclick, 0 disables (default: 500)
	DropPollIntervalMS *int     `toml:"drop_poll_interval_ms"` // Drop target re-check while stationary, 0 disables (default: 500)
	DragCursor         string   `toml:"drag_cursor"`           // Cursor hint while dragging (default: grabbing)
	DropExcludeClasses []string `toml:"drop_exclude_classes"`  // Element classes that never become drop targets
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string `toml:"level"` // debug, info, warn, error (default: info)
	File  string `toml:"file"`  // Log file; empty logs to stderr for commands and nowhere for the demo
}

// DemoConfig holds settings for the interactive demo
type DemoConfig struct {
	Scene      string `toml:"scene"`       // Scene file; empty uses the built-in scene
	CellSize   int    `toml:"cell_size"`   // Surface units per terminal cell (default: 1)
	LogEntries int    `toml:"log_entries"` // Gesture events kept in the on-screen log (default: 200, max: 10000)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *UserConfig {
	threshold := dispatch.DefaultOpacityThreshold
	distance := float64(dispatch.DefaultDragStartDistance)
	long := int(dispatch.DefaultLongClickDelay / time.Millisecond)
	poll := int(dispatch.DefaultDropPollInterval / time.Millisecond)
	return &UserConfig{
		Gesture: GestureConfig{
			OpacityThreshold:   &threshold,
			DragDistance:       &distance,
			DoubleClickDelayMS: int(dispatch.DefaultDoubleClickDelay / time.Millisecond),
			LongClickDelayMS:   &long,
			DropPollIntervalMS: &poll,
			DragCursor:         dispatch.DefaultDragCursor,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Demo: DemoConfig{
			CellSize:   1,
			LogEntries: 200,
		},
	}
}

// LoadUserConfig loads the user configuration from XDG config directory,
// creating a default file on first use.
func LoadUserConfig() (*UserConfig, error) {
	configPath, err := xdg.SearchConfigFile(relPath)
	if err != nil {
		return createDefaultConfig()
	}
	return LoadFile(configPath)
}

// LoadFile reads, completes and validates the configuration at path.
func LoadFile(path string) (*UserConfig, error) {
	// #nosec G304 - reading the user's config file is intentional
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg UserConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	fillMissing(&cfg, DefaultConfig())

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// ResetConfig overwrites the config file with the defaults and returns its
// path.
func ResetConfig() (string, error) {
	configPath, err := xdg.ConfigFile(relPath)
	if err != nil {
		return "", fmt.Errorf("failed to get config path: %w", err)
	}
	if err := WriteFile(configPath, DefaultConfig()); err != nil {
		return "", err
	}
	return configPath, nil
}

func createDefaultConfig() (*UserConfig, error) {
	cfg := DefaultConfig()

	configPath, err := xdg.ConfigFile(relPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	if err := WriteFile(configPath, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WriteFile writes cfg to path with a commented header, creating parent
// directories as needed.
func WriteFile(path string, cfg *UserConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# tuigest configuration file\n")
	sb.WriteString("#\n")
	sb.WriteString("# Configuration location: " + path + "\n")
	sb.WriteString("# CLI flags override every value in this file.\n\n")

	sb.WriteString("# ============================================================================\n")
	sb.WriteString("# GESTURE SETTINGS\n")
	sb.WriteString("# ============================================================================\n")
	sb.WriteString("# opacity_threshold: composited alpha at which the surface or a drop target\n")
	sb.WriteString("#   is hit. 0 treats every element as opaque. Range: 0 to 1\n")
	sb.WriteString("#\n")
	sb.WriteString("# drag_distance: how far a press travels before it becomes a drag, 0 uses the default\n")
	sb.WriteString("#\n")
	sb.WriteString("# long_click_delay_ms / drop_poll_interval_ms: 0 disables\n")
	sb.WriteString("#\n")
	sb.WriteString("# drop_exclude_classes: element classes never used as drop targets\n")
	sb.WriteString("# ============================================================================\n\n")

	sb.Write(data)

	if err := os.WriteFile(path, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func fillMissing(cfg, defaultCfg *UserConfig) {
	g, dg := &cfg.Gesture, defaultCfg.Gesture
	if g.OpacityThreshold == nil {
		g.OpacityThreshold = dg.OpacityThreshold
	}
	if g.DragDistance == nil {
		g.DragDistance = dg.DragDistance
	}
	if g.DoubleClickDelayMS == 0 {
		g.DoubleClickDelayMS = dg.DoubleClickDelayMS
	}
	if g.LongClickDelayMS == nil {
		g.LongClickDelayMS = dg.LongClickDelayMS
	}
	if g.DropPollIntervalMS == nil {
		g.DropPollIntervalMS = dg.DropPollIntervalMS
	}
	if g.DragCursor == "" {
		g.DragCursor = dg.DragCursor
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaultCfg.Logging.Level
	}

	if cfg.Demo.CellSize <= 0 {
		cfg.Demo.CellSize = defaultCfg.Demo.CellSize
	}
	if cfg.Demo.LogEntries <= 0 {
		cfg.Demo.LogEntries = defaultCfg.Demo.LogEntries
	} else if cfg.Demo.LogEntries > 10000 {
		cfg.Demo.LogEntries = 10000
	}
}

// Validate reports every invalid setting at once.
func (c *UserConfig) Validate() error {
	var result *multierror.Error
	if err := c.Dispatch().Validate(); err != nil {
		result = multierror.Append(result, err)
	}
	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		result = multierror.Append(result, fmt.Errorf("logging level %q: %w", c.Logging.Level, err))
	}
	return result.ErrorOrNil()
}

// Dispatch converts the gesture settings into a dispatcher configuration.
// Unset fields take the dispatcher defaults.
func (c *UserConfig) Dispatch() dispatch.Config {
	out := dispatch.DefaultConfig()
	g := c.Gesture
	if g.OpacityThreshold != nil {
		out.OpacityThreshold = *g.OpacityThreshold
	}
	if g.DragDistance != nil {
		out.DragStartDistance = *g.DragDistance
	}
	if g.DoubleClickDelayMS != 0 {
		out.DoubleClickDelay = ms(g.DoubleClickDelayMS)
	}
	if g.LongClickDelayMS != nil {
		out.LongClickDelay = ms(*g.LongClickDelayMS)
	}
	if g.DropPollIntervalMS != nil {
		out.DropPollInterval = ms(*g.DropPollIntervalMS)
	}
	if g.DragCursor != "" {
		out.DragCursor = g.DragCursor
	}
	out.DropExcludeClasses = append([]string(nil), g.DropExcludeClasses...)
	return out
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	path, err := xdg.SearchConfigFile(relPath)
	if err != nil {
		// Return where it would be created
		return xdg.ConfigFile(relPath)
	}
	return path, nil
}
