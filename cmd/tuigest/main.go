// Package main is the entry point for tuigest.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Global flags
var (
	debugMode        bool
	logLevel         string
	sceneFile        string
	opacityThreshold float64
	dragDistance     float64
	doubleClickDelay time.Duration
	longClickDelay   time.Duration
	dropPollInterval time.Duration
	dragCursor       string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tuigest",
		Short: "Pointer gesture playground for the terminal",
		Long: `tuigest - pointer gesture disambiguation

Turns raw mouse input into hover, click, long click, double click and
drag-and-drop gestures over a layered scene. Elements that are transparent
under the pointer are skipped, and input that lands on a see-through part
of the surface is forwarded to whatever lies behind it.

Running tuigest with no command opens the interactive demo.`,
		Example: `  # Run the demo over the built-in scene
  tuigest

  # Run the demo over your own scene
  tuigest --scene board.toml

  # Start dragging after 6 cells of travel
  tuigest --drag-distance 6

  # Replay a trace deterministically
  tuigest replay click.trace

  # Replay as JSON for scripting
  tuigest replay drag.trace --json | jq '.[] | select(.source == "gesture")'

  # Check a trace for errors
  tuigest validate drag.trace

  # Edit configuration
  tuigest config edit`,
		Version: version,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(cmd)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default: from config or info)")
	rootCmd.PersistentFlags().StringVar(&sceneFile, "scene", "", "Scene file (TOML); empty uses the built-in scene")
	rootCmd.PersistentFlags().Float64Var(&opacityThreshold, "opacity-threshold", 0, "Alpha at which an element counts as opaque (default: from config or 0.1)")
	rootCmd.PersistentFlags().Float64Var(&dragDistance, "drag-distance", 0, "Travel that turns a press into a drag, 0 uses the default (default: from config or 3)")
	rootCmd.PersistentFlags().DurationVar(&doubleClickDelay, "double-click-delay", 0, "Max gap between the clicks of a double click (default: from config or 250ms)")
	rootCmd.PersistentFlags().DurationVar(&longClickDelay, "long-click-delay", 0, "Hold time for a long click, 0 disables (default: from config or 500ms)")
	rootCmd.PersistentFlags().DurationVar(&dropPollInterval, "drop-poll-interval", 0, "Drop target re-check while stationary, 0 disables (default: from config or 500ms)")
	rootCmd.PersistentFlags().StringVar(&dragCursor, "drag-cursor", "", "Cursor hint while dragging (default: from config or grabbing)")

	var replayJSON bool

	replayCmd := &cobra.Command{
		Use:   "replay <file.trace>",
		Short: "Replay a trace and print the gestures it produces",
		Long: `Replay a trace script against a scene on a simulated clock

Each line of the trace is a pointer command (Down, Up, Move, Leave,
CancelPointer) or a control command (Sleep, CancelDrag, Reset). Timers only
fire while the trace sleeps, so the output is the same on every run.

Output is a table, colored when stdout is a terminal. Use --json for
machine-readable output.`,
		Example: `  # Replay over the built-in scene
  tuigest replay click.trace

  # Replay over a custom scene with a longer double click window
  tuigest replay click.trace --scene board.toml --double-click-delay 400ms

  # JSON output
  tuigest replay drag.trace --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, args[0], replayJSON)
		},
	}
	replayCmd.Flags().BoolVar(&replayJSON, "json", false, "Output as JSON")

	validateCmd := &cobra.Command{
		Use:   "validate <file.trace>",
		Short: "Validate trace file syntax",
		Long: `Parse a trace file and report every malformed line

If --scene is given, the scene file is checked as well.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args[0])
		},
	}

	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "List the gesture vocabulary",
		Long:  `Display every gesture event type and when it is emitted`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return listEvents()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage tuigest configuration",
		Long:  `Manage tuigest configuration file and settings`,
	}

	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		Long:  `Print the path to the tuigest configuration file`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return printConfigPath()
		},
	}

	configShowCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration tuigest would run with

This is the configuration file with defaults filled in and command line
flags applied.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showConfig(cmd)
		},
	}

	configEditCmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit configuration in $EDITOR",
		Long: `Open the tuigest configuration file in your default editor

The editor is determined by checking $EDITOR, $VISUAL, or common editors
like vim, vi, nano, and emacs in that order.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return editConfigFile()
		},
	}

	var resetYes bool

	configResetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		Long: `Reset the tuigest configuration file to default settings

This will overwrite your existing configuration after confirmation.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return resetConfigToDefaults(resetYes)
		},
	}
	configResetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "Skip the confirmation prompt")

	configCmd.AddCommand(configPathCmd, configShowCmd, configEditCmd, configResetCmd)

	rootCmd.AddCommand(replayCmd, validateCmd, eventsCmd, configCmd)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
	); err != nil {
		os.Exit(1)
	}
}
