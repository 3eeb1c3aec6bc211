package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "charm.land/bubbletea/v2"
	"charm.land/log/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Gaurav-Gosain/tuigest/internal/app"
	"github.com/Gaurav-Gosain/tuigest/internal/config"
	"github.com/Gaurav-Gosain/tuigest/internal/input"
	"github.com/Gaurav-Gosain/tuigest/internal/scene"
	"github.com/Gaurav-Gosain/tuigest/internal/trace"
)

// loadConfig reads the user config and applies the flags that were set on
// the command line.
func loadConfig(cmd *cobra.Command) (*config.UserConfig, error) {
	userConfig, err := config.LoadUserConfig()
	if err != nil {
		log.Warn("failed to load config, using defaults", "err", err)
		userConfig = config.DefaultConfig()
	}

	overrides := config.Overrides{
		LogLevel:   logLevel,
		Debug:      debugMode,
		Scene:      sceneFile,
		DragCursor: dragCursor,
	}
	flags := cmd.Flags()
	if flags.Changed("opacity-threshold") {
		overrides.OpacityThreshold = &opacityThreshold
	}
	if flags.Changed("drag-distance") {
		overrides.DragDistance = &dragDistance
	}
	if flags.Changed("double-click-delay") {
		overrides.DoubleClickDelay = &doubleClickDelay
	}
	if flags.Changed("long-click-delay") {
		overrides.LongClickDelay = &longClickDelay
	}
	if flags.Changed("drop-poll-interval") {
		overrides.DropPollInterval = &dropPollInterval
	}
	config.ApplyOverrides(overrides, userConfig)

	if err := userConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return userConfig, nil
}

// newLogger returns a logger writing to the configured log file, or to
// fallback when none is set. The returned closer releases the file.
func newLogger(cfg *config.UserConfig, fallback io.Writer) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, nil, err
	}
	w, closer := fallback, func() {}
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open log file: %w", err)
		}
		w = f
		closer = func() {
			if closeErr := f.Close(); closeErr != nil {
				log.Warn("failed to close log file", "err", closeErr)
			}
		}
	}
	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})
	return logger, closer, nil
}

func loadScene(path string) (*scene.Scene, error) {
	if path == "" {
		return scene.Default(), nil
	}
	sc, err := scene.Load(path)
	if err != nil {
		return nil, err
	}
	return sc, nil
}

func runDemo(cmd *cobra.Command) error {
	userConfig, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// The demo owns the terminal, so logs only go to a file.
	logger, closeLog, err := newLogger(userConfig, io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	sc, err := loadScene(userConfig.Demo.Scene)
	if err != nil {
		return err
	}

	if debugMode {
		configPath, _ := config.GetConfigPath()
		logger.Debug("starting demo", "config", configPath, "scene", sc.Name)
	}

	app.SetInputHandler(input.HandleInput)

	demo := app.New(sc, app.Options{
		Config:     userConfig.Dispatch(),
		Logger:     logger,
		CellSize:   float64(userConfig.Demo.CellSize),
		LogEntries: userConfig.Demo.LogEntries,
	})

	p := tea.NewProgram(demo, tea.WithoutSignalHandler())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		p.Send(tea.QuitMsg{})
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

func readTrace(path string) ([]trace.Command, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace: %w", err)
	}
	defer func() { _ = f.Close() }()

	cmds, err := trace.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cmds, nil
}

func runReplay(cmd *cobra.Command, path string, asJSON bool) error {
	userConfig, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(userConfig, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	cmds, err := readTrace(path)
	if err != nil {
		return err
	}
	sc, err := loadScene(userConfig.Demo.Scene)
	if err != nil {
		return err
	}

	records, err := trace.Replay(cmds, sc, userConfig.Dispatch(), logger)
	if err != nil {
		return fmt.Errorf("replay failed: %w", err)
	}

	if asJSON {
		return trace.WriteJSON(os.Stdout, records)
	}
	return trace.WriteTable(os.Stdout, records, term.IsTerminal(int(os.Stdout.Fd())))
}

func runValidate(path string) error {
	cmds, err := readTrace(path)
	if err != nil {
		return err
	}
	if sceneFile != "" {
		if _, err := scene.Load(sceneFile); err != nil {
			return err
		}
	}
	fmt.Printf("%s: %d commands OK\n", path, len(cmds))
	return nil
}
