package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Gaurav-Gosain/tuigest/internal/config"
	"github.com/Gaurav-Gosain/tuigest/internal/gesture"
)

func printConfigPath() error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	fmt.Println(configPath)
	return nil
}

func showConfig(cmd *cobra.Command) error {
	userConfig, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	data, err := toml.Marshal(userConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = os.Stdout.Write(data)
	return err
}

func findEditor() string {
	for _, env := range []string{"EDITOR", "VISUAL"} {
		if editor := os.Getenv(env); editor != "" {
			return editor
		}
	}
	for _, editor := range []string{"vim", "vi", "nano", "emacs"} {
		if _, err := exec.LookPath(editor); err == nil {
			return editor
		}
	}
	return ""
}

func editConfigFile() error {
	// Creates the file with defaults on first use.
	if _, err := config.LoadUserConfig(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	editor := findEditor()
	if editor == "" {
		return fmt.Errorf("no editor found, set $EDITOR or edit %s manually", configPath)
	}

	// $EDITOR may carry arguments, e.g. "code --wait".
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], configPath)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor exited with error: %w", err)
	}

	if _, err := config.LoadFile(configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	return nil
}

func resetConfigToDefaults(yes bool) error {
	if !yes {
		configPath, err := config.GetConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
		fmt.Printf("This will overwrite %s with the defaults. Continue? [y/N] ", configPath)
		answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	configPath, err := config.ResetConfig()
	if err != nil {
		return fmt.Errorf("failed to reset config: %w", err)
	}
	fmt.Printf("Configuration reset: %s\n", configPath)
	return nil
}

var eventDescriptions = map[gesture.Type]string{
	gesture.HoverEnter:  "pointer moved onto the surface",
	gesture.HoverMove:   "pointer moved over the surface with no button held",
	gesture.HoverLeave:  "pointer left the surface or the window",
	gesture.ButtonDown:  "a button was pressed on the surface",
	gesture.ButtonUp:    "a button was released",
	gesture.ClickStart:  "press that may still become a click or a drag",
	gesture.Click:       "press and release without a drag, after the double click window",
	gesture.LongClick:   "button held in place for the long click delay",
	gesture.DoubleClick: "second click inside the double click window",
	gesture.ClickEnd:    "the click sequence is over",
	gesture.DragStart:   "press travelled past the drag distance",
	gesture.DragMove:    "pointer moved while dragging",
	gesture.DragEnter:   "drag moved onto a drop target",
	gesture.DragLeave:   "drag left its drop target",
	gesture.DragDrop:    "drag released over a drop target",
	gesture.DragEnd:     "the drag is over, dropped or not",
	gesture.DragCancel:  "the drag was cancelled",
}

func listEvents() error {
	color := term.IsTerminal(int(os.Stdout.Fd()))
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	nameStyle := cellStyle
	if color {
		nameStyle = cellStyle.Foreground(lipgloss.Color("#89b4fa"))
	}

	var rows [][]string
	for _, t := range gesture.Types() {
		family := "pointer"
		switch {
		case t.IsDrag():
			family = "drag"
		case t >= gesture.ClickStart:
			family = "click"
		case t <= gesture.HoverLeave:
			family = "hover"
		}
		rows = append(rows, []string{t.String(), family, eventDescriptions[t]})
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("EVENT", "FAMILY", "EMITTED WHEN").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return nameStyle
			}
			return cellStyle
		})
	fmt.Println(tbl.String())
	return nil
}
