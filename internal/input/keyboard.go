package input

import (
	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/tuigest/internal/app"
)

// HandleKeyPress handles the demo's keyboard commands
func HandleKeyPress(msg tea.KeyPressMsg, m *app.Demo) (*app.Demo, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.CancelDrag()
	case "r":
		m.Reset()
	case "c":
		m.Events().Clear()
	}
	return m, nil
}
