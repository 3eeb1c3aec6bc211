// Package input routes Bubble Tea input messages into the demo.
//
// Mouse messages are decoded into raw pointer events and handed to the
// gesture dispatcher; keys drive the demo's own commands.
package input

import (
	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/tuigest/internal/app"
)

// HandleInput is the main input coordinator that routes messages to appropriate handlers
func HandleInput(msg tea.Msg, m *app.Demo) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return HandleKeyPress(msg, m)
	case tea.MouseMsg:
		return handleMouse(msg, m)
	case tea.BlurMsg:
		// The terminal stops reporting the mouse once it loses focus.
		m.Leave()
	}
	return m, nil
}
