package input

import (
	"time"

	tea "charm.land/bubbletea/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/Gaurav-Gosain/tuigest/internal/app"
)

// now is replaced in tests.
var now = time.Now

// toMouseEvent converts a Bubble Tea mouse message into the ultraviolet
// event the pointer decoder understands. It returns nil for unknown
// messages.
func toMouseEvent(msg tea.MouseMsg) uv.MouseEvent {
	mouse := msg.Mouse()
	m := uv.Mouse{
		X:      mouse.X,
		Y:      mouse.Y,
		Button: uv.MouseButton(mouse.Button),
		Mod:    uv.KeyMod(mouse.Mod),
	}
	switch msg.(type) {
	case tea.MouseClickMsg:
		return uv.MouseClickEvent(m)
	case tea.MouseReleaseMsg:
		return uv.MouseReleaseEvent(m)
	case tea.MouseMotionMsg:
		return uv.MouseMotionEvent(m)
	case tea.MouseWheelMsg:
		return uv.MouseWheelEvent(m)
	}
	return nil
}

func handleMouse(msg tea.MouseMsg, m *app.Demo) (*app.Demo, tea.Cmd) {
	event := toMouseEvent(msg)
	if event == nil {
		return m, nil
	}
	m.Feed(m.Decoder().Decode(event, now()))
	return m, nil
}
