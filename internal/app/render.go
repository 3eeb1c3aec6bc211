package app

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/Gaurav-Gosain/tuigest/internal/hittest"
	"github.com/Gaurav-Gosain/tuigest/internal/pointer"
)

const (
	logWidth     = 48
	minLogScreen = 90
)

var (
	surfaceColor = lipgloss.Color("#313244")
	emptyColor   = lipgloss.Color("#11111b")
	labelColor   = lipgloss.Color("#11111b")
	white, _     = colorful.Hex("#ffffff")

	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#cdd6f4")).Background(lipgloss.Color("#45475a"))
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#cba6f7"))
	gestureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#89b4fa"))
	dragStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#fab387"))
	forwardStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6adc8"))
	noteStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#f9e2af")).Italic(true)
)

// View renders the scene, the event log and a status bar.
func (m *Demo) View() tea.View {
	var view tea.View
	view.SetContent(m.Render())
	view.AltScreen = true
	// Hover needs motion without buttons held.
	view.MouseMode = tea.MouseModeAllMotion
	view.ReportFocus = true
	return view
}

// Render returns the frame as a string.
func (m *Demo) Render() string {
	if m.width <= 0 || m.height <= 1 {
		return "starting..."
	}
	h := m.height - 1
	sceneW := m.width
	var panel string
	if m.width >= minLogScreen {
		sceneW = m.width - logWidth
		panel = m.renderLog(logWidth, h)
	}
	body := m.renderScene(sceneW, h)
	if panel != "" {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, panel)
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatus(m.width))
}

func (m *Demo) scale() float64 {
	if m.decoder.CellSize == 0 {
		return 1
	}
	return m.decoder.CellSize
}

// painted returns the frontmost element visibly painted at p.
func (m *Demo) painted(p pointer.Point) hittest.Element {
	for _, el := range m.tester.Stack(p) {
		if m.tester.Alpha(el, p) >= hittest.DefaultOpacityThreshold {
			return el
		}
	}
	return nil
}

func (m *Demo) cellColor(el hittest.Element) color.Color {
	if el == nil {
		return emptyColor
	}
	c := el.Background()
	if c == nil {
		c = surfaceColor
	}
	if el.ElementID() == m.target || el.ElementID() == m.forward {
		if cf, ok := colorful.MakeColor(c); ok {
			return cf.BlendLab(white, 0.35).Clamped()
		}
	}
	return c
}

func (m *Demo) renderScene(w, h int) string {
	scale := m.scale()
	labels := make(map[[2]int]rune)
	for _, n := range m.scene.Doc.Nodes() {
		x := int(n.Rect.Min.X/scale) + 1
		y := int(n.Rect.Min.Y / scale)
		p := pointer.Pt(float64(x)*scale, float64(y)*scale)
		if el := m.painted(p); el == nil || el.ElementID() != n.ID {
			continue
		}
		for i, r := range n.ID {
			labels[[2]int{x + i, y}] = r
		}
	}

	lines := make([]string, h)
	for y := range h {
		var sb, run strings.Builder
		var runColor color.Color
		flush := func() {
			if run.Len() == 0 {
				return
			}
			sb.WriteString(lipgloss.NewStyle().Background(runColor).Foreground(labelColor).Render(run.String()))
			run.Reset()
		}
		for x := range w {
			c := m.cellColor(m.painted(pointer.Pt(float64(x)*scale, float64(y)*scale)))
			if runColor == nil || !sameColor(c, runColor) {
				flush()
				runColor = c
			}
			if r, ok := labels[[2]int{x, y}]; ok {
				run.WriteRune(r)
			} else {
				run.WriteByte(' ')
			}
		}
		flush()
		lines[y] = sb.String()
	}
	return strings.Join(lines, "\n")
}

func sameColor(a, b color.Color) bool {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return ar == br && ag == bg && ab == bb && aa == ba
}

func (m *Demo) renderLog(w, h int) string {
	lines := []string{titleStyle.Render(fmt.Sprintf(" events (%d)", m.events.Len()))}
	for _, e := range m.events.Tail(h - 1) {
		text := " " + e.Text
		if len(text) > w {
			text = text[:w]
		}
		style := gestureStyle
		switch {
		case e.Kind == EntryForward:
			style = forwardStyle
		case e.Kind == EntryNote:
			style = noteStyle
		case e.Type.IsDrag():
			style = dragStyle
		}
		lines = append(lines, style.Render(text))
	}
	return lipgloss.NewStyle().Width(w).Height(h).Render(strings.Join(lines, "\n"))
}

func (m *Demo) renderStatus(w int) string {
	cursor := m.cursor
	if cursor == "" {
		cursor = "default"
	}
	parts := []string{
		" " + m.scene.Name,
		"phase: " + m.d.Phase().String(),
		"cursor: " + cursor,
	}
	if m.target != "" {
		parts = append(parts, "drop: "+m.target)
	}
	if m.forward != "" {
		parts = append(parts, "behind: "+m.forward)
	}
	if m.errors > 0 {
		parts = append(parts, fmt.Sprintf("errors: %d", m.errors))
	}
	parts = append(parts, "q quit  esc cancel  r reset  c clear")
	return statusStyle.Width(w).MaxHeight(1).Render(strings.Join(parts, " | "))
}
