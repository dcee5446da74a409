package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/coraldeck/display/widgets"
	"gitlab.com/tinyland/lab/coraldeck/internal/format"
)

// PopupGeometry is the computed placement of the message overlay on
// the current canvas. It is recomputed on every render because the
// canvas size may change between renders.
type PopupGeometry struct {
	Left   int
	Top    int
	Width  int
	Height int
}

// popupGeometry computes the overlay box for a canvas of cols x rows.
func popupGeometry(p *popup, cols, rows int) PopupGeometry {
	w := int(p.width * float64(cols))
	h := int(p.height * float64(rows))
	return PopupGeometry{
		Left:   int(math.Round((float64(cols) - p.width*float64(cols)) / 2)),
		Top:    int(math.Round((float64(rows) - p.height*float64(rows)) / 2)),
		Width:  w,
		Height: h,
	}
}

// Render draws the whole dashboard into a width x height canvas: the
// title bar, every layout row, and the popup overlay when active.
func (m *Manager) Render(width, height int) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if width < 10 {
		width = 10
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Width(width).Align(lipgloss.Center).Render(m.title))
	b.WriteString("\n")

	if len(m.rows) == 0 {
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
			Render("Coral Deck Initialized\nWaiting for agent ..."))
	}

	for _, r := range m.rows {
		switch r.kind {
		case rowDivider:
			b.WriteString("\n")
		case rowSection:
			style := m.styles.For("", widgets.PartSectionTitle).Width(width).Align(lipgloss.Center)
			b.WriteString(style.Render(r.section))
			b.WriteString("\n")
		case rowWidgets:
			b.WriteString(m.renderWidgetRow(r.widgets, width))
			b.WriteString("\n")
		}
	}

	canvas := b.String()
	if m.popup != nil {
		canvas = m.renderPopup(canvas, width, height)
	}
	return canvas
}

// renderWidgetRow draws one widget, or a column group side by side
// with one divider column between neighbors.
func (m *Manager) renderWidgetRow(ws []widgets.Widget, width int) string {
	if len(ws) == 1 {
		return ws[0].Render(width)
	}

	colWidth := (width - (len(ws) - 1)) / len(ws)
	blocks := make([]string, 0, len(ws)*2-1)
	for i, w := range ws {
		if i > 0 {
			blocks = append(blocks, " ")
		}
		blocks = append(blocks, w.Render(colWidth))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}

// renderPopup places the message box over the center of the canvas.
func (m *Manager) renderPopup(canvas string, width, height int) string {
	geo := popupGeometry(m.popup, width, height)

	style := m.styles.For("", widgets.PartPopup)
	box := style.
		Border(lipgloss.NormalBorder()).
		Width(geo.Width - 2).
		Align(lipgloss.Center)

	// A title wider than the box would wrap into the message body.
	title := format.TruncateWithEllipsis(m.popup.title, geo.Width-4)
	content := title + "\n\n" + m.popup.text
	overlay := box.Render(content)

	// The overlay replaces the canvas lines it covers.
	lines := strings.Split(canvas, "\n")
	overlayLines := strings.Split(overlay, "\n")
	for i, line := range overlayLines {
		target := geo.Top + i
		for target >= len(lines) {
			lines = append(lines, "")
		}
		pad := geo.Left
		if pad < 0 {
			pad = 0
		}
		lines[target] = strings.Repeat(" ", pad) + line
	}
	return strings.Join(lines, "\n")
}
