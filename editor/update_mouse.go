package editor

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/lattice/buffer"
)

func (m Model) updateMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)

	// Only left button presses move the cursor or click gutters.
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, cmd
	}
	if !m.mouseInBounds(msg.X, msg.Y) {
		return m, cmd
	}

	row, ok := m.layout.rowAt(msg.Y + m.viewport.YOffset)
	if !ok || row.widget != nil {
		return m, cmd
	}
	if g, ok := m.layout.gutterAt(msg.X); ok {
		m.report("gutter click", m.core.ClickGutter(row.line, g.id))
		return m, cmd
	}

	doc := m.core.Doc()
	text, err := doc.Line(row.line)
	if err != nil {
		return m, cmd
	}
	col := colAtCell(layoutCells(text, m.core.Options().TabSize), msg.X-m.layout.textX)
	p := buffer.Pos{Row: row.line, GraphemeCol: col}
	if msg.Shift {
		anchor := doc.Selection().PrimaryRange().Anchor
		m.report("extend", doc.SetSelection(anchor, p))
	} else {
		m.report("click", doc.SetCursor(p))
	}
	if !m.core.Focused() {
		m.core.Focus()
	}
	return m, cmd
}

func (m Model) mouseInBounds(x, y int) bool {
	if m.viewport.Width <= 0 || m.viewport.Height <= 0 {
		return false
	}
	return x >= 0 && x < m.viewport.Width && y >= 0 && y < m.viewport.Height
}
