package editor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/iw2rmb/lattice/buffer"
)

// layoutRow is one screen row: a document line or a widget below/above it.
type layoutRow struct {
	line   int
	widget *buffer.LineWidget
}

type layout struct {
	rows    []layoutRow
	gutters []gutterColumn
	// textX is the screen column where line text starts.
	textX int
}

func (l layout) screenRowOf(line int) (int, bool) {
	for i, r := range l.rows {
		if r.line == line && r.widget == nil {
			return i, true
		}
	}
	return 0, false
}

func (l layout) rowAt(y int) (layoutRow, bool) {
	if y < 0 || y >= len(l.rows) {
		return layoutRow{}, false
	}
	return l.rows[y], true
}

func (m *Model) contentWidth() int {
	w := m.viewport.Width - m.viewport.Style.GetHorizontalFrameSize()
	if w <= 0 {
		return 0
	}
	return max(w-m.layout.textX, 0)
}

func (m *Model) renderContent() string {
	doc := m.core.Doc()
	opts := m.core.Options()
	st := m.cfg.Style
	m.layout = layout{gutters: m.gutterColumns(opts)}
	for _, g := range m.layout.gutters {
		m.layout.textX += g.width
	}

	cursor := doc.Cursor()
	focused := m.core.Focused()
	sels := doc.ListSelections()
	width := m.contentWidth()

	var out []string
	row := 0
	_ = doc.EachLine(0, doc.LineCount(), func(h buffer.LineHandle) bool {
		info := doc.LineInfo(h)
		var above, below []*buffer.LineWidget
		for _, w := range info.Widgets {
			if w.Options().Above {
				above = append(above, w)
			} else {
				below = append(below, w)
			}
		}
		for _, w := range above {
			out = append(out, m.renderWidget(w))
			m.layout.rows = append(m.layout.rows, layoutRow{line: row, widget: w})
		}

		var sb strings.Builder
		for _, g := range m.layout.gutters {
			sb.WriteString(g.render(st, info, focused && row == cursor.Row))
		}
		sb.WriteString(renderLine(st, info, opts.TabSize, lineSelection(sels, row), cursorCol(focused, cursor, row), width))
		out = append(out, sb.String())
		m.layout.rows = append(m.layout.rows, layoutRow{line: row})

		for _, w := range below {
			out = append(out, m.renderWidget(w))
			m.layout.rows = append(m.layout.rows, layoutRow{line: row, widget: w})
		}
		row++
		return true
	})
	return strings.Join(out, "\n")
}

func cursorCol(focused bool, cursor buffer.Pos, row int) int {
	if !focused || cursor.Row != row {
		return -1
	}
	return cursor.GraphemeCol
}

// lineSelection returns the selected grapheme spans of row. An end of -1
// extends to the end of the line.
func lineSelection(sels []buffer.SelRange, row int) [][2]int {
	var out [][2]int
	for _, s := range sels {
		if s.Empty() {
			continue
		}
		from, to := s.From(), s.To()
		if row < from.Row || row > to.Row {
			continue
		}
		start, end := 0, -1
		if row == from.Row {
			start = from.GraphemeCol
		}
		if row == to.Row {
			end = to.GraphemeCol
		}
		out = append(out, [2]int{start, end})
	}
	return out
}

func selected(spans [][2]int, col int) bool {
	for _, sp := range spans {
		if col >= sp[0] && (sp[1] < 0 || col < sp[1]) {
			return true
		}
	}
	return false
}

func lineTextStyle(st Style, info buffer.LineInfo) lipgloss.Style {
	style := st.Text
	for _, where := range []buffer.LineClassWhere{buffer.ClassBackground, buffer.ClassText} {
		for _, class := range info.Classes[where] {
			if s, ok := st.Classes[class]; ok {
				style = s.Inherit(style)
			}
		}
	}
	return style
}

func renderLine(st Style, info buffer.LineInfo, tabSize int, sel [][2]int, cursor, width int) string {
	text := lineTextStyle(st, info)
	cells := layoutCells(info.Text, tabSize)

	var sb strings.Builder
	used := 0
	for _, c := range cells {
		if width > 0 && used+c.width > width {
			break
		}
		s := c.text
		if s == "\t" {
			s = strings.Repeat(" ", c.width)
		}
		switch {
		case c.col == cursor:
			sb.WriteString(st.Cursor.Render(s))
		case selected(sel, c.col):
			sb.WriteString(st.Selection.Render(s))
		default:
			sb.WriteString(text.Render(s))
		}
		used += c.width
	}
	// Cursor at EOL is rendered as a 1-cell placeholder space.
	if cursor >= len(cells) && (width == 0 || used < width) {
		sb.WriteString(st.Cursor.Render(" "))
	}
	return sb.String()
}

func (m *Model) renderWidget(w *buffer.LineWidget) string {
	st := m.cfg.Style
	style := st.Widget
	if s, ok := st.Widgets[w.Class()]; ok {
		style = s
	}

	indent := 0
	if !w.Options().CoverGutter {
		indent = m.layout.textX
	}
	content := w.Content()
	if total := m.viewport.Width - m.viewport.Style.GetHorizontalFrameSize(); total > 0 {
		content = runewidth.Truncate(content, max(total-indent, 0), "…")
	}
	return strings.Repeat(" ", indent) + style.Render(content)
}
