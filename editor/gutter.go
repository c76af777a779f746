package editor

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/iw2rmb/lattice/buffer"
)

// gutterColumn is one rendered gutter: a marker gutter or the line numbers.
type gutterColumn struct {
	id     string
	x      int
	width  int
	digits int
}

func (g gutterColumn) lineNumbers() bool { return g.id == LineNumbersGutter }

// gutterColumns lays out the marker gutters, then line numbers. A marker
// gutter is as wide as its widest marker plus one separating space.
func (m *Model) gutterColumns(opts Options) []gutterColumn {
	doc := m.core.Doc()
	var cols []gutterColumn
	x := 0
	for _, id := range opts.Gutters {
		w := 1
		_ = doc.EachLine(0, -1, func(h buffer.LineHandle) bool {
			if s, ok := doc.GutterMarker(h, id); ok {
				w = max(w, runewidth.StringWidth(s))
			}
			return true
		})
		cols = append(cols, gutterColumn{id: id, x: x, width: w + 1})
		x += w + 1
	}
	if opts.LineNumbers {
		d := gutterDigits(doc.LineCount())
		cols = append(cols, gutterColumn{id: LineNumbersGutter, x: x, width: LineNumberWidth(doc.LineCount()), digits: d})
	}
	return cols
}

func (g gutterColumn) render(st Style, info buffer.LineInfo, active bool) string {
	if g.lineNumbers() {
		numStyle := st.LineNum
		if active {
			numStyle = st.LineNumActive
		}
		return numStyle.Render(fmt.Sprintf("%*d", g.digits, info.Line+1)) + st.Gutter.Render(" ")
	}
	marker := info.Gutter[g.id]
	pad := g.width - runewidth.StringWidth(marker)
	if marker == "" {
		return st.Gutter.Render(strings.Repeat(" ", g.width))
	}
	return st.GutterMarker.Render(marker) + st.Gutter.Render(strings.Repeat(" ", max(pad, 0)))
}

// gutterAt returns the gutter drawn at screen column x.
func (l layout) gutterAt(x int) (gutterColumn, bool) {
	for _, g := range l.gutters {
		if x >= g.x && x < g.x+g.width {
			return g, true
		}
	}
	return gutterColumn{}, false
}

// LineNumberWidth returns the line-number gutter width for lineCount.
func LineNumberWidth(lineCount int) int {
	return gutterDigits(lineCount) + 1
}

func gutterDigits(lineCount int) int {
	if lineCount < 1 {
		lineCount = 1
	}
	return len(fmt.Sprintf("%d", lineCount))
}
