package editor

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	graphemeutil "github.com/iw2rmb/lattice/internal/grapheme"
)

// cell is one rendered grapheme of a line.
type cell struct {
	text  string
	col   int // grapheme column in the document
	start int // first terminal cell
	width int
}

// layoutCells measures the graphemes of text in terminal cells, expanding
// tabs to tab stops.
func layoutCells(text string, tabWidth int) []cell {
	gs := graphemeutil.Split(text)
	out := make([]cell, 0, len(gs))
	x := 0
	for i, g := range gs {
		w := graphemeCellWidth(g, x, tabWidth)
		out = append(out, cell{text: g, col: i, start: x, width: w})
		x += w
	}
	return out
}

func graphemeCellWidth(text string, visualCol, tabWidth int) int {
	if text == "\t" {
		return tabAdvance(visualCol, tabWidth)
	}

	w := runewidth.StringWidth(text)
	if w < 0 {
		w = 0
	}
	if w == 0 {
		fallback := uniseg.StringWidth(text)
		if fallback > w {
			w = fallback
		}
	}
	return w
}

func tabAdvance(visualCol, tabWidth int) int {
	if tabWidth <= 0 {
		tabWidth = 4
	}
	adv := tabWidth - visualCol%tabWidth
	if adv < 1 {
		return 1
	}
	return adv
}

// colAtCell maps a terminal cell offset to the grapheme column it falls on.
func colAtCell(cells []cell, x int) int {
	for _, c := range cells {
		if x < c.start+c.width {
			return c.col
		}
	}
	return len(cells)
}
