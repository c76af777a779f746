package editor

import (
	"fmt"
	"strings"

	"github.com/iw2rmb/lattice/buffer"
	"github.com/iw2rmb/lattice/internal/grapheme"
)

// IndentHow selects how IndentLine computes the new indentation.
type IndentHow uint8

const (
	// IndentSmart uses the previous line's indentation. Modes that know
	// better are out of scope.
	IndentSmart IndentHow = iota
	// IndentPrev copies the previous line's indentation.
	IndentPrev
	IndentAdd
	IndentSubtract
)

func (c *Core) indentString(width int) string {
	if width <= 0 {
		return ""
	}
	if !c.opts.IndentWithTabs {
		return strings.Repeat(" ", width)
	}
	return strings.Repeat("\t", width/c.opts.TabSize) + strings.Repeat(" ", width%c.opts.TabSize)
}

// IndentLine re-indents line n.
func (c *Core) IndentLine(n int, how IndentHow) error {
	if c.opts.ReadOnly {
		return ErrReadOnly
	}
	text, err := c.doc.Line(n)
	if err != nil {
		return err
	}
	count, cur := grapheme.Indent(text, c.opts.TabSize)

	var width int
	switch how {
	case IndentSmart, IndentPrev:
		if n > 0 {
			prev, _ := c.doc.Line(n - 1)
			_, width = grapheme.Indent(prev, c.opts.TabSize)
		}
	case IndentAdd:
		width = cur + c.opts.IndentUnit
	case IndentSubtract:
		width = max(cur-c.opts.IndentUnit, 0)
	default:
		return fmt.Errorf("%w: indent mode %d", buffer.ErrInvalidArgument, how)
	}

	indent := c.indentString(width)
	if indent == text[:len(text)-len(strings.TrimLeft(text, " \t"))] {
		return nil
	}
	return c.doc.ReplaceRangeOrigin(indent,
		buffer.Pos{Row: n},
		buffer.Pos{Row: n, GraphemeCol: count},
		"+indent")
}

// IndentSelection re-indents every line touched by a selection range, as
// one undoable step.
func (c *Core) IndentSelection(how IndentHow) error {
	if c.opts.ReadOnly {
		return ErrReadOnly
	}
	seen := make(map[int]bool)
	var rows []int
	for _, r := range c.doc.ListSelections() {
		from, to := r.From(), r.To()
		last := to.Row
		if to.Row > from.Row && to.GraphemeCol == 0 {
			last--
		}
		for row := from.Row; row <= last; row++ {
			if !seen[row] {
				seen[row] = true
				rows = append(rows, row)
			}
		}
	}
	return c.doc.Operation(func() error {
		for _, row := range rows {
			if err := c.IndentLine(row, how); err != nil {
				return err
			}
		}
		return nil
	})
}
