package buffer

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/iw2rmb/lattice/internal/grapheme"
)

var lineIDs atomic.Uint64

type line struct {
	id    uint64
	cells []string
	// eol is the terminator that followed this line when it was inserted.
	// The last line of a document always has an empty terminator.
	eol string

	row      int
	attached bool

	widgets []*LineWidget
	gutter  map[string]string
	classes lineClasses
}

func newLine(cells []string, eol string) *line {
	return &line{
		id:       lineIDs.Add(1),
		cells:    cells,
		eol:      eol,
		attached: true,
	}
}

func (l *line) text() string { return grapheme.Join(l.cells) }

// LineHandle is a stable reference to a document line.
//
// Handles compare equal iff they refer to the same line, regardless of how
// often the document was renumbered in between. A handle never keeps its
// line alive: once the line is deleted, the handle reports Attached() ==
// false forever.
type LineHandle struct {
	l *line
}

// IsZero reports whether h was never obtained from a buffer.
func (h LineHandle) IsZero() bool { return h.l == nil }

// Attached reports whether the line still belongs to its document.
func (h LineHandle) Attached() bool { return h.l != nil && h.l.attached }

// ID returns a process-unique identifier of the line.
func (h LineHandle) ID() uint64 {
	if h.l == nil {
		return 0
	}
	return h.l.id
}

// Text returns the line's text. For detached handles this is the text the
// line had when it was removed.
func (h LineHandle) Text() string {
	if h.l == nil {
		return ""
	}
	return h.l.text()
}

func (h LineHandle) String() string {
	if h.l == nil {
		return "line(<nil>)"
	}
	if !h.l.attached {
		return fmt.Sprintf("line(#%d detached)", h.l.id)
	}
	return fmt.Sprintf("line(#%d @%d)", h.l.id, h.l.row)
}

func (b *Buffer) LineCount() int { return len(b.lines) }

func (b *Buffer) FirstLine() int { return 0 }

func (b *Buffer) LastLine() int { return len(b.lines) - 1 }

// Line returns the text of line n.
func (b *Buffer) Line(n int) (string, error) {
	if err := b.checkRow(n); err != nil {
		return "", err
	}
	return b.lines[n].text(), nil
}

// LineHandle returns the handle of the line currently at row n.
func (b *Buffer) LineHandle(n int) (LineHandle, error) {
	if err := b.checkRow(n); err != nil {
		return LineHandle{}, err
	}
	return LineHandle{l: b.lines[n]}, nil
}

// LineNumber returns the current row of h. ok is false when h is detached
// or belongs to another document.
func (b *Buffer) LineNumber(h LineHandle) (row int, ok bool) {
	if !b.owns(h) {
		return 0, false
	}
	return h.l.row, true
}

// Owns reports whether h is an attached line of this buffer.
func (b *Buffer) Owns(h LineHandle) bool { return b.owns(h) }

func (b *Buffer) owns(h LineHandle) bool {
	if !h.Attached() {
		return false
	}
	r := h.l.row
	return r >= 0 && r < len(b.lines) && b.lines[r] == h.l
}

// EachLine calls fn for every line in [from, to). Iteration stops early when
// fn returns false. A negative to means the end of the document.
func (b *Buffer) EachLine(from, to int, fn func(LineHandle) bool) error {
	if to < 0 {
		to = len(b.lines)
	}
	if from < 0 || from > len(b.lines) || to > len(b.lines) || from > to {
		return fmt.Errorf("%w: lines [%d, %d) not in [0, %d]", ErrOutOfRange, from, to, len(b.lines))
	}
	// Snapshot so fn may inspect the buffer freely.
	ls := append([]*line(nil), b.lines[from:to]...)
	for _, l := range ls {
		if !fn(LineHandle{l: l}) {
			return nil
		}
	}
	return nil
}

func (b *Buffer) checkRow(n int) error {
	if n < 0 || n >= len(b.lines) {
		return fmt.Errorf("%w: line %d not in [0, %d)", ErrOutOfRange, n, len(b.lines))
	}
	return nil
}

func (b *Buffer) checkHandle(h LineHandle) error {
	if !b.owns(h) {
		return fmt.Errorf("%w: %s", ErrOutOfRange, h)
	}
	return nil
}

// CheckPos reports ErrOutOfRange when p is not a valid document position.
func (b *Buffer) CheckPos(p Pos) error {
	if err := b.checkRow(p.Row); err != nil {
		return err
	}
	if p.GraphemeCol < 0 || p.GraphemeCol > len(b.lines[p.Row].cells) {
		return fmt.Errorf("%w: column %d not in [0, %d] on line %d", ErrOutOfRange, p.GraphemeCol, len(b.lines[p.Row].cells), p.Row)
	}
	return nil
}

// ClipPos clamps p into the document.
func (b *Buffer) ClipPos(p Pos) Pos { return b.clampPos(p) }

func (b *Buffer) renumber(from int) {
	if from < 0 {
		from = 0
	}
	for i := from; i < len(b.lines); i++ {
		b.lines[i].row = i
	}
}

func (b *Buffer) detach(ls []*line) {
	for _, l := range ls {
		l.attached = false
		l.row = -1
		for _, w := range l.widgets {
			w.removed = true
		}
		l.widgets = nil
	}
}

type segment struct {
	cells []string
	eol   string
}

// splitSegments splits text at "\r\n", "\r" and "\n", keeping each line's
// terminator. It always returns at least one segment.
func splitSegments(text string) []segment {
	var out []segment
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			out = append(out, segment{cells: grapheme.Split(text[start:i]), eol: "\n"})
			start = i + 1
		case '\r':
			eol := "\r"
			if i+1 < len(text) && text[i+1] == '\n' {
				eol = "\r\n"
			}
			out = append(out, segment{cells: grapheme.Split(text[start:i]), eol: eol})
			i += len(eol) - 1
			start = i + 1
		}
	}
	out = append(out, segment{cells: grapheme.Split(text[start:])})
	return out
}

func linesFromSegments(segs []segment) []*line {
	out := make([]*line, 0, len(segs))
	for _, s := range segs {
		out = append(out, newLine(s.cells, s.eol))
	}
	return out
}

func joinLines(ls []*line, sep string) string {
	var sb strings.Builder
	for i, l := range ls {
		sb.WriteString(l.text())
		if i == len(ls)-1 {
			break
		}
		if sep == "" {
			eol := l.eol
			if eol == "" {
				eol = "\n"
			}
			sb.WriteString(eol)
			continue
		}
		sb.WriteString(sep)
	}
	return sb.String()
}
