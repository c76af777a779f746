package buffer

import "github.com/iw2rmb/lattice/internal/grapheme"

type MoveUnit int

const (
	MoveGrapheme MoveUnit = iota
	MoveWord
	MoveLine
	MoveDoc
)

type MoveDir int

const (
	DirLeft MoveDir = iota
	DirRight
	DirUp
	DirDown
	DirHome // line start (or doc start for MoveDoc)
	DirEnd  // line end (or doc end for MoveDoc)
)

type Move struct {
	Unit   MoveUnit
	Dir    MoveDir
	Extend bool // keep anchors in place; otherwise ranges collapse
}

// Move moves the head of every selection range.
func (b *Buffer) Move(m Move) {
	next := b.sel.clone()
	extend := m.Extend || b.extending
	for i, r := range next.Ranges {
		head := b.clampPos(b.moveCursor(r.Head, m))
		if !extend && !r.Empty() && (m.Unit == MoveGrapheme && (m.Dir == DirLeft || m.Dir == DirRight)) {
			// Collapsing a selection sideways lands on its edge.
			head = r.From()
			if m.Dir == DirRight {
				head = r.To()
			}
		}
		if extend {
			next.Ranges[i] = SelRange{Anchor: r.Anchor, Head: head}
		} else {
			next.Ranges[i] = SelRange{Anchor: head, Head: head}
		}
	}
	b.setSelection(next)
}

func (b *Buffer) moveCursor(p Pos, m Move) Pos {
	switch m.Unit {
	case MoveGrapheme:
		return b.moveGrapheme(p, m.Dir)
	case MoveWord:
		return b.moveWord(p, m.Dir)
	case MoveLine:
		return b.moveLine(p, m.Dir)
	case MoveDoc:
		return b.moveDoc(p, m.Dir)
	default:
		return p
	}
}

func (b *Buffer) moveGrapheme(p Pos, dir MoveDir) Pos {
	row, col := p.Row, p.GraphemeCol
	lastRow := len(b.lines) - 1

	switch dir {
	case DirLeft:
		if row == 0 && col == 0 {
			return p
		}
		if col > 0 {
			return Pos{Row: row, GraphemeCol: col - 1}
		}
		return Pos{Row: row - 1, GraphemeCol: b.lineLen(row - 1)}
	case DirRight:
		if row == lastRow && col == b.lineLen(lastRow) {
			return p
		}
		if col < b.lineLen(row) {
			return Pos{Row: row, GraphemeCol: col + 1}
		}
		return Pos{Row: row + 1, GraphemeCol: 0}
	case DirUp, DirDown, DirHome, DirEnd:
		return b.moveLine(p, dir)
	default:
		return p
	}
}

func (b *Buffer) moveWord(p Pos, dir MoveDir) Pos {
	row, col := p.Row, p.GraphemeCol
	cells := b.lines[row].cells

	switch dir {
	case DirLeft:
		if col == 0 && row > 0 {
			return Pos{Row: row - 1, GraphemeCol: b.lineLen(row - 1)}
		}
		return Pos{Row: row, GraphemeCol: prevWordBoundary(cells, col)}
	case DirRight:
		if col == len(cells) && row < len(b.lines)-1 {
			return Pos{Row: row + 1}
		}
		return Pos{Row: row, GraphemeCol: nextWordBoundary(cells, col)}
	case DirHome:
		return Pos{Row: row, GraphemeCol: 0}
	case DirEnd:
		return Pos{Row: row, GraphemeCol: len(cells)}
	default:
		return p
	}
}

func (b *Buffer) moveLine(p Pos, dir MoveDir) Pos {
	row, col := p.Row, p.GraphemeCol
	lastRow := len(b.lines) - 1

	switch dir {
	case DirHome:
		return Pos{Row: row, GraphemeCol: 0}
	case DirEnd:
		return Pos{Row: row, GraphemeCol: b.lineLen(row)}
	case DirUp:
		if row == 0 {
			return p
		}
		nr := row - 1
		return Pos{Row: nr, GraphemeCol: min(col, b.lineLen(nr))}
	case DirDown:
		if row == lastRow {
			return p
		}
		nr := row + 1
		return Pos{Row: nr, GraphemeCol: min(col, b.lineLen(nr))}
	default:
		return p
	}
}

func (b *Buffer) moveDoc(p Pos, dir MoveDir) Pos {
	switch dir {
	case DirHome, DirUp:
		return Pos{}
	case DirEnd, DirDown:
		return b.endPos()
	default:
		return p
	}
}

// FindPosH moves amount units away from start, to the right for positive
// amounts. hitSide reports that the document boundary stopped the walk.
func (b *Buffer) FindPosH(start Pos, amount int, unit MoveUnit) (p Pos, hitSide bool, err error) {
	if err := b.CheckPos(start); err != nil {
		return Pos{}, false, err
	}
	dir := DirRight
	if amount < 0 {
		dir, amount = DirLeft, -amount
	}
	p = start
	for i := 0; i < amount; i++ {
		next := b.moveCursor(p, Move{Unit: unit, Dir: dir})
		if next == p {
			return p, true, nil
		}
		p = next
	}
	return p, false, nil
}

// FindPosV moves amount lines down from start, keeping the column when the
// target line is long enough.
func (b *Buffer) FindPosV(start Pos, amount int) (p Pos, hitSide bool, err error) {
	if err := b.CheckPos(start); err != nil {
		return Pos{}, false, err
	}
	row := start.Row + amount
	if row < 0 || row >= len(b.lines) {
		hitSide = true
	}
	row = clampInt(row, 0, len(b.lines)-1)
	return Pos{Row: row, GraphemeCol: min(start.GraphemeCol, b.lineLen(row))}, hitSide, nil
}

// FindWordAt returns the range of the word, whitespace run or punctuation
// run around p.
func (b *Buffer) FindWordAt(p Pos) (Range, error) {
	if err := b.CheckPos(p); err != nil {
		return Range{}, err
	}
	cells := b.lines[p.Row].cells
	if len(cells) == 0 {
		return Range{Start: p, End: p}, nil
	}
	start, end := p.GraphemeCol, p.GraphemeCol
	if end == len(cells) || (start > 0 && classOf(cells[start-1]) == wordClass && classOf(cells[start]) != wordClass) {
		start--
	} else {
		end++
	}
	class := classOf(cells[start])
	for start > 0 && classOf(cells[start-1]) == class {
		start--
	}
	for end < len(cells) && classOf(cells[end]) == class {
		end++
	}
	return Range{Start: Pos{Row: p.Row, GraphemeCol: start}, End: Pos{Row: p.Row, GraphemeCol: end}}, nil
}

type charClass = grapheme.Class

const (
	wordClass  = grapheme.Word
	spaceClass = grapheme.Space
)

func classOf(g string) charClass { return grapheme.ClassOf(g) }

// Word boundaries skip whitespace, then one run of the same class.
func prevWordBoundary(cells []string, col int) int {
	i := clampInt(col, 0, len(cells))
	for i > 0 && classOf(cells[i-1]) == spaceClass {
		i--
	}
	if i == 0 {
		return 0
	}
	class := classOf(cells[i-1])
	for i > 0 && classOf(cells[i-1]) == class {
		i--
	}
	return i
}

func nextWordBoundary(cells []string, col int) int {
	i := clampInt(col, 0, len(cells))
	for i < len(cells) && classOf(cells[i]) == spaceClass {
		i++
	}
	if i == len(cells) {
		return i
	}
	class := classOf(cells[i])
	for i < len(cells) && classOf(cells[i]) == class {
		i++
	}
	return i
}
