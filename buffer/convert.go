package buffer

// Indexes count grapheme clusters from the start of the document. Every
// line break counts as one, whatever its terminator.

// IndexFromPos converts p to a document index. p is clipped into the
// document first.
func (b *Buffer) IndexFromPos(p Pos) int {
	p = b.clampPos(p)
	off := 0
	for row := 0; row < p.Row; row++ {
		off += len(b.lines[row].cells) + 1
	}
	return off + p.GraphemeCol
}

// PosFromIndex converts a document index to a position. Indexes outside
// the document clip to its start or end.
func (b *Buffer) PosFromIndex(off int) Pos {
	if off <= 0 {
		return Pos{}
	}
	for row, l := range b.lines {
		n := len(l.cells)
		if off <= n {
			return Pos{Row: row, GraphemeCol: off}
		}
		off -= n + 1
	}
	return b.endPos()
}

// DocLen returns the index of the end of the document.
func (b *Buffer) DocLen() int { return b.IndexFromPos(b.endPos()) }
