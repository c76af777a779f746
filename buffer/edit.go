package buffer

import (
	"fmt"
	"strings"

	"github.com/iw2rmb/lattice/internal/grapheme"
)

// GetRange returns the text in [from, to) joined with sep. An empty sep
// keeps each line's own terminator.
func (b *Buffer) GetRange(from, to Pos, sep string) (string, error) {
	if err := b.CheckPos(from); err != nil {
		return "", err
	}
	if err := b.CheckPos(to); err != nil {
		return "", err
	}
	return b.textRange(Range{Start: from, End: to}, sep), nil
}

// SetValue replaces the whole document. Every existing line detaches and
// the cursor moves to the start of the document.
func (b *Buffer) SetValue(text string) {
	b.StartOperation()
	defer b.EndOperation()

	cb := b.beginChange(ChangeSourceLocal, "setValue")
	b.applyEdit(&cb, Range{End: b.endPos()}, text, true)
	b.setSelection(SingleSelection(Pos{}, Pos{}))
	b.commitChange(cb)
}

// ReplaceRange replaces [from, to) with text. Selections are mapped
// through the edit.
func (b *Buffer) ReplaceRange(text string, from, to Pos) error {
	return b.ReplaceRangeOrigin(text, from, to, "+replace")
}

// ReplaceRangeOrigin is ReplaceRange with an explicit change origin.
func (b *Buffer) ReplaceRangeOrigin(text string, from, to Pos, origin string) error {
	if err := b.CheckPos(from); err != nil {
		return err
	}
	if err := b.CheckPos(to); err != nil {
		return err
	}
	b.StartOperation()
	defer b.EndOperation()

	cb := b.beginChange(ChangeSourceLocal, origin)
	b.applyEdit(&cb, Range{Start: from, End: to}, text, false)
	b.commitChange(cb)
	return nil
}

// SetLine replaces the content of line n. The line keeps its identity.
func (b *Buffer) SetLine(n int, text string) error {
	if err := b.checkRow(n); err != nil {
		return err
	}
	return b.ReplaceRangeOrigin(text, Pos{Row: n}, Pos{Row: n, GraphemeCol: b.lineLen(n)}, "+setLine")
}

// RemoveLine deletes line n together with one adjacent line break. The
// only line of a document is emptied instead.
func (b *Buffer) RemoveLine(n int) error {
	if err := b.checkRow(n); err != nil {
		return err
	}
	last := len(b.lines) - 1
	switch {
	case n < last:
		return b.ReplaceRangeOrigin("", Pos{Row: n}, Pos{Row: n + 1}, "+removeLine")
	case n > 0:
		from := Pos{Row: n - 1, GraphemeCol: b.lineLen(n - 1)}
		return b.ReplaceRangeOrigin("", from, Pos{Row: n, GraphemeCol: b.lineLen(n)}, "+removeLine")
	default:
		return b.ReplaceRangeOrigin("", Pos{}, Pos{GraphemeCol: b.lineLen(0)}, "+removeLine")
	}
}

// ReplaceSelection replaces every selection range with text. collapse is
// "around" to select the inserted text, "start" to put the cursor before
// it, and anything else to put the cursor after it.
func (b *Buffer) ReplaceSelection(text, collapse string) error {
	texts := make([]string, len(b.sel.Ranges))
	for i := range texts {
		texts[i] = text
	}
	return b.ReplaceSelections(texts, collapse)
}

// ReplaceSelections replaces the i-th selection range with texts[i].
func (b *Buffer) ReplaceSelections(texts []string, collapse string) error {
	if len(texts) != len(b.sel.Ranges) {
		return fmt.Errorf("%w: %d replacements for %d selections", ErrInvalidArgument, len(texts), len(b.sel.Ranges))
	}
	b.StartOperation()
	defer b.EndOperation()

	cb := b.beginChange(ChangeSourceLocal, "+input")
	sel := b.sel.clone()
	after := make([]Range, len(sel.Ranges))
	for i := len(sel.Ranges) - 1; i >= 0; i-- {
		r := sel.Ranges[i].Range()
		applied, ok := b.applyEdit(&cb, r, texts[i], false)
		if !ok {
			applied.RangeAfter = r
		}
		for j := i + 1; j < len(sel.Ranges); j++ {
			if ok {
				after[j] = Range{
					Start: adjustPos(after[j].Start, applied, false),
					End:   adjustPos(after[j].End, applied, false),
				}
			}
		}
		after[i] = applied.RangeAfter
	}

	next := Selection{Ranges: make([]SelRange, len(after)), Primary: sel.Primary}
	for i, r := range after {
		switch collapse {
		case "around":
			next.Ranges[i] = SelRange{Anchor: r.Start, Head: r.End}
		case "start":
			next.Ranges[i] = SelRange{Anchor: r.Start, Head: r.Start}
		default:
			next.Ranges[i] = SelRange{Anchor: r.End, Head: r.End}
		}
	}
	b.setSelection(next)
	b.commitChange(cb)
	return nil
}

// InsertText inserts text at every cursor, replacing selected text.
func (b *Buffer) InsertText(s string) {
	if s == "" {
		b.DeleteSelection()
		return
	}
	_ = b.ReplaceSelection(s, "end")
}

// InsertGrapheme inserts a single grapheme cluster at every cursor.
func (b *Buffer) InsertGrapheme(g string) {
	if g == "" {
		return
	}
	b.InsertText(g)
}

// InsertNewline inserts a line break at every cursor.
func (b *Buffer) InsertNewline() {
	b.InsertText(b.LineSeparator())
}

// DeleteBackward applies backspace semantics to every selection range.
func (b *Buffer) DeleteBackward() {
	b.deleteEach("+delete", func(p Pos) (Pos, bool) {
		if p.GraphemeCol > 0 {
			return Pos{Row: p.Row, GraphemeCol: p.GraphemeCol - 1}, true
		}
		if p.Row == 0 {
			return p, false
		}
		return Pos{Row: p.Row - 1, GraphemeCol: b.lineLen(p.Row - 1)}, true
	})
}

// DeleteForward applies delete-key semantics to every selection range.
func (b *Buffer) DeleteForward() {
	b.deleteEach("+delete", func(p Pos) (Pos, bool) {
		if p.GraphemeCol < b.lineLen(p.Row) {
			return Pos{Row: p.Row, GraphemeCol: p.GraphemeCol + 1}, true
		}
		if p.Row == len(b.lines)-1 {
			return p, false
		}
		return Pos{Row: p.Row + 1}, true
	})
}

// DeleteSelection deletes every non-empty selection range.
func (b *Buffer) DeleteSelection() {
	b.deleteEach("+delete", func(p Pos) (Pos, bool) { return p, false })
}

// deleteEach deletes each non-empty range, or the span between an empty
// range and the position other returns for it.
func (b *Buffer) deleteEach(origin string, other func(Pos) (Pos, bool)) {
	b.StartOperation()
	defer b.EndOperation()

	cb := b.beginChange(ChangeSourceLocal, origin)
	sel := b.sel.clone()
	for i := len(sel.Ranges) - 1; i >= 0; i-- {
		r := sel.Ranges[i].Range()
		if r.IsEmpty() {
			p, ok := other(r.Start)
			if !ok {
				continue
			}
			r = NormalizeRange(Range{Start: r.Start, End: p})
		}
		b.applyEdit(&cb, r, "", false)
	}
	b.commitChange(cb)
}

// applyEdit replaces r with text and keeps lines, selections and markers
// consistent. full replaces every line instead of reusing the first one.
//
// Line identity: the first line of r survives with the joined content,
// lines inside r detach and inserted lines are new. When the inserted text
// has more than one line, the last line of a multi-line r survives too. An
// edit that starts and ends at column 0 and inserts nothing or whole lines
// leaves the line at r.End untouched.
func (b *Buffer) applyEdit(cb *changeBuilder, r Range, text string, full bool) (AppliedEdit, bool) {
	r = NormalizeRange(ClampRange(r, len(b.lines), b.lineLen))
	deleted := b.textRange(r, "")
	if deleted == text && !full {
		return AppliedEdit{}, false
	}

	b.notify(Notification{Kind: NotifyBeforeChange, Edit: AppliedEdit{
		RangeBefore: r,
		InsertText:  text,
		DeletedText: deleted,
	}})

	segs := splitSegments(text)
	startRow, startCol := r.Start.Row, r.Start.GraphemeCol
	endRow, endCol := r.End.Row, r.End.GraphemeCol
	lastSeg := segs[len(segs)-1]

	var (
		repl    []*line
		removed []*line
		lo, hi  int // b.lines[lo:hi] is replaced by repl
	)
	switch {
	case full:
		repl = linesFromSegments(segs)
		removed = append(removed, b.lines...)
		lo, hi = 0, len(b.lines)

	case startCol == 0 && endCol == 0 && len(lastSeg.cells) == 0 && (text == "" || len(segs) > 1):
		repl = linesFromSegments(segs[:len(segs)-1])
		removed = append(removed, b.lines[startRow:endRow]...)
		lo, hi = startRow, endRow

	default:
		first := b.lines[startRow]
		endLine := b.lines[endRow]
		prefix := append([]string(nil), first.cells[:startCol]...)
		suffix := append([]string(nil), endLine.cells[endCol:]...)
		suffixEOL := endLine.eol

		if len(segs) == 1 {
			first.cells = append(append(prefix, segs[0].cells...), suffix...)
			first.eol = suffixEOL
			repl = []*line{first}
			removed = append(removed, b.lines[startRow+1:endRow+1]...)
		} else {
			first.cells = append(prefix, segs[0].cells...)
			first.eol = segs[0].eol
			repl = append(repl, first)
			repl = append(repl, linesFromSegments(segs[1:len(segs)-1])...)
			tail := append(append([]string(nil), lastSeg.cells...), suffix...)
			if startRow < endRow {
				endLine.cells = tail
				repl = append(repl, endLine)
				removed = append(removed, b.lines[startRow+1:endRow]...)
			} else {
				repl = append(repl, newLine(tail, suffixEOL))
			}
		}
		lo, hi = startRow, endRow+1
	}

	out := make([]*line, 0, len(b.lines)-(hi-lo)+len(repl))
	out = append(out, b.lines[:lo]...)
	out = append(out, repl...)
	out = append(out, b.lines[hi:]...)
	if len(out) == 0 {
		out = []*line{newLine(nil, "")}
	}
	b.lines = out
	b.renumber(lo)

	endPos := Pos{Row: startRow, GraphemeCol: startCol + len(segs[0].cells)}
	if len(segs) > 1 {
		endPos = Pos{Row: startRow + len(segs) - 1, GraphemeCol: len(lastSeg.cells)}
	}
	if full {
		r = Range{Start: Pos{}, End: r.End}
		endPos = Pos{Row: len(segs) - 1, GraphemeCol: len(lastSeg.cells)}
	}
	applied := AppliedEdit{
		RangeBefore: r,
		RangeAfter:  Range{Start: r.Start, End: endPos},
		InsertText:  text,
		DeletedText: deleted,
		full:        full,
	}

	b.version++
	b.textVersion++
	b.mapSelection(applied)
	b.adjustMarkers(applied)

	if len(removed) > 0 {
		b.detach(removed)
		hs := make([]LineHandle, 0, len(removed))
		for _, l := range removed {
			hs = append(hs, LineHandle{l: l})
		}
		cb.detached = append(cb.detached, hs...)
		b.notify(Notification{Kind: NotifyLinesDetached, Lines: hs})
	}
	cb.addAppliedEdit(applied)
	return applied, true
}

// adjustPos maps p through an applied edit. A position inside the replaced
// range moves to the end of the inserted text. stickLeft keeps a position
// sitting exactly at the start of the edit in place.
func adjustPos(p Pos, e AppliedEdit, stickLeft bool) Pos {
	from, to := e.RangeBefore.Start, e.RangeBefore.End
	if e.full {
		return Pos{}
	}
	if ComparePos(p, from) < 0 {
		return p
	}
	if stickLeft && p == from {
		return p
	}
	if ComparePos(p, to) <= 0 {
		return e.RangeAfter.End
	}
	end := e.RangeAfter.End
	if p.Row == to.Row {
		return Pos{Row: end.Row, GraphemeCol: p.GraphemeCol - to.GraphemeCol + end.GraphemeCol}
	}
	return Pos{Row: p.Row + end.Row - to.Row, GraphemeCol: p.GraphemeCol}
}

func (b *Buffer) textRange(r Range, sep string) string {
	r = NormalizeRange(ClampRange(r, len(b.lines), b.lineLen))
	if r.IsEmpty() {
		return ""
	}
	startRow, endRow := r.Start.Row, r.End.Row
	if startRow == endRow {
		return grapheme.Join(b.lines[startRow].cells[r.Start.GraphemeCol:r.End.GraphemeCol])
	}

	var sb strings.Builder
	for row := startRow; row <= endRow; row++ {
		l := b.lines[row]
		partStart, partEnd := 0, len(l.cells)
		if row == startRow {
			partStart = r.Start.GraphemeCol
		}
		if row == endRow {
			partEnd = r.End.GraphemeCol
		}
		sb.WriteString(grapheme.Join(l.cells[partStart:partEnd]))
		if row == endRow {
			break
		}
		if sep != "" {
			sb.WriteString(sep)
		} else if l.eol != "" {
			sb.WriteString(l.eol)
		} else {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
