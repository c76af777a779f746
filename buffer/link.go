package buffer

import "fmt"

type docLink struct {
	doc        *Buffer
	sharedHist bool
}

type LinkOptions struct {
	// SharedHist makes both documents use one undo history.
	SharedHist bool
}

// LinkedDoc creates a document with the same content that receives every
// edit made to b, and propagates its own edits back.
func (b *Buffer) LinkedDoc(opt LinkOptions) *Buffer {
	other := b.Copy(false)
	if opt.SharedHist {
		other.hist = b.hist
	}
	b.links = append(b.links, docLink{doc: other, sharedHist: opt.SharedHist})
	other.links = append(other.links, docLink{doc: b, sharedHist: opt.SharedHist})
	return other
}

// Copy returns an unlinked document with the same content and selection.
// copyHistory carries the undo history over.
func (b *Buffer) Copy(copyHistory bool) *Buffer {
	out := New("", b.opt)
	out.lines = make([]*line, 0, len(b.lines))
	for _, l := range b.lines {
		out.lines = append(out.lines, newLine(append([]string(nil), l.cells...), l.eol))
	}
	out.renumber(0)
	out.sel = b.sel.clone()
	out.extending = b.extending
	if copyHistory {
		out.hist = b.hist.copy()
	}
	return out
}

// Unlink breaks the link between b and other. A shared history is split
// into two copies.
func (b *Buffer) Unlink(other *Buffer) error {
	i := b.linkIndex(other)
	if i < 0 {
		return fmt.Errorf("%w: documents are not linked", ErrInvalidArgument)
	}
	shared := b.links[i].sharedHist
	b.links = append(b.links[:i:i], b.links[i+1:]...)
	if j := other.linkIndex(b); j >= 0 {
		other.links = append(other.links[:j:j], other.links[j+1:]...)
	}
	if shared {
		other.hist = b.hist.copy()
	}
	return nil
}

// IterLinkedDocs calls fn for every document directly linked to b.
func (b *Buffer) IterLinkedDocs(fn func(doc *Buffer, sharedHist bool)) {
	links := append([]docLink(nil), b.links...)
	for _, l := range links {
		fn(l.doc, l.sharedHist)
	}
}

func (b *Buffer) linkIndex(other *Buffer) int {
	for i, l := range b.links {
		if l.doc == other {
			return i
		}
	}
	return -1
}

// propagate replays ch on every linked document not yet visited.
func (b *Buffer) propagate(ch Change, visited map[*Buffer]bool) {
	for _, l := range b.links {
		if visited[l.doc] {
			continue
		}
		visited[l.doc] = true
		l.doc.applyLinked(ch, b.hist, visited)
	}
}

func (b *Buffer) applyLinked(ch Change, srcHist *historyState, visited map[*Buffer]bool) {
	b.StartOperation()
	defer b.EndOperation()

	cb := b.beginChange(ChangeSourceLinked, ch.Origin)
	cb.record = b.hist != srcHist
	cb.visited = visited
	for _, e := range ch.AppliedEdits {
		b.applyEdit(&cb, e.RangeBefore, e.InsertText, e.full)
	}
	b.commitChange(cb)
}
