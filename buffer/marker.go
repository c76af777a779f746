package buffer

import "sort"

type MarkerOptions struct {
	ClassName string
	Title     string
	// InclusiveLeft and InclusiveRight make text inserted at the start or
	// end of the marked range part of it.
	InclusiveLeft  bool
	InclusiveRight bool
	// KeepWhenEmpty keeps the marker after its whole range was deleted.
	KeepWhenEmpty bool
}

type BookmarkOptions struct {
	// InsertLeft keeps the bookmark before text inserted at its position.
	InsertLeft bool
	// Widget is informational content rendered at the bookmark.
	Widget string
}

// TextMarker decorates a range, or a single position when it is a
// bookmark. It follows edits until it is cleared.
type TextMarker struct {
	id       uint64
	doc      *Buffer
	from, to Pos
	opts     MarkerOptions
	bookmark BookmarkOptions
	isBook   bool
	cleared  bool
}

func (m *TextMarker) ID() uint64 { return m.id }

func (m *TextMarker) IsBookmark() bool { return m.isBook }

func (m *TextMarker) Options() MarkerOptions { return m.opts }

func (m *TextMarker) BookmarkOptions() BookmarkOptions { return m.bookmark }

// Find returns the current range of the marker. ok is false once it was
// cleared.
func (m *TextMarker) Find() (r Range, ok bool) {
	if m == nil || m.cleared {
		return Range{}, false
	}
	return Range{Start: m.from, End: m.to}, true
}

// Clear removes the marker. Clearing twice is a no-op.
func (m *TextMarker) Clear() {
	if m == nil || m.cleared {
		return
	}
	m.doc.removeMarker(m)
}

func (m *TextMarker) Cleared() bool { return m == nil || m.cleared }

// MarkText marks [from, to).
func (b *Buffer) MarkText(from, to Pos, opts MarkerOptions) (*TextMarker, error) {
	if err := b.CheckPos(from); err != nil {
		return nil, err
	}
	if err := b.CheckPos(to); err != nil {
		return nil, err
	}
	r := NormalizeRange(Range{Start: from, End: to})
	m := b.newMarker(r.Start, r.End)
	m.opts = opts
	return m, nil
}

// SetBookmark puts a point marker at p.
func (b *Buffer) SetBookmark(p Pos, opts BookmarkOptions) (*TextMarker, error) {
	if err := b.CheckPos(p); err != nil {
		return nil, err
	}
	m := b.newMarker(p, p)
	m.isBook = true
	m.bookmark = opts
	return m, nil
}

func (b *Buffer) newMarker(from, to Pos) *TextMarker {
	b.markerSeq++
	m := &TextMarker{id: b.markerSeq, doc: b, from: from, to: to}
	b.markers = append(b.markers, m)
	b.version++
	return m
}

func (b *Buffer) removeMarker(m *TextMarker) {
	m.cleared = true
	for i, x := range b.markers {
		if x == m {
			b.markers = append(b.markers[:i:i], b.markers[i+1:]...)
			break
		}
	}
	b.version++
}

// MarkerByID finds a live marker.
func (b *Buffer) MarkerByID(id uint64) (*TextMarker, bool) {
	for _, m := range b.markers {
		if m.id == id {
			return m, true
		}
	}
	return nil, false
}

// FindMarks returns the markers touching [from, to], in document order.
func (b *Buffer) FindMarks(from, to Pos) []*TextMarker {
	r := NormalizeRange(Range{Start: from, End: to})
	var out []*TextMarker
	for _, m := range b.markers {
		if ComparePos(m.to, r.Start) < 0 || ComparePos(m.from, r.End) > 0 {
			continue
		}
		// A non-empty query excludes markers that only touch its edges.
		if !r.IsEmpty() && m.from != m.to && (m.to == r.Start || m.from == r.End) {
			continue
		}
		out = append(out, m)
	}
	sortMarkers(out)
	return out
}

// FindMarksAt returns the markers that contain p.
func (b *Buffer) FindMarksAt(p Pos) []*TextMarker {
	var out []*TextMarker
	for _, m := range b.markers {
		if ComparePos(m.from, p) <= 0 && ComparePos(p, m.to) <= 0 {
			out = append(out, m)
		}
	}
	sortMarkers(out)
	return out
}

// AllMarks returns every live marker in document order.
func (b *Buffer) AllMarks() []*TextMarker {
	out := append([]*TextMarker(nil), b.markers...)
	sortMarkers(out)
	return out
}

func sortMarkers(ms []*TextMarker) {
	sort.SliceStable(ms, func(i, j int) bool {
		if c := ComparePos(ms[i].from, ms[j].from); c != 0 {
			return c < 0
		}
		return ms[i].id < ms[j].id
	})
}

// adjustMarkers maps every marker through e and clears markers whose
// range collapsed.
func (b *Buffer) adjustMarkers(e AppliedEdit) {
	if len(b.markers) == 0 {
		return
	}
	var dead []*TextMarker
	for _, m := range b.markers {
		if m.isBook {
			p := adjustPos(m.from, e, m.bookmark.InsertLeft)
			m.from, m.to = p, p
			continue
		}
		wasEmpty := m.from == m.to
		from := adjustPos(m.from, e, m.opts.InclusiveLeft)
		to := adjustPos(m.to, e, !m.opts.InclusiveRight)
		if ComparePos(to, from) < 0 {
			to = from
		}
		m.from, m.to = from, to
		if !wasEmpty && from == to && !m.opts.KeepWhenEmpty {
			dead = append(dead, m)
		}
	}
	for _, m := range dead {
		b.removeMarker(m)
	}
}
