package buffer

import (
	"fmt"
	"sort"
	"strings"
)

// SelRange is one selection range. Head is the side that moves when the
// selection is extended; Anchor stays in place.
type SelRange struct {
	Anchor Pos
	Head   Pos
}

func (r SelRange) From() Pos { return MinPos(r.Anchor, r.Head) }

func (r SelRange) To() Pos { return MaxPos(r.Anchor, r.Head) }

func (r SelRange) Empty() bool { return r.Anchor == r.Head }

func (r SelRange) Range() Range { return Range{Start: r.From(), End: r.To()} }

// Selection is a set of ranges sorted by document order that never
// overlap. Primary indexes the range that owns the cursor.
type Selection struct {
	Ranges  []SelRange
	Primary int
}

func SingleSelection(anchor, head Pos) Selection {
	return Selection{Ranges: []SelRange{{Anchor: anchor, Head: head}}}
}

func (s Selection) PrimaryRange() SelRange {
	if len(s.Ranges) == 0 {
		return SelRange{}
	}
	i := clampInt(s.Primary, 0, len(s.Ranges)-1)
	return s.Ranges[i]
}

func (s Selection) Equal(o Selection) bool {
	if s.Primary != o.Primary || len(s.Ranges) != len(o.Ranges) {
		return false
	}
	for i := range s.Ranges {
		if s.Ranges[i] != o.Ranges[i] {
			return false
		}
	}
	return true
}

func (s Selection) clone() Selection {
	return Selection{Ranges: append([]SelRange(nil), s.Ranges...), Primary: s.Primary}
}

// NormalizeSelection sorts ranges and merges the ones that overlap or
// touch. The primary index follows its range into the merged result.
func NormalizeSelection(s Selection) Selection {
	if len(s.Ranges) == 0 {
		return SingleSelection(Pos{}, Pos{})
	}
	type indexed struct {
		r       SelRange
		primary bool
	}
	prim := clampInt(s.Primary, 0, len(s.Ranges)-1)
	items := make([]indexed, len(s.Ranges))
	for i, r := range s.Ranges {
		items[i] = indexed{r: r, primary: i == prim}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return ComparePos(items[i].r.From(), items[j].r.From()) < 0
	})

	out := Selection{Ranges: make([]SelRange, 0, len(items))}
	for _, it := range items {
		n := len(out.Ranges)
		if n > 0 {
			prev := out.Ranges[n-1]
			if ComparePos(prev.To(), it.r.From()) >= 0 {
				from := MinPos(prev.From(), it.r.From())
				to := MaxPos(prev.To(), it.r.To())
				backward := ComparePos(prev.Head, prev.Anchor) < 0
				if backward {
					out.Ranges[n-1] = SelRange{Anchor: to, Head: from}
				} else {
					out.Ranges[n-1] = SelRange{Anchor: from, Head: to}
				}
				if it.primary {
					out.Primary = n - 1
				}
				continue
			}
		}
		if it.primary {
			out.Primary = len(out.Ranges)
		}
		out.Ranges = append(out.Ranges, it.r)
	}
	return out
}

// Selection returns the current normalized selection.
func (b *Buffer) Selection() Selection { return b.sel.clone() }

// ListSelections returns the selection ranges in document order.
func (b *Buffer) ListSelections() []SelRange {
	return append([]SelRange(nil), b.sel.Ranges...)
}

// PrimaryRange returns the primary range when it is not empty.
func (b *Buffer) PrimaryRange() (Range, bool) {
	r := b.sel.PrimaryRange()
	if r.Empty() {
		return Range{}, false
	}
	return r.Range(), true
}

// Cursor returns the head of the primary range.
func (b *Buffer) Cursor() Pos { return b.sel.PrimaryRange().Head }

// CursorSide selects which end of the primary range CursorAt reports.
type CursorSide uint8

const (
	CursorHead CursorSide = iota
	CursorAnchor
	CursorFrom
	CursorTo
)

func (b *Buffer) CursorAt(side CursorSide) Pos {
	r := b.sel.PrimaryRange()
	switch side {
	case CursorAnchor:
		return r.Anchor
	case CursorFrom:
		return r.From()
	case CursorTo:
		return r.To()
	default:
		return r.Head
	}
}

func (b *Buffer) SomethingSelected() bool {
	for _, r := range b.sel.Ranges {
		if !r.Empty() {
			return true
		}
	}
	return false
}

// SetCursor replaces all selections with an empty one at p.
func (b *Buffer) SetCursor(p Pos) error {
	if err := b.CheckPos(p); err != nil {
		return err
	}
	b.setSelection(SingleSelection(p, p))
	return nil
}

// SetSelection replaces all selections with one range.
func (b *Buffer) SetSelection(anchor, head Pos) error {
	if err := b.CheckPos(anchor); err != nil {
		return err
	}
	if err := b.CheckPos(head); err != nil {
		return err
	}
	b.setSelection(SingleSelection(anchor, head))
	return nil
}

// SetSelections replaces the selection with ranges. primary < 0 keeps the
// last range as primary.
func (b *Buffer) SetSelections(ranges []SelRange, primary int) error {
	if len(ranges) == 0 {
		return fmt.Errorf("%w: empty selection", ErrInvalidArgument)
	}
	for _, r := range ranges {
		if err := b.CheckPos(r.Anchor); err != nil {
			return err
		}
		if err := b.CheckPos(r.Head); err != nil {
			return err
		}
	}
	if primary < 0 || primary >= len(ranges) {
		primary = len(ranges) - 1
	}
	b.setSelection(Selection{Ranges: append([]SelRange(nil), ranges...), Primary: primary})
	return nil
}

// ExtendSelection moves the head of the primary range to head when the
// buffer is extending, or selects [other, head] otherwise. When other is
// given while extending, the selection grows to cover it as well.
func (b *Buffer) ExtendSelection(head Pos, other *Pos) error {
	if err := b.CheckPos(head); err != nil {
		return err
	}
	if other != nil {
		if err := b.CheckPos(*other); err != nil {
			return err
		}
	}
	next := extendRange(b.sel.PrimaryRange(), head, other, b.extending)
	b.setSelection(Selection{Ranges: []SelRange{next}})
	return nil
}

func extendRange(r SelRange, head Pos, other *Pos, extend bool) SelRange {
	if !extend {
		if other != nil {
			return SelRange{Anchor: *other, Head: head}
		}
		return SelRange{Anchor: head, Head: head}
	}
	anchor := r.Anchor
	if other != nil {
		posBefore := ComparePos(head, anchor) < 0
		if posBefore != (ComparePos(*other, anchor) < 0) {
			anchor = head
			head = *other
		} else if posBefore != (ComparePos(head, *other) < 0) {
			head = *other
		}
	}
	return SelRange{Anchor: anchor, Head: head}
}

// ClearSelection collapses every range to its head.
func (b *Buffer) ClearSelection() {
	if !b.SomethingSelected() {
		return
	}
	next := b.sel.clone()
	for i, r := range next.Ranges {
		next.Ranges[i] = SelRange{Anchor: r.Head, Head: r.Head}
	}
	b.setSelection(next)
}

// GetSelection returns the selected text of all ranges joined by sep.
func (b *Buffer) GetSelection(sep string) string {
	return strings.Join(b.GetSelections(sep), b.sepOrDefault(sep))
}

// GetSelections returns the selected text of every range.
func (b *Buffer) GetSelections(sep string) []string {
	out := make([]string, 0, len(b.sel.Ranges))
	for _, r := range b.sel.Ranges {
		out = append(out, b.textRange(r.Range(), sep))
	}
	return out
}

func (b *Buffer) sepOrDefault(sep string) string {
	if sep == "" {
		return b.LineSeparator()
	}
	return sep
}

// setSelection normalizes next and publishes it when it differs from the
// current selection.
func (b *Buffer) setSelection(next Selection) {
	next = NormalizeSelection(next)
	for i, r := range next.Ranges {
		next.Ranges[i] = SelRange{Anchor: b.clampPos(r.Anchor), Head: b.clampPos(r.Head)}
	}
	if next.Equal(b.sel) {
		return
	}
	b.notify(Notification{Kind: NotifyBeforeSelectionChange, Selection: next.clone(), Previous: b.sel.clone()})
	b.sel = next
	b.version++
	b.selectionMoved()
}

// mapSelection shifts every range through an applied edit without
// publishing anything.
func (b *Buffer) mapSelection(e AppliedEdit) {
	next := b.sel.clone()
	for i, r := range next.Ranges {
		next.Ranges[i] = SelRange{
			Anchor: adjustPos(r.Anchor, e, false),
			Head:   adjustPos(r.Head, e, false),
		}
	}
	b.sel = NormalizeSelection(next)
}
