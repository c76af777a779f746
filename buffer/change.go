package buffer

// ChangeSource identifies where a change originated.
type ChangeSource uint8

const (
	ChangeSourceLocal ChangeSource = iota
	// ChangeSourceLinked marks changes propagated from a linked document.
	ChangeSourceLinked
)

// AppliedEdit describes one effective edit in a change transaction.
type AppliedEdit struct {
	RangeBefore Range
	RangeAfter  Range
	InsertText  string
	DeletedText string

	full bool
}

// Change is a normalized, versioned mutation payload.
type Change struct {
	Source          ChangeSource
	Origin          string
	VersionBefore   uint64
	VersionAfter    uint64
	CursorBefore    Pos
	CursorAfter     Pos
	SelectionBefore Selection
	SelectionAfter  Selection
	AppliedEdits    []AppliedEdit
	// DetachedLines lists the lines this change deleted.
	DetachedLines []LineHandle
}

type changeBuilder struct {
	source          ChangeSource
	origin          string
	record          bool
	versionBefore   uint64
	cursorBefore    Pos
	selectionBefore Selection
	appliedEdits    []AppliedEdit
	detached        []LineHandle
	// visited guards propagation through cycles of linked documents.
	visited map[*Buffer]bool
}

func cloneChange(in Change) Change {
	out := in
	out.SelectionBefore = in.SelectionBefore.clone()
	out.SelectionAfter = in.SelectionAfter.clone()
	out.AppliedEdits = append([]AppliedEdit(nil), in.AppliedEdits...)
	out.DetachedLines = append([]LineHandle(nil), in.DetachedLines...)
	return out
}

func (b *Buffer) beginChange(source ChangeSource, origin string) changeBuilder {
	return changeBuilder{
		source:          source,
		origin:          origin,
		record:          true,
		versionBefore:   b.version,
		cursorBefore:    b.Cursor(),
		selectionBefore: b.sel.clone(),
	}
}

func (cb *changeBuilder) addAppliedEdit(edit AppliedEdit) {
	edit.RangeBefore = NormalizeRange(edit.RangeBefore)
	edit.RangeAfter = NormalizeRange(edit.RangeAfter)
	cb.appliedEdits = append(cb.appliedEdits, edit)
}

// commitChange publishes cb, records history and propagates the edits to
// linked documents. It is a no-op when nothing changed.
func (b *Buffer) commitChange(cb changeBuilder) {
	if b.version == cb.versionBefore && len(cb.appliedEdits) == 0 {
		return
	}
	if len(cb.appliedEdits) == 0 {
		b.selectionMoved()
		return
	}
	ch := Change{
		Source:          cb.source,
		Origin:          cb.origin,
		VersionBefore:   cb.versionBefore,
		VersionAfter:    b.version,
		CursorBefore:    cb.cursorBefore,
		CursorAfter:     b.Cursor(),
		SelectionBefore: cb.selectionBefore,
		SelectionAfter:  b.sel.clone(),
		AppliedEdits:    append([]AppliedEdit(nil), cb.appliedEdits...),
		DetachedLines:   append([]LineHandle(nil), cb.detached...),
	}
	if cb.record {
		b.recordHistory(ch)
	}

	if b.op.depth > 0 {
		b.op.pending = append(b.op.pending, ch)
	} else {
		b.flush([]Change{ch}, false)
	}

	visited := cb.visited
	if visited == nil {
		visited = map[*Buffer]bool{b: true}
	}
	b.propagate(ch, visited)
}

func (b *Buffer) selectionMoved() {
	if b.op.depth > 0 {
		b.op.cursorDirty = true
		return
	}
	b.flush(nil, true)
}

func (b *Buffer) flush(changes []Change, cursorDirty bool) {
	if len(changes) > 0 {
		merged := mergeChanges(changes)
		b.notify(Notification{Kind: NotifyChange, Change: merged})
		out := make([]Change, 0, len(changes))
		for _, ch := range changes {
			out = append(out, cloneChange(ch))
		}
		b.notify(Notification{Kind: NotifyChanges, Changes: out})
		if !merged.SelectionBefore.Equal(merged.SelectionAfter) {
			cursorDirty = true
		}
	}
	if cursorDirty {
		b.notify(Notification{Kind: NotifyCursorActivity, Selection: b.sel.clone()})
	}
}

func mergeChanges(changes []Change) Change {
	if len(changes) == 1 {
		return cloneChange(changes[0])
	}
	first, last := changes[0], changes[len(changes)-1]
	out := Change{
		Source:          first.Source,
		Origin:          first.Origin,
		VersionBefore:   first.VersionBefore,
		VersionAfter:    last.VersionAfter,
		CursorBefore:    first.CursorBefore,
		CursorAfter:     last.CursorAfter,
		SelectionBefore: first.SelectionBefore.clone(),
		SelectionAfter:  last.SelectionAfter.clone(),
	}
	for _, ch := range changes {
		out.AppliedEdits = append(out.AppliedEdits, ch.AppliedEdits...)
		out.DetachedLines = append(out.DetachedLines, ch.DetachedLines...)
	}
	return out
}
