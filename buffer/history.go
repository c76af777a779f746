package buffer

import (
	"fmt"
	"hash/fnv"
)

// HistoryEvent is one undoable step: every edit applied by a single
// mutation or operation, in application order.
type HistoryEvent struct {
	Edits     []AppliedEdit
	SelBefore Selection
	SelAfter  Selection
	GenBefore int
	GenAfter  int
}

func (ev HistoryEvent) clone() HistoryEvent {
	ev.Edits = append([]AppliedEdit(nil), ev.Edits...)
	ev.SelBefore = ev.SelBefore.clone()
	ev.SelAfter = ev.SelAfter.clone()
	return ev
}

type historyState struct {
	limit  int
	undo   []HistoryEvent
	redo   []HistoryEvent
	gen    int
	maxGen int
	clean  int
}

func newHistory(limit int) *historyState {
	return &historyState{limit: limit, gen: 1, maxGen: 1, clean: 1}
}

func (h *historyState) nextGeneration() int {
	h.maxGen++
	h.gen = h.maxGen
	return h.gen
}

func (h *historyState) push(ev HistoryEvent) {
	if h.limit <= 0 {
		return
	}
	h.undo = append(h.undo, ev)
	if len(h.undo) > h.limit {
		h.undo = h.undo[len(h.undo)-h.limit:]
	}
	h.redo = nil
}

func (h *historyState) copy() *historyState {
	out := *h
	out.undo = make([]HistoryEvent, 0, len(h.undo))
	for _, ev := range h.undo {
		out.undo = append(out.undo, ev.clone())
	}
	out.redo = make([]HistoryEvent, 0, len(h.redo))
	for _, ev := range h.redo {
		out.redo = append(out.redo, ev.clone())
	}
	return &out
}

// recordHistory adds the edits of ch to the open operation's event, or
// pushes a standalone event when no operation is open.
func (b *Buffer) recordHistory(ch Change) {
	if b.op.depth == 0 {
		b.hist.push(HistoryEvent{
			Edits:     append([]AppliedEdit(nil), ch.AppliedEdits...),
			SelBefore: ch.SelectionBefore.clone(),
			SelAfter:  ch.SelectionAfter.clone(),
			GenBefore: b.hist.gen,
			GenAfter:  b.hist.nextGeneration(),
		})
		return
	}
	if b.op.hist == nil {
		b.op.hist = &HistoryEvent{
			SelBefore: ch.SelectionBefore.clone(),
			GenBefore: b.hist.gen,
		}
	}
	b.op.hist.Edits = append(b.op.hist.Edits, ch.AppliedEdits...)
}

func (b *Buffer) CanUndo() bool { return len(b.hist.undo) > 0 }

func (b *Buffer) CanRedo() bool { return len(b.hist.redo) > 0 }

// Undo reverts the latest history event. It reports false when there was
// nothing to undo.
func (b *Buffer) Undo() bool {
	ev, ok := b.replay(&b.hist.undo, "undo")
	if !ok {
		return false
	}
	b.hist.redo = append(b.hist.redo, ev)
	b.hist.gen = ev.GenAfter
	return true
}

// Redo re-applies the latest undone event.
func (b *Buffer) Redo() bool {
	ev, ok := b.replay(&b.hist.redo, "redo")
	if !ok {
		return false
	}
	b.hist.undo = append(b.hist.undo, ev)
	b.hist.gen = ev.GenAfter
	return true
}

// replay pops the last event of stack, applies its inverse and returns
// the event that reverts the replay.
func (b *Buffer) replay(stack *[]HistoryEvent, origin string) (HistoryEvent, bool) {
	if len(*stack) == 0 {
		return HistoryEvent{}, false
	}
	i := len(*stack) - 1
	ev := (*stack)[i]
	*stack = (*stack)[:i]

	b.StartOperation()
	defer b.EndOperation()

	cb := b.beginChange(ChangeSourceLocal, origin)
	cb.record = false
	for j := len(ev.Edits) - 1; j >= 0; j-- {
		e := ev.Edits[j]
		b.applyEdit(&cb, e.RangeAfter, e.DeletedText, false)
	}
	inverse := HistoryEvent{
		Edits:     append([]AppliedEdit(nil), cb.appliedEdits...),
		SelBefore: ev.SelAfter.clone(),
		SelAfter:  ev.SelBefore.clone(),
		GenBefore: ev.GenAfter,
		GenAfter:  ev.GenBefore,
	}
	b.setSelection(ev.SelBefore.clone())
	b.commitChange(cb)
	return inverse, true
}

// HistorySize reports the number of undo and redo events.
func (b *Buffer) HistorySize() (undo, redo int) {
	return len(b.hist.undo), len(b.hist.redo)
}

// ClearHistory drops every undo and redo event.
func (b *Buffer) ClearHistory() {
	b.hist.undo = nil
	b.hist.redo = nil
}

// ChangeGeneration returns a token identifying the current state.
// IsCleanAt(token) stays true until the document changes away from it.
func (b *Buffer) ChangeGeneration() int { return b.hist.gen }

// IsCleanAt reports whether the document is in the state of generation gen.
func (b *Buffer) IsCleanAt(gen int) bool { return b.hist.gen == gen }

// MarkClean records the current state as clean.
func (b *Buffer) MarkClean() { b.hist.clean = b.hist.gen }

// IsClean reports whether the document is unchanged since MarkClean.
func (b *Buffer) IsClean() bool { return b.hist.gen == b.hist.clean }

// History is an exported undo history. Fingerprint identifies the document
// content the history belongs to.
type History struct {
	Undo          []HistoryEvent
	Redo          []HistoryEvent
	Generation    int
	MaxGeneration int
	Fingerprint   uint64
}

// GetHistory exports the undo history.
func (b *Buffer) GetHistory() History {
	h := b.hist.copy()
	return History{
		Undo:          h.undo,
		Redo:          h.redo,
		Generation:    h.gen,
		MaxGeneration: h.maxGen,
		Fingerprint:   b.fingerprint(),
	}
}

// SetHistory replaces the undo history. It fails with ErrHistoryMismatch
// when h was exported from different content.
func (b *Buffer) SetHistory(h History) error {
	if fp := b.fingerprint(); h.Fingerprint != fp {
		return fmt.Errorf("%w: fingerprint %x, document %x", ErrHistoryMismatch, h.Fingerprint, fp)
	}
	in := historyState{undo: h.Undo, redo: h.Redo}
	next := in.copy()
	next.limit = b.hist.limit
	next.gen = max(h.Generation, 1)
	next.maxGen = max(h.MaxGeneration, next.gen)
	next.clean = b.hist.clean
	*b.hist = *next
	return nil
}

func (b *Buffer) fingerprint() uint64 {
	f := fnv.New64a()
	_, _ = f.Write([]byte(b.Value("")))
	return f.Sum64()
}
