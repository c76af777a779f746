package buffer

type opState struct {
	depth       int
	pending     []Change
	cursorDirty bool
	hist        *HistoryEvent
}

// StartOperation opens an operation. Until the matching EndOperation,
// change and cursor notifications are buffered and all mutations form a
// single undo event. Operations nest.
//
// A started operation that is never ended leaves observers without any
// change notification. Nothing recovers from that automatically.
func (b *Buffer) StartOperation() {
	b.op.depth++
}

// EndOperation closes the innermost operation. Closing the outermost one
// flushes buffered notifications as one coalesced change. Calling it
// without an open operation is a no-op.
func (b *Buffer) EndOperation() {
	if b.op.depth == 0 {
		return
	}
	b.op.depth--
	if b.op.depth > 0 {
		return
	}

	if ev := b.op.hist; ev != nil {
		b.op.hist = nil
		ev.SelAfter = b.sel.clone()
		ev.GenAfter = b.hist.nextGeneration()
		b.hist.push(*ev)
	}

	pending, dirty := b.op.pending, b.op.cursorDirty
	b.op.pending, b.op.cursorDirty = nil, false
	b.flush(pending, dirty)
}

// InOperation reports whether an operation is open.
func (b *Buffer) InOperation() bool { return b.op.depth > 0 }

// Operation runs fn inside an operation and always ends it, even when fn
// fails or panics.
func (b *Buffer) Operation(fn func() error) error {
	b.StartOperation()
	defer b.EndOperation()
	return fn()
}
