package buffer

// Apply applies a sequence of text edits as one change and one history
// event. Each edit's range is interpreted against the buffer state at the
// time that edit is applied and clamped into the document.
//
// The cursor moves to the end of the last effective edit.
func (b *Buffer) Apply(edits ...TextEdit) {
	if len(edits) == 0 {
		return
	}
	b.StartOperation()
	defer b.EndOperation()

	cb := b.beginChange(ChangeSourceLocal, "+apply")
	var (
		last    Pos
		applied bool
	)
	for _, e := range edits {
		ae, ok := b.applyEdit(&cb, e.Range, e.Text, false)
		if !ok {
			continue
		}
		applied = true
		last = ae.RangeAfter.End
	}
	if applied {
		b.setSelection(SingleSelection(last, last))
	}
	b.commitChange(cb)
}
