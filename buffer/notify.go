package buffer

// NotificationKind identifies a buffer notification.
type NotificationKind uint8

const (
	// NotifyBeforeChange fires for every individual edit before it is
	// applied, even inside an operation.
	NotifyBeforeChange NotificationKind = iota
	// NotifyLinesDetached fires right after an edit deleted lines, even
	// inside an operation.
	NotifyLinesDetached
	// NotifyChange fires once per flushed transaction. Inside an operation
	// all transactions are coalesced into one Change.
	NotifyChange
	// NotifyChanges fires once per flush with the individual transactions.
	NotifyChanges
	// NotifyBeforeSelectionChange fires before the selection is replaced.
	NotifyBeforeSelectionChange
	// NotifyCursorActivity fires once per flush when the selection moved.
	NotifyCursorActivity
)

func (k NotificationKind) String() string {
	switch k {
	case NotifyBeforeChange:
		return "beforeChange"
	case NotifyLinesDetached:
		return "linesDetached"
	case NotifyChange:
		return "change"
	case NotifyChanges:
		return "changes"
	case NotifyBeforeSelectionChange:
		return "beforeSelectionChange"
	case NotifyCursorActivity:
		return "cursorActivity"
	}
	return "unknown"
}

// Notification is delivered synchronously to buffer observers.
type Notification struct {
	Kind NotificationKind

	// Edit is set for NotifyBeforeChange. RangeAfter is not yet known and
	// left empty.
	Edit AppliedEdit
	// Lines is set for NotifyLinesDetached.
	Lines []LineHandle
	// Change is set for NotifyChange.
	Change Change
	// Changes is set for NotifyChanges.
	Changes []Change
	// Selection is the current selection for NotifyCursorActivity, and the
	// requested one for NotifyBeforeSelectionChange.
	Selection Selection
	// Previous is set for NotifyBeforeSelectionChange.
	Previous Selection
}

type observer struct {
	id int
	fn func(Notification)
}

// Observe registers fn for every notification. The returned func removes
// the observer; calling it more than once is harmless.
func (b *Buffer) Observe(fn func(Notification)) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	b.obsSeq++
	id := b.obsSeq
	b.observers = append(b.observers, observer{id: id, fn: fn})
	return func() {
		for i, o := range b.observers {
			if o.id == id {
				b.observers = append(b.observers[:i:i], b.observers[i+1:]...)
				return
			}
		}
	}
}

func (b *Buffer) notify(n Notification) {
	if len(b.observers) == 0 {
		return
	}
	obs := append([]observer(nil), b.observers...)
	for _, o := range obs {
		o.fn(n)
	}
}
