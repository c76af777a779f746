package editor

import (
	"fmt"

	"github.com/iw2rmb/lattice/buffer"
)

// EventKind identifies an editor event.
type EventKind uint8

const (
	EventBeforeChange EventKind = iota
	EventChange
	EventChanges
	EventCursorActivity
	EventBeforeSelectionChange
	EventOptionChange
	EventFocus
	EventBlur
	EventGutterClick
	EventOverwriteToggle
	EventRefresh
	EventOther
)

var eventNames = [...]string{
	EventBeforeChange:          "beforeChange",
	EventChange:                "change",
	EventChanges:               "changes",
	EventCursorActivity:        "cursorActivity",
	EventBeforeSelectionChange: "beforeSelectionChange",
	EventOptionChange:          "optionChange",
	EventFocus:                 "focus",
	EventBlur:                  "blur",
	EventGutterClick:           "gutterClick",
	EventOverwriteToggle:       "overwriteToggle",
	EventRefresh:               "refresh",
	EventOther:                 "other",
}

func (k EventKind) String() string {
	if int(k) < len(eventNames) {
		return eventNames[k]
	}
	return fmt.Sprintf("event(%d)", uint8(k))
}

// ParseEventKind maps an event name back to its kind.
func ParseEventKind(name string) (EventKind, bool) {
	for k, n := range eventNames {
		if n == name {
			return EventKind(k), true
		}
	}
	return 0, false
}

// Event is one of the event types below.
type Event interface {
	Kind() EventKind
	event()
}

// BeforeChangeEvent is emitted for every edit before it is applied.
// Handlers observe it; they cannot alter or cancel the edit.
type BeforeChangeEvent struct {
	Edit buffer.AppliedEdit
}

// ChangeEvent carries the coalesced change of one flush.
type ChangeEvent struct {
	Change buffer.Change
}

// ChangesEvent carries the individual changes of one flush.
type ChangesEvent struct {
	Changes []buffer.Change
}

type CursorActivityEvent struct {
	Selection buffer.Selection
}

type BeforeSelectionChangeEvent struct {
	Previous buffer.Selection
	Next     buffer.Selection
}

type OptionChangeEvent struct {
	Name  string
	Value any
}

type FocusEvent struct{}

type BlurEvent struct{}

type GutterClickEvent struct {
	Line   int
	Handle buffer.LineHandle
	Gutter string
}

type OverwriteToggleEvent struct {
	Overwrite bool
}

type RefreshEvent struct{}

// OtherEvent carries events without a dedicated type.
type OtherEvent struct {
	Name    string
	Payload any
}

func (BeforeChangeEvent) Kind() EventKind          { return EventBeforeChange }
func (ChangeEvent) Kind() EventKind                { return EventChange }
func (ChangesEvent) Kind() EventKind               { return EventChanges }
func (CursorActivityEvent) Kind() EventKind        { return EventCursorActivity }
func (BeforeSelectionChangeEvent) Kind() EventKind { return EventBeforeSelectionChange }
func (OptionChangeEvent) Kind() EventKind          { return EventOptionChange }
func (FocusEvent) Kind() EventKind                 { return EventFocus }
func (BlurEvent) Kind() EventKind                  { return EventBlur }
func (GutterClickEvent) Kind() EventKind           { return EventGutterClick }
func (OverwriteToggleEvent) Kind() EventKind       { return EventOverwriteToggle }
func (RefreshEvent) Kind() EventKind               { return EventRefresh }
func (OtherEvent) Kind() EventKind                 { return EventOther }

func (BeforeChangeEvent) event()          {}
func (ChangeEvent) event()                {}
func (ChangesEvent) event()               {}
func (CursorActivityEvent) event()        {}
func (BeforeSelectionChangeEvent) event() {}
func (OptionChangeEvent) event()          {}
func (FocusEvent) event()                 {}
func (BlurEvent) event()                  {}
func (GutterClickEvent) event()           {}
func (OverwriteToggleEvent) event()       {}
func (RefreshEvent) event()               {}
func (OtherEvent) event()                 {}

func eventFromNotification(n buffer.Notification) (Event, bool) {
	switch n.Kind {
	case buffer.NotifyBeforeChange:
		return BeforeChangeEvent{Edit: n.Edit}, true
	case buffer.NotifyChange:
		return ChangeEvent{Change: n.Change}, true
	case buffer.NotifyChanges:
		return ChangesEvent{Changes: n.Changes}, true
	case buffer.NotifyCursorActivity:
		return CursorActivityEvent{Selection: n.Selection}, true
	case buffer.NotifyBeforeSelectionChange:
		return BeforeSelectionChangeEvent{Previous: n.Previous, Next: n.Selection}, true
	}
	return nil, false
}
