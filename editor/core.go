package editor

import (
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/iw2rmb/lattice/buffer"
)

var log = commonlog.GetLogger("lattice.editor")

// Core is the headless editor instance: a document plus the state an
// editor keeps around it.
//
// Core is not safe for concurrent use. Callers serialize access, normally
// by running everything through an Executor.
type Core struct {
	doc  *buffer.Buffer
	opts Options

	focused    bool
	overwrite  bool
	completing bool
	destroyed  bool

	keyMaps  []namedKeyMap
	commands map[string]Command

	subs      []subscriber
	subSeq    int
	emitted   uint64
	cancelDoc func()
}

type subscriber struct {
	id int
	fn func(Event)
}

// NewCore creates an editor over doc. A nil doc is replaced by an empty
// buffer.
func NewCore(doc *buffer.Buffer, opts Options) *Core {
	opts = opts.normalized()
	if doc == nil {
		doc = buffer.New("", buffer.Options{HistoryLimit: opts.HistoryLimit})
	}
	c := &Core{
		doc:      doc,
		opts:     opts,
		commands: builtinCommands(),
	}
	c.cancelDoc = doc.Observe(c.forward)
	return c
}

func (c *Core) Doc() *buffer.Buffer { return c.doc }

func (c *Core) forward(n buffer.Notification) {
	if ev, ok := eventFromNotification(n); ok {
		c.emit(ev)
	}
}

// Subscribe registers fn for every event. Handlers run synchronously on
// the goroutine that caused the event.
func (c *Core) Subscribe(fn func(Event)) (cancel func()) {
	if fn == nil || c.destroyed {
		return func() {}
	}
	c.subSeq++
	id := c.subSeq
	c.subs = append(c.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

func (c *Core) emit(ev Event) {
	c.emitted++
	subs := append([]subscriber(nil), c.subs...)
	for _, s := range subs {
		s.fn(ev)
	}
}

// Emitted counts the events emitted so far.
func (c *Core) Emitted() uint64 { return c.emitted }

// Emit delivers an event without a dedicated type to subscribers.
func (c *Core) Emit(name string, payload any) {
	c.emit(OtherEvent{Name: name, Payload: payload})
}

func (c *Core) Options() Options {
	o := c.opts
	o.Gutters = append([]string(nil), o.Gutters...)
	return o
}

func (c *Core) Option(name string) (any, error) { return c.opts.get(name) }

// SetOption changes one option. An OptionChangeEvent is emitted only when
// the value actually changed.
func (c *Core) SetOption(name string, v any) error {
	next, changed, err := c.opts.set(name, v)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	c.opts = next
	log.Debugf("option %s=%v", name, v)
	c.emit(OptionChangeEvent{Name: name, Value: v})
	return nil
}

func (c *Core) IsReadOnly() bool { return c.opts.ReadOnly }

func (c *Core) Focused() bool { return c.focused }

func (c *Core) Focus() {
	if c.focused {
		return
	}
	c.focused = true
	c.emit(FocusEvent{})
}

func (c *Core) Blur() {
	if !c.focused {
		return
	}
	c.focused = false
	c.emit(BlurEvent{})
}

func (c *Core) Overwrite() bool { return c.overwrite }

// ToggleOverwrite flips overwrite mode, or sets it to *v, and returns the
// new state.
func (c *Core) ToggleOverwrite(v *bool) bool {
	next := !c.overwrite
	if v != nil {
		next = *v
	}
	if next != c.overwrite {
		c.overwrite = next
		c.emit(OverwriteToggleEvent{Overwrite: next})
	}
	return c.overwrite
}

// IsCompletionActive reports whether a completion popup is open.
func (c *Core) IsCompletionActive() bool { return c.completing }

func (c *Core) SetCompletionActive(v bool) { c.completing = v }

// Refresh asks views to redraw.
func (c *Core) Refresh() { c.emit(RefreshEvent{}) }

// ClickGutter reports a click on gutter of line n.
func (c *Core) ClickGutter(n int, gutter string) error {
	h, err := c.doc.LineHandle(n)
	if err != nil {
		return err
	}
	c.emit(GutterClickEvent{Line: n, Handle: h, Gutter: gutter})
	return nil
}

// Destroy detaches the editor from its document and drops every
// subscriber. The document itself stays usable.
func (c *Core) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	if c.cancelDoc != nil {
		c.cancelDoc()
	}
	c.subs = nil
	log.Debug("editor destroyed")
}

func (c *Core) Destroyed() bool { return c.destroyed }

// Typing inserts s at every selection, replacing the grapheme after the
// cursor in overwrite mode.
func (c *Core) Typing(s string) error {
	if c.opts.ReadOnly {
		return ErrReadOnly
	}
	if !c.overwrite || c.doc.SomethingSelected() {
		c.doc.InsertText(s)
		return nil
	}
	return c.doc.Operation(func() error {
		ranges := c.doc.ListSelections()
		for i := len(ranges) - 1; i >= 0; i-- {
			at := ranges[i].Head
			end, _, err := c.doc.FindPosH(at, 1, buffer.MoveGrapheme)
			if err != nil {
				return fmt.Errorf("overwrite at %v: %w", at, err)
			}
			if end.Row != at.Row {
				end = at
			}
			if err := c.doc.ReplaceRangeOrigin(s, at, end, "+input"); err != nil {
				return err
			}
		}
		return nil
	})
}
