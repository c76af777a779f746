package editor

import (
	"errors"
	"testing"

	"github.com/iw2rmb/lattice/buffer"
)

func newCore(text string, opts Options) *Core {
	return NewCore(buffer.New(text, buffer.Options{}), opts)
}

func kinds(evs []Event) []EventKind {
	out := make([]EventKind, len(evs))
	for i, ev := range evs {
		out[i] = ev.Kind()
	}
	return out
}

func TestCore_ForwardsBufferNotifications(t *testing.T) {
	c := newCore("ab", Options{})
	var evs []Event
	cancel := c.Subscribe(func(ev Event) { evs = append(evs, ev) })
	defer cancel()

	if err := c.Doc().ReplaceRange("X", buffer.Pos{}, buffer.Pos{}); err != nil {
		t.Fatalf("ReplaceRange: %v", err)
	}
	got := kinds(evs)
	want := []EventKind{EventBeforeChange, EventChange, EventChanges, EventCursorActivity}
	if len(got) != len(want) {
		t.Fatalf("events=%v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events=%v, want %v", got, want)
		}
	}
	ch := evs[1].(ChangeEvent).Change
	if len(ch.AppliedEdits) != 1 || ch.AppliedEdits[0].InsertText != "X" {
		t.Fatalf("change=%+v", ch)
	}
}

func TestCore_Options(t *testing.T) {
	c := newCore("", DefaultOptions())
	var evs []Event
	c.Subscribe(func(ev Event) { evs = append(evs, ev) })

	if err := c.SetOption(OptTabSize, 8); err != nil {
		t.Fatalf("SetOption: %v", err)
	}
	if err := c.SetOption(OptTabSize, 8); err != nil {
		t.Fatalf("SetOption again: %v", err)
	}
	if len(evs) != 1 {
		t.Fatalf("option events=%d, want 1", len(evs))
	}
	if oc := evs[0].(OptionChangeEvent); oc.Name != OptTabSize || oc.Value != 8 {
		t.Fatalf("event=%+v", oc)
	}
	if v, _ := c.Option(OptTabSize); v != 8 {
		t.Fatalf("tabSize=%v, want 8", v)
	}

	if err := c.SetOption(OptTabSize, "wide"); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("err=%v, want ErrInvalidOption", err)
	}
	if err := c.SetOption("theme", "dark"); !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("err=%v, want ErrUnknownOption", err)
	}
	if err := c.SetOption(OptReadOnly, true); err != nil || !c.IsReadOnly() {
		t.Fatalf("readOnly err=%v ro=%v", err, c.IsReadOnly())
	}
	if err := c.SetOption(OptGutters, []string{"breakpoints"}); err != nil {
		t.Fatalf("gutters: %v", err)
	}
	if gs := c.Options().Gutters; len(gs) != 1 || gs[0] != "breakpoints" {
		t.Fatalf("gutters=%v", gs)
	}
}

func TestCore_FocusOverwriteRefresh(t *testing.T) {
	c := newCore("", Options{})
	var evs []Event
	c.Subscribe(func(ev Event) { evs = append(evs, ev) })

	c.Focus()
	c.Focus()
	c.Blur()
	on := true
	if !c.ToggleOverwrite(&on) || !c.ToggleOverwrite(&on) {
		t.Fatalf("overwrite not enabled")
	}
	if c.ToggleOverwrite(nil) {
		t.Fatalf("overwrite not toggled off")
	}
	c.Refresh()
	c.Emit("lint", 3)

	got := kinds(evs)
	want := []EventKind{EventFocus, EventBlur, EventOverwriteToggle, EventOverwriteToggle, EventRefresh, EventOther}
	if len(got) != len(want) {
		t.Fatalf("events=%v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events=%v, want %v", got, want)
		}
	}
	if o := evs[5].(OtherEvent); o.Name != "lint" || o.Payload != 3 {
		t.Fatalf("other=%+v", o)
	}
}

func TestCore_ExecCommand(t *testing.T) {
	c := newCore("one two", Options{})
	if err := c.ExecCommand("goWordRight"); err != nil {
		t.Fatalf("ExecCommand: %v", err)
	}
	if got := c.Doc().Cursor(); got != (buffer.Pos{GraphemeCol: 3}) {
		t.Fatalf("cursor=%v, want 0:3", got)
	}
	if err := c.ExecCommand("selectAll"); err != nil {
		t.Fatalf("selectAll: %v", err)
	}
	if got := c.Doc().GetSelection(""); got != "one two" {
		t.Fatalf("selection=%q", got)
	}
	if err := c.ExecCommand("nope"); !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("err=%v, want ErrUnknownCommand", err)
	}

	c.DefineCommand("shout", func(c *Core) error { return c.Doc().ReplaceSelection("ONE TWO", "") })
	if err := c.ExecCommand("shout"); err != nil {
		t.Fatalf("shout: %v", err)
	}
	if got := c.Doc().Text(); got != "ONE TWO" {
		t.Fatalf("text=%q", got)
	}

	_ = c.SetOption(OptReadOnly, true)
	if err := c.ExecCommand("undo"); !errors.Is(err, ErrReadOnly) {
		t.Fatalf("err=%v, want ErrReadOnly", err)
	}
}

func TestCore_Indent(t *testing.T) {
	c := newCore("a\nb\n\tc", Options{IndentUnit: 2, TabSize: 4})

	if err := c.IndentLine(1, IndentAdd); err != nil {
		t.Fatalf("IndentLine: %v", err)
	}
	if err := c.IndentLine(2, IndentPrev); err != nil {
		t.Fatalf("IndentLine prev: %v", err)
	}
	if got, want := c.Doc().Text(), "a\n  b\n  c"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}

	_ = c.Doc().SetSelection(buffer.Pos{}, buffer.Pos{Row: 2, GraphemeCol: 1})
	before, _ := c.Doc().HistorySize()
	if err := c.IndentSelection(IndentSubtract); err != nil {
		t.Fatalf("IndentSelection: %v", err)
	}
	if got, want := c.Doc().Text(), "a\nb\nc"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	if after, _ := c.Doc().HistorySize(); after != before+1 {
		t.Fatalf("history grew by %d, want 1", after-before)
	}

	_ = c.SetOption(OptIndentWithTabs, true)
	_ = c.IndentLine(0, IndentAdd)
	_ = c.IndentLine(0, IndentAdd)
	if got, _ := c.Doc().Line(0); got != "\ta" {
		t.Fatalf("line 0=%q, want tab indent", got)
	}
}

func TestCore_ClickGutterAndDestroy(t *testing.T) {
	c := newCore("a\nb", Options{})
	var clicks []GutterClickEvent
	c.Subscribe(func(ev Event) {
		if gc, ok := ev.(GutterClickEvent); ok {
			clicks = append(clicks, gc)
		}
	})
	if err := c.ClickGutter(1, "breakpoints"); err != nil {
		t.Fatalf("ClickGutter: %v", err)
	}
	if err := c.ClickGutter(7, "breakpoints"); !errors.Is(err, buffer.ErrOutOfRange) {
		t.Fatalf("err=%v, want ErrOutOfRange", err)
	}
	if len(clicks) != 1 || clicks[0].Line != 1 {
		t.Fatalf("clicks=%+v", clicks)
	}

	c.Destroy()
	_ = c.Doc().ReplaceRange("x", buffer.Pos{}, buffer.Pos{})
	_ = c.ClickGutter(0, "breakpoints")
	if len(clicks) != 1 || !c.Destroyed() {
		t.Fatalf("events delivered after Destroy")
	}
}

func TestParseEventKind(t *testing.T) {
	for k := EventBeforeChange; k <= EventOther; k++ {
		got, ok := ParseEventKind(k.String())
		if !ok || got != k {
			t.Fatalf("ParseEventKind(%q)=%v %v", k.String(), got, ok)
		}
	}
	if _, ok := ParseEventKind("keydown"); ok {
		t.Fatalf("unexpected kind for keydown")
	}
}
