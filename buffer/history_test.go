package buffer

import (
	"errors"
	"testing"
)

func TestHistory_UndoRedo(t *testing.T) {
	b := New("a", Options{})
	if err := b.ReplaceRange("b", Pos{Row: 0, GraphemeCol: 1}, Pos{Row: 0, GraphemeCol: 1}); err != nil {
		t.Fatalf("ReplaceRange: %v", err)
	}
	if !b.Undo() {
		t.Fatalf("expected undo")
	}
	if got, want := b.Text(), "a"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	if u, r := b.HistorySize(); u != 0 || r != 1 {
		t.Fatalf("history=(%d,%d), want (0,1)", u, r)
	}
	if !b.Redo() {
		t.Fatalf("expected redo")
	}
	if got, want := b.Text(), "ab"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	if b.Redo() {
		t.Fatalf("expected nothing to redo")
	}

	b.ClearHistory()
	if u, r := b.HistorySize(); u != 0 || r != 0 {
		t.Fatalf("history=(%d,%d), want (0,0)", u, r)
	}
	if b.Undo() {
		t.Fatalf("expected nothing to undo")
	}
}

func TestHistory_UndoRestoresLineIdentity(t *testing.T) {
	b := New("a\nb", Options{})
	hs := handles(t, b)

	if err := b.ReplaceRange("x\n", Pos{}, Pos{}); err != nil {
		t.Fatalf("ReplaceRange: %v", err)
	}
	b.Undo()
	if got, want := b.Text(), "a\nb"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	wantRow(t, b, hs[0], 0)
	wantRow(t, b, hs[1], 1)
}

func TestHistory_UndoRestoresSelection(t *testing.T) {
	b := New("abc", Options{})
	_ = b.SetSelection(Pos{}, Pos{Row: 0, GraphemeCol: 2})
	b.InsertText("X")
	if got, want := b.Text(), "Xc"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	b.Undo()
	got := b.ListSelections()
	want := SelRange{Anchor: Pos{}, Head: Pos{Row: 0, GraphemeCol: 2}}
	if len(got) != 1 || got[0] != want {
		t.Fatalf("selections=%v, want [%v]", got, want)
	}
}

func TestHistory_OperationIsOneEvent(t *testing.T) {
	b := New("", Options{})
	b.StartOperation()
	for i := 0; i < 1000; i++ {
		_ = b.ReplaceRange("x", Pos{}, Pos{})
	}
	b.EndOperation()

	if u, _ := b.HistorySize(); u != 1 {
		t.Fatalf("undo size=%d, want 1", u)
	}
	b.Undo()
	if got := b.Text(); got != "" {
		t.Fatalf("text=%q, want empty", got)
	}
}

func TestHistory_Generations(t *testing.T) {
	b := New("a", Options{})
	if !b.IsClean() {
		t.Fatalf("new buffer should be clean")
	}
	gen := b.ChangeGeneration()

	b.InsertText("b")
	if b.IsCleanAt(gen) || b.IsClean() {
		t.Fatalf("expected dirty after edit")
	}
	b.Undo()
	if !b.IsCleanAt(gen) || !b.IsClean() {
		t.Fatalf("expected clean after undo")
	}
	b.Redo()
	b.MarkClean()
	if !b.IsClean() {
		t.Fatalf("expected clean after MarkClean")
	}
	b.Undo()
	if b.IsClean() {
		t.Fatalf("expected dirty after undo past the clean mark")
	}
}

func TestHistory_ExportImport(t *testing.T) {
	b := New("a", Options{})
	b.InsertText("b")
	h := b.GetHistory()

	c := New(b.Text(), Options{})
	if err := c.SetHistory(h); err != nil {
		t.Fatalf("SetHistory: %v", err)
	}
	if !c.Undo() {
		t.Fatalf("expected imported undo event")
	}
	if got, want := c.Text(), "a"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}

	d := New("zz", Options{})
	if err := d.SetHistory(h); !errors.Is(err, ErrHistoryMismatch) {
		t.Fatalf("err=%v, want ErrHistoryMismatch", err)
	}
}

func TestHistory_CodecRoundTrip(t *testing.T) {
	b := New("one\r\ntwo", Options{})
	b.InsertText("zero ")
	data, err := EncodeHistory(b.GetHistory())
	if err != nil {
		t.Fatalf("EncodeHistory: %v", err)
	}
	h, err := DecodeHistory(data)
	if err != nil {
		t.Fatalf("DecodeHistory: %v", err)
	}

	c := New(b.Text(), Options{})
	if err := c.SetHistory(h); err != nil {
		t.Fatalf("SetHistory: %v", err)
	}
	c.Undo()
	if got, want := c.Text(), "one\r\ntwo"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
}
