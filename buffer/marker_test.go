package buffer

import "testing"

func TestMarker_TracksEdits(t *testing.T) {
	b := New("hello world", Options{})
	m, err := b.MarkText(Pos{Row: 0, GraphemeCol: 6}, Pos{Row: 0, GraphemeCol: 11}, MarkerOptions{ClassName: "hl"})
	if err != nil {
		t.Fatalf("MarkText: %v", err)
	}

	_ = b.ReplaceRange("big ", Pos{Row: 0, GraphemeCol: 6}, Pos{Row: 0, GraphemeCol: 6})
	r, ok := m.Find()
	want := Range{Start: Pos{Row: 0, GraphemeCol: 10}, End: Pos{Row: 0, GraphemeCol: 15}}
	if !ok || r != want {
		t.Fatalf("range=%v ok=%v, want %v", r, ok, want)
	}
	if got := b.FindMarksAt(Pos{Row: 0, GraphemeCol: 12}); len(got) != 1 || got[0] != m {
		t.Fatalf("FindMarksAt=%v, want [marker]", got)
	}

	_ = b.ReplaceRange("", Pos{}, Pos{Row: 0, GraphemeCol: 15})
	if _, ok := m.Find(); ok {
		t.Fatalf("expected marker cleared with its text")
	}
	if got := len(b.AllMarks()); got != 0 {
		t.Fatalf("marks=%d, want 0", got)
	}
	m.Clear()
	m.Clear()
}

func TestMarker_InclusiveLeft(t *testing.T) {
	b := New("abc", Options{})
	m, _ := b.MarkText(Pos{Row: 0, GraphemeCol: 1}, Pos{Row: 0, GraphemeCol: 2}, MarkerOptions{InclusiveLeft: true})
	_ = b.ReplaceRange("X", Pos{Row: 0, GraphemeCol: 1}, Pos{Row: 0, GraphemeCol: 1})
	r, _ := m.Find()
	want := Range{Start: Pos{Row: 0, GraphemeCol: 1}, End: Pos{Row: 0, GraphemeCol: 3}}
	if r != want {
		t.Fatalf("range=%v, want %v", r, want)
	}
}

func TestMarker_KeepWhenEmpty(t *testing.T) {
	b := New("abc", Options{})
	m, _ := b.MarkText(Pos{Row: 0, GraphemeCol: 1}, Pos{Row: 0, GraphemeCol: 2}, MarkerOptions{KeepWhenEmpty: true})
	_ = b.ReplaceRange("", Pos{}, Pos{Row: 0, GraphemeCol: 3})
	r, ok := m.Find()
	if !ok || r != (Range{}) {
		t.Fatalf("range=%v ok=%v, want empty live marker", r, ok)
	}
}

func TestBookmark_InsertLeft(t *testing.T) {
	b := New("ab", Options{})
	left, _ := b.SetBookmark(Pos{Row: 0, GraphemeCol: 1}, BookmarkOptions{InsertLeft: true})
	right, _ := b.SetBookmark(Pos{Row: 0, GraphemeCol: 1}, BookmarkOptions{})

	_ = b.ReplaceRange("X", Pos{Row: 0, GraphemeCol: 1}, Pos{Row: 0, GraphemeCol: 1})
	if r, _ := left.Find(); r.Start != (Pos{Row: 0, GraphemeCol: 1}) {
		t.Fatalf("insertLeft bookmark=%v, want (0,1)", r.Start)
	}
	if r, _ := right.Find(); r.Start != (Pos{Row: 0, GraphemeCol: 2}) {
		t.Fatalf("bookmark=%v, want (0,2)", r.Start)
	}
	if !left.IsBookmark() {
		t.Fatalf("expected bookmark")
	}
}

func TestMarker_FindMarksExcludesTouching(t *testing.T) {
	b := New("abcdef", Options{})
	m1, _ := b.MarkText(Pos{}, Pos{Row: 0, GraphemeCol: 2}, MarkerOptions{})
	m2, _ := b.MarkText(Pos{Row: 0, GraphemeCol: 3}, Pos{Row: 0, GraphemeCol: 5}, MarkerOptions{})

	got := b.FindMarks(Pos{Row: 0, GraphemeCol: 2}, Pos{Row: 0, GraphemeCol: 4})
	if len(got) != 1 || got[0] != m2 {
		t.Fatalf("FindMarks=%v, want [m2]", got)
	}
	got = b.FindMarks(Pos{}, Pos{Row: 0, GraphemeCol: 6})
	if len(got) != 2 || got[0] != m1 || got[1] != m2 {
		t.Fatalf("FindMarks=%v, want [m1 m2]", got)
	}
}

func TestLineWidget_RemovedWithLine(t *testing.T) {
	b := New("a\nb", Options{})
	h, _ := b.LineHandle(1)
	w, err := b.AddLineWidget(h, "lattice-error", "boom", WidgetOptions{})
	if err != nil {
		t.Fatalf("AddLineWidget: %v", err)
	}
	if got := b.LineWidgets(h); len(got) != 1 || got[0] != w {
		t.Fatalf("widgets=%v, want [w]", got)
	}

	_ = b.RemoveLine(1)
	if !w.Removed() {
		t.Fatalf("expected widget removed with its line")
	}
	b.RemoveLineWidget(w)
	if _, err := b.AddLineWidget(h, "x", "y", WidgetOptions{}); err == nil {
		t.Fatalf("expected error for detached line")
	}
}

func TestDecorations(t *testing.T) {
	b := New("a\nb", Options{})
	h, _ := b.LineHandle(0)

	if err := b.SetGutterMarker(h, "breakpoints", "●"); err != nil {
		t.Fatalf("SetGutterMarker: %v", err)
	}
	if err := b.AddLineClass(h, ClassBackground, "current"); err != nil {
		t.Fatalf("AddLineClass: %v", err)
	}
	info := b.LineInfo(h)
	if info.Gutter["breakpoints"] != "●" || info.ClassString(ClassBackground) != "current" || info.Line != 0 {
		t.Fatalf("info=%+v", info)
	}

	v := b.Version()
	_ = b.AddLineClass(h, ClassBackground, "current")
	if b.Version() != v {
		t.Fatalf("duplicate class bumped version")
	}
	_ = b.RemoveLineClass(h, ClassBackground, "current")
	b.ClearGutter("breakpoints")
	info = b.LineInfo(h)
	if len(info.Gutter) != 0 || info.ClassString(ClassBackground) != "" {
		t.Fatalf("info=%+v, want no decorations", info)
	}
}
