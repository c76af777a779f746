package facade

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iw2rmb/lattice/annotate"
	"github.com/iw2rmb/lattice/breakpoint"
	"github.com/iw2rmb/lattice/buffer"
	"github.com/iw2rmb/lattice/editor"
	"github.com/iw2rmb/lattice/lines"
	"github.com/iw2rmb/lattice/proxy"
)

func open(t *testing.T, text string) *Editor {
	t.Helper()
	e := New(editor.NewCore(buffer.New(text, buffer.Options{}), editor.Options{}), proxy.Options{})
	t.Cleanup(e.Close)
	return e
}

func await[T any](t *testing.T, f *proxy.Future[T]) T {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	v, err := f.Await(ctx)
	if err != nil {
		t.Fatalf("await: %v", err)
	}
	return v
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestEditor_BreakpointFollowsItsLine(t *testing.T) {
	e := open(t, "a\nb\nc")

	await(t, e.ToggleBreakpoint(lines.At(1), nil))
	if got := await(t, e.GetBreakpoints()); !equalInts(got, []int{1}) {
		t.Fatalf("breakpoints=%v, want [1]", got)
	}
	info := await(t, e.LineInfo(lines.At(1)))
	if info.Gutter[breakpoint.Gutter] != breakpoint.Marker {
		t.Fatalf("gutter=%v", info.Gutter)
	}

	e.ReplaceRange("new\n", proxy.Pos{}, proxy.Pos{}, "")
	if got := await(t, e.GetBreakpoints()); !equalInts(got, []int{2}) {
		t.Fatalf("breakpoints=%v, want [2]", got)
	}
	hs := await(t, e.GetBreakpointLines())
	if len(hs) != 1 || await(t, e.GetLineNumber(hs[0])) != 2 {
		t.Fatalf("breakpoint lines=%v", hs)
	}

	e.RemoveLine(2)
	if got := await(t, e.GetBreakpoints()); len(got) != 0 {
		t.Fatalf("breakpoints=%v, want []", got)
	}
	// Toggling the detached handle is accepted and stays invisible.
	await(t, e.ToggleBreakpoint(lines.Of(hs[0]), nil))
	if got := await(t, e.GetBreakpoints()); len(got) != 0 {
		t.Fatalf("breakpoints=%v, want []", got)
	}
}

func TestEditor_ToggleBreakpointExplicitState(t *testing.T) {
	e := open(t, "a\nb")
	on, off := true, false
	await(t, e.ToggleBreakpoint(lines.At(0), &on))
	await(t, e.ToggleBreakpoint(lines.At(0), &on))
	if got := await(t, e.GetBreakpoints()); !equalInts(got, []int{0}) {
		t.Fatalf("breakpoints=%v, want [0]", got)
	}
	await(t, e.ToggleBreakpoint(lines.At(0), &off))
	if got := await(t, e.GetBreakpoints()); len(got) != 0 {
		t.Fatalf("breakpoints=%v, want []", got)
	}
	err := func() error { _, err := e.ToggleBreakpoint(lines.At(5), nil).Result(); return err }()
	if !errors.Is(err, proxy.ErrRange) {
		t.Fatalf("err=%v, want range", err)
	}
}

func TestEditor_RemoveErrorIsIdempotent(t *testing.T) {
	e := open(t, "x = \ny")

	first := await(t, e.AddError(lines.At(0), "syntax error"))
	if first.Severity != annotate.Error || first.Line != 0 || first.Message != "syntax error" {
		t.Fatalf("annotation=%+v", first)
	}
	await(t, e.RemoveError(first))
	await(t, e.RemoveError(first))
	if as := await(t, e.Annotations()); len(as) != 0 {
		t.Fatalf("annotations=%v, want none", as)
	}
	if info := await(t, e.LineInfo(lines.At(0))); len(info.Widgets) != 0 {
		t.Fatalf("widgets=%d, want 0", len(info.Widgets))
	}

	second := await(t, e.AddError(lines.At(0), "syntax error"))
	if second.ID == first.ID || second.WidgetID == first.WidgetID {
		t.Fatalf("second annotation reuses state: %+v vs %+v", second, first)
	}
	if as := await(t, e.Annotations()); len(as) != 1 || as[0].ID != second.ID {
		t.Fatalf("annotations=%v", as)
	}
}

func TestEditor_RemoveMatchesSeverity(t *testing.T) {
	e := open(t, "a")
	w := await(t, e.AddWarning(lines.At(0), "unused"))

	await(t, e.RemoveError(w))
	await(t, e.RemoveInfo(Widget(w.WidgetID)))
	if as := await(t, e.Annotations()); len(as) != 1 || as[0].ID != w.ID {
		t.Fatalf("annotations=%+v, want the warning", as)
	}
	await(t, e.RemoveWarning(Widget(w.WidgetID)))
	if as := await(t, e.Annotations()); len(as) != 0 {
		t.Fatalf("annotations=%+v, want none", as)
	}
}

type ownerExecutor struct{ units chan func() }

func (e ownerExecutor) Execute(fn func()) error {
	done := make(chan struct{})
	e.units <- func() {
		fn()
		close(done)
	}
	<-done
	return nil
}

func TestEditor_AddResolvesLinesWhenAccepted(t *testing.T) {
	core := editor.NewCore(buffer.New("a\nb\nc", buffer.Options{}), editor.Options{})
	ex := ownerExecutor{units: make(chan func())}
	e := New(core, proxy.Options{Executor: ex})

	errAdded := e.AddError(lines.At(1), "on b")
	warnAdded := e.AddWarning(lines.At(2), "on c")

	// Typing inserts a line above and joins c away before either unit runs.
	doc := core.Doc()
	if err := doc.ReplaceRange("z\n", buffer.Pos{}, buffer.Pos{}); err != nil {
		t.Fatal(err)
	}
	if err := doc.ReplaceRange("", buffer.Pos{Row: 2, GraphemeCol: 1}, buffer.Pos{Row: 3, GraphemeCol: 1}); err != nil {
		t.Fatal(err)
	}

	go func() {
		for fn := range ex.units {
			fn()
		}
	}()
	defer close(ex.units)
	defer e.Close()

	if a := await(t, errAdded); a.Line != 2 {
		t.Fatalf("error line=%d, want 2", a.Line)
	}
	if _, err := warnAdded.Result(); !errors.Is(err, proxy.ErrRange) {
		t.Fatalf("warning on a deleted line err=%v, want range", err)
	}
}

func TestEditor_AnnotationsDieWithTheirLine(t *testing.T) {
	e := open(t, "a\nb\nc")
	await(t, e.AddWarning(lines.At(1), "unused"))
	await(t, e.AddInfo(lines.At(2), "hint"))

	e.RemoveLine(1)
	as := await(t, e.Annotations())
	if len(as) != 1 || as[0].Severity != annotate.Info || as[0].Line != 1 {
		t.Fatalf("annotations=%+v", as)
	}
}

func TestEditor_RemoveByLineKeepsOtherSeverities(t *testing.T) {
	e := open(t, "a")
	await(t, e.AddInfo(lines.At(0), "one"))
	await(t, e.AddInfo(lines.At(0), "two"))
	await(t, e.AddError(lines.At(0), "bad"))

	await(t, e.RemoveInfo(Line{Ref: lines.At(0)}))
	as := await(t, e.Annotations())
	if len(as) != 1 || as[0].Severity != annotate.Error {
		t.Fatalf("annotations=%+v", as)
	}
}

func TestEditor_RemoveForeignWidget(t *testing.T) {
	e := open(t, "a")
	w := await(t, e.AddLineWidget(lines.At(0), "note", "plain", buffer.WidgetOptions{}))
	await(t, e.RemoveError(Widget(w.ID)))
	await(t, e.RemoveError(Widget(w.ID)))
	if info := await(t, e.LineInfo(lines.At(0))); len(info.Widgets) != 0 {
		t.Fatalf("widgets=%d, want 0", len(info.Widgets))
	}
}

func TestEditor_LinkedDocStartsClean(t *testing.T) {
	e := open(t, "a\nb")
	await(t, e.ToggleBreakpoint(lines.At(0), nil))
	await(t, e.AddError(lines.At(1), "bad"))

	l := await(t, e.LinkedDoc(buffer.LinkOptions{}))
	defer l.Close()
	if got := await(t, l.GetBreakpoints()); len(got) != 0 {
		t.Fatalf("linked breakpoints=%v", got)
	}
	if as := await(t, l.Annotations()); len(as) != 0 {
		t.Fatalf("linked annotations=%v", as)
	}

	await(t, l.ToggleBreakpoint(lines.At(1), nil))
	if got := await(t, e.GetBreakpoints()); !equalInts(got, []int{0}) {
		t.Fatalf("source breakpoints=%v, want [0]", got)
	}

	c := await(t, e.Copy(false))
	defer c.Close()
	if got := await(t, c.GetBreakpoints()); len(got) != 0 {
		t.Fatalf("copy breakpoints=%v", got)
	}
}

func TestEditor_CloseDetaches(t *testing.T) {
	e := New(editor.NewCore(buffer.New("a", buffer.Options{}), editor.Options{}), proxy.Options{})
	await(t, e.AddError(lines.At(0), "bad"))
	e.Close()

	_, err := e.AddError(lines.At(0), "late").Result()
	if !errors.Is(err, proxy.ErrDetachedEditor) {
		t.Fatalf("err=%v, want detached", err)
	}
	if _, err := e.GetBreakpoints().Result(); proxy.KindOf(err) != proxy.KindDetachedEditor {
		t.Fatalf("err=%v, want detached", err)
	}
}
