package proxy

import (
	"fmt"

	"github.com/iw2rmb/lattice/buffer"
	"github.com/iw2rmb/lattice/editor"
	"github.com/iw2rmb/lattice/lines"
)

type Pos = buffer.Pos

// Mark is a snapshot of a text marker or bookmark.
type Mark struct {
	ID       uint64
	Range    buffer.Range
	Bookmark bool
	Class    string
}

func markOf(m *buffer.TextMarker) Mark {
	r, _ := m.Find()
	return Mark{ID: m.ID(), Range: r, Bookmark: m.IsBookmark(), Class: m.Options().ClassName}
}

func marksOf(ms []*buffer.TextMarker) []Mark {
	out := make([]Mark, 0, len(ms))
	for _, m := range ms {
		out = append(out, markOf(m))
	}
	return out
}

// Widget is a snapshot of a line widget.
type Widget struct {
	ID      uint64
	Line    buffer.LineHandle
	Class   string
	Content string
}

func (p *Proxy) doc() *buffer.Buffer { return p.core.Doc() }

func (p *Proxy) LineCount() *Future[int] {
	return Submit(p, "lineCount", func(*editor.Core) (int, error) { return p.doc().LineCount(), nil })
}

func (p *Proxy) FirstLine() *Future[int] {
	return Submit(p, "firstLine", func(*editor.Core) (int, error) { return p.doc().FirstLine(), nil })
}

func (p *Proxy) LastLine() *Future[int] {
	return Submit(p, "lastLine", func(*editor.Core) (int, error) { return p.doc().LastLine(), nil })
}

func (p *Proxy) GetLine(n int) *Future[string] {
	return Submit(p, "getLine", func(*editor.Core) (string, error) { return p.doc().Line(n) })
}

// GetValue joins lines with sep, or with their own terminators when sep
// is empty.
func (p *Proxy) GetValue(sep string) *Future[string] {
	return Submit(p, "getValue", func(*editor.Core) (string, error) { return p.doc().Value(sep), nil })
}

func (p *Proxy) SetValue(text string) *Future[struct{}] {
	return Do(p, "setValue", func(*editor.Core) error {
		p.doc().SetValue(text)
		return nil
	})
}

func (p *Proxy) GetRange(from, to Pos, sep string) *Future[string] {
	return Submit(p, "getRange", func(*editor.Core) (string, error) { return p.doc().GetRange(from, to, sep) })
}

// ReplaceRange replaces [from, to) with text. origin tags the change for
// listeners; empty means "+replace".
func (p *Proxy) ReplaceRange(text string, from, to Pos, origin string) *Future[struct{}] {
	return Do(p, "replaceRange", func(*editor.Core) error {
		if origin == "" {
			return p.doc().ReplaceRange(text, from, to)
		}
		return p.doc().ReplaceRangeOrigin(text, from, to, origin)
	})
}

func (p *Proxy) SetLine(n int, text string) *Future[struct{}] {
	return Do(p, "setLine", func(*editor.Core) error { return p.doc().SetLine(n, text) })
}

func (p *Proxy) RemoveLine(n int) *Future[struct{}] {
	return Do(p, "removeLine", func(*editor.Core) error { return p.doc().RemoveLine(n) })
}

func (p *Proxy) GetSelection(sep string) *Future[string] {
	return Submit(p, "getSelection", func(*editor.Core) (string, error) { return p.doc().GetSelection(sep), nil })
}

func (p *Proxy) GetSelections(sep string) *Future[[]string] {
	return Submit(p, "getSelections", func(*editor.Core) ([]string, error) { return p.doc().GetSelections(sep), nil })
}

// ReplaceSelection replaces every selected range with text. collapse is
// "start", "around" or empty for "end".
func (p *Proxy) ReplaceSelection(text, collapse string) *Future[struct{}] {
	return Do(p, "replaceSelection", func(*editor.Core) error { return p.doc().ReplaceSelection(text, collapse) })
}

func (p *Proxy) ReplaceSelections(texts []string, collapse string) *Future[struct{}] {
	texts = append([]string(nil), texts...)
	return Do(p, "replaceSelections", func(*editor.Core) error { return p.doc().ReplaceSelections(texts, collapse) })
}

func (p *Proxy) ListSelections() *Future[[]buffer.SelRange] {
	return Submit(p, "listSelections", func(*editor.Core) ([]buffer.SelRange, error) { return p.doc().ListSelections(), nil })
}

func (p *Proxy) SetSelection(anchor, head Pos) *Future[struct{}] {
	return Do(p, "setSelection", func(*editor.Core) error { return p.doc().SetSelection(anchor, head) })
}

func (p *Proxy) SetSelections(ranges []buffer.SelRange, primary int) *Future[struct{}] {
	ranges = append([]buffer.SelRange(nil), ranges...)
	return Do(p, "setSelections", func(*editor.Core) error { return p.doc().SetSelections(ranges, primary) })
}

// ExtendSelection moves the primary head to head. other, when non-nil,
// becomes the anchor.
func (p *Proxy) ExtendSelection(head Pos, other *Pos) *Future[struct{}] {
	if other != nil {
		o := *other
		other = &o
	}
	return Do(p, "extendSelection", func(*editor.Core) error { return p.doc().ExtendSelection(head, other) })
}

func (p *Proxy) SetExtending(v bool) *Future[struct{}] {
	return Do(p, "setExtending", func(*editor.Core) error {
		p.doc().SetExtending(v)
		return nil
	})
}

func (p *Proxy) SetCursor(pos Pos) *Future[struct{}] {
	return Do(p, "setCursor", func(*editor.Core) error { return p.doc().SetCursor(pos) })
}

func (p *Proxy) GetCursor(side buffer.CursorSide) *Future[Pos] {
	return Submit(p, "getCursor", func(*editor.Core) (Pos, error) { return p.doc().CursorAt(side), nil })
}

func (p *Proxy) SomethingSelected() *Future[bool] {
	return Submit(p, "somethingSelected", func(*editor.Core) (bool, error) { return p.doc().SomethingSelected(), nil })
}

func (p *Proxy) IndexFromPos(pos Pos) *Future[int] {
	return Submit(p, "indexFromPos", func(*editor.Core) (int, error) {
		if err := p.doc().CheckPos(pos); err != nil {
			return 0, err
		}
		return p.doc().IndexFromPos(pos), nil
	})
}

func (p *Proxy) PosFromIndex(off int) *Future[Pos] {
	return Submit(p, "posFromIndex", func(*editor.Core) (Pos, error) {
		if off < 0 || off > p.doc().DocLen() {
			return Pos{}, fmt.Errorf("%w: index %d not in [0, %d]", buffer.ErrOutOfRange, off, p.doc().DocLen())
		}
		return p.doc().PosFromIndex(off), nil
	})
}

// Undo reports whether there was anything to undo.
func (p *Proxy) Undo() *Future[bool] {
	return Submit(p, "undo", func(*editor.Core) (bool, error) { return p.doc().Undo(), nil })
}

func (p *Proxy) Redo() *Future[bool] {
	return Submit(p, "redo", func(*editor.Core) (bool, error) { return p.doc().Redo(), nil })
}

type HistorySize struct {
	Undo, Redo int
}

func (p *Proxy) HistorySize() *Future[HistorySize] {
	return Submit(p, "historySize", func(*editor.Core) (HistorySize, error) {
		u, r := p.doc().HistorySize()
		return HistorySize{Undo: u, Redo: r}, nil
	})
}

func (p *Proxy) ClearHistory() *Future[struct{}] {
	return Do(p, "clearHistory", func(*editor.Core) error {
		p.doc().ClearHistory()
		return nil
	})
}

// GetHistory exports the undo history. It can be restored with SetHistory
// only onto identical content.
func (p *Proxy) GetHistory() *Future[buffer.History] {
	return Submit(p, "getHistory", func(*editor.Core) (buffer.History, error) { return p.doc().GetHistory(), nil })
}

// SetHistory fails with ErrHistoryMismatch when the document content
// differs from the content h was exported from.
func (p *Proxy) SetHistory(h buffer.History) *Future[struct{}] {
	return Do(p, "setHistory", func(*editor.Core) error { return p.doc().SetHistory(h) })
}

func (p *Proxy) ChangeGeneration() *Future[int] {
	return Submit(p, "changeGeneration", func(*editor.Core) (int, error) { return p.doc().ChangeGeneration(), nil })
}

func (p *Proxy) IsClean() *Future[bool] {
	return Submit(p, "isClean", func(*editor.Core) (bool, error) { return p.doc().IsClean(), nil })
}

func (p *Proxy) IsCleanAt(gen int) *Future[bool] {
	return Submit(p, "isClean", func(*editor.Core) (bool, error) { return p.doc().IsCleanAt(gen), nil })
}

func (p *Proxy) MarkClean() *Future[struct{}] {
	return Do(p, "markClean", func(*editor.Core) error {
		p.doc().MarkClean()
		return nil
	})
}

func (p *Proxy) MarkText(from, to Pos, opts buffer.MarkerOptions) *Future[Mark] {
	return Submit(p, "markText", func(*editor.Core) (Mark, error) {
		m, err := p.doc().MarkText(from, to, opts)
		if err != nil {
			return Mark{}, err
		}
		return markOf(m), nil
	})
}

func (p *Proxy) SetBookmark(pos Pos, opts buffer.BookmarkOptions) *Future[Mark] {
	return Submit(p, "setBookmark", func(*editor.Core) (Mark, error) {
		m, err := p.doc().SetBookmark(pos, opts)
		if err != nil {
			return Mark{}, err
		}
		return markOf(m), nil
	})
}

func (p *Proxy) FindMarks(from, to Pos) *Future[[]Mark] {
	return Submit(p, "findMarks", func(*editor.Core) ([]Mark, error) { return marksOf(p.doc().FindMarks(from, to)), nil })
}

func (p *Proxy) FindMarksAt(pos Pos) *Future[[]Mark] {
	return Submit(p, "findMarksAt", func(*editor.Core) ([]Mark, error) { return marksOf(p.doc().FindMarksAt(pos)), nil })
}

func (p *Proxy) GetAllMarks() *Future[[]Mark] {
	return Submit(p, "getAllMarks", func(*editor.Core) ([]Mark, error) { return marksOf(p.doc().AllMarks()), nil })
}

// FindMarker returns the current state of marker id. ok is false once it
// was cleared.
func (p *Proxy) FindMarker(id uint64) *Future[Mark] {
	return Submit(p, "findMarker", func(*editor.Core) (Mark, error) {
		m, ok := p.doc().MarkerByID(id)
		if !ok {
			return Mark{}, fmt.Errorf("%w: marker %d", buffer.ErrOutOfRange, id)
		}
		return markOf(m), nil
	})
}

// ClearMarker removes marker id. Clearing a removed marker is a no-op.
func (p *Proxy) ClearMarker(id uint64) *Future[struct{}] {
	return Do(p, "clearMarker", func(*editor.Core) error {
		if m, ok := p.doc().MarkerByID(id); ok {
			m.Clear()
		}
		return nil
	})
}

func (p *Proxy) AddLineWidget(ref lines.Ref, class, content string, opts buffer.WidgetOptions) *Future[Widget] {
	return SubmitLine(p, "addLineWidget", ref, func(_ *editor.Core, h buffer.LineHandle) (Widget, error) {
		w, err := p.doc().AddLineWidget(h, class, content, opts)
		if err != nil {
			return Widget{}, err
		}
		return Widget{ID: w.ID(), Line: h, Class: class, Content: content}, nil
	})
}

// RemoveLineWidget removes widget id. Removing it twice is a no-op.
func (p *Proxy) RemoveLineWidget(id uint64) *Future[struct{}] {
	return Do(p, "removeLineWidget", func(*editor.Core) error {
		if w, ok := p.doc().WidgetByID(id); ok {
			p.doc().RemoveLineWidget(w)
		}
		return nil
	})
}

func (p *Proxy) GetLineHandle(n int) *Future[buffer.LineHandle] {
	return Submit(p, "getLineHandle", func(*editor.Core) (buffer.LineHandle, error) { return p.reg.HandleFor(n) })
}

// GetLineNumber returns the current number of h, or -1 once h detached.
func (p *Proxy) GetLineNumber(h buffer.LineHandle) *Future[int] {
	return Submit(p, "getLineNumber", func(*editor.Core) (int, error) {
		n, ok := p.reg.NumberFor(h)
		if !ok {
			return -1, nil
		}
		return n, nil
	})
}

// EachLine calls fn for lines [from, to) on the editor's goroutine. A
// negative to means the end of the document.
func (p *Proxy) EachLine(from, to int, fn func(buffer.LineHandle) bool) *Future[struct{}] {
	return Do(p, "eachLine", func(*editor.Core) error { return p.doc().EachLine(from, to, fn) })
}

func (p *Proxy) LineSeparator() *Future[string] {
	return Submit(p, "lineSeparator", func(*editor.Core) (string, error) { return p.doc().LineSeparator(), nil })
}

// StartOperation opens an operation that spans later units until
// EndOperation. Listeners see no change events while it is open; an
// operation that is never ended stalls them for good.
func (p *Proxy) StartOperation() *Future[struct{}] {
	return Do(p, "startOperation", func(*editor.Core) error {
		p.doc().StartOperation()
		return nil
	})
}

func (p *Proxy) EndOperation() *Future[struct{}] {
	return Do(p, "endOperation", func(*editor.Core) error {
		p.doc().EndOperation()
		return nil
	})
}

// Operation runs fn as one unit inside an operation: every mutation fn
// makes forms one undo event and one change notification.
func (p *Proxy) Operation(fn func(c *editor.Core) error) *Future[struct{}] {
	return Do(p, "operation", func(c *editor.Core) error {
		return c.Doc().Operation(func() error { return fn(c) })
	})
}
