package buffer

import (
	"errors"
	"testing"
)

func TestLinkedDoc_PropagatesBothWays(t *testing.T) {
	a := New("one\ntwo", Options{})
	b := a.LinkedDoc(LinkOptions{})

	_ = a.ReplaceRange("1", Pos{}, Pos{Row: 0, GraphemeCol: 3})
	if got, want := b.Text(), "1\ntwo"; got != want {
		t.Fatalf("linked text=%q, want %q", got, want)
	}
	_ = b.ReplaceRange("2", Pos{Row: 1}, Pos{Row: 1, GraphemeCol: 3})
	if got, want := a.Text(), "1\n2"; got != want {
		t.Fatalf("source text=%q, want %q", got, want)
	}

	// Without shared history each side records every edit.
	if u, _ := b.HistorySize(); u != 2 {
		t.Fatalf("linked undo size=%d, want 2", u)
	}
}

func TestLinkedDoc_SharedHistory(t *testing.T) {
	a := New("one", Options{})
	b := a.LinkedDoc(LinkOptions{SharedHist: true})

	_ = a.ReplaceRange("1", Pos{}, Pos{Row: 0, GraphemeCol: 3})
	if u, _ := b.HistorySize(); u != 1 {
		t.Fatalf("shared undo size=%d, want 1", u)
	}
	if !b.Undo() {
		t.Fatalf("expected undo through shared history")
	}
	if a.Text() != "one" || b.Text() != "one" {
		t.Fatalf("texts=(%q,%q), want both %q", a.Text(), b.Text(), "one")
	}
}

func TestLinkedDoc_LinkedChangeSource(t *testing.T) {
	a := New("", Options{})
	b := a.LinkedDoc(LinkOptions{})
	var sources []ChangeSource
	b.Observe(func(n Notification) {
		if n.Kind == NotifyChange {
			sources = append(sources, n.Change.Source)
		}
	})
	a.InsertText("x")
	if len(sources) != 1 || sources[0] != ChangeSourceLinked {
		t.Fatalf("sources=%v, want [linked]", sources)
	}
}

func TestLinkedDoc_Unlink(t *testing.T) {
	a := New("x", Options{})
	b := a.LinkedDoc(LinkOptions{SharedHist: true})
	a.InsertText("y")

	if err := a.Unlink(b); err != nil {
		t.Fatalf("Unlink: %v", err)
	}
	a.InsertText("z")
	if got, want := b.Text(), "yx"; got != want {
		t.Fatalf("unlinked text=%q, want %q", got, want)
	}
	if u, _ := b.HistorySize(); u != 1 {
		t.Fatalf("split history size=%d, want 1", u)
	}
	if err := a.Unlink(b); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("second Unlink err=%v, want ErrInvalidArgument", err)
	}

	n := 0
	a.IterLinkedDocs(func(*Buffer, bool) { n++ })
	if n != 0 {
		t.Fatalf("linked docs=%d, want 0", n)
	}
}

func TestCopy_IsIndependent(t *testing.T) {
	a := New("abc", Options{})
	a.InsertText("x")
	c := a.Copy(true)
	if u, _ := c.HistorySize(); u != 1 {
		t.Fatalf("copied history=%d, want 1", u)
	}
	a.InsertText("y")
	if got, want := c.Text(), "xabc"; got != want {
		t.Fatalf("copy text=%q, want %q", got, want)
	}
	ha, _ := a.LineHandle(0)
	if c.Owns(ha) {
		t.Fatalf("copy shares line identity with source")
	}
}
