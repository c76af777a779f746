package editor

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/lattice/buffer"
)

func focusedModel(text string, opts Options) Model {
	m := plainModel(text, opts)
	return m.Focus()
}

func TestUpdate_TypingMovementAndDelete(t *testing.T) {
	m := focusedModel("ab", Options{})
	doc := m.Core().Doc()

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("X")})
	if got := doc.Text(); got != "aXb" {
		t.Fatalf("text after insert: got %q, want %q", got, "aXb")
	}
	if got := doc.Cursor(); got != (buffer.Pos{Row: 0, GraphemeCol: 2}) {
		t.Fatalf("cursor after insert: got %v, want %v", got, buffer.Pos{Row: 0, GraphemeCol: 2})
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if got := doc.Text(); got != "ab" {
		t.Fatalf("text after backspace: got %q, want %q", got, "ab")
	}
	if got := doc.Cursor(); got != (buffer.Pos{Row: 0, GraphemeCol: 1}) {
		t.Fatalf("cursor after backspace: got %v, want %v", got, buffer.Pos{Row: 0, GraphemeCol: 1})
	}
}

func TestUpdate_BlurredIgnoresKeys(t *testing.T) {
	m := plainModel("ab", Options{})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("X")})
	if got := m.Core().Doc().Text(); got != "ab" {
		t.Fatalf("text after blurred typing: got %q, want %q", got, "ab")
	}
}

func TestUpdate_ReadOnly_IgnoresMutations(t *testing.T) {
	m := focusedModel("ab", Options{ReadOnly: true})
	doc := m.Core().Doc()

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if got := doc.Cursor(); got != (buffer.Pos{Row: 0, GraphemeCol: 1}) {
		t.Fatalf("cursor after move: got %v, want %v", got, buffer.Pos{Row: 0, GraphemeCol: 1})
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("X")})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := doc.Text(); got != "ab" {
		t.Fatalf("text after edits in read-only: got %q, want %q", got, "ab")
	}
}

func TestUpdate_UndoRedo(t *testing.T) {
	m := focusedModel("", Options{})
	doc := m.Core().Doc()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")})
	if got := doc.Text(); got != "ab" {
		t.Fatalf("text after typing: got %q, want %q", got, "ab")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlZ})
	if got := doc.Text(); got != "a" {
		t.Fatalf("text after undo: got %q, want %q", got, "a")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	if got := doc.Text(); got != "ab" {
		t.Fatalf("text after redo: got %q, want %q", got, "ab")
	}
}

func TestUpdate_AddedKeyMapWins(t *testing.T) {
	m := focusedModel("a\nb", Options{})
	m.Core().AddKeyMap("custom", CommandMap{"ctrl+d": "deleteLine", "left": "goDocEnd"}, false)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	if got := m.Core().Doc().Text(); got != "b" {
		t.Fatalf("text after ctrl+d: got %q, want %q", got, "b")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if got := m.Core().Doc().Cursor(); got != (buffer.Pos{Row: 0, GraphemeCol: 1}) {
		t.Fatalf("cursor after remapped left: got %v", got)
	}

	m.Core().RemoveKeyMap("custom")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if got := m.Core().Doc().Cursor(); got != (buffer.Pos{}) {
		t.Fatalf("cursor after default left: got %v", got)
	}
}

func TestUpdate_OverwriteMode(t *testing.T) {
	m := focusedModel("abc", Options{})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyInsert})
	if !m.Core().Overwrite() {
		t.Fatalf("insert key did not enable overwrite")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("X")})
	if got := m.Core().Doc().Text(); got != "Xbc" {
		t.Fatalf("text after overwrite: got %q, want %q", got, "Xbc")
	}
}

func TestUpdate_ViewportFollowsCursor_Minimal(t *testing.T) {
	m := focusedModel("0\n1\n2\n3\n4\n5\n6\n7\n8\n9", Options{})
	m = m.SetSize(10, 3)

	if got := m.viewport.YOffset; got != 0 {
		t.Fatalf("initial yoffset: got %d, want %d", got, 0)
	}

	// Move to row 2: still visible, no scroll.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if got := m.viewport.YOffset; got != 0 {
		t.Fatalf("yoffset at row 2: got %d, want %d", got, 0)
	}

	// Move to row 3: scroll down by one line.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if got := m.viewport.YOffset; got != 1 {
		t.Fatalf("yoffset at row 3: got %d, want %d", got, 1)
	}

	// Move up above the viewport: yoffset follows cursor row.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if got := m.viewport.YOffset; got != 0 {
		t.Fatalf("yoffset after moving above view: got %d, want %d", got, 0)
	}
}

func TestUpdate_MouseGutterAndTextClicks(t *testing.T) {
	m := focusedModel("abc\ndef", Options{LineNumbers: true, Gutters: []string{"breakpoints"}})
	m = m.SetSize(20, 5)

	var clicks []GutterClickEvent
	cancel := m.Core().Subscribe(func(ev Event) {
		if gc, ok := ev.(GutterClickEvent); ok {
			clicks = append(clicks, gc)
		}
	})
	defer cancel()

	press := func(x, y int) tea.MouseMsg {
		return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	}

	m, _ = m.Update(press(0, 1))
	m, _ = m.Update(press(2, 0))
	if len(clicks) != 2 {
		t.Fatalf("gutter clicks: got %d, want 2", len(clicks))
	}
	if clicks[0].Line != 1 || clicks[0].Gutter != "breakpoints" {
		t.Fatalf("first click: got %+v", clicks[0])
	}
	if clicks[1].Line != 0 || clicks[1].Gutter != LineNumbersGutter {
		t.Fatalf("second click: got %+v", clicks[1])
	}

	// Text starts after the 2-cell marker gutter and the 2-cell line numbers.
	m, _ = m.Update(press(6, 1))
	if got := m.Core().Doc().Cursor(); got != (buffer.Pos{Row: 1, GraphemeCol: 2}) {
		t.Fatalf("cursor after click: got %v, want %v", got, buffer.Pos{Row: 1, GraphemeCol: 2})
	}
}

func TestUpdate_RunsUnits(t *testing.T) {
	m := plainModel("a", Options{})
	ran := false
	msg := unitMsg{fn: func() { ran = true }, done: make(chan struct{})}
	m, _ = m.Update(msg)
	if !ran {
		t.Fatalf("unit did not run")
	}
	select {
	case <-msg.done:
	default:
		t.Fatalf("unit not marked done")
	}
}
