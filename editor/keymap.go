package editor

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap defines the default editor key bindings. Key maps added to the
// Core take precedence.
//
// Bindings must be portable across terminals (ctrl/alt fallbacks).
type KeyMap struct {
	Left, Right, Up, Down                     key.Binding
	ShiftLeft, ShiftRight, ShiftUp, ShiftDown key.Binding
	WordLeft, WordRight                       key.Binding
	Home, End                                 key.Binding
	DocStart, DocEnd                          key.Binding
	SelectAll                                 key.Binding

	Backspace, Delete key.Binding
	Enter, Tab        key.Binding
	Indent, Dedent    key.Binding
	Insert            key.Binding

	Undo, Redo key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "left")),
		Right: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "right")),
		Up:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:  key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),

		ShiftLeft:  key.NewBinding(key.WithKeys("shift+left"), key.WithHelp("shift+←", "select left")),
		ShiftRight: key.NewBinding(key.WithKeys("shift+right"), key.WithHelp("shift+→", "select right")),
		ShiftUp:    key.NewBinding(key.WithKeys("shift+up"), key.WithHelp("shift+↑", "select up")),
		ShiftDown:  key.NewBinding(key.WithKeys("shift+down"), key.WithHelp("shift+↓", "select down")),

		// Portable word movement: terminals vary between alt+arrows and ctrl+arrows.
		WordLeft:  key.NewBinding(key.WithKeys("alt+left", "ctrl+left"), key.WithHelp("alt/ctrl+←", "word left")),
		WordRight: key.NewBinding(key.WithKeys("alt+right", "ctrl+right"), key.WithHelp("alt/ctrl+→", "word right")),

		Home:      key.NewBinding(key.WithKeys("home", "ctrl+a"), key.WithHelp("home", "line start")),
		End:       key.NewBinding(key.WithKeys("end", "ctrl+e"), key.WithHelp("end", "line end")),
		DocStart:  key.NewBinding(key.WithKeys("ctrl+home"), key.WithHelp("ctrl+home", "document start")),
		DocEnd:    key.NewBinding(key.WithKeys("ctrl+end"), key.WithHelp("ctrl+end", "document end")),
		SelectAll: key.NewBinding(key.WithKeys("alt+a"), key.WithHelp("alt+a", "select all")),

		Backspace: key.NewBinding(key.WithKeys("backspace", "ctrl+h"), key.WithHelp("backspace", "delete left")),
		Delete:    key.NewBinding(key.WithKeys("delete"), key.WithHelp("del", "delete right")),
		Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "newline")),
		Tab:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "insert tab")),
		Indent:    key.NewBinding(key.WithKeys("ctrl+]"), key.WithHelp("ctrl+]", "indent")),
		Dedent:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "dedent")),
		Insert:    key.NewBinding(key.WithKeys("insert"), key.WithHelp("ins", "overwrite")),

		Undo: key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "undo")),
		Redo: key.NewBinding(key.WithKeys("ctrl+y", "ctrl+shift+z"), key.WithHelp("ctrl+y", "redo")),
	}
}

// command returns the built-in command bound to msg.
func (km KeyMap) command(msg tea.KeyMsg) (string, bool) {
	bindings := []struct {
		b   key.Binding
		cmd string
	}{
		{km.Left, "goCharLeft"},
		{km.Right, "goCharRight"},
		{km.Up, "goLineUp"},
		{km.Down, "goLineDown"},
		{km.ShiftLeft, "selectCharLeft"},
		{km.ShiftRight, "selectCharRight"},
		{km.ShiftUp, "selectLineUp"},
		{km.ShiftDown, "selectLineDown"},
		{km.WordLeft, "goWordLeft"},
		{km.WordRight, "goWordRight"},
		{km.Home, "goLineStart"},
		{km.End, "goLineEnd"},
		{km.DocStart, "goDocStart"},
		{km.DocEnd, "goDocEnd"},
		{km.SelectAll, "selectAll"},
		{km.Backspace, "delCharBefore"},
		{km.Delete, "delCharAfter"},
		{km.Enter, "newlineAndIndent"},
		{km.Tab, "insertTab"},
		{km.Indent, "indentMore"},
		{km.Dedent, "indentLess"},
		{km.Insert, "toggleOverwrite"},
		{km.Undo, "undo"},
		{km.Redo, "redo"},
	}
	for _, kb := range bindings {
		if key.Matches(msg, kb.b) {
			return kb.cmd, true
		}
	}
	return "", false
}
