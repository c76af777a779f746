package editor

import (
	"fmt"
	"sort"

	"github.com/iw2rmb/lattice/buffer"
)

// Command is a named editor action.
type Command func(c *Core) error

// CommandMap binds key names (as reported by tea.KeyMsg.String, e.g.
// "ctrl+s") to command names.
type CommandMap map[string]string

type namedKeyMap struct {
	name string
	keys CommandMap
}

// mutating commands fail on read-only editors.
var mutating = map[string]bool{
	"undo": true, "redo": true,
	"delCharBefore": true, "delCharAfter": true, "deleteLine": true,
	"newlineAndIndent": true, "insertTab": true,
	"indentMore": true, "indentLess": true, "indentAuto": true,
}

func move(unit buffer.MoveUnit, dir buffer.MoveDir, extend bool) Command {
	return func(c *Core) error {
		c.doc.Move(buffer.Move{Unit: unit, Dir: dir, Extend: extend})
		return nil
	}
}

func builtinCommands() map[string]Command {
	return map[string]Command{
		"undo": func(c *Core) error { c.doc.Undo(); return nil },
		"redo": func(c *Core) error { c.doc.Redo(); return nil },

		"selectAll": func(c *Core) error {
			last := c.doc.LastLine()
			end := c.doc.ClipPos(buffer.Pos{Row: last, GraphemeCol: int(^uint(0) >> 1)})
			return c.doc.SetSelection(buffer.Pos{}, end)
		},
		"singleSelection": func(c *Core) error {
			p := c.doc.Selection().PrimaryRange()
			return c.doc.SetSelection(p.Anchor, p.Head)
		},

		"goCharLeft":      move(buffer.MoveGrapheme, buffer.DirLeft, false),
		"goCharRight":     move(buffer.MoveGrapheme, buffer.DirRight, false),
		"goLineUp":        move(buffer.MoveGrapheme, buffer.DirUp, false),
		"goLineDown":      move(buffer.MoveGrapheme, buffer.DirDown, false),
		"goWordLeft":      move(buffer.MoveWord, buffer.DirLeft, false),
		"goWordRight":     move(buffer.MoveWord, buffer.DirRight, false),
		"goLineStart":     move(buffer.MoveLine, buffer.DirHome, false),
		"goLineEnd":       move(buffer.MoveLine, buffer.DirEnd, false),
		"goDocStart":      move(buffer.MoveDoc, buffer.DirHome, false),
		"goDocEnd":        move(buffer.MoveDoc, buffer.DirEnd, false),
		"selectCharLeft":  move(buffer.MoveGrapheme, buffer.DirLeft, true),
		"selectCharRight": move(buffer.MoveGrapheme, buffer.DirRight, true),
		"selectLineUp":    move(buffer.MoveGrapheme, buffer.DirUp, true),
		"selectLineDown":  move(buffer.MoveGrapheme, buffer.DirDown, true),

		"delCharBefore": func(c *Core) error { c.doc.DeleteBackward(); return nil },
		"delCharAfter":  func(c *Core) error { c.doc.DeleteForward(); return nil },
		"deleteLine": func(c *Core) error {
			return c.doc.RemoveLine(c.doc.Cursor().Row)
		},
		"newlineAndIndent": func(c *Core) error {
			return c.doc.Operation(func() error {
				c.doc.InsertNewline()
				return c.IndentLine(c.doc.Cursor().Row, IndentPrev)
			})
		},
		"insertTab": func(c *Core) error {
			c.doc.InsertText("\t")
			return nil
		},
		"indentMore": func(c *Core) error { return c.IndentSelection(IndentAdd) },
		"indentLess": func(c *Core) error { return c.IndentSelection(IndentSubtract) },
		"indentAuto": func(c *Core) error { return c.IndentSelection(IndentSmart) },

		"toggleOverwrite": func(c *Core) error { c.ToggleOverwrite(nil); return nil },
	}
}

// DefineCommand registers (or replaces) a named command.
func (c *Core) DefineCommand(name string, cmd Command) {
	if cmd == nil {
		delete(c.commands, name)
		return
	}
	c.commands[name] = cmd
}

// Commands returns the names of every known command, sorted.
func (c *Core) Commands() []string {
	out := make([]string, 0, len(c.commands))
	for n := range c.commands {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// ExecCommand runs the named command.
func (c *Core) ExecCommand(name string) error {
	cmd, ok := c.commands[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	if c.opts.ReadOnly && mutating[name] {
		return fmt.Errorf("%w: %s", ErrReadOnly, name)
	}
	return cmd(c)
}

// AddKeyMap adds a key map under name. Later maps take precedence unless
// bottom is set. Adding a name twice replaces the earlier map.
func (c *Core) AddKeyMap(name string, keys CommandMap, bottom bool) {
	c.RemoveKeyMap(name)
	km := namedKeyMap{name: name, keys: make(CommandMap, len(keys))}
	for k, v := range keys {
		km.keys[k] = v
	}
	if bottom {
		c.keyMaps = append([]namedKeyMap{km}, c.keyMaps...)
		return
	}
	c.keyMaps = append(c.keyMaps, km)
}

// RemoveKeyMap removes the key map added under name and reports whether
// there was one.
func (c *Core) RemoveKeyMap(name string) bool {
	for i, km := range c.keyMaps {
		if km.name == name {
			c.keyMaps = append(c.keyMaps[:i:i], c.keyMaps[i+1:]...)
			return true
		}
	}
	return false
}

// LookupKey returns the command bound to key by the added key maps.
func (c *Core) LookupKey(key string) (string, bool) {
	for i := len(c.keyMaps) - 1; i >= 0; i-- {
		if cmd, ok := c.keyMaps[i].keys[key]; ok {
			return cmd, true
		}
	}
	return "", false
}
