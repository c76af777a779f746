package proxy

import (
	"github.com/iw2rmb/lattice/buffer"
	"github.com/iw2rmb/lattice/editor"
	"github.com/iw2rmb/lattice/lines"
)

func (p *Proxy) SetOption(name string, v any) *Future[struct{}] {
	return Do(p, "setOption", func(c *editor.Core) error { return c.SetOption(name, v) })
}

func (p *Proxy) GetOption(name string) *Future[any] {
	return Submit(p, "getOption", func(c *editor.Core) (any, error) { return c.Option(name) })
}

// SetGutterMarker sets the marker of gutter on the referenced line. An
// empty text clears it.
func (p *Proxy) SetGutterMarker(ref lines.Ref, gutter, text string) *Future[buffer.LineHandle] {
	return SubmitLine(p, "setGutterMarker", ref, func(c *editor.Core, h buffer.LineHandle) (buffer.LineHandle, error) {
		return h, c.Doc().SetGutterMarker(h, gutter, text)
	})
}

func (p *Proxy) ClearGutter(gutter string) *Future[struct{}] {
	return Do(p, "clearGutter", func(c *editor.Core) error {
		c.Doc().ClearGutter(gutter)
		return nil
	})
}

func (p *Proxy) AddLineClass(ref lines.Ref, where buffer.LineClassWhere, class string) *Future[buffer.LineHandle] {
	return SubmitLine(p, "addLineClass", ref, func(c *editor.Core, h buffer.LineHandle) (buffer.LineHandle, error) {
		return h, c.Doc().AddLineClass(h, where, class)
	})
}

func (p *Proxy) RemoveLineClass(ref lines.Ref, where buffer.LineClassWhere, class string) *Future[buffer.LineHandle] {
	return SubmitLine(p, "removeLineClass", ref, func(c *editor.Core, h buffer.LineHandle) (buffer.LineHandle, error) {
		return h, c.Doc().RemoveLineClass(h, where, class)
	})
}

// LineInfo describes the referenced line. Info of a detached handle has
// Line -1.
func (p *Proxy) LineInfo(ref lines.Ref) *Future[buffer.LineInfo] {
	return SubmitLine(p, "lineInfo", ref, func(c *editor.Core, h buffer.LineHandle) (buffer.LineInfo, error) {
		return c.Doc().LineInfo(h), nil
	})
}

func (p *Proxy) FindWordAt(pos Pos) *Future[buffer.Range] {
	return Submit(p, "findWordAt", func(c *editor.Core) (buffer.Range, error) { return c.Doc().FindWordAt(pos) })
}

// PosHit is a position found by FindPosH or FindPosV. HitSide reports
// that the document boundary stopped the search.
type PosHit struct {
	Pos     Pos
	HitSide bool
}

func (p *Proxy) FindPosH(start Pos, amount int, unit buffer.MoveUnit) *Future[PosHit] {
	return Submit(p, "findPosH", func(c *editor.Core) (PosHit, error) {
		pos, hit, err := c.Doc().FindPosH(start, amount, unit)
		return PosHit{Pos: pos, HitSide: hit}, err
	})
}

func (p *Proxy) FindPosV(start Pos, amount int) *Future[PosHit] {
	return Submit(p, "findPosV", func(c *editor.Core) (PosHit, error) {
		pos, hit, err := c.Doc().FindPosV(start, amount)
		return PosHit{Pos: pos, HitSide: hit}, err
	})
}

func (p *Proxy) IndentLine(n int, how editor.IndentHow) *Future[struct{}] {
	return Do(p, "indentLine", func(c *editor.Core) error { return c.IndentLine(n, how) })
}

func (p *Proxy) IndentSelection(how editor.IndentHow) *Future[struct{}] {
	return Do(p, "indentSelection", func(c *editor.Core) error { return c.IndentSelection(how) })
}

func (p *Proxy) IsReadOnly() *Future[bool] {
	return Submit(p, "isReadOnly", func(c *editor.Core) (bool, error) { return c.IsReadOnly(), nil })
}

// ToggleOverwrite flips overwrite mode, or sets it to *v, and returns the
// new state.
func (p *Proxy) ToggleOverwrite(v *bool) *Future[bool] {
	if v != nil {
		b := *v
		v = &b
	}
	return Submit(p, "toggleOverwrite", func(c *editor.Core) (bool, error) { return c.ToggleOverwrite(v), nil })
}

func (p *Proxy) ExecCommand(name string) *Future[struct{}] {
	return Do(p, "execCommand", func(c *editor.Core) error { return c.ExecCommand(name) })
}

func (p *Proxy) Focus() *Future[struct{}] {
	return Do(p, "focus", func(c *editor.Core) error {
		c.Focus()
		return nil
	})
}

// AddKeyMap installs keys under name. Later maps take precedence unless
// bottom is set.
func (p *Proxy) AddKeyMap(name string, keys editor.CommandMap, bottom bool) *Future[struct{}] {
	cp := make(editor.CommandMap, len(keys))
	for k, v := range keys {
		cp[k] = v
	}
	return Do(p, "addKeyMap", func(c *editor.Core) error {
		c.AddKeyMap(name, cp, bottom)
		return nil
	})
}

// RemoveKeyMap reports whether a map named name was installed.
func (p *Proxy) RemoveKeyMap(name string) *Future[bool] {
	return Submit(p, "removeKeyMap", func(c *editor.Core) (bool, error) { return c.RemoveKeyMap(name), nil })
}

func (p *Proxy) Refresh() *Future[struct{}] {
	return Do(p, "refresh", func(c *editor.Core) error {
		c.Refresh()
		return nil
	})
}

func (p *Proxy) IsCompletionActive() *Future[bool] {
	return Submit(p, "isCompletionActive", func(c *editor.Core) (bool, error) { return c.IsCompletionActive(), nil })
}
