// Package facade is the editor surface plugins program against: every
// proxy operation plus severity annotations and breakpoints.
package facade

import (
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/iw2rmb/lattice/annotate"
	"github.com/iw2rmb/lattice/breakpoint"
	"github.com/iw2rmb/lattice/buffer"
	"github.com/iw2rmb/lattice/editor"
	"github.com/iw2rmb/lattice/lines"
	"github.com/iw2rmb/lattice/proxy"
)

var log = commonlog.GetLogger("lattice.facade")

// Editor extends a proxy with annotations and breakpoints. The managers
// live on the editor's goroutine and are only reached through queued
// units, like the document itself.
type Editor struct {
	*proxy.Proxy

	ann *annotate.Manager
	bps *breakpoint.Tracker
}

// New creates an editor over core.
func New(core *editor.Core, opts proxy.Options) *Editor {
	return Wrap(proxy.New(core, opts))
}

// Wrap attaches fresh annotation and breakpoint state to p. The state is
// created by the first unit queued after Wrap returns and released when p
// closes.
func Wrap(p *proxy.Proxy) *Editor {
	e := &Editor{Proxy: p}
	proxy.Do(p, "attach", func(c *editor.Core) error {
		e.ann = annotate.NewManager(c.Doc())
		e.bps = breakpoint.NewTracker(c.Doc())
		return nil
	})
	p.OnClose(func(*editor.Core) {
		if e.ann != nil {
			e.ann.Close()
		}
		if e.bps != nil {
			e.bps.Close()
		}
		log.Debug("annotations and breakpoints released")
	})
	return e
}

// Annotation is a snapshot of one annotation.
type Annotation struct {
	ID       uint64
	Severity annotate.Severity
	Message  string
	// Line is the line number when the snapshot was taken.
	Line     int
	Handle   buffer.LineHandle
	WidgetID uint64
}

func (a Annotation) target() {}

// Target selects annotations to remove: an Annotation, a Widget or a Line.
type Target interface {
	target()
}

// Widget selects the annotation rendered by the line widget with this id.
type Widget uint64

func (Widget) target() {}

// Line selects every annotation of the removed severity on a line.
type Line struct{ Ref lines.Ref }

func (Line) target() {}

func (e *Editor) snapshot(c *editor.Core, a *annotate.Annotation) Annotation {
	n, ok := c.Doc().LineNumber(a.Line())
	if !ok {
		n = -1
	}
	return Annotation{
		ID:       a.ID(),
		Severity: a.Severity(),
		Message:  a.Message(),
		Line:     n,
		Handle:   a.Line(),
		WidgetID: a.Widget().ID(),
	}
}

func (e *Editor) add(sev annotate.Severity, ref lines.Ref, message string) *proxy.Future[Annotation] {
	return proxy.SubmitLine(e.Proxy, "add"+severityName(sev), ref, func(c *editor.Core, h buffer.LineHandle) (Annotation, error) {
		a, err := e.ann.Add(sev, lines.Of(h), message)
		if err != nil {
			return Annotation{}, err
		}
		return e.snapshot(c, a), nil
	})
}

func (e *Editor) remove(sev annotate.Severity, t Target) *proxy.Future[struct{}] {
	return proxy.Do(e.Proxy, "remove"+severityName(sev), func(c *editor.Core) error {
		var id uint64
		switch t := t.(type) {
		case nil:
			return nil
		case Annotation:
			id = t.WidgetID
		case Widget:
			id = uint64(t)
		case Line:
			return e.ann.Remove(sev, annotate.LineTarget{Ref: t.Ref})
		default:
			return fmt.Errorf("%w: annotation target %T", buffer.ErrInvalidArgument, t)
		}
		w, ok := c.Doc().WidgetByID(id)
		if !ok {
			return nil
		}
		return e.ann.Remove(sev, annotate.WidgetTarget{W: w})
	})
}

func severityName(sev annotate.Severity) string {
	switch sev {
	case annotate.Error:
		return "Error"
	case annotate.Warning:
		return "Warning"
	}
	return "Info"
}

func (e *Editor) AddError(ref lines.Ref, message string) *proxy.Future[Annotation] {
	return e.add(annotate.Error, ref, message)
}

func (e *Editor) AddWarning(ref lines.Ref, message string) *proxy.Future[Annotation] {
	return e.add(annotate.Warning, ref, message)
}

func (e *Editor) AddInfo(ref lines.Ref, message string) *proxy.Future[Annotation] {
	return e.add(annotate.Info, ref, message)
}

// RemoveError removes the errors t selects. Removing an annotation that
// is already gone, or one of another severity, succeeds without effect.
func (e *Editor) RemoveError(t Target) *proxy.Future[struct{}] {
	return e.remove(annotate.Error, t)
}

func (e *Editor) RemoveWarning(t Target) *proxy.Future[struct{}] {
	return e.remove(annotate.Warning, t)
}

func (e *Editor) RemoveInfo(t Target) *proxy.Future[struct{}] {
	return e.remove(annotate.Info, t)
}

// Annotations lists the live annotations in document order.
func (e *Editor) Annotations() *proxy.Future[[]Annotation] {
	return proxy.Submit(e.Proxy, "annotations", func(c *editor.Core) ([]Annotation, error) {
		as := e.ann.List()
		out := make([]Annotation, len(as))
		for i, a := range as {
			out[i] = e.snapshot(c, a)
		}
		return out, nil
	})
}

// ToggleBreakpoint sets the breakpoint on ref to *enabled, or flips it.
// A detached handle is accepted and ignored.
func (e *Editor) ToggleBreakpoint(ref lines.Ref, enabled *bool) *proxy.Future[struct{}] {
	if enabled != nil {
		v := *enabled
		enabled = &v
	}
	return proxy.SubmitLine(e.Proxy, "toggleBreakpoint", ref, func(_ *editor.Core, h buffer.LineHandle) (struct{}, error) {
		return struct{}{}, e.bps.Toggle(lines.Of(h), enabled)
	})
}

// GetBreakpoints returns the lines holding an enabled breakpoint,
// ascending.
func (e *Editor) GetBreakpoints() *proxy.Future[[]int] {
	return proxy.Submit(e.Proxy, "getBreakpoints", func(*editor.Core) ([]int, error) {
		return e.bps.List(), nil
	})
}

// GetBreakpointLines returns the same lines as GetBreakpoints, as handles.
func (e *Editor) GetBreakpointLines() *proxy.Future[[]buffer.LineHandle] {
	return proxy.Submit(e.Proxy, "getBreakpointLines", func(*editor.Core) ([]buffer.LineHandle, error) {
		return e.bps.ListHandles(), nil
	})
}

// LinkedDoc creates an editor over a linked document. Annotations and
// breakpoints are not shared with it.
func (e *Editor) LinkedDoc(opt buffer.LinkOptions) *proxy.Future[*Editor] {
	return proxy.Map(e.Proxy.LinkedDoc(opt), func(p *proxy.Proxy) (*Editor, error) {
		return Wrap(p), nil
	})
}

// Copy creates an editor over an independent copy of the document,
// without annotations or breakpoints.
func (e *Editor) Copy(copyHistory bool) *proxy.Future[*Editor] {
	return proxy.Map(e.Proxy.Copy(copyHistory), func(p *proxy.Proxy) (*Editor, error) {
		return Wrap(p), nil
	})
}
