// Package annotate keeps severity-tagged line widgets in sync with the
// lines they decorate.
package annotate

import (
	"fmt"
	"sort"

	"github.com/tliron/commonlog"

	"github.com/iw2rmb/lattice/buffer"
	"github.com/iw2rmb/lattice/lines"
)

var log = commonlog.GetLogger("lattice.annotate")

type Severity uint8

const (
	Error Severity = iota
	Warning
	Info
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	}
	return fmt.Sprintf("severity(%d)", uint8(s))
}

// Class is the widget class annotations of this severity carry.
func (s Severity) Class() string { return "lattice-" + s.String() }

func (s Severity) valid() bool { return s <= Info }

// SeverityOfClass maps a widget class back to its severity.
func SeverityOfClass(class string) (Severity, bool) {
	for _, s := range []Severity{Error, Warning, Info} {
		if s.Class() == class {
			return s, true
		}
	}
	return 0, false
}

// Annotation is a message rendered as a line widget.
type Annotation struct {
	id       uint64
	severity Severity
	message  string
	widget   *buffer.LineWidget
}

func (a *Annotation) ID() uint64 { return a.id }

func (a *Annotation) Severity() Severity { return a.severity }

func (a *Annotation) Message() string { return a.message }

func (a *Annotation) Widget() *buffer.LineWidget { return a.widget }

// Line returns the handle of the annotated line.
func (a *Annotation) Line() buffer.LineHandle { return a.widget.Line() }

// Removed reports whether the annotation is gone, because it was removed
// or because its line was deleted.
func (a *Annotation) Removed() bool { return a == nil || a.widget.Removed() }

// Manager owns the annotations of one document.
type Manager struct {
	doc    *buffer.Buffer
	reg    *lines.Registry
	byLine map[buffer.LineHandle][]*Annotation
	seq    uint64
	cancel func()
}

// NewManager attaches a manager to doc. It follows doc's notifications
// until Close.
func NewManager(doc *buffer.Buffer) *Manager {
	m := &Manager{
		doc:    doc,
		reg:    lines.NewRegistry(doc),
		byLine: make(map[buffer.LineHandle][]*Annotation),
	}
	m.cancel = doc.Observe(m.observe)
	return m
}

func (m *Manager) Close() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m *Manager) observe(n buffer.Notification) {
	if n.Kind != buffer.NotifyLinesDetached {
		return
	}
	for _, h := range n.Lines {
		if as, ok := m.byLine[h]; ok {
			log.Debugf("dropping %d annotations of %s", len(as), h)
			delete(m.byLine, h)
		}
	}
}

// Add attaches an annotation to the line ref names. A line number is
// resolved before anything else happens.
func (m *Manager) Add(sev Severity, ref lines.Ref, message string) (*Annotation, error) {
	if !sev.valid() {
		return nil, fmt.Errorf("%w: %s", buffer.ErrInvalidArgument, sev)
	}
	h, err := m.reg.Resolve(ref)
	if err != nil {
		return nil, err
	}
	w, err := m.doc.AddLineWidget(h, sev.Class(), message, buffer.WidgetOptions{CoverGutter: true})
	if err != nil {
		return nil, err
	}
	m.seq++
	a := &Annotation{id: m.seq, severity: sev, message: message, widget: w}
	m.byLine[h] = append(m.byLine[h], a)
	log.Debugf("added %s #%d on %s", sev, a.id, h)
	return a, nil
}

// Target selects annotations to remove: an *Annotation, a WidgetTarget or
// a LineTarget.
type Target interface {
	target()
}

// WidgetTarget selects the annotation rendered by W.
type WidgetTarget struct{ W *buffer.LineWidget }

// LineTarget selects every annotation of the removed severity on a line.
type LineTarget struct{ Ref lines.Ref }

func (*Annotation) target() {}
func (WidgetTarget) target() {}
func (LineTarget) target() {}

// Remove removes the annotations of severity sev that t selects.
// Removing something already gone, or an annotation of another severity,
// is a no-op.
func (m *Manager) Remove(sev Severity, t Target) error {
	switch t := t.(type) {
	case nil:
		return nil
	case *Annotation:
		if t == nil || t.severity != sev {
			return nil
		}
		m.drop(t.Line(), func(a *Annotation) bool { return a == t })
	case WidgetTarget:
		if t.W == nil {
			return nil
		}
		if other, ok := SeverityOfClass(t.W.Class()); ok && other != sev {
			return nil
		}
		m.drop(t.W.Line(), func(a *Annotation) bool { return a.widget == t.W })
		// Widgets not created here are removed as well.
		m.doc.RemoveLineWidget(t.W)
	case LineTarget:
		h, err := m.reg.Resolve(t.Ref)
		if err != nil {
			return err
		}
		m.drop(h, func(a *Annotation) bool { return a.severity == sev })
	default:
		return fmt.Errorf("%w: annotation target %T", buffer.ErrInvalidArgument, t)
	}
	return nil
}

func (m *Manager) drop(h buffer.LineHandle, match func(*Annotation) bool) {
	as := m.byLine[h]
	keep := as[:0]
	for _, a := range as {
		if match(a) {
			m.doc.RemoveLineWidget(a.widget)
			log.Debugf("removed %s #%d on %s", a.severity, a.id, h)
			continue
		}
		keep = append(keep, a)
	}
	if len(keep) == 0 {
		delete(m.byLine, h)
		return
	}
	m.byLine[h] = keep
}

// List returns the live annotations in document order.
func (m *Manager) List() []*Annotation {
	type entry struct {
		row int
		a   *Annotation
	}
	var out []entry
	for h, as := range m.byLine {
		row, ok := m.reg.NumberFor(h)
		if !ok {
			delete(m.byLine, h)
			continue
		}
		for _, a := range as {
			if a.Removed() {
				continue
			}
			out = append(out, entry{row: row, a: a})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].row != out[j].row {
			return out[i].row < out[j].row
		}
		return out[i].a.id < out[j].a.id
	})
	res := make([]*Annotation, len(out))
	for i, e := range out {
		res[i] = e.a
	}
	return res
}

// Len reports how many lines carry annotations.
func (m *Manager) Len() int { return len(m.byLine) }
