// Package breakpoint tracks enabled breakpoints by line handle.
package breakpoint

import (
	"sort"

	"github.com/tliron/commonlog"

	"github.com/iw2rmb/lattice/buffer"
	"github.com/iw2rmb/lattice/lines"
)

var log = commonlog.GetLogger("lattice.breakpoint")

const (
	// Gutter is the gutter breakpoints are drawn in.
	Gutter = "breakpoints"
	// Marker is the gutter text of an enabled breakpoint.
	Marker = "●"
)

// Tracker owns the breakpoints of one document.
type Tracker struct {
	doc     *buffer.Buffer
	reg     *lines.Registry
	enabled map[buffer.LineHandle]bool
	cancel  func()
}

func NewTracker(doc *buffer.Buffer) *Tracker {
	t := &Tracker{
		doc:     doc,
		reg:     lines.NewRegistry(doc),
		enabled: make(map[buffer.LineHandle]bool),
	}
	t.cancel = doc.Observe(t.observe)
	return t
}

func (t *Tracker) Close() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

func (t *Tracker) observe(n buffer.Notification) {
	if n.Kind != buffer.NotifyLinesDetached {
		return
	}
	for _, h := range n.Lines {
		delete(t.enabled, h)
	}
}

// Toggle sets the breakpoint on ref to *enabled, or flips it when enabled
// is nil. A detached handle is accepted and stays inert.
func (t *Tracker) Toggle(ref lines.Ref, enabled *bool) error {
	h, err := t.reg.Resolve(ref)
	if err != nil {
		return err
	}
	on := !t.enabled[h]
	if enabled != nil {
		on = *enabled
	}
	if !t.reg.IsAttached(h) {
		log.Debugf("toggle on detached %s ignored", h)
		return nil
	}
	if on {
		t.enabled[h] = true
		log.Debugf("breakpoint set on %s", h)
		return t.doc.SetGutterMarker(h, Gutter, Marker)
	}
	delete(t.enabled, h)
	log.Debugf("breakpoint cleared on %s", h)
	return t.doc.SetGutterMarker(h, Gutter, "")
}

// Enabled reports whether ref carries an enabled breakpoint.
func (t *Tracker) Enabled(ref lines.Ref) bool {
	h, err := t.reg.Resolve(ref)
	if err != nil {
		return false
	}
	return t.enabled[h] && t.reg.IsAttached(h)
}

// List returns the numbers of lines with an enabled breakpoint, ascending.
func (t *Tracker) List() []int {
	hs := t.ListHandles()
	out := make([]int, 0, len(hs))
	for _, h := range hs {
		n, _ := t.reg.NumberFor(h)
		out = append(out, n)
	}
	return out
}

// ListHandles returns the same lines as List, as handles.
func (t *Tracker) ListHandles() []buffer.LineHandle {
	out := make([]buffer.LineHandle, 0, len(t.enabled))
	for h := range t.enabled {
		if !t.reg.IsAttached(h) {
			delete(t.enabled, h)
			continue
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		a, _ := t.reg.NumberFor(out[i])
		b, _ := t.reg.NumberFor(out[j])
		return a < b
	})
	return out
}
