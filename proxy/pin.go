package proxy

import (
	"github.com/iw2rmb/lattice/buffer"
	"github.com/iw2rmb/lattice/editor"
	"github.com/iw2rmb/lattice/lines"
)

// pin holds a line number as of the moment its operation was accepted.
// Edits that reach the document from outside this proxy's queue, such as
// user input or a linked editor, settle the pin to a handle before they
// apply, so the number keeps meaning the line it meant when accepted.
type pin struct {
	ref     lines.Ref
	h       buffer.LineHandle
	err     error
	settled bool
}

func (p *Proxy) addPin(ref lines.Ref) *pin {
	pn := &pin{ref: ref}
	if _, ok := ref.Number(); !ok {
		pn.settled = true
		return pn
	}
	p.pmu.Lock()
	p.pins[pn] = struct{}{}
	p.pmu.Unlock()
	return pn
}

func (p *Proxy) dropPin(pn *pin) {
	p.pmu.Lock()
	delete(p.pins, pn)
	p.pmu.Unlock()
}

// settlePins runs on the goroutine that owns the editor, right before an
// edit this proxy did not queue.
func (p *Proxy) settlePins() {
	p.pmu.Lock()
	defer p.pmu.Unlock()
	for pn := range p.pins {
		pn.h, pn.err = p.reg.Resolve(pn.ref)
		pn.settled = true
		delete(p.pins, pn)
	}
}

// resolvePin runs inside the unit that accepted pn.
func (p *Proxy) resolvePin(pn *pin) (buffer.LineHandle, error) {
	p.pmu.Lock()
	delete(p.pins, pn)
	settled, h, err := pn.settled, pn.h, pn.err
	p.pmu.Unlock()
	if !settled {
		return p.reg.Resolve(pn.ref)
	}
	if err != nil {
		return buffer.LineHandle{}, err
	}
	if h.IsZero() {
		return p.reg.Resolve(pn.ref)
	}
	return h, nil
}

// SubmitLine queues fn like Submit, with ref resolved to the line it
// referred to when SubmitLine was called. A number ref whose line was
// deleted in between resolves to that line's detached handle.
func SubmitLine[T any](p *Proxy, name string, ref lines.Ref, fn func(c *editor.Core, h buffer.LineHandle) (T, error)) *Future[T] {
	pn := p.addPin(ref)
	f := newFuture[T]()
	p.enqueue(task{
		name: name,
		run: func() {
			h, err := p.resolvePin(pn)
			if err != nil {
				var zero T
				f.resolve(zero, classify(name, err))
				return
			}
			v, err := fn(p.core, h)
			f.resolve(v, classify(name, err))
		},
		fail: func(err error) {
			p.dropPin(pn)
			var zero T
			f.resolve(zero, err)
		},
	})
	return f
}
