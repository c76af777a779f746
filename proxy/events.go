package proxy

import (
	"fmt"
	"sync"

	"github.com/iw2rmb/lattice/buffer"
	"github.com/iw2rmb/lattice/editor"
)

// Handler receives forwarded editor events on the proxy's dispatcher
// goroutine, one event at a time, in the order the events occurred.
type Handler func(ev editor.Event)

// Subscription identifies a registered handler.
type Subscription struct {
	id   uint64
	kind editor.EventKind
}

func (s Subscription) Kind() editor.EventKind { return s.kind }

type listener struct {
	id uint64
	fn Handler
}

// On registers h for events of kind. Registration is queued like any
// other operation: h observes every event that occurs after the returned
// future resolves, and none that occurred before it was accepted.
func (p *Proxy) On(kind editor.EventKind, h Handler) *Future[Subscription] {
	return Submit(p, "on", func(*editor.Core) (Subscription, error) {
		p.lmu.Lock()
		defer p.lmu.Unlock()
		p.lseq++
		p.listeners[kind] = append(p.listeners[kind], listener{id: p.lseq, fn: h})
		return Subscription{id: p.lseq, kind: kind}, nil
	})
}

// Off removes a handler. Removing an unknown subscription is a no-op.
// Events that occurred before Off ran are still delivered.
func (p *Proxy) Off(sub Subscription) *Future[struct{}] {
	return Do(p, "off", func(*editor.Core) error {
		p.removeListener(sub)
		return nil
	})
}

// OffPending removes the handler registered by reg, a future returned by
// On of the same proxy, without waiting for it first. The removal is
// queued now, after the registration, so an On immediately followed by
// OffPending never leaves the handler behind. A failed registration
// leaves nothing to remove.
func (p *Proxy) OffPending(reg *Future[Subscription]) *Future[struct{}] {
	return Do(p, "off", func(*editor.Core) error {
		select {
		case <-reg.Done():
		default:
			return fmt.Errorf("%w: registration does not belong to this editor", buffer.ErrInvalidArgument)
		}
		sub, err := reg.Result()
		if err != nil {
			return nil
		}
		p.removeListener(sub)
		return nil
	})
}

func (p *Proxy) removeListener(sub Subscription) {
	p.lmu.Lock()
	defer p.lmu.Unlock()
	ls := p.listeners[sub.kind]
	for i, l := range ls {
		if l.id == sub.id {
			p.listeners[sub.kind] = append(ls[:i:i], ls[i+1:]...)
			return
		}
	}
}

// capture runs synchronously wherever the editor emits, and hands the
// event to the dispatcher together with the listeners registered now.
func (p *Proxy) capture(ev editor.Event) {
	if _, ok := ev.(editor.BeforeChangeEvent); ok && !p.inUnit.Load() {
		p.settlePins()
	}
	p.lmu.Lock()
	ls := p.listeners[ev.Kind()]
	var hs []Handler
	if len(ls) > 0 {
		hs = make([]Handler, len(ls))
		for i, l := range ls {
			hs[i] = l.fn
		}
	}
	p.lmu.Unlock()
	if len(hs) > 0 {
		p.events.push(delivery{ev: ev, handlers: hs})
	}
}

type delivery struct {
	ev       editor.Event
	handlers []Handler
}

// dispatcher delivers events on its own goroutine so that handlers never
// run inside a unit. Its queue is unbounded.
type dispatcher struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending []delivery
	closing bool
	done    chan struct{}
}

func newDispatcher() *dispatcher {
	d := &dispatcher{done: make(chan struct{})}
	d.cond = sync.NewCond(&d.mu)
	return d
}

func (d *dispatcher) push(x delivery) {
	d.mu.Lock()
	if !d.closing {
		d.pending = append(d.pending, x)
	}
	d.mu.Unlock()
	d.cond.Signal()
}

// close stops the dispatcher once everything pushed so far is delivered.
func (d *dispatcher) close() {
	d.mu.Lock()
	d.closing = true
	d.mu.Unlock()
	d.cond.Signal()
}

func (d *dispatcher) run() {
	defer close(d.done)
	for {
		d.mu.Lock()
		for len(d.pending) == 0 && !d.closing {
			d.cond.Wait()
		}
		batch := d.pending
		d.pending = nil
		closing := d.closing
		d.mu.Unlock()

		for _, x := range batch {
			for _, h := range x.handlers {
				deliver(h, x.ev)
			}
		}
		if closing && len(batch) == 0 {
			return
		}
	}
}

func deliver(h Handler, ev editor.Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("%s handler panicked: %v", ev.Kind(), r)
		}
	}()
	h(ev)
}
