package proxy

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/tliron/commonlog"

	"github.com/iw2rmb/lattice/buffer"
	"github.com/iw2rmb/lattice/editor"
	"github.com/iw2rmb/lattice/lines"
)

var log = commonlog.GetLogger("lattice.proxy")

const DefaultQueueSize = 1024

type Options struct {
	// QueueSize bounds the number of accepted but not yet run operations.
	// Submitting to a full queue blocks the caller. Default: 1024.
	QueueSize int
	// Executor runs units on the editor's goroutine. Default:
	// editor.DirectExecutor.
	Executor editor.Executor
}

func (o Options) normalized() Options {
	if o.QueueSize <= 0 {
		o.QueueSize = DefaultQueueSize
	}
	if o.Executor == nil {
		o.Executor = editor.DirectExecutor{}
	}
	return o
}

// task is one queued unit of work.
type task struct {
	name string
	run  func()
	fail func(error)
}

// group is shared by the proxies of linked documents. Units of the group
// never run concurrently.
type group struct {
	mu      sync.Mutex
	members map[*buffer.Buffer]*Proxy
}

// Proxy exposes one editor as asynchronous operations executed in
// submission order.
//
// Every method returns immediately with a Future. A unit must not wait on
// a future of its own proxy, or of a linked one; that deadlocks.
type Proxy struct {
	core *editor.Core
	reg  *lines.Registry
	opts Options
	grp  *group

	// mu guards submission against Close.
	mu      sync.RWMutex
	closed  bool
	torn    atomic.Bool
	queue   chan task
	done    chan struct{}
	closers []func(*editor.Core)

	// inUnit is set while one of this proxy's units runs.
	inUnit atomic.Bool
	pmu    sync.Mutex
	pins   map[*pin]struct{}

	lmu       sync.Mutex
	listeners map[editor.EventKind][]listener
	lseq      uint64
	events    *dispatcher
}

// New wraps core and starts its worker. Close releases it.
func New(core *editor.Core, opts Options) *Proxy {
	return newProxy(core, opts.normalized(), &group{members: make(map[*buffer.Buffer]*Proxy)})
}

func newProxy(core *editor.Core, opts Options, grp *group) *Proxy {
	p := &Proxy{
		core:      core,
		reg:       lines.NewRegistry(core.Doc()),
		opts:      opts,
		grp:       grp,
		queue:     make(chan task, opts.QueueSize),
		done:      make(chan struct{}),
		pins:      make(map[*pin]struct{}),
		listeners: make(map[editor.EventKind][]listener),
		events:    newDispatcher(),
	}
	grp.members[core.Doc()] = p
	core.Subscribe(p.capture)
	go p.events.run()
	go p.work()
	return p
}

func (p *Proxy) work() {
	defer close(p.done)
	for t := range p.queue {
		if p.torn.Load() {
			t.fail(detached(t.name))
			continue
		}
		p.execute(t)
	}
	p.teardown()
}

func (p *Proxy) execute(t task) {
	p.grp.mu.Lock()
	defer p.grp.mu.Unlock()
	err := p.opts.Executor.Execute(func() {
		p.inUnit.Store(true)
		defer p.inUnit.Store(false)
		defer func() {
			if r := recover(); r != nil {
				log.Errorf("%s panicked: %v", t.name, r)
				t.fail(&Error{Op: t.name, Kind: KindInternal, Err: fmt.Errorf("panic: %v", r)})
			}
		}()
		t.run()
	})
	if err != nil {
		t.fail(classify(t.name, err))
	}
}

func (p *Proxy) teardown() {
	p.grp.mu.Lock()
	defer p.grp.mu.Unlock()
	delete(p.grp.members, p.core.Doc())
	var once sync.Once
	destroy := func() {
		once.Do(func() {
			for p.core.Doc().InOperation() {
				p.core.Doc().EndOperation()
			}
			for i := len(p.closers) - 1; i >= 0; i-- {
				p.closers[i](p.core)
			}
			p.unlinkAll()
			p.core.Destroy()
		})
	}
	err := p.opts.Executor.Execute(destroy)
	if errors.Is(err, editor.ErrExecutorStopped) {
		// Nothing owns the editor once its executor stopped.
		destroy()
		err = nil
	}
	if err != nil {
		log.Debugf("destroy: %s", err)
	}
	p.events.close()
}

func (p *Proxy) enqueue(t task) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		t.fail(detached(t.name))
		return
	}
	p.queue <- t
}

// Close destroys the editor. Operations still queued fail with
// ErrDetachedEditor without running, as does everything submitted
// later. Close waits for the running unit, if any, and is idempotent.
func (p *Proxy) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		<-p.done
		return
	}
	p.closed = true
	p.torn.Store(true)
	close(p.queue)
	p.mu.Unlock()
	<-p.done
	log.Debug("proxy closed")
}

// OnClose registers fn to run as part of the final unit, right before the
// editor is destroyed. Hooks run in reverse registration order. OnClose
// after Close has no effect.
func (p *Proxy) OnClose(fn func(c *editor.Core)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closers = append(p.closers, fn)
	}
}

// Closed reports whether Close was called.
func (p *Proxy) Closed() bool { return p.torn.Load() }

// Submit queues fn as one unit of p. fn runs on the editor's goroutine
// with exclusive access to c and must not block on other proxy futures.
func Submit[T any](p *Proxy, name string, fn func(c *editor.Core) (T, error)) *Future[T] {
	f := newFuture[T]()
	p.enqueue(task{
		name: name,
		run: func() {
			v, err := fn(p.core)
			f.resolve(v, classify(name, err))
		},
		fail: func(err error) {
			var zero T
			f.resolve(zero, err)
		},
	})
	return f
}

// Do queues fn as one unit of p for its side effects.
func Do(p *Proxy, name string, fn func(c *editor.Core) error) *Future[struct{}] {
	return Submit(p, name, func(c *editor.Core) (struct{}, error) {
		return struct{}{}, fn(c)
	})
}

// Resolve resolves ref against the document of p. It must be called from
// inside a unit.
func (p *Proxy) Resolve(ref lines.Ref) (buffer.LineHandle, error) {
	return p.reg.Resolve(ref)
}
