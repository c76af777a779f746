package builtin

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/iw2rmb/lattice/facade"
	"github.com/iw2rmb/lattice/host"
)

// controlTimeout bounds the editor queries one debug control makes.
const controlTimeout = 5 * time.Second

// walker steps through the document a line at a time, pausing on
// breakpoints. It is attached to the stream of the call that started it
// and driven through that stream's debug controls.
type walker struct {
	ed  *facade.Editor
	out *host.Stream

	mu   sync.Mutex
	line int
	done bool
}

func debug(ctx context.Context, p host.Params) error {
	w := &walker{ed: p.Editor, out: p.Stream, line: -1}
	p.Stream.SetDebugger(w)
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.runFrom(ctx, 0)
}

func (w *walker) Run()  { w.control(func(ctx context.Context) error { return w.runFrom(ctx, w.line+1) }) }
func (w *walker) Step() { w.control(func(ctx context.Context) error { return w.pauseAt(ctx, w.line+1) }) }
func (w *walker) Stop() { w.control(func(context.Context) error { w.finish("stopped"); return nil }) }

func (w *walker) control(fn func(ctx context.Context) error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), controlTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		fmt.Fprintf(w.out, "error: %s\n", err)
		w.finish("stopped")
	}
}

// runFrom pauses on the first breakpoint at or after line from.
func (w *walker) runFrom(ctx context.Context, from int) error {
	bps, err := w.ed.GetBreakpoints().Await(ctx)
	if err != nil {
		return err
	}
	for _, n := range bps {
		if n >= from {
			return w.pauseAt(ctx, n)
		}
	}
	w.finish("finished")
	return nil
}

func (w *walker) pauseAt(ctx context.Context, n int) error {
	count, err := w.ed.LineCount().Await(ctx)
	if err != nil {
		return err
	}
	if n >= count {
		w.finish("finished")
		return nil
	}
	text, err := w.ed.GetLine(n).Await(ctx)
	if err != nil {
		return err
	}
	w.line = n
	w.out.SetVariables(map[string]string{"line": strconv.Itoa(n + 1), "text": text})
	fmt.Fprintf(w.out, "paused at line %d: %s\n", n+1, text)
	return nil
}

func (w *walker) finish(how string) {
	w.done = true
	w.out.SetVariables(nil)
	w.out.SetDebugger(nil)
	fmt.Fprintln(w.out, how)
}
