package proxy

import (
	"context"
	"sync"
)

// Future is the deferred result of one queued operation.
//
// Accepted operations always run to completion. Cancelling the context
// passed to Await only stops waiting; side effects still apply.
type Future[T any] struct {
	done chan struct{}
	once sync.Once
	val  T
	err  error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// failed returns a future that already failed with err.
func failed[T any](err error) *Future[T] {
	f := newFuture[T]()
	var zero T
	f.resolve(zero, err)
	return f
}

func (f *Future[T]) resolve(v T, err error) {
	f.once.Do(func() {
		f.val, f.err = v, err
		close(f.done)
	})
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Await waits for the result or for ctx to end.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Result waits for the result without a deadline.
func (f *Future[T]) Result() (T, error) {
	<-f.done
	return f.val, f.err
}

// Err waits for the result and returns only its error.
func (f *Future[T]) Err() error {
	_, err := f.Result()
	return err
}

// Map returns a future resolved with fn applied to the result of f. fn
// runs on its own goroutine, never inside a unit, and is skipped when f
// fails.
func Map[T, U any](f *Future[T], fn func(T) (U, error)) *Future[U] {
	out := newFuture[U]()
	go func() {
		v, err := f.Result()
		if err != nil {
			var zero U
			out.resolve(zero, err)
			return
		}
		out.resolve(fn(v))
	}()
	return out
}
