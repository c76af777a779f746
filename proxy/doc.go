// Package proxy exposes an editor as asynchronous operations.
//
// A Proxy owns one editor.Core. Every operation is queued and returns a
// Future; one worker goroutine per proxy runs queued operations strictly
// in submission order, each as a single unit through the configured
// editor.Executor. A unit observes the effects of every unit accepted
// before it and none of the later ones.
//
// Listener registration is queued too, so a handler added with On sees
// exactly the events that occur after its registration ran. Events are
// delivered on a separate dispatcher goroutine, so handlers may submit
// operations and wait for them.
//
// Close destroys the editor. Queued operations fail with
// ErrDetachedEditor.
package proxy
