// Package editor provides the editor instance wrapped by proxies: a
// headless Core holding a buffer, options, focus, key maps and a typed
// event stream, and a Bubble Tea Model rendering a Core with its gutter
// markers and line widgets.
//
// A Core is single-threaded. Executors decide where its work runs:
// DirectExecutor on the caller's goroutine, ProgramExecutor inside a
// running Bubble Tea program.
package editor
