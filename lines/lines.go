// Package lines resolves line references to stable line handles.
//
// A Ref names a line either by its current number or by handle. Numbers
// are resolved once, when the Ref enters a component, so that later
// renumbering cannot retarget it.
package lines

import (
	"fmt"

	"github.com/iw2rmb/lattice/buffer"
)

// Registry is a query layer over the line identity of one document.
type Registry struct {
	doc *buffer.Buffer
}

func NewRegistry(doc *buffer.Buffer) *Registry {
	return &Registry{doc: doc}
}

// HandleFor returns the handle of line n. It fails with
// buffer.ErrOutOfRange when n is outside [0, LineCount).
func (r *Registry) HandleFor(n int) (buffer.LineHandle, error) {
	return r.doc.LineHandle(n)
}

// NumberFor returns the current number of h. ok is false once h detached,
// or when h belongs to another document.
func (r *Registry) NumberFor(h buffer.LineHandle) (n int, ok bool) {
	return r.doc.LineNumber(h)
}

// IsAttached reports whether h still belongs to the document.
func (r *Registry) IsAttached(h buffer.LineHandle) bool {
	return r.doc.Owns(h)
}

// Resolve turns ref into a handle. Number refs outside the document fail
// with buffer.ErrOutOfRange. Handle refs are returned as they are, even
// when detached; callers decide whether a detached line is an error.
func (r *Registry) Resolve(ref Ref) (buffer.LineHandle, error) {
	switch ref.kind {
	case refHandle:
		return ref.handle, nil
	case refNumber:
		return r.HandleFor(ref.n)
	}
	return buffer.LineHandle{}, fmt.Errorf("%w: empty line reference", buffer.ErrInvalidArgument)
}

type refKind uint8

const (
	refNone refKind = iota
	refNumber
	refHandle
)

// Ref is a line number or a line handle.
type Ref struct {
	kind   refKind
	n      int
	handle buffer.LineHandle
}

// At refers to the line currently numbered n.
func At(n int) Ref { return Ref{kind: refNumber, n: n} }

// Of refers to the line h.
func Of(h buffer.LineHandle) Ref { return Ref{kind: refHandle, handle: h} }

// Number returns the line number of a number ref.
func (r Ref) Number() (int, bool) { return r.n, r.kind == refNumber }

// Handle returns the handle of a handle ref.
func (r Ref) Handle() (buffer.LineHandle, bool) { return r.handle, r.kind == refHandle }

func (r Ref) IsZero() bool { return r.kind == refNone }

func (r Ref) String() string {
	switch r.kind {
	case refNumber:
		return fmt.Sprintf("line %d", r.n)
	case refHandle:
		return r.handle.String()
	}
	return "line(<none>)"
}
