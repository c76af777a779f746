package proxy

import (
	"errors"
	"fmt"

	"github.com/iw2rmb/lattice/buffer"
	"github.com/iw2rmb/lattice/editor"
)

// Sentinel errors for error classification.
var (
	// ErrRange indicates a position, line or index outside the current
	// document bounds.
	ErrRange = errors.New("range error")

	// ErrDetachedEditor indicates that the editor was destroyed before
	// the operation could run.
	ErrDetachedEditor = errors.New("detached editor")

	// ErrHistoryMismatch indicates a history restored onto content other
	// than the content it was exported from.
	ErrHistoryMismatch = errors.New("history mismatch")
)

// Kind is the presentable class of a failed operation.
type Kind uint8

const (
	KindInternal Kind = iota
	KindRange
	KindDetachedEditor
	KindHistoryMismatch
	KindInvalidArgument
	KindReadOnly
)

func (k Kind) String() string {
	switch k {
	case KindRange:
		return "range"
	case KindDetachedEditor:
		return "detached-editor"
	case KindHistoryMismatch:
		return "history-mismatch"
	case KindInvalidArgument:
		return "invalid-argument"
	case KindReadOnly:
		return "read-only"
	}
	return "internal"
}

// Error is the failure of one proxy operation.
type Error struct {
	// Op names the operation, e.g. "replaceRange".
	Op   string
	Kind Kind
	// Err is the underlying error.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether this error matches the target. Error matches the
// sentinel of its kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrRange:
		return e.Kind == KindRange
	case ErrDetachedEditor:
		return e.Kind == KindDetachedEditor
	case ErrHistoryMismatch:
		return e.Kind == KindHistoryMismatch
	}
	return false
}

// KindOf returns the kind of err. Errors that did not come from a proxy
// are KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return err
	}
	kind := KindInternal
	switch {
	case errors.Is(err, buffer.ErrOutOfRange):
		kind = KindRange
	case errors.Is(err, buffer.ErrHistoryMismatch):
		kind = KindHistoryMismatch
	case errors.Is(err, buffer.ErrInvalidArgument),
		errors.Is(err, editor.ErrUnknownOption),
		errors.Is(err, editor.ErrInvalidOption),
		errors.Is(err, editor.ErrUnknownCommand):
		kind = KindInvalidArgument
	case errors.Is(err, editor.ErrReadOnly):
		kind = KindReadOnly
	case errors.Is(err, editor.ErrDestroyed),
		errors.Is(err, editor.ErrExecutorStopped):
		kind = KindDetachedEditor
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

func detached(op string) error {
	return &Error{Op: op, Kind: KindDetachedEditor, Err: editor.ErrDestroyed}
}
