package host

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPlugin indicates a plugin that cannot be registered.
	ErrInvalidPlugin = errors.New("invalid plugin")

	// ErrUnknownFunction indicates a call to a function no plugin exports.
	ErrUnknownFunction = errors.New("unknown function")

	// ErrInvalidArgument indicates an argument or setting value that was
	// missing or rejected.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ArgumentError reports which argument of which function was rejected.
type ArgumentError struct {
	Function string
	Name     string
	Value    string
	Err      error
}

func (e *ArgumentError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: argument %q: %v", e.Function, e.Name, e.Err)
	}
	return fmt.Sprintf("%s: argument %q=%q: %v", e.Function, e.Name, e.Value, e.Err)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrInvalidArgument.
func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

var (
	errMissing   = errors.New("required")
	errNotNumber = errors.New("not a number")
	errNotFile   = errors.New("not a file")
	errNotFolder = errors.New("not a folder")
)
