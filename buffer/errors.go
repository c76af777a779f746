package buffer

import "errors"

var (
	// ErrOutOfRange indicates that a line, position or index lies outside
	// the current document bounds, or that a line handle has detached.
	ErrOutOfRange = errors.New("out of range")

	// ErrInvalidArgument indicates a malformed argument, such as a
	// replacement list whose length does not match the selection count.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrHistoryMismatch indicates that an exported history is being
	// restored onto content other than the content it was captured from.
	ErrHistoryMismatch = errors.New("history does not match document content")
)
