package irc

import (
	"errors"
	"fmt"
)

var (
	// ErrBadCommand indicates an outbound command name that cannot be encoded.
	ErrBadCommand = errors.New("invalid command name")

	// ErrBadParam indicates a parameter that is empty, contains a space or
	// starts with ':' anywhere but the final position, or contains CR, LF or NUL.
	ErrBadParam = errors.New("invalid command parameter")

	// ErrLineTooLong indicates an outbound line over MaxLineLength bytes.
	ErrLineTooLong = errors.New("line too long")

	// ErrBadCtcp indicates a CTCP verb or text that cannot be framed.
	ErrBadCtcp = errors.New("invalid CTCP message")

	// ErrNotConnected indicates an operation that needs a live session.
	ErrNotConnected = errors.New("not connected")

	// ErrAlreadyConnected indicates Connect was called on a live session.
	ErrAlreadyConnected = errors.New("already connected")

	// ErrNotSpeakable indicates a speak request to a locus that cannot be addressed.
	ErrNotSpeakable = errors.New("cannot speak to that locus")
)

// BugError reports an internal invariant violation. The interactor turns it
// into a bug broadcast instead of tearing down the session.
type BugError struct {
	Message string
}

func (e *BugError) Error() string {
	return "bug: " + e.Message
}

func bugf(format string, args ...any) error {
	return &BugError{Message: fmt.Sprintf(format, args...)}
}
