package http

import (
	"github.com/pkg/errors"
)

// Kinds of failure a transaction can end with.
// Match them with errors.Is; the *Error carrying them also unwraps to the cause.
var (
	ErrInvalidURL        = errors.New("invalid url")
	ErrConnection        = errors.New("connection failed")
	ErrTransport         = errors.New("transport failed")
	ErrMalformedResponse = errors.New("malformed response")
)

type Error struct {
	Kind error  // One of the kinds above.
	Op   string // What was being done, e.g. "dialing".
	Err  error  // Underlying cause, may be nil.
}

func NewError(kind error, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	msg := e.Op + ": " + e.Kind.Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
