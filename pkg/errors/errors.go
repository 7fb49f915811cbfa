package errors

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrValidation    = fmt.Errorf("validation error")
	ErrNotFound      = fmt.Errorf("not found")
	ErrTerminalState = fmt.Errorf("job is in a terminal state")
	ErrServer        = fmt.Errorf("server error")
	ErrUnauthorized  = fmt.Errorf("unauthorized")
	ErrETagMismatch  = fmt.Errorf("etag mismatch")
)

// Error is an error with a kind (one of the sentinels above) and a message that is safe to
// return to a caller. The cause, if any, is reachable via Unwrap but is never part of Error().
type Error struct {
	kind  error
	msg   string
	cause error
}

func (e *Error) Error() string {
	return e.msg
}

// Is reports whether target is this error's kind.
func (e *Error) Is(target error) bool {
	return target == e.kind
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Kind returns the sentinel this error was created with.
func (e *Error) Kind() error {
	return e.kind
}

// Validation is a malformed identifier or payload.
func Validation(format string, args ...interface{}) error {
	return &Error{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

// InvalidRecord is a validation error in the format executors have always been sent, ie.
//
//	Job record is invalid: ["Job progress must be between 0 and 100"]
func InvalidRecord(msgs ...string) error {
	if msgs == nil {
		msgs = []string{}
	}
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.Encode(msgs)
	return &Error{kind: ErrValidation, msg: fmt.Sprintf("Job record is invalid: %s", bytes.TrimRight(buf.Bytes(), "\n"))}
}

// NotFound covers both missing jobs and jobs owned by someone else.
func NotFound(format string, args ...interface{}) error {
	return &Error{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

func TerminalState(format string, args ...interface{}) error {
	return &Error{kind: ErrTerminalState, msg: fmt.Sprintf(format, args...)}
}

func Unauthorized(format string, args ...interface{}) error {
	return &Error{kind: ErrUnauthorized, msg: fmt.Sprintf(format, args...)}
}

// Server wraps an internal failure. The message is what the caller sees, cause is for logs.
func Server(cause error, format string, args ...interface{}) error {
	return &Error{kind: ErrServer, msg: fmt.Sprintf(format, args...), cause: cause}
}

// Is is errors.Is, so callers need not import both packages.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is errors.As, so callers need not import both packages.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// IsClientError is true for errors caused by the caller's input rather than by us.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrTerminalState) || errors.Is(err, ErrUnauthorized)
}
