package ecode

import (
	"errors"
	"fmt"
	"time"
)

// Error is the typed failure returned by service operations.
type Error struct {
	Kind      Kind
	Status    int
	Message   string
	Details   map[string]string
	Timestamp time.Time

	cause error
}

// New creates an Error of kind k. An empty message falls back to Text(k).
func New(k Kind, message string) *Error {
	if message == "" {
		message = Text(k)
	}
	return &Error{
		Kind:      k,
		Status:    k.Status(),
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Wrap attaches the underlying cause, kept for logs but never rendered.
func (e *Error) Wrap(cause error) *Error {
	e.cause = cause
	return e
}

// Validation fails with field level details.
func Validation(message string, details map[string]string) *Error {
	e := New(KindValidation, message)
	e.Details = details
	return e
}

// Authentication fails a credential or token check.
func Authentication(message string) *Error {
	return New(KindAuthentication, message)
}

// Authorization fails a role or ownership check.
func Authorization(message string) *Error {
	return New(KindAuthorization, message)
}

// NotFound reports a missing resource, e.g. NotFound("Task") -> "Task not found".
func NotFound(resource string) *Error {
	if resource == "" {
		return New(KindNotFound, "")
	}
	return New(KindNotFound, resource+" not found")
}

// Duplicate reports a uniqueness conflict, e.g. Duplicate("User") -> "User already exists".
func Duplicate(resource string) *Error {
	if resource == "" {
		return New(KindDuplicate, "")
	}
	return New(KindDuplicate, resource+" already exists")
}

// TooManyRequests reports a rate limit rejection.
func TooManyRequests(message string) *Error {
	return New(KindTooManyRequests, message)
}

// Unavailable reports a lost database connection.
func Unavailable(cause error) *Error {
	return New(KindUnavailable, "").Wrap(cause)
}

// Internal hides cause behind the generic message.
func Internal(cause error) *Error {
	return New(KindInternal, "").Wrap(cause)
}

// As returns the *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err carries kind k.
func IsKind(err error, k Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == k
}
