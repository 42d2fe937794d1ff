package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a lifecycle failure. Only KindTransient is retryable;
// the other kinds are terminal for the call that produced them.
type ErrorKind string

const (
	KindNotFound         ErrorKind = "not_found"
	KindInvalidState     ErrorKind = "invalid_state"
	KindInsufficientPool ErrorKind = "insufficient_pool"
	KindValidation       ErrorKind = "validation_error"
	KindTransient        ErrorKind = "transient_error"
)

// Error is the structured failure every lifecycle operation returns. Message
// is human-readable and travels through the same channel as success results.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// NotFoundError builds a terminal not-found failure
func NotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// InvalidStateError builds a terminal invalid-transition failure
func InvalidStateError(message string) *Error {
	return &Error{Kind: KindInvalidState, Message: message}
}

// InsufficientPoolError builds a terminal pool-shortfall failure
func InsufficientPoolError(message string) *Error {
	return &Error{Kind: KindInsufficientPool, Message: message}
}

// ValidationError builds a terminal bad-input failure
func ValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// TransientError wraps a storage or network failure the caller may retry
func TransientError(message string, err error) *Error {
	return &Error{Kind: KindTransient, Message: message, Err: err}
}

// KindOf extracts the kind from an error chain. Unknown errors are treated
// as transient so callers never retry a terminal failure by accident.
func KindOf(err error) ErrorKind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindTransient
}

// MessageOf extracts the human-readable message from an error chain
func MessageOf(err error) string {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Message
	}
	return "An unexpected error occurred."
}

// Retryable reports whether the caller may retry the failed operation
func Retryable(err error) bool {
	return KindOf(err) == KindTransient
}
