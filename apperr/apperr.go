package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error by how it is surfaced to the user.
type Kind string

const (
	// KindAuthentication covers bad credentials and role mismatches.
	KindAuthentication Kind = "authentication"
	// KindValidation is a local input check that failed before any write.
	KindValidation Kind = "validation"
	// KindUnavailable is a lifecycle gate that rejected an action.
	KindUnavailable Kind = "unavailable"
	KindForbidden   Kind = "forbidden"
	KindNotFound    Kind = "not_found"
	KindConflict    Kind = "conflict"
	// KindBackend wraps storage or network failures. Its message is generic.
	KindBackend Kind = "backend"
)

// Error is the application error carried from the policy and storage layers
// up to the HTTP handlers.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Authentication(message string) *Error { return New(KindAuthentication, message) }
func Validation(message string) *Error     { return New(KindValidation, message) }
func Unavailable(message string) *Error    { return New(KindUnavailable, message) }
func Forbidden(message string) *Error      { return New(KindForbidden, message) }
func NotFound(message string) *Error       { return New(KindNotFound, message) }
func Conflict(message string) *Error       { return New(KindConflict, message) }

// Backend wraps a storage failure behind a user-facing message.
func Backend(message string, err error) *Error {
	return Wrap(KindBackend, message, err)
}

// KindOf returns the kind of the first *Error in the chain, or KindBackend
// for anything else.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindBackend
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// As is errors.As specialised to *Error.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
