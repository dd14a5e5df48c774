// Package apperr defines the error taxonomy shared by every core operation.
// Transport layers map a Kind to a status code; the core never does.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error.
type Kind string

const (
	KindNotFound           Kind = "not_found"
	KindDuplicateKey       Kind = "duplicate_key"
	KindDuplicateName      Kind = "duplicate_name"
	KindDuplicateEdge      Kind = "duplicate_edge"
	KindDuplicateOwnership Kind = "duplicate_ownership"
	KindPercentageExceeded Kind = "percentage_exceeded"
	KindAlreadyAssigned    Kind = "already_assigned"
	KindNotAssigned        Kind = "not_assigned"
	KindValidation         Kind = "validation_error"
	KindNoFieldsToUpdate   Kind = "no_fields_to_update"
	KindUnauthorized       Kind = "unauthorized"
	KindForbidden          Kind = "forbidden"
	KindInternal           Kind = "internal_error"
)

// Sentinels for errors.Is; any *Error with the same Kind matches.
var (
	ErrNotFound           = &Error{Kind: KindNotFound, Message: "not found"}
	ErrDuplicateKey       = &Error{Kind: KindDuplicateKey, Message: "key already exists"}
	ErrDuplicateName      = &Error{Kind: KindDuplicateName, Message: "name already exists"}
	ErrDuplicateEdge      = &Error{Kind: KindDuplicateEdge, Message: "relationship already exists"}
	ErrDuplicateOwnership = &Error{Kind: KindDuplicateOwnership, Message: "user already owns this club"}
	ErrPercentageExceeded = &Error{Kind: KindPercentageExceeded, Message: "total ownership would exceed 100%"}
	ErrAlreadyAssigned    = &Error{Kind: KindAlreadyAssigned, Message: "already assigned"}
	ErrNotAssigned        = &Error{Kind: KindNotAssigned, Message: "not assigned"}
	ErrValidation         = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrNoFieldsToUpdate   = &Error{Kind: KindNoFieldsToUpdate, Message: "no fields to update"}
	ErrUnauthorized       = &Error{Kind: KindUnauthorized, Message: "unauthorized"}
	ErrForbidden          = &Error{Kind: KindForbidden, Message: "forbidden"}
	ErrInternal           = &Error{Kind: KindInternal, Message: "internal error"}
)

// Error is a typed application error. Cause is kept for logs and never rendered.
type Error struct {
	Kind    Kind
	Message string
	Details []string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches on Kind so callers can compare against the package sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New builds an error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing entity, e.g. NotFound("club").
func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Message: entity + " not found"}
}

// Validation reports malformed input; details name the offending fields.
func Validation(message string, details ...string) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

// Internal wraps an unexpected store or infrastructure error.
// An error that is already typed passes through unchanged.
func Internal(err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return &Error{Kind: KindInternal, Message: "internal error", Cause: err}
}

// KindOf returns the Kind of err, or KindInternal for untyped errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// As extracts the *Error from err.
func As(err error) (*Error, bool) {
	var ae *Error
	ok := errors.As(err, &ae)
	return ae, ok
}
