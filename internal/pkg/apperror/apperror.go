package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies a failure so the transport can pick a response.
type Kind string

const (
	NotFound         Kind = "not_found"
	CapacityExceeded Kind = "capacity_exceeded"
	DuplicateOrder   Kind = "duplicate_order"
	InvalidOrder     Kind = "invalid_order"
	MissingSteps     Kind = "missing_steps"
	Validation       Kind = "validation"
	Internal         Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// KindOf returns the kind of the first *Error in the chain, Internal otherwise.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind != "" {
		return appErr.Kind
	}
	return Internal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// MessageOf hides messages of untyped errors so storage details never reach clients.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return "internal error"
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case NotFound:
		return http.StatusNotFound
	case CapacityExceeded, DuplicateOrder, InvalidOrder, MissingSteps, Validation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
