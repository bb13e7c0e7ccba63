// Package apperr defines the error kinds shared by services and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindInvalidCredentials
	KindRoleMismatch
	KindForbidden
	KindNotFound
	KindConflict
	KindInvalidTransition
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindRoleMismatch:
		return "role_mismatch"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalidTransition:
		return "invalid_transition"
	default:
		return "internal"
	}
}

type FieldIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  []FieldIssue
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, code, message string) *Error {
	if code == "" {
		code = kind.String()
	}
	return &Error{Kind: kind, Code: code, Message: message}
}

func Validation(message string, fields ...FieldIssue) *Error {
	e := New(KindValidation, "validation_error", message)
	e.Fields = fields
	return e
}

func Unauthenticated(message string) *Error {
	return New(KindUnauthenticated, "unauthorized", message)
}

func InvalidCredentials() *Error {
	return New(KindInvalidCredentials, "invalid_credentials", "Invalid email or password")
}

func RoleMismatch() *Error {
	return New(KindRoleMismatch, "role_mismatch", "Role does not match this account")
}

func Forbidden(message string) *Error {
	return New(KindForbidden, "forbidden", message)
}

func NotFound(entity string) *Error {
	return New(KindNotFound, "not_found", entity+" not found")
}

func Conflict(code, message string) *Error {
	return New(KindConflict, code, message)
}

func InvalidTransition(from, to string) *Error {
	return New(KindInvalidTransition, "invalid_transition", fmt.Sprintf("cannot change status from %s to %s", from, to))
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Code: "internal_error", Message: "internal server error", Err: err}
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// KindOf reports the kind of err; errors outside the taxonomy are internal.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
