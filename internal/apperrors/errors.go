// internal/apperrors/errors.go
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies every failure the service layer can surface.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

type Error struct {
	Kind    Kind
	Message string
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

func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap keeps the original cause reachable through errors.Unwrap.
func Wrap(kind Kind, message string, err error) error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf reports the kind of err, walking the wrap chain. Unclassified
// errors are internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Message returns the outermost classified message, or err.Error() for
// unclassified errors.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

func IsNotFound(err error) bool   { return KindOf(err) == KindNotFound }
func IsValidation(err error) bool { return KindOf(err) == KindValidation }
func IsConflict(err error) bool   { return KindOf(err) == KindConflict }
