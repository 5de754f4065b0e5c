package save

import (
	"errors"
	"fmt"
)

// Kind is the category of a failed save.
type Kind int

const (
	// KindValidation means the record was rejected as invalid.
	KindValidation Kind = iota
	// KindConflict means the record clashes with existing state.
	KindConflict
	// KindUnexpected covers transport failures, server errors and panics.
	KindUnexpected
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "Validation failed"
	case KindConflict:
		return "Conflict"
	case KindUnexpected:
		return "Unexpected error"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Error is a typed save failure.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int   // HTTP status, when the saver speaks HTTP
	Err        error // Underlying error, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func NewConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func NewUnexpectedError(message string, err error) *Error {
	return &Error{Kind: KindUnexpected, Message: message, Err: err}
}

// AsError returns err as a *Error. Errors of any other type are reported as
// unexpected failures. A nil err returns nil.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	return NewUnexpectedError(err.Error(), err)
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == KindValidation
}

// IsConflict reports whether err is a conflict failure.
func IsConflict(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == KindConflict
}
