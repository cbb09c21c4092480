package usecase

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error kinds. Handlers map them to status codes with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrConflict        = errors.New("conflict")
	ErrExternalFailure = errors.New("external service failure")
	ErrForbidden       = errors.New("forbidden")
)

// Error carries a client-facing message alongside its kind
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapError(kind error, cause error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Message returns the client-facing message of err, or "" for internal errors
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}

func parseID(name, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, newError(ErrInvalidInput, "invalid %s ID format %q", name, raw)
	}
	return id, nil
}

func parseOptionalID(name string, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := parseID(name, *raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
