package pipeline

import (
	"errors"
	"net/http"
)

// Kind discriminates business failure categories. The pipeline maps each
// kind to an HTTP-style status code when normalizing a fault into the
// result envelope.
type Kind int

const (
	// KindUnknown covers unexpected failures; mapped to 500.
	KindUnknown Kind = iota

	// KindValidation covers field-level input validation failures; mapped to 422.
	KindValidation

	// KindConflict covers optimistic-locking version mismatches; mapped to 409.
	KindConflict

	// KindUnauthorized covers authentication failures; mapped to 401.
	KindUnauthorized

	// KindUnprocessable covers business-rule violations such as delete
	// restrictions; mapped to 422.
	KindUnprocessable

	// KindNotFound covers lookups of entities that do not exist; mapped to 404.
	KindNotFound
)

// StatusCode returns the HTTP status code for the kind.
func (k Kind) StatusCode() int {
	switch k {
	case KindValidation, KindUnprocessable:
		return http.StatusUnprocessableEntity
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// String returns the kind's name for logging.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindUnprocessable:
		return "unprocessable"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Fault is a tagged business failure raised by service logic. Message is
// safe to surface to callers in any environment; Err, when set, carries
// internal detail that only appears in development-mode messages.
type Fault struct {
	Kind    Kind
	Message string
	Fields  map[string][]string // Field errors, validation faults only
	Err     error
}

// Error implements the error interface.
func (f *Fault) Error() string {
	return f.Message
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (f *Fault) Unwrap() error {
	return f.Err
}

// AsFault extracts a *Fault from an error chain.
func AsFault(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// Validation creates a validation fault with the given field errors.
func Validation(message string, fields map[string][]string) *Fault {
	return &Fault{Kind: KindValidation, Message: message, Fields: fields}
}

// Conflict creates a conflict fault (stale optimistic-locking version).
func Conflict(message string) *Fault {
	return &Fault{Kind: KindConflict, Message: message}
}

// Unauthorized creates an authentication fault.
func Unauthorized(message string) *Fault {
	return &Fault{Kind: KindUnauthorized, Message: message}
}

// Unprocessable creates a business-rule violation fault.
func Unprocessable(message string) *Fault {
	return &Fault{Kind: KindUnprocessable, Message: message}
}

// NotFound creates a missing-entity fault.
func NotFound(message string) *Fault {
	return &Fault{Kind: KindNotFound, Message: message}
}
