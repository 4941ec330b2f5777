package errors

import (
	"errors"
	"fmt"
)

// ErrorType categorizes a DomainError for callers that need to decide how to
// surface or recover from it.
type ErrorType string

const (
	// ErrorTypeValidation indicates bad input, such as an option id that is
	// not present on the current node.
	ErrorTypeValidation ErrorType = "VALIDATION_ERROR"

	// ErrorTypeNotFound indicates a missing resource.
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeConflict indicates a conflict with existing state.
	ErrorTypeConflict ErrorType = "CONFLICT"

	// ErrorTypeInvalidState indicates a broken internal invariant, such as a
	// dangling current-node pointer. These are consistency bugs, not
	// user-recoverable conditions.
	ErrorTypeInvalidState ErrorType = "INVALID_STATE"

	// ErrorTypeUpstream indicates the completion service was unreachable,
	// returned a non-success status, or returned no choices.
	ErrorTypeUpstream ErrorType = "UPSTREAM_ERROR"

	// ErrorTypeStorage indicates a persistence read/write/delete failure.
	ErrorTypeStorage ErrorType = "STORAGE_ERROR"

	// ErrorTypeUnauthorized indicates missing or invalid credentials.
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
)

// DomainError is the error value used across the service. It carries a
// machine-readable type and code so the calling layer can render an
// appropriate message without string matching.
type DomainError struct {
	Type       ErrorType              `json:"type"`
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	Retryable  bool                   `json:"retryable"`
	StatusCode int                    `json:"status_code"`
}

// New creates a DomainError of the given type.
func New(errorType ErrorType, code, message string) *DomainError {
	return &DomainError{
		Type:       errorType,
		Code:       code,
		Message:    message,
		StatusCode: statusCodeFor(errorType),
	}
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Type, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Type, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches on type and code so sentinel errors compare with errors.Is even
// after WithCause/WithDetail produced a copy.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

// WithCause returns a copy carrying the underlying error.
func (e *DomainError) WithCause(cause error) *DomainError {
	c := *e
	c.Cause = cause
	return &c
}

// WithDetail returns a copy carrying an extra detail field.
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	c := *e
	c.Details = make(map[string]interface{}, len(e.Details)+1)
	for k, v := range e.Details {
		c.Details[k] = v
	}
	c.Details[key] = value
	return &c
}

// WithRetryable returns a copy with the retryable flag set.
func (e *DomainError) WithRetryable(retryable bool) *DomainError {
	c := *e
	c.Retryable = retryable
	return &c
}

// TypeOf returns the DomainError type of err, or ErrorTypeInvalidState when
// err is not a DomainError (unknown failures are treated as bugs).
func TypeOf(err error) ErrorType {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Type
	}
	return ErrorTypeInvalidState
}

// IsType reports whether err is a DomainError of the given type.
func IsType(err error, t ErrorType) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Type == t
}

func statusCodeFor(errorType ErrorType) int {
	switch errorType {
	case ErrorTypeValidation:
		return 400
	case ErrorTypeUnauthorized:
		return 401
	case ErrorTypeNotFound:
		return 404
	case ErrorTypeConflict:
		return 409
	case ErrorTypeUpstream:
		return 502
	case ErrorTypeStorage, ErrorTypeInvalidState:
		return 500
	default:
		return 500
	}
}
