package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a domain error with a structured error code.
type DomainError struct {
	Code    string // Error code (e.g., "NSKV-PROTO-4001")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Protocol errors (PROTO). Malformed commands keep the connection open.
var (
	// ErrInvalidPut indicates a PUT with fewer than two arguments.
	ErrInvalidPut = NewDomainError("NSKV-PROTO-4001", "Invalid PUT format")

	// ErrInvalidGet indicates a GET without a key.
	ErrInvalidGet = NewDomainError("NSKV-PROTO-4002", "Invalid GET format")

	// ErrUnknownCommand indicates an unrecognised command name.
	ErrUnknownCommand = NewDomainError("NSKV-PROTO-4040", "unknown command")
)

// HTTP API errors (HTTP).
var (
	// ErrInvalidBody indicates a request body that is not the expected JSON.
	ErrInvalidBody = NewDomainError("NSKV-HTTP-4000", "invalid request body")
)

// Authentication errors (AUTH).
var (
	// ErrAuthFailed indicates the supplied token did not match the shared secret.
	ErrAuthFailed = NewDomainError("NSKV-AUTH-4010", "authentication failed")

	// ErrManagerRequired indicates a qualified lookup without the Manager role.
	ErrManagerRequired = NewDomainError("NSKV-AUTH-4030", "Manager role required")
)

// Rate limiting errors (RATE).
var (
	// ErrRateLimited indicates the identity exceeded its command budget.
	ErrRateLimited = NewDomainError("NSKV-RATE-4290", "rate limit exceeded")
)
