package application

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrUnauthorized is returned when no valid session backs the request.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrForbidden is returned when the principal lacks permission for an operation.
	ErrForbidden = errors.New("application: forbidden")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrAlreadyExists is returned when a unique resource is created twice.
	ErrAlreadyExists = errors.New("application: already exists")
	// ErrInvalidCredentials is returned when a login attempt fails.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrAccountDisabled is returned when a disabled account tries to log in.
	ErrAccountDisabled = errors.New("application: account disabled")
	// ErrSessionExpired is returned for sessions past their expiry.
	ErrSessionExpired = errors.New("application: session expired")
	// ErrSessionRevoked is returned for sessions revoked by logout.
	ErrSessionRevoked = errors.New("application: session revoked")
)

// ValidationError captures validation issues that callers can surface to
// users. Message is the sentence shown to the user; FieldErrors holds
// per-field detail.
type ValidationError struct {
	Message     string
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	if v.Message != "" {
		return v.Message
	}
	if len(v.FieldErrors) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(v.FieldErrors))
	for field := range v.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

// HasErrors reports whether a message or any field level issue was recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && (v.Message != "" || len(v.FieldErrors) > 0)
}

func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

func (v *ValidationError) merge(other *ValidationError) {
	if other == nil {
		return
	}
	if v.Message == "" {
		v.Message = other.Message
	}
	for field, msg := range other.FieldErrors {
		v.add(field, msg)
	}
}

// newValidationMessage builds a ValidationError carrying only a message.
func newValidationMessage(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// ReferenceError reports that a referenced resource does not exist for the
// caller's organisation.
type ReferenceError struct {
	Resource string
	Message  string
}

func (e *ReferenceError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrNotFound) match reference failures.
func (e *ReferenceError) Is(target error) bool {
	return target == ErrNotFound
}
