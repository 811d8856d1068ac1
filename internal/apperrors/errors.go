// Package apperrors provides structured application errors with Kubernetes API error mapping.
package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for classification via errors.Is().
var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrForbidden     = errors.New("forbidden")
	ErrStateNotFound = errors.New("container state not found")
	ErrInternal      = errors.New("internal error")
)

// Error provides structured error with context.
type Error struct {
	Sentinel error  // Wrapped sentinel for errors.Is() classification
	Message  string // Human-readable message
	Field    string // For validation errors (e.g., "name", "image")
	Resource string // For not found/conflict (e.g., "job", "pod")
	Op       string // Operation that failed (e.g., "jobs.create")
	Cause    error  // Underlying error
}

// Error returns the human-readable error message.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the sentinel error for errors.Is() classification.
func (e *Error) Unwrap() error {
	return e.Sentinel
}

// Validation creates a validation error for a specific field.
func Validation(field, message string) error {
	return &Error{
		Sentinel: ErrValidation,
		Message:  message,
		Field:    field,
	}
}

// NotFound creates a not found error for a resource.
func NotFound(resource, name string) error {
	return &Error{
		Sentinel: ErrNotFound,
		Message:  fmt.Sprintf("%s %s not found", resource, name),
		Resource: resource,
	}
}

// Conflict creates a conflict error for a resource.
func Conflict(resource, name, reason string) error {
	return &Error{
		Sentinel: ErrConflict,
		Message:  reason,
		Resource: resource,
	}
}

// Forbidden creates an access-denial error for an operation on a resource.
func Forbidden(resource, op string, cause error) error {
	return &Error{
		Sentinel: ErrForbidden,
		Message:  fmt.Sprintf("%s: access denied: %v", op, cause),
		Resource: resource,
		Op:       op,
		Cause:    cause,
	}
}

// StateNotFound creates an error for a container whose lifecycle state is
// missing from the pod status it was expected in.
func StateNotFound(container string) error {
	return &Error{
		Sentinel: ErrStateNotFound,
		Message:  fmt.Sprintf("no lifecycle state for container %s", container),
		Resource: "container",
	}
}

// Internal creates an internal error wrapping an underlying cause.
func Internal(op string, cause error) error {
	return &Error{
		Sentinel: ErrInternal,
		Message:  fmt.Sprintf("%s: %v", op, cause),
		Op:       op,
		Cause:    cause,
	}
}
