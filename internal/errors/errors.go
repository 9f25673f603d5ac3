package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a cabinplan error code.
type ErrorCode string

const (
	ErrInvalidRequest   ErrorCode = "INVALID_REQUEST"    // 400
	ErrNotFound         ErrorCode = "NOT_FOUND"          // 404
	ErrTemplateNotFound ErrorCode = "TEMPLATE_NOT_FOUND" // 404
	ErrConflict         ErrorCode = "CONFLICT"           // 409
	ErrInternal         ErrorCode = "INTERNAL"           // 500
)

// PlanError is a structured error with code, HTTP-style status and details.
// It is returned by the persistence and operation layers; the project core
// itself never fails.
type PlanError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *PlanError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *PlanError {
	return &PlanError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a missing project.
func NewNotFound(id string) *PlanError {
	return &PlanError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("project not found: %s", id),
		Details: map[string]any{"id": id},
	}
}

// NewTemplateNotFound creates a 404 error for a missing template.
func NewTemplateNotFound(id string) *PlanError {
	return &PlanError{
		Code:    ErrTemplateNotFound,
		Status:  404,
		Message: fmt.Sprintf("template not found: %s", id),
		Details: map[string]any{"template_id": id},
	}
}

// NewConflict creates a 409 error for general conflicts.
func NewConflict(msg string) *PlanError {
	return &PlanError{
		Code:    ErrConflict,
		Status:  409,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
// The message stays generic; the cause is kept in Details for logging.
func NewInternal(err error) *PlanError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &PlanError{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
	}
}

// As returns err as a *PlanError, wrapping unknown errors as internal.
func As(err error) *PlanError {
	var pErr *PlanError
	if stderrors.As(err, &pErr) {
		return pErr
	}
	return NewInternal(err)
}

// Is checks if an error is a PlanError with the given code.
func Is(err error, code ErrorCode) bool {
	var pErr *PlanError
	if stderrors.As(err, &pErr) {
		return pErr.Code == code
	}
	return false
}
