package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a Rolo error code.
type ErrorCode string

const (
	ErrInvalidRequest    ErrorCode = "INVALID_REQUEST"     // 400
	ErrNotFound          ErrorCode = "NOT_FOUND"           // 404
	ErrFileNotFound      ErrorCode = "FILE_NOT_FOUND"      // 404
	ErrNameAlreadyExists ErrorCode = "NAME_ALREADY_EXISTS" // 409
	ErrDecodeFailed      ErrorCode = "DECODE_FAILED"       // 422
	ErrCancelled         ErrorCode = "CANCELLED"           // 499
	ErrInternal          ErrorCode = "INTERNAL"            // 500
)

// RoloError represents a structured error with code, status, and details.
type RoloError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any

	cause error
}

// Error implements the error interface.
func (e *RoloError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *RoloError) Unwrap() error {
	return e.cause
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *RoloError {
	return &RoloError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when a contact cannot be found.
func NewNotFound(name string) *RoloError {
	return &RoloError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("contact not found: %s", name),
		Details: map[string]any{"name": name},
	}
}

// NewFileNotFound creates a 404 error for a missing import file.
func NewFileNotFound(path string) *RoloError {
	return &RoloError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewNameAlreadyExists creates a 409 error for name collisions.
func NewNameAlreadyExists(name string) *RoloError {
	return &RoloError{
		Code:    ErrNameAlreadyExists,
		Status:  409,
		Message: fmt.Sprintf("contact with name %q already exists", name),
		Details: map[string]any{"name": name},
	}
}

// NewDecodeFailed creates a 422 error for a stored detail row that cannot be
// turned back into a contact detail.
func NewDecodeFailed(rowID int64, err error) *RoloError {
	return &RoloError{
		Code:    ErrDecodeFailed,
		Status:  422,
		Message: fmt.Sprintf("contact detail %d: %v", rowID, err),
		Details: map[string]any{"detail_id": rowID},
		cause:   err,
	}
}

// NewCancelled creates an error for an operation stopped by its context.
func NewCancelled(op string) *RoloError {
	return &RoloError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", op),
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *RoloError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &RoloError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
		cause:   err,
	}
}

// Is checks if an error is (or wraps) a RoloError with the given code.
func Is(err error, code ErrorCode) bool {
	var rErr *RoloError
	if stderrors.As(err, &rErr) {
		return rErr.Code == code
	}
	return false
}
