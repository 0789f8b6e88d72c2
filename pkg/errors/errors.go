package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode int

// Failure classes of the core operations
const (
	ErrValidation ErrorCode = iota + 1000
	ErrDuplicateUsername
	ErrAuthentication
	ErrNotFound
	ErrNotAvailable
	ErrUnavailable
	ErrStorage
)

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error constructors
func Validation(message string) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: message,
	}
}

func DuplicateUsername(username string) *AppError {
	return &AppError{
		Code:    ErrDuplicateUsername,
		Message: fmt.Sprintf("username %q already in use", username),
	}
}

func Authentication() *AppError {
	return &AppError{
		Code:    ErrAuthentication,
		Message: "invalid credentials",
	}
}

func NotFound(resource string) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

func NotAvailable(message string) *AppError {
	return &AppError{
		Code:    ErrNotAvailable,
		Message: message,
	}
}

func Unavailable(capability string) *AppError {
	return &AppError{
		Code:    ErrUnavailable,
		Message: fmt.Sprintf("%s is not available", capability),
	}
}

func Storage(err error) *AppError {
	return &AppError{
		Code:    ErrStorage,
		Message: "storage failure",
		Err:     err,
	}
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
