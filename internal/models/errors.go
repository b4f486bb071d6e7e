package models

import (
	"errors"
	"fmt"
)

// AppError represents a custom application error
type AppError struct {
	Code    string
	Status  int
	Message string
	Err     error
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

// Error codes used across the client.
const (
	CodeAuth         = "AUTH_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeAPI          = "API_ERROR"
	CodeNetwork      = "NETWORK_ERROR"
	CodeValidation   = "VALIDATION_ERROR"
)

// Predefined error constructors
func NewAuthError(message string) *AppError {
	return &AppError{
		Code:    CodeAuth,
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Status:  401,
		Message: message,
	}
}

func NewAPIError(status int, message string) *AppError {
	return &AppError{
		Code:    CodeAPI,
		Status:  status,
		Message: message,
	}
}

func NewNetworkError(err error) *AppError {
	return &AppError{
		Code:    CodeNetwork,
		Message: "request failed",
		Err:     err,
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

// IsUnauthorized reports whether err carries an authentication rejection.
func IsUnauthorized(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == CodeUnauthorized
	}
	return false
}
