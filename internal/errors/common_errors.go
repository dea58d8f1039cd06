package errors

import (
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeInvalidWorkbook ErrorType = "INVALID_WORKBOOK"
	ErrTypeSchemaMismatch  ErrorType = "SCHEMA_MISMATCH"
	ErrTypeInvalidValue    ErrorType = "INVALID_VALUE"
	ErrTypeValidation      ErrorType = "VALIDATION"
	ErrTypeTooLarge        ErrorType = "TOO_LARGE"
	ErrTypeExport          ErrorType = "EXPORT"
	ErrTypeConfig          ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap allows errors.Is and errors.As to reach the cause
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}
