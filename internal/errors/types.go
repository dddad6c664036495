package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType defines the category of the error
type ErrorType string

const (
	ErrorTypeValidation      ErrorType = "VALIDATION_ERROR"
	ErrorTypeConfigLoad      ErrorType = "CONFIG_LOAD_ERROR"
	ErrorTypeBackend         ErrorType = "BACKEND_ERROR"
	ErrorTypeImageGeneration ErrorType = "IMAGE_GENERATION_ERROR"
	ErrorTypeIngestion       ErrorType = "INGESTION_ERROR"
	ErrorTypeRateLimit       ErrorType = "RATE_LIMIT_ERROR"
	ErrorTypeNotFound        ErrorType = "NOT_FOUND_ERROR"
	ErrorTypeInternal        ErrorType = "INTERNAL_ERROR"
)

// AppError represents a structured error for the application
type AppError struct {
	Type          ErrorType `json:"type"`
	Message       string    `json:"message"`
	StatusCode    int       `json:"statusCode"`
	ErrorCode     string    `json:"errorCode"`
	IsOperational bool      `json:"isOperational"`
	Recovery      string    `json:"recoverySuggestion,omitempty"`
	Err           error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is / errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Code returns the application-specific error code
func (e *AppError) Code() string {
	return e.ErrorCode
}

// RecoverySuggestion returns the suggestion on how to recover from the error
func (e *AppError) RecoverySuggestion() string {
	return e.Recovery
}

// IsRetryable determines if the operation that caused the error should be retried
func (e *AppError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeRateLimit, ErrorTypeBackend:
		return true
	case ErrorTypeIngestion:
		return e.StatusCode >= 500
	default:
		return false
	}
}

// IsType reports whether err is (or wraps) an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// As is errors.As specialised to AppError.
func As(err error, target **AppError) bool {
	return errors.As(err, target)
}

// NewValidationError creates a new validation error (400)
func NewValidationError(message string, errorCode string, suggestion string) *AppError {
	return &AppError{
		Type:          ErrorTypeValidation,
		Message:       message,
		StatusCode:    http.StatusBadRequest,
		ErrorCode:     errorCode,
		IsOperational: true,
		Recovery:      suggestion,
	}
}

// NewConfigLoadError creates a startup configuration error. It is never
// operational: the process is expected to exit.
func NewConfigLoadError(message string, errorCode string, err error) *AppError {
	return &AppError{
		Type:          ErrorTypeConfigLoad,
		Message:       message,
		StatusCode:    http.StatusInternalServerError,
		ErrorCode:     errorCode,
		IsOperational: false,
		Recovery:      "Check the prompt files and configuration, then restart.",
		Err:           err,
	}
}

// NewBackendError creates a chat or retrieval backend error (502)
func NewBackendError(message string, errorCode string, err error) *AppError {
	return &AppError{
		Type:          ErrorTypeBackend,
		Message:       message,
		StatusCode:    http.StatusBadGateway,
		ErrorCode:     errorCode,
		IsOperational: true,
		Recovery:      "Try again in a moment or with different ingredients.",
		Err:           err,
	}
}

// NewImageGenerationError creates an image backend error (502)
func NewImageGenerationError(message string, errorCode string, err error) *AppError {
	return &AppError{
		Type:          ErrorTypeImageGeneration,
		Message:       message,
		StatusCode:    http.StatusBadGateway,
		ErrorCode:     errorCode,
		IsOperational: true,
		Err:           err,
	}
}

// NewIngestionError creates a document ingestion error (500)
func NewIngestionError(message string, errorCode string, err error) *AppError {
	return &AppError{
		Type:          ErrorTypeIngestion,
		Message:       message,
		StatusCode:    http.StatusInternalServerError,
		ErrorCode:     errorCode,
		IsOperational: true,
		Recovery:      "Verify the document is a readable PDF and try again.",
		Err:           err,
	}
}
