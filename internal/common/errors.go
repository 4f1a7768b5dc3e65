package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Upload and extraction error values, mapped to HTTP statuses by the server.
var (
	ErrNoFile          = errors.New("no file uploaded")
	ErrEmptyFilename   = errors.New("no file selected")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrNoTextExtracted = errors.New("failed to extract text from document")
)

// NewAppError creates a new AppError
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapError annotates err with a message, preserving the chain.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
