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

// Document and directory outcomes. Only ErrNoFreeName and ErrInvalidInput
// abort a pass; the rest are local to one document or file.
var (
	ErrExtractionFailed     = errors.New("extraction failed")
	ErrUnrecognizedDocument = errors.New("unrecognized document")
	ErrAlreadyProcessed     = errors.New("already processed")
	ErrNoFreeName           = errors.New("no free name found")
	ErrMissingFile          = errors.New("file missing")
	ErrTargetExists         = errors.New("target name already exists")
	ErrInvalidInput         = errors.New("invalid input")
	ErrValidation           = errors.New("validation failed")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsFatal reports whether err must stop the whole directory pass.
func IsFatal(err error) bool {
	return errors.Is(err, ErrNoFreeName) || errors.Is(err, ErrInvalidInput)
}
