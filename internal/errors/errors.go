package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is an application-specific error type
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// wraps an error with a code and message
func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Error code constants
const (
	CodeInternal   = "INTERNAL_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeInvalidArg = "INVALID_ARGUMENT"
	CodeExternal   = "EXTERNAL_ERROR"
	CodeConflict   = "CONFLICT"         // Resource already exists (UNIQUE violation)
	CodeDependency = "DEPENDENCY_ERROR" // Foreign key constraint violation
)

// Transcription API error codes
const (
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeRateLimited       = "RATE_LIMITED"
	CodeTooLarge          = "FILE_TOO_LARGE"
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeUnavailable       = "NETWORK_UNAVAILABLE"
	CodeTimeout           = "TIMEOUT"
)

// Audio storage error codes
const (
	CodePermissionDenied  = "PERMISSION_DENIED"
	CodeStorageFull       = "STORAGE_FULL"
	CodeNoActiveRecording = "NO_ACTIVE_RECORDING"
)

// CodeOf returns the AppError code of err, or CodeInternal for foreign errors
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// IsCode reports whether err carries the given AppError code
func IsCode(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}
