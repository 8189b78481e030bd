package errors

import (
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid   = "CONFIG_INVALID"
	CodeDatabaseError   = "DATABASE_ERROR"
	CodeValidationError = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeInternalError   = "INTERNAL_ERROR"
	CodeExternalService = "EXTERNAL_SERVICE_ERROR"
	CodeInvalidInput    = "INVALID_INPUT"

	// Fatal errors from the profiling core (spec §7): these bubble out of
	// the top-level operation rather than being absorbed.
	CodeSourceUnreadable   = "SOURCE_UNREADABLE"
	CodeUnsupportedFormat  = "UNSUPPORTED_FORMAT"
	CodeQueryEngineFailure = "QUERY_ENGINE_FAILURE"
	CodePathUnavailable    = "PATH_UNAVAILABLE"
	CodeIndexCorrupt       = "INDEX_CORRUPT"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string) *AppError {
	return New(CodeDatabaseError, message)
}

func ValidationError(message string) *AppError {
	return New(CodeValidationError, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func Unauthorized(message string) *AppError {
	return New(CodeUnauthorized, message)
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func ExternalServiceError(service string, cause error) *AppError {
	return &AppError{
		Code:    CodeExternalService,
		Message: fmt.Sprintf("%s service error", service),
		Cause:   cause,
	}
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// SourceUnreadable reports a fatal error reading a profiling source.
func SourceUnreadable(path string, cause error) *AppError {
	return &AppError{Code: CodeSourceUnreadable, Message: fmt.Sprintf("source unreadable: %s", path), Cause: cause}
}

// UnsupportedFormat reports a fatal error for a source kind the engine cannot parse.
func UnsupportedFormat(kind string) *AppError {
	return New(CodeUnsupportedFormat, fmt.Sprintf("unsupported source format: %s", kind))
}

// QueryEngineFailure wraps a failure executing an aggregate against the query adapter.
func QueryEngineFailure(op string, cause error) *AppError {
	return &AppError{Code: CodeQueryEngineFailure, Message: fmt.Sprintf("query engine failure: %s", op), Cause: cause}
}

// PathUnavailable reports that the profile store's root directory cannot be used.
func PathUnavailable(path string, cause error) *AppError {
	return &AppError{Code: CodePathUnavailable, Message: fmt.Sprintf("store path unavailable: %s", path), Cause: cause}
}

// IndexCorrupt reports that the profile store index failed to parse and was reset.
func IndexCorrupt(path string, cause error) *AppError {
	return &AppError{Code: CodeIndexCorrupt, Message: fmt.Sprintf("store index corrupt: %s", path), Cause: cause}
}

