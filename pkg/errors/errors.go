package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// FileSystem errors
	ErrFileRead  ErrorCode = "FILE_READ"
	ErrFileWrite ErrorCode = "FILE_WRITE"
	ErrDirCreate ErrorCode = "DIR_CREATE"

	// Compilation errors
	ErrCompile        ErrorCode = "COMPILE"
	ErrLibraryLoad    ErrorCode = "LIBRARY_LOAD"
	ErrCommandExec    ErrorCode = "COMMAND_EXEC"
	ErrCommandTimeout ErrorCode = "COMMAND_TIMEOUT"

	// Watch errors
	ErrWatch ErrorCode = "WATCH"
)

// DustupError represents a structured error with code and details
type DustupError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *DustupError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *DustupError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *DustupError) Is(target error) bool {
	var targetErr *DustupError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new DustupError with the given code and message
func New(code ErrorCode, message string) *DustupError {
	return &DustupError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new DustupError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *DustupError {
	return &DustupError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a DustupError
func Wrap(err error, code ErrorCode, message string) *DustupError {
	if err == nil {
		return nil
	}
	return &DustupError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *DustupError {
	if err == nil {
		return nil
	}
	return &DustupError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *DustupError) WithDetail(key string, value interface{}) *DustupError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var dustupErr *DustupError
	if errors.As(err, &dustupErr) {
		return dustupErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a DustupError
func GetErrorCode(err error) ErrorCode {
	var dustupErr *DustupError
	if errors.As(err, &dustupErr) {
		return dustupErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a DustupError
func GetErrorDetails(err error) map[string]interface{} {
	var dustupErr *DustupError
	if errors.As(err, &dustupErr) {
		return dustupErr.Details
	}
	return nil
}

// Message returns the text a user should see for err: the message of a
// DustupError without its code prefix, or err.Error() for anything else.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var dustupErr *DustupError
	if errors.As(err, &dustupErr) {
		if dustupErr.Wrapped != nil {
			return fmt.Sprintf("%s: %v", dustupErr.Message, dustupErr.Wrapped)
		}
		return dustupErr.Message
	}
	return err.Error()
}
