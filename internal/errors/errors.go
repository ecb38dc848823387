package errors

import (
	stderrors "errors"
	"fmt"
)

// CheckError is the structured error type for tscheck.
// It provides rich context for error handling, logging, and user presentation.
type CheckError struct {
	// Code is the unique error code (e.g., "ERR_301_TOOL_TIMEOUT").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Tool, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *CheckError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *CheckError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with CheckError.
func (e *CheckError) Is(target error) bool {
	if t, ok := target.(*CheckError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *CheckError) WithDetail(key, value string) *CheckError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
// Returns the error for method chaining.
func (e *CheckError) WithSuggestion(suggestion string) *CheckError {
	e.Suggestion = suggestion
	return e
}

// New creates a new CheckError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *CheckError {
	return &CheckError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates a CheckError from an existing error.
// The error's message becomes the CheckError message.
func Wrap(code string, err error) *CheckError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *CheckError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// IOError creates an I/O-related error.
func IOError(message string, cause error) *CheckError {
	return New(ErrCodeFileNotFound, message, cause)
}

// ToolError creates an error for a failed external tool invocation.
func ToolError(code, tool, message string, cause error) *CheckError {
	return New(code, message, cause).WithDetail("tool", tool)
}

// ValidationError creates a validation-related error.
func ValidationError(message string, cause error) *CheckError {
	return New(ErrCodeInvalidInput, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *CheckError {
	return New(ErrCodeInternal, message, cause)
}

// HasCode reports whether any CheckError in err's chain carries code.
func HasCode(err error, code string) bool {
	return stderrors.Is(err, &CheckError{Code: code})
}
