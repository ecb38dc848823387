// Package errors provides structured error handling for tscheck.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (files, project root)
//   - 3XX: External tool errors (type checker, linter)
//   - 4XX: Validation errors
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file and directory errors.
	CategoryIO Category = "IO"
	// CategoryTool indicates failures invoking an external checker.
	CategoryTool Category = "TOOL"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
	// SeverityInfo indicates informational only.
	SeverityInfo Severity = "INFO"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"
	ErrCodeConfigParse    = "ERR_103_CONFIG_PARSE"

	// IO errors (200-299)
	ErrCodeFileNotFound        = "ERR_201_FILE_NOT_FOUND"
	ErrCodeProjectRootNotFound = "ERR_202_PROJECT_ROOT_NOT_FOUND"
	ErrCodeFileWrite           = "ERR_203_FILE_WRITE"

	// Tool errors (300-399)
	ErrCodeToolTimeout  = "ERR_301_TOOL_TIMEOUT"
	ErrCodeToolNotFound = "ERR_302_TOOL_NOT_FOUND"
	ErrCodeToolFailed   = "ERR_303_TOOL_FAILED"

	// Validation errors (400-499)
	ErrCodeInvalidInput     = "ERR_401_INVALID_INPUT"
	ErrCodeConflictingFlags = "ERR_402_CONFLICTING_FLAGS"
	ErrCodeInvalidCommand   = "ERR_403_INVALID_COMMAND"

	// Internal errors (500-599)
	ErrCodeInternal     = "ERR_501_INTERNAL"
	ErrCodeRenderFailed = "ERR_502_RENDER_FAILED"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Extract numeric portion (e.g., "101" from "ERR_101_CONFIG_NOT_FOUND")
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '3':
		return CategoryTool
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeProjectRootNotFound:
		return SeverityFatal
	case ErrCodeToolTimeout, ErrCodeToolNotFound, ErrCodeToolFailed:
		// Tool failures degrade to a reported entry; the run continues.
		return SeverityWarning
	default:
		return SeverityError
	}
}
