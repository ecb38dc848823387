package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckError_Unwrap_PreservesOriginalError(t *testing.T) {
	// Given: an original error
	originalErr := errors.New("original error")

	// When: wrapping with CheckError
	checkErr := New(ErrCodeToolFailed, "tsc failed to start", originalErr)

	// Then: unwrapping returns original error
	require.NotNil(t, checkErr)
	assert.Equal(t, originalErr, errors.Unwrap(checkErr))
	assert.True(t, errors.Is(checkErr, originalErr))
}

func TestCheckError_Error_ReturnsFormattedMessage(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		message  string
		expected string
	}{
		{
			name:     "config error",
			code:     ErrCodeConfigNotFound,
			message:  "config file not found",
			expected: "[ERR_101_CONFIG_NOT_FOUND] config file not found",
		},
		{
			name:     "root error",
			code:     ErrCodeProjectRootNotFound,
			message:  "no tsconfig.json or package.json",
			expected: "[ERR_202_PROJECT_ROOT_NOT_FOUND] no tsconfig.json or package.json",
		},
		{
			name:     "tool error",
			code:     ErrCodeToolTimeout,
			message:  "tsc timed out after 30s",
			expected: "[ERR_301_TOOL_TIMEOUT] tsc timed out after 30s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, nil)
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestCheckError_Is_MatchesByCode(t *testing.T) {
	// Given: two errors with same code
	err1 := New(ErrCodeToolTimeout, "tsc timed out", nil)
	err2 := New(ErrCodeToolTimeout, "qlty timed out", nil)

	// Then: they match by code
	assert.True(t, errors.Is(err1, err2))
	assert.False(t, errors.Is(err1, New(ErrCodeToolNotFound, "missing", nil)))
}

func TestCheckError_WithDetailAndSuggestion(t *testing.T) {
	// Given: a base error
	err := New(ErrCodeToolNotFound, "tsc not found", nil)

	// When: adding context
	err = err.WithDetail("tool", "tsc").WithSuggestion("npm install --save-dev typescript")

	// Then: context is available
	assert.Equal(t, "tsc", err.Details["tool"])
	assert.Equal(t, "npm install --save-dev typescript", err.Suggestion)
}

func TestCheckError_CategoryFromCode(t *testing.T) {
	tests := []struct {
		code         string
		wantCategory Category
	}{
		{ErrCodeConfigNotFound, CategoryConfig},
		{ErrCodeConfigParse, CategoryConfig},
		{ErrCodeFileNotFound, CategoryIO},
		{ErrCodeProjectRootNotFound, CategoryIO},
		{ErrCodeToolTimeout, CategoryTool},
		{ErrCodeToolNotFound, CategoryTool},
		{ErrCodeConflictingFlags, CategoryValidation},
		{ErrCodeInternal, CategoryInternal},
		{"bad", CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := New(tt.code, "test message", nil)
			assert.Equal(t, tt.wantCategory, err.Category)
		})
	}
}

func TestCheckError_SeverityFromCode(t *testing.T) {
	tests := []struct {
		code         string
		wantSeverity Severity
	}{
		{ErrCodeProjectRootNotFound, SeverityFatal},
		{ErrCodeToolTimeout, SeverityWarning},
		{ErrCodeToolNotFound, SeverityWarning},
		{ErrCodeToolFailed, SeverityWarning},
		{ErrCodeConfigInvalid, SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := New(tt.code, "test message", nil)
			assert.Equal(t, tt.wantSeverity, err.Severity)
		})
	}
}

func TestWrap_CreatesCheckErrorFromError(t *testing.T) {
	// Given: a standard error
	originalErr := errors.New("something went wrong")

	// When: wrapping with a code
	checkErr := Wrap(ErrCodeInternal, originalErr)

	// Then: creates proper CheckError
	require.NotNil(t, checkErr)
	assert.Equal(t, ErrCodeInternal, checkErr.Code)
	assert.Equal(t, "something went wrong", checkErr.Message)
	assert.Equal(t, originalErr, checkErr.Cause)
	assert.Nil(t, Wrap(ErrCodeInternal, nil))
}

func TestConstructors_SetCategory(t *testing.T) {
	assert.Equal(t, CategoryConfig, ConfigError("invalid yaml", nil).Category)
	assert.Equal(t, CategoryIO, IOError("cannot read", nil).Category)
	assert.Equal(t, CategoryValidation, ValidationError("bad flag", nil).Category)
	assert.Equal(t, CategoryInternal, InternalError("boom", nil).Category)

	toolErr := ToolError(ErrCodeToolFailed, "qlty", "qlty error: permission denied", nil)
	assert.Equal(t, CategoryTool, toolErr.Category)
	assert.Equal(t, "qlty", toolErr.Details["tool"])
}

func TestHasCode_FollowsWrapping(t *testing.T) {
	// Given: a CheckError wrapped by fmt.Errorf
	err := fmt.Errorf("loading: %w", New(ErrCodeConfigParse, "bad yaml", nil))

	// Then: the code is visible through the chain
	assert.True(t, HasCode(err, ErrCodeConfigParse))
	assert.False(t, HasCode(err, ErrCodeConfigInvalid))
	assert.False(t, HasCode(errors.New("plain"), ErrCodeConfigParse))
}
