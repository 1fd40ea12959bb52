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

	// Script errors
	ErrScriptParse   ErrorCode = "SCRIPT_PARSE"
	ErrScriptInvalid ErrorCode = "SCRIPT_INVALID"

	// Transaction errors
	ErrDependencyUnsatisfied ErrorCode = "DEPENDENCY_UNSATISFIED"
	ErrInstallRejected       ErrorCode = "INSTALL_REJECTED"
	ErrModNotInstalled       ErrorCode = "MOD_NOT_INSTALLED"
	ErrModAlreadyInstalled   ErrorCode = "MOD_ALREADY_INSTALLED"

	// Ledger errors
	ErrLedgerLoad ErrorCode = "LEDGER_LOAD"
	ErrLedgerSave ErrorCode = "LEDGER_SAVE"

	// Collaborator errors
	ErrFileCopy    ErrorCode = "FILE_COPY"
	ErrFileBackup  ErrorCode = "FILE_BACKUP"
	ErrFileRestore ErrorCode = "FILE_RESTORE"
	ErrFileAccess  ErrorCode = "FILE_ACCESS"
	ErrActivation  ErrorCode = "PLUGIN_ACTIVATION"
	ErrIniEdit     ErrorCode = "INI_EDIT"
	ErrGameValue   ErrorCode = "GAME_VALUE"
)

// ModtideError represents a structured error with code and details
type ModtideError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *ModtideError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ModtideError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *ModtideError) Is(target error) bool {
	var targetErr *ModtideError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new ModtideError with the given code and message
func New(code ErrorCode, message string) *ModtideError {
	return &ModtideError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new ModtideError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ModtideError {
	return &ModtideError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a ModtideError
func Wrap(err error, code ErrorCode, message string) *ModtideError {
	if err == nil {
		return nil
	}
	return &ModtideError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ModtideError {
	if err == nil {
		return nil
	}
	return &ModtideError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *ModtideError) WithDetail(key string, value interface{}) *ModtideError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var modErr *ModtideError
	if errors.As(err, &modErr) {
		return modErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a ModtideError
func GetErrorCode(err error) ErrorCode {
	var modErr *ModtideError
	if errors.As(err, &modErr) {
		return modErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a ModtideError
func GetErrorDetails(err error) map[string]interface{} {
	var modErr *ModtideError
	if errors.As(err, &modErr) {
		return modErr.Details
	}
	return nil
}
