// Package errors provides custom error types and error handling utilities.
package errors

import (
	"fmt"
)

// Error codes.
const (
	// Configuration-scoped errors: abort one configuration, sweep continues.
	CodeInvalidProfile       = "INVALID_PROFILE"
	CodeInvalidConfiguration = "INVALID_CONFIGURATION"

	// Startup errors: fatal before the sweep begins.
	CodeCorpus = "CORPUS_ERROR"
	CodeReport = "REPORT_ERROR"

	CodeInternal = "INTERNAL_ERROR"
)

// AppError represents an application error with code and details.
type AppError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
	Err     error             `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with an AppError.
func Wrap(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithDetails adds details to the error.
func (e *AppError) WithDetails(details map[string]string) *AppError {
	e.Details = details
	return e
}

// WithDetail adds a single detail to the error.
func (e *AppError) WithDetail(key, value string) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// Convenience constructors.

// InvalidProfileError creates an invalid weight profile error.
func InvalidProfileError(message string) *AppError {
	return New(CodeInvalidProfile, message)
}

// InvalidConfigurationError creates an invalid configuration error.
func InvalidConfigurationError(message string) *AppError {
	return New(CodeInvalidConfiguration, message)
}

// CorpusError creates a corpus loading/parsing error.
func CorpusError(message string, err error) *AppError {
	return Wrap(CodeCorpus, message, err)
}

// ReportError creates a result sink error.
func ReportError(message string, err error) *AppError {
	return Wrap(CodeReport, message, err)
}

// InternalError creates an internal error.
func InternalError(message string, err error) *AppError {
	return Wrap(CodeInternal, message, err)
}

// IsInvalidProfile checks if error is an invalid profile error.
func IsInvalidProfile(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == CodeInvalidProfile
	}
	return false
}

// IsInvalidConfiguration checks if error is an invalid configuration error.
func IsInvalidConfiguration(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == CodeInvalidConfiguration
	}
	return false
}

// IsConfigurationScoped reports whether err should abort only the
// configuration that produced it rather than the whole sweep.
func IsConfigurationScoped(err error) bool {
	return IsInvalidProfile(err) || IsInvalidConfiguration(err)
}
