// Package utils provides the logging and error-handling primitives shared
// across the extraction engine.
package utils

import (
	"fmt"
	"time"
)

// ErrorCode categorizes failures at the service and output boundary.
// Advisory strings recorded inside extracted records use the fixed
// processing-error vocabulary instead; these codes are for errors that
// propagate to callers.
type ErrorCode string

const (
	// Configuration related errors
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	ErrCodeMissingConfig ErrorCode = "MISSING_CONFIG"

	// Input related errors
	ErrCodeNilItem     ErrorCode = "NIL_ITEM"
	ErrCodeBadEnvelope ErrorCode = "BAD_ENVELOPE"

	// Capability errors
	ErrCodeFetchFailed        ErrorCode = "FETCH_FAILED"
	ErrCodeOCRFailed          ErrorCode = "OCR_FAILED"
	ErrCodeFrameExtractFailed ErrorCode = "FRAME_EXTRACT_FAILED"

	// Output related errors
	ErrCodeOutputFailed  ErrorCode = "OUTPUT_FAILED"
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"

	// Generic errors
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	ErrCodeInternal   ErrorCode = "INTERNAL_ERROR"
)

// StructuredError carries an error code and optional context for boundary
// failures.
type StructuredError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Cause     error                  `json:"-"`
	Timestamp time.Time              `json:"timestamp"`
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error unwrapping.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches a target error code.
func (e *StructuredError) Is(target error) bool {
	if se, ok := target.(*StructuredError); ok {
		return e.Code == se.Code
	}
	return false
}

// WithContext adds contextual information to the error.
func (e *StructuredError) WithContext(key string, value interface{}) *StructuredError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewError creates a structured error.
func NewError(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// WrapError wraps an existing error in a structured error.
func WrapError(err error, code ErrorCode, message string) *StructuredError {
	e := NewError(code, message)
	e.Cause = err
	return e
}
