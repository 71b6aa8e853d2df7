// internal/utils/errors_test.go
package utils

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestStructuredError(t *testing.T) {
	err := NewError(ErrCodeNilItem, "cannot extract from nil item")

	if !strings.Contains(err.Error(), "NIL_ITEM") {
		t.Errorf("Error() = %q, want code included", err.Error())
	}
	if !errors.Is(err, NewError(ErrCodeNilItem, "different message")) {
		t.Error("errors with the same code should match")
	}
	if errors.Is(err, NewError(ErrCodeBadEnvelope, "")) {
		t.Error("errors with different codes should not match")
	}
}

func TestWrapError(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := WrapError(cause, ErrCodeDatabaseError, "insert failed")

	if !errors.Is(err, cause) {
		t.Error("wrapped error should unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Error() = %q, want cause included", err.Error())
	}
}

func TestWithContext(t *testing.T) {
	err := NewError(ErrCodeOutputFailed, "write failed").
		WithContext("format", "csv").
		WithContext("records", 12)

	if err.Context["format"] != "csv" || err.Context["records"] != 12 {
		t.Errorf("Context = %v", err.Context)
	}
}
