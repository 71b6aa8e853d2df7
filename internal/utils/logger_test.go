// internal/utils/logger_test.go
package utils

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		expected LogLevel
	}{
		{"debug", DebugLevel},
		{"DEBUG", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"nonsense", InfoLevel},
		{"", InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.name); got != tt.expected {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.name, got, tt.expected)
		}
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput(WarnLevel, &buf)

	logger.Debug("too quiet")
	logger.Info("still too quiet")
	logger.Warn("heard")
	logger.Error("also heard")

	out := buf.String()
	if strings.Contains(out, "too quiet") {
		t.Errorf("low-level messages leaked: %s", out)
	}
	if !strings.Contains(out, "[WARN] heard") || !strings.Contains(out, "[ERROR] also heard") {
		t.Errorf("missing expected messages: %s", out)
	}
}

func TestLoggerSetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput(WarnLevel, &buf)

	logger.Info("quiet")
	if buf.Len() != 0 {
		t.Fatalf("info leaked at warn level: %s", buf.String())
	}

	logger.(*StdLogger).SetLevel(DebugLevel)
	logger.Info("loud")
	if !strings.Contains(buf.String(), "[INFO] loud") {
		t.Errorf("lowered level not applied: %s", buf.String())
	}
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput(InfoLevel, &buf)

	logger.WithField("media_id", "m1").WithFields(map[string]interface{}{
		"urls": 3,
	}).Info("item extracted")

	out := buf.String()
	// Fields render sorted by key, so output is stable.
	if !strings.Contains(out, "fields={media_id=m1, urls=3}") {
		t.Errorf("fields = %s", out)
	}
}

func TestLoggerWithFieldsDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput(InfoLevel, &buf)

	logger.WithField("scoped", true)
	logger.Info("plain")

	if strings.Contains(buf.String(), "scoped") {
		t.Errorf("parent logger picked up child fields: %s", buf.String())
	}
}

func TestLoggerFormatf(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput(DebugLevel, &buf)

	logger.Infof("processed %d of %d", 3, 10)
	if !strings.Contains(buf.String(), "processed 3 of 10") {
		t.Errorf("output = %s", buf.String())
	}
}
