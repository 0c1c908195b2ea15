package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestIsStoreUnavailable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"StoreError unavailable", NewStoreUnavailableError("open", nil), true},
		{"StoreError seek", NewSeekFailedError("tail", nil), false},
		{"sentinel", ErrStoreUnavailable, true},
		{"wrapped", Wrap(NewStoreUnavailableError("wait", nil), "context"), true},
		{"fmt wrapped sentinel", fmt.Errorf("open: %w", ErrStoreUnavailable), true},
		{"other error", Wrap(errors.New("x"), "internal"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := IsStoreUnavailable(tt.err); result != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestIsSeekFailed(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"seek error", NewSeekFailedError("tail", nil), true},
		{"sentinel", ErrSeekFailed, true},
		{"wrapped", Wrap(NewSeekFailedError("tail", nil), "context"), true},
		{"open error", NewStoreUnavailableError("open", nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := IsSeekFailed(tt.err); result != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestIsRecordReadAndSink(t *testing.T) {
	readErr := NewRecordReadError("", errors.New("x"))
	if !IsRecordRead(readErr) || !IsRecordRead(Wrap(readErr, "ctx")) {
		t.Error("Expected record read error to be detected")
	}
	if IsRecordRead(nil) || IsRecordRead(errors.New("x")) {
		t.Error("Expected non record errors to be rejected")
	}

	sinkErr := NewSinkError("json", errors.New("x"))
	if !IsSink(sinkErr) {
		t.Error("Expected sink error to be detected")
	}
	if IsSink(readErr) {
		t.Error("record read error is not a sink error")
	}
}

func TestIsValidation(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"ValidationError", NewValidationError("field", "invalid", nil), true},
		{"UnsupportedSeverityName", NewUnsupportedSeverityName("level", "x"), true},
		{"sentinel", ErrInvalidInput, true},
		{"other error", NewSinkError("text", nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := IsValidation(tt.err); result != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"store unavailable", NewStoreUnavailableError("open", nil), true},
		{"seek failed", NewSeekFailedError("tail", nil), true},
		{"sink", NewSinkError("text", nil), true},
		{"validation", NewUnsupportedSeverityName("level", "x"), true},
		{"record read", NewRecordReadError("", nil), false},
		{"plain error", errors.New("unknown"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := IsFatal(tt.err); result != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode string
	}{
		{"nil error", nil, CodeOK},
		{"store error", NewStoreUnavailableError("open", nil), CodeStoreUnavailable},
		{"seek error", NewSeekFailedError("tail", nil), CodeSeekFailed},
		{"record error", NewRecordReadError("", nil), CodeRecordRead},
		{"sink error", NewSinkError("text", nil), CodeSinkWrite},
		{"validation error", NewValidationError("f", "m", nil), CodeValidation},
		{"sentinel closed", fmt.Errorf("next: %w", ErrClosed), CodeStoreUnavailable},
		{"sentinel seek", ErrSeekFailed, CodeSeekFailed},
		{"standard error", errors.New("x"), CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := GetErrorCode(tt.err); code != tt.expectedCode {
				t.Errorf("Expected code %q, got %q", tt.expectedCode, code)
			}
		})
	}
}

func TestStackTraceHelper(t *testing.T) {
	if StackTrace(errors.New("plain")) != "" {
		t.Error("Expected no stack for a plain error")
	}
	wrapped := fmt.Errorf("drain: %w", NewSeekFailedError("head", nil))
	if !strings.Contains(StackTrace(wrapped), "TestStackTraceHelper") {
		t.Errorf("Expected stack of the wrapped error, got:\n%s", StackTrace(wrapped))
	}
}
