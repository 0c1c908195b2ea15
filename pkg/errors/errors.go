package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Common sentinel errors for quick checks
var (
	// ErrStoreUnavailable is returned when the journal cannot be opened or waited on.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrSeekFailed is returned when the journal read pointer cannot be positioned.
	ErrSeekFailed = errors.New("seek failed")

	// ErrClosed is returned when an operation is attempted on a closed journal handle.
	ErrClosed = errors.New("journal closed")

	// ErrNoAppendEvents is returned when a wait descriptor cannot report appends.
	ErrNoAppendEvents = errors.New("wait descriptor does not report appends")

	// ErrInvalidInput is returned when a configuration value is invalid.
	ErrInvalidInput = errors.New("invalid input")
)

// Error is the base interface for all custom errors in the system.
// It extends the standard error interface with additional context.
type Error interface {
	error
	// Code returns the error code
	Code() string
	// Message returns the human-readable error message
	Message() string
	// Unwrap returns the underlying cause
	Unwrap() error
}

// BaseError provides a foundation for all typed errors.
type BaseError struct {
	code    string
	message string
	cause   error
	stack   []uintptr
}

// Error implements the error interface.
func (e *BaseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Code returns the error code.
func (e *BaseError) Code() string {
	return e.code
}

// Message returns the error message.
func (e *BaseError) Message() string {
	return e.message
}

// Unwrap returns the underlying cause.
func (e *BaseError) Unwrap() error {
	return e.cause
}

// captureStack captures the current stack trace.
func captureStack(skip int) []uintptr {
	const maxDepth = 32
	stack := make([]uintptr, maxDepth)
	n := runtime.Callers(skip+2, stack)
	return stack[:n]
}

// StackTrace returns a formatted stack trace string.
func (e *BaseError) StackTrace() string {
	if len(e.stack) == 0 {
		return ""
	}

	var buf strings.Builder
	frames := runtime.CallersFrames(e.stack)
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			fmt.Fprintf(&buf, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		}
		if !more {
			break
		}
	}
	return buf.String()
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	*BaseError
	Field string
	Value interface{}
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		BaseError: &BaseError{
			code:    CodeValidation,
			message: message,
			stack:   captureStack(1),
		},
		Field: field,
		Value: value,
	}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.message)
	}
	return fmt.Sprintf("validation error: %s", e.message)
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NewUnsupportedSeverityName reports a journal severity token outside the known set.
func NewUnsupportedSeverityName(field, name string) *ValidationError {
	err := NewValidationError(field, fmt.Sprintf("unsupported severity name %q", name), name)
	err.stack = captureStack(1)
	return err
}

// NewUnsupportedFilterValue reports a unit filter value that cannot be matched on.
func NewUnsupportedFilterValue(field, value, reason string) *ValidationError {
	err := NewValidationError(field, fmt.Sprintf("unsupported filter value %q: %s", value, reason), value)
	err.stack = captureStack(1)
	return err
}

// StoreError represents a fatal failure of the underlying journal: it could
// not be opened (STORE_UNAVAILABLE) or positioned (SEEK_FAILED).
type StoreError struct {
	*BaseError
	Operation string
}

// NewStoreUnavailableError creates a store error for open and wait failures.
func NewStoreUnavailableError(operation string, cause error) *StoreError {
	return &StoreError{
		BaseError: &BaseError{
			code:    CodeStoreUnavailable,
			message: fmt.Sprintf("journal %s failed", operation),
			cause:   cause,
			stack:   captureStack(1),
		},
		Operation: operation,
	}
}

// NewSeekFailedError creates a store error for seek failures.
func NewSeekFailedError(target string, cause error) *StoreError {
	return &StoreError{
		BaseError: &BaseError{
			code:    CodeSeekFailed,
			message: fmt.Sprintf("journal seek to %s failed", target),
			cause:   cause,
			stack:   captureStack(1),
		},
		Operation: "seek",
	}
}

// Is reports whether target is the sentinel matching this error's code.
func (e *StoreError) Is(target error) bool {
	switch e.code {
	case CodeStoreUnavailable:
		return target == ErrStoreUnavailable
	case CodeSeekFailed:
		return target == ErrSeekFailed
	}
	return false
}

// RecordReadError represents a failure to read one journal record.
// It never stops the tail loop.
type RecordReadError struct {
	*BaseError
	Cursor string
}

// NewRecordReadError creates a record read error. cursor may be empty when
// the position of the failed record is unknown.
func NewRecordReadError(cursor string, cause error) *RecordReadError {
	return &RecordReadError{
		BaseError: &BaseError{
			code:    CodeRecordRead,
			message: "failed to read journal record",
			cause:   cause,
			stack:   captureStack(1),
		},
		Cursor: cursor,
	}
}

// Error implements the error interface.
func (e *RecordReadError) Error() string {
	if e.Cursor != "" {
		return fmt.Sprintf("%s at %s: %v", e.message, e.Cursor, e.cause)
	}
	return e.BaseError.Error()
}

// SinkError represents a failed write to the output destination.
type SinkError struct {
	*BaseError
	Sink string
}

// NewSinkError creates a new sink error.
func NewSinkError(sink string, cause error) *SinkError {
	return &SinkError{
		BaseError: &BaseError{
			code:    CodeSinkWrite,
			message: fmt.Sprintf("%s sink write failed", sink),
			cause:   cause,
			stack:   captureStack(1),
		},
		Sink: sink,
	}
}

// InternalError represents a failure outside the journal, record and sink classes.
type InternalError struct {
	*BaseError
}

// Wrap wraps an error with additional context.
// If the error is already one of our custom types, it preserves the code
// and adds the cause chain. Otherwise, it creates an InternalError.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	// If it's already our error type, wrap it
	var e Error
	if errors.As(err, &e) {
		return &BaseError{
			code:    e.Code(),
			message: message,
			cause:   err,
			stack:   captureStack(1),
		}
	}

	// Otherwise create an internal error
	return &InternalError{
		BaseError: &BaseError{
			code:    CodeInternal,
			message: message,
			cause:   err,
			stack:   captureStack(1),
		},
	}
}
