package validate

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/DeBrosOfficial/journal-exporter/pkg/errors"
)

// ValidationError represents a single validation error with context.
type ValidationError struct {
	Path    string // e.g., "logging.level" or "journal.wait_interval"
	Message string // e.g., "invalid value \"loud\""
	Hint    string // e.g., "allowed values: debug, info, warn, error"
}

func (e ValidationError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s; %s", e.Path, e.Message, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Unwrap lets errors.IsValidation recognise a ValidationError.
func (e ValidationError) Unwrap() error {
	return errors.ErrInvalidInput
}

// ValidateDirReadable validates that a directory exists and can be listed.
func ValidateDirReadable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access directory: %v", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory")
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("directory not readable: %v", err)
	}
	defer f.Close()
	if _, err := f.Readdirnames(1); err != nil && err != io.EOF {
		return fmt.Errorf("directory not readable: %v", err)
	}
	return nil
}

// ValidateOneOf checks value against a fixed, case-insensitive set of names.
func ValidateOneOf(path, value string, allowed ...string) error {
	v := strings.ToLower(strings.TrimSpace(value))
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return ValidationError{
		Path:    path,
		Message: fmt.Sprintf("invalid value %q", value),
		Hint:    "allowed values: " + strings.Join(allowed, ", "),
	}
}
