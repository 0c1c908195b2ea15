package errors

import "errors"

// IsStoreUnavailable checks if an error indicates the journal could not be opened or waited on.
func IsStoreUnavailable(err error) bool {
	if err == nil {
		return false
	}

	var storeErr *StoreError
	if errors.As(err, &storeErr) && storeErr.Code() == CodeStoreUnavailable {
		return true
	}
	return errors.Is(err, ErrStoreUnavailable)
}

// IsSeekFailed checks if an error indicates the journal could not be positioned.
func IsSeekFailed(err error) bool {
	if err == nil {
		return false
	}

	var storeErr *StoreError
	if errors.As(err, &storeErr) && storeErr.Code() == CodeSeekFailed {
		return true
	}
	return errors.Is(err, ErrSeekFailed)
}

// IsRecordRead checks if an error is a per-record read failure.
func IsRecordRead(err error) bool {
	if err == nil {
		return false
	}

	var readErr *RecordReadError
	return errors.As(err, &readErr)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	if err == nil {
		return false
	}

	var validationErr *ValidationError
	return errors.As(err, &validationErr) || errors.Is(err, ErrInvalidInput)
}

// IsSink checks if an error is an output write failure.
func IsSink(err error) bool {
	if err == nil {
		return false
	}

	var sinkErr *SinkError
	return errors.As(err, &sinkErr)
}

// IsFatal checks if an error must end the run.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return IsFatalCode(GetErrorCode(err))
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) string {
	if err == nil {
		return CodeOK
	}

	var customErr Error
	if errors.As(err, &customErr) {
		return customErr.Code()
	}

	// Try to infer from sentinel errors
	switch {
	case errors.Is(err, ErrStoreUnavailable), errors.Is(err, ErrClosed):
		return CodeStoreUnavailable
	case errors.Is(err, ErrSeekFailed):
		return CodeSeekFailed
	case errors.Is(err, ErrInvalidInput):
		return CodeValidation
	default:
		return CodeInternal
	}
}

// StackTrace returns the stack captured where err was created, or "" if err
// carries none.
func StackTrace(err error) string {
	var st interface{ StackTrace() string }
	if errors.As(err, &st) {
		return st.StackTrace()
	}
	return ""
}
