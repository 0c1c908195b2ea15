package errors

// Error codes for categorizing errors.
const (
	// CodeOK indicates success (not an error).
	CodeOK = "OK"

	// CodeInternal indicates internal errors.
	CodeInternal = "INTERNAL"

	// CodeValidation indicates configuration validation failed.
	CodeValidation = "VALIDATION_ERROR"

	// CodeStoreUnavailable indicates the journal could not be opened or waited on.
	CodeStoreUnavailable = "STORE_UNAVAILABLE"

	// CodeSeekFailed indicates the journal read pointer could not be positioned.
	CodeSeekFailed = "SEEK_FAILED"

	// CodeRecordRead indicates a single journal record could not be read.
	CodeRecordRead = "RECORD_READ"

	// CodeSinkWrite indicates the output destination rejected a write.
	CodeSinkWrite = "SINK_WRITE"
)

// Severity describes how an error affects a running tail loop.
type Severity string

const (
	// SeverityFatal errors stop the run; the process exits non-zero.
	SeverityFatal Severity = "FATAL"

	// SeverityRecord errors affect one record; the loop skips it and continues.
	SeverityRecord Severity = "RECORD"

	// SeverityNone is returned for codes that are not errors.
	SeverityNone Severity = "NONE"
)

// GetSeverity returns the severity for an error code.
func GetSeverity(code string) Severity {
	switch code {
	case CodeOK:
		return SeverityNone
	case CodeRecordRead:
		return SeverityRecord
	default:
		return SeverityFatal
	}
}

// IsFatalCode returns true if an error with the given code must end the run.
func IsFatalCode(code string) bool {
	return GetSeverity(code) == SeverityFatal
}
