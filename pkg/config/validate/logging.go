package validate

// LoggingConfig represents the logging configuration for validation purposes.
type LoggingConfig struct {
	Level  string
	Format string
}

// ValidateLogging performs validation of the logging configuration.
func ValidateLogging(log LoggingConfig) []error {
	var errs []error

	if err := ValidateOneOf("logging.level", log.Level, "debug", "info", "warn", "warning", "error", "critical"); err != nil {
		errs = append(errs, err)
	}
	if err := ValidateOneOf("logging.format", log.Format, "console", "json"); err != nil {
		errs = append(errs, err)
	}

	return errs
}

// ValidateOutput checks the forwarded entry format.
func ValidateOutput(format string) []error {
	if err := ValidateOneOf("output.format", format, "text", "json"); err != nil {
		return []error{err}
	}
	return nil
}
