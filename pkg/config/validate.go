package config

import (
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/DeBrosOfficial/journal-exporter/pkg/config/validate"
	"github.com/DeBrosOfficial/journal-exporter/pkg/journal"
)

// ValidationError represents a single validation error with context.
type ValidationError = validate.ValidationError

// RunConfig is the validated, normalized configuration a run is started
// with. It is passed by value and never changes.
type RunConfig struct {
	Unit         string
	MinPriority  journal.Priority
	LogLevel     string
	LogFormat    string
	Output       string
	JournalDir   string
	WaitInterval time.Duration
}

// Validate performs validation of the entire config.
// It aggregates all errors and returns them, allowing the caller to print all issues at once.
func (c *Config) Validate() []error {
	var errs []error

	errs = append(errs, validate.ValidateJournal(validate.JournalConfig{
		Target:           c.Journal.Target,
		ExportedLogLevel: c.Journal.ExportedLogLevel,
		Dir:              c.Journal.Dir,
		WaitInterval:     c.Journal.WaitInterval,
	})...)
	errs = append(errs, validate.ValidateLogging(validate.LoggingConfig{
		Level:  c.Logging.Level,
		Format: c.Logging.Format,
	})...)
	errs = append(errs, validate.ValidateOutput(c.Output.Format)...)

	return errs
}

// RunConfig validates c and returns its normalized form. All validation
// failures are combined into the returned error.
func (c *Config) RunConfig() (RunConfig, error) {
	if errs := c.Validate(); len(errs) > 0 {
		return RunConfig{}, multierr.Combine(errs...)
	}

	prio, err := journal.ParsePriority(c.Journal.ExportedLogLevel)
	if err != nil {
		return RunConfig{}, err
	}

	level := normalize(c.Logging.Level)
	switch level {
	case "warning":
		level = "warn"
	case "critical":
		// zap has no level above error that keeps the process running.
		level = "error"
	}

	return RunConfig{
		Unit:         strings.TrimSpace(c.Journal.Target),
		MinPriority:  prio,
		LogLevel:     level,
		LogFormat:    normalize(c.Logging.Format),
		Output:       normalize(c.Output.Format),
		JournalDir:   c.Journal.Dir,
		WaitInterval: c.Journal.WaitInterval,
	}, nil
}

// JournalConfig returns the store selection for journal.Open.
func (r RunConfig) JournalConfig() journal.Config {
	return journal.Config{MinPriority: r.MinPriority, Unit: r.Unit, Dir: r.JournalDir}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
