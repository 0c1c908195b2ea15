package validate

import (
	"fmt"
	"strings"
	"time"

	"github.com/DeBrosOfficial/journal-exporter/pkg/errors"
	"github.com/DeBrosOfficial/journal-exporter/pkg/journal"
)

// MaxWaitInterval caps one blocking wait; longer slices delay shutdown.
const MaxWaitInterval = time.Minute

// JournalConfig represents the journal selection for validation purposes.
type JournalConfig struct {
	Target           string
	ExportedLogLevel string
	Dir              string
	WaitInterval     time.Duration
}

// ValidateJournal checks the unit filter, severity threshold, journal
// directory and wait slice.
func ValidateJournal(jc JournalConfig) []error {
	var errs []error

	if _, err := journal.ParsePriority(jc.ExportedLogLevel); err != nil {
		errs = append(errs, errors.NewUnsupportedSeverityName("journal.exported_log_level", jc.ExportedLogLevel))
	}

	if err := ValidateUnit(jc.Target); err != nil {
		errs = append(errs, err)
	}

	if jc.Dir != "" {
		if err := ValidateDirReadable(jc.Dir); err != nil {
			errs = append(errs, ValidationError{
				Path:    "journal.dir",
				Message: err.Error(),
				Hint:    "point at a directory holding .journal files, e.g. /var/log/journal",
			})
		}
	}

	if jc.WaitInterval <= 0 || jc.WaitInterval > MaxWaitInterval {
		errs = append(errs, ValidationError{
			Path:    "journal.wait_interval",
			Message: fmt.Sprintf("must be > 0 and <= %v; got %v", MaxWaitInterval, jc.WaitInterval),
			Hint:    "recommended: 1s",
		})
	}

	return errs
}

// ValidateUnit rejects unit names that cannot be expressed as a
// _SYSTEMD_UNIT match. Empty means unfiltered and is accepted.
func ValidateUnit(unit string) error {
	if unit == "" {
		return nil
	}
	field := "journal.target"
	switch {
	case strings.TrimSpace(unit) == "":
		return errors.NewUnsupportedFilterValue(field, unit, "must not be blank")
	case strings.ContainsAny(unit, "\n\r\x00"):
		return errors.NewUnsupportedFilterValue(field, unit, "must not contain control characters")
	case strings.Contains(unit, "="):
		return errors.NewUnsupportedFilterValue(field, unit, "must not contain '='")
	}
	return nil
}
