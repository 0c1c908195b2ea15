package journal

import (
	"strconv"
	"strings"

	"github.com/DeBrosOfficial/journal-exporter/pkg/errors"
)

// Priority is a syslog severity as stored in the PRIORITY field.
// Lower values are more severe.
type Priority int

const (
	PriorityEmerg Priority = iota
	PriorityAlert
	PriorityCrit
	PriorityErr
	PriorityWarning
	PriorityNotice
	PriorityInfo
	PriorityDebug
)

// DefaultPriority is the threshold used when none is configured.
const DefaultPriority = PriorityInfo

var priorityNames = [...]string{"EMERG", "ALERT", "CRIT", "ERR", "WARNING", "NOTICE", "INFO", "DEBUG"}

var priorityAliases = map[string]Priority{
	"EMERGENCY": PriorityEmerg,
	"PANIC":     PriorityEmerg,
	"CRITICAL":  PriorityCrit,
	"ERROR":     PriorityErr,
	"WARN":      PriorityWarning,
}

// PriorityNames lists the canonical severity names, most severe first.
func PriorityNames() []string {
	return append([]string(nil), priorityNames[:]...)
}

// ParsePriority maps a case-insensitive severity name onto a Priority.
// An optional LOG_ prefix is accepted ("LOG_ERR").
func ParsePriority(name string) (Priority, error) {
	key := strings.ToUpper(strings.TrimSpace(name))
	key = strings.TrimPrefix(key, "LOG_")
	for i, n := range priorityNames {
		if n == key {
			return Priority(i), nil
		}
	}
	if p, ok := priorityAliases[key]; ok {
		return p, nil
	}
	return 0, errors.NewUnsupportedSeverityName("priority", name)
}

// Valid reports whether p is one of the eight syslog severities.
func (p Priority) Valid() bool {
	return p >= PriorityEmerg && p <= PriorityDebug
}

func (p Priority) String() string {
	if !p.Valid() {
		return "Priority(" + strconv.Itoa(int(p)) + ")"
	}
	return priorityNames[p]
}

// Matches returns the PRIORITY matches admitting p and everything more severe.
// Same-field matches are ORed by the store.
func (p Priority) Matches() []Match {
	if !p.Valid() {
		return nil
	}
	out := make([]Match, 0, int(p)+1)
	for level := PriorityEmerg; level <= p; level++ {
		out = append(out, Match{Field: FieldPriority, Value: strconv.Itoa(int(level))})
	}
	return out
}
