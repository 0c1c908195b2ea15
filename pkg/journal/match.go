package journal

import "strings"

// Match requires a record field to equal Value exactly.
type Match struct {
	Field string
	Value string
}

// String renders the match in the store's FIELD=value form.
func (m Match) String() string {
	return m.Field + "=" + m.Value
}

// Matches is an ordered filter. Matches on the same field are alternatives;
// different fields must all be satisfied. An empty Matches admits every record.
type Matches []Match

// Admit reports whether a record with the given fields passes the filter.
func (ms Matches) Admit(fields map[string]string) bool {
	if len(ms) == 0 {
		return true
	}
	satisfied := make(map[string]bool, len(ms))
	for _, m := range ms {
		if _, seen := satisfied[m.Field]; !seen {
			satisfied[m.Field] = false
		}
		if v, ok := fields[m.Field]; ok && v == m.Value {
			satisfied[m.Field] = true
		}
	}
	for _, ok := range satisfied {
		if !ok {
			return false
		}
	}
	return true
}

// Value returns the first value matched on field.
func (ms Matches) Value(field string) (string, bool) {
	for _, m := range ms {
		if m.Field == field {
			return m.Value, true
		}
	}
	return "", false
}

func (ms Matches) String() string {
	parts := make([]string, len(ms))
	for i, m := range ms {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}
