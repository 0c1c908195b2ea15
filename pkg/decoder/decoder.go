// Package decoder turns journal records into exported entries.
package decoder

import (
	"strconv"
	"time"

	"github.com/DeBrosOfficial/journal-exporter/pkg/journal"
)

// Entry is one decoded record, owned by the caller.
type Entry struct {
	Realtime   time.Time
	Message    string
	Unit       string
	Identifier string
	// Priority is -1 when the record has no PRIORITY field.
	Priority int
}

// Decoder extracts entries from records.
type Decoder struct {
	// Now supplies the timestamp for records without a realtime stamp.
	Now func() time.Time
}

// New returns a Decoder using the wall clock.
func New() *Decoder {
	return &Decoder{Now: time.Now}
}

// Decode copies the fields needed for output out of r. It reports false
// (skip) when the record has no message or an empty one; such records are
// metadata and produce no output. r is not retained.
func (d *Decoder) Decode(r journal.Record) (Entry, bool) {
	msg, ok := r.Field(journal.FieldMessage)
	if !ok || msg == "" {
		return Entry{}, false
	}

	e := Entry{Message: msg, Priority: -1}
	if ts, ok := r.Realtime(); ok {
		e.Realtime = ts
	} else {
		e.Realtime = d.now()
	}
	if unit, ok := r.Field(journal.FieldSystemdUnit); ok {
		e.Unit = unit
	}
	if ident, ok := r.Field(journal.FieldSyslogIdentifier); ok {
		e.Identifier = ident
	}
	if p, ok := r.Field(journal.FieldPriority); ok {
		if n, err := strconv.Atoi(p); err == nil && journal.Priority(n).Valid() {
			e.Priority = n
		}
	}
	return e, true
}

func (d *Decoder) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}
