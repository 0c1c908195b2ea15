package journal

import (
	"time"
)

// IndefiniteWait blocks a Wait call until the store reports an event.
const IndefiniteWait time.Duration = -1

// Event is what a wait on the store reported.
type Event int

const (
	// EventNop means nothing changed: a spurious wake-up or an expired wait.
	EventNop Event = iota
	// EventAppend means records were appended.
	EventAppend
	// EventInvalidate means files were added, removed or rotated.
	EventInvalidate
)

func (e Event) String() string {
	switch e {
	case EventNop:
		return "NOP"
	case EventAppend:
		return "APPEND"
	case EventInvalidate:
		return "INVALIDATE"
	default:
		return "UNKNOWN"
	}
}

// EventSet is the set of events a Waitable can report.
type EventSet uint8

// NewEventSet builds a set from events.
func NewEventSet(events ...Event) EventSet {
	var s EventSet
	for _, e := range events {
		s |= 1 << uint(e)
	}
	return s
}

// AllEvents is the set reported by journald handles.
var AllEvents = NewEventSet(EventNop, EventAppend, EventInvalidate)

// Has reports whether e is in the set.
func (s EventSet) Has(e Event) bool {
	return s&(1<<uint(e)) != 0
}

// Record is a borrowed view of the current record, valid until the next
// Cursor.Next call.
type Record interface {
	// Field returns the value of a data field.
	Field(name string) (string, bool)
	// Realtime returns the wall clock time the record was written.
	Realtime() (time.Time, bool)
	// Cursor returns the store's textual position of the record.
	Cursor() string
}

// Cursor moves through records in the store's total order.
type Cursor interface {
	// SeekTail positions the cursor after the last existing record.
	SeekTail() error
	// Next advances to the next matching record, reporting false if none is available.
	Next() (bool, error)
	// Record returns the current record.
	Record() (Record, error)
	// Close releases the store handle. Later calls fail.
	Close() error
}

// Waitable blocks until the store has activity.
type Waitable interface {
	// Wait blocks for at most timeout, or forever for IndefiniteWait.
	Wait(timeout time.Duration) (Event, error)
	// Events returns the kinds of events Wait can report.
	Events() EventSet
}

// OpenOptions tells a Backend what to open.
type OpenOptions struct {
	// Matches filter the records the Cursor visits.
	Matches Matches
	// Dir opens the journal files in one directory instead of the system journal.
	Dir string
}

// Backend opens a store.
type Backend interface {
	Open(opts OpenOptions) (Cursor, Waitable, error)
}

// BackendFunc adapts a function to Backend.
type BackendFunc func(opts OpenOptions) (Cursor, Waitable, error)

// Open calls f.
func (f BackendFunc) Open(opts OpenOptions) (Cursor, Waitable, error) {
	return f(opts)
}
