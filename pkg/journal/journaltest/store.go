// Package journaltest provides an in-memory journal for tests.
//
// Records are kept in append order. Readers opened on a Store see the same
// match semantics as journald (same field ORed, different fields ANDed) and
// are woken with APPEND for any append, matching or not, and with INVALIDATE
// on Rotate.
package journaltest

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/DeBrosOfficial/journal-exporter/pkg/errors"
	"github.com/DeBrosOfficial/journal-exporter/pkg/journal"
)

// Store is an in-memory journal. The zero value is not usable; call New.
type Store struct {
	mu      sync.Mutex
	records []*record
	readers map[*reader]struct{}

	opened      int
	closed      int
	lastOptions journal.OpenOptions

	// OpenErr, SeekErr and WaitErr are returned by the matching operation
	// of readers opened after they are set.
	OpenErr error
	SeekErr error
	WaitErr error
}

type record struct {
	seq      uint64
	fields   map[string]string
	realtime time.Time
	timed    bool
	readErr  error
}

func (r *record) Field(name string) (string, bool) {
	v, ok := r.fields[name]
	return v, ok
}

func (r *record) Realtime() (time.Time, bool) {
	return r.realtime, r.timed
}

func (r *record) Cursor() string {
	return fmt.Sprintf("s=journaltest;i=%x", r.seq)
}

// New creates an empty Store.
func New() *Store {
	return &Store{readers: make(map[*reader]struct{})}
}

// Append adds a record. A __REALTIME_TIMESTAMP field, in microseconds since
// the epoch, becomes the record's realtime and is not kept as a data field.
func (s *Store) Append(fields map[string]string) {
	rec := &record{fields: make(map[string]string, len(fields))}
	for k, v := range fields {
		if k == journal.FieldRealtimeTimestamp {
			if usec, err := strconv.ParseInt(v, 10, 64); err == nil {
				rec.realtime = time.UnixMicro(usec)
				rec.timed = true
				continue
			}
		}
		rec.fields[k] = v
	}
	s.append(rec)
}

// AppendUnreadable adds a record that matches fields but fails to read with err.
func (s *Store) AppendUnreadable(fields map[string]string, err error) {
	rec := &record{fields: fields, readErr: err}
	s.append(rec)
}

func (s *Store) append(rec *record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.seq = uint64(len(s.records)) + 1
	s.records = append(s.records, rec)
	for r := range s.readers {
		r.signal(journal.EventAppend)
	}
}

// Rotate simulates a rotation or vacuum: open readers are woken with INVALIDATE.
func (s *Store) Rotate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for r := range s.readers {
		r.signal(journal.EventInvalidate)
	}
}

// Len returns the number of records in the store.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Opened returns how many readers were opened.
func (s *Store) Opened() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened
}

// Closed returns how many readers were closed.
func (s *Store) Closed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// LastOptions returns the options of the most recent Open.
func (s *Store) LastOptions() journal.OpenOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastOptions
}

// Open implements journal.Backend. The returned Cursor and Waitable share one reader.
func (s *Store) Open(opts journal.OpenOptions) (journal.Cursor, journal.Waitable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastOptions = opts
	if s.OpenErr != nil {
		return nil, nil, s.OpenErr
	}
	r := &reader{
		store:   s,
		matches: append(journal.Matches(nil), opts.Matches...),
		wake:    make(chan struct{}, 1),
		seekErr: s.SeekErr,
		waitErr: s.WaitErr,
	}
	s.readers[r] = struct{}{}
	s.opened++
	return &cursor{r}, &waiter{r}, nil
}

// reader state is guarded by store.mu.
type reader struct {
	store   *Store
	matches journal.Matches
	next    int
	current *record
	pending journal.Event
	wake    chan struct{}
	closed  bool

	seekErr error
	waitErr error
}

// signal records ev for the next Wait. INVALIDATE outranks APPEND.
func (r *reader) signal(ev journal.Event) {
	if ev > r.pending {
		r.pending = ev
	}
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

func (r *reader) take() journal.Event {
	ev := r.pending
	r.pending = journal.EventNop
	return ev
}

type cursor struct{ r *reader }

func (c *cursor) SeekTail() error {
	s := c.r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.r.closed {
		return errors.ErrClosed
	}
	if c.r.seekErr != nil {
		return c.r.seekErr
	}
	c.r.next = len(s.records)
	c.r.current = nil
	return nil
}

func (c *cursor) Next() (bool, error) {
	s := c.r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.r.closed {
		return false, errors.ErrClosed
	}
	for c.r.next < len(s.records) {
		rec := s.records[c.r.next]
		c.r.next++
		if c.r.matches.Admit(rec.fields) {
			c.r.current = rec
			return true, nil
		}
	}
	return false, nil
}

func (c *cursor) Record() (journal.Record, error) {
	s := c.r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.r.closed {
		return nil, errors.ErrClosed
	}
	if c.r.current == nil {
		return nil, fmt.Errorf("no current record")
	}
	if c.r.current.readErr != nil {
		return nil, c.r.current.readErr
	}
	return c.r.current, nil
}

func (c *cursor) Close() error {
	s := c.r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.r.closed {
		return nil
	}
	c.r.closed = true
	delete(s.readers, c.r)
	s.closed++
	return nil
}

type waiter struct{ r *reader }

func (w *waiter) Events() journal.EventSet {
	return journal.AllEvents
}

func (w *waiter) Wait(timeout time.Duration) (journal.Event, error) {
	s := w.r.store
	s.mu.Lock()
	if w.r.closed {
		s.mu.Unlock()
		return journal.EventNop, errors.ErrClosed
	}
	if w.r.waitErr != nil {
		s.mu.Unlock()
		return journal.EventNop, w.r.waitErr
	}
	if ev := w.r.take(); ev != journal.EventNop {
		s.mu.Unlock()
		return ev, nil
	}
	s.mu.Unlock()

	if timeout < 0 {
		<-w.r.wake
	} else {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		select {
		case <-w.r.wake:
		case <-timer.C:
			return journal.EventNop, nil
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return w.r.take(), nil
}
