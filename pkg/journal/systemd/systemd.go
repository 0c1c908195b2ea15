//go:build linux && cgo

// Package systemd reads the systemd journal through libsystemd.
package systemd

import (
	"fmt"
	"time"

	"github.com/coreos/go-systemd/v22/sdjournal"

	"github.com/DeBrosOfficial/journal-exporter/pkg/errors"
	"github.com/DeBrosOfficial/journal-exporter/pkg/journal"
)

// Backend opens the system journal, or the journal files under
// OpenOptions.Dir when set.
type Backend struct{}

// New returns the libsystemd backend.
func New() Backend {
	return Backend{}
}

// Open implements journal.Backend. The Cursor and Waitable share one
// sd_journal handle; only the Cursor closes it.
func (Backend) Open(opts journal.OpenOptions) (journal.Cursor, journal.Waitable, error) {
	var (
		j   *sdjournal.Journal
		err error
	)
	if opts.Dir != "" {
		j, err = sdjournal.NewJournalFromDir(opts.Dir)
	} else {
		j, err = sdjournal.NewJournal()
	}
	if err != nil {
		return nil, nil, errors.NewStoreUnavailableError("open", err)
	}

	for _, m := range opts.Matches {
		if err := j.AddMatch(m.String()); err != nil {
			j.Close()
			return nil, nil, errors.NewStoreUnavailableError("open", fmt.Errorf("add match %s: %w", m, err))
		}
	}

	h := &handle{j: j}
	return &cursor{h}, &waiter{h}, nil
}

type handle struct {
	j      *sdjournal.Journal
	closed bool
}

type cursor struct{ h *handle }

// SeekTail moves past the last entry. sd_journal_next right after
// sd_journal_seek_tail can return the last existing entry, so step back
// onto it first; the following Next then returns the first new one.
func (c *cursor) SeekTail() error {
	if c.h.closed {
		return errors.ErrClosed
	}
	if err := c.h.j.SeekTail(); err != nil {
		return err
	}
	if _, err := c.h.j.Previous(); err != nil {
		return err
	}
	return nil
}

func (c *cursor) Next() (bool, error) {
	if c.h.closed {
		return false, errors.ErrClosed
	}
	n, err := c.h.j.Next()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *cursor) Record() (journal.Record, error) {
	if c.h.closed {
		return nil, errors.ErrClosed
	}
	e, err := c.h.j.GetEntry()
	if err != nil {
		return nil, err
	}
	return entry{e}, nil
}

func (c *cursor) Close() error {
	if c.h.closed {
		return nil
	}
	c.h.closed = true
	return c.h.j.Close()
}

type waiter struct{ h *handle }

func (w *waiter) Events() journal.EventSet {
	return journal.AllEvents
}

func (w *waiter) Wait(timeout time.Duration) (journal.Event, error) {
	if w.h.closed {
		return journal.EventNop, errors.ErrClosed
	}
	if timeout < 0 {
		timeout = sdjournal.IndefiniteWait
	}
	return eventFor(w.h.j.Wait(timeout))
}

// eventFor maps an sd_journal_wait result. Negative results are errnos.
func eventFor(r int) (journal.Event, error) {
	switch r {
	case sdjournal.SD_JOURNAL_NOP:
		return journal.EventNop, nil
	case sdjournal.SD_JOURNAL_APPEND:
		return journal.EventAppend, nil
	case sdjournal.SD_JOURNAL_INVALIDATE:
		return journal.EventInvalidate, nil
	default:
		return journal.EventNop, fmt.Errorf("sd_journal_wait returned %d", r)
	}
}

type entry struct{ e *sdjournal.JournalEntry }

func (r entry) Field(name string) (string, bool) {
	v, ok := r.e.Fields[name]
	return v, ok
}

func (r entry) Realtime() (time.Time, bool) {
	if r.e.RealtimeTimestamp == 0 {
		return time.Time{}, false
	}
	return time.UnixMicro(int64(r.e.RealtimeTimestamp)), true
}

func (r entry) Cursor() string {
	return r.e.Cursor
}
