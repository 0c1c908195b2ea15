package journal

import (
	stderrors "errors"
	"time"

	"go.uber.org/zap"

	"github.com/DeBrosOfficial/journal-exporter/pkg/errors"
)

// Kind classifies the outcome of Adapter.Advance.
type Kind int

const (
	// NoMore means no unread record exists right now.
	NoMore Kind = iota
	// Appended means a new record is current.
	Appended
	// StructuralChange means the store rotated, vacuumed or otherwise
	// invalidated its files since the last advance.
	StructuralChange
)

func (k Kind) String() string {
	switch k {
	case NoMore:
		return "no_more"
	case Appended:
		return "appended"
	case StructuralChange:
		return "structural_change"
	default:
		return "unknown"
	}
}

// Classification is the result of one advance.
type Classification struct {
	Kind Kind
	// Record is set for Appended when the record was readable.
	Record Record
}

// WaitDescriptor is the waitable half of an open store plus the events it reports.
type WaitDescriptor struct {
	Waitable Waitable
	Events   EventSet
}

// Config selects what the Adapter reads.
type Config struct {
	// MinPriority admits records at this severity or more severe.
	MinPriority Priority
	// Unit restricts records to one _SYSTEMD_UNIT. Empty admits every unit.
	Unit string
	// Dir is passed through to the Backend.
	Dir string
}

// BuildMatches returns the store matches for cfg: the severity threshold and,
// when set, the unit.
func BuildMatches(cfg Config) Matches {
	ms := Matches(cfg.MinPriority.Matches())
	if cfg.Unit != "" {
		ms = append(ms, Match{Field: FieldSystemdUnit, Value: cfg.Unit})
	}
	return ms
}

// Adapter is an open, filtered view of the store.
// It is not safe for concurrent use; one tail loop owns it.
type Adapter struct {
	cursor   Cursor
	waitable Waitable
	matches  Matches
	logger   *zap.Logger

	invalidated bool
	position    string
	closed      bool
}

// Open opens the store through backend and applies cfg's matches.
// Any backend failure is returned as a STORE_UNAVAILABLE error.
func Open(backend Backend, cfg Config, logger *zap.Logger) (*Adapter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.MinPriority.Valid() {
		return nil, errors.NewUnsupportedSeverityName("min_priority", cfg.MinPriority.String())
	}

	matches := BuildMatches(cfg)
	cursor, waitable, err := backend.Open(OpenOptions{Matches: matches, Dir: cfg.Dir})
	if err != nil {
		if errors.IsStoreUnavailable(err) {
			return nil, err
		}
		return nil, errors.NewStoreUnavailableError("open", err)
	}

	if cfg.Unit != "" {
		logger.Info("Filtering journal on systemd unit",
			zap.String("unit", cfg.Unit),
			zap.Stringer("min_priority", cfg.MinPriority))
	} else {
		logger.Warn("No systemd unit given, matching is unfiltered and will be high volume",
			zap.Stringer("min_priority", cfg.MinPriority))
	}
	logger.Debug("Journal matches applied", zap.Stringer("matches", matches))

	return &Adapter{
		cursor:   cursor,
		waitable: waitable,
		matches:  matches,
		logger:   logger,
	}, nil
}

// Matches returns the filter applied at open.
func (a *Adapter) Matches() Matches {
	return append(Matches(nil), a.matches...)
}

// SeekHead positions the cursor at the current end of the backlog so that
// only records appended from now on are visited.
func (a *Adapter) SeekHead() error {
	if a.closed {
		return errors.NewSeekFailedError("head", errors.ErrClosed)
	}
	if err := a.cursor.SeekTail(); err != nil {
		return errors.NewSeekFailedError("head", err)
	}
	a.invalidated = false
	a.logger.Debug("Seeked to head of journal")
	return nil
}

// WaitDescriptor returns the handle the tail loop blocks on. Waiting on it
// is the same as calling Wait, so an INVALIDATE is still reported by the
// next Advance. It is released with the Adapter.
func (a *Adapter) WaitDescriptor() WaitDescriptor {
	return WaitDescriptor{Waitable: adapterWaiter{a}, Events: a.waitable.Events()}
}

type adapterWaiter struct{ a *Adapter }

func (w adapterWaiter) Wait(timeout time.Duration) (Event, error) { return w.a.Wait(timeout) }
func (w adapterWaiter) Events() EventSet                         { return w.a.waitable.Events() }

// Wait blocks on the descriptor for at most timeout. A failed wait means the
// store is unusable and is returned as STORE_UNAVAILABLE.
func (a *Adapter) Wait(timeout time.Duration) (Event, error) {
	if a.closed {
		return EventNop, errors.NewStoreUnavailableError("wait", errors.ErrClosed)
	}
	ev, err := a.waitable.Wait(timeout)
	if err != nil {
		return EventNop, errors.NewStoreUnavailableError("wait", err)
	}
	if ev == EventInvalidate {
		a.invalidated = true
	}
	return ev, nil
}

// Advance moves to the next unread record and classifies the transition.
//
// The first advance after an INVALIDATE wake-up reports StructuralChange
// without moving; reading then resumes from the last visited record.
// A failed Next is reported as NoMore with a RECORD_READ error, a failed
// read of the current record as Appended with a nil Record and a RECORD_READ
// error. A closed handle is STORE_UNAVAILABLE.
func (a *Adapter) Advance() (Classification, error) {
	if a.closed {
		return Classification{Kind: NoMore}, errors.NewStoreUnavailableError("read", errors.ErrClosed)
	}
	if a.invalidated {
		a.invalidated = false
		return Classification{Kind: StructuralChange}, nil
	}

	ok, err := a.cursor.Next()
	if err != nil {
		if stderrors.Is(err, errors.ErrClosed) {
			return Classification{Kind: NoMore}, errors.NewStoreUnavailableError("read", err)
		}
		return Classification{Kind: NoMore}, errors.NewRecordReadError(a.position, err)
	}
	if !ok {
		return Classification{Kind: NoMore}, nil
	}

	rec, err := a.cursor.Record()
	if err != nil {
		return Classification{Kind: Appended}, errors.NewRecordReadError("", err)
	}
	a.position = rec.Cursor()
	return Classification{Kind: Appended, Record: rec}, nil
}

// Position returns the cursor of the last record made current, or "" before the first.
func (a *Adapter) Position() string {
	return a.position
}

// Close releases the store handle. It is safe to call more than once.
func (a *Adapter) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	if err := a.cursor.Close(); err != nil {
		return errors.Wrap(err, "close journal")
	}
	return nil
}
