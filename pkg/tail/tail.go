// Package tail runs the exporter's event loop: wait on the journal, drain
// every newly appended record in order, decode it and hand it to the sink.
package tail

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/DeBrosOfficial/journal-exporter/pkg/decoder"
	"github.com/DeBrosOfficial/journal-exporter/pkg/errors"
	"github.com/DeBrosOfficial/journal-exporter/pkg/journal"
	"github.com/DeBrosOfficial/journal-exporter/pkg/sink"
)

// DefaultWaitInterval bounds one blocking wait so shutdown requests are
// noticed between waits.
const DefaultWaitInterval = time.Second

// MaxConsecutiveReadErrors is how many unreadable records in a row one drain
// pass skips before it yields to the next wait. The following wakeup, or
// wait slice if none arrives, drains again.
const MaxConsecutiveReadErrors = 16

// State is a tail loop state.
type State int32

const (
	StateInit State = iota
	StateSeeking
	StateWaiting
	StateDraining
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateSeeking:
		return "seeking"
	case StateWaiting:
		return "waiting"
	case StateDraining:
		return "draining"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Store is the part of journal.Adapter the loop drives.
type Store interface {
	SeekHead() error
	WaitDescriptor() journal.WaitDescriptor
	Advance() (journal.Classification, error)
	Close() error
}

// Opener acquires the Store for one run.
type Opener func() (Store, error)

// AdapterOpener opens a journal.Adapter on backend.
func AdapterOpener(backend journal.Backend, cfg journal.Config, logger *zap.Logger) Opener {
	return func() (Store, error) {
		a, err := journal.Open(backend, cfg, logger)
		if err != nil {
			return nil, err
		}
		return a, nil
	}
}

// Decoder turns a record into an entry, or reports false to skip it.
type Decoder interface {
	Decode(r journal.Record) (decoder.Entry, bool)
}

// Config tunes a Loop.
type Config struct {
	// WaitInterval bounds each blocking wait. Zero means DefaultWaitInterval.
	WaitInterval time.Duration
	// OnTransition, if set, is called on the loop goroutine for every state change.
	OnTransition func(from, to State)
}

// Stats counts what a run has done so far.
type Stats struct {
	Wakeups           uint64
	Emitted           uint64
	Skipped           uint64
	StructuralChanges uint64
	ReadErrors        uint64
}

type counters struct {
	wakeups    atomic.Uint64
	emitted    atomic.Uint64
	skipped    atomic.Uint64
	structural atomic.Uint64
	readErrors atomic.Uint64
}

// Loop is a single-run tail loop. Run it once.
type Loop struct {
	open    Opener
	decoder Decoder
	sink    sink.Sink
	logger  *zap.Logger
	cfg     Config

	state    atomic.Int32
	counters counters
}

// New creates a Loop. logger may be nil.
func New(open Opener, dec Decoder, out sink.Sink, cfg Config, logger *zap.Logger) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.WaitInterval <= 0 {
		cfg.WaitInterval = DefaultWaitInterval
	}
	return &Loop{
		open:    open,
		decoder: dec,
		sink:    out,
		logger:  logger,
		cfg:     cfg,
	}
}

// State returns the current state. Safe to call from any goroutine.
func (l *Loop) State() State {
	return State(l.state.Load())
}

// Stats returns a snapshot of the run's counters. Safe to call from any goroutine.
func (l *Loop) Stats() Stats {
	return Stats{
		Wakeups:           l.counters.wakeups.Load(),
		Emitted:           l.counters.emitted.Load(),
		Skipped:           l.counters.skipped.Load(),
		StructuralChanges: l.counters.structural.Load(),
		ReadErrors:        l.counters.readErrors.Load(),
	}
}

func (l *Loop) transition(to State) {
	from := State(l.state.Swap(int32(to)))
	if from == to {
		return
	}
	if l.cfg.OnTransition != nil {
		l.cfg.OnTransition(from, to)
	}
}

// Run opens the store, seeks to its head and forwards new entries until ctx
// is cancelled or a fatal error occurs. It returns nil on cancellation and
// the fatal error otherwise. The store is closed on every exit path.
func (l *Loop) Run(ctx context.Context) (err error) {
	l.transition(StateInit)

	store, err := l.open()
	if err != nil {
		l.transition(StateTerminated)
		l.logger.Error("Failed to open journal", zap.Error(err))
		return err
	}
	defer func() {
		// Closing the store also releases its wait descriptor.
		if cerr := store.Close(); cerr != nil {
			l.logger.Warn("Failed to close journal", zap.Error(cerr))
		}
		l.transition(StateTerminated)
		if err != nil {
			l.logger.Error("Tail loop stopped on fatal error",
				zap.String("code", errors.GetErrorCode(err)), zap.Error(err))
			if ce := l.logger.Check(zap.DebugLevel, "Fatal error origin"); ce != nil {
				ce.Write(zap.String("stack", errors.StackTrace(err)))
			}
		}
		s := l.Stats()
		l.logger.Info("Tail loop terminated",
			zap.Uint64("emitted", s.Emitted),
			zap.Uint64("skipped", s.Skipped),
			zap.Uint64("structural_changes", s.StructuralChanges),
			zap.Uint64("read_errors", s.ReadErrors),
			zap.Uint64("wakeups", s.Wakeups))
	}()

	l.transition(StateSeeking)
	if err := store.SeekHead(); err != nil {
		return err
	}
	wd := store.WaitDescriptor()
	if wd.Waitable == nil || !wd.Events.Has(journal.EventAppend) {
		return errors.NewStoreUnavailableError("wait", errors.ErrNoAppendEvents)
	}

	l.logger.Debug("Polling for journal events", zap.Duration("wait_interval", l.cfg.WaitInterval))
	pending := false
	for {
		if ctx.Err() != nil {
			return nil
		}

		l.transition(StateWaiting)
		ev, err := wd.Waitable.Wait(l.cfg.WaitInterval)
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
		if ev == journal.EventNop && !pending {
			continue
		}
		if ev != journal.EventNop {
			l.counters.wakeups.Add(1)
		}

		l.transition(StateDraining)
		if pending, err = l.drain(store); err != nil {
			return err
		}
	}
}

// drain advances until the store has nothing unread. Only fatal store and
// sink failures are returned. pending reports that the pass stopped after
// MaxConsecutiveReadErrors and records may still be unread.
func (l *Loop) drain(store Store) (pending bool, err error) {
	failures := 0
	for {
		c, err := store.Advance()
		if err != nil {
			if errors.IsFatal(err) {
				return false, err
			}
			l.counters.readErrors.Add(1)
			failures++
			if failures >= MaxConsecutiveReadErrors {
				l.logger.Warn("Too many unreadable journal records in a row, retrying after next wait",
					zap.Int("failures", failures), zap.Error(err))
				return true, nil
			}
			l.logger.Warn("Skipping unreadable journal record", zap.Error(err))
			continue
		}
		failures = 0

		switch c.Kind {
		case journal.NoMore:
			return false, nil

		case journal.StructuralChange:
			l.counters.structural.Add(1)
			l.logger.Debug("Found non-append journal event, continuing")

		case journal.Appended:
			entry, ok := l.decoder.Decode(c.Record)
			if !ok {
				l.counters.skipped.Add(1)
				l.logger.Debug("Skipping journal record without message", zap.String("cursor", c.Record.Cursor()))
				continue
			}
			if ce := l.logger.Check(zap.DebugLevel, "Received journal entry"); ce != nil {
				ce.Write(zap.String("cursor", c.Record.Cursor()), zap.String("unit", entry.Unit))
			}
			if err := l.sink.Emit(entry); err != nil {
				return false, err
			}
			l.counters.emitted.Add(1)
		}
	}
}
