// Package store provides a generic in-memory reactive state container with
// optional snapshot persistence.
//
// A Store holds one state value, lets observers subscribe to changes, and
// writes the state through to a snapshot.Store on every mutation (or on a
// debounce interval). Construction is explicit: there are no package-level
// singletons, so tests get isolated instances with defined teardown.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/ozodbek-r/neoneats/internal/snapshot"
)

// persistTimeout bounds a single snapshot operation.
const persistTimeout = 5 * time.Second

// ErrClosed is returned by mutations on a disposed store.
var ErrClosed = errors.New("store: closed")

// Store is a mutable state container for values of type T.
//
// Mutations are all-or-nothing replacements. Subscribers are notified
// synchronously, in subscription order, after every applied mutation; once
// Update returns, no subscriber has seen a stale state. Snapshot writes are
// handed to a background flusher and never block the caller; a failed write
// is logged and counted, never surfaced.
type Store[T any] struct {
	name   string
	logger *slog.Logger

	mu     sync.Mutex
	state  T
	subs   []subscriber[T]
	nextID int
	closed bool

	// persistence: all durable operations flow through pending in order,
	// so a delete can never be overtaken by an earlier write. The channel
	// holds at most one op; a newer op supersedes a queued one (the
	// durable outcome is whatever the caller asked for last).
	snap     snapshot.Store
	key      string
	debounce time.Duration
	pending  chan persistOp
	done     sync.WaitGroup
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

// persistOp is one durable operation: a full-state write, or a delete when
// blob is nil. ack, when set, is closed once the op (or one superseding it)
// has been applied.
type persistOp struct {
	blob []byte
	del  bool
	ack  chan struct{}
}

// Option configures a Store.
type Option[T any] func(*Store[T])

// WithSnapshot binds the store to a snapshot backend under the given key.
// The state is restored from the snapshot at construction and written back
// after mutations.
func WithSnapshot[T any](snap snapshot.Store, key string) Option[T] {
	return func(s *Store[T]) {
		s.snap = snap
		s.key = key
	}
}

// WithDebounce switches persistence from write-through to debounced: writes
// triggered within d of each other coalesce into one. Useful for stores
// mutated on every keystroke.
func WithDebounce[T any](d time.Duration) Option[T] {
	return func(s *Store[T]) { s.debounce = d }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(s *Store[T]) { s.logger = logger }
}

// New creates a Store named name holding initial. If a snapshot is bound
// and a blob exists under its key, the restored value replaces initial; an
// absent or corrupt blob leaves initial in place and is never an error.
func New[T any](name string, initial T, opts ...Option[T]) *Store[T] {
	s := &Store[T]{
		name:  name,
		state: initial,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("store", s.name)

	if s.snap != nil {
		s.restore()
		s.pending = make(chan persistOp, 1)
		s.done.Add(1)
		go s.flusher()
	}

	return s
}

// restore loads the persisted state, treating corrupt data as no data.
func (s *Store[T]) restore() {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	blob, err := s.snap.Load(ctx, s.key)
	if errors.Is(err, snapshot.ErrNotFound) {
		return
	}
	if err != nil {
		s.logger.Warn("Snapshot load failed, starting fresh", "key", s.key, "error", err)
		return
	}

	var restored T
	if err := json.Unmarshal(blob, &restored); err != nil {
		s.logger.Warn("Snapshot is corrupt, starting fresh", "key", s.key, "error", err)
		restoreCorrupt.WithLabelValues(s.name).Inc()
		return
	}
	s.state = restored
}

// Get returns a copy of the current state.
func (s *Store[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Update applies fn to the current state and publishes the result. The
// replacement is all-or-nothing; subscribers observe the new state before
// Update returns. Returns ErrClosed after Close.
func (s *Store[T]) Update(fn func(T) T) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}

	s.state = fn(s.state)
	next := s.state
	subs := make([]subscriber[T], len(s.subs))
	copy(subs, s.subs)

	if s.pending != nil {
		s.enqueueWrite(next)
	}
	s.mu.Unlock()

	mutations.WithLabelValues(s.name).Inc()

	// Listeners run outside the lock so they may call Get or Update.
	for _, sub := range subs {
		sub.fn(next)
	}
	return nil
}

// Subscribe registers listener to be invoked after every applied mutation.
// The returned function removes the subscription; calling it more than once
// is harmless.
func (s *Store[T]) Subscribe(listener func(T)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscriber[T]{id: id, fn: listener})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// UpdateAndClearPersisted applies fn like Update but removes the snapshot
// entry instead of writing the new state. Used when a mutation's durable
// effect is deletion (e.g. logout). The delete flows through the same
// ordered persistence path as writes, so a queued or in-flight write cannot
// land after it; the call returns once the entry is gone.
func (s *Store[T]) UpdateAndClearPersisted(ctx context.Context, fn func(T) T) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}

	s.state = fn(s.state)
	next := s.state
	subs := make([]subscriber[T], len(s.subs))
	copy(subs, s.subs)

	var ack chan struct{}
	if s.pending != nil {
		ack = make(chan struct{})
		s.enqueue(persistOp{del: true, ack: ack})
	}
	s.mu.Unlock()

	mutations.WithLabelValues(s.name).Inc()

	for _, sub := range subs {
		sub.fn(next)
	}

	if ack == nil {
		return nil
	}
	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close disposes the store: no further notifications are delivered and any
// pending snapshot operation is applied before Close returns.
func (s *Store[T]) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.subs = nil
	if s.pending != nil {
		close(s.pending)
	}
	s.mu.Unlock()

	s.done.Wait()
}

// enqueueWrite serializes the state and queues a write op. Called with mu
// held.
func (s *Store[T]) enqueueWrite(state T) {
	blob, err := json.Marshal(state)
	if err != nil {
		// Programmer error in the state type; the in-memory state stays
		// authoritative for the session.
		s.logger.Error("State serialization failed", "key", s.key, "error", err)
		persistFailures.WithLabelValues(s.name).Inc()
		return
	}
	s.enqueue(persistOp{blob: blob})
}

// enqueue places op in the single-slot queue, superseding any op still
// waiting there. Called with mu held; the flusher is the only consumer.
func (s *Store[T]) enqueue(op persistOp) {
	for {
		select {
		case s.pending <- op:
			return
		default:
		}
		select {
		case old := <-s.pending:
			if old.ack != nil {
				// The superseding op's outcome subsumes the old one.
				close(old.ack)
			}
		default:
		}
	}
}

// flusher applies durable operations in the background, coalescing bursts
// of writes under the debounce policy. Exits once the store closes and the
// final pending op is applied.
func (s *Store[T]) flusher() {
	defer s.done.Done()

	for op := range s.pending {
		if s.debounce > 0 && !op.del {
			timer := time.NewTimer(s.debounce)
		coalesce:
			for {
				select {
				case next, ok := <-s.pending:
					if !ok {
						timer.Stop()
						break coalesce
					}
					if op.ack != nil {
						close(op.ack)
					}
					op = next
					if op.del {
						// Deletes apply promptly.
						timer.Stop()
						break coalesce
					}
				case <-timer.C:
					break coalesce
				}
			}
		}
		s.apply(op)
	}
}

// apply performs one durable operation against the snapshot backend.
func (s *Store[T]) apply(op persistOp) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	var err error
	if op.del {
		err = s.snap.Delete(ctx, s.key)
	} else {
		err = s.snap.Save(ctx, s.key, op.blob)
	}
	if err != nil {
		s.logger.Warn("Snapshot operation failed, state kept in memory only", "key", s.key, "error", err)
		persistFailures.WithLabelValues(s.name).Inc()
	}

	if op.ack != nil {
		close(op.ack)
	}
}
