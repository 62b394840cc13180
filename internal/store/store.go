// Package store persists prompt documents in an embedded Badger database.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/prompthub/prompthub-server/internal/domain"
)

const (
	promptPrefix = "prompt:"

	// Transactions that lose a write conflict are retried this many times.
	maxConflictRetries = 20
	conflictBackoff    = 2 * time.Millisecond
	maxConflictBackoff = 50 * time.Millisecond
)

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	Prompts *Entity[domain.Prompt]
}

// New opens (or creates) the Badger database at path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	store := &Store{
		db:     db,
		logger: logger,
	}
	store.initPrompts()

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return store, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.db.IsClosed() {
		return nil
	}
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// Ping reports whether the database can serve reads.
func (s *Store) Ping(_ context.Context) error {
	return s.view(func(*badger.Txn) error { return nil })
}

// view runs fn in a read-only transaction.
func (s *Store) view(fn func(txn *badger.Txn) error) error {
	if s.db.IsClosed() {
		return ErrUnavailable
	}
	return translate(s.db.View(fn))
}

// update runs fn in a read-write transaction, retrying on write conflicts.
func (s *Store) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	for attempt := 0; ; attempt++ {
		if s.db.IsClosed() {
			return ErrUnavailable
		}

		err := s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) || attempt >= maxConflictRetries {
			return translate(err)
		}

		if s.logger != nil {
			s.logger.Debug("retrying conflicting transaction", "attempt", attempt+1)
		}

		backoff := min(conflictBackoff*time.Duration(attempt+1), maxConflictBackoff)
		backoff += rand.N(conflictBackoff)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}

func (s *Store) dropPrefix(prefix []byte) error {
	if s.db.IsClosed() {
		return ErrUnavailable
	}
	return translate(s.db.DropPrefix(prefix))
}

// translate maps Badger lifecycle errors onto ErrUnavailable.
func translate(err error) error {
	if errors.Is(err, badger.ErrDBClosed) {
		return ErrUnavailable.WithCause(err)
	}
	return err
}
