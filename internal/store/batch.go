package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/prompthub/prompthub-server/internal/domain"
)

// BatchWriter provides efficient bulk write operations using BadgerDB's WriteBatch
type BatchWriter struct {
	store     *Store
	batch     *badger.WriteBatch
	maxSize   int
	count     int
	autoFlush bool
}

// NewBatchWriter creates a new batch writer that will auto-flush when maxSize is reached
func (s *Store) NewBatchWriter(maxSize int) *BatchWriter {
	return &BatchWriter{
		store:     s,
		batch:     s.db.NewWriteBatch(),
		maxSize:   maxSize,
		autoFlush: true,
	}
}

// PutPrompt adds a prompt and its index entries to the batch.
func (b *BatchWriter) PutPrompt(ctx context.Context, p *domain.Prompt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.ID == "" {
		return ErrInvalidInput.WithMessage("prompt id is required")
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prompt: %w", err)
	}

	prompts := b.store.Prompts
	if err := b.batch.Set([]byte(prompts.prefix+p.ID), data); err != nil {
		return fmt.Errorf("batch set prompt: %w", err)
	}
	for _, idx := range prompts.indexes {
		for _, v := range idx.keyGen(p) {
			if err := b.batch.Set(prompts.indexKey(idx, v, p.ID), []byte(p.ID)); err != nil {
				return fmt.Errorf("batch set %s index: %w", idx.name, err)
			}
		}
	}

	b.count++

	if b.autoFlush && b.count >= b.maxSize {
		if err := b.Flush(); err != nil {
			return fmt.Errorf("auto flush: %w", err)
		}
	}

	return nil
}

// Flush commits all pending writes in the batch
func (b *BatchWriter) Flush() error {
	if b.count == 0 {
		return nil
	}

	if err := b.batch.Flush(); err != nil {
		return translate(fmt.Errorf("flush batch: %w", err))
	}

	if b.store.logger != nil {
		b.store.logger.LogAttrs(context.Background(), slog.LevelInfo, "batch flushed",
			slog.Int("count", b.count),
		)
	}

	b.count = 0
	b.batch = b.store.db.NewWriteBatch()

	return nil
}

// Cancel discards all pending writes in the batch
func (b *BatchWriter) Cancel() {
	b.batch.Cancel()
	b.count = 0
}

// Count returns the number of operations in the current batch
func (b *BatchWriter) Count() int {
	return b.count
}
