package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// Entity provides generic CRUD operations for any document type.
type Entity[T any] struct {
	store   *Store
	prefix  string
	indexes []Index[T]
}

// Index defines a non-unique secondary index on an entity. Many entities may
// share a value.
type Index[T any] struct {
	name   string
	keyGen func(*T) []string
}

// NewEntity creates a new Entity instance for type T.
func NewEntity[T any](s *Store, prefix string) *Entity[T] {
	return &Entity[T]{
		store:   s,
		prefix:  prefix,
		indexes: make([]Index[T], 0),
	}
}

// WithIndex adds a secondary index to the entity.
func (e *Entity[T]) WithIndex(name string, keyGen func(*T) []string) *Entity[T] {
	e.indexes = append(e.indexes, Index[T]{
		name:   name,
		keyGen: keyGen,
	})
	return e
}

func (e *Entity[T]) indexPrefix(name, value string) string {
	return e.prefix + "idx:" + name + ":" + value + "\x00"
}

// indexKey carries the entity ID so values can repeat.
func (e *Entity[T]) indexKey(idx Index[T], value, id string) []byte {
	return []byte(e.indexPrefix(idx.name, value) + id)
}

func (e *Entity[T]) findIndex(name string) (Index[T], bool) {
	for _, idx := range e.indexes {
		if idx.name == name {
			return idx, true
		}
	}
	return Index[T]{}, false
}

func (e *Entity[T]) read(txn *badger.Txn, id string) (*T, error) {
	item, err := txn.Get([]byte(e.prefix + id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key: %w", err)
	}

	var entity T
	err = item.Value(func(val []byte) error {
		if err := json.Unmarshal(val, &entity); err != nil {
			return fmt.Errorf("failed to unmarshal entity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// write stores entity under id, replacing old's index keys when old is non-nil.
func (e *Entity[T]) write(txn *badger.Txn, id string, old, entity *T) error {
	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	if old != nil {
		for _, idx := range e.indexes {
			for _, v := range idx.keyGen(old) {
				if err := txn.Delete(e.indexKey(idx, v, id)); err != nil {
					return fmt.Errorf("failed to delete old index key: %w", err)
				}
			}
		}
	}

	if err := txn.Set([]byte(e.prefix+id), data); err != nil {
		return fmt.Errorf("failed to set key: %w", err)
	}

	for _, idx := range e.indexes {
		for _, v := range idx.keyGen(entity) {
			if err := txn.Set(e.indexKey(idx, v, id), []byte(id)); err != nil {
				return fmt.Errorf("failed to set index key: %w", err)
			}
		}
	}
	return nil
}

// Create creates a new entity with the given ID.
// Returns ErrAlreadyExists if an entity with this ID already exists.
func (e *Entity[T]) Create(ctx context.Context, id string, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return e.store.update(ctx, func(txn *badger.Txn) error {
		_, err := e.read(txn, id)
		if err == nil {
			return ErrAlreadyExists
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}
		return e.write(txn, id, nil, entity)
	})
}

// Get retrieves an entity by ID.
// Returns ErrNotFound if the entity does not exist.
func (e *Entity[T]) Get(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entity *T
	err := e.store.view(func(txn *badger.Txn) error {
		var err error
		entity, err = e.read(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entity, nil
}

// ListByIndex returns every entity whose index value equals value, in ID order.
func (e *Entity[T]) ListByIndex(ctx context.Context, indexName, value string) ([]*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx, ok := e.findIndex(indexName)
	if !ok {
		return nil, fmt.Errorf("no index %q: %w", indexName, ErrInvalidInput)
	}
	results := make([]*T, 0)
	err := e.store.view(func(txn *badger.Txn) error {
		prefix := []byte(e.indexPrefix(idx.name, value))
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			id := strings.TrimPrefix(string(it.Item().Key()), string(prefix))
			entity, err := e.read(txn, id)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			results = append(results, entity)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Update replaces an existing entity.
// Returns ErrNotFound if the entity does not exist.
func (e *Entity[T]) Update(ctx context.Context, id string, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return e.store.update(ctx, func(txn *badger.Txn) error {
		old, err := e.read(txn, id)
		if err != nil {
			return err
		}
		return e.write(txn, id, old, entity)
	})
}

// Save creates or replaces an entity.
func (e *Entity[T]) Save(ctx context.Context, id string, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return e.store.update(ctx, func(txn *badger.Txn) error {
		old, err := e.read(txn, id)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		return e.write(txn, id, old, entity)
	})
}

// Mutate loads the entity, applies fn, and writes the result in one
// transaction. If fn returns an error nothing is written. Conflicting
// concurrent mutations are retried, so fn may run more than once.
func (e *Entity[T]) Mutate(ctx context.Context, id string, fn func(*T) error) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var result *T
	err := e.store.update(ctx, func(txn *badger.Txn) error {
		old, err := e.read(txn, id)
		if err != nil {
			return err
		}
		next, err := e.read(txn, id)
		if err != nil {
			return err
		}
		if err := fn(next); err != nil {
			return err
		}
		if err := e.write(txn, id, old, next); err != nil {
			return err
		}
		result = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete deletes an entity by ID.
// This operation is idempotent - it does not return an error if the entity does not exist.
func (e *Entity[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return e.store.update(ctx, func(txn *badger.Txn) error {
		entity, err := e.read(txn, id)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		for _, idx := range e.indexes {
			for _, v := range idx.keyGen(entity) {
				if err := txn.Delete(e.indexKey(idx, v, id)); err != nil {
					return fmt.Errorf("failed to delete index key: %w", err)
				}
			}
		}

		if err := txn.Delete([]byte(e.prefix + id)); err != nil {
			return fmt.Errorf("failed to delete key: %w", err)
		}
		return nil
	})
}

// List returns an iterator over all entities in ID order.
func (e *Entity[T]) List(ctx context.Context) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		err := e.store.view(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = []byte(e.prefix)
			opts.PrefetchValues = true

			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Seek([]byte(e.prefix)); it.ValidForPrefix([]byte(e.prefix)); it.Next() {
				if err := ctx.Err(); err != nil {
					return err
				}

				key := string(it.Item().Key())
				if strings.HasPrefix(key[len(e.prefix):], "idx:") {
					continue
				}

				var entity T
				err := it.Item().Value(func(val []byte) error {
					return json.Unmarshal(val, &entity)
				})
				if err != nil {
					return fmt.Errorf("failed to unmarshal %s: %w", key, err)
				}

				if !yield(&entity, nil) {
					return errStopIteration
				}
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStopIteration) {
			yield(nil, err)
		}
	}
}

// Count returns the number of stored entities.
func (e *Entity[T]) Count(ctx context.Context) (int, error) {
	count := 0
	err := e.store.view(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(e.prefix)
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(e.prefix)); it.ValidForPrefix([]byte(e.prefix)); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if !strings.HasPrefix(string(it.Item().Key())[len(e.prefix):], "idx:") {
				count++
			}
		}
		return nil
	})
	return count, err
}

// DeleteAll removes every entity and index key under the prefix.
func (e *Entity[T]) DeleteAll(ctx context.Context) (int, error) {
	count, err := e.Count(ctx)
	if err != nil {
		return 0, err
	}
	if err := e.store.dropPrefix([]byte(e.prefix)); err != nil {
		return 0, err
	}
	return count, nil
}

var errStopIteration = errors.New("iteration stopped")
