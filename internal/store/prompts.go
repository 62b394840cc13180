package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/prompthub/prompthub-server/internal/domain"
)

func (s *Store) initPrompts() {
	s.Prompts = NewEntity[domain.Prompt](s, promptPrefix).
		WithIndex(string(FieldCategory), func(p *domain.Prompt) []string {
			if p.Category == "" {
				return nil
			}
			return []string{p.Category}
		}).
		WithIndex(string(FieldUserID), func(p *domain.Prompt) []string {
			if p.UserID == "" {
				return nil
			}
			return []string{p.UserID}
		})
}

// GetPrompt returns the prompt with the given ID.
func (s *Store) GetPrompt(ctx context.Context, id string) (*domain.Prompt, error) {
	return s.Prompts.Get(ctx, id)
}

// ListPrompts returns every prompt in ID order.
func (s *Store) ListPrompts(ctx context.Context) ([]*domain.Prompt, error) {
	prompts := make([]*domain.Prompt, 0)
	for p, err := range s.Prompts.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list prompts: %w", err)
		}
		prompts = append(prompts, p)
	}
	return prompts, nil
}

// ListPromptsWhere returns prompts whose field exactly equals value, in ID order.
func (s *Store) ListPromptsWhere(ctx context.Context, field PromptField, value string) ([]*domain.Prompt, error) {
	if !field.Valid() {
		return nil, ErrInvalidInput.WithMessage(fmt.Sprintf("unknown prompt field %q", field))
	}
	prompts, err := s.Prompts.ListByIndex(ctx, string(field), value)
	if err != nil {
		return nil, fmt.Errorf("list prompts by %s: %w", field, err)
	}
	return prompts, nil
}

// CreatePrompt stores a new prompt. Returns ErrAlreadyExists when the ID is taken.
func (s *Store) CreatePrompt(ctx context.Context, p *domain.Prompt) error {
	if p.ID == "" {
		return ErrInvalidInput.WithMessage("prompt id is required")
	}
	return s.Prompts.Create(ctx, p.ID, p)
}

// PutPrompt creates or replaces a prompt.
func (s *Store) PutPrompt(ctx context.Context, p *domain.Prompt) error {
	if p.ID == "" {
		return ErrInvalidInput.WithMessage("prompt id is required")
	}
	return s.Prompts.Save(ctx, p.ID, p)
}

// UpdatePrompt applies fn to the stored prompt atomically.
func (s *Store) UpdatePrompt(ctx context.Context, id string, fn func(*domain.Prompt) error) (*domain.Prompt, error) {
	return s.Prompts.Mutate(ctx, id, func(p *domain.Prompt) error {
		if err := fn(p); err != nil {
			return err
		}
		p.ID = id
		return nil
	})
}

// IncrementPromptCounter adds one to the counter and returns the new value.
func (s *Store) IncrementPromptCounter(ctx context.Context, id string, counter domain.Counter) (int, error) {
	if !counter.Valid() {
		return 0, ErrInvalidInput.WithMessage(fmt.Sprintf("unknown counter %q", counter))
	}

	var value int
	_, err := s.Prompts.Mutate(ctx, id, func(p *domain.Prompt) error {
		value = p.Increment(counter)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return value, nil
}

// DeletePrompt removes a prompt. Deleting a missing prompt is not an error.
func (s *Store) DeletePrompt(ctx context.Context, id string) error {
	return s.Prompts.Delete(ctx, id)
}

// PutPrompts writes prompts in bulk. Intended for loading fixtures into an
// empty store; existing index entries of overwritten prompts are not removed.
func (s *Store) PutPrompts(ctx context.Context, prompts []*domain.Prompt) error {
	if s.db.IsClosed() {
		return ErrUnavailable
	}

	batch := s.NewBatchWriter(100)
	for _, p := range prompts {
		if err := batch.PutPrompt(ctx, p); err != nil {
			batch.Cancel()
			return err
		}
	}
	err := batch.Flush()
	batch.Cancel()
	return err
}

// CountPrompts returns the number of stored prompts.
func (s *Store) CountPrompts(ctx context.Context) (int, error) {
	return s.Prompts.Count(ctx)
}

// DeleteAllPrompts removes every prompt and returns how many were removed.
func (s *Store) DeleteAllPrompts(ctx context.Context) (int, error) {
	n, err := s.Prompts.DeleteAll(ctx)
	if err != nil && !errors.Is(err, ErrUnavailable) {
		return 0, fmt.Errorf("delete prompts: %w", err)
	}
	return n, err
}
