package store

import (
	"context"

	"github.com/prompthub/prompthub-server/internal/domain"
)

// PromptField names a prompt attribute that can be matched exactly at the storage layer.
type PromptField string

// Queryable prompt fields.
const (
	FieldCategory PromptField = "category"
	FieldUserID   PromptField = "user_id"
)

// Valid reports whether the field can be queried.
func (f PromptField) Valid() bool {
	return f == FieldCategory || f == FieldUserID
}

// PromptStore is the document store contract shared by the Badger and SQLite backends.
//
// Reads and writes against a closed or unreachable database return errors
// matching ErrUnavailable.
type PromptStore interface {
	GetPrompt(ctx context.Context, id string) (*domain.Prompt, error)
	ListPrompts(ctx context.Context) ([]*domain.Prompt, error)
	ListPromptsWhere(ctx context.Context, field PromptField, value string) ([]*domain.Prompt, error)
	CreatePrompt(ctx context.Context, p *domain.Prompt) error
	PutPrompt(ctx context.Context, p *domain.Prompt) error
	UpdatePrompt(ctx context.Context, id string, fn func(*domain.Prompt) error) (*domain.Prompt, error)
	IncrementPromptCounter(ctx context.Context, id string, counter domain.Counter) (int, error)
	DeletePrompt(ctx context.Context, id string) error
	PutPrompts(ctx context.Context, prompts []*domain.Prompt) error
	CountPrompts(ctx context.Context) (int, error)
	DeleteAllPrompts(ctx context.Context) (int, error)

	Ping(ctx context.Context) error
	Close() error
}

var _ PromptStore = (*Store)(nil)
