package service

import (
	"context"
	"errors"
	"log/slog"

	domainerrors "github.com/prompthub/prompthub-server/internal/errors"
	"github.com/prompthub/prompthub-server/internal/query"
	"github.com/prompthub/prompthub-server/internal/store"
)

// TagService aggregates tags across all prompts.
type TagService struct {
	store  store.PromptStore
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store store.PromptStore, logger *slog.Logger) *TagService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TagService{store: store, logger: logger}
}

// TopTags returns the most used tags in alphabetical order.
// An unavailable store yields no tags.
func (s *TagService) TopTags(ctx context.Context) ([]string, error) {
	prompts, err := s.store.ListPrompts(ctx)
	if err != nil {
		if errors.Is(err, store.ErrUnavailable) {
			s.logger.Warn("prompt store unavailable, serving no tags", "error", err)
			return []string{}, nil
		}
		return nil, domainerrors.Internal("failed to aggregate tags").WithCause(err)
	}
	return query.TopTags(prompts), nil
}
