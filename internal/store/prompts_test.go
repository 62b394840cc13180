package store_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prompthub/prompthub-server/internal/domain"
	"github.com/prompthub/prompthub-server/internal/store"
)

func testPrompt(id, category, owner string) *domain.Prompt {
	return &domain.Prompt{
		ID:        id,
		Title:     "Prompt " + id,
		Content:   "Content " + id,
		Category:  category,
		UserID:    owner,
		Tags:      domain.TagList("ai"),
		CreatedAt: domain.NewTimestamp(time.Unix(1700000000, 0)),
	}
}

func TestStore_PromptCRUD(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, s.CreatePrompt(ctx, testPrompt("p1", "Coding", "a@x.io")))
	require.ErrorIs(t, s.CreatePrompt(ctx, testPrompt("p1", "Coding", "a@x.io")), store.ErrAlreadyExists)

	got, err := s.GetPrompt(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Prompt p1", got.Title)
	assert.True(t, got.Tags.IsList())

	require.NoError(t, s.DeletePrompt(ctx, "p1"))
	_, err = s.GetPrompt(ctx, "p1")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_PreservesLegacyShapes(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	p := testPrompt("legacy", "General", "")
	p.Tags = domain.TagString("AI, Writing")
	p.CreatedAt = domain.ISOTimestamp(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, s.PutPrompt(ctx, p))

	got, err := s.GetPrompt(ctx, "legacy")
	require.NoError(t, err)
	assert.True(t, got.Tags.IsText())
	assert.True(t, got.CreatedAt.IsISO())
}

func TestStore_ListPromptsWhere(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, s.CreatePrompt(ctx, testPrompt("p1", "Coding", "a@x.io")))
	require.NoError(t, s.CreatePrompt(ctx, testPrompt("p2", "Writing", "a@x.io")))
	require.NoError(t, s.CreatePrompt(ctx, testPrompt("p3", "Coding", "b@x.io")))
	require.NoError(t, s.CreatePrompt(ctx, testPrompt("p4", "coding", "b@x.io")))

	coding, err := s.ListPromptsWhere(ctx, store.FieldCategory, "Coding")
	require.NoError(t, err)
	require.Len(t, coding, 2)
	assert.Equal(t, "p1", coding[0].ID)
	assert.Equal(t, "p3", coding[1].ID)

	mine, err := s.ListPromptsWhere(ctx, store.FieldUserID, "a@x.io")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	_, err = s.ListPromptsWhere(ctx, store.PromptField("title"), "x")
	require.ErrorIs(t, err, store.ErrInvalidInput)
}

func TestStore_UpdatePromptReindexes(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, s.CreatePrompt(ctx, testPrompt("p1", "Coding", "anon-1")))

	updated, err := s.UpdatePrompt(ctx, "p1", func(p *domain.Prompt) error {
		p.Category = "Writing"
		p.Claim(domain.Identity{Email: "b@x.io"})
		p.ID = "ignored"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "p1", updated.ID)

	coding, err := s.ListPromptsWhere(ctx, store.FieldCategory, "Coding")
	require.NoError(t, err)
	assert.Empty(t, coding)

	mine, err := s.ListPromptsWhere(ctx, store.FieldUserID, "b@x.io")
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestStore_IncrementPromptCounter_Concurrent(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, s.CreatePrompt(ctx, testPrompt("p1", "Coding", "a@x.io")))

	const workers = 10
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.IncrementPromptCounter(ctx, "p1", domain.CounterLikes)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.GetPrompt(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, workers, got.Likes)
	assert.Equal(t, 0, got.Copies)

	n, err := s.IncrementPromptCounter(ctx, "p1", domain.CounterCopies)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = s.IncrementPromptCounter(ctx, "missing", domain.CounterLikes)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_BatchAndDeleteAll(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	prompts := make([]*domain.Prompt, 0, 250)
	for i := range 250 {
		prompts = append(prompts, testPrompt(fmt.Sprintf("p%03d", i), "Coding", "a@x.io"))
	}
	require.NoError(t, s.PutPrompts(ctx, prompts))

	count, err := s.CountPrompts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 250, count)

	coding, err := s.ListPromptsWhere(ctx, store.FieldCategory, "Coding")
	require.NoError(t, err)
	assert.Len(t, coding, 250)

	removed, err := s.DeleteAllPrompts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 250, removed)

	all, err := s.ListPrompts(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStore_ClosedIsUnavailable(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, s.Close())

	_, err := s.ListPrompts(ctx)
	require.ErrorIs(t, err, store.ErrUnavailable)

	_, err = s.IncrementPromptCounter(ctx, "p1", domain.CounterLikes)
	require.ErrorIs(t, err, store.ErrUnavailable)

	require.ErrorIs(t, s.Ping(ctx), store.ErrUnavailable)
}
