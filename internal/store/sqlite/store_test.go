package sqlite

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prompthub/prompthub-server/internal/domain"
	"github.com/prompthub/prompthub-server/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

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

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	var journalMode string
	require.NoError(t, s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)

	var name string
	err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='prompts'").Scan(&name)
	require.NoError(t, err)
}

func TestPromptCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreatePrompt(ctx, testPrompt("p1", "Coding", "a@x.io")))
	require.ErrorIs(t, s.CreatePrompt(ctx, testPrompt("p1", "Coding", "a@x.io")), store.ErrAlreadyExists)

	got, err := s.GetPrompt(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Prompt p1", got.Title)
	assert.Equal(t, []string{"ai"}, got.Tags.Normalized())

	require.NoError(t, s.DeletePrompt(ctx, "p1"))
	_, err = s.GetPrompt(ctx, "p1")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestListPromptsWhere(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutPrompt(ctx, testPrompt("p2", "Coding", "a@x.io")))
	require.NoError(t, s.PutPrompt(ctx, testPrompt("p1", "Coding", "b@x.io")))
	require.NoError(t, s.PutPrompt(ctx, testPrompt("p3", "Writing", "a@x.io")))

	coding, err := s.ListPromptsWhere(ctx, store.FieldCategory, "Coding")
	require.NoError(t, err)
	require.Len(t, coding, 2)
	assert.Equal(t, "p1", coding[0].ID)

	mine, err := s.ListPromptsWhere(ctx, store.FieldUserID, "a@x.io")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	_, err = s.ListPromptsWhere(ctx, store.PromptField("doc"), "x")
	require.ErrorIs(t, err, store.ErrInvalidInput)
}

func TestUpdatePrompt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreatePrompt(ctx, testPrompt("p1", "Coding", "anon-1")))

	updated, err := s.UpdatePrompt(ctx, "p1", func(p *domain.Prompt) error {
		p.Claim(domain.Identity{Email: "b@x.io", Name: "Bea"})
		p.Category = "Writing"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "b@x.io", updated.UserID)

	writing, err := s.ListPromptsWhere(ctx, store.FieldCategory, "Writing")
	require.NoError(t, err)
	require.Len(t, writing, 1)
	assert.Equal(t, "Bea", writing[0].Author)

	_, err = s.UpdatePrompt(ctx, "missing", func(*domain.Prompt) error { return nil })
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestIncrementPromptCounter(t *testing.T) {
	s := newTestStore(t)
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

	n, err := s.IncrementPromptCounter(ctx, "p1", domain.CounterCopies)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = s.IncrementPromptCounter(ctx, "missing", domain.CounterLikes)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestPutPromptsAndDeleteAll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	prompts := []*domain.Prompt{
		testPrompt("a", "Coding", "x"),
		testPrompt("b", "Coding", "x"),
		testPrompt("c", "Writing", "y"),
	}
	require.NoError(t, s.PutPrompts(ctx, prompts))

	n, err := s.CountPrompts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	removed, err := s.DeleteAllPrompts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)
}

func TestClosedIsUnavailable(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Close())

	_, err := s.ListPrompts(ctx)
	require.ErrorIs(t, err, store.ErrUnavailable)
	require.ErrorIs(t, s.Ping(ctx), store.ErrUnavailable)
	_, err = s.IncrementPromptCounter(ctx, "p1", domain.CounterLikes)
	require.ErrorIs(t, err, store.ErrUnavailable)
}
