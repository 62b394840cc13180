package store_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prompthub/prompthub-server/internal/store"
)

type TestEntity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Team  string `json:"team"`
}

func setupTestStore(t *testing.T) (*store.Store, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "entity-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	s, err := store.New(dbPath, nil)
	require.NoError(t, err)

	cleanup := func() {
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return s, cleanup
}

func newTestEntity(s *store.Store) *store.Entity[TestEntity] {
	return store.NewEntity[TestEntity](s, "test:").
		WithIndex("team", func(e *TestEntity) []string { return []string{e.Team} })
}

func TestEntity_Create_Success(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:")

	testData := &TestEntity{ID: "1", Name: "John Doe", Email: "john@example.com"}
	require.NoError(t, entity.Create(context.Background(), "1", testData))

	retrieved, err := entity.Get(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, testData, retrieved)
}

func TestEntity_Create_AlreadyExists(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:")
	testData := &TestEntity{ID: "1", Name: "John Doe"}

	require.NoError(t, entity.Create(context.Background(), "1", testData))

	err := entity.Create(context.Background(), "1", testData)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestEntity_Get_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:")

	_, err := entity.Get(context.Background(), "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestEntity_Update_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:")

	err := entity.Update(context.Background(), "missing", &TestEntity{ID: "missing"})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestEntity_Update_MovesIndexes(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	entity := newTestEntity(s)
	require.NoError(t, entity.Create(ctx, "1", &TestEntity{ID: "1", Email: "old@x.io", Team: "red"}))
	require.NoError(t, entity.Update(ctx, "1", &TestEntity{ID: "1", Email: "new@x.io", Team: "blue"}))

	red, err := entity.ListByIndex(ctx, "team", "red")
	require.NoError(t, err)
	assert.Empty(t, red)

	blue, err := entity.ListByIndex(ctx, "team", "blue")
	require.NoError(t, err)
	assert.Len(t, blue, 1)
}

func TestEntity_SharedIndexValue(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	entity := newTestEntity(s)
	require.NoError(t, entity.Create(ctx, "1", &TestEntity{ID: "1", Team: "red"}))
	require.NoError(t, entity.Create(ctx, "2", &TestEntity{ID: "2", Team: "red"}))

	red, err := entity.ListByIndex(ctx, "team", "red")
	require.NoError(t, err)
	assert.Len(t, red, 2)
}

func TestEntity_ListByIndex(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	entity := newTestEntity(s)
	for i, team := range []string{"red", "blue", "red", "redder"} {
		id := fmt.Sprintf("%d", i)
		require.NoError(t, entity.Create(ctx, id, &TestEntity{ID: id, Email: id + "@x.io", Team: team}))
	}

	red, err := entity.ListByIndex(ctx, "team", "red")
	require.NoError(t, err)
	require.Len(t, red, 2)
	assert.Equal(t, "0", red[0].ID)
	assert.Equal(t, "2", red[1].ID)

	_, err = entity.ListByIndex(ctx, "nope", "red")
	require.ErrorIs(t, err, store.ErrInvalidInput)
}

func TestEntity_Save_Upserts(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	entity := newTestEntity(s)
	require.NoError(t, entity.Save(ctx, "1", &TestEntity{ID: "1", Name: "a", Team: "red"}))
	require.NoError(t, entity.Save(ctx, "1", &TestEntity{ID: "1", Name: "b", Team: "blue"}))

	got, err := entity.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "b", got.Name)

	red, err := entity.ListByIndex(ctx, "team", "red")
	require.NoError(t, err)
	assert.Empty(t, red)
}

func TestEntity_Mutate(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	entity := newTestEntity(s)
	require.NoError(t, entity.Create(ctx, "1", &TestEntity{ID: "1", Name: "a", Team: "red"}))

	got, err := entity.Mutate(ctx, "1", func(e *TestEntity) error {
		e.Name = "changed"
		e.Team = "blue"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "changed", got.Name)

	blue, err := entity.ListByIndex(ctx, "team", "blue")
	require.NoError(t, err)
	assert.Len(t, blue, 1)

	boom := errors.New("boom")
	_, err = entity.Mutate(ctx, "1", func(e *TestEntity) error {
		e.Name = "discarded"
		return boom
	})
	require.ErrorIs(t, err, boom)

	stored, err := entity.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "changed", stored.Name)

	_, err = entity.Mutate(ctx, "missing", func(*TestEntity) error { return nil })
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestEntity_Delete_Idempotent(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	entity := newTestEntity(s)
	require.NoError(t, entity.Create(ctx, "1", &TestEntity{ID: "1", Email: "a@x.io", Team: "red"}))
	require.NoError(t, entity.Delete(ctx, "1"))
	require.NoError(t, entity.Delete(ctx, "1"))

	_, err := entity.Get(ctx, "1")
	require.ErrorIs(t, err, store.ErrNotFound)

	red, err := entity.ListByIndex(ctx, "team", "red")
	require.NoError(t, err)
	assert.Empty(t, red)
}

func TestEntity_ContextCancellation(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entity := store.NewEntity[TestEntity](s, "test:")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, entity.Create(ctx, "1", &TestEntity{ID: "1"}), context.Canceled)
	_, err := entity.Get(ctx, "1")
	require.ErrorIs(t, err, context.Canceled)
}

func TestEntity_List(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	entity := newTestEntity(s)
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, entity.Create(ctx, id, &TestEntity{ID: id, Email: id, Team: "t"}))
	}

	var ids []string
	for e, err := range entity.List(ctx) {
		require.NoError(t, err)
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)

	count, err := entity.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestEntity_List_EarlyTermination(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	entity := store.NewEntity[TestEntity](s, "test:")
	for i := range 5 {
		id := fmt.Sprintf("%d", i)
		require.NoError(t, entity.Create(ctx, id, &TestEntity{ID: id}))
	}

	seen := 0
	for _, err := range entity.List(ctx) {
		require.NoError(t, err)
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}
