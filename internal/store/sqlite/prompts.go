package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/prompthub/prompthub-server/internal/domain"
	"github.com/prompthub/prompthub-server/internal/store"
)

const upsertPromptSQL = `
	INSERT INTO prompts (id, category, user_id, doc)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		category = excluded.category,
		user_id = excluded.user_id,
		doc = excluded.doc`

// counterPaths maps counters to their JSON paths inside the document.
var counterPaths = map[domain.Counter]string{
	domain.CounterLikes:  "$.likes",
	domain.CounterCopies: "$.copies",
}

// fieldColumns maps queryable fields to their columns.
var fieldColumns = map[store.PromptField]string{
	store.FieldCategory: "category",
	store.FieldUserID:   "user_id",
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func scanPrompt(scanner interface{ Scan(dest ...any) error }) (*domain.Prompt, error) {
	var doc string
	if err := scanner.Scan(&doc); err != nil {
		return nil, err
	}
	var p domain.Prompt
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return nil, fmt.Errorf("decode prompt document: %w", err)
	}
	return &p, nil
}

func writePrompt(ctx context.Context, ex execer, query string, p *domain.Prompt) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode prompt document: %w", err)
	}
	_, err = ex.ExecContext(ctx, query, p.ID, p.Category, p.UserID, string(doc))
	return err
}

func (s *Store) queryPrompts(ctx context.Context, query string, args ...any) ([]*domain.Prompt, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	prompts := make([]*domain.Prompt, 0)
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, err
		}
		prompts = append(prompts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err)
	}
	return prompts, nil
}

// GetPrompt retrieves a prompt by ID.
// Returns store.ErrNotFound if the prompt does not exist.
func (s *Store) GetPrompt(ctx context.Context, id string) (*domain.Prompt, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	p, err := scanPrompt(s.db.QueryRowContext(ctx, `SELECT doc FROM prompts WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, translate(err)
	}
	return p, nil
}

// ListPrompts returns every prompt ordered by ID.
func (s *Store) ListPrompts(ctx context.Context) ([]*domain.Prompt, error) {
	return s.queryPrompts(ctx, `SELECT doc FROM prompts ORDER BY id ASC`)
}

// ListPromptsWhere returns prompts whose field exactly equals value, ordered by ID.
func (s *Store) ListPromptsWhere(ctx context.Context, field store.PromptField, value string) ([]*domain.Prompt, error) {
	column, ok := fieldColumns[field]
	if !ok {
		return nil, store.ErrInvalidInput.WithMessage(fmt.Sprintf("unknown prompt field %q", field))
	}
	return s.queryPrompts(ctx, `SELECT doc FROM prompts WHERE `+column+` = ? ORDER BY id ASC`, value)
}

// CreatePrompt inserts a new prompt.
// Returns store.ErrAlreadyExists on duplicate ID.
func (s *Store) CreatePrompt(ctx context.Context, p *domain.Prompt) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if p.ID == "" {
		return store.ErrInvalidInput.WithMessage("prompt id is required")
	}

	err := writePrompt(ctx, s.db, `INSERT INTO prompts (id, category, user_id, doc) VALUES (?, ?, ?, ?)`, p)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return translate(err)
}

// PutPrompt creates or replaces a prompt.
func (s *Store) PutPrompt(ctx context.Context, p *domain.Prompt) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if p.ID == "" {
		return store.ErrInvalidInput.WithMessage("prompt id is required")
	}
	return translate(writePrompt(ctx, s.db, upsertPromptSQL, p))
}

// UpdatePrompt applies fn to the stored prompt inside one transaction.
func (s *Store) UpdatePrompt(ctx context.Context, id string, fn func(*domain.Prompt) error) (*domain.Prompt, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, translate(err)
	}
	defer tx.Rollback()

	p, err := scanPrompt(tx.QueryRowContext(ctx, `SELECT doc FROM prompts WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, translate(err)
	}

	if err := fn(p); err != nil {
		return nil, err
	}
	p.ID = id

	if err := writePrompt(ctx, tx, `UPDATE prompts SET category = ?2, user_id = ?3, doc = ?4 WHERE id = ?1`, p); err != nil {
		return nil, translate(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, translate(err)
	}
	return p, nil
}

// IncrementPromptCounter adds one to the counter in a single UPDATE statement.
func (s *Store) IncrementPromptCounter(ctx context.Context, id string, counter domain.Counter) (int, error) {
	if err := s.checkOpen(); err != nil {
		return 0, err
	}
	path, ok := counterPaths[counter]
	if !ok {
		return 0, store.ErrInvalidInput.WithMessage(fmt.Sprintf("unknown counter %q", counter))
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var value int
	err := s.db.QueryRowContext(ctx, `
		UPDATE prompts
		SET doc = json_set(doc, ?1, CAST(COALESCE(json_extract(doc, ?1), 0) AS INTEGER) + 1)
		WHERE id = ?2
		RETURNING CAST(json_extract(doc, ?1) AS INTEGER)`,
		path, id,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, store.ErrNotFound
	}
	if err != nil {
		return 0, translate(err)
	}
	return value, nil
}

// DeletePrompt removes a prompt. Deleting a missing prompt is not an error.
func (s *Store) DeletePrompt(ctx context.Context, id string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM prompts WHERE id = ?`, id)
	return translate(err)
}

// PutPrompts upserts prompts in a single transaction.
func (s *Store) PutPrompts(ctx context.Context, prompts []*domain.Prompt) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return translate(err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertPromptSQL)
	if err != nil {
		return translate(err)
	}
	defer stmt.Close()

	for _, p := range prompts {
		if p.ID == "" {
			return store.ErrInvalidInput.WithMessage("prompt id is required")
		}
		doc, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode prompt %s: %w", p.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, p.ID, p.Category, p.UserID, string(doc)); err != nil {
			return translate(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return translate(err)
	}
	if s.logger != nil {
		s.logger.Info("batch flushed", "count", len(prompts))
	}
	return nil
}

// CountPrompts returns the number of stored prompts.
func (s *Store) CountPrompts(ctx context.Context) (int, error) {
	if err := s.checkOpen(); err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM prompts`).Scan(&n); err != nil {
		return 0, translate(err)
	}
	return n, nil
}

// DeleteAllPrompts removes every prompt and returns how many were removed.
func (s *Store) DeleteAllPrompts(ctx context.Context) (int, error) {
	if err := s.checkOpen(); err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM prompts`)
	if err != nil {
		return 0, translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
