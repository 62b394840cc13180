package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/prompthub/prompthub-server/internal/analyzer"
	"github.com/prompthub/prompthub-server/internal/domain"
	domainerrors "github.com/prompthub/prompthub-server/internal/errors"
	"github.com/prompthub/prompthub-server/internal/id"
	"github.com/prompthub/prompthub-server/internal/query"
	"github.com/prompthub/prompthub-server/internal/store"
	"github.com/prompthub/prompthub-server/internal/validation"
)

// PromptInput carries the editable fields of a prompt.
type PromptInput struct {
	ID               string      `json:"id,omitempty" validate:"omitempty,uuid"`
	Title            string      `json:"title" validate:"notblank,max=200"`
	Content          string      `json:"content" validate:"notblank"`
	Description      string      `json:"description,omitempty"`
	Example          string      `json:"example,omitempty"`
	Tips             string      `json:"tips,omitempty"`
	ExpectedResponse string      `json:"expectedResponse,omitempty"`
	Model            string      `json:"model,omitempty"`
	PromptType       string      `json:"promptType,omitempty"`
	ComplexityLevel  string      `json:"complexityLevel,omitempty"`
	ContextLength    string      `json:"contextLength,omitempty"`
	Category         string      `json:"category,omitempty"`
	UseCases         []string    `json:"useCases,omitempty"`
	Tags             domain.Tags `json:"tags"`
}

// apply copies the editable fields onto p. Tags are written in list shape.
func (in *PromptInput) apply(p *domain.Prompt) {
	p.Title = strings.TrimSpace(in.Title)
	p.Content = in.Content
	p.Description = in.Description
	p.Example = in.Example
	p.Tips = in.Tips
	p.ExpectedResponse = in.ExpectedResponse
	p.Model = in.Model
	p.PromptType = in.PromptType
	p.ComplexityLevel = in.ComplexityLevel
	p.ContextLength = in.ContextLength
	p.Category = in.Category
	if p.Category == "" {
		p.Category = domain.DefaultCategory
	}
	p.UseCases = in.UseCases
	p.Tags = in.Tags.Canonical()
}

// AnonymousResult is a prompt created without an identity, with the session
// id the caller keeps to show later that it wrote the prompt.
type AnonymousResult struct {
	Prompt             *domain.Prompt
	AnonymousSessionID string
}

// AssistedResult is a prompt built from an analysis of free text.
type AssistedResult struct {
	Prompt             *domain.Prompt
	Analysis           analyzer.Analysis
	AnonymousSessionID string
}

// CounterResult is the new value of an engagement counter.
type CounterResult struct {
	ID    string
	Value int
}

// PromptService implements listing and mutation of prompts.
type PromptService struct {
	store     store.PromptStore
	analyzer  *analyzer.Analyzer
	validator *validation.Validator
	recorder  Recorder
	logger    *slog.Logger
	now       func() time.Time
}

// NewPromptService creates a new prompt service.
func NewPromptService(
	store store.PromptStore,
	analyzer *analyzer.Analyzer,
	validator *validation.Validator,
	recorder Recorder,
	logger *slog.Logger,
) *PromptService {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PromptService{
		store:     store,
		analyzer:  analyzer,
		validator: validator,
		recorder:  recorder,
		logger:    logger,
		now:       time.Now,
	}
}

// SetClock replaces the time source used for timestamps.
func (s *PromptService) SetClock(now func() time.Time) {
	s.now = now
}

// List returns one page of prompts matching params. When the store cannot be
// reached the empty page is returned instead of an error.
func (s *PromptService) List(ctx context.Context, params query.Params) (*query.Page, error) {
	params = params.Normalize()

	var (
		prompts []*domain.Prompt
		err     error
	)
	if params.Category != "" {
		prompts, err = s.store.ListPromptsWhere(ctx, store.FieldCategory, params.Category)
	} else {
		prompts, err = s.store.ListPrompts(ctx)
	}
	if err != nil {
		if errors.Is(err, store.ErrUnavailable) {
			s.logger.Warn("prompt store unavailable, serving empty page", "error", err)
			s.recorder.RecordList(true)
			return query.EmptyPage(), nil
		}
		return nil, domainerrors.Internal("failed to list prompts").WithCause(err)
	}

	s.recorder.RecordList(false)
	return query.Run(prompts, params), nil
}

// Get returns a single prompt.
func (s *PromptService) Get(ctx context.Context, promptID string) (*domain.Prompt, error) {
	p, err := s.store.GetPrompt(ctx, promptID)
	if err != nil {
		return nil, translateStoreError(err, promptID)
	}
	return p, nil
}

// ListMine returns the caller's prompts, newest first.
func (s *PromptService) ListMine(ctx context.Context, who domain.Identity) ([]*domain.Prompt, error) {
	if who.Email == "" {
		return nil, domainerrors.Unauthorized("authentication required")
	}

	prompts, err := s.store.ListPromptsWhere(ctx, store.FieldUserID, who.Email)
	if err != nil {
		return nil, translateStoreError(err, "")
	}
	query.Sort(prompts, query.SortLatest)
	return prompts, nil
}

// Create stores a new prompt owned by the caller.
func (s *PromptService) Create(ctx context.Context, who domain.Identity, in *PromptInput) (*domain.Prompt, error) {
	p, err := s.create(ctx, &who, in)
	s.record(OpCreate, err)
	return p, err
}

// CreateAnonymous stores a new prompt with a fresh anonymous session as owner.
func (s *PromptService) CreateAnonymous(ctx context.Context, in *PromptInput) (*AnonymousResult, error) {
	p, err := s.create(ctx, nil, in)
	s.record(OpCreateAnonymous, err)
	if err != nil {
		return nil, err
	}
	return &AnonymousResult{Prompt: p, AnonymousSessionID: p.UserID}, nil
}

// CreateAssisted analyzes free text and stores the result as a new prompt.
// A nil identity creates an anonymous prompt.
func (s *PromptService) CreateAssisted(ctx context.Context, who *domain.Identity, text string) (*AssistedResult, error) {
	if strings.TrimSpace(text) == "" {
		err := domainerrors.ValidationWithDetails("text is required", map[string]string{"text": "is required"})
		s.record(OpCreateAssisted, err)
		return nil, err
	}

	analysis := s.Analyze(ctx, text)

	in := &PromptInput{
		Title:            analysis.Title,
		Content:          analysis.Content,
		Description:      analysis.Description,
		Example:          analysis.Example,
		Tips:             analysis.Tips,
		ExpectedResponse: analysis.ExpectedResponse,
		Model:            analysis.Model,
		PromptType:       analysis.PromptType,
		ComplexityLevel:  analysis.ComplexityLevel,
		ContextLength:    analysis.ContextLength,
		Category:         analysis.Category,
		UseCases:         analysis.UseCases,
		Tags:             domain.TagList(analysis.Tags...),
	}
	if strings.TrimSpace(in.Content) == "" {
		in.Content = strings.TrimSpace(text)
	}

	p, err := s.create(ctx, who, in)
	s.record(OpCreateAssisted, err)
	if err != nil {
		return nil, err
	}

	result := &AssistedResult{Prompt: p, Analysis: analysis}
	if who == nil {
		result.AnonymousSessionID = p.UserID
	}
	return result, nil
}

// Analyze derives prompt metadata from free text.
func (s *PromptService) Analyze(ctx context.Context, text string) analyzer.Analysis {
	analysis := s.analyzer.Analyze(ctx, text)
	s.recorder.RecordAnalysis(string(analysis.Source))
	return analysis
}

func (s *PromptService) create(ctx context.Context, who *domain.Identity, in *PromptInput) (*domain.Prompt, error) {
	if who != nil && who.Email == "" {
		return nil, domainerrors.Unauthorized("authentication required")
	}
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	now := s.now()
	p := &domain.Prompt{
		ID:        in.ID,
		CreatedAt: domain.NewTimestamp(now),
		UpdatedAt: domain.NewTimestamp(now),
	}
	if p.ID == "" {
		p.ID = id.NewPromptID()
	}
	in.apply(p)

	if who != nil {
		p.Claim(*who)
	} else {
		session, err := id.NewAnonymousSession()
		if err != nil {
			return nil, domainerrors.Internal("failed to create anonymous session").WithCause(err)
		}
		p.UserID = session
		p.Author = domain.AnonymousAuthor
		p.IsAnonymous = true
	}

	if err := s.store.CreatePrompt(ctx, p); err != nil {
		return nil, translateStoreError(err, p.ID)
	}

	s.logger.Info("prompt created",
		"prompt_id", p.ID,
		"user_id", p.UserID,
		"anonymous", p.IsAnonymous,
	)

	return p, nil
}

// Update replaces the editable fields of a prompt. Anonymous prompts are
// claimed by the caller; other prompts may only be edited by their owner.
func (s *PromptService) Update(ctx context.Context, who domain.Identity, promptID string, in *PromptInput) (*domain.Prompt, error) {
	p, err := s.update(ctx, who, promptID, in)
	s.record(OpUpdate, err)
	return p, err
}

func (s *PromptService) update(ctx context.Context, who domain.Identity, promptID string, in *PromptInput) (*domain.Prompt, error) {
	if who.Email == "" {
		return nil, domainerrors.Unauthorized("authentication required")
	}
	in.ID = ""
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	var claimed bool
	p, err := s.store.UpdatePrompt(ctx, promptID, func(p *domain.Prompt) error {
		if !p.CanEdit(who.Email) {
			return domainerrors.Forbidden("not authorized to edit this prompt").WithDetails(map[string]string{
				"currentOwner": p.UserID,
				"caller":       who.Email,
			})
		}

		claimed = p.IsAnonymous
		stored := p.Tags
		in.apply(p)
		// Omitted tags leave the stored ones untouched.
		if !in.Tags.IsList() && !in.Tags.IsText() {
			p.Tags = stored
		}
		if claimed {
			p.Claim(who)
		}
		p.Touch(s.now())
		return nil
	})
	if err != nil {
		return nil, translateStoreError(err, promptID)
	}

	s.logger.Info("prompt updated",
		"prompt_id", promptID,
		"user_id", who.Email,
		"claimed", claimed,
	)

	return p, nil
}

// Like adds one like to a prompt.
func (s *PromptService) Like(ctx context.Context, promptID string) (*CounterResult, error) {
	res, err := s.increment(ctx, promptID, domain.CounterLikes)
	s.record(OpLike, err)
	return res, err
}

// Copy records one copy of a prompt.
func (s *PromptService) Copy(ctx context.Context, promptID string) (*CounterResult, error) {
	res, err := s.increment(ctx, promptID, domain.CounterCopies)
	s.record(OpCopy, err)
	return res, err
}

func (s *PromptService) increment(ctx context.Context, promptID string, counter domain.Counter) (*CounterResult, error) {
	if strings.TrimSpace(promptID) == "" {
		return nil, domainerrors.Validation("prompt id is required")
	}
	value, err := s.store.IncrementPromptCounter(ctx, promptID, counter)
	if err != nil {
		return nil, translateStoreError(err, promptID)
	}
	return &CounterResult{ID: promptID, Value: value}, nil
}

func (s *PromptService) record(op string, err error) {
	result := "ok"
	if err != nil {
		var de *domainerrors.Error
		if errors.As(err, &de) {
			result = string(de.Code)
		} else {
			result = string(domainerrors.CodeInternal)
		}
	}
	s.recorder.RecordMutation(op, result)
}

// translateStoreError maps storage errors onto domain errors.
func translateStoreError(err error, promptID string) error {
	var de *domainerrors.Error
	switch {
	case errors.As(err, &de):
		return de
	case errors.Is(err, store.ErrNotFound):
		if promptID == "" {
			return domainerrors.NotFound("prompt not found")
		}
		return domainerrors.NotFoundf("prompt %s not found", promptID)
	case errors.Is(err, store.ErrAlreadyExists):
		return domainerrors.AlreadyExists("a prompt with this id already exists").WithCause(err)
	case errors.Is(err, store.ErrInvalidInput):
		return domainerrors.Validation(err.Error())
	case errors.Is(err, store.ErrUnavailable):
		return domainerrors.Unavailable("prompt store is not available").WithCause(err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return domainerrors.Internal("prompt store failure").WithCause(err)
	}
}
