package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/prompthub/prompthub-server/internal/analyzer"
	"github.com/prompthub/prompthub-server/internal/domain"
	"github.com/prompthub/prompthub-server/internal/query"
	"github.com/prompthub/prompthub-server/internal/service"
)

var bearerSecurity = []map[string][]string{{"bearer": {}}}

func (s *Server) registerPromptRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listPrompts",
		Method:      http.MethodGet,
		Path:        "/api/prompts",
		Summary:     "List prompts",
		Description: "Returns one page of prompts filtered by category, tag and search text",
		Tags:        []string{"Prompts"},
	}, s.handleListPrompts)

	huma.Register(s.api, huma.Operation{
		OperationID: "createPrompt",
		Method:      http.MethodPost,
		Path:        "/api/prompts",
		Summary:     "Create prompt",
		Description: "Creates a prompt owned by the authenticated caller",
		Tags:        []string{"Prompts"},
		Security:    bearerSecurity,
	}, s.handleCreatePrompt)

	huma.Register(s.api, huma.Operation{
		OperationID: "createAnonymousPrompt",
		Method:      http.MethodPost,
		Path:        "/api/prompts/anonymous",
		Summary:     "Create anonymous prompt",
		Description: "Creates a prompt without an identity and returns the anonymous session id that owns it",
		Tags:        []string{"Prompts"},
	}, s.handleCreateAnonymousPrompt)

	huma.Register(s.api, huma.Operation{
		OperationID: "createAssistedPrompt",
		Method:      http.MethodPost,
		Path:        "/api/prompts/assisted",
		Summary:     "Create prompt from free text",
		Description: "Analyzes free text into a structured prompt and stores it",
		Tags:        []string{"Prompts"},
	}, s.handleCreateAssistedPrompt)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPrompt",
		Method:      http.MethodGet,
		Path:        "/api/prompts/{id}",
		Summary:     "Get prompt",
		Description: "Returns a prompt by ID",
		Tags:        []string{"Prompts"},
	}, s.handleGetPrompt)

	huma.Register(s.api, huma.Operation{
		OperationID: "updatePrompt",
		Method:      http.MethodPut,
		Path:        "/api/prompts/{id}",
		Summary:     "Update prompt",
		Description: "Replaces a prompt's fields. Anonymous prompts are claimed by the caller",
		Tags:        []string{"Prompts"},
		Security:    bearerSecurity,
	}, s.handleUpdatePrompt)

	huma.Register(s.api, huma.Operation{
		OperationID: "likePrompt",
		Method:      http.MethodPost,
		Path:        "/api/prompts/{id}/like",
		Summary:     "Like prompt",
		Description: "Adds one like to a prompt",
		Tags:        []string{"Prompts"},
	}, s.handleLikePrompt)

	huma.Register(s.api, huma.Operation{
		OperationID: "copyPrompt",
		Method:      http.MethodPost,
		Path:        "/api/prompts/{id}/copy",
		Summary:     "Record prompt copy",
		Description: "Adds one to a prompt's copy counter",
		Tags:        []string{"Prompts"},
	}, s.handleCopyPrompt)

	huma.Register(s.api, huma.Operation{
		OperationID: "listMyPrompts",
		Method:      http.MethodGet,
		Path:        "/api/users/me/prompts",
		Summary:     "List my prompts",
		Description: "Returns the caller's prompts, newest first",
		Tags:        []string{"Prompts"},
		Security:    bearerSecurity,
	}, s.handleListMyPrompts)
}

// === DTOs ===

// ListPromptsInput contains parameters for listing prompts.
type ListPromptsInput struct {
	Page     string `query:"page" doc:"Page number, starting at 1"`
	Search   string `query:"search" doc:"Case-insensitive text to look for"`
	Tag      string `query:"tag" doc:"Only prompts carrying this tag"`
	Category string `query:"category" doc:"Only prompts in this category (exact match)"`
	SortBy   string `query:"sortBy" doc:"latest (default) or popular"`
}

// PromptListOutput wraps a page of prompts for Huma.
type PromptListOutput struct {
	Body *query.Page
}

// PromptRequest is the request body for creating or updating a prompt.
// Fields are optional in the schema; title and content are checked by the service.
type PromptRequest struct {
	_                struct{} `json:"-" additionalProperties:"true"`
	ID               string   `json:"id,omitempty" doc:"Client-generated UUID"`
	Title            string   `json:"title,omitempty" doc:"Prompt title"`
	Content          string   `json:"content,omitempty" doc:"Prompt text"`
	Description      string   `json:"description,omitempty"`
	Example          string   `json:"example,omitempty"`
	Tips             string   `json:"tips,omitempty"`
	ExpectedResponse string   `json:"expectedResponse,omitempty"`
	Model            string   `json:"model,omitempty"`
	PromptType       string   `json:"promptType,omitempty"`
	ComplexityLevel  string   `json:"complexityLevel,omitempty"`
	ContextLength    string   `json:"contextLength,omitempty"`
	Category         string   `json:"category,omitempty" doc:"Defaults to General"`
	UseCases         []string `json:"useCases,omitempty"`
	Tags             any      `json:"tags,omitempty" doc:"Array of strings or a comma-separated string"`
}

func (r *PromptRequest) toInput() *service.PromptInput {
	return &service.PromptInput{
		ID:               r.ID,
		Title:            r.Title,
		Content:          r.Content,
		Description:      r.Description,
		Example:          r.Example,
		Tips:             r.Tips,
		ExpectedResponse: r.ExpectedResponse,
		Model:            r.Model,
		PromptType:       r.PromptType,
		ComplexityLevel:  r.ComplexityLevel,
		ContextLength:    r.ContextLength,
		Category:         r.Category,
		UseCases:         r.UseCases,
		Tags:             domain.TagsFromAny(r.Tags),
	}
}

// CreatePromptInput wraps the create prompt request for Huma.
type CreatePromptInput struct {
	Body PromptRequest
}

// PromptOutput wraps a prompt for Huma.
type PromptOutput struct {
	Body *domain.Prompt
}

// AnonymousPromptResponse is returned for prompts created without an identity.
type AnonymousPromptResponse struct {
	Prompt             *domain.Prompt `json:"prompt"`
	AnonymousSessionID string         `json:"anonymousSessionId" doc:"Keep this to show later that you wrote the prompt"`
}

// AnonymousPromptOutput wraps the anonymous prompt response for Huma.
type AnonymousPromptOutput struct {
	Body AnonymousPromptResponse
}

// TextRequest is a free-text request body.
type TextRequest struct {
	_    struct{} `json:"-" additionalProperties:"true"`
	Text string   `json:"text,omitempty" doc:"Rough description of the prompt"`
}

// AssistedPromptInput wraps the assisted create request for Huma.
type AssistedPromptInput struct {
	Body TextRequest
}

// AssistedPromptResponse is returned for prompts built from free text.
type AssistedPromptResponse struct {
	Prompt             *domain.Prompt    `json:"prompt"`
	Analysis           analyzer.Analysis `json:"analysis"`
	AnonymousSessionID string            `json:"anonymousSessionId,omitempty"`
}

// AssistedPromptOutput wraps the assisted prompt response for Huma.
type AssistedPromptOutput struct {
	Body AssistedPromptResponse
}

// PromptIDInput contains the prompt ID path parameter.
type PromptIDInput struct {
	ID string `path:"id" doc:"Prompt ID"`
}

// UpdatePromptInput wraps the update prompt request for Huma.
type UpdatePromptInput struct {
	ID   string `path:"id" doc:"Prompt ID"`
	Body PromptRequest
}

// LikesResponse reports a prompt's like count.
type LikesResponse struct {
	ID    string `json:"id"`
	Likes int    `json:"likes"`
}

// LikesOutput wraps the like response for Huma.
type LikesOutput struct {
	Body LikesResponse
}

// CopiesResponse reports a prompt's copy count.
type CopiesResponse struct {
	ID     string `json:"id"`
	Copies int    `json:"copies"`
}

// CopiesOutput wraps the copy response for Huma.
type CopiesOutput struct {
	Body CopiesResponse
}

// PromptItemsResponse is a plain list of prompts.
type PromptItemsResponse struct {
	Items []*domain.Prompt `json:"items"`
}

// PromptItemsOutput wraps the prompt list for Huma.
type PromptItemsOutput struct {
	Body PromptItemsResponse
}

// === Handlers ===

func (s *Server) handleListPrompts(ctx context.Context, input *ListPromptsInput) (*PromptListOutput, error) {
	page, err := s.services.Prompts.List(ctx, query.Params{
		Page:     query.ParsePage(input.Page),
		Search:   input.Search,
		Tag:      input.Tag,
		Category: input.Category,
		SortBy:   input.SortBy,
	})
	if err != nil {
		return nil, s.apiError(ctx, err)
	}
	return &PromptListOutput{Body: page}, nil
}

func (s *Server) handleGetPrompt(ctx context.Context, input *PromptIDInput) (*PromptOutput, error) {
	p, err := s.services.Prompts.Get(ctx, input.ID)
	if err != nil {
		return nil, s.apiError(ctx, err)
	}
	return &PromptOutput{Body: p}, nil
}

func (s *Server) handleCreatePrompt(ctx context.Context, input *CreatePromptInput) (*PromptOutput, error) {
	who, err := GetIdentity(ctx)
	if err != nil {
		return nil, s.apiError(ctx, err)
	}

	p, err := s.services.Prompts.Create(ctx, who, input.Body.toInput())
	if err != nil {
		return nil, s.apiError(ctx, err)
	}
	return &PromptOutput{Body: p}, nil
}

func (s *Server) handleCreateAnonymousPrompt(ctx context.Context, input *CreatePromptInput) (*AnonymousPromptOutput, error) {
	res, err := s.services.Prompts.CreateAnonymous(ctx, input.Body.toInput())
	if err != nil {
		return nil, s.apiError(ctx, err)
	}
	return &AnonymousPromptOutput{Body: AnonymousPromptResponse{
		Prompt:             res.Prompt,
		AnonymousSessionID: res.AnonymousSessionID,
	}}, nil
}

func (s *Server) handleCreateAssistedPrompt(ctx context.Context, input *AssistedPromptInput) (*AssistedPromptOutput, error) {
	res, err := s.services.Prompts.CreateAssisted(ctx, OptionalIdentity(ctx), input.Body.Text)
	if err != nil {
		return nil, s.apiError(ctx, err)
	}
	return &AssistedPromptOutput{Body: AssistedPromptResponse{
		Prompt:             res.Prompt,
		Analysis:           res.Analysis,
		AnonymousSessionID: res.AnonymousSessionID,
	}}, nil
}

func (s *Server) handleUpdatePrompt(ctx context.Context, input *UpdatePromptInput) (*PromptOutput, error) {
	who, err := GetIdentity(ctx)
	if err != nil {
		return nil, s.apiError(ctx, err)
	}

	p, err := s.services.Prompts.Update(ctx, who, input.ID, input.Body.toInput())
	if err != nil {
		return nil, s.apiError(ctx, err)
	}
	return &PromptOutput{Body: p}, nil
}

func (s *Server) handleLikePrompt(ctx context.Context, input *PromptIDInput) (*LikesOutput, error) {
	res, err := s.services.Prompts.Like(ctx, input.ID)
	if err != nil {
		return nil, s.apiError(ctx, err)
	}
	return &LikesOutput{Body: LikesResponse{ID: res.ID, Likes: res.Value}}, nil
}

func (s *Server) handleCopyPrompt(ctx context.Context, input *PromptIDInput) (*CopiesOutput, error) {
	res, err := s.services.Prompts.Copy(ctx, input.ID)
	if err != nil {
		return nil, s.apiError(ctx, err)
	}
	return &CopiesOutput{Body: CopiesResponse{ID: res.ID, Copies: res.Value}}, nil
}

func (s *Server) handleListMyPrompts(ctx context.Context, _ *struct{}) (*PromptItemsOutput, error) {
	who, err := GetIdentity(ctx)
	if err != nil {
		return nil, s.apiError(ctx, err)
	}

	prompts, err := s.services.Prompts.ListMine(ctx, who)
	if err != nil {
		return nil, s.apiError(ctx, err)
	}
	if prompts == nil {
		prompts = []*domain.Prompt{}
	}
	return &PromptItemsOutput{Body: PromptItemsResponse{Items: prompts}}, nil
}
