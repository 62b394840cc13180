package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/prompthub/prompthub-server/internal/analyzer"
	domainerrors "github.com/prompthub/prompthub-server/internal/errors"
)

func (s *Server) registerAnalyzeRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "analyzePrompt",
		Method:      http.MethodPost,
		Path:        "/api/analyze",
		Summary:     "Analyze prompt idea",
		Description: "Derives title, tags, category and other metadata from free text without storing anything",
		Tags:        []string{"Analysis"},
	}, s.handleAnalyze)
}

// AnalyzeInput wraps the analyze request for Huma.
type AnalyzeInput struct {
	Body TextRequest
}

// AnalyzeOutput wraps the analysis for Huma.
type AnalyzeOutput struct {
	Body analyzer.Analysis
}

func (s *Server) handleAnalyze(ctx context.Context, input *AnalyzeInput) (*AnalyzeOutput, error) {
	if strings.TrimSpace(input.Body.Text) == "" {
		return nil, s.apiError(ctx, domainerrors.ValidationWithDetails("text is required", map[string]string{"text": "is required"}))
	}
	return &AnalyzeOutput{Body: s.services.Prompts.Analyze(ctx, input.Body.Text)}, nil
}
