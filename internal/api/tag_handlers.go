package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTopTags",
		Method:      http.MethodGet,
		Path:        "/api/tags",
		Summary:     "List top tags",
		Description: "Returns up to five of the most used tags in alphabetical order",
		Tags:        []string{"Tags"},
	}, s.handleListTopTags)
}

// TopTagsResponse contains the most used tags.
type TopTagsResponse struct {
	Tags []string `json:"tags" doc:"At most five tags, alphabetical"`
}

// TopTagsOutput wraps the top tags response for Huma.
type TopTagsOutput struct {
	Body TopTagsResponse
}

func (s *Server) handleListTopTags(ctx context.Context, _ *struct{}) (*TopTagsOutput, error) {
	tags, err := s.services.Tags.TopTags(ctx)
	if err != nil {
		return nil, s.apiError(ctx, err)
	}
	return &TopTagsOutput{Body: TopTagsResponse{Tags: tags}}, nil
}
