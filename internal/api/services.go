package api

import "github.com/prompthub/prompthub-server/internal/service"

// Services groups the business logic services used by the API server.
type Services struct {
	Prompts *service.PromptService
	Tags    *service.TagService
}
