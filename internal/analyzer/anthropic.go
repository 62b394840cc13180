package analyzer

import (
	"context"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"
)

const (
	defaultAnthropicModel = "claude-3-5-haiku-latest"
	anthropicMaxTokens    = 1500
)

// AnthropicGenerator uses the Anthropic Messages API.
type AnthropicGenerator struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicGenerator creates a generator. An empty baseURL uses the public API.
func NewAnthropicGenerator(apiKey, model, baseURL string) *AnthropicGenerator {
	var opts []anthropic.ClientOption
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(strings.TrimSuffix(baseURL, "/")))
	}
	if model == "" {
		model = defaultAnthropicModel
	}
	return &AnthropicGenerator{
		client: anthropic.NewClient(apiKey, opts...),
		model:  model,
	}
}

func (g *AnthropicGenerator) Name() string { return "anthropic" }

func (g *AnthropicGenerator) Generate(ctx context.Context, text string) (string, error) {
	resp, err := g.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(g.model),
		System:    systemPrompt,
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.Message{
			{Role: anthropic.RoleUser, Content: []anthropic.MessageContent{
				{Type: "text", Text: &text},
			}},
		},
	})
	if err != nil {
		return "", err
	}

	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != nil {
			return *block.Text, nil
		}
	}
	return "", ErrNoJSON
}
