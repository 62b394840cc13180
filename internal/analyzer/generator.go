package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/prompthub/prompthub-server/internal/domain"
)

// Generator asks a language model for the raw JSON analysis of text.
type Generator interface {
	Generate(ctx context.Context, text string) (string, error)
	Name() string
}

// ErrNoJSON is returned when a model reply holds no JSON object.
var ErrNoJSON = errors.New("no JSON object in model response")

const systemPrompt = `You turn rough prompt ideas into structured entries for a shared prompt library.
Reply with a single JSON object and nothing else. Use these keys:
title (at most 50 characters), content (the improved prompt, use {placeholders} for variable parts),
description, example, expectedResponse, tags (up to 5 lowercase strings),
category (Coding, Writing, Education or General), promptType (Question, Conversation, Role-playing or Instruction),
complexityLevel (Beginner, Intermediate, Advanced or Expert), useCases (array of strings),
tips, model (GPT-4, Claude or Any), contextLength (Short, Medium or Long).`

// ExtractJSON returns the outermost JSON object in a model reply,
// stripping code fences and surrounding prose.
func ExtractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", ErrNoJSON
	}
	return s[start : end+1], nil
}

// modelReply mirrors Analysis but tolerates tags in either shape.
type modelReply struct {
	Title            string      `json:"title"`
	Content          string      `json:"content"`
	Description      string      `json:"description"`
	Example          string      `json:"example"`
	ExpectedResponse string      `json:"expectedResponse"`
	Tags             domain.Tags `json:"tags"`
	Category         string      `json:"category"`
	PromptType       string      `json:"promptType"`
	ComplexityLevel  string      `json:"complexityLevel"`
	UseCases         []string    `json:"useCases"`
	Tips             string      `json:"tips"`
	Model            string      `json:"model"`
	ContextLength    string      `json:"contextLength"`
}

func parseReply(raw string) (Analysis, error) {
	body, err := ExtractJSON(raw)
	if err != nil {
		return Analysis{}, err
	}

	var r modelReply
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		return Analysis{}, fmt.Errorf("decode model response: %w", err)
	}

	tags := r.Tags.Normalized()
	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}

	return Analysis{
		Title:            truncate(strings.TrimSpace(r.Title), maxTitleLength),
		Content:          strings.TrimSpace(r.Content),
		Description:      strings.TrimSpace(r.Description),
		Example:          strings.TrimSpace(r.Example),
		ExpectedResponse: strings.TrimSpace(r.ExpectedResponse),
		Tags:             tags,
		Category:         r.Category,
		PromptType:       r.PromptType,
		ComplexityLevel:  r.ComplexityLevel,
		UseCases:         r.UseCases,
		Tips:             r.Tips,
		Model:            r.Model,
		ContextLength:    r.ContextLength,
	}, nil
}
