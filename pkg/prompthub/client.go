// Package prompthub is a Go client for the PromptHub API with response
// caching and debounced auto-save.
package prompthub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "prompthub-go/1.0"
)

// Options configures a Client.
type Options struct {
	// HTTPClient defaults to a client with a 30s timeout.
	HTTPClient *http.Client
	// Token is sent as a bearer token when set.
	Token string
	// CacheTTL applies to prompt lists and tags. Defaults to DefaultCacheTTL.
	CacheTTL time.Duration
	// Now is the cache clock. Defaults to time.Now.
	Now    func() time.Time
	Logger *slog.Logger
}

// Client calls the PromptHub HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
	logger  *slog.Logger

	lists *Cache[*Page]
	tags  *Cache[[]string]
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts Options) *Client {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: defaultTimeout}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    opts.HTTPClient,
		token:   opts.Token,
		logger:  opts.Logger,
		lists:   NewCache[*Page](opts.CacheTTL, opts.Now),
		tags:    NewCache[[]string](opts.CacheTTL, opts.Now),
	}
}

// WithToken returns a copy of the client that authenticates as another
// identity. Caches are shared.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// ListPrompts returns one page of prompts. Results are cached per query.
func (c *Client) ListPrompts(ctx context.Context, params ListParams) (*Page, error) {
	path := "/api/prompts"
	if q := params.values().Encode(); q != "" {
		path += "?" + q
	}

	if page, ok := c.lists.Get(path); ok {
		return page, nil
	}

	var page Page
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	c.lists.Set(path, &page)
	return &page, nil
}

// TopTags returns the most used tags. Results are cached.
func (c *Client) TopTags(ctx context.Context) ([]string, error) {
	const path = "/api/tags"
	if tags, ok := c.tags.Get(path); ok {
		return tags, nil
	}

	var out struct {
		Tags []string `json:"tags"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	c.tags.Set(path, out.Tags)
	return out.Tags, nil
}

// GetPrompt returns one prompt.
func (c *Client) GetPrompt(ctx context.Context, id string) (*Prompt, error) {
	var p Prompt
	if err := c.do(ctx, http.MethodGet, promptPath(id, ""), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// MyPrompts returns the authenticated caller's prompts, newest first.
func (c *Client) MyPrompts(ctx context.Context) ([]*Prompt, error) {
	var out struct {
		Items []*Prompt `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/users/me/prompts", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// CreatePrompt creates a prompt owned by the authenticated caller.
func (c *Client) CreatePrompt(ctx context.Context, in PromptInput) (*Prompt, error) {
	var p Prompt
	if err := c.mutate(ctx, http.MethodPost, "/api/prompts", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateAnonymous creates a prompt without an identity.
func (c *Client) CreateAnonymous(ctx context.Context, in PromptInput) (*AnonymousResult, error) {
	var out AnonymousResult
	if err := c.mutate(ctx, http.MethodPost, "/api/prompts/anonymous", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateAssisted builds a prompt from free text and stores it.
func (c *Client) CreateAssisted(ctx context.Context, text string) (*AssistedResult, error) {
	var out AssistedResult
	if err := c.mutate(ctx, http.MethodPost, "/api/prompts/assisted", textBody{Text: text}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePrompt replaces a prompt's fields.
func (c *Client) UpdatePrompt(ctx context.Context, id string, in PromptInput) (*Prompt, error) {
	var p Prompt
	if err := c.mutate(ctx, http.MethodPut, promptPath(id, ""), in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Like adds a like and returns the new count.
func (c *Client) Like(ctx context.Context, id string) (int, error) {
	var out struct {
		Likes int `json:"likes"`
	}
	if err := c.mutate(ctx, http.MethodPost, promptPath(id, "like"), nil, &out); err != nil {
		return 0, err
	}
	return out.Likes, nil
}

// Copy records a copy and returns the new count.
func (c *Client) Copy(ctx context.Context, id string) (int, error) {
	var out struct {
		Copies int `json:"copies"`
	}
	if err := c.mutate(ctx, http.MethodPost, promptPath(id, "copy"), nil, &out); err != nil {
		return 0, err
	}
	return out.Copies, nil
}

// Analyze derives prompt metadata from free text without storing anything.
func (c *Client) Analyze(ctx context.Context, text string) (*Analysis, error) {
	var a Analysis
	if err := c.do(ctx, http.MethodPost, "/api/analyze", textBody{Text: text}, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Health returns the server health report.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// InvalidateCache drops all cached lists and tags.
func (c *Client) InvalidateCache() {
	c.lists.Invalidate()
	c.tags.Invalidate()
}

type textBody struct {
	Text string `json:"text"`
}

func promptPath(id, action string) string {
	p := "/api/prompts/" + url.PathEscape(id)
	if action != "" {
		p += "/" + action
	}
	return p
}

func (p ListParams) values() url.Values {
	v := url.Values{}
	if p.Page > 1 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	if p.Tag != "" {
		v.Set("tag", p.Tag)
	}
	if p.Category != "" {
		v.Set("category", p.Category)
	}
	if p.SortBy != "" {
		v.Set("sortBy", p.SortBy)
	}
	return v
}

// mutate performs a write and invalidates cached reads when it succeeds.
func (c *Client) mutate(ctx context.Context, method, path string, in, out any) error {
	if err := c.do(ctx, method, path, in, out); err != nil {
		return err
	}
	c.InvalidateCache()
	return nil
}

// do executes a request and decodes the JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug("prompthub request", "method", method, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(resp, raw)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
