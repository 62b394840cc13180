package prompthub

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Prompt is a prompt document as returned by the server.
type Prompt struct {
	ID               string       `json:"id"`
	Title            string       `json:"title"`
	Content          string       `json:"content"`
	Description      string       `json:"description,omitempty"`
	Example          string       `json:"example,omitempty"`
	Tips             string       `json:"tips,omitempty"`
	ExpectedResponse string       `json:"expectedResponse,omitempty"`
	Model            string       `json:"model,omitempty"`
	PromptType       string       `json:"promptType,omitempty"`
	ComplexityLevel  string       `json:"complexityLevel,omitempty"`
	ContextLength    string       `json:"contextLength,omitempty"`
	Category         string       `json:"category,omitempty"`
	UseCases         []string     `json:"useCases,omitempty"`
	Tags             Tags         `json:"tags"`
	Author           string       `json:"author,omitempty"`
	UserID           string       `json:"user_id,omitempty"`
	UserDetails      *UserDetails `json:"user_details,omitempty"`
	IsAnonymous      bool         `json:"isAnonymous"`
	Likes            int          `json:"likes"`
	Copies           int          `json:"copies"`
	CreatedAt        Time         `json:"createdAt"`
	UpdatedAt        Time         `json:"updatedAt"`
}

// UserDetails is the author snapshot stored on a prompt.
type UserDetails struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Image string `json:"image,omitempty"`
}

// PromptInput is the body for creating or updating a prompt.
type PromptInput struct {
	ID               string   `json:"id,omitempty"`
	Title            string   `json:"title"`
	Content          string   `json:"content"`
	Description      string   `json:"description,omitempty"`
	Example          string   `json:"example,omitempty"`
	Tips             string   `json:"tips,omitempty"`
	ExpectedResponse string   `json:"expectedResponse,omitempty"`
	Model            string   `json:"model,omitempty"`
	PromptType       string   `json:"promptType,omitempty"`
	ComplexityLevel  string   `json:"complexityLevel,omitempty"`
	ContextLength    string   `json:"contextLength,omitempty"`
	Category         string   `json:"category,omitempty"`
	UseCases         []string `json:"useCases,omitempty"`
	Tags             []string `json:"tags,omitempty"`
}

// Page is one page of a prompt listing.
type Page struct {
	Items        []*Prompt `json:"items"`
	Total        int       `json:"total"`
	Page         int       `json:"page"`
	TotalPages   int       `json:"totalPages"`
	ItemsPerPage int       `json:"itemsPerPage"`
}

// ListParams filters a prompt listing. Zero values are omitted.
type ListParams struct {
	Page     int
	Search   string
	Tag      string
	Category string
	SortBy   string
}

// Analysis is structured metadata derived from free text.
type Analysis struct {
	Title            string   `json:"title"`
	Content          string   `json:"content"`
	Description      string   `json:"description"`
	Example          string   `json:"example"`
	ExpectedResponse string   `json:"expectedResponse"`
	Tags             []string `json:"tags"`
	Category         string   `json:"category"`
	PromptType       string   `json:"promptType"`
	ComplexityLevel  string   `json:"complexityLevel"`
	UseCases         []string `json:"useCases"`
	Tips             string   `json:"tips"`
	Model            string   `json:"model"`
	ContextLength    string   `json:"contextLength"`
	Source           string   `json:"source"`
}

// AnonymousResult is returned when a prompt is created without an identity.
type AnonymousResult struct {
	Prompt             *Prompt `json:"prompt"`
	AnonymousSessionID string  `json:"anonymousSessionId"`
}

// AssistedResult is returned when a prompt is built from free text.
type AssistedResult struct {
	Prompt             *Prompt  `json:"prompt"`
	Analysis           Analysis `json:"analysis"`
	AnonymousSessionID string   `json:"anonymousSessionId,omitempty"`
}

// Health is the server health report.
type Health struct {
	Status     string `json:"status"`
	Components map[string]struct {
		Status  string `json:"status"`
		Latency string `json:"latency,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"components"`
}

// Tags decodes both the list form and the legacy comma-separated form.
type Tags []string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Tags) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = nil
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		var out Tags
		for part := range strings.SplitSeq(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		*t = out
		return nil
	default:
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("tags: %w", err)
		}
		*t = list
		return nil
	}
}

// Time decodes the timestamp shapes the server returns: an RFC 3339 string
// or a {seconds, nanoseconds} object.
type Time struct {
	time.Time
}

type structuredTime struct {
	Seconds     *int64 `json:"seconds"`
	Nanoseconds int64  `json:"nanoseconds"`
	USeconds    *int64 `json:"_seconds"`
	UNanos      int64  `json:"_nanoseconds"`
}

// UnmarshalJSON implements json.Unmarshaler. Unknown shapes decode to the zero time.
func (t *Time) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			t.Time = time.Time{}
			return nil //nolint:nilerr // Unparseable timestamps are tolerated
		}
		t.Time = parsed.UTC()
		return nil
	}

	var st structuredTime
	if err := json.Unmarshal(data, &st); err != nil {
		t.Time = time.Time{}
		return nil //nolint:nilerr // Unknown shapes are tolerated
	}
	switch {
	case st.Seconds != nil:
		t.Time = time.Unix(*st.Seconds, st.Nanoseconds).UTC()
	case st.USeconds != nil:
		t.Time = time.Unix(*st.USeconds, st.UNanos).UTC()
	default:
		t.Time = time.Time{}
	}
	return nil
}
