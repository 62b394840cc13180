package domain

import "time"

// Defaults applied when prompts are created.
const (
	DefaultCategory        = "General"
	AnonymousAuthor        = "Anonymous User"
	AnonymousSessionPrefix = "anon-"
)

// Prompt is a reusable text instruction shared in the library.
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
	CreatedAt        Timestamp    `json:"createdAt"`
	UpdatedAt        Timestamp    `json:"updatedAt"`
}

// UserDetails is the author snapshot stored on a prompt.
type UserDetails struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Image string `json:"image,omitempty"`
}

// CanEdit reports whether the caller identified by email may update the prompt.
// Anonymous prompts are editable by any signed-in caller, which claims them.
func (p *Prompt) CanEdit(email string) bool {
	return p.IsAnonymous || (email != "" && p.UserID == email)
}

// Claim transfers ownership of the prompt to the identity.
func (p *Prompt) Claim(who Identity) {
	p.UserID = who.Email
	p.UserDetails = who.Details()
	p.Author = who.DisplayName()
	p.IsAnonymous = false
}

// Touch refreshes UpdatedAt.
func (p *Prompt) Touch(now time.Time) {
	p.UpdatedAt = NewTimestamp(now)
}

// Count returns the current value of the counter.
func (p *Prompt) Count(c Counter) int {
	switch c {
	case CounterLikes:
		return p.Likes
	case CounterCopies:
		return p.Copies
	}
	return 0
}

// Increment adds one to the counter and returns the new value.
func (p *Prompt) Increment(c Counter) int {
	switch c {
	case CounterLikes:
		p.Likes++
		return p.Likes
	case CounterCopies:
		p.Copies++
		return p.Copies
	}
	return 0
}

// Counter names a monotonically increasing engagement counter on a prompt.
type Counter string

// Engagement counters.
const (
	CounterLikes  Counter = "likes"
	CounterCopies Counter = "copies"
)

// Valid reports whether c is a known counter.
func (c Counter) Valid() bool {
	return c == CounterLikes || c == CounterCopies
}
