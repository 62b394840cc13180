// Package query implements the in-memory filtering, ordering and paging
// applied to prompt documents after they are read from the store.
package query

import (
	"slices"
	"strconv"
	"strings"

	"github.com/prompthub/prompthub-server/internal/domain"
)

// PageSize is the fixed number of prompts per page.
const PageSize = 12

// Sort orders for prompt listings.
const (
	SortLatest  = "latest"
	SortPopular = "popular"
)

// Params are the listing inputs after parsing.
type Params struct {
	Page     int
	Search   string
	Tag      string
	Category string
	SortBy   string
}

// Page is one page of listing results.
type Page struct {
	Items        []*domain.Prompt `json:"items"`
	Total        int              `json:"total"`
	Page         int              `json:"page"`
	TotalPages   int              `json:"totalPages"`
	ItemsPerPage int              `json:"itemsPerPage"`
}

// EmptyPage is returned when the store cannot be read.
func EmptyPage() *Page {
	return &Page{
		Items:        []*domain.Prompt{},
		Page:         1,
		ItemsPerPage: PageSize,
	}
}

// ParsePage converts the raw page parameter; anything not a positive integer is page 1.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Normalize fills defaults.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.SortBy != SortPopular {
		p.SortBy = SortLatest
	}
	return p
}

// MatchesTag reports whether the prompt carries tag, compared case-insensitively
// against its normalized tag set.
func MatchesTag(p *domain.Prompt, tag string) bool {
	return p.Tags.Has(tag)
}

// MatchesSearch reports whether term occurs, case-insensitively, in the title,
// content, description, category or any normalized tag.
func MatchesSearch(p *domain.Prompt, term string) bool {
	term = strings.ToLower(term)
	for _, field := range []string{p.Title, p.Content, p.Description, p.Category} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	for _, tag := range p.Tags.Normalized() {
		if strings.Contains(tag, term) {
			return true
		}
	}
	return false
}

// Filter applies the tag filter and then the search filter. The category
// filter is applied by the store before prompts reach this function.
func Filter(prompts []*domain.Prompt, params Params) []*domain.Prompt {
	out := make([]*domain.Prompt, 0, len(prompts))
	for _, p := range prompts {
		if params.Tag != "" && !MatchesTag(p, params.Tag) {
			continue
		}
		if params.Search != "" && !MatchesSearch(p, params.Search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Sort orders prompts in place. Equal elements keep their input order.
func Sort(prompts []*domain.Prompt, sortBy string) {
	if sortBy == SortPopular {
		slices.SortStableFunc(prompts, func(a, b *domain.Prompt) int {
			return b.Likes - a.Likes
		})
		return
	}
	slices.SortStableFunc(prompts, func(a, b *domain.Prompt) int {
		return b.CreatedAt.Effective().Compare(a.CreatedAt.Effective())
	})
}

// Paginate slices one page out of the filtered, sorted prompts.
func Paginate(prompts []*domain.Prompt, page int) *Page {
	if page < 1 {
		page = 1
	}
	total := len(prompts)

	// Compare in pages first; (page-1)*PageSize overflows for huge pages.
	start := total
	if page-1 < (total+PageSize-1)/PageSize {
		start = (page - 1) * PageSize
	}
	end := min(start+PageSize, total)

	items := make([]*domain.Prompt, end-start)
	copy(items, prompts[start:end])

	return &Page{
		Items:        items,
		Total:        total,
		Page:         page,
		TotalPages:   (total + PageSize - 1) / PageSize,
		ItemsPerPage: PageSize,
	}
}

// Run filters, sorts and paginates prompts that already passed the category filter.
func Run(prompts []*domain.Prompt, params Params) *Page {
	params = params.Normalize()
	filtered := Filter(prompts, params)
	Sort(filtered, params.SortBy)
	return Paginate(filtered, params.Page)
}
