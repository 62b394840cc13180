package query

import (
	"fmt"
	"math"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prompthub/prompthub-server/internal/domain"
)

func examplePrompts() []*domain.Prompt {
	return []*domain.Prompt{
		{ID: "1", Title: "Write a poem", Tags: domain.TagList("writing", "poetry"), Likes: 3},
		{ID: "2", Title: "Debug code", Tags: domain.TagString("coding, python"), Likes: 10},
	}
}

func ids(prompts []*domain.Prompt) []string {
	out := make([]string, len(prompts))
	for i, p := range prompts {
		out[i] = p.ID
	}
	return out
}

func TestRun_TagFilterAcrossShapes(t *testing.T) {
	page := Run(examplePrompts(), Params{Tag: "coding"})

	assert.Equal(t, []string{"2"}, ids(page.Items))
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, PageSize, page.ItemsPerPage)
}

func TestRun_PopularOrdersByLikes(t *testing.T) {
	page := Run(examplePrompts(), Params{SortBy: SortPopular})

	assert.Equal(t, []string{"2", "1"}, ids(page.Items))
}

func TestMatchesTag_IsExactNotSubstring(t *testing.T) {
	p := &domain.Prompt{Tags: domain.TagList("Python3")}

	assert.True(t, MatchesTag(p, "python3"))
	assert.True(t, MatchesTag(p, "PYTHON3"))
	assert.False(t, MatchesTag(p, "python"))
}

func TestMatchesSearch(t *testing.T) {
	p := &domain.Prompt{
		Title:       "Alpha",
		Content:     "Bravo body",
		Description: "Charlie",
		Category:    "Delta",
		Tags:        domain.TagString("Echo, Foxtrot"),
	}

	for _, term := range []string{"alpha", "BODY", "arli", "delta", "echo", "trot"} {
		assert.True(t, MatchesSearch(p, term), term)
	}
	assert.False(t, MatchesSearch(p, "golf"))
}

func TestFilter_TagAndSearchCombineWithAnd(t *testing.T) {
	prompts := []*domain.Prompt{
		{ID: "a", Title: "python tips", Tags: domain.TagList("coding")},
		{ID: "b", Title: "go tips", Tags: domain.TagList("coding")},
		{ID: "c", Title: "python poems", Tags: domain.TagList("writing")},
	}

	got := Filter(prompts, Params{Tag: "coding", Search: "python"})
	assert.Equal(t, []string{"a"}, ids(got))
}

func TestSort_LatestTreatsUnusableTimestampsAsEpoch(t *testing.T) {
	prompts := []*domain.Prompt{
		{ID: "none"},
		{ID: "old", CreatedAt: domain.ISOTimestamp(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))},
		{ID: "new", CreatedAt: domain.NewTimestamp(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))},
		{ID: "none2"},
	}

	Sort(prompts, SortLatest)
	assert.Equal(t, []string{"new", "old", "none", "none2"}, ids(prompts))
}

func TestSort_IsStable(t *testing.T) {
	prompts := []*domain.Prompt{{ID: "a", Likes: 1}, {ID: "b", Likes: 5}, {ID: "c", Likes: 1}, {ID: "d", Likes: 5}}

	Sort(prompts, SortPopular)
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids(prompts))
}

func manyPrompts(n int) []*domain.Prompt {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	prompts := make([]*domain.Prompt, n)
	for i := range n {
		prompts[i] = &domain.Prompt{
			ID:        fmt.Sprintf("p%02d", i),
			Title:     fmt.Sprintf("Prompt %d", i),
			Likes:     i % 7,
			CreatedAt: domain.NewTimestamp(base.Add(time.Duration(i%5) * time.Hour)),
		}
	}
	return prompts
}

func TestPaginate_ConcatenationReproducesSortedSet(t *testing.T) {
	for _, sortBy := range []string{SortLatest, SortPopular} {
		prompts := manyPrompts(29)

		first := Run(prompts, Params{SortBy: sortBy})
		require.Equal(t, 29, first.Total)
		require.Equal(t, 3, first.TotalPages)

		var all []*domain.Prompt
		for page := 1; page <= first.TotalPages; page++ {
			p := Run(prompts, Params{SortBy: sortBy, Page: page})
			if page < first.TotalPages {
				assert.Len(t, p.Items, PageSize)
			}
			all = append(all, p.Items...)
		}

		expected := slices.Clone(prompts)
		Sort(expected, sortBy)
		assert.Equal(t, ids(expected), ids(all), sortBy)
	}
}

func TestPaginate_OutOfRange(t *testing.T) {
	page := Run(manyPrompts(5), Params{Page: 4})

	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 4, page.Page)
}

func TestPaginate_HugePageDoesNotOverflow(t *testing.T) {
	for _, raw := range []string{"9223372036854775807", fmt.Sprint(math.MaxInt / PageSize), fmt.Sprint(math.MaxInt/PageSize + 2)} {
		page := Run(manyPrompts(1), Params{Page: ParsePage(raw)})

		assert.Empty(t, page.Items, raw)
		assert.NotNil(t, page.Items, raw)
		assert.Equal(t, 1, page.Total, raw)
		assert.Equal(t, 1, page.TotalPages, raw)
	}

	page := Paginate(manyPrompts(3), math.MaxInt)
	assert.Empty(t, page.Items)
	assert.Equal(t, math.MaxInt, page.Page)
}

func TestRun_SortMonotonic(t *testing.T) {
	prompts := manyPrompts(40)

	popular := Run(prompts, Params{SortBy: SortPopular, Page: 1}).Items
	for i := 1; i < len(popular); i++ {
		assert.GreaterOrEqual(t, popular[i-1].Likes, popular[i].Likes)
	}

	latest := Run(prompts, Params{Page: 1}).Items
	for i := 1; i < len(latest); i++ {
		assert.False(t, latest[i-1].CreatedAt.Effective().Before(latest[i].CreatedAt.Effective()))
	}
}

func TestRun_Idempotent(t *testing.T) {
	prompts := manyPrompts(20)
	params := Params{Page: 2, Search: "prompt", SortBy: SortPopular}

	assert.Equal(t, ids(Run(prompts, params).Items), ids(Run(prompts, params).Items))
}

func TestParsePage(t *testing.T) {
	assert.Equal(t, 1, ParsePage(""))
	assert.Equal(t, 1, ParsePage("abc"))
	assert.Equal(t, 1, ParsePage("0"))
	assert.Equal(t, 1, ParsePage("-3"))
	assert.Equal(t, 7, ParsePage("7"))
}

func TestParams_NormalizeUnknownSort(t *testing.T) {
	assert.Equal(t, SortLatest, Params{SortBy: "random"}.Normalize().SortBy)
	assert.Equal(t, SortPopular, Params{SortBy: SortPopular}.Normalize().SortBy)
}

func TestEmptyPage(t *testing.T) {
	page := EmptyPage()

	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 0, page.Total)
	assert.Equal(t, 0, page.TotalPages)
	assert.NotNil(t, page.Items)
}
