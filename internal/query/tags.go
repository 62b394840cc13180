package query

import (
	"cmp"
	"slices"

	"github.com/prompthub/prompthub-server/internal/domain"
)

// TopTagLimit is the number of suggested tags.
const TopTagLimit = 5

// TagCount is a normalized tag and the number of prompts carrying it.
type TagCount struct {
	Tag   string
	Count int
}

// CountTags counts each normalized tag once per occurrence across prompts.
// Empty tags are ignored.
func CountTags(prompts []*domain.Prompt) map[string]int {
	counts := make(map[string]int)
	for _, p := range prompts {
		for _, tag := range p.Tags.Normalized() {
			if tag == "" {
				continue
			}
			counts[tag]++
		}
	}
	return counts
}

// RankTags orders tags by count descending, ties alphabetically.
func RankTags(counts map[string]int) []TagCount {
	ranked := make([]TagCount, 0, len(counts))
	for tag, n := range counts {
		ranked = append(ranked, TagCount{Tag: tag, Count: n})
	}
	slices.SortFunc(ranked, func(a, b TagCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Tag, b.Tag)
	})
	return ranked
}

// TopTags returns the most frequent tags, at most TopTagLimit, sorted alphabetically.
func TopTags(prompts []*domain.Prompt) []string {
	ranked := RankTags(CountTags(prompts))
	if len(ranked) > TopTagLimit {
		ranked = ranked[:TopTagLimit]
	}

	tags := make([]string, len(ranked))
	for i, tc := range ranked {
		tags[i] = tc.Tag
	}
	slices.Sort(tags)
	return tags
}
