package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallback_TeachingKidsMath(t *testing.T) {
	a := Fallback("create a prompt for teaching kids math")

	assert.Equal(t, CategoryEducation, a.Category)
	assert.Equal(t, "Teaching kids math", a.Title)
	assert.Equal(t, []string{"teaching", "kids", "math"}, a.Tags)
	assert.Equal(t, TypeInstruction, a.PromptType)
	assert.Equal(t, LevelBeginner, a.ComplexityLevel)
	assert.Equal(t, LengthShort, a.ContextLength)
	assert.Equal(t, ModelAny, a.Model)
	assert.Equal(t, []string{"Learning"}, a.UseCases)
	assert.Equal(t, SourceFallback, a.Source)
}

func TestFallback_Title(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"pattern cut at punctuation", "Design a workflow that summarizes meeting notes. Keep it short", "Summarizes meeting notes"},
		{"long words", "please summarise quarterly numbers nicely", "Please summarise quarterly"},
		{"short words only", "fix my bug now", "Fix my bug now"},
		{"empty", "   ", untitledPrompt},
		{"truncated", "build a tool for " + strings.Repeat("abcdefghij", 6), "A" + strings.Repeat("abcdefghij", 5)[1:] + ellipsis},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fallback(tt.input).Title)
		})
	}
}

func TestFallback_Category(t *testing.T) {
	tests := map[string]string{
		"debug this python function":          CategoryCoding,
		"write a poem about autumn":           CategoryWriting,
		"explain photosynthesis to a student": CategoryEducation,
		"plan a weekend trip":                 CategoryGeneral,
		"write code that explains recursion":  CategoryCoding,
		"teach the capital cities of europe":  CategoryEducation,
		"design a rest api for orders":        CategoryCoding,
		"tune this sql query":                 CategoryCoding,
		"study the visual arts":               CategoryEducation,
	}

	for input, want := range tests {
		assert.Equal(t, want, Fallback(input).Category, input)
	}
}

func TestFallback_PromptType(t *testing.T) {
	assert.Equal(t, TypeQuestion, Fallback("what is a monad?").PromptType)
	assert.Equal(t, TypeConversation, Fallback("have a conversation about films").PromptType)
	assert.Equal(t, TypeRolePlaying, Fallback("act as a pirate captain").PromptType)
	assert.Equal(t, TypeInstruction, Fallback("summarize the article").PromptType)
}

func TestFallback_RolePlayPicksClaude(t *testing.T) {
	a := Fallback("pretend you are a medieval innkeeper")
	assert.Equal(t, TypeRolePlaying, a.PromptType)
	assert.Equal(t, ModelClaude, a.Model)
}

func TestFallback_WordCountBuckets(t *testing.T) {
	words := func(n int) string { return strings.TrimSpace(strings.Repeat("word ", n)) }

	short := Fallback(words(10))
	assert.Equal(t, LevelBeginner, short.ComplexityLevel)
	assert.Equal(t, LengthShort, short.ContextLength)

	mid := Fallback(words(30))
	assert.Equal(t, LevelIntermediate, mid.ComplexityLevel)
	assert.Equal(t, LengthMedium, mid.ContextLength)

	boundary := Fallback(words(17))
	assert.Equal(t, LevelIntermediate, boundary.ComplexityLevel)
	assert.Equal(t, LengthShort, boundary.ContextLength)

	long := Fallback(words(60))
	assert.Equal(t, LevelAdvanced, long.ComplexityLevel)
	assert.Equal(t, LengthLong, long.ContextLength)
	assert.Equal(t, ModelGPT4, long.Model)
}

func TestFallback_Tags(t *testing.T) {
	a := Fallback("Explain recursion, recursion again, with examples from python and golang and rust programs")
	assert.Equal(t, []string{"explain", "recursion", "examples", "python", "golang"}, a.Tags)
	assert.LessOrEqual(t, len(a.Tags), maxTags)
}

func TestFallback_UseCases(t *testing.T) {
	assert.Equal(t, []string{"Content Creation"}, Fallback("plan a weekend trip").UseCases)
	assert.Equal(t,
		[]string{"Content Creation", "Data Analysis", "Business"},
		Fallback("write a report on sales data").UseCases)
	assert.Equal(t,
		[]string{"Problem Solving", "Coding"},
		Fallback("debug my code").UseCases)
	assert.Equal(t, []string{"Content Creation"}, Fallback("add a prefix to each name").UseCases)
}

func TestFallback_Placeholders(t *testing.T) {
	a := Fallback("Explain the Topic to a young audience. Keep the topic simple.")

	assert.Equal(t, "Explain the {topic} to a young {audience}. Keep the {topic} simple.", a.Content)
	assert.Contains(t, a.Tips, "{topic}, {audience}")

	plain := Fallback("Summarize topical news")
	assert.Equal(t, "Summarize topical news", plain.Content, "whole words only")
	assert.NotContains(t, plain.Tips, "{")
}

func TestFallback_ContentTruncated(t *testing.T) {
	a := Fallback(strings.Repeat("x", 600))
	assert.Len(t, a.Content, maxContentLength+len(ellipsis))
	assert.True(t, strings.HasSuffix(a.Content, ellipsis))
}

func TestFallback_Deterministic(t *testing.T) {
	in := "generate a marketing email for a new product launch"
	assert.Equal(t, Fallback(in), Fallback(in))
}
