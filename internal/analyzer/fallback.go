package analyzer

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxTitleLength   = 50
	maxContentLength = 480
	maxTags          = 5
	ellipsis         = "..."
	untitledPrompt   = "Untitled Prompt"
)

var (
	titlePattern    = regexp.MustCompile(`(?i)\b(?:create|generate|make|build|design)\b.*?\b(?:for|that|to)\s+(.+)`)
	sentenceEnd     = regexp.MustCompile(`[.!?;\n]`)
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
)

var stopWords = map[string]struct{}{
	"about": {}, "above": {}, "after": {}, "again": {}, "also": {}, "because": {},
	"been": {}, "before": {}, "being": {}, "below": {}, "between": {}, "both": {},
	"could": {}, "does": {}, "doing": {}, "down": {}, "during": {}, "each": {},
	"from": {}, "further": {}, "have": {}, "having": {}, "here": {}, "into": {},
	"just": {}, "like": {}, "make": {}, "more": {}, "most": {}, "only": {},
	"other": {}, "over": {}, "please": {}, "prompt": {}, "same": {}, "should": {},
	"some": {}, "such": {}, "than": {}, "that": {}, "their": {}, "them": {},
	"then": {}, "there": {}, "these": {}, "they": {}, "this": {}, "those": {},
	"through": {}, "under": {}, "until": {}, "very": {}, "want": {}, "what": {},
	"when": {}, "where": {}, "which": {}, "while": {}, "will": {}, "with": {},
	"would": {}, "your": {}, "create": {}, "generate": {},
}

type keywordBucket struct {
	label    string
	keywords []string
}

// Checked in order; first match wins.
var categoryBuckets = []keywordBucket{
	{CategoryCoding, []string{"code", "coding", "program", "function", "debug", "python", "javascript", "typescript", "sql", "algorithm", "software", "script", "api"}},
	{CategoryWriting, []string{"write", "writing", "essay", "story", "poem", "blog", "article", "novel", "copywriting", "narrative"}},
	{CategoryEducation, []string{"teach", "learn", "student", "lesson", "explain", "education", "tutor", "study", "course", "quiz"}},
}

var conversationKeywords = []string{"conversation", "chat", "dialogue", "discuss", "talk"}

var rolePlayKeywords = []string{"act as", "pretend", "role", "you are a", "persona", "character"}

// Union is emitted in this order.
var useCaseBuckets = []keywordBucket{
	{"Content Creation", []string{"write", "content", "blog", "article", "story", "post", "copy", "creative"}},
	{"Data Analysis", []string{"data", "analy", "statistic", "chart", "dataset", "metric", "report"}},
	{"Problem Solving", []string{"solve", "problem", "fix", "troubleshoot", "debug", "issue"}},
	{"Coding", []string{"code", "program", "function", "script", "software", "develop"}},
	{"Learning", []string{"learn", "teach", "explain", "study", "understand", "lesson"}},
	{"Business", []string{"business", "market", "sales", "customer", "strategy", "startup", "company"}},
}

const defaultUseCase = "Content Creation"

var placeholderWords = []string{"topic", "concept", "subject", "audience", "product", "industry", "language", "company"}

var placeholderPatterns = func() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(placeholderWords))
	for i, w := range placeholderWords {
		patterns[i] = regexp.MustCompile(`(?i)\b` + w + `\b`)
	}
	return patterns
}()

// Fallback derives an Analysis from text without any I/O.
func Fallback(text string) Analysis {
	text = strings.TrimSpace(text)
	lower := strings.ToLower(text)
	wordCount := len(strings.Fields(text))

	complexity := complexityFor(wordCount)
	promptType := promptTypeFor(lower)

	content, placeholders := insertPlaceholders(text)

	return Analysis{
		Title:           deriveTitle(text),
		Content:         truncate(content, maxContentLength),
		Tags:            deriveTags(lower),
		Category:        firstMatch(lower, categoryBuckets, CategoryGeneral),
		PromptType:      promptType,
		ComplexityLevel: complexity,
		UseCases:        deriveUseCases(lower),
		Tips:            tipsFor(placeholders),
		Model:           modelFor(complexity, promptType),
		ContextLength:   contextLengthFor(wordCount),
		Source:          SourceFallback,
	}
}

func deriveTitle(text string) string {
	var title string

	if m := titlePattern.FindStringSubmatch(text); m != nil {
		phrase := m[1]
		if loc := sentenceEnd.FindStringIndex(phrase); loc != nil {
			phrase = phrase[:loc[0]]
		}
		title = strings.TrimSpace(phrase)
	}

	if title == "" {
		var long []string
		for _, w := range strings.Fields(text) {
			if utf8.RuneCountInString(w) > 4 {
				long = append(long, w)
				if len(long) == 3 {
					break
				}
			}
		}
		title = strings.Join(long, " ")
	}

	if title == "" {
		words := strings.Fields(text)
		title = strings.Join(words[:min(len(words), 5)], " ")
	}

	if title == "" {
		return untitledPrompt
	}

	return truncate(capitalize(title), maxTitleLength)
}

func deriveTags(lower string) []string {
	tags := make([]string, 0, maxTags)
	for _, w := range nonAlphanumeric.Split(lower, -1) {
		if len(w) <= 3 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		if slices.Contains(tags, w) {
			continue
		}
		tags = append(tags, w)
		if len(tags) == maxTags {
			break
		}
	}
	return tags
}

func firstMatch(lower string, buckets []keywordBucket, fallback string) string {
	for _, b := range buckets {
		if containsAny(lower, b.keywords) {
			return b.label
		}
	}
	return fallback
}

func deriveUseCases(lower string) []string {
	var cases []string
	for _, b := range useCaseBuckets {
		if containsAny(lower, b.keywords) {
			cases = append(cases, b.label)
		}
	}
	if len(cases) == 0 {
		return []string{defaultUseCase}
	}
	return cases
}

func promptTypeFor(lower string) string {
	switch {
	case strings.Contains(lower, "?"):
		return TypeQuestion
	case containsAny(lower, conversationKeywords):
		return TypeConversation
	case containsAny(lower, rolePlayKeywords):
		return TypeRolePlaying
	default:
		return TypeInstruction
	}
}

func complexityFor(words int) string {
	switch {
	case words < 15:
		return LevelBeginner
	case words > 50:
		return LevelAdvanced
	default:
		return LevelIntermediate
	}
}

func contextLengthFor(words int) string {
	switch {
	case words < 20:
		return LengthShort
	case words > 50:
		return LengthLong
	default:
		return LengthMedium
	}
}

func modelFor(complexity, promptType string) string {
	switch {
	case complexity == LevelAdvanced || complexity == LevelExpert:
		return ModelGPT4
	case promptType == TypeRolePlaying:
		return ModelClaude
	default:
		return ModelAny
	}
}

// insertPlaceholders replaces each recognised noun with {noun} and returns
// the names inserted, in placeholderWords order.
func insertPlaceholders(text string) (string, []string) {
	var inserted []string
	for i, re := range placeholderPatterns {
		if !re.MatchString(text) {
			continue
		}
		text = re.ReplaceAllLiteralString(text, "{"+placeholderWords[i]+"}")
		inserted = append(inserted, placeholderWords[i])
	}
	return text, inserted
}

func tipsFor(placeholders []string) string {
	if len(placeholders) == 0 {
		return "Be specific about the context, format and length you expect in the response."
	}
	names := make([]string, len(placeholders))
	for i, p := range placeholders {
		names[i] = "{" + p + "}"
	}
	return fmt.Sprintf("Replace %s with your own details before using this prompt.", strings.Join(names, ", "))
}

// Keywords this short only match whole words ("api" must not hit "capital").
const shortKeywordLength = 3

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if len(k) <= shortKeywordLength {
			if containsWord(s, k) {
				return true
			}
			continue
		}
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func containsWord(s, word string) bool {
	for offset := 0; ; {
		i := strings.Index(s[offset:], word)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(word)
		if !isWordByte(s, start-1) && !isWordByte(s, end) {
			return true
		}
		offset = start + 1
	}
}

func isWordByte(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return false
	}
	c := s[i]
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_' || c >= utf8.RuneSelf
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// truncate cuts s to limit runes and appends an ellipsis when it was longer.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + ellipsis
}
