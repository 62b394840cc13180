// Package analyzer turns free text into structured prompt metadata, either
// through a configured language model or a deterministic heuristic.
package analyzer

// Source reports which path produced an Analysis.
type Source string

const (
	SourceLLM      Source = "llm"
	SourceFallback Source = "fallback"
)

// Field values produced by the heuristic.
const (
	CategoryCoding    = "Coding"
	CategoryWriting   = "Writing"
	CategoryEducation = "Education"
	CategoryGeneral   = "General"

	TypeQuestion     = "Question"
	TypeConversation = "Conversation"
	TypeRolePlaying  = "Role-playing"
	TypeInstruction  = "Instruction"

	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
	LevelExpert       = "Expert"

	LengthShort  = "Short"
	LengthMedium = "Medium"
	LengthLong   = "Long"

	ModelGPT4   = "GPT-4"
	ModelClaude = "Claude"
	ModelAny    = "Any"
)

// Analysis is the structured metadata derived from a prompt idea.
// Every path produces the same shape.
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
	Source           Source   `json:"source"`
}

// fillFrom copies every empty field from base.
func (a *Analysis) fillFrom(base Analysis) {
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&a.Title, base.Title)
	fill(&a.Content, base.Content)
	fill(&a.Description, base.Description)
	fill(&a.Example, base.Example)
	fill(&a.ExpectedResponse, base.ExpectedResponse)
	fill(&a.Category, base.Category)
	fill(&a.PromptType, base.PromptType)
	fill(&a.ComplexityLevel, base.ComplexityLevel)
	fill(&a.Tips, base.Tips)
	fill(&a.Model, base.Model)
	fill(&a.ContextLength, base.ContextLength)
	if len(a.Tags) == 0 {
		a.Tags = base.Tags
	}
	if len(a.UseCases) == 0 {
		a.UseCases = base.UseCases
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
	if a.UseCases == nil {
		a.UseCases = []string{}
	}
}
