package providers

import (
	"github.com/samber/do/v2"

	"github.com/prompthub/prompthub-server/internal/analyzer"
	"github.com/prompthub/prompthub-server/internal/config"
	"github.com/prompthub/prompthub-server/internal/logger"
)

// ProvideAnalyzer provides the prompt analyzer, backed by a language model
// when one is configured and by heuristics otherwise.
func ProvideAnalyzer(i do.Injector) (*analyzer.Analyzer, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	gen := newGenerator(cfg.LLM)
	if gen == nil {
		log.Info("No language model configured, analysis uses heuristics only")
	} else {
		log.Info("Language model configured",
			"provider", gen.Name(),
			"timeout", cfg.LLM.Timeout,
			"max_attempts", cfg.LLM.MaxAttempts,
		)
	}

	return analyzer.New(gen, analyzer.Config{
		Attempts: uint(max(cfg.LLM.MaxAttempts, 0)),
		Timeout:  cfg.LLM.Timeout,
	}, log.Logger), nil
}

func newGenerator(c config.LLMConfig) analyzer.Generator {
	switch c.Provider {
	case config.LLMOpenAI:
		return analyzer.NewOpenAIGenerator(c.APIKey, c.Model, c.BaseURL)
	case config.LLMAnthropic:
		return analyzer.NewAnthropicGenerator(c.APIKey, c.Model, c.BaseURL)
	default:
		return nil
	}
}
