package analyzer

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	defaultAttempts = 2
	defaultTimeout  = 20 * time.Second
	retryDelay      = 500 * time.Millisecond
)

// Config tunes how the analyzer calls its generator.
type Config struct {
	Attempts uint
	Timeout  time.Duration
}

// Analyzer produces an Analysis for free text, preferring the generator and
// falling back to the heuristic when it is absent or fails.
type Analyzer struct {
	generator Generator
	attempts  uint
	timeout   time.Duration
	logger    *slog.Logger
}

// New creates an Analyzer. A nil generator always uses the heuristic.
func New(generator Generator, cfg Config, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = defaultAttempts
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Analyzer{
		generator: generator,
		attempts:  cfg.Attempts,
		timeout:   cfg.Timeout,
		logger:    logger,
	}
}

// Enabled reports whether a generator is configured.
func (a *Analyzer) Enabled() bool {
	return a.generator != nil
}

// Analyze derives metadata for text. It never fails; model errors degrade
// to the heuristic result.
func (a *Analyzer) Analyze(ctx context.Context, text string) Analysis {
	base := Fallback(text)
	if a.generator == nil || strings.TrimSpace(text) == "" {
		return base
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	result, err := retry.DoWithData(
		func() (Analysis, error) {
			raw, err := a.generator.Generate(ctx, text)
			if err != nil {
				return Analysis{}, err
			}
			return parseReply(raw)
		},
		retry.Context(ctx),
		retry.Attempts(a.attempts),
		retry.Delay(retryDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		a.logger.Warn("prompt analysis fell back to heuristic",
			"generator", a.generator.Name(),
			"error", err)
		return base
	}

	result.fillFrom(base)
	result.Source = SourceLLM
	return result
}
