package providers

import (
	"github.com/samber/do/v2"

	"github.com/prompthub/prompthub-server/internal/config"
	"github.com/prompthub/prompthub-server/internal/logger"
	"github.com/prompthub/prompthub-server/internal/ratelimit"
)

// RateLimiterHandle wraps the write rate limiter and its eviction loop.
type RateLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *RateLimiterHandle) Shutdown() error {
	if h.KeyedRateLimiter != nil {
		h.Stop()
	}
	return nil
}

// ProvideRateLimiter provides the per-client write limiter.
// A non-positive limit disables rate limiting.
func ProvideRateLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.RateLimit.PerMinute <= 0 {
		log.Info("Write rate limiting disabled")
		return &RateLimiterHandle{}, nil
	}

	limiter := ratelimit.NewWithIdleTTL(
		float64(cfg.RateLimit.PerMinute)/60,
		max(cfg.RateLimit.Burst, 1),
		rateLimitIdleTTL,
	)

	log.Info("Write rate limiting enabled",
		"per_minute", cfg.RateLimit.PerMinute,
		"burst", cfg.RateLimit.Burst,
	)

	return &RateLimiterHandle{KeyedRateLimiter: limiter}, nil
}
