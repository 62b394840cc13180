// Package di provides dependency injection configuration for the PromptHub server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/prompthub/prompthub-server/internal/analyzer"
	"github.com/prompthub/prompthub-server/internal/auth"
	"github.com/prompthub/prompthub-server/internal/config"
	"github.com/prompthub/prompthub-server/internal/di/providers"
	"github.com/prompthub/prompthub-server/internal/logger"
	"github.com/prompthub/prompthub-server/internal/metrics"
	"github.com/prompthub/prompthub-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)
	do.Provide(injector, providers.ProvideMetrics)
	do.Provide(injector, providers.ProvideValidator)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Analysis layer
	do.Provide(injector, providers.ProvideAnalyzer)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvidePromptService)
	do.Provide(injector, providers.ProvideTagService)

	// Workers
	do.Provide(injector, providers.ProvideRateLimiter)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	if _, err := do.Invoke[providers.AuthKey](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*metrics.Metrics](injector)
	_ = do.MustInvoke[*analyzer.Analyzer](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*service.PromptService](injector)
	_ = do.MustInvoke[*service.TagService](injector)

	// Workers
	_ = do.MustInvoke[*providers.RateLimiterHandle](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
