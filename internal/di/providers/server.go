package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/prompthub/prompthub-server/internal/analyzer"
	"github.com/prompthub/prompthub-server/internal/api"
	"github.com/prompthub/prompthub-server/internal/auth"
	"github.com/prompthub/prompthub-server/internal/config"
	"github.com/prompthub/prompthub-server/internal/logger"
	"github.com/prompthub/prompthub-server/internal/metrics"
	"github.com/prompthub/prompthub-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	m := do.MustInvoke[*metrics.Metrics](i)
	limiter := do.MustInvoke[*RateLimiterHandle](i)
	a := do.MustInvoke[*analyzer.Analyzer](i)

	services := &api.Services{
		Prompts: do.MustInvoke[*service.PromptService](i),
		Tags:    do.MustInvoke[*service.TagService](i),
	}

	handler := api.NewServer(
		storeHandle.PromptStore,
		services,
		tokens,
		m,
		limiter.KeyedRateLimiter,
		api.Options{
			Name:            cfg.Server.Name,
			CORSOrigins:     cfg.Server.CORSOrigins,
			AnalyzerEnabled: a.Enabled(),
		},
		log.Logger,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
