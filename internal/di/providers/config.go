// Package providers contains dependency injection providers for the PromptHub server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/prompthub/prompthub-server/internal/config"
	"github.com/prompthub/prompthub-server/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	var file *logger.FileConfig
	if cfg.Logger.File != "" {
		file = &logger.FileConfig{
			Path:       cfg.Logger.File,
			MaxSizeMB:  50,
			MaxBackups: 5,
			MaxAgeDays: 28,
			Compress:   true,
		}
	}

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
		File:        file,
	})

	log.Info("Starting PromptHub Server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Data.BasePath,
		"store_driver", cfg.Data.Driver,
	)

	return log, nil
}
