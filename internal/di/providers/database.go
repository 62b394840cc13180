package providers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/prompthub/prompthub-server/internal/config"
	"github.com/prompthub/prompthub-server/internal/logger"
	"github.com/prompthub/prompthub-server/internal/store"
	"github.com/prompthub/prompthub-server/internal/store/sqlite"
)

// StoreHandle wraps the prompt store with shutdown capability.
type StoreHandle struct {
	store.PromptStore
	Driver string
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore opens the document store selected by configuration.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	path := cfg.Data.StorePath()

	var (
		st  store.PromptStore
		err error
	)
	switch cfg.Data.Driver {
	case config.StoreSQLite:
		st, err = sqlite.Open(path, log.Logger)
	case config.StoreBadger, "":
		st, err = store.New(path, log.Logger)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Data.Driver)
	}
	if err != nil {
		return nil, err
	}

	count, err := st.CountPrompts(context.Background())
	if err != nil {
		log.Warn("Could not count prompts at startup", "error", err)
	}

	log.Info("Database initialized",
		"driver", cfg.Data.Driver,
		"path", path,
		"prompts", count,
	)

	return &StoreHandle{PromptStore: st, Driver: cfg.Data.Driver}, nil
}

// ProvideSlogLogger provides access to the underlying slog.Logger for packages that need it.
func ProvideSlogLogger(i do.Injector) (*slog.Logger, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return log.Logger, nil
}
