package providers

import (
	"github.com/samber/do/v2"

	"github.com/prompthub/prompthub-server/internal/analyzer"
	"github.com/prompthub/prompthub-server/internal/logger"
	"github.com/prompthub/prompthub-server/internal/metrics"
	"github.com/prompthub/prompthub-server/internal/service"
	"github.com/prompthub/prompthub-server/internal/validation"
)

// ProvideMetrics provides the Prometheus metrics registry.
func ProvideMetrics(i do.Injector) (*metrics.Metrics, error) {
	return metrics.New(), nil
}

// ProvideValidator provides the request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvidePromptService provides the prompt service.
func ProvidePromptService(i do.Injector) (*service.PromptService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	a := do.MustInvoke[*analyzer.Analyzer](i)
	v := do.MustInvoke[*validation.Validator](i)
	m := do.MustInvoke[*metrics.Metrics](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPromptService(storeHandle.PromptStore, a, v, m, log.Logger), nil
}

// ProvideTagService provides the tag aggregation service.
func ProvideTagService(i do.Injector) (*service.TagService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTagService(storeHandle.PromptStore, log.Logger), nil
}
