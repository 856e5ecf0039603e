package api

import (
	"github.com/triagekit/triage/internal/config"
	"github.com/triagekit/triage/internal/infrastructure"
	"github.com/triagekit/triage/pkg/classifier"
	"github.com/triagekit/triage/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration and the
// optional model-backed classifier.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Classify   classifier.Func
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		Pagination: cfg.API.Pagination,
		Classify:   classifier.OpenAI(&cfg.Classifier),
	}
}
