package api

import (
	"github.com/praxislaw/docket/internal/classify"
	"github.com/praxislaw/docket/internal/config"
	"github.com/praxislaw/docket/internal/infrastructure"
	"github.com/praxislaw/docket/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Engine     classify.Config
	Classifier config.ClassifierConfig
	Auth       config.AuthConfig
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
		},
		Pagination: cfg.API.Pagination,
		Engine:     cfg.Engine.EngineConfig(),
		Classifier: cfg.Classifier,
		Auth:       cfg.Auth,
	}
}
