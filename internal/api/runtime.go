package api

import (
	"github.com/quadrant-labs/quadrant/internal/config"
	"github.com/quadrant-labs/quadrant/internal/engine"
	"github.com/quadrant-labs/quadrant/internal/infrastructure"
	"github.com/quadrant-labs/quadrant/pkg/pagination"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Engine     engine.Config
	Agent      *gaconfig.AgentConfig
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
		Engine:     cfg.Engine,
		Agent:      cfg.Agent,
	}
}
