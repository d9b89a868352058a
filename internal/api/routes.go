package api

import (
	"net/http"

	"github.com/quadrant-labs/quadrant/internal/config"
	"github.com/quadrant-labs/quadrant/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) {
	routes.Register(
		mux,
		domain.Notes.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Verdicts.Handler().Routes(),
	)
}
