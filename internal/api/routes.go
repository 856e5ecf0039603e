package api

import (
	"net/http"

	"github.com/triagekit/triage/internal/config"
	"github.com/triagekit/triage/internal/runs"
	"github.com/triagekit/triage/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	handler := runs.NewHandler(
		domain.Runs,
		runtime.Logger,
		runtime.Pagination,
		cfg.API.MaxRequestSizeBytes(),
	)

	routes.Register(mux, handler.Routes())
}
