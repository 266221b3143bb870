package api

import (
	"net/http"

	"github.com/praxislaw/docket/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain) {
	caseHandler := domain.Cases.Handler()

	routes.Register(
		mux,
		caseHandler.Routes(),
		caseHandler.SourceRoutes(),
		domain.Emails.Handler().Routes(),
		domain.Audit.Handler().Routes(),
		domain.Review.Handler().Routes(),
		domain.Triage.Handler().Routes(),
	)
}
