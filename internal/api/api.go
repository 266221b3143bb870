// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/praxislaw/docket/internal/config"
	"github.com/praxislaw/docket/internal/infrastructure"
	"github.com/praxislaw/docket/pkg/middleware"
	"github.com/praxislaw/docket/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Infrastructure.Logger))

	if cfg.Auth.Enabled {
		verifier, err := middleware.NewVerifier(context.Background(), cfg.Auth.Issuer, cfg.Auth.ClientID)
		if err != nil {
			return nil, fmt.Errorf("oidc discovery failed: %w", err)
		}
		m.Use(middleware.Auth(verifier, cfg.Auth.FirmClaim))
	}

	return m, nil
}
