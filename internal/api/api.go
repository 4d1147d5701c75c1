// Package api assembles the API module: the plan domain, the stage listing,
// and the middleware wrapped around them.
package api

import (
	"net/http"

	"github.com/JaimeStill/wayfarer/internal/config"
	"github.com/JaimeStill/wayfarer/internal/infrastructure"
	"github.com/JaimeStill/wayfarer/internal/workflow"
	"github.com/JaimeStill/wayfarer/pkg/middleware"
	"github.com/JaimeStill/wayfarer/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure, wf *workflow.Runtime) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra, wf)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	patterns := registerRoutes(mux, domain, runtime)
	runtime.Logger.Debug("routes registered", "patterns", patterns)

	limit := cfg.API.MaxRequestSizeBytes()

	m := module.New(cfg.API.BasePath, mux)
	m.Use(func(next http.Handler) http.Handler {
		return http.MaxBytesHandler(next, limit)
	})
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(middleware.Recover(runtime.Logger))

	return m, nil
}
