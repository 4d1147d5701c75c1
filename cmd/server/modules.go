package main

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JaimeStill/wayfarer/internal/api"
	"github.com/JaimeStill/wayfarer/internal/config"
	"github.com/JaimeStill/wayfarer/internal/infrastructure"
	"github.com/JaimeStill/wayfarer/internal/workflow"
	"github.com/JaimeStill/wayfarer/pkg/module"
)

type Modules struct {
	API *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config, wf *workflow.Runtime) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra, wf)
	if err != nil {
		return nil, err
	}

	return &Modules{API: apiModule}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNativeFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "ok", "")
	})

	router.HandleNativeFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			writeStatus(w, http.StatusServiceUnavailable, "not ready", "")
			return
		}
		if err := infra.Verify(r.Context()); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "degraded", err.Error())
			return
		}
		writeStatus(w, http.StatusOK, "ready", "")
	})

	router.HandleNative("GET /metrics", promhttp.HandlerFor(infra.Registry, promhttp.HandlerOpts{}))

	return router
}

func writeStatus(w http.ResponseWriter, code int, status, detail string) {
	body := map[string]string{"status": status}
	if detail != "" {
		body["error"] = detail
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
