package main

import (
	"context"
	"fmt"

	"github.com/JaimeStill/wayfarer/internal/config"
	"github.com/JaimeStill/wayfarer/internal/infrastructure"
)

// service is the assembled server process: infrastructure, the workflow
// runtime, mounted modules and the HTTP listener.
type service struct {
	cfg   *config.Config
	infra *infrastructure.Infrastructure
	http  *httpServer
}

func newService(cfg *config.Config) (*service, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	wf, err := infra.Pipeline(cfg)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	modules, err := NewModules(infra, cfg, wf)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra)
	modules.Mount(router)

	return &service{
		cfg:   cfg,
		infra: infra,
		http:  newHTTPServer(&cfg.Server, router, infra.Logger),
	}, nil
}

// run starts every subsystem, serves until ctx is done, then shuts down
// within the configured timeout.
func (s *service) run(ctx context.Context) error {
	log := s.infra.Logger
	log.Info(
		"starting wayfarer",
		"version", s.cfg.Version,
		"env", s.cfg.Env(),
		"search", s.cfg.Search.Provider,
		"storage", s.cfg.Storage.Provider,
	)

	if err := s.infra.Start(); err != nil {
		return err
	}
	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		s.infra.Lifecycle.Shutdown(s.cfg.ShutdownTimeoutDuration())
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		log.Info("ready", "addr", s.cfg.Server.Addr())
	}()

	<-ctx.Done()
	log.Info("shutting down")
	return s.infra.Lifecycle.Shutdown(s.cfg.ShutdownTimeoutDuration())
}
