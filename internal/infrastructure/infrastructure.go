// Package infrastructure assembles the shared systems every entry point
// needs: lifecycle coordination, logging, metrics, database, artifact
// storage, and the web search used to ground stage prompts.
package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/JaimeStill/wayfarer/internal/config"
	"github.com/JaimeStill/wayfarer/internal/search"
	"github.com/JaimeStill/wayfarer/pkg/database"
	"github.com/JaimeStill/wayfarer/pkg/lifecycle"
	"github.com/JaimeStill/wayfarer/pkg/storage"
)

const searchTimeout = 30 * time.Second

// Infrastructure holds the core systems required by all domain modules.
// Search is nil when search grounding is disabled.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Registry  *prometheus.Registry
	Database  database.System
	Storage   storage.System
	Search    search.Searcher

	cache *search.Cache
}

// NewLogger returns the text logger on stderr used by every binary.
func NewLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// New creates an Infrastructure from the application configuration.
// Systems are created but not started; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	logger := NewLogger(cfg.Level())

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	infra, err := NewLocal(cfg, logger)
	if err != nil {
		return nil, err
	}
	infra.Database = db

	return infra, nil
}

// NewLocal creates everything except the database. The CLI runs plans
// without one.
func NewLocal(cfg *config.Config, logger *slog.Logger) (*Infrastructure, error) {
	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	infra := &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Registry:  registry,
		Storage:   store,
	}

	if cfg.Search.Enabled() {
		infra.Search, infra.cache = newSearch(&cfg.Search, logger)
	}

	return infra, nil
}

func newSearch(cfg *config.SearchConfig, logger *slog.Logger) (search.Searcher, *search.Cache) {
	serper := search.NewSerper(
		cfg.Endpoint,
		cfg.APIKey,
		cfg.Results,
		&http.Client{Timeout: searchTimeout},
	)

	if cfg.CacheAddr == "" {
		return serper, nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.CacheAddr})
	cache := search.NewCache(serper, client, cfg.CacheTTLDuration(), logger)
	return cache, cache
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if i.Database != nil {
		if err := i.Database.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("database start failed: %w", err)
		}
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}

	if i.cache != nil {
		i.Lifecycle.AddCheck("search_cache", i.cache.Ping)
		i.Lifecycle.OnShutdown(func() {
			<-i.Lifecycle.Context().Done()
			if err := i.cache.Close(); err != nil {
				i.Logger.Warn("search cache close failed", "error", err)
			}
		})
	}

	return nil
}

// Verify reports whether every registered dependency answers.
func (i *Infrastructure) Verify(ctx context.Context) error {
	return i.Lifecycle.Verify(ctx)
}
