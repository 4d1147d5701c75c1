// Package database opens the PostgreSQL pool used for plan records and
// ties its health to the lifecycle coordinator.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/JaimeStill/wayfarer/pkg/lifecycle"
)

// System exposes the pool and registers its lifecycle hooks.
type System interface {
	Connection() *sql.DB
	Start(lc *lifecycle.Coordinator) error
}

type pool struct {
	db      *sql.DB
	timeout time.Duration
	logger  *slog.Logger
}

// New configures a pgx-backed pool. sql.Open does not dial, so an
// unreachable server surfaces at Start and in the "database" check.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	db, err := sql.Open("pgx", cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &pool{
		db:      db,
		timeout: cfg.ConnTimeoutDuration(),
		logger:  logger.With("system", "database", "host", cfg.Host, "name", cfg.Name),
	}, nil
}

func (p *pool) Connection() *sql.DB { return p.db }

func (p *pool) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.db.PingContext(ctx)
}

func (p *pool) Start(lc *lifecycle.Coordinator) error {
	lc.AddCheck("database", p.ping)

	lc.OnStartup(func() {
		start := time.Now()
		if err := p.ping(lc.Context()); err != nil {
			p.logger.Error("database unreachable at startup", "error", err)
			return
		}
		p.logger.Info("database connected", "took", time.Since(start))
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := p.db.Close(); err != nil {
			p.logger.Error("database close failed", "error", err)
			return
		}
		p.logger.Info("database closed")
	})

	return nil
}
