// Package storage persists pipeline artifacts. Providers are a local
// directory tree and Azure Blob Storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/JaimeStill/wayfarer/pkg/lifecycle"
)

// System manages artifact storage operations and lifecycle coordination.
type System interface {
	// Start registers a startup hook that prepares the store.
	Start(lc *lifecycle.Coordinator) error
	// Upload writes data at the given key, replacing any existing artifact.
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error
	// Download returns a stream for the artifact at the given key. The caller must close the reader.
	// Returns ErrNotFound if the artifact does not exist.
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the artifact at the given key. Returns ErrNotFound if it does not exist.
	Delete(ctx context.Context, key string) error
	// Exists reports whether an artifact exists at the given key.
	Exists(ctx context.Context, key string) (bool, error)
}

// New creates the storage system selected by cfg.Provider.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	logger = logger.With("system", "storage", "provider", cfg.Provider)

	switch cfg.Provider {
	case ProviderLocal:
		return NewLocal(cfg.Path, logger), nil
	case ProviderAzure:
		return newAzure(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}

// Key joins key segments with '/'.
func Key(parts ...string) string {
	return path.Join(parts...)
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.HasPrefix(key, "/") {
		return ErrInvalidKey
	}
	for seg := range strings.SplitSeq(key, "/") {
		if seg == ".." {
			return ErrInvalidKey
		}
	}
	return nil
}
