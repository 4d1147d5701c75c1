package config

import (
	"fmt"

	"github.com/JaimeStill/wayfarer/pkg/formatting"
	"github.com/JaimeStill/wayfarer/pkg/middleware"
	"github.com/JaimeStill/wayfarer/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          Prefix + "CORS_ENABLED",
	Origins:          Prefix + "CORS_ORIGINS",
	AllowedMethods:   Prefix + "CORS_ALLOWED_METHODS",
	AllowedHeaders:   Prefix + "CORS_ALLOWED_HEADERS",
	AllowCredentials: Prefix + "CORS_ALLOW_CREDENTIALS",
	MaxAge:           Prefix + "CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: Prefix + "PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     Prefix + "PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, request limits, CORS, and pagination settings.
type APIConfig struct {
	BasePath       string                `toml:"base_path"`
	MaxRequestSize string                `toml:"max_request_size"`
	CORS           middleware.CORSConfig `toml:"cors"`
	Pagination     pagination.Config     `toml:"pagination"`
}

// MaxRequestSizeBytes returns the request body limit. Finalize guarantees
// it parses.
func (c *APIConfig) MaxRequestSizeBytes() int64 {
	n, _ := formatting.ParseBytes(c.MaxRequestSize)
	return n
}

// Finalize fills unset fields from the environment, then from defaults,
// and validates the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	envString(Prefix+"API_BASE_PATH", &c.BasePath)
	envString(Prefix+"API_MAX_REQUEST_SIZE", &c.MaxRequestSize)

	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxRequestSize == "" {
		c.MaxRequestSize = "64KB"
	}

	if n, err := formatting.ParseBytes(c.MaxRequestSize); err != nil || n <= 0 {
		return fmt.Errorf("invalid max_request_size %q", c.MaxRequestSize)
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxRequestSize != "" {
		c.MaxRequestSize = overlay.MaxRequestSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
}
