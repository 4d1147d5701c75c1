package config

import (
	"fmt"
	"time"

	"github.com/JaimeStill/wayfarer/internal/search"
)

const (
	SearchProviderSerper = "serper"
	SearchProviderNone   = "none"

	EnvSearchProvider  = Prefix + "SEARCH_PROVIDER"
	EnvSearchAPIKey    = Prefix + "SEARCH_API_KEY"
	EnvSearchEndpoint  = Prefix + "SEARCH_ENDPOINT"
	EnvSearchResults   = Prefix + "SEARCH_RESULTS"
	EnvSearchCacheAddr = Prefix + "SEARCH_CACHE_ADDR"
	EnvSearchCacheTTL  = Prefix + "SEARCH_CACHE_TTL"

	// EnvSerperAPIKey is read when no WAYFARER_ key is set.
	EnvSerperAPIKey = "SERPER_API_KEY"
)

// SearchConfig selects the web search used to ground stage prompts. An empty
// Provider resolves to serper when an API key is available and none
// otherwise. An empty CacheAddr disables the Redis result cache.
type SearchConfig struct {
	Provider  string `toml:"provider"`
	APIKey    string `toml:"api_key"`
	Endpoint  string `toml:"endpoint"`
	Results   int    `toml:"results"`
	CacheAddr string `toml:"cache_addr"`
	CacheTTL  string `toml:"cache_ttl"`
}

func (c *SearchConfig) CacheTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.CacheTTL)
	return d
}

// Enabled reports whether stage prompts are grounded with search results.
func (c *SearchConfig) Enabled() bool {
	return c.Provider == SearchProviderSerper
}

// Finalize fills unset fields from the environment, then from defaults,
// and validates the result. WAYFARER_SEARCH_API_KEY is preferred over
// SERPER_API_KEY.
func (c *SearchConfig) Finalize() error {
	envString(EnvSearchAPIKey, &c.APIKey)
	envString(EnvSerperAPIKey, &c.APIKey)
	envString(EnvSearchProvider, &c.Provider)
	envString(EnvSearchEndpoint, &c.Endpoint)
	envString(EnvSearchCacheAddr, &c.CacheAddr)
	envString(EnvSearchCacheTTL, &c.CacheTTL)
	if err := envInt(EnvSearchResults, &c.Results); err != nil {
		return err
	}

	if c.Endpoint == "" {
		c.Endpoint = search.DefaultEndpoint
	}
	if c.Results == 0 {
		c.Results = 5
	}
	if c.CacheTTL == "" {
		c.CacheTTL = "24h"
	}

	if c.Provider == "" {
		c.Provider = SearchProviderNone
		if c.APIKey != "" {
			c.Provider = SearchProviderSerper
		}
	}

	switch c.Provider {
	case SearchProviderNone:
	case SearchProviderSerper:
		if c.APIKey == "" {
			return fmt.Errorf("api_key required for %s (set %s)", c.Provider, EnvSearchAPIKey)
		}
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}

	if c.Results < 1 {
		return fmt.Errorf("results must be positive")
	}
	if d, err := time.ParseDuration(c.CacheTTL); err != nil || d <= 0 {
		return fmt.Errorf("invalid cache_ttl %q", c.CacheTTL)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *SearchConfig) Merge(overlay *SearchConfig) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.Results != 0 {
		c.Results = overlay.Results
	}
	if overlay.CacheAddr != "" {
		c.CacheAddr = overlay.CacheAddr
	}
	if overlay.CacheTTL != "" {
		c.CacheTTL = overlay.CacheTTL
	}
}

