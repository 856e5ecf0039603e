package config

import (
	"fmt"

	"github.com/triagekit/triage/pkg/env"
	"github.com/triagekit/triage/pkg/formatting"
	"github.com/triagekit/triage/pkg/middleware"
	"github.com/triagekit/triage/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled: "TRIAGE_CORS_ENABLED",
	Origins: "TRIAGE_CORS_ORIGINS",
	Methods: "TRIAGE_CORS_METHODS",
	Headers: "TRIAGE_CORS_HEADERS",
	MaxAge:  "TRIAGE_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "TRIAGE_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "TRIAGE_PAGINATION_MAX_PAGE_SIZE",
}

const fallbackMaxRequestSize = 4 * 1024 * 1024

// APIConfig holds API routing, request size, CORS, and pagination settings.
type APIConfig struct {
	BasePath       string                `toml:"base_path"`
	MaxRequestSize string                `toml:"max_request_size"`
	CORS           middleware.CORSConfig `toml:"cors"`
	Pagination     pagination.Config     `toml:"pagination"`
}

// MaxRequestSizeBytes returns MaxRequestSize parsed as a byte count.
func (c *APIConfig) MaxRequestSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxRequestSize)
	if err != nil {
		return fallbackMaxRequestSize
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

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

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxRequestSize == "" {
		c.MaxRequestSize = "4MB"
	}
}

func (c *APIConfig) loadEnv() {
	env.String("TRIAGE_API_BASE_PATH", &c.BasePath)
	env.String("TRIAGE_API_MAX_REQUEST_SIZE", &c.MaxRequestSize)
}
