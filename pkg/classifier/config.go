package classifier

import (
	"fmt"

	"github.com/triagekit/triage/pkg/env"
)

// Config holds connection parameters for an OpenAI-compatible model endpoint.
// An empty APIKey disables the external classifier entirely.
type Config struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Enabled reports whether an external classifier is configured.
func (c *Config) Enabled() bool {
	return c.APIKey != ""
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(e *Env) error {
	c.loadDefaults()
	if e != nil {
		c.loadEnv(e)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
}

func (c *Config) loadDefaults() {
	if c.Model == "" {
		c.Model = "gpt-4o-mini"
	}
}

func (c *Config) loadEnv(e *Env) {
	env.String(e.APIKey, &c.APIKey)
	env.String(e.BaseURL, &c.BaseURL)
	env.String(e.Model, &c.Model)
}

func (c *Config) validate() error {
	if c.Enabled() && c.Model == "" {
		return fmt.Errorf("model required")
	}
	return nil
}
