package storage

import (
	"fmt"

	"github.com/triagekit/triage/pkg/env"
)

// Config holds Azure Blob Storage connection parameters.
type Config struct {
	Container        string `toml:"container"`
	ConnectionString string `toml:"connection_string"`
}

// Env maps config fields to environment variable names.
type Env struct {
	Container        string
	ConnectionString string
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
	if overlay.Container != "" {
		c.Container = overlay.Container
	}
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
}

func (c *Config) loadDefaults() {
	if c.Container == "" {
		c.Container = "run-archives"
	}
}

func (c *Config) loadEnv(e *Env) {
	env.String(e.Container, &c.Container)
	env.String(e.ConnectionString, &c.ConnectionString)
}

func (c *Config) validate() error {
	if c.Container == "" {
		return fmt.Errorf("container required")
	}
	if c.ConnectionString == "" {
		return fmt.Errorf("connection_string required")
	}
	return nil
}
