package middleware

import "github.com/triagekit/triage/pkg/env"

// CORSConfig holds the CORS policy settings.
type CORSConfig struct {
	Enabled bool     `toml:"enabled"`
	Origins []string `toml:"origins"`
	Methods []string `toml:"methods"`
	Headers []string `toml:"headers"`
	MaxAge  int      `toml:"max_age"`
}

// CORSEnv maps CORS config fields to environment variable names.
type CORSEnv struct {
	Enabled string
	Origins string
	Methods string
	Headers string
	MaxAge  string
}

// Finalize applies defaults and environment variable overrides.
func (c *CORSConfig) Finalize(e *CORSEnv) error {
	c.loadDefaults()
	if e != nil {
		c.loadEnv(e)
	}
	return nil
}

// Merge overwrites fields from overlay. Enabled always applies; slice and
// int fields only apply when set.
func (c *CORSConfig) Merge(overlay *CORSConfig) {
	c.Enabled = overlay.Enabled

	if overlay.Origins != nil {
		c.Origins = overlay.Origins
	}
	if overlay.Methods != nil {
		c.Methods = overlay.Methods
	}
	if overlay.Headers != nil {
		c.Headers = overlay.Headers
	}
	if overlay.MaxAge > 0 {
		c.MaxAge = overlay.MaxAge
	}
}

func (c *CORSConfig) loadDefaults() {
	if len(c.Methods) == 0 {
		c.Methods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	}
	if len(c.Headers) == 0 {
		c.Headers = []string{"Content-Type", "Authorization"}
	}
	if c.MaxAge <= 0 {
		c.MaxAge = 3600
	}
}

func (c *CORSConfig) loadEnv(e *CORSEnv) {
	env.Bool(e.Enabled, &c.Enabled)
	env.List(e.Origins, &c.Origins)
	env.List(e.Methods, &c.Methods)
	env.List(e.Headers, &c.Headers)
	env.Int(e.MaxAge, &c.MaxAge)
}
