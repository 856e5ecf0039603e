// Package env provides typed environment variable override helpers for
// configuration finalization. Each helper applies the variable's value to
// the target only when the variable name is set and the value parses.
package env

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// String applies the named variable to target when set and non-empty.
func String(name string, target *string) {
	if name == "" {
		return
	}
	if v := os.Getenv(name); v != "" {
		*target = v
	}
}

// Int applies the named variable to target when it parses as an integer.
func Int(name string, target *int) {
	if name == "" {
		return
	}
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*target = n
		}
	}
}

// Bool applies the named variable to target when it parses as a boolean.
func Bool(name string, target *bool) {
	if name == "" {
		return
	}
	if v := os.Getenv(name); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*target = b
		}
	}
}

// Duration applies the named variable to target when it parses as a
// time.Duration string.
func Duration(name string, target *string) {
	if name == "" {
		return
	}
	if v := os.Getenv(name); v != "" {
		if _, err := time.ParseDuration(v); err == nil {
			*target = v
		}
	}
}

// List applies the named variable to target as a comma-separated list,
// trimming whitespace and dropping empty entries.
func List(name string, target *[]string) {
	if name == "" {
		return
	}
	v := os.Getenv(name)
	if v == "" {
		return
	}

	parts := strings.Split(v, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	if len(values) > 0 {
		*target = values
	}
}
