// Package module provides prefix-mounted HTTP modules over a shared router.
// Each module owns an inner handler and a middleware stack; the router
// dispatches requests to modules by their first path segment.
package module

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/triagekit/triage/pkg/middleware"
)

// Module serves requests under a single-level path prefix. The prefix is
// stripped before the inner handler sees the request.
type Module struct {
	prefix string
	inner  http.Handler
	stack  *middleware.Stack
}

// New creates a Module mounted at prefix (for example "/api"). It panics on
// an empty, unrooted, or multi-level prefix; mounting is a programming-time
// decision, not a runtime input.
func New(prefix string, inner http.Handler) *Module {
	if err := checkPrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix: prefix,
		inner:  inner,
		stack:  middleware.New(),
	}
}

// Prefix returns the module's mount prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// Use appends middleware to the module's stack.
func (m *Module) Use(mw func(http.Handler) http.Handler) {
	m.stack.Use(mw)
}

// Serve strips the mount prefix from the request path and dispatches to the
// inner handler through the middleware stack.
func (m *Module) Serve(w http.ResponseWriter, r *http.Request) {
	stripped := strings.TrimPrefix(r.URL.Path, m.prefix)
	if stripped == "" {
		stripped = "/"
	}

	m.stack.Wrap(m.inner).ServeHTTP(w, rewritePath(r, stripped))
}

// rewritePath shallow-copies the request with a replaced URL path so the
// original request stays untouched for outer handlers.
func rewritePath(r *http.Request, path string) *http.Request {
	clone := new(http.Request)
	*clone = *r
	clone.URL = new(url.URL)
	*clone.URL = *r.URL
	clone.URL.Path = path
	clone.URL.RawPath = ""
	return clone
}

func checkPrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("module prefix must not be empty")
	case !strings.HasPrefix(prefix, "/"):
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	case strings.Count(prefix, "/") != 1:
		return fmt.Errorf("module prefix must be a single path segment: %s", prefix)
	}
	return nil
}
