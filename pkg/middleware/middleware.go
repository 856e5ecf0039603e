// Package middleware provides an ordered HTTP middleware stack and the
// standard middleware used by server modules.
package middleware

import "net/http"

// Stack is an ordered collection of HTTP middleware. Middleware added first
// wraps outermost.
type Stack struct {
	chain []func(http.Handler) http.Handler
}

// New creates an empty Stack.
func New() *Stack {
	return &Stack{}
}

// Use appends middleware to the stack.
func (s *Stack) Use(mw func(http.Handler) http.Handler) {
	s.chain = append(s.chain, mw)
}

// Wrap applies the stack to handler, first-added outermost.
func (s *Stack) Wrap(handler http.Handler) http.Handler {
	for i := len(s.chain) - 1; i >= 0; i-- {
		handler = s.chain[i](handler)
	}
	return handler
}
