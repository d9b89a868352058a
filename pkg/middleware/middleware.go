// Package middleware provides the ordered HTTP middleware stack wrapped
// around the Quadrant API, plus the request logging and CORS middleware the
// server installs by default.
package middleware

import "net/http"

// System manages an ordered stack of HTTP middleware.
type System interface {
	// Use appends a middleware to the stack.
	Use(mw func(http.Handler) http.Handler)
	// Apply wraps handler in the stack. Middleware wrap in reverse
	// registration order, so the first Use call becomes the outermost
	// wrapper and sees the request first.
	Apply(handler http.Handler) http.Handler
}

type stack struct {
	middleware []func(http.Handler) http.Handler
}

// New creates an empty middleware System.
func New() System {
	return &stack{
		middleware: []func(http.Handler) http.Handler{},
	}
}

func (s *stack) Use(fn func(http.Handler) http.Handler) {
	s.middleware = append(s.middleware, fn)
}

func (s *stack) Apply(handler http.Handler) http.Handler {
	for i := len(s.middleware) - 1; i >= 0; i-- {
		handler = s.middleware[i](handler)
	}
	return handler
}
