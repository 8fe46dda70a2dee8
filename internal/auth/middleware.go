package auth

import (
	"net/http"

	authlib "example.com/habitkick/pkg/auth"
)

// Middleware enforces bearer-token authentication on incoming requests.
type Middleware struct {
	inner authlib.Middleware
}

// NewMiddleware constructs Middleware. Health, metrics and the sign up/in routes are public.
func NewMiddleware(cfg Config) Middleware {
	skipper := authlib.SkipPaths([]string{"/healthz", "/metrics"}, []string{"/v1/auth/"})
	return Middleware{inner: authlib.NewMiddleware(cfg, skipper)}
}

// Wrap attaches authentication handling to an http.Handler.
func (m Middleware) Wrap(next http.Handler) http.Handler {
	return m.inner.Wrap(next)
}
