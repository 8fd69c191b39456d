// Package chi provides keydi integration for the Chi router.
//
// The middleware gives every request its own scoped copy of a base
// container: the listed keys are re-instantiated per request while all other
// services keep the base container's shared instances. Handlers read the
// request's container back out of the context.
//
// Example usage:
//
//	base = base.MustProvide(keydi.MustFactory("requestID", nil, NewRequestID))
//
//	r := chi.NewRouter()
//	keydichi.Mount(r, base, keydichi.WithScopedKeys("requestID"))
//
//	r.Get("/users", keydichi.Handle("usersHandler"))
package chi

import (
	"context"
	"log/slog"
	"net/http"

	chiv5 "github.com/go-chi/chi/v5"
	"github.com/ksotala/keydi"
)

type contextKey struct{}

// Config holds the configuration for the container middleware.
type Config struct {
	// ScopedKeys are re-instantiated per request via Container.Copy.
	ScopedKeys []keydi.Key

	// ErrorHandler is called when a handler's service cannot be resolved.
	// If nil, a default handler logs via slog and returns 500.
	ErrorHandler func(http.ResponseWriter, *http.Request, error)
}

// Option configures the container middleware.
type Option func(*Config)

// WithScopedKeys sets the keys that get a fresh instance per request.
func WithScopedKeys(keys ...keydi.Key) Option {
	return func(c *Config) {
		c.ScopedKeys = append(c.ScopedKeys, keys...)
	}
}

// WithErrorHandler sets the handler for resolution failures.
func WithErrorHandler(h func(http.ResponseWriter, *http.Request, error)) Option {
	return func(c *Config) {
		c.ErrorHandler = h
	}
}

func defaultConfig() *Config {
	return &Config{
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			slog.Error("failed to resolve handler service", "path", r.URL.Path, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		},
	}
}

// Middleware returns middleware that attaches a scoped copy of base to each
// request's context. With no scoped keys the base container itself is
// attached, since a copy without scoped keys shares every instance anyway.
func Middleware(base *keydi.Container, opts ...Option) func(http.Handler) http.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c := base
			if len(cfg.ScopedKeys) > 0 {
				c = base.Copy(cfg.ScopedKeys...)
			}
			ctx := context.WithValue(r.Context(), contextKey{}, c)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Mount attaches the container middleware to a Chi router.
func Mount(r chiv5.Router, base *keydi.Container, opts ...Option) {
	r.Use(Middleware(base, opts...))
}

// FromContext returns the container attached to ctx, or nil when the
// middleware did not run.
func FromContext(ctx context.Context) *keydi.Container {
	c, _ := ctx.Value(contextKey{}).(*keydi.Container)
	return c
}

// Handle returns a handler that resolves an http.Handler service under key
// from the request's container and serves the request with it. Resolution
// failures go to the configured ErrorHandler; Handle uses the default when
// mounted without one.
func Handle(key keydi.Key, opts ...Option) http.HandlerFunc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		c := FromContext(r.Context())
		if c == nil {
			cfg.ErrorHandler(w, r, keydi.ErrContainerNil)
			return
		}

		h, err := keydi.Resolve[http.Handler](c, key)
		if err != nil {
			cfg.ErrorHandler(w, r, err)
			return
		}
		h.ServeHTTP(w, r)
	}
}
