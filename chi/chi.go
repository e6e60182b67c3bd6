// Package chi provides weaver integration for the Chi router.
//
// This package provides middleware for creating request-scoped container
// clones and type-safe handler wrappers for resolving controllers.
//
// Example usage:
//
//	base := weaver.New()
//	base.Register(UserController)
//
//	r := chi.NewRouter()
//	r.Use(weaverchi.ContainerMiddleware(base))
//
//	r.Post("/login", weaverchi.Handle(AuthController, (*authController).Login))
//	r.Get("/users/{id}", weaverchi.Handle(UserController, (*userController).GetByID))
package chi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	gochi "github.com/go-chi/chi/v5"

	"github.com/baikenlabs/weaver"
)

// ErrNoContainer is returned by FromContext and FromRequest when the
// request context carries no container, which means ContainerMiddleware
// is not installed on the route.
var ErrNoContainer = errors.New("no container in request context")

// containerContextKey is the key for storing the request container in context.
type containerContextKey struct{}

// NewContext returns a context carrying c.
func NewContext(ctx context.Context, c *weaver.Container) context.Context {
	return context.WithValue(ctx, containerContextKey{}, c)
}

// FromContext retrieves the request container from ctx.
func FromContext(ctx context.Context) (*weaver.Container, error) {
	c, ok := ctx.Value(containerContextKey{}).(*weaver.Container)
	if !ok || c == nil {
		return nil, ErrNoContainer
	}
	return c, nil
}

// FromRequest retrieves the request container from r's context.
func FromRequest(r *http.Request) (*weaver.Container, error) {
	return FromContext(r.Context())
}

// Config holds the configuration for the container middleware.
type Config struct {
	// ErrorHandler is called when a request hook fails.
	// If nil, a default handler returning 500 Internal Server Error is used.
	ErrorHandler func(http.ResponseWriter, *http.Request, error)

	// Hooks are functions that run after the request container is cloned.
	// They can be used to register request-scoped values, set user data, etc.
	Hooks []func(*weaver.Container, *http.Request) error
}

// Option configures the container middleware.
type Option func(*Config)

// WithErrorHandler sets the error handler for request hook failures.
func WithErrorHandler(h func(http.ResponseWriter, *http.Request, error)) Option {
	return func(c *Config) {
		c.ErrorHandler = h
	}
}

// WithHook adds a hook function that runs against each request's container
// clone. Multiple hooks are executed in the order they are added.
func WithHook(hook func(*weaver.Container, *http.Request) error) Option {
	return func(c *Config) {
		c.Hooks = append(c.Hooks, hook)
	}
}

func defaultConfig() *Config {
	return &Config{
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		},
		Hooks: nil,
	}
}

// ContainerMiddleware creates a Chi middleware that clones the base
// container for each request. The clone is attached to the request context
// and can be retrieved using FromContext or FromRequest.
//
// Because every request works on its own clone, handlers may register
// request-scoped values freely: the base container never observes them and
// concurrent requests never contend (weaver containers are not
// synchronized).
//
// Example:
//
//	r := chi.NewRouter()
//	r.Use(weaverchi.ContainerMiddleware(base))
func ContainerMiddleware(base *weaver.Container, opts ...Option) func(http.Handler) http.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c := base.Clone()

			// Attach container to request context
			r = r.WithContext(NewContext(r.Context(), c))

			// Run hooks
			for _, hook := range cfg.Hooks {
				if err := hook(c, r); err != nil {
					cfg.ErrorHandler(w, r, err)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Attach installs the container middleware on router and returns it,
// for callers assembling routes on an existing chi.Router:
//
//	r := chi.NewRouter()
//	weaverchi.Attach(r, base)
//	r.Get("/users/{id}", weaverchi.Handle(UserController, (*userController).GetByID))
func Attach(router gochi.Router, base *weaver.Container, opts ...Option) gochi.Router {
	router.Use(ContainerMiddleware(base, opts...))
	return router
}

// NewRouter returns a chi.Router with the container middleware already
// installed.
func NewRouter(base *weaver.Container, opts ...Option) gochi.Router {
	return Attach(gochi.NewRouter(), base, opts...)
}

// HandlerConfig holds configuration for the Handle wrapper.
type HandlerConfig struct {
	// PanicRecovery enables panic recovery in the handler.
	PanicRecovery bool

	// PanicHandler is called when a panic occurs (if PanicRecovery is true).
	PanicHandler func(http.ResponseWriter, *http.Request, any)

	// ContainerErrorHandler is called when container retrieval fails.
	ContainerErrorHandler func(http.ResponseWriter, *http.Request, error)

	// ResolutionErrorHandler is called when controller resolution fails.
	ResolutionErrorHandler func(http.ResponseWriter, *http.Request, error)
}

// HandlerOption configures the Handle wrapper.
type HandlerOption func(*HandlerConfig)

// WithPanicRecovery enables or disables panic recovery in the handler.
func WithPanicRecovery(enabled bool) HandlerOption {
	return func(c *HandlerConfig) {
		c.PanicRecovery = enabled
	}
}

// WithPanicHandler sets the handler for panics.
func WithPanicHandler(h func(http.ResponseWriter, *http.Request, any)) HandlerOption {
	return func(c *HandlerConfig) {
		c.PanicHandler = h
	}
}

// WithContainerErrorHandler sets the error handler for container retrieval failures.
func WithContainerErrorHandler(h func(http.ResponseWriter, *http.Request, error)) HandlerOption {
	return func(c *HandlerConfig) {
		c.ContainerErrorHandler = h
	}
}

// WithResolutionErrorHandler sets the error handler for controller resolution failures.
func WithResolutionErrorHandler(h func(http.ResponseWriter, *http.Request, error)) HandlerOption {
	return func(c *HandlerConfig) {
		c.ResolutionErrorHandler = h
	}
}

func defaultHandlerConfig() *HandlerConfig {
	return &HandlerConfig{
		PanicRecovery: false,
		PanicHandler: func(w http.ResponseWriter, r *http.Request, v any) {
			slog.Error("panic in handler", "panic", v)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		},
		ContainerErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			slog.Error("failed to get container from context", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		},
		ResolutionErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			slog.Error("failed to resolve controller", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		},
	}
}

// Handle wraps a controller method for type-safe resolution from the
// request container. The controller registered under id is resolved as a T
// from the container attached to the request context, fresh per request.
//
// The method signature should be: func(T, http.ResponseWriter, *http.Request)
//
// Example:
//
//	var UserController = weaver.Define("UserController", newUserController).Deps(UserStore)
//
//	r.Get("/users/{id}", weaverchi.Handle(UserController, (*userController).GetByID))
func Handle[T any](id weaver.Identifier, method func(T, http.ResponseWriter, *http.Request), opts ...HandlerOption) http.HandlerFunc {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.PanicRecovery {
			defer func() {
				if v := recover(); v != nil {
					cfg.PanicHandler(w, r, v)
				}
			}()
		}

		c, err := FromRequest(r)
		if err != nil {
			cfg.ContainerErrorHandler(w, r, err)
			return
		}

		controller, err := weaver.Resolve[T](c, id)
		if err != nil {
			cfg.ResolutionErrorHandler(w, r, err)
			return
		}

		method(controller, w, r)
	}
}
