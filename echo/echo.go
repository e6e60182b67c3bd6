// Package echo provides weaver integration for the Echo web framework.
//
// This package provides middleware for creating request-scoped container
// clones and type-safe handler wrappers for resolving controllers.
//
// Example usage:
//
//	base := weaver.New()
//	base.Register(UserController)
//
//	e := echo.New()
//	e.Use(weaverecho.ContainerMiddleware(base))
//
//	e.POST("/login", weaverecho.Handle(AuthController, (*authController).Login))
//	e.GET("/users/:id", weaverecho.Handle(UserController, (*userController).GetByID))
package echo

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/baikenlabs/weaver"
)

// ErrNoContainer is returned by FromContext when the request context
// carries no container, which means ContainerMiddleware is not installed
// on the route.
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

// Config holds the configuration for the container middleware.
type Config struct {
	// ErrorHandler is called when a request hook fails.
	// If nil, a default handler returning 500 Internal Server Error is used.
	ErrorHandler func(echo.Context, error) error

	// Hooks are functions that run after the request container is cloned.
	// They can be used to register request-scoped values, set user data, etc.
	Hooks []func(*weaver.Container, echo.Context) error
}

// Option configures the container middleware.
type Option func(*Config)

// WithErrorHandler sets the error handler for request hook failures.
func WithErrorHandler(h func(echo.Context, error) error) Option {
	return func(c *Config) {
		c.ErrorHandler = h
	}
}

// WithHook adds a hook function that runs against each request's container
// clone. Multiple hooks are executed in the order they are added.
func WithHook(hook func(*weaver.Container, echo.Context) error) Option {
	return func(c *Config) {
		c.Hooks = append(c.Hooks, hook)
	}
}

func defaultConfig() *Config {
	return &Config{
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusInternalServerError, "Internal Server Error")
		},
		Hooks: nil,
	}
}

// ContainerMiddleware creates an Echo middleware that clones the base
// container for each request. The clone is attached to the request context
// and can be retrieved using FromContext.
//
// Because every request works on its own clone, handlers may register
// request-scoped values freely: the base container never observes them and
// concurrent requests never contend (weaver containers are not
// synchronized).
//
// Example:
//
//	e := echo.New()
//	e.Use(weaverecho.ContainerMiddleware(base))
func ContainerMiddleware(base *weaver.Container, opts ...Option) echo.MiddlewareFunc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			container := base.Clone()

			// Attach container to request context
			c.SetRequest(c.Request().WithContext(NewContext(c.Request().Context(), container)))

			// Run hooks
			for _, hook := range cfg.Hooks {
				if err := hook(container, c); err != nil {
					return cfg.ErrorHandler(c, err)
				}
			}

			return next(c)
		}
	}
}

// HandlerConfig holds configuration for the Handle wrapper.
type HandlerConfig struct {
	// PanicRecovery enables panic recovery in the handler.
	PanicRecovery bool

	// PanicHandler is called when a panic occurs (if PanicRecovery is true).
	PanicHandler func(echo.Context, any) error

	// ContainerErrorHandler is called when container retrieval fails.
	ContainerErrorHandler func(echo.Context, error) error

	// ResolutionErrorHandler is called when controller resolution fails.
	ResolutionErrorHandler func(echo.Context, error) error
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
func WithPanicHandler(h func(echo.Context, any) error) HandlerOption {
	return func(c *HandlerConfig) {
		c.PanicHandler = h
	}
}

// WithContainerErrorHandler sets the error handler for container retrieval failures.
func WithContainerErrorHandler(h func(echo.Context, error) error) HandlerOption {
	return func(c *HandlerConfig) {
		c.ContainerErrorHandler = h
	}
}

// WithResolutionErrorHandler sets the error handler for controller resolution failures.
func WithResolutionErrorHandler(h func(echo.Context, error) error) HandlerOption {
	return func(c *HandlerConfig) {
		c.ResolutionErrorHandler = h
	}
}

func defaultHandlerConfig() *HandlerConfig {
	return &HandlerConfig{
		PanicRecovery: false,
		PanicHandler: func(c echo.Context, v any) error {
			slog.Error("panic in handler", "panic", v)
			return echo.NewHTTPError(http.StatusInternalServerError, "Internal Server Error")
		},
		ContainerErrorHandler: func(c echo.Context, err error) error {
			slog.Error("failed to get container from context", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Internal Server Error")
		},
		ResolutionErrorHandler: func(c echo.Context, err error) error {
			slog.Error("failed to resolve controller", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Internal Server Error")
		},
	}
}

// Handle wraps a controller method for type-safe resolution from the
// request container. The controller registered under id is resolved as a T
// from the container attached to the request context, fresh per request.
//
// The method signature should be: func(T, echo.Context) error
//
// Example:
//
//	var UserController = weaver.Define("UserController", newUserController).Deps(UserStore)
//
//	e.GET("/users/:id", weaverecho.Handle(UserController, (*userController).GetByID))
func Handle[T any](id weaver.Identifier, method func(T, echo.Context) error, opts ...HandlerOption) echo.HandlerFunc {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c echo.Context) (err error) {
		if cfg.PanicRecovery {
			defer func() {
				if v := recover(); v != nil {
					err = cfg.PanicHandler(c, v)
				}
			}()
		}

		container, containerErr := FromContext(c.Request().Context())
		if containerErr != nil {
			return cfg.ContainerErrorHandler(c, containerErr)
		}

		controller, resolveErr := weaver.Resolve[T](container, id)
		if resolveErr != nil {
			return cfg.ResolutionErrorHandler(c, resolveErr)
		}

		return method(controller, c)
	}
}
