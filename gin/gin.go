// Package gin provides weaver integration for the Gin web framework.
//
// This package provides middleware for creating request-scoped container
// clones and type-safe handler wrappers for resolving controllers.
//
// Example usage:
//
//	base := weaver.New()
//	base.Register(UserController)
//
//	g := gin.New()
//	g.Use(weavergin.ContainerMiddleware(base))
//
//	g.POST("/login", weavergin.Handle(AuthController, (*authController).Login))
//	g.GET("/users/:id", weavergin.Handle(UserController, (*userController).GetByID))
package gin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

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
	ErrorHandler func(*gin.Context, error)

	// Hooks are functions that run after the request container is cloned.
	// They can be used to register request-scoped values, set user claims, etc.
	Hooks []func(*weaver.Container, *gin.Context) error
}

// Option configures the container middleware.
type Option func(*Config)

// WithErrorHandler sets the error handler for request hook failures.
func WithErrorHandler(h func(*gin.Context, error)) Option {
	return func(c *Config) {
		c.ErrorHandler = h
	}
}

// WithHook adds a hook function that runs against each request's container
// clone. Multiple hooks are executed in the order they are added.
//
// Example:
//
//	weavergin.ContainerMiddleware(base,
//	    weavergin.WithHook(func(container *weaver.Container, c *gin.Context) error {
//	        return container.Register(RequestID, c.GetHeader("X-Request-ID"))
//	    }),
//	)
func WithHook(hook func(*weaver.Container, *gin.Context) error) Option {
	return func(c *Config) {
		c.Hooks = append(c.Hooks, hook)
	}
}

func defaultConfig() *Config {
	return &Config{
		ErrorHandler: func(c *gin.Context, err error) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Internal Server Error",
			})
		},
		Hooks: nil,
	}
}

// ContainerMiddleware creates a gin.HandlerFunc that clones the base
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
//	g := gin.New()
//	g.Use(weavergin.ContainerMiddleware(base))
func ContainerMiddleware(base *weaver.Container, opts ...Option) gin.HandlerFunc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *gin.Context) {
		container := base.Clone()

		// Attach container to request context
		c.Request = c.Request.WithContext(NewContext(c.Request.Context(), container))

		// Run hooks
		for _, hook := range cfg.Hooks {
			if err := hook(container, c); err != nil {
				cfg.ErrorHandler(c, err)
				return
			}
		}

		c.Next()
	}
}

// HandlerConfig holds configuration for the Handle wrapper.
type HandlerConfig struct {
	// PanicRecovery enables panic recovery in the handler.
	// If true, panics are caught and handled by PanicHandler.
	PanicRecovery bool

	// PanicHandler is called when a panic occurs (if PanicRecovery is true).
	// If nil, a default handler returning 500 Internal Server Error is used.
	PanicHandler func(*gin.Context, any)

	// ContainerErrorHandler is called when container retrieval fails.
	// If nil, a default handler returning 500 Internal Server Error is used.
	ContainerErrorHandler func(*gin.Context, error)

	// ResolutionErrorHandler is called when controller resolution fails.
	// If nil, a default handler returning 500 Internal Server Error is used.
	ResolutionErrorHandler func(*gin.Context, error)
}

// HandlerOption configures the Handle wrapper.
type HandlerOption func(*HandlerConfig)

// WithPanicRecovery enables or disables panic recovery in the handler.
func WithPanicRecovery(enabled bool) HandlerOption {
	return func(c *HandlerConfig) {
		c.PanicRecovery = enabled
	}
}

// WithPanicHandler sets the handler for panics (requires WithPanicRecovery(true)).
func WithPanicHandler(h func(*gin.Context, any)) HandlerOption {
	return func(c *HandlerConfig) {
		c.PanicHandler = h
	}
}

// WithContainerErrorHandler sets the error handler for container retrieval failures.
func WithContainerErrorHandler(h func(*gin.Context, error)) HandlerOption {
	return func(c *HandlerConfig) {
		c.ContainerErrorHandler = h
	}
}

// WithResolutionErrorHandler sets the error handler for controller resolution failures.
func WithResolutionErrorHandler(h func(*gin.Context, error)) HandlerOption {
	return func(c *HandlerConfig) {
		c.ResolutionErrorHandler = h
	}
}

func defaultHandlerConfig() *HandlerConfig {
	return &HandlerConfig{
		PanicRecovery: false,
		PanicHandler: func(c *gin.Context, r any) {
			slog.Error("panic in handler", "panic", r)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Internal Server Error",
			})
		},
		ContainerErrorHandler: func(c *gin.Context, err error) {
			slog.Error("failed to get container from context", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Internal Server Error",
			})
		},
		ResolutionErrorHandler: func(c *gin.Context, err error) {
			slog.Error("failed to resolve controller", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Internal Server Error",
			})
		},
	}
}

// Handle wraps a controller method for type-safe resolution from the
// request container. The controller registered under id is resolved as a T
// from the container attached to the request context, fresh per request.
//
// The method signature should be: func(T, *gin.Context)
//
// Example:
//
//	var UserController = weaver.Define("UserController", newUserController).Deps(UserStore)
//
//	g.GET("/users/:id", weavergin.Handle(UserController, (*userController).GetByID))
func Handle[T any](id weaver.Identifier, method func(T, *gin.Context), opts ...HandlerOption) gin.HandlerFunc {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *gin.Context) {
		if cfg.PanicRecovery {
			defer func() {
				if r := recover(); r != nil {
					cfg.PanicHandler(c, r)
				}
			}()
		}

		container, err := FromContext(c.Request.Context())
		if err != nil {
			cfg.ContainerErrorHandler(c, err)
			return
		}

		controller, err := weaver.Resolve[T](container, id)
		if err != nil {
			cfg.ResolutionErrorHandler(c, err)
			return
		}

		method(controller, c)
	}
}
