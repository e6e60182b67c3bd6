// Package fiber provides weaver integration for the Fiber web framework.
//
// This package provides middleware for creating request-scoped container
// clones and type-safe handler wrappers for resolving controllers.
//
// Example usage:
//
//	base := weaver.New()
//	base.Register(UserController)
//
//	app := fiber.New()
//	app.Use(weaverfiber.ContainerMiddleware(base))
//
//	app.Post("/login", weaverfiber.Handle(AuthController, (*authController).Login))
//	app.Get("/users/:id", weaverfiber.Handle(UserController, (*userController).GetByID))
package fiber

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/baikenlabs/weaver"
)

// containerKey is the key used to store the container in fiber.Ctx.Locals.
const containerKey = "weaver_container"

// ErrNoContainer is returned by Handle's container error handler when the
// request locals carry no container, which means ContainerMiddleware is
// not installed on the route.
var ErrNoContainer = errors.New("no container in request locals")

// Config holds the configuration for the container middleware.
type Config struct {
	// ErrorHandler is called when a request hook fails.
	// If nil, a default handler returning 500 Internal Server Error is used.
	ErrorHandler func(*fiber.Ctx, error) error

	// Hooks are functions that run after the request container is cloned.
	// They can be used to register request-scoped values, set user data, etc.
	Hooks []func(*weaver.Container, *fiber.Ctx) error
}

// Option configures the container middleware.
type Option func(*Config)

// WithErrorHandler sets the error handler for request hook failures.
func WithErrorHandler(h func(*fiber.Ctx, error) error) Option {
	return func(c *Config) {
		c.ErrorHandler = h
	}
}

// WithHook adds a hook function that runs against each request's container
// clone. Multiple hooks are executed in the order they are added.
func WithHook(hook func(*weaver.Container, *fiber.Ctx) error) Option {
	return func(c *Config) {
		c.Hooks = append(c.Hooks, hook)
	}
}

func defaultConfig() *Config {
	return &Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal Server Error",
			})
		},
		Hooks: nil,
	}
}

// ContainerMiddleware creates a Fiber middleware that clones the base
// container for each request. The clone is stored in fiber.Ctx.Locals and
// can be retrieved using FromContext.
//
// Because every request works on its own clone, handlers may register
// request-scoped values freely: the base container never observes them and
// concurrent requests never contend (weaver containers are not
// synchronized).
//
// Example:
//
//	app := fiber.New()
//	app.Use(weaverfiber.ContainerMiddleware(base))
func ContainerMiddleware(base *weaver.Container, opts ...Option) fiber.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *fiber.Ctx) error {
		container := base.Clone()

		// Store container in locals
		c.Locals(containerKey, container)

		// Run hooks
		for _, hook := range cfg.Hooks {
			if err := hook(container, c); err != nil {
				return cfg.ErrorHandler(c, err)
			}
		}

		return c.Next()
	}
}

// HandlerConfig holds configuration for the Handle wrapper.
type HandlerConfig struct {
	// PanicRecovery enables panic recovery in the handler.
	PanicRecovery bool

	// PanicHandler is called when a panic occurs (if PanicRecovery is true).
	PanicHandler func(*fiber.Ctx, any) error

	// ContainerErrorHandler is called when container retrieval fails.
	ContainerErrorHandler func(*fiber.Ctx, error) error

	// ResolutionErrorHandler is called when controller resolution fails.
	ResolutionErrorHandler func(*fiber.Ctx, error) error
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
func WithPanicHandler(h func(*fiber.Ctx, any) error) HandlerOption {
	return func(c *HandlerConfig) {
		c.PanicHandler = h
	}
}

// WithContainerErrorHandler sets the error handler for container retrieval failures.
func WithContainerErrorHandler(h func(*fiber.Ctx, error) error) HandlerOption {
	return func(c *HandlerConfig) {
		c.ContainerErrorHandler = h
	}
}

// WithResolutionErrorHandler sets the error handler for controller resolution failures.
func WithResolutionErrorHandler(h func(*fiber.Ctx, error) error) HandlerOption {
	return func(c *HandlerConfig) {
		c.ResolutionErrorHandler = h
	}
}

func defaultHandlerConfig() *HandlerConfig {
	return &HandlerConfig{
		PanicRecovery: false,
		PanicHandler: func(c *fiber.Ctx, v any) error {
			slog.Error("panic in handler", "panic", v)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal Server Error",
			})
		},
		ContainerErrorHandler: func(c *fiber.Ctx, err error) error {
			slog.Error("failed to get container from locals", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal Server Error",
			})
		},
		ResolutionErrorHandler: func(c *fiber.Ctx, err error) error {
			slog.Error("failed to resolve controller", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal Server Error",
			})
		},
	}
}

// Handle wraps a controller method for type-safe resolution from the
// request container. The controller registered under id is resolved as a T
// from the container stored in fiber.Ctx.Locals, fresh per request.
//
// The method signature should be: func(T, *fiber.Ctx) error
//
// Example:
//
//	var UserController = weaver.Define("UserController", newUserController).Deps(UserStore)
//
//	app.Get("/users/:id", weaverfiber.Handle(UserController, (*userController).GetByID))
func Handle[T any](id weaver.Identifier, method func(T, *fiber.Ctx) error, opts ...HandlerOption) fiber.Handler {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *fiber.Ctx) (err error) {
		if cfg.PanicRecovery {
			defer func() {
				if v := recover(); v != nil {
					err = cfg.PanicHandler(c, v)
				}
			}()
		}

		container := FromContext(c)
		if container == nil {
			return cfg.ContainerErrorHandler(c, ErrNoContainer)
		}

		controller, resolveErr := weaver.Resolve[T](container, id)
		if resolveErr != nil {
			return cfg.ResolutionErrorHandler(c, resolveErr)
		}

		return method(controller, c)
	}
}

// FromContext retrieves the request container from fiber.Ctx.Locals.
// This is useful when you need to resolve services manually.
//
// Example:
//
//	container := weaverfiber.FromContext(c)
//	userService := weaver.MustResolve[*UserService](container, UserService)
func FromContext(c *fiber.Ctx) *weaver.Container {
	containerVal := c.Locals(containerKey)
	if containerVal == nil {
		return nil
	}

	container, ok := containerVal.(*weaver.Container)
	if !ok {
		return nil
	}

	return container
}
