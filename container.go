package weaver

import (
	"github.com/google/uuid"

	"github.com/baikenlabs/weaver/logger"
)

// Container owns a registry of identifiers and resolves against it.
// Every container's state is fully independent: there is no package-level
// default, so tests and requests can each hold their own instance.
//
// Container is NOT thread-safe. The registry is plain shared state meant
// for single-goroutine use; hand each goroutine its own container (see
// Clone) instead of synchronizing this one.
//
// Example:
//
//	c := weaver.New()
//	c.Register(weaver.Token("env"), map[string]string{"env": "dev"})
//	c.Register(Config)
//
//	cfg, err := c.Resolve(Config)
type Container struct {
	id      string
	entries map[Identifier]any
	log     logger.Logger
}

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger used for resolution diagnostics. Containers
// default to a no-op logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Container) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates an empty container.
func New(opts ...Option) *Container {
	c := &Container{
		id:      uuid.NewString(),
		entries: make(map[Identifier]any),
		log:     logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the container's unique instance id. It only appears in
// diagnostics.
func (c *Container) ID() string { return c.id }

// Register stores id in the registry.
//
// A Token stores the optional value verbatim; registering the same token
// again overwrites. A *Def must have a declared dependency list (see
// Def.Deps), otherwise registration fails with *ConfigurationError; the
// def then acts as its own descriptor and any value argument is ignored.
func (c *Container) Register(id Identifier, value ...any) error {
	if id == nil {
		return ConfigurationError{Cause: ErrIdentifierNil}
	}

	if def, ok := id.(*Def); ok {
		if def == nil {
			return ConfigurationError{Cause: ErrIdentifierNil}
		}
		if err := def.validate(); err != nil {
			return ConfigurationError{Id: def, Cause: err}
		}
		c.entries[def] = def
		return nil
	}

	c.entries[id] = optionalValue(value)
	return nil
}

// RegisterMock stores an overlay value for id, validating exactly like
// Register but always keeping the supplied value. Nested resolutions
// requested WithOverlay receive that value instead of a constructed
// instance, which is the test-substitution path.
func (c *Container) RegisterMock(id Identifier, value ...any) error {
	if id == nil {
		return ConfigurationError{Cause: ErrIdentifierNil}
	}

	if def, ok := id.(*Def); ok {
		if def == nil {
			return ConfigurationError{Cause: ErrIdentifierNil}
		}
		if err := def.validate(); err != nil {
			return ConfigurationError{Id: def, Cause: err}
		}
	}

	c.entries[id] = optionalValue(value)
	return nil
}

// Clear empties the registry. Defs themselves are untouched: bindings
// and dependency lists belong to the type, not to this container.
func (c *Container) Clear() {
	c.entries = make(map[Identifier]any)
}

// Contains reports whether id has a registry entry.
func (c *Container) Contains(id Identifier) bool {
	_, ok := c.entries[id]
	return ok
}

// Count returns the number of registry entries.
func (c *Container) Count() int {
	return len(c.entries)
}

// Clone returns a container with its own copy of the registry and the
// same logger. Clone and original do not observe each other's later
// changes, which gives goroutines, subtests, and HTTP requests isolated
// state without locking the registry.
func (c *Container) Clone() *Container {
	entries := make(map[Identifier]any, len(c.entries))
	for k, v := range c.entries {
		entries[k] = v
	}
	return &Container{
		id:      uuid.NewString(),
		entries: entries,
		log:     c.log,
	}
}

// optionalValue unwraps the variadic value parameter of Register and
// RegisterMock; absent means nil.
func optionalValue(value []any) any {
	if len(value) == 0 {
		return nil
	}
	return value[0]
}
